package stdlib

import (
	"time"

	"github.com/dustin/go-humanize"

	"rossa/internal/extern"
	"rossa/internal/intern"
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// RegisterHumanize binds the `humanize` library: humanize_bytes,
// humanize_duration, humanize_time. Like uuid, the teacher's go.mod
// carries github.com/dustin/go-humanize without using it; this module
// adopts it (spec.md DOMAIN STACK table).
func RegisterHumanize(reg *extern.Registry) {
	reg.Register("humanize", "bytes", humanizeBytes)
	reg.Register("humanize", "duration", humanizeDuration)
	reg.Register("humanize", "time", humanizeTime)
}

func humanizeBytes(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
	n, err := argNumber(args, 0, "humanize_bytes")
	if err != nil {
		return value.Nil, err
	}
	return value.Str(humanize.Bytes(uint64(n))), nil
}

func humanizeDuration(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
	seconds, err := argNumber(args, 0, "humanize_duration")
	if err != nil {
		return value.Nil, err
	}
	return value.Str(humanize.RelTime(time.Now(), time.Now().Add(time.Duration(seconds*float64(time.Second))), "", "")), nil
}

// humanizeTime renders a Unix-epoch-seconds Number as a relative "3 hours
// ago" style string.
func humanizeTime(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
	epoch, err := argNumber(args, 0, "humanize_time")
	if err != nil {
		return value.Nil, err
	}
	return value.Str(humanize.Time(time.Unix(int64(epoch), 0))), nil
}
