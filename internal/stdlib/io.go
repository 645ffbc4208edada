package stdlib

import (
	"fmt"
	"os"

	"rossa/internal/extern"
	"rossa/internal/intern"
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// RegisterIO binds the `io` library: io_read_file, io_write_file,
// io_exists — plain os, no third-party contender appears in the pack for
// file I/O (spec.md DOMAIN STACK table).
func RegisterIO(reg *extern.Registry) {
	reg.Register("io", "read_file", ioReadFile)
	reg.Register("io", "write_file", ioWriteFile)
	reg.Register("io", "exists", ioExists)
}

func ioReadFile(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
	path, err := argString(args, 0, "io_read_file")
	if err != nil {
		return value.Nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return value.Nil, fmt.Errorf("io_read_file: %w", err)
	}
	return value.Str(string(data)), nil
}

func ioWriteFile(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
	path, err := argString(args, 0, "io_write_file")
	if err != nil {
		return value.Nil, err
	}
	contents, err := argString(args, 1, "io_write_file")
	if err != nil {
		return value.Nil, err
	}
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		return value.Nil, fmt.Errorf("io_write_file: %w", err)
	}
	return value.Bool(true), nil
}

func ioExists(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
	path, err := argString(args, 0, "io_exists")
	if err != nil {
		return value.Nil, err
	}
	_, err = os.Stat(path)
	return value.Bool(err == nil), nil
}
