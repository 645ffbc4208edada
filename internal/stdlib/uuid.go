package stdlib

import (
	"fmt"

	"github.com/google/uuid"

	"rossa/internal/extern"
	"rossa/internal/intern"
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// RegisterUUID binds the `uuid` library: uuid_new, uuid_parse. The
// teacher's go.mod carries github.com/google/uuid without exercising it
// anywhere in its own source; this module is the adoption site (spec.md
// DOMAIN STACK table).
func RegisterUUID(reg *extern.Registry) {
	reg.Register("uuid", "new", uuidNew)
	reg.Register("uuid", "parse", uuidParse)
}

func uuidNew(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
	return value.Str(uuid.NewString()), nil
}

func uuidParse(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
	s, err := argString(args, 0, "uuid_parse")
	if err != nil {
		return value.Nil, err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return value.Nil, fmt.Errorf("uuid_parse: %w", err)
	}
	return value.Str(id.String()), nil
}
