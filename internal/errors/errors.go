// Package errors defines the runtime error value threaded through the
// lexer, parser, and evaluator, adapted from sentra's
// internal/errors/errors.go (SentraError -> RossaError): a typed error
// kind, a source location taken from the offending token, and a call-stack
// snapshot. Pretty-printing is a host concern (spec.md §1) — Error()
// produces a plain single-line message; hosts that want colored,
// source-annotated output render RossaError's fields themselves.
package errors

import (
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"rossa/internal/token"
	"rossa/internal/trace"
)

// Kind classifies a RossaError for host-side dispatch; the wire-level
// contract is still "one error value, a message, a token, a trace"
// (spec.md §7) — Kind is metadata, not a distinct Go error type.
type Kind string

const (
	LexError       Kind = "LexError"
	ParseError     Kind = "ParseError"
	NameError      Kind = "NameError"
	TypeError      Kind = "TypeError"
	OverloadError  Kind = "OverloadError"
	BoundsError    Kind = "BoundsError"
	UserThrow      Kind = "UserThrow"
	ExtensionError Kind = "ExtensionError"
)

// RossaError is the single runtime-error value internally; spec.md §7:
// "All are a single runtime-error value internally (message + token +
// trace); the kind is conveyed only by message text."  Kind is carried
// anyway as structured metadata for host tooling, but two RossaErrors
// with the same Kind may have arbitrarily different messages, and callers
// must not switch on Kind to drive language semantics (try/catch only
// ever sees the message string, per spec.md §7).
type RossaError struct {
	Kind    Kind
	Message string
	Token   token.Token
	Stack   []trace.Frame
	cause   error
}

// New builds a RossaError at tok with the given kind and formatted
// message.
func New(kind Kind, tok token.Token, format string, args ...interface{}) *RossaError {
	return &RossaError{Kind: kind, Message: fmt.Sprintf(format, args...), Token: tok}
}

// Wrap attaches cause (typically from an extension callback) the way
// github.com/pkg/errors.Wrap would, preserving it for inspection while
// keeping the RossaError's own Message as the user-facing text (spec.md
// "Extension errors": "extension callback raised").
func Wrap(kind Kind, tok token.Token, cause error, format string, args ...interface{}) *RossaError {
	return &RossaError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Token:   tok,
		cause:   pkgerrors.WithStack(cause),
	}
}

// WithStack attaches a call-frame snapshot captured at throw time.
func (e *RossaError) WithStack(stack []trace.Frame) *RossaError {
	e.Stack = stack
	return e
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/As.
func (e *RossaError) Unwrap() error { return e.cause }

// Error implements the error interface with a single-line rendering;
// pretty, colorized, source-annotated rendering is left to the host
// (spec.md §1, §6.4).
func (e *RossaError) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Token.File != "" || e.Token.Line != 0 {
		fmt.Fprintf(&sb, " (at %s:%d:%d)", e.Token.File, e.Token.Line, e.Token.Column)
	}
	for i := len(e.Stack) - 1; i >= 0; i-- {
		f := e.Stack[i]
		fmt.Fprintf(&sb, "\n  in %s (%s:%d)", frameName(f), f.At.File, f.At.Line)
	}
	return sb.String()
}

func frameName(f trace.Frame) string {
	if f.Name == "" {
		return "<anonymous>"
	}
	return f.Name
}

// ParseToken is the sentinel used by the parser when a diagnostic should
// render against "the previous token" (spec.md §7: "Parse errors are
// surfaced with token.type = NULL to mean 'use the previous token'").
var ParseToken = token.Token{Kind: ""}
