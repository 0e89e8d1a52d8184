// Package jisperr defines the typed failure taxonomy of spec.md §7 and the
// fatal diagnostic path that prints a banner, a best-effort stack trace,
// and a document snapshot before the process exits. Its typed-by-small-enum
// error shape (a Kind plus an Error that implements error) follows
// go-interpreter-wagon/exec/vm.go's InvalidFunctionIndexError /
// InvalidReturnTypeError pattern rather than the teacher's bare
// fmt.Errorf wrapping, since the core here is required to terminate on a
// specific symbolic kind (§7), not just propagate a wrapped cause.
package jisperr

import "fmt"

// Kind enumerates the failure taxonomy of spec.md §7.
type Kind string

const (
	KindInvalidArg      Kind = "InvalidArg"
	KindMissingRoot     Kind = "MissingRoot"
	KindMissingStack    Kind = "MissingStack"
	KindStackUnderflow  Kind = "StackUnderflow"
	KindTypeMismatch    Kind = "TypeMismatch"
	KindPathNotFound    Kind = "PathNotFound"
	KindPathOutOfRange  Kind = "PathOutOfRange"
	KindArityMismatch   Kind = "ArityMismatch"
	KindIO              Kind = "IO"
	KindParse           Kind = "Parse"
	KindHandleOverflow  Kind = "HandleOverflow"
	KindHandleUnderflow Kind = "HandleUnderflow"
	KindInternal        Kind = "Internal"
)

// Error is the structured failure type every operation returns. It
// implements error and carries enough detail for both the fatal banner
// (§7) and the structured error object the test/print_error operations
// exchange (§6).
type Error struct {
	Kind    Kind
	Message string
	// Pos is set for Kind == KindParse when a byte offset is known.
	Pos *Position
	// Details carries op-specific extras, e.g. {"expected":..., "actual":...}
	// for a test mismatch.
	Details map[string]any
	cause   error
}

// Position is a parse error's source location (spec.md §6 "source position
// of a parse error").
type Position struct {
	Offset int64
	Line   int64
	Column int64
}

// PositionFromOffset computes a 1-based line/column for a byte offset into
// src, the way a parse error's offset (from encoding/json's *json.SyntaxError,
// the only error type whose offset the callers pass in) is turned into the
// source position spec.md §6/§7 require on a fatal parse failure.
func PositionFromOffset(src []byte, offset int64) Position {
	pos := Position{Offset: offset, Line: 1, Column: 1}
	if offset < 0 {
		return pos
	}
	limit := offset
	if int64(len(src)) < limit {
		limit = int64(len(src))
	}
	for i := int64(0); i < limit; i++ {
		if src[i] == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	return pos
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil jisp error>"
	}
	if e.Pos != nil {
		return fmt.Sprintf("%s: %s (line %d, col %d)", e.Kind, e.Message, e.Pos.Line, e.Pos.Column)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// New builds an *Error with the given kind and formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error that unwraps to cause, preserving %w-style chains
// through errors.Is/errors.As while still carrying a symbolic Kind.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

// WithDetails attaches structured detail fields (e.g. expected/actual for a
// test mismatch) and returns the same *Error for chaining.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// WithPosition attaches a parse position and returns the same *Error.
func (e *Error) WithPosition(pos Position) *Error {
	e.Pos = &pos
	return e
}

// AsStruct renders the structured error object shape from spec.md §6,
// consumed by print_error and produced by a failed test operation.
func (e *Error) AsStruct() map[string]any {
	out := map[string]any{
		"error":   true,
		"kind":    string(e.Kind),
		"message": e.Message,
	}
	if e.Details != nil {
		out["details"] = e.Details
	}
	return out
}
