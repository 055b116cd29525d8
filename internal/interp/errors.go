// Package interp is the semantic evaluator core (§4): expression, lexpr,
// pattern and statement evaluation, the call engine, and base-value
// construction, all parameterised over a backend.Backend.
package interp

import (
	"fmt"

	"github.com/arm-asl/aslcore/internal/token"
)

// Code is one of §7's fatal error codes. Every EvalError is fatal: the
// core never recovers from one internally (programmatic ASL exceptions
// are a separate channel, see MaybeExc).
type Code string

const (
	UndefinedIdentifier      Code = "UndefinedIdentifier"
	MismatchType             Code = "MismatchType"
	TypeInferenceNeeded      Code = "TypeInferenceNeeded"
	UnsupportedExpr          Code = "UnsupportedExpr"
	BadArity                 Code = "BadArity"
	AssertionFailed          Code = "AssertionFailed"
	UnexpectedSideEffect     Code = "UnexpectedSideEffect"
	BaseValueEmptyType       Code = "BaseValueEmptyType"
	UnrespectedParserInvar   Code = "UnrespectedParserInvariant"
	MismatchedReturnValue    Code = "MismatchedReturnValue"
	UncaughtException       Code = "UncaughtException"
)

// EvalError is a fatal core error, annotated with source position (§7).
type EvalError struct {
	Code Code
	Pos  token.Position
	Msg  string
}

func (e *EvalError) Error() string {
	if e.Pos.IsZero() {
		return fmt.Sprintf("%s: %s", e.Code, e.Msg)
	}
	return fmt.Sprintf("%s at %s: %s", e.Code, e.Pos, e.Msg)
}

func fatal(code Code, pos token.Position, format string, args ...any) *EvalError {
	return &EvalError{Code: code, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// wrapBackend lifts a backend.EvalErr (or any other backend-originated
// error) into an EvalError the driver can report uniformly. The backend
// itself doesn't know §7's taxonomy (see internal/backend doc comment),
// so anything it returns that isn't already an *EvalError is treated as
// an UnrespectedParserInvariant — a backend operation should only ever
// fail when the AST/type-checker invariants it relies on were violated.
func wrapBackend(pos token.Position, err error) error {
	if err == nil {
		return nil
	}
	if ee, ok := err.(*EvalError); ok {
		return ee
	}
	return fatal(UnrespectedParserInvar, pos, "%s", err.Error())
}
