package interp

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/arm-asl/aslcore/internal/backend"
	"github.com/arm-asl/aslcore/internal/ienv"
	"github.com/arm-asl/aslcore/internal/instr"
)

// Interp bundles everything the evaluator functions close over: the
// backend they're parameterised by (§2.1, §9 "dynamic dispatch on
// backends → interface abstraction"), the instrumentation sink each rule
// firing reports through (§6), and the configured unroll budget (§6).
type Interp struct {
	B      backend.Backend
	Instr  instr.Sink
	Unroll int
	Prims  map[string]backend.Primitive

	// LangV0 selects the §9 Open-Question V0 lexpr rule: an assignment to
	// an undeclared variable promotes it to a local declaration instead of
	// raising UndefinedIdentifier. Off by default (V1 semantics); set this
	// only for explicit V0 programs.
	LangV0 bool

	// Out receives SPrint output. nil discards it.
	Out io.Writer
}

// nextThrowName mints the "freshly generated identifier guaranteed unique
// per throw" §4.5 calls for: a UUID-suffixed synthetic name.
func (it *Interp) nextThrowName() string {
	return "throw$" + uuid.NewString()
}

// New builds an Interp. sink may be nil, in which case instr.NoopSink is
// used (§6: "a no-op sink is valid").
func New(b backend.Backend, sink instr.Sink, unroll int) *Interp {
	if sink == nil {
		sink = instr.NoopSink{}
	}
	if unroll <= 0 {
		unroll = 1
	}
	prims := make(map[string]backend.Primitive)
	for _, p := range b.Primitives() {
		prims[p.Decl.Name] = p
	}
	return &Interp{B: b, Instr: sink, Unroll: unroll, Prims: prims}
}

// returnName builds the synthetic return-<i> identifier the statement
// and call evaluators write through on a subprogram return (§4.5, §4.6,
// §8 "Return-effect emission").
func returnName(i int) string { return fmt.Sprintf("return-%d", i) }

// rule wraps one semantics-rule firing through the instrumentation sink
// (§6 Instr.use_with), threading the fallible body's error straight
// through.
func (it *Interp) rule(name string, fn func() error) error {
	return it.Instr.UseWith(name, fn)
}

// ReadFrom is the (value, identifier, scope) provenance triple recorded
// when a value is returned, for downstream read-effect emission (§3).
type ReadFrom struct {
	Value backend.Value
	Name  string
	Scope ienv.Scope
}

// ThrowInfo pairs a thrown value's provenance with its dynamic type name.
// A nil *ThrowInfo on a Throwing MaybeExc means "None" — the implicit
// rethrow signal of a bare `throw;` inside a catch body (§3, §4.5.2).
type ThrowInfo struct {
	Val  ReadFrom
	Type string
}

// MaybeExc is §3's `maybe-exception T`: either Normal(v) or
// Throwing(throw, env). Go's type parameters stand in for the tagged
// variant (§9).
type MaybeExc[T any] struct {
	throwing bool
	throw    *ThrowInfo
	env      ienv.Env
	val      T
}

func Normal[T any](v T) MaybeExc[T] { return MaybeExc[T]{val: v} }

func Throwing[T any](throw *ThrowInfo, env ienv.Env) MaybeExc[T] {
	return MaybeExc[T]{throwing: true, throw: throw, env: env}
}

func (m MaybeExc[T]) IsThrowing() bool  { return m.throwing }
func (m MaybeExc[T]) Value() T          { return m.val }
func (m MaybeExc[T]) Throw() *ThrowInfo { return m.throw }
func (m MaybeExc[T]) Env() ienv.Env     { return m.env }

// mapExc transforms the Normal payload of a MaybeExc, passing Throwing
// through unchanged. The evaluators in this package test IsThrowing at
// each step and do not call it.
func mapExc[A, B any](m MaybeExc[A], fn func(A) B) MaybeExc[B] {
	if m.throwing {
		return Throwing[B](m.throw, m.env)
	}
	return Normal(fn(m.val))
}

// ExprResult is eval_expr's Normal payload: the produced value plus the
// (possibly mutated-global) environment threaded through it (§4.2).
type ExprResult struct {
	Value backend.Value
	Env   ienv.Env
}

// ControlKind tags a Control as Continuing or Returning (§3, §9: "never
// encode via sentinel or by re-throwing").
type ControlKind int

const (
	Continuing ControlKind = iota
	Returning
)

// Control is the statement evaluator's control-flow state (§3).
type Control struct {
	Kind   ControlKind
	Env    ienv.Env        // valid when Kind == Continuing
	Values []backend.Value // valid when Kind == Returning
	Global *ienv.GlobalEnv // valid when Kind == Returning
}

func ContinuingWith(env ienv.Env) Control { return Control{Kind: Continuing, Env: env} }

func ReturningWith(values []backend.Value, global *ienv.GlobalEnv) Control {
	return Control{Kind: Returning, Values: values, Global: global}
}
