// Package backend declares the B contract of §6: the pluggable value
// algebra, effect-binder discipline, and trace hooks the core evaluator
// is parameterised over. Nothing in this package is itself runnable — see
// internal/backend/native for a concrete instance.
package backend

import (
	"github.com/arm-asl/aslcore/internal/ast"
	"github.com/arm-asl/aslcore/internal/asltypes"
	"github.com/arm-asl/aslcore/internal/ienv"
)

// Value is an opaque backend value (§3). The core never inspects one
// except through the operations below.
type Value = ienv.Value

// EvalErr is returned by any backend operation that can fail for a
// reason the core needs to translate into one of §7's fatal codes (the
// core wraps these; the backend itself does not know the taxonomy).
type EvalErr struct {
	Msg string
}

func (e *EvalErr) Error() string { return e.Msg }

// FieldValue is one field of a record being constructed.
type FieldValue struct {
	Name  string
	Value Value
}

// SEFEval evaluates an AST expression side-effect-free and returns a
// backend value, for use inside backend operations that need to resolve
// a length or bound expression themselves (UnknownOfType's bitvector
// length, for instance). It mirrors the core's own eval_expr_sef (§4.2)
// but is passed in as a callback so the backend package need not depend
// on the evaluator.
type SEFEval func(e ast.Expression) (Value, error)

// Primitive pairs a subprogram declaration with the backend's native
// implementation (§6: "a list of (declaration, runtime_fn) pairs; the
// evaluator prepends their declarations to the AST").
type Primitive struct {
	Decl *ast.FuncDecl
	Run  func(args []Value) ([]Value, error)
}

// Backend is the B contract (§6).
type Backend interface {
	// Value construction from literals and concrete integers.
	FromLiteral(lit ast.Literal) (Value, error)
	FromInt(i int64) Value
	ToInt(v Value) (int64, bool) // partial: v_to_int

	// Operators, delegated from EBinop/EUnop.
	BinOp(op string, l, r Value) (Value, error)
	UnOp(op string, v Value) (Value, error)

	// Bitvector operations.
	ReadFromBitvector(v Value, slices []ast.Slice, sef SEFEval) (Value, error)
	WriteToBitvector(v Value, slices []ast.Slice, newBits Value, sef SEFEval) (Value, error)
	BitvectorLength(v Value) (int, error)
	ConcatBitvectors(vs []Value) (Value, error)

	// Structured-value operations.
	GetIndex(v Value, i int) (Value, error)
	SetIndex(v Value, i int, nv Value) (Value, error)
	GetField(v Value, name string) (Value, error)
	SetField(v Value, name string, nv Value) (Value, error)
	CreateRecord(typeName string, fields []FieldValue) Value
	CreateVector(elems []Value) Value

	// UnknownOfType produces a don't-care value of t (§4.2 `UNKNOWN`),
	// using sef to resolve any length/bound sub-expressions of t.
	UnknownOfType(t asltypes.Type, sef SEFEval) (Value, error)

	IsUndetermined(v Value) bool
	DebugValue(v Value) string

	// Effect primitives (§5).
	BindSeq(label string, fn func() (Value, error)) (Value, error)
	BindData(label string, fn func() (Value, error)) (Value, error)
	BindCtrl(label string, fn func() (Value, error)) (Value, error)
	ProdPar(left, right func() (Value, error)) (Value, Value, error)
	// Choice materialises a (possibly undetermined) boolean condition to
	// a concrete decision for branch selection; determined reports
	// whether v's truth value was statically known.
	Choice(v Value) (decision bool, determined bool)
	Commit(label string)
	WarnT(msg string)

	// Trace hooks (§6), invoked on every identifier access.
	OnReadIdentifier(name string, scope ienv.Scope, v Value)
	OnWriteIdentifier(name string, scope ienv.Scope, v Value)

	// Primitives the evaluator prepends to the AST (§6).
	Primitives() []Primitive
}
