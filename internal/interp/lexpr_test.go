package interp_test

import (
	"testing"

	"github.com/arm-asl/aslcore/internal/ast"
	"github.com/arm-asl/aslcore/internal/backend"
	"github.com/arm-asl/aslcore/internal/backend/native"
	"github.com/arm-asl/aslcore/internal/ienv"
)

func TestEvalLExprSliceWriteBack(t *testing.T) {
	it, b := newTestInterp()
	env := callEnv()

	initial, err := b.FromLiteral(ast.BitsLiteralValue{Bits: "00000000"})
	if err != nil {
		t.Fatalf("FromLiteral: %v", err)
	}
	ienv.DeclareLocal("s", initial, env)

	rhs, err := b.FromLiteral(ast.BitsLiteralValue{Bits: "1111"})
	if err != nil {
		t.Fatalf("FromLiteral: %v", err)
	}

	le := &ast.LSlice{
		Bits:   &ast.LVar{Name: "s"},
		Slices: []ast.Slice{{High: intLit(3), Low: intLit(0)}},
	}
	out, err := it.EvalLExpr(env, le, rhs)
	if err != nil {
		t.Fatalf("EvalLExpr: %v", err)
	}

	_, v := ienv.Find("s", out)
	if got := b.DebugValue(v); got != "'00001111'" {
		t.Errorf("s after slice write = %s, want '00001111'", got)
	}
}

func buildPairVector(b *native.Backend, x, y int64) backend.Value {
	return b.CreateVector([]backend.Value{b.FromInt(x), b.FromInt(y)})
}

func TestEvalLExprDestructuring(t *testing.T) {
	it, b := newTestInterp()
	env := callEnv()
	ienv.DeclareLocal("x", b.FromInt(0), env)
	ienv.DeclareLocal("y", b.FromInt(0), env)

	pair := buildPairVector(b, 7, 9)
	le := &ast.LDestructuring{Elems: []ast.LExpr{
		&ast.LVar{Name: "x"},
		&ast.LVar{Name: "y"},
	}}
	out, err := it.EvalLExpr(env, le, pair)
	if err != nil {
		t.Fatalf("EvalLExpr: %v", err)
	}
	_, xv := ienv.Find("x", out)
	_, yv := ienv.Find("y", out)
	if b.DebugValue(xv) != "7" || b.DebugValue(yv) != "9" {
		t.Errorf("destructured (x, y) = (%s, %s), want (7, 9)", b.DebugValue(xv), b.DebugValue(yv))
	}
}

func TestProtectedMultiAssignArityMismatch(t *testing.T) {
	it, b := newTestInterp()
	env := callEnv()
	ienv.DeclareLocal("x", b.FromInt(0), env)

	les := []ast.LExpr{&ast.LVar{Name: "x"}}
	_, err := it.ProtectedMultiAssign(env, les, nil, noPos())
	if err == nil {
		t.Fatal("expected a BadArity error for a 1-lexpr/0-value mismatch")
	}
}
