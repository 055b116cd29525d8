package interp_test

import (
	"testing"

	"github.com/arm-asl/aslcore/internal/ast"
	"github.com/arm-asl/aslcore/internal/interp"
)

func TestEvalCallWithParams(t *testing.T) {
	it, b := newTestInterp()
	env := callEnv()

	decl := &ast.FuncDecl{
		Name:            "double",
		Params:          []ast.Param{{Name: "x", TypeName: "integer"}},
		ReturnTypeNames: []string{"integer"},
		Body: &ast.SBlock{Body: &ast.SReturn{Values: []ast.Expression{
			&ast.EBinop{Op: "+", Left: varExpr("x"), Right: varExpr("x")},
		}}},
	}
	env.Global.RegisterFunc("double", decl)

	m, err := it.EvalCall(env, noPos(), "double", []ast.Expression{intLit(21)}, nil)
	if err != nil {
		t.Fatalf("EvalCall: %v", err)
	}
	if m.IsThrowing() {
		t.Fatalf("unexpected throw: %+v", m.Throw())
	}
	r := m.Value()
	if len(r.Values) != 1 {
		t.Fatalf("got %d return values, want 1", len(r.Values))
	}
	if got := b.DebugValue(r.Values[0]); got != "42" {
		t.Errorf("double(21) = %s, want 42", got)
	}
}

func TestEvalCallArityMismatch(t *testing.T) {
	it, _ := newTestInterp()
	env := callEnv()

	decl := &ast.FuncDecl{
		Name:            "needsOne",
		Params:          []ast.Param{{Name: "x", TypeName: "integer"}},
		ReturnTypeNames: []string{"integer"},
		Body:            &ast.SBlock{Body: &ast.SReturn{Values: []ast.Expression{intLit(0)}}},
	}
	env.Global.RegisterFunc("needsOne", decl)

	_, err := it.EvalCall(env, noPos(), "needsOne", nil, nil)
	if err == nil {
		t.Fatal("expected a BadArity error, got nil")
	}
	ee, ok := err.(*interp.EvalError)
	if !ok || ee.Code != interp.BadArity {
		t.Errorf("err = %v, want *EvalError{Code: BadArity}", err)
	}
}

func TestEvalCallUndefinedSubprogram(t *testing.T) {
	it, _ := newTestInterp()
	env := callEnv()

	_, err := it.EvalCall(env, noPos(), "doesNotExist", nil, nil)
	if err == nil {
		t.Fatal("expected an UndefinedIdentifier error, got nil")
	}
	ee, ok := err.(*interp.EvalError)
	if !ok || ee.Code != interp.UndefinedIdentifier {
		t.Errorf("err = %v, want *EvalError{Code: UndefinedIdentifier}", err)
	}
}

func TestFuncEntryInstanceCounterIsUniquePerCall(t *testing.T) {
	it, _ := newTestInterp()
	env := callEnv()

	decl := &ast.FuncDecl{
		Name:            "noop",
		ReturnTypeNames: []string{"integer"},
		Body:            &ast.SBlock{Body: &ast.SReturn{Values: []ast.Expression{intLit(0)}}},
	}
	env.Global.RegisterFunc("noop", decl)

	if _, err := it.EvalCall(env, noPos(), "noop", nil, nil); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := it.EvalCall(env, noPos(), "noop", nil, nil); err != nil {
		t.Fatalf("second call: %v", err)
	}

	fe, ok := env.Global.Func("noop")
	if !ok {
		t.Fatal("func entry vanished")
	}
	if got := fe.NextInstance(); got != 3 {
		t.Errorf("third NextInstance() = %d, want 3 (two prior calls + this one)", got)
	}
}
