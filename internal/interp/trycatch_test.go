package interp_test

import (
	"testing"

	"github.com/arm-asl/aslcore/internal/asltypes"
	"github.com/arm-asl/aslcore/internal/ast"
	"github.com/arm-asl/aslcore/internal/ienv"
	"github.com/arm-asl/aslcore/internal/interp"
)

func staticEnvWithException(name string) *asltypes.StaticEnv {
	s := asltypes.NewStaticEnv()
	s.Types["integer"] = asltypes.Int{Constraint: asltypes.UnConstrained{}}
	s.Types[name] = asltypes.Exception{}
	return s
}

func envWithStatic(static *asltypes.StaticEnv) *ienv.GlobalEnv {
	return ienv.NewGlobalEnv(static)
}

func TestEvalTryCatchBindsCaughtValue(t *testing.T) {
	it, b := newTestInterp()
	static := staticEnvWithException("MyExc")
	env := callEnv()
	env.Global = envWithStatic(static)

	body := &ast.SBlock{Body: &ast.SThrow{
		HasValue: true,
		Expr:     &ast.ELiteral{Value: ast.IntLiteral{Value: 9}},
		TypeName: "MyExc",
	}}
	tryStmt := &ast.STry{
		Body: body,
		Catchers: []ast.Catcher{{
			Binder:   "e",
			HasName:  true,
			TypeName: "MyExc",
			Body:     &ast.SBlock{Body: &ast.SReturn{Values: []ast.Expression{varExpr("e")}}},
		}},
	}

	m, err := it.EvalStmt(env, tryStmt)
	if err != nil {
		t.Fatalf("EvalStmt: %v", err)
	}
	if m.IsThrowing() {
		t.Fatalf("unexpected throw escaping try: %+v", m.Throw())
	}
	ctrl := m.Value()
	if ctrl.Kind != interp.Returning {
		t.Fatalf("expected Returning, got %v", ctrl.Kind)
	}
	if got := b.DebugValue(ctrl.Values[0]); got != "9" {
		t.Errorf("caught value = %s, want 9", got)
	}
}

func TestEvalTryOtherwiseRunsWhenNoCatcherMatches(t *testing.T) {
	it, b := newTestInterp()
	static := staticEnvWithException("MyExc")
	env := callEnv()
	env.Global = envWithStatic(static)

	body := &ast.SBlock{Body: &ast.SThrow{
		HasValue: true,
		Expr:     &ast.ELiteral{Value: ast.IntLiteral{Value: 1}},
		TypeName: "MyExc",
	}}
	tryStmt := &ast.STry{
		Body:      body,
		Catchers:  nil,
		Otherwise: &ast.SBlock{Body: &ast.SReturn{Values: []ast.Expression{intLit(77)}}},
	}

	m, err := it.EvalStmt(env, tryStmt)
	if err != nil {
		t.Fatalf("EvalStmt: %v", err)
	}
	ctrl := m.Value()
	if got := b.DebugValue(ctrl.Values[0]); got != "77" {
		t.Errorf("otherwise result = %s, want 77", got)
	}
}

func TestEvalTryUncaughtExceptionPropagates(t *testing.T) {
	it, _ := newTestInterp()
	static := staticEnvWithException("MyExc")
	static.Types["OtherExc"] = asltypes.Exception{}
	env := callEnv()
	env.Global = envWithStatic(static)

	body := &ast.SBlock{Body: &ast.SThrow{
		HasValue: true,
		Expr:     &ast.ELiteral{Value: ast.IntLiteral{Value: 1}},
		TypeName: "MyExc",
	}}
	tryStmt := &ast.STry{
		Body: body,
		Catchers: []ast.Catcher{{
			TypeName: "OtherExc",
			Body:     &ast.SBlock{Body: &ast.SReturn{Values: []ast.Expression{intLit(0)}}},
		}},
	}

	m, err := it.EvalStmt(env, tryStmt)
	if err != nil {
		t.Fatalf("EvalStmt: %v", err)
	}
	if !m.IsThrowing() {
		t.Fatal("expected the exception to propagate past a non-matching catcher")
	}
	if m.Throw().Type != "MyExc" {
		t.Errorf("propagated exception type = %q, want MyExc", m.Throw().Type)
	}
}

func TestEvalTryRethrowImplicitPreservesOriginal(t *testing.T) {
	it, _ := newTestInterp()
	static := staticEnvWithException("MyExc")
	env := callEnv()
	env.Global = envWithStatic(static)

	body := &ast.SBlock{Body: &ast.SThrow{
		HasValue: true,
		Expr:     &ast.ELiteral{Value: ast.IntLiteral{Value: 5}},
		TypeName: "MyExc",
	}}
	tryStmt := &ast.STry{
		Body: body,
		Catchers: []ast.Catcher{{
			TypeName: "MyExc",
			Body:     &ast.SBlock{Body: &ast.SThrow{HasValue: false}},
		}},
	}

	m, err := it.EvalStmt(env, tryStmt)
	if err != nil {
		t.Fatalf("EvalStmt: %v", err)
	}
	if !m.IsThrowing() {
		t.Fatal("expected a bare rethrow to re-raise the original exception")
	}
	if m.Throw() == nil || m.Throw().Type != "MyExc" {
		t.Errorf("rethrown exception = %+v, want type MyExc", m.Throw())
	}
}
