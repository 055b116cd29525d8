package interp_test

import (
	"testing"

	"github.com/arm-asl/aslcore/internal/ast"
	"github.com/arm-asl/aslcore/internal/ienv"
	"github.com/arm-asl/aslcore/internal/interp"
)

func callEnv() ienv.Env {
	return ienv.Env{Local: ienv.NewCallLocal(ienv.LocalScope("test", 0)), Global: rootEnv().Global}
}

func varExpr(name string) ast.Expression { return &ast.EVar{Name: name} }

// sum 1..5 via a for-loop, checked by reading the declared accumulator
// back out through a trailing SReturn.
func TestEvalForLoopSum(t *testing.T) {
	it, b := newTestInterp()
	env := callEnv()

	decl := &ast.SDecl{
		Kind: "var",
		Item: ast.LDITyped{Inner: ast.LDIVar{Name: "r"}, TypeName: "integer"},
		Init: intLit(0),
	}
	loop := &ast.SFor{
		Name:      "i",
		Low:       intLit(1),
		High:      intLit(5),
		Direction: ast.ForUp,
		Body: &ast.SBlock{Body: &ast.SAssign{
			LHS: &ast.LVar{Name: "r"},
			RHS: &ast.EBinop{Op: "+", Left: varExpr("r"), Right: varExpr("i")},
		}},
	}
	ret := &ast.SReturn{Values: []ast.Expression{varExpr("r")}}
	prog := &ast.SSeq{First: decl, Second: &ast.SSeq{First: loop, Second: ret}}

	m, err := it.EvalStmt(env, prog)
	if err != nil {
		t.Fatalf("EvalStmt: %v", err)
	}
	if m.IsThrowing() {
		t.Fatalf("unexpected throw: %+v", m.Throw())
	}
	ctrl := m.Value()
	if ctrl.Kind != interp.Returning {
		t.Fatalf("expected Returning control, got %v", ctrl.Kind)
	}
	if got := b.DebugValue(ctrl.Values[0]); got != "15" {
		t.Errorf("sum 1..5 = %s, want 15", got)
	}
}

func TestEvalForLoopDownDirection(t *testing.T) {
	it, b := newTestInterp()
	env := callEnv()

	decl := &ast.SDecl{
		Kind: "var",
		Item: ast.LDITyped{Inner: ast.LDIVar{Name: "trace"}, TypeName: "integer"},
		Init: intLit(0),
	}
	loop := &ast.SFor{
		Name:      "i",
		Low:       intLit(1),
		High:      intLit(3),
		Direction: ast.ForDown,
		Body: &ast.SBlock{Body: &ast.SAssign{
			LHS: &ast.LVar{Name: "trace"},
			RHS: &ast.EBinop{Op: "+", Left: &ast.EBinop{Op: "*", Left: varExpr("trace"), Right: intLit(10)}, Right: varExpr("i")},
		}},
	}
	ret := &ast.SReturn{Values: []ast.Expression{varExpr("trace")}}
	prog := &ast.SSeq{First: decl, Second: &ast.SSeq{First: loop, Second: ret}}

	m, err := it.EvalStmt(env, prog)
	if err != nil {
		t.Fatalf("EvalStmt: %v", err)
	}
	ctrl := m.Value()
	// descending 3,2,1 folded left gives digits "321"
	if got := b.DebugValue(ctrl.Values[0]); got != "321" {
		t.Errorf("descending trace = %s, want 321", got)
	}
}

func TestEvalWhileLoop(t *testing.T) {
	it, b := newTestInterp()
	env := callEnv()

	decl := &ast.SDecl{
		Kind: "var",
		Item: ast.LDITyped{Inner: ast.LDIVar{Name: "n"}, TypeName: "integer"},
		Init: intLit(0),
	}
	loop := &ast.SWhile{
		Cond: &ast.EBinop{Op: "<", Left: varExpr("n"), Right: intLit(4)},
		Body: &ast.SBlock{Body: &ast.SAssign{
			LHS: &ast.LVar{Name: "n"},
			RHS: &ast.EBinop{Op: "+", Left: varExpr("n"), Right: intLit(1)},
		}},
	}
	ret := &ast.SReturn{Values: []ast.Expression{varExpr("n")}}
	prog := &ast.SSeq{First: decl, Second: &ast.SSeq{First: loop, Second: ret}}

	m, err := it.EvalStmt(env, prog)
	if err != nil {
		t.Fatalf("EvalStmt: %v", err)
	}
	ctrl := m.Value()
	if got := b.DebugValue(ctrl.Values[0]); got != "4" {
		t.Errorf("while-loop result = %s, want 4", got)
	}
}

func TestEvalRepeatRunsBodyAtLeastOnce(t *testing.T) {
	it, b := newTestInterp()
	env := callEnv()

	decl := &ast.SDecl{
		Kind: "var",
		Item: ast.LDITyped{Inner: ast.LDIVar{Name: "n"}, TypeName: "integer"},
		Init: intLit(0),
	}
	loop := &ast.SRepeat{
		Cond: &ast.EBinop{Op: "==", Left: intLit(1), Right: intLit(1)},
		Body: &ast.SBlock{Body: &ast.SAssign{
			LHS: &ast.LVar{Name: "n"},
			RHS: &ast.EBinop{Op: "+", Left: varExpr("n"), Right: intLit(1)},
		}},
	}
	ret := &ast.SReturn{Values: []ast.Expression{varExpr("n")}}
	prog := &ast.SSeq{First: decl, Second: &ast.SSeq{First: loop, Second: ret}}

	m, err := it.EvalStmt(env, prog)
	if err != nil {
		t.Fatalf("EvalStmt: %v", err)
	}
	ctrl := m.Value()
	if got := b.DebugValue(ctrl.Values[0]); got != "1" {
		t.Errorf("repeat-until-true body ran %s times, want 1", got)
	}
}
