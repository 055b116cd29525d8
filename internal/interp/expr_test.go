package interp_test

import (
	"testing"

	"github.com/arm-asl/aslcore/internal/ast"
)

func boolLit(v bool) ast.Expression { return &ast.ELiteral{Value: ast.BoolLiteral{Value: v}} }

// undefinedCall is an expression that fatals if ever evaluated, used to
// prove a short-circuiting connective really does skip its other operand.
func undefinedCall() ast.Expression { return &ast.ECall{Name: "thisSubprogramDoesNotExist"} }

func TestEvalLogicalAndShortCircuitsOnFalse(t *testing.T) {
	it, b := newTestInterp()
	ex := &ast.ELogical{Op: ast.LogAnd, Left: boolLit(false), Right: undefinedCall()}
	v, err := it.EvalExprSEF(rootEnv(), ex)
	if err != nil {
		t.Fatalf("false AND <unevaluated>: %v (right operand should not have been evaluated)", err)
	}
	if got := b.DebugValue(v); got != "false" {
		t.Errorf("false AND x = %s, want false", got)
	}
}

func TestEvalLogicalOrShortCircuitsOnTrue(t *testing.T) {
	it, b := newTestInterp()
	ex := &ast.ELogical{Op: ast.LogOr, Left: boolLit(true), Right: undefinedCall()}
	v, err := it.EvalExprSEF(rootEnv(), ex)
	if err != nil {
		t.Fatalf("true OR <unevaluated>: %v (right operand should not have been evaluated)", err)
	}
	if got := b.DebugValue(v); got != "true" {
		t.Errorf("true OR x = %s, want true", got)
	}
}

func TestEvalLogicalImplShortCircuitsOnFalseAntecedent(t *testing.T) {
	it, b := newTestInterp()
	ex := &ast.ELogical{Op: ast.LogImpl, Left: boolLit(false), Right: undefinedCall()}
	v, err := it.EvalExprSEF(rootEnv(), ex)
	if err != nil {
		t.Fatalf("false IMPL <unevaluated>: %v (right operand should not have been evaluated)", err)
	}
	if got := b.DebugValue(v); got != "true" {
		t.Errorf("false IMPL x = %s, want true", got)
	}
}

func TestEvalLogicalAndEvaluatesRightWhenLeftTrue(t *testing.T) {
	it, b := newTestInterp()
	ex := &ast.ELogical{Op: ast.LogAnd, Left: boolLit(true), Right: boolLit(false)}
	v, err := it.EvalExprSEF(rootEnv(), ex)
	if err != nil {
		t.Fatalf("EvalExprSEF: %v", err)
	}
	if got := b.DebugValue(v); got != "false" {
		t.Errorf("true AND false = %s, want false", got)
	}
}

func TestEvalCondOnlyEvaluatesTakenBranch(t *testing.T) {
	it, b := newTestInterp()
	ex := &ast.ECond{Cond: boolLit(true), Then: intLit(1), Else: undefinedCall()}
	v, err := it.EvalExprSEF(rootEnv(), ex)
	if err != nil {
		t.Fatalf("cond: %v (untaken branch should not have been evaluated)", err)
	}
	if got := b.DebugValue(v); got != "1" {
		t.Errorf("true ? 1 : <unevaluated> = %s, want 1", got)
	}
}
