package interp_test

import (
	"testing"

	"github.com/arm-asl/aslcore/internal/ast"
)

func bitLit(bits string) ast.Expression { return &ast.ELiteral{Value: ast.BitsLiteralValue{Bits: bits}} }

func mustPatternBool(t *testing.T, p ast.Pattern, v ast.Expression) bool {
	t.Helper()
	it, b := newTestInterp()
	val, err := it.EvalExprSEF(rootEnv(), v)
	if err != nil {
		t.Fatalf("evaluating scrutinee: %v", err)
	}
	out, err := it.EvalPattern(rootEnv(), val, p)
	if err != nil {
		t.Fatalf("EvalPattern: %v", err)
	}
	return b.DebugValue(out) == "true"
}

func TestEvalPatternSingleRangeMask(t *testing.T) {
	cases := []struct {
		name string
		p    ast.Pattern
		v    ast.Expression
		want bool
	}{
		{"PAll always matches", &ast.PAll{}, intLit(42), true},
		{"PSingle equal", &ast.PSingle{Expr: intLit(5)}, intLit(5), true},
		{"PSingle unequal", &ast.PSingle{Expr: intLit(5)}, intLit(6), false},
		{"PGeq satisfied", &ast.PGeq{Expr: intLit(3)}, intLit(5), true},
		{"PGeq unsatisfied", &ast.PGeq{Expr: intLit(10)}, intLit(5), false},
		{"PLeq satisfied", &ast.PLeq{Expr: intLit(10)}, intLit(5), true},
		{"PRange inside", &ast.PRange{Low: intLit(1), High: intLit(10)}, intLit(5), true},
		{"PRange outside", &ast.PRange{Low: intLit(1), High: intLit(4)}, intLit(5), false},
		{
			"PNot inverts",
			&ast.PNot{Pattern: &ast.PSingle{Expr: intLit(5)}},
			intLit(5),
			false,
		},
		{
			"PAny matches if any sub-pattern matches",
			&ast.PAny{Patterns: []ast.Pattern{
				&ast.PSingle{Expr: intLit(1)},
				&ast.PSingle{Expr: intLit(5)},
			}},
			intLit(5),
			true,
		},
		{"mask: exact match with don't-cares", &ast.PMask{Mask: "1x0"}, bitLit("110"), true},
		{"mask: value disagreeing on a fixed bit fails", &ast.PMask{Mask: "1x0"}, bitLit("111"), false},
		{"mask: all don't-care always matches", &ast.PMask{Mask: "xxx"}, bitLit("101"), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := mustPatternBool(t, c.p, c.v); got != c.want {
				t.Errorf("pattern match = %v, want %v", got, c.want)
			}
		})
	}
}

func TestEvalPatternTuple(t *testing.T) {
	it, b := newTestInterp()
	tupleExpr := &ast.ETuple{Elems: []ast.Expression{intLit(1), intLit(2)}}
	v, err := it.EvalExprSEF(rootEnv(), tupleExpr)
	if err != nil {
		t.Fatalf("evaluating tuple: %v", err)
	}
	p := &ast.PTuple{Patterns: []ast.Pattern{
		&ast.PSingle{Expr: intLit(1)},
		&ast.PSingle{Expr: intLit(2)},
	}}
	out, err := it.EvalPattern(rootEnv(), v, p)
	if err != nil {
		t.Fatalf("EvalPattern: %v", err)
	}
	if b.DebugValue(out) != "true" {
		t.Errorf("tuple pattern match = %s, want true", b.DebugValue(out))
	}
}
