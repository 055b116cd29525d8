package interp_test

import (
	"testing"

	"github.com/arm-asl/aslcore/internal/ast"
	"github.com/arm-asl/aslcore/internal/asltypes"
	"github.com/arm-asl/aslcore/internal/backend/native"
	"github.com/arm-asl/aslcore/internal/ienv"
	"github.com/arm-asl/aslcore/internal/instr"
	"github.com/arm-asl/aslcore/internal/interp"
	"github.com/arm-asl/aslcore/internal/token"
)

func noPos() token.Position { return token.Position{} }

func newTestInterp() (*interp.Interp, *native.Backend) {
	b := native.New()
	return interp.New(b, instr.NoopSink{}, 1), b
}

func rootEnv() ienv.Env {
	static := asltypes.NewStaticEnv()
	static.Types["integer"] = asltypes.Int{Constraint: asltypes.UnConstrained{}}
	return ienv.Env{Global: ienv.NewGlobalEnv(static)}
}

func intLit(n int64) ast.Expression { return &ast.ELiteral{Value: ast.IntLiteral{Value: n}} }

func TestBaseValueUnconstrainedInt(t *testing.T) {
	it, b := newTestInterp()
	v, err := it.BaseValue(rootEnv(), asltypes.Int{Constraint: asltypes.UnConstrained{}}, noPos())
	if err != nil {
		t.Fatalf("BaseValue: %v", err)
	}
	if got := b.DebugValue(v); got != "0" {
		t.Errorf("unconstrained int base value = %q, want 0", got)
	}
}

func TestBaseValueWellConstrainedIntPicksMinAbs(t *testing.T) {
	cases := []struct {
		name string
		cons []asltypes.Constraint
		want string
	}{
		{
			name: "range spanning zero picks zero",
			cons: []asltypes.Constraint{asltypes.RangeConstraint{Low: intLit(-3), High: intLit(5)}},
			want: "0",
		},
		{
			name: "all-positive range picks the low bound",
			cons: []asltypes.Constraint{asltypes.RangeConstraint{Low: intLit(4), High: intLit(9)}},
			want: "4",
		},
		{
			name: "all-negative range picks the high bound (closest to zero)",
			cons: []asltypes.Constraint{asltypes.RangeConstraint{Low: intLit(-9), High: intLit(-4)}},
			want: "-4",
		},
		{
			name: "exact constraint is its own candidate",
			cons: []asltypes.Constraint{asltypes.ExactConstraint{Value: intLit(7)}},
			want: "7",
		},
		{
			name: "smallest-magnitude candidate wins across multiple constraints",
			cons: []asltypes.Constraint{
				asltypes.ExactConstraint{Value: intLit(100)},
				asltypes.RangeConstraint{Low: intLit(2), High: intLit(6)},
			},
			want: "2",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			it, b := newTestInterp()
			v, err := it.BaseValue(rootEnv(), asltypes.Int{Constraint: asltypes.WellConstrained{Constraints: c.cons}}, noPos())
			if err != nil {
				t.Fatalf("BaseValue: %v", err)
			}
			if got := b.DebugValue(v); got != c.want {
				t.Errorf("base value = %q, want %q", got, c.want)
			}
		})
	}
}

func TestBaseValueBits(t *testing.T) {
	it, b := newTestInterp()
	v, err := it.BaseValue(rootEnv(), asltypes.Bits{Length: intLit(5)}, noPos())
	if err != nil {
		t.Fatalf("BaseValue: %v", err)
	}
	if got := b.DebugValue(v); got != "'00000'" {
		t.Errorf("bits base value = %q, want '00000'", got)
	}
}

func TestBaseValueRecord(t *testing.T) {
	it, _ := newTestInterp()
	rt := asltypes.Record{Fields: []asltypes.Field{
		{Name: "a", Type: asltypes.Int{Constraint: asltypes.UnConstrained{}}},
		{Name: "b", Type: asltypes.Bool{}},
	}}
	v, err := it.BaseValue(rootEnv(), rt, noPos())
	if err != nil {
		t.Fatalf("BaseValue: %v", err)
	}
	if v == nil {
		t.Fatal("expected a record value")
	}
}
