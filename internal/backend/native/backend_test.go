package native_test

import (
	"testing"

	"github.com/arm-asl/aslcore/internal/ast"
	"github.com/arm-asl/aslcore/internal/backend"
	"github.com/arm-asl/aslcore/internal/backend/native"
)

func TestBinOpIntArith(t *testing.T) {
	b := native.New()
	cases := []struct {
		op   string
		l, r int64
		want string
	}{
		{"+", 2, 3, "5"},
		{"-", 5, 8, "-3"},
		{"*", 6, 7, "42"},
		{"DIV", 7, 2, "3"},
		{"MOD", 7, 2, "1"},
	}
	for _, c := range cases {
		t.Run(c.op, func(t *testing.T) {
			v, err := b.BinOp(c.op, b.FromInt(c.l), b.FromInt(c.r))
			if err != nil {
				t.Fatalf("BinOp(%s): %v", c.op, err)
			}
			if got := b.DebugValue(v); got != c.want {
				t.Errorf("%d %s %d = %s, want %s", c.l, c.op, c.r, got, c.want)
			}
		})
	}
}

func TestBinOpComparisons(t *testing.T) {
	b := native.New()
	v, err := b.BinOp("<", b.FromInt(3), b.FromInt(5))
	if err != nil {
		t.Fatalf("BinOp: %v", err)
	}
	dec, ok := b.Choice(v)
	if !ok || !dec {
		t.Errorf("3 < 5: Choice = (%v, %v), want (true, true)", dec, ok)
	}
}

func TestUnOpBoolNegation(t *testing.T) {
	b := native.New()
	trueVal, err := b.FromLiteral(ast.BoolLiteral{Value: true})
	if err != nil {
		t.Fatalf("FromLiteral: %v", err)
	}
	v, err := b.UnOp("!", trueVal)
	if err != nil {
		t.Fatalf("UnOp: %v", err)
	}
	dec, ok := b.Choice(v)
	if !ok || dec {
		t.Errorf("!true: Choice = (%v, %v), want (false, true)", dec, ok)
	}
}

func TestBitvectorLiteralDebugValue(t *testing.T) {
	b := native.New()
	v, err := b.FromLiteral(ast.BitsLiteralValue{Bits: "00001111"})
	if err != nil {
		t.Fatalf("FromLiteral: %v", err)
	}
	if got := b.DebugValue(v); got != "'00001111'" {
		t.Fatalf("DebugValue = %s, want '00001111'", got)
	}
}

func TestBinOpAndBits(t *testing.T) {
	b := native.New()
	lhs, _ := b.FromLiteral(ast.BitsLiteralValue{Bits: "1100"})
	rhs, _ := b.FromLiteral(ast.BitsLiteralValue{Bits: "1010"})
	out, err := b.BinOp("AND_BITS", lhs, rhs)
	if err != nil {
		t.Fatalf("BinOp AND_BITS: %v", err)
	}
	if got := b.DebugValue(out); got != "'1000'" {
		t.Errorf("1100 AND 1010 = %s, want '1000'", got)
	}
}

func TestChoiceIsAlwaysDeterminedForNativeBackend(t *testing.T) {
	b := native.New()
	v, err := b.FromLiteral(ast.BoolLiteral{Value: true})
	if err != nil {
		t.Fatalf("FromLiteral: %v", err)
	}
	_, determined := b.Choice(v)
	if !determined {
		t.Error("native backend's Choice should always report determined=true")
	}
}

func TestProdParRunsBothThunks(t *testing.T) {
	b := native.New()
	lv, rv, err := b.ProdPar(
		func() (backend.Value, error) { return b.FromInt(1), nil },
		func() (backend.Value, error) { return b.FromInt(2), nil },
	)
	if err != nil {
		t.Fatalf("ProdPar: %v", err)
	}
	if b.DebugValue(lv) != "1" || b.DebugValue(rv) != "2" {
		t.Errorf("ProdPar results = (%s, %s), want (1, 2)", b.DebugValue(lv), b.DebugValue(rv))
	}
}

func TestGetIndexOnVector(t *testing.T) {
	b := native.New()
	vec := b.CreateVector([]backend.Value{b.FromInt(10), b.FromInt(20), b.FromInt(30)})
	v, err := b.GetIndex(vec, 1)
	if err != nil {
		t.Fatalf("GetIndex: %v", err)
	}
	if got := b.DebugValue(v); got != "20" {
		t.Errorf("vec[1] = %s, want 20", got)
	}
}
