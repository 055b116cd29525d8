package interp

import (
	"math/big"
	"strings"

	"github.com/arm-asl/aslcore/internal/ast"
	"github.com/arm-asl/aslcore/internal/asltypes"
	"github.com/arm-asl/aslcore/internal/backend"
	"github.com/arm-asl/aslcore/internal/ienv"
	"github.com/arm-asl/aslcore/internal/token"
)

// BaseValue computes t's canonical default inhabitant (§4.7), used when a
// typed declaration has no initialiser. Sub-expressions (bitvector
// lengths, array bounds, constraint endpoints) are resolved
// side-effect-free against env.
func (it *Interp) BaseValue(env ienv.Env, t asltypes.Type, pos token.Position) (backend.Value, error) {
	switch tt := t.(type) {
	case asltypes.Bool:
		return it.B.FromLiteral(ast.BoolLiteral{Value: false})
	case asltypes.Real:
		return it.B.FromLiteral(ast.RealLiteral{Value: 0})
	case asltypes.Str:
		return it.B.FromLiteral(ast.StringLiteral{Value: ""})
	case asltypes.Int:
		return it.baseValueInt(env, tt, pos)
	case asltypes.Bits:
		n, err := it.sefEvalConcreteInt(env, tt.Length, pos)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fatal(UnsupportedExpr, pos, "bits length evaluated to a negative integer")
		}
		return it.B.FromLiteral(ast.BitsLiteralValue{Bits: strings.Repeat("0", int(n))})
	case asltypes.Enum:
		if len(tt.Variants) == 0 {
			return nil, fatal(TypeInferenceNeeded, pos, "enum type has no variants")
		}
		return it.B.FromLiteral(ast.StringLiteral{Value: tt.Variants[0]})
	case asltypes.Record:
		return it.baseValueRecord(env, "", tt.Fields, pos)
	case asltypes.Exception:
		return it.baseValueRecord(env, "", tt.Fields, pos)
	case asltypes.Tuple:
		elems := make([]backend.Value, len(tt.Elems))
		for i, et := range tt.Elems {
			v, err := it.BaseValue(env, et, pos)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return it.B.CreateVector(elems), nil
	case asltypes.Array:
		return it.baseValueArray(env, tt, pos)
	case asltypes.Named:
		return nil, fatal(UnrespectedParserInvar, pos, "base_value: Named type %q reached the core unresolved", tt.Name)
	default:
		return nil, fatal(UnrespectedParserInvar, pos, "base_value: unknown type shape")
	}
}

func (it *Interp) baseValueRecord(env ienv.Env, typeName string, fields []asltypes.Field, pos token.Position) (backend.Value, error) {
	out := make([]backend.FieldValue, len(fields))
	for i, f := range fields {
		v, err := it.BaseValue(env, f.Type, pos)
		if err != nil {
			return nil, err
		}
		out[i] = backend.FieldValue{Name: f.Name, Value: v}
	}
	return it.B.CreateRecord(typeName, out), nil
}

func (it *Interp) baseValueArray(env ienv.Env, tt asltypes.Array, pos token.Position) (backend.Value, error) {
	var length int64
	switch l := tt.Length.(type) {
	case asltypes.EnumBoundLength:
		et, ok := env.Global.Static.Types[l.EnumName]
		if !ok {
			return nil, fatal(UnrespectedParserInvar, pos, "undeclared enum type %q", l.EnumName)
		}
		enum, ok := env.Global.Static.Resolve(et).(asltypes.Enum)
		if !ok {
			return nil, fatal(UnrespectedParserInvar, pos, "%q is not an enum type", l.EnumName)
		}
		length = int64(len(enum.Variants))
	case asltypes.ExprLength:
		n, err := it.sefEvalConcreteInt(env, l.Expr, pos)
		if err != nil {
			return nil, err
		}
		length = n
	default:
		return nil, fatal(UnrespectedParserInvar, pos, "base_value: unknown array length shape")
	}
	if length < 0 {
		return nil, fatal(UnsupportedExpr, pos, "array length evaluated to a negative integer")
	}
	elemBase, err := it.BaseValue(env, tt.Elem, pos)
	if err != nil {
		return nil, err
	}
	elems := make([]backend.Value, length)
	for i := range elems {
		elems[i] = elemBase
	}
	return it.B.CreateVector(elems), nil
}

// constraintCandidate is one well-constrained-int candidate together with
// the absolute value used to rank it (§4.7, §8 "Base-value well-constrained
// int").
type constraintCandidate struct {
	value *big.Int
	abs   *big.Int
}

func (it *Interp) baseValueInt(env ienv.Env, t asltypes.Int, pos token.Position) (backend.Value, error) {
	switch c := t.Constraint.(type) {
	case asltypes.UnConstrained:
		return it.B.FromInt(0), nil
	case asltypes.UnderConstrained:
		return nil, fatal(UnrespectedParserInvar, pos, "base_value: UnderConstrained int cannot be requested")
	case asltypes.WellConstrained:
		if len(c.Constraints) == 0 {
			return nil, fatal(UnrespectedParserInvar, pos, "base_value: well-constrained int has no constraints")
		}
		var candidates []constraintCandidate
		for _, cons := range c.Constraints {
			v, err := it.baseValueConstraintCandidate(env, cons, pos)
			if err != nil {
				return nil, err
			}
			if v != nil {
				candidates = append(candidates, constraintCandidate{value: v, abs: new(big.Int).Abs(v)})
			}
		}
		if len(candidates) == 0 {
			return nil, fatal(BaseValueEmptyType, pos, "base_value: no candidate across the well-constrained int's constraints")
		}
		best := candidates[0]
		for _, cand := range candidates[1:] {
			if cand.abs.Cmp(best.abs) < 0 {
				best = cand
			}
		}
		return it.B.FromInt(best.value.Int64()), nil
	default:
		return nil, fatal(UnrespectedParserInvar, pos, "base_value: unknown int constraint shape")
	}
}

func (it *Interp) baseValueConstraintCandidate(env ienv.Env, c asltypes.Constraint, pos token.Position) (*big.Int, error) {
	switch cc := c.(type) {
	case asltypes.ExactConstraint:
		n, err := it.sefEvalConcreteInt(env, cc.Value, pos)
		if err != nil {
			return nil, err
		}
		return big.NewInt(n), nil
	case asltypes.RangeConstraint:
		lo, err := it.sefEvalConcreteInt(env, cc.Low, pos)
		if err != nil {
			return nil, err
		}
		hi, err := it.sefEvalConcreteInt(env, cc.High, pos)
		if err != nil {
			return nil, err
		}
		if lo > hi {
			return nil, fatal(UnrespectedParserInvar, pos, "range constraint has low > high")
		}
		if lo <= 0 && 0 <= hi {
			return big.NewInt(0), nil
		}
		if hi < 0 {
			return big.NewInt(hi), nil
		}
		return big.NewInt(lo), nil
	default:
		return nil, fatal(UnrespectedParserInvar, pos, "base_value: unknown constraint shape")
	}
}
