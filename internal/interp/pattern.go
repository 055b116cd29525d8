package interp

import (
	"github.com/arm-asl/aslcore/internal/ast"
	"github.com/arm-asl/aslcore/internal/backend"
	"github.com/arm-asl/aslcore/internal/ienv"
)

// EvalPattern evaluates p against v, SEF (§4.4): a pattern can only read,
// never throw or mutate, so a fatal *EvalError is the only failure mode.
func (it *Interp) EvalPattern(env ienv.Env, v backend.Value, p ast.Pattern) (backend.Value, error) {
	var result backend.Value
	err := it.rule("eval_pattern", func() error {
		out, err := it.evalPattern(env, v, p)
		result = out
		return err
	})
	return result, err
}

func (it *Interp) evalPattern(env ienv.Env, v backend.Value, p ast.Pattern) (backend.Value, error) {
	pos := p.Pos()
	switch pp := p.(type) {
	case *ast.PAll:
		return it.B.FromLiteral(ast.BoolLiteral{Value: true})

	case *ast.PAny:
		acc, err := it.B.FromLiteral(ast.BoolLiteral{Value: false})
		if err != nil {
			return nil, err
		}
		for _, sub := range pp.Patterns {
			sv, err := it.evalPattern(env, v, sub)
			if err != nil {
				return nil, err
			}
			acc, err = it.B.BinOp("OR_BOOL", acc, sv)
			if err != nil {
				return nil, wrapBackend(pos, err)
			}
		}
		return acc, nil

	case *ast.PNot:
		sv, err := it.evalPattern(env, v, pp.Pattern)
		if err != nil {
			return nil, err
		}
		out, err := it.B.UnOp("!", sv)
		return out, wrapBackend(pos, err)

	case *ast.PSingle:
		ev, err := it.sefEvalValue(env, pp.Expr, pos)
		if err != nil {
			return nil, err
		}
		out, err := it.B.BinOp("==", v, ev)
		return out, wrapBackend(pos, err)

	case *ast.PGeq:
		ev, err := it.sefEvalValue(env, pp.Expr, pos)
		if err != nil {
			return nil, err
		}
		out, err := it.B.BinOp(">=", v, ev)
		return out, wrapBackend(pos, err)

	case *ast.PLeq:
		ev, err := it.sefEvalValue(env, pp.Expr, pos)
		if err != nil {
			return nil, err
		}
		out, err := it.B.BinOp("<=", v, ev)
		return out, wrapBackend(pos, err)

	case *ast.PRange:
		lo, err := it.sefEvalValue(env, pp.Low, pos)
		if err != nil {
			return nil, err
		}
		hi, err := it.sefEvalValue(env, pp.High, pos)
		if err != nil {
			return nil, err
		}
		geq, err := it.B.BinOp(">=", v, lo)
		if err != nil {
			return nil, wrapBackend(pos, err)
		}
		leq, err := it.B.BinOp("<=", v, hi)
		if err != nil {
			return nil, wrapBackend(pos, err)
		}
		out, err := it.B.BinOp("AND_BOOL", geq, leq)
		return out, wrapBackend(pos, err)

	case *ast.PMask:
		out, err := it.evalMaskPattern(v, pp.Mask)
		return out, wrapBackend(pos, err)

	case *ast.PTuple:
		acc, err := it.B.FromLiteral(ast.BoolLiteral{Value: true})
		if err != nil {
			return nil, err
		}
		for i, sub := range pp.Patterns {
			elem, err := it.B.GetIndex(v, i)
			if err != nil {
				return nil, wrapBackend(pos, err)
			}
			sv, err := it.evalPattern(env, elem, sub)
			if err != nil {
				return nil, err
			}
			acc, err = it.B.BinOp("AND_BOOL", acc, sv)
			if err != nil {
				return nil, wrapBackend(pos, err)
			}
		}
		return acc, nil

	default:
		return nil, fatal(UnrespectedParserInvar, pos, "eval_pattern: unknown pattern shape")
	}
}

// evalMaskPattern implements the bitmask pattern rule (§4.4, §8
// "Pattern-mask"): extract set/unset/specified bits of the mask, apply
// (v & set) | (~v & unset) == (set | unset). mask is a string of
// '0'/'1'/'x' characters, most-significant first, the same convention as
// a bitvector literal.
func (it *Interp) evalMaskPattern(v backend.Value, mask string) (backend.Value, error) {
	setBits := make([]byte, len(mask))
	unsetBits := make([]byte, len(mask))
	for i, c := range mask {
		switch c {
		case '1':
			setBits[i] = '1'
			unsetBits[i] = '0'
		case '0':
			setBits[i] = '0'
			unsetBits[i] = '1'
		default: // 'x' — don't care
			setBits[i] = '0'
			unsetBits[i] = '0'
		}
	}
	set, err := it.B.FromLiteral(ast.BitsLiteralValue{Bits: string(setBits)})
	if err != nil {
		return nil, err
	}
	unset, err := it.B.FromLiteral(ast.BitsLiteralValue{Bits: string(unsetBits)})
	if err != nil {
		return nil, err
	}
	notV, err := it.B.UnOp("NOT", v)
	if err != nil {
		return nil, err
	}
	vAndSet, err := it.B.BinOp("AND_BITS", v, set)
	if err != nil {
		return nil, err
	}
	notVAndUnset, err := it.B.BinOp("AND_BITS", notV, unset)
	if err != nil {
		return nil, err
	}
	lhs, err := it.B.BinOp("OR_BITS", vAndSet, notVAndUnset)
	if err != nil {
		return nil, err
	}
	rhs, err := it.B.BinOp("OR_BITS", set, unset)
	if err != nil {
		return nil, err
	}
	return it.B.BinOp("==", lhs, rhs)
}
