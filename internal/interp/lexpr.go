package interp

import (
	"github.com/arm-asl/aslcore/internal/ast"
	"github.com/arm-asl/aslcore/internal/backend"
	"github.com/arm-asl/aslcore/internal/ienv"
	"github.com/arm-asl/aslcore/internal/token"
)

func intLiteralExpr(n int64) ast.Expression { return &ast.ELiteral{Value: ast.IntLiteral{Value: n}} }

// EvalLExpr is eval_lexpr(ver, le, env, m_value) (§4.3): m_value has
// already been produced by the caller (the Assign rule evaluates the rhs
// via eval_expr first and only calls into here once it knows the value
// isn't a thrown exception), so this takes the plain value to store.
func (it *Interp) EvalLExpr(env ienv.Env, le ast.LExpr, v backend.Value) (ienv.Env, error) {
	var result ienv.Env
	err := it.rule("eval_lexpr", func() error {
		out, err := it.evalLExpr(env, le, v)
		result = out
		return err
	})
	return result, err
}

func (it *Interp) evalLExpr(env ienv.Env, le ast.LExpr, v backend.Value) (ienv.Env, error) {
	pos := le.Pos()
	switch l := le.(type) {
	case *ast.LDiscard:
		return env, nil

	case *ast.LVar:
		res := ienv.Assign(l.Name, v, env)
		switch res {
		case ienv.FoundLocal:
			it.B.OnWriteIdentifier(l.Name, env.Local.Scope(), v)
			return env, nil
		case ienv.FoundGlobal:
			it.B.OnWriteIdentifier(l.Name, ienv.GlobalScope(false), v)
			return env, nil
		default:
			if it.LangV0 {
				ienv.DeclareLocal(l.Name, v, env)
				it.B.OnWriteIdentifier(l.Name, env.Local.Scope(), v)
				return env, nil
			}
			return env, fatal(UndefinedIdentifier, pos, "assignment to undefined identifier %q", l.Name)
		}

	case *ast.LSlice:
		bvCur, err := it.lexprCurrentValue(env, l.Bits)
		if err != nil {
			return env, err
		}
		sef := func(se ast.Expression) (backend.Value, error) { return it.sefEvalValue(env, se, pos) }
		newBv, err := it.B.WriteToBitvector(bvCur, l.Slices, v, sef)
		if err != nil {
			return env, wrapBackend(pos, err)
		}
		return it.evalLExpr(env, l.Bits, newBv)

	case *ast.LSetArray:
		arrCur, err := it.lexprCurrentValue(env, l.Array)
		if err != nil {
			return env, err
		}
		idxVal, err := it.sefEvalValue(env, l.Index, pos)
		if err != nil {
			return env, err
		}
		idx, ok := it.B.ToInt(idxVal)
		if !ok {
			return env, fatal(UnsupportedExpr, pos, "array index is not concretely an integer")
		}
		newArr, err := it.B.SetIndex(arrCur, int(idx), v)
		if err != nil {
			return env, wrapBackend(pos, err)
		}
		return it.evalLExpr(env, l.Array, newArr)

	case *ast.LSetField:
		recCur, err := it.lexprCurrentValue(env, l.Record)
		if err != nil {
			return env, err
		}
		newRec, err := it.B.SetField(recCur, l.Name, v)
		if err != nil {
			return env, wrapBackend(pos, err)
		}
		return it.evalLExpr(env, l.Record, newRec)

	case *ast.LSetFields:
		if len(l.Names) != len(l.SliceRanges) {
			return env, fatal(TypeInferenceNeeded, pos, "SetFields: names and slice-ranges differ in length")
		}
		recCur, err := it.lexprCurrentValue(env, l.Record)
		if err != nil {
			return env, err
		}
		sef := func(se ast.Expression) (backend.Value, error) { return it.sefEvalValue(env, se, pos) }
		cur := recCur
		for i, name := range l.Names {
			fieldSlice, err := it.B.ReadFromBitvector(v, l.SliceRanges[i], sef)
			if err != nil {
				return env, wrapBackend(pos, err)
			}
			cur, err = it.B.SetField(cur, name, fieldSlice)
			if err != nil {
				return env, wrapBackend(pos, err)
			}
		}
		return it.evalLExpr(env, l.Record, cur)

	case *ast.LDestructuring:
		cur := env
		for i, sub := range l.Elems {
			elem, err := it.B.GetIndex(v, i)
			if err != nil {
				return env, wrapBackend(pos, err)
			}
			cur, err = it.evalLExpr(cur, sub, elem)
			if err != nil {
				return env, err
			}
		}
		return cur, nil

	case *ast.LConcat:
		return it.evalLConcat(env, l, v, pos)

	default:
		return env, fatal(UnrespectedParserInvar, pos, "eval_lexpr: unknown lexpr shape")
	}
}

func (it *Interp) evalLConcat(env ienv.Env, l *ast.LConcat, v backend.Value, pos token.Position) (ienv.Env, error) {
	if len(l.Widths) == 0 {
		return env, fatal(TypeInferenceNeeded, pos, "lvalue concat without widths")
	}
	if len(l.Widths) != len(l.Elems) {
		return env, fatal(TypeInferenceNeeded, pos, "lvalue concat: widths and elements differ in length")
	}
	sef := func(se ast.Expression) (backend.Value, error) { return it.sefEvalValue(env, se, pos) }
	cur := env
	offset := 0
	for i := len(l.Elems) - 1; i >= 0; i-- {
		width, err := it.sefEvalConcreteInt(env, l.Widths[i], pos)
		if err != nil {
			return env, err
		}
		slice := ast.Slice{High: intLiteralExpr(int64(offset) + width - 1), Low: intLiteralExpr(int64(offset))}
		sliceVal, err := it.B.ReadFromBitvector(v, []ast.Slice{slice}, sef)
		if err != nil {
			return env, wrapBackend(pos, err)
		}
		cur, err = it.evalLExpr(cur, l.Elems[i], sliceVal)
		if err != nil {
			return env, err
		}
		offset += int(width)
	}
	return cur, nil
}

// lexprCurrentValue reads the value currently denoted by a "path" lexpr
// (Var, SetArray, SetField, Slice) — needed before a slice/index/field
// write-back can compute the modified whole value to recurse the
// assignment with (§4.3).
func (it *Interp) lexprCurrentValue(env ienv.Env, le ast.LExpr) (backend.Value, error) {
	pos := le.Pos()
	switch l := le.(type) {
	case *ast.LVar:
		res, v := ienv.Find(l.Name, env)
		if res == ienv.NotFound {
			return nil, fatal(UndefinedIdentifier, pos, "undefined identifier %q", l.Name)
		}
		return v, nil
	case *ast.LSetArray:
		arr, err := it.lexprCurrentValue(env, l.Array)
		if err != nil {
			return nil, err
		}
		idxVal, err := it.sefEvalValue(env, l.Index, pos)
		if err != nil {
			return nil, err
		}
		idx, ok := it.B.ToInt(idxVal)
		if !ok {
			return nil, fatal(UnsupportedExpr, pos, "array index is not concretely an integer")
		}
		v, err := it.B.GetIndex(arr, int(idx))
		return v, wrapBackend(pos, err)
	case *ast.LSetField:
		rec, err := it.lexprCurrentValue(env, l.Record)
		if err != nil {
			return nil, err
		}
		v, err := it.B.GetField(rec, l.Name)
		return v, wrapBackend(pos, err)
	case *ast.LSlice:
		bv, err := it.lexprCurrentValue(env, l.Bits)
		if err != nil {
			return nil, err
		}
		sef := func(se ast.Expression) (backend.Value, error) { return it.sefEvalValue(env, se, pos) }
		v, err := it.B.ReadFromBitvector(bv, l.Slices, sef)
		return v, wrapBackend(pos, err)
	default:
		return nil, fatal(UnrespectedParserInvar, pos, "lexpr: unsupported read target shape")
	}
}

// ProtectedMultiAssign is protected_multi_assign (§4.3): arity-checks les
// against values before assigning each element in order.
func (it *Interp) ProtectedMultiAssign(env ienv.Env, les []ast.LExpr, values []backend.Value, pos token.Position) (ienv.Env, error) {
	if len(les) != len(values) {
		return env, fatal(BadArity, pos, "tuple construction: expected %d value(s), got %d", len(les), len(values))
	}
	cur := env
	for i, le := range les {
		var err error
		cur, err = it.EvalLExpr(cur, le, values[i])
		if err != nil {
			return env, err
		}
	}
	return cur, nil
}
