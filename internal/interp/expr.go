package interp

import (
	"github.com/arm-asl/aslcore/internal/ast"
	"github.com/arm-asl/aslcore/internal/asltypes"
	"github.com/arm-asl/aslcore/internal/backend"
	"github.com/arm-asl/aslcore/internal/ienv"
	"github.com/arm-asl/aslcore/internal/token"
)

// EvalExpr is eval_expr(env, e) → maybe-exception (value, env) (§4.2).
// Sub-expression order is strictly left-to-right, threaded through env so
// effect ordering (and any global mutation a nested call performs) is
// well-defined (§4.2 "Evaluation order").
func (it *Interp) EvalExpr(env ienv.Env, e ast.Expression) (MaybeExc[ExprResult], error) {
	var result MaybeExc[ExprResult]
	err := it.rule("eval_expr", func() error {
		out, err := it.evalExpr(env, e)
		result = out
		return err
	})
	return result, err
}

// EvalExprSEF runs EvalExpr and fatals with UnexpectedSideEffect if it
// observes a throw (§4.2: used for pattern guards, constraints, loop
// bounds, UNKNOWN-type evaluation, base-value computation, AS-type
// checks, and debug print args).
func (it *Interp) EvalExprSEF(env ienv.Env, e ast.Expression) (backend.Value, error) {
	m, err := it.EvalExpr(env, e)
	if err != nil {
		return nil, err
	}
	if m.IsThrowing() {
		return nil, fatal(UnexpectedSideEffect, e.Pos(), "side-effect-free evaluation observed a throw")
	}
	return m.Value().Value, nil
}

func (it *Interp) sefEvalValue(env ienv.Env, e ast.Expression, pos token.Position) (backend.Value, error) {
	return it.EvalExprSEF(env, e)
}

func (it *Interp) sefEvalConcreteInt(env ienv.Env, e ast.Expression, pos token.Position) (int64, error) {
	v, err := it.EvalExprSEF(env, e)
	if err != nil {
		return 0, err
	}
	n, ok := it.B.ToInt(v)
	if !ok {
		return 0, fatal(UnsupportedExpr, pos, "expected a concrete integer")
	}
	return n, nil
}

func (it *Interp) fromBool(b bool) (backend.Value, error) {
	return it.B.FromLiteral(ast.BoolLiteral{Value: b})
}

func (it *Interp) evalExpr(env ienv.Env, e ast.Expression) (MaybeExc[ExprResult], error) {
	pos := e.Pos()
	switch ex := e.(type) {
	case *ast.ELiteral:
		v, err := it.B.FromLiteral(ex.Value)
		if err != nil {
			return MaybeExc[ExprResult]{}, wrapBackend(pos, err)
		}
		return Normal(ExprResult{Value: v, Env: env}), nil

	case *ast.EVar:
		return it.evalVar(env, ex)

	case *ast.EBinop:
		return it.evalBinop(env, ex)

	case *ast.EUnop:
		return it.evalUnop(env, ex)

	case *ast.ELogical:
		return it.evalLogical(env, ex)

	case *ast.ECond:
		return it.evalCond(env, ex)

	case *ast.ESlice:
		return it.evalSlice(env, ex)

	case *ast.ECall:
		return it.evalCallExpr(env, ex)

	case *ast.EIndex:
		return it.evalIndex(env, ex)

	case *ast.ETupleIndex:
		m, err := it.EvalExpr(env, ex.Tuple)
		if err != nil || m.IsThrowing() {
			return m, err
		}
		r := m.Value()
		v, err := it.B.GetIndex(r.Value, ex.Index)
		if err != nil {
			return MaybeExc[ExprResult]{}, wrapBackend(pos, err)
		}
		return Normal(ExprResult{Value: v, Env: r.Env}), nil

	case *ast.ERecord:
		return it.evalRecord(env, ex)

	case *ast.EField:
		m, err := it.EvalExpr(env, ex.Record)
		if err != nil || m.IsThrowing() {
			return m, err
		}
		r := m.Value()
		v, err := it.B.GetField(r.Value, ex.Name)
		if err != nil {
			return MaybeExc[ExprResult]{}, wrapBackend(pos, err)
		}
		return Normal(ExprResult{Value: v, Env: r.Env}), nil

	case *ast.EFieldConcat:
		m, err := it.EvalExpr(env, ex.Record)
		if err != nil || m.IsThrowing() {
			return m, err
		}
		r := m.Value()
		parts := make([]backend.Value, len(ex.Names))
		for i, name := range ex.Names {
			fv, err := it.B.GetField(r.Value, name)
			if err != nil {
				return MaybeExc[ExprResult]{}, wrapBackend(pos, err)
			}
			parts[i] = fv
		}
		v, err := it.B.ConcatBitvectors(parts)
		if err != nil {
			return MaybeExc[ExprResult]{}, wrapBackend(pos, err)
		}
		return Normal(ExprResult{Value: v, Env: r.Env}), nil

	case *ast.EConcat:
		return it.evalConcat(env, ex)

	case *ast.ETuple:
		return it.evalTuple(env, ex)

	case *ast.EUnknown:
		return it.evalUnknown(env, ex)

	case *ast.EPatternMatch:
		m, err := it.EvalExpr(env, ex.Expr)
		if err != nil || m.IsThrowing() {
			return m, err
		}
		r := m.Value()
		v, err := it.EvalPattern(r.Env, r.Value, ex.Pattern)
		if err != nil {
			return MaybeExc[ExprResult]{}, err
		}
		return Normal(ExprResult{Value: v, Env: r.Env}), nil

	case *ast.ETypeAssert:
		return it.evalTypeAssert(env, ex)

	default:
		return MaybeExc[ExprResult]{}, fatal(UnrespectedParserInvar, pos, "eval_expr: unknown expression shape")
	}
}

func (it *Interp) evalVar(env ienv.Env, ex *ast.EVar) (MaybeExc[ExprResult], error) {
	res, v := ienv.Find(ex.Name, env)
	switch res {
	case ienv.FoundLocal:
		it.B.OnReadIdentifier(ex.Name, env.Local.Scope(), v)
		return Normal(ExprResult{Value: v, Env: env}), nil
	case ienv.FoundGlobal:
		it.B.OnReadIdentifier(ex.Name, ienv.GlobalScope(false), v)
		return Normal(ExprResult{Value: v, Env: env}), nil
	default:
		return MaybeExc[ExprResult]{}, fatal(UndefinedIdentifier, ex.Pos(), "undefined identifier %q", ex.Name)
	}
}

func (it *Interp) evalBinop(env ienv.Env, ex *ast.EBinop) (MaybeExc[ExprResult], error) {
	lm, err := it.EvalExpr(env, ex.Left)
	if err != nil || lm.IsThrowing() {
		return lm, err
	}
	l := lm.Value()
	rm, err := it.EvalExpr(l.Env, ex.Right)
	if err != nil || rm.IsThrowing() {
		return rm, err
	}
	r := rm.Value()
	v, err := it.B.BinOp(ex.Op, l.Value, r.Value)
	if err != nil {
		return MaybeExc[ExprResult]{}, wrapBackend(ex.Pos(), err)
	}
	return Normal(ExprResult{Value: v, Env: r.Env}), nil
}

func (it *Interp) evalUnop(env ienv.Env, ex *ast.EUnop) (MaybeExc[ExprResult], error) {
	m, err := it.EvalExpr(env, ex.Right)
	if err != nil || m.IsThrowing() {
		return m, err
	}
	r := m.Value()
	v, err := it.B.UnOp(ex.Op, r.Value)
	if err != nil {
		return MaybeExc[ExprResult]{}, wrapBackend(ex.Pos(), err)
	}
	return Normal(ExprResult{Value: v, Env: r.Env}), nil
}

// evalLogical desugars AND/OR/IMPL to a conditional for short-circuiting
// (§4.2, §8 "Short-circuit": for false AND e, e must not be evaluated).
func (it *Interp) evalLogical(env ienv.Env, ex *ast.ELogical) (MaybeExc[ExprResult], error) {
	lm, err := it.EvalExpr(env, ex.Left)
	if err != nil || lm.IsThrowing() {
		return lm, err
	}
	l := lm.Value()
	decision, determined := it.B.Choice(l.Value)
	if !determined {
		return MaybeExc[ExprResult]{}, fatal(UnsupportedExpr, ex.Pos(), "logical connective condition is not concretely determined")
	}

	shortCircuits := (ex.Op == ast.LogAnd && !decision) ||
		(ex.Op == ast.LogOr && decision) ||
		(ex.Op == ast.LogImpl && !decision)
	if shortCircuits {
		result := decision
		if ex.Op == ast.LogAnd {
			result = false
		} else if ex.Op == ast.LogImpl {
			result = true
		}
		v, err := it.fromBool(result)
		if err != nil {
			return MaybeExc[ExprResult]{}, wrapBackend(ex.Pos(), err)
		}
		return Normal(ExprResult{Value: v, Env: l.Env}), nil
	}

	return it.EvalExpr(l.Env, ex.Right)
}

// evalCond is e1 ? e2 : e3 (§4.2). IsSimple marks both branches pure, but
// since only one branch is ever evaluated either way, the concrete
// backend takes the same path; Commit only fires for the non-simple,
// effectful case to record the branching event (§5 commit).
func (it *Interp) evalCond(env ienv.Env, ex *ast.ECond) (MaybeExc[ExprResult], error) {
	cm, err := it.EvalExpr(env, ex.Cond)
	if err != nil || cm.IsThrowing() {
		return cm, err
	}
	c := cm.Value()
	decision, determined := it.B.Choice(c.Value)
	if !determined {
		return MaybeExc[ExprResult]{}, fatal(UnsupportedExpr, ex.Pos(), "conditional expression's condition is not concretely determined")
	}
	if !ex.IsSimple {
		it.B.Commit("cond")
	}
	if decision {
		return it.EvalExpr(c.Env, ex.Then)
	}
	return it.EvalExpr(c.Env, ex.Else)
}

func (it *Interp) evalSlice(env ienv.Env, ex *ast.ESlice) (MaybeExc[ExprResult], error) {
	m, err := it.EvalExpr(env, ex.Bits)
	if err != nil || m.IsThrowing() {
		return m, err
	}
	r := m.Value()
	sef := func(se ast.Expression) (backend.Value, error) { return it.sefEvalValue(r.Env, se, ex.Pos()) }
	v, err := it.B.ReadFromBitvector(r.Value, ex.Slices, sef)
	if err != nil {
		return MaybeExc[ExprResult]{}, wrapBackend(ex.Pos(), err)
	}
	return Normal(ExprResult{Value: v, Env: r.Env}), nil
}

func (it *Interp) evalIndex(env ienv.Env, ex *ast.EIndex) (MaybeExc[ExprResult], error) {
	m, err := it.EvalExpr(env, ex.Array)
	if err != nil || m.IsThrowing() {
		return m, err
	}
	arr := m.Value()
	idxVal, err := it.sefEvalValue(arr.Env, ex.Index, ex.Pos())
	if err != nil {
		return MaybeExc[ExprResult]{}, err
	}
	idx, ok := it.B.ToInt(idxVal)
	if !ok {
		return MaybeExc[ExprResult]{}, fatal(UnsupportedExpr, ex.Pos(), "array index is not concretely an integer")
	}
	v, err := it.B.GetIndex(arr.Value, int(idx))
	if err != nil {
		return MaybeExc[ExprResult]{}, wrapBackend(ex.Pos(), err)
	}
	return Normal(ExprResult{Value: v, Env: arr.Env}), nil
}

func (it *Interp) evalRecord(env ienv.Env, ex *ast.ERecord) (MaybeExc[ExprResult], error) {
	cur := env
	fields := make([]backend.FieldValue, len(ex.Fields))
	for i, f := range ex.Fields {
		m, err := it.EvalExpr(cur, f.Value)
		if err != nil || m.IsThrowing() {
			return m, err
		}
		r := m.Value()
		fields[i] = backend.FieldValue{Name: f.Name, Value: r.Value}
		cur = r.Env
	}
	return Normal(ExprResult{Value: it.B.CreateRecord(ex.TypeName, fields), Env: cur}), nil
}

func (it *Interp) evalConcat(env ienv.Env, ex *ast.EConcat) (MaybeExc[ExprResult], error) {
	cur := env
	parts := make([]backend.Value, len(ex.Parts))
	for i, p := range ex.Parts {
		m, err := it.EvalExpr(cur, p)
		if err != nil || m.IsThrowing() {
			return m, err
		}
		r := m.Value()
		parts[i] = r.Value
		cur = r.Env
	}
	v, err := it.B.ConcatBitvectors(parts)
	if err != nil {
		return MaybeExc[ExprResult]{}, wrapBackend(ex.Pos(), err)
	}
	return Normal(ExprResult{Value: v, Env: cur}), nil
}

func (it *Interp) evalTuple(env ienv.Env, ex *ast.ETuple) (MaybeExc[ExprResult], error) {
	cur := env
	elems := make([]backend.Value, len(ex.Elems))
	for i, e := range ex.Elems {
		m, err := it.EvalExpr(cur, e)
		if err != nil || m.IsThrowing() {
			return m, err
		}
		r := m.Value()
		elems[i] = r.Value
		cur = r.Env
	}
	return Normal(ExprResult{Value: it.B.CreateVector(elems), Env: cur}), nil
}

func (it *Interp) evalUnknown(env ienv.Env, ex *ast.EUnknown) (MaybeExc[ExprResult], error) {
	t, err := resolveTypeByName(env.Global, ex.TypeName, ex.Pos())
	if err != nil {
		return MaybeExc[ExprResult]{}, err
	}
	sef := func(se ast.Expression) (backend.Value, error) { return it.sefEvalValue(env, se, ex.Pos()) }
	v, err := it.B.UnknownOfType(t, sef)
	if err != nil {
		return MaybeExc[ExprResult]{}, wrapBackend(ex.Pos(), err)
	}
	return Normal(ExprResult{Value: v, Env: env}), nil
}

func (it *Interp) evalTypeAssert(env ienv.Env, ex *ast.ETypeAssert) (MaybeExc[ExprResult], error) {
	m, err := it.EvalExpr(env, ex.Expr)
	if err != nil || m.IsThrowing() {
		return m, err
	}
	r := m.Value()
	t, err := resolveTypeByName(env.Global, ex.TypeName, ex.Pos())
	if err != nil {
		return MaybeExc[ExprResult]{}, err
	}
	okVal, err := it.IsValOfType(r.Env, r.Value, t, ex.Pos())
	if err != nil {
		return MaybeExc[ExprResult]{}, err
	}
	decision, determined := it.B.Choice(okVal)
	if !determined {
		return MaybeExc[ExprResult]{}, fatal(UnsupportedExpr, ex.Pos(), "AS type check is not concretely determined")
	}
	if !decision {
		return MaybeExc[ExprResult]{}, fatal(MismatchType, ex.Pos(), "value does not satisfy asserted type %q", ex.TypeName)
	}
	return Normal(ExprResult{Value: r.Value, Env: r.Env}), nil
}

// IsValOfType is is_val_of_type(env, v, t) (§4.2): a boolean-valued
// backend computation, defined only for Int and Bits — anything else is
// a TypeInferenceNeeded fatal (the type checker should have eliminated
// it by this point).
func (it *Interp) IsValOfType(env ienv.Env, v backend.Value, t asltypes.Type, pos token.Position) (backend.Value, error) {
	switch tt := t.(type) {
	case asltypes.Int:
		switch c := tt.Constraint.(type) {
		case asltypes.UnConstrained:
			return it.fromBool(true)
		case asltypes.UnderConstrained:
			return nil, fatal(UnrespectedParserInvar, pos, "is_val_of_type: UnderConstrained int")
		case asltypes.WellConstrained:
			acc, err := it.fromBool(false)
			if err != nil {
				return nil, err
			}
			for _, cons := range c.Constraints {
				cond, err := it.isValOfTypeConstraint(env, v, cons, pos)
				if err != nil {
					return nil, err
				}
				acc, err = it.B.BinOp("OR_BOOL", acc, cond)
				if err != nil {
					return nil, wrapBackend(pos, err)
				}
			}
			return acc, nil
		default:
			return nil, fatal(UnrespectedParserInvar, pos, "is_val_of_type: unknown int constraint shape")
		}
	case asltypes.Bits:
		n, err := it.sefEvalConcreteInt(env, tt.Length, pos)
		if err != nil {
			return nil, err
		}
		length, err := it.B.BitvectorLength(v)
		if err != nil {
			return nil, wrapBackend(pos, err)
		}
		return it.fromBool(int64(length) == n)
	default:
		return nil, fatal(TypeInferenceNeeded, pos, "is_val_of_type: unsupported type shape")
	}
}

func (it *Interp) isValOfTypeConstraint(env ienv.Env, v backend.Value, c asltypes.Constraint, pos token.Position) (backend.Value, error) {
	switch cc := c.(type) {
	case asltypes.ExactConstraint:
		ev, err := it.sefEvalValue(env, cc.Value, pos)
		if err != nil {
			return nil, err
		}
		out, err := it.B.BinOp("==", v, ev)
		return out, wrapBackend(pos, err)
	case asltypes.RangeConstraint:
		lo, err := it.sefEvalValue(env, cc.Low, pos)
		if err != nil {
			return nil, err
		}
		hi, err := it.sefEvalValue(env, cc.High, pos)
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
	default:
		return nil, fatal(UnrespectedParserInvar, pos, "is_val_of_type: unknown constraint shape")
	}
}
