package interp

import (
	"github.com/arm-asl/aslcore/internal/ast"
	"github.com/arm-asl/aslcore/internal/ienv"
)

// evalLoop is eval_loop(is_while, env, cond, body) (§4.5.1). For a
// concrete backend the condition is always determined, so the unroll
// budget never actually gets consulted in practice — it exists for a
// symbolic backend whose Choice can report determined=false.
func (it *Interp) evalLoop(env ienv.Env, isWhile bool, cond ast.Expression, body *ast.SBlock) (MaybeExc[Control], error) {
	cm, err := it.EvalExpr(env, cond)
	if err != nil {
		return MaybeExc[Control]{}, err
	}
	if cm.IsThrowing() {
		return Throwing[Control](cm.Throw(), cm.Env()), nil
	}
	r := cm.Value()
	condVal := r.Value
	curEnv := r.Env
	if !isWhile {
		nv, err := it.B.UnOp("!", condVal)
		if err != nil {
			return MaybeExc[Control]{}, wrapBackend(cond.Pos(), err)
		}
		condVal = nv
	}

	decision, determined := it.B.Choice(condVal)
	if !determined {
		if curEnv.Local.TickDecr() {
			it.B.WarnT("unroll budget exhausted; exiting loop")
			return Normal(ContinuingWith(curEnv)), nil
		}
	}
	if !decision {
		return Normal(ContinuingWith(curEnv)), nil
	}

	bm, err := it.EvalStmt(curEnv, body)
	if err != nil {
		return MaybeExc[Control]{}, err
	}
	if bm.IsThrowing() {
		return Throwing[Control](bm.Throw(), bm.Env()), nil
	}
	ctrl := bm.Value()
	if ctrl.Kind == Returning {
		return Normal(ctrl), nil
	}
	return it.evalLoop(ctrl.Env, isWhile, cond, body)
}

func (it *Interp) evalWhile(env ienv.Env, s *ast.SWhile) (MaybeExc[Control], error) {
	env.Local.TickPush(it.Unroll)
	result, err := it.evalLoop(env, true, s.Cond, s.Body)
	env.Local.TickPop()
	return result, err
}

// evalRepeat executes body once unconditionally, then loops with the
// condition inverted (§4.5: "execute body once, push second unroll
// budget; eval_loop false").
func (it *Interp) evalRepeat(env ienv.Env, s *ast.SRepeat) (MaybeExc[Control], error) {
	bm, err := it.EvalStmt(env, s.Body)
	if err != nil {
		return MaybeExc[Control]{}, err
	}
	if bm.IsThrowing() {
		return Throwing[Control](bm.Throw(), bm.Env()), nil
	}
	ctrl := bm.Value()
	if ctrl.Kind == Returning {
		return Normal(ctrl), nil
	}
	ctrl.Env.Local.TickPushBis(it.Unroll)
	result, err := it.evalLoop(ctrl.Env, false, s.Cond, s.Body)
	ctrl.Env.Local.TickPop()
	return result, err
}

// evalFor is eval_for (§4.5.1): comparison and step direction follow
// Direction; iteration is inclusive of both bounds. Bounds are resolved
// to concrete integers — a backend whose bounds come back undetermined
// cannot be stepped by host arithmetic and raises UnsupportedExpr, the
// same fate E_GetArray's non-concrete index meets (§9).
func (it *Interp) evalFor(env ienv.Env, s *ast.SFor) (MaybeExc[Control], error) {
	pos := s.Pos()
	loVal, err := it.sefEvalValue(env, s.Low, pos)
	if err != nil {
		return MaybeExc[Control]{}, err
	}
	hiVal, err := it.sefEvalValue(env, s.High, pos)
	if err != nil {
		return MaybeExc[Control]{}, err
	}
	lo, okLo := it.B.ToInt(loVal)
	hi, okHi := it.B.ToInt(hiVal)
	if !okLo || !okHi {
		return MaybeExc[Control]{}, fatal(UnsupportedExpr, pos, "for-loop bounds are not concretely determined")
	}

	var cur, end, step int64
	if s.Direction == ast.ForUp {
		cur, end, step = lo, hi, 1
	} else {
		cur, end, step = hi, lo, -1
	}

	loopEnv := env
	ienv.DeclareLocal(s.Name, it.B.FromInt(cur), loopEnv)
	it.B.OnWriteIdentifier(s.Name, loopEnv.Local.Scope(), it.B.FromInt(cur))

	for {
		if step > 0 && cur > end {
			break
		}
		if step < 0 && cur < end {
			break
		}
		bm, err := it.EvalStmt(loopEnv, s.Body)
		if err != nil {
			ienv.RemoveLocal(s.Name, loopEnv)
			return MaybeExc[Control]{}, err
		}
		if bm.IsThrowing() {
			ienv.RemoveLocal(s.Name, loopEnv)
			return Throwing[Control](bm.Throw(), bm.Env()), nil
		}
		ctrl := bm.Value()
		if ctrl.Kind == Returning {
			ienv.RemoveLocal(s.Name, loopEnv)
			return Normal(ctrl), nil
		}
		loopEnv = ctrl.Env
		cur += step
		ienv.Assign(s.Name, it.B.FromInt(cur), loopEnv)
		it.B.OnWriteIdentifier(s.Name, loopEnv.Local.Scope(), it.B.FromInt(cur))
	}

	ienv.RemoveLocal(s.Name, loopEnv)
	return Normal(ContinuingWith(loopEnv)), nil
}
