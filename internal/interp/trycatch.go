package interp

import (
	"github.com/arm-asl/aslcore/internal/ast"
	"github.com/arm-asl/aslcore/internal/ienv"
)

// evalThrow is Throw (§4.5): `throw;` (bare rethrow) propagates an
// in-flight exception unchanged via Throwing(nil, env) — resolved to the
// enclosing try's original throw payload once it reaches eval_try's
// rethrow-implicit rewrite. `throw e [as t];` evaluates e, records its
// provenance under a freshly generated identifier, and raises it.
func (it *Interp) evalThrow(env ienv.Env, ex *ast.SThrow) (MaybeExc[Control], error) {
	if !ex.HasValue {
		return Throwing[Control](nil, env), nil
	}

	m, err := it.EvalExpr(env, ex.Expr)
	if err != nil {
		return MaybeExc[Control]{}, err
	}
	if m.IsThrowing() {
		return Throwing[Control](m.Throw(), m.Env()), nil
	}
	r := m.Value()
	if ex.TypeName == "" {
		return MaybeExc[Control]{}, fatal(TypeInferenceNeeded, ex.Pos(), "throw expression has no resolved dynamic type")
	}

	name := it.nextThrowName()
	scope := ienv.GlobalScope(false)
	it.B.OnWriteIdentifier(name, scope, r.Value)

	info := &ThrowInfo{
		Val:  ReadFrom{Value: r.Value, Name: name, Scope: scope},
		Type: ex.TypeName,
	}
	return Throwing[Control](info, r.Env), nil
}

// evalTry is Try (§4.5.2). A body that completes Normal, or that throws
// with no catcher eligible (bare-rethrow-out-of-try, i.e. Throwing with a
// nil payload), passes straight through untouched.
func (it *Interp) evalTry(env ienv.Env, ex *ast.STry) (MaybeExc[Control], error) {
	bm, err := it.EvalStmt(env, ex.Body)
	if err != nil {
		return MaybeExc[Control]{}, err
	}
	if !bm.IsThrowing() {
		return bm, nil
	}
	throwInfo := bm.Throw()
	if throwInfo == nil {
		return bm, nil
	}
	throwEnv := bm.Env()

	var catchEnv ienv.Env
	if ienv.SameScope(throwEnv.Local, env.Local) {
		catchEnv = throwEnv
	} else {
		catchEnv = ienv.Env{Local: env.Local, Global: throwEnv.Global}
	}

	for _, catcher := range ex.Catchers {
		if !env.Global.Static.Accepts(catcher.TypeName, throwInfo.Type) {
			continue
		}
		return it.runHandlerBody(catchEnv, catcher.Binder, catcher.HasName, &throwInfo.Val, catcher.Body, throwInfo)
	}

	if ex.Otherwise != nil {
		return it.runHandlerBody(catchEnv, "", false, nil, ex.Otherwise, throwInfo)
	}
	return bm, nil
}

// runHandlerBody executes a catcher or otherwise body, binding the caught
// value to its name (if any) for the body's duration, and applying
// rethrow-implicit: a bare `throw;` surfacing from the handler re-raises
// the original throwInfo rather than an empty one (§4.5.2).
func (it *Interp) runHandlerBody(catchEnv ienv.Env, binder string, hasName bool, bindVal *ReadFrom, body *ast.SBlock, throwInfo *ThrowInfo) (MaybeExc[Control], error) {
	if hasName {
		ienv.DeclareLocal(binder, bindVal.Value, catchEnv)
		it.B.OnReadIdentifier(bindVal.Name, bindVal.Scope, bindVal.Value)
	}

	// body is always an *SBlock, so EvalStmt's own push/pop-scope handling
	// already restores catchEnv.Local's identity by the time it returns
	// (Returning aside, which carries no local env at all) — removing the
	// binder from catchEnv directly is therefore always correct.
	cm, err := it.EvalStmt(catchEnv, body)
	if hasName {
		ienv.RemoveLocal(binder, catchEnv)
	}

	if err != nil {
		return MaybeExc[Control]{}, err
	}
	if cm.IsThrowing() && cm.Throw() == nil {
		return Throwing[Control](throwInfo, cm.Env()), nil
	}
	return cm, nil
}
