package interp

import (
	"github.com/arm-asl/aslcore/internal/ast"
	"github.com/arm-asl/aslcore/internal/backend"
	"github.com/arm-asl/aslcore/internal/ienv"
	"github.com/arm-asl/aslcore/internal/token"
)

// CallResult is eval_call's Normal payload: the subprogram's return
// values (empty for a procedure call or a Continuing body) plus the
// environment to resume the caller with — its own local frame, but the
// callee's (possibly mutated) global (§4.6: "The returned global env
// replaces the caller's global").
type CallResult struct {
	Values []backend.Value
	Env    ienv.Env
}

// EvalCall is eval_call(pos, name, env, args, named_args) (§4.6).
func (it *Interp) EvalCall(env ienv.Env, pos token.Position, name string, args []ast.Expression, namedArgs []ast.NamedArg) (MaybeExc[CallResult], error) {
	var result MaybeExc[CallResult]
	err := it.rule("eval_call", func() error {
		out, err := it.evalCall(env, pos, name, args, namedArgs)
		result = out
		return err
	})
	return result, err
}

func (it *Interp) evalCall(env ienv.Env, pos token.Position, name string, args []ast.Expression, namedArgs []ast.NamedArg) (MaybeExc[CallResult], error) {
	cur := env
	positional := make([]backend.Value, len(args))
	for i, a := range args {
		m, err := it.EvalExpr(cur, a)
		if err != nil {
			return MaybeExc[CallResult]{}, err
		}
		if m.IsThrowing() {
			return Throwing[CallResult](m.Throw(), m.Env()), nil
		}
		r := m.Value()
		positional[i] = r.Value
		cur = r.Env
	}

	namedValues := make(map[string]backend.Value, len(namedArgs))
	for _, na := range namedArgs {
		m, err := it.EvalExpr(cur, na.Value)
		if err != nil {
			return MaybeExc[CallResult]{}, err
		}
		if m.IsThrowing() {
			return Throwing[CallResult](m.Throw(), m.Env()), nil
		}
		r := m.Value()
		namedValues[na.Name] = r.Value
		cur = r.Env
	}

	fe, ok := cur.Global.Func(name)
	if !ok {
		return MaybeExc[CallResult]{}, fatal(UndefinedIdentifier, pos, "undefined subprogram %q", name)
	}
	decl := fe.Decl
	if len(positional) != len(decl.Params) {
		return MaybeExc[CallResult]{}, fatal(BadArity, pos, "%s: expected %d positional argument(s), got %d", name, len(decl.Params), len(positional))
	}

	instance := fe.NextInstance()
	scope := ienv.LocalScope(name, instance)

	if decl.Primitive {
		return it.dispatchPrimitive(cur, pos, name, scope, positional)
	}
	return it.dispatchASLCall(cur, pos, decl, scope, positional, namedValues)
}

func (it *Interp) dispatchPrimitive(env ienv.Env, pos token.Position, name string, scope ienv.Scope, positional []backend.Value) (MaybeExc[CallResult], error) {
	prim, ok := it.Prims[name]
	if !ok {
		return MaybeExc[CallResult]{}, fatal(UnrespectedParserInvar, pos, "primitive %q has no registered runtime", name)
	}
	results, err := prim.Run(positional)
	if err != nil {
		return MaybeExc[CallResult]{}, wrapBackend(pos, err)
	}
	for i, v := range results {
		it.B.OnWriteIdentifier(returnName(i), scope, v)
	}
	return Normal(CallResult{Values: results, Env: env}), nil
}

func (it *Interp) dispatchASLCall(env ienv.Env, pos token.Position, decl *ast.FuncDecl, scope ienv.Scope, positional []backend.Value, namedValues map[string]backend.Value) (MaybeExc[CallResult], error) {
	callLocal := ienv.NewCallLocal(scope)
	callEnv := ienv.Env{Local: callLocal, Global: env.Global}

	for i, param := range decl.Params {
		ienv.DeclareLocal(param.Name, positional[i], callEnv)
	}
	for _, param := range decl.NamedParams {
		if v, ok := namedValues[param.Name]; ok {
			ienv.DeclareLocal(param.Name, v, callEnv)
		}
	}

	cm, err := it.EvalStmt(callEnv, decl.Body)
	if err != nil {
		return MaybeExc[CallResult]{}, err
	}
	if cm.IsThrowing() {
		return Throwing[CallResult](cm.Throw(), cm.Env()), nil
	}
	ctrl := cm.Value()
	switch ctrl.Kind {
	case Returning:
		return Normal(CallResult{
			Values: ctrl.Values,
			Env:    ienv.Env{Local: env.Local, Global: ctrl.Global},
		}), nil
	default: // Continuing
		return Normal(CallResult{
			Values: nil,
			Env:    ienv.Env{Local: env.Local, Global: ctrl.Env.Global},
		}), nil
	}
}

// evalCallExpr adapts EvalCall's CallResult to eval_expr's single-value
// shape: multi-result calls produce a vector, single-result calls the
// bare value (§4.2).
func (it *Interp) evalCallExpr(env ienv.Env, ex *ast.ECall) (MaybeExc[ExprResult], error) {
	m, err := it.EvalCall(env, ex.Pos(), ex.Name, ex.Args, ex.NamedArgs)
	if err != nil {
		return MaybeExc[ExprResult]{}, err
	}
	if m.IsThrowing() {
		return Throwing[ExprResult](m.Throw(), m.Env()), nil
	}
	r := m.Value()
	var v backend.Value
	if len(r.Values) == 1 {
		v = r.Values[0]
	} else {
		v = it.B.CreateVector(r.Values)
	}
	return Normal(ExprResult{Value: v, Env: r.Env}), nil
}
