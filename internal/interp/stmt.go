package interp

import (
	"fmt"

	"github.com/arm-asl/aslcore/internal/ast"
	"github.com/arm-asl/aslcore/internal/backend"
	"github.com/arm-asl/aslcore/internal/ienv"
	"github.com/arm-asl/aslcore/internal/token"
)

// EvalStmt is eval_stmt(env, s) (§4.5): it always produces a Control, or
// Throwing if the statement (or anything it calls) raised an exception.
func (it *Interp) EvalStmt(env ienv.Env, s ast.Stmt) (MaybeExc[Control], error) {
	var result MaybeExc[Control]
	err := it.rule("eval_stmt", func() error {
		out, err := it.evalStmt(env, s)
		result = out
		return err
	})
	return result, err
}

func (it *Interp) evalStmt(env ienv.Env, s ast.Stmt) (MaybeExc[Control], error) {
	switch ex := s.(type) {
	case *ast.SPass:
		return Normal(ContinuingWith(env)), nil

	case *ast.SAssign:
		return it.evalAssign(env, ex)

	case *ast.SReturn:
		return it.evalReturn(env, ex)

	case *ast.SSeq:
		m, err := it.EvalStmt(env, ex.First)
		if err != nil {
			return MaybeExc[Control]{}, err
		}
		if m.IsThrowing() {
			return m, nil
		}
		ctrl := m.Value()
		if ctrl.Kind == Returning {
			return m, nil
		}
		return it.EvalStmt(ctrl.Env, ex.Second)

	case *ast.SCall:
		m, err := it.EvalCall(env, ex.Pos(), ex.Name, ex.Args, ex.NamedArgs)
		if err != nil {
			return MaybeExc[Control]{}, err
		}
		if m.IsThrowing() {
			return Throwing[Control](m.Throw(), m.Env()), nil
		}
		return Normal(ContinuingWith(m.Value().Env)), nil

	case *ast.SCond:
		return it.evalCondStmt(env, ex)

	case *ast.SCase:
		return it.evalCase(env, ex)

	case *ast.SAssert:
		return it.evalAssert(env, ex)

	case *ast.SWhile:
		return it.evalWhile(env, ex)

	case *ast.SRepeat:
		return it.evalRepeat(env, ex)

	case *ast.SFor:
		return it.evalFor(env, ex)

	case *ast.SThrow:
		return it.evalThrow(env, ex)

	case *ast.STry:
		return it.evalTry(env, ex)

	case *ast.SDecl:
		return it.evalDecl(env, ex)

	case *ast.SPrint:
		return it.evalPrint(env, ex)

	case *ast.SBlock:
		return it.evalBlock(env, ex)

	default:
		return MaybeExc[Control]{}, fatal(UnrespectedParserInvar, s.Pos(), "eval_stmt: unknown statement shape")
	}
}

func (it *Interp) evalBlock(env ienv.Env, ex *ast.SBlock) (MaybeExc[Control], error) {
	inner := ienv.PushBlock(env)
	if ex.Body == nil {
		return Normal(ContinuingWith(ienv.PopBlock(env, inner))), nil
	}
	m, err := it.EvalStmt(inner, ex.Body)
	if err != nil {
		return MaybeExc[Control]{}, err
	}
	if m.IsThrowing() {
		popped := ienv.PopBlock(env, m.Env())
		return Throwing[Control](m.Throw(), popped), nil
	}
	ctrl := m.Value()
	if ctrl.Kind == Returning {
		return m, nil
	}
	ctrl.Env = ienv.PopBlock(env, ctrl.Env)
	return Normal(ctrl), nil
}

func (it *Interp) evalAssign(env ienv.Env, ex *ast.SAssign) (MaybeExc[Control], error) {
	if destr, ok := ex.LHS.(*ast.LDestructuring); ok {
		if call, ok := ex.RHS.(*ast.ECall); ok {
			m, err := it.EvalCall(env, call.Pos(), call.Name, call.Args, call.NamedArgs)
			if err != nil {
				return MaybeExc[Control]{}, err
			}
			if m.IsThrowing() {
				return Throwing[Control](m.Throw(), m.Env()), nil
			}
			r := m.Value()
			resEnv, err := it.ProtectedMultiAssign(r.Env, destr.Elems, r.Values, ex.Pos())
			if err != nil {
				return MaybeExc[Control]{}, err
			}
			return Normal(ContinuingWith(resEnv)), nil
		}
	}

	m, err := it.EvalExpr(env, ex.RHS)
	if err != nil {
		return MaybeExc[Control]{}, err
	}
	if m.IsThrowing() {
		return Throwing[Control](m.Throw(), m.Env()), nil
	}
	r := m.Value()
	resEnv, err := it.EvalLExpr(r.Env, ex.LHS, r.Value)
	if err != nil {
		return MaybeExc[Control]{}, err
	}
	return Normal(ContinuingWith(resEnv)), nil
}

func (it *Interp) evalReturn(env ienv.Env, ex *ast.SReturn) (MaybeExc[Control], error) {
	cur := env
	values := make([]backend.Value, len(ex.Values))
	for i, e := range ex.Values {
		m, err := it.EvalExpr(cur, e)
		if err != nil {
			return MaybeExc[Control]{}, err
		}
		if m.IsThrowing() {
			return Throwing[Control](m.Throw(), m.Env()), nil
		}
		r := m.Value()
		values[i] = r.Value
		cur = r.Env
	}
	for i, v := range values {
		it.B.OnWriteIdentifier(returnName(i), cur.Local.Scope(), v)
	}
	return Normal(ReturningWith(values, cur.Global)), nil
}

func (it *Interp) evalCondStmt(env ienv.Env, ex *ast.SCond) (MaybeExc[Control], error) {
	m, err := it.EvalExpr(env, ex.Cond)
	if err != nil {
		return MaybeExc[Control]{}, err
	}
	if m.IsThrowing() {
		return Throwing[Control](m.Throw(), m.Env()), nil
	}
	r := m.Value()
	condEnv, err := it.commitBranch(r.Env, ex.Pos())
	if err != nil {
		return MaybeExc[Control]{}, err
	}
	decision, determined := it.B.Choice(r.Value)
	if !determined {
		return MaybeExc[Control]{}, fatal(UnsupportedExpr, ex.Pos(), "if condition is not concretely decidable")
	}
	if decision {
		return it.EvalStmt(condEnv, ex.Then)
	}
	if ex.Else == nil {
		return Normal(ContinuingWith(condEnv)), nil
	}
	return it.EvalStmt(condEnv, ex.Else)
}

// commitBranch always fires the commit effect for statement-level
// conditionals (§4.5): unlike ECond, there is no "simple" fast path that
// skips it.
func (it *Interp) commitBranch(env ienv.Env, pos token.Position) (ienv.Env, error) {
	it.B.Commit("cond")
	return env, nil
}

func (it *Interp) evalCase(env ienv.Env, ex *ast.SCase) (MaybeExc[Control], error) {
	m, err := it.EvalExpr(env, ex.Subject)
	if err != nil {
		return MaybeExc[Control]{}, err
	}
	if m.IsThrowing() {
		return Throwing[Control](m.Throw(), m.Env()), nil
	}
	r := m.Value()
	for _, clause := range ex.Clauses {
		matchVal, err := it.EvalPattern(r.Env, r.Value, clause.Pattern)
		if err != nil {
			return MaybeExc[Control]{}, err
		}
		decision, determined := it.B.Choice(matchVal)
		if !determined {
			return MaybeExc[Control]{}, fatal(UnsupportedExpr, ex.Pos(), "case pattern is not concretely decidable")
		}
		if decision {
			return it.EvalStmt(r.Env, clause.Body)
		}
	}
	if ex.Otherwise != nil {
		return it.EvalStmt(r.Env, ex.Otherwise)
	}
	return Normal(ContinuingWith(r.Env)), nil
}

func (it *Interp) evalAssert(env ienv.Env, ex *ast.SAssert) (MaybeExc[Control], error) {
	m, err := it.EvalExpr(env, ex.Expr)
	if err != nil {
		return MaybeExc[Control]{}, err
	}
	if m.IsThrowing() {
		return Throwing[Control](m.Throw(), m.Env()), nil
	}
	r := m.Value()
	decision, determined := it.B.Choice(r.Value)
	if !determined {
		return MaybeExc[Control]{}, fatal(UnsupportedExpr, ex.Pos(), "assert expression is not concretely decidable")
	}
	if !decision {
		return MaybeExc[Control]{}, fatal(AssertionFailed, ex.Pos(), "assertion failed")
	}
	return Normal(ContinuingWith(r.Env)), nil
}

func (it *Interp) evalPrint(env ienv.Env, ex *ast.SPrint) (MaybeExc[Control], error) {
	cur := env
	parts := make([]string, len(ex.Args))
	for i, a := range ex.Args {
		v, err := it.sefEvalValue(cur, a, ex.Pos())
		if err != nil {
			return MaybeExc[Control]{}, err
		}
		parts[i] = it.B.DebugValue(v)
	}
	if it.Out != nil {
		for i, p := range parts {
			if i > 0 {
				fmt.Fprint(it.Out, " ")
			}
			fmt.Fprint(it.Out, p)
		}
		if ex.Newline {
			fmt.Fprintln(it.Out)
		}
	}
	return Normal(ContinuingWith(cur)), nil
}

func (it *Interp) evalDecl(env ienv.Env, ex *ast.SDecl) (MaybeExc[Control], error) {
	if ex.Init != nil {
		m, err := it.EvalExpr(env, ex.Init)
		if err != nil {
			return MaybeExc[Control]{}, err
		}
		if m.IsThrowing() {
			return Throwing[Control](m.Throw(), m.Env()), nil
		}
		r := m.Value()
		resEnv, err := it.declareItem(r.Env, ex.Item, r.Value)
		if err != nil {
			return MaybeExc[Control]{}, err
		}
		return Normal(ContinuingWith(resEnv)), nil
	}

	typed, ok := ex.Item.(ast.LDITyped)
	if !ok {
		return MaybeExc[Control]{}, fatal(TypeInferenceNeeded, ex.Pos(), "declaration without initialiser needs a type annotation")
	}
	t, err := resolveTypeByName(env.Global, typed.TypeName, ex.Pos())
	if err != nil {
		return MaybeExc[Control]{}, err
	}
	bv, err := it.BaseValue(env, t, ex.Pos())
	if err != nil {
		return MaybeExc[Control]{}, err
	}
	resEnv, err := it.declareItem(env, typed.Inner, bv)
	if err != nil {
		return MaybeExc[Control]{}, err
	}
	return Normal(ContinuingWith(resEnv)), nil
}

func (it *Interp) declareItem(env ienv.Env, item ast.LocalDeclItem, v backend.Value) (ienv.Env, error) {
	switch di := item.(type) {
	case ast.LDIDiscard:
		return env, nil
	case ast.LDIVar:
		ienv.DeclareLocal(di.Name, v, env)
		it.B.OnWriteIdentifier(di.Name, env.Local.Scope(), v)
		return env, nil
	case ast.LDITyped:
		return it.declareItem(env, di.Inner, v)
	case ast.LDITuple:
		cur := env
		for i, sub := range di.Items {
			elem, err := it.B.GetIndex(v, i)
			if err != nil {
				return env, wrapBackend(token.Position{}, err)
			}
			cur, err = it.declareItem(cur, sub, elem)
			if err != nil {
				return env, err
			}
		}
		return cur, nil
	default:
		return env, fatal(UnrespectedParserInvar, token.Position{}, "decl: unknown binding shape")
	}
}
