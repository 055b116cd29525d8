package interp

import (
	"github.com/arm-asl/aslcore/internal/ast"
	"github.com/arm-asl/aslcore/internal/asltypes"
	"github.com/arm-asl/aslcore/internal/backend"
	"github.com/arm-asl/aslcore/internal/ienv"
	"github.com/arm-asl/aslcore/internal/token"
)

// BuildGlobalEnv is build_genv (§2, §3): it first installs the
// driver-supplied seed (§6), registers every primitive and subprogram declaration
// into the function table (§6: "the evaluator prepends their declarations
// to the AST"), then resolves every global variable's initial value, in
// declaration-dependency order. seed may be nil.
//
// The AST carries declarations in parse order, not dependency order, and
// nothing in this package performs a free-variable analysis over
// expressions. Instead, global-variable resolution is a fixed-point
// worklist: each pass attempts every still-unresolved GlobalVarDecl, and a
// decl that fails with UndefinedIdentifier (a forward reference to a
// global not yet resolved) is simply retried on the next pass. A pass
// that resolves nothing makes no progress, so the remaining decls form a
// genuine cycle (or reference something the static env never declared) —
// fatal UnrespectedParserInvariant, since a well-formed program's type
// checker would never have accepted it.
func BuildGlobalEnv(it *Interp, prog *ast.Program, static *asltypes.StaticEnv, seed map[string]backend.Value) (*ienv.GlobalEnv, error) {
	var global *ienv.GlobalEnv
	err := it.rule("build_genv", func() error {
		global = ienv.NewGlobalEnv(static)
		for name, v := range seed {
			global.DeclareGlobal(name, v)
			it.B.OnWriteIdentifier(name, ienv.GlobalScope(true), v)
		}
		for _, p := range it.Prims {
			global.RegisterFunc(p.Decl.Name, p.Decl)
		}
		for _, d := range prog.Decls {
			if fd, ok := d.(*ast.FuncDecl); ok {
				global.RegisterFunc(fd.Name, fd)
			}
		}

		pending := make([]*ast.GlobalVarDecl, 0, len(prog.Decls))
		for _, d := range prog.Decls {
			if gv, ok := d.(*ast.GlobalVarDecl); ok {
				pending = append(pending, gv)
			}
		}

		for len(pending) > 0 {
			progressed := false
			next := pending[:0]
			for _, gv := range pending {
				ok, err := resolveGlobal(it, global, gv)
				if err != nil {
					if isUndefinedIdentifier(err) {
						next = append(next, gv)
						continue
					}
					return err
				}
				if ok {
					progressed = true
				}
			}
			if !progressed {
				return fatal(UnrespectedParserInvar, pending[0].Pos(),
					"unresolvable global-declaration dependency cycle starting at %q", pending[0].Name)
			}
			pending = next
		}
		return nil
	})
	return global, err
}

func isUndefinedIdentifier(err error) bool {
	ee, ok := err.(*EvalError)
	return ok && ee.Code == UndefinedIdentifier
}

func resolveGlobal(it *Interp, global *ienv.GlobalEnv, gv *ast.GlobalVarDecl) (bool, error) {
	rootEnv := ienv.Env{Local: nil, Global: global}

	if gv.Init != nil {
		m, err := it.EvalExpr(rootEnv, gv.Init)
		if err != nil {
			return false, err
		}
		if m.IsThrowing() {
			throw := m.Throw()
			t := ""
			if throw != nil {
				t = throw.Type
			}
			return false, fatal(UncaughtException, gv.Pos(), "uncaught exception of type %q during global initialisation of %q", t, gv.Name)
		}
		global.DeclareGlobal(gv.Name, m.Value().Value)
		it.B.OnWriteIdentifier(gv.Name, ienv.GlobalScope(true), m.Value().Value)
		return true, nil
	}

	t, err := resolveTypeByName(global, gv.TypeName, gv.Pos())
	if err != nil {
		return false, err
	}
	bv, err := it.BaseValue(rootEnv, t, gv.Pos())
	if err != nil {
		return false, err
	}
	global.DeclareGlobal(gv.Name, bv)
	it.B.OnWriteIdentifier(gv.Name, ienv.GlobalScope(true), bv)
	return true, nil
}

// RunMain validates the program's entry point (§2: "a subprogram named
// main taking no positional or named arguments and returning one value")
// and invokes it.
func RunMain(it *Interp, global *ienv.GlobalEnv) (backend.Value, error) {
	fe, ok := global.Func("main")
	if !ok {
		return nil, fatal(MismatchedReturnValue, token.Position{}, "entry point %q is not declared", "main")
	}
	decl := fe.Decl
	if len(decl.Params) != 0 || len(decl.NamedParams) != 0 || len(decl.ReturnTypeNames) != 1 {
		return nil, fatal(MismatchedReturnValue, decl.Pos(), "entry point %q must take no arguments and return exactly one value", "main")
	}

	rootEnv := ienv.Env{Local: ienv.NewCallLocal(ienv.LocalScope("<toplevel>", 0)), Global: global}
	m, err := it.EvalCall(rootEnv, decl.Pos(), "main", nil, nil)
	if err != nil {
		return nil, err
	}
	if m.IsThrowing() {
		throw := m.Throw()
		if throw == nil {
			return nil, fatal(UncaughtException, decl.Pos(), "uncaught exception escaped main with no recorded type")
		}
		return nil, fatal(UncaughtException, decl.Pos(), "uncaught exception of type %q: %s", throw.Type, it.B.DebugValue(throw.Val.Value))
	}
	r := m.Value()
	if len(r.Values) != 1 {
		return nil, fatal(MismatchedReturnValue, decl.Pos(), "main returned %d value(s), expected 1", len(r.Values))
	}
	return r.Values[0], nil
}
