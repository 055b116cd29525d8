package interp

import (
	"github.com/arm-asl/aslcore/internal/asltypes"
	"github.com/arm-asl/aslcore/internal/ienv"
	"github.com/arm-asl/aslcore/internal/token"
)

// resolveTypeByName looks a declared type name up in the global static
// view and follows any Named indirection, fataling with
// UnrespectedParserInvariant if the name was never elaborated — a parser
// / type-checker invariant the core relies on (§7).
func resolveTypeByName(g *ienv.GlobalEnv, name string, pos token.Position) (asltypes.Type, error) {
	t, ok := g.Static.Types[name]
	if !ok {
		return nil, fatal(UnrespectedParserInvar, pos, "undeclared type %q", name)
	}
	return g.Static.Resolve(t), nil
}
