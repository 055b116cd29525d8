// Package fixtures builds hand-written ast.Program / asltypes.StaticEnv
// pairs for six end-to-end scenarios (§8). There is no parser in this
// module (§1 Non-goals), so fixtures are the only way to exercise the
// core end to end; cmd/aslrun's "run" subcommand and internal/interp's
// fixture_test.go both drive programs through this registry by name
// rather than by reading ASL source text.
package fixtures

import (
	"sort"

	"github.com/arm-asl/aslcore/internal/ast"
	"github.com/arm-asl/aslcore/internal/asltypes"
)

// Program bundles a fixture's AST with the static type view it assumes
// already elaborated (as if an external type checker had produced it).
type Program struct {
	Name    string
	Program *ast.Program
	Static  *asltypes.StaticEnv
}

func intLit(n int64) ast.Expression { return &ast.ELiteral{Value: ast.IntLiteral{Value: n}} }

func baseStatic() *asltypes.StaticEnv {
	s := asltypes.NewStaticEnv()
	s.Types["integer"] = asltypes.Int{Constraint: asltypes.UnConstrained{}}
	return s
}

func mainDecl(body ast.Stmt) *ast.FuncDecl {
	return &ast.FuncDecl{Name: "main", ReturnTypeNames: []string{"integer"}, Body: body}
}

// registry is populated by init() below, one entry per named() call.
var registry = map[string]*Program{}

func register(p *Program) { registry[p.Name] = p }

// Get looks a fixture up by name.
func Get(name string) (*Program, bool) {
	p, ok := registry[name]
	return p, ok
}

// Names lists every registered fixture name, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func init() {
	register(literalArithmetic())
	register(globalMutation())
	register(tryCatch())
	register(bitSliceWrite())
	register(forLoopSum())
	register(failingAssert())
}

// 1. `func main() => integer begin return 1 + 2; end` → 3
func literalArithmetic() *Program {
	prog := &ast.Program{Decls: []ast.Decl{
		mainDecl(&ast.SReturn{Values: []ast.Expression{
			&ast.EBinop{Op: "+", Left: intLit(1), Right: intLit(2)},
		}}),
	}}
	return &Program{Name: "literal-arithmetic", Program: prog, Static: baseStatic()}
}

// 2. `var g: integer = 0; func main() => integer begin g = 7; return g; end` → 7
func globalMutation() *Program {
	prog := &ast.Program{Decls: []ast.Decl{
		&ast.GlobalVarDecl{Name: "g", TypeName: "integer", Init: intLit(0)},
		mainDecl(&ast.SSeq{
			First:  &ast.SAssign{LHS: &ast.LVar{Name: "g"}, RHS: intLit(7)},
			Second: &ast.SReturn{Values: []ast.Expression{&ast.EVar{Name: "g"}}},
		}),
	}}
	return &Program{Name: "global-mutation", Program: prog, Static: baseStatic()}
}

// 3. `func main() => integer begin try throw MyExc {}; catch when MyExc => return 42; end; return 0; end` → 42
func tryCatch() *Program {
	body := &ast.SSeq{
		First: &ast.STry{
			Body: &ast.SBlock{Body: &ast.SThrow{
				HasValue: true,
				Expr:     &ast.ERecord{TypeName: "MyExc"},
				TypeName: "MyExc",
			}},
			Catchers: []ast.Catcher{{
				TypeName: "MyExc",
				Body:     &ast.SBlock{Body: &ast.SReturn{Values: []ast.Expression{intLit(42)}}},
			}},
		},
		Second: &ast.SReturn{Values: []ast.Expression{intLit(0)}},
	}
	prog := &ast.Program{Decls: []ast.Decl{
		&ast.ExceptionDecl{Name: "MyExc"},
		mainDecl(body),
	}}
	static := baseStatic()
	static.Types["MyExc"] = asltypes.Exception{}
	return &Program{Name: "try-catch", Program: prog, Static: static}
}

// 4. `func main() => integer begin var s: bits(8) = '00000000'; s[3:0] = '1111'; return UInt(s); end` → 15
func bitSliceWrite() *Program {
	body := &ast.SSeq{
		First: &ast.SDecl{
			Kind: "var",
			Item: ast.LDITyped{Inner: ast.LDIVar{Name: "s"}, TypeName: "bits8"},
			Init: &ast.ELiteral{Value: ast.BitsLiteralValue{Bits: "00000000"}},
		},
		Second: &ast.SSeq{
			First: &ast.SAssign{
				LHS: &ast.LSlice{
					Bits:   &ast.LVar{Name: "s"},
					Slices: []ast.Slice{{High: intLit(3), Low: intLit(0)}},
				},
				RHS: &ast.ELiteral{Value: ast.BitsLiteralValue{Bits: "1111"}},
			},
			Second: &ast.SReturn{Values: []ast.Expression{
				&ast.ECall{Name: "UInt", Args: []ast.Expression{&ast.EVar{Name: "s"}}},
			}},
		},
	}
	prog := &ast.Program{Decls: []ast.Decl{mainDecl(body)}}
	static := baseStatic()
	static.Types["bits8"] = asltypes.Bits{Length: intLit(8)}
	return &Program{Name: "bit-slice-write", Program: prog, Static: static}
}

// 5. `func main() => integer begin var r: integer = 0; for i = 1 to 4 do r = r + i; end; return r; end` → 10
func forLoopSum() *Program {
	body := &ast.SSeq{
		First: &ast.SDecl{
			Kind: "var",
			Item: ast.LDITyped{Inner: ast.LDIVar{Name: "r"}, TypeName: "integer"},
			Init: intLit(0),
		},
		Second: &ast.SSeq{
			First: &ast.SFor{
				Name:      "i",
				Low:       intLit(1),
				High:      intLit(4),
				Direction: ast.ForUp,
				Body: &ast.SBlock{Body: &ast.SAssign{
					LHS: &ast.LVar{Name: "r"},
					RHS: &ast.EBinop{Op: "+", Left: &ast.EVar{Name: "r"}, Right: &ast.EVar{Name: "i"}},
				}},
			},
			Second: &ast.SReturn{Values: []ast.Expression{&ast.EVar{Name: "r"}}},
		},
	}
	prog := &ast.Program{Decls: []ast.Decl{mainDecl(body)}}
	return &Program{Name: "for-loop-sum", Program: prog, Static: baseStatic()}
}

// 6. `func main() => integer begin assert 1 == 2; return 0; end` → fatal AssertionFailed
func failingAssert() *Program {
	body := &ast.SSeq{
		First:  &ast.SAssert{Expr: &ast.EBinop{Op: "==", Left: intLit(1), Right: intLit(2)}},
		Second: &ast.SReturn{Values: []ast.Expression{intLit(0)}},
	}
	prog := &ast.Program{Decls: []ast.Decl{mainDecl(body)}}
	return &Program{Name: "failing-assert", Program: prog, Static: baseStatic()}
}
