// Package ast defines the node shapes the (external) parser and type
// checker hand to the core. The core only ever reads these; nothing here
// builds or rewrites an AST.
package ast

import "github.com/arm-asl/aslcore/internal/token"

// Node is the base contract for every AST node: it can report the source
// position of its leading token, for error reporting.
type Node interface {
	Pos() token.Position
}

// Expression is a Node that evaluates to a value (§4.2).
type Expression interface {
	Node
	exprNode()
}

// LExpr is a Node that designates a target for assignment (§4.3).
type LExpr interface {
	Node
	lexprNode()
}

// Pattern is a Node matched against a value, producing a boolean (§4.4).
type Pattern interface {
	Node
	patternNode()
}

// Stmt is a Node executed for its control-flow effect (§4.5).
type Stmt interface {
	Node
	stmtNode()
}

// base embeds a position into every concrete node without repeating the
// Pos() method by hand.
type base struct {
	Position token.Position
}

func (b base) Pos() token.Position { return b.Position }

// Program is the root node: global declarations in the order the parser
// produced them (not necessarily dependency order — the driver computes
// that itself, §2).
type Program struct {
	base
	Decls []Decl
}

// Decl is a top-level declaration: GlobalVarDecl, FuncDecl, TypeDecl, or
// ExceptionDecl.
type Decl interface {
	Node
	declNode()
	DeclName() string
}

// GlobalVarDecl declares a global identifier, optionally typed,
// optionally initialised. TypeName names an entry the (external) type
// checker elaborated into asltypes.StaticEnv.Types — possibly a
// synthetic name for a structural (unnamed) type. Empty means "infer
// the base value's type from Init", which is only legal when Init is
// present.
type GlobalVarDecl struct {
	base
	Name     string
	TypeName string
	Init     Expression // nil when absent; base_value(TypeName) is used
}

func (*GlobalVarDecl) declNode() {}
func (d *GlobalVarDecl) DeclName() string { return d.Name }

// Param is one positional or named parameter of a subprogram.
type Param struct {
	Name     string
	TypeName string
}

// FuncDecl declares a subprogram. Primitive is true when the body is
// supplied by the backend (§4.6) rather than by Body.
type FuncDecl struct {
	base
	Name            string
	Params          []Param
	NamedParams     []Param
	ReturnTypeNames []string // len 0 for a procedure
	Body            Stmt     // nil when Primitive
	Primitive       bool
}

func (*FuncDecl) declNode() {}
func (d *FuncDecl) DeclName() string { return d.Name }

// TypeDecl declares a named type (record, tuple alias, enum, ...). The
// elaborated structure lives in StaticEnv.Types[Name]; the driver skips
// this node and resolves type names through StaticEnv only.
type TypeDecl struct {
	base
	Name string
}

func (*TypeDecl) declNode() {}
func (d *TypeDecl) DeclName() string { return d.Name }

// ExceptionDecl declares an exception type, optionally extending another
// declared exception type (single inheritance). The driver does not read
// this node: the elaborated asltypes.Exception must already be present in
// StaticEnv.Types[Name], and Super in StaticEnv.Subtypes.
type ExceptionDecl struct {
	base
	Name   string
	Fields []Param
	Super  string // "" if it extends no other declared exception
}

func (*ExceptionDecl) declNode() {}
func (d *ExceptionDecl) DeclName() string { return d.Name }
