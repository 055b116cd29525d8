package native

import (
	"math/big"

	"github.com/arm-asl/aslcore/internal/ast"
	"github.com/arm-asl/aslcore/internal/backend"
)

func primitiveDecl(name string, params []ast.Param, rets []string) *ast.FuncDecl {
	return &ast.FuncDecl{
		Name:            name,
		Params:          params,
		ReturnTypeNames: rets,
		Primitive:       true,
	}
}

func wantInt(v backend.Value) (*big.Int, error) {
	i, ok := asInt(v)
	if !ok {
		return nil, &backend.EvalErr{Msg: "primitive: expected an integer argument"}
	}
	return i, nil
}

func wantBits(v backend.Value) (Bitvector, error) {
	bv, ok := v.(Bitvector)
	if !ok {
		return Bitvector{}, &backend.EvalErr{Msg: "primitive: expected a bitvector argument"}
	}
	return bv, nil
}

// Primitives registers the minimal arithmetic/bitvector standard-library
// surface the prelude loader would otherwise concatenate (§6: "a list of
// (declaration, runtime_fn) pairs; the evaluator prepends their
// declarations to the AST").
func (b *Backend) Primitives() []backend.Primitive {
	intParam := func(n string) ast.Param { return ast.Param{Name: n, TypeName: "integer"} }
	bitsParam := func(n string) ast.Param { return ast.Param{Name: n, TypeName: "bits"} }

	return []backend.Primitive{
		{
			Decl: primitiveDecl("Add", []ast.Param{intParam("x"), intParam("y")}, []string{"integer"}),
			Run: func(args []backend.Value) ([]backend.Value, error) {
				x, err := wantInt(args[0])
				if err != nil {
					return nil, err
				}
				y, err := wantInt(args[1])
				if err != nil {
					return nil, err
				}
				return []backend.Value{Int{Value: new(big.Int).Add(x, y)}}, nil
			},
		},
		{
			Decl: primitiveDecl("Sub", []ast.Param{intParam("x"), intParam("y")}, []string{"integer"}),
			Run: func(args []backend.Value) ([]backend.Value, error) {
				x, err := wantInt(args[0])
				if err != nil {
					return nil, err
				}
				y, err := wantInt(args[1])
				if err != nil {
					return nil, err
				}
				return []backend.Value{Int{Value: new(big.Int).Sub(x, y)}}, nil
			},
		},
		{
			Decl: primitiveDecl("Mul", []ast.Param{intParam("x"), intParam("y")}, []string{"integer"}),
			Run: func(args []backend.Value) ([]backend.Value, error) {
				x, err := wantInt(args[0])
				if err != nil {
					return nil, err
				}
				y, err := wantInt(args[1])
				if err != nil {
					return nil, err
				}
				return []backend.Value{Int{Value: new(big.Int).Mul(x, y)}}, nil
			},
		},
		{
			Decl: primitiveDecl("UInt", []ast.Param{bitsParam("x")}, []string{"integer"}),
			Run: func(args []backend.Value) ([]backend.Value, error) {
				bv, err := wantBits(args[0])
				if err != nil {
					return nil, err
				}
				return []backend.Value{Int{Value: bv.ToUint()}}, nil
			},
		},
		{
			Decl: primitiveDecl("SInt", []ast.Param{bitsParam("x")}, []string{"integer"}),
			Run: func(args []backend.Value) ([]backend.Value, error) {
				bv, err := wantBits(args[0])
				if err != nil {
					return nil, err
				}
				return []backend.Value{Int{Value: bv.ToSint()}}, nil
			},
		},
		{
			Decl: primitiveDecl("Len", []ast.Param{bitsParam("x")}, []string{"integer"}),
			Run: func(args []backend.Value) ([]backend.Value, error) {
				bv, err := wantBits(args[0])
				if err != nil {
					return nil, err
				}
				return []backend.Value{NewInt(int64(bv.Length))}, nil
			},
		},
	}
}
