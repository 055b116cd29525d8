package native

import (
	"fmt"
	"math/big"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/google/uuid"

	"github.com/arm-asl/aslcore/internal/ast"
	"github.com/arm-asl/aslcore/internal/asltypes"
	"github.com/arm-asl/aslcore/internal/backend"
	"github.com/arm-asl/aslcore/internal/ienv"
)

// AccessEvent records one identifier read or write (§6 trace hooks),
// kept for tests asserting the properties of §8 (short-circuit,
// return-effect emission, evaluation order).
type AccessEvent struct {
	Kind  string // "read" | "write"
	Name  string
	Scope ienv.Scope
	Value any
}

// Backend is a concrete, single-process Backend (§6) with no symbolic
// values: IsUndetermined is always false. ProdPar genuinely interleaves
// its two thunks on goroutines (via golang.org/x/sync/errgroup) to give
// the "may be reordered by the backend" latitude §5 grants.
type Backend struct {
	mu       sync.Mutex
	Accesses []AccessEvent
	Warnings []string

	// InstanceSalt, when non-nil, is what NewInstanceStamp returns. Call
	// scopes in internal/interp are identified by the per-function
	// monotonic counter alone; nothing there consults this stamp.
	InstanceSalt func() string
}

// New builds a Backend with UUID-based instance salting.
func New() *Backend {
	return &Backend{InstanceSalt: uuid.NewString}
}

func (b *Backend) FromLiteral(lit ast.Literal) (backend.Value, error) {
	switch l := lit.(type) {
	case ast.BoolLiteral:
		return Bool{Value: l.Value}, nil
	case ast.IntLiteral:
		return NewInt(l.Value), nil
	case ast.RealLiteral:
		return Real{Value: l.Value}, nil
	case ast.StringLiteral:
		return Str{Value: l.Value}, nil
	case ast.BitsLiteralValue:
		return BitvectorFromString(l.Bits), nil
	default:
		return nil, &backend.EvalErr{Msg: fmt.Sprintf("native: unknown literal kind %T", lit)}
	}
}

func (b *Backend) FromInt(i int64) backend.Value { return NewInt(i) }

func (b *Backend) ToInt(v backend.Value) (int64, bool) {
	i, ok := v.(Int)
	if !ok || i.Value == nil || !i.Value.IsInt64() {
		return 0, false
	}
	return i.Value.Int64(), true
}

func asInt(v backend.Value) (*big.Int, bool) {
	i, ok := v.(Int)
	if !ok {
		return nil, false
	}
	return i.Value, true
}

func (b *Backend) BinOp(op string, l, r backend.Value) (backend.Value, error) {
	switch op {
	case "+", "-", "*", "DIV", "DIVRM", "MOD":
		li, lok := asInt(l)
		ri, rok := asInt(r)
		if lok && rok {
			return intArith(op, li, ri)
		}
		lf, lok2 := asReal(l)
		rf, rok2 := asReal(r)
		if lok2 && rok2 {
			return realArith(op, lf, rf)
		}
		return nil, &backend.EvalErr{Msg: "binop: operand type mismatch for " + op}
	case "==", "!=":
		return Bool{Value: (op == "==") == valuesEqual(l, r)}, nil
	case "<", "<=", ">", ">=":
		li, lok := asInt(l)
		ri, rok := asInt(r)
		if !lok || !rok {
			return nil, &backend.EvalErr{Msg: "binop: comparison requires integers"}
		}
		c := li.Cmp(ri)
		switch op {
		case "<":
			return Bool{Value: c < 0}, nil
		case "<=":
			return Bool{Value: c <= 0}, nil
		case ">":
			return Bool{Value: c > 0}, nil
		default:
			return Bool{Value: c >= 0}, nil
		}
	case "++":
		ls, lok := l.(Str)
		rs, rok := r.(Str)
		if !lok || !rok {
			return nil, &backend.EvalErr{Msg: "binop: ++ requires strings"}
		}
		return Str{Value: ls.Value + rs.Value}, nil
	case ":":
		lb, lok := l.(Bitvector)
		rb, rok := r.(Bitvector)
		if !lok || !rok {
			return nil, &backend.EvalErr{Msg: "binop: : requires bitvectors"}
		}
		return b.ConcatBitvectors([]backend.Value{lb, rb})
	case "AND_BOOL", "OR_BOOL":
		lb, lok := l.(Bool)
		rb, rok := r.(Bool)
		if !lok || !rok {
			return nil, &backend.EvalErr{Msg: "binop: " + op + " requires booleans"}
		}
		if op == "AND_BOOL" {
			return Bool{Value: lb.Value && rb.Value}, nil
		}
		return Bool{Value: lb.Value || rb.Value}, nil
	case "AND_BITS", "OR_BITS", "XOR_BITS":
		lbv, lok := l.(Bitvector)
		rbv, rok := r.(Bitvector)
		if !lok || !rok || lbv.Length != rbv.Length {
			return nil, &backend.EvalErr{Msg: "binop: " + op + " requires same-length bitvectors"}
		}
		out := make([]bool, lbv.Length)
		for i := range out {
			switch op {
			case "AND_BITS":
				out[i] = lbv.Bits[i] && rbv.Bits[i]
			case "OR_BITS":
				out[i] = lbv.Bits[i] || rbv.Bits[i]
			default:
				out[i] = lbv.Bits[i] != rbv.Bits[i]
			}
		}
		return Bitvector{Bits: out, Length: lbv.Length}, nil
	default:
		return nil, &backend.EvalErr{Msg: "binop: unsupported operator " + op}
	}
}

func asReal(v backend.Value) (float64, bool) {
	switch t := v.(type) {
	case Real:
		return t.Value, true
	case Int:
		f := new(big.Float).SetInt(t.Value)
		out, _ := f.Float64()
		return out, true
	}
	return 0, false
}

func intArith(op string, l, r *big.Int) (backend.Value, error) {
	out := new(big.Int)
	switch op {
	case "+":
		out.Add(l, r)
	case "-":
		out.Sub(l, r)
	case "*":
		out.Mul(l, r)
	case "DIV", "DIVRM":
		if r.Sign() == 0 {
			return nil, &backend.EvalErr{Msg: "division by zero"}
		}
		out.Quo(l, r)
	case "MOD":
		if r.Sign() == 0 {
			return nil, &backend.EvalErr{Msg: "division by zero"}
		}
		out.Mod(l, r)
	}
	return Int{Value: out}, nil
}

func realArith(op string, l, r float64) (backend.Value, error) {
	switch op {
	case "+":
		return Real{Value: l + r}, nil
	case "-":
		return Real{Value: l - r}, nil
	case "*":
		return Real{Value: l * r}, nil
	case "DIV", "DIVRM":
		if r == 0 {
			return nil, &backend.EvalErr{Msg: "division by zero"}
		}
		return Real{Value: l / r}, nil
	default:
		return nil, &backend.EvalErr{Msg: "unsupported real operator " + op}
	}
}

func valuesEqual(l, r backend.Value) bool {
	switch lv := l.(type) {
	case Bool:
		rv, ok := r.(Bool)
		return ok && lv.Value == rv.Value
	case Int:
		rv, ok := r.(Int)
		return ok && lv.Value.Cmp(rv.Value) == 0
	case Real:
		rv, ok := r.(Real)
		return ok && lv.Value == rv.Value
	case Str:
		rv, ok := r.(Str)
		return ok && lv.Value == rv.Value
	case Bitvector:
		rv, ok := r.(Bitvector)
		if !ok || lv.Length != rv.Length {
			return false
		}
		for i := range lv.Bits {
			if lv.Bits[i] != rv.Bits[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (b *Backend) UnOp(op string, v backend.Value) (backend.Value, error) {
	switch op {
	case "-":
		if i, ok := asInt(v); ok {
			return Int{Value: new(big.Int).Neg(i)}, nil
		}
		if f, ok := asReal(v); ok {
			return Real{Value: -f}, nil
		}
		return nil, &backend.EvalErr{Msg: "unop: - requires a number"}
	case "!", "NOT":
		if bo, ok := v.(Bool); ok {
			return Bool{Value: !bo.Value}, nil
		}
		if bv, ok := v.(Bitvector); ok {
			out := make([]bool, bv.Length)
			for i, bit := range bv.Bits {
				out[i] = !bit
			}
			return Bitvector{Bits: out, Length: bv.Length}, nil
		}
		return nil, &backend.EvalErr{Msg: "unop: ! requires a boolean or bitvector"}
	default:
		return nil, &backend.EvalErr{Msg: "unop: unsupported operator " + op}
	}
}

func sliceBounds(s ast.Slice, sef backend.SEFEval) (hi, lo int, err error) {
	hv, err := sef(s.High)
	if err != nil {
		return 0, 0, err
	}
	lv, err := sef(s.Low)
	if err != nil {
		return 0, 0, err
	}
	hi64, ok := toInt64(hv)
	if !ok {
		return 0, 0, &backend.EvalErr{Msg: "slice bound is not a concrete integer"}
	}
	lo64, ok := toInt64(lv)
	if !ok {
		return 0, 0, &backend.EvalErr{Msg: "slice bound is not a concrete integer"}
	}
	return int(hi64), int(lo64), nil
}

func toInt64(v backend.Value) (int64, bool) {
	i, ok := v.(Int)
	if !ok || !i.Value.IsInt64() {
		return 0, false
	}
	return i.Value.Int64(), true
}

func (b *Backend) ReadFromBitvector(v backend.Value, slices []ast.Slice, sef backend.SEFEval) (backend.Value, error) {
	bv, ok := v.(Bitvector)
	if !ok {
		return nil, &backend.EvalErr{Msg: "read_from_bitvector: value is not a bitvector"}
	}
	var out []bool
	for _, s := range slices {
		hi, lo, err := sliceBounds(s, sef)
		if err != nil {
			return nil, err
		}
		if hi < lo || hi >= bv.Length || lo < 0 {
			return nil, &backend.EvalErr{Msg: "read_from_bitvector: slice out of range"}
		}
		// bit index i corresponds to position (Length-1-i) from the MSB;
		// ASL slices [hi:lo] are positions hi downto lo, inclusive.
		for pos := hi; pos >= lo; pos-- {
			out = append(out, bv.Bits[bv.Length-1-pos])
		}
	}
	return Bitvector{Bits: out, Length: len(out)}, nil
}

func (b *Backend) WriteToBitvector(v backend.Value, slices []ast.Slice, newBits backend.Value, sef backend.SEFEval) (backend.Value, error) {
	bv, ok := v.(Bitvector)
	if !ok {
		return nil, &backend.EvalErr{Msg: "write_to_bitvector: value is not a bitvector"}
	}
	nb, ok := newBits.(Bitvector)
	if !ok {
		return nil, &backend.EvalErr{Msg: "write_to_bitvector: new value is not a bitvector"}
	}
	out := append([]bool(nil), bv.Bits...)
	cursor := 0
	for _, s := range slices {
		hi, lo, err := sliceBounds(s, sef)
		if err != nil {
			return nil, err
		}
		if hi < lo || hi >= bv.Length || lo < 0 {
			return nil, &backend.EvalErr{Msg: "write_to_bitvector: slice out of range"}
		}
		for pos := hi; pos >= lo; pos-- {
			if cursor >= len(nb.Bits) {
				return nil, &backend.EvalErr{Msg: "write_to_bitvector: not enough source bits"}
			}
			out[bv.Length-1-pos] = nb.Bits[cursor]
			cursor++
		}
	}
	return Bitvector{Bits: out, Length: bv.Length}, nil
}

func (b *Backend) BitvectorLength(v backend.Value) (int, error) {
	bv, ok := v.(Bitvector)
	if !ok {
		return 0, &backend.EvalErr{Msg: "bitvector_length: value is not a bitvector"}
	}
	return bv.Length, nil
}

func (b *Backend) ConcatBitvectors(vs []backend.Value) (backend.Value, error) {
	var out []bool
	for _, v := range vs {
		bv, ok := v.(Bitvector)
		if !ok {
			return nil, &backend.EvalErr{Msg: "concat_bitvectors: value is not a bitvector"}
		}
		out = append(out, bv.Bits...)
	}
	return Bitvector{Bits: out, Length: len(out)}, nil
}

func (b *Backend) GetIndex(v backend.Value, i int) (backend.Value, error) {
	switch t := v.(type) {
	case Tuple:
		if i < 0 || i >= len(t.Elems) {
			return nil, &backend.EvalErr{Msg: "get_index: index out of range"}
		}
		return t.Elems[i], nil
	case Vector:
		if i < 0 || i >= len(t.Elems) {
			return nil, &backend.EvalErr{Msg: "get_index: index out of range"}
		}
		return t.Elems[i], nil
	default:
		return nil, &backend.EvalErr{Msg: "get_index: value is not indexable"}
	}
}

func (b *Backend) SetIndex(v backend.Value, i int, nv backend.Value) (backend.Value, error) {
	switch t := v.(type) {
	case Tuple:
		if i < 0 || i >= len(t.Elems) {
			return nil, &backend.EvalErr{Msg: "set_index: index out of range"}
		}
		out := append([]any(nil), t.Elems...)
		out[i] = nv
		return Tuple{Elems: out}, nil
	case Vector:
		if i < 0 || i >= len(t.Elems) {
			return nil, &backend.EvalErr{Msg: "set_index: index out of range"}
		}
		out := append([]any(nil), t.Elems...)
		out[i] = nv
		return Vector{Elems: out}, nil
	default:
		return nil, &backend.EvalErr{Msg: "set_index: value is not indexable"}
	}
}

func (b *Backend) GetField(v backend.Value, name string) (backend.Value, error) {
	r, ok := v.(Record)
	if !ok {
		return nil, &backend.EvalErr{Msg: "get_field: value is not a record"}
	}
	fv, ok := r.Fields[name]
	if !ok {
		return nil, &backend.EvalErr{Msg: "get_field: no such field " + name}
	}
	return fv, nil
}

func (b *Backend) SetField(v backend.Value, name string, nv backend.Value) (backend.Value, error) {
	r, ok := v.(Record)
	if !ok {
		return nil, &backend.EvalErr{Msg: "set_field: value is not a record"}
	}
	if _, ok := r.Fields[name]; !ok {
		return nil, &backend.EvalErr{Msg: "set_field: no such field " + name}
	}
	newFields := make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		newFields[k] = v
	}
	newFields[name] = nv
	return Record{TypeName: r.TypeName, Names: r.Names, Fields: newFields}, nil
}

func (b *Backend) CreateRecord(typeName string, fields []backend.FieldValue) backend.Value {
	names := make([]string, len(fields))
	m := make(map[string]any, len(fields))
	for i, f := range fields {
		names[i] = f.Name
		m[f.Name] = f.Value
	}
	return Record{TypeName: typeName, Names: names, Fields: m}
}

func (b *Backend) CreateVector(elems []backend.Value) backend.Value {
	out := make([]any, len(elems))
	copy(out, elems)
	return Vector{Elems: out}
}

func (b *Backend) UnknownOfType(t asltypes.Type, sef backend.SEFEval) (backend.Value, error) {
	switch tt := t.(type) {
	case asltypes.Bool:
		return Bool{Value: false}, nil
	case asltypes.Real:
		return Real{Value: 0}, nil
	case asltypes.Str:
		return Str{Value: ""}, nil
	case asltypes.Int:
		return NewInt(0), nil
	case asltypes.Bits:
		lv, err := sef(tt.Length)
		if err != nil {
			return nil, err
		}
		n, ok := toInt64(lv)
		if !ok {
			return nil, &backend.EvalErr{Msg: "UNKNOWN bits(_): length is not a concrete integer"}
		}
		return ZeroBitvector(int(n)), nil
	case asltypes.Enum:
		if len(tt.Variants) == 0 {
			return nil, &backend.EvalErr{Msg: "UNKNOWN: enum type has no variants"}
		}
		return Str{Value: tt.Variants[0]}, nil
	case asltypes.Tuple:
		elems := make([]any, len(tt.Elems))
		for i, et := range tt.Elems {
			v, err := b.UnknownOfType(et, sef)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return Tuple{Elems: elems}, nil
	default:
		return nil, &backend.EvalErr{Msg: fmt.Sprintf("UNKNOWN: unsupported type %T", t)}
	}
}

func (b *Backend) IsUndetermined(backend.Value) bool { return false }

func (b *Backend) DebugValue(v backend.Value) string { return debugValue(v) }

func (b *Backend) BindSeq(_ string, fn func() (backend.Value, error)) (backend.Value, error) {
	return fn()
}

func (b *Backend) BindData(_ string, fn func() (backend.Value, error)) (backend.Value, error) {
	return fn()
}

func (b *Backend) BindCtrl(_ string, fn func() (backend.Value, error)) (backend.Value, error) {
	return fn()
}

// ProdPar runs left and right on their own goroutines via errgroup,
// giving the backend latitude §5 grants ("their effects may be reordered
// by the backend"). internal/interp does not call it.
func (b *Backend) ProdPar(left, right func() (backend.Value, error)) (backend.Value, backend.Value, error) {
	var lv, rv backend.Value
	var g errgroup.Group
	g.Go(func() error {
		v, err := left()
		lv = v
		return err
	})
	g.Go(func() error {
		v, err := right()
		rv = v
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return lv, rv, nil
}

func (b *Backend) Choice(v backend.Value) (bool, bool) {
	bo, ok := v.(Bool)
	if !ok {
		return false, false
	}
	return bo.Value, true
}

func (b *Backend) Commit(label string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Accesses = append(b.Accesses, AccessEvent{Kind: "commit", Name: label})
}

func (b *Backend) WarnT(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Warnings = append(b.Warnings, msg)
}

func (b *Backend) OnReadIdentifier(name string, scope ienv.Scope, v backend.Value) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Accesses = append(b.Accesses, AccessEvent{Kind: "read", Name: name, Scope: scope, Value: v})
}

func (b *Backend) OnWriteIdentifier(name string, scope ienv.Scope, v backend.Value) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Accesses = append(b.Accesses, AccessEvent{Kind: "write", Name: name, Scope: scope, Value: v})
}

// NewInstanceStamp returns a fresh stamp from InstanceSalt (a UUID for a
// Backend built by New), or "" when InstanceSalt is nil. It is not part
// of backend.Backend and the evaluator does not call it; a call scope's
// identity is the per-function monotonic counter
// (ienv.FuncEntry.NextInstance).
func (b *Backend) NewInstanceStamp() string {
	if b.InstanceSalt == nil {
		return ""
	}
	return b.InstanceSalt()
}
