// Package native is a concrete, runnable Backend (§6) — not required by
// the core semantics themselves, but needed so the core is exercisable
// and testable.
// Its value domain is always concrete: IsUndetermined is always false.
package native

import (
	"fmt"
	"math/big"
	"strings"
)

// Bool is a boolean value.
type Bool struct{ Value bool }

// Int is an arbitrary-precision integer, matching ASL's unbounded
// integer type.
type Int struct{ Value *big.Int }

// Real is a floating-point value.
type Real struct{ Value float64 }

// Str is a string value.
type Str struct{ Value string }

// Bitvector is a fixed-width bit sequence, most-significant bit first.
type Bitvector struct {
	Bits   []bool // Bits[0] is the most significant bit
	Length int
}

// Record is an ordered field map (§3).
type Record struct {
	TypeName string
	Names    []string
	Fields   map[string]any
}

// Tuple is a fixed-size indexed sequence returned by multi-valued
// expressions and subprogram calls.
type Tuple struct{ Elems []any }

// Vector is an indexed, mutable-by-replacement sequence used for arrays
// and array-typed base values.
type Vector struct{ Elems []any }

func NewInt(i int64) Int { return Int{Value: big.NewInt(i)} }

func (b Bitvector) String() string {
	var sb strings.Builder
	for _, bit := range b.Bits {
		if bit {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// ToUint interprets the bitvector as an unsigned integer (UInt, §D.3).
func (b Bitvector) ToUint() *big.Int {
	n := new(big.Int)
	for _, bit := range b.Bits {
		n.Lsh(n, 1)
		if bit {
			n.Or(n, big.NewInt(1))
		}
	}
	return n
}

// ToSint interprets the bitvector as two's-complement signed (SInt).
func (b Bitvector) ToSint() *big.Int {
	u := b.ToUint()
	if b.Length > 0 && b.Bits[0] {
		top := new(big.Int).Lsh(big.NewInt(1), uint(b.Length))
		u.Sub(u, top)
	}
	return u
}

func ZeroBitvector(length int) Bitvector {
	return Bitvector{Bits: make([]bool, length), Length: length}
}

func BitvectorFromString(s string) Bitvector {
	bits := make([]bool, len(s))
	for i, c := range s {
		bits[i] = c == '1'
	}
	return Bitvector{Bits: bits, Length: len(bits)}
}

// debugValue renders any native value for diagnostics (§6 debug_value).
func debugValue(v any) string {
	switch t := v.(type) {
	case Bool:
		return fmt.Sprintf("%t", t.Value)
	case Int:
		return t.Value.String()
	case Real:
		return fmt.Sprintf("%g", t.Value)
	case Str:
		return fmt.Sprintf("%q", t.Value)
	case Bitvector:
		return "'" + t.String() + "'"
	case Record:
		parts := make([]string, 0, len(t.Names))
		for _, n := range t.Names {
			parts = append(parts, fmt.Sprintf("%s=%s", n, debugValue(t.Fields[n])))
		}
		name := t.TypeName
		if name == "" {
			name = "record"
		}
		return fmt.Sprintf("%s{%s}", name, strings.Join(parts, ", "))
	case Tuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = debugValue(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case Vector:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = debugValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("%v", t)
	}
}
