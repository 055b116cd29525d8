// Package asltypes models the static type view the (external) type
// checker hands the core: enough structure for is_val_of_type (§4.2) and
// base_value (§4.7) to do their job, nothing more.
package asltypes

import "github.com/arm-asl/aslcore/internal/ast"

// Type is the elaborated shape of an ASL type. Named is only legal
// before structure elaboration; every operation in this module fatals if
// it still sees one (§4.7: "Named _ — impossible after structure
// elaboration").
type Type interface {
	isType()
}

type Bool struct{}
type Real struct{}
type Str struct{}

// Int carries a constraint describing the legal value set.
type Int struct {
	Constraint IntConstraint
}

// IntConstraint is one of UnConstrained, UnderConstrained, or
// WellConstrained(cs).
type IntConstraint interface {
	isIntConstraint()
}

type UnConstrained struct{}
type UnderConstrained struct{}
type WellConstrained struct {
	Constraints []Constraint
}

// Constraint is Exact(e) or Range(lo, hi).
type Constraint interface {
	isConstraint()
}

type ExactConstraint struct{ Value ast.Expression }
type RangeConstraint struct{ Low, High ast.Expression }

// Bits is a bitvector type; Length is evaluated SEF by the core.
type Bits struct {
	Length ast.Expression
}

// Enum lists variants in declaration order (constant_values, §4.7).
type Enum struct {
	Variants []string
}

// Field is one record/exception field.
type Field struct {
	Name string
	Type Type
}

// Record backs both plain records and exception payloads (§4.7).
type Record struct {
	Fields []Field
}

// Exception is structurally identical to Record but kept as its own type.
// Try/catch matching (StaticEnv.Accepts) compares type names only and
// does not look at this shape.
type Exception struct {
	Fields []Field
}

type Tuple struct {
	Elems []Type
}

// ArrayLength is either an enum bound or a SEF-evaluable integer
// expression (§4.7).
type ArrayLength interface {
	isArrayLength()
}

type EnumBoundLength struct{ EnumName string }
type ExprLength struct{ Expr ast.Expression }

type Array struct {
	Length ArrayLength
	Elem   Type
}

// Named is a type reference not yet resolved to its structure. StaticEnv
// resolves these; the core must never see one reach is_val_of_type or
// base_value.
type Named struct {
	Name string
}

func (Bool) isType()      {}
func (Real) isType()      {}
func (Str) isType()       {}
func (Int) isType()       {}
func (Bits) isType()      {}
func (Enum) isType()      {}
func (Record) isType()    {}
func (Exception) isType() {}
func (Tuple) isType()     {}
func (Array) isType()     {}
func (Named) isType()     {}

func (UnConstrained) isIntConstraint()   {}
func (UnderConstrained) isIntConstraint() {}
func (WellConstrained) isIntConstraint() {}

func (ExactConstraint) isConstraint() {}
func (RangeConstraint) isConstraint() {}

func (EnumBoundLength) isArrayLength() {}
func (ExprLength) isArrayLength()      {}
