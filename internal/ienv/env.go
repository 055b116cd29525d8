// Package ienv implements the runtime environment of §4.1: scoped
// local/global identifier storage and the unroll-counter stack. It knows
// nothing about what a value actually is — Value is a plain alias for
// any, so the backend's concrete value type flows through untouched.
package ienv

import "fmt"

// Value is an opaque backend value (§3 "Value (B.value) — opaque; comes
// from the backend").
type Value = any

// Scope is either Global(isInitialiser) or Local(subprogram, instance).
// Two Local scopes are equal iff subprogram and instance match (§3).
type Scope struct {
	kind         scopeKind
	isInit       bool
	subprogram   string
	callInstance uint64
}

type scopeKind int

const (
	scopeGlobal scopeKind = iota
	scopeLocal
)

// GlobalScope builds the scope tag used while evaluating a global
// initialiser (isInitialiser=true) or while otherwise touching globals
// from top level (isInitialiser=false).
func GlobalScope(isInitialiser bool) Scope {
	return Scope{kind: scopeGlobal, isInit: isInitialiser}
}

// LocalScope builds the scope tag for one call instance of subprogram.
func LocalScope(subprogram string, instance uint64) Scope {
	return Scope{kind: scopeLocal, subprogram: subprogram, callInstance: instance}
}

// IsGlobal reports whether the scope is Global.
func (s Scope) IsGlobal() bool { return s.kind == scopeGlobal }

// IsInitialiser reports whether a Global scope is the initialiser pass.
// Meaningless (returns false) on a Local scope.
func (s Scope) IsInitialiser() bool { return s.kind == scopeGlobal && s.isInit }

// Subprogram and CallInstance are meaningful only on a Local scope.
func (s Scope) Subprogram() string    { return s.subprogram }
func (s Scope) CallInstance() uint64  { return s.callInstance }

// Equal implements scope equality (§3: "Two local scopes are equal iff
// subprogram and instance match"). Two Global scopes are always equal
// regardless of isInitialiser, since only Locals need the identity
// distinction try/catch relies on (§4.5.2).
func (s Scope) Equal(other Scope) bool {
	if s.kind != other.kind {
		return false
	}
	if s.kind == scopeGlobal {
		return true
	}
	return s.subprogram == other.subprogram && s.callInstance == other.callInstance
}

func (s Scope) String() string {
	if s.kind == scopeGlobal {
		if s.isInit {
			return "Global(init)"
		}
		return "Global"
	}
	return fmt.Sprintf("Local(%s#%d)", s.subprogram, s.callInstance)
}
