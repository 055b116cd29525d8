package asltypes

// StaticEnv is the read-only view the global environment carries (§3:
// "Global environment ... static view (from the type checker, read-only
// at run time)"). It resolves Named types to their elaborated structure
// and answers subtype questions for try/catch catcher matching (§4.5.2).
type StaticEnv struct {
	// Types maps a declared type name to its elaborated structure.
	Types map[string]Type
	// Subtypes maps an exception/record type name to the name of its
	// immediate declared supertype, if any (ASL exception hierarchies are
	// single-inheritance by subtyping declaration).
	Subtypes map[string]string
}

// NewStaticEnv builds an empty StaticEnv for the caller to populate with
// elaborated types; the top-level driver only reads it.
func NewStaticEnv() *StaticEnv {
	return &StaticEnv{
		Types:    make(map[string]Type),
		Subtypes: make(map[string]string),
	}
}

// Resolve follows Named references until it reaches a structural type.
// Returns the original type unchanged if it is already structural.
func (s *StaticEnv) Resolve(t Type) Type {
	for {
		named, ok := t.(Named)
		if !ok {
			return t
		}
		next, found := s.Types[named.Name]
		if !found {
			// Parser/type-checker invariant violated: an unresolvable
			// Named type should never reach the core. Returning it
			// unchanged lets the caller fatal with a clear message
			// instead of looping forever.
			return t
		}
		t = next
	}
}

// TypeName returns the declared name of a (possibly Named) type, or ""
// if the type has no declared name (e.g. a structural Tuple/Array).
func TypeName(t Type) string {
	if n, ok := t.(Named); ok {
		return n.Name
	}
	return ""
}

// Accepts reports whether a catcher declared for superName accepts a
// thrown value whose dynamic type name is subName — i.e. subName is
// superName itself or a (transitive) subtype of superName, per the
// declared exception hierarchy.
func (s *StaticEnv) Accepts(superName, subName string) bool {
	if superName == "" || subName == "" {
		return false
	}
	for name := subName; name != ""; name = s.Subtypes[name] {
		if name == superName {
			return true
		}
	}
	return false
}
