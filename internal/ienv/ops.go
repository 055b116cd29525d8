package ienv

// Env is the pair of local environment and shared global environment
// (§3). It is passed by value; Local and Global are both pointers, so
// copying an Env is cheap and callee mutations to Global are visible to
// the caller once the callee's returned Env replaces the caller's.
type Env struct {
	Local  *Local
	Global *GlobalEnv
}

// FindResult tags where an identifier was found (§4.1 find).
type FindResult int

const (
	NotFound FindResult = iota
	FoundLocal
	FoundGlobal
)

// Find looks up name, local scope taking precedence over global.
func Find(name string, env Env) (FindResult, Value) {
	if env.Local != nil {
		if v, ok := env.Local.lookup(name); ok {
			return FoundLocal, v
		}
	}
	if v, ok := env.Global.GetGlobal(name); ok {
		return FoundGlobal, v
	}
	return NotFound, nil
}

// DeclareLocal adds name to the innermost local scope. Panics if it
// already exists there — the type checker guarantees this never happens
// for well-formed programs (§4.1).
func DeclareLocal(name string, v Value, env Env) {
	if _, ok := env.Local.vars[name]; ok {
		panic("ienv: local identifier already declared: " + name)
	}
	env.Local.declare(name, v)
}

// DeclareGlobal adds name to global storage.
func DeclareGlobal(name string, v Value, env Env) {
	env.Global.DeclareGlobal(name, v)
}

// Assign updates the first scope (local then global) where name already
// exists, and reports which one it updated.
func Assign(name string, v Value, env Env) FindResult {
	if env.Local != nil && env.Local.assign(name, v) {
		return FoundLocal
	}
	if env.Global.AssignGlobal(name, v) {
		return FoundGlobal
	}
	return NotFound
}

// Mem reports whether name is bound anywhere (local or global).
func Mem(name string, env Env) bool {
	r, _ := Find(name, env)
	return r != NotFound
}

// RemoveLocal drops name from wherever it lives in the local chain (used
// by SFor's loop-variable teardown and by try/catch's named-binder
// teardown, §4.5/§4.5.2).
func RemoveLocal(name string, env Env) {
	if env.Local != nil {
		env.Local.remove(name)
	}
}

// PushBlock opens a block-local layer, returning a new Env that shares
// Global.
func PushBlock(env Env) Env {
	return Env{Local: PushScope(env.Local), Global: env.Global}
}

// PopBlock discards inner's block-local bindings, returning a new Env
// over outer that still shares Global (so global mutations performed
// inside the block are kept, §4.1).
func PopBlock(outer, inner Env) Env {
	return Env{Local: PopScope(outer.Local, inner.Local), Global: inner.Global}
}
