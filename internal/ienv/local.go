package ienv

// unrollStack is the per-call, shared-across-nested-blocks stack of
// iteration budgets (§3, §4.1). It outlives block push/pop because it is
// referenced by pointer, not copied.
type unrollStack struct {
	budgets []int
}

// Local is one local environment layer: a scope tag, its own identifier
// bindings, a link to the enclosing layer (nil at the outermost layer of
// a call), and the call's shared unroll stack.
type Local struct {
	scope  Scope
	vars   map[string]Value
	outer  *Local
	unroll *unrollStack
}

// NewCallLocal starts a fresh local environment for a new call instance;
// it has no outer layer and an empty unroll stack.
func NewCallLocal(scope Scope) *Local {
	return &Local{
		scope:  scope,
		vars:   make(map[string]Value),
		unroll: &unrollStack{},
	}
}

// PushScope opens a block-local layer atop outer (§4.1 push_scope): its
// own bindings, same scope identity, same shared unroll stack.
func PushScope(outer *Local) *Local {
	return &Local{
		scope:  outer.scope,
		vars:   make(map[string]Value),
		outer:  outer,
		unroll: outer.unroll,
	}
}

// PopScope discards inner's block-local bindings and returns to outer.
// Global storage updates made while inner was active are untouched by
// this call because they live in GlobalEnv, addressed by pointer, not in
// Local at all (§4.1: "global storage updates made inside the block
// survive").
func PopScope(outer, inner *Local) *Local {
	_ = inner
	return outer
}

// Scope returns this layer's scope tag.
func (l *Local) Scope() Scope { return l.scope }

// lookup walks from this layer outward, local lookup taking precedence
// (§4.1 find).
func (l *Local) lookup(name string) (Value, bool) {
	for e := l; e != nil; e = e.outer {
		if v, ok := e.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// declare adds name to this layer's own bindings. The caller (ienv.Declare)
// is responsible for checking it does not already exist, per §4.1
// ("must not already exist; panic on violation").
func (l *Local) declare(name string, v Value) {
	l.vars[name] = v
}

// assign updates the first layer (innermost outward) where name already
// exists; reports whether it found one.
func (l *Local) assign(name string, v Value) bool {
	for e := l; e != nil; e = e.outer {
		if _, ok := e.vars[name]; ok {
			e.vars[name] = v
			return true
		}
	}
	return false
}

// remove deletes name from whichever layer holds it (used by SFor to
// drop the loop variable on termination, and by try/catch to unbind a
// named catcher after its body runs).
func (l *Local) remove(name string) {
	for e := l; e != nil; e = e.outer {
		if _, ok := e.vars[name]; ok {
			delete(e.vars, name)
			return
		}
	}
}

// TickPush seeds a fresh unroll budget atop the stack, initialised to
// budget. Used when entering a while-loop and (as TickPushBis) when
// entering the metered phase of a repeat-loop (§4.1, §4.5.1).
func (l *Local) TickPush(budget int) {
	l.unroll.budgets = append(l.unroll.budgets, budget)
}

// TickPushBis is an alias for TickPush: a repeat-loop seeds its second
// budget after already having run the body once, but the operation is
// the same push (§4.1).
func (l *Local) TickPushBis(budget int) {
	l.TickPush(budget)
}

// TickDecr decrements the top budget and reports whether it reached
// zero.
func (l *Local) TickDecr() bool {
	n := len(l.unroll.budgets)
	if n == 0 {
		return true
	}
	l.unroll.budgets[n-1]--
	return l.unroll.budgets[n-1] <= 0
}

// TickPop discards the top budget once its loop has fully exited.
func (l *Local) TickPop() {
	n := len(l.unroll.budgets)
	if n == 0 {
		return
	}
	l.unroll.budgets = l.unroll.budgets[:n-1]
}

// SameScope reports whether a and b are the same Local scope instance
// (§4.1 same_scope).
func SameScope(a, b *Local) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.scope.Equal(b.scope)
}
