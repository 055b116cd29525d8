package ienv

import (
	"sync"
	"sync/atomic"

	"github.com/arm-asl/aslcore/internal/ast"
	"github.com/arm-asl/aslcore/internal/asltypes"
)

// FuncEntry is the function table's per-identifier entry: the
// declaration plus a monotonically increasing call counter that
// disambiguates Local scope instances (§3, §4.6). Counter is atomic so a
// backend that runs calls in parallel (§5, ProdPar) never hands out the
// same instance twice.
type FuncEntry struct {
	Decl    *ast.FuncDecl
	counter uint64
}

// NextInstance increments and returns the counter, before use, so every
// call gets a unique instance number (§4.6: "Each call increments the
// per-function instance counter before use").
func (fe *FuncEntry) NextInstance() uint64 {
	return atomic.AddUint64(&fe.counter, 1)
}

// GlobalEnv is the static view plus mutable storage shared across all
// active calls (§3). Static is read-only at run time; Storage and the
// function table's counters are the only mutable parts.
type GlobalEnv struct {
	Static *asltypes.StaticEnv

	mu      sync.Mutex
	storage map[string]Value
	funcs   map[string]*FuncEntry
}

// NewGlobalEnv builds an empty global environment over the given static
// view.
func NewGlobalEnv(static *asltypes.StaticEnv) *GlobalEnv {
	return &GlobalEnv{
		Static:  static,
		storage: make(map[string]Value),
		funcs:   make(map[string]*FuncEntry),
	}
}

// DeclareGlobal adds name to global storage (§4.1 declare_global). Used
// only during build_genv; global storage is otherwise only ever
// reassigned via Assign.
func (g *GlobalEnv) DeclareGlobal(name string, v Value) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.storage[name] = v
}

// GetGlobal looks up a global identifier.
func (g *GlobalEnv) GetGlobal(name string) (Value, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, ok := g.storage[name]
	return v, ok
}

// AssignGlobal updates an existing global identifier; reports whether it
// existed.
func (g *GlobalEnv) AssignGlobal(name string, v Value) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.storage[name]; !ok {
		return false
	}
	g.storage[name] = v
	return true
}

// MemGlobal reports whether name is bound in global storage (§4.1 mem).
func (g *GlobalEnv) MemGlobal(name string) bool {
	_, ok := g.GetGlobal(name)
	return ok
}

// RegisterFunc adds a function-table entry for name. Called once per
// declaration by build_genv; panics if name is already registered (a
// parser/type-checker invariant violation, §4.1 style).
func (g *GlobalEnv) RegisterFunc(name string, decl *ast.FuncDecl) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.funcs[name]; ok {
		panic("ienv: function already registered: " + name)
	}
	g.funcs[name] = &FuncEntry{Decl: decl}
}

// Func looks up a function-table entry.
func (g *GlobalEnv) Func(name string) (*FuncEntry, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fe, ok := g.funcs[name]
	return fe, ok
}
