// Package alias assigns generated names to macro invocations and computes
// the generic parameters each generated alias needs.
//
// Key types:
//   - Registry: insertion-ordered map from invocation (by structural key) to name
//   - Namer: name source; RandomNamer for real output, SequenceNamer for tests
package alias

import (
	"strconv"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"macro-derive/internal/syntax"
)

// attempts before falling back to numbered disambiguation
const maxNameAttempts = 8

// Entry is one registered invocation.
type Entry struct {
	Macro *syntax.MacroType
	Name  string
}

// Registry maps structurally distinct macro invocations to alias names.
// It lives for a single transformation.
type Registry struct {
	namer   Namer
	entries *linkedhashmap.Map // macro key -> Entry
	names   map[string]struct{}
}

// NewRegistry creates an empty Registry drawing names from namer.
func NewRegistry(namer Namer) *Registry {
	return &Registry{
		namer:   namer,
		entries: linkedhashmap.New(),
		names:   make(map[string]struct{}),
	}
}

// Register returns the alias name of m, generating one on first sight.
// Structurally equal invocations share a name.
func (r *Registry) Register(m *syntax.MacroType) string {
	key := m.Key()

	if v, ok := r.entries.Get(key); ok {
		return v.(Entry).Name
	}

	name := r.fresh()
	r.entries.Put(key, Entry{Macro: m, Name: name})

	return name
}

// Lookup returns the alias name of m if it is registered.
func (r *Registry) Lookup(m *syntax.MacroType) (string, bool) {
	v, ok := r.entries.Get(m.Key())
	if !ok {
		return "", false
	}

	return v.(Entry).Name, true
}

// Len returns the number of registered invocations.
func (r *Registry) Len() int {
	return r.entries.Size()
}

// Entries returns all entries in registration order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, r.entries.Size())

	it := r.entries.Iterator()
	for it.Next() {
		out = append(out, it.Value().(Entry))
	}

	return out
}

// fresh returns a name not yet produced by this registry.
func (r *Registry) fresh() string {
	var name string

	for i := 0; i < maxNameAttempts; i++ {
		name = r.namer.Name()
		if r.reserve(name) {
			return name
		}
	}

	for i := 2; ; i++ {
		candidate := name + "_" + strconv.Itoa(i)
		if r.reserve(candidate) {
			return candidate
		}
	}
}

func (r *Registry) reserve(name string) bool {
	if _, ok := r.names[name]; ok {
		return false
	}
	r.names[name] = struct{}{}

	return true
}
