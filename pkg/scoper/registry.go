// Package scoper models the output of a PHP namespace-prefixing run: a
// registry of symbol relocations and the loader source that re-exposes
// relocated symbols under their original names.
//
// The registry is typically produced by an external prefixing tool and
// persisted as JSON (see the io package). Consumers mostly care about two
// things: whether the registry is empty, and the loader source text it
// generates.
package scoper

import "strings"

// Relocation maps an original symbol name to its prefixed counterpart.
type Relocation struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Registry collects the symbol relocations recorded while prefixing a
// code base. Classes and functions are tracked separately because the
// generated loader re-exposes them through different PHP mechanisms.
//
// Recording the same original symbol twice replaces the earlier entry.
// The zero value is not usable; create instances with NewRegistry.
type Registry struct {
	prefix    string
	classes   []Relocation
	functions []Relocation
	classIdx  map[string]int
	funcIdx   map[string]int
}

// NewRegistry creates an empty registry for the given namespace prefix.
func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix:   prefix,
		classIdx: make(map[string]int),
		funcIdx:  make(map[string]int),
	}
}

// Prefix returns the namespace prefix the relocations were recorded under.
func (r *Registry) Prefix() string {
	return r.prefix
}

// RecordClass records a class, interface, or trait relocation.
func (r *Registry) RecordClass(from, to string) {
	if i, ok := r.classIdx[from]; ok {
		r.classes[i].To = to
		return
	}
	r.classIdx[from] = len(r.classes)
	r.classes = append(r.classes, Relocation{From: from, To: to})
}

// RecordFunction records a function relocation.
func (r *Registry) RecordFunction(from, to string) {
	if i, ok := r.funcIdx[from]; ok {
		r.functions[i].To = to
		return
	}
	r.funcIdx[from] = len(r.functions)
	r.functions = append(r.functions, Relocation{From: from, To: to})
}

// Classes returns the recorded class relocations in recording order.
// The returned slice is a copy and safe to modify.
func (r *Registry) Classes() []Relocation {
	out := make([]Relocation, len(r.classes))
	copy(out, r.classes)
	return out
}

// Functions returns the recorded function relocations in recording order.
// The returned slice is a copy and safe to modify.
func (r *Registry) Functions() []Relocation {
	out := make([]Relocation, len(r.functions))
	copy(out, r.functions)
	return out
}

// Count returns the total number of recorded relocations.
func (r *Registry) Count() int {
	return len(r.classes) + len(r.functions)
}

// hasNamespacedFunctions reports whether any recorded function lives in a
// namespace. Namespaced functions force the generated loader to use
// namespace blocks throughout.
func (r *Registry) hasNamespacedFunctions() bool {
	for _, f := range r.functions {
		if strings.Contains(f.From, `\`) {
			return true
		}
	}
	return false
}
