// Package binding implements the immutable-copy-on-write variable binding
// stack described in spec.md §3.3 / §4.2.
package binding

import "github.com/vital-ai/kgraphinfer/internal/value"

// Stack maps variable names to their bound value. It is copy-on-write: Copy
// returns an independent Stack that shares no mutable state with its
// ancestor, so the evaluator can branch freely without one alternative's
// bindings leaking into a sibling's (spec.md §3.3, invariant 1; §5
// "Binding branching is realised by shallow copy").
type Stack struct {
	vars map[string]value.Value
}

// New returns an empty binding stack.
func New() *Stack {
	return &Stack{vars: make(map[string]value.Value)}
}

// Copy returns a new Stack holding the same bindings as s, safe to extend
// independently of s.
func (s *Stack) Copy() *Stack {
	cp := make(map[string]value.Value, len(s.vars))
	for k, v := range s.vars {
		cp[k] = v
	}
	return &Stack{vars: cp}
}

// Bind attempts to bind var to val. If var is unbound it succeeds
// unconditionally; if var is already bound it succeeds only when the
// existing value is structurally equal to val (spec.md §3.3).
func (s *Stack) Bind(v string, val value.Value) bool {
	if existing, ok := s.vars[v]; ok {
		return value.Equal(existing, val)
	}
	s.vars[v] = val
	return true
}

// Get returns the value bound to v, or the UNBOUND sentinel if v has no
// binding.
func (s *Stack) Get(v string) value.Value {
	if val, ok := s.vars[v]; ok {
		return val
	}
	return value.UnboundValue
}

// Contains reports whether v currently has a binding.
func (s *Stack) Contains(v string) bool {
	_, ok := s.vars[v]
	return ok
}

// AsMap returns a defensive copy of the current bindings, for building
// answer-set entries (spec.md §3.4 invariant 2 — only ground values ever
// leave the evaluator this way).
func (s *Stack) AsMap() map[string]value.Value {
	out := make(map[string]value.Value, len(s.vars))
	for k, v := range s.vars {
		out[k] = v
	}
	return out
}
