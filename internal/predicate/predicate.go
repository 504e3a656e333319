// Package predicate defines the pluggable predicate interface KGraphInfer
// dispatches AST predicate calls against, and the shared calling
// convention (input map construction, output merge-into-binding) every
// concrete predicate shares (spec.md §5, §6.4). It mirrors the teacher's
// engine.InferenceEngine in spirit — a small dispatcher with no business
// logic of its own beyond wiring — rather than in grammar, since the
// teacher had no predicate-registry analogue.
package predicate

import (
	"context"
	"fmt"

	"github.com/vital-ai/kgraphinfer/internal/binding"
	"github.com/vital-ai/kgraphinfer/internal/value"
)

// Predicate is implemented by every external collaborator KGraphInfer can
// call from a query (spec.md §5 "Predicate interface"). EvalImpl receives
// one entry per currently-bound argument position (unbound positions are
// simply absent from the map, never present with a sentinel) and returns
// every output binding map consistent with that input — an empty slice
// means the call failed for these inputs.
type Predicate interface {
	// Arity returns the predicate's expected argument count, or -1 if the
	// predicate accepts a variable number of arguments.
	Arity() int
	// Annotations documents each argument slot informally (e.g. "subject",
	// "predicate", "object") for introspection; purely descriptive.
	Annotations() []string
	EvalImpl(ctx context.Context, input map[int]value.Value) ([]map[int]value.Value, error)
}

// PredicateError reports a registry or calling-convention failure:
// UnknownPredicate (no such name registered) or ArityMismatch.
type PredicateError struct {
	Kind    string
	Message string
}

func (e PredicateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Registry maps predicate names to implementations, analogous to the
// teacher's graph model holding named nodes/edges — here the "graph" being
// queried is whatever data a registered predicate fronts.
type Registry struct {
	preds map[string]Predicate
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{preds: make(map[string]Predicate)}
}

// Register adds p under name, rejecting duplicate registration.
func (r *Registry) Register(name string, p Predicate) error {
	if _, exists := r.preds[name]; exists {
		return PredicateError{Kind: "DuplicatePredicate", Message: fmt.Sprintf("predicate %q is already registered", name)}
	}
	r.preds[name] = p
	return nil
}

// Lookup returns the predicate registered under name, if any.
func (r *Registry) Lookup(name string) (Predicate, bool) {
	p, ok := r.preds[name]
	return p, ok
}

// Arg is one argument of a predicate call as seen by Call: either a
// variable reference (resolved against the live binding stack) or an
// already-reduced constant value.
type Arg struct {
	IsVar   bool
	VarName string
	Value   value.Value
}

// Call performs one predicate invocation (spec.md §4.6 "predicate
// dispatch"): it builds the input map from whichever arguments are
// currently bound, invokes EvalImpl, and merges each output map back into
// a fresh binding-stack branch, discarding any branch where the merge
// conflicts with an existing binding.
func Call(ctx context.Context, p Predicate, args []Arg, b *binding.Stack) ([]*binding.Stack, error) {
	if arity := p.Arity(); arity >= 0 && len(args) != arity {
		return nil, PredicateError{
			Kind:    "ArityMismatch",
			Message: fmt.Sprintf("predicate expects %d argument(s), got %d", arity, len(args)),
		}
	}

	input := make(map[int]value.Value, len(args))
	for i, a := range args {
		v := a.Value
		if a.IsVar {
			v = b.Get(a.VarName)
		}
		if !v.IsUnbound() {
			input[i] = v
		}
	}

	outputs, err := p.EvalImpl(ctx, input)
	if err != nil {
		return nil, err
	}

	results := make([]*binding.Stack, 0, len(outputs))
	for _, out := range outputs {
		nb := b.Copy()
		consistent := true
		for i, val := range out {
			if i < 0 || i >= len(args) {
				continue
			}
			a := args[i]
			if a.IsVar {
				if !nb.Bind(a.VarName, val) {
					consistent = false
					break
				}
				continue
			}
			if !value.Equal(a.Value, val) {
				consistent = false
				break
			}
		}
		if consistent {
			results = append(results, nb)
		}
	}
	return results, nil
}
