package eval

import (
	"context"

	"github.com/vital-ai/kgraphinfer/internal/ast"
	"github.com/vital-ai/kgraphinfer/internal/binding"
	"github.com/vital-ai/kgraphinfer/internal/predicate"
)

// Evaluator walks a parsed query against a predicate registry, producing
// every binding stack consistent with the query (spec.md §4 "Evaluation").
// It holds no query-specific state of its own — every Eval call is
// independent — mirroring the teacher's engine.InferenceEngine, which is
// likewise a thin, stateless dispatcher over a registry of collaborators.
type Evaluator struct {
	registry *predicate.Registry
}

// New returns an Evaluator that dispatches predicate calls against reg.
func New(reg *predicate.Registry) *Evaluator {
	return &Evaluator{registry: reg}
}

// Eval evaluates a clause-shaped AST node under the given binding, returning
// every branch (binding stack) it succeeds on. An empty, nil-error result
// means the clause failed for this binding (spec.md §4.2); a non-nil error
// is fatal (unknown predicate, arity mismatch, type mismatch).
func (e *Evaluator) Eval(ctx context.Context, n ast.Node, b *binding.Stack) ([]*binding.Stack, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	switch v := n.(type) {
	case *ast.And:
		return e.evalAnd(ctx, v, b)
	case *ast.Or:
		return e.evalOr(ctx, v, b)
	case *ast.Not:
		return e.evalNot(ctx, v, b)
	case *ast.Group:
		return e.Eval(ctx, v.Child, b)
	case *ast.Predicate:
		return e.evalPredicate(ctx, v, b)
	case *ast.Unify:
		return e.evalUnify(ctx, v, b)
	case *ast.Equal:
		return e.evalEqual(ctx, v, b)
	case *ast.Compare:
		return e.evalCompare(ctx, v, b)
	case *ast.MathAssign:
		return e.evalMathAssign(ctx, v, b)
	case *ast.In:
		return e.evalIn(ctx, v, b)
	case *ast.Subset:
		return e.evalSubset(ctx, v, b)
	default:
		return nil, typeMismatch("node of type %T is not a clause and cannot be evaluated directly", n)
	}
}

// evalAnd threads binding branches through each conjunct in turn: every
// branch produced by one conjunct is re-evaluated against the next, so
// variables bound earlier in the conjunction constrain what comes after
// (spec.md §4.3).
func (e *Evaluator) evalAnd(ctx context.Context, n *ast.And, b *binding.Stack) ([]*binding.Stack, error) {
	branches := []*binding.Stack{b}
	for _, child := range n.Children {
		var next []*binding.Stack
		for _, branch := range branches {
			results, err := e.Eval(ctx, child, branch)
			if err != nil {
				return nil, err
			}
			next = append(next, results...)
		}
		branches = next
		if len(branches) == 0 {
			return nil, nil
		}
	}
	return branches, nil
}

// evalOr evaluates each disjunct independently against the same starting
// binding and concatenates every branch any of them produces (spec.md §4.3).
func (e *Evaluator) evalOr(ctx context.Context, n *ast.Or, b *binding.Stack) ([]*binding.Stack, error) {
	var all []*binding.Stack
	for _, child := range n.Children {
		results, err := e.Eval(ctx, child, b)
		if err != nil {
			return nil, err
		}
		all = append(all, results...)
	}
	return all, nil
}

// evalNot succeeds with the unmodified incoming binding iff its child fails
// to produce any branch; it never propagates bindings the child would have
// made (spec.md §4.4 negation-as-failure).
func (e *Evaluator) evalNot(ctx context.Context, n *ast.Not, b *binding.Stack) ([]*binding.Stack, error) {
	results, err := e.Eval(ctx, n.Child, b.Copy())
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		return nil, nil
	}
	return []*binding.Stack{b}, nil
}

// evalPredicate translates the AST call's arguments into predicate.Arg
// values — a bare variable is passed through for the registry to resolve or
// bind, anything else is reduced to a constant first — and dispatches
// through the shared predicate.Call convention (spec.md §4.6).
func (e *Evaluator) evalPredicate(ctx context.Context, n *ast.Predicate, b *binding.Stack) ([]*binding.Stack, error) {
	p, ok := e.registry.Lookup(n.Name)
	if !ok {
		return nil, unknownPredicate(n.Name)
	}

	args := make([]predicate.Arg, len(n.Args))
	for i, a := range n.Args {
		if v, isVar := a.(*ast.Var); isVar {
			args[i] = predicate.Arg{IsVar: true, VarName: v.Name}
			continue
		}
		val, ok, err := e.reduce(ctx, a, b)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		args[i] = predicate.Arg{Value: val}
	}

	return predicate.Call(ctx, p, args, b)
}
