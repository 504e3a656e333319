package eval

import (
	"context"

	"github.com/vital-ai/kgraphinfer/internal/ast"
	"github.com/vital-ai/kgraphinfer/internal/binding"
	"github.com/vital-ai/kgraphinfer/internal/value"
)

func (e *Evaluator) evalIn(ctx context.Context, n *ast.In, b *binding.Stack) ([]*binding.Stack, error) {
	rhs, ok, err := e.reduce(ctx, n.RHS, b)
	if err != nil || !ok {
		return nil, err
	}
	switch rhs.Kind {
	case value.List:
		return e.inList(ctx, n.LHS, rhs.List, b)
	case value.Map:
		return e.inMap(ctx, n.LHS, rhs.Map, b)
	default:
		return nil, typeMismatch("the right-hand side of \"in\" must be a list or map, got %s", rhs.Kind)
	}
}

func (e *Evaluator) inList(ctx context.Context, lhs ast.Node, items []value.Value, b *binding.Stack) ([]*binding.Stack, error) {
	if v, isVar := lhs.(*ast.Var); isVar && b.Get(v.Name).IsUnbound() {
		results := make([]*binding.Stack, 0, len(items))
		for _, item := range items {
			nb := b.Copy()
			nb.Bind(v.Name, item)
			results = append(results, nb)
		}
		return results, nil
	}

	lhsVal, ok, err := e.reduce(ctx, lhs, b)
	if err != nil || !ok {
		return nil, err
	}
	for _, item := range items {
		if value.Equal(lhsVal, item) {
			return []*binding.Stack{b}, nil
		}
	}
	return nil, nil
}

// inMap resolves membership of lhs in a map. A single-key pattern
// (a one-pair map literal, e.g. "{?k: ?v} in ?m") unifies against every
// entry of the right-hand side map, one branch per matching entry; an
// unbound variable enumerates every key; anything else is reduced to a
// concrete value and tested against the map's keys (spec.md §4.9).
func (e *Evaluator) inMap(ctx context.Context, lhs ast.Node, entries []value.MapEntry, b *binding.Stack) ([]*binding.Stack, error) {
	if m, isMap := lhs.(*ast.Map); isMap && len(m.Pairs) == 1 {
		pair := m.Pairs[0]
		var results []*binding.Stack
		for _, entry := range entries {
			nb := b.Copy()
			ok, err := unifyOrEqual(ctx, pair.Key, entry.Key, nb, e)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			ok, err = unifyOrEqual(ctx, pair.Val, entry.Val, nb, e)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			results = append(results, nb)
		}
		return results, nil
	}

	if v, isVar := lhs.(*ast.Var); isVar && b.Get(v.Name).IsUnbound() {
		results := make([]*binding.Stack, 0, len(entries))
		for _, entry := range entries {
			nb := b.Copy()
			nb.Bind(v.Name, entry.Key)
			results = append(results, nb)
		}
		return results, nil
	}

	lhsVal, ok, err := e.reduce(ctx, lhs, b)
	if err != nil || !ok {
		return nil, err
	}
	for _, entry := range entries {
		if value.Equal(lhsVal, entry.Key) {
			return []*binding.Stack{b}, nil
		}
	}
	return nil, nil
}

// unifyOrEqual binds node to val if node is a variable, otherwise checks
// node reduces to a value structurally equal to val. It mutates b in place
// on a successful variable bind (callers pass a binding they already copied
// for this candidate).
func unifyOrEqual(ctx context.Context, node ast.Node, val value.Value, b *binding.Stack, e *Evaluator) (bool, error) {
	if v, ok := node.(*ast.Var); ok {
		return b.Bind(v.Name, val), nil
	}
	got, ok, err := e.reduce(ctx, node, b)
	if err != nil || !ok {
		return false, err
	}
	return value.Equal(got, val), nil
}
