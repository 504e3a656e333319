package eval

import (
	"context"

	"github.com/vital-ai/kgraphinfer/internal/ast"
	"github.com/vital-ai/kgraphinfer/internal/binding"
	"github.com/vital-ai/kgraphinfer/internal/value"
)

func (e *Evaluator) evalSubset(ctx context.Context, s *ast.Subset, b *binding.Stack) ([]*binding.Stack, error) {
	rhs, ok, err := e.reduce(ctx, s.RHS, b)
	if err != nil || !ok {
		return nil, err
	}
	switch rhs.Kind {
	case value.List:
		return e.subsetList(ctx, s.LHS, rhs.List, b)
	case value.Map:
		return e.subsetMap(ctx, s.LHS, rhs.Map, b)
	default:
		return nil, typeMismatch("the right-hand side of \"subset\" must be a list or map, got %s", rhs.Kind)
	}
}

func (e *Evaluator) subsetList(ctx context.Context, lhs ast.Node, items []value.Value, b *binding.Stack) ([]*binding.Stack, error) {
	if v, isVar := lhs.(*ast.Var); isVar && b.Get(v.Name).IsUnbound() {
		results := make([]*binding.Stack, 0)
		for _, idx := range nonEmptySubsets(len(items)) {
			sub := make([]value.Value, len(idx))
			for i, j := range idx {
				sub[i] = items[j]
			}
			nb := b.Copy()
			nb.Bind(v.Name, value.NewList(sub))
			results = append(results, nb)
		}
		return results, nil
	}

	lhsVal, ok, err := e.reduce(ctx, lhs, b)
	if err != nil || !ok {
		return nil, err
	}
	if lhsVal.Kind != value.List {
		return nil, typeMismatch("the left-hand side of \"subset\" must be a list here, got %s", lhsVal.Kind)
	}
	for _, want := range lhsVal.List {
		found := false
		for _, have := range items {
			if value.Equal(want, have) {
				found = true
				break
			}
		}
		if !found {
			return nil, nil
		}
	}
	return []*binding.Stack{b}, nil
}

func (e *Evaluator) subsetMap(ctx context.Context, lhs ast.Node, entries []value.MapEntry, b *binding.Stack) ([]*binding.Stack, error) {
	if v, isVar := lhs.(*ast.Var); isVar && b.Get(v.Name).IsUnbound() {
		results := make([]*binding.Stack, 0)
		for _, idx := range nonEmptySubsets(len(entries)) {
			sub := make([]value.MapEntry, len(idx))
			for i, j := range idx {
				sub[i] = entries[j]
			}
			nb := b.Copy()
			nb.Bind(v.Name, value.NewMap(sub))
			results = append(results, nb)
		}
		return results, nil
	}

	if m, isMap := lhs.(*ast.Map); isMap {
		return e.subsetMapPattern(ctx, m, entries, b)
	}

	lhsVal, ok, err := e.reduce(ctx, lhs, b)
	if err != nil || !ok {
		return nil, err
	}
	if lhsVal.Kind != value.Map {
		return nil, typeMismatch("the left-hand side of \"subset\" must be a map here, got %s", lhsVal.Kind)
	}
	for _, want := range lhsVal.Map {
		found := false
		for _, have := range entries {
			if value.Equal(want.Key, have.Key) && value.Equal(want.Val, have.Val) {
				found = true
				break
			}
		}
		if !found {
			return nil, nil
		}
	}
	return []*binding.Stack{b}, nil
}

// subsetMapPattern tries every assignment of the pattern's pairs to a
// distinct subset of entries, in every order, so that unbound pattern
// variables can unify against whichever entry makes the whole pattern
// consistent (spec.md §4.9 "map-literal pattern via combinations and
// permutations").
func (e *Evaluator) subsetMapPattern(ctx context.Context, pattern *ast.Map, entries []value.MapEntry, b *binding.Stack) ([]*binding.Stack, error) {
	k := len(pattern.Pairs)
	if k == 0 {
		return []*binding.Stack{b}, nil
	}
	if k > len(entries) {
		return nil, nil
	}

	var results []*binding.Stack
	for _, combo := range combinations(len(entries), k) {
		for _, perm := range permutations(combo) {
			nb := b.Copy()
			consistent := true
			for i, pair := range pattern.Pairs {
				entry := entries[perm[i]]
				ok, err := unifyOrEqual(ctx, pair.Key, entry.Key, nb, e)
				if err != nil {
					return nil, err
				}
				if !ok {
					consistent = false
					break
				}
				ok, err = unifyOrEqual(ctx, pair.Val, entry.Val, nb, e)
				if err != nil {
					return nil, err
				}
				if !ok {
					consistent = false
					break
				}
			}
			if consistent {
				results = append(results, nb)
			}
		}
	}
	return results, nil
}

// nonEmptySubsets returns the index sets of every non-empty subset of
// {0, ..., n-1} (2^n - 1 of them), used to enumerate candidate bindings for
// an unbound subset variable (spec.md §4.9).
func nonEmptySubsets(n int) [][]int {
	if n == 0 {
		return nil
	}
	total := 1 << n
	out := make([][]int, 0, total-1)
	for mask := 1; mask < total; mask++ {
		var idx []int
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				idx = append(idx, i)
			}
		}
		out = append(out, idx)
	}
	return out
}

// combinations returns every k-element subset of {0, ..., n-1}, as index
// slices in ascending order.
func combinations(n, k int) [][]int {
	var out [][]int
	var cur []int
	var rec func(start int)
	rec = func(start int) {
		if len(cur) == k {
			chosen := make([]int, k)
			copy(chosen, cur)
			out = append(out, chosen)
			return
		}
		for i := start; i < n; i++ {
			cur = append(cur, i)
			rec(i + 1)
			cur = cur[:len(cur)-1]
		}
	}
	rec(0)
	return out
}

// permutations returns every ordering of items.
func permutations(items []int) [][]int {
	if len(items) == 0 {
		return [][]int{{}}
	}
	var out [][]int
	for i, item := range items {
		rest := make([]int, 0, len(items)-1)
		rest = append(rest, items[:i]...)
		rest = append(rest, items[i+1:]...)
		for _, p := range permutations(rest) {
			perm := append([]int{item}, p...)
			out = append(out, perm)
		}
	}
	return out
}
