package eval

import (
	"context"
	"sort"

	"github.com/vital-ai/kgraphinfer/internal/ast"
	"github.com/vital-ai/kgraphinfer/internal/binding"
	"github.com/vital-ai/kgraphinfer/internal/value"
)

// reduceAggregate evaluates an aggregate sub-query under a fresh binding
// copy, collects the values its loop variable takes across every solution
// branch, and reduces them per the aggregate's operator (spec.md §4.10).
// The loop variable never leaks into the caller's bindings: the sub-query
// runs over its own copy and only the final reduced value is returned.
func (e *Evaluator) reduceAggregate(ctx context.Context, agg *ast.Aggregate, b *binding.Stack) (value.Value, bool, error) {
	sub := b.Copy()
	branches, err := e.Eval(ctx, agg.Body[0], sub)
	if err != nil {
		return value.Value{}, false, err
	}

	values := make([]value.Value, 0, len(branches))
	for _, branch := range branches {
		v := branch.Get(agg.Var.Name)
		if v.IsUnbound() {
			continue
		}
		values = append(values, v)
	}

	switch agg.Op {
	case ast.AggCollection:
		return value.NewList(values), true, nil

	case ast.AggSet:
		return value.NewList(dedupValues(values)), true, nil

	case ast.AggCount:
		return value.NewInt(int64(len(values))), true, nil

	case ast.AggSum:
		if len(values) == 0 {
			return value.Value{}, false, nil
		}
		total := 0.0
		allInt := true
		intTotal := int64(0)
		for _, v := range values {
			if !v.IsNumeric() {
				return value.Value{}, false, nil
			}
			total += v.AsFloat64()
			if v.Kind != value.Int {
				allInt = false
			} else {
				intTotal += v.I
			}
		}
		if allInt {
			return value.NewInt(intTotal), true, nil
		}
		return value.NewFloat(total), true, nil

	case ast.AggAverage:
		if len(values) == 0 {
			return value.Value{}, false, nil
		}
		total := 0.0
		for _, v := range values {
			if !v.IsNumeric() {
				return value.Value{}, false, nil
			}
			total += v.AsFloat64()
		}
		return value.NewFloat(total / float64(len(values))), true, nil

	case ast.AggMin, ast.AggMax:
		if len(values) == 0 {
			return value.Value{}, false, nil
		}
		best := values[0]
		for _, v := range values[1:] {
			if !v.IsNumeric() || !best.IsNumeric() {
				return value.Value{}, false, nil
			}
			if (agg.Op == ast.AggMin && v.AsFloat64() < best.AsFloat64()) ||
				(agg.Op == ast.AggMax && v.AsFloat64() > best.AsFloat64()) {
				best = v
			}
		}
		return best, true, nil

	default:
		return value.Value{}, false, typeMismatch("unknown aggregate operator %q", agg.Op)
	}
}

// dedupValues drops duplicate values using their canonical hash key and
// returns the survivors sorted by that key.
func dedupValues(values []value.Value) []value.Value {
	seen := make(map[string]bool, len(values))
	out := make([]value.Value, 0, len(values))
	for _, v := range values {
		key := value.CanonicalKey(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool { return value.CanonicalKey(out[i]) < value.CanonicalKey(out[j]) })
	return out
}
