package eval

import (
	"context"

	"github.com/vital-ai/kgraphinfer/internal/ast"
	"github.com/vital-ai/kgraphinfer/internal/binding"
	"github.com/vital-ai/kgraphinfer/internal/value"
)

// reduce resolves any value-shaped AST node (everything except Predicate and
// the clause-level logical/relational nodes) to a concrete value.Value under
// the current binding. ok is false when an unbound variable flows into the
// reduction (spec.md §4.2 "UNBOUND may appear during evaluation but never
// reaches an answer set") — this prunes the branch silently rather than
// raising an error. err is non-nil only for a fatal mismatch such as
// arithmetic over a non-numeric operand. ctx is threaded through so an
// aggregate sub-query can still invoke predicates.
func (e *Evaluator) reduce(ctx context.Context, n ast.Node, b *binding.Stack) (value.Value, bool, error) {
	switch v := n.(type) {
	case *ast.Var:
		val := b.Get(v.Name)
		if val.IsUnbound() {
			return value.Value{}, false, nil
		}
		return val, true, nil

	case *ast.Literal:
		return v.Value, true, nil

	case *ast.TypedScalar:
		return v.Value, true, nil

	case *ast.Atom:
		return value.NewAtom(v.Name), true, nil

	case *ast.List:
		items := make([]value.Value, len(v.Items))
		for i, item := range v.Items {
			val, ok, err := e.reduce(ctx, item, b)
			if err != nil || !ok {
				return value.Value{}, ok, err
			}
			items[i] = val
		}
		return value.NewList(items), true, nil

	case *ast.Map:
		entries := make([]value.MapEntry, len(v.Pairs))
		for i, p := range v.Pairs {
			k, ok, err := e.reduce(ctx, p.Key, b)
			if err != nil || !ok {
				return value.Value{}, ok, err
			}
			val, ok, err := e.reduce(ctx, p.Val, b)
			if err != nil || !ok {
				return value.Value{}, ok, err
			}
			entries[i] = value.MapEntry{Key: k, Val: val}
		}
		return value.NewMap(entries), true, nil

	case *ast.Add:
		return e.reduceArith(ctx, v.LHS, v.RHS, "add", b)
	case *ast.Sub:
		return e.reduceArith(ctx, v.LHS, v.RHS, "sub", b)
	case *ast.Mul:
		return e.reduceArith(ctx, v.LHS, v.RHS, "mul", b)
	case *ast.Div:
		return e.reduceArith(ctx, v.LHS, v.RHS, "div", b)

	case *ast.Aggregate:
		return e.reduceAggregate(ctx, v, b)

	default:
		return value.Value{}, false, typeMismatch("cannot reduce node of type %T to a value", n)
	}
}

func (e *Evaluator) reduceArith(ctx context.Context, lhs, rhs ast.Node, op string, b *binding.Stack) (value.Value, bool, error) {
	a, ok, err := e.reduce(ctx, lhs, b)
	if err != nil || !ok {
		return value.Value{}, ok, err
	}
	bb, ok, err := e.reduce(ctx, rhs, b)
	if err != nil || !ok {
		return value.Value{}, ok, err
	}
	return evalArith(a, bb, op)
}
