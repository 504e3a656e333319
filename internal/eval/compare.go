package eval

import (
	"context"

	"github.com/vital-ai/kgraphinfer/internal/ast"
	"github.com/vital-ai/kgraphinfer/internal/binding"
	"github.com/vital-ai/kgraphinfer/internal/value"
)

func (e *Evaluator) evalUnify(ctx context.Context, u *ast.Unify, b *binding.Stack) ([]*binding.Stack, error) {
	rhs, ok, err := e.reduce(ctx, u.RHS, b)
	if err != nil {
		return nil, err
	}
	if !ok {
		// The right-hand side is itself unbound. If the left-hand variable
		// is also unbound, unification between two unbound terms succeeds
		// with no binding made, deferred rather than failed (spec.md §4.6
		// step 3). Otherwise this is a genuine failure to resolve a value.
		if b.Get(u.LHS.Name).IsUnbound() {
			return []*binding.Stack{b}, nil
		}
		return nil, nil
	}
	nb := b.Copy()
	if !nb.Bind(u.LHS.Name, rhs) {
		return nil, nil
	}
	return []*binding.Stack{nb}, nil
}

func (e *Evaluator) evalEqual(ctx context.Context, eq *ast.Equal, b *binding.Stack) ([]*binding.Stack, error) {
	lhs, ok, err := e.reduce(ctx, eq.LHS, b)
	if err != nil || !ok {
		return nil, err
	}
	rhs, ok, err := e.reduce(ctx, eq.RHS, b)
	if err != nil || !ok {
		return nil, err
	}
	if !value.Equal(lhs, rhs) {
		return nil, nil
	}
	return []*binding.Stack{b}, nil
}

func (e *Evaluator) evalCompare(ctx context.Context, c *ast.Compare, b *binding.Stack) ([]*binding.Stack, error) {
	lhs, ok, err := e.reduce(ctx, c.LHS, b)
	if err != nil || !ok {
		return nil, err
	}
	rhs, ok, err := e.reduce(ctx, c.RHS, b)
	if err != nil || !ok {
		return nil, err
	}
	result, err := value.Compare(lhs, rhs, value.Op(c.Op))
	if err != nil {
		if ce, ok := err.(value.CompareError); ok {
			return nil, EvalError{Kind: ce.Kind, Message: ce.Message}
		}
		return nil, EvalError{Kind: "TypeMismatch", Message: err.Error()}
	}
	if !result {
		return nil, nil
	}
	return []*binding.Stack{b}, nil
}

func (e *Evaluator) evalMathAssign(ctx context.Context, m *ast.MathAssign, b *binding.Stack) ([]*binding.Stack, error) {
	rhs, ok, err := e.reduce(ctx, m.Expr, b)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	nb := b.Copy()
	if !nb.Bind(m.Var.Name, rhs) {
		return nil, nil
	}
	return []*binding.Stack{nb}, nil
}
