package ast

// PredicateFunc is invoked once per Predicate node encountered during a
// Rewrite walk. Returning a replacement Node substitutes the predicate call;
// returning the node unchanged (or nil) leaves it in place.
type PredicateFunc func(p *Predicate) Node

// Rewrite performs a structural, predicate-focused rewrite of n (spec.md
// §4.1 "Structural rewriter"): every other node kind is reconstructed
// as-is with its children recursively rewritten, while every Predicate node
// is handed to fn for a possible substitution. This mirrors the original's
// transform_ast helper, which exists to let callers splice in
// pre-evaluated or rewritten predicate calls without hand-walking the tree.
func Rewrite(n Node, fn PredicateFunc) Node {
	if n == nil {
		return nil
	}
	switch v := n.(type) {
	case *And:
		return &And{Children: rewriteAll(v.Children, fn)}
	case *Or:
		return &Or{Children: rewriteAll(v.Children, fn)}
	case *Not:
		return &Not{Child: Rewrite(v.Child, fn)}
	case *Group:
		return &Group{Child: Rewrite(v.Child, fn)}
	case *Predicate:
		args := make([]Node, len(v.Args))
		for i, a := range v.Args {
			args[i] = Rewrite(a, fn)
		}
		rewritten := &Predicate{Name: v.Name, Args: args}
		if fn == nil {
			return rewritten
		}
		if out := fn(rewritten); out != nil {
			return out
		}
		return rewritten
	case *Unify:
		return &Unify{LHS: v.LHS, RHS: Rewrite(v.RHS, fn)}
	case *Equal:
		return &Equal{LHS: Rewrite(v.LHS, fn), RHS: Rewrite(v.RHS, fn)}
	case *Compare:
		return &Compare{LHS: Rewrite(v.LHS, fn), Op: v.Op, RHS: Rewrite(v.RHS, fn)}
	case *MathAssign:
		return &MathAssign{Var: v.Var, Expr: Rewrite(v.Expr, fn)}
	case *In:
		return &In{LHS: Rewrite(v.LHS, fn), RHS: Rewrite(v.RHS, fn)}
	case *Subset:
		return &Subset{LHS: Rewrite(v.LHS, fn), RHS: Rewrite(v.RHS, fn)}
	case *Aggregate:
		return &Aggregate{Op: v.Op, Var: v.Var, Body: rewriteAll(v.Body, fn)}
	case *Add:
		return &Add{LHS: Rewrite(v.LHS, fn), RHS: Rewrite(v.RHS, fn)}
	case *Sub:
		return &Sub{LHS: Rewrite(v.LHS, fn), RHS: Rewrite(v.RHS, fn)}
	case *Mul:
		return &Mul{LHS: Rewrite(v.LHS, fn), RHS: Rewrite(v.RHS, fn)}
	case *Div:
		return &Div{LHS: Rewrite(v.LHS, fn), RHS: Rewrite(v.RHS, fn)}
	case *List:
		items := make([]Node, len(v.Items))
		for i, it := range v.Items {
			items[i] = Rewrite(it, fn)
		}
		return &List{Items: items}
	case *Map:
		pairs := make([]MapPair, len(v.Pairs))
		for i, p := range v.Pairs {
			pairs[i] = MapPair{Key: Rewrite(p.Key, fn), Val: Rewrite(p.Val, fn)}
		}
		return &Map{Pairs: pairs}
	case *Var, *Literal, *Atom, *TypedScalar:
		return n
	default:
		return n
	}
}

func rewriteAll(nodes []Node, fn PredicateFunc) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = Rewrite(n, fn)
	}
	return out
}
