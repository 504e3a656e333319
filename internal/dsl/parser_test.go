package dsl

import (
	"testing"

	"github.com/vital-ai/kgraphinfer/internal/ast"
)

func parseOrFatal(t *testing.T, query string) ast.Node {
	t.Helper()
	p := NewParser()
	n, err := p.Parse(query)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", query, err)
	}
	return n
}

func TestParser_SimplePredicate(t *testing.T) {
	n := parseOrFatal(t, `friendOf(?x, "bob")`)

	pred, ok := n.(*ast.Predicate)
	if !ok {
		t.Fatalf("Parse() = %T, want *ast.Predicate", n)
	}
	if pred.Name != "friendOf" {
		t.Errorf("Name = %q, want friendOf", pred.Name)
	}
	if len(pred.Args) != 2 {
		t.Fatalf("len(Args) = %d, want 2", len(pred.Args))
	}
	if v, ok := pred.Args[0].(*ast.Var); !ok || v.Name != "x" {
		t.Errorf("Args[0] = %v, want Var{x}", pred.Args[0])
	}
	if lit, ok := pred.Args[1].(*ast.Literal); !ok || lit.Value.S != "bob" {
		t.Errorf("Args[1] = %v, want Literal{bob}", pred.Args[1])
	}
}

func TestParser_Conjunction(t *testing.T) {
	n := parseOrFatal(t, `friendOf(?x, ?y), ageOf(?y, ?age)`)

	and, ok := n.(*ast.And)
	if !ok {
		t.Fatalf("Parse() = %T, want *ast.And", n)
	}
	if len(and.Children) != 2 {
		t.Fatalf("len(Children) = %d, want 2", len(and.Children))
	}
}

func TestParser_Disjunction(t *testing.T) {
	n := parseOrFatal(t, `friendOf(?x, ?y); colleagueOf(?x, ?y)`)

	or, ok := n.(*ast.Or)
	if !ok {
		t.Fatalf("Parse() = %T, want *ast.Or", n)
	}
	if len(or.Children) != 2 {
		t.Fatalf("len(Children) = %d, want 2", len(or.Children))
	}
}

func TestParser_Not(t *testing.T) {
	n := parseOrFatal(t, `not(friendOf(?x, ?y))`)

	not, ok := n.(*ast.Not)
	if !ok {
		t.Fatalf("Parse() = %T, want *ast.Not", n)
	}
	if _, ok := not.Child.(*ast.Predicate); !ok {
		t.Errorf("Child = %T, want *ast.Predicate", not.Child)
	}
}

func TestParser_Group(t *testing.T) {
	n := parseOrFatal(t, `(friendOf(?x, ?y), ageOf(?y, ?age))`)

	grp, ok := n.(*ast.Group)
	if !ok {
		t.Fatalf("Parse() = %T, want *ast.Group", n)
	}
	if _, ok := grp.Child.(*ast.And); !ok {
		t.Errorf("Child = %T, want *ast.And", grp.Child)
	}
}

func TestParser_Unify(t *testing.T) {
	n := parseOrFatal(t, `?x = ?y`)

	u, ok := n.(*ast.Unify)
	if !ok {
		t.Fatalf("Parse() = %T, want *ast.Unify", n)
	}
	if u.LHS.Name != "x" {
		t.Errorf("LHS = %q, want x", u.LHS.Name)
	}
}

func TestParser_Equal(t *testing.T) {
	n := parseOrFatal(t, `1 = 2`)

	if _, ok := n.(*ast.Equal); !ok {
		t.Fatalf("Parse() = %T, want *ast.Equal", n)
	}
}

func TestParser_Compare(t *testing.T) {
	n := parseOrFatal(t, `?age >= 18`)

	cmp, ok := n.(*ast.Compare)
	if !ok {
		t.Fatalf("Parse() = %T, want *ast.Compare", n)
	}
	if cmp.Op != ast.OpGe {
		t.Errorf("Op = %q, want >=", cmp.Op)
	}
}

func TestParser_MathAssign(t *testing.T) {
	n := parseOrFatal(t, `?total is ?price * ?qty`)

	ma, ok := n.(*ast.MathAssign)
	if !ok {
		t.Fatalf("Parse() = %T, want *ast.MathAssign", n)
	}
	if ma.Var.Name != "total" {
		t.Errorf("Var = %q, want total", ma.Var.Name)
	}
	if _, ok := ma.Expr.(*ast.Mul); !ok {
		t.Errorf("Expr = %T, want *ast.Mul", ma.Expr)
	}
}

func TestParser_ArithmeticPrecedence(t *testing.T) {
	n := parseOrFatal(t, `?x is 1 + 2 * 3`)

	ma := n.(*ast.MathAssign)
	add, ok := ma.Expr.(*ast.Add)
	if !ok {
		t.Fatalf("Expr = %T, want *ast.Add", ma.Expr)
	}
	if _, ok := add.RHS.(*ast.Mul); !ok {
		t.Errorf("Add.RHS = %T, want *ast.Mul (2 * 3 should bind tighter than +)", add.RHS)
	}
}

func TestParser_In(t *testing.T) {
	n := parseOrFatal(t, `?x in [1, 2, 3]`)

	in, ok := n.(*ast.In)
	if !ok {
		t.Fatalf("Parse() = %T, want *ast.In", n)
	}
	if _, ok := in.RHS.(*ast.List); !ok {
		t.Errorf("RHS = %T, want *ast.List", in.RHS)
	}
}

func TestParser_Subset(t *testing.T) {
	n := parseOrFatal(t, `[1, 2] subset ?s`)

	if _, ok := n.(*ast.Subset); !ok {
		t.Fatalf("Parse() = %T, want *ast.Subset", n)
	}
}

func TestParser_MapLiteral(t *testing.T) {
	n := parseOrFatal(t, `?m = {"a": 1, "b": 2}`)

	u, ok := n.(*ast.Unify)
	if !ok {
		t.Fatalf("Parse() = %T, want *ast.Unify", n)
	}
	m, ok := u.RHS.(*ast.Map)
	if !ok {
		t.Fatalf("RHS = %T, want *ast.Map", u.RHS)
	}
	if len(m.Pairs) != 2 {
		t.Fatalf("len(Pairs) = %d, want 2", len(m.Pairs))
	}
}

func TestParser_Aggregate(t *testing.T) {
	n := parseOrFatal(t, `?total is sum{ ?amount | orderAmount(?o, ?amount) }`)

	ma, ok := n.(*ast.MathAssign)
	if !ok {
		t.Fatalf("Parse() = %T, want *ast.MathAssign", n)
	}
	agg, ok := ma.Expr.(*ast.Aggregate)
	if !ok {
		t.Fatalf("Expr = %T, want *ast.Aggregate", ma.Expr)
	}
	if agg.Op != ast.AggSum {
		t.Errorf("Op = %q, want sum", agg.Op)
	}
	if agg.Var.Name != "amount" {
		t.Errorf("Var = %q, want amount", agg.Var.Name)
	}
}

func TestParser_TypedScalars(t *testing.T) {
	cases := []struct {
		query   string
		wantTag string
	}{
		{`?x = '2024-01-01'^Date`, "date"},
		{`?x = '2024-01-01T10:00:00Z'^DateTime`, "dateTime"},
		{`?x = '10:00:00'^Time`, "time"},
		{`?x = 'P3DT12H'^Duration`, "duration"},
		{`?x = 'http://example.com/thing'^URI`, "uri"},
		{`?x = '10.50'^Currency(USD)`, "currency"},
		{`?x = '5'^Unit('http://example.com/unit/kg')`, "unit"},
		{`?x = '37.7749,-122.4194'^GeoLocation`, "geolocation"},
	}

	for _, c := range cases {
		n := parseOrFatal(t, c.query)
		u, ok := n.(*ast.Unify)
		if !ok {
			t.Fatalf("Parse(%q) = %T, want *ast.Unify", c.query, n)
		}
		ts, ok := u.RHS.(*ast.TypedScalar)
		if !ok {
			t.Fatalf("Parse(%q) RHS = %T, want *ast.TypedScalar", c.query, u.RHS)
		}
		if string(ts.Value.Tag) != c.wantTag {
			t.Errorf("Parse(%q) tag = %q, want %q", c.query, ts.Value.Tag, c.wantTag)
		}
	}
}

func TestParser_NestedPredicateArgumentRejected(t *testing.T) {
	p := NewParser()
	_, err := p.Parse(`outer(inner(?x), ?y)`)
	if err == nil {
		t.Fatal("Parse() with a nested predicate argument should fail")
	}
	se, ok := err.(SyntaxError)
	if !ok {
		t.Fatalf("error = %T, want dsl.SyntaxError", err)
	}
	if se.Kind != "NestedPredicateArgument" {
		t.Errorf("Kind = %q, want NestedPredicateArgument", se.Kind)
	}
}

func TestParser_SyntaxError(t *testing.T) {
	p := NewParser()
	_, err := p.Parse(`friendOf(?x,`)
	if err == nil {
		t.Fatal("Parse() with unbalanced parens should fail")
	}
	if _, ok := err.(SyntaxError); !ok {
		t.Errorf("error = %T, want dsl.SyntaxError", err)
	}
}
