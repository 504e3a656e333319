package ast

import (
	"testing"

	"github.com/vital-ai/kgraphinfer/internal/value"
)

func TestUnparse_Predicate(t *testing.T) {
	n := &Predicate{Name: "friendOf", Args: []Node{&Var{Name: "x"}, &Literal{Value: value.NewString("bob")}}}

	got, err := Unparse(n)
	if err != nil {
		t.Fatalf("Unparse failed: %v", err)
	}
	want := `friendOf(?x, "bob")`
	if got != want {
		t.Errorf("Unparse() = %q, want %q", got, want)
	}
}

func TestUnparse_AndOrNot(t *testing.T) {
	n := &And{Children: []Node{
		&Predicate{Name: "p", Args: []Node{&Var{Name: "x"}}},
		&Not{Child: &Predicate{Name: "q", Args: []Node{&Var{Name: "x"}}}},
	}}

	got, err := Unparse(n)
	if err != nil {
		t.Fatalf("Unparse failed: %v", err)
	}
	want := "p(?x), not(q(?x))"
	if got != want {
		t.Errorf("Unparse() = %q, want %q", got, want)
	}
}

func TestUnparse_Aggregate(t *testing.T) {
	n := &Aggregate{
		Op:  AggSum,
		Var: &Var{Name: "amount"},
		Body: []Node{
			&Predicate{Name: "orderAmount", Args: []Node{&Var{Name: "o"}, &Var{Name: "amount"}}},
		},
	}

	got, err := Unparse(n)
	if err != nil {
		t.Fatalf("Unparse failed: %v", err)
	}
	want := "sum{ ?amount | orderAmount(?o, ?amount) }"
	if got != want {
		t.Errorf("Unparse() = %q, want %q", got, want)
	}
}

func TestRewrite_ReplacesPredicate(t *testing.T) {
	n := &And{Children: []Node{
		&Predicate{Name: "p", Args: []Node{&Var{Name: "x"}}},
		&Predicate{Name: "q", Args: []Node{&Var{Name: "x"}}},
	}}

	out := Rewrite(n, func(p *Predicate) Node {
		if p.Name == "q" {
			return &Atom{Name: "replaced"}
		}
		return p
	})

	and, ok := out.(*And)
	if !ok {
		t.Fatalf("Rewrite() returned %T, want *And", out)
	}
	if _, ok := and.Children[0].(*Predicate); !ok {
		t.Errorf("Children[0] = %T, want *Predicate", and.Children[0])
	}
	if atom, ok := and.Children[1].(*Atom); !ok || atom.Name != "replaced" {
		t.Errorf("Children[1] = %v, want Atom{replaced}", and.Children[1])
	}
}
