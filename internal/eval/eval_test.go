package eval

import (
	"context"
	"testing"

	"github.com/vital-ai/kgraphinfer/internal/ast"
	"github.com/vital-ai/kgraphinfer/internal/binding"
	"github.com/vital-ai/kgraphinfer/internal/predicate"
	"github.com/vital-ai/kgraphinfer/internal/value"
)

func buildTestRegistry(t *testing.T) *predicate.Registry {
	t.Helper()
	reg := predicate.NewRegistry()
	friendOf := predicate.NewFilter([][]value.Value{
		{value.NewAtom("alice"), value.NewAtom("bob")},
		{value.NewAtom("bob"), value.NewAtom("carol")},
		{value.NewAtom("alice"), value.NewAtom("dave")},
	})
	if err := reg.Register("friendOf", friendOf); err != nil {
		t.Fatalf("Register(friendOf) failed: %v", err)
	}
	ageOf := predicate.NewFilter([][]value.Value{
		{value.NewAtom("alice"), value.NewInt(30)},
		{value.NewAtom("bob"), value.NewInt(17)},
	})
	if err := reg.Register("ageOf", ageOf); err != nil {
		t.Fatalf("Register(ageOf) failed: %v", err)
	}
	return reg
}

func varNode(name string) *ast.Var { return &ast.Var{Name: name} }

func litInt(i int64) *ast.Literal { return &ast.Literal{Value: value.NewInt(i)} }

func evalOrFatal(t *testing.T, e *Evaluator, n ast.Node, b *binding.Stack) []*binding.Stack {
	t.Helper()
	results, err := e.Eval(context.Background(), n, b)
	if err != nil {
		t.Fatalf("Eval(%v) failed: %v", n, err)
	}
	return results
}

func TestEval_PredicateBothBound(t *testing.T) {
	e := New(buildTestRegistry(t))
	n := &ast.Predicate{Name: "friendOf", Args: []ast.Node{
		&ast.Atom{Name: "alice"}, &ast.Atom{Name: "bob"},
	}}
	results := evalOrFatal(t, e, n, binding.New())
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
}

func TestEval_PredicateEnumeratesUnboundVar(t *testing.T) {
	e := New(buildTestRegistry(t))
	n := &ast.Predicate{Name: "friendOf", Args: []ast.Node{
		&ast.Atom{Name: "alice"}, varNode("x"),
	}}
	results := evalOrFatal(t, e, n, binding.New())
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
}

func TestEval_UnknownPredicateIsFatal(t *testing.T) {
	e := New(buildTestRegistry(t))
	n := &ast.Predicate{Name: "nope", Args: nil}
	_, err := e.Eval(context.Background(), n, binding.New())
	if err == nil {
		t.Fatal("Eval with an unregistered predicate should fail")
	}
	ee, ok := err.(EvalError)
	if !ok || ee.Kind != "UnknownPredicate" {
		t.Errorf("err = %v, want UnknownPredicate EvalError", err)
	}
}

func TestEval_And(t *testing.T) {
	e := New(buildTestRegistry(t))
	n := &ast.And{Children: []ast.Node{
		&ast.Predicate{Name: "friendOf", Args: []ast.Node{&ast.Atom{Name: "alice"}, varNode("x")}},
		&ast.Predicate{Name: "ageOf", Args: []ast.Node{varNode("x"), varNode("age")}},
	}}
	results := evalOrFatal(t, e, n, binding.New())
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1 (only bob has a known age among alice's friends)", len(results))
	}
	if got := results[0].Get("x"); !value.Equal(got, value.NewAtom("bob")) {
		t.Errorf("?x = %v, want bob", got)
	}
	if got := results[0].Get("age"); !value.Equal(got, value.NewInt(17)) {
		t.Errorf("?age = %v, want 17", got)
	}
}

func TestEval_Or(t *testing.T) {
	e := New(buildTestRegistry(t))
	n := &ast.Or{Children: []ast.Node{
		&ast.Unify{LHS: varNode("x"), RHS: litInt(1)},
		&ast.Unify{LHS: varNode("x"), RHS: litInt(2)},
	}}
	results := evalOrFatal(t, e, n, binding.New())
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
}

func TestEval_NotSucceedsWhenChildFails(t *testing.T) {
	e := New(buildTestRegistry(t))
	n := &ast.Not{Child: &ast.Predicate{Name: "friendOf", Args: []ast.Node{
		&ast.Atom{Name: "carol"}, &ast.Atom{Name: "alice"},
	}}}
	results := evalOrFatal(t, e, n, binding.New())
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
}

func TestEval_NotFailsWhenChildSucceeds(t *testing.T) {
	e := New(buildTestRegistry(t))
	n := &ast.Not{Child: &ast.Predicate{Name: "friendOf", Args: []ast.Node{
		&ast.Atom{Name: "alice"}, &ast.Atom{Name: "bob"},
	}}}
	results := evalOrFatal(t, e, n, binding.New())
	if len(results) != 0 {
		t.Fatalf("len(results) = %d, want 0", len(results))
	}
}

func TestEval_NotDoesNotLeakChildBindings(t *testing.T) {
	e := New(buildTestRegistry(t))
	n := &ast.Not{Child: &ast.Unify{LHS: varNode("x"), RHS: litInt(1)}}
	b := binding.New()
	results := evalOrFatal(t, e, n, b)
	if len(results) != 0 {
		t.Fatalf("len(results) = %d, want 0 (unify always succeeds on an unbound var)", len(results))
	}
	if b.Contains("x") {
		t.Errorf("?x = %v leaked out of not() into the outer binding", b.Get("x"))
	}
}

func TestEval_Unify(t *testing.T) {
	e := New(buildTestRegistry(t))
	n := &ast.Unify{LHS: varNode("x"), RHS: litInt(42)}
	results := evalOrFatal(t, e, n, binding.New())
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if got := results[0].Get("x"); !value.Equal(got, value.NewInt(42)) {
		t.Errorf("?x = %v, want 42", got)
	}
}

func TestEval_UnifyBothUnboundSucceedsDeferred(t *testing.T) {
	e := New(buildTestRegistry(t))
	n := &ast.Unify{LHS: varNode("x"), RHS: varNode("y")}
	results := evalOrFatal(t, e, n, binding.New())
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if got := results[0].Get("x"); !got.IsUnbound() {
		t.Errorf("?x = %v, want still unbound", got)
	}
	if got := results[0].Get("y"); !got.IsUnbound() {
		t.Errorf("?y = %v, want still unbound", got)
	}
}

func TestEval_UnifyConflictFails(t *testing.T) {
	e := New(buildTestRegistry(t))
	b := binding.New()
	b.Bind("x", value.NewInt(1))
	n := &ast.Unify{LHS: varNode("x"), RHS: litInt(2)}
	results := evalOrFatal(t, e, n, b)
	if len(results) != 0 {
		t.Fatalf("len(results) = %d, want 0", len(results))
	}
}

func TestEval_CompareGe(t *testing.T) {
	e := New(buildTestRegistry(t))
	n := &ast.Compare{LHS: litInt(18), Op: ast.OpGe, RHS: litInt(18)}
	results := evalOrFatal(t, e, n, binding.New())
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
}

func TestEval_CompareUnboundVarPrunes(t *testing.T) {
	e := New(buildTestRegistry(t))
	n := &ast.Compare{LHS: varNode("unset"), Op: ast.OpGe, RHS: litInt(18)}
	results := evalOrFatal(t, e, n, binding.New())
	if len(results) != 0 {
		t.Fatalf("len(results) = %d, want 0", len(results))
	}
}

func TestEval_MathAssign(t *testing.T) {
	e := New(buildTestRegistry(t))
	n := &ast.MathAssign{Var: varNode("total"), Expr: &ast.Mul{LHS: litInt(3), RHS: litInt(4)}}
	results := evalOrFatal(t, e, n, binding.New())
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if got := results[0].Get("total"); !value.Equal(got, value.NewInt(12)) {
		t.Errorf("?total = %v, want 12", got)
	}
}

func TestEval_MathAssignDivideByZeroPrunes(t *testing.T) {
	e := New(buildTestRegistry(t))
	n := &ast.MathAssign{Var: varNode("q"), Expr: &ast.Div{LHS: litInt(1), RHS: litInt(0)}}
	results := evalOrFatal(t, e, n, binding.New())
	if len(results) != 0 {
		t.Fatalf("len(results) = %d, want 0", len(results))
	}
}

func TestEval_ArithNonNumericIsFatal(t *testing.T) {
	e := New(buildTestRegistry(t))
	n := &ast.MathAssign{Var: varNode("q"), Expr: &ast.Add{
		LHS: &ast.Literal{Value: value.NewString("x")}, RHS: litInt(1),
	}}
	_, err := e.Eval(context.Background(), n, binding.New())
	if err == nil {
		t.Fatal("Eval with a non-numeric arithmetic operand should fail")
	}
	if ee, ok := err.(EvalError); !ok || ee.Kind != "TypeMismatch" {
		t.Errorf("err = %v, want TypeMismatch EvalError", err)
	}
}

func TestEval_InList(t *testing.T) {
	e := New(buildTestRegistry(t))
	n := &ast.In{LHS: litInt(2), RHS: &ast.List{Items: []ast.Node{litInt(1), litInt(2), litInt(3)}}}
	results := evalOrFatal(t, e, n, binding.New())
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
}

func TestEval_InListUnboundVarEnumerates(t *testing.T) {
	e := New(buildTestRegistry(t))
	n := &ast.In{LHS: varNode("x"), RHS: &ast.List{Items: []ast.Node{litInt(1), litInt(2), litInt(3)}}}
	results := evalOrFatal(t, e, n, binding.New())
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
}

func TestEval_InMapSingleKeyPattern(t *testing.T) {
	e := New(buildTestRegistry(t))
	m := &ast.Map{Pairs: []ast.MapPair{{Key: litInt(1), Val: varNode("v")}}}
	n := &ast.In{LHS: m, RHS: &ast.Map{Pairs: []ast.MapPair{
		{Key: litInt(1), Val: litInt(10)},
		{Key: litInt(2), Val: litInt(20)},
	}}}
	results := evalOrFatal(t, e, n, binding.New())
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if got := results[0].Get("v"); !value.Equal(got, value.NewInt(10)) {
		t.Errorf("?v = %v, want 10", got)
	}
}

func TestEval_SubsetListUnboundVarEnumerates(t *testing.T) {
	e := New(buildTestRegistry(t))
	n := &ast.Subset{LHS: varNode("s"), RHS: &ast.List{Items: []ast.Node{litInt(1), litInt(2)}}}
	results := evalOrFatal(t, e, n, binding.New())
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3 (2^2 - 1 non-empty subsets)", len(results))
	}
}

func TestEval_SubsetListConcrete(t *testing.T) {
	e := New(buildTestRegistry(t))
	n := &ast.Subset{
		LHS: &ast.List{Items: []ast.Node{litInt(1), litInt(2)}},
		RHS: &ast.List{Items: []ast.Node{litInt(1), litInt(2), litInt(3)}},
	}
	results := evalOrFatal(t, e, n, binding.New())
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
}

func TestEval_SubsetListConcreteFails(t *testing.T) {
	e := New(buildTestRegistry(t))
	n := &ast.Subset{
		LHS: &ast.List{Items: []ast.Node{litInt(1), litInt(9)}},
		RHS: &ast.List{Items: []ast.Node{litInt(1), litInt(2), litInt(3)}},
	}
	results := evalOrFatal(t, e, n, binding.New())
	if len(results) != 0 {
		t.Fatalf("len(results) = %d, want 0", len(results))
	}
}

func TestEval_AggregateSum(t *testing.T) {
	e := New(buildTestRegistry(t))
	n := &ast.MathAssign{
		Var: varNode("total"),
		Expr: &ast.Aggregate{
			Op:  ast.AggSum,
			Var: varNode("age"),
			Body: []ast.Node{&ast.Predicate{Name: "ageOf", Args: []ast.Node{varNode("who"), varNode("age")}}},
		},
	}
	results := evalOrFatal(t, e, n, binding.New())
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if got := results[0].Get("total"); !value.Equal(got, value.NewInt(47)) {
		t.Errorf("?total = %v, want 47", got)
	}
	if results[0].Contains("who") || results[0].Contains("age") {
		t.Error("aggregate loop variables must not leak into the outer binding")
	}
}

func TestEval_AggregateCount(t *testing.T) {
	e := New(buildTestRegistry(t))
	n := &ast.MathAssign{
		Var: varNode("n"),
		Expr: &ast.Aggregate{
			Op:  ast.AggCount,
			Var: varNode("x"),
			Body: []ast.Node{&ast.Predicate{Name: "friendOf", Args: []ast.Node{&ast.Atom{Name: "alice"}, varNode("x")}}},
		},
	}
	results := evalOrFatal(t, e, n, binding.New())
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if got := results[0].Get("n"); !value.Equal(got, value.NewInt(2)) {
		t.Errorf("?n = %v, want 2", got)
	}
}

func TestEval_AggregateMaxEmptyPrunes(t *testing.T) {
	e := New(buildTestRegistry(t))
	n := &ast.MathAssign{
		Var: varNode("m"),
		Expr: &ast.Aggregate{
			Op:  ast.AggMax,
			Var: varNode("x"),
			Body: []ast.Node{&ast.Predicate{Name: "friendOf", Args: []ast.Node{&ast.Atom{Name: "nobody"}, varNode("x")}}},
		},
	}
	results := evalOrFatal(t, e, n, binding.New())
	if len(results) != 0 {
		t.Fatalf("len(results) = %d, want 0", len(results))
	}
}
