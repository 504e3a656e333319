// Package ast defines the tagged-variant AST produced by parsing the
// KGraphInfer DSL (spec.md §3.2) along with a deterministic unparser and a
// structural rewriter (spec.md §4.1 "Unparser" / "Structural rewriter").
//
// Each node kind is its own struct implementing the closed Node interface,
// mirroring the teacher's result.Result interface (a Kind() discriminator
// plus kind-specific fields, dispatched with a type switch) rather than the
// teacher's pointer-union parser-grammar style, since this tree is the
// semantic AST built *after* parsing, not the concrete parse tree itself.
package ast

import "github.com/vital-ai/kgraphinfer/internal/value"

// Kind discriminates the AST node variants of spec.md §3.2.
type Kind int

const (
	KindAnd Kind = iota
	KindOr
	KindNot
	KindGroup
	KindPredicate
	KindUnify
	KindEqual
	KindCompare
	KindMathAssign
	KindIn
	KindSubset
	KindAggregate
	KindAdd
	KindSub
	KindMul
	KindDiv
	KindList
	KindMap
	KindVar
	KindLiteral
	KindAtom
	KindTypedScalar
)

// Node is the AST node interface. The tag set is the fixed list of Kind
// constants above; Unparse, Rewrite and the evaluator handle only the node
// types declared in this file.
type Node interface {
	Kind() Kind
}

type And struct{ Children []Node }

func (And) Kind() Kind { return KindAnd }

type Or struct{ Children []Node }

func (Or) Kind() Kind { return KindOr }

type Not struct{ Child Node }

func (Not) Kind() Kind { return KindNot }

// Group wraps a parenthesised expression. It is semantically transparent
// (evaluates exactly like Child) and exists only so the unparser can
// reproduce explicit grouping (spec.md §3.2, §4.3).
type Group struct{ Child Node }

func (Group) Kind() Kind { return KindGroup }

type Predicate struct {
	Name string
	Args []Node
}

func (Predicate) Kind() Kind { return KindPredicate }

// Unify is emitted when an equality's left-hand side is a variable
// (spec.md §4.1 "AST disambiguation"). LHS is always a *Var.
type Unify struct {
	LHS *Var
	RHS Node
}

func (Unify) Kind() Kind { return KindUnify }

// Equal is emitted for every other equality shape.
type Equal struct {
	LHS Node
	RHS Node
}

func (Equal) Kind() Kind { return KindEqual }

type CompareOp string

const (
	OpLt CompareOp = "<"
	OpLe CompareOp = "<="
	OpGt CompareOp = ">"
	OpGe CompareOp = ">="
	OpEq CompareOp = "=="
	OpNe CompareOp = "!="
)

type Compare struct {
	LHS Node
	Op  CompareOp
	RHS Node
}

func (Compare) Kind() Kind { return KindCompare }

type MathAssign struct {
	Var  *Var
	Expr Node // value-shaped sub-tree: Add/Sub/Mul/Div, Aggregate, Var, Literal or another value node
}

func (MathAssign) Kind() Kind { return KindMathAssign }

type In struct {
	LHS Node
	RHS Node
}

func (In) Kind() Kind { return KindIn }

type Subset struct {
	LHS Node
	RHS Node
}

func (Subset) Kind() Kind { return KindSubset }

type AggregateOp string

const (
	AggCollection AggregateOp = "collection"
	AggSet        AggregateOp = "set"
	AggCount      AggregateOp = "count"
	AggSum        AggregateOp = "sum"
	AggAverage    AggregateOp = "average"
	AggMin        AggregateOp = "min"
	AggMax        AggregateOp = "max"
)

type Aggregate struct {
	Op   AggregateOp
	Var  *Var
	Body []Node // single expression node; wrapped in a slice for symmetry with And/Or's Children
}

func (Aggregate) Kind() Kind { return KindAggregate }

type Add struct{ LHS, RHS Node }

func (Add) Kind() Kind { return KindAdd }

type Sub struct{ LHS, RHS Node }

func (Sub) Kind() Kind { return KindSub }

type Mul struct{ LHS, RHS Node }

func (Mul) Kind() Kind { return KindMul }

type Div struct{ LHS, RHS Node }

func (Div) Kind() Kind { return KindDiv }

type List struct{ Items []Node }

func (List) Kind() Kind { return KindList }

type MapPair struct {
	Key Node
	Val Node
}

type Map struct{ Pairs []MapPair }

func (Map) Kind() Kind { return KindMap }

// Var is a variable reference, e.g. "?x". It appears only in the AST, never
// as a bound value (spec.md §3.1).
type Var struct{ Name string }

func (Var) Kind() Kind { return KindVar }

// Literal wraps a primitive value that parsed directly to a concrete value:
// a number, string or boolean. The converter never folds list or map
// literals into a Literal; they always stay List/Map nodes.
type Literal struct{ Value value.Value }

func (Literal) Kind() Kind { return KindLiteral }

// Atom is a bare identifier, equal only to itself by name (spec.md §3.1).
type Atom struct{ Name string }

func (Atom) Kind() Kind { return KindAtom }

// TypedScalar carries an already-parsed typed-scalar value (spec.md §3.1).
type TypedScalar struct{ Value value.Value }

func (TypedScalar) Kind() Kind { return KindTypedScalar }
