// Package kgraphinfer is the embeddable facade over the DSL parser,
// evaluator, and predicate registry: parse a query, register predicates,
// execute, get back an answer set (spec.md §6.3). It mirrors the teacher's
// root pgraph.PGraph type — a small struct wiring the parser to its
// execution engine — generalised from a single owned graph to a pluggable
// predicate registry.
package kgraphinfer

import (
	"context"
	"fmt"

	"github.com/vital-ai/kgraphinfer/internal/answer"
	"github.com/vital-ai/kgraphinfer/internal/ast"
	"github.com/vital-ai/kgraphinfer/internal/binding"
	"github.com/vital-ai/kgraphinfer/internal/dsl"
	"github.com/vital-ai/kgraphinfer/internal/eval"
	"github.com/vital-ai/kgraphinfer/internal/predicate"
)

// Engine owns a predicate registry and evaluates DSL query text against it.
type Engine struct {
	registry *predicate.Registry
	parser   dsl.Parser
	eval     *eval.Evaluator
}

// New returns an Engine with an empty predicate registry.
func New() *Engine {
	reg := predicate.NewRegistry()
	return &Engine{
		registry: reg,
		parser:   dsl.NewParser(),
		eval:     eval.New(reg),
	}
}

// Register adds p to the engine's predicate registry under name, rejecting
// duplicate names (spec.md §6.4).
func (e *Engine) Register(name string, p predicate.Predicate) error {
	return e.registry.Register(name, p)
}

// MustRegister is like Register but panics on failure, for wiring a fixed
// set of predicates at start-up the way the teacher's CreateParser wires a
// fixed graph at construction time.
func (e *Engine) MustRegister(name string, p predicate.Predicate) {
	if err := e.Register(name, p); err != nil {
		panic(fmt.Sprintf("kgraphinfer: MustRegister(%q): %v", name, err))
	}
}

// Parse parses queryText into its AST without evaluating it.
func (e *Engine) Parse(queryText string) (ast.Node, error) {
	return e.parser.Parse(queryText)
}

// Unparse renders n back to DSL text.
func (e *Engine) Unparse(n ast.Node) (string, error) {
	return e.parser.Unparse(n)
}

// Execute parses queryText, evaluates it from an empty binding, and
// collects the result into an AnswerSet (spec.md §4.3 "top-level wrapper").
func (e *Engine) Execute(ctx context.Context, queryText string) (*answer.AnswerSet, error) {
	n, err := e.Parse(queryText)
	if err != nil {
		return nil, err
	}
	branches, err := e.eval.Eval(ctx, n, binding.New())
	if err != nil {
		return nil, err
	}
	return answer.FromBranches(branches), nil
}
