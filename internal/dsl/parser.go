package dsl

import (
	kgast "github.com/vital-ai/kgraphinfer/internal/ast"
)

// Parser parses KGraphInfer query text into the engine's AST (spec.md
// §3.2). It carries no state of its own — unlike the teacher's Parser,
// which held a session graph to mutate, query evaluation here never
// mutates anything the parser owns.
type Parser struct{}

// NewParser returns a ready-to-use Parser.
func NewParser() Parser {
	return Parser{}
}

// Parse parses a single query into its AST, or returns a SyntaxError.
func (p Parser) Parse(input string) (kgast.Node, error) {
	g, err := dslParser.ParseString("", input)
	if err != nil {
		return nil, enrichSyntaxError(input, err)
	}
	return convertGrammar(g)
}

// Unparse renders n back into query text.
func (p Parser) Unparse(n kgast.Node) (string, error) {
	return kgast.Unparse(n)
}
