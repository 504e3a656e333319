package dsl

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// dslLexer tokenises KGraphInfer query text (spec.md §3.2). Typed-scalar
// literals are recognised whole by the lexer (quoted lexical form plus its
// trailing "^Tag" marker) so the grammar layer never has to stitch one back
// together from smaller tokens.
var dslLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?i)\b(not|is|in|subset|true|false|collection|set|count|sum|average|min|max)\b`},
	{Name: "Currency", Pattern: `'[^']*'\^Currency\([A-Z]{3}\)`},
	{Name: "Unit", Pattern: `'[^']*'\^Unit\('[^']*'\)`},
	{Name: "GeoLocation", Pattern: `'[^']*'\^GeoLocation`},
	{Name: "DateTime", Pattern: `'[^']*'\^DateTime`},
	{Name: "Date", Pattern: `'[^']*'\^Date`},
	{Name: "Time", Pattern: `'[^']*'\^Time`},
	{Name: "Duration", Pattern: `'[^']*'\^Duration`},
	{Name: "URI", Pattern: `'[^']*'\^URI`},
	{Name: "Float", Pattern: `-?\d+\.\d+`},
	{Name: "Int", Pattern: `-?\d+`},
	{Name: "TripleString", Pattern: `"""(?:[^"\\]|\\.|"(?:[^"\\]|\\.)|""(?:[^"\\]|\\.))*"""`},
	{Name: "String", Pattern: `"([^"\\]|\\.)*"`},
	{Name: "Var", Pattern: `\?[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "CompareOp", Pattern: `<=|>=|==|!=|<|>`},
	{Name: "LineComment", Pattern: `//[^\n]*`},
	{Name: "BlockComment", Pattern: `/\*([^*]|\*[^/])*\*/`},
	{Name: "Punct", Pattern: `[(),.:;=\[\]{}|+\-*/]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// Grammar is the top-level production: a single expression, optionally
// closed with a trailing "." terminator (spec.md §3.2).
type Grammar struct {
	Expr *ExprAST `parser:"@@ \".\"?"`
}

// ExprAST is an OR of ANDs: ";" binds looser than ",".
type ExprAST struct {
	Left *AndAST   `parser:"@@"`
	Rest []*AndAST `parser:"( \";\" @@ )*"`
}

// AndAST is a comma-separated conjunction of clauses.
type AndAST struct {
	Left *ClauseAST   `parser:"@@"`
	Rest []*ClauseAST `parser:"( \",\" @@ )*"`
}

// ClauseAST dispatches between the handful of clause shapes a conjunct can
// take (spec.md §3.2, §4.1).
type ClauseAST struct {
	Not    *NotAST    `parser:"  @@"`
	Binary *BinaryAST `parser:"| @@"`
	Group  *GroupAST  `parser:"| @@"`
}

// NotAST: "not" "(" expr ")"
type NotAST struct {
	Child *ExprAST `parser:"\"not\" \"(\" @@ \")\""`
}

// GroupAST: "(" expr ")" — tried only once Binary has failed to consume the
// parenthesised content as a single operand, so this only ever fires for
// parenthesised compound expressions (conjunctions/disjunctions), never bare
// arithmetic (that's handled inside ArithAST/FactorAST instead).
type GroupAST struct {
	Child *ExprAST `parser:"\"(\" @@ \")\""`
}

// AggregateAST: <op> "{" var "|" expr "}"  (spec.md §4.10).
type AggregateAST struct {
	Op   string   `parser:"@( \"collection\" | \"set\" | \"count\" | \"sum\" | \"average\" | \"min\" | \"max\" ) \"{\""`
	Var  string   `parser:"@Var \"|\""`
	Body *ExprAST `parser:"@@ \"}\""`
}

// BinaryAST: an operand, optionally followed by an operator and a second
// operand. With no trailing operator, a predicate-call operand is itself a
// complete clause; any other bare operand is not (caught in convert.go).
type BinaryAST struct {
	Left *OperandAST `parser:"@@"`
	Op   *OpRHSAST   `parser:"@@?"`
}

// OpRHSAST captures one of unify/equal ("="), math_assign ("is"),
// membership ("in"/"subset"), or comparison (spec.md §3.2).
type OpRHSAST struct {
	Op    string    `parser:"@( \"=\" | \"is\" | \"in\" | \"subset\" | CompareOp )"`
	Right *ArithAST `parser:"@@"`
}

// OperandAST is either a predicate call or an arithmetic expression.
type OperandAST struct {
	Predicate *PredicateAST `parser:"  @@"`
	Arith     *ArithAST     `parser:"| @@"`
}

// PredicateAST: name "(" arg ( "," arg )* ")"
type PredicateAST struct {
	Name string    `parser:"@Ident \"(\""`
	Args []*ArgAST `parser:"( @@ ( \",\" @@ )* )? \")\""`
}

// ArgAST mirrors OperandAST: arguments may themselves look like a nested
// predicate call syntactically, but that shape is rejected in convert.go
// (spec.md §4.1 "nested predicate calls as arguments are rejected").
type ArgAST struct {
	Predicate *PredicateAST `parser:"  @@"`
	Arith     *ArithAST     `parser:"| @@"`
}

// ArithAST: additive level. "+" and "-" are left-associative.
type ArithAST struct {
	Left *TermAST      `parser:"@@"`
	Rest []*ArithOpRHS `parser:"@@*"`
}

type ArithOpRHS struct {
	Op    string   `parser:"@( \"+\" | \"-\" )"`
	Right *TermAST `parser:"@@"`
}

// TermAST: multiplicative level. "*" and "/" are left-associative.
type TermAST struct {
	Left *FactorAST   `parser:"@@"`
	Rest []*TermOpRHS `parser:"@@*"`
}

type TermOpRHS struct {
	Op    string     `parser:"@( \"*\" | \"/\" )"`
	Right *FactorAST `parser:"@@"`
}

// FactorAST: a parenthesised arithmetic expression, an aggregate
// sub-query, or a bare value. Aggregates live at this level (rather than
// as a clause of their own) because they are value-producing — they are
// always consumed by an enclosing "=", "is", comparison, or arithmetic
// expression (spec.md §4.10), e.g. "?total is sum{ ?amt | ... }".
type FactorAST struct {
	Paren     *ArithAST     `parser:"  \"(\" @@ \")\""`
	Aggregate *AggregateAST `parser:"| @@"`
	Value     *ValueAST     `parser:"| @@"`
}

// ValueAST is the set of value literal shapes (spec.md §3.1).
type ValueAST struct {
	Var         *string  `parser:"  @Var"`
	Float       *float64 `parser:"| @Float"`
	Int         *int64   `parser:"| @Int"`
	True        bool     `parser:"| @\"true\""`
	False       bool     `parser:"| @\"false\""`
	TripleStr   *string  `parser:"| @TripleString"`
	Str         *string  `parser:"| @String"`
	Currency    *string  `parser:"| @Currency"`
	Unit        *string  `parser:"| @Unit"`
	GeoLocation *string  `parser:"| @GeoLocation"`
	DateTime    *string  `parser:"| @DateTime"`
	Date        *string  `parser:"| @Date"`
	Time        *string  `parser:"| @Time"`
	Duration    *string  `parser:"| @Duration"`
	URI         *string  `parser:"| @URI"`
	List        *ListAST `parser:"| @@"`
	Map         *MapAST  `parser:"| @@"`
	Atom        *string  `parser:"| @Ident"`
}

// ListAST: "[" arith ( "," arith )* "]"
type ListAST struct {
	Items []*ArithAST `parser:"\"[\" ( @@ ( \",\" @@ )* )? \"]\""`
}

// MapAST: "{" key ":" value ( "," key ":" value )* "}"
type MapAST struct {
	Pairs []*MapPairAST `parser:"\"{\" ( @@ ( \",\" @@ )* )? \"}\""`
}

type MapPairAST struct {
	Key *ArithAST `parser:"@@ \":\""`
	Val *ArithAST `parser:"@@"`
}

var dslParser = participle.MustBuild[Grammar](
	participle.Lexer(dslLexer),
	participle.Elide("Whitespace", "LineComment", "BlockComment"),
	participle.UseLookahead(2),
)
