package dsl

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vital-ai/kgraphinfer/internal/ast"
	"github.com/vital-ai/kgraphinfer/internal/value"
)

var (
	currencyPattern = regexp.MustCompile(`^'([^']*)'\^Currency\(([A-Z]{3})\)$`)
	unitPattern     = regexp.MustCompile(`^'([^']*)'\^Unit\('([^']*)'\)$`)
	scalarPattern   = regexp.MustCompile(`^'([^']*)'\^\w+$`)
)

func convertGrammar(g *Grammar) (ast.Node, error) {
	if g.Expr == nil {
		return nil, SyntaxError{Kind: "InvalidSyntax", Message: "empty input"}
	}
	return convertExpr(g.Expr)
}

func convertExpr(e *ExprAST) (ast.Node, error) {
	first, err := convertAnd(e.Left)
	if err != nil {
		return nil, err
	}
	if len(e.Rest) == 0 {
		return first, nil
	}
	children := make([]ast.Node, 0, len(e.Rest)+1)
	children = append(children, first)
	for _, r := range e.Rest {
		n, err := convertAnd(r)
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}
	return &ast.Or{Children: children}, nil
}

func convertAnd(a *AndAST) (ast.Node, error) {
	first, err := convertClause(a.Left)
	if err != nil {
		return nil, err
	}
	if len(a.Rest) == 0 {
		return first, nil
	}
	children := make([]ast.Node, 0, len(a.Rest)+1)
	children = append(children, first)
	for _, r := range a.Rest {
		n, err := convertClause(r)
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}
	return &ast.And{Children: children}, nil
}

func convertClause(c *ClauseAST) (ast.Node, error) {
	switch {
	case c.Not != nil:
		child, err := convertExpr(c.Not.Child)
		if err != nil {
			return nil, err
		}
		return &ast.Not{Child: child}, nil
	case c.Binary != nil:
		return convertBinary(c.Binary)
	case c.Group != nil:
		child, err := convertExpr(c.Group.Child)
		if err != nil {
			return nil, err
		}
		return &ast.Group{Child: child}, nil
	default:
		return nil, SyntaxError{Kind: "InvalidSyntax", Message: "empty clause"}
	}
}

func convertAggregate(a *AggregateAST) (ast.Node, error) {
	body, err := convertExpr(a.Body)
	if err != nil {
		return nil, err
	}
	return &ast.Aggregate{
		Op:   ast.AggregateOp(a.Op),
		Var:  &ast.Var{Name: strings.TrimPrefix(a.Var, "?")},
		Body: []ast.Node{body},
	}, nil
}

func convertBinary(b *BinaryAST) (ast.Node, error) {
	left, isPredicate, err := convertOperand(b.Left)
	if err != nil {
		return nil, err
	}

	if b.Op == nil {
		if !isPredicate {
			return nil, SyntaxError{Kind: "InvalidClause", Message: "a bare value is not a valid clause; did you forget an operator?"}
		}
		return left, nil
	}

	if isPredicate {
		return nil, SyntaxError{Kind: "InvalidOperand", Message: "a predicate call cannot be used as the left-hand side of an operator"}
	}

	right, err := convertArith(b.Op.Right)
	if err != nil {
		return nil, err
	}

	switch b.Op.Op {
	case "=":
		if v, ok := left.(*ast.Var); ok {
			return &ast.Unify{LHS: v, RHS: right}, nil
		}
		return &ast.Equal{LHS: left, RHS: right}, nil
	case "is":
		v, ok := left.(*ast.Var)
		if !ok {
			return nil, SyntaxError{Kind: "InvalidMathAssign", Message: "the left-hand side of \"is\" must be a variable"}
		}
		return &ast.MathAssign{Var: v, Expr: right}, nil
	case "in":
		return &ast.In{LHS: left, RHS: right}, nil
	case "subset":
		return &ast.Subset{LHS: left, RHS: right}, nil
	default:
		return &ast.Compare{LHS: left, Op: ast.CompareOp(b.Op.Op), RHS: right}, nil
	}
}

// convertOperand returns the converted node and whether it was a predicate
// call (the one operand shape that is allowed to stand alone as a clause,
// and the one shape that is never allowed on either side of an operator).
func convertOperand(o *OperandAST) (ast.Node, bool, error) {
	if o.Predicate != nil {
		p, err := convertPredicate(o.Predicate)
		return p, true, err
	}
	n, err := convertArith(o.Arith)
	return n, false, err
}

func convertPredicate(p *PredicateAST) (*ast.Predicate, error) {
	args := make([]ast.Node, len(p.Args))
	for i, a := range p.Args {
		n, err := convertArg(a)
		if err != nil {
			return nil, err
		}
		args[i] = n
	}
	return &ast.Predicate{Name: p.Name, Args: args}, nil
}

func convertArg(a *ArgAST) (ast.Node, error) {
	if a.Predicate != nil {
		return nil, SyntaxError{
			Kind:    "NestedPredicateArgument",
			Message: fmt.Sprintf("predicate call %q cannot appear as an argument to another predicate", a.Predicate.Name),
		}
	}
	return convertArith(a.Arith)
}

func convertArith(a *ArithAST) (ast.Node, error) {
	left, err := convertTerm(a.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range a.Rest {
		right, err := convertTerm(r.Right)
		if err != nil {
			return nil, err
		}
		switch r.Op {
		case "+":
			left = &ast.Add{LHS: left, RHS: right}
		case "-":
			left = &ast.Sub{LHS: left, RHS: right}
		}
	}
	return left, nil
}

func convertTerm(t *TermAST) (ast.Node, error) {
	left, err := convertFactor(t.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range t.Rest {
		right, err := convertFactor(r.Right)
		if err != nil {
			return nil, err
		}
		switch r.Op {
		case "*":
			left = &ast.Mul{LHS: left, RHS: right}
		case "/":
			left = &ast.Div{LHS: left, RHS: right}
		}
	}
	return left, nil
}

func convertFactor(f *FactorAST) (ast.Node, error) {
	if f.Paren != nil {
		return convertArith(f.Paren)
	}
	if f.Aggregate != nil {
		return convertAggregate(f.Aggregate)
	}
	return convertValue(f.Value)
}

func convertValue(v *ValueAST) (ast.Node, error) {
	switch {
	case v.Var != nil:
		return &ast.Var{Name: strings.TrimPrefix(*v.Var, "?")}, nil
	case v.Float != nil:
		return &ast.Literal{Value: value.NewFloat(*v.Float)}, nil
	case v.Int != nil:
		return &ast.Literal{Value: value.NewInt(*v.Int)}, nil
	case v.True:
		return &ast.Literal{Value: value.NewBool(true)}, nil
	case v.False:
		return &ast.Literal{Value: value.NewBool(false)}, nil
	case v.TripleStr != nil:
		return &ast.Literal{Value: value.NewString(unescapeTripleString(*v.TripleStr))}, nil
	case v.Str != nil:
		return &ast.Literal{Value: value.NewString(unescapeString(*v.Str))}, nil
	case v.Currency != nil:
		m := currencyPattern.FindStringSubmatch(*v.Currency)
		if m == nil {
			return nil, SyntaxError{Kind: "InvalidLiteral", Message: fmt.Sprintf("malformed currency literal %q", *v.Currency)}
		}
		val, err := value.NewCurrency(m[1], m[2])
		if err != nil {
			return nil, SyntaxError{Kind: "InvalidLiteral", Message: err.Error()}
		}
		return &ast.TypedScalar{Value: val}, nil
	case v.Unit != nil:
		m := unitPattern.FindStringSubmatch(*v.Unit)
		if m == nil {
			return nil, SyntaxError{Kind: "InvalidLiteral", Message: fmt.Sprintf("malformed unit literal %q", *v.Unit)}
		}
		return &ast.TypedScalar{Value: value.NewUnit(m[1], m[2])}, nil
	case v.GeoLocation != nil:
		lexical, err := typedScalarLexical(*v.GeoLocation)
		if err != nil {
			return nil, err
		}
		val, err := value.NewGeoLocation(lexical)
		if err != nil {
			return nil, SyntaxError{Kind: "InvalidLiteral", Message: err.Error()}
		}
		return &ast.TypedScalar{Value: val}, nil
	case v.DateTime != nil:
		lexical, err := typedScalarLexical(*v.DateTime)
		if err != nil {
			return nil, err
		}
		return &ast.TypedScalar{Value: value.NewDateTime(lexical)}, nil
	case v.Date != nil:
		lexical, err := typedScalarLexical(*v.Date)
		if err != nil {
			return nil, err
		}
		return &ast.TypedScalar{Value: value.NewDate(lexical)}, nil
	case v.Time != nil:
		lexical, err := typedScalarLexical(*v.Time)
		if err != nil {
			return nil, err
		}
		return &ast.TypedScalar{Value: value.NewTime(lexical)}, nil
	case v.Duration != nil:
		lexical, err := typedScalarLexical(*v.Duration)
		if err != nil {
			return nil, err
		}
		return &ast.TypedScalar{Value: value.NewDuration(lexical)}, nil
	case v.URI != nil:
		lexical, err := typedScalarLexical(*v.URI)
		if err != nil {
			return nil, err
		}
		return &ast.TypedScalar{Value: value.NewURI(lexical)}, nil
	case v.List != nil:
		items := make([]ast.Node, len(v.List.Items))
		for i, it := range v.List.Items {
			n, err := convertArith(it)
			if err != nil {
				return nil, err
			}
			items[i] = n
		}
		return &ast.List{Items: items}, nil
	case v.Map != nil:
		pairs := make([]ast.MapPair, len(v.Map.Pairs))
		for i, p := range v.Map.Pairs {
			k, err := convertArith(p.Key)
			if err != nil {
				return nil, err
			}
			val, err := convertArith(p.Val)
			if err != nil {
				return nil, err
			}
			pairs[i] = ast.MapPair{Key: k, Val: val}
		}
		return &ast.Map{Pairs: pairs}, nil
	case v.Atom != nil:
		return &ast.Atom{Name: *v.Atom}, nil
	default:
		return nil, SyntaxError{Kind: "InvalidSyntax", Message: "empty value"}
	}
}

func typedScalarLexical(raw string) (string, error) {
	m := scalarPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", SyntaxError{Kind: "InvalidLiteral", Message: fmt.Sprintf("malformed typed-scalar literal %q", raw)}
	}
	return m[1], nil
}

func unescapeString(raw string) string {
	inner := strings.TrimSuffix(strings.TrimPrefix(raw, `"`), `"`)
	return decodeEscapes(inner)
}

func unescapeTripleString(raw string) string {
	inner := strings.TrimSuffix(strings.TrimPrefix(raw, `"""`), `"""`)
	return decodeEscapes(inner)
}

func decodeEscapes(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteByte(s[i+1])
			}
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
