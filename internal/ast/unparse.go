package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vital-ai/kgraphinfer/internal/value"
)

// Unparse renders n back into valid KGraphInfer DSL text (spec.md §4.1
// "Unparser"). The output need not match the original source byte-for-byte
// but must parse back to a structurally equal AST.
func Unparse(n Node) (string, error) {
	var b strings.Builder
	if err := unparse(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}

func unparse(b *strings.Builder, n Node) error {
	switch v := n.(type) {
	case *And:
		return joinChildren(b, v.Children, ", ")
	case *Or:
		return joinChildren(b, v.Children, "; ")
	case *Not:
		b.WriteString("not(")
		if err := unparse(b, v.Child); err != nil {
			return err
		}
		b.WriteString(")")
		return nil
	case *Group:
		b.WriteString("(")
		if err := unparse(b, v.Child); err != nil {
			return err
		}
		b.WriteString(")")
		return nil
	case *Predicate:
		b.WriteString(v.Name)
		b.WriteString("(")
		for i, a := range v.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := unparse(b, a); err != nil {
				return err
			}
		}
		b.WriteString(")")
		return nil
	case *Unify:
		if err := unparse(b, v.LHS); err != nil {
			return err
		}
		b.WriteString(" = ")
		return unparse(b, v.RHS)
	case *Equal:
		if err := unparse(b, v.LHS); err != nil {
			return err
		}
		b.WriteString(" = ")
		return unparse(b, v.RHS)
	case *Compare:
		if err := unparse(b, v.LHS); err != nil {
			return err
		}
		fmt.Fprintf(b, " %s ", string(v.Op))
		return unparse(b, v.RHS)
	case *MathAssign:
		if err := unparse(b, v.Var); err != nil {
			return err
		}
		b.WriteString(" is ")
		return unparse(b, v.Expr)
	case *In:
		if err := unparse(b, v.LHS); err != nil {
			return err
		}
		b.WriteString(" in ")
		return unparse(b, v.RHS)
	case *Subset:
		if err := unparse(b, v.LHS); err != nil {
			return err
		}
		b.WriteString(" subset ")
		return unparse(b, v.RHS)
	case *Aggregate:
		fmt.Fprintf(b, "%s{ ", string(v.Op))
		if err := unparse(b, v.Var); err != nil {
			return err
		}
		b.WriteString(" | ")
		if err := joinChildren(b, v.Body, ", "); err != nil {
			return err
		}
		b.WriteString(" }")
		return nil
	case *Add:
		return binaryArith(b, v.LHS, "+", v.RHS)
	case *Sub:
		return binaryArith(b, v.LHS, "-", v.RHS)
	case *Mul:
		return binaryArith(b, v.LHS, "*", v.RHS)
	case *Div:
		return binaryArith(b, v.LHS, "/", v.RHS)
	case *List:
		b.WriteString("[")
		for i, item := range v.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := unparse(b, item); err != nil {
				return err
			}
		}
		b.WriteString("]")
		return nil
	case *Map:
		b.WriteString("{")
		for i, p := range v.Pairs {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := unparse(b, p.Key); err != nil {
				return err
			}
			b.WriteString(": ")
			if err := unparse(b, p.Val); err != nil {
				return err
			}
		}
		b.WriteString("}")
		return nil
	case *Var:
		b.WriteString("?")
		b.WriteString(v.Name)
		return nil
	case *Literal:
		if v.Value.Kind == value.String {
			b.WriteString(quoteString(v.Value.String()))
			return nil
		}
		if v.Value.Kind == value.Float {
			// Always print a decimal point so the literal lexes back as a Float.
			s := strconv.FormatFloat(v.Value.F, 'f', -1, 64)
			if !strings.Contains(s, ".") {
				s += ".0"
			}
			b.WriteString(s)
			return nil
		}
		b.WriteString(v.Value.String())
		return nil
	case *Atom:
		b.WriteString(v.Name)
		return nil
	case *TypedScalar:
		b.WriteString(v.Value.String())
		return nil
	default:
		return fmt.Errorf("ast: unparse: unhandled node type %T", n)
	}
}

// quoteString renders s back into a double-quoted DSL string literal,
// escaping the characters internal/dsl's unescapeString decodes (backslash,
// double quote, newline, tab) so a String-kind Literal survives an
// unparse-then-reparse round trip as a String rather than lexing back as a
// bare Ident/Atom.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func joinChildren(b *strings.Builder, children []Node, sep string) error {
	for i, c := range children {
		if i > 0 {
			b.WriteString(sep)
		}
		if err := unparse(b, c); err != nil {
			return err
		}
	}
	return nil
}

func binaryArith(b *strings.Builder, lhs Node, op string, rhs Node) error {
	if err := arithOperand(b, lhs); err != nil {
		return err
	}
	fmt.Fprintf(b, " %s ", op)
	return arithOperand(b, rhs)
}

// arithOperand renders one operand of an arithmetic node, parenthesising a
// nested arithmetic node so its grouping survives a reparse.
func arithOperand(b *strings.Builder, n Node) error {
	switch n.(type) {
	case *Add, *Sub, *Mul, *Div:
		b.WriteString("(")
		if err := unparse(b, n); err != nil {
			return err
		}
		b.WriteString(")")
		return nil
	}
	return unparse(b, n)
}
