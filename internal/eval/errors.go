// Package eval implements the recursive evaluator eval(node, binding) ->
// []binding described in spec.md §4.3, dispatching on the closed ast.Node
// tag set and driving predicate calls through the internal/predicate
// registry.
package eval

import "fmt"

// EvalError reports one of the fatal evaluation failures of spec.md §7:
// UnknownPredicate, TypeMismatch, or ParseValue. Any other outcome that
// spec.md calls "silent" (UnboundInBranch, DivideByZero) is modelled as an
// empty result slice with a nil error, never as an EvalError — treating
// expected control flow as a Go error would be the wrong idiom here.
type EvalError struct {
	Kind    string
	Message string
}

func (e EvalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func unknownPredicate(name string) error {
	return EvalError{Kind: "UnknownPredicate", Message: fmt.Sprintf("no predicate registered with name %q", name)}
}

func typeMismatch(format string, args ...any) error {
	return EvalError{Kind: "TypeMismatch", Message: fmt.Sprintf(format, args...)}
}
