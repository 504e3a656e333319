package dsl

import "fmt"

// SyntaxError reports a query that could not be parsed (spec.md §7
// "ParseError"). It is returned to the caller; there is no answer set.
type SyntaxError struct {
	Kind    string
	Message string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("syntax error (%v): %v", e.Kind, e.Message)
}

// enrichSyntaxError wraps a raw participle parse failure with the offending
// query text, so callers get a consistent SyntaxError regardless of what
// the underlying grammar rule rejected the input on.
func enrichSyntaxError(input string, cause error) error {
	return SyntaxError{
		Kind:    "InvalidSyntax",
		Message: fmt.Sprintf("could not parse %q: %v", input, cause),
	}
}
