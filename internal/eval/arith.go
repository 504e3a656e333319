package eval

import "github.com/vital-ai/kgraphinfer/internal/value"

// evalArith applies a numeric operator to two already-reduced values. A
// non-numeric operand is a fatal TypeMismatch (spec.md §7); division by
// zero is a silent branch-prune, matching value.Arith's own ok=false
// contract once operand types have already been checked here.
func evalArith(a, b value.Value, op string) (value.Value, bool, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return value.Value{}, false, typeMismatch("arithmetic requires numeric operands, got %s and %s", a.Kind, b.Kind)
	}
	res, ok := value.Arith(a, b, op)
	if !ok {
		return value.Value{}, false, nil
	}
	return res, true, nil
}
