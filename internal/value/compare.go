package value

import (
	"fmt"
	"time"

	"github.com/relvacode/iso8601"
	"github.com/shopspring/decimal"
)

// Op is a comparison operator, shared between the "compare" AST node and the
// typed-scalar comparison machinery below (spec.md §3.2, §4.4).
type Op string

const (
	Lt Op = "<"
	Le Op = "<="
	Gt Op = ">"
	Ge Op = ">="
	Eq Op = "=="
	Ne Op = "!="
)

// CompareError surfaces any ill-typed or unresolvable comparison, which
// aborts the whole query per spec.md §7 (TypeMismatch / ParseValue).
type CompareError struct {
	Kind    string
	Message string
}

func (e CompareError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func typeMismatch(format string, args ...any) error {
	return CompareError{Kind: "TypeMismatch", Message: fmt.Sprintf(format, args...)}
}

func parseValueError(format string, args ...any) error {
	return CompareError{Kind: "ParseValue", Message: fmt.Sprintf(format, args...)}
}

// Compare evaluates "a op b" per spec.md §4.4. It returns (result, error);
// an error aborts the query (fatal), while a false result simply prunes the
// branch the comparison appears in.
func Compare(a, b Value, op Op) (bool, error) {
	if a.Kind == TypedScalar || b.Kind == TypedScalar {
		if a.Kind != TypedScalar || b.Kind != TypedScalar {
			return false, typeMismatch("cannot compare %s with %s", a.Kind, b.Kind)
		}
		return compareTypedScalar(a, b, op)
	}

	if a.Kind == Bool || b.Kind == Bool {
		if a.Kind != Bool || b.Kind != Bool {
			return false, typeMismatch("cannot compare %s with %s", a.Kind, b.Kind)
		}
		if op != Eq && op != Ne {
			return false, typeMismatch("only == and != are defined for booleans")
		}
		return applyBoolOrdering(a.B, b.B, op), nil
	}

	if a.Kind == List || b.Kind == List {
		if a.Kind != List || b.Kind != List {
			return false, typeMismatch("cannot compare %s with %s", a.Kind, b.Kind)
		}
		if op != Eq && op != Ne {
			return false, typeMismatch("only == and != are defined for lists")
		}
		eq := Equal(a, b)
		return applyEqualityOrdering(eq, op), nil
	}

	if a.Kind == Map || b.Kind == Map {
		if a.Kind != Map || b.Kind != Map {
			return false, typeMismatch("cannot compare %s with %s", a.Kind, b.Kind)
		}
		if op != Eq && op != Ne {
			return false, typeMismatch("only == and != are defined for maps")
		}
		eq := Equal(a, b)
		return applyEqualityOrdering(eq, op), nil
	}

	if a.IsNumeric() && b.IsNumeric() {
		return applyFloatOrdering(a.AsFloat64(), b.AsFloat64(), op), nil
	}

	if a.Kind == String && b.Kind == String {
		return applyStringOrdering(a.S, b.S, op), nil
	}

	if a.Kind == Atom && b.Kind == Atom {
		if op != Eq && op != Ne {
			return false, typeMismatch("only == and != are defined for atoms")
		}
		return applyEqualityOrdering(a.S == b.S, op), nil
	}

	return false, typeMismatch("cannot compare %s with %s", a.Kind, b.Kind)
}

func compareTypedScalar(a, b Value, op Op) (bool, error) {
	if a.Tag != b.Tag {
		return false, typeMismatch("cannot compare different typed-scalar tags: %s vs %s", a.Tag, b.Tag)
	}

	switch a.Tag {
	case TagDate:
		at, err := time.Parse("2006-01-02", a.S)
		if err != nil {
			return false, parseValueError("invalid date literal %q: %v", a.S, err)
		}
		bt, err := time.Parse("2006-01-02", b.S)
		if err != nil {
			return false, parseValueError("invalid date literal %q: %v", b.S, err)
		}
		return applyTimeOrdering(at, bt, op), nil

	case TagDateTime:
		at, err := iso8601.ParseString(a.S)
		if err != nil {
			return false, parseValueError("invalid dateTime literal %q: %v", a.S, err)
		}
		bt, err := iso8601.ParseString(b.S)
		if err != nil {
			return false, parseValueError("invalid dateTime literal %q: %v", b.S, err)
		}
		return applyTimeOrdering(at, bt, op), nil

	case TagTime:
		at, err := parseTimeOfDay(a.S)
		if err != nil {
			return false, parseValueError("invalid time literal %q: %v", a.S, err)
		}
		bt, err := parseTimeOfDay(b.S)
		if err != nil {
			return false, parseValueError("invalid time literal %q: %v", b.S, err)
		}
		return applyTimeOrdering(at, bt, op), nil

	case TagDuration:
		ad, err := parseISODuration(a.S)
		if err != nil {
			return false, parseValueError("%v", err)
		}
		bd, err := parseISODuration(b.S)
		if err != nil {
			return false, parseValueError("%v", err)
		}
		if ad.HasCalendarComponent() || bd.HasCalendarComponent() {
			return false, typeMismatch("cannot compare durations with years or months reliably")
		}
		return applyFloatOrdering(ad.TotalSeconds(), bd.TotalSeconds(), op), nil

	case TagURI:
		if op != Eq && op != Ne {
			return false, typeMismatch("only == and != are defined for URI values")
		}
		return applyEqualityOrdering(a.S == b.S, op), nil

	case TagGeoLocation:
		if op != Eq && op != Ne {
			return false, typeMismatch("only == and != are defined for geolocation values")
		}
		eq := a.Lat == b.Lat && a.Lon == b.Lon
		return applyEqualityOrdering(eq, op), nil

	case TagCurrency:
		if a.Aux != b.Aux {
			return false, typeMismatch("cannot compare currencies of different codes: %s vs %s", a.Aux, b.Aux)
		}
		aAmt, err := decimal.NewFromString(a.S)
		if err != nil {
			return false, parseValueError("invalid currency amount %q: %v", a.S, err)
		}
		bAmt, err := decimal.NewFromString(b.S)
		if err != nil {
			return false, parseValueError("invalid currency amount %q: %v", b.S, err)
		}
		return applyIntOrdering(aAmt.Cmp(bAmt), op), nil

	case TagUnit:
		if a.Aux != b.Aux {
			return false, typeMismatch("cannot compare unit values with different unit URIs: %s vs %s", a.Aux, b.Aux)
		}
		aAmt, aErr := decimal.NewFromString(a.S)
		bAmt, bErr := decimal.NewFromString(b.S)
		if aErr == nil && bErr == nil {
			return applyIntOrdering(aAmt.Cmp(bAmt), op), nil
		}
		return applyStringOrdering(a.S, b.S, op), nil

	default:
		return false, typeMismatch("unknown typed scalar tag: %s", a.Tag)
	}
}

func parseTimeOfDay(lexical string) (time.Time, error) {
	if t, err := time.Parse("15:04:05", lexical); err == nil {
		return t, nil
	}
	return time.Parse("15:04", lexical)
}

func applyTimeOrdering(a, b time.Time, op Op) bool {
	switch op {
	case Lt:
		return a.Before(b)
	case Le:
		return a.Before(b) || a.Equal(b)
	case Gt:
		return a.After(b)
	case Ge:
		return a.After(b) || a.Equal(b)
	case Eq:
		return a.Equal(b)
	case Ne:
		return !a.Equal(b)
	default:
		return false
	}
}

func applyFloatOrdering(a, b float64, op Op) bool {
	switch op {
	case Lt:
		return a < b
	case Le:
		return a <= b
	case Gt:
		return a > b
	case Ge:
		return a >= b
	case Eq:
		return a == b
	case Ne:
		return a != b
	default:
		return false
	}
}

func applyIntOrdering(cmp int, op Op) bool {
	switch op {
	case Lt:
		return cmp < 0
	case Le:
		return cmp <= 0
	case Gt:
		return cmp > 0
	case Ge:
		return cmp >= 0
	case Eq:
		return cmp == 0
	case Ne:
		return cmp != 0
	default:
		return false
	}
}

func applyStringOrdering(a, b string, op Op) bool {
	switch op {
	case Lt:
		return a < b
	case Le:
		return a <= b
	case Gt:
		return a > b
	case Ge:
		return a >= b
	case Eq:
		return a == b
	case Ne:
		return a != b
	default:
		return false
	}
}

func applyBoolOrdering(a, b bool, op Op) bool {
	switch op {
	case Eq:
		return a == b
	case Ne:
		return a != b
	default:
		return false
	}
}

func applyEqualityOrdering(eq bool, op Op) bool {
	if op == Ne {
		return !eq
	}
	return eq
}
