package value

import (
	"sort"
	"strconv"
)

// Equal implements the structural equality used throughout the evaluator:
// binding checks (spec.md §3.3), equal/unify nodes (§4.3), and membership
// tests (§4.8, §4.9). List equality is order-sensitive; map equality is not
// (spec.md §3.1, §4.11).
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		// An int and a float with the same magnitude are still equal under
		// the "mixed int/float allowed" ordering rule (spec.md §4.4); the
		// same leniency applies to equality for consistency with compare.
		if a.IsNumeric() && b.IsNumeric() {
			return a.AsFloat64() == b.AsFloat64()
		}
		return false
	}

	switch a.Kind {
	case Int:
		return a.I == b.I
	case Float:
		return a.F == b.F
	case Bool:
		return a.B == b.B
	case String, Atom:
		return a.S == b.S
	case Unbound:
		return true
	case TypedScalar:
		if a.Tag != b.Tag {
			return false
		}
		switch a.Tag {
		case TagGeoLocation:
			return a.Lat == b.Lat && a.Lon == b.Lon
		case TagCurrency, TagUnit:
			return a.S == b.S && a.Aux == b.Aux
		default:
			return a.S == b.S
		}
	case List:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !Equal(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	case Map:
		if len(a.Map) != len(b.Map) {
			return false
		}
		return mapSubsetOf(a.Map, b.Map) && mapSubsetOf(b.Map, a.Map)
	default:
		return false
	}
}

func mapSubsetOf(entries []MapEntry, of []MapEntry) bool {
	for _, e := range entries {
		if !mapContains(of, e) {
			return false
		}
	}
	return true
}

func mapContains(entries []MapEntry, target MapEntry) bool {
	for _, e := range entries {
		if Equal(e.Key, target.Key) && Equal(e.Val, target.Val) {
			return true
		}
	}
	return false
}

// CanonicalKey returns a deterministic string encoding of v suitable for use
// as a Go map key, so lists can back set-membership and de-duplication
// operations (spec.md §4.8 "duplicates ignored; values must be hashable",
// §4.10 "set" aggregate — "lists inside results are hashed as their tuple
// form").
func CanonicalKey(v Value) string {
	switch v.Kind {
	case Int:
		return "i:" + strconv.FormatInt(v.I, 10)
	case Float:
		return "f:" + strconv.FormatFloat(v.F, 'g', -1, 64)
	case Bool:
		if v.B {
			return "b:1"
		}
		return "b:0"
	case String:
		return "s:" + v.S
	case Atom:
		return "a:" + v.S
	case Unbound:
		return "u:"
	case TypedScalar:
		switch v.Tag {
		case TagGeoLocation:
			return "t:" + string(v.Tag) + ":" + strconv.FormatFloat(v.Lat, 'g', -1, 64) + "," + strconv.FormatFloat(v.Lon, 'g', -1, 64)
		default:
			return "t:" + string(v.Tag) + ":" + v.S + ":" + v.Aux
		}
	case List:
		key := "l:("
		for _, item := range v.List {
			key += CanonicalKey(item) + ";"
		}
		return key + ")"
	case Map:
		keys := make([]string, len(v.Map))
		for i, e := range v.Map {
			keys[i] = CanonicalKey(e.Key) + "=" + CanonicalKey(e.Val)
		}
		sort.Strings(keys)
		key := "m:{"
		for _, k := range keys {
			key += k + ";"
		}
		return key + "}"
	default:
		return "?"
	}
}
