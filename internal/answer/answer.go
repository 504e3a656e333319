// Package answer collects the binding stacks an evaluated query produced
// into the final AnswerSet: an ordered list of variable-to-value maps plus
// an overall yes/no/unknown verdict (spec.md §3.4, §6.3).
package answer

import (
	"encoding/json"

	"github.com/vital-ai/kgraphinfer/internal/binding"
	"github.com/vital-ai/kgraphinfer/internal/value"
)

// Verdict is the engine's top-level yes/no/unknown answer for a query
// (spec.md §6.1 "Verdict contract": verdict == Yes iff len(Results) > 0).
type Verdict int

const (
	// Unknown is never returned from a completed evaluation; it exists only
	// as the pre-evaluation zero value (spec.md §6.1).
	Unknown Verdict = iota
	Yes
	No
)

func (v Verdict) String() string {
	switch v {
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return "unknown"
	}
}

// AnswerSet is the result of evaluating a query to completion: the ordered
// sequence of variable bindings every successful branch produced, and the
// derived verdict.
type AnswerSet struct {
	Verdict Verdict
	Results []map[string]value.Value
}

// FromBranches builds an AnswerSet from the binding stacks a top-level
// Eval call returned, deriving the verdict from the verdict contract:
// Yes iff at least one branch survived, No otherwise (spec.md §6.1).
func FromBranches(branches []*binding.Stack) *AnswerSet {
	results := make([]map[string]value.Value, len(branches))
	for i, b := range branches {
		results[i] = b.AsMap()
	}
	verdict := No
	if len(results) > 0 {
		verdict = Yes
	}
	return &AnswerSet{Verdict: verdict, Results: results}
}

type jsonValue struct {
	Kind string `json:"kind"`
	Tag  string `json:"tag,omitempty"`
	Repr string `json:"repr"`
}

func marshalValue(v value.Value) jsonValue {
	jv := jsonValue{Kind: v.Kind.String(), Repr: v.String()}
	if v.Kind == value.TypedScalar {
		jv.Tag = string(v.Tag)
	}
	return jv
}

type jsonAnswerSet struct {
	Verdict string                  `json:"verdict"`
	Results []map[string]jsonValue `json:"results"`
}

// MarshalJSON encodes the AnswerSet as a {"verdict": ..., "results": [...]}
// envelope, mirroring the teacher's pgraph.MarshalResultJSON tagged-envelope
// shape over encoding/json.
func (a *AnswerSet) MarshalJSON() ([]byte, error) {
	out := jsonAnswerSet{
		Verdict: a.Verdict.String(),
		Results: make([]map[string]jsonValue, len(a.Results)),
	}
	for i, r := range a.Results {
		row := make(map[string]jsonValue, len(r))
		for k, v := range r {
			row[k] = marshalValue(v)
		}
		out.Results[i] = row
	}
	return json.Marshal(out)
}
