package predicate

import (
	"context"

	"github.com/vital-ai/kgraphinfer/internal/value"
)

// Filter is a predicate backed by a fixed, in-memory candidate tuple set,
// grounded on the original's FilterPredicate: eval_impl simply rejects any
// candidate whose bound positions disagree with the input, and returns a
// full binding map for every candidate that survives (original
// filter_predicate.py).
type Filter struct {
	data [][]value.Value
}

// NewFilter builds a Filter predicate over data. Every tuple in data must
// have the same length; that length becomes the predicate's arity.
func NewFilter(data [][]value.Value) *Filter {
	return &Filter{data: data}
}

func (f *Filter) Arity() int {
	if len(f.data) == 0 {
		return 0
	}
	return len(f.data[0])
}

func (f *Filter) Annotations() []string { return nil }

func (f *Filter) EvalImpl(_ context.Context, input map[int]value.Value) ([]map[int]value.Value, error) {
	var results []map[int]value.Value

	for _, candidate := range f.data {
		consistent := true
		for i, v := range candidate {
			if bound, ok := input[i]; ok && !value.Equal(bound, v) {
				consistent = false
				break
			}
		}
		if !consistent {
			continue
		}
		out := make(map[int]value.Value, len(candidate))
		for i, v := range candidate {
			out[i] = v
		}
		results = append(results, out)
	}
	return results, nil
}
