package answer

import (
	"encoding/json"
	"testing"

	"github.com/vital-ai/kgraphinfer/internal/binding"
	"github.com/vital-ai/kgraphinfer/internal/value"
)

func TestFromBranches_EmptyIsNo(t *testing.T) {
	as := FromBranches(nil)
	if as.Verdict != No {
		t.Errorf("Verdict = %v, want No", as.Verdict)
	}
	if len(as.Results) != 0 {
		t.Errorf("len(Results) = %d, want 0", len(as.Results))
	}
}

func TestFromBranches_NonEmptyIsYes(t *testing.T) {
	b := binding.New()
	b.Bind("x", value.NewInt(1))
	as := FromBranches([]*binding.Stack{b})
	if as.Verdict != Yes {
		t.Errorf("Verdict = %v, want Yes", as.Verdict)
	}
	if len(as.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1", len(as.Results))
	}
	if got := as.Results[0]["x"]; !value.Equal(got, value.NewInt(1)) {
		t.Errorf("Results[0][x] = %v, want 1", got)
	}
}

func TestAnswerSet_MarshalJSON(t *testing.T) {
	b := binding.New()
	b.Bind("name", value.NewString("bob"))
	as := FromBranches([]*binding.Stack{b})

	data, err := json.Marshal(as)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded["verdict"] != "yes" {
		t.Errorf("verdict = %v, want yes", decoded["verdict"])
	}
}
