package loader

import (
	"strings"
	"testing"

	"github.com/vital-ai/kgraphinfer/internal/value"
)

func TestLoadCSV_ScalarSniffing(t *testing.T) {
	input := "name,age,active\nalice,30,true\nbob,17,false\n"
	rows, err := LoadCSV(strings.NewReader(input), true)
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if !value.Equal(rows[0][0], value.NewString("alice")) {
		t.Errorf("rows[0][0] = %v, want alice", rows[0][0])
	}
	if !value.Equal(rows[0][1], value.NewInt(30)) {
		t.Errorf("rows[0][1] = %v, want 30", rows[0][1])
	}
	if !value.Equal(rows[0][2], value.NewBool(true)) {
		t.Errorf("rows[0][2] = %v, want true", rows[0][2])
	}
}

func TestLoadCSV_MismatchedColumnsErrors(t *testing.T) {
	input := "a,b\nc,d,e\n"
	if _, err := LoadCSV(strings.NewReader(input), false); err == nil {
		t.Fatal("LoadCSV with a ragged row should fail")
	}
}

func TestLoadJSONL_ProjectsFields(t *testing.T) {
	input := `{"id": "e1", "label": "Entity One"}
{"id": "e2", "label": "Entity Two"}
{"id": "e3"}
`
	rows, err := LoadJSONL(strings.NewReader(input), []string{"id", "label"})
	if err != nil {
		t.Fatalf("LoadJSONL failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2 (the incomplete record is skipped)", len(rows))
	}
	if !value.Equal(rows[0][0], value.NewString("e1")) {
		t.Errorf("rows[0][0] = %v, want e1", rows[0][0])
	}
	if !value.Equal(rows[1][1], value.NewString("Entity Two")) {
		t.Errorf("rows[1][1] = %v, want 'Entity Two'", rows[1][1])
	}
}

func TestLoadJSONL_SkipsBlankLines(t *testing.T) {
	input := "{\"id\": \"e1\"}\n\n{\"id\": \"e2\"}\n"
	rows, err := LoadJSONL(strings.NewReader(input), []string{"id"})
	if err != nil {
		t.Fatalf("LoadJSONL failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
}
