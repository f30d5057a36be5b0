package core

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/valter-silva-au/todo-list/pkg/models"
)

const scenarioScript = `
steps:
  - add: Buy milk
  - add: Call mom
  - toggle: {match: Buy milk}
  - filter: completed
  - filter: active
  - delete: {match: Call mom}
  - filter: all
`

func TestParseScript(t *testing.T) {
	s, err := ParseScript([]byte(scenarioScript))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var kinds []string
	for _, step := range s.Steps {
		kinds = append(kinds, step.Kind())
	}
	want := []string{"add", "add", "toggle", "filter", "filter", "delete", "filter"}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("kinds = %v, want %v", kinds, want)
	}
}

func TestParseScript_ScalarRefIsID(t *testing.T) {
	s, err := ParseScript([]byte("steps:\n  - save: TASK-7\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Steps[0].Save == nil || s.Steps[0].Save.ID != "TASK-7" {
		t.Fatalf("save ref = %+v", s.Steps[0].Save)
	}
}

func TestParseScript_Empty(t *testing.T) {
	s, err := ParseScript(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Steps) != 0 {
		t.Errorf("expected no steps, got %d", len(s.Steps))
	}
}

func TestParseScript_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"unknown kind", "steps:\n  - archive: TASK-1\n", "archive"},
		{"two intents", "steps:\n  - add: a\n    clear: true\n", "exactly one"},
		{"no intent", "steps:\n  - clear: false\n", "no intent"},
		{"bad filter", "steps:\n  - filter: done\n", "invalid filter"},
		{"empty ref", "steps:\n  - toggle: {}\n", "id or match"},
		{"edit without ref", "steps:\n  - edit: {to: x}\n", "id or match"},
		{"unknown ref key", "steps:\n  - toggle: {id: TASK-1, bogus: 1}\n", "field bogus not found"},
		{"unknown save key", "steps:\n  - save: {match: a, text: b}\n", "field text not found"},
		{"malformed", "steps: [\n", "parsing script"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScript([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestReplay_Scenario(t *testing.T) {
	s, err := ParseScript([]byte(scenarioScript))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store := NewTaskStore(NewTaskIDGenerator("TASK", 0), nil, models.FilterAll)

	var views [][]string
	final := s.Replay(store, func(r StepResult) {
		views = append(views, texts(r.Snapshot.View))
	})

	if !reflect.DeepEqual(views[3], []string{"Buy milk"}) {
		t.Errorf("completed view = %v", views[3])
	}
	if !reflect.DeepEqual(views[4], []string{"Call mom"}) {
		t.Errorf("active view = %v", views[4])
	}
	if final.Filter != models.FilterAll || len(final.View) != 1 {
		t.Fatalf("final = %+v", final)
	}
	if final.View[0].Text != "Buy milk" || !final.View[0].Completed {
		t.Errorf("final task = %+v", final.View[0])
	}
}

func TestReplay_EditAndSave(t *testing.T) {
	s, err := ParseScript([]byte(`
steps:
  - add: Call mom
  - edit: {id: TASK-1, to: Call dad}
  - save: TASK-1
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store := NewTaskStore(NewTaskIDGenerator("TASK", 0), nil, models.FilterAll)

	var results []StepResult
	s.Replay(store, func(r StepResult) { results = append(results, r) })

	if !results[1].Snapshot.View[0].Editing {
		t.Error("expected task in edit mode after edit step")
	}
	got, _ := store.Get("TASK-1")
	if got.Text != "Call dad" || got.Editing {
		t.Errorf("got %+v", got)
	}
}

func TestReplay_UnresolvedRefIsNoop(t *testing.T) {
	s, err := ParseScript([]byte(`
steps:
  - add: a
  - toggle: TASK-9
  - delete: {match: nothing}
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store := NewTaskStore(nil, nil, models.FilterAll)

	var applied []bool
	s.Replay(store, func(r StepResult) { applied = append(applied, r.Applied) })

	if !reflect.DeepEqual(applied, []bool{true, false, false}) {
		t.Errorf("applied = %v", applied)
	}
	if store.Count() != 1 {
		t.Errorf("Count = %d, want 1", store.Count())
	}
}

func TestReplay_BlankAddIsNoop(t *testing.T) {
	s, err := ParseScript([]byte("steps:\n  - add: \"   \"\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store := NewTaskStore(nil, nil, models.FilterAll)
	final := s.Replay(store, nil)
	if final.Total != 0 {
		t.Errorf("Total = %d, want 0", final.Total)
	}
}

func TestLoadScript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.yaml")
	if err := os.WriteFile(path, []byte(scenarioScript), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := LoadScript(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Steps) != 7 {
		t.Errorf("expected 7 steps, got %d", len(s.Steps))
	}

	if _, err := LoadScript(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
