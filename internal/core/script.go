package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/valter-silva-au/todo-list/pkg/models"
	"gopkg.in/yaml.v3"
)

// Script is a recorded sequence of user intents that can be replayed
// against a TaskStore.
//
//	steps:
//	  - add: Buy milk
//	  - toggle: {match: Buy milk}
//	  - edit: {id: TASK-2, to: Call dad}
//	  - save: TASK-2
//	  - filter: completed
//	  - clear: true
type Script struct {
	Steps []Step `yaml:"steps"`
}

// Step is one intent. Exactly one field must be set.
type Step struct {
	Add    *string   `yaml:"add,omitempty"`
	Toggle *TaskRef  `yaml:"toggle,omitempty"`
	Edit   *EditStep `yaml:"edit,omitempty"`
	Save   *TaskRef  `yaml:"save,omitempty"`
	Delete *TaskRef  `yaml:"delete,omitempty"`
	Filter *string   `yaml:"filter,omitempty"`
	Clear  bool      `yaml:"clear,omitempty"`
}

// TaskRef points at a task either by ID or by exact text. A bare scalar in
// YAML is read as an ID.
type TaskRef struct {
	ID    string `yaml:"id,omitempty"`
	Match string `yaml:"match,omitempty"`
}

// EditStep replaces a task's text and leaves it in edit mode.
type EditStep struct {
	ID    string `yaml:"id,omitempty"`
	Match string `yaml:"match,omitempty"`
	To    string `yaml:"to"`
}

// Ref returns the task reference part of the step.
func (e EditStep) Ref() TaskRef {
	return TaskRef{ID: e.ID, Match: e.Match}
}

// StepResult reports the outcome of replaying one step.
type StepResult struct {
	Index    int      `yaml:"step" json:"step"`
	Kind     string   `yaml:"kind" json:"kind"`
	TaskID   string   `yaml:"task_id,omitempty" json:"task_id,omitempty"`
	Applied  bool     `yaml:"applied" json:"applied"`
	Snapshot Snapshot `yaml:"view" json:"view"`
}

// UnmarshalYAML accepts either a scalar ID or a {id, match} mapping.
func (r *TaskRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		r.ID = node.Value
		return nil
	}
	if node.Kind == yaml.MappingNode {
		for i := 0; i < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Value != "id" && key.Value != "match" {
				return fmt.Errorf("line %d: field %s not found in task reference", key.Line, key.Value)
			}
		}
	}
	type plain TaskRef
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*r = TaskRef(p)
	return nil
}

// LoadScript reads and parses a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes a YAML script and validates every step. Unknown keys
// are rejected.
func ParseScript(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return &Script{}, nil
		}
		return nil, fmt.Errorf("parsing script: %w", err)
	}

	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return nil, fmt.Errorf("parsing script: steps[%d]: %w", i, err)
		}
	}
	return &s, nil
}

// Kind names the intent carried by the step.
func (s Step) Kind() string {
	switch {
	case s.Add != nil:
		return "add"
	case s.Toggle != nil:
		return "toggle"
	case s.Edit != nil:
		return "edit"
	case s.Save != nil:
		return "save"
	case s.Delete != nil:
		return "delete"
	case s.Filter != nil:
		return "filter"
	case s.Clear:
		return "clear"
	default:
		return ""
	}
}

func (s Step) validate() error {
	set := 0
	for _, ok := range []bool{
		s.Add != nil, s.Toggle != nil, s.Edit != nil, s.Save != nil,
		s.Delete != nil, s.Filter != nil, s.Clear,
	} {
		if ok {
			set++
		}
	}
	if set == 0 {
		return fmt.Errorf("step has no intent")
	}
	if set > 1 {
		return fmt.Errorf("step has %d intents, expected exactly one", set)
	}

	if s.Filter != nil {
		if _, err := models.ParseFilter(*s.Filter); err != nil {
			return err
		}
	}
	for _, ref := range []*TaskRef{s.Toggle, s.Save, s.Delete} {
		if ref != nil && ref.ID == "" && ref.Match == "" {
			return fmt.Errorf("%s: task reference needs id or match", s.Kind())
		}
	}
	if s.Edit != nil && s.Edit.ID == "" && s.Edit.Match == "" {
		return fmt.Errorf("edit: task reference needs id or match")
	}
	return nil
}

// Replay applies every step to the store in order. onStep, if non-nil, is
// called after each step with the resulting snapshot. Steps whose task
// reference does not resolve are no-ops, matching the store contract.
func (s *Script) Replay(store TaskStore, onStep func(StepResult)) Snapshot {
	for i, step := range s.Steps {
		res := StepResult{Index: i, Kind: step.Kind()}

		switch {
		case step.Add != nil:
			task, ok := store.AddTask(*step.Add)
			res.TaskID, res.Applied = task.ID, ok
		case step.Toggle != nil:
			res.TaskID = resolveRef(store, *step.Toggle)
			res.Applied = store.ToggleComplete(res.TaskID)
		case step.Edit != nil:
			res.TaskID = resolveRef(store, step.Edit.Ref())
			res.Applied = store.BeginEdit(res.TaskID, step.Edit.To)
		case step.Save != nil:
			res.TaskID = resolveRef(store, *step.Save)
			res.Applied = store.CommitEdit(res.TaskID)
		case step.Delete != nil:
			res.TaskID = resolveRef(store, *step.Delete)
			res.Applied = store.DeleteTask(res.TaskID)
		case step.Filter != nil:
			f, _ := models.ParseFilter(*step.Filter)
			store.SetFilter(f)
			res.Applied = true
		case step.Clear:
			store.ClearAll()
			res.Applied = true
		}

		if onStep != nil {
			res.Snapshot = store.Snapshot()
			onStep(res)
		}
	}
	return store.Snapshot()
}

// resolveRef returns the referenced task ID, or "" when nothing matches.
// Text matches pick the first task in collection order.
func resolveRef(store TaskStore, ref TaskRef) string {
	if ref.ID != "" {
		if _, ok := store.Get(ref.ID); ok {
			return ref.ID
		}
		return ""
	}
	for _, t := range store.Tasks() {
		if t.Text == ref.Match {
			return t.ID
		}
	}
	return ""
}
