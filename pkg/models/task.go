package models

// Task is a single to-do entry. ID is assigned at creation and never changes;
// Text, Completed and Editing are mutated in place by the task store.
type Task struct {
	ID        string `yaml:"id" json:"id"`
	Text      string `yaml:"text" json:"text"`
	Completed bool   `yaml:"completed" json:"completed"`
	Editing   bool   `yaml:"editing,omitempty" json:"editing,omitempty"`
}

// IsZero returns true if the task has no ID.
func (t Task) IsZero() bool {
	return t.ID == ""
}
