package core

import (
	"strings"

	"github.com/valter-silva-au/todo-list/pkg/models"
)

// Snapshot is a read-only copy of the store state handed to presentation layers.
type Snapshot struct {
	Filter    models.Filter `yaml:"filter" json:"filter"`
	View      []models.Task `yaml:"tasks" json:"tasks"`
	Total     int           `yaml:"total" json:"total"`
	Active    int           `yaml:"active" json:"active"`
	Completed int           `yaml:"completed" json:"completed"`
}

// Listener receives the new Snapshot after every applied change.
type Listener func(Snapshot)

// TaskStore owns the task collection and the active filter. It is the only
// mutation surface for tasks. Every operation is total: an unknown ID or blank
// text turns the call into a no-op, and the boolean results only report
// whether anything was applied.
//
// TaskStore is not safe for concurrent use. Callers that receive intents from
// more than one goroutine must serialize them.
//
// Listeners may unsubscribe or call back into the store while being notified.
// Changes they make are delivered in a follow-up round once every listener has
// seen the current snapshot. A listener that mutates on every notification
// never lets the round settle.
type TaskStore interface {
	AddTask(text string) (models.Task, bool)
	ToggleComplete(id string) bool
	BeginEdit(id, text string) bool
	CommitEdit(id string) bool
	DeleteTask(id string) bool
	SetFilter(filter models.Filter)
	ClearAll()

	View() []models.Task
	Filter() models.Filter
	Count() int
	Tasks() []models.Task
	Get(id string) (models.Task, bool)
	Snapshot() Snapshot
	Subscribe(l Listener) (unsubscribe func())
}

type subscription struct {
	id int
	fn Listener
}

type taskStore struct {
	idGen  TaskIDGenerator
	events EventLogger

	tasks  []models.Task
	filter models.Filter
	view   []models.Task

	listeners []subscription
	nextSubID int
	notifying bool
	pending   bool
}

// NewTaskStore creates an empty TaskStore. eventLogger may be nil. An invalid
// initial filter falls back to models.FilterAll.
func NewTaskStore(idGen TaskIDGenerator, eventLogger EventLogger, initial models.Filter) TaskStore {
	if idGen == nil {
		idGen = NewTaskIDGenerator("TASK", 0)
	}
	if !initial.Valid() {
		initial = models.FilterAll
	}
	s := &taskStore{
		idGen:  idGen,
		events: eventLogger,
		tasks:  make([]models.Task, 0),
		filter: initial,
	}
	s.recompute()
	return s
}

func (s *taskStore) AddTask(text string) (models.Task, bool) {
	if strings.TrimSpace(text) == "" {
		return models.Task{}, false
	}

	task := models.Task{
		ID:   s.idGen.GenerateTaskID(),
		Text: text,
	}
	s.tasks = append(s.tasks, task)

	s.logEvent(models.EventTaskAdded, map[string]any{"task_id": task.ID})
	s.changed()
	return task, true
}

func (s *taskStore) ToggleComplete(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.tasks[i].Completed = !s.tasks[i].Completed

	eventType := models.EventTaskReopened
	if s.tasks[i].Completed {
		eventType = models.EventTaskCompleted
	}
	s.logEvent(eventType, map[string]any{"task_id": id})
	s.changed()
	return true
}

// BeginEdit sets the task text and puts it in edit mode in one step. The
// terminal UI calls it on entering edit mode and again on every keystroke.
func (s *taskStore) BeginEdit(id, text string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	wasEditing := s.tasks[i].Editing
	s.tasks[i].Text = text
	s.tasks[i].Editing = true

	if !wasEditing {
		s.logEvent(models.EventTaskEditStarted, map[string]any{"task_id": id})
	}
	s.changed()
	return true
}

func (s *taskStore) CommitEdit(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.tasks[i].Editing = false

	s.logEvent(models.EventTaskEditCommitted, map[string]any{"task_id": id})
	s.changed()
	return true
}

func (s *taskStore) DeleteTask(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)

	s.logEvent(models.EventTaskDeleted, map[string]any{"task_id": id})
	s.changed()
	return true
}

func (s *taskStore) SetFilter(filter models.Filter) {
	if !filter.Valid() {
		filter = models.FilterAll
	}
	s.filter = filter

	s.logEvent(models.EventFilterChanged, map[string]any{"filter": string(filter)})
	s.changed()
}

func (s *taskStore) ClearAll() {
	count := len(s.tasks)
	s.tasks = make([]models.Task, 0)

	s.logEvent(models.EventTasksCleared, map[string]any{"count": count})
	s.changed()
}

func (s *taskStore) View() []models.Task {
	return cloneTasks(s.view)
}

func (s *taskStore) Filter() models.Filter {
	return s.filter
}

func (s *taskStore) Count() int {
	return len(s.tasks)
}

func (s *taskStore) Tasks() []models.Task {
	return cloneTasks(s.tasks)
}

func (s *taskStore) Get(id string) (models.Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, false
	}
	return s.tasks[i], true
}

func (s *taskStore) Snapshot() Snapshot {
	snap := Snapshot{
		Filter: s.filter,
		View:   cloneTasks(s.view),
		Total:  len(s.tasks),
	}
	for _, t := range s.tasks {
		if t.Completed {
			snap.Completed++
		} else {
			snap.Active++
		}
	}
	return snap
}

func (s *taskStore) Subscribe(l Listener) func() {
	if l == nil {
		return func() {}
	}
	s.nextSubID++
	id := s.nextSubID
	s.listeners = append(s.listeners, subscription{id: id, fn: l})

	return func() {
		kept := make([]subscription, 0, len(s.listeners))
		for _, sub := range s.listeners {
			if sub.id != id {
				kept = append(kept, sub)
			}
		}
		s.listeners = kept
	}
}

// changed recomputes the derived view and notifies listeners, in that order.
// A change made by a listener is not delivered mid-round: the current round
// finishes with its snapshot and another round follows with the latest state.
func (s *taskStore) changed() {
	s.recompute()
	if s.notifying {
		s.pending = true
		return
	}
	s.notifying = true
	defer func() { s.notifying = false }()

	for {
		s.pending = false
		subs := s.listeners
		if len(subs) == 0 {
			return
		}
		snap := s.Snapshot()
		for _, sub := range subs {
			if s.subscribed(sub.id) {
				sub.fn(snap)
			}
		}
		if !s.pending {
			return
		}
	}
}

func (s *taskStore) subscribed(id int) bool {
	for _, sub := range s.listeners {
		if sub.id == id {
			return true
		}
	}
	return false
}

// recompute rebuilds the derived view from scratch. Task counts are small,
// so a full pass on every change is fine.
func (s *taskStore) recompute() {
	view := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if s.filter.Matches(t) {
			view = append(view, t)
		}
	}
	s.view = view
}

func (s *taskStore) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// logEvent records an event if a logger is configured. Failures are dropped:
// store operations never fail.
func (s *taskStore) logEvent(eventType string, data map[string]any) {
	if s.events == nil {
		return
	}
	_ = s.events.LogEvent(eventType, data)
}

func cloneTasks(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	return out
}
