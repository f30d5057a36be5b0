package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/valter-silva-au/todo-list/internal/core"
	"github.com/valter-silva-au/todo-list/pkg/models"
)

func newTestModel(t *testing.T) (todoModel, core.TaskStore) {
	t.Helper()
	store := core.NewTaskStore(core.NewTaskIDGenerator("TASK", 0), nil, models.FilterAll)
	return newTodoModel(store, core.DefaultGlobalConfig().UI), store
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m todoModel, msgs ...tea.Msg) todoModel {
	t.Helper()
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(todoModel)
	}
	return m
}

// typeText sends s one rune at a time, the way a terminal delivers it.
func typeText(t *testing.T, m todoModel, s string) todoModel {
	t.Helper()
	for _, r := range s {
		if r == ' ' {
			m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		m = press(t, m, keyRunes(string(r)))
	}
	return m
}

func addTasks(t *testing.T, m todoModel, texts ...string) todoModel {
	t.Helper()
	for _, text := range texts {
		m = typeText(t, m, text)
		m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	}
	return m
}

func viewTextsOf(snap core.Snapshot) []string {
	texts := make([]string, len(snap.View))
	for i, task := range snap.View {
		texts[i] = task.Text
	}
	return texts
}

func TestTodoModel_Init(t *testing.T) {
	m, _ := newTestModel(t)

	if m.focus != focusInput {
		t.Errorf("expected input focus, got %d", m.focus)
	}
	if m.Init() != nil {
		t.Error("expected Init to return nil")
	}
	if m.snap.Filter != models.FilterAll {
		t.Errorf("expected filter all, got %q", m.snap.Filter)
	}
}

func TestTodoModel_AddTask(t *testing.T) {
	m, store := newTestModel(t)

	m = addTasks(t, m, "Buy milk")

	if store.Count() != 1 {
		t.Fatalf("store count = %d, want 1", store.Count())
	}
	if got := store.Tasks()[0].Text; got != "Buy milk" {
		t.Errorf("text = %q, want Buy milk", got)
	}
	if len(m.input) != 0 {
		t.Errorf("input should be cleared, got %q", string(m.input))
	}
	if len(m.snap.View) != 1 {
		t.Errorf("model view not refreshed: %v", viewTextsOf(m.snap))
	}
}

func TestTodoModel_BlankInputKeepsText(t *testing.T) {
	m, store := newTestModel(t)

	m = typeText(t, m, "   ")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if store.Count() != 0 {
		t.Fatalf("blank input should not add a task")
	}
	if string(m.input) != "   " {
		t.Errorf("input should be kept when nothing was added, got %q", string(m.input))
	}
}

func TestTodoModel_Backspace(t *testing.T) {
	m, _ := newTestModel(t)

	m = typeText(t, m, "abc")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace})

	if string(m.input) != "a" {
		t.Errorf("input = %q, want a", string(m.input))
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace})
	if len(m.input) != 0 {
		t.Errorf("input = %q, want empty", string(m.input))
	}
}

func TestTodoModel_QIsTextInInput(t *testing.T) {
	m, _ := newTestModel(t)

	updated, cmd := m.Update(keyRunes("q"))
	if cmd != nil {
		t.Fatal("q should not quit while typing")
	}
	if got := string(updated.(todoModel).input); got != "q" {
		t.Errorf("input = %q, want q", got)
	}
}

func TestTodoModel_Quit(t *testing.T) {
	tests := []struct {
		name  string
		focus focusArea
		msg   tea.KeyMsg
	}{
		{"ctrl+c in input", focusInput, tea.KeyMsg{Type: tea.KeyCtrlC}},
		{"esc in input", focusInput, tea.KeyMsg{Type: tea.KeyEsc}},
		{"q in list", focusList, keyRunes("q")},
		{"ctrl+c in list", focusList, tea.KeyMsg{Type: tea.KeyCtrlC}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t)
			m.focus = tt.focus

			_, cmd := m.Update(tt.msg)
			if cmd == nil {
				t.Fatal("expected tea.Quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Errorf("expected tea.QuitMsg")
			}
		})
	}
}

func TestTodoModel_ToggleFromList(t *testing.T) {
	m, store := newTestModel(t)
	m = addTasks(t, m, "Buy milk", "Call mom")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, keyRunes("j"), keyRunes("x"))

	tasks := store.Tasks()
	if tasks[0].Completed || !tasks[1].Completed {
		t.Errorf("expected only second task completed: %+v", tasks)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if store.Tasks()[1].Completed {
		t.Error("space should toggle the task back")
	}
	if m.snap.Completed != 0 {
		t.Errorf("snapshot not refreshed: completed=%d", m.snap.Completed)
	}
}

func TestTodoModel_CursorBounds(t *testing.T) {
	m, _ := newTestModel(t)
	m = addTasks(t, m, "a", "b")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
	m = press(t, m, keyRunes("k"))
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}

func TestTodoModel_EditFlow(t *testing.T) {
	m, store := newTestModel(t)
	m = addTasks(t, m, "Call mom")
	id := store.Tasks()[0].ID

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, keyRunes("e"))
	if m.editingID != id {
		t.Fatalf("editingID = %q, want %q", m.editingID, id)
	}
	if task, _ := store.Get(id); !task.Editing {
		t.Fatal("store task should be in editing mode")
	}

	for i := 0; i < 3; i++ {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m = typeText(t, m, "dad")

	// Every keystroke reaches the store.
	if task, _ := store.Get(id); task.Text != "Call dad" {
		t.Fatalf("store text = %q, want Call dad", task.Text)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	task, _ := store.Get(id)
	if task.Editing {
		t.Error("enter should commit the edit")
	}
	if task.Text != "Call dad" {
		t.Errorf("text = %q after commit", task.Text)
	}
	if m.editingID != "" {
		t.Error("model should leave edit mode")
	}
}

func TestTodoModel_EditKeysDoNotTriggerListActions(t *testing.T) {
	m, store := newTestModel(t)
	m = addTasks(t, m, "x")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, keyRunes("e"))

	m = typeText(t, m, "dq")

	if store.Count() != 1 {
		t.Fatal("d while editing must not delete")
	}
	if got := store.Tasks()[0].Text; got != "xdq" {
		t.Errorf("text = %q, want xdq", got)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.editingID != "" || store.Tasks()[0].Editing {
		t.Error("esc should commit the edit")
	}
}

func TestTodoModel_Delete(t *testing.T) {
	m, store := newTestModel(t)
	m = addTasks(t, m, "Buy milk", "Call mom")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, keyRunes("j"), keyRunes("d"))

	if got := viewTextsOf(store.Snapshot()); len(got) != 1 || got[0] != "Buy milk" {
		t.Fatalf("view = %v", got)
	}
	if m.cursor != 0 {
		t.Errorf("cursor should be clamped, got %d", m.cursor)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDelete})
	if store.Count() != 0 {
		t.Error("delete key should remove the task")
	}
	if _, ok := m.selected(); ok {
		t.Error("nothing should be selected in an empty list")
	}
}

func TestTodoModel_FilterKeys(t *testing.T) {
	m, store := newTestModel(t)
	m = addTasks(t, m, "Buy milk", "Call mom")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, keyRunes("x"))

	m = press(t, m, keyRunes("2"))
	if store.Filter() != models.FilterActive {
		t.Fatalf("filter = %q, want active", store.Filter())
	}
	if got := viewTextsOf(m.snap); len(got) != 1 || got[0] != "Call mom" {
		t.Errorf("active view = %v", got)
	}

	m = press(t, m, keyRunes("3"))
	if got := viewTextsOf(m.snap); len(got) != 1 || got[0] != "Buy milk" {
		t.Errorf("completed view = %v", got)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if store.Filter() != models.FilterAll {
		t.Errorf("right from completed should wrap to all, got %q", store.Filter())
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if store.Filter() != models.FilterCompleted {
		t.Errorf("left from all should wrap to completed, got %q", store.Filter())
	}
	_ = press(t, m, keyRunes("1"))
	if store.Filter() != models.FilterAll {
		t.Errorf("filter = %q, want all", store.Filter())
	}
}

func TestTodoModel_ClearAll(t *testing.T) {
	m, store := newTestModel(t)
	m = addTasks(t, m, "a", "b", "c")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, keyRunes("C"))

	if store.Count() != 0 {
		t.Fatalf("store count = %d, want 0", store.Count())
	}
	if len(m.snap.View) != 0 || m.snap.Total != 0 {
		t.Error("model snapshot should be empty")
	}
}

func TestTodoModel_View(t *testing.T) {
	m, _ := newTestModel(t)

	out := m.View()
	for _, want := range []string{"To Do List", "Type a new task", "All", "Active", "Completed", "No tasks.", "0 tasks"} {
		if !strings.Contains(out, want) {
			t.Errorf("empty view should contain %q", want)
		}
	}

	m = addTasks(t, m, "Buy milk", "Call mom")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, keyRunes("x"))

	out = m.View()
	for _, want := range []string{"Buy milk", "Call mom", "[x]", "[ ]", "2 tasks"} {
		if !strings.Contains(out, want) {
			t.Errorf("view should contain %q", want)
		}
	}
}

func TestTodoModel_WindowSize(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	if m.width != 100 {
		t.Errorf("width = %d, want 100", m.width)
	}
}

func TestPluralTasks(t *testing.T) {
	tests := map[int]string{0: "0 tasks", 1: "1 task", 2: "2 tasks"}
	for n, want := range tests {
		if got := pluralTasks(n); got != want {
			t.Errorf("pluralTasks(%d) = %q, want %q", n, got, want)
		}
	}
}
