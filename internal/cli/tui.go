package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/todo-list/internal/core"
	"github.com/valter-silva-au/todo-list/pkg/models"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

// todoModel is the interactive list. It never mutates tasks itself: every
// key that changes state is dispatched to the store and the model then
// re-reads the store snapshot.
type todoModel struct {
	store core.TaskStore
	ui    models.UIConfig
	snap  core.Snapshot

	focus  focusArea
	cursor int
	input  []rune

	// editingID is the task whose text is being edited, "" when none.
	editingID string
	editBuf   []rune

	width int
}

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeInputStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(0, 1)

	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69")).Underline(true).Padding(0, 1)

	cursorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	completedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
	editingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	placeholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newTodoModel(store core.TaskStore, ui models.UIConfig) todoModel {
	m := todoModel{
		store: store,
		ui:    ui,
		focus: focusInput,
	}
	m.refresh()
	return m
}

func (m todoModel) Init() tea.Cmd {
	return nil
}

func (m todoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.editingID != "" {
			return m.updateEditing(msg)
		}
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m todoModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		if _, ok := m.store.AddTask(string(m.input)); ok {
			m.input = nil
		}
		m.refresh()
	case tea.KeyTab, tea.KeyShiftTab:
		m.focus = focusList
	case tea.KeyLeft:
		m.cycleFilter(-1)
	case tea.KeyRight:
		m.cycleFilter(1)
	case tea.KeyBackspace:
		m.input = dropLastRune(m.input)
	case tea.KeyRunes, tea.KeySpace:
		m.input = append(m.input, msg.Runes...)
	}
	return m, nil
}

func (m todoModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "tab", "shift+tab":
		m.focus = focusInput
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.snap.View)-1 {
			m.cursor++
		}
	case " ", "x":
		if task, ok := m.selected(); ok {
			m.store.ToggleComplete(task.ID)
			m.refresh()
		}
	case "e":
		if task, ok := m.selected(); ok {
			if m.store.BeginEdit(task.ID, task.Text) {
				m.editingID = task.ID
				m.editBuf = []rune(task.Text)
			}
			m.refresh()
		}
	case "d", "delete":
		if task, ok := m.selected(); ok {
			m.store.DeleteTask(task.ID)
			m.refresh()
		}
	case "1", "2", "3":
		m.store.SetFilter(models.Filters[msg.String()[0]-'1'])
		m.refresh()
	case "left":
		m.cycleFilter(-1)
	case "right":
		m.cycleFilter(1)
	case "C":
		m.store.ClearAll()
		m.refresh()
	}
	return m, nil
}

// updateEditing feeds every keystroke of the inline editor to the store so
// the task text always mirrors the editor.
func (m todoModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.store.CommitEdit(m.editingID)
		m.editingID = ""
		m.editBuf = nil
		m.refresh()
		return m, nil
	case tea.KeyBackspace:
		m.editBuf = dropLastRune(m.editBuf)
	case tea.KeyRunes, tea.KeySpace:
		m.editBuf = append(m.editBuf, msg.Runes...)
	default:
		return m, nil
	}

	if !m.store.BeginEdit(m.editingID, string(m.editBuf)) {
		// The task is gone; leave edit mode.
		m.editingID = ""
		m.editBuf = nil
	}
	m.refresh()
	return m, nil
}

func (m *todoModel) cycleFilter(step int) {
	idx := 0
	for i, f := range models.Filters {
		if f == m.snap.Filter {
			idx = i
			break
		}
	}
	n := len(models.Filters)
	m.store.SetFilter(models.Filters[(idx+step+n)%n])
	m.refresh()
}

// refresh re-reads the store and keeps the cursor inside the view.
func (m *todoModel) refresh() {
	m.snap = m.store.Snapshot()
	if m.cursor >= len(m.snap.View) {
		m.cursor = len(m.snap.View) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m todoModel) selected() (models.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snap.View) {
		return models.Task{}, false
	}
	return m.snap.View[m.cursor], true
}

func (m todoModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(" " + m.ui.Title + " "))
	b.WriteString("\n\n")
	b.WriteString(m.renderInput())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(m.renderTasks())
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s\n\n", pluralTasks(m.snap.Total)))
	b.WriteString(helpStyle.Render(m.helpLine()))

	return b.String()
}

func (m todoModel) renderInput() string {
	style := inputStyle
	if m.focus == focusInput && m.editingID == "" {
		style = activeInputStyle
	}

	content := string(m.input)
	if content == "" {
		content = placeholderStyle.Render(m.ui.Placeholder)
	}

	width := 40
	if m.width > 8 {
		width = m.width - 4
	}
	return style.Width(width).Render("+ " + content)
}

func (m todoModel) renderTabs() string {
	tabs := make([]string, len(models.Filters))
	for i, f := range models.Filters {
		label := fmt.Sprintf("%d %s", i+1, f.Label())
		if f == m.snap.Filter {
			tabs[i] = activeTabStyle.Render(label)
		} else {
			tabs[i] = tabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m todoModel) renderTasks() string {
	if len(m.snap.View) == 0 {
		return helpStyle.Render("  No tasks.") + "\n"
	}

	var b strings.Builder
	for i, task := range m.snap.View {
		marker := "  "
		if m.focus == focusList && i == m.cursor {
			marker = cursorStyle.Render("> ")
		}

		box := "[ ]"
		if task.Completed {
			box = "[x]"
		}

		var text string
		switch {
		case task.ID == m.editingID:
			text = editingStyle.Render(string(m.editBuf) + "_")
		case task.Completed:
			text = completedStyle.Render(task.Text)
		default:
			text = task.Text
		}

		b.WriteString(fmt.Sprintf("%s%s %s\n", marker, box, text))
	}
	return b.String()
}

func (m todoModel) helpLine() string {
	switch {
	case m.editingID != "":
		return "enter/esc: save"
	case m.focus == focusInput:
		return "enter: add | tab: list | left/right: filter | esc: quit"
	default:
		return "space: toggle | e: edit | d: delete | 1-3: filter | C: clear all | tab: input | q: quit"
	}
}

func pluralTasks(n int) string {
	if n == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", n)
}

func dropLastRune(r []rune) []rune {
	if len(r) == 0 {
		return r
	}
	return r[:len(r)-1]
}

// runTUI starts the interactive list on the shared store.
func runTUI(_ *cobra.Command, _ []string) error {
	if Store == nil {
		return fmt.Errorf("task store not initialized")
	}
	ui := core.DefaultGlobalConfig().UI
	if Config != nil {
		ui = Config.UI
	}
	p := tea.NewProgram(newTodoModel(Store, ui), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running interactive list: %w", err)
	}
	return nil
}

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive to-do list",
	Long: `Open the interactive terminal to-do list. This is also what runs when
todo is invoked without a subcommand.

Type a task and press enter to add it. Press tab to move to the list, where
space toggles, e edits, d deletes, 1-3 switch filters and C clears all tasks.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
