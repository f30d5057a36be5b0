// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the to-do list intents as tools for AI assistants.
package mcp

import (
	"context"
	"strings"
	"sync"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/todo-list/internal/core"
	"github.com/valter-silva-au/todo-list/internal/observability"
	"github.com/valter-silva-au/todo-list/pkg/models"
)

// Server wraps a TaskStore and exposes its intents as MCP tools. Tool calls
// may arrive concurrently, so every call into the store holds mu.
type Server struct {
	server      *gomcp.Server
	store       core.TaskStore
	metricsCalc observability.MetricsCalculator

	mu sync.Mutex
}

// NewServer creates a new MCP server around store. metricsCalc may be nil when
// the event log is disabled, in which case get_stats is not registered.
func NewServer(store core.TaskStore, metricsCalc observability.MetricsCalculator, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		store:       store,
		metricsCalc: metricsCalc,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "todo", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type taskOutput struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Editing   bool   `json:"editing"`
}

// viewOutput is returned by every intent tool.
type viewOutput struct {
	Applied   bool         `json:"applied"`
	TaskID    string       `json:"task_id,omitempty"`
	Filter    string       `json:"filter"`
	Total     int          `json:"total"`
	Active    int          `json:"active"`
	Completed int          `json:"completed"`
	Tasks     []taskOutput `json:"tasks"`
}

type listTasksInput struct{}

type addTaskInput struct {
	Text string `json:"text" jsonschema:"the task text; blank text is ignored"`
}

type taskIDInput struct {
	ID string `json:"id" jsonschema:"the task identifier (e.g. TASK-3)"`
}

type editTaskInput struct {
	ID   string `json:"id" jsonschema:"the task identifier (e.g. TASK-3)"`
	Text string `json:"text" jsonschema:"the replacement text; the task stays in editing mode until save_task"`
}

type setFilterInput struct {
	Filter string `json:"filter" jsonschema:"one of all, active, completed"`
}

type clearTasksInput struct{}

type getStatsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window (e.g. 7d, 30d, 24h). Defaults to 7d."`
}

type statsOutput struct {
	TasksAdded     int            `json:"tasks_added"`
	TasksCompleted int            `json:"tasks_completed"`
	TasksReopened  int            `json:"tasks_reopened"`
	TasksDeleted   int            `json:"tasks_deleted"`
	TasksCleared   int            `json:"tasks_cleared"`
	Edits          int            `json:"edits"`
	Clears         int            `json:"clears"`
	FilterChanges  map[string]int `json:"filter_changes"`
	EventCount     int            `json:"event_count"`
	OldestEvent    string         `json:"oldest_event,omitempty"`
	NewestEvent    string         `json:"newest_event,omitempty"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "Return the tasks visible under the current filter, plus the filter and counts.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "add_task",
		Description: "Append a new active task. Blank text is a no-op (applied=false).",
	}, s.handleAddTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "toggle_task",
		Description: "Flip a task between active and completed. Unknown ids are a no-op.",
	}, s.handleToggleTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "edit_task",
		Description: "Replace a task's text and put it in editing mode. Call save_task to leave editing mode.",
	}, s.handleEditTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "save_task",
		Description: "Leave editing mode for a task, keeping its current text.",
	}, s.handleSaveTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "delete_task",
		Description: "Remove a task. Unknown ids are a no-op.",
	}, s.handleDeleteTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "set_filter",
		Description: "Change the active filter. Valid filters: all, active, completed.",
	}, s.handleSetFilter)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "clear_tasks",
		Description: "Remove every task. The filter is unchanged.",
	}, s.handleClearTasks)

	if s.metricsCalc != nil {
		gomcp.AddTool(s.server, &gomcp.Tool{
			Name:        "get_stats",
			Description: "Get activity counts aggregated from the event log.",
		}, s.handleGetStats)
	}
}

// --- Tool handlers ---

func (s *Server) handleListTasks(_ context.Context, _ *gomcp.CallToolRequest, _ listTasksInput) (*gomcp.CallToolResult, viewOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return nil, s.view(false, ""), nil
}

func (s *Server) handleAddTask(_ context.Context, _ *gomcp.CallToolRequest, input addTaskInput) (*gomcp.CallToolResult, viewOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, applied := s.store.AddTask(input.Text)
	return nil, s.view(applied, task.ID), nil
}

func (s *Server) handleToggleTask(_ context.Context, _ *gomcp.CallToolRequest, input taskIDInput) (*gomcp.CallToolResult, viewOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return errorResult("id is required"), viewOutput{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	applied := s.store.ToggleComplete(id)
	return nil, s.view(applied, id), nil
}

func (s *Server) handleEditTask(_ context.Context, _ *gomcp.CallToolRequest, input editTaskInput) (*gomcp.CallToolResult, viewOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return errorResult("id is required"), viewOutput{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	applied := s.store.BeginEdit(id, input.Text)
	return nil, s.view(applied, id), nil
}

func (s *Server) handleSaveTask(_ context.Context, _ *gomcp.CallToolRequest, input taskIDInput) (*gomcp.CallToolResult, viewOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return errorResult("id is required"), viewOutput{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	applied := s.store.CommitEdit(id)
	return nil, s.view(applied, id), nil
}

func (s *Server) handleDeleteTask(_ context.Context, _ *gomcp.CallToolRequest, input taskIDInput) (*gomcp.CallToolResult, viewOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return errorResult("id is required"), viewOutput{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	applied := s.store.DeleteTask(id)
	return nil, s.view(applied, id), nil
}

func (s *Server) handleSetFilter(_ context.Context, _ *gomcp.CallToolRequest, input setFilterInput) (*gomcp.CallToolResult, viewOutput, error) {
	filter, err := models.ParseFilter(input.Filter)
	if err != nil {
		return errorResult(err.Error()), viewOutput{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.SetFilter(filter)
	return nil, s.view(true, ""), nil
}

func (s *Server) handleClearTasks(_ context.Context, _ *gomcp.CallToolRequest, _ clearTasksInput) (*gomcp.CallToolResult, viewOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	applied := s.store.Count() > 0
	s.store.ClearAll()
	return nil, s.view(applied, ""), nil
}

func (s *Server) handleGetStats(_ context.Context, _ *gomcp.CallToolRequest, input getStatsInput) (*gomcp.CallToolResult, statsOutput, error) {
	sinceTime, err := observability.ParseSince(input.Since, time.Now().UTC())
	if err != nil {
		return errorResult("parsing since duration: " + err.Error()), emptyStatsOutput(), nil
	}

	metrics, err := s.metricsCalc.Calculate(sinceTime)
	if err != nil {
		return errorResult("calculating stats: " + err.Error()), emptyStatsOutput(), nil
	}

	out := statsOutput{
		TasksAdded:     metrics.TasksAdded,
		TasksCompleted: metrics.TasksCompleted,
		TasksReopened:  metrics.TasksReopened,
		TasksDeleted:   metrics.TasksDeleted,
		TasksCleared:   metrics.TasksCleared,
		Edits:          metrics.Edits,
		Clears:         metrics.Clears,
		FilterChanges:  metrics.FilterChanges,
		EventCount:     metrics.EventCount,
	}
	if out.FilterChanges == nil {
		out.FilterChanges = make(map[string]int)
	}
	if metrics.OldestEvent != nil {
		out.OldestEvent = metrics.OldestEvent.Format(time.RFC3339)
	}
	if metrics.NewestEvent != nil {
		out.NewestEvent = metrics.NewestEvent.Format(time.RFC3339)
	}

	return nil, out, nil
}

// --- Helpers ---

// view builds the tool output from the current store state. Callers hold mu.
func (s *Server) view(applied bool, taskID string) viewOutput {
	snap := s.store.Snapshot()
	out := viewOutput{
		Applied:   applied,
		TaskID:    taskID,
		Filter:    string(snap.Filter),
		Total:     snap.Total,
		Active:    snap.Active,
		Completed: snap.Completed,
		Tasks:     make([]taskOutput, len(snap.View)),
	}
	for i, t := range snap.View {
		out.Tasks[i] = taskOutput{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			Editing:   t.Editing,
		}
	}
	return out
}

func emptyStatsOutput() statsOutput {
	return statsOutput{FilterChanges: make(map[string]int)}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
