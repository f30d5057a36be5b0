package cli

import (
	"github.com/valter-silva-au/todo-list/internal/core"
	"github.com/valter-silva-au/todo-list/internal/observability"
	"github.com/valter-silva-au/todo-list/pkg/models"
)

// Service instances, set during app initialization in app.go.
var (
	Store  core.TaskStore
	Config *models.GlobalConfig
)

// Observability service instances. Both are nil when the event log is
// disabled or could not be opened.
var (
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
)
