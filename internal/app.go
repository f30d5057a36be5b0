// Package internal provides the App struct that wires all components of the
// to-do list together and initializes the CLI layer.
package internal

import (
	"os"
	"path/filepath"
	"time"

	"github.com/valter-silva-au/todo-list/internal/cli"
	"github.com/valter-silva-au/todo-list/internal/core"
	"github.com/valter-silva-au/todo-list/internal/observability"
	"github.com/valter-silva-au/todo-list/pkg/models"
)

// App holds all service dependencies for the to-do list.
type App struct {
	BasePath string

	// Configuration
	ConfigMgr core.ConfigurationManager
	Config    *models.GlobalConfig
	// ConfigErr is set when the config file could not be used and defaults
	// were applied instead.
	ConfigErr error

	// Core services
	IDGen core.TaskIDGenerator
	Store core.TaskStore

	// Observability
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
}

// NewApp creates and wires all components of the to-do list. basePath is the
// directory holding .todoconfig and the event log.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	globalCfg, err := app.ConfigMgr.LoadGlobalConfig()
	if err != nil {
		// Fall back to defaults; a broken config file never blocks the list.
		app.ConfigErr = err
		globalCfg = core.DefaultGlobalConfig()
	}
	app.Config = globalCfg

	// --- Observability ---
	if globalCfg.Events.Enabled {
		eventLogPath := globalCfg.Events.Path
		if !filepath.IsAbs(eventLogPath) {
			eventLogPath = filepath.Join(basePath, eventLogPath)
		}
		app.EventLog, err = observability.NewJSONLEventLog(eventLogPath)
		if err != nil {
			// Non-fatal: run without an event log.
			app.EventLog = nil
		}
	}
	if app.EventLog != nil {
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}

	// --- Core services ---
	app.IDGen = core.NewTaskIDGenerator(globalCfg.TaskIDPrefix, globalCfg.TaskIDPadWidth)

	var evtAdapter core.EventLogger
	if app.EventLog != nil {
		evtAdapter = &eventLogAdapter{log: app.EventLog}
	}
	app.Store = core.NewTaskStore(app.IDGen, evtAdapter, globalCfg.DefaultFilter)

	// --- Wire CLI package-level variables ---
	cli.Store = app.Store
	cli.Config = app.Config
	cli.EventLog = app.EventLog
	cli.MetricsCalc = app.MetricsCalc

	return app, nil
}

// Close releases resources held by the App, such as the event log file handle.
// It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the directory holding .todoconfig. It checks
// the TODO_HOME env var, then walks up from the current directory looking for
// a .todoconfig file, then falls back to the current directory.
func ResolveBasePath() string {
	if home := os.Getenv("TODO_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	cwd := dir
	for {
		if _, err := os.Stat(filepath.Join(dir, core.ConfigFileName)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return cwd
}

// --- Adapters ---

// eventLogAdapter adapts observability.EventLog to core.EventLogger.
type eventLogAdapter struct {
	log observability.EventLog
}

func (a *eventLogAdapter) LogEvent(eventType string, data map[string]any) error {
	return a.log.Write(observability.Event{
		Time:    time.Now().UTC(),
		Level:   "INFO",
		Type:    eventType,
		Message: eventType,
		Data:    data,
	})
}
