// Package core contains the business logic for the to-do list: the task
// store, task ID generation and configuration loading.
package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"
	"github.com/valter-silva-au/todo-list/pkg/models"
)

// ConfigFileName is the name of the YAML config file looked up in the base path.
const ConfigFileName = ".todoconfig"

// validPrefixPattern matches uppercase alphanumeric prefixes between 1 and 10 characters.
var validPrefixPattern = regexp.MustCompile(`^[A-Z0-9]{1,10}$`)

// ConfigurationManager defines the interface for loading and validating
// configuration from the .todoconfig file.
type ConfigurationManager interface {
	LoadGlobalConfig() (*models.GlobalConfig, error)
	ValidateConfig(cfg *models.GlobalConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading YAML configuration files and TODO_* environment overrides.
type viperConfigManager struct {
	// basePath is the root directory where .todoconfig resides.
	basePath string
}

// NewConfigurationManager creates a new ConfigurationManager that reads
// configuration files relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultGlobalConfig returns a GlobalConfig populated with sensible defaults.
func DefaultGlobalConfig() *models.GlobalConfig {
	return &models.GlobalConfig{
		TaskIDPrefix:   "TASK",
		TaskIDPadWidth: 0,
		DefaultFilter:  models.FilterAll,
		UI: models.UIConfig{
			Title:       "To Do List",
			Placeholder: "Type a new task",
		},
		Events: models.EventsConfig{
			Enabled: true,
			Path:    ".todo_events.jsonl",
		},
	}
}

// LoadGlobalConfig reads the .todoconfig file from the base path using Viper.
// If the file does not exist, defaults (plus any environment overrides) are
// returned. The result is validated before it is returned.
func (cm *viperConfigManager) LoadGlobalConfig() (*models.GlobalConfig, error) {
	cfg := DefaultGlobalConfig()

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetEnvPrefix("TODO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set Viper defaults so missing keys fall back gracefully.
	v.SetDefault("task_id.prefix", cfg.TaskIDPrefix)
	v.SetDefault("task_id.pad_width", cfg.TaskIDPadWidth)
	v.SetDefault("filter.default", string(cfg.DefaultFilter))
	v.SetDefault("ui.title", cfg.UI.Title)
	v.SetDefault("ui.placeholder", cfg.UI.Placeholder)
	v.SetDefault("events.enabled", cfg.Events.Enabled)
	v.SetDefault("events.path", cfg.Events.Path)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading %s: %w", ConfigFileName, err)
		}
	}

	cfg.TaskIDPrefix = v.GetString("task_id.prefix")
	cfg.TaskIDPadWidth = v.GetInt("task_id.pad_width")
	cfg.UI.Title = v.GetString("ui.title")
	cfg.UI.Placeholder = v.GetString("ui.placeholder")
	cfg.Events.Enabled = v.GetBool("events.enabled")
	cfg.Events.Path = v.GetString("events.path")

	// An unknown filter is kept raw so ValidateConfig reports it with the rest.
	rawFilter := v.GetString("filter.default")
	cfg.DefaultFilter = models.Filter(rawFilter)
	if filter, err := models.ParseFilter(rawFilter); err == nil {
		cfg.DefaultFilter = filter
	}

	if err := cm.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateConfig checks the provided configuration for invalid values and
// returns a clear error message identifying each problem.
func (cm *viperConfigManager) ValidateConfig(cfg *models.GlobalConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if cfg.TaskIDPrefix == "" {
		errs = append(errs, "task_id.prefix must not be empty")
	} else if !validPrefixPattern.MatchString(cfg.TaskIDPrefix) {
		errs = append(errs, fmt.Sprintf(
			"task_id.prefix %q is invalid, must match [A-Z0-9]{1,10}",
			cfg.TaskIDPrefix,
		))
	}

	if cfg.TaskIDPadWidth < 0 || cfg.TaskIDPadWidth > 10 {
		errs = append(errs, fmt.Sprintf(
			"task_id.pad_width %d is invalid, must be between 0 and 10",
			cfg.TaskIDPadWidth,
		))
	}

	if !cfg.DefaultFilter.Valid() {
		errs = append(errs, fmt.Sprintf(
			"filter.default %q is invalid, must be one of: all, active, completed",
			cfg.DefaultFilter,
		))
	}

	if cfg.Events.Enabled && strings.TrimSpace(cfg.Events.Path) == "" {
		errs = append(errs, "events.path must not be empty when events.enabled is true")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
