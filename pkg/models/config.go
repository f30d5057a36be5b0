package models

// GlobalConfig holds settings read from .todoconfig via Viper.
type GlobalConfig struct {
	TaskIDPrefix   string `yaml:"task_id_prefix" mapstructure:"task_id_prefix"`
	TaskIDPadWidth int    `yaml:"task_id_pad_width" mapstructure:"task_id_pad_width"`
	DefaultFilter  Filter `yaml:"default_filter" mapstructure:"default_filter"`
	UI             UIConfig
	Events         EventsConfig
}

// UIConfig holds presentation settings for the terminal UI.
type UIConfig struct {
	Title       string `yaml:"title" mapstructure:"title"`
	Placeholder string `yaml:"placeholder" mapstructure:"placeholder"`
}

// EventsConfig controls the JSONL event log.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}
