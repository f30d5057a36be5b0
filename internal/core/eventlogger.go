package core

// EventLogger is the subset of the observability event log that the task
// store needs. Defining it here avoids importing the observability package.
type EventLogger interface {
	LogEvent(eventType string, data map[string]any) error
}
