package models

// Event types recorded for task store changes.
const (
	EventTaskAdded         = "task.added"
	EventTaskCompleted     = "task.completed"
	EventTaskReopened      = "task.reopened"
	EventTaskEditStarted   = "task.edit_started"
	EventTaskEditCommitted = "task.edit_committed"
	EventTaskDeleted       = "task.deleted"
	EventFilterChanged     = "filter.changed"
	EventTasksCleared      = "tasks.cleared"
)
