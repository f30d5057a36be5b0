package core

import (
	"fmt"
	"sync/atomic"
)

// TaskIDGenerator defines the interface for generating unique task IDs.
type TaskIDGenerator interface {
	GenerateTaskID() string
}

// counterTaskIDGenerator hands out IDs from a monotonic in-memory counter.
// The counter lives as long as the process and is never rewound, so an ID
// is never handed out twice even after the task that held it is deleted.
type counterTaskIDGenerator struct {
	prefix   string
	padWidth int
	counter  atomic.Int64
}

// NewTaskIDGenerator creates a new TaskIDGenerator. padWidth controls the
// zero-padding width of the numeric portion. Use 0 for no padding (e.g., TASK-1).
func NewTaskIDGenerator(prefix string, padWidth int) TaskIDGenerator {
	if prefix == "" {
		prefix = "TASK"
	}
	return &counterTaskIDGenerator{
		prefix:   prefix,
		padWidth: padWidth,
	}
}

// GenerateTaskID increments the counter and returns the formatted task ID.
// Format: {prefix}-{counter} or {prefix}-{counter:0Nd} when padded.
func (g *counterTaskIDGenerator) GenerateTaskID() string {
	n := g.counter.Add(1)
	if g.padWidth > 0 {
		return fmt.Sprintf("%s-%0*d", g.prefix, g.padWidth, n)
	}
	return fmt.Sprintf("%s-%d", g.prefix, n)
}
