package observability

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pgregory.net/rapid"
)

var storeEventTypes = []string{
	EventTaskAdded, EventTaskCompleted, EventTaskReopened, EventTaskEditStarted,
	EventTaskEditCommitted, EventTaskDeleted, EventFilterChanged, EventTasksCleared,
}

// For any mix of store events, per-type counters equal the number of events
// of that type and EventCount equals the total.
func TestProperty_MetricsCountsMatchEvents(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		dir, err := os.MkdirTemp("", "metrics-property-*")
		if err != nil {
			rt.Fatalf("creating temp dir: %v", err)
		}
		defer os.RemoveAll(dir)

		el, err := NewJSONLEventLog(filepath.Join(dir, "events.jsonl"))
		if err != nil {
			rt.Fatalf("creating event log: %v", err)
		}
		defer el.Close()

		n := rapid.IntRange(0, 40).Draw(rt, "n")
		base := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
		counts := make(map[string]int)
		filters := make(map[string]int)

		for i := 0; i < n; i++ {
			typ := rapid.SampledFrom(storeEventTypes).Draw(rt, fmt.Sprintf("type_%d", i))
			data := map[string]any{"task_id": fmt.Sprintf("TASK-%d", i)}
			if typ == EventFilterChanged {
				f := rapid.SampledFrom([]string{"all", "active", "completed"}).Draw(rt, fmt.Sprintf("filter_%d", i))
				data = map[string]any{"filter": f}
				filters[f]++
			}
			counts[typ]++
			if err := el.Write(Event{Time: base.Add(time.Duration(i) * time.Second), Type: typ, Data: data}); err != nil {
				rt.Fatalf("writing event: %v", err)
			}
		}

		m, err := NewMetricsCalculator(el).Calculate(base.Add(-time.Hour))
		if err != nil {
			rt.Fatalf("calculating metrics: %v", err)
		}

		if m.EventCount != n {
			rt.Fatalf("EventCount = %d, want %d", m.EventCount, n)
		}
		if m.TasksAdded != counts[EventTaskAdded] {
			rt.Fatalf("TasksAdded = %d, want %d", m.TasksAdded, counts[EventTaskAdded])
		}
		if m.TasksCompleted != counts[EventTaskCompleted] {
			rt.Fatalf("TasksCompleted = %d, want %d", m.TasksCompleted, counts[EventTaskCompleted])
		}
		if m.TasksDeleted != counts[EventTaskDeleted] {
			rt.Fatalf("TasksDeleted = %d, want %d", m.TasksDeleted, counts[EventTaskDeleted])
		}
		if m.Edits != counts[EventTaskEditCommitted] {
			rt.Fatalf("Edits = %d, want %d", m.Edits, counts[EventTaskEditCommitted])
		}
		for f, c := range filters {
			if m.FilterChanges[f] != c {
				rt.Fatalf("FilterChanges[%s] = %d, want %d", f, m.FilterChanges[f], c)
			}
		}
	})
}
