package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/todo-list/internal/observability"
)

var (
	statsJSON  bool
	statsSince string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display activity counts from the event log",
	Long: `Display counts derived from the event log: tasks added, completed,
reopened, edited and deleted, list clears, and filter changes by filter.

The event log records activity only; it is never used to restore tasks.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if MetricsCalc == nil {
			return fmt.Errorf("metrics calculator not initialized (the event log may be disabled)")
		}

		sinceTime, err := observability.ParseSince(statsSince, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("parsing --since: %w", err)
		}

		metrics, err := MetricsCalc.Calculate(sinceTime)
		if err != nil {
			return fmt.Errorf("calculating metrics: %w", err)
		}

		out := cmd.OutOrStdout()

		if statsJSON {
			data, err := json.MarshalIndent(metrics, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting metrics as JSON: %w", err)
			}
			_, _ = fmt.Fprintln(out, string(data))
			return nil
		}

		_, _ = fmt.Fprintf(out, "Stats (since %s)\n\n", sinceTime.Format("2006-01-02"))
		_, _ = fmt.Fprintf(out, "  %-20s %d\n", "Events recorded:", metrics.EventCount)
		_, _ = fmt.Fprintf(out, "  %-20s %d\n", "Tasks added:", metrics.TasksAdded)
		_, _ = fmt.Fprintf(out, "  %-20s %d\n", "Tasks completed:", metrics.TasksCompleted)
		_, _ = fmt.Fprintf(out, "  %-20s %d\n", "Tasks reopened:", metrics.TasksReopened)
		_, _ = fmt.Fprintf(out, "  %-20s %d\n", "Edits saved:", metrics.Edits)
		_, _ = fmt.Fprintf(out, "  %-20s %d\n", "Tasks deleted:", metrics.TasksDeleted)
		_, _ = fmt.Fprintf(out, "  %-20s %d (%d tasks)\n", "Clears:", metrics.Clears, metrics.TasksCleared)

		if len(metrics.FilterChanges) > 0 {
			_, _ = fmt.Fprintln(out, "\n  Filter changes:")
			filters := make([]string, 0, len(metrics.FilterChanges))
			for f := range metrics.FilterChanges {
				filters = append(filters, f)
			}
			sort.Strings(filters)
			for _, f := range filters {
				_, _ = fmt.Fprintf(out, "    %-18s %d\n", f+":", metrics.FilterChanges[f])
			}
		}

		if metrics.OldestEvent != nil {
			_, _ = fmt.Fprintf(out, "\n  %-20s %s\n", "Oldest event:", metrics.OldestEvent.Format(time.RFC3339))
		}
		if metrics.NewestEvent != nil {
			_, _ = fmt.Fprintf(out, "  %-20s %s\n", "Newest event:", metrics.NewestEvent.Format(time.RFC3339))
		}

		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output stats as JSON")
	statsCmd.Flags().StringVar(&statsSince, "since", observability.DefaultSince, "Time window (e.g. 7d, 30d, 24h)")
	rootCmd.AddCommand(statsCmd)
}
