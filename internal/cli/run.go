package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/todo-list/internal/core"
	"gopkg.in/yaml.v3"
)

var (
	runOutput string
	runStep   bool
)

var runCmd = &cobra.Command{
	Use:   "run <script.yaml>",
	Short: "Replay a YAML script of to-do intents",
	Long: `Replay a YAML script of intents against a fresh list and print the result.

Each step is exactly one intent:

  steps:
    - add: Buy milk
    - toggle: {match: Buy milk}
    - edit: {id: TASK-2, to: Call dad}
    - save: TASK-2
    - delete: {match: Call mom}
    - filter: completed
    - clear: true

Steps that reference a missing task are skipped without error. Use "-" to
read the script from stdin. --step prints the view after every step.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("task store not initialized")
		}

		format := strings.ToLower(runOutput)
		switch format {
		case "table", "yaml", "json":
		default:
			return fmt.Errorf("unsupported output format %q (use table, yaml or json)", runOutput)
		}

		script, err := loadRunScript(cmd, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		if runStep {
			var results []core.StepResult
			script.Replay(Store, func(res core.StepResult) {
				results = append(results, res)
			})
			return writeStepResults(out, format, results)
		}

		snap := script.Replay(Store, nil)
		return writeSnapshot(out, format, snap)
	},
}

func init() {
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "table", "Output format: table, yaml or json")
	runCmd.Flags().BoolVar(&runStep, "step", false, "Print the view after every step")
	rootCmd.AddCommand(runCmd)
}

func loadRunScript(cmd *cobra.Command, path string) (*core.Script, error) {
	if path != "-" {
		script, err := core.LoadScript(path)
		if err != nil {
			return nil, fmt.Errorf("loading script: %w", err)
		}
		return script, nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("reading script from stdin: %w", err)
	}
	script, err := core.ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("loading script: %w", err)
	}
	return script, nil
}

func writeSnapshot(w io.Writer, format string, snap core.Snapshot) error {
	switch format {
	case "yaml":
		return writeYAML(w, snap)
	case "json":
		return writeJSON(w, snap)
	default:
		writeTable(w, snap)
		return nil
	}
}

func writeStepResults(w io.Writer, format string, results []core.StepResult) error {
	switch format {
	case "yaml":
		return writeYAML(w, results)
	case "json":
		return writeJSON(w, results)
	}

	for i, res := range results {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		status := "applied"
		if !res.Applied {
			status = "no-op"
		}
		header := fmt.Sprintf("Step %d: %s", res.Index+1, res.Kind)
		if res.TaskID != "" {
			header += " " + res.TaskID
		}
		_, _ = fmt.Fprintf(w, "%s (%s)\n", header, status)
		writeTable(w, res.Snapshot)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("formatting output as YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("formatting output as YAML: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("formatting output as JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeTable(w io.Writer, snap core.Snapshot) {
	_, _ = fmt.Fprintf(w, "Filter: %s | %s (%d active, %d completed)\n\n",
		snap.Filter.Label(), pluralTasks(snap.Total), snap.Active, snap.Completed)

	if len(snap.View) == 0 {
		_, _ = fmt.Fprintln(w, "  No tasks.")
		return
	}

	_, _ = fmt.Fprintf(w, "  %-10s %-6s %s\n", "ID", "DONE", "TEXT")
	_, _ = fmt.Fprintf(w, "  %-10s %-6s %s\n", "--", "----", "----")
	for _, t := range snap.View {
		done := ""
		if t.Completed {
			done = "x"
		}
		text := t.Text
		if t.Editing {
			text += " (editing)"
		}
		_, _ = fmt.Fprintf(w, "  %-10s %-6s %s\n", t.ID, done, text)
	}
}
