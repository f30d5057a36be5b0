// Package observability provides the event log and metrics for the to-do
// list. Events are appended as JSON Lines (JSONL) and metrics are derived
// on demand by scanning the log. The log is an audit trail only; task state
// is never rebuilt from it.
package observability
