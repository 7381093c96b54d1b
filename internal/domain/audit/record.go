// Package audit keeps an append-only history of dispatched operations.
package audit

import (
	"time"

	"github.com/matiasleandrokruk/zephyrtools/internal/domain/operation"
)

// Record is one row of the invocation log. Records are never modified
// once written.
type Record struct {
	ID          string            `json:"id"`
	Operation   string            `json:"operation"`
	Subject     string            `json:"subject,omitempty"`
	CommandLine string            `json:"command_line,omitempty"`
	ExitCode    *int              `json:"exit_code,omitempty"`
	Outcome     operation.Outcome `json:"outcome"`
	Error       string            `json:"error,omitempty"`
	StartedAt   time.Time         `json:"started_at"`
	Duration    time.Duration     `json:"duration"`
}

// FromEvent converts a dispatcher completion event into a Record without an ID.
func FromEvent(evt operation.CompletedEvent) *Record {
	return &Record{
		Operation:   evt.Operation,
		Subject:     evt.Subject,
		CommandLine: evt.CommandLine,
		ExitCode:    evt.ExitCode,
		Outcome:     evt.Outcome,
		Error:       evt.Error,
		StartedAt:   evt.StartedAt,
		Duration:    evt.Duration,
	}
}

// ListFilter narrows List. Empty fields match everything; a zero Limit
// means DefaultListLimit.
type ListFilter struct {
	Operation string
	Subject   string
	Limit     int
}

const DefaultListLimit = 50
