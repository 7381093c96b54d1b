package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matiasleandrokruk/zephyrtools/internal/domain/operation"
)

// Fixed-width UTC timestamps keep started_at ordering lexicographic.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var ErrInvalidRecord = errors.New("invalid audit record")

// Service writes and reads the invocation log. Log is the only write path;
// there is no update or delete.
type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Log appends rec, assigning a UUIDv7 when rec.ID is empty.
func (s *Service) Log(ctx context.Context, rec *Record) error {
	if rec == nil || rec.Operation == "" {
		return fmt.Errorf("%w: operation is required", ErrInvalidRecord)
	}
	if rec.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("audit: generate id: %w", err)
		}
		rec.ID = id.String()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}

	var exitCode sql.NullInt64
	if rec.ExitCode != nil {
		exitCode = sql.NullInt64{Int64: int64(*rec.ExitCode), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invocation_log (id, operation, subject, command_line, exit_code, outcome, error, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Operation, rec.Subject, rec.CommandLine, exitCode, string(rec.Outcome), rec.Error,
		rec.StartedAt.UTC().Format(timeLayout), rec.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("audit: insert %s: %w", rec.ID, err)
	}
	return nil
}

// List returns records newest first.
func (s *Service) List(ctx context.Context, f ListFilter) ([]*Record, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var (
		where []string
		args  []any
	)
	if f.Operation != "" {
		where = append(where, "operation = ?")
		args = append(args, f.Operation)
	}
	if f.Subject != "" {
		where = append(where, "subject = ?")
		args = append(args, f.Subject)
	}

	query := `SELECT id, operation, subject, command_line, exit_code, outcome, error, started_at, duration_ms FROM invocation_log`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += ` ORDER BY started_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("audit: list: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit: list: %w", err)
	}
	return out, nil
}

func scanRecord(rows *sql.Rows) (*Record, error) {
	var (
		rec       Record
		exitCode  sql.NullInt64
		outcome   string
		startedAt string
		millis    int64
	)
	if err := rows.Scan(&rec.ID, &rec.Operation, &rec.Subject, &rec.CommandLine, &exitCode, &outcome, &rec.Error, &startedAt, &millis); err != nil {
		return nil, fmt.Errorf("audit: scan: %w", err)
	}

	started, err := time.Parse(timeLayout, startedAt)
	if err != nil {
		return nil, fmt.Errorf("audit: parse started_at %q: %w", startedAt, err)
	}
	rec.StartedAt = started
	rec.Outcome = operation.Outcome(outcome)
	rec.Duration = time.Duration(millis) * time.Millisecond
	if exitCode.Valid {
		code := int(exitCode.Int64)
		rec.ExitCode = &code
	}
	return &rec, nil
}
