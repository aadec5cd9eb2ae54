package automation

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kalviumcommunity/S56-Shreyas-OOP-Home-Automation-System/internal/device"
)

// Recent limits.
const (
	defaultRecentLimit = 10
	maxRecentLimit     = 100
)

// timestampFormat is fixed-width so stored timestamps sort lexically.
const timestampFormat = "2006-01-02T15:04:05.000000000Z07:00"

// executionColumns is the SELECT column list for execution queries.
const executionColumns = `id, routine, started_at, duration_ns, devices_matched, transitions, statuses`

// SQLiteHistory implements History using the routine_executions table.
type SQLiteHistory struct {
	db      *sql.DB
	maxRows int
}

// NewSQLiteHistory creates a new SQLite-backed execution history that keeps
// at most maxRows executions, discarding the oldest after each Record.
// maxRows <= 0 keeps every execution.
// The routine_executions migration must already be applied.
func NewSQLiteHistory(db *sql.DB, maxRows int) *SQLiteHistory {
	return &SQLiteHistory{db: db, maxRows: max(maxRows, 0)}
}

// Record inserts an execution record.
func (h *SQLiteHistory) Record(ctx context.Context, exec Execution) error {
	statusesJSON, err := marshalStatuses(exec.Statuses)
	if err != nil {
		return fmt.Errorf("marshalling statuses: %w", err)
	}

	query := `
		INSERT INTO routine_executions (
			id, routine, started_at, duration_ns, devices_matched, transitions, statuses
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = h.db.ExecContext(ctx, query,
		exec.ID,
		exec.Routine,
		exec.StartedAt.UTC().Format(timestampFormat),
		exec.Duration.Nanoseconds(),
		exec.DevicesMatched,
		exec.Transitions,
		statusesJSON,
	)
	if err != nil {
		return fmt.Errorf("inserting execution: %w", err)
	}

	if h.maxRows > 0 {
		if _, err := h.Trim(ctx, h.maxRows); err != nil {
			return err
		}
	}
	return nil
}

// Recent returns the most recent executions, newest first.
// An empty routine name returns executions of every routine.
func (h *SQLiteHistory) Recent(ctx context.Context, routine string, limit int) ([]Execution, error) {
	limit = clampLimit(limit)

	var (
		rows *sql.Rows
		err  error
	)
	if routine == "" {
		query := `SELECT ` + executionColumns + ` FROM routine_executions
			ORDER BY started_at DESC, rowid DESC LIMIT ?`
		rows, err = h.db.QueryContext(ctx, query, limit)
	} else {
		query := `SELECT ` + executionColumns + ` FROM routine_executions
			WHERE routine = ?
			ORDER BY started_at DESC, rowid DESC LIMIT ?`
		rows, err = h.db.QueryContext(ctx, query, routine, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("querying executions: %w", err)
	}
	defer rows.Close()

	executions := make([]Execution, 0)
	for rows.Next() {
		exec, scanErr := scanExecution(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scanning execution: %w", scanErr)
		}
		executions = append(executions, *exec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating executions: %w", err)
	}
	return executions, nil
}

// Prune deletes executions that started before the cutoff and returns the
// number of rows removed.
func (h *SQLiteHistory) Prune(ctx context.Context, before time.Time) (int64, error) {
	result, err := h.db.ExecContext(ctx,
		`DELETE FROM routine_executions WHERE started_at < ?`,
		before.UTC().Format(timestampFormat),
	)
	if err != nil {
		return 0, fmt.Errorf("pruning executions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return n, nil
}

// Trim deletes all but the newest keep executions and returns the number
// of rows removed.
func (h *SQLiteHistory) Trim(ctx context.Context, keep int) (int64, error) {
	result, err := h.db.ExecContext(ctx, `
		DELETE FROM routine_executions WHERE rowid NOT IN (
			SELECT rowid FROM routine_executions
			ORDER BY started_at DESC, rowid DESC LIMIT ?
		)`,
		max(keep, 0),
	)
	if err != nil {
		return 0, fmt.Errorf("trimming executions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return n, nil
}

func scanExecution(rows *sql.Rows) (*Execution, error) {
	var e Execution
	var startedAt string
	var durationNS int64
	var statusesJSON sql.NullString

	err := rows.Scan(
		&e.ID,
		&e.Routine,
		&startedAt,
		&durationNS,
		&e.DevicesMatched,
		&e.Transitions,
		&statusesJSON,
	)
	if err != nil {
		return nil, err
	}

	t, err := time.Parse(timestampFormat, startedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	e.StartedAt = t
	e.Duration = time.Duration(durationNS)

	e.Statuses = make([]device.DeviceStatus, 0)
	if statusesJSON.Valid && statusesJSON.String != "" && statusesJSON.String != "null" {
		if jsonErr := json.Unmarshal([]byte(statusesJSON.String), &e.Statuses); jsonErr != nil {
			return nil, fmt.Errorf("unmarshalling statuses: %w", jsonErr)
		}
	}
	return &e, nil
}

func marshalStatuses(statuses []device.DeviceStatus) (string, error) {
	if statuses == nil {
		statuses = []device.DeviceStatus{}
	}
	b, err := json.Marshal(statuses)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultRecentLimit
	}
	if limit > maxRecentLimit {
		return maxRecentLimit
	}
	return limit
}
