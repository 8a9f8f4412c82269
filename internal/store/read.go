package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Fay3V/601/internal/trace"
)

// ReadRun retrieves a single run by id.
// Returns ErrRunNotFound if no such run exists.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, `
		SELECT id, scenario, digest, ticks, created_seq
		FROM runs
		WHERE id = ?
	`, id))
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return run, nil
}

// ReadTicks returns the recorded ticks of a run ordered by seq.
//
// Returns empty slice (not nil) for a run with no ticks, and ErrRunNotFound
// if the run does not exist.
func (s *Store) ReadTicks(ctx context.Context, runID string) ([]trace.Tick, error) {
	if _, err := s.ReadRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, input, output, done
		FROM ticks
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query ticks: %w", err)
	}
	defer rows.Close()

	ticks := []trace.Tick{}
	for rows.Next() {
		var (
			t             trace.Tick
			input, output sql.NullFloat64
		)
		if err := rows.Scan(&t.Seq, &input, &output, &t.Done); err != nil {
			return nil, fmt.Errorf("scan tick: %w", err)
		}
		t.Input = floatPtr(input)
		t.Output = floatPtr(output)
		ticks = append(ticks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ticks: %w", err)
	}

	return ticks, nil
}

// ReadTrace returns a stored run as a trace.
func (s *Store) ReadTrace(ctx context.Context, runID string) (*trace.Trace, error) {
	run, err := s.ReadRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	ticks, err := s.ReadTicks(ctx, runID)
	if err != nil {
		return nil, err
	}
	return &trace.Trace{Scenario: run.Scenario, RunID: run.ID, Ticks: ticks}, nil
}

// ListRuns returns every run in recording order: ORDER BY created_seq ASC,
// id ASC COLLATE BINARY. A non-empty scenario restricts the list to runs
// of that scenario.
//
// Returns empty slice (not nil) if no runs exist.
func (s *Store) ListRuns(ctx context.Context, scenario string) ([]Run, error) {
	query := `
		SELECT id, scenario, digest, ticks, created_seq
		FROM runs
	`
	var args []any
	if scenario != "" {
		query += ` WHERE scenario = ?`
		args = append(args, scenario)
	}
	query += ` ORDER BY created_seq ASC, id COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRun scans a run row, mapping sql.ErrNoRows to ErrRunNotFound.
func scanRun(row rowScanner) (Run, error) {
	var run Run
	err := row.Scan(&run.ID, &run.Scenario, &run.Digest, &run.Ticks, &run.CreatedSeq)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	return run, nil
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
