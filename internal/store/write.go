package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Fay3V/601/internal/trace"
)

// Run is a recorded scenario run.
type Run struct {
	ID       string `json:"id"`
	Scenario string `json:"scenario"`
	Digest   string `json:"digest"`

	// Ticks is the number of recorded ticks.
	Ticks int `json:"ticks"`

	// CreatedSeq orders runs by recording; assigned by WriteRun.
	CreatedSeq int64 `json:"created_seq"`
}

// WriteRun records a run and its ticks in one transaction and returns the
// run as stored.
//
// An empty run.Digest is computed from ticks; a non-empty one must match
// (ErrDigestMismatch). Writing the same run twice is a no-op that returns
// the stored record. Reusing an id for a different trace is ErrRunConflict.
func (s *Store) WriteRun(ctx context.Context, run Run, ticks []trace.Tick) (Run, error) {
	digest, err := trace.Digest(ticks)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}
	if run.Digest == "" {
		run.Digest = digest
	} else if run.Digest != digest {
		return Run{}, fmt.Errorf("write run %s: %w", run.ID, ErrDigestMismatch)
	}
	run.Ticks = len(ticks)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	existing, err := scanRun(tx.QueryRowContext(ctx, `
		SELECT id, scenario, digest, ticks, created_seq
		FROM runs
		WHERE id = ?
	`, run.ID))
	switch {
	case err == nil:
		if existing.Digest != run.Digest || existing.Scenario != run.Scenario {
			return Run{}, fmt.Errorf("write run %s: %w", run.ID, ErrRunConflict)
		}
		s.logger.Debug("run already recorded", "run_id", run.ID)
		return existing, nil
	case !errors.Is(err, ErrRunNotFound):
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	if err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(created_seq), 0) + 1 FROM runs
	`).Scan(&run.CreatedSeq); err != nil {
		return Run{}, fmt.Errorf("write run: next seq: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, scenario, digest, ticks, created_seq)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.Scenario, run.Digest, run.Ticks, run.CreatedSeq); err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ticks (run_id, seq, input, output, done)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return Run{}, fmt.Errorf("write run: prepare ticks: %w", err)
	}
	defer stmt.Close()

	for _, t := range ticks {
		if _, err := stmt.ExecContext(ctx, run.ID, t.Seq, nullFloat(t.Input), nullFloat(t.Output), t.Done); err != nil {
			return Run{}, fmt.Errorf("write run: tick %d: %w", t.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("write run: commit: %w", err)
	}

	s.logger.Info("run recorded",
		"run_id", run.ID,
		"scenario", run.Scenario,
		"ticks", run.Ticks,
		"created_seq", run.CreatedSeq)
	return run, nil
}

// DeleteRun removes a run and its ticks. Deleting a missing run is
// ErrRunNotFound.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete run %s: %w", id, ErrRunNotFound)
	}
	return nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
