package store

import (
	"context"
	"fmt"

	"github.com/Fay3V/601/internal/trace"
)

// Verification compares a stored run with a fresh execution.
type Verification struct {
	RunID    string `json:"run_id"`
	Stored   string `json:"stored_digest"`
	Replayed string `json:"replayed_digest"`

	// FirstDivergence is the 1-based index of the first tick that differs,
	// or 0 when the traces match.
	FirstDivergence int `json:"first_divergence,omitempty"`
}

// Match reports whether the replayed trace reproduced the stored one.
func (v Verification) Match() bool {
	return v.Stored == v.Replayed
}

// VerifyRun compares the stored run runID against freshly recorded ticks.
// The digests decide the outcome; the first divergent tick is located to
// help debugging.
func (s *Store) VerifyRun(ctx context.Context, runID string, replayed []trace.Tick) (Verification, error) {
	run, err := s.ReadRun(ctx, runID)
	if err != nil {
		return Verification{}, err
	}
	digest, err := trace.Digest(replayed)
	if err != nil {
		return Verification{}, fmt.Errorf("verify run: %w", err)
	}

	v := Verification{RunID: runID, Stored: run.Digest, Replayed: digest}
	if v.Match() {
		s.logger.Debug("replay matches", "run_id", runID, "digest", digest)
		return v, nil
	}

	stored, err := s.ReadTicks(ctx, runID)
	if err != nil {
		return Verification{}, err
	}
	v.FirstDivergence = firstDivergence(stored, replayed)
	s.logger.Warn("replay diverged",
		"run_id", runID,
		"stored", run.Digest,
		"replayed", digest,
		"tick", v.FirstDivergence)
	return v, nil
}

func firstDivergence(a, b []trace.Tick) int {
	for i := range min(len(a), len(b)) {
		if !sameTick(a[i], b[i]) {
			return i + 1
		}
	}
	if len(a) != len(b) {
		return min(len(a), len(b)) + 1
	}
	return 0
}

func sameTick(a, b trace.Tick) bool {
	return a.Seq == b.Seq && a.Done == b.Done &&
		sameFloat(a.Input, b.Input) && sameFloat(a.Output, b.Output)
}

func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// LastSeq returns the highest created_seq in the store, or 0 when empty.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(created_seq), 0) FROM runs
	`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq, nil
}
