// Package store provides SQLite-backed durable storage for recorded
// scenario runs.
//
// The store is an append-only run log:
//   - Runs: one record per executed scenario (id, scenario name, trace
//     digest, tick count, logical creation sequence)
//   - Ticks: the recorded input, output and done flag of every step
//
// Only what a run produced is stored. Machine state is never persisted, so a
// stored run can be compared against a fresh execution but not resumed.
//
// # Ordering
//
// All ordering uses logical sequence numbers, never timestamps. Runs are
// listed by created_seq, which the store assigns on write; ticks by seq.
// Queries break ties with id COLLATE BINARY so results are identical across
// processes.
//
// # Integrity
//
// Every run carries the digest of its ticks (trace.Digest). WriteRun
// rejects a run whose digest does not match its ticks, and VerifyRun
// compares a stored run against freshly recorded ticks.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
