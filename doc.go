// Package redsession provides Redis-backed session persistence for web
// applications: fail-open reads and writes, pluggable record serialization,
// and a zero-downtime migration path for the storage-key scheme derived from
// session identifiers.
//
// The package is designed for concurrent server workloads: Store methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build]. The Store holds no in-process session state — all shared
// mutable state lives in Redis, and concurrent creation of the same
// identifier is resolved with Redis's atomic set-if-absent primitive rather
// than any in-process lock.
//
// # Key migration
//
// A session identifier has two storage-key forms: the legacy public form
// (prefix + raw identifier) and the hardened private form (prefix + a
// versioned one-way derivation of the identifier). Four independent
// [MigrationConfig] flags select which forms participate in reads and
// writes, so a fleet can move from public to private keys without breaking
// live sessions. Reads always prefer the private form.
//
// # Availability contract
//
// Store outages and corrupt records are invisible to the host application by
// default: Find degrades to a fresh, empty session instead of returning an
// error, and deletes are best-effort with TTL expiry as the backstop.
// Failures are surfaced only through the optional OnDown and OnDecodeError
// handlers and the metrics counters. This trades strict session continuity
// for availability; hosts that need hard failures can re-raise (panic) from
// inside the OnDown handler.
//
// # What this package must NOT do
//
//   - Set cookies, route requests, or otherwise touch the host framework's
//     HTTP surface.
//   - Retry identifier collisions: a rejected set-if-absent write is reported
//     as a failed write and the caller decides what to do.
//   - Perform I/O outside of Store methods (construction via Builder is
//     allocation-only until Build).
package redsession
