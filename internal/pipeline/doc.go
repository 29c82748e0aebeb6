// Package pipeline orchestrates the batch transform: normalize the raw
// inputs against their contracts, resolve the time-versioned facts to
// latest-as-of snapshots, join dimensions and facts into the master table,
// and compute the derived fields. The result is an immutable Snapshot that
// every view reads without further coordination.
//
// The pipeline is a deterministic, stateless transform invoked once per
// dataset refresh. The only concurrency is resolving the rating and trade
// snapshots in parallel, which share no state and are joined before the
// relational join stage needs both. Snapshots are cached process-wide under
// a refresh token with explicit invalidation; nothing is memoized
// implicitly.
package pipeline
