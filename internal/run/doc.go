// Package run owns the conversion run lifecycle: the bounded worker pool,
// per-file outcome aggregation, cooperative cancellation, and the decision to
// checkpoint or finalize.
//
// A run holds an immutable Config and a job set produced by a fresh scan or
// restored from a checkpoint. Workers retire jobs on success and on failure;
// jobs interrupted by cancellation stay pending and are written back to the
// checkpoint so a later run can retry them verbatim. The invariant
// completed + pending = total holds whenever the pending set is consistent.
package run
