// Package generation submits episode jobs to the remote pipeline and polls
// them to a terminal state.
//
// The pipeline owns the job; this package only observes it. A transient
// request failure during polling is treated as "still pending" and retried on
// the next tick, so a flaky network never fails a job that the service is
// still working on.
package generation
