// Package job runs persisted background work. A Job is a unit of work with
// a type and a JSON payload; the Runner executes jobs on a bounded worker
// pool and records every status transition (pending, processing,
// completed, failed) through a JobStore, so work survives restarts.
//
// Jobs reach the runner two ways: live, through events (an emitted
// JobRequestEvent is turned into a Job by the FactoryEventHandler and
// submitted), and on startup, when Recover reloads unfinished rows and
// rebuilds runnable jobs from their payloads via the type registry. A
// stuck-job monitor resets jobs that sat in processing for too long,
// which covers workers lost mid-flight.
package job
