// Package insight produces the assistant-backed reading of a user's task
// list: priority advice for a single task, aggregate stats, and a short
// weekly summary in a coaching tone.
//
// Every assistant call here follows the same contract: one attempt, and on
// any failure a deterministic local stand-in takes over — rules-derived
// advice, or a plain sentence built from the stats. Callers can tell the
// two apart through the Source field but never see an error for assistant
// reasons. Database errors still propagate normally.
package insight
