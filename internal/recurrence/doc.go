// Package recurrence detects weekly-repeating tasks and drafts their
// next-cycle instances.
//
// The Oracle wraps a language-model judgment — does this task read like a
// recurring household, work, or school obligation? — behind a boolean that
// can never fail: model outages, timeouts, and unusable replies all degrade
// to "not recurring". The Generator scans a task list, skips anything whose
// due date doesn't resolve, consults the Oracle for the rest with bounded
// concurrency, and emits proposed drafts due exactly one week after their
// sources, in input order.
//
// Nothing here persists or deduplicates drafts; callers own the proposal
// lifecycle.
package recurrence
