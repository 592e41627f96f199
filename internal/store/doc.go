// Package store defines interfaces for data persistence operations over
// tasks, users, and recurrence suggestions. These interfaces abstract the
// underlying data storage mechanism from the application's core logic,
// allowing business rules to remain independent of specific database
// technologies or persistence details. Implementations translate their
// driver-level failures onto the sentinel errors declared here.
package store
