// Package service contains the application use cases: it orchestrates
// domain objects, stores, the urgency rules, and the recurrence generator
// to fulfill the task and suggestion features.
//
// Services receive their dependencies through constructor injection and
// apply transactional boundaries via store.RunInTransaction wherever an
// operation spans multiple statements. They depend on store interfaces,
// never on the postgres implementations, and translate store sentinels
// into wrapped errors the API layer can map onto status codes with
// errors.Is.
package service
