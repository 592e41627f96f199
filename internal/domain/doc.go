// Package domain contains the core business entities, value objects, and
// domain logic of the application: tasks, user accounts, and recurrence
// suggestions, independent of any specific infrastructure or delivery
// mechanism. Date interpretation and urgency rules live in the dates and
// urgency subpackages.
package domain
