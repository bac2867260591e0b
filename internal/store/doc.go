// Package store defines the persistence interfaces for the core entities
// (User, Plan, Day, QuizAttempt), the shared transaction helper, and the
// error taxonomy the postgres implementations map driver errors onto.
// Services depend on these interfaces, never on a concrete database.
package store
