// Package progression implements the day state machine: grading submissions,
// marking days done, keeping the user's streak, and unlocking the next day
// with an adapted difficulty. All state transitions for a passing grade
// happen in one transaction guarded by the day's optimistic update check.
package progression
