// Package events carries progression side effects out of the transactional
// core. Emitting happens after the owning transaction commits, so handlers
// never observe state that later rolls back.
package events
