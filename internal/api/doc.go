// Package api implements the HTTP handlers for the learning plan service:
// plan creation, plan state, day content assembly, and quiz grading.
//
// Handlers translate between HTTP and the domain services. All error
// responses go through MapErrorToStatusCode and GetSafeErrorMessage so
// internal details never leak to clients; in particular, plans a user does
// not own are reported as not found.
package api
