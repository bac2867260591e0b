// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidDayStatus is returned when a day status is not one of the
	// known states.
	ErrInvalidDayStatus = errors.New("invalid day status")

	// ErrInvalidDifficulty is returned when a difficulty is outside 1..3.
	ErrInvalidDifficulty = errors.New("difficulty must be between 1 and 3")

	// ErrInvalidLanguage is returned when a language code is empty or malformed.
	ErrInvalidLanguage = errors.New("invalid language code")

	// ErrInvalidArtifactType is returned when an artifact type is unknown.
	ErrInvalidArtifactType = errors.New("invalid artifact type")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
