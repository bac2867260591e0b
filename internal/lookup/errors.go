package lookup

import "errors"

// Common errors returned by the lookup package.
var (
	// ErrQuotaExceeded marks a provider response that indicates credential
	// quota or rate exhaustion. The pool reacts by cooling the credential
	// and rotating to the next one.
	ErrQuotaExceeded = errors.New("lookup credential quota exceeded")

	// ErrNoCredentials is returned by Execute when the pool has no
	// credentials configured at all.
	ErrNoCredentials = errors.New("no lookup credentials configured")

	// ErrAllCredentialsCooling is returned when every credential failed with
	// a quota error within one Execute call. Callers build degraded
	// fallback results instead of failing the request.
	ErrAllCredentialsCooling = errors.New("all lookup credentials are cooling down")

	// ErrNoResults is returned when a provider answered but had no
	// admissible result for the query.
	ErrNoResults = errors.New("no admissible lookup results")
)

// IsDegradationError reports whether the error is one the callers should
// absorb by degrading (pool exhaustion or empty results) rather than a
// provider or programming failure.
func IsDegradationError(err error) bool {
	return errors.Is(err, ErrNoCredentials) ||
		errors.Is(err, ErrAllCredentialsCooling) ||
		errors.Is(err, ErrNoResults)
}
