// Package gemini implements the generation.TextGenerator interface using
// Google's Gemini API. The adapter retries transient provider failures with
// exponential backoff and classifies capacity responses as
// generation.ErrQuotaExceeded so callers can degrade gracefully.
package gemini
