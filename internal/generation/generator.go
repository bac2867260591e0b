package generation

import "context"

// TextGenerator defines the interface for the external AI text-generation
// provider. This interface is the boundary between the content engine and
// the LLM service; implementations classify capacity errors as
// ErrQuotaExceeded so callers can present a retryable outcome.
type TextGenerator interface {
	// Generate produces free-form text for the given prompt, bounded by
	// maxTokens. The returned text is raw model output; callers that expect
	// structure run it through DecodeLenient.
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Translator defines the interface for the external translation provider.
// The batch form exists so short strings (titles, quiz items) can be
// translated in one round trip.
type Translator interface {
	// Translate converts text from one language to another. The context hint
	// describes the domain of the text (e.g. "lesson step titles") so the
	// provider can keep terminology stable.
	Translate(ctx context.Context, text, fromLang, toLang, hint string) (string, error)

	// TranslateBatch converts a slice of short strings in one call,
	// preserving order and length.
	TranslateBatch(ctx context.Context, texts []string, fromLang, toLang, hint string) ([]string, error)
}
