package mocks

import (
	"context"
	"sync"

	"github.com/pathwise/pathwise-api/internal/generation"
)

// MockTextGenerator implements generation.TextGenerator for testing.
type MockTextGenerator struct {
	// GenerateFn allows test cases to mock the Generate behavior.
	GenerateFn func(ctx context.Context, prompt string, maxTokens int) (string, error)

	// Default response values used when GenerateFn is nil.
	Text string
	Err  error

	mu      sync.Mutex
	count   int
	prompts []string
}

// Ensure MockTextGenerator implements generation.TextGenerator
var _ generation.TextGenerator = (*MockTextGenerator)(nil)

// Generate implements generation.TextGenerator
func (m *MockTextGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	m.mu.Lock()
	m.count++
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, prompt, maxTokens)
	}
	return m.Text, m.Err
}

// CallCount returns how many times Generate was called.
func (m *MockTextGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// Prompts returns the prompts passed to Generate, in call order.
func (m *MockTextGenerator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// MockTranslator implements generation.Translator for testing.
type MockTranslator struct {
	// TranslateFn allows test cases to mock single-string translation.
	TranslateFn func(ctx context.Context, text, fromLang, toLang, hint string) (string, error)

	// TranslateBatchFn allows test cases to mock batch translation.
	TranslateBatchFn func(ctx context.Context, texts []string, fromLang, toLang, hint string) ([]string, error)

	// Err is returned by both methods when the function fields are nil.
	Err error

	mu         sync.Mutex
	count      int
	batchCount int
}

// Ensure MockTranslator implements generation.Translator
var _ generation.Translator = (*MockTranslator)(nil)

// Translate implements generation.Translator. The default behavior prefixes
// the text with the target language so tests can spot translated output.
func (m *MockTranslator) Translate(ctx context.Context, text, fromLang, toLang, hint string) (string, error) {
	m.mu.Lock()
	m.count++
	m.mu.Unlock()

	if m.TranslateFn != nil {
		return m.TranslateFn(ctx, text, fromLang, toLang, hint)
	}
	if m.Err != nil {
		return "", m.Err
	}
	return "[" + toLang + "] " + text, nil
}

// TranslateBatch implements generation.Translator
func (m *MockTranslator) TranslateBatch(ctx context.Context, texts []string, fromLang, toLang, hint string) ([]string, error) {
	m.mu.Lock()
	m.batchCount++
	m.mu.Unlock()

	if m.TranslateBatchFn != nil {
		return m.TranslateBatchFn(ctx, texts, fromLang, toLang, hint)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = "[" + toLang + "] " + t
	}
	return out, nil
}

// CallCount returns how many times Translate was called.
func (m *MockTranslator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// BatchCallCount returns how many times TranslateBatch was called.
func (m *MockTranslator) BatchCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.batchCount
}
