// Package openai implements the generation.Translator interface using the
// OpenAI chat completions API. Batch translations are carried as JSON arrays
// so a set of short strings costs one round trip.
package openai
