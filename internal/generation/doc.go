// Package generation provides interfaces for the external AI text-generation
// and translation providers, the lenient decoding of model output into typed
// structures, and the error taxonomy shared by all provider adapters. It
// abstracts the details of LLM API integration so the content engine never
// couples to a specific external service.
package generation
