// Package content implements the per-day artifact cache. Every artifact is
// generated at most once, in the first language it is requested in (the base
// language); other languages are derived from the base entry by translation,
// so facts never drift between languages. Resource link artifacts are the
// exception: links are looked up fresh per language instead of translated.
package content
