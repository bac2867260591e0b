package grading

import (
	"strings"

	"github.com/pathwise/pathwise-api/internal/domain"
)

// fuzzyMinLength is the minimum user-answer length for the containment rule
// where the canonical answer contains the user's answer. Shorter inputs like
// "a" would otherwise match almost anything.
const fuzzyMinLength = 3

// matchAnswer decides whether the given answer is correct for the question.
// Rules are applied in order; the first match wins:
//
//  1. Exact case-insensitive trimmed match against the canonical answer.
//  2. For mcq: the answer is mapped between choice text and ordinal letter
//     and compared against the canonical answer in both representations.
//  3. Case-insensitive trimmed match against any alternative answer.
//  4. Fuzzy containment in either direction, with a length guard when the
//     canonical answer contains the user's answer.
//
// An empty answer is always incorrect.
func matchAnswer(q *domain.Question, answer string) bool {
	given := normalize(answer)
	if given == "" {
		return false
	}

	canonical := normalize(q.Answer)

	// Rule 1: exact match.
	if given == canonical {
		return true
	}

	// Rule 2: mcq letter/text mapping.
	if q.Type == domain.QuestionTypeMCQ && matchChoice(q.Choices, canonical, given) {
		return true
	}

	// Rule 3: alternative answers.
	for _, alt := range q.AlternativeAnswers {
		if given == normalize(alt) {
			return true
		}
	}

	// Rule 4: fuzzy containment. The user's answer containing the canonical
	// one is accepted as-is ("interfaces" for "interface"); the reverse
	// direction requires the user's answer to be longer than fuzzyMinLength.
	if strings.Contains(given, canonical) {
		return true
	}
	if len(given) > fuzzyMinLength && strings.Contains(canonical, given) {
		return true
	}

	return false
}

// matchChoice handles canonical answers stored as either an ordinal letter
// or the full choice text. If the user typed the text of a choice, its
// ordinal letter is compared against the canonical answer; if the user typed
// a letter, the letter is resolved to its choice text and compared.
func matchChoice(choices []string, canonical, given string) bool {
	for i, choice := range choices {
		letter := ordinalLetter(i)
		text := normalize(choice)

		if given == text && canonical == letter {
			return true
		}
		if given == letter && canonical == text {
			return true
		}
		// Canonical stored as text, user picked the matching choice text:
		// covered by rule 1. Canonical as letter, user typed the same
		// letter: also rule 1. Only the cross representations land here.
	}
	return false
}

// ordinalLetter maps a choice index to its letter: 0 -> "a", 1 -> "b", ...
func ordinalLetter(i int) string {
	return string(rune('a' + i))
}

// normalize lowercases and trims an answer for comparison.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
