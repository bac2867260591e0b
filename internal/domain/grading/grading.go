// Package grading implements deterministic scoring of quiz answers and the
// difficulty signal derived from the score. Grading is a pure function over
// the quiz and the submitted answers; it performs no I/O and never consults
// the model that produced the quiz. Any AI-written feedback text is cosmetic
// and must not change the computed signal.
package grading

import (
	"errors"
	"fmt"

	"github.com/pathwise/pathwise-api/internal/domain"
)

// Common grading errors
var (
	// ErrAnswerCountMismatch is returned when the number of answers does not
	// match the number of questions.
	ErrAnswerCountMismatch = errors.New("answer count does not match question count")

	// ErrNoQuestions is returned when grading is attempted on an empty quiz.
	ErrNoQuestions = errors.New("quiz has no questions")
)

// QuestionResult is the per-question outcome of one grading pass.
type QuestionResult struct {
	Correct  bool   `json:"correct"`
	Expected string `json:"expected"`
	Given    string `json:"given"`
}

// Result is the outcome of grading one quiz submission.
type Result struct {
	Score       int              `json:"score"`
	Total       int              `json:"total"`
	PerQuestion []QuestionResult `json:"per_question"`
	Signal      DifficultySignal `json:"signal"`
}

// Grade scores the given answers against the quiz questions. The answers
// slice must have exactly one entry per question; an empty string means the
// question was left unanswered and is always incorrect.
func Grade(questions []domain.Question, answers []string) (*Result, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	if len(answers) != len(questions) {
		return nil, fmt.Errorf("%w: %d answers for %d questions",
			ErrAnswerCountMismatch, len(answers), len(questions))
	}

	result := &Result{
		Total:       len(questions),
		PerQuestion: make([]QuestionResult, len(questions)),
	}

	for i := range questions {
		correct := matchAnswer(&questions[i], answers[i])
		if correct {
			result.Score++
		}
		result.PerQuestion[i] = QuestionResult{
			Correct:  correct,
			Expected: questions[i].Answer,
			Given:    answers[i],
		}
	}

	result.Signal = SignalFromScore(result.Score, result.Total)

	return result, nil
}
