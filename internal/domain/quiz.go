package domain

import (
	"errors"
	"fmt"
)

// Quiz-specific validation errors
var (
	// ErrQuestionPromptEmpty is returned when a question has no prompt.
	ErrQuestionPromptEmpty = errors.New("question prompt cannot be empty")

	// ErrQuestionAnswerEmpty is returned when a question has no canonical answer.
	ErrQuestionAnswerEmpty = errors.New("question answer cannot be empty")

	// ErrInvalidQuestionType is returned for unknown question types.
	ErrInvalidQuestionType = errors.New("invalid question type")

	// ErrMCQWithoutChoices is returned when an mcq question has no choices.
	ErrMCQWithoutChoices = errors.New("mcq question must have choices")
)

// QuizLength is the fixed number of questions per day quiz. The difficulty
// signal mapping in the grading engine assumes this length.
const QuizLength = 3

// QuestionType distinguishes multiple-choice from short-answer questions.
type QuestionType string

// Valid question types.
const (
	QuestionTypeMCQ   QuestionType = "mcq"
	QuestionTypeShort QuestionType = "short"
)

// IsValid reports whether the question type is known.
func (t QuestionType) IsValid() bool {
	return t == QuestionTypeMCQ || t == QuestionTypeShort
}

// Question is one quiz question. For mcq questions the canonical Answer may
// be stored either as an ordinal letter ("a", "b", ...) or as the full
// choice text; the grading engine handles both. AlternativeAnswers carry
// acceptable equivalents, including cross-language ones.
type Question struct {
	Type               QuestionType `json:"type"`
	Prompt             string       `json:"prompt"`
	Choices            []string     `json:"choices,omitempty"`
	Answer             string       `json:"answer"`
	AlternativeAnswers []string     `json:"alternativeAnswers,omitempty"`
	Explanation        string       `json:"explanation,omitempty"`
}

// Validate checks if the Question has valid data.
func (q *Question) Validate() error {
	if !q.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidQuestionType, q.Type)
	}

	if q.Prompt == "" {
		return ErrQuestionPromptEmpty
	}

	if q.Answer == "" {
		return ErrQuestionAnswerEmpty
	}

	if q.Type == QuestionTypeMCQ && len(q.Choices) == 0 {
		return ErrMCQWithoutChoices
	}

	return nil
}

// Quiz is the quiz artifact body for one Day in one language.
type Quiz struct {
	Questions []Question `json:"questions"`
}

// Validate checks the quiz shape and every question in it.
func (q *Quiz) Validate() error {
	if len(q.Questions) == 0 {
		return ErrEmptyContent
	}

	for i := range q.Questions {
		if err := q.Questions[i].Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}

	return nil
}
