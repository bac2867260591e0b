package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathwise/pathwise-api/internal/domain"
)

func shortQuestion(answer string, alts ...string) domain.Question {
	return domain.Question{
		Type:               domain.QuestionTypeShort,
		Prompt:             "prompt",
		Answer:             answer,
		AlternativeAnswers: alts,
	}
}

func mcqQuestion(answer string, choices ...string) domain.Question {
	return domain.Question{
		Type:    domain.QuestionTypeMCQ,
		Prompt:  "prompt",
		Answer:  answer,
		Choices: choices,
	}
}

func TestGradeValidation(t *testing.T) {
	t.Parallel()

	t.Run("answer count mismatch", func(t *testing.T) {
		t.Parallel()
		_, err := Grade([]domain.Question{shortQuestion("x")}, []string{"a", "b"})
		assert.ErrorIs(t, err, ErrAnswerCountMismatch)
	})

	t.Run("empty quiz", func(t *testing.T) {
		t.Parallel()
		_, err := Grade(nil, nil)
		assert.ErrorIs(t, err, ErrNoQuestions)
	})
}

func TestMatchAnswer(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		question domain.Question
		answer   string
		correct  bool
	}{
		{
			name:     "exact match",
			question: shortQuestion("interface"),
			answer:   "interface",
			correct:  true,
		},
		{
			name:     "exact match is case-insensitive and trimmed",
			question: shortQuestion("Interface"),
			answer:   "  INTERFACE  ",
			correct:  true,
		},
		{
			name:     "empty answer is always incorrect",
			question: shortQuestion("interface"),
			answer:   "",
			correct:  false,
		},
		{
			name:     "whitespace-only answer is always incorrect",
			question: shortQuestion("interface"),
			answer:   "   ",
			correct:  false,
		},
		{
			name:     "alternative answer accepted",
			question: shortQuestion("goroutine", "green thread", "lightweight thread"),
			answer:   "Green Thread",
			correct:  true,
		},
		{
			name:     "cross-language alternative accepted",
			question: shortQuestion("loop", "schleife"),
			answer:   "Schleife",
			correct:  true,
		},
		{
			name:     "mcq canonical letter, user typed choice text",
			question: mcqQuestion("b", "map", "slice", "channel"),
			answer:   "Slice",
			correct:  true,
		},
		{
			name:     "mcq canonical text, user typed letter",
			question: mcqQuestion("channel", "map", "slice", "channel"),
			answer:   "c",
			correct:  true,
		},
		{
			name:     "mcq wrong letter",
			question: mcqQuestion("b", "map", "slice", "channel"),
			answer:   "a",
			correct:  false,
		},
		{
			name:     "mcq wrong choice text",
			question: mcqQuestion("b", "map", "slice", "channel"),
			answer:   "channel",
			correct:  false,
		},
		{
			name:     "fuzzy: user answer contains canonical",
			question: shortQuestion("interface"),
			answer:   "interfaces",
			correct:  true,
		},
		{
			name:     "fuzzy: canonical contains user answer above length guard",
			question: shortQuestion("interfaces"),
			answer:   "face",
			correct:  true,
		},
		{
			name:     "fuzzy: canonical contains user answer at boundary length 3",
			question: shortQuestion("interfaces"),
			answer:   "int",
			correct:  false,
		},
		{
			name:     "fuzzy: canonical contains user answer at boundary length 4",
			question: shortQuestion("interfaces"),
			answer:   "inte",
			correct:  true,
		},
		{
			name:     "fuzzy: trivial substring rejected",
			question: shortQuestion("a channel of channels"),
			answer:   "a",
			correct:  false,
		},
		{
			name:     "no match",
			question: shortQuestion("interface"),
			answer:   "struct",
			correct:  false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := matchAnswer(&tc.question, tc.answer)
			assert.Equal(t, tc.correct, got)
		})
	}
}

func TestGradeScoreAndSignal(t *testing.T) {
	t.Parallel()

	questions := []domain.Question{
		shortQuestion("interface"),
		mcqQuestion("b", "map", "slice", "channel"),
		shortQuestion("goroutine", "green thread"),
	}

	testCases := []struct {
		name    string
		answers []string
		score   int
		signal  DifficultySignal
	}{
		{
			name:    "all correct is too easy",
			answers: []string{"interface", "slice", "green thread"},
			score:   3,
			signal:  SignalTooEasy,
		},
		{
			name:    "one wrong is on track",
			answers: []string{"interface", "map", "goroutine"},
			score:   2,
			signal:  SignalOnTrack,
		},
		{
			name:    "two wrong is too hard",
			answers: []string{"struct", "map", "goroutine"},
			score:   1,
			signal:  SignalTooHard,
		},
		{
			name:    "all wrong is too hard",
			answers: []string{"", "", ""},
			score:   0,
			signal:  SignalTooHard,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result, err := Grade(questions, tc.answers)
			require.NoError(t, err)
			assert.Equal(t, tc.score, result.Score)
			assert.Equal(t, domain.QuizLength, result.Total)
			assert.Equal(t, tc.signal, result.Signal)
			assert.Len(t, result.PerQuestion, len(questions))
		})
	}
}

func TestNextDifficulty(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		current  int
		signal   DifficultySignal
		expected int
	}{
		{"too easy increments", 1, SignalTooEasy, 2},
		{"too easy clamps at max", 3, SignalTooEasy, 3},
		{"on track unchanged", 2, SignalOnTrack, 2},
		{"too hard decrements", 2, SignalTooHard, 1},
		{"too hard clamps at min", 1, SignalTooHard, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, NextDifficulty(tc.current, tc.signal))
		})
	}
}

func TestPassed(t *testing.T) {
	t.Parallel()

	assert.False(t, Passed(0))
	assert.False(t, Passed(1))
	assert.True(t, Passed(2))
	assert.True(t, Passed(3))
}
