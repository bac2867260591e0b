package grading

import "github.com/pathwise/pathwise-api/internal/domain"

// DifficultySignal is the categorical outcome derived from a quiz score.
// It drives the difficulty of the next unlocked day.
type DifficultySignal string

// Difficulty signals.
const (
	SignalTooEasy DifficultySignal = "TOO_EASY"
	SignalOnTrack DifficultySignal = "ON_TRACK"
	SignalTooHard DifficultySignal = "TOO_HARD"
)

// PassingScore is the minimum score (out of domain.QuizLength) required to
// pass a day quiz.
const PassingScore = 2

// SignalFromScore derives the difficulty signal from the number of correct
// answers. All correct means the material was too easy, exactly one wrong
// means on track, two or more wrong means too hard. The mapping is fixed;
// model-suggested signals are ignored.
func SignalFromScore(score, total int) DifficultySignal {
	wrong := total - score
	switch {
	case wrong == 0:
		return SignalTooEasy
	case wrong == 1:
		return SignalOnTrack
	default:
		return SignalTooHard
	}
}

// Passed reports whether the score alone meets the passing threshold. The
// caller combines this with its resources-completed check.
func Passed(score int) bool {
	return score >= PassingScore
}

// NextDifficulty computes the difficulty for the next day from the current
// difficulty and the signal, clamped to the valid range.
func NextDifficulty(current int, signal DifficultySignal) int {
	switch signal {
	case SignalTooEasy:
		return domain.ClampDifficulty(current + 1)
	case SignalTooHard:
		return domain.ClampDifficulty(current - 1)
	default:
		return domain.ClampDifficulty(current)
	}
}
