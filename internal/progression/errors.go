package progression

import "errors"

var (
	// ErrPlanNotOwned is returned when a user operates on a plan that belongs
	// to someone else. The API layer maps this to the same response as a
	// missing plan so plan existence does not leak.
	ErrPlanNotOwned = errors.New("plan does not belong to user")

	// ErrDayLocked is returned when the target day has not been unlocked yet.
	ErrDayLocked = errors.New("day is locked")

	// ErrQuizNotReady is returned when a grade is submitted for a day whose
	// quiz artifact has not been generated.
	ErrQuizNotReady = errors.New("day quiz has not been generated")
)
