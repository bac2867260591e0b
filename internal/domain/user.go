package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User-specific validation errors
var (
	// ErrUserIDEmpty is returned when a user ID is empty or nil.
	ErrUserIDEmpty = errors.New("user ID cannot be empty")

	// ErrUserEmailEmpty is returned when a user's email is empty.
	ErrUserEmailEmpty = errors.New("user email cannot be empty")

	// ErrUserLangEmpty is returned when a user's preferred language is empty.
	ErrUserLangEmpty = errors.New("user preferred language cannot be empty")

	// ErrNegativeStreak is returned when a streak count is negative.
	ErrNegativeStreak = errors.New("streak cannot be negative")
)

// User represents a learner who owns plans. Authentication and billing
// details live outside this core; only the fields the progression and
// content engines need are modeled here.
type User struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	PreferredLang string    `json:"preferred_lang"`

	// Streak is the count of consecutive days with a completed day.
	Streak int `json:"streak"`

	// LastCompletedAt records the (UTC) time the user last completed a day.
	// Nil means no day has ever been completed. Only the calendar date
	// matters for streak arithmetic.
	LastCompletedAt *time.Time `json:"last_completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given email and preferred language.
// It generates a new UUID and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewUser(email, preferredLang string) (*User, error) {
	user := &User{
		ID:            uuid.New(),
		Email:         strings.TrimSpace(email),
		PreferredLang: NormalizeLang(preferredLang),
		Streak:        0,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrUserIDEmpty
	}

	if u.Email == "" {
		return ErrUserEmailEmpty
	}

	if u.PreferredLang == "" {
		return ErrUserLangEmpty
	}

	if u.Streak < 0 {
		return ErrNegativeStreak
	}

	return nil
}

// NormalizeLang lowercases and trims a language code. Codes are short
// (e.g. "en", "de", "pt-br") and compared case-insensitively everywhere.
func NormalizeLang(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}

// SameUTCDate reports whether two times fall on the same calendar date in UTC.
func SameUTCDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
