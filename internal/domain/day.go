package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Day-specific validation errors
var (
	// ErrDayIDEmpty is returned when a day ID is empty or nil.
	ErrDayIDEmpty = errors.New("day ID cannot be empty")

	// ErrDayPlanIDEmpty is returned when a day's plan ID is empty or nil.
	ErrDayPlanIDEmpty = errors.New("day plan ID cannot be empty")

	// ErrDayNumberInvalid is returned when a day number is not positive.
	ErrDayNumberInvalid = errors.New("day number must be positive")

	// ErrNoBaseLanguage is returned when an artifact map has entries but
	// no base-language marker. Maps in this state are corrupt.
	ErrNoBaseLanguage = errors.New("artifact map has no base language marker")
)

// DayStatus represents the progression state of a Day.
// Days move strictly LOCKED -> READY -> DONE; DONE is terminal.
type DayStatus string

// Valid day statuses.
const (
	DayStatusLocked DayStatus = "locked"
	DayStatusReady  DayStatus = "ready"
	DayStatusDone   DayStatus = "done"
)

// IsValid reports whether the status is one of the known states.
func (s DayStatus) IsValid() bool {
	switch s {
	case DayStatusLocked, DayStatusReady, DayStatusDone:
		return true
	}
	return false
}

// Difficulty bounds for a Day.
const (
	MinDifficulty = 1
	MaxDifficulty = 3
)

// ArtifactType identifies one kind of generated Day content.
type ArtifactType string

// The five artifact types cached per Day.
const (
	ArtifactSteps     ArtifactType = "steps"
	ArtifactQuiz      ArtifactType = "quiz"
	ArtifactResources ArtifactType = "resources"
	ArtifactArticle   ArtifactType = "article"
	ArtifactSlides    ArtifactType = "slides"
)

// ArtifactTypes lists all artifact types in assembly order.
var ArtifactTypes = []ArtifactType{
	ArtifactSteps,
	ArtifactQuiz,
	ArtifactResources,
	ArtifactArticle,
	ArtifactSlides,
}

// IsValid reports whether the artifact type is one of the known kinds.
func (t ArtifactType) IsValid() bool {
	switch t {
	case ArtifactSteps, ArtifactQuiz, ArtifactResources, ArtifactArticle, ArtifactSlides:
		return true
	}
	return false
}

// BaseLangKey is the reserved key in an ArtifactMap recording which language
// the artifact was generated in directly. Every other language entry is
// derived from the base entry by translation, never regenerated, so facts
// stay consistent across languages. The marker is explicit rather than
// inferred from map iteration order, which Go does not define.
const BaseLangKey = "_baseLang"

// ArtifactMap stores one artifact per language code, plus the BaseLangKey
// marker. It is serialized as a single JSON blob per Day column. The map
// only ever grows; rewrites must preserve keys they do not understand.
type ArtifactMap map[string]json.RawMessage

// BaseLang returns the base language code, or "" if the map is empty.
func (m ArtifactMap) BaseLang() string {
	raw, ok := m[BaseLangKey]
	if !ok {
		return ""
	}
	var lang string
	if err := json.Unmarshal(raw, &lang); err != nil {
		return ""
	}
	return NormalizeLang(lang)
}

// Get returns the artifact cached for the given language, if present.
func (m ArtifactMap) Get(lang string) (json.RawMessage, bool) {
	raw, ok := m[NormalizeLang(lang)]
	return raw, ok
}

// Base returns the base-language artifact. Returns ErrNoBaseLanguage when
// entries exist without a marker, and false when the map is empty.
func (m ArtifactMap) Base() (json.RawMessage, string, error) {
	if len(m) == 0 {
		return nil, "", nil
	}

	lang := m.BaseLang()
	if lang == "" {
		return nil, "", ErrNoBaseLanguage
	}

	raw, ok := m[lang]
	if !ok {
		return nil, "", fmt.Errorf("%w: base language %q has no entry", ErrNoBaseLanguage, lang)
	}

	return raw, lang, nil
}

// Set stores an artifact under the given language code.
func (m ArtifactMap) Set(lang string, artifact json.RawMessage) {
	m[NormalizeLang(lang)] = artifact
}

// SetBase stores an artifact under the given language code and records the
// language as the base. Callers must only do this when the map has no base.
func (m ArtifactMap) SetBase(lang string, artifact json.RawMessage) error {
	norm := NormalizeLang(lang)
	if norm == "" {
		return ErrInvalidLanguage
	}

	marker, err := json.Marshal(norm)
	if err != nil {
		return fmt.Errorf("failed to marshal base language marker: %w", err)
	}

	m[norm] = artifact
	m[BaseLangKey] = marker
	return nil
}

// Languages returns the language codes with cached entries, excluding the
// base marker key. Order is unspecified.
func (m ArtifactMap) Languages() []string {
	langs := make([]string, 0, len(m))
	for k := range m {
		if k == BaseLangKey {
			continue
		}
		langs = append(langs, k)
	}
	return langs
}

// Clone returns a shallow copy of the map. Raw messages are shared; callers
// must not mutate them in place.
func (m ArtifactMap) Clone() ArtifactMap {
	out := make(ArtifactMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Day is the unit of curriculum progression within a Plan. A Day belongs to
// exactly one Plan and is only ever deleted together with it.
type Day struct {
	ID         uuid.UUID `json:"id"`
	PlanID     uuid.UUID `json:"plan_id"`
	DayNumber  int       `json:"day_number"`
	Status     DayStatus `json:"status"`
	Difficulty int       `json:"difficulty"`

	// MissionTitle and Focus are set at plan generation and immutable after.
	MissionTitle string `json:"mission_title"`
	Focus        string `json:"focus"`

	// Per-artifact-type language caches. Each map is persisted as one JSON
	// blob on the day row.
	Steps     ArtifactMap `json:"steps"`
	Quiz      ArtifactMap `json:"quiz"`
	Resources ArtifactMap `json:"resources"`
	Article   ArtifactMap `json:"article"`
	Slides    ArtifactMap `json:"slides"`

	// Result holds the serialized outcome of the last passing grade.
	Result json.RawMessage `json:"result,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDay creates a Day in the given plan. Day 1 starts READY, all later
// days start LOCKED. Returns an error if validation fails.
func NewDay(planID uuid.UUID, dayNumber int, missionTitle, focus string, difficulty int) (*Day, error) {
	status := DayStatusLocked
	if dayNumber == 1 {
		status = DayStatusReady
	}

	day := &Day{
		ID:           uuid.New(),
		PlanID:       planID,
		DayNumber:    dayNumber,
		Status:       status,
		Difficulty:   difficulty,
		MissionTitle: missionTitle,
		Focus:        focus,
		Steps:        ArtifactMap{},
		Quiz:         ArtifactMap{},
		Resources:    ArtifactMap{},
		Article:      ArtifactMap{},
		Slides:       ArtifactMap{},
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	if err := day.Validate(); err != nil {
		return nil, err
	}

	return day, nil
}

// Validate checks if the Day has valid data.
// Returns an error if any field fails validation.
func (d *Day) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDayIDEmpty
	}

	if d.PlanID == uuid.Nil {
		return ErrDayPlanIDEmpty
	}

	if d.DayNumber <= 0 {
		return ErrDayNumberInvalid
	}

	if !d.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidDayStatus, d.Status)
	}

	if d.Difficulty < MinDifficulty || d.Difficulty > MaxDifficulty {
		return ErrInvalidDifficulty
	}

	return nil
}

// Artifacts returns the cache map for the given artifact type. The returned
// map is the Day's own; mutations are visible on the Day.
func (d *Day) Artifacts(t ArtifactType) (ArtifactMap, error) {
	switch t {
	case ArtifactSteps:
		return d.Steps, nil
	case ArtifactQuiz:
		return d.Quiz, nil
	case ArtifactResources:
		return d.Resources, nil
	case ArtifactArticle:
		return d.Article, nil
	case ArtifactSlides:
		return d.Slides, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidArtifactType, t)
	}
}

// SetArtifacts replaces the cache map for the given artifact type.
func (d *Day) SetArtifacts(t ArtifactType, m ArtifactMap) error {
	switch t {
	case ArtifactSteps:
		d.Steps = m
	case ArtifactQuiz:
		d.Quiz = m
	case ArtifactResources:
		d.Resources = m
	case ArtifactArticle:
		d.Article = m
	case ArtifactSlides:
		d.Slides = m
	default:
		return fmt.Errorf("%w: %q", ErrInvalidArtifactType, t)
	}
	return nil
}

// ClampDifficulty restricts a difficulty value to the valid 1..3 range.
func ClampDifficulty(d int) int {
	if d < MinDifficulty {
		return MinDifficulty
	}
	if d > MaxDifficulty {
		return MaxDifficulty
	}
	return d
}
