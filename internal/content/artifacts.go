package content

import (
	"fmt"

	"github.com/pathwise/pathwise-api/internal/generation"
	"github.com/pathwise/pathwise-api/internal/lookup"
)

// Step is one actionable step of a day's lesson.
type Step struct {
	Title           string `json:"title"`
	Detail          string `json:"detail"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

// StepsArtifact is the lesson plan for a day.
type StepsArtifact struct {
	Steps []Step `json:"steps"`
}

func (a *StepsArtifact) validate() error {
	if len(a.Steps) == 0 {
		return fmt.Errorf("%w: no steps", generation.ErrInvalidResponse)
	}
	for i, s := range a.Steps {
		if s.Title == "" {
			return fmt.Errorf("%w: step %d has no title", generation.ErrInvalidResponse, i)
		}
	}
	return nil
}

// ArticleArtifact is the day's long-form reading.
type ArticleArtifact struct {
	Title string `json:"title"`
	// Body is markdown.
	Body string `json:"body"`
}

func (a *ArticleArtifact) validate() error {
	if a.Title == "" || a.Body == "" {
		return fmt.Errorf("%w: article missing title or body", generation.ErrInvalidResponse)
	}
	return nil
}

// Slide is one slide of the day's summary deck.
type Slide struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
}

// SlidesArtifact is the day's summary deck.
type SlidesArtifact struct {
	Slides []Slide `json:"slides"`
}

func (a *SlidesArtifact) validate() error {
	if len(a.Slides) == 0 {
		return fmt.Errorf("%w: no slides", generation.ErrInvalidResponse)
	}
	return nil
}

// ResourcesArtifact is the day's external material, assembled from provider
// lookups. Degraded is set when any entry is a constructed search link
// rather than a real lookup result.
type ResourcesArtifact struct {
	Videos       []lookup.VideoResult      `json:"videos"`
	Encyclopedia lookup.EncyclopediaResult `json:"encyclopedia"`
	Articles     []lookup.ArticleResult    `json:"articles"`
	Degraded     bool                      `json:"degraded,omitempty"`
}
