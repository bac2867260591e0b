package content

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/pathwise/pathwise-api/internal/domain"
)

// promptData is the context shared by all artifact prompt templates.
type promptData struct {
	Topic        string
	MissionTitle string
	Focus        string
	Difficulty   int
	Level        string
	Lang         string
	QuizLength   int
}

// levelName maps a numeric difficulty to the register the prompts ask for.
func levelName(difficulty int) string {
	switch difficulty {
	case domain.MinDifficulty:
		return "beginner"
	case domain.MaxDifficulty:
		return "advanced"
	default:
		return "intermediate"
	}
}

var stepsTemplate = template.Must(template.New("steps").Parse(`You are writing one day of a learning plan about {{.Topic}}.
Day mission: {{.MissionTitle}}. Focus: {{.Focus}}. Learner level: {{.Level}}.
Write the lesson in language code "{{.Lang}}".

Produce 4 to 6 concrete, actionable steps for this day. Respond with JSON only:
{"steps": [{"title": "...", "detail": "...", "duration_minutes": 10}]}
`))

var quizTemplate = template.Must(template.New("quiz").Parse(`You are writing a quiz for one day of a learning plan about {{.Topic}}.
Day mission: {{.MissionTitle}}. Focus: {{.Focus}}. Learner level: {{.Level}}.
Write the quiz in language code "{{.Lang}}".

Produce exactly {{.QuizLength}} questions mixing multiple-choice and short-answer.
Respond with JSON only:
{"questions": [
  {"type": "mcq", "prompt": "...", "choices": ["...", "...", "...", "..."], "answer": "A", "explanation": "..."},
  {"type": "short", "prompt": "...", "answer": "...", "alternativeAnswers": ["..."], "explanation": "..."}
]}
For mcq questions the answer is the letter of the correct choice.
`))

var articleTemplate = template.Must(template.New("article").Parse(`You are writing the reading material for one day of a learning plan about {{.Topic}}.
Day mission: {{.MissionTitle}}. Focus: {{.Focus}}. Learner level: {{.Level}}.
Write in language code "{{.Lang}}".

Produce a focused article of 500-800 words in markdown. Respond with JSON only:
{"title": "...", "body": "markdown text"}
`))

var slidesTemplate = template.Must(template.New("slides").Parse(`You are writing a summary slide deck for one day of a learning plan about {{.Topic}}.
Day mission: {{.MissionTitle}}. Focus: {{.Focus}}. Learner level: {{.Level}}.
Write in language code "{{.Lang}}".

Produce 5 to 8 slides, each with a title and 2-4 short bullets. Respond with JSON only:
{"slides": [{"title": "...", "bullets": ["...", "..."]}]}
`))

// buildPrompt renders the prompt for a generated artifact type.
func buildPrompt(t domain.ArtifactType, data promptData) (string, error) {
	var tmpl *template.Template
	switch t {
	case domain.ArtifactSteps:
		tmpl = stepsTemplate
	case domain.ArtifactQuiz:
		tmpl = quizTemplate
	case domain.ArtifactArticle:
		tmpl = articleTemplate
	case domain.ArtifactSlides:
		tmpl = slidesTemplate
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidArtifactType, t)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", t, err)
	}
	return buf.String(), nil
}

// translationHint describes an artifact type for the translator so
// terminology stays stable.
func translationHint(t domain.ArtifactType) string {
	switch t {
	case domain.ArtifactSteps:
		return "a JSON document of lesson step titles and details"
	case domain.ArtifactQuiz:
		return "a JSON document of quiz questions, choices and answers"
	case domain.ArtifactArticle:
		return "a JSON document with a markdown article"
	case domain.ArtifactSlides:
		return "a JSON document of slide titles and bullet points"
	default:
		return "a JSON document of learning material"
	}
}

// maxTokensFor bounds generation output per artifact type.
func maxTokensFor(t domain.ArtifactType) int {
	switch t {
	case domain.ArtifactArticle:
		return 4096
	default:
		return 2048
	}
}
