// Package prompts builds the prompts sent to the external model from
// embedded text templates.
package prompts

import (
	"bytes"
	"embed"
	"errors"
	"sync"
	"text/template"

	"github.com/pavelanni/quizmaster/internal/model"
)

//go:embed templates/*.txt
var templateFS embed.FS

var (
	loadOnce     sync.Once
	loadErr      error
	generateTmpl *template.Template
	evaluateTmpl *template.Template
)

// Per-difficulty instruction strings embedded in the generation prompt.
var difficultyGuidance = map[model.Difficulty]string{
	model.DifficultyEasy:   "Simple recall and basic understanding questions",
	model.DifficultyMedium: "Application and analysis questions requiring deeper understanding",
	model.DifficultyHard:   "Complex synthesis, evaluation, and critical thinking questions",
}

// GenerateData holds template data for question-generation prompts.
type GenerateData struct {
	Content      string
	NumQuestions int
	Difficulty   model.Difficulty
	Guidance     string
}

// EvaluateData holds template data for answer-evaluation prompts.
type EvaluateData struct {
	Question        string
	ReferenceAnswer string
	UserAnswer      string
}

// Load parses the embedded templates. It uses sync.Once so templates are
// parsed only once; repeated calls return the first error.
func Load() error {
	loadOnce.Do(func() {
		generateTmpl, loadErr = template.ParseFS(templateFS, "templates/generate.txt")
		if loadErr != nil {
			return
		}
		evaluateTmpl, loadErr = template.ParseFS(templateFS, "templates/evaluate.txt")
	})
	return loadErr
}

// BuildGeneratePrompt renders the question-generation prompt.
func BuildGeneratePrompt(content string, numQuestions int, difficulty model.Difficulty) (string, error) {
	if err := Load(); err != nil {
		return "", err
	}
	guidance, ok := difficultyGuidance[difficulty]
	if !ok {
		return "", errors.New("invalid difficulty: " + string(difficulty))
	}

	data := GenerateData{
		Content:      content,
		NumQuestions: numQuestions,
		Difficulty:   difficulty,
		Guidance:     guidance,
	}

	var buf bytes.Buffer
	if err := generateTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// BuildEvaluatePrompt renders the answer-evaluation prompt.
func BuildEvaluatePrompt(question model.Question, userAnswer string) (string, error) {
	if err := Load(); err != nil {
		return "", err
	}

	data := EvaluateData{
		Question:        question.Text,
		ReferenceAnswer: question.ReferenceAnswer,
		UserAnswer:      userAnswer,
	}

	var buf bytes.Buffer
	if err := evaluateTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
