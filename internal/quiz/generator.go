// Package quiz implements question generation, answer evaluation, and result
// aggregation. Both the generator and the evaluator try the external model
// first and fall back to a deterministic local path, so neither ever fails a
// request once input validation has passed.
package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pavelanni/quizmaster/internal/apperr"
	"github.com/pavelanni/quizmaster/internal/llm"
	"github.com/pavelanni/quizmaster/internal/llm/prompts"
	"github.com/pavelanni/quizmaster/internal/model"
)

// Generator produces quiz questions from document text.
type Generator struct {
	completer      llm.Completer
	minQuestions   int
	maxQuestions   int
	maxPromptChars int
}

// NewGenerator creates a Generator backed by the given model capability.
func NewGenerator(c llm.Completer, cfg model.Config) *Generator {
	return &Generator{
		completer:      c,
		minQuestions:   cfg.MinQuestions,
		maxQuestions:   cfg.MaxQuestions,
		maxPromptChars: cfg.MaxPromptChars,
	}
}

// generatedQuestion is the shape the model is asked to return.
type generatedQuestion struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correct_answer"`
	Difficulty    string `json:"difficulty"`
}

// Generate validates the request, asks the model for count questions, and
// falls back to the deterministic generator on any model failure. After
// validation it cannot fail.
func (g *Generator) Generate(ctx context.Context, content string, count int, difficulty model.Difficulty) ([]model.Question, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.Validation("no content provided")
	}
	if count < g.minQuestions || count > g.maxQuestions {
		return nil, apperr.Validation(fmt.Sprintf("number of questions must be between %d and %d", g.minQuestions, g.maxQuestions))
	}
	if !difficulty.IsValid() {
		return nil, apperr.Validation("invalid difficulty level")
	}

	questions, err := g.fromModel(ctx, content, count, difficulty)
	if err != nil {
		slog.Warn("question generation degraded, using fallback", "count", count, "difficulty", difficulty, "error", err)
		return FallbackQuestions(content, count, difficulty), nil
	}
	return questions, nil
}

func (g *Generator) fromModel(ctx context.Context, content string, count int, difficulty model.Difficulty) ([]model.Question, error) {
	prompt, err := prompts.BuildGeneratePrompt(truncate(content, g.maxPromptChars), count, difficulty)
	if err != nil {
		return nil, err
	}

	raw, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var items []generatedQuestion
	if err := json.Unmarshal([]byte(StripCodeFences(raw)), &items); err != nil {
		return nil, fmt.Errorf("parse question list: %w", err)
	}
	if len(items) < count {
		return nil, fmt.Errorf("model returned %d questions, want %d", len(items), count)
	}
	items = items[:count]

	questions := make([]model.Question, 0, count)
	for i, it := range items {
		if strings.TrimSpace(it.Question) == "" || strings.TrimSpace(it.CorrectAnswer) == "" {
			return nil, fmt.Errorf("question %d is missing required fields", i+1)
		}
		questions = append(questions, model.Question{
			ID:              uuid.NewString(),
			Text:            it.Question,
			ReferenceAnswer: it.CorrectAnswer,
			Difficulty:      difficulty,
		})
	}
	return questions, nil
}

// Per-difficulty stem templates for the fallback generator. {topic} is
// replaced with a sentence fragment from the source text.
var fallbackTemplates = map[model.Difficulty][]string{
	model.DifficultyEasy: {
		"What is mentioned about {topic}?",
		"According to the text, what is {topic}?",
		"Describe {topic} as mentioned in the document.",
	},
	model.DifficultyMedium: {
		"Explain the significance of {topic} in the context of the document.",
		"How does {topic} relate to the main themes discussed?",
		"Analyze the role of {topic} in the given content.",
	},
	model.DifficultyHard: {
		"Critically evaluate the implications of {topic} based on the content.",
		"Synthesize the information about {topic} and propose potential applications.",
		"Compare and contrast different perspectives on {topic} presented in the text.",
	},
}

const (
	fallbackMinSentenceLen = 20
	fallbackMaxSentences   = 10
	fallbackTopicLen       = 50
)

// FallbackQuestions derives exactly count recall-style questions from the
// source text without any external call. Output is deterministic for the
// same (content, count, difficulty), question IDs included, and it never
// fails for non-empty content: when the text yields fewer usable sentences
// than count, sentences are recycled.
func FallbackQuestions(content string, count int, difficulty model.Difficulty) []model.Question {
	var sentences []string
	for _, s := range strings.Split(content, ".") {
		s = strings.TrimSpace(s)
		if len(s) > fallbackMinSentenceLen {
			sentences = append(sentences, s)
		}
		if len(sentences) == fallbackMaxSentences {
			break
		}
	}
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(content)}
	}

	templates := fallbackTemplates[difficulty]
	questions := make([]model.Question, 0, count)
	for i := 0; i < count; i++ {
		sentence := sentences[i%len(sentences)]
		topic := truncate(sentence, fallbackTopicLen)
		tmpl := templates[i%len(templates)]

		seed := fmt.Sprintf("quizmaster:%s:%d:%s", difficulty, i, sentence)
		questions = append(questions, model.Question{
			ID:              uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)).String(),
			Text:            strings.ReplaceAll(tmpl, "{topic}", topic),
			ReferenceAnswer: "Based on the content: " + sentence,
			Difficulty:      difficulty,
		})
	}
	return questions
}

// StripCodeFences removes leading/trailing markdown code fences the model
// sometimes wraps JSON in.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if after, ok := strings.CutPrefix(s, "```json"); ok {
		s = after
	} else if after, ok := strings.CutPrefix(s, "```"); ok {
		s = after
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
