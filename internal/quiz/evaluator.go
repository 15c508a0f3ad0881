package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pavelanni/quizmaster/internal/llm"
	"github.com/pavelanni/quizmaster/internal/llm/prompts"
	"github.com/pavelanni/quizmaster/internal/model"
)

// Policy holds the fallback scoring thresholds. The plagiarism and
// AI-generation rules are stylistic placeholders, not real detectors; they
// live here as named values so tests can override them and a replacement
// detector has one place to land.
type Policy struct {
	// CorrectnessBonus is added to raw similarity, clamped at 100.
	CorrectnessBonus float64
	// PlagiarismSimilarity flags near-verbatim overlap with the reference.
	PlagiarismSimilarity float64
	// AIMinAnswerLen and AIMinCommas together flag an answer as
	// AI-generated.
	AIMinAnswerLen int
	AIMinCommas    int
	// GoodScore and PartialScore split correctness into feedback brackets.
	GoodScore    float64
	PartialScore float64
}

// DefaultPolicy returns the shipped thresholds.
func DefaultPolicy() Policy {
	return Policy{
		CorrectnessBonus:     10,
		PlagiarismSimilarity: 90,
		AIMinAnswerLen:       200,
		AIMinCommas:          5,
		GoodScore:            70,
		PartialScore:         40,
	}
}

// Evaluator scores user answers against reference answers.
type Evaluator struct {
	completer llm.Completer
	policy    Policy
}

// NewEvaluator creates an Evaluator backed by the given model capability.
func NewEvaluator(c llm.Completer, p Policy) *Evaluator {
	return &Evaluator{completer: c, policy: p}
}

// llmEvaluation is the shape the model is asked to return.
type llmEvaluation struct {
	CorrectnessScore float64 `json:"correctness_score"`
	SimilarityScore  float64 `json:"similarity_score"`
	IsPlagiarized    bool    `json:"is_plagiarized"`
	IsAIGenerated    bool    `json:"is_ai_generated"`
	Feedback         string  `json:"feedback"`
}

// Evaluate scores one answer. It never fails: any model error degrades to
// the lexical fallback, which is logged but invisible to the caller's flow.
func (e *Evaluator) Evaluate(ctx context.Context, q model.Question, sub model.Submission) model.EvaluationResult {
	result, err := e.fromModel(ctx, q, sub)
	if err != nil {
		slog.Warn("answer evaluation degraded, using lexical fallback", "question_id", q.ID, "error", err)
		return e.Fallback(q, sub)
	}
	return result
}

func (e *Evaluator) fromModel(ctx context.Context, q model.Question, sub model.Submission) (model.EvaluationResult, error) {
	prompt, err := prompts.BuildEvaluatePrompt(q, sub.UserAnswer)
	if err != nil {
		return model.EvaluationResult{}, err
	}

	raw, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		return model.EvaluationResult{}, err
	}

	var ev llmEvaluation
	if err := json.Unmarshal([]byte(StripCodeFences(raw)), &ev); err != nil {
		return model.EvaluationResult{}, fmt.Errorf("parse evaluation: %w", err)
	}
	if strings.TrimSpace(ev.Feedback) == "" {
		return model.EvaluationResult{}, fmt.Errorf("evaluation is missing feedback")
	}

	return model.EvaluationResult{
		QuestionID:       sub.QuestionID,
		CorrectnessScore: clamp(ev.CorrectnessScore, 0, 100),
		SimilarityScore:  clamp(ev.SimilarityScore, 0, 100),
		IsPlagiarized:    ev.IsPlagiarized,
		IsAIGenerated:    ev.IsAIGenerated,
		Feedback:         ev.Feedback,
	}, nil
}

// Fallback produces an evaluation without the external model: lexical
// word-overlap similarity against the reference answer, plus the threshold
// heuristics from the policy. Exported so the fallback path is testable on
// its own.
func (e *Evaluator) Fallback(q model.Question, sub model.Submission) model.EvaluationResult {
	similarity := wordOverlap(sub.UserAnswer, q.ReferenceAnswer)
	correctness := clamp(similarity+e.policy.CorrectnessBonus, 0, 100)

	return model.EvaluationResult{
		QuestionID:       sub.QuestionID,
		CorrectnessScore: correctness,
		SimilarityScore:  similarity,
		IsPlagiarized:    similarity > e.policy.PlagiarismSimilarity,
		IsAIGenerated:    len(sub.UserAnswer) > e.policy.AIMinAnswerLen && strings.Count(sub.UserAnswer, ",") > e.policy.AIMinCommas,
		Feedback:         e.fallbackFeedback(similarity, correctness),
	}
}

func (e *Evaluator) fallbackFeedback(similarity, correctness float64) string {
	msg := fmt.Sprintf("Your answer shows %.0f%% similarity to the expected answer. ", similarity)
	switch {
	case correctness >= e.policy.GoodScore:
		return msg + "Good job!"
	case correctness >= e.policy.PartialScore:
		return msg + "You are on the right track, but some key points are missing."
	default:
		return msg + "Please review the topic and try to provide more relevant information."
	}
}

// wordOverlap is the share of the reference answer's distinct words that
// also appear in the user's answer, scaled to 0-100. Case-insensitive.
func wordOverlap(userAnswer, referenceAnswer string) float64 {
	refWords := wordSet(referenceAnswer)
	if len(refWords) == 0 {
		return 0
	}
	userWords := wordSet(userAnswer)

	common := 0
	for w := range refWords {
		if userWords[w] {
			common++
		}
	}
	return float64(common) / float64(len(refWords)) * 100
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = true
	}
	return set
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
