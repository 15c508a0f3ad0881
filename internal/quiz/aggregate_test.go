package quiz

import (
	"errors"
	"testing"

	"github.com/pavelanni/quizmaster/internal/apperr"
	"github.com/pavelanni/quizmaster/internal/model"
)

func TestAggregateEmptyBatch(t *testing.T) {
	summary, err := Aggregate(nil, nil)
	if err != nil {
		t.Fatalf("Aggregate over empty batch: %v", err)
	}
	if summary != (model.ResultSummary{}) {
		t.Errorf("expected zero-valued summary, got %+v", summary)
	}
}

func TestAggregateValidation(t *testing.T) {
	results := []model.EvaluationResult{{QuestionID: "q-1", CorrectnessScore: 50}}

	tests := []struct {
		name        string
		results     []model.EvaluationResult
		submissions []model.Submission
	}{
		{"length mismatch", results, nil},
		{"misaligned question ids", results, []model.Submission{{QuestionID: "q-2"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Aggregate(tt.results, tt.submissions)
			appErr := &apperr.Error{}
			if !errors.As(err, &appErr) || appErr.Code() != apperr.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAggregateSummary(t *testing.T) {
	results := []model.EvaluationResult{
		{QuestionID: "q-1", CorrectnessScore: 90, IsPlagiarized: true},
		{QuestionID: "q-2", CorrectnessScore: 70, IsAIGenerated: true},
		{QuestionID: "q-3", CorrectnessScore: 50},
	}
	submissions := []model.Submission{
		{QuestionID: "q-1", TimeTaken: 30},
		{QuestionID: "q-2", TimeTaken: 45},
		{QuestionID: "q-3", TimeTaken: 15},
	}

	summary, err := Aggregate(results, submissions)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if summary.TotalQuestions != 3 {
		t.Errorf("total questions = %d, want 3", summary.TotalQuestions)
	}
	if summary.AverageScore != 70 {
		t.Errorf("average score = %v, want 70", summary.AverageScore)
	}
	if summary.TotalTime != 90 {
		t.Errorf("total time = %v, want 90", summary.TotalTime)
	}
	if summary.AverageTime != 30 {
		t.Errorf("average time = %v, want 30", summary.AverageTime)
	}
	if !summary.PlagiarismDetected || !summary.AIGeneratedDetected {
		t.Error("expected both flags detected")
	}
	if summary.FlaggedAnswers != 2 {
		t.Errorf("flagged answers = %d, want 2", summary.FlaggedAnswers)
	}
}

func TestAggregateRoundsAverage(t *testing.T) {
	results := []model.EvaluationResult{
		{QuestionID: "q-1", CorrectnessScore: 33},
		{QuestionID: "q-2", CorrectnessScore: 33},
		{QuestionID: "q-3", CorrectnessScore: 34},
	}
	submissions := []model.Submission{
		{QuestionID: "q-1"}, {QuestionID: "q-2"}, {QuestionID: "q-3"},
	}

	summary, err := Aggregate(results, submissions)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if summary.AverageScore != 33.33 {
		t.Errorf("average score = %v, want 33.33", summary.AverageScore)
	}
}

func TestAggregatePerformanceLevels(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  string
	}{
		{"excellent at boundary", 80, PerformanceExcellent},
		{"good at boundary", 60, PerformanceGood},
		{"below good", 59.99, PerformanceNeedsImprovement},
		{"zero", 0, PerformanceNeedsImprovement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := Aggregate(
				[]model.EvaluationResult{{QuestionID: "q-1", CorrectnessScore: tt.score}},
				[]model.Submission{{QuestionID: "q-1"}},
			)
			if err != nil {
				t.Fatalf("Aggregate: %v", err)
			}
			if summary.PerformanceLevel != tt.want {
				t.Errorf("performance level = %q, want %q", summary.PerformanceLevel, tt.want)
			}
		})
	}
}
