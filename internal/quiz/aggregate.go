package quiz

import (
	"fmt"
	"math"

	"github.com/pavelanni/quizmaster/internal/apperr"
	"github.com/pavelanni/quizmaster/internal/model"
)

// Performance level labels by average score bracket.
const (
	PerformanceExcellent        = "Excellent"
	PerformanceGood             = "Good"
	PerformanceNeedsImprovement = "Needs Improvement"
)

const (
	excellentThreshold = 80
	goodThreshold      = 60
)

// Aggregate combines per-question evaluation results into a batch summary.
// It is a pure function: results and submissions must be aligned by index
// and question ID, otherwise it fails with a validation error. An empty
// batch yields a zero-valued summary.
func Aggregate(results []model.EvaluationResult, submissions []model.Submission) (model.ResultSummary, error) {
	if len(results) != len(submissions) {
		return model.ResultSummary{}, apperr.Validation(
			fmt.Sprintf("got %d results for %d submissions", len(results), len(submissions)))
	}
	if len(results) == 0 {
		return model.ResultSummary{}, nil
	}

	var (
		totalScore float64
		totalTime  float64
		flagged    int
		anyPlag    bool
		anyAI      bool
	)
	for i, r := range results {
		if r.QuestionID != submissions[i].QuestionID {
			return model.ResultSummary{}, apperr.Validation(
				fmt.Sprintf("result %d is for question %s, submission is for %s", i, r.QuestionID, submissions[i].QuestionID))
		}
		totalScore += r.CorrectnessScore
		totalTime += submissions[i].TimeTaken
		if r.IsPlagiarized || r.IsAIGenerated {
			flagged++
		}
		anyPlag = anyPlag || r.IsPlagiarized
		anyAI = anyAI || r.IsAIGenerated
	}

	n := float64(len(results))
	avgScore := round2(totalScore / n)

	level := PerformanceNeedsImprovement
	switch {
	case avgScore >= excellentThreshold:
		level = PerformanceExcellent
	case avgScore >= goodThreshold:
		level = PerformanceGood
	}

	return model.ResultSummary{
		TotalQuestions:      len(results),
		AverageScore:        avgScore,
		TotalTime:           totalTime,
		AverageTime:         round2(totalTime / n),
		PerformanceLevel:    level,
		PlagiarismDetected:  anyPlag,
		AIGeneratedDetected: anyAI,
		FlaggedAnswers:      flagged,
	}, nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
