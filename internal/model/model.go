package model

// Difficulty represents question difficulty level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// IsValid reports whether d is one of the three declared levels.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question is a single generated quiz question. ReferenceAnswer is the
// expected answer used as the grading context; it is returned to the client
// because there is no server-side session store.
type Question struct {
	ID              string     `json:"id"`
	Text            string     `json:"question"`
	ReferenceAnswer string     `json:"correct_answer"`
	Difficulty      Difficulty `json:"difficulty"`
}

// Submission is one user answer to a generated question.
type Submission struct {
	QuestionID string  `json:"question_id"`
	UserAnswer string  `json:"user_answer"`
	TimeTaken  float64 `json:"time_taken"`
}

// EvaluationResult holds the assessment of a single answer. Every field is
// populated on both the primary and the fallback path.
type EvaluationResult struct {
	QuestionID       string  `json:"question_id"`
	CorrectnessScore float64 `json:"correctness_score"`
	SimilarityScore  float64 `json:"similarity_score"`
	IsPlagiarized    bool    `json:"is_plagiarized"`
	IsAIGenerated    bool    `json:"is_ai_generated"`
	Feedback         string  `json:"feedback"`
}

// ResultSummary aggregates a batch of evaluation results.
type ResultSummary struct {
	TotalQuestions      int     `json:"total_questions"`
	AverageScore        float64 `json:"average_score"`
	TotalTime           float64 `json:"total_time"`
	AverageTime         float64 `json:"average_time"`
	PerformanceLevel    string  `json:"performance_level"`
	PlagiarismDetected  bool    `json:"plagiarism_detected"`
	AIGeneratedDetected bool    `json:"ai_generated_detected"`
	FlaggedAnswers      int     `json:"flagged_answers"`
}

// Config holds runtime parameters collected once at startup from flags,
// environment, and config file. It is passed into constructors explicitly;
// nothing reads it through a global.
type Config struct {
	Addr           string
	LLMBaseURL     string
	LLMKey         string
	LLMModel       string
	LLMTimeoutSecs int
	MaxUploadBytes int64
	AllowedExts    []string
	MinContentLen  int
	MinQuestions   int
	MaxQuestions   int
	MaxPromptChars int
}
