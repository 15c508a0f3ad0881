// Package handler wires the HTTP surface: document upload, question
// generation, answer evaluation, and health.
package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/pavelanni/quizmaster/internal/apperr"
	"github.com/pavelanni/quizmaster/internal/extract"
	"github.com/pavelanni/quizmaster/internal/httpjson"
	"github.com/pavelanni/quizmaster/internal/model"
	"github.com/pavelanni/quizmaster/internal/quiz"
)

// Handler holds shared dependencies for HTTP handlers. There is no store:
// every request carries all the state it needs.
type Handler struct {
	extractor *extract.Extractor
	generator *quiz.Generator
	evaluator *quiz.Evaluator
	config    model.Config
}

// New creates a new Handler.
func New(ex *extract.Extractor, g *quiz.Generator, ev *quiz.Evaluator, cfg model.Config) *Handler {
	return &Handler{extractor: ex, generator: g, evaluator: ev, config: cfg}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/upload", h.handleUpload)
	r.Post("/generate-questions", h.handleGenerateQuestions)
	r.Post("/evaluate-answers", h.handleEvaluateAnswers)
	r.Get("/health", h.handleHealth)
}

type uploadResponse struct {
	Success       bool   `json:"success"`
	Content       string `json:"content"`
	Filename      string `json:"filename"`
	ContentLength int    `json:"content_length"`
	WordCount     int    `json:"word_count"`
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.config.MaxUploadBytes); err != nil {
		httpjson.HandleError(w, apperr.Validation("file too large or malformed multipart body").SetDebug(err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpjson.HandleError(w, apperr.Validation("no file provided"))
		return
	}
	defer file.Close()

	if header.Filename == "" {
		httpjson.HandleError(w, apperr.Validation("no file selected"))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		httpjson.HandleError(w, fmt.Errorf("read upload: %w", err))
		return
	}

	content, err := h.extractor.Extract(data, filepath.Ext(header.Filename))
	if err != nil {
		httpjson.HandleError(w, err)
		return
	}

	httpjson.WriteJSON(w, http.StatusOK, uploadResponse{
		Success:       true,
		Content:       content,
		Filename:      header.Filename,
		ContentLength: len(content),
		WordCount:     len(strings.Fields(content)),
	})
}

type generateRequest struct {
	Content      string           `json:"content"`
	NumQuestions int              `json:"num_questions"`
	Difficulty   model.Difficulty `json:"difficulty"`
}

type generateResponse struct {
	Success        bool             `json:"success"`
	Questions      []model.Question `json:"questions"`
	TotalQuestions int              `json:"total_questions"`
}

func (h *Handler) handleGenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.HandleError(w, apperr.Validation("invalid JSON body").SetDebug(err))
		return
	}

	questions, err := h.generator.Generate(r.Context(), req.Content, req.NumQuestions, req.Difficulty)
	if err != nil {
		httpjson.HandleError(w, err)
		return
	}

	httpjson.WriteJSON(w, http.StatusOK, generateResponse{
		Success:        true,
		Questions:      questions,
		TotalQuestions: len(questions),
	})
}

type evaluateRequest struct {
	// Questions is the question set echoed back by the client; with no
	// server-side session store, it is the only source of reference answers.
	Questions   []model.Question   `json:"questions"`
	Submissions []model.Submission `json:"submissions"`
}

type evaluateResponse struct {
	Success bool                     `json:"success"`
	Results []model.EvaluationResult `json:"results"`
	Summary model.ResultSummary      `json:"summary"`
}

func (h *Handler) handleEvaluateAnswers(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.HandleError(w, apperr.Validation("invalid JSON body").SetDebug(err))
		return
	}
	if len(req.Submissions) == 0 {
		httpjson.HandleError(w, apperr.Validation("no submissions provided"))
		return
	}

	questionsByID := make(map[string]model.Question, len(req.Questions))
	for _, q := range req.Questions {
		questionsByID[q.ID] = q
	}

	seen := make(map[string]bool, len(req.Submissions))
	for _, sub := range req.Submissions {
		if _, ok := questionsByID[sub.QuestionID]; !ok {
			httpjson.HandleError(w, apperr.Validation("submission references unknown question "+sub.QuestionID))
			return
		}
		if seen[sub.QuestionID] {
			httpjson.HandleError(w, apperr.Validation("duplicate submission for question "+sub.QuestionID))
			return
		}
		seen[sub.QuestionID] = true
	}

	// Evaluations are independent, so run them concurrently. Results land
	// at their submission's index so output order matches input order no
	// matter which call finishes first. Evaluate never returns an error;
	// the group only propagates context cancellation.
	results := make([]model.EvaluationResult, len(req.Submissions))
	g, ctx := errgroup.WithContext(r.Context())
	for i, sub := range req.Submissions {
		i, sub := i, sub
		g.Go(func() error {
			results[i] = h.evaluator.Evaluate(ctx, questionsByID[sub.QuestionID], sub)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		httpjson.HandleError(w, err)
		return
	}

	summary, err := quiz.Aggregate(results, req.Submissions)
	if err != nil {
		httpjson.HandleError(w, err)
		return
	}

	httpjson.WriteJSON(w, http.StatusOK, evaluateResponse{
		Success: true,
		Results: results,
		Summary: summary,
	})
}

type healthResponse struct {
	Status        string `json:"status"`
	APIConfigured bool   `json:"api_configured"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httpjson.WriteJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		APIConfigured: h.config.LLMKey != "",
	})
}
