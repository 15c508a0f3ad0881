package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pavelanni/quizmaster/internal/extract"
	"github.com/pavelanni/quizmaster/internal/handler"
	"github.com/pavelanni/quizmaster/internal/llm"
	"github.com/pavelanni/quizmaster/internal/llm/prompts"
	"github.com/pavelanni/quizmaster/internal/model"
	"github.com/pavelanni/quizmaster/internal/quiz"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "quizmaster",
		Short: "Document-to-quiz backend powered by LLMs",
	}

	serve := serveCmd()
	root.AddCommand(serve)

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `quizmaster --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP quiz server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("llm-url", "http://localhost:11434/v1", "OpenAI-compatible API base URL")
	f.String("llm-key", "ollama", "API key for LLM")
	f.String("llm-model", "llama3.2", "LLM model name")
	f.Int("llm-timeout", 60, "Timeout in seconds for a single LLM call")
	f.Int64("max-upload-mb", 10, "Maximum upload size in megabytes")
	f.StringSlice("allowed-exts", []string{"pdf", "txt", "docx"}, "Allowed upload file extensions")
	f.Int("min-content-length", 50, "Minimum extracted text length (documents at or below are rejected)")
	f.Int("min-questions", 1, "Lowest accepted question count per request")
	f.Int("max-questions", 20, "Highest accepted question count per request")
	f.Int("max-prompt-chars", 4000, "Document characters included in the generation prompt")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("QUIZMASTER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("quizmaster")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/quizmaster")
	v.AddConfigPath("/etc/quizmaster")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	cfg := model.Config{
		Addr:           v.GetString("addr"),
		LLMBaseURL:     v.GetString("llm-url"),
		LLMKey:         v.GetString("llm-key"),
		LLMModel:       v.GetString("llm-model"),
		LLMTimeoutSecs: v.GetInt("llm-timeout"),
		MaxUploadBytes: v.GetInt64("max-upload-mb") * 1024 * 1024,
		AllowedExts:    v.GetStringSlice("allowed-exts"),
		MinContentLen:  v.GetInt("min-content-length"),
		MinQuestions:   v.GetInt("min-questions"),
		MaxQuestions:   v.GetInt("max-questions"),
		MaxPromptChars: v.GetInt("max-prompt-chars"),
	}

	// Parse embedded prompt templates up front so a broken template fails
	// startup, not the first request.
	if err := prompts.Load(); err != nil {
		return fmt.Errorf("load prompt templates: %w", err)
	}

	llmClient := llm.New(cfg.LLMBaseURL, cfg.LLMKey, cfg.LLMModel,
		time.Duration(cfg.LLMTimeoutSecs)*time.Second)
	if err := llmClient.Ping(context.Background()); err != nil {
		// Not fatal: every model call has a deterministic fallback.
		slog.Warn("LLM health check failed, requests will use fallback paths", "error", err)
	} else {
		slog.Info("LLM endpoint OK", "url", cfg.LLMBaseURL, "model", cfg.LLMModel)
	}

	h := handler.New(
		extract.New(cfg.MinContentLen, cfg.AllowedExts),
		quiz.NewGenerator(llmClient, cfg),
		quiz.NewEvaluator(llmClient, quiz.DefaultPolicy()),
		cfg,
	)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	h.Routes(r)

	slog.Info("starting server",
		"addr", cfg.Addr,
		"model", cfg.LLMModel,
		"llm_url", cfg.LLMBaseURL,
		"max_upload_mb", v.GetInt64("max-upload-mb"),
		"min_content_length", cfg.MinContentLen,
	)
	return http.ListenAndServe(cfg.Addr, r)
}
