// Package llm owns the contract with the generative model: it builds the
// prompt, tries candidate models in order and turns the first answer into
// a validated quiz.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pavelanni/quizforge/internal/llm/prompts"
	"github.com/pavelanni/quizforge/internal/model"
)

// DefaultModels is the candidate list, most capable first.
var DefaultModels = []string{
	"gemini-2.5-flash",
	"gemini-2.0-flash",
	"gemini-1.5-flash",
	"gemini-1.5-pro",
	"gemini-pro",
}

// Request is one generation call: instruction text plus the inline file.
type Request struct {
	System string
	Prompt string
	File   model.Upload
}

// Provider issues requests against a model backend.
type Provider interface {
	Generate(ctx context.Context, modelName string, req Request) (string, error)
	ListModels(ctx context.Context) ([]string, error)
	Close() error
}

// Options configures a Generator.
type Options struct {
	Provider    string // "gemini" or "openai"
	APIKey      string
	BaseURL     string // openai provider only
	Models      []string
	Temperature float32
	Demo        bool
	DemoDelay   time.Duration
}

// Generator produces quizzes from uploaded study material.
type Generator struct {
	provider  Provider
	models    []string
	demo      bool
	demoDelay time.Duration
}

// New creates a Generator. Without an API key no provider is created and
// Generate either serves the demo quiz or fails with ErrNoCredential.
func New(ctx context.Context, opts Options) (*Generator, error) {
	g := &Generator{
		models:    opts.Models,
		demo:      opts.Demo,
		demoDelay: opts.DemoDelay,
	}
	if len(g.models) == 0 {
		g.models = DefaultModels
	}
	if err := prompts.Load(); err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}
	if opts.APIKey == "" {
		return g, nil
	}

	var err error
	switch strings.ToLower(opts.Provider) {
	case "", "gemini":
		g.provider, err = newGeminiProvider(ctx, opts.APIKey, opts.Temperature)
	case "openai":
		g.provider = newOpenAIProvider(opts.BaseURL, opts.APIKey, opts.Temperature)
	default:
		return nil, fmt.Errorf("unknown provider %q", opts.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", opts.Provider, err)
	}
	return g, nil
}

// NewWithProvider creates a Generator over an existing provider.
func NewWithProvider(p Provider, models []string) *Generator {
	if len(models) == 0 {
		models = DefaultModels
	}
	return &Generator{provider: p, models: models}
}

// HasCredential reports whether live generation is configured.
func (g *Generator) HasCredential() bool {
	return g.provider != nil
}

// DemoMode reports whether requests without a credential get the demo quiz.
func (g *Generator) DemoMode() bool {
	return g.provider == nil && g.demo
}

// Close releases the provider.
func (g *Generator) Close() error {
	if g.provider == nil {
		return nil
	}
	return g.provider.Close()
}

// Generate builds a quiz from the upload. Candidate models are tried in
// order; the first successful answer is parsed and a parse failure ends
// the attempt without trying further models.
func (g *Generator) Generate(ctx context.Context, up model.Upload, cfg model.ExamConfig) (*model.Quiz, error) {
	if err := model.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("exam config: %w", err)
	}
	if g.provider == nil {
		if !g.demo {
			return nil, ErrNoCredential
		}
		return g.demoQuiz(ctx, cfg)
	}
	if len(up.Data) == 0 {
		return nil, model.ErrEmptyUpload
	}
	if !model.AcceptedMIME(up.MIMEType) {
		return nil, model.ErrUnsupportedMedia
	}

	system, err := prompts.SystemInstruction()
	if err != nil {
		return nil, fmt.Errorf("system instruction: %w", err)
	}
	prompt, err := prompts.BuildGeneratePrompt(cfg)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	var attempts []*ModelError
	for _, name := range g.models {
		req := Request{System: system, Prompt: prompt, File: up}
		if !supportsSystemInstruction(name) {
			req.System = ""
			req.Prompt = system + "\n\n" + prompt
		}

		slog.Info("attempting generation", "model", name, "file", up.Name, "mime", up.MIMEType, "bytes", up.Size())
		raw, err := g.provider.Generate(ctx, name, req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			slog.Warn("model failed", "model", name, "error", err)
			attempts = append(attempts, &ModelError{Model: name, Err: err})
			continue
		}
		slog.Debug("model response", "model", name, "raw", raw)

		quiz, err := ParseQuiz(raw)
		if err != nil {
			return nil, &ParseError{Model: name, Raw: raw, Err: err}
		}
		if quiz.Metadata.TotalQuestions != len(quiz.Questions) {
			slog.Warn("question count mismatch",
				"model", name,
				"total_questions", quiz.Metadata.TotalQuestions,
				"questions", len(quiz.Questions))
		}
		slog.Info("quiz generated", "model", name, "title", quiz.Metadata.Title, "questions", len(quiz.Questions))
		return quiz, nil
	}

	exhausted := &ExhaustedError{Attempts: attempts}
	slog.Error("generation failed on every model", "attempts", len(attempts), "access_denied", exhausted.AccessDenied())
	return nil, exhausted
}

// ListModels returns the models visible to the configured credential.
func (g *Generator) ListModels(ctx context.Context) ([]string, error) {
	if g.provider == nil {
		return nil, ErrNoCredential
	}
	return g.provider.ListModels(ctx)
}

func (g *Generator) demoQuiz(ctx context.Context, cfg model.ExamConfig) (*model.Quiz, error) {
	slog.Info("no API key configured, serving demo quiz", "level", cfg.AcademicLevel, "language", cfg.Language, "count", cfg.QuestionCount)
	if g.demoDelay > 0 {
		t := time.NewTimer(g.demoDelay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return DemoQuiz(cfg), nil
}

// supportsSystemInstruction reports whether a model accepts a separate
// system instruction. Older models get it folded into the prompt.
func supportsSystemInstruction(name string) bool {
	return name != "gemini-pro" && !strings.HasPrefix(name, "gemini-1.0")
}

// IsConfigError reports whether err means generation is not configured.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrNoCredential)
}
