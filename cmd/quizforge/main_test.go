package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pavelanni/quizforge/internal/llm"
	"github.com/pavelanni/quizforge/internal/model"
)

func TestAPIKeyEnvFallbacks(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"prefixed", map[string]string{"QUIZFORGE_API_KEY": "a"}, "a"},
		{"gemini", map[string]string{"GEMINI_API_KEY": "b"}, "b"},
		{"vite", map[string]string{"VITE_GEMINI_API_KEY": "c"}, "c"},
		{"prefixed wins", map[string]string{"QUIZFORGE_API_KEY": "a", "GEMINI_API_KEY": "b"}, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"QUIZFORGE_API_KEY", "GEMINI_API_KEY", "VITE_GEMINI_API_KEY"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			v := viperForCmd(generateCmd())
			if got := llmOptions(v).APIKey; got != tt.want {
				t.Errorf("APIKey = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLLMOptionDefaults(t *testing.T) {
	t.Setenv("QUIZFORGE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("VITE_GEMINI_API_KEY", "")
	t.Setenv("QUIZFORGE_DEMO_DELAY", "5ms")
	opts := llmOptions(viperForCmd(serveCmd()))
	if opts.Provider != "gemini" || !opts.Demo || opts.DemoDelay.Milliseconds() != 5 {
		t.Errorf("options = %+v", opts)
	}
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	quiz := llm.DemoQuiz(model.DefaultExamConfig())
	data, err := json.Marshal(quiz)
	if err != nil {
		t.Fatal(err)
	}
	quizPath := filepath.Join(dir, "quiz.json")
	if err := os.WriteFile(quizPath, data, 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "paper.xlsx")
	root := rootCmd()
	root.SetArgs([]string{"export", "--quiz", quizPath, "--format", "xlsx", "--answers", "-o", out, "--log-level", "error"})
	if err := root.Execute(); err != nil {
		t.Fatalf("export: %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(got, []byte("PK")) {
		t.Error("output is not an xlsx archive")
	}
}

func TestLoadQuizRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte(`{"quiz_metadata":{"title":"x"},"questions":[]}`), 0o644)
	if _, err := loadQuiz(path); err == nil {
		t.Error("expected validation error")
	}
}
