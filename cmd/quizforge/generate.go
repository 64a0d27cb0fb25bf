package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pavelanni/quizforge/internal/llm"
	"github.com/pavelanni/quizforge/internal/model"
)

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an exam from a study file and write it as JSON",
		RunE:  runGenerate,
	}
	def := model.DefaultExamConfig()
	f := cmd.Flags()
	f.StringP("file", "f", "", "Study material (PDF, image or video)")
	f.String("level", def.AcademicLevel, "Academic level (Grade 1-13, GCE O/L, GCE A/L)")
	f.String("language", string(def.Language), "Exam language (English, Sinhala)")
	f.IntP("count", "n", def.QuestionCount, "Number of questions (5-30, step 5)")
	f.String("topics", "", "Optional focus topics")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	addLLMFlags(cmd)
	addLogFlags(cmd)
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	v := setup(cmd)
	ctx := cmd.Context()

	cfg := model.ExamConfig{
		AcademicLevel: v.GetString("level"),
		Language:      model.Language(v.GetString("language")),
		FocusTopics:   v.GetString("topics"),
		QuestionCount: v.GetInt("count"),
	}
	if err := model.ValidateConfig(cfg); err != nil {
		return err
	}

	path := v.GetString("file")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read study material: %w", err)
	}
	up, err := model.NewUpload(filepath.Base(path), "", data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	opts := llmOptions(v)
	if opts.APIKey == "" {
		if opts.APIKey, err = promptAPIKey(); err != nil {
			return err
		}
	}
	gen, err := newGenerator(ctx, opts)
	if err != nil {
		return err
	}
	defer gen.Close()

	quiz, err := gen.Generate(ctx, up, cfg)
	if err != nil {
		var exhausted *llm.ExhaustedError
		if errors.As(err, &exhausted) {
			for _, a := range exhausted.Attempts {
				slog.Debug("attempt failed", "model", a.Model, "error", a.Err)
			}
		}
		return fmt.Errorf("generate exam: %w", err)
	}

	out, err := json.MarshalIndent(quiz, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	return writeOutput(v.GetString("output"), append(out, '\n'))
}
