package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pavelanni/quizforge/internal/export"
	"github.com/pavelanni/quizforge/internal/model"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a generated exam JSON file as PDF or XLSX",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.StringP("quiz", "q", "", "Exam JSON file written by `quizforge generate`")
	f.Bool("answers", false, "Include the answer key and explanations")
	f.String("format", "pdf", "Output format (pdf, xlsx)")
	f.StringP("output", "o", "", "Output file path (default: derived from the exam title)")
	f.String("pdf-font", "", "TrueType font for PDF export (needed for Sinhala)")
	addLogFlags(cmd)
	_ = cmd.MarkFlagRequired("quiz")
	return cmd
}

func loadQuiz(path string) (*model.Quiz, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	quiz, err := model.DecodeQuiz(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return quiz, nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	v := setup(cmd)

	quiz, err := loadQuiz(v.GetString("quiz"))
	if err != nil {
		return err
	}
	exp, err := export.ByFormat(v.GetString("format"), export.Options{PDFFont: v.GetString("pdf-font")})
	if err != nil {
		return err
	}

	kind := model.PaperQuestions
	if v.GetBool("answers") {
		kind = model.PaperFull
	}

	var buf bytes.Buffer
	if err := exp.Export(cmd.Context(), &buf, quiz, kind.IncludesAnswers()); err != nil {
		return fmt.Errorf("export %s: %w", exp.Extension(), err)
	}

	out := v.GetString("output")
	if out == "" {
		out = model.ExportFileName(quiz, kind, exp.Extension())
	}
	return writeOutput(out, buf.Bytes())
}
