package export

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/pavelanni/quizforge/internal/mathtext"
	"github.com/pavelanni/quizforge/internal/model"
)

const (
	questionsSheet = "Questions"
	examSheet      = "Exam"
	maxOptions     = 6
)

// XLSX renders the quiz as a spreadsheet, one question per row.
type XLSX struct{}

// NewXLSX returns a spreadsheet exporter.
func NewXLSX() *XLSX {
	return &XLSX{}
}

func (x *XLSX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (x *XLSX) Extension() string { return "xlsx" }

// Export writes the workbook. Answer key columns are added only with
// includeAnswers.
func (x *XLSX) Export(ctx context.Context, w io.Writer, q *model.Quiz, includeAnswers bool) error {
	if q == nil {
		return fmt.Errorf("no quiz to export")
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", questionsSheet); err != nil {
		return err
	}

	header := []any{"#", "Question"}
	for i := range maxOptions {
		header = append(header, "Option "+optionLetter(i))
	}
	header = append(header, "Marks", "Cognitive level")
	if includeAnswers {
		header = append(header, "Answer", "Explanation")
	}
	if err := f.SetSheetRow(questionsSheet, "A1", &header); err != nil {
		return err
	}

	for i, qq := range q.Questions {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := []any{i + 1, mathtext.Plain(qq.Stem)}
		for j := range maxOptions {
			if j < len(qq.Options) {
				row = append(row, mathtext.Plain(qq.Options[j]))
			} else {
				row = append(row, "")
			}
		}
		row = append(row, qq.Marks, string(qq.CognitiveLevel))
		if includeAnswers {
			row = append(row, optionLetter(qq.CorrectAnswerIndex), mathtext.Plain(qq.Explanation))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(questionsSheet, cell, &row); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(questionsSheet, "A1", last, bold); err != nil {
		return err
	}
	if err := f.SetColWidth(questionsSheet, "B", "B", 60); err != nil {
		return err
	}
	if err := f.SetPanes(questionsSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}

	if err := writeExamSheet(f, q, bold); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}

func writeExamSheet(f *excelize.File, q *model.Quiz, bold int) error {
	if _, err := f.NewSheet(examSheet); err != nil {
		return err
	}
	m := q.Metadata
	rows := [][]any{
		{"Title", m.Title},
		{"Subject", m.Subject},
		{"Language", string(m.Language)},
		{"Academic level", m.AcademicLevel},
		{"Questions", len(q.Questions)},
		{"Total marks", q.TotalMarks()},
		{"Duration (minutes)", m.DurationMinutes},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(examSheet, cell, &r); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(examSheet, "A1", fmt.Sprintf("A%d", len(rows)), bold); err != nil {
		return err
	}
	return f.SetColWidth(examSheet, "A", "A", 20)
}
