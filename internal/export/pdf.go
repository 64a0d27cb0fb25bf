package export

import (
	"context"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/pavelanni/quizforge/internal/mathtext"
	"github.com/pavelanni/quizforge/internal/model"
)

const (
	coreFamily = "Helvetica"
	ttfFamily  = "quizforge"
	lineHeight = 6.0
)

// PDF renders an A4 exam paper.
type PDF struct {
	fontPath string
}

// NewPDF returns a PDF exporter. An empty fontPath uses the core
// Helvetica font with Windows-1252 translation.
func NewPDF(fontPath string) *PDF {
	return &PDF{fontPath: fontPath}
}

func (p *PDF) ContentType() string { return "application/pdf" }
func (p *PDF) Extension() string   { return "pdf" }

type pdfDoc struct {
	pdf    *fpdf.Fpdf
	family string
	tr     func(string) string
}

func (d *pdfDoc) font(style string, size float64) {
	d.pdf.SetFont(d.family, style, size)
}

func (d *pdfDoc) para(text string) {
	d.pdf.MultiCell(0, lineHeight, d.tr(mathtext.Plain(text)), "", "L", false)
}

// Export writes the paper. With includeAnswers every question is followed
// by its correct option and explanation.
func (p *PDF) Export(ctx context.Context, w io.Writer, q *model.Quiz, includeAnswers bool) error {
	if q == nil {
		return fmt.Errorf("no quiz to export")
	}
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)

	d := &pdfDoc{pdf: pdf, family: coreFamily, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	if p.fontPath != "" {
		pdf.AddUTF8Font(ttfFamily, "", p.fontPath)
		pdf.AddUTF8Font(ttfFamily, "B", p.fontPath)
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("load font %s: %w", p.fontPath, err)
		}
		d.family = ttfFamily
		d.tr = func(s string) string { return s }
	}

	meta := q.Metadata
	pdf.SetTitle(meta.Title, true)
	pdf.SetSubject(meta.Subject, true)
	pdf.SetCreator("quizforge", true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		d.font("", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	d.font("B", 16)
	pdf.MultiCell(0, 8, d.tr(meta.Title), "", "C", false)
	d.font("", 10)
	header := meta.Subject
	if meta.AcademicLevel != "" {
		header += " | " + meta.AcademicLevel
	}
	if meta.DurationMinutes > 0 {
		header += fmt.Sprintf(" | %d minutes", meta.DurationMinutes)
	}
	header += fmt.Sprintf(" | %d marks", q.TotalMarks())
	pdf.MultiCell(0, lineHeight, d.tr(header), "", "C", false)
	if includeAnswers {
		d.font("B", 10)
		pdf.MultiCell(0, lineHeight, d.tr("Answer key included"), "", "C", false)
	}
	pdf.Ln(4)

	for i, qq := range q.Questions {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.font("B", 11)
		d.para(fmt.Sprintf("%d. %s  [%d]", i+1, qq.Stem, qq.Marks))
		d.font("", 11)
		for j, opt := range qq.Options {
			pdf.SetX(pdf.GetX() + 6)
			d.para(fmt.Sprintf("(%s) %s", optionLetter(j), opt))
		}
		if includeAnswers {
			pdf.Ln(1)
			pdf.SetTextColor(0, 110, 60)
			d.font("B", 10)
			d.para(fmt.Sprintf("Answer: (%s) %s", optionLetter(qq.CorrectAnswerIndex), qq.Options[qq.CorrectAnswerIndex]))
			pdf.SetTextColor(80, 80, 80)
			d.font("", 10)
			d.para(fmt.Sprintf("%s. %s", qq.CognitiveLevel, qq.Explanation))
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.Ln(3)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}
