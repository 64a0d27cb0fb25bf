// Package export renders a quiz as a downloadable document.
package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pavelanni/quizforge/internal/model"
)

// Exporter writes a quiz in one document format.
type Exporter interface {
	Export(ctx context.Context, w io.Writer, q *model.Quiz, includeAnswers bool) error
	ContentType() string
	Extension() string
}

// Formats lists the supported format names.
var Formats = []string{"pdf", "xlsx"}

// Options configures the exporters.
type Options struct {
	// PDFFont is a TrueType font file used instead of the core fonts.
	// Required for scripts outside Windows-1252, such as Sinhala.
	PDFFont string
}

// ByFormat returns the exporter for a format name.
func ByFormat(name string, opts Options) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "pdf":
		return NewPDF(opts.PDFFont), nil
	case "xlsx":
		return NewXLSX(), nil
	default:
		return nil, fmt.Errorf("unknown export format %q (want pdf or xlsx)", name)
	}
}

// optionLetter maps 0 to "A", 1 to "B" and so on.
func optionLetter(i int) string {
	return string(rune('A' + i))
}
