// Package mathtext renders strings that mix plain text with inline
// $...$ math, repairing the LaTeX typos language models tend to produce.
package mathtext

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/a-h/templ"
)

var inlineMath = regexp.MustCompile(`\$[^$]+\$`)

// Engine typesets a single LaTeX expression in inline mode.
type Engine interface {
	RenderInline(tex string) (string, error)
}

// Renderer turns mixed text into HTML markup. The zero value is not
// usable; use New or Default.
type Renderer struct {
	engine Engine
}

// New creates a Renderer backed by the given engine.
func New(e Engine) *Renderer {
	return &Renderer{engine: e}
}

// Default renders math as KaTeX source markup.
var Default = New(KaTeX{})

// Render returns HTML for text. Plain segments are escaped, math segments
// are repaired and passed to the engine. A segment the engine rejects is
// shown as its raw text in a math-error span; the rest of the string is
// still rendered.
func (r *Renderer) Render(text string) string {
	if text == "" {
		return ""
	}
	var sb strings.Builder
	last := 0
	for _, loc := range inlineMath.FindAllStringIndex(text, -1) {
		sb.WriteString(templ.EscapeString(text[last:loc[0]]))
		raw := text[loc[0]+1 : loc[1]-1]
		html, err := r.engine.RenderInline(Repair(raw))
		if err != nil {
			slog.Debug("math render failed", "tex", raw, "error", err)
			sb.WriteString(`<span class="math-error">`)
			sb.WriteString(templ.EscapeString(raw))
			sb.WriteString(`</span>`)
		} else {
			sb.WriteString(html)
		}
		last = loc[1]
	}
	sb.WriteString(templ.EscapeString(text[last:]))
	return sb.String()
}

// Component wraps Render as a templ component.
func (r *Renderer) Component(text string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, r.Render(text))
		return err
	})
}

// Plain returns text with math delimiters removed and math segments
// repaired, for outputs that cannot typeset LaTeX.
func Plain(text string) string {
	return inlineMath.ReplaceAllStringFunc(text, func(m string) string {
		return Repair(m[1 : len(m)-1])
	})
}

// KaTeX emits a span carrying the TeX source; the page script typesets it
// with KaTeX in non-display mode.
type KaTeX struct{}

var (
	errEmpty      = errors.New("empty expression")
	errUnbalanced = errors.New("unbalanced braces")
	errControl    = errors.New("control character in expression")
)

// RenderInline implements Engine.
func (KaTeX) RenderInline(tex string) (string, error) {
	if strings.TrimSpace(tex) == "" {
		return "", errEmpty
	}
	depth := 0
	escaped := false
	for _, r := range tex {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '{':
			depth++
		case r == '}':
			depth--
			if depth < 0 {
				return "", errUnbalanced
			}
		case r < 0x20 && r != '\n':
			return "", errControl
		}
	}
	if depth != 0 {
		return "", errUnbalanced
	}
	esc := templ.EscapeString(tex)
	return `<span class="math" data-tex="` + esc + `">` + esc + `</span>`, nil
}
