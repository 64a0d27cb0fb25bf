package mathtext

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

type recordingEngine struct {
	got  []string
	fail map[string]bool
}

func (e *recordingEngine) RenderInline(tex string) (string, error) {
	e.got = append(e.got, tex)
	if e.fail[tex] {
		return "", errors.New("boom")
	}
	return "<m>" + tex + "</m>", nil
}

func TestRepair(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"missing f", `\rac{1}{2}`, `\frac{1}{2}`},
		{"missing t", `\ext{cm}`, `\text{cm}`},
		{"truncated times", `3 \imes 4`, `3 \times 4`},
		{"bare frac", `frac{a}{b}`, `\frac{a}{b}`},
		{"bare text after space", `5 text{kg}`, `5 \text{kg}`},
		{"form feed from json", "\frac{1}{2}", `\frac{1}{2}`},
		{"tab from json", "3 \times 4", `3 \times 4`},
		{"carriage return from json", "x \rightarrow y", `x \rightarrow y`},
		{"backspace from json", "\beta", `\beta`},
		{"newline from json", "a \neq b", `a \neq b`},
		{"already valid", `\frac{1}{2} \times \text{m}`, `\frac{1}{2} \times \text{m}`},
		{"plain", `x+1=0`, `x+1=0`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Repair(tt.in); got != tt.want {
				t.Errorf("Repair(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRenderPlainText(t *testing.T) {
	e := &recordingEngine{}
	r := New(e)
	in := "No math here, just words."
	if got := r.Render(in); got != in {
		t.Errorf("Render(%q) = %q", in, got)
	}
	if len(e.got) != 0 {
		t.Errorf("engine called for plain text: %v", e.got)
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := New(&recordingEngine{}).Render(""); got != "" {
		t.Errorf("Render(\"\") = %q, want empty", got)
	}
}

func TestRenderMixed(t *testing.T) {
	e := &recordingEngine{}
	got := New(e).Render("Solve $x+1=0$ for <x>")
	want := "Solve <m>x+1=0</m> for &lt;x&gt;"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
	if len(e.got) != 1 || e.got[0] != "x+1=0" {
		t.Errorf("engine got %v", e.got)
	}
}

func TestRenderRepairsBeforeEngine(t *testing.T) {
	e := &recordingEngine{}
	New(e).Render(`Half is $\rac{1}{2}$.`)
	if len(e.got) != 1 || e.got[0] != `\frac{1}{2}` {
		t.Errorf("engine got %v, want repaired \\frac", e.got)
	}
}

func TestRenderSegmentFailure(t *testing.T) {
	e := &recordingEngine{fail: map[string]bool{`\frac{1}{2}`: true}}
	got := New(e).Render(`A $\rac{1}{2}$ and $y$`)
	if !strings.Contains(got, `<span class="math-error">\rac{1}{2}</span>`) {
		t.Errorf("failed segment should show raw text, got %q", got)
	}
	if !strings.Contains(got, "<m>y</m>") {
		t.Errorf("other segments should still render, got %q", got)
	}
}

func TestRenderUnpairedDollar(t *testing.T) {
	e := &recordingEngine{}
	got := New(e).Render("costs $5 each")
	if got != "costs $5 each" {
		t.Errorf("Render = %q", got)
	}
	if len(e.got) != 0 {
		t.Errorf("engine should not be called, got %v", e.got)
	}
}

func TestKaTeXEngine(t *testing.T) {
	tests := []struct {
		tex     string
		wantErr bool
	}{
		{`x+1=0`, false},
		{`\frac{1}{2}`, false},
		{`\{a\}`, false},
		{`\frac{1}{2`, true},
		{`a}{`, true},
		{"   ", true},
		{"\frac{1}{2}", true},
	}
	for _, tt := range tests {
		html, err := KaTeX{}.RenderInline(tt.tex)
		if (err != nil) != tt.wantErr {
			t.Errorf("RenderInline(%q) error = %v, wantErr %v", tt.tex, err, tt.wantErr)
		}
		if err == nil && !strings.HasPrefix(html, `<span class="math" data-tex=`) {
			t.Errorf("RenderInline(%q) = %q", tt.tex, html)
		}
	}
}

func TestDefaultRendererMalformed(t *testing.T) {
	got := Default.Render(`Evaluate $\rac{1}{2} \imes 4$`)
	if !strings.Contains(got, `data-tex="\frac{1}{2} \times 4"`) {
		t.Errorf("Render = %q", got)
	}
}

func TestDefaultRendererEscapesTeX(t *testing.T) {
	got := Default.Render(`$a<b$`)
	if strings.Contains(got, "<b") {
		t.Errorf("TeX not escaped: %q", got)
	}
}

func TestPlain(t *testing.T) {
	got := Plain(`Solve $\rac{1}{2} x = 3$ now`)
	want := `Solve \frac{1}{2} x = 3 now`
	if got != want {
		t.Errorf("Plain = %q, want %q", got, want)
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&recordingEngine{}).Component("a $b$").Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "a <m>b</m>" {
		t.Errorf("Component rendered %q", buf.String())
	}
}
