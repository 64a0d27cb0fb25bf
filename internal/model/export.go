package model

import (
	"strings"
	"unicode"
)

// PaperKind selects which version of the paper is exported.
type PaperKind string

const (
	// PaperQuestions is the question paper without answers.
	PaperQuestions PaperKind = "questions"
	// PaperFull includes the answer key and explanations.
	PaperFull PaperKind = "full"
)

// IncludesAnswers reports whether the paper carries the answer key.
func (k PaperKind) IncludesAnswers() bool {
	return k == PaperFull
}

// ParsePaperKind maps a request value to a PaperKind, defaulting to questions.
func ParsePaperKind(s string) PaperKind {
	if PaperKind(strings.ToLower(strings.TrimSpace(s))) == PaperFull {
		return PaperFull
	}
	return PaperQuestions
}

// ExportFileName builds the download name for a quiz, e.g.
// "algebra-basics-full.pdf".
func ExportFileName(q *Quiz, kind PaperKind, ext string) string {
	title := "exam"
	if q != nil && q.Metadata.Title != "" {
		title = q.Metadata.Title
	}
	return slug(title) + "-" + string(kind) + "." + ext
}

func slug(s string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			sb.WriteRune(r)
			dash = false
		case !dash && sb.Len() > 0:
			sb.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(sb.String(), "-")
	if out == "" {
		return "exam"
	}
	return out
}
