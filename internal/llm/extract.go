package llm

import (
	"errors"
	"strings"

	"github.com/pavelanni/quizforge/internal/model"
)

var errNoJSON = errors.New("no JSON object found in response")

// ExtractJSON returns the first balanced {...} object in text. Braces
// inside JSON strings are ignored, so prose, code fences and anything
// after the object are skipped.
func ExtractJSON(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	for start >= 0 {
		if end := matchBrace(text[start:]); end > 0 {
			return text[start : start+end], nil
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", errNoJSON
}

// matchBrace returns the length of the object starting at s[0], or -1
// when it is never closed.
func matchBrace(s string) int {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// fixEscapes doubles backslashes that do not start a valid JSON escape,
// so "\sqrt" inside a string decodes as a literal backslash.
func fixEscapes(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !inString {
			if c == '"' {
				inString = true
			}
			sb.WriteByte(c)
			continue
		}
		switch c {
		case '"':
			inString = false
			sb.WriteByte(c)
		case '\\':
			if validEscape(s[i+1:]) {
				sb.WriteByte(c)
				sb.WriteByte(s[i+1])
				i++
				continue
			}
			sb.WriteString(`\\`)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// validEscape reports whether s, the text after a backslash, starts a JSON
// escape. \u needs four hex digits, so \underline and \upsilon do not.
func validEscape(s string) bool {
	if s == "" {
		return false
	}
	if s[0] != 'u' {
		return strings.IndexByte(`"\/bfnrt`, s[0]) >= 0
	}
	if len(s) < 5 {
		return false
	}
	for i := 1; i < 5; i++ {
		if !isHex(s[i]) {
			return false
		}
	}
	return true
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// ParseQuiz extracts, decodes and validates a quiz from raw model output.
func ParseQuiz(raw string) (*model.Quiz, error) {
	obj, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}
	return model.DecodeQuiz([]byte(fixEscapes(obj)))
}
