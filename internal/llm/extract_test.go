package llm

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/pavelanni/quizforge/internal/model"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"bare", `{"a":1}`, `{"a":1}`, false},
		{"prose around", `Sure! {"a":1} Hope this helps.`, `{"a":1}`, false},
		{"code fence", "```json\n{\"a\":{\"b\":2}}\n```", `{"a":{"b":2}}`, false},
		{"trailing object", `{"a":1} and also {"b":2}`, `{"a":1}`, false},
		{"braces in strings", `{"s":"a } b { c"}`, `{"s":"a } b { c"}`, false},
		{"escaped quote", `{"s":"say \"}\" ok"}`, `{"s":"say \"}\" ok"}`, false},
		{"unclosed then closed", `{ oops {"a":1}`, `{"a":1}`, false},
		{"none", `no json here`, "", true},
		{"unclosed", `{"a":1`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFixEscapes(t *testing.T) {
	in := `{"s":"$\sqrt{2}$ and \\frac and \n and \"q\""}`
	var out struct{ S string }
	if err := json.Unmarshal([]byte(fixEscapes(in)), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := "$\\sqrt{2}$ and \\frac and \n and \"q\""
	if out.S != want {
		t.Errorf("got %q, want %q", out.S, want)
	}
}

func TestFixEscapesUnicode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"underline", `{"s":"$\underline{4}$"}`, `$\underline{4}$`},
		{"uparrow", `{"s":"$\uparrow$"}`, `$\uparrow$`},
		{"upsilon", `{"s":"$\upsilon$"}`, `$\upsilon$`},
		{"short tail", `{"s":"\u12"}`, `\u12`},
		{"real escape", `{"s":"caf\u00e9"}`, "café"},
		{"upper hex", `{"s":"\u00C9"}`, "É"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out struct{ S string }
			if err := json.Unmarshal([]byte(fixEscapes(tt.in)), &out); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if out.S != tt.want {
				t.Errorf("got %q, want %q", out.S, tt.want)
			}
		})
	}
}

func TestParseQuizSingleBackslashLaTeX(t *testing.T) {
	raw := `{"quiz_metadata":{"title":"T","subject":"S","language":"English","total_questions":1,"duration_minutes":5},
"questions":[{"question_id":7,"stem":"Find $\sqrt{9}$","options":["$3$","$9$"],"correct_answer_index":0,
"explanation":"$\sqrt{9}=3$","cognitive_level":"Remember","marks":1}]}`
	q, err := ParseQuiz(raw)
	if err != nil {
		t.Fatalf("ParseQuiz: %v", err)
	}
	if q.Questions[0].Stem != `Find $\sqrt{9}$` {
		t.Errorf("stem = %q", q.Questions[0].Stem)
	}
}

func TestParseQuizUnderline(t *testing.T) {
	raw := `{"quiz_metadata":{"title":"T","subject":"S","language":"English","total_questions":1,"duration_minutes":5},
"questions":[{"question_id":1,"stem":"Is $\underline{4}$ rational?","options":["Yes","No"],"correct_answer_index":0,
"explanation":"$\upsilon$ aside, yes","cognitive_level":"Remember","marks":1}]}`
	q, err := ParseQuiz(raw)
	if err != nil {
		t.Fatalf("ParseQuiz: %v", err)
	}
	if q.Questions[0].Stem != `Is $\underline{4}$ rational?` {
		t.Errorf("stem = %q", q.Questions[0].Stem)
	}
}

func TestParseQuizMissingKeys(t *testing.T) {
	tests := []struct {
		name string
		drop string
		want string
	}{
		{"question id", `"question_id":1,`, "questions[0].question_id is missing"},
		{"correct answer", `"correct_answer_index":1,`, "questions[0].correct_answer_index is missing"},
		{"total questions", `"total_questions":1,`, "quiz_metadata.total_questions is missing"},
	}
	base := `{"quiz_metadata":{"title":"T","subject":"S","language":"English","total_questions":1,"duration_minutes":5},
"questions":[{"question_id":1,"stem":"Pick B","options":["A","B"],"correct_answer_index":1,
"explanation":"B","cognitive_level":"Remember","marks":1}]}`
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := strings.Replace(base, tt.drop, "", 1)
			if raw == base {
				t.Fatalf("fixture does not contain %q", tt.drop)
			}
			_, err := ParseQuiz(raw)
			var verr *model.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("ParseQuiz() error = %v, want *model.ValidationError", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
