package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func validQuiz() *Quiz {
	return &Quiz{
		Metadata: QuizMetadata{
			Title:           "Linear Equations",
			Subject:         "Mathematics",
			Language:        LanguageEnglish,
			AcademicLevel:   "Grade 10",
			TotalQuestions:  2,
			DurationMinutes: 20,
		},
		Questions: []Question{
			{
				ID:                 1,
				Stem:               "Solve $x+1=0$",
				Options:            []string{"$-1$", "$0$", "$1$", "$2$"},
				CorrectAnswerIndex: 0,
				Explanation:        "Subtract 1 from both sides.",
				CognitiveLevel:     LevelApply,
				Marks:              2,
			},
			{
				ID:                 2,
				Stem:               "Is $2x$ linear?",
				Options:            []string{"Yes", "No"},
				CorrectAnswerIndex: 0,
				Explanation:        "Degree one.",
				CognitiveLevel:     LevelUnderstand,
				Marks:              1,
			},
		},
	}
}

func TestValidateQuiz(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(q *Quiz)
		wantErr string
	}{
		{"valid", func(q *Quiz) {}, ""},
		{"missing title", func(q *Quiz) { q.Metadata.Title = "" }, "Title"},
		{"bad language", func(q *Quiz) { q.Metadata.Language = "French" }, "language"},
		{"no questions", func(q *Quiz) { q.Questions = nil }, "Questions"},
		{"one option", func(q *Quiz) { q.Questions[1].Options = []string{"Yes"} }, "Options"},
		{"seven options", func(q *Quiz) {
			q.Questions[1].Options = []string{"a", "b", "c", "d", "e", "f", "g"}
			q.Questions[1].CorrectAnswerIndex = 0
		}, "Options"},
		{"empty option", func(q *Quiz) { q.Questions[0].Options[2] = "" }, "Options[2]"},
		{"index out of range", func(q *Quiz) { q.Questions[1].CorrectAnswerIndex = 2 }, "out of range"},
		{"negative index", func(q *Quiz) { q.Questions[0].CorrectAnswerIndex = -1 }, "CorrectAnswerIndex"},
		{"bad cognitive level", func(q *Quiz) { q.Questions[0].CognitiveLevel = "Memorize" }, "cognitive_level"},
		{"zero marks", func(q *Quiz) { q.Questions[0].Marks = 0 }, "Marks"},
		{"missing stem", func(q *Quiz) { q.Questions[0].Stem = "" }, "Stem"},
		{"duplicate id", func(q *Quiz) { q.Questions[1].ID = 1 }, "duplicate question_id"},
		{"total mismatch tolerated", func(q *Quiz) { q.Metadata.TotalQuestions = 10 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuiz()
			tt.mutate(q)
			err := ValidateQuiz(q)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateQuiz() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateQuiz() = nil, want error containing %q", tt.wantErr)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeQuizMissingKeys(t *testing.T) {
	tests := []struct {
		name    string
		drop    func(raw map[string]any)
		wantErr string
	}{
		{"complete", func(map[string]any) {}, ""},
		{"question_id", func(raw map[string]any) { delete(question(raw, 0), "question_id") }, "questions[0].question_id is missing"},
		{"correct_answer_index", func(raw map[string]any) { delete(question(raw, 1), "correct_answer_index") }, "questions[1].correct_answer_index is missing"},
		{"marks", func(raw map[string]any) { delete(question(raw, 1), "marks") }, "questions[1].marks is missing"},
		{"total_questions", func(raw map[string]any) {
			delete(raw["quiz_metadata"].(map[string]any), "total_questions")
		}, "quiz_metadata.total_questions is missing"},
		{"quiz_metadata", func(raw map[string]any) { delete(raw, "quiz_metadata") }, "quiz_metadata is missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(validQuiz())
			if err != nil {
				t.Fatal(err)
			}
			var raw map[string]any
			if err := json.Unmarshal(data, &raw); err != nil {
				t.Fatal(err)
			}
			tt.drop(raw)
			data, _ = json.Marshal(raw)

			q, err := DecodeQuiz(data)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("DecodeQuiz() = %v, want nil", err)
				}
				if q.Questions[1].CorrectAnswerIndex != 0 || q.Questions[1].ID != 2 {
					t.Errorf("decoded question = %+v", q.Questions[1])
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("DecodeQuiz() error = %v, want *ValidationError", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeQuizSyntaxError(t *testing.T) {
	if _, err := DecodeQuiz([]byte(`{"questions":`)); err == nil {
		t.Fatal("expected decode error")
	}
}

func question(raw map[string]any, i int) map[string]any {
	return raw["questions"].([]any)[i].(map[string]any)
}

func TestValidateQuizNil(t *testing.T) {
	if err := ValidateQuiz(nil); err == nil {
		t.Fatal("expected error for nil quiz")
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ExamConfig
		wantErr bool
	}{
		{"default", DefaultExamConfig(), false},
		{"sinhala A/L", ExamConfig{AcademicLevel: "GCE A/L", Language: LanguageSinhala, QuestionCount: 30}, false},
		{"too few", ExamConfig{AcademicLevel: "Grade 1", Language: LanguageEnglish, QuestionCount: 0}, true},
		{"too many", ExamConfig{AcademicLevel: "Grade 1", Language: LanguageEnglish, QuestionCount: 35}, true},
		{"off step", ExamConfig{AcademicLevel: "Grade 1", Language: LanguageEnglish, QuestionCount: 12}, true},
		{"unknown level", ExamConfig{AcademicLevel: "Grade 14", Language: LanguageEnglish, QuestionCount: 10}, true},
		{"unknown language", ExamConfig{AcademicLevel: "Grade 5", Language: "Tamil", QuestionCount: 10}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestQuizLookupAndMarks(t *testing.T) {
	q := validQuiz()
	got, ok := q.Question(2)
	if !ok || got.Stem != "Is $2x$ linear?" {
		t.Errorf("Question(2) = %+v, %v", got, ok)
	}
	if _, ok := q.Question(99); ok {
		t.Error("Question(99) should not be found")
	}
	if q.TotalMarks() != 3 {
		t.Errorf("TotalMarks() = %d, want 3", q.TotalMarks())
	}
}

func TestQuizClone(t *testing.T) {
	q := validQuiz()
	c := q.Clone()
	c.Questions[0].Options[0] = "changed"
	c.Metadata.Title = "changed"
	if q.Questions[0].Options[0] == "changed" || q.Metadata.Title == "changed" {
		t.Error("Clone shares state with the original")
	}
}

func TestExportFileName(t *testing.T) {
	tests := []struct {
		title string
		kind  PaperKind
		ext   string
		want  string
	}{
		{"Algebra Basics", PaperFull, "pdf", "algebra-basics-full.pdf"},
		{"  Newton's Laws!! ", PaperQuestions, "xlsx", "newton-s-laws-questions.xlsx"},
		{"ගණිතය", PaperQuestions, "pdf", "exam-questions.pdf"},
		{"", PaperFull, "pdf", "exam-full.pdf"},
	}
	for _, tt := range tests {
		q := &Quiz{Metadata: QuizMetadata{Title: tt.title}}
		if got := ExportFileName(q, tt.kind, tt.ext); got != tt.want {
			t.Errorf("ExportFileName(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestParsePaperKind(t *testing.T) {
	if ParsePaperKind("FULL") != PaperFull {
		t.Error("FULL should parse as full")
	}
	if ParsePaperKind("anything") != PaperQuestions {
		t.Error("unknown kinds default to questions")
	}
	if !PaperFull.IncludesAnswers() || PaperQuestions.IncludesAnswers() {
		t.Error("IncludesAnswers mismatch")
	}
}
