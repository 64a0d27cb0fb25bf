package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pavelanni/quizforge/internal/model"
)

const quizJSON = `{
  "quiz_metadata": {
    "title": "Fractions",
    "subject": "Mathematics",
    "language": "English",
    "academic_level": "Grade 10",
    "total_questions": 2,
    "duration_minutes": 10
  },
  "questions": [
    {
      "question_id": 1,
      "stem": "What is $\\frac{1}{2} + \\frac{1}{4}$?",
      "options": ["$\\frac{3}{4}$", "$\\frac{2}{6}$", "$1$", "$\\frac{1}{8}$"],
      "correct_answer_index": 0,
      "explanation": "Use a common denominator {4}.",
      "cognitive_level": "Apply",
      "marks": 2
    },
    {
      "question_id": 2,
      "stem": "Is $\\sqrt{4}$ rational?",
      "options": ["Yes", "No"],
      "correct_answer_index": 0,
      "explanation": "It equals $2$.",
      "cognitive_level": "Understand",
      "marks": 1
    }
  ]
}`

type call struct {
	model string
	req   Request
}

type fakeProvider struct {
	calls     []call
	responses map[string]string
	errs      map[string]error
	models    []string
}

func (f *fakeProvider) Generate(_ context.Context, modelName string, req Request) (string, error) {
	f.calls = append(f.calls, call{model: modelName, req: req})
	if err, ok := f.errs[modelName]; ok {
		return "", err
	}
	if resp, ok := f.responses[modelName]; ok {
		return resp, nil
	}
	return "", fmt.Errorf("unexpected model %s", modelName)
}

func (f *fakeProvider) ListModels(context.Context) ([]string, error) { return f.models, nil }
func (f *fakeProvider) Close() error                                 { return nil }

func testUpload() model.Upload {
	return model.Upload{Name: "notes.pdf", MIMEType: "application/pdf", Data: []byte("%PDF-1.4")}
}

func TestGenerateFirstModel(t *testing.T) {
	p := &fakeProvider{responses: map[string]string{"m1": quizJSON}}
	g := NewWithProvider(p, []string{"m1", "m2"})

	quiz, err := g.Generate(context.Background(), testUpload(), model.DefaultExamConfig())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if quiz.Metadata.Title != "Fractions" || len(quiz.Questions) != 2 {
		t.Errorf("unexpected quiz %+v", quiz.Metadata)
	}
	if len(p.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(p.calls))
	}
	req := p.calls[0].req
	if !strings.Contains(req.Prompt, "Number of Questions: 10") {
		t.Error("prompt should carry the question count")
	}
	if !strings.Contains(req.System, "Pedagogical Expert") {
		t.Error("system instruction should be sent separately")
	}
	if req.File.MIMEType != "application/pdf" || string(req.File.Data) != "%PDF-1.4" {
		t.Errorf("file not passed through: %+v", req.File)
	}
	if got := quiz.Questions[0].Stem; got != `What is $\frac{1}{2} + \frac{1}{4}$?` {
		t.Errorf("stem = %q", got)
	}
}

func TestGenerateFallbackIsTransparent(t *testing.T) {
	direct := NewWithProvider(&fakeProvider{responses: map[string]string{"m3": quizJSON}}, []string{"m3"})
	want, err := direct.Generate(context.Background(), testUpload(), model.DefaultExamConfig())
	if err != nil {
		t.Fatalf("direct Generate: %v", err)
	}

	p := &fakeProvider{
		errs: map[string]error{
			"m1": errors.New("503 overloaded"),
			"m2": errors.New("deadline exceeded"),
		},
		responses: map[string]string{"m3": "Here you go:\n```json\n" + quizJSON + "\n```\nGood luck! {not json}"},
	}
	g := NewWithProvider(p, []string{"m1", "m2", "m3", "m4"})
	got, err := g.Generate(context.Background(), testUpload(), model.DefaultExamConfig())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(p.calls) != 3 {
		t.Errorf("expected 3 calls, got %d", len(p.calls))
	}
	if fmt.Sprintf("%+v", got) != fmt.Sprintf("%+v", want) {
		t.Errorf("fallback quiz differs:\n got %+v\nwant %+v", got, want)
	}
}

func TestGenerateParseErrorIsTerminal(t *testing.T) {
	p := &fakeProvider{responses: map[string]string{
		"m1": "I cannot help with that.",
		"m2": quizJSON,
	}}
	g := NewWithProvider(p, []string{"m1", "m2"})
	_, err := g.Generate(context.Background(), testUpload(), model.DefaultExamConfig())

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if perr.Model != "m1" {
		t.Errorf("ParseError.Model = %q", perr.Model)
	}
	if len(p.calls) != 1 {
		t.Errorf("parse failure must not try other models, got %d calls", len(p.calls))
	}
}

func TestGenerateSchemaViolationIsParseError(t *testing.T) {
	bad := strings.Replace(quizJSON, `"cognitive_level": "Apply"`, `"cognitive_level": "Memorize"`, 1)
	p := &fakeProvider{responses: map[string]string{"m1": bad}}
	_, err := NewWithProvider(p, []string{"m1"}).Generate(context.Background(), testUpload(), model.DefaultExamConfig())

	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError inside ParseError, got %v", err)
	}
}

func TestGenerateExhausted(t *testing.T) {
	p := &fakeProvider{errs: map[string]error{
		"m1": errors.New("500 internal"),
		"m2": errors.New("connection reset"),
	}}
	_, err := NewWithProvider(p, []string{"m1", "m2"}).Generate(context.Background(), testUpload(), model.DefaultExamConfig())

	var ex *ExhaustedError
	if !errors.As(err, &ex) {
		t.Fatalf("expected ExhaustedError, got %v", err)
	}
	if len(ex.Attempts) != 2 {
		t.Errorf("attempts = %d, want 2", len(ex.Attempts))
	}
	if ex.AccessDenied() {
		t.Error("generic failures should not be reported as access problems")
	}
	if !strings.Contains(ex.Error(), "connection reset") {
		t.Errorf("error should surface the last failure: %v", ex)
	}
	if errors.Unwrap(ex).Error() != "connection reset" {
		t.Errorf("Unwrap = %v", errors.Unwrap(ex))
	}
}

func TestGenerateExhaustedAccessDenied(t *testing.T) {
	p := &fakeProvider{errs: map[string]error{
		"m1": errors.New("googleapi: Error 404: models/m1 is not found"),
		"m2": errors.New("googleapi: Error 403: PERMISSION_DENIED"),
	}}
	_, err := NewWithProvider(p, []string{"m1", "m2"}).Generate(context.Background(), testUpload(), model.DefaultExamConfig())

	var ex *ExhaustedError
	if !errors.As(err, &ex) {
		t.Fatalf("expected ExhaustedError, got %v", err)
	}
	if !ex.AccessDenied() {
		t.Error("not-found and permission failures should be access problems")
	}
	if !strings.Contains(ex.Error(), "API key") {
		t.Errorf("error should point at the API key: %v", ex)
	}
}

func TestGenerateSystemInstructionFolding(t *testing.T) {
	p := &fakeProvider{responses: map[string]string{"gemini-pro": quizJSON}}
	_, err := NewWithProvider(p, []string{"gemini-pro"}).Generate(context.Background(), testUpload(), model.DefaultExamConfig())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	req := p.calls[0].req
	if req.System != "" {
		t.Error("gemini-pro should not receive a system instruction")
	}
	if !strings.HasPrefix(req.Prompt, "You are a Virtual Pedagogical Expert") {
		t.Error("system instruction should be folded into the prompt")
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	g := NewWithProvider(&fakeProvider{}, []string{"m1"})

	cfg := model.DefaultExamConfig()
	cfg.QuestionCount = 7
	if _, err := g.Generate(context.Background(), testUpload(), cfg); err == nil {
		t.Error("expected config error")
	}

	up := testUpload()
	up.MIMEType = "text/plain"
	if _, err := g.Generate(context.Background(), up, model.DefaultExamConfig()); !errors.Is(err, model.ErrUnsupportedMedia) {
		t.Errorf("expected ErrUnsupportedMedia, got %v", err)
	}
}

func TestGenerateWithoutCredential(t *testing.T) {
	g, err := New(context.Background(), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if g.HasCredential() || g.DemoMode() {
		t.Error("no key and no demo should report neither")
	}
	_, err = g.Generate(context.Background(), testUpload(), model.DefaultExamConfig())
	if !errors.Is(err, ErrNoCredential) || !IsConfigError(err) {
		t.Errorf("expected ErrNoCredential, got %v", err)
	}
	if _, err := g.ListModels(context.Background()); !errors.Is(err, ErrNoCredential) {
		t.Errorf("ListModels without key: %v", err)
	}
}

func TestGenerateDemo(t *testing.T) {
	g, err := New(context.Background(), Options{Demo: true, DemoDelay: time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !g.DemoMode() {
		t.Fatal("expected demo mode")
	}
	cfg := model.ExamConfig{AcademicLevel: "GCE A/L", Language: model.LanguageSinhala, QuestionCount: 15}
	quiz, err := g.Generate(context.Background(), model.Upload{}, cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(quiz.Questions) != 15 || quiz.Metadata.TotalQuestions != 15 {
		t.Errorf("demo quiz has %d questions", len(quiz.Questions))
	}
	if quiz.Metadata.Language != model.LanguageSinhala || quiz.Metadata.AcademicLevel != "GCE A/L" {
		t.Errorf("demo metadata not reshaped: %+v", quiz.Metadata)
	}
	if err := model.ValidateQuiz(quiz); err != nil {
		t.Errorf("demo quiz invalid: %v", err)
	}
}

func TestGenerateDemoHonoursContext(t *testing.T) {
	g, _ := New(context.Background(), Options{Demo: true, DemoDelay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Generate(ctx, model.Upload{}, model.DefaultExamConfig()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestDemoNotReachableWithProvider(t *testing.T) {
	p := &fakeProvider{errs: map[string]error{"m1": errors.New("boom")}}
	g := NewWithProvider(p, []string{"m1"})
	g.demo = true
	if _, err := g.Generate(context.Background(), testUpload(), model.DefaultExamConfig()); err == nil {
		t.Fatal("a failing provider must not fall back to the demo quiz")
	}
}

func TestDemoQuizIDsUnique(t *testing.T) {
	q := DemoQuiz(model.ExamConfig{AcademicLevel: "Grade 5", Language: model.LanguageEnglish, QuestionCount: 30})
	seen := map[int]bool{}
	for _, qq := range q.Questions {
		if seen[qq.ID] {
			t.Fatalf("duplicate id %d", qq.ID)
		}
		seen[qq.ID] = true
	}
	q.Questions[0].Options[0] = "mutated"
	if demoQuestions[0].Options[0] == "mutated" {
		t.Error("DemoQuiz shares option slices with the built-in set")
	}
}

func TestListModels(t *testing.T) {
	g := NewWithProvider(&fakeProvider{models: []string{"gemini-2.5-flash"}}, nil)
	got, err := g.ListModels(context.Background())
	if err != nil || len(got) != 1 {
		t.Errorf("ListModels = %v, %v", got, err)
	}
}
