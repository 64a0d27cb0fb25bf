package prompts

import (
	"strings"
	"testing"

	"github.com/pavelanni/quizforge/internal/model"
)

func TestBuildGeneratePrompt(t *testing.T) {
	cfg := model.ExamConfig{
		AcademicLevel: "GCE O/L",
		Language:      model.LanguageSinhala,
		FocusTopics:   "Algebra,\n  Newton's Laws",
		QuestionCount: 15,
	}
	prompt, err := BuildGeneratePrompt(cfg)
	if err != nil {
		t.Fatalf("BuildGeneratePrompt: %v", err)
	}
	for _, want := range []string{
		"Academic Level: GCE O/L",
		"Language: Sinhala",
		"Number of Questions: 15",
		"Focus Topics: Algebra, Newton's Laws",
		`"total_questions": 15`,
		"Remember|Understand|Apply|Analyze|Evaluate|Create",
		`"quiz_metadata"`,
		`"correct_answer_index"`,
		"double backslash",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt should contain %q", want)
		}
	}
}

func TestBuildGeneratePromptWithoutTopics(t *testing.T) {
	prompt, err := BuildGeneratePrompt(model.DefaultExamConfig())
	if err != nil {
		t.Fatalf("BuildGeneratePrompt: %v", err)
	}
	if strings.Contains(prompt, "Focus Topics") {
		t.Error("prompt should not mention focus topics when none are set")
	}
}

func TestSystemInstruction(t *testing.T) {
	sys, err := SystemInstruction()
	if err != nil {
		t.Fatalf("SystemInstruction: %v", err)
	}
	for _, want := range []string{"Sri Lankan Curriculum", "Misra", `\\frac not \frac`, "Remember, Understand"} {
		if !strings.Contains(sys, want) {
			t.Errorf("system instruction should contain %q", want)
		}
	}
}

func TestSanitizeTopics(t *testing.T) {
	long := strings.Repeat("ab ", 400)
	if got := sanitizeTopics(long); len([]rune(got)) != 500 {
		t.Errorf("sanitizeTopics length = %d, want 500", len([]rune(got)))
	}
	if got := sanitizeTopics("  a\n\tb  "); got != "a b" {
		t.Errorf("sanitizeTopics = %q", got)
	}
}
