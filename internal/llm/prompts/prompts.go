// Package prompts builds the instructions sent to the generative model.
package prompts

import (
	"bytes"
	"embed"
	"errors"
	"strings"
	"sync"
	"text/template"

	"github.com/pavelanni/quizforge/internal/model"
)

//go:embed templates/*.txt
var templateFS embed.FS

var (
	loadOnce       sync.Once
	loadErr        error
	systemTemplate *template.Template
	genTemplate    *template.Template
)

// GenerateData holds template data for the generation prompt.
type GenerateData struct {
	AcademicLevel   string
	Language        model.Language
	QuestionCount   int
	FocusTopics     string
	CognitiveLevels string
}

// NewGenerateData derives template data from an exam configuration.
func NewGenerateData(cfg model.ExamConfig) GenerateData {
	return GenerateData{
		AcademicLevel:   cfg.AcademicLevel,
		Language:        cfg.Language,
		QuestionCount:   cfg.QuestionCount,
		FocusTopics:     sanitizeTopics(cfg.FocusTopics),
		CognitiveLevels: cognitiveLevels(),
	}
}

// Load parses the embedded templates. It is safe to call repeatedly.
func Load() error {
	loadOnce.Do(func() {
		systemTemplate, loadErr = parse("templates/system.txt")
		if loadErr != nil {
			return
		}
		genTemplate, loadErr = parse("templates/generate.txt")
	})
	return loadErr
}

func parse(name string) (*template.Template, error) {
	content, err := templateFS.ReadFile(name)
	if err != nil {
		return nil, errors.New("failed to read prompt file " + name + ": " + err.Error())
	}
	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return nil, errors.New("failed to parse prompt template " + name + ": " + err.Error())
	}
	return tmpl, nil
}

// SystemInstruction returns the persona instruction sent alongside the prompt.
func SystemInstruction() (string, error) {
	if err := Load(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := systemTemplate.Execute(&buf, GenerateData{CognitiveLevels: strings.Join(levelNames(), ", ")}); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// BuildGeneratePrompt renders the generation instruction for cfg.
func BuildGeneratePrompt(cfg model.ExamConfig) (string, error) {
	if err := Load(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := genTemplate.Execute(&buf, NewGenerateData(cfg)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func levelNames() []string {
	names := make([]string, len(model.CognitiveLevels))
	for i, l := range model.CognitiveLevels {
		names[i] = string(l)
	}
	return names
}

func cognitiveLevels() string {
	return strings.Join(levelNames(), "|")
}

// sanitizeTopics keeps free-text topics on one line and bounded in size.
func sanitizeTopics(topics string) string {
	topics = strings.Join(strings.Fields(topics), " ")
	if r := []rune(topics); len(r) > 500 {
		topics = string(r[:500])
	}
	return topics
}
