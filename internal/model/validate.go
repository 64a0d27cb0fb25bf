package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
	wire         *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("language", func(fl validator.FieldLevel) bool {
			return slices.Contains(Languages, Language(fl.Field().String()))
		})
		_ = validate.RegisterValidation("cognitive_level", func(fl validator.FieldLevel) bool {
			return slices.Contains(CognitiveLevels, CognitiveLevel(fl.Field().String()))
		})
		_ = validate.RegisterValidation("academic_level", func(fl validator.FieldLevel) bool {
			return slices.Contains(AcademicLevels, fl.Field().String())
		})

		wire = validator.New(validator.WithRequiredStructEnabled())
		wire.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			return name
		})
	})
	return validate
}

// quizPresence mirrors the integer fields of the wire schema whose zero
// value is also a legal value, so a missing key can be told apart from 0.
type quizPresence struct {
	Metadata *struct {
		TotalQuestions *int `json:"total_questions" validate:"required"`
	} `json:"quiz_metadata" validate:"required"`
	Questions []struct {
		ID                 *int `json:"question_id" validate:"required"`
		CorrectAnswerIndex *int `json:"correct_answer_index" validate:"required"`
		Marks              *int `json:"marks" validate:"required"`
	} `json:"questions" validate:"dive"`
}

// DecodeQuiz decodes a quiz from its JSON wire form and validates it.
// Keys that are absent are reported even when Go would decode them as 0.
func DecodeQuiz(data []byte) (*Quiz, error) {
	var q Quiz
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, err
	}
	var presence quizPresence
	if err := json.Unmarshal(data, &presence); err != nil {
		return nil, err
	}
	structValidator()

	var problems []string
	var verrs validator.ValidationErrors
	if err := wire.Struct(presence); errors.As(err, &verrs) {
		for _, fe := range verrs {
			_, field, _ := strings.Cut(fe.Namespace(), ".")
			problems = append(problems, field+" is missing")
		}
	}
	if err := ValidateQuiz(&q); err != nil {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			return nil, err
		}
		problems = append(problems, verr.Problems...)
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return &q, nil
}

// ValidationError lists every schema violation found in a value.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid: " + strings.Join(e.Problems, "; ")
}

// ValidateConfig checks an exam configuration.
func ValidateConfig(c ExamConfig) error {
	var problems []string
	problems = append(problems, structProblems(c)...)
	if c.QuestionCount%QuestionsStep != 0 {
		problems = append(problems, fmt.Sprintf("questionCount must be a multiple of %d", QuestionsStep))
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ValidateQuiz checks a decoded quiz against the wire schema. Struct tags
// cover field presence and enums; index ranges and id uniqueness are
// checked here.
func ValidateQuiz(q *Quiz) error {
	if q == nil {
		return &ValidationError{Problems: []string{"quiz is empty"}}
	}
	problems := structProblems(q)

	seen := make(map[int]bool, len(q.Questions))
	for i, qq := range q.Questions {
		if seen[qq.ID] {
			problems = append(problems, fmt.Sprintf("questions[%d]: duplicate question_id %d", i, qq.ID))
		}
		seen[qq.ID] = true
		if qq.CorrectAnswerIndex < 0 || qq.CorrectAnswerIndex >= len(qq.Options) {
			problems = append(problems, fmt.Sprintf("questions[%d]: correct_answer_index %d out of range", i, qq.CorrectAnswerIndex))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func structProblems(v any) []string {
	err := structValidator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return problems
}
