// Package grading turns submitted answers into scores and letter grades.
package grading

import (
	"math"
	"slices"

	"github.com/pavelanni/quizforge/internal/model"
)

// Grades lists every letter grade from best to worst.
var Grades = []string{"A+", "A", "B+", "B", "C+", "C", "D", "F"}

var thresholds = []struct {
	min   int
	grade string
}{
	{90, "A+"},
	{80, "A"},
	{70, "B+"},
	{60, "B"},
	{50, "C+"},
	{40, "C"},
	{30, "D"},
}

// ScoreToGrade maps a percentage score to a letter grade.
// Scores outside [0, 100] are clamped, so 120 is an A+ and -5 an F.
func ScoreToGrade(score int) string {
	score = max(0, min(100, score))
	for _, t := range thresholds {
		if score >= t.min {
			return t.grade
		}
	}
	return "F"
}

// GradeMessage returns the i18n message id for the encouragement line
// shown with a score.
func GradeMessage(score int) string {
	switch {
	case score >= 90:
		return "GradeOutstanding"
	case score >= 80:
		return "GradeExcellent"
	case score >= 70:
		return "GradeGood"
	case score >= 60:
		return "GradeKeepPracticing"
	case score >= 50:
		return "GradeRoomForImprovement"
	default:
		return "GradeMoreStudy"
	}
}

// Evaluate grades answers against a quiz. Questions without an answer, or
// with a nil selection, count as incorrect. An empty quiz scores 0.
func Evaluate(quiz *model.Quiz, answers []model.UserAnswer) model.ExamResult {
	byQuestion := make(map[int]model.UserAnswer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	var correct, earned int
	for _, q := range quiz.Questions {
		a, ok := byQuestion[q.ID]
		if !ok {
			continue
		}
		if idx, ok := a.Selected(); ok && idx == q.CorrectAnswerIndex {
			correct++
			earned += q.Marks
		}
	}

	total := len(quiz.Questions)
	score := 0
	if total > 0 {
		score = int(math.Round(float64(correct) / float64(total) * 100))
	}

	return model.ExamResult{
		TotalQuestions: total,
		CorrectAnswers: correct,
		Score:          score,
		Grade:          ScoreToGrade(score),
		EarnedMarks:    earned,
		TotalMarks:     quiz.TotalMarks(),
		Answers:        slices.Clone(answers),
	}
}
