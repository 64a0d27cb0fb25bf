package grading

import (
	"slices"
	"testing"

	"github.com/pavelanni/quizforge/internal/model"
)

func TestScoreToGradeBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, "A+"}, {90, "A+"}, {89, "A"}, {80, "A"}, {79, "B+"}, {70, "B+"},
		{69, "B"}, {60, "B"}, {59, "C+"}, {50, "C+"}, {49, "C"}, {40, "C"},
		{39, "D"}, {30, "D"}, {29, "F"}, {0, "F"},
		{-5, "F"}, {150, "A+"},
	}
	for _, tt := range tests {
		if got := ScoreToGrade(tt.score); got != tt.want {
			t.Errorf("ScoreToGrade(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestScoreToGradeMonotonic(t *testing.T) {
	rank := func(g string) int { return slices.Index(Grades, g) }
	prev := rank(ScoreToGrade(100))
	for s := 100; s >= 0; s-- {
		g := ScoreToGrade(s)
		r := rank(g)
		if r < 0 {
			t.Fatalf("ScoreToGrade(%d) = %q, not a known grade", s, g)
		}
		if r < prev {
			t.Fatalf("grade improved from %q to %q when score dropped to %d", Grades[prev], g, s)
		}
		prev = r
	}
}

func TestGradeMessage(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{95, "GradeOutstanding"}, {85, "GradeExcellent"}, {75, "GradeGood"},
		{65, "GradeKeepPracticing"}, {55, "GradeRoomForImprovement"}, {10, "GradeMoreStudy"},
	}
	for _, tt := range tests {
		if got := GradeMessage(tt.score); got != tt.want {
			t.Errorf("GradeMessage(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func newQuiz(n int) *model.Quiz {
	q := &model.Quiz{Metadata: model.QuizMetadata{Title: "T", TotalQuestions: n}}
	for i := range n {
		q.Questions = append(q.Questions, model.Question{
			ID:                 i + 10,
			Stem:               "q",
			Options:            []string{"a", "b", "c", "d"},
			CorrectAnswerIndex: i % 4,
			Marks:              i%3 + 1,
		})
	}
	return q
}

func pick(qid, idx int) model.UserAnswer {
	return model.UserAnswer{QuestionID: qid, SelectedIndex: &idx}
}

func TestEvaluate(t *testing.T) {
	quiz := newQuiz(7)

	tests := []struct {
		name        string
		correctFor  int
		wrongFor    int
		wantCorrect int
		wantScore   int
	}{
		{"none answered", 0, 0, 0, 0},
		{"all correct", 7, 0, 7, 100},
		{"some correct", 3, 2, 3, 43},
		{"one correct", 1, 6, 1, 14},
		{"half rounds", 5, 0, 5, 71},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var answers []model.UserAnswer
			for i, q := range quiz.Questions {
				switch {
				case i < tt.correctFor:
					answers = append(answers, pick(q.ID, q.CorrectAnswerIndex))
				case i < tt.correctFor+tt.wrongFor:
					answers = append(answers, pick(q.ID, (q.CorrectAnswerIndex+1)%4))
				}
			}
			res := Evaluate(quiz, answers)
			if res.CorrectAnswers != tt.wantCorrect {
				t.Errorf("CorrectAnswers = %d, want %d", res.CorrectAnswers, tt.wantCorrect)
			}
			if res.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d", res.Score, tt.wantScore)
			}
			if res.Grade != ScoreToGrade(tt.wantScore) {
				t.Errorf("Grade = %q, want %q", res.Grade, ScoreToGrade(tt.wantScore))
			}
			if res.TotalQuestions != 7 {
				t.Errorf("TotalQuestions = %d, want 7", res.TotalQuestions)
			}
			if len(res.Answers) != len(answers) {
				t.Errorf("Answers len = %d, want %d", len(res.Answers), len(answers))
			}
		})
	}
}

func TestEvaluateNilSelectionAndUnknownIDs(t *testing.T) {
	quiz := newQuiz(2)
	answers := []model.UserAnswer{
		{QuestionID: quiz.Questions[0].ID},
		pick(999, 0),
	}
	res := Evaluate(quiz, answers)
	if res.CorrectAnswers != 0 || res.Score != 0 || res.Grade != "F" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestEvaluateMarks(t *testing.T) {
	quiz := newQuiz(3) // marks 1, 2, 3
	answers := []model.UserAnswer{
		pick(quiz.Questions[1].ID, quiz.Questions[1].CorrectAnswerIndex),
		pick(quiz.Questions[2].ID, quiz.Questions[2].CorrectAnswerIndex),
	}
	res := Evaluate(quiz, answers)
	if res.EarnedMarks != 5 || res.TotalMarks != 6 {
		t.Errorf("marks = %d/%d, want 5/6", res.EarnedMarks, res.TotalMarks)
	}
}

func TestEvaluateEmptyQuiz(t *testing.T) {
	res := Evaluate(&model.Quiz{}, nil)
	if res.Score != 0 || res.Grade != "F" || res.TotalQuestions != 0 {
		t.Errorf("unexpected result for empty quiz: %+v", res)
	}
}

func TestEvaluateSnapshotIsIndependent(t *testing.T) {
	quiz := newQuiz(1)
	answers := []model.UserAnswer{pick(quiz.Questions[0].ID, 0)}
	res := Evaluate(quiz, answers)
	answers[0].QuestionID = 42
	if res.Answers[0].QuestionID != quiz.Questions[0].ID {
		t.Error("result shares the answers slice with the caller")
	}
}
