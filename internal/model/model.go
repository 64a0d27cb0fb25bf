package model

import "slices"

// Language is the language an exam paper is written in.
type Language string

const (
	LanguageEnglish Language = "English"
	LanguageSinhala Language = "Sinhala"
)

// Languages lists the supported exam languages in display order.
var Languages = []Language{LanguageEnglish, LanguageSinhala}

// CognitiveLevel is the Bloom's taxonomy label attached to a question.
type CognitiveLevel string

const (
	LevelRemember   CognitiveLevel = "Remember"
	LevelUnderstand CognitiveLevel = "Understand"
	LevelApply      CognitiveLevel = "Apply"
	LevelAnalyze    CognitiveLevel = "Analyze"
	LevelEvaluate   CognitiveLevel = "Evaluate"
	LevelCreate     CognitiveLevel = "Create"
)

// CognitiveLevels lists the taxonomy in ascending order.
var CognitiveLevels = []CognitiveLevel{
	LevelRemember, LevelUnderstand, LevelApply, LevelAnalyze, LevelEvaluate, LevelCreate,
}

// AcademicLevels lists the selectable academic levels.
var AcademicLevels = []string{
	"Grade 1", "Grade 2", "Grade 3", "Grade 4", "Grade 5", "Grade 6", "Grade 7",
	"Grade 8", "Grade 9", "Grade 10", "Grade 11", "Grade 12", "Grade 13",
	"GCE O/L", "GCE A/L",
}

// Question count bounds for ExamConfig.
const (
	MinQuestions  = 5
	MaxQuestions  = 30
	QuestionsStep = 5
)

// ExamConfig holds the user-chosen generation parameters.
type ExamConfig struct {
	AcademicLevel string   `json:"academicLevel" validate:"required,academic_level"`
	Language      Language `json:"language" validate:"required,language"`
	FocusTopics   string   `json:"focusTopics"`
	QuestionCount int      `json:"questionCount" validate:"min=5,max=30"`
}

// DefaultExamConfig returns the configuration a fresh session starts with.
func DefaultExamConfig() ExamConfig {
	return ExamConfig{
		AcademicLevel: "Grade 10",
		Language:      LanguageEnglish,
		QuestionCount: 10,
	}
}

// QuizMetadata describes a generated exam paper.
type QuizMetadata struct {
	Title           string   `json:"title" validate:"required"`
	Subject         string   `json:"subject" validate:"required"`
	Language        Language `json:"language" validate:"required,language"`
	AcademicLevel   string   `json:"academic_level"`
	TotalQuestions  int      `json:"total_questions" validate:"gte=0"`
	DurationMinutes int      `json:"duration_minutes" validate:"gte=0"`
}

// Question is a single multiple-choice item.
type Question struct {
	ID                 int            `json:"question_id"`
	Stem               string         `json:"stem" validate:"required"`
	Options            []string       `json:"options" validate:"min=2,max=6,dive,required"`
	CorrectAnswerIndex int            `json:"correct_answer_index" validate:"gte=0"`
	Explanation        string         `json:"explanation" validate:"required"`
	CognitiveLevel     CognitiveLevel `json:"cognitive_level" validate:"required,cognitive_level"`
	Marks              int            `json:"marks" validate:"min=1"`
	ImageDescription   string         `json:"image_description,omitempty"`
	ImageURL           string         `json:"image_url,omitempty"`
}

// Quiz is the generated artifact: metadata plus ordered questions.
type Quiz struct {
	Metadata  QuizMetadata `json:"quiz_metadata" validate:"required"`
	Questions []Question   `json:"questions" validate:"required,min=1,dive"`
}

// Question returns the question with the given id.
func (q *Quiz) Question(id int) (Question, bool) {
	i := slices.IndexFunc(q.Questions, func(qq Question) bool { return qq.ID == id })
	if i < 0 {
		return Question{}, false
	}
	return q.Questions[i], true
}

// TotalMarks sums the marks of every question.
func (q *Quiz) TotalMarks() int {
	total := 0
	for _, qq := range q.Questions {
		total += qq.Marks
	}
	return total
}

// Clone returns a deep copy of the quiz.
func (q *Quiz) Clone() *Quiz {
	if q == nil {
		return nil
	}
	c := &Quiz{Metadata: q.Metadata, Questions: make([]Question, len(q.Questions))}
	for i, qq := range q.Questions {
		qq.Options = slices.Clone(qq.Options)
		c.Questions[i] = qq
	}
	return c
}

// UserAnswer records the option a user picked for one question.
// SelectedIndex is nil when the user has not picked an option.
type UserAnswer struct {
	QuestionID    int  `json:"questionId"`
	SelectedIndex *int `json:"selectedIndex"`
}

// Selected reports the chosen option index, if any.
func (a UserAnswer) Selected() (int, bool) {
	if a.SelectedIndex == nil {
		return 0, false
	}
	return *a.SelectedIndex, true
}

// ExamResult is the immutable outcome of one submission.
type ExamResult struct {
	TotalQuestions int          `json:"totalQuestions"`
	CorrectAnswers int          `json:"correctAnswers"`
	Score          int          `json:"score"`
	Grade          string       `json:"grade"`
	EarnedMarks    int          `json:"earnedMarks"`
	TotalMarks     int          `json:"totalMarks"`
	Answers        []UserAnswer `json:"answers"`
}

// Answer returns the stored answer for a question id.
func (r *ExamResult) Answer(questionID int) (UserAnswer, bool) {
	for _, a := range r.Answers {
		if a.QuestionID == questionID {
			return a, true
		}
	}
	return UserAnswer{}, false
}
