package llm

import (
	"github.com/pavelanni/quizforge/internal/model"
)

var demoQuestions = []model.Question{
	{
		Stem:               "Solve for $x$: $2x + 6 = 14$",
		Options:            []string{"$x = 3$", "$x = 4$", "$x = 8$", "$x = 10$"},
		CorrectAnswerIndex: 1,
		Explanation:        "Subtract 6 from both sides to get $2x = 8$, then divide by 2.",
		CognitiveLevel:     model.LevelApply,
		Marks:              2,
	},
	{
		Stem:               "What is the SI unit of force?",
		Options:            []string{"Joule", "Watt", "Newton", "Pascal"},
		CorrectAnswerIndex: 2,
		Explanation:        "Force is measured in newtons, where $1\\,\\text{N} = 1\\,\\text{kg} \\times \\text{m/s}^2$.",
		CognitiveLevel:     model.LevelRemember,
		Marks:              1,
	},
	{
		Stem:               "Simplify $\\frac{3}{4} + \\frac{1}{8}$",
		Options:            []string{"$\\frac{4}{12}$", "$\\frac{7}{8}$", "$\\frac{1}{2}$", "$\\frac{5}{8}$"},
		CorrectAnswerIndex: 1,
		Explanation:        "Write $\\frac{3}{4}$ as $\\frac{6}{8}$ and add $\\frac{1}{8}$.",
		CognitiveLevel:     model.LevelApply,
		Marks:              2,
	},
	{
		Stem:               "Which process do plants use to make glucose from carbon dioxide and water?",
		Options:            []string{"Respiration", "Photosynthesis", "Transpiration", "Digestion"},
		CorrectAnswerIndex: 1,
		Explanation:        "Photosynthesis uses light energy to convert $CO_2$ and $H_2O$ into glucose and oxygen.",
		CognitiveLevel:     model.LevelUnderstand,
		Marks:              1,
	},
	{
		Stem:               "A car travels $120\\,\\text{km}$ in $2$ hours. What is its average speed?",
		Options:            []string{"$40\\,\\text{km/h}$", "$60\\,\\text{km/h}$", "$120\\,\\text{km/h}$", "$240\\,\\text{km/h}$"},
		CorrectAnswerIndex: 1,
		Explanation:        "Average speed is distance over time: $\\frac{120}{2} = 60$.",
		CognitiveLevel:     model.LevelApply,
		Marks:              2,
	},
	{
		Stem:               "Why does ice float on water?",
		Options:            []string{"Ice is denser than water", "Ice is less dense than water", "Ice contains air only", "Water pushes ice up because it is colder"},
		CorrectAnswerIndex: 1,
		Explanation:        "Water expands when it freezes, so ice has a lower density than liquid water.",
		CognitiveLevel:     model.LevelAnalyze,
		Marks:              3,
	},
	{
		Stem:               "What is the value of $3^2 \\times 2^3$?",
		Options:            []string{"$48$", "$54$", "$72$", "$36$"},
		CorrectAnswerIndex: 2,
		Explanation:        "$3^2 = 9$ and $2^3 = 8$, so the product is $72$.",
		CognitiveLevel:     model.LevelApply,
		Marks:              2,
	},
	{
		Stem:               "Which statement best evaluates the claim that heavier objects always fall faster?",
		Options:            []string{"It is true in all conditions", "It ignores air resistance; in a vacuum all objects fall at the same rate", "It is true only on the Moon", "It depends on the colour of the object"},
		CorrectAnswerIndex: 1,
		Explanation:        "Without air resistance every object accelerates at $g \\approx 9.8\\,\\text{m/s}^2$.",
		CognitiveLevel:     model.LevelEvaluate,
		Marks:              3,
	},
	{
		Stem:               "The area of a circle with radius $r$ is",
		Options:            []string{"$2\\pi r$", "$\\pi r^2$", "$\\pi d$", "$\\frac{1}{2} r^2$"},
		CorrectAnswerIndex: 1,
		Explanation:        "The area formula is $A = \\pi r^2$.",
		CognitiveLevel:     model.LevelRemember,
		Marks:              1,
	},
	{
		Stem:               "Design an experiment to test whether light affects plant growth. Which variable should be changed?",
		Options:            []string{"The type of soil", "The amount of light", "The amount of water", "The plant species"},
		CorrectAnswerIndex: 1,
		Explanation:        "Only the independent variable, light, is changed; the others are controlled.",
		CognitiveLevel:     model.LevelCreate,
		Marks:              3,
	},
}

var demoTitles = map[model.Language]string{
	model.LanguageEnglish: "Sample Exam Paper",
	model.LanguageSinhala: "ආදර්ශ විභාග ප්‍රශ්න පත්‍රය",
}

// DemoQuiz returns the built-in quiz reshaped to cfg: language and level
// are copied into the metadata and the fixed questions are repeated or
// truncated to the requested count.
func DemoQuiz(cfg model.ExamConfig) *model.Quiz {
	n := max(cfg.QuestionCount, 1)
	q := &model.Quiz{
		Metadata: model.QuizMetadata{
			Title:           demoTitles[cfg.Language],
			Subject:         "General Science and Mathematics",
			Language:        cfg.Language,
			AcademicLevel:   cfg.AcademicLevel,
			TotalQuestions:  n,
			DurationMinutes: n * 2,
		},
		Questions: make([]model.Question, n),
	}
	if q.Metadata.Title == "" {
		q.Metadata.Title = demoTitles[model.LanguageEnglish]
	}
	for i := range n {
		src := demoQuestions[i%len(demoQuestions)]
		src.Options = append([]string(nil), src.Options...)
		src.ID = i + 1
		q.Questions[i] = src
	}
	return q
}
