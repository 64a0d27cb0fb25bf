// Package session holds the exam flow state machine: upload, quiz and
// results, with the transitions between them.
package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/pavelanni/quizforge/internal/grading"
	"github.com/pavelanni/quizforge/internal/model"
)

// State is the phase the session is in.
type State string

const (
	StateUpload  State = "upload"
	StateQuiz    State = "quiz"
	StateResults State = "results"
)

var (
	ErrBusy              = errors.New("another operation is in progress")
	ErrInvalidTransition = errors.New("operation not allowed in the current state")
	ErrNoFile            = errors.New("no study material selected")
	ErrUnknownQuestion   = errors.New("unknown question")
	ErrInvalidOption     = errors.New("option index out of range")
)

// ExportError wraps an exporter failure.
type ExportError struct {
	Err error
}

func (e *ExportError) Error() string {
	return "export: " + e.Err.Error()
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// Generator produces a quiz from study material.
type Generator interface {
	Generate(ctx context.Context, up model.Upload, cfg model.ExamConfig) (*model.Quiz, error)
}

// Exporter writes a quiz document.
type Exporter interface {
	Export(ctx context.Context, w io.Writer, q *model.Quiz, includeAnswers bool) error
}

// Session is one user's exam flow. All methods are safe for concurrent
// use; Generate and Download run their slow part without holding the
// lock and mark the session busy meanwhile.
type Session struct {
	mu      sync.Mutex
	state   State
	busy    bool
	file    *model.Upload
	config  model.ExamConfig
	quiz    *model.Quiz
	answers []model.UserAnswer
	result  *model.ExamResult
}

// New returns a session in the upload state with the default config.
func New() *Session {
	return &Session{state: StateUpload, config: model.DefaultExamConfig()}
}

// begin locks the session and checks the busy flag and allowed states.
// On success the caller holds the lock.
func (s *Session) begin(allowed ...State) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	if !slices.Contains(allowed, s.state) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrInvalidTransition, s.state)
	}
	return nil
}

// SelectFile replaces the selected study material.
func (s *Session) SelectFile(up model.Upload) error {
	if err := checkUpload(up); err != nil {
		return err
	}
	if err := s.begin(StateUpload); err != nil {
		return err
	}
	defer s.mu.Unlock()
	s.file = &up
	return nil
}

// SetConfig replaces the exam configuration.
func (s *Session) SetConfig(cfg model.ExamConfig) error {
	if err := model.ValidateConfig(cfg); err != nil {
		return err
	}
	if err := s.begin(StateUpload); err != nil {
		return err
	}
	defer s.mu.Unlock()
	s.config = cfg
	return nil
}

func checkUpload(up model.Upload) error {
	if len(up.Data) == 0 {
		return model.ErrEmptyUpload
	}
	if !model.AcceptedMIME(up.MIMEType) {
		return model.ErrUnsupportedMedia
	}
	return nil
}

// Prepare applies the configuration and, when up is not nil, the file in
// one step. Nothing changes unless both are valid.
func (s *Session) Prepare(up *model.Upload, cfg model.ExamConfig) error {
	if err := model.ValidateConfig(cfg); err != nil {
		return err
	}
	if up != nil {
		if err := checkUpload(*up); err != nil {
			return err
		}
	}
	if err := s.begin(StateUpload); err != nil {
		return err
	}
	defer s.mu.Unlock()
	s.config = cfg
	if up != nil {
		s.file = up
	}
	return nil
}

// Generate asks gen for a quiz built from the selected file. On success
// the session moves to the quiz state with no answers; on failure it
// stays in upload.
func (s *Session) Generate(ctx context.Context, gen Generator) error {
	if err := s.begin(StateUpload); err != nil {
		return err
	}
	if s.file == nil {
		s.mu.Unlock()
		return ErrNoFile
	}
	if err := model.ValidateConfig(s.config); err != nil {
		s.mu.Unlock()
		return err
	}
	up, cfg := *s.file, s.config
	s.busy = true
	s.mu.Unlock()

	quiz, err := gen.Generate(ctx, up, cfg)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		return err
	}
	s.quiz = quiz
	s.answers = nil
	s.result = nil
	s.state = StateQuiz
	return nil
}

// SelectAnswer records the chosen option for a question. Re-answering
// overwrites the earlier choice in place.
func (s *Session) SelectAnswer(questionID, index int) error {
	if err := s.begin(StateQuiz); err != nil {
		return err
	}
	defer s.mu.Unlock()

	q, ok := s.quiz.Question(questionID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownQuestion, questionID)
	}
	if index < 0 || index >= len(q.Options) {
		return fmt.Errorf("%w: %d", ErrInvalidOption, index)
	}

	for i := range s.answers {
		if s.answers[i].QuestionID == questionID {
			s.answers[i].SelectedIndex = &index
			return nil
		}
	}
	s.answers = append(s.answers, model.UserAnswer{QuestionID: questionID, SelectedIndex: &index})
	return nil
}

// Submit grades the answers and moves to results.
func (s *Session) Submit() (model.ExamResult, error) {
	if err := s.begin(StateQuiz); err != nil {
		return model.ExamResult{}, err
	}
	defer s.mu.Unlock()

	res := grading.Evaluate(s.quiz, s.answers)
	s.result = &res
	s.state = StateResults
	slog.Info("exam submitted", "title", s.quiz.Metadata.Title, "score", res.Score, "grade", res.Grade)
	return res, nil
}

// Retake clears answers and result and returns to the same quiz.
func (s *Session) Retake() error {
	if err := s.begin(StateResults); err != nil {
		return err
	}
	defer s.mu.Unlock()
	s.answers = nil
	s.result = nil
	s.state = StateQuiz
	return nil
}

// NewExam discards the quiz, answers, result and file.
func (s *Session) NewExam() error {
	if err := s.begin(StateQuiz, StateResults); err != nil {
		return err
	}
	defer s.mu.Unlock()
	s.file = nil
	s.quiz = nil
	s.answers = nil
	s.result = nil
	s.state = StateUpload
	return nil
}

// Download renders the current quiz with exp and copies it to w. The
// document is built in memory first so a failed export writes nothing.
func (s *Session) Download(ctx context.Context, w io.Writer, exp Exporter, includeAnswers bool) error {
	if err := s.begin(StateQuiz, StateResults); err != nil {
		return err
	}
	quiz := s.quiz
	s.busy = true
	s.mu.Unlock()

	var buf bytes.Buffer
	err := exp.Export(ctx, &buf, quiz, includeAnswers)

	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()

	if err != nil {
		return &ExportError{Err: err}
	}
	_, err = buf.WriteTo(w)
	return err
}

// Busy reports whether a generate or download is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Snapshot is a read-only copy of the session for rendering.
type Snapshot struct {
	State    State
	Busy     bool
	FileName string
	FileMIME string
	FileSize int
	Config   model.ExamConfig
	Quiz     *model.Quiz
	Answers  []model.UserAnswer
	Result   *model.ExamResult
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		State:   s.state,
		Busy:    s.busy,
		Config:  s.config,
		Quiz:    s.quiz.Clone(),
		Answers: cloneAnswers(s.answers),
	}
	if s.file != nil {
		snap.FileName = s.file.Name
		snap.FileMIME = s.file.MIMEType
		snap.FileSize = s.file.Size()
	}
	if s.result != nil {
		res := *s.result
		res.Answers = cloneAnswers(res.Answers)
		snap.Result = &res
	}
	return snap
}

// Selected returns the chosen option for a question, if any.
func (s Snapshot) Selected(questionID int) (int, bool) {
	answers := s.Answers
	if s.Result != nil {
		answers = s.Result.Answers
	}
	for _, a := range answers {
		if a.QuestionID == questionID {
			return a.Selected()
		}
	}
	return 0, false
}

// Answered counts questions with a selected option.
func (s Snapshot) Answered() int {
	n := 0
	for _, a := range s.Answers {
		if a.SelectedIndex != nil {
			n++
		}
	}
	return n
}

func cloneAnswers(in []model.UserAnswer) []model.UserAnswer {
	if in == nil {
		return nil
	}
	out := make([]model.UserAnswer, len(in))
	for i, a := range in {
		if a.SelectedIndex != nil {
			v := *a.SelectedIndex
			a.SelectedIndex = &v
		}
		out[i] = a
	}
	return out
}
