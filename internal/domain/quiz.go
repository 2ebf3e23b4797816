package domain

import (
	"context"
	"strings"
	"time"
)

// Difficulty tiers a quiz can be authored at.
const (
	DifficultyBeginner     = "BEGINNER"
	DifficultyIntermediate = "INTERMEDIATE"
	DifficultyAdvanced     = "ADVANCED"
	DifficultyExpert       = "EXPERT"
)

// IsValidDifficulty reports whether level is one of the known tiers.
func IsValidDifficulty(level string) bool {
	switch level {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyExpert:
		return true
	}
	return false
}

// Quiz represents an authored assessment for one IT profile and difficulty tier.
type Quiz struct {
	ID              string
	Title           string
	Description     string
	DifficultyLevel string
	ItProfile       string
	Questions       []Question
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TopicLabel renders the profile tag for human-facing text,
// e.g. "JAVA_DEVELOPER" -> "JAVA DEVELOPER".
func (q *Quiz) TopicLabel() string {
	return strings.ReplaceAll(q.ItProfile, "_", " ")
}

// Question is a four-option multiple-choice question. Soft-deleted questions
// stay in the table but are filtered out of every read this package sees.
type Question struct {
	ID            string
	QuizID        string
	QuestionText  string
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectOption string
	Explanation   string
	Deleted       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks the invariants for a question before it is persisted.
func (q *Question) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(q.QuestionText) == "" {
		errs = append(errs, NewMissingFieldError("questionText"))
	}
	if q.OptionA == "" || q.OptionB == "" || q.OptionC == "" || q.OptionD == "" {
		errs = append(errs, NewMissingFieldError("options"))
	}
	if !IsValidOption(q.CorrectOption) {
		errs = append(errs, NewInvalidFormatError("correctOption", q.CorrectOption))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// IsValidOption reports whether opt is a single letter A-D, case-insensitive.
func IsValidOption(opt string) bool {
	if len(opt) != 1 {
		return false
	}
	c := opt[0] | 0x20
	return c >= 'a' && c <= 'd'
}

// QuizRepository defines persistence for quizzes and their questions.
// Reads never return soft-deleted questions.
type QuizRepository interface {
	CreateQuiz(ctx context.Context, quiz *Quiz) error
	UpdateQuiz(ctx context.Context, quiz *Quiz) error
	DeleteQuiz(ctx context.Context, quizID string) error
	GetQuizByID(ctx context.Context, quizID string) (*Quiz, error)
	GetQuizWithQuestions(ctx context.Context, quizID string) (*Quiz, error)
	ListQuizzes(ctx context.Context, itProfile, difficultyLevel string) ([]Quiz, error)
	AddQuestion(ctx context.Context, question *Question) error
	UpdateQuestion(ctx context.Context, question *Question) error
	SoftDeleteQuestion(ctx context.Context, quizID, questionID string) error
	GetQuestionByID(ctx context.Context, questionID string) (*Question, error)
}
