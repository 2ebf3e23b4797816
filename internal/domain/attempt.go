package domain

import (
	"context"
	"time"
)

// QuizAttempt is one user's single pass at one quiz. It is created when a quiz
// is started or submitted, mutated exactly once during submission (scoring and
// AI payload attach) and never again.
type QuizAttempt struct {
	ID               string
	UserID           string
	QuizID           string
	Score            float64
	Percentage       float64
	StartedAt        time.Time
	CompletedAt      *time.Time
	TimeTakenSeconds int64
	// AI payloads are opaque JSON documents. Never nil after submission: a
	// sentinel payload is substituted when report generation fails.
	DetailedReportJSON string
	StudyPlanJSON      string
	Answers            []AttemptAnswer
	CreatedAt          time.Time
}

// AttemptAnswer is one graded answer inside an attempt. Immutable once
// created; it exists only as a child of exactly one attempt.
type AttemptAnswer struct {
	ID              string
	QuizAttemptID   string
	QuestionID      string
	SubmittedOption string
	IsCorrect       bool
}

// AttemptHistoryEntry is the lightweight projection used for history views.
// It never carries AI payloads or the per-question breakdown.
type AttemptHistoryEntry struct {
	AttemptID   string
	QuizID      string
	QuizTitle   string
	Score       float64
	Percentage  float64
	CompletedAt *time.Time
}

// AttemptDetail joins an answer with the question it graded, for report views.
type AttemptDetail struct {
	Attempt QuizAttempt
	Answers []AnswerDetail
}

// AnswerDetail pairs an answer record with its question's text, correct
// option and explanation.
type AnswerDetail struct {
	QuestionID      string
	QuestionText    string
	SubmittedOption string
	CorrectOption   string
	IsCorrect       bool
	Explanation     string
}

// QuizAttemptRepository defines persistence for attempts and their answers.
// An attempt and its answers are created and destroyed together.
type QuizAttemptRepository interface {
	// CreateAttempt inserts the attempt row alone (start-of-quiz marker).
	CreateAttempt(ctx context.Context, attempt *QuizAttempt) error
	// CreateAttemptWithAnswers inserts the attempt and every answer record as
	// a single unit. The attempt must never become visible without its answers.
	CreateAttemptWithAnswers(ctx context.Context, attempt *QuizAttempt) error
	GetAttemptByID(ctx context.Context, attemptID string) (*QuizAttempt, error)
	// GetAttemptWithDetails loads the attempt, its answers, and the question
	// text/correct option/explanation for each answer.
	GetAttemptWithDetails(ctx context.Context, attemptID string) (*AttemptDetail, error)
	// GetHistoryByUserID returns history entries ordered by completion time descending.
	GetHistoryByUserID(ctx context.Context, userID string) ([]AttemptHistoryEntry, error)
	// DeleteAttempt removes the attempt and cascades removal of its answers.
	DeleteAttempt(ctx context.Context, attemptID string) error
	DeleteAttemptsByQuizID(ctx context.Context, quizID string) error
}
