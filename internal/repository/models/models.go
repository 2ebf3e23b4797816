package models

import (
	"database/sql"
	"time"
)

// User row in the users table.
type User struct {
	ID           string    `db:"id"` // ULID
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Role row in the roles lookup table.
type Role struct {
	ID   string `db:"id"`
	Name string `db:"name"` // e.g. ROLE_USER, ROLE_ADMIN
}

// Quiz row in the quizzes table.
type Quiz struct {
	ID              string         `db:"id"` // ULID
	Title           string         `db:"title"`
	Description     sql.NullString `db:"description"`
	DifficultyLevel string         `db:"difficulty_level"`
	ItProfile       string         `db:"it_profile"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// Question row in the questions table. Deleted is a NUMBER(1) soft-delete
// flag; deleted rows are kept for historical attempt reports.
type Question struct {
	ID            string         `db:"id"` // ULID
	QuizID        string         `db:"quiz_id"`
	QuestionText  string         `db:"question_text"`
	OptionA       string         `db:"option_a"`
	OptionB       string         `db:"option_b"`
	OptionC       string         `db:"option_c"`
	OptionD       string         `db:"option_d"`
	CorrectOption string         `db:"correct_option"`
	Explanation   sql.NullString `db:"explanation"`
	Deleted       int            `db:"deleted"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

// QuizAttempt row in the quiz_attempts table. The report columns are CLOBs
// holding opaque JSON.
type QuizAttempt struct {
	ID               string         `db:"id"` // ULID
	UserID           string         `db:"user_id"`
	QuizID           string         `db:"quiz_id"`
	Score            float64        `db:"score"`
	Percentage       float64        `db:"percentage"`
	StartedAt        time.Time      `db:"started_at"`
	CompletedAt      sql.NullTime   `db:"completed_at"`
	TimeTakenSeconds int64          `db:"time_taken_seconds"`
	DetailedReport   sql.NullString `db:"detailed_report"`
	StudyPlan        sql.NullString `db:"study_plan"`
	CreatedAt        time.Time      `db:"created_at"`
}

// AttemptAnswer row in the attempt_answers table.
type AttemptAnswer struct {
	ID              string `db:"id"` // ULID
	QuizAttemptID   string `db:"quiz_attempt_id"`
	QuestionID      string `db:"question_id"`
	SubmittedOption string `db:"submitted_option"`
	IsCorrect       int    `db:"is_correct"`
}

// AttemptHistoryRow is the projection returned by the history query, joining
// attempts with their quiz title.
type AttemptHistoryRow struct {
	AttemptID   string       `db:"attempt_id"`
	QuizID      string       `db:"quiz_id"`
	QuizTitle   string       `db:"quiz_title"`
	Score       float64      `db:"score"`
	Percentage  float64      `db:"percentage"`
	CompletedAt sql.NullTime `db:"completed_at"`
}

// AnswerDetailRow is the projection returned by the report query, joining
// answers with their question.
type AnswerDetailRow struct {
	QuestionID      string         `db:"question_id"`
	QuestionText    string         `db:"question_text"`
	SubmittedOption string         `db:"submitted_option"`
	CorrectOption   string         `db:"correct_option"`
	IsCorrect       int            `db:"is_correct"`
	Explanation     sql.NullString `db:"explanation"`
}
