package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alamtis/skill-assessment-platform/internal/domain"
	"github.com/alamtis/skill-assessment-platform/internal/repository/models"
	"github.com/jmoiron/sqlx"
)

// sqlxQuizAttemptRepository implements domain.QuizAttemptRepository using sqlx.
type sqlxQuizAttemptRepository struct {
	db *sqlx.DB
}

// NewSQLXQuizAttemptRepository creates a new instance of sqlxQuizAttemptRepository.
func NewSQLXQuizAttemptRepository(db *sqlx.DB) domain.QuizAttemptRepository {
	return &sqlxQuizAttemptRepository{db: db}
}

const insertAttemptQuery = `INSERT INTO quiz_attempts
	(id, user_id, quiz_id, score, percentage, started_at, completed_at, time_taken_seconds, detailed_report, study_plan, created_at)
	VALUES (:id, :user_id, :quiz_id, :score, :percentage, :started_at, :completed_at, :time_taken_seconds, :detailed_report, :study_plan, :created_at)`

// CreateAttempt inserts the attempt row alone, used as the start-of-quiz marker.
func (r *sqlxQuizAttemptRepository) CreateAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	executor := GetExecutor(ctx, r.db)

	attempt.CreatedAt = time.Now()

	if _, err := executor.NamedExecContext(ctx, insertAttemptQuery, attemptFromDomain(attempt)); err != nil {
		return fmt.Errorf("failed to create attempt: %w", err)
	}
	return nil
}

// CreateAttemptWithAnswers inserts the attempt and all of its answer rows.
// Callers wrap this in a transaction so the attempt never becomes visible
// without its answers.
func (r *sqlxQuizAttemptRepository) CreateAttemptWithAnswers(ctx context.Context, attempt *domain.QuizAttempt) error {
	executor := GetExecutor(ctx, r.db)

	attempt.CreatedAt = time.Now()

	if _, err := executor.NamedExecContext(ctx, insertAttemptQuery, attemptFromDomain(attempt)); err != nil {
		return fmt.Errorf("failed to create attempt: %w", err)
	}

	answerQuery := `INSERT INTO attempt_answers (id, quiz_attempt_id, question_id, submitted_option, is_correct)
	                VALUES (:id, :quiz_attempt_id, :question_id, :submitted_option, :is_correct)`
	for i := range attempt.Answers {
		attempt.Answers[i].QuizAttemptID = attempt.ID
		if _, err := executor.NamedExecContext(ctx, answerQuery, answerFromDomain(&attempt.Answers[i])); err != nil {
			return fmt.Errorf("failed to create attempt answer: %w", err)
		}
	}
	return nil
}

// GetAttemptByID retrieves the attempt row without its answers. Returns
// nil, nil when no such attempt exists.
func (r *sqlxQuizAttemptRepository) GetAttemptByID(ctx context.Context, attemptID string) (*domain.QuizAttempt, error) {
	executor := GetExecutor(ctx, r.db)

	query := `SELECT id, user_id, quiz_id, score, percentage, started_at, completed_at,
	                 time_taken_seconds, detailed_report, study_plan, created_at
	          FROM quiz_attempts WHERE id = :id`
	rows, err := executor.NamedQueryContext(ctx, query, map[string]interface{}{"id": attemptID})
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt by id: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to get attempt by id: %w", err)
		}
		return nil, nil
	}
	var m models.QuizAttempt
	if err := rows.StructScan(&m); err != nil {
		return nil, fmt.Errorf("failed to scan attempt: %w", err)
	}
	return attemptToDomain(&m), nil
}

// GetAttemptWithDetails loads the attempt plus each answer joined with its
// question's text, correct option and explanation. Soft-deleted questions are
// still resolved here so old reports remain readable.
func (r *sqlxQuizAttemptRepository) GetAttemptWithDetails(ctx context.Context, attemptID string) (*domain.AttemptDetail, error) {
	attempt, err := r.GetAttemptByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return nil, nil
	}

	executor := GetExecutor(ctx, r.db)

	query := `SELECT aa.question_id AS question_id,
	                 q.question_text AS question_text,
	                 aa.submitted_option AS submitted_option,
	                 q.correct_option AS correct_option,
	                 aa.is_correct AS is_correct,
	                 q.explanation AS explanation
	          FROM attempt_answers aa
	          JOIN questions q ON q.id = aa.question_id
	          WHERE aa.quiz_attempt_id = :attempt_id
	          ORDER BY aa.id`
	rows, err := executor.NamedQueryContext(ctx, query, map[string]interface{}{"attempt_id": attemptID})
	if err != nil {
		return nil, fmt.Errorf("failed to load answers for attempt %s: %w", attemptID, err)
	}
	defer rows.Close()

	detail := &domain.AttemptDetail{Attempt: *attempt}
	for rows.Next() {
		var row models.AnswerDetailRow
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("failed to scan answer detail: %w", err)
		}
		detail.Answers = append(detail.Answers, domain.AnswerDetail{
			QuestionID:      row.QuestionID,
			QuestionText:    row.QuestionText,
			SubmittedOption: row.SubmittedOption,
			CorrectOption:   row.CorrectOption,
			IsCorrect:       row.IsCorrect != 0,
			Explanation:     row.Explanation.String,
		})
	}
	return detail, rows.Err()
}

// GetHistoryByUserID returns the user's attempts joined with quiz titles,
// most recently completed first.
func (r *sqlxQuizAttemptRepository) GetHistoryByUserID(ctx context.Context, userID string) ([]domain.AttemptHistoryEntry, error) {
	executor := GetExecutor(ctx, r.db)

	query := `SELECT qa.id AS attempt_id,
	                 qa.quiz_id AS quiz_id,
	                 qz.title AS quiz_title,
	                 qa.score AS score,
	                 qa.percentage AS percentage,
	                 qa.completed_at AS completed_at
	          FROM quiz_attempts qa
	          JOIN quizzes qz ON qz.id = qa.quiz_id
	          WHERE qa.user_id = :user_id
	          ORDER BY qa.completed_at DESC`
	rows, err := executor.NamedQueryContext(ctx, query, map[string]interface{}{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to load history for user %s: %w", userID, err)
	}
	defer rows.Close()

	var entries []domain.AttemptHistoryEntry
	for rows.Next() {
		var row models.AttemptHistoryRow
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entry := domain.AttemptHistoryEntry{
			AttemptID:  row.AttemptID,
			QuizID:     row.QuizID,
			QuizTitle:  row.QuizTitle,
			Score:      row.Score,
			Percentage: row.Percentage,
		}
		if row.CompletedAt.Valid {
			t := row.CompletedAt.Time
			entry.CompletedAt = &t
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// DeleteAttempt removes the attempt and its answers. Answers go first to keep
// the foreign key satisfied.
func (r *sqlxQuizAttemptRepository) DeleteAttempt(ctx context.Context, attemptID string) error {
	executor := GetExecutor(ctx, r.db)

	if _, err := executor.ExecContext(ctx, `DELETE FROM attempt_answers WHERE quiz_attempt_id = :1`, attemptID); err != nil {
		return fmt.Errorf("failed to delete answers for attempt %s: %w", attemptID, err)
	}

	result, err := executor.ExecContext(ctx, `DELETE FROM quiz_attempts WHERE id = :1`, attemptID)
	if err != nil {
		return fmt.Errorf("failed to delete attempt: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteAttemptsByQuizID removes every attempt (and answers) for a quiz.
// Used before a quiz itself is hard-deleted.
func (r *sqlxQuizAttemptRepository) DeleteAttemptsByQuizID(ctx context.Context, quizID string) error {
	executor := GetExecutor(ctx, r.db)

	query := `DELETE FROM attempt_answers WHERE quiz_attempt_id IN
	          (SELECT id FROM quiz_attempts WHERE quiz_id = :1)`
	if _, err := executor.ExecContext(ctx, query, quizID); err != nil {
		return fmt.Errorf("failed to delete answers for quiz %s: %w", quizID, err)
	}
	if _, err := executor.ExecContext(ctx, `DELETE FROM quiz_attempts WHERE quiz_id = :1`, quizID); err != nil {
		return fmt.Errorf("failed to delete attempts for quiz %s: %w", quizID, err)
	}
	return nil
}
