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

// sqlxQuizRepository implements domain.QuizRepository using sqlx.
type sqlxQuizRepository struct {
	db *sqlx.DB
}

// NewSQLXQuizRepository creates a new instance of sqlxQuizRepository.
func NewSQLXQuizRepository(db *sqlx.DB) domain.QuizRepository {
	return &sqlxQuizRepository{db: db}
}

// CreateQuiz inserts the quiz row and any questions attached to it.
func (r *sqlxQuizRepository) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	executor := GetExecutor(ctx, r.db)

	now := time.Now()
	quiz.CreatedAt = now
	quiz.UpdatedAt = now

	query := `INSERT INTO quizzes (id, title, description, difficulty_level, it_profile, created_at, updated_at)
	          VALUES (:id, :title, :description, :difficulty_level, :it_profile, :created_at, :updated_at)`
	if _, err := executor.NamedExecContext(ctx, query, quizFromDomain(quiz)); err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}

	for i := range quiz.Questions {
		quiz.Questions[i].QuizID = quiz.ID
		if err := r.AddQuestion(ctx, &quiz.Questions[i]); err != nil {
			return err
		}
	}
	return nil
}

// UpdateQuiz updates the quiz metadata. Questions are managed separately.
func (r *sqlxQuizRepository) UpdateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	executor := GetExecutor(ctx, r.db)

	quiz.UpdatedAt = time.Now()

	query := `UPDATE quizzes SET
	            title = :title,
	            description = :description,
	            difficulty_level = :difficulty_level,
	            it_profile = :it_profile,
	            updated_at = :updated_at
	          WHERE id = :id`
	result, err := executor.NamedExecContext(ctx, query, quizFromDomain(quiz))
	if err != nil {
		return fmt.Errorf("failed to update quiz: %w", err)
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

// DeleteQuiz removes the quiz and all its questions, including soft-deleted
// ones. Attempts referencing the quiz must be removed first by the caller.
func (r *sqlxQuizRepository) DeleteQuiz(ctx context.Context, quizID string) error {
	executor := GetExecutor(ctx, r.db)

	if _, err := executor.ExecContext(ctx, `DELETE FROM questions WHERE quiz_id = :1`, quizID); err != nil {
		return fmt.Errorf("failed to delete questions for quiz %s: %w", quizID, err)
	}

	result, err := executor.ExecContext(ctx, `DELETE FROM quizzes WHERE id = :1`, quizID)
	if err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
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

// GetQuizByID retrieves the quiz metadata without questions. Returns nil, nil
// when no such quiz exists.
func (r *sqlxQuizRepository) GetQuizByID(ctx context.Context, quizID string) (*domain.Quiz, error) {
	executor := GetExecutor(ctx, r.db)

	var model models.Quiz
	query := `SELECT id, title, description, difficulty_level, it_profile, created_at, updated_at
	          FROM quizzes WHERE id = :id`
	rows, err := executor.NamedQueryContext(ctx, query, map[string]interface{}{"id": quizID})
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz by id: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to get quiz by id: %w", err)
		}
		return nil, nil
	}
	if err := rows.StructScan(&model); err != nil {
		return nil, fmt.Errorf("failed to scan quiz: %w", err)
	}
	return quizToDomain(&model), nil
}

// GetQuizWithQuestions retrieves the quiz and its live (not soft-deleted)
// questions. Returns nil, nil when no such quiz exists.
func (r *sqlxQuizRepository) GetQuizWithQuestions(ctx context.Context, quizID string) (*domain.Quiz, error) {
	quiz, err := r.GetQuizByID(ctx, quizID)
	if err != nil || quiz == nil {
		return quiz, err
	}

	executor := GetExecutor(ctx, r.db)

	var questionRows []models.Question
	query := `SELECT id, quiz_id, question_text, option_a, option_b, option_c, option_d,
	                 correct_option, explanation, deleted, created_at, updated_at
	          FROM questions
	          WHERE quiz_id = :quiz_id AND deleted = 0
	          ORDER BY created_at, id`
	rows, err := executor.NamedQueryContext(ctx, query, map[string]interface{}{"quiz_id": quizID})
	if err != nil {
		return nil, fmt.Errorf("failed to load questions for quiz %s: %w", quizID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var q models.Question
		if err := rows.StructScan(&q); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questionRows = append(questionRows, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load questions for quiz %s: %w", quizID, err)
	}

	quiz.Questions = make([]domain.Question, 0, len(questionRows))
	for i := range questionRows {
		quiz.Questions = append(quiz.Questions, *questionToDomain(&questionRows[i]))
	}
	return quiz, nil
}

// ListQuizzes returns quizzes matching the optional profile and difficulty
// filters, newest first. Empty filter values match everything.
func (r *sqlxQuizRepository) ListQuizzes(ctx context.Context, itProfile, difficultyLevel string) ([]domain.Quiz, error) {
	executor := GetExecutor(ctx, r.db)

	query := `SELECT id, title, description, difficulty_level, it_profile, created_at, updated_at
	          FROM quizzes
	          WHERE (:it_profile IS NULL OR it_profile = :it_profile)
	            AND (:difficulty_level IS NULL OR difficulty_level = :difficulty_level)
	          ORDER BY created_at DESC`
	args := map[string]interface{}{
		"it_profile":       nullableString(itProfile),
		"difficulty_level": nullableString(difficultyLevel),
	}

	rows, err := executor.NamedQueryContext(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []domain.Quiz
	for rows.Next() {
		var m models.Quiz
		if err := rows.StructScan(&m); err != nil {
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}
		quizzes = append(quizzes, *quizToDomain(&m))
	}
	return quizzes, rows.Err()
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// AddQuestion inserts a single question row.
func (r *sqlxQuizRepository) AddQuestion(ctx context.Context, question *domain.Question) error {
	executor := GetExecutor(ctx, r.db)

	now := time.Now()
	question.CreatedAt = now
	question.UpdatedAt = now

	query := `INSERT INTO questions (id, quiz_id, question_text, option_a, option_b, option_c, option_d,
	                                 correct_option, explanation, deleted, created_at, updated_at)
	          VALUES (:id, :quiz_id, :question_text, :option_a, :option_b, :option_c, :option_d,
	                  :correct_option, :explanation, :deleted, :created_at, :updated_at)`
	if _, err := executor.NamedExecContext(ctx, query, questionFromDomain(question)); err != nil {
		return fmt.Errorf("failed to add question: %w", err)
	}
	return nil
}

// UpdateQuestion updates a live question's content.
func (r *sqlxQuizRepository) UpdateQuestion(ctx context.Context, question *domain.Question) error {
	executor := GetExecutor(ctx, r.db)

	question.UpdatedAt = time.Now()

	query := `UPDATE questions SET
	            question_text = :question_text,
	            option_a = :option_a,
	            option_b = :option_b,
	            option_c = :option_c,
	            option_d = :option_d,
	            correct_option = :correct_option,
	            explanation = :explanation,
	            updated_at = :updated_at
	          WHERE id = :id AND quiz_id = :quiz_id AND deleted = 0`
	result, err := executor.NamedExecContext(ctx, query, questionFromDomain(question))
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
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

// SoftDeleteQuestion flags a question as deleted. The row stays so that past
// attempt reports can still resolve it.
func (r *sqlxQuizRepository) SoftDeleteQuestion(ctx context.Context, quizID, questionID string) error {
	executor := GetExecutor(ctx, r.db)

	query := `UPDATE questions SET deleted = 1, updated_at = :updated_at
	          WHERE id = :id AND quiz_id = :quiz_id AND deleted = 0`
	args := map[string]interface{}{
		"id":         questionID,
		"quiz_id":    quizID,
		"updated_at": time.Now(),
	}
	result, err := executor.NamedExecContext(ctx, query, args)
	if err != nil {
		return fmt.Errorf("failed to soft-delete question: %w", err)
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

// GetQuestionByID retrieves a single question regardless of its deleted flag.
// Returns nil, nil when no such question exists.
func (r *sqlxQuizRepository) GetQuestionByID(ctx context.Context, questionID string) (*domain.Question, error) {
	executor := GetExecutor(ctx, r.db)

	query := `SELECT id, quiz_id, question_text, option_a, option_b, option_c, option_d,
	                 correct_option, explanation, deleted, created_at, updated_at
	          FROM questions WHERE id = :id`
	rows, err := executor.NamedQueryContext(ctx, query, map[string]interface{}{"id": questionID})
	if err != nil {
		return nil, fmt.Errorf("failed to get question by id: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to get question by id: %w", err)
		}
		return nil, nil
	}
	var m models.Question
	if err := rows.StructScan(&m); err != nil {
		return nil, fmt.Errorf("failed to scan question: %w", err)
	}
	return questionToDomain(&m), nil
}
