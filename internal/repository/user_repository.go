package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alamtis/skill-assessment-platform/internal/domain"
	"github.com/alamtis/skill-assessment-platform/internal/repository/models"
	"github.com/alamtis/skill-assessment-platform/internal/util"
	"github.com/jmoiron/sqlx"
)

// sqlxUserRepository implements domain.UserRepository using sqlx.
type sqlxUserRepository struct {
	db *sqlx.DB
}

// NewSQLXUserRepository creates a new instance of sqlxUserRepository.
func NewSQLXUserRepository(db *sqlx.DB) domain.UserRepository {
	return &sqlxUserRepository{db: db}
}

// CreateUser inserts the user row and one user_roles row per assigned role.
func (r *sqlxUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	executor := GetExecutor(ctx, r.db)

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	model := &models.User{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	query := `INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
	          VALUES (:id, :username, :email, :password_hash, :created_at, :updated_at)`
	if _, err := executor.NamedExecContext(ctx, query, model); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return r.insertRoles(ctx, executor, user.ID, user.Roles)
}

func (r *sqlxUserRepository) insertRoles(ctx context.Context, executor DBTX, userID string, roles []string) error {
	insert := `INSERT INTO user_roles (id, user_id, role_id)
	           SELECT :id, :user_id, id FROM roles WHERE name = :name`
	for _, role := range roles {
		args := map[string]interface{}{
			"id":      util.NewULID(),
			"user_id": userID,
			"name":    role,
		}
		result, err := executor.NamedExecContext(ctx, insert, args)
		if err != nil {
			return fmt.Errorf("failed to assign role %s: %w", role, err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected for role assignment: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("unknown role: %s", role)
		}
	}
	return nil
}

func (r *sqlxUserRepository) loadRoles(ctx context.Context, executor DBTX, userID string) ([]string, error) {
	var roles []string
	query := `SELECT r.name FROM roles r
	          JOIN user_roles ur ON ur.role_id = r.id
	          WHERE ur.user_id = :user_id
	          ORDER BY r.name`
	rows, err := executor.NamedQueryContext(ctx, query, map[string]interface{}{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to load roles for user %s: %w", userID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan role name: %w", err)
		}
		roles = append(roles, name)
	}
	return roles, rows.Err()
}

// GetUserByID retrieves a user by their internal ID. Returns nil, nil when no
// such user exists.
func (r *sqlxUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	executor := GetExecutor(ctx, r.db)

	var model models.User
	query := `SELECT id, username, email, password_hash, created_at, updated_at
	          FROM users WHERE id = :id`
	rows, err := executor.NamedQueryContext(ctx, query, map[string]interface{}{"id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to get user by id: %w", err)
		}
		return nil, nil
	}
	if err := rows.StructScan(&model); err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	rows.Close()

	roles, err := r.loadRoles(ctx, executor, model.ID)
	if err != nil {
		return nil, err
	}
	return userToDomain(&model, roles), nil
}

// GetUserByUsername retrieves a user by username. Returns nil, nil when no
// such user exists.
func (r *sqlxUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	executor := GetExecutor(ctx, r.db)

	var model models.User
	query := `SELECT id, username, email, password_hash, created_at, updated_at
	          FROM users WHERE username = :username`
	rows, err := executor.NamedQueryContext(ctx, query, map[string]interface{}{"username": username})
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to get user by username: %w", err)
		}
		return nil, nil
	}
	if err := rows.StructScan(&model); err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	rows.Close()

	roles, err := r.loadRoles(ctx, executor, model.ID)
	if err != nil {
		return nil, err
	}
	return userToDomain(&model, roles), nil
}

// ExistsByUsername reports whether a user with this username exists.
func (r *sqlxUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(*) FROM users WHERE username = :v`, username)
}

// ExistsByEmail reports whether a user with this email exists.
func (r *sqlxUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(*) FROM users WHERE email = :v`, email)
}

func (r *sqlxUserRepository) exists(ctx context.Context, query string, value string) (bool, error) {
	executor := GetExecutor(ctx, r.db)

	rows, err := executor.NamedQueryContext(ctx, query, map[string]interface{}{"v": value})
	if err != nil {
		return false, fmt.Errorf("failed to run existence check: %w", err)
	}
	defer rows.Close()

	var count int
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return false, fmt.Errorf("failed to scan existence count: %w", err)
		}
	}
	return count > 0, rows.Err()
}

// ListUsers returns every user with their role sets, ordered by creation time.
func (r *sqlxUserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	executor := GetExecutor(ctx, r.db)

	var rows []models.User
	query := `SELECT id, username, email, password_hash, created_at, updated_at
	          FROM users ORDER BY created_at`
	if err := executor.SelectContext(ctx, &rows, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]domain.User, 0, len(rows))
	for i := range rows {
		roles, err := r.loadRoles(ctx, executor, rows[i].ID)
		if err != nil {
			return nil, err
		}
		users = append(users, *userToDomain(&rows[i], roles))
	}
	return users, nil
}

// ReplaceRoles swaps the user's role assignments for the given set.
func (r *sqlxUserRepository) ReplaceRoles(ctx context.Context, userID string, roles []string) error {
	executor := GetExecutor(ctx, r.db)

	if _, err := executor.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = :1`, userID); err != nil {
		return fmt.Errorf("failed to clear roles for user %s: %w", userID, err)
	}
	return r.insertRoles(ctx, executor, userID, roles)
}
