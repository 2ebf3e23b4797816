package service

import (
	"context"

	"github.com/alamtis/skill-assessment-platform/internal/domain"
	"github.com/alamtis/skill-assessment-platform/internal/dto"
	"github.com/alamtis/skill-assessment-platform/internal/logger"
	"github.com/alamtis/skill-assessment-platform/internal/validation"
	"go.uber.org/zap"
)

// UserService covers profile reads and the admin user-management surface.
type UserService interface {
	GetMe(ctx context.Context, identity domain.Identity) (*dto.UserResponse, error)
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
	GetUser(ctx context.Context, userID string) (*dto.UserResponse, error)
	ReplaceRoles(ctx context.Context, userID string, roles []string) (*dto.UserResponse, error)
}

type userService struct {
	userRepo  domain.UserRepository
	txManager domain.TransactionManager
}

// NewUserService creates a new UserService.
func NewUserService(userRepo domain.UserRepository, txManager domain.TransactionManager) UserService {
	return &userService{userRepo: userRepo, txManager: txManager}
}

// GetMe returns the caller's own profile.
func (s *userService) GetMe(ctx context.Context, identity domain.Identity) (*dto.UserResponse, error) {
	return s.GetUser(ctx, identity.UserID)
}

// ListUsers returns every registered user. Admin only; the handler enforces it.
func (s *userService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to list users", err)
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *userToResponse(&users[i]))
	}
	return responses, nil
}

// GetUser returns one user's profile.
func (s *userService) GetUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up user", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("User", "id", userID)
	}
	return userToResponse(user), nil
}

// ReplaceRoles swaps the user's role set. Tokens issued before the change
// keep their old roles until they expire or are refreshed.
func (s *userService) ReplaceRoles(ctx context.Context, userID string, roles []string) (*dto.UserResponse, error) {
	if err := validation.ValidateRoles(roles); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up user", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("User", "id", userID)
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.userRepo.ReplaceRoles(txCtx, userID, roles)
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to replace roles", err)
	}

	user.Roles = roles
	logger.Get().Info("User roles replaced",
		zap.String("user_id", userID),
		zap.Strings("roles", roles))
	return userToResponse(user), nil
}
