package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alamtis/skill-assessment-platform/internal/config"
	"github.com/alamtis/skill-assessment-platform/internal/domain"
	"github.com/alamtis/skill-assessment-platform/internal/dto"
	"github.com/alamtis/skill-assessment-platform/internal/logger"
	"github.com/alamtis/skill-assessment-platform/internal/util"
	"github.com/alamtis/skill-assessment-platform/internal/validation"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// AuthService handles credential registration, login, token refresh, and
// token validation.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	ValidateAccessToken(tokenString string) (*dto.AuthClaims, error)
}

type authClaims struct {
	Username  string   `json:"username"`
	Roles     []string `json:"roles"`
	TokenType string   `json:"token_type"`
	jwt.RegisteredClaims
}

type authService struct {
	userRepo  domain.UserRepository
	txManager domain.TransactionManager
	jwtCfg    config.JWTConfig
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo domain.UserRepository, txManager domain.TransactionManager, jwtCfg config.JWTConfig) AuthService {
	return &authService{
		userRepo:  userRepo,
		txManager: txManager,
		jwtCfg:    jwtCfg,
	}
}

// Register creates a new account with the default user role. Username and
// email collisions are conflicts, not validation failures.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if err := validation.ValidateRegister(req); err != nil {
		return nil, err
	}

	taken, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, domain.NewInternalError("failed to check username", err)
	}
	if taken {
		return nil, domain.NewConflictError("username is already taken")
	}

	taken, err = s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, domain.NewInternalError("failed to check email", err)
	}
	if taken {
		return nil, domain.NewConflictError("email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewInternalError("failed to hash password", err)
	}

	user := &domain.User{
		ID:           util.NewULID(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Roles:        []string{domain.RoleUser},
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.userRepo.CreateUser(txCtx, user)
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to create user", err)
	}

	logger.Get().Info("User registered", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return userToResponse(user), nil
}

// Login verifies credentials and issues a token pair. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up user", err)
	}
	if user == nil {
		return nil, domain.NewUnauthorizedError("invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.NewUnauthorizedError("invalid username or password")
	}

	return s.issueTokenPair(user)
}

// Refresh exchanges a valid refresh token for a fresh pair. Roles are
// reloaded from the database so revocations take effect at rotation time.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeRefresh {
		return nil, domain.NewUnauthorizedError("token is not a refresh token")
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.Subject)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up user", err)
	}
	if user == nil {
		return nil, domain.NewUnauthorizedError("user no longer exists")
	}

	return s.issueTokenPair(user)
}

// ValidateAccessToken parses and verifies an access token, returning the
// caller's identity claims.
func (s *authService) ValidateAccessToken(tokenString string) (*dto.AuthClaims, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, domain.NewUnauthorizedError("token is not an access token")
	}

	return &dto.AuthClaims{
		UserID:    claims.Subject,
		Username:  claims.Username,
		Roles:     claims.Roles,
		TokenType: claims.TokenType,
	}, nil
}

func (s *authService) issueTokenPair(user *domain.User) (*dto.TokenResponse, error) {
	access, err := s.signToken(user, tokenTypeAccess, s.jwtCfg.AccessTokenTTL)
	if err != nil {
		return nil, domain.NewInternalError("failed to sign access token", err)
	}
	refresh, err := s.signToken(user, tokenTypeRefresh, s.jwtCfg.RefreshTokenTTL)
	if err != nil {
		return nil, domain.NewInternalError("failed to sign refresh token", err)
	}
	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
	}, nil
}

func (s *authService) signToken(user *domain.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := authClaims{
		Username:  user.Username,
		Roles:     user.Roles,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.SecretKey))
}

func (s *authService) parseToken(tokenString string) (*authClaims, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtCfg.SecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, domain.NewUnauthorizedError("invalid or expired token")
	}
	return claims, nil
}

func userToResponse(user *domain.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Roles:     user.Roles,
		CreatedAt: user.CreatedAt,
	}
}
