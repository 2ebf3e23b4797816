package service

import (
	"context"
	"testing"
	"time"

	"github.com/alamtis/skill-assessment-platform/internal/config"
	"github.com/alamtis/skill-assessment-platform/internal/domain"
	"github.com/alamtis/skill-assessment-platform/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SecretKey:       "test-secret-key-for-unit-tests",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	}
}

func newAuthServiceForTest() (AuthService, *MockUserRepository, *MockTransactionManager) {
	userRepo := new(MockUserRepository)
	txManager := new(MockTransactionManager)
	svc := NewAuthService(userRepo, txManager, testJWTConfig())
	return svc, userRepo, txManager
}

func TestRegister(t *testing.T) {
	req := &dto.RegisterRequest{Username: "jane", Email: "jane@example.com", Password: "correct-horse"}

	t.Run("Success", func(t *testing.T) {
		svc, userRepo, txManager := newAuthServiceForTest()
		userRepo.On("ExistsByUsername", mock.Anything, "jane").Return(false, nil)
		userRepo.On("ExistsByEmail", mock.Anything, "jane@example.com").Return(false, nil)
		txManager.On("WithTransaction", mock.Anything).Return(nil)

		var created *domain.User
		userRepo.On("CreateUser", mock.Anything, mock.AnythingOfType("*domain.User")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*domain.User) }).
			Return(nil)

		resp, err := svc.Register(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "jane", resp.Username)
		assert.Equal(t, []string{domain.RoleUser}, resp.Roles)

		require.NotNil(t, created)
		assert.NotEqual(t, "correct-horse", created.PasswordHash, "passwords are never stored in the clear")
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("correct-horse")))
	})

	t.Run("UsernameTaken", func(t *testing.T) {
		svc, userRepo, _ := newAuthServiceForTest()
		userRepo.On("ExistsByUsername", mock.Anything, "jane").Return(true, nil)

		_, err := svc.Register(context.Background(), req)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeConflict, domainErr.Code)
	})

	t.Run("EmailTaken", func(t *testing.T) {
		svc, userRepo, _ := newAuthServiceForTest()
		userRepo.On("ExistsByUsername", mock.Anything, "jane").Return(false, nil)
		userRepo.On("ExistsByEmail", mock.Anything, "jane@example.com").Return(true, nil)

		_, err := svc.Register(context.Background(), req)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeConflict, domainErr.Code)
	})

	t.Run("ValidationFailures", func(t *testing.T) {
		svc, _, _ := newAuthServiceForTest()

		cases := []*dto.RegisterRequest{
			{Username: "", Email: "a@b.c", Password: "longenough"},
			{Username: "jane", Email: "not-an-email", Password: "longenough"},
			{Username: "jane", Email: "a@b.c", Password: "short"},
		}
		for _, bad := range cases {
			_, err := svc.Register(context.Background(), bad)
			var validationErrs domain.ValidationErrors
			require.ErrorAs(t, err, &validationErrs)
		}
	})
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{
		ID:           testUserID,
		Username:     "jane",
		Email:        "jane@example.com",
		PasswordHash: string(hash),
		Roles:        []string{domain.RoleUser},
	}

	t.Run("Success", func(t *testing.T) {
		svc, userRepo, _ := newAuthServiceForTest()
		userRepo.On("GetUserByUsername", mock.Anything, "jane").Return(user, nil)

		tokens, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "jane", Password: "correct-horse"})
		require.NoError(t, err)
		assert.Equal(t, "Bearer", tokens.TokenType)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
		assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		svc, userRepo, _ := newAuthServiceForTest()
		userRepo.On("GetUserByUsername", mock.Anything, "jane").Return(user, nil)

		_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "jane", Password: "wrong"})
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeUnauthorized, domainErr.Code)
		assert.Equal(t, "invalid username or password", domainErr.Message)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		svc, userRepo, _ := newAuthServiceForTest()
		userRepo.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, nil)

		_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "ghost", Password: "whatever"})
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeUnauthorized, domainErr.Code)
		assert.Equal(t, "invalid username or password", domainErr.Message, "unknown users are indistinguishable from wrong passwords")
	})
}

func TestTokenLifecycle(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{
		ID:           testUserID,
		Username:     "jane",
		Email:        "jane@example.com",
		PasswordHash: string(hash),
		Roles:        []string{domain.RoleUser},
	}

	login := func(t *testing.T, svc AuthService, userRepo *MockUserRepository) *dto.TokenResponse {
		t.Helper()
		userRepo.On("GetUserByUsername", mock.Anything, "jane").Return(user, nil)
		tokens, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "jane", Password: "correct-horse"})
		require.NoError(t, err)
		return tokens
	}

	t.Run("AccessTokenRoundTrip", func(t *testing.T) {
		svc, userRepo, _ := newAuthServiceForTest()
		tokens := login(t, svc, userRepo)

		claims, err := svc.ValidateAccessToken(tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, testUserID, claims.UserID)
		assert.Equal(t, "jane", claims.Username)
		assert.Equal(t, []string{domain.RoleUser}, claims.Roles)
	})

	t.Run("RefreshTokenRejectedAsAccessToken", func(t *testing.T) {
		svc, userRepo, _ := newAuthServiceForTest()
		tokens := login(t, svc, userRepo)

		_, err := svc.ValidateAccessToken(tokens.RefreshToken)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeUnauthorized, domainErr.Code)
	})

	t.Run("RefreshReloadsRoles", func(t *testing.T) {
		svc, userRepo, _ := newAuthServiceForTest()
		tokens := login(t, svc, userRepo)

		promoted := *user
		promoted.Roles = []string{domain.RoleUser, domain.RoleAdmin}
		userRepo.On("GetUserByID", mock.Anything, testUserID).Return(&promoted, nil)

		fresh, err := svc.Refresh(context.Background(), tokens.RefreshToken)
		require.NoError(t, err)

		claims, err := svc.ValidateAccessToken(fresh.AccessToken)
		require.NoError(t, err)
		assert.Contains(t, claims.Roles, domain.RoleAdmin, "role changes take effect at rotation")
	})

	t.Run("RefreshRejectsAccessToken", func(t *testing.T) {
		svc, userRepo, _ := newAuthServiceForTest()
		tokens := login(t, svc, userRepo)

		_, err := svc.Refresh(context.Background(), tokens.AccessToken)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeUnauthorized, domainErr.Code)
	})

	t.Run("RefreshRejectsDeletedUser", func(t *testing.T) {
		svc, userRepo, _ := newAuthServiceForTest()
		tokens := login(t, svc, userRepo)

		userRepo.On("GetUserByID", mock.Anything, testUserID).Return(nil, nil)

		_, err := svc.Refresh(context.Background(), tokens.RefreshToken)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeUnauthorized, domainErr.Code)
	})

	t.Run("GarbageToken", func(t *testing.T) {
		svc, _, _ := newAuthServiceForTest()

		_, err := svc.ValidateAccessToken("not.a.jwt")
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeUnauthorized, domainErr.Code)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		svc, userRepo, _ := newAuthServiceForTest()
		tokens := login(t, svc, userRepo)

		other := NewAuthService(new(MockUserRepository), new(MockTransactionManager), config.JWTConfig{
			SecretKey:       "a-completely-different-secret",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
		})
		_, err := other.ValidateAccessToken(tokens.AccessToken)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeUnauthorized, domainErr.Code)
	})
}
