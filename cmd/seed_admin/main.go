package main

import (
	"context"
	"flag"
	"log"

	"github.com/alamtis/skill-assessment-platform/internal/config"
	"github.com/alamtis/skill-assessment-platform/internal/database"
	"github.com/alamtis/skill-assessment-platform/internal/domain"
	"github.com/alamtis/skill-assessment-platform/internal/logger"
	"github.com/alamtis/skill-assessment-platform/internal/repository"
	"github.com/alamtis/skill-assessment-platform/internal/util"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Seeds the ROLES lookup table and an initial administrator account.
// Safe to run repeatedly: existing rows are left alone.
func main() {
	username := flag.String("username", "admin", "admin username")
	email := flag.String("email", "admin@example.com", "admin email")
	password := flag.String("password", "", "admin password (required)")
	flag.Parse()

	if *password == "" {
		log.Fatal("the -password flag is required")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	l := logger.Get()

	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	for _, role := range []string{domain.RoleUser, domain.RoleAdmin} {
		query := `INSERT INTO roles (id, name)
		          SELECT :1, :2 FROM dual
		          WHERE NOT EXISTS (SELECT 1 FROM roles WHERE name = :3)`
		if _, err := db.ExecContext(ctx, query, util.NewULID(), role, role); err != nil {
			l.Fatal("Failed to seed role", zap.String("role", role), zap.Error(err))
		}
		l.Info("Role ensured", zap.String("role", role))
	}

	userRepo := repository.NewSQLXUserRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	existing, err := userRepo.GetUserByUsername(ctx, *username)
	if err != nil {
		l.Fatal("Failed to look up admin user", zap.Error(err))
	}
	if existing != nil {
		l.Info("Admin user already exists, nothing to do", zap.String("username", *username))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		l.Fatal("Failed to hash password", zap.Error(err))
	}

	admin := &domain.User{
		ID:           util.NewULID(),
		Username:     *username,
		Email:        *email,
		PasswordHash: string(hash),
		Roles:        []string{domain.RoleUser, domain.RoleAdmin},
	}
	err = txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return userRepo.CreateUser(txCtx, admin)
	})
	if err != nil {
		l.Fatal("Failed to create admin user", zap.Error(err))
	}

	l.Info("Admin user created", zap.String("user_id", admin.ID), zap.String("username", admin.Username))
}
