// Package bootstrap handles one-time initialization tasks for the application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukerupert/skald/internal/auth"
	"github.com/dukerupert/skald/internal/domain"
	"github.com/dukerupert/skald/internal/postgres"
)

// AdminConfig contains configuration for the root admin account.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

// Validate checks that the admin configuration is usable.
func (c *AdminConfig) Validate() error {
	if c.Email == "" {
		return errors.New("admin email is required")
	}
	if c.Password == "" {
		return errors.New("admin password is required")
	}
	if len(c.Password) < auth.MinPasswordLength {
		return fmt.Errorf("admin password must be at least %d characters", auth.MinPasswordLength)
	}
	return nil
}

// EnsureRootAdmin creates the root admin account if it doesn't exist yet.
// Idempotent, safe to call on every startup.
//
// With no email/password configured it logs a warning and skips, which keeps
// local development working without an admin account.
func EnsureRootAdmin(ctx context.Context, store *postgres.Store, cfg *AdminConfig, logger *slog.Logger) error {
	if cfg == nil || cfg.Email == "" || cfg.Password == "" {
		logger.Warn("bootstrap: skipping root admin creation - SKALD_ADMIN_EMAIL or SKALD_ADMIN_PASSWORD not set",
			"hint", "Set these environment variables to create the root admin on first startup",
		)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid admin configuration: %w", err)
	}

	existing, err := store.GetUserByEmail(ctx, cfg.Email)
	if err == nil {
		if existing.Role != domain.RoleRootAdmin {
			return fmt.Errorf("account %s exists but is not rootAdmin", cfg.Email)
		}
		logger.Info("bootstrap: root admin already exists", "email", cfg.Email)
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}

	passwordHash, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	name := cfg.Name
	if name == "" {
		name = "Root Admin"
	}

	user, err := store.CreateUser(ctx, name, cfg.Email, passwordHash, domain.RoleRootAdmin)
	if err != nil {
		// concurrent startup may have won the race
		if errors.Is(err, domain.ErrEmailTaken) {
			logger.Info("bootstrap: root admin already exists (concurrent creation)", "email", cfg.Email)
			return nil
		}
		return fmt.Errorf("failed to create root admin: %w", err)
	}

	logger.Info("bootstrap: root admin created",
		"email", cfg.Email,
		"user_id", user.ID.String(),
	)
	return nil
}
