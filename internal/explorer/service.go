package explorer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"galaxy-explorer/internal/shared/config"
	"galaxy-explorer/internal/shared/errors"
)

// Store is the persistence the service needs; *Repository implements it.
type Store interface {
	Count(ctx context.Context) (int, error)
	List(ctx context.Context) ([]Explorer, error)
	Create(ctx context.Context, username, email, displayName string, avatarURL *string, role Role) (*Explorer, error)
	FindByEmail(ctx context.Context, email string) (*Explorer, error)
	GetByID(ctx context.Context, id int) (*Explorer, error)
	UpdateRole(ctx context.Context, id int, role Role) error
}

type Service struct {
	repo   Store
	logger *slog.Logger
}

func NewService(repo Store, logger *slog.Logger) *Service {
	logger.Debug("Initializing explorer service")

	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) List(ctx context.Context) ([]Explorer, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int) (*Explorer, error) {
	return s.repo.GetByID(ctx, id)
}

// FindOrCreateByOAuth returns the explorer owning email, creating it on first
// login. The configured admin email is promoted to the admin role.
func (s *Service) FindOrCreateByOAuth(ctx context.Context, provider, email, displayName string, avatarURL *string) (*Explorer, error) {
	logger := s.logger.With(
		"component", "explorer_service",
		"operation", "find_or_create_oauth",
		"provider", provider,
		"email", email,
	)
	logger.Debug("Finding or creating explorer by OAuth")

	cfg := config.GlobalConfig
	isAdminEmail := cfg != nil && cfg.Admin.Email != "" && strings.EqualFold(email, cfg.Admin.Email)

	e, err := s.repo.FindByEmail(ctx, email)
	if err != nil && errors.GetType(err) != errors.ErrorTypeNotFound {
		logger.Error("Database error checking for explorer by email", "error", err)
		return nil, err
	}

	if e != nil {
		logger.Info("Found existing explorer by email", "explorer_id", e.ID, "role", e.Role)
		if isAdminEmail && e.Role != RoleAdmin {
			logger.Info("Upgrading existing explorer to admin role", "explorer_id", e.ID)
			if err := s.repo.UpdateRole(ctx, e.ID, RoleAdmin); err != nil {
				return nil, fmt.Errorf("failed to upgrade to admin: %w", err)
			}
			e.Role = RoleAdmin
		}
		return e, nil
	}

	username := usernameFromEmail(email)
	role := RoleUser
	if isAdminEmail {
		username = cfg.Admin.Username
		displayName = cfg.Admin.DisplayName
		role = RoleAdmin
		logger.Info("Creating new admin explorer via OAuth")
	}
	if displayName == "" {
		displayName = username
	}

	e, err = s.repo.Create(ctx, username, email, displayName, avatarURL, role)
	if err != nil {
		logger.Error("Failed to create explorer", "error", err)
		return nil, err
	}

	logger.Info("Created new explorer via OAuth",
		"explorer_id", e.ID,
		"username", e.Username,
		"role", e.Role)

	return e, nil
}

func usernameFromEmail(email string) string {
	if idx := strings.Index(email, "@"); idx > 0 {
		return email[:idx]
	}
	return "explorer"
}
