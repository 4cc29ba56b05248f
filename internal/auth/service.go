package auth

import (
	"context"
	"log/slog"
)

// ProviderLinks stores which external account belongs to which explorer.
type ProviderLinks interface {
	CreateAuthProvider(ctx context.Context, explorerID int, provider, providerUserID, providerEmail string) error
	FindExplorerByAuthProvider(ctx context.Context, provider, providerUserID string) (int, error)
}

type Service struct {
	repo   ProviderLinks
	logger *slog.Logger
}

func NewService(repo ProviderLinks, logger *slog.Logger) *Service {
	logger.Debug("Initializing auth service")

	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) CreateAuthProvider(ctx context.Context, explorerID int, provider, providerUserID, providerEmail string) error {
	return s.repo.CreateAuthProvider(ctx, explorerID, provider, providerUserID, providerEmail)
}

func (s *Service) FindExplorerByAuthProvider(ctx context.Context, provider, providerUserID string) (int, error) {
	return s.repo.FindExplorerByAuthProvider(ctx, provider, providerUserID)
}
