package auth

import (
	"context"
	"database/sql"
	stderrors "errors"

	"galaxy-explorer/internal/shared/errors"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateAuthProvider(ctx context.Context, explorerID int, provider, providerUserID, providerEmail string) error {
	query := `
		INSERT INTO explorer_auth_providers (explorer_id, provider, provider_user_id, provider_email)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (provider, provider_user_id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, explorerID, provider, providerUserID, providerEmail)
	if err != nil {
		return errors.WrapInternal("failed to create auth provider", err)
	}

	return nil
}

func (r *Repository) FindExplorerByAuthProvider(ctx context.Context, provider, providerUserID string) (int, error) {
	query := `
		SELECT explorer_id
		FROM explorer_auth_providers
		WHERE provider = $1 AND provider_user_id = $2
	`

	var explorerID int
	err := r.db.QueryRowContext(ctx, query, provider, providerUserID).Scan(&explorerID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return 0, errors.NotFoundf("explorer not found for auth provider: %s", provider)
		}
		return 0, errors.WrapInternal("failed to find explorer by auth provider", err)
	}

	return explorerID, nil
}
