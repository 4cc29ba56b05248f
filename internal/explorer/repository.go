package explorer

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log/slog"

	"galaxy-explorer/internal/shared/errors"
)

const explorerColumns = `id, username, email, display_name, avatar_url, role, created_at, updated_at`

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	logger := slog.With("component", "explorer_repository", "operation", "init")
	logger.Debug("Initializing explorer repository")
	return &Repository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExplorer(row rowScanner) (*Explorer, error) {
	var e Explorer
	var role string
	err := row.Scan(
		&e.ID,
		&e.Username,
		&e.Email,
		&e.DisplayName,
		&e.AvatarURL,
		&role,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Role = ParseRole(role)
	return &e, nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM explorers").Scan(&count); err != nil {
		return 0, errors.WrapInternal("failed to count explorers", err)
	}
	return count, nil
}

func (r *Repository) List(ctx context.Context) ([]Explorer, error) {
	logger := slog.With("component", "explorer_repository", "operation", "list")
	logger.Debug("Retrieving all explorers")

	rows, err := r.db.QueryContext(ctx, `SELECT `+explorerColumns+` FROM explorers ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.WrapInternal("failed to query explorers", err)
	}
	defer func() { _ = rows.Close() }()

	var explorers []Explorer
	for rows.Next() {
		e, err := scanExplorer(rows)
		if err != nil {
			return nil, errors.WrapInternal("failed to scan explorer", err)
		}
		explorers = append(explorers, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapInternal("error iterating explorers", err)
	}

	logger.Debug("Explorers retrieved", "count", len(explorers))
	return explorers, nil
}

func (r *Repository) Create(ctx context.Context, username, email, displayName string, avatarURL *string, role Role) (*Explorer, error) {
	logger := slog.With(
		"component", "explorer_repository",
		"operation", "create",
		"username", username,
		"email", email,
	)
	logger.Info("Creating new explorer")

	query := `
		INSERT INTO explorers (username, email, display_name, avatar_url, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + explorerColumns

	e, err := scanExplorer(r.db.QueryRowContext(ctx, query, username, email, displayName, avatarURL, role.String()))
	if err != nil {
		return nil, errors.WrapInternal("failed to create explorer", err)
	}

	logger.Info("Explorer created", "explorer_id", e.ID)
	return e, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*Explorer, error) {
	e, err := scanExplorer(r.db.QueryRowContext(ctx, `SELECT `+explorerColumns+` FROM explorers WHERE email = $1`, email))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFoundf("explorer with email %s not found", email)
	}
	if err != nil {
		return nil, errors.WrapInternal("failed to find explorer by email", err)
	}
	return e, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*Explorer, error) {
	e, err := scanExplorer(r.db.QueryRowContext(ctx, `SELECT `+explorerColumns+` FROM explorers WHERE id = $1`, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFoundf("explorer %d not found", id)
	}
	if err != nil {
		return nil, errors.WrapInternal("failed to get explorer", err)
	}
	return e, nil
}

func (r *Repository) UpdateRole(ctx context.Context, id int, role Role) error {
	res, err := r.db.ExecContext(ctx, `UPDATE explorers SET role = $1, updated_at = NOW() WHERE id = $2`, role.String(), id)
	if err != nil {
		return errors.WrapInternal("failed to update explorer role", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFoundf("explorer %d not found", id)
	}
	return nil
}
