package layout

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log/slog"

	"galaxy-explorer/internal/shared/errors"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	logger := slog.With("component", "layout_repository", "operation", "init")
	logger.Debug("Initializing layout repository")
	return &Repository{db: db}
}

// Save inserts a layout or replaces the document of one the owner already has.
// A name held by another explorer is a conflict.
func (r *Repository) Save(ctx context.Context, ownerID int, name string, doc []byte, starsCount int) (*Layout, error) {
	logger := slog.With(
		"component", "layout_repository",
		"operation", "save",
		"owner_id", ownerID,
		"name", name,
		"stars_count", starsCount,
	)
	logger.Debug("Saving layout")

	query := `
		INSERT INTO galaxy_layouts (name, owner_id, stars_count, document)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE
		SET stars_count = EXCLUDED.stars_count,
			document = EXCLUDED.document,
			updated_at = NOW()
		WHERE galaxy_layouts.owner_id = EXCLUDED.owner_id
		RETURNING id, name, owner_id, stars_count, created_at, updated_at
	`

	var l Layout
	err := r.db.QueryRowContext(ctx, query, name, ownerID, starsCount, doc).Scan(
		&l.ID,
		&l.Name,
		&l.OwnerID,
		&l.StarsCount,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.Conflictf("layout %s belongs to another explorer", name)
	}
	if err != nil {
		return nil, errors.WrapInternal("failed to save layout", err)
	}

	logger.Info("Layout saved", "layout_id", l.ID)
	return &l, nil
}

func (r *Repository) GetByName(ctx context.Context, name string) (*Layout, error) {
	logger := slog.With("component", "layout_repository", "operation", "get_by_name", "name", name)
	logger.Debug("Getting layout by name")

	query := `
		SELECT id, name, owner_id, stars_count, document, created_at, updated_at
		FROM galaxy_layouts
		WHERE name = $1
	`

	var l Layout
	var doc []byte
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&l.ID,
		&l.Name,
		&l.OwnerID,
		&l.StarsCount,
		&doc,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFoundf("layout %s not found", name)
	}
	if err != nil {
		return nil, errors.WrapInternal("failed to get layout", err)
	}
	l.Document = doc

	logger.Debug("Layout retrieved", "layout_id", l.ID, "size_bytes", len(doc))
	return &l, nil
}

func (r *Repository) List(ctx context.Context) ([]Layout, error) {
	logger := slog.With("component", "layout_repository", "operation", "list")
	logger.Debug("Listing layouts")

	query := `
		SELECT id, name, owner_id, stars_count, created_at, updated_at
		FROM galaxy_layouts
		ORDER BY updated_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.WrapInternal("failed to query layouts", err)
	}
	defer rows.Close()

	var layouts []Layout
	for rows.Next() {
		var l Layout
		if err := rows.Scan(&l.ID, &l.Name, &l.OwnerID, &l.StarsCount, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, errors.WrapInternal("failed to scan layout", err)
		}
		layouts = append(layouts, l)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapInternal("error iterating layouts", err)
	}

	logger.Debug("Layouts listed", "count", len(layouts))
	return layouts, nil
}

func (r *Repository) Delete(ctx context.Context, ownerID int, name string) error {
	logger := slog.With("component", "layout_repository", "operation", "delete", "owner_id", ownerID, "name", name)

	res, err := r.db.ExecContext(ctx, `DELETE FROM galaxy_layouts WHERE name = $1 AND owner_id = $2`, name, ownerID)
	if err != nil {
		return errors.WrapInternal("failed to delete layout", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.WrapInternal("failed to delete layout", err)
	}
	if n == 0 {
		return errors.NotFoundf("layout %s not found", name)
	}

	logger.Info("Layout deleted")
	return nil
}
