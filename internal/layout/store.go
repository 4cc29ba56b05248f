package layout

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"galaxy-explorer/internal/shared/errors"
	"galaxy-explorer/internal/starfield"
)

// StateStore provides persisted layouts by name.
type StateStore interface {
	Load(ctx context.Context, name string) (*starfield.Field, error)
}

// Resolve loads a layout for a scene. Any failure is logged and yields nil so
// the caller generates a fresh field instead.
func Resolve(ctx context.Context, store StateStore, name string, logger *slog.Logger) *starfield.Field {
	if store == nil || name == "" {
		return nil
	}
	f, err := store.Load(ctx, name)
	if err != nil {
		logger.Warn("Falling back to procedural generation", "layout", name, "error", err)
		return nil
	}
	return f
}

// FileStore keeps layouts as <name>.json files in a directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *FileStore) Load(ctx context.Context, name string) (*starfield.Field, error) {
	if !ValidName(name) {
		return nil, errors.Validationf("invalid layout name %q", name)
	}
	data, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return nil, errors.NotFoundf("layout %s not found", name)
	}
	if err != nil {
		return nil, errors.WrapInternal("failed to read layout file", err)
	}
	return Decode(data)
}

// Save writes the layout through a temporary file so readers never see a
// partial document.
func (s *FileStore) Save(ctx context.Context, name string, f *starfield.Field) error {
	if !ValidName(name) {
		return errors.Validationf("invalid layout name %q", name)
	}
	data, err := Encode(f)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.WrapInternal("failed to create layout directory", err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return errors.WrapInternal("failed to create layout file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.WrapInternal("failed to write layout file", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapInternal("failed to write layout file", err)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		return errors.WrapInternal("failed to store layout file", err)
	}
	return nil
}

// Chain tries each store in order and returns the first layout found. Only a
// not-found result moves on to the next store.
type Chain []StateStore

func (c Chain) Load(ctx context.Context, name string) (*starfield.Field, error) {
	for _, store := range c {
		if store == nil {
			continue
		}
		f, err := store.Load(ctx, name)
		if err == nil {
			return f, nil
		}
		if errors.GetType(err) != errors.ErrorTypeNotFound {
			return nil, err
		}
	}
	return nil, errors.NotFoundf("layout %s not found", name)
}
