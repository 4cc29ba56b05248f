package layout

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"galaxy-explorer/internal/shared/errors"
	"galaxy-explorer/internal/starfield"
)

const maxGeneratedStars = 20000

// Storage is the persistent side of the layout service.
type Storage interface {
	Save(ctx context.Context, ownerID int, name string, doc []byte, starsCount int) (*Layout, error)
	GetByName(ctx context.Context, name string) (*Layout, error)
	List(ctx context.Context) ([]Layout, error)
	Delete(ctx context.Context, ownerID int, name string) error
}

type Service struct {
	repo   Storage
	cache  *Cache
	galaxy starfield.GalaxySettings
	sky    starfield.SkySettings
	logger *slog.Logger
}

func NewService(repo Storage, cache *Cache, galaxy starfield.GalaxySettings, sky starfield.SkySettings, logger *slog.Logger) *Service {
	logger.Debug("Initializing layout service")

	return &Service{
		repo:   repo,
		cache:  cache,
		galaxy: galaxy,
		sky:    sky,
		logger: logger,
	}
}

func (s *Service) Save(ctx context.Context, ownerID int, name string, f *starfield.Field) (*Layout, error) {
	if !ValidName(name) {
		return nil, errors.Validationf("invalid layout name %q", name)
	}
	doc, err := Encode(f)
	if err != nil {
		return nil, err
	}

	l, err := s.repo.Save(ctx, ownerID, name, doc, len(f.Stars))
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, name, doc)
	return l, nil
}

// SaveDocument validates an uploaded document and stores it.
func (s *Service) SaveDocument(ctx context.Context, ownerID int, name string, data []byte) (*Layout, error) {
	f, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return s.Save(ctx, ownerID, name, f)
}

// Generate builds a field from the server defaults and saves it. A zero seed
// picks a random one.
func (s *Service) Generate(ctx context.Context, ownerID int, name string, req GenerateRequest) (*Layout, error) {
	logger := s.logger.With(
		"component", "layout_service",
		"operation", "generate",
		"owner_id", ownerID,
		"name", name,
	)

	if req.StarsCount < 0 || req.StarsCount > maxGeneratedStars {
		return nil, errors.Validationf("stars_count must be between 0 and %d", maxGeneratedStars)
	}
	seed := req.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	galaxy := s.galaxy
	if req.StarsCount > 0 {
		galaxy.StarsCount = req.StarsCount
	}
	gen := starfield.NewGenerator(
		rand.New(rand.NewPCG(seed, seed>>1|1)),
		starfield.WithDebugLevels(req.DebugLevels),
	)
	f := gen.Generate(galaxy, s.sky)

	logger.Info("Generated layout", "seed", seed, "stars", len(f.Stars))
	return s.Save(ctx, ownerID, name, f)
}

// Document returns the encoded layout, from the cache when possible.
func (s *Service) Document(ctx context.Context, name string) ([]byte, error) {
	if !ValidName(name) {
		return nil, errors.Validationf("invalid layout name %q", name)
	}
	if doc, ok := s.cache.Get(ctx, name); ok {
		return doc, nil
	}

	l, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, name, l.Document)
	return l.Document, nil
}

// Load implements StateStore.
func (s *Service) Load(ctx context.Context, name string) (*starfield.Field, error) {
	doc, err := s.Document(ctx, name)
	if err != nil {
		return nil, err
	}
	return Decode(doc)
}

func (s *Service) List(ctx context.Context) ([]Layout, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, ownerID int, name string) error {
	if err := s.repo.Delete(ctx, ownerID, name); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, name)
	return nil
}
