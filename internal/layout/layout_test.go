package layout

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galaxy-explorer/internal/shared/errors"
	"galaxy-explorer/internal/starfield"
)

type memStorage struct {
	mu      sync.Mutex
	layouts map[string]*Layout
	gets    int
	next    int
}

func newMemStorage() *memStorage {
	return &memStorage{layouts: make(map[string]*Layout)}
}

func (m *memStorage) Save(_ context.Context, ownerID int, name string, doc []byte, starsCount int) (*Layout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.layouts[name]; ok {
		if l.OwnerID != ownerID {
			return nil, errors.Conflictf("layout %s belongs to another explorer", name)
		}
		l.Document, l.StarsCount, l.UpdatedAt = doc, starsCount, time.Now()
		return l, nil
	}
	m.next++
	l := &Layout{ID: m.next, Name: name, OwnerID: ownerID, StarsCount: starsCount, Document: doc, CreatedAt: time.Now()}
	m.layouts[name] = l
	return l, nil
}

func (m *memStorage) GetByName(_ context.Context, name string) (*Layout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	l, ok := m.layouts[name]
	if !ok {
		return nil, errors.NotFoundf("layout %s not found", name)
	}
	return l, nil
}

func (m *memStorage) List(context.Context) ([]Layout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Layout
	for _, l := range m.layouts {
		out = append(out, *l)
	}
	return out, nil
}

func (m *memStorage) Delete(_ context.Context, ownerID int, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.layouts[name]
	if !ok || l.OwnerID != ownerID {
		return errors.NotFoundf("layout %s not found", name)
	}
	delete(m.layouts, name)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func smallGalaxy() starfield.GalaxySettings {
	g := starfield.DefaultGalaxySettings()
	g.StarsCount = 200
	g.BlinkStarsCount = 50
	return g
}

func generateField(seed uint64) *starfield.Field {
	gen := starfield.NewGenerator(rand.New(rand.NewPCG(seed, seed+1)))
	return gen.Generate(smallGalaxy(), starfield.DefaultSkySettings())
}

func newTestService(repo Storage) *Service {
	return NewService(repo, NewCache(nil, time.Minute, discardLogger()), smallGalaxy(), starfield.DefaultSkySettings(), discardLogger())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	f := generateField(1)
	data, err := Encode(f)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)

	require.Len(t, got.Stars, len(f.Stars))
	for i := range f.Stars {
		assert.Equal(t, f.Stars[i].ID, got.Stars[i].ID)
		assert.Equal(t, f.Stars[i].Pos, got.Stars[i].Pos)
		assert.Equal(t, f.Stars[i].Color, got.Stars[i].Color)
		assert.Equal(t, f.Stars[i].StarInfo, got.Stars[i].StarInfo)
	}
	assert.Equal(t, f.BlinkStars, got.BlinkStars)
	assert.Equal(t, f.FarGalaxies, got.FarGalaxies)
	assert.Equal(t, f.Galaxy, got.Galaxy)
	assert.Empty(t, got.Corona)
	assert.Empty(t, got.FarStars)
}

func TestDecodeRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{"galaxyStarsData": [`},
		{"no stars", `{"galaxyData": {}, "galaxyStarsData": [], "farGalaxiesData": []}`},
		{"duplicate ids", `{"galaxyStarsData": [{"id": 1}, {"id": 1}]}`},
		{"bad level", `{"galaxyStarsData": [{"id": 1, "starInfo": {"level": 9}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			require.Error(t, err)
			assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
		})
	}
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("andromeda"))
	assert.True(t, ValidName("m-31_b"))
	assert.False(t, ValidName(""))
	assert.False(t, ValidName("../etc"))
	assert.False(t, ValidName("Upper"))
	assert.False(t, ValidName("-leading"))
}

func TestServiceSaveAndLoad(t *testing.T) {
	repo := newMemStorage()
	svc := newTestService(repo)
	ctx := context.Background()
	f := generateField(2)

	saved, err := svc.Save(ctx, 7, "andromeda", f)
	require.NoError(t, err)
	assert.Equal(t, 7, saved.OwnerID)
	assert.Equal(t, len(f.Stars), saved.StarsCount)

	got, err := svc.Load(ctx, "andromeda")
	require.NoError(t, err)
	assert.Equal(t, f.Stars, got.Stars)

	_, err = svc.Save(ctx, 8, "andromeda", f)
	assert.Equal(t, errors.ErrorTypeConflict, errors.GetType(err))

	_, err = svc.Save(ctx, 7, "Bad Name", f)
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
}

func TestServiceGenerateIsSeeded(t *testing.T) {
	svc := newTestService(newMemStorage())
	ctx := context.Background()

	_, err := svc.Generate(ctx, 1, "first", GenerateRequest{Seed: 42, StarsCount: 100})
	require.NoError(t, err)
	_, err = svc.Generate(ctx, 1, "second", GenerateRequest{Seed: 42, StarsCount: 100})
	require.NoError(t, err)

	a, err := svc.Document(ctx, "first")
	require.NoError(t, err)
	b, err := svc.Document(ctx, "second")
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))

	f, err := svc.Load(ctx, "first")
	require.NoError(t, err)
	assert.Len(t, f.Stars, 100)

	_, err = svc.Generate(ctx, 1, "huge", GenerateRequest{StarsCount: maxGeneratedStars + 1})
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
}

func TestServiceDelete(t *testing.T) {
	svc := newTestService(newMemStorage())
	ctx := context.Background()
	_, err := svc.Save(ctx, 3, "gone", generateField(3))
	require.NoError(t, err)

	assert.Equal(t, errors.ErrorTypeNotFound, errors.GetType(svc.Delete(ctx, 4, "gone")))
	require.NoError(t, svc.Delete(ctx, 3, "gone"))

	_, err = svc.Load(ctx, "gone")
	assert.Equal(t, errors.ErrorTypeNotFound, errors.GetType(err))
}

func TestDisabledCacheAlwaysMisses(t *testing.T) {
	c := NewCache(nil, time.Minute, discardLogger())
	c.Set(context.Background(), "x", []byte("{}"))
	_, ok := c.Get(context.Background(), "x")
	assert.False(t, ok)
	c.Invalidate(context.Background(), "x")

	var nilCache *Cache
	_, ok = nilCache.Get(context.Background(), "x")
	assert.False(t, ok)
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "layouts")
	store := NewFileStore(dir)
	ctx := context.Background()
	f := generateField(4)

	require.NoError(t, store.Save(ctx, "local", f))
	got, err := store.Load(ctx, "local")
	require.NoError(t, err)
	assert.Equal(t, f.Stars, got.Stars)

	_, err = store.Load(ctx, "missing")
	assert.Equal(t, errors.ErrorTypeNotFound, errors.GetType(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestResolveFallsBack(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("nope"), 0o644))

	assert.Nil(t, Resolve(ctx, store, "broken", discardLogger()))
	assert.Nil(t, Resolve(ctx, store, "missing", discardLogger()))
	assert.Nil(t, Resolve(ctx, nil, "any", discardLogger()))
	assert.Nil(t, Resolve(ctx, store, "", discardLogger()))

	require.NoError(t, store.Save(ctx, "fine", generateField(5)))
	assert.NotNil(t, Resolve(ctx, store, "fine", discardLogger()))
}

func TestChainFallsThroughNotFound(t *testing.T) {
	ctx := context.Background()
	first := NewFileStore(t.TempDir())
	second := NewFileStore(t.TempDir())
	require.NoError(t, second.Save(ctx, "deep", generateField(6)))

	chain := Chain{first, nil, second}
	f, err := chain.Load(ctx, "deep")
	require.NoError(t, err)
	assert.NotEmpty(t, f.Stars)

	_, err = chain.Load(ctx, "nowhere")
	assert.Equal(t, errors.ErrorTypeNotFound, errors.GetType(err))

	_, err = chain.Load(ctx, "Bad Name")
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
}
