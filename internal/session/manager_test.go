package session

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galaxy-explorer/internal/shared/errors"
	"galaxy-explorer/internal/starfield"
)

type stubStore struct {
	fields map[string]*starfield.Field
}

func (s stubStore) Load(ctx context.Context, name string) (*starfield.Field, error) {
	if f, ok := s.fields[name]; ok {
		return f, nil
	}
	return nil, errors.NotFoundf("layout %s not found", name)
}

func TestManagerLimitsSessions(t *testing.T) {
	m := newTestManager(t, 1, nil)

	_, err := m.Create(context.Background(), CreateRequest{})
	require.NoError(t, err)

	_, err = m.Create(context.Background(), CreateRequest{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeUnavailable, errors.GetType(err))
}

func TestManagerLoadsLayoutOrFallsBack(t *testing.T) {
	gen := starfield.NewGenerator(rand.New(rand.NewPCG(1, 2)))
	galaxy := starfield.DefaultGalaxySettings()
	galaxy.StarsCount = 42
	saved := gen.Generate(galaxy, starfield.DefaultSkySettings())

	m := newTestManager(t, 3, stubStore{fields: map[string]*starfield.Field{"andromeda": saved}})

	s, err := m.Create(context.Background(), CreateRequest{Layout: "andromeda"})
	require.NoError(t, err)
	assert.Equal(t, "andromeda", s.Layout)
	assert.Len(t, s.ctrl.Field().Stars, 42)

	s, err = m.Create(context.Background(), CreateRequest{Layout: "missing"})
	require.NoError(t, err)
	assert.Empty(t, s.Layout, "an unknown layout falls back to a generated galaxy")
	assert.Len(t, s.ctrl.Field().Stars, 150)

	_, err = m.Create(context.Background(), CreateRequest{Layout: "../etc/passwd"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
}

func TestManagerDeleteAndReap(t *testing.T) {
	m := newTestManager(t, 3, nil)

	a, err := m.Create(context.Background(), CreateRequest{})
	require.NoError(t, err)
	b, err := m.Create(context.Background(), CreateRequest{})
	require.NoError(t, err)
	assert.Len(t, m.List(), 2)

	require.NoError(t, m.Delete(a.ID))
	assert.Equal(t, errors.ErrorTypeNotFound, errors.GetType(m.Delete(a.ID)))

	assert.Equal(t, 0, m.Reap(time.Now()))
	assert.Equal(t, 1, m.Reap(time.Now().Add(2*time.Minute)))
	_, err = m.Get(b.ID)
	assert.Error(t, err)

	err = m.Serve(context.Background(), b.ID, newFakeConn())
	assert.Equal(t, errors.ErrorTypeNotFound, errors.GetType(err))
}
