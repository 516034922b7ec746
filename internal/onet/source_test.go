package onet

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"careerpath/internal/catalog"
	"careerpath/internal/domain/career"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	occs  []career.Occupation
	err   error
	lists int
}

func (f *fakeStore) List(ctx context.Context) ([]career.Occupation, error) {
	f.lists++
	return f.occs, f.err
}

func (f *fakeStore) Get(ctx context.Context, code string) (career.Occupation, error) {
	for _, o := range f.occs {
		if o.Code == code {
			return o, nil
		}
	}
	return career.Occupation{}, career.ErrNotFound
}

func (f *fakeStore) Count(ctx context.Context) (int, error) { return len(f.occs), f.err }

type memCache struct {
	data map[string][]byte
	err  error
}

func (m *memCache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (m *memCache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = b
	return nil
}

type countingRecorder struct{ hits, misses int }

func (c *countingRecorder) CacheHit(string)  { c.hits++ }
func (c *countingRecorder) CacheMiss(string) { c.misses++ }

func TestFallbackSource_UsesCatalogWhenEmpty(t *testing.T) {
	src := NewFallbackSource(&fakeStore{}, catalog.NewSource(), nil)

	occs, err := src.List(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, occs)

	o, err := src.Get(context.Background(), "15-1252.00")
	require.NoError(t, err)
	assert.Equal(t, "Software Developers", o.Title)
}

func TestFallbackSource_PrefersPrimary(t *testing.T) {
	primary := &fakeStore{occs: []career.Occupation{{Code: "11-1011.00", Title: "Chief Executives"}}}
	src := NewFallbackSource(primary, catalog.NewSource(), nil)

	occs, err := src.List(context.Background())
	require.NoError(t, err)
	require.Len(t, occs, 1)
	assert.Equal(t, "Chief Executives", occs[0].Title)

	_, err = src.Get(context.Background(), "15-1252.00")
	assert.ErrorIs(t, err, career.ErrNotFound)
}

func TestFallbackSource_PropagatesErrors(t *testing.T) {
	boom := errors.New("db down")
	_, err := NewFallbackSource(&fakeStore{err: boom}, catalog.NewSource(), nil).List(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestCachedSource(t *testing.T) {
	next := &fakeStore{occs: []career.Occupation{{Code: "a", Title: "A"}, {Code: "b", Title: "B"}}}
	rec := &countingRecorder{}
	src := NewCachedSource(next, &memCache{}, time.Minute, rec, nil)
	ctx := context.Background()

	first, err := src.List(ctx)
	require.NoError(t, err)
	second, err := src.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.lists)
	assert.Equal(t, 1, rec.hits)
	assert.Equal(t, 1, rec.misses)

	o, err := src.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "B", o.Title)
	_, err = src.Get(ctx, "zzz")
	assert.ErrorIs(t, err, career.ErrNotFound)
}

func TestCachedSource_CacheErrorsFallThrough(t *testing.T) {
	next := &fakeStore{occs: []career.Occupation{{Code: "a"}}}
	src := NewCachedSource(next, &memCache{err: errors.New("redis down")}, time.Minute, nil, nil)

	occs, err := src.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, occs, 1)
}
