package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"careerpath/internal/domain/directory"

	"go.uber.org/zap"
)

// DirectoryCache stores listing pages. Writes drop every cached page of the
// affected kind.
type DirectoryCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

const directoryKeyPrefix = "directory:"

type directoryListKeyInput struct {
	Query  string `json:"q"`
	Sort   string `json:"sort"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// DirectoryListKey hashes normalized list params so equivalent queries share
// one entry.
func DirectoryListKey(kind directory.Kind, p directory.ListParams) string {
	in := directoryListKeyInput{
		Query:  strings.Join(strings.Fields(strings.ToLower(p.Query)), " "),
		Sort:   p.Sort,
		Limit:  p.Limit,
		Offset: p.Offset,
	}
	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return directoryKeyPrefix + string(kind) + ":" + hex.EncodeToString(sum[:])
}

func directoryPattern(kind directory.Kind) string {
	return directoryKeyPrefix + string(kind) + ":*"
}

// WithCache enables listing caching for ttl.
func (u *Directory) WithCache(c DirectoryCache, ttl time.Duration) *Directory {
	u.cache = c
	u.cacheTTL = ttl
	return u
}

func (u *Directory) invalidate(ctx context.Context, kind directory.Kind) {
	if u.cache == nil {
		return
	}
	if err := u.cache.DeleteByPattern(ctx, directoryPattern(kind)); err != nil {
		u.logger.Warn("directory cache invalidation failed", zap.String("kind", string(kind)), zap.Error(err))
	}
}

// cachedPage serves a normalized listing from the cache or load. Cache
// failures fall through to load.
func cachedPage[T any](ctx context.Context, u *Directory, kind directory.Kind, p directory.ListParams, load func() (directory.Page[T], error)) (directory.Page[T], error) {
	if u.cache == nil {
		return load()
	}

	key := DirectoryListKey(kind, p)
	var page directory.Page[T]
	ok, err := u.cache.GetJSON(ctx, key, &page)
	if err != nil {
		u.logger.Warn("directory cache read failed", zap.String("kind", string(kind)), zap.Error(err))
	}
	if ok {
		return page, nil
	}

	page, err = load()
	if err != nil {
		return page, err
	}
	if err := u.cache.SetJSON(ctx, key, page, u.cacheTTL); err != nil {
		u.logger.Warn("directory cache write failed", zap.String("kind", string(kind)), zap.Error(err))
	}
	return page, nil
}
