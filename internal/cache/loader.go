package cache

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/storyverse/storyverse/pkg/logger"
)

// Loader combines cache lookup, fill, and in-flight request deduplication:
// at most one load runs per key at a time, concurrent callers share its
// result. A nil Cache disables caching but keeps the dedup behavior.
type Loader struct {
	cache Cache
	group singleflight.Group
}

func NewLoader(c Cache) *Loader {
	return &Loader{cache: c}
}

// Invalidate drops every cached entry of the given kind.
func (l *Loader) Invalidate(ctx context.Context, kind string) error {
	if l.cache == nil {
		return nil
	}
	return l.cache.Invalidate(ctx, kind)
}

// Load returns the cached value for key or runs fn to produce it. Cache
// read and write failures are logged and treated as misses: a broken cache
// degrades to direct loads instead of failing reads.
func Load[T any](ctx context.Context, l *Loader, key Key, fn func(context.Context) (T, error)) (T, error) {
	if l.cache != nil {
		var cached T
		hit, err := l.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			logger.Warn("cache read failed", zap.String("key", key.String()), zap.Error(err))
		} else if hit {
			return cached, nil
		}
	}

	v, err, _ := l.group.Do(key.String(), func() (any, error) {
		res, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		if l.cache != nil {
			if err := l.cache.SetJSON(ctx, key, res); err != nil {
				logger.Warn("cache write failed", zap.String("key", key.String()), zap.Error(err))
			}
		}
		return res, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
