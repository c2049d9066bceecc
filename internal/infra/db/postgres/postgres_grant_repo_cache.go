package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"member-grants-platform/internal/domain/model"
	"member-grants-platform/internal/domain/ports/repository"
	"member-grants-platform/internal/infra/metrics"
	red "member-grants-platform/internal/infra/redis"
)

var _ repository.GrantRepository = (*grantRepoCacheDecorator)(nil)

// grantRepoCacheDecorator caches the public grant listing pages.
type grantRepoCacheDecorator struct {
	inner repository.GrantRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewGrantRepoCacheDecorator(inner repository.GrantRepository, cache red.RedisClient, ttl time.Duration) repository.GrantRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &grantRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func (d *grantRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Grant, error) {
	if tx != nil {
		return d.inner.FindByID(ctx, tx, id)
	}
	key := fmt.Sprintf("grant:%s", id)
	if val, err := d.cache.Get(ctx, key); err == nil {
		var g model.Grant
		if json.Unmarshal([]byte(val), &g) == nil {
			metrics.IncCacheRequest("grant", "hit")
			return &g, nil
		}
	} else if err != redis.Nil {
		metrics.IncCacheRequest("grant", "error")
	}

	metrics.IncCacheRequest("grant", "miss")
	g, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if bytes, err := json.Marshal(g); err == nil {
		_ = d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return g, nil
}

func (d *grantRepoCacheDecorator) List(ctx context.Context, tx repository.Tx, featuredOnly bool) ([]*model.Grant, error) {
	if tx != nil {
		return d.inner.List(ctx, tx, featuredOnly)
	}
	key := "grants:all"
	if featuredOnly {
		key = "grants:featured"
	}
	if val, err := d.cache.Get(ctx, key); err == nil {
		var grants []*model.Grant
		if json.Unmarshal([]byte(val), &grants) == nil {
			metrics.IncCacheRequest("grant_list", "hit")
			return grants, nil
		}
	}

	metrics.IncCacheRequest("grant_list", "miss")
	grants, err := d.inner.List(ctx, tx, featuredOnly)
	if err != nil {
		return nil, err
	}
	if len(grants) > 0 {
		if bytes, err := json.Marshal(grants); err == nil {
			_ = d.cache.Set(ctx, key, bytes, d.ttl)
		}
	}
	return grants, nil
}

func (d *grantRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, g *model.Grant) error {
	_ = d.cache.Del(ctx, fmt.Sprintf("grant:%s", g.ID), "grants:all", "grants:featured")
	return d.inner.Save(ctx, tx, g)
}
