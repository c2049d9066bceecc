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

var _ repository.SubscriptionPlanRepository = (*planRepoCacheDecorator)(nil)

// planRepoCacheDecorator keeps the plan catalogue in redis. Plans change
// rarely and are read on every checkout.
type planRepoCacheDecorator struct {
	inner repository.SubscriptionPlanRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewPlanRepoCacheDecorator(inner repository.SubscriptionPlanRepository, cache red.RedisClient, ttl time.Duration) repository.SubscriptionPlanRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &planRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func (d *planRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionPlan, error) {
	// Reads inside a transaction bypass the cache.
	if tx != nil {
		return d.inner.FindByID(ctx, tx, id)
	}
	key := fmt.Sprintf("plan:%s", id)
	if val, err := d.cache.Get(ctx, key); err == nil {
		var plan model.SubscriptionPlan
		if json.Unmarshal([]byte(val), &plan) == nil {
			metrics.IncCacheRequest("plan", "hit")
			return &plan, nil
		}
	} else if err != redis.Nil {
		metrics.IncCacheRequest("plan", "error")
	}

	metrics.IncCacheRequest("plan", "miss")
	plan, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if bytes, err := json.Marshal(plan); err == nil {
		_ = d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return plan, nil
}

func (d *planRepoCacheDecorator) ListActive(ctx context.Context, tx repository.Tx) ([]*model.SubscriptionPlan, error) {
	if tx != nil {
		return d.inner.ListActive(ctx, tx)
	}
	const key = "plans:active"
	if val, err := d.cache.Get(ctx, key); err == nil {
		var plans []*model.SubscriptionPlan
		if json.Unmarshal([]byte(val), &plans) == nil {
			metrics.IncCacheRequest("plan_list", "hit")
			return plans, nil
		}
	}

	metrics.IncCacheRequest("plan_list", "miss")
	plans, err := d.inner.ListActive(ctx, tx)
	if err != nil {
		return nil, err
	}
	if len(plans) > 0 {
		if bytes, err := json.Marshal(plans); err == nil {
			_ = d.cache.Set(ctx, key, bytes, d.ttl)
		}
	}
	return plans, nil
}

// Writes invalidate both the row key and the list key.
func (d *planRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, plan *model.SubscriptionPlan) error {
	_ = d.cache.Del(ctx, fmt.Sprintf("plan:%s", plan.ID), "plans:active")
	return d.inner.Save(ctx, tx, plan)
}

func (d *planRepoCacheDecorator) Delete(ctx context.Context, tx repository.Tx, id string) error {
	_ = d.cache.Del(ctx, fmt.Sprintf("plan:%s", id), "plans:active")
	return d.inner.Delete(ctx, tx, id)
}
