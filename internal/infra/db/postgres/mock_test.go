//go:build !integration

package postgres

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"member-grants-platform/internal/domain/model"
	"member-grants-platform/internal/domain/ports/repository"
	red "member-grants-platform/internal/infra/redis"
)

// --- Mocks for cache decorator tests ---

// mockInnerPlanRepo mocks the database repository the plan decorator wraps.
type mockInnerPlanRepo struct {
	SaveFunc       func(ctx context.Context, tx repository.Tx, plan *model.SubscriptionPlan) error
	DeleteFunc     func(ctx context.Context, tx repository.Tx, id string) error
	FindByIDFunc   func(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionPlan, error)
	ListActiveFunc func(ctx context.Context, tx repository.Tx) ([]*model.SubscriptionPlan, error)
}

func (m *mockInnerPlanRepo) Save(ctx context.Context, tx repository.Tx, plan *model.SubscriptionPlan) error {
	return m.SaveFunc(ctx, tx, plan)
}
func (m *mockInnerPlanRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	return m.DeleteFunc(ctx, tx, id)
}
func (m *mockInnerPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionPlan, error) {
	return m.FindByIDFunc(ctx, tx, id)
}
func (m *mockInnerPlanRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.SubscriptionPlan, error) {
	return m.ListActiveFunc(ctx, tx)
}

// mockInnerGrantRepo mocks the database repository the grant decorator wraps.
type mockInnerGrantRepo struct {
	SaveFunc     func(ctx context.Context, tx repository.Tx, g *model.Grant) error
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.Grant, error)
	ListFunc     func(ctx context.Context, tx repository.Tx, featuredOnly bool) ([]*model.Grant, error)
}

func (m *mockInnerGrantRepo) Save(ctx context.Context, tx repository.Tx, g *model.Grant) error {
	return m.SaveFunc(ctx, tx, g)
}
func (m *mockInnerGrantRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Grant, error) {
	return m.FindByIDFunc(ctx, tx, id)
}
func (m *mockInnerGrantRepo) List(ctx context.Context, tx repository.Tx, featuredOnly bool) ([]*model.Grant, error) {
	return m.ListFunc(ctx, tx, featuredOnly)
}

// mockRedisClient mocks our redis client wrapper. Unset funcs behave like an
// empty cache.
type mockRedisClient struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc    func(ctx context.Context, keys ...string) error
	PingFunc   func(ctx context.Context) error
	IncrFunc   func(ctx context.Context, key string) (int64, error)
	ExpireFunc func(ctx context.Context, key string, expiration time.Duration) error
}

var _ red.RedisClient = &mockRedisClient{}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc == nil {
		return "", redis.Nil
	}
	return m.GetFunc(ctx, key)
}
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc == nil {
		return nil
	}
	return m.SetFunc(ctx, key, value, expiration)
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc == nil {
		return nil
	}
	return m.DelFunc(ctx, keys...)
}
func (m *mockRedisClient) Ping(ctx context.Context) error {
	if m.PingFunc == nil {
		return nil
	}
	return m.PingFunc(ctx)
}
func (m *mockRedisClient) Incr(ctx context.Context, key string) (int64, error) {
	if m.IncrFunc == nil {
		return 0, nil
	}
	return m.IncrFunc(ctx, key)
}
func (m *mockRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	if m.ExpireFunc == nil {
		return nil
	}
	return m.ExpireFunc(ctx, key, expiration)
}
func (m *mockRedisClient) Close() error { return nil }
