package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/access-control-api/internal/domain"
)

type mockResourceRepo struct {
	resources map[domain.ResourceTier][]domain.Resource
	calls     int
	err       error
}

func (r *mockResourceRepo) ListByTier(_ context.Context, tier domain.ResourceTier) ([]domain.Resource, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.resources[tier], nil
}

type fakeCache struct {
	store  map[string][]byte
	getErr error
	setErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	val, ok := c.store[key]
	return val, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.store[key] = value
	return nil
}

func generalResources() map[domain.ResourceTier][]domain.Resource {
	return map[domain.ResourceTier][]domain.Resource{
		domain.TierGeneral: {
			{ID: "r-1", Name: "reports", Tier: domain.TierGeneral},
			{ID: "r-2", Name: "documents", Tier: domain.TierGeneral},
		},
		domain.TierAdmin: {
			{ID: "r-3", Name: "audit-log", Tier: domain.TierAdmin},
		},
	}
}

func TestListByTier_CacheMissThenHit(t *testing.T) {
	repo := &mockResourceRepo{resources: generalResources()}
	cache := newFakeCache()
	svc := NewResourceService(repo, cache, time.Minute, zap.NewNop())

	first, err := svc.ListByTier(context.Background(), domain.TierGeneral)
	if err != nil {
		t.Fatalf("ListByTier() error = %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("got %d resources, want 2", len(first))
	}
	if repo.calls != 1 {
		t.Fatalf("repo calls = %d, want 1", repo.calls)
	}

	second, err := svc.ListByTier(context.Background(), domain.TierGeneral)
	if err != nil {
		t.Fatalf("ListByTier() error = %v", err)
	}
	if repo.calls != 1 {
		t.Errorf("repo calls = %d, want 1 (second read should hit cache)", repo.calls)
	}
	if len(second) != 2 {
		t.Errorf("got %d cached resources, want 2", len(second))
	}
}

func TestListByTier_TiersAreSeparateKeys(t *testing.T) {
	repo := &mockResourceRepo{resources: generalResources()}
	svc := NewResourceService(repo, newFakeCache(), time.Minute, zap.NewNop())

	general, err := svc.ListByTier(context.Background(), domain.TierGeneral)
	if err != nil {
		t.Fatalf("ListByTier(general) error = %v", err)
	}
	admin, err := svc.ListByTier(context.Background(), domain.TierAdmin)
	if err != nil {
		t.Fatalf("ListByTier(admin) error = %v", err)
	}
	if len(general) != 2 || len(admin) != 1 {
		t.Errorf("got general=%d admin=%d, want 2 and 1", len(general), len(admin))
	}
}

func TestListByTier_CacheFailureFallsThrough(t *testing.T) {
	repo := &mockResourceRepo{resources: generalResources()}
	cache := newFakeCache()
	cache.getErr = errors.New("redis unreachable")
	svc := NewResourceService(repo, cache, time.Minute, zap.NewNop())

	resources, err := svc.ListByTier(context.Background(), domain.TierGeneral)
	if err != nil {
		t.Fatalf("cache failure must not fail the read: %v", err)
	}
	if len(resources) != 2 {
		t.Errorf("got %d resources, want 2", len(resources))
	}
}

func TestListByTier_StoreErrorSurfaces(t *testing.T) {
	repo := &mockResourceRepo{err: errors.New("relation does not exist")}
	svc := NewResourceService(repo, newFakeCache(), time.Minute, zap.NewNop())

	if _, err := svc.ListByTier(context.Background(), domain.TierGeneral); err == nil {
		t.Fatal("store error should surface")
	}
}

func TestListByTier_NilCache(t *testing.T) {
	repo := &mockResourceRepo{resources: generalResources()}
	svc := NewResourceService(repo, nil, time.Minute, zap.NewNop())

	resources, err := svc.ListByTier(context.Background(), domain.TierGeneral)
	if err != nil {
		t.Fatalf("ListByTier() error = %v", err)
	}
	if len(resources) != 2 {
		t.Errorf("got %d resources, want 2", len(resources))
	}
}
