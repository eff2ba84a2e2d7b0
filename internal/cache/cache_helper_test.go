package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestManager(t *testing.T) (*CacheManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheManager(client), mr
}

type summary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

func TestCacheHelper_SetGetDelete(t *testing.T) {
	cm, mr := newTestManager(t)
	ctx := context.Background()

	if err := cm.Stats.Set(ctx, "k", summary{Average: 4.5, Count: 2}, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if !mr.Exists("stats:k") {
		t.Fatal("expected key to be stored with the stats prefix")
	}

	var got summary
	if err := cm.Stats.Get(ctx, "k", &got); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Average != 4.5 || got.Count != 2 {
		t.Errorf("Get() = %+v", got)
	}

	if err := cm.Stats.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := cm.Stats.Get(ctx, "k", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrCacheNotFound", err)
	}
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	cm, _ := newTestManager(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return summary{Average: 3, Count: 1}, nil
	}

	for i := 0; i < 3; i++ {
		var got summary
		if err := cm.Stats.CacheOrExecute(ctx, "agg", &got, time.Minute, fetch); err != nil {
			t.Fatalf("CacheOrExecute() error = %v", err)
		}
		if got.Count != 1 {
			t.Errorf("CacheOrExecute() = %+v", got)
		}
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}
}

func TestCacheManager_InvalidateMentor(t *testing.T) {
	cm, mr := newTestManager(t)
	ctx := context.Background()

	_ = cm.Stats.Set(ctx, RatingSummaryKey("m1"), summary{Count: 1}, time.Minute)
	_ = cm.Stats.Set(ctx, RatingSummaryKey("m2"), summary{Count: 1}, time.Minute)
	_ = cm.Fast.Set(ctx, "mentors:q=:1:20", []string{"m1"}, time.Minute)

	cm.InvalidateMentor(ctx, "m1")

	if mr.Exists("stats:" + RatingSummaryKey("m1")) {
		t.Error("m1 summary should be gone")
	}
	if !mr.Exists("stats:" + RatingSummaryKey("m2")) {
		t.Error("m2 summary should survive")
	}
	if mr.Exists("fast:mentors:q=:1:20") {
		t.Error("directory pages should be invalidated")
	}
}

func TestCacheManager_NilClient(t *testing.T) {
	cm := NewCacheManager(nil)
	ctx := context.Background()

	if err := cm.Stats.Set(ctx, "k", 1, time.Minute); err != nil {
		t.Errorf("Set() without client error = %v, want nil", err)
	}
	var v int
	if err := cm.Stats.Get(ctx, "k", &v); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Get() error = %v, want ErrCacheNotAvailable", err)
	}
	if err := cm.HealthCheck(ctx); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("HealthCheck() error = %v, want ErrCacheNotAvailable", err)
	}
}
