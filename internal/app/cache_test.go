package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pgit34/mon-cine-montpellier/internal/domain"
)

type countingAggregate struct {
	mu     sync.Mutex
	calls  int
	result domain.AggregationResult
}

func (c *countingAggregate) fn(ctx context.Context, days []domain.Day) (domain.AggregationResult, RunStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.result, RunStats{Records: len(c.result)}
}

func (c *countingAggregate) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func newTestCache(ttl time.Duration, agg *countingAggregate) (*ResultCache, *time.Time) {
	c := NewResultCache(ttl, agg.fn)
	now := time.Now()
	c.now = func() time.Time { return now }
	return c, &now
}

func TestCacheGetWithinTTLHitsOnce(t *testing.T) {
	agg := &countingAggregate{result: domain.AggregationResult{
		{Day: "2026-08-28", Time: "14:30", Film: "Dune", Theater: "Diagonal", Language: domain.LangVOST},
	}}
	c, _ := newTestCache(time.Hour, agg)

	days := []domain.Day{"2026-08-28"}
	first := c.Get(context.Background(), days)
	second := c.Get(context.Background(), days)

	if agg.count() != 1 {
		t.Fatalf("deux Get dans le TTL: want 1 agrégation, got %d", agg.count())
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("résultats: %v / %v", first, second)
	}
}

func TestCacheGetAfterExpiryRefreshesOnce(t *testing.T) {
	agg := &countingAggregate{}
	c, now := newTestCache(time.Hour, agg)

	days := []domain.Day{"2026-08-28"}
	c.Get(context.Background(), days)
	*now = now.Add(2 * time.Hour)
	c.Get(context.Background(), days)

	if agg.count() != 2 {
		t.Fatalf("Get après expiration: want 2 agrégations, got %d", agg.count())
	}
}

func TestCacheForceRefreshBypassesTTL(t *testing.T) {
	agg := &countingAggregate{}
	c, _ := newTestCache(time.Hour, agg)

	days := []domain.Day{"2026-08-28"}
	c.Get(context.Background(), days)
	c.ForceRefresh(context.Background(), days)
	c.Get(context.Background(), days)

	if agg.count() != 2 {
		t.Fatalf("ForceRefresh dans le TTL: want 2 agrégations, got %d", agg.count())
	}
}

func TestCacheForceRefreshReusesLastWindow(t *testing.T) {
	agg := &countingAggregate{}
	c, _ := newTestCache(time.Hour, agg)

	days := []domain.Day{"2026-08-28", "2026-08-29"}
	c.Get(context.Background(), days)
	c.ForceRefresh(context.Background(), nil)
	// La fenêtre rejouée couvre la requête initiale : pas de 3e scrape.
	c.Get(context.Background(), days)

	if agg.count() != 2 {
		t.Fatalf("want 2 agrégations, got %d", agg.count())
	}
}

func TestCacheWiderWindowForcesRefresh(t *testing.T) {
	agg := &countingAggregate{}
	c, _ := newTestCache(time.Hour, agg)

	c.Get(context.Background(), []domain.Day{"2026-08-28"})
	c.Get(context.Background(), []domain.Day{"2026-08-28", "2026-08-29"})

	if agg.count() != 2 {
		t.Fatalf("fenêtre plus large non couverte: want 2 agrégations, got %d", agg.count())
	}

	// Et l'inverse : une fenêtre plus étroite est couverte.
	c.Get(context.Background(), []domain.Day{"2026-08-29"})
	if agg.count() != 2 {
		t.Fatalf("fenêtre incluse: want 2 agrégations, got %d", agg.count())
	}
}

func TestCacheLastUpdated(t *testing.T) {
	agg := &countingAggregate{}
	c, now := newTestCache(time.Hour, agg)

	if _, ok := c.LastUpdated(); ok {
		t.Fatal("cache vide: LastUpdated doit renvoyer ok=false")
	}
	c.Get(context.Background(), []domain.Day{"2026-08-28"})
	at, ok := c.LastUpdated()
	if !ok || !at.Equal(*now) {
		t.Fatalf("LastUpdated: %v %v", at, ok)
	}
}

func TestCacheConcurrentGetsSingleFlight(t *testing.T) {
	agg := &countingAggregate{}
	c, _ := newTestCache(time.Hour, agg)

	days := []domain.Day{"2026-08-28"}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := c.Get(context.Background(), days)
			if res == nil {
				t.Error("résultat nil")
			}
		}()
	}
	wg.Wait()

	if agg.count() != 1 {
		t.Fatalf("rafale de Get concurrents: want 1 agrégation, got %d", agg.count())
	}
}
