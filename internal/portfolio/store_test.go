package portfolio

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"crypto-nexus/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

type fakeKV struct {
	data   map[string]string
	writes int
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}}
}

func (f *fakeKV) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.writes++
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeKV) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func newTestStore(kv KVClient) *Store {
	return NewStore(trace.NewNoopTracerProvider().Tracer("test"), kv)
}

func TestLoadSeedsDefaults(t *testing.T) {
	t.Parallel()

	store := newTestStore(newFakeKV())
	store.Load(context.Background())

	holdings := store.List()
	if len(holdings) != len(domain.DefaultHoldings) {
		t.Fatalf("expected %d seeded holdings, got %d", len(domain.DefaultHoldings), len(holdings))
	}
	if holdings[0].Symbol != "BTC" || holdings[0].Amount != 0.5 {
		t.Fatalf("unexpected seed: %+v", holdings[0])
	}
}

func TestLoadReadsPersistedRecord(t *testing.T) {
	t.Parallel()

	kv := newFakeKV()
	saved := []domain.Holding{{Symbol: "ADA", Amount: 1000, AvgPrice: 0.5}}
	data, _ := json.Marshal(saved)
	kv.data[HoldingsKey] = string(data)

	store := newTestStore(kv)
	store.Load(context.Background())

	holdings := store.List()
	if len(holdings) != 1 || holdings[0].Symbol != "ADA" {
		t.Fatalf("expected persisted record, got %+v", holdings)
	}
}

func TestLoadCorruptRecordFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	kv := newFakeKV()
	kv.data[HoldingsKey] = "{not json"

	store := newTestStore(kv)
	store.Load(context.Background())

	if len(store.List()) != len(domain.DefaultHoldings) {
		t.Fatal("expected defaults after corrupt record")
	}
}

func TestUpsertPersistsEveryMutation(t *testing.T) {
	t.Parallel()

	kv := newFakeKV()
	store := newTestStore(kv)
	store.Load(context.Background())

	if err := store.Upsert(context.Background(), domain.Holding{Symbol: "DOT", Amount: 50, AvgPrice: 7}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kv.writes != 1 {
		t.Fatalf("expected 1 persist, got %d", kv.writes)
	}

	// Replace, not append, for an existing symbol.
	if err := store.Upsert(context.Background(), domain.Holding{Symbol: "DOT", Amount: 60, AvgPrice: 6}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	holdings := store.List()
	count := 0
	for _, h := range holdings {
		if h.Symbol == "DOT" {
			count++
			if h.Amount != 60 {
				t.Fatalf("expected replaced amount 60, got %f", h.Amount)
			}
		}
	}
	if count != 1 {
		t.Fatalf("expected 1 DOT holding, got %d", count)
	}
	if kv.writes != 2 {
		t.Fatalf("expected 2 persists, got %d", kv.writes)
	}
}

func TestUpsertRejectsNonPositiveFigures(t *testing.T) {
	t.Parallel()

	store := newTestStore(newFakeKV())
	store.Load(context.Background())

	if err := store.Upsert(context.Background(), domain.Holding{Symbol: "BTC", Amount: 0, AvgPrice: 100}); err == nil {
		t.Fatal("expected error for zero amount")
	}
	if err := store.Upsert(context.Background(), domain.Holding{Symbol: "BTC", Amount: 1, AvgPrice: -5}); err == nil {
		t.Fatal("expected error for negative avg price")
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	kv := newFakeKV()
	store := newTestStore(kv)
	store.Load(context.Background())

	if err := store.Remove(context.Background(), "ETH"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, h := range store.List() {
		if h.Symbol == "ETH" {
			t.Fatal("ETH still present after remove")
		}
	}

	if err := store.Remove(context.Background(), "XRP"); err == nil {
		t.Fatal("expected error removing unknown symbol")
	}
}
