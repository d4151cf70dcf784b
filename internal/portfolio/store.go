package portfolio

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"crypto-nexus/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

// HoldingsKey is the fixed key the serialized holdings list lives under.
const HoldingsKey = "portfolio:holdings"

type KVClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// Store owns the user's holdings. The record is read from the KV store
// once at startup and written back after every mutation, last write wins.
type Store struct {
	tracer trace.Tracer
	kv     KVClient

	mu       sync.Mutex
	holdings []domain.Holding
}

func NewStore(tracer trace.Tracer, kv KVClient) *Store {
	return &Store{tracer: tracer, kv: kv}
}

// Load reads the persisted holdings, seeding defaults when no record
// exists or the record cannot be decoded.
func (s *Store) Load(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "portfolio.load")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.holdings = append([]domain.Holding(nil), domain.DefaultHoldings...)

	if s.kv == nil {
		return
	}
	data, err := s.kv.Get(ctx, HoldingsKey).Bytes()
	if err == redis.Nil {
		return
	}
	if err != nil {
		log.Printf("portfolio read error, using defaults: %v", err)
		return
	}

	var saved []domain.Holding
	if err := json.Unmarshal(data, &saved); err != nil {
		log.Printf("portfolio record corrupt, using defaults: %v", err)
		return
	}
	s.holdings = saved
}

// List returns a copy of the holdings in insertion order.
func (s *Store) List() []domain.Holding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Holding(nil), s.holdings...)
}

// Upsert replaces the holding for a symbol, or appends it, then persists.
func (s *Store) Upsert(ctx context.Context, h domain.Holding) error {
	_, span := s.tracer.Start(ctx, "portfolio.upsert")
	defer span.End()

	if h.Symbol == "" {
		return fmt.Errorf("holding symbol is required")
	}
	if h.Amount <= 0 || h.AvgPrice <= 0 {
		return fmt.Errorf("holding amount and avg price must be positive")
	}

	s.mu.Lock()
	replaced := false
	for i := range s.holdings {
		if s.holdings[i].Symbol == h.Symbol {
			s.holdings[i] = h
			replaced = true
			break
		}
	}
	if !replaced {
		s.holdings = append(s.holdings, h)
	}
	s.mu.Unlock()

	return s.persist(ctx)
}

// Remove drops the holding for a symbol, then persists.
func (s *Store) Remove(ctx context.Context, symbol string) error {
	_, span := s.tracer.Start(ctx, "portfolio.remove")
	defer span.End()

	s.mu.Lock()
	kept := s.holdings[:0]
	found := false
	for _, h := range s.holdings {
		if h.Symbol == symbol {
			found = true
			continue
		}
		kept = append(kept, h)
	}
	s.holdings = kept
	s.mu.Unlock()

	if !found {
		return fmt.Errorf("no holding for %s", symbol)
	}
	return s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) error {
	if s.kv == nil {
		return nil
	}
	s.mu.Lock()
	data, err := json.Marshal(s.holdings)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, HoldingsKey, data, 0).Err(); err != nil {
		return fmt.Errorf("persist holdings: %w", err)
	}
	return nil
}
