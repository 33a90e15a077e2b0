package db

import (
	"context"
	"sync"
)

// MemoryStore keeps exchanges in process memory. Used by the memory driver
// and by tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Exchange
	clock   *clock
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{clock: newClock()}
}

func (s *MemoryStore) Insert(ctx context.Context, userMessage, botResponse string) (Exchange, error) {
	if err := ctx.Err(); err != nil {
		return Exchange{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ex := Exchange{
		UserMessage: userMessage,
		BotResponse: botResponse,
		Timestamp:   s.clock.next(),
	}
	s.records = append(s.records, ex)
	return ex, nil
}

func (s *MemoryStore) Recent(ctx context.Context, limit int) ([]Exchange, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Exchange, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) Close(context.Context) error { return nil }
