package rpc

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"chatbot/db"
	"chatbot/log"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
	log.SetOutput(log.ErrorLog, io.Discard)
}

type fakeGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	delay   time.Duration
	honour  bool
	prompts []string
}

func (g *fakeGenerator) Name() string { return "fake" }

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	if g.delay > 0 {
		if g.honour {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(g.delay):
			}
		} else {
			time.Sleep(g.delay)
		}
	}
	return g.reply, g.err
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

// flakyStore wraps a MemoryStore with injectable failures.
type flakyStore struct {
	*db.MemoryStore
	insertErr error
	recentErr error
	extra     []db.Exchange
}

func (s *flakyStore) Insert(ctx context.Context, userMessage, botResponse string) (db.Exchange, error) {
	if s.insertErr != nil {
		return db.Exchange{}, s.insertErr
	}
	return s.MemoryStore.Insert(ctx, userMessage, botResponse)
}

func (s *flakyStore) Recent(ctx context.Context, limit int) ([]db.Exchange, error) {
	if s.recentErr != nil {
		return nil, s.recentErr
	}
	if s.extra != nil {
		return s.extra, nil
	}
	return s.MemoryStore.Recent(ctx, limit)
}

var errStoreDown = errors.New("store unavailable")

type harness struct {
	gen    *fakeGenerator
	store  *flakyStore
	svc    *Service
	router *gin.Engine
}

func newHarness(t *testing.T, gen *fakeGenerator) *harness {
	t.Helper()
	store := &flakyStore{MemoryStore: db.NewMemoryStore()}
	svc := NewService(gen, store, time.Second, time.Second)
	return &harness{
		gen:    gen,
		store:  store,
		svc:    svc,
		router: NewServer(svc, "", "0", t.TempDir()).Router(),
	}
}

func (h *harness) do(method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}
