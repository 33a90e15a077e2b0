package rpc

import (
	"context"
	"time"

	"chatbot/db"
)

type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Store is the subset of db.Store the handlers need. Recent must return
// newest first.
type Store interface {
	Insert(ctx context.Context, userMessage, botResponse string) (db.Exchange, error)
	Recent(ctx context.Context, limit int) ([]db.Exchange, error)
}

// Service runs the chat and history workflows against injected clients.
type Service struct {
	generator       Generator
	store           Store
	generateTimeout time.Duration
	storeTimeout    time.Duration
}

func NewService(generator Generator, store Store, generateTimeout, storeTimeout time.Duration) *Service {
	return &Service{
		generator:       generator,
		store:           store,
		generateTimeout: generateTimeout,
		storeTimeout:    storeTimeout,
	}
}
