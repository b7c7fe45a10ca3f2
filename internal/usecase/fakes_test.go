package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/gowaffles/assistant/internal/domain"
)

// fakeCompletion records every request and answers through respond
type fakeCompletion struct {
	mu         sync.Mutex
	configured bool
	respond    func(req domain.CompletionRequest) (string, error)
	requests   []domain.CompletionRequest
}

func newFakeCompletion(respond func(domain.CompletionRequest) (string, error)) *fakeCompletion {
	return &fakeCompletion{configured: true, respond: respond}
}

func replyWith(text string) func(domain.CompletionRequest) (string, error) {
	return func(domain.CompletionRequest) (string, error) { return text, nil }
}

func failWith(err error) func(domain.CompletionRequest) (string, error) {
	return func(domain.CompletionRequest) (string, error) { return "", err }
}

func (f *fakeCompletion) Complete(_ context.Context, req domain.CompletionRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	respond := f.respond
	f.mu.Unlock()
	return respond(req)
}

func (f *fakeCompletion) Configured() bool {
	return f.configured
}

func (f *fakeCompletion) calls() []domain.CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.CompletionRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

type fakeIntent struct {
	menu  bool
	calls int
}

func (f *fakeIntent) IsMenuIntent(context.Context, string) bool {
	f.calls++
	return f.menu
}

type fakeCatalog struct {
	snapshot *domain.CatalogSnapshot
	calls    int
}

func (f *fakeCatalog) GetCatalog(context.Context) *domain.CatalogSnapshot {
	f.calls++
	return f.snapshot
}

// fixedClock returns 2024-03-01 18:45 in La Serena (UTC-3)
func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 21, 45, 0, 0, time.UTC)
}
