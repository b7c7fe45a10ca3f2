package domain

import (
	"context"
	"time"
)

// CatalogFetcher retrieves the remote menu document
type CatalogFetcher interface {
	FetchCatalog(ctx context.Context) (*CatalogSnapshot, error)
}

// CatalogProvider returns the current menu snapshot, nil when none is available
type CatalogProvider interface {
	GetCatalog(ctx context.Context) *CatalogSnapshot
}

// CompletionRequest is a single system+user chat completion call
type CompletionRequest struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// CompletionClient talks to the chat-completion API
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Configured() bool
}

// MessageSender delivers text messages to a Telegram chat
type MessageSender interface {
	SendText(chatID int64, text string) error
	Configured() bool
}
