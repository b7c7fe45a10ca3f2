package domain

import "errors"

var (
	// ErrCatalogFetch is returned when the remote menu cannot be fetched or decoded
	ErrCatalogFetch = errors.New("catalog fetch failed")

	// ErrCompletionNotConfigured is returned when no completion API key is set
	ErrCompletionNotConfigured = errors.New("completion API not configured")

	// ErrCompletionFailure is returned when a completion request fails
	ErrCompletionFailure = errors.New("completion API request failed")

	// ErrSenderNotConfigured is returned when no Telegram token is set
	ErrSenderNotConfigured = errors.New("telegram sender not configured")

	// ErrTelegramSend is returned when a message cannot be delivered to Telegram
	ErrTelegramSend = errors.New("telegram send failed")

	// ErrRateLimited is returned when the client-side rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest is returned when an inbound payload lacks required fields
	ErrInvalidRequest = errors.New("invalid request parameters")
)
