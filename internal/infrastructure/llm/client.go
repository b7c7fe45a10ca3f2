package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gowaffles/assistant/internal/domain"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultModel   = openai.GPT3Dot5Turbo
	defaultTimeout = 10 * time.Second
)

// Config holds the completion client settings
type Config struct {
	APIKey            string
	BaseURL           string
	Model             string
	RequestsPerMinute float64
	Burst             int
}

// Client is a chat-completion client for OpenAI-compatible APIs
type Client struct {
	api         *openai.Client
	model       string
	configured  bool
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// NewClient creates a completion client. An empty API key yields a client
// that reports itself unconfigured and refuses every call.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 60
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		model:       model,
		configured:  cfg.APIKey != "",
		rateLimiter: rate.NewLimiter(rate.Limit(perMinute/60), burst),
		logger:      logger.With(zap.String("component", "llm_client")),
	}
}

// Configured reports whether an API key is present
func (c *Client) Configured() bool {
	return c.configured
}

// Complete sends one system+user exchange and returns the first choice text.
// The call is bounded by req.Timeout and never retried.
func (c *Client) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	if !c.configured {
		return "", domain.ErrCompletionNotConfigured
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, buildRequest(c.model, req))
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrCompletionFailure, describeError(err))
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", domain.ErrCompletionFailure)
	}

	content := resp.Choices[0].Message.Content
	c.logger.Debug("completion received",
		zap.String("model", c.model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return content, nil
}

// buildRequest maps a domain request onto the OpenAI wire request
func buildRequest(model string, req domain.CompletionRequest) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.User,
	})

	temperature := req.Temperature
	if temperature == 0 {
		// go-openai omits a zero temperature, which the API reads as 1
		temperature = math.SmallestNonzeroFloat32
	}

	return openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   req.MaxTokens,
	}
}

// describeError turns API errors into a short operator-facing summary
func describeError(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 401:
			return "invalid API key"
		case 404:
			return "model not found"
		case 429:
			return "quota or rate limit exceeded"
		}
		return fmt.Sprintf("status %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	return err.Error()
}
