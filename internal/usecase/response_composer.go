package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gowaffles/assistant/internal/business"
	"github.com/gowaffles/assistant/internal/domain"
	"github.com/gowaffles/assistant/internal/metrics"
	"go.uber.org/zap"
)

const defaultComposerTimeout = 10 * time.Second

// Reply branches
const (
	branchMenu     = "menu"
	branchBusiness = "business"
	branchNone     = "none"
)

// MenuIntentDetector decides whether a message asks about the menu
type MenuIntentDetector interface {
	IsMenuIntent(ctx context.Context, message string) bool
}

// ComposerConfig holds configuration for reply generation
type ComposerConfig struct {
	Temperature float32
	Timeout     time.Duration
}

// ResponseComposer turns an inbound message into the assistant reply
type ResponseComposer struct {
	completion  domain.CompletionClient
	intent      MenuIntentDetector
	catalog     domain.CatalogProvider
	matcher     *MatchingService
	profile     *business.Profile
	temperature float32
	timeout     time.Duration
	now         func() time.Time
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

// ComposerOption configures a ResponseComposer
type ComposerOption func(*ResponseComposer)

// WithComposerClock replaces time.Now for the local time line
func WithComposerClock(now func() time.Time) ComposerOption {
	return func(c *ResponseComposer) {
		c.now = now
	}
}

// WithComposerMetrics records reply outcomes on m
func WithComposerMetrics(m *metrics.Metrics) ComposerOption {
	return func(c *ResponseComposer) {
		c.metrics = m
	}
}

// NewResponseComposer wires the reply pipeline
func NewResponseComposer(
	completion domain.CompletionClient,
	intent MenuIntentDetector,
	catalog domain.CatalogProvider,
	matcher *MatchingService,
	profile *business.Profile,
	config ComposerConfig,
	logger *zap.Logger,
	opts ...ComposerOption,
) *ResponseComposer {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultComposerTimeout
	}

	c := &ResponseComposer{
		completion:  completion,
		intent:      intent,
		catalog:     catalog,
		matcher:     matcher,
		profile:     profile,
		temperature: config.Temperature,
		timeout:     timeout,
		now:         time.Now,
		logger:      logger.With(zap.String("component", "composer")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ComposeReply never fails: any problem is logged and answered with one of
// the fixed replies
func (c *ResponseComposer) ComposeReply(ctx context.Context, message string) (reply string) {
	branch := branchNone
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("reply composition panicked", zap.Any("panic", r), zap.String("branch", branch))
			c.countReply(branch, "error")
			reply = ErrorReply
		}
	}()

	if c.completion == nil || !c.completion.Configured() {
		c.countReply(branch, "no_credentials")
		return NoCredentialsReply
	}

	var prompt string
	if c.intent.IsMenuIntent(ctx, message) {
		branch = branchMenu
		prompt = c.menuPrompt(ctx, message)
	} else {
		branch = branchBusiness
		prompt = c.businessPrompt(message)
	}

	text, err := c.completion.Complete(ctx, domain.CompletionRequest{
		System:      personaPrompt(c.profile.Name, c.profile.ContactEmail),
		User:        prompt,
		Temperature: c.temperature,
		Timeout:     c.timeout,
	})
	if err != nil {
		c.logger.Error("reply completion failed", zap.String("branch", branch), zap.Error(err))
		c.countCompletion("error")
		c.countReply(branch, "error")
		return ErrorReply
	}
	c.countCompletion("ok")

	text = strings.TrimSpace(text)
	if text == "" {
		c.logger.Warn("blank completion", zap.String("branch", branch))
		c.countReply(branch, "error")
		return ErrorReply
	}

	c.countReply(branch, "ok")
	return text
}

// menuPrompt grounds the model on the matched products, or tells it nothing matched
func (c *ResponseComposer) menuPrompt(ctx context.Context, message string) string {
	snapshot := c.catalog.GetCatalog(ctx)
	matches := c.matcher.Match(message, snapshot)

	c.logger.Debug("menu lookup",
		zap.Int("catalog_entries", snapshot.Len()),
		zap.Int("matches", len(matches)))

	var b strings.Builder
	if len(matches) == 0 {
		fmt.Fprintf(&b, noMatchContext, c.profile.MenuURL)
	} else {
		b.WriteString(productsHeader)
		b.WriteString("\n")
		b.WriteString(productLines(matches))
		b.WriteString("\n\n")
		b.WriteString(productsInstruction)
	}
	b.WriteString("\n\n")
	fmt.Fprintf(&b, questionLabel, message)
	return b.String()
}

// businessPrompt grounds the model on the fact sheet and the local time
func (c *ResponseComposer) businessPrompt(message string) string {
	var b strings.Builder
	b.WriteString(c.profile.FactsContext())
	fmt.Fprintf(&b, "\nHora actual en %s: %s\n\n", c.profile.City, c.profile.LocalTime(c.now()))
	fmt.Fprintf(&b, questionLabel, message)
	return b.String()
}

// productLines renders one "- Name: $Price Description" line per match
func productLines(matches []domain.MatchResult) string {
	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		line := fmt.Sprintf("- %s: $%s %s", m.Entry.Name, m.Entry.Price, m.Entry.Description)
		lines = append(lines, strings.TrimSpace(line))
	}
	return strings.Join(lines, "\n")
}

func (c *ResponseComposer) countReply(branch, outcome string) {
	if c.metrics != nil {
		c.metrics.Replies.WithLabelValues(branch, outcome).Inc()
	}
}

func (c *ResponseComposer) countCompletion(result string) {
	if c.metrics != nil {
		c.metrics.CompletionRequests.WithLabelValues("reply", result).Inc()
	}
}
