package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gowaffles/assistant/internal/domain"
	"github.com/gowaffles/assistant/internal/metrics"
	"go.uber.org/zap"
)

const (
	defaultIntentTimeout = 5 * time.Second
	intentMaxTokens      = 5
)

// Decision paths
const (
	pathLLM              = "llm"
	pathKeywords         = "keywords"
	pathKeywordsFallback = "keywords_fallback"
)

// IntentConfig holds configuration for the intent classifier
type IntentConfig struct {
	LLMEnabled bool
	Timeout    time.Duration
}

// IntentClassifier decides whether a message is about the menu
type IntentClassifier struct {
	completion   domain.CompletionClient
	preprocessor *QueryPreprocessor
	llmEnabled   bool
	timeout      time.Duration
	logger       *zap.Logger
	metrics      *metrics.Metrics
}

// NewIntentClassifier creates a classifier. metrics may be nil.
func NewIntentClassifier(
	completion domain.CompletionClient,
	preprocessor *QueryPreprocessor,
	config IntentConfig,
	logger *zap.Logger,
	m *metrics.Metrics,
) *IntentClassifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if preprocessor == nil {
		preprocessor = NewQueryPreprocessor(logger, false)
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultIntentTimeout
	}

	return &IntentClassifier{
		completion:   completion,
		preprocessor: preprocessor,
		llmEnabled:   config.LLMEnabled,
		timeout:      timeout,
		logger:       logger.With(zap.String("component", "intent_classifier")),
		metrics:      m,
	}
}

// IsMenuIntent asks the completion API for a yes/no verdict and falls back
// to keyword matching when the API is disabled, unconfigured or failing
func (c *IntentClassifier) IsMenuIntent(ctx context.Context, message string) bool {
	if !c.llmEnabled || c.completion == nil || !c.completion.Configured() {
		return c.decide(pathKeywords, c.keywordIntent(message))
	}

	verdict, err := c.completion.Complete(ctx, domain.CompletionRequest{
		System:      classifierSystemPrompt,
		User:        fmt.Sprintf(classifierUserPrompt, message),
		Temperature: 0,
		MaxTokens:   intentMaxTokens,
		Timeout:     c.timeout,
	})
	if err != nil {
		c.countCompletion("error")
		c.logger.Warn("intent classification failed, using keywords", zap.Error(err))
		return c.decide(pathKeywordsFallback, c.keywordIntent(message))
	}
	c.countCompletion("ok")

	return c.decide(pathLLM, isAffirmative(c.preprocessor.Tokens(verdict)))
}

func (c *IntentClassifier) keywordIntent(message string) bool {
	return c.preprocessor.ContainsAny(message, menuKeywords)
}

func (c *IntentClassifier) decide(path string, menu bool) bool {
	if c.metrics != nil {
		c.metrics.IntentDecisions.WithLabelValues(path, strconv.FormatBool(menu)).Inc()
	}
	c.logger.Debug("intent decided", zap.String("path", path), zap.Bool("menu", menu))
	return menu
}

func (c *IntentClassifier) countCompletion(result string) {
	if c.metrics != nil {
		c.metrics.CompletionRequests.WithLabelValues("intent", result).Inc()
	}
}

// isAffirmative reports whether the normalized reply holds a "si" or "yes" token
func isAffirmative(tokens []string) bool {
	for _, tok := range tokens {
		if tok == "si" || tok == "yes" {
			return true
		}
	}
	return false
}
