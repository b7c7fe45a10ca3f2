package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gowaffles/assistant/internal/domain"
	"github.com/gowaffles/assistant/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClassifier(t *testing.T, completion domain.CompletionClient, llmEnabled bool) (*IntentClassifier, *metrics.Metrics) {
	t.Helper()
	m := metrics.NewNop()
	logger := zaptest.NewLogger(t)
	c := NewIntentClassifier(completion, NewQueryPreprocessor(logger, false), IntentConfig{LLMEnabled: llmEnabled}, logger, m)
	return c, m
}

func TestIsMenuIntent_LLM(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name    string
		verdict string
		want    bool
	}{
		{"accented yes", "Sí", true},
		{"yes with punctuation", "sí.", true},
		{"unaccented yes", "SI", true},
		{"english yes", "Yes", true},
		{"no", "No", false},
		{"no with words", "no lo es", false},
		{"word containing si is not a yes", "sino", false},
		{"empty", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			completion := newFakeCompletion(replyWith(tc.verdict))
			classifier, m := newTestClassifier(t, completion, true)

			// keyword-free message so only the verdict decides
			assert.Equal(t, tc.want, classifier.IsMenuIntent(ctx, "hola, ¿qué hay hoy?"))
			assert.Equal(t, 1.0, testutil.ToFloat64(m.CompletionRequests.WithLabelValues("intent", "ok")))
		})
	}
}

func TestIsMenuIntent_RequestShape(t *testing.T) {
	completion := newFakeCompletion(replyWith("sí"))
	classifier, _ := newTestClassifier(t, completion, true)

	classifier.IsMenuIntent(context.Background(), "¿tienen waffles?")

	calls := completion.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Eres un clasificador. Responde SOLO 'sí' o 'no'.", calls[0].System)
	assert.Contains(t, calls[0].User, "Pregunta: '¿tienen waffles?'")
	assert.Zero(t, calls[0].Temperature)
	assert.Equal(t, 5, calls[0].MaxTokens)
	assert.Equal(t, 5*time.Second, calls[0].Timeout)
}

func TestIsMenuIntent_Keywords(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name    string
		message string
		want    bool
	}{
		{"product word", "¿Tienen waffles salados?", true},
		{"unaccented keyword variant", "quiero algo de platano", true},
		{"accented keyword", "Milkshake de PLÁTANO", true},
		{"price question", "¿Cuánto cuesta?", true},
		{"price of a product", "¿cuánto cuesta el waffle de plátano?", true},
		{"business question", "¿a qué hora abren?", false},
		{"empty", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Run("llm disabled", func(t *testing.T) {
				completion := newFakeCompletion(replyWith("no"))
				classifier, m := newTestClassifier(t, completion, false)

				assert.Equal(t, tc.want, classifier.IsMenuIntent(ctx, tc.message))
				assert.Empty(t, completion.calls())
				assert.Equal(t, 1, testutil.CollectAndCount(m.IntentDecisions))
			})

			t.Run("llm unconfigured", func(t *testing.T) {
				completion := newFakeCompletion(replyWith("no"))
				completion.configured = false
				classifier, _ := newTestClassifier(t, completion, true)

				assert.Equal(t, tc.want, classifier.IsMenuIntent(ctx, tc.message))
				assert.Empty(t, completion.calls())
			})

			t.Run("llm failing", func(t *testing.T) {
				completion := newFakeCompletion(failWith(domain.ErrCompletionFailure))
				classifier, m := newTestClassifier(t, completion, true)

				assert.Equal(t, tc.want, classifier.IsMenuIntent(ctx, tc.message))
				assert.Len(t, completion.calls(), 1)
				assert.Equal(t, 1.0, testutil.ToFloat64(m.CompletionRequests.WithLabelValues("intent", "error")))
			})
		})
	}
}

func TestIsMenuIntent_DecisionPaths(t *testing.T) {
	ctx := context.Background()

	t.Run("llm path", func(t *testing.T) {
		classifier, m := newTestClassifier(t, newFakeCompletion(replyWith("sí")), true)
		classifier.IsMenuIntent(ctx, "hola")
		assert.Equal(t, 1.0, testutil.ToFloat64(m.IntentDecisions.WithLabelValues("llm", "true")))
	})

	t.Run("keywords path", func(t *testing.T) {
		classifier, m := newTestClassifier(t, nil, true)
		classifier.IsMenuIntent(ctx, "hola")
		assert.Equal(t, 1.0, testutil.ToFloat64(m.IntentDecisions.WithLabelValues("keywords", "false")))
	})

	t.Run("fallback path", func(t *testing.T) {
		classifier, m := newTestClassifier(t, newFakeCompletion(failWith(errors.New("boom"))), true)
		classifier.IsMenuIntent(ctx, "un helado")
		assert.Equal(t, 1.0, testutil.ToFloat64(m.IntentDecisions.WithLabelValues("keywords_fallback", "true")))
	})
}

func TestIsAffirmative(t *testing.T) {
	assert.True(t, isAffirmative([]string{"si"}))
	assert.True(t, isAffirmative([]string{"claro", "yes"}))
	assert.False(t, isAffirmative([]string{"no"}))
	assert.False(t, isAffirmative(nil))
}
