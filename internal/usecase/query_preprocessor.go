package usecase

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// QueryPreprocessor normalizes free text before matching and keyword checks
type QueryPreprocessor struct {
	logger             *zap.Logger
	enableDebugLogging bool
}

// NewQueryPreprocessor creates a new query preprocessor
func NewQueryPreprocessor(logger *zap.Logger, enableDebugLogging bool) *QueryPreprocessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryPreprocessor{
		logger:             logger,
		enableDebugLogging: enableDebugLogging,
	}
}

// Normalize lower-cases s, folds accents, turns every non-alphanumeric rune
// into a space and collapses whitespace.
// "¿Cuánto cuesta el Plátano?" becomes "cuanto cuesta el platano".
func (p *QueryPreprocessor) Normalize(s string) string {
	out := normalizeText(s)
	if p.enableDebugLogging {
		p.logger.Debug("normalized query", zap.String("input", s), zap.String("output", out))
	}
	return out
}

// Tokens returns the normalized words of s
func (p *QueryPreprocessor) Tokens(s string) []string {
	return strings.Fields(normalizeText(s))
}

// ContainsAny reports whether any keyword appears in s as a substring once
// both sides are normalized
func (p *QueryPreprocessor) ContainsAny(s string, keywords []string) bool {
	text := normalizeText(s)
	if text == "" {
		return false
	}
	for _, kw := range keywords {
		if k := normalizeText(kw); k != "" && strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func normalizeText(s string) string {
	if s == "" {
		return ""
	}

	folded, _, err := transform.String(foldAccents(), s)
	if err != nil {
		folded = s
	}

	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, folded)

	return strings.Join(strings.Fields(mapped), " ")
}

// foldAccents builds a fresh chain per call; transformers keep state
func foldAccents() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
