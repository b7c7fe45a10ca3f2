package usecase

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gowaffles/assistant/internal/domain"
	"go.uber.org/zap"
)

const (
	defaultMatchThreshold = 60
	defaultMatchLimit     = 3

	// MaxQueryRunes bounds the normalized query scored against the catalog;
	// longer input is cut at this many runes
	MaxQueryRunes = 256
)

// Weighted ratio scales
const (
	tokenScale        = 0.95 // token sort/set variants
	partialScale      = 0.90 // best-window variants
	longPartialScale  = 0.60 // best-window variants when one side is over 8x longer
	partialLenRatio   = 1.5
	longPartialLenCap = 8.0
)

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	Threshold          int
	Limit              int
	EnableDebugLogging bool
}

// MatchingService maps free text onto catalog entries by fuzzy name similarity
type MatchingService struct {
	threshold          int
	limit              int
	enableDebugLogging bool
	logger             *zap.Logger
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig, logger *zap.Logger) *MatchingService {
	threshold := config.Threshold
	if threshold <= 0 {
		threshold = defaultMatchThreshold
	}

	limit := config.Limit
	if limit <= 0 {
		limit = defaultMatchLimit
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &MatchingService{
		threshold:          threshold,
		limit:              limit,
		enableDebugLogging: config.EnableDebugLogging,
		logger:             logger.With(zap.String("component", "matcher")),
	}
}

// Match returns up to the configured limit of entries scoring at least the
// configured threshold, best first
func (s *MatchingService) Match(query string, snapshot *domain.CatalogSnapshot) []domain.MatchResult {
	return s.MatchWith(query, snapshot, s.threshold, s.limit)
}

// MatchWith scores every entry name against query and keeps those with
// score >= threshold. Results are sorted by score descending; ties keep
// catalog order. At most limit results are returned.
func (s *MatchingService) MatchWith(query string, snapshot *domain.CatalogSnapshot, threshold, limit int) []domain.MatchResult {
	results := []domain.MatchResult{}
	if snapshot.Len() == 0 || limit <= 0 {
		return results
	}

	q := truncateRunes(normalizeText(query), MaxQueryRunes)
	if q == "" {
		return results
	}

	for _, entry := range snapshot.Entries {
		score := weightedRatio(q, normalizeText(entry.Name))

		if s.enableDebugLogging {
			s.logger.Debug("scored entry",
				zap.String("query", q),
				zap.String("entry", entry.Name),
				zap.Int("score", score))
		}

		if score >= threshold {
			results = append(results, domain.MatchResult{Entry: entry, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}

	if s.enableDebugLogging {
		s.logger.Debug("match finished", zap.String("query", q), zap.Int("results", len(results)))
	}

	return results
}

// Score returns the 0-100 similarity between two raw strings
func (s *MatchingService) Score(a, b string) int {
	return weightedRatio(
		truncateRunes(normalizeText(a), MaxQueryRunes),
		truncateRunes(normalizeText(b), MaxQueryRunes),
	)
}

// truncateRunes cuts s to at most n runes without splitting one
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n]))
}

// weightedRatio expects normalized input. It takes the best of the plain
// ratio and the token variants, switching to best-window comparison when
// the lengths differ enough.
func weightedRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}

	best := ratio(a, b)

	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	lenRatio := float64(max(la, lb)) / float64(min(la, lb))

	if lenRatio < partialLenRatio {
		best = max(best,
			tokenSortRatio(a, b, ratio)*tokenScale,
			tokenSetRatio(a, b, ratio)*tokenScale,
		)
		return int(math.Round(best))
	}

	scale := partialScale
	if lenRatio > longPartialLenCap {
		scale = longPartialScale
	}

	best = max(best,
		partialRatio(a, b)*scale,
		tokenSortRatio(a, b, partialRatio)*tokenScale*scale,
		tokenSetRatio(a, b, partialRatio)*tokenScale*scale,
	)
	return int(math.Round(best))
}

// ratio is 2*LCS/(len(a)+len(b)) scaled to 0-100
func ratio(a, b string) float64 {
	return runeRatio([]rune(a), []rune(b))
}

func runeRatio(a, b []rune) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return 200 * float64(lcsLength(a, b)) / float64(len(a)+len(b))
}

// partialRatio compares the shorter string with every equally long window
// of the longer one and keeps the best ratio. A window's ratio can never
// exceed the share of characters it has in common with the shorter string,
// so windows whose bound cannot beat the best so far skip the LCS.
func partialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	n := len(short)
	if n == 0 {
		return 0
	}

	need := make(map[rune]int, n)
	for _, r := range short {
		need[r]++
	}
	have := make(map[rune]int, n)
	common := 0
	add := func(r rune) {
		if have[r] < need[r] {
			common++
		}
		have[r]++
	}
	remove := func(r rune) {
		have[r]--
		if have[r] < need[r] {
			common--
		}
	}
	for _, r := range long[:n] {
		add(r)
	}

	best := 0.0
	for start := 0; ; start++ {
		if bound := 100 * float64(common) / float64(n); bound > best {
			if r := runeRatio(short, long[start:start+n]); r > best {
				best = r
				if best == 100 {
					break
				}
			}
		}
		if start+n >= len(long) {
			break
		}
		remove(long[start])
		add(long[start+n])
	}
	return best
}

// tokenSortRatio scores the alphabetically sorted token lists
func tokenSortRatio(a, b string, scorer func(string, string) float64) float64 {
	return scorer(sortedTokens(a), sortedTokens(b))
}

// tokenSetRatio splits both sides into their shared tokens and the rest,
// then scores the shared part against each side
func tokenSetRatio(a, b string, scorer func(string, string) float64) float64 {
	setA, setB := tokenSet(a), tokenSet(b)

	var shared, onlyA, onlyB []string
	for tok := range setA {
		if setB[tok] {
			shared = append(shared, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range setB {
		if !setA[tok] {
			onlyB = append(onlyB, tok)
		}
	}
	sort.Strings(shared)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(shared, " ")
	withA := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	withB := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	return max(
		scorer(base, withA),
		scorer(base, withB),
		scorer(withA, withB),
	)
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

// lcsLength returns the length of the longest common subsequence
func lcsLength(a, b []rune) int {
	// Use two rows instead of full matrix for space efficiency
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
