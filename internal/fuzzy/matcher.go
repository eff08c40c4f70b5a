// Package fuzzy decides whether a candidate text looks like a match for a query.
package fuzzy

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mioding/catalog-search/internal/textnorm"
	"github.com/mioding/catalog-search/services"
)

// Strategy identifies which signal produced a match. Lower values are stronger.
type Strategy int

const (
	StrategySubstring Strategy = iota + 1
	StrategyPhonetic
	StrategyInitials
	StrategyNumericUnit
	StrategyTokenOverlap
	StrategyNone
)

func (s Strategy) String() string {
	switch s {
	case StrategySubstring:
		return "substring"
	case StrategyPhonetic:
		return "phonetic"
	case StrategyInitials:
		return "initials"
	case StrategyNumericUnit:
		return "numeric_unit"
	case StrategyTokenOverlap:
		return "token_overlap"
	}
	return "none"
}

const (
	// DefaultOverlapThreshold is the share of query tokens the candidate must contain.
	DefaultOverlapThreshold = 0.7
	// DefaultNumericTolerance is the largest absolute difference for two numbers to be equal.
	DefaultNumericTolerance = 0.01
)

var (
	numberPattern = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)
	unitPattern   = regexp.MustCompile(`[A-Za-z°]+`)
)

// Matcher runs the five strategies in order and stops at the first success.
// It holds no mutable state and is safe for concurrent use.
type Matcher struct {
	phonetic  services.Transliterator
	segmenter services.Segmenter

	OverlapThreshold float64
	NumericTolerance float64
}

// NewMatcher creates a Matcher with the default thresholds.
func NewMatcher(phonetic services.Transliterator, segmenter services.Segmenter) *Matcher {
	return &Matcher{
		phonetic:         phonetic,
		segmenter:        segmenter,
		OverlapThreshold: DefaultOverlapThreshold,
		NumericTolerance: DefaultNumericTolerance,
	}
}

// Matches reports whether candidate matches query by any strategy.
func (m *Matcher) Matches(candidate, query string) bool {
	_, ok := m.Match(candidate, query)
	return ok
}

// Match returns the first strategy that matched, or StrategyNone.
// Blank inputs never match.
func (m *Matcher) Match(candidate, query string) (Strategy, bool) {
	if strings.TrimSpace(candidate) == "" || strings.TrimSpace(query) == "" {
		return StrategyNone, false
	}

	nc := textnorm.Normalize(strings.ToLower(candidate))
	nq := textnorm.Normalize(strings.ToLower(query))

	if m.substring(candidate, query, nc, nq) {
		return StrategySubstring, true
	}
	if m.phonetic != nil {
		if fq := m.phonetic.Full(query); fq != "" && strings.Contains(m.phonetic.Full(candidate), fq) {
			return StrategyPhonetic, true
		}
		if iq := m.phonetic.Initials(query); iq != "" && strings.Contains(m.phonetic.Initials(candidate), iq) {
			return StrategyInitials, true
		}
	}
	if m.numericUnit(nc, nq) {
		return StrategyNumericUnit, true
	}
	if m.segmenter != nil && m.tokenOverlap(nc, nq) >= m.OverlapThreshold {
		return StrategyTokenOverlap, true
	}
	return StrategyNone, false
}

// Best returns the strongest strategy of query against any of candidates.
func (m *Matcher) Best(query string, candidates ...string) Strategy {
	best := StrategyNone
	for _, c := range candidates {
		if s, ok := m.Match(c, query); ok && s < best {
			best = s
		}
	}
	return best
}

func (m *Matcher) substring(candidate, query, nc, nq string) bool {
	if nq != "" && strings.Contains(nc, nq) {
		return true
	}
	// Normalization without lower-casing first can keep a literal that the folded form lost.
	nqRaw := textnorm.Normalize(query)
	return nqRaw != "" && strings.Contains(textnorm.Normalize(candidate), nqRaw)
}

func (m *Matcher) numericUnit(nc, nq string) bool {
	qNums := extractNumbers(nq)
	cNums := extractNumbers(nc)
	if len(qNums) == 0 || len(cNums) == 0 {
		return false
	}

	near := false
	for _, a := range qNums {
		for _, b := range cNums {
			if math.Abs(a-b) <= m.NumericTolerance {
				near = true
				break
			}
		}
		if near {
			break
		}
	}
	if !near {
		return false
	}

	qUnit := unitPattern.FindString(nq)
	cUnit := unitPattern.FindString(nc)
	return qUnit == "" || cUnit == "" || qUnit == cUnit
}

// extractNumbers skips tokens that do not parse as floats.
func extractNumbers(s string) []float64 {
	raw := numberPattern.FindAllString(s, -1)
	out := make([]float64, 0, len(raw))
	for _, r := range raw {
		v, err := strconv.ParseFloat(r, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// tokenOverlap returns |Q ∩ C| / |Q| over token sets, 0 when the query has no tokens.
func (m *Matcher) tokenOverlap(nc, nq string) float64 {
	qSet := toSet(m.segmenter.Segment(nq))
	if len(qSet) == 0 {
		return 0
	}
	cSet := toSet(m.segmenter.Segment(nc))
	shared := 0
	for tok := range qSet {
		if _, ok := cSet[tok]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(qSet))
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
