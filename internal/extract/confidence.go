package extract

import (
	"strings"

	"github.com/pharmvigilance/signalengine/internal/domain"
)

var triggerLexicon = map[string]bool{
	"caused": true, "cause": true, "causes": true, "causing": true,
	"induced": true, "induces": true, "inducing": true,
	"associated": true, "leading": true, "led": true, "resulted": true, "resulting": true,
}

var negationCues = map[string]bool{
	"no": true, "not": true, "without": true, "denies": true, "denied": true, "ruled": true,
}

var uncertaintyCues = map[string]bool{
	"may": true, "possibly": true, "possible": true, "could": true, "might": true, "suspected": true,
}

const cueWindow = 5

const (
	weightAdjacency   = 0.4
	weightTrigger     = 0.4
	weightNegation    = 0.3
	weightUncertainty = 0.2
)

// Confidence scores a candidate drug/event co-occurrence within one
// tokenized sentence, plus the polarity the surrounding cues imply.
func Confidence(tokens []string, drugSpan, eventSpan Span) (float64, domain.Polarity) {
	distance := tokenGap(drugSpan, eventSpan)
	adjacency := clip01(1 - float64(distance)/10)

	trigger := anyCueBetween(tokens, drugSpan, eventSpan, triggerLexicon)

	negWindowStart, negWindowEnd := cueWindowBounds(tokens, drugSpan, eventSpan)
	negationCount := countCues(tokens[negWindowStart:negWindowEnd], negationCues)
	uncertaintyCount := countCues(tokens[negWindowStart:negWindowEnd], uncertaintyCues)

	score := weightAdjacency*adjacency + weightTrigger*boolF(trigger)
	if negationCount > 0 {
		score -= weightNegation
	}
	if uncertaintyCount > 0 {
		score -= weightUncertainty
	}
	score = clip01(score)

	polarity := domain.PolarityAsserted
	switch {
	case negationCount > 0 && negationCount >= uncertaintyCount:
		polarity = domain.PolarityNegated
	case uncertaintyCount > 0:
		polarity = domain.PolarityUncertain
	}

	return score, polarity
}

func tokenGap(a, b Span) int {
	if a.TokenEnd <= b.TokenStart {
		return b.TokenStart - a.TokenEnd
	}
	if b.TokenEnd <= a.TokenStart {
		return a.TokenStart - b.TokenEnd
	}
	return 0
}

func cueWindowBounds(tokens []string, a, b Span) (int, int) {
	lo, hi := a.TokenStart, a.TokenEnd
	if b.TokenStart < lo {
		lo = b.TokenStart
	}
	if b.TokenEnd > hi {
		hi = b.TokenEnd
	}
	lo -= cueWindow
	hi += cueWindow
	if lo < 0 {
		lo = 0
	}
	if hi > len(tokens) {
		hi = len(tokens)
	}
	return lo, hi
}

func anyCueBetween(tokens []string, a, b Span, lexicon map[string]bool) bool {
	lo, hi := a.TokenEnd, b.TokenStart
	if hi < lo {
		lo, hi = b.TokenEnd, a.TokenStart
	}
	if lo < 0 {
		lo = 0
	}
	if hi > len(tokens) {
		hi = len(tokens)
	}
	return countCues(tokens[lo:hi], lexicon) > 0
}

func countCues(tokens []string, lexicon map[string]bool) int {
	count := 0
	for _, t := range tokens {
		if lexicon[strings.ToLower(strings.Trim(t, ".,;:!?"))] {
			count++
		}
	}
	return count
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func boolF(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
