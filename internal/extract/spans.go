package extract

import "strings"

// SpanKind distinguishes a drug span from an event span.
type SpanKind int

const (
	SpanDrug SpanKind = iota
	SpanEvent
)

// Span is one matched dictionary entry within a sentence, identified by
// token offsets.
type Span struct {
	Kind       SpanKind
	CanonicalID string
	Surface     string
	TokenStart  int
	TokenEnd    int // exclusive
}

// Dictionary is a phrase -> canonical ID lookup for one span kind, keyed by
// lowercase, space-joined token sequences.
type Dictionary map[string]string

// NewDictionary builds a Dictionary from (canonicalID -> surface forms).
func NewDictionary(surfacesByID map[string][]string) Dictionary {
	d := make(Dictionary)
	for id, surfaces := range surfacesByID {
		for _, s := range surfaces {
			key := normalizeKey(s)
			if key != "" {
				d[key] = id
			}
		}
	}
	return d
}

func normalizeKey(phrase string) string {
	return strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
}

const maxSpanTokens = 5

// FindSpans scans tokens left to right, greedily matching the longest
// dictionary phrase starting at each position across both dictionaries.
// Ties in length are broken in favor of a drug match, then the dictionary
// passed first. Matched tokens are consumed; unmatched tokens advance the
// scan by one.
func FindSpans(tokens []string, drugs, events Dictionary) []Span {
	var spans []Span
	i := 0
	for i < len(tokens) {
		bestLen := 0
		var bestID string
		var bestKind SpanKind
		maxLen := maxSpanTokens
		if i+maxLen > len(tokens) {
			maxLen = len(tokens) - i
		}
		for length := maxLen; length >= 1; length-- {
			phrase := normalizeKey(strings.Join(tokens[i:i+length], " "))
			if id, ok := drugs[phrase]; ok {
				bestLen, bestID, bestKind = length, id, SpanDrug
				break
			}
			if id, ok := events[phrase]; ok {
				bestLen, bestID, bestKind = length, id, SpanEvent
				break
			}
		}
		if bestLen == 0 {
			i++
			continue
		}
		spans = append(spans, Span{
			Kind: bestKind, CanonicalID: bestID,
			Surface:    strings.Join(tokens[i:i+bestLen], " "),
			TokenStart: i, TokenEnd: i + bestLen,
		})
		i += bestLen
	}
	return spans
}
