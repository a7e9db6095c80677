// Package extract performs weakly-supervised drug/event relation extraction
// over literature abstracts: dictionary-based span matching, heuristic
// confidence scoring, and polarity classification.
package extract

import (
	"regexp"
	"strings"
)

var sentenceBoundaryRE = regexp.MustCompile(`(?:[.!?])\s+(?:[A-Z0-9])`)

// SplitSentences splits text into sentences on '.', '!', or '?' followed by
// whitespace and an uppercase letter or digit, a cheap heuristic that avoids
// splitting on abbreviations like "Dr." mid-sentence in the common case
// where the next word is lowercase.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	last := 0
	for _, loc := range sentenceBoundaryRE.FindAllStringIndex(text, -1) {
		splitAt := loc[0] + 1 // keep the terminating punctuation with the sentence
		sentences = append(sentences, strings.TrimSpace(text[last:splitAt]))
		last = splitAt
	}
	if rest := strings.TrimSpace(text[last:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}
