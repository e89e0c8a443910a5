package classify

import (
	"context"
	"strings"
)

// keywordTextLimit bounds how much text is scanned per record. Article
// introductions carry the field signal; the tail mostly adds noise.
const keywordTextLimit = 3000

// KeywordClassifier scores text against the taxonomy's keyword phrases
// and returns the best-matching school. It needs no network or model
// access and serves as the offline classification backend.
type KeywordClassifier struct {
	taxonomy Taxonomy
}

// NewKeywordClassifier creates a classifier over the given taxonomy.
func NewKeywordClassifier(taxonomy Taxonomy) *KeywordClassifier {
	return &KeywordClassifier{taxonomy: taxonomy}
}

// Classify counts keyword phrase hits per school in the lowercased text
// and picks the school with the most hits. Ties break toward the school
// listed first in the taxonomy. ok is false when nothing matches.
func (c *KeywordClassifier) Classify(_ context.Context, _ string, text string) (string, bool, error) {
	if len(text) > keywordTextLimit {
		text = text[:keywordTextLimit]
	}
	text = strings.ToLower(text)

	best, bestScore := "", 0
	for _, school := range c.taxonomy.Schools {
		score := 0
		for _, phrase := range c.taxonomy.Keywords[school] {
			if strings.Contains(text, phrase) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = school, score
		}
	}
	return best, best != "", nil
}
