package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/econograph/backend/pkg/ai"
	"github.com/econograph/backend/pkg/logger"
)

// extractTextLimit bounds how much article text goes into the prompt.
const extractTextLimit = 2500

// ModelClassifier labels economists by asking a language model to pick
// one school from the taxonomy, given the person's article extract.
type ModelClassifier struct {
	client       ai.Client
	taxonomy     Taxonomy
	systemPrompt string
}

// schoolVerdict is the structured output requested from the model.
type schoolVerdict struct {
	School string `json:"school" jsonschema_description:"The school of thought, exactly as written in the list"`
}

// NewModelClassifier creates a classifier backed by the given model
// client. The system prompt embeds the taxonomy's school list and
// descriptions.
func NewModelClassifier(client ai.Client, taxonomy Taxonomy) *ModelClassifier {
	return &ModelClassifier{
		client:       client,
		taxonomy:     taxonomy,
		systemPrompt: buildSystemPrompt(taxonomy),
	}
}

func buildSystemPrompt(taxonomy Taxonomy) string {
	var b strings.Builder
	b.WriteString("You are an expert in the history of economic thought. ")
	b.WriteString("Your task is to classify economists into exactly one school of thought based on the provided Wikipedia text.\n\n")
	b.WriteString("The available schools are:\n")
	for _, school := range taxonomy.Schools {
		fmt.Fprintf(&b, "  • %s: %s\n", school, taxonomy.Descriptions[school])
	}
	b.WriteString("\nCritical disambiguation rules:\n")
	b.WriteString("- Development means ONLY research on poor/developing countries, not economic growth in general.\n")
	b.WriteString("- Institutional means new institutional economics, transaction costs, or the Veblenian tradition, not any work mentioning institutions.\n")
	b.WriteString("- Political Economy means political constraints shaping economic outcomes, not any policy-related work.\n")
	b.WriteString("- Econometrics means the primary contribution is empirical methodology itself, not mere use of empirical tools.\n")
	b.WriteString("- For economists spanning multiple fields, pick the school of their most central contribution.\n\n")
	b.WriteString("Respond with ONLY the school name, exactly as written in the list above. No explanation, no punctuation, nothing else.")
	return b.String()
}

// Classify asks the model for a school and validates the answer against
// the taxonomy. An exact match is preferred; a case-insensitive match is
// accepted as a close miss. Anything else is logged and reported as no
// signal so the caller can fall through to the next strategy.
func (c *ModelClassifier) Classify(ctx context.Context, name, text string) (string, bool, error) {
	if len(text) > extractTextLimit {
		text = text[:extractTextLimit]
	}

	prompt := fmt.Sprintf("Economist: %s\n\nWikipedia extract:\n%s", name, text)

	var verdict schoolVerdict
	err := c.client.GenerateCompletionWithFormat(
		ctx,
		"school_verdict",
		"The single school of thought this economist belongs to",
		prompt,
		&verdict,
		ai.WithSystemPrompts(c.systemPrompt),
		ai.WithTemperature(0.0),
	)
	if err != nil {
		return "", false, fmt.Errorf("model classification for %s failed: %w", name, err)
	}

	answer := strings.TrimSpace(verdict.School)
	if c.taxonomy.Contains(answer) {
		return answer, true, nil
	}
	for _, school := range c.taxonomy.Schools {
		if strings.EqualFold(school, answer) {
			return school, true, nil
		}
	}

	logger.Warn("[Classify] Model answer matches no school", "name", name, "answer", answer)
	return "", false, nil
}
