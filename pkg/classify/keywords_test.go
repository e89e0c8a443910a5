package classify

import (
	"context"
	"strings"
	"testing"
)

func TestKeywordClassifier(t *testing.T) {
	classifier := NewKeywordClassifier(fixtureTaxonomy())

	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{
			name:   "single phrase match",
			text:   "His work centered on Surplus Value and its critique.",
			want:   "Marxian",
			wantOK: true,
		},
		{
			name:   "most hits wins",
			text:   "Known for surplus value, but mostly aggregate demand and fiscal stimulus.",
			want:   "Keynesian",
			wantOK: true,
		},
		{
			name:   "tie breaks toward earlier school",
			text:   "Wrote on aggregate demand and surplus value alike.",
			want:   "Keynesian",
			wantOK: true,
		},
		{
			name:   "no phrase matches",
			text:   "A biologist studying coral reefs.",
			wantOK: false,
		},
		{
			name:   "phrase beyond the scan window is ignored",
			text:   strings.Repeat("x", keywordTextLimit) + " surplus value",
			wantOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok, err := classifier.Classify(context.Background(), "Test Person", tc.text)
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if ok != tc.wantOK {
				t.Fatalf("Classify() ok = %v, want %v", ok, tc.wantOK)
			}
			if ok && got != tc.want {
				t.Errorf("Classify() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDefaultTaxonomyIsValid(t *testing.T) {
	taxonomy := DefaultTaxonomy()
	if err := taxonomy.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if taxonomy.Contains(Unclassified) {
		t.Error("the sentinel must not be part of the school list")
	}
	for _, school := range taxonomy.Schools {
		if taxonomy.Descriptions[school] == "" {
			t.Errorf("school %q has no description", school)
		}
	}
}

func TestDefaultSeedsLastEntryResolvesConflicts(t *testing.T) {
	final := make(map[string]string)
	for _, seed := range DefaultTaxonomy().Seeds {
		final[seed.Name] = seed.School
	}
	if got := final["James Heckman"]; got != "Labor Economics" {
		t.Errorf("James Heckman resolves to %q, want Labor Economics", got)
	}
}
