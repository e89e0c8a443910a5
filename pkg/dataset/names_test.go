package dataset

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain name",
			input: "John Maynard Keynes",
			want:  "john maynard keynes",
		},
		{
			name:  "parenthetical disambiguator",
			input: "John Smith (economist)",
			want:  "john smith",
		},
		{
			name:  "middle initial",
			input: "Lawrence F. Katz",
			want:  "lawrence katz",
		},
		{
			name:  "multiple initials",
			input: "J. K. Galbraith",
			want:  "galbraith",
		},
		{
			name:  "extra whitespace",
			input: "  Milton   Friedman ",
			want:  "milton friedman",
		},
		{
			name:  "parenthetical and initial combined",
			input: "Robert E. Lucas (Jr.)",
			want:  "robert lucas",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeName(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeNameIdempotent(t *testing.T) {
	inputs := []string{
		"John Smith (economist)",
		"Lawrence F. Katz",
		"  Milton   Friedman ",
		"Joan Robinson",
		"",
	}

	for _, input := range inputs {
		once := NormalizeName(input)
		twice := NormalizeName(once)
		if once != twice {
			t.Errorf("NormalizeName not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestStripParenthetical(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"John Smith (economist)", "John Smith"},
		{"John Smith", "John Smith"},
		{"Adam Smith (1723) (philosopher)", "Adam Smith"},
	}

	for _, tt := range tests {
		if got := StripParenthetical(tt.input); got != tt.want {
			t.Errorf("StripParenthetical(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
