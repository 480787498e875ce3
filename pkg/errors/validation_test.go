package errors

import (
	"strings"
	"testing"
)

func TestValidateTaxonLabel(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		wantErr bool
	}{
		{"simple", "Human", false},
		{"spaces ok", "Homo sapiens", false},
		{"unicode ok", "Björn", false},
		{"empty", "", true},
		{"paren", "Human(2)", true},
		{"comma", "a,b", true},
		{"colon", "a:b", true},
		{"semicolon", "a;b", true},
		{"control char", "a\tb", true},
		{"too long", strings.Repeat("x", 129), true},
		{"max length ok", strings.Repeat("x", 128), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTaxonLabel(tt.label)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTaxonLabel(%q) error = %v, wantErr %v", tt.label, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidTaxon) {
				t.Errorf("error code = %q, want INVALID_TAXON", GetCode(err))
			}
		})
	}
}

func TestValidateTaxonLabels(t *testing.T) {
	if err := ValidateTaxonLabels([]string{"a", "b"}); err != nil {
		t.Errorf("two labels should pass: %v", err)
	}

	if err := ValidateTaxonLabels([]string{"a"}); !Is(err, ErrCodeInvalidInput) {
		t.Errorf("single label error = %v, want INVALID_INPUT", err)
	}
	if err := ValidateTaxonLabels(nil); !Is(err, ErrCodeInvalidInput) {
		t.Errorf("nil labels error = %v, want INVALID_INPUT", err)
	}
	if err := ValidateTaxonLabels([]string{"a", "b", "a"}); !Is(err, ErrCodeInvalidInput) {
		t.Errorf("duplicate labels error = %v, want INVALID_INPUT", err)
	}
	if err := ValidateTaxonLabels([]string{"a", "b;c"}); !Is(err, ErrCodeInvalidTaxon) {
		t.Errorf("bad label error = %v, want INVALID_TAXON", err)
	}
}

func TestValidateMutationRange(t *testing.T) {
	tests := []struct {
		min, max float64
		wantErr  bool
	}{
		{0, 0, false},
		{0, 10, false},
		{5, 5, false},
		{-1, 10, true},
		{0, -1, true},
		{10, 5, true},
	}

	for _, tt := range tests {
		err := ValidateMutationRange(tt.min, tt.max)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateMutationRange(%g, %g) error = %v, wantErr %v", tt.min, tt.max, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidRange) {
			t.Errorf("error code = %q, want INVALID_RANGE", GetCode(err))
		}
	}
}
