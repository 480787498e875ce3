package errors

import (
	"strings"
	"unicode"
)

// ValidateTaxonLabel validates a taxon label for safety and correctness.
// Labels end up in file names, Newick strings, and DOT identifiers, so the
// rules are intentionally conservative:
//   - No empty labels
//   - No control characters
//   - No Newick structural characters: ( ) , : ;
//   - Maximum length of 128 characters
func ValidateTaxonLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidTaxon, "taxon label cannot be empty")
	}

	if len(label) > 128 {
		return New(ErrCodeInvalidTaxon, "taxon label too long (max 128 characters)")
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTaxon, "taxon label contains control characters: %q", label)
		}
	}

	if strings.ContainsAny(label, "(),:;") {
		return New(ErrCodeInvalidTaxon, "taxon label contains reserved characters: %q", label)
	}

	return nil
}

// ValidateTaxonLabels validates a full label set: each label individually,
// plus the structural requirements of the generator (at least two labels,
// all distinct).
func ValidateTaxonLabels(labels []string) error {
	if len(labels) < 2 {
		return New(ErrCodeInvalidInput, "need at least 2 taxon labels, got %d", len(labels))
	}

	seen := make(map[string]bool, len(labels))
	for _, label := range labels {
		if err := ValidateTaxonLabel(label); err != nil {
			return err
		}
		if seen[label] {
			return New(ErrCodeInvalidInput, "duplicate taxon label: %q", label)
		}
		seen[label] = true
	}
	return nil
}

// ValidateMutationRange validates inclusive mutation value bounds.
// Both bounds must be non-negative and min must not exceed max.
func ValidateMutationRange(min, max float64) error {
	if min < 0 || max < 0 {
		return New(ErrCodeInvalidRange, "mutation range must be non-negative, got [%g, %g]", min, max)
	}
	if min > max {
		return New(ErrCodeInvalidRange, "mutation range is inverted: [%g, %g]", min, max)
	}
	return nil
}
