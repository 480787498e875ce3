package pipeline

import (
	"slices"
	"testing"

	"github.com/evoviz/phylosim/pkg/errors"
	"github.com/evoviz/phylosim/pkg/phylo/sim"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"newick", false},
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"bar", false},
		{"heatmap", false},
		{"pie", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "newick"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Invalid format error = %v, want INVALID_FORMAT", err)
	}
	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{Taxa: []string{"a", "b"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}

	if !slices.Equal(opts.Formats, []string{FormatSVG}) {
		t.Errorf("default formats = %v, want [svg]", opts.Formats)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("default seed = %d, want %d", opts.Seed, DefaultSeed)
	}
	if opts.MutationMin != DefaultMutationMin || opts.MutationMax != DefaultMutationMax {
		t.Errorf("default range = [%g, %g], want [%g, %g]",
			opts.MutationMin, opts.MutationMax, DefaultMutationMin, DefaultMutationMax)
	}
	if opts.Policy != sim.PolicyBinary {
		t.Errorf("default policy = %q, want binary", opts.Policy)
	}
	if opts.Logger == nil {
		t.Error("default logger not set")
	}

	// Idempotent: a second call keeps the resolved values.
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second ValidateAndSetDefaults() error: %v", err)
	}
}

func TestOptionsValidateErrors(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantCode errors.Code
	}{
		{
			name:     "too many taxa",
			opts:     Options{Taxa: make([]string, MaxTaxa+1)},
			wantCode: errors.ErrCodeInvalidInput,
		},
		{
			name:     "bad format",
			opts:     Options{Taxa: []string{"a", "b"}, Formats: []string{"gif"}},
			wantCode: errors.ErrCodeInvalidFormat,
		},
		{
			name:     "too few taxa",
			opts:     Options{Taxa: []string{"a"}},
			wantCode: errors.ErrCodeInvalidInput,
		},
		{
			name:     "bad policy",
			opts:     Options{Taxa: []string{"a", "b"}, Policy: "ternary"},
			wantCode: errors.ErrCodeInvalidPolicy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestSimOptionsProjection(t *testing.T) {
	opts := Options{
		Taxa:        []string{"a", "b"},
		Policy:      sim.PolicyKary,
		KMin:        2,
		KMax:        3,
		MutationMin: 1,
		MutationMax: 9,
		Seed:        7,
	}

	so := opts.SimOptions()
	if !slices.Equal(so.Taxa, opts.Taxa) || so.Policy != opts.Policy ||
		so.KMin != 2 || so.KMax != 3 ||
		so.MutationMin != 1 || so.MutationMax != 9 || so.Seed != 7 {
		t.Errorf("SimOptions() = %+v", so)
	}
}
