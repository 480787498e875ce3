// Package charts renders simple SVG charts over per-taxon mutation values.
//
// Three chart types mirror the simulator's display surface:
//
//   - [Bar]: mutation value per taxon
//   - [Heatmap]: a single-row divergence heat strip
//   - [Pie]: relative mutation contribution as a donut
//
// All charts are emitted as self-contained SVG documents built by hand,
// with no rendering dependency.
package charts

import (
	"math"

	"github.com/evoviz/phylosim/pkg/errors"
	"github.com/evoviz/phylosim/pkg/phylo"
)

// Series is the chart input: parallel label and value slices.
type Series struct {
	Labels []string
	Values []float64
}

// FromTree extracts the leaf series from a tree: taxon labels paired with
// their edge mutation values, in pre-order traversal order.
// Fails with EMPTY_STATISTICS for a tree without edges.
func FromTree(t *phylo.Tree) (Series, error) {
	if t.EdgeCount() == 0 {
		return Series{}, errors.New(errors.ErrCodeEmptyStatistics, "tree has no edges to chart")
	}
	var s Series
	for _, leaf := range t.Leaves() {
		s.Labels = append(s.Labels, leaf.Label)
		s.Values = append(s.Values, leaf.MutationValue)
	}
	return s, nil
}

// validate checks structural series constraints shared by all charts.
func (s Series) validate() error {
	if len(s.Labels) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "series is empty")
	}
	if len(s.Labels) != len(s.Values) {
		return errors.New(errors.ErrCodeInvalidInput, "series has %d labels but %d values", len(s.Labels), len(s.Values))
	}
	return nil
}

// maxValue returns the largest value in the series, at least a small epsilon
// so scale math never divides by zero.
func (s Series) maxValue() float64 {
	m := 0.0
	for _, v := range s.Values {
		m = math.Max(m, v)
	}
	if m == 0 {
		m = 1e-9
	}
	return m
}

// sum returns the value total.
func (s Series) sum() float64 {
	var t float64
	for _, v := range s.Values {
		t += v
	}
	return t
}

// Options configures chart geometry.
type Options struct {
	Width  float64
	Height float64
	Title  string
}

// Default chart geometry.
const (
	DefaultWidth  = 640.0
	DefaultHeight = 400.0
)

func (o *Options) setDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
}

// palette is the fill color cycle shared by all chart types.
var palette = []string{
	"#2980b9", "#27ae60", "#e67e22", "#8e44ad",
	"#16a085", "#c0392b", "#f39c12", "#2c3e50",
}

func fill(i int) string { return palette[i%len(palette)] }
