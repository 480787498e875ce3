package charts

import (
	"fmt"
	"math"
)

// Heatmap renders a single-row heat strip: one cell per taxon, colored from
// cool to warm by normalized mutation value.
func Heatmap(s Series, opts Options) ([]byte, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	opts.setDefaults()

	const (
		padTop  = 48.0
		padSide = 32.0
		cellGap = 4.0
	)

	d := newSVG(opts.Width, opts.Height)
	d.title(opts.Title)

	maxV := s.maxValue()
	n := float64(len(s.Values))
	cellW := (opts.Width - 2*padSide - cellGap*(n-1)) / n
	cellH := math.Min(opts.Height-padTop-64, cellW)

	for i, v := range s.Values {
		x := padSide + float64(i)*(cellW+cellGap)
		d.rect(x, padTop, cellW, cellH, heatColor(v/maxV))

		cx := x + cellW/2
		d.text(cx, padTop+cellH/2+5, "middle", fmt.Sprintf("%.1f", v), 13)
		d.text(cx, padTop+cellH+20, "middle", s.Labels[i], 13)
	}

	return d.bytes(), nil
}

// heatColor maps t in [0,1] onto a blue → red gradient.
func heatColor(t float64) string {
	t = math.Max(0, math.Min(1, t))
	r := int(41 + t*(192-41))
	g := int(128 - t*(128-57))
	b := int(185 - t*(185-43))
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
