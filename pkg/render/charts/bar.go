package charts

import "fmt"

// Bar renders a vertical bar chart of mutation values per taxon.
func Bar(s Series, opts Options) ([]byte, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	opts.setDefaults()

	const (
		padTop    = 48.0
		padBottom = 48.0
		padSide   = 32.0
		gapRatio  = 0.25
	)

	d := newSVG(opts.Width, opts.Height)
	d.title(opts.Title)

	plotW := opts.Width - 2*padSide
	plotH := opts.Height - padTop - padBottom
	maxV := s.maxValue()

	n := float64(len(s.Values))
	slot := plotW / n
	barW := slot * (1 - gapRatio)

	baseline := opts.Height - padBottom
	d.line(padSide, baseline, opts.Width-padSide, baseline, "#b0bec5")

	for i, v := range s.Values {
		h := plotH * v / maxV
		x := padSide + float64(i)*slot + (slot-barW)/2
		y := baseline - h
		d.rect(x, y, barW, h, fill(i))

		cx := x + barW/2
		d.text(cx, y-6, "middle", fmt.Sprintf("%.1f", v), 12)
		d.text(cx, baseline+18, "middle", s.Labels[i], 13)
	}

	return d.bytes(), nil
}
