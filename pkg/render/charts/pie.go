package charts

import (
	"fmt"
	"math"

	"github.com/evoviz/phylosim/pkg/errors"
)

// Pie renders a donut chart of relative mutation contribution per taxon.
// Taxa with a zero value are skipped (a zero-angle wedge draws nothing).
func Pie(s Series, opts Options) ([]byte, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	opts.setDefaults()

	total := s.sum()
	if total == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "all series values are zero")
	}

	const holeRatio = 0.45

	d := newSVG(opts.Width, opts.Height)
	d.title(opts.Title)

	cx := opts.Width / 2
	cy := (opts.Height + 24) / 2
	r := math.Min(opts.Width, opts.Height-48)/2 - 24
	hole := r * holeRatio

	angle := -math.Pi / 2 // start at 12 o'clock
	for i, v := range s.Values {
		if v == 0 {
			continue
		}
		sweep := 2 * math.Pi * v / total
		d.path(donutWedge(cx, cy, r, hole, angle, angle+sweep), fill(i))

		mid := angle + sweep/2
		lx := cx + (r+16)*math.Cos(mid)
		ly := cy + (r+16)*math.Sin(mid)
		anchor := "start"
		if math.Cos(mid) < -0.1 {
			anchor = "end"
		} else if math.Abs(math.Cos(mid)) <= 0.1 {
			anchor = "middle"
		}
		d.text(lx, ly, anchor, fmt.Sprintf("%s (%.0f%%)", s.Labels[i], 100*v/total), 12)

		angle += sweep
	}

	return d.bytes(), nil
}

// donutWedge builds the SVG path for one annular sector from a1 to a2 radians.
func donutWedge(cx, cy, r, hole, a1, a2 float64) string {
	large := 0
	if a2-a1 > math.Pi {
		large = 1
	}

	x1, y1 := cx+r*math.Cos(a1), cy+r*math.Sin(a1)
	x2, y2 := cx+r*math.Cos(a2), cy+r*math.Sin(a2)
	x3, y3 := cx+hole*math.Cos(a2), cy+hole*math.Sin(a2)
	x4, y4 := cx+hole*math.Cos(a1), cy+hole*math.Sin(a1)

	return fmt.Sprintf("M %.2f %.2f A %.2f %.2f 0 %d 1 %.2f %.2f L %.2f %.2f A %.2f %.2f 0 %d 0 %.2f %.2f Z",
		x1, y1, r, r, large, x2, y2, x3, y3, hole, hole, large, x4, y4)
}
