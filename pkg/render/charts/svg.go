package charts

import (
	"bytes"
	"fmt"
	"strings"
)

// svgDoc builds an SVG document incrementally.
type svgDoc struct {
	buf    bytes.Buffer
	width  float64
	height float64
}

func newSVG(width, height float64) *svgDoc {
	d := &svgDoc{width: width, height: height}
	fmt.Fprintf(&d.buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	return d
}

func (d *svgDoc) title(text string) {
	if text == "" {
		return
	}
	fmt.Fprintf(&d.buf, `  <text x="%.1f" y="24" text-anchor="middle" font-size="18" font-weight="bold" fill="#2c3e50" font-family="sans-serif">%s</text>`+"\n",
		d.width/2, escape(text))
}

func (d *svgDoc) rect(x, y, w, h float64, fill string) {
	fmt.Fprintf(&d.buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" rx="2"/>`+"\n",
		x, y, w, h, fill)
}

func (d *svgDoc) text(x, y float64, anchor, text string, size float64) {
	fmt.Fprintf(&d.buf, `  <text x="%.1f" y="%.1f" text-anchor="%s" font-size="%.0f" fill="#2c3e50" font-family="sans-serif">%s</text>`+"\n",
		x, y, anchor, size, escape(text))
}

func (d *svgDoc) path(pathData, fill string) {
	fmt.Fprintf(&d.buf, `  <path d="%s" fill="%s"/>`+"\n", pathData, fill)
}

func (d *svgDoc) line(x1, y1, x2, y2 float64, stroke string) {
	fmt.Fprintf(&d.buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1"/>`+"\n",
		x1, y1, x2, y2, stroke)
}

func (d *svgDoc) bytes() []byte {
	d.buf.WriteString("</svg>\n")
	return d.buf.Bytes()
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escape(s string) string { return escaper.Replace(s) }
