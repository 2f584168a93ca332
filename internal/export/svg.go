package export

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// SVG is a drawing surface that accumulates SVG elements. Paths are emitted
// on Stroke or Fill with the style current at that moment, the way a canvas
// context applies its state.
type SVG struct {
	width, height float64

	stroke    string
	fill      string
	lineWidth float64

	path     strings.Builder
	elements []string
}

func NewSVG(width, height float64) *SVG {
	return &SVG{
		width:     width,
		height:    height,
		stroke:    "#000000",
		fill:      "#000000",
		lineWidth: 1,
	}
}

func (s *SVG) Size() (float64, float64) { return s.width, s.height }

func (s *SVG) BeginPath() { s.path.Reset() }

func (s *SVG) MoveTo(x, y float64) {
	fmt.Fprintf(&s.path, "M%.2f,%.2f ", x, y)
}

func (s *SVG) LineTo(x, y float64) {
	fmt.Fprintf(&s.path, "L%.2f,%.2f ", x, y)
}

// Arc appends a circular arc. A full turn is split in two half arcs since a
// single SVG arc cannot close on itself.
func (s *SVG) Arc(x, y, r, start, end float64) {
	sweep := end - start
	sx, sy := x+r*math.Cos(start), y+r*math.Sin(start)
	if s.path.Len() == 0 {
		fmt.Fprintf(&s.path, "M%.2f,%.2f ", sx, sy)
	} else {
		fmt.Fprintf(&s.path, "L%.2f,%.2f ", sx, sy)
	}

	if math.Abs(sweep) >= 2*math.Pi {
		mx, my := x+r*math.Cos(start+math.Pi), y+r*math.Sin(start+math.Pi)
		fmt.Fprintf(&s.path, "A%.2f,%.2f 0 0 1 %.2f,%.2f ", r, r, mx, my)
		fmt.Fprintf(&s.path, "A%.2f,%.2f 0 0 1 %.2f,%.2f ", r, r, sx, sy)
		return
	}

	large := 0
	if math.Abs(sweep) > math.Pi {
		large = 1
	}
	dir := 1
	if sweep < 0 {
		dir = 0
	}
	ex, ey := x+r*math.Cos(end), y+r*math.Sin(end)
	fmt.Fprintf(&s.path, "A%.2f,%.2f 0 %d %d %.2f,%.2f ", r, r, large, dir, ex, ey)
}

func (s *SVG) Stroke() {
	d := strings.TrimSpace(s.path.String())
	if d == "" {
		return
	}
	s.elements = append(s.elements, fmt.Sprintf(
		`<path d="%s" fill="none" stroke="%s" stroke-width="%.2f"/>`, d, s.stroke, s.lineWidth))
}

func (s *SVG) Fill() {
	d := strings.TrimSpace(s.path.String())
	if d == "" {
		return
	}
	s.elements = append(s.elements, fmt.Sprintf(`<path d="%s" fill="%s"/>`, d, s.fill))
}

func (s *SVG) FillRect(x, y, w, h float64) {
	s.elements = append(s.elements, fmt.Sprintf(
		`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`, x, y, w, h, s.fill))
}

// ClearRect over the whole surface drops everything drawn so far; a partial
// clear paints white.
func (s *SVG) ClearRect(x, y, w, h float64) {
	if x <= 0 && y <= 0 && x+w >= s.width && y+h >= s.height {
		s.elements = s.elements[:0]
		return
	}
	s.elements = append(s.elements, fmt.Sprintf(
		`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="#ffffff"/>`, x, y, w, h))
}

func (s *SVG) FillText(text string, x, y float64) {
	s.elements = append(s.elements, fmt.Sprintf(
		`<text x="%.2f" y="%.2f" fill="%s" font-family="sans-serif" font-size="12">%s</text>`,
		x, y, s.fill, escape(text)))
}

func (s *SVG) SetStrokeStyle(style string) { s.stroke = escape(style) }
func (s *SVG) SetFillStyle(style string)   { s.fill = escape(style) }
func (s *SVG) SetLineWidth(width float64)  { s.lineWidth = width }

// Len is the number of elements drawn since the last full clear.
func (s *SVG) Len() int { return len(s.elements) }

func (s *SVG) String() string {
	var sb strings.Builder
	s.WriteTo(&sb)
	return sb.String()
}

func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, s.width, s.height, s.width, s.height)
	for _, e := range s.elements {
		sb.WriteString(e)
		sb.WriteByte('\n')
	}
	sb.WriteString("</svg>\n")

	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }
