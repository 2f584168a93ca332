package viz

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/pendulab/internal/geom"
)

// inkThreshold is the Lab distance from the background above which a color
// sets dots rather than clearing them.
const inkThreshold = 0.12

type subpath struct {
	points []geom.Point
	closed bool
}

type circle struct {
	center geom.Point
	radius float64
}

// BrailleSurface draws in logical pixel coordinates onto a Braille [Canvas].
// Colors close to the background clear dots, every other color sets them;
// a light plot fill therefore erases what was drawn beneath it.
type BrailleSurface struct {
	canvas        *Canvas
	width, height float64
	xs, ys        geom.LinearScale
	background    colorful.Color

	stroke, fill string
	paths        []subpath
	circles      []circle
}

// NewBrailleSurface maps a width x height logical surface onto a canvas of
// cols x rows terminal cells.
func NewBrailleSurface(cols, rows int, width, height float64, background string) *BrailleSurface {
	c := NewCanvas(cols, rows)
	s := &BrailleSurface{
		canvas: c,
		width:  width,
		height: height,
		xs:     geom.NewLinearScale(0, float64(c.SubWidth()-1)),
		ys:     geom.NewLinearScale(0, float64(c.SubHeight()-1)),
		stroke: "#000000",
		fill:   "#000000",
	}
	s.SetBackground(background)
	return s
}

func (s *BrailleSurface) Canvas() *Canvas { return s.canvas }

func (s *BrailleSurface) Size() (float64, float64) { return s.width, s.height }

// SetBackground changes the color treated as empty. Unparsable colors fall
// back to white.
func (s *BrailleSurface) SetBackground(hex string) {
	bg, err := colorful.Hex(hex)
	if err != nil {
		bg = colorful.Color{R: 1, G: 1, B: 1}
	}
	s.background = bg
}

// Ink reports whether style sets dots.
func (s *BrailleSurface) Ink(style string) bool {
	c, err := colorful.Hex(style)
	if err != nil {
		return true
	}
	return c.DistanceLab(s.background) > inkThreshold
}

func (s *BrailleSurface) toSub(x, y float64) (int, int) {
	sx := s.xs.Scale(x * 100 / s.width)
	sy := s.ys.Scale(y * 100 / s.height)
	return int(math.Round(sx)), int(math.Round(sy))
}

// CellToPixel returns the logical pixel at the center of a terminal cell.
func (s *BrailleSurface) CellToPixel(col, row int) (float64, float64) {
	sx := float64(col*2) + 0.5
	sy := float64(row*4) + 1.5
	return s.xs.Invert(sx) * s.width / 100, s.ys.Invert(sy) * s.height / 100
}

func (s *BrailleSurface) BeginPath() {
	s.paths = s.paths[:0]
	s.circles = s.circles[:0]
}

func (s *BrailleSurface) MoveTo(x, y float64) {
	s.paths = append(s.paths, subpath{points: []geom.Point{{X: x, Y: y}}})
}

func (s *BrailleSurface) LineTo(x, y float64) {
	if len(s.paths) == 0 {
		s.MoveTo(x, y)
		return
	}
	last := &s.paths[len(s.paths)-1]
	last.points = append(last.points, geom.Point{X: x, Y: y})
}

// Arc is only supported as a full or partial circle outline around its
// center; fills treat it as a disc.
func (s *BrailleSurface) Arc(x, y, r, start, end float64) {
	s.circles = append(s.circles, circle{center: geom.Point{X: x, Y: y}, radius: r})
	const segments = 16
	sp := subpath{}
	for i := 0; i <= segments; i++ {
		a := start + (end-start)*float64(i)/segments
		sp.points = append(sp.points, geom.Point{X: x + r*math.Cos(a), Y: y + r*math.Sin(a)})
	}
	s.paths = append(s.paths, sp)
}

func (s *BrailleSurface) Stroke() {
	ink := s.Ink(s.stroke)
	for _, sp := range s.paths {
		if len(sp.points) == 1 {
			x, y := s.toSub(sp.points[0].X, sp.points[0].Y)
			s.plot(x, y, ink, s.stroke)
			continue
		}
		for i := 1; i < len(sp.points); i++ {
			x0, y0 := s.toSub(sp.points[i-1].X, sp.points[i-1].Y)
			x1, y1 := s.toSub(sp.points[i].X, sp.points[i].Y)
			if ink {
				s.canvas.DrawLine(x0, y0, x1, y1, s.stroke)
			} else {
				s.eraseLine(x0, y0, x1, y1)
			}
		}
	}
}

// Fill paints the discs of any arcs in the path, and the polygons of the
// remaining subpaths.
func (s *BrailleSurface) Fill() {
	ink := s.Ink(s.fill)
	for _, c := range s.circles {
		cx, cy := s.toSub(c.center.X, c.center.Y)
		rx := int(math.Ceil(c.radius * float64(s.canvas.SubWidth()) / s.width))
		ry := int(math.Ceil(c.radius * float64(s.canvas.SubHeight()) / s.height))
		for dy := -ry; dy <= ry; dy++ {
			for dx := -rx; dx <= rx; dx++ {
				if ry == 0 || rx == 0 || sq(float64(dx)/float64(rx))+sq(float64(dy)/float64(ry)) <= 1 {
					s.plot(cx+dx, cy+dy, ink, s.fill)
				}
			}
		}
	}
	if len(s.circles) > 0 {
		return
	}
	for _, sp := range s.paths {
		s.fillPolygon(sp.points, ink)
	}
}

func (s *BrailleSurface) fillPolygon(pts []geom.Point, ink bool) {
	if len(pts) < 3 {
		return
	}
	sub := make([][2]float64, len(pts))
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, p := range pts {
		x, y := s.toSub(p.X, p.Y)
		sub[i] = [2]float64{float64(x), float64(y)}
		minY, maxY = math.Min(minY, float64(y)), math.Max(maxY, float64(y))
	}
	for y := int(minY); y <= int(maxY); y++ {
		fy := float64(y) + 0.5
		var xs []float64
		for i := range sub {
			a, b := sub[i], sub[(i+1)%len(sub)]
			if (a[1] <= fy) != (b[1] <= fy) {
				xs = append(xs, a[0]+(fy-a[1])*(b[0]-a[0])/(b[1]-a[1]))
			}
		}
		for i := 0; i+1 < len(xs); i += 2 {
			x0, x1 := math.Min(xs[i], xs[i+1]), math.Max(xs[i], xs[i+1])
			for x := int(math.Ceil(x0)); x <= int(x1); x++ {
				s.plot(x, y, ink, s.fill)
			}
		}
	}
}

func (s *BrailleSurface) FillRect(x, y, w, h float64) {
	s.paintRect(x, y, w, h, s.Ink(s.fill), s.fill)
}

func (s *BrailleSurface) ClearRect(x, y, w, h float64) {
	s.paintRect(x, y, w, h, false, "")
}

func (s *BrailleSurface) paintRect(x, y, w, h float64, ink bool, color string) {
	x0, y0 := s.toSub(x, y)
	x1, y1 := s.toSub(x+w, y+h)
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			s.plot(px, py, ink, color)
		}
	}
	s.canvas.ClearText(x0, y0, x1, y1)
}

// FillText writes text into the cell under (x, y), which is the baseline
// start on a pixel canvas.
func (s *BrailleSurface) FillText(text string, x, y float64) {
	sx, sy := s.toSub(x, y)
	row := (sy - 1) / 4
	if sy < 1 {
		row = 0
	}
	s.canvas.PutText(sx/2, row, text, s.fill)
}

func (s *BrailleSurface) SetStrokeStyle(style string) { s.stroke = style }
func (s *BrailleSurface) SetFillStyle(style string)   { s.fill = style }

// SetLineWidth is ignored; every line is one dot wide.
func (s *BrailleSurface) SetLineWidth(float64) {}

func (s *BrailleSurface) plot(x, y int, ink bool, color string) {
	if ink {
		s.canvas.Set(x, y, color)
	} else {
		s.canvas.Unset(x, y)
	}
}

func (s *BrailleSurface) eraseLine(x0, y0, x1, y1 int) {
	steps := max(absInt(x1-x0), absInt(y1-y0))
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		x := int(math.Round(float64(x0) + t*float64(x1-x0)))
		y := int(math.Round(float64(y0) + t*float64(y1-y0)))
		s.canvas.Unset(x, y)
	}
}

func sq(v float64) float64 { return v * v }
