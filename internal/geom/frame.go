package geom

import "github.com/san-kum/pendulab/internal/draw"

// Point is a position in surface pixels.
type Point struct {
	X, Y float64
}

// Frame is a rectangular region of a surface addressed in percents. It is a
// cheap value: build one per redraw instead of keeping it around.
type Frame struct {
	Left, Right, Top, Bottom float64
	X, Y                     LinearScale
}

func NewFrame(left, right, top, bottom float64) Frame {
	return Frame{
		Left:   left,
		Right:  right,
		Top:    top,
		Bottom: bottom,
		X:      NewLinearScale(left, right),
		Y:      NewLinearScale(top, bottom),
	}
}

func (f Frame) Width() float64  { return f.Right - f.Left }
func (f Frame) Height() float64 { return f.Bottom - f.Top }

func (f Frame) Point(xPercent, yPercent float64) Point {
	return Point{X: f.X.Scale(xPercent), Y: f.Y.Scale(yPercent)}
}

// OffsetPoint is Point relative to the frame origin, e.g. a fill size.
func (f Frame) OffsetPoint(xPercent, yPercent float64) Point {
	p := f.Point(xPercent, yPercent)
	return Point{X: p.X - f.Left, Y: p.Y - f.Top}
}

// Contains reports whether the surface point lies inside the frame,
// boundaries included.
func (f Frame) Contains(x, y float64) bool {
	return between(x, f.Left, f.Right) && between(y, f.Top, f.Bottom)
}

// DrawLine strokes a single segment between two percent points.
func (f Frame) DrawLine(s draw.Surface, from, to Point, width float64) {
	p1 := f.Point(from.X, from.Y)
	p2 := f.Point(to.X, to.Y)

	s.BeginPath()
	s.MoveTo(p1.X, p1.Y)
	s.LineTo(p2.X, p2.Y)
	s.SetLineWidth(width)
	s.Stroke()
}

func between(v, a, b float64) bool {
	if a > b {
		a, b = b, a
	}
	return v >= a && v <= b
}
