// Package scene draws the pendulum stage and the phase-space plot onto a
// drawing surface.
//
// Frames are rebuilt from the [Layout] on every redraw. The plot axes are
// laid out through the same converter that places trace samples, so the
// grid and the trajectory always agree.
package scene

import (
	"math"
	"strconv"

	"github.com/san-kum/pendulab/internal/coords"
	"github.com/san-kum/pendulab/internal/draw"
	"github.com/san-kum/pendulab/internal/geom"
	"github.com/san-kum/pendulab/internal/trace"
)

// Reference canvas size the layout proportions are expressed in.
const (
	BaseWidth  = 640
	BaseHeight = 360
)

// Style holds the colors used by the scene.
type Style struct {
	Background string
	Axis       string
	PlotFill   string
	Trace      string
	Rod        string
	Bob        string
	Marker     string
	Text       string
}

var DefaultStyle = Style{
	Background: "#ffffff",
	Axis:       "#333333",
	PlotFill:   "#eeeeee",
	Trace:      "#0066cc",
	Rod:        "#333333",
	Bob:        "#cc3333",
	Marker:     "#cc3333",
	Text:       "#333333",
}

// Layout places the phase plot and the pendulum stage on a surface of the
// given size.
type Layout struct {
	Width, Height float64
}

func NewLayout(width, height float64) Layout {
	return Layout{Width: width, Height: height}
}

// LayoutFor sizes a layout from the surface when it reports a size.
func LayoutFor(s draw.Surface) Layout {
	if sz, ok := s.(draw.Sized); ok {
		w, h := sz.Size()
		return NewLayout(w, h)
	}
	return NewLayout(BaseWidth, BaseHeight)
}

func (l Layout) sx() float64 { return l.Width / BaseWidth }
func (l Layout) sy() float64 { return l.Height / BaseHeight }

// Plot is the phase-space region; pointer input is hit-tested against it.
func (l Layout) Plot() geom.Frame {
	return geom.NewFrame(50*l.sx(), 310*l.sx(), 50*l.sy(), 310*l.sy())
}

// Stage is the region the swinging pendulum is drawn in.
func (l Layout) Stage() geom.Frame {
	return geom.NewFrame(380*l.sx(), 620*l.sx(), 40*l.sy(), 320*l.sy())
}

// Scene draws with a fixed layout, style and converter.
type Scene struct {
	Layout Layout
	Style  Style
	Conv   *coords.Converter
}

func New(layout Layout, conv *coords.Converter) *Scene {
	return &Scene{Layout: layout, Style: DefaultStyle, Conv: conv}
}

// DrawStatic clears the surface and draws ticks, plot background and axes.
// Ticks are stroked before the background fill so that only the stubs
// outside the plot remain visible.
func (sc *Scene) DrawStatic(s draw.Surface) {
	s.ClearRect(0, 0, sc.Layout.Width, sc.Layout.Height)

	plot := sc.Layout.Plot()
	s.SetStrokeStyle(sc.Style.Axis)
	s.SetFillStyle(sc.Style.Text)

	for _, tk := range sc.Conv.AxisTicks() {
		x, y := tk.XPercent, tk.YPercent
		plot.DrawLine(s, geom.Point{X: x, Y: 103}, geom.Point{X: x, Y: -3}, 2)
		plot.DrawLine(s, geom.Point{X: 103, Y: y}, geom.Point{X: -3, Y: y}, 2)

		label := strconv.FormatFloat(tk.Value, 'g', -1, 64)
		fillText(s, plot, label, x-1, -5)
		fillText(s, plot, label, x-1, 108)
		fillText(s, plot, label, -8, y+2)
		fillText(s, plot, label, 105, y+2)
	}

	s.SetFillStyle(sc.Style.PlotFill)
	origin := plot.Point(0, 0)
	size := plot.OffsetPoint(100, 100)
	s.FillRect(origin.X, origin.Y, size.X, size.Y)

	sc.drawAxes(s, plot)

	s.SetFillStyle(sc.Style.Text)
	fillText(s, plot, "θ", 48, 116)
	fillText(s, plot, "ω", -16, 50)
}

func (sc *Scene) drawAxes(s draw.Surface, plot geom.Frame) {
	corners := [4]geom.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}}
	for i := range corners {
		plot.DrawLine(s, corners[i], corners[(i+1)%4], 2)
	}
}

// DrawPendulum draws the rod and bob at angle, measured from straight down.
func (sc *Scene) DrawPendulum(s draw.Surface, angle float64) {
	stage := sc.Layout.Stage()
	pivot := stage.Point(50, 50)
	r := 0.4 * math.Min(stage.Width(), stage.Height())
	bob := geom.Point{
		X: pivot.X + r*math.Sin(angle),
		Y: pivot.Y + r*math.Cos(angle),
	}

	s.SetStrokeStyle(sc.Style.Rod)
	s.BeginPath()
	s.MoveTo(pivot.X, pivot.Y)
	s.LineTo(bob.X, bob.Y)
	s.SetLineWidth(2)
	s.Stroke()

	s.SetFillStyle(sc.Style.Rod)
	s.FillRect(pivot.X-2, pivot.Y-2, 4, 4)

	s.SetFillStyle(sc.Style.Bob)
	s.BeginPath()
	s.Arc(bob.X, bob.Y, 0.04*r+6, 0, 2*math.Pi)
	s.Fill()
}

// DrawTrace strokes the trace in the trace color.
func (sc *Scene) DrawTrace(s draw.Surface, tr *trace.Trace) {
	s.SetStrokeStyle(sc.Style.Trace)
	s.SetLineWidth(1)
	tr.Render(s)
}

// DrawMarker highlights the current phase point.
func (sc *Scene) DrawMarker(s draw.Surface, p geom.Point) {
	s.SetFillStyle(sc.Style.Marker)
	s.BeginPath()
	s.Arc(p.X, p.Y, 3, 0, 2*math.Pi)
	s.Fill()
}

func fillText(s draw.Surface, f geom.Frame, text string, xPercent, yPercent float64) {
	p := f.Point(xPercent, yPercent)
	s.FillText(text, p.X, p.Y)
}
