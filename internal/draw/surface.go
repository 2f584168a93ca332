// Package draw defines the vector drawing capability consumed by the
// simulation and a recording implementation of it.
//
// Any backend that implements [Surface] can host the scene: the terminal
// Braille canvas, the SVG writer, or a [Recorder] that captures calls for
// later playback or inspection.
package draw

// Surface is an HTML5-canvas-like vector sink. Coordinates are surface
// pixels with y growing downward.
type Surface interface {
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Arc(x, y, radius, startAngle, endAngle float64)
	Stroke()
	Fill()

	FillRect(x, y, w, h float64)
	ClearRect(x, y, w, h float64)
	FillText(text string, x, y float64)

	SetStrokeStyle(style string)
	SetFillStyle(style string)
	SetLineWidth(width float64)
}

// Sized is implemented by surfaces with a fixed logical size.
type Sized interface {
	Size() (width, height float64)
}
