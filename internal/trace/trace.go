// Package trace accumulates a pendulum's path through phase space as a
// polyline that may be broken at discontinuities.
package trace

import (
	"github.com/san-kum/pendulab/internal/coords"
	"github.com/san-kum/pendulab/internal/draw"
	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/geom"
)

type Kind uint8

const (
	// Sample is a plotted point joined to the previous sample.
	Sample Kind = iota
	// Break separates two runs of samples that must not be joined.
	Break
)

func (k Kind) String() string {
	if k == Break {
		return "break"
	}
	return "sample"
}

// Element is either a Sample carrying a surface point or a Break.
type Element struct {
	Kind  Kind
	Point geom.Point
}

// Trace is the ordered phase-space history of the current run.
type Trace struct {
	elems    []Element
	capacity int
}

// New returns an empty trace. A positive capacity keeps only the most recent
// elements.
func New(capacity int) *Trace {
	if capacity < 0 {
		capacity = 0
	}
	return &Trace{capacity: capacity}
}

// Record converts s into frame pixels and appends it. An off-scale state
// appends a Break and returns false.
func (t *Trace) Record(s dynamo.State, conv *coords.Converter, frame geom.Frame) (geom.Point, bool) {
	x, y, ok := conv.ToPercent(s)
	if !ok {
		t.push(Element{Kind: Break})
		return geom.Point{}, false
	}
	p := frame.Point(x, y)
	t.push(Element{Kind: Sample, Point: p})
	return p, true
}

// MarkBreak appends a Break unless the trace is empty or already ends in one.
func (t *Trace) MarkBreak() {
	if n := len(t.elems); n == 0 || t.elems[n-1].Kind == Break {
		return
	}
	t.push(Element{Kind: Break})
}

func (t *Trace) Reset() {
	t.elems = t.elems[:0]
}

func (t *Trace) Len() int { return len(t.elems) }

// Samples counts the plotted points.
func (t *Trace) Samples() int {
	n := 0
	for _, e := range t.elems {
		if e.Kind == Sample {
			n++
		}
	}
	return n
}

// Last returns the final element, if any.
func (t *Trace) Last() (Element, bool) {
	if len(t.elems) == 0 {
		return Element{}, false
	}
	return t.elems[len(t.elems)-1], true
}

// Elements returns a copy of the trace.
func (t *Trace) Elements() []Element {
	out := make([]Element, len(t.elems))
	copy(out, t.elems)
	return out
}

// Render strokes each run of samples as its own path. A Break closes the
// open path, so no segment ever joins points on either side of it.
func (t *Trace) Render(s draw.Surface) {
	open := false
	for _, e := range t.elems {
		if e.Kind == Break {
			if open {
				s.Stroke()
				open = false
			}
			continue
		}
		if !open {
			s.BeginPath()
			s.MoveTo(e.Point.X, e.Point.Y)
			open = true
			continue
		}
		s.LineTo(e.Point.X, e.Point.Y)
	}
	if open {
		s.Stroke()
	}
}

func (t *Trace) push(e Element) {
	t.elems = append(t.elems, e)
	if t.capacity > 0 && len(t.elems) > t.capacity {
		drop := len(t.elems) - t.capacity
		t.elems = append(t.elems[:0], t.elems[drop:]...)
	}
}
