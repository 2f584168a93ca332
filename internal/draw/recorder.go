package draw

// Op identifies a recorded Surface call.
type Op int

const (
	OpBeginPath Op = iota
	OpMoveTo
	OpLineTo
	OpArc
	OpStroke
	OpFill
	OpFillRect
	OpClearRect
	OpFillText
	OpStrokeStyle
	OpFillStyle
	OpLineWidth
)

var opNames = [...]string{
	"beginPath", "moveTo", "lineTo", "arc", "stroke", "fill",
	"fillRect", "clearRect", "fillText", "strokeStyle", "fillStyle", "lineWidth",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "unknown"
}

// Call is one recorded Surface invocation. Args holds the numeric operands
// in call order; Text holds the string operand for text and style calls.
type Call struct {
	Op   Op
	Args []float64
	Text string
}

// Recorder captures drawing operations as commands that can be inspected or
// replayed onto another Surface.
type Recorder struct {
	width, height float64
	calls         []Call
}

func NewRecorder(width, height float64) *Recorder {
	return &Recorder{width: width, height: height}
}

func (r *Recorder) Size() (float64, float64) { return r.width, r.height }

func (r *Recorder) Calls() []Call {
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Reset drops every recorded call.
func (r *Recorder) Reset() { r.calls = r.calls[:0] }

// Playback replays the recorded calls onto dst in order.
func (r *Recorder) Playback(dst Surface) {
	for _, c := range r.calls {
		apply(dst, c)
	}
}

func apply(dst Surface, c Call) {
	a := c.Args
	switch c.Op {
	case OpBeginPath:
		dst.BeginPath()
	case OpMoveTo:
		dst.MoveTo(a[0], a[1])
	case OpLineTo:
		dst.LineTo(a[0], a[1])
	case OpArc:
		dst.Arc(a[0], a[1], a[2], a[3], a[4])
	case OpStroke:
		dst.Stroke()
	case OpFill:
		dst.Fill()
	case OpFillRect:
		dst.FillRect(a[0], a[1], a[2], a[3])
	case OpClearRect:
		dst.ClearRect(a[0], a[1], a[2], a[3])
	case OpFillText:
		dst.FillText(c.Text, a[0], a[1])
	case OpStrokeStyle:
		dst.SetStrokeStyle(c.Text)
	case OpFillStyle:
		dst.SetFillStyle(c.Text)
	case OpLineWidth:
		dst.SetLineWidth(a[0])
	}
}

func (r *Recorder) record(op Op, text string, args ...float64) {
	r.calls = append(r.calls, Call{Op: op, Args: args, Text: text})
}

func (r *Recorder) BeginPath()          { r.record(OpBeginPath, "") }
func (r *Recorder) MoveTo(x, y float64) { r.record(OpMoveTo, "", x, y) }
func (r *Recorder) LineTo(x, y float64) { r.record(OpLineTo, "", x, y) }
func (r *Recorder) Stroke()             { r.record(OpStroke, "") }
func (r *Recorder) Fill()               { r.record(OpFill, "") }

func (r *Recorder) Arc(x, y, radius, startAngle, endAngle float64) {
	r.record(OpArc, "", x, y, radius, startAngle, endAngle)
}

func (r *Recorder) FillRect(x, y, w, h float64)  { r.record(OpFillRect, "", x, y, w, h) }
func (r *Recorder) ClearRect(x, y, w, h float64) { r.record(OpClearRect, "", x, y, w, h) }

func (r *Recorder) FillText(text string, x, y float64) { r.record(OpFillText, text, x, y) }

func (r *Recorder) SetStrokeStyle(style string) { r.record(OpStrokeStyle, style) }
func (r *Recorder) SetFillStyle(style string)   { r.record(OpFillStyle, style) }
func (r *Recorder) SetLineWidth(width float64)  { r.record(OpLineWidth, "", width) }

// Discard is a Surface that drops every call.
var Discard Surface = discard{}

type discard struct{}

func (discard) BeginPath()                         {}
func (discard) MoveTo(x, y float64)                {}
func (discard) LineTo(x, y float64)                {}
func (discard) Arc(x, y, r, start, end float64)    {}
func (discard) Stroke()                            {}
func (discard) Fill()                              {}
func (discard) FillRect(x, y, w, h float64)        {}
func (discard) ClearRect(x, y, w, h float64)       {}
func (discard) FillText(text string, x, y float64) {}
func (discard) SetStrokeStyle(style string)        {}
func (discard) SetFillStyle(style string)          {}
func (discard) SetLineWidth(width float64)         {}
