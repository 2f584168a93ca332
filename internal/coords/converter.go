// Package coords converts between physical pendulum units, percent-of-frame
// units and surface pixels.
package coords

import (
	"fmt"
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/geom"
)

// DefaultLimit puts ±π just inside the visible axis range.
const DefaultLimit = 3.17

// Converter maps phase-space states into a plot whose axes span [-Limit, Limit].
type Converter struct {
	limit float64
	phys  geom.LinearScale
}

func NewConverter(limit float64) (*Converter, error) {
	if !(limit > 0) || math.IsInf(limit, 0) {
		return nil, fmt.Errorf("limit %v: %w", limit, dynamo.ErrInvalidLimit)
	}
	return &Converter{
		limit: limit,
		phys:  geom.NewLinearScale(-limit, limit),
	}, nil
}

func (c *Converter) Limit() float64 { return c.limit }

// AnglePercent is the x-axis percent for an angle. The +1 bias is applied
// before the 50 offset.
func (c *Converter) AnglePercent(angle float64) float64 {
	return 50 + (angle*50/c.limit + 1)
}

// VelocityPercent is the y-axis percent for a velocity. The axis is flipped
// for screen coordinates, so the bias is subtracted along with the value.
func (c *Converter) VelocityPercent(velocity float64) float64 {
	return 50 - (velocity*50/c.limit + 1)
}

// ToPercent maps a state to plot percents. ok is false when either axis
// falls outside [0,100]; such a state is off-scale and must not be plotted.
func (c *Converter) ToPercent(s dynamo.State) (x, y float64, ok bool) {
	x = c.AnglePercent(s.Angle)
	y = c.VelocityPercent(s.Velocity)
	return x, y, inPercentRange(x) && inPercentRange(y)
}

// PixelToPercent projects a surface pixel into percents of region. The
// vertical axis is inverted so that 100 is the top edge. ok is false when
// the pixel lies outside the region.
func (c *Converter) PixelToPercent(region geom.Frame, px, py float64) (x, y float64, ok bool) {
	if !region.Contains(px, py) || region.Width() == 0 || region.Height() == 0 {
		return 0, 0, false
	}
	x = (px - region.Left) * 100 / region.Width()
	y = 100 - (py-region.Top)*100/region.Height()
	return x, y, true
}

// PixelToState maps a click inside region to the state it represents:
// the x percent selects the angle and the y percent the velocity, both on
// [-Limit, Limit].
func (c *Converter) PixelToState(region geom.Frame, px, py float64) (dynamo.State, bool) {
	x, y, ok := c.PixelToPercent(region, px, py)
	if !ok {
		return dynamo.State{}, false
	}
	return dynamo.State{
		Angle:    c.phys.Scale(x),
		Velocity: c.phys.Scale(y),
	}, true
}

// MaxTicksPerSide bounds the ticks on each side of zero; wide limits get a
// coarser integer step instead of more ticks.
const MaxTicksPerSide = 7

// Tick is a physical value with its position on both axes.
type Tick struct {
	Value    float64
	XPercent float64
	YPercent float64
}

// AxisTicks returns ticks at the multiples of TickStep in [-Limit, Limit],
// positioned with the same transform used for plotted states.
func (c *Converter) AxisTicks() []Tick {
	step := c.TickStep()
	n := int(math.Floor(c.limit / step))
	for n > 0 && float64(n)*step > c.limit {
		n--
	}
	ticks := make([]Tick, 0, 2*n+1)
	for k := -n; k <= n; k++ {
		v := float64(k) * step
		ticks = append(ticks, Tick{
			Value:    v,
			XPercent: c.AnglePercent(v),
			YPercent: c.VelocityPercent(v),
		})
	}
	return ticks
}

// TickStep is 1 for limits up to MaxTicksPerSide and the smallest integer
// keeping at most MaxTicksPerSide ticks per side otherwise.
func (c *Converter) TickStep() float64 {
	return math.Max(1, math.Ceil(c.limit/MaxTicksPerSide))
}

func inPercentRange(p float64) bool {
	return p >= 0 && p <= 100
}
