// Package resize converts seam drags into flex redistribution between two
// adjacent columns or two adjacent slots of a column.
//
// A seam only ever moves flex between its two neighbours: the pair's combined
// flex is invariant, and neither side drops below a minimum share of it.
package resize

import (
	"math"

	"github.com/mj1618/arrange/internal/layout"
)

// Default minimum shares of a pair's combined flex.
const (
	DefaultColumnMinRatio = 0.12
	DefaultSlotMinRatio   = 0.15
)

// State is the drag state machine position.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Limits holds the injectable minimum ratios.
type Limits struct {
	ColumnMinRatio float64
	SlotMinRatio   float64
}

// DefaultLimits returns the stock ratios.
func DefaultLimits() Limits {
	return Limits{ColumnMinRatio: DefaultColumnMinRatio, SlotMinRatio: DefaultSlotMinRatio}
}

// Redistribute moves delta flex from right to left, clamping so that each
// side keeps at least minRatio of the pair's combined flex.
func Redistribute(left, right, delta, minRatio float64) (float64, float64) {
	combined := left + right
	minFlex := combined * minRatio
	newLeft := math.Max(minFlex, math.Min(combined-minFlex, left+delta))
	return newLeft, combined - newLeft
}

// Controller tracks one seam gesture at a time.
type Controller struct {
	limits   Limits
	state    State
	baseline layout.Preset
	// lastTranslation is the cumulative pointer translation already applied
	// by DragColumn or DragSlot during the current gesture.
	lastTranslation float64
}

// NewController returns an idle controller.
func NewController(limits Limits) *Controller {
	return &Controller{limits: limits}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Begin enters Dragging and remembers the pre-drag preset, which fixes the
// pixel-to-flex scale for the whole gesture.
func (c *Controller) Begin(current layout.Preset) {
	c.state = Dragging
	c.baseline = current.Clone()
	c.lastTranslation = 0
}

// End returns to Idle.
func (c *Controller) End() {
	c.state = Idle
	c.baseline = layout.Preset{}
	c.lastTranslation = 0
}

// Baseline returns the pre-drag preset while dragging.
func (c *Controller) Baseline() (layout.Preset, bool) {
	return c.baseline, c.state == Dragging
}

// AdjustColumnFlex redistributes flex between columns left and left+1 of p.
// It reports false and leaves p untouched when left is out of range or is the
// last column.
func (c *Controller) AdjustColumnFlex(p *layout.Preset, left int, delta float64) bool {
	if left < 0 || left+1 >= len(p.Columns) || !finite(delta) {
		return false
	}
	l, r := Redistribute(p.Columns[left].Flex, p.Columns[left+1].Flex, delta, c.limits.ColumnMinRatio)
	p.Columns[left].Flex = l
	p.Columns[left+1].Flex = r
	return true
}

// AdjustAppFlex redistributes flex between slots above and above+1 of column
// col.
func (c *Controller) AdjustAppFlex(p *layout.Preset, col, above int, delta float64) bool {
	if col < 0 || col >= len(p.Columns) || !finite(delta) {
		return false
	}
	apps := p.Columns[col].Apps
	if above < 0 || above+1 >= len(apps) {
		return false
	}
	a, b := Redistribute(apps[above].Flex, apps[above+1].Flex, delta, c.limits.SlotMinRatio)
	apps[above].Flex = a
	apps[above+1].Flex = b
	return true
}

// ColumnScale returns flex per pixel for horizontal seams, computed from the
// pre-drag preset: totalFlex / (width - gutters).
func (c *Controller) ColumnScale(width, gutter float64) float64 {
	p := c.baseline
	total := 0.0
	for _, col := range p.Columns {
		total += col.Flex
	}
	avail := width - float64(len(p.Columns)-1)*gutter
	return scale(total, avail)
}

// SlotScale returns flex per pixel for the seams inside column col.
func (c *Controller) SlotScale(col int, height, gutter float64) float64 {
	p := c.baseline
	if col < 0 || col >= len(p.Columns) {
		return 0
	}
	total := 0.0
	for _, a := range p.Columns[col].Apps {
		total += a.Flex
	}
	avail := height - float64(len(p.Columns[col].Apps)-1)*gutter
	return scale(total, avail)
}

// DragColumn applies a cumulative pointer translation (pixels since the drag
// began) to the seam right of column left. Only the increment since the
// previous sample is converted, using the pre-drag scale.
func (c *Controller) DragColumn(p *layout.Preset, left int, translation, width, gutter float64) bool {
	step := translation - c.lastTranslation
	if !c.AdjustColumnFlex(p, left, step*c.ColumnScale(width, gutter)) {
		return false
	}
	c.lastTranslation = translation
	return true
}

// DragSlot is DragColumn for the seam below slot above in column col.
func (c *Controller) DragSlot(p *layout.Preset, col, above int, translation, height, gutter float64) bool {
	step := translation - c.lastTranslation
	if !c.AdjustAppFlex(p, col, above, step*c.SlotScale(col, height, gutter)) {
		return false
	}
	c.lastTranslation = translation
	return true
}

func scale(totalFlex, availPixels float64) float64 {
	if availPixels <= 0 {
		return 0
	}
	return totalFlex / availPixels
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
