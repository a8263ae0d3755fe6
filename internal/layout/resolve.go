package layout

import "math"

// DefaultGutter is the spacing between adjacent slots in points.
const DefaultGutter = 6

// Rect is an axis-aligned rectangle. The resolver does not care whether the
// origin is top-left or bottom-left; callers pick the coordinate space.
type Rect struct {
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Width  float64 `yaml:"w" json:"w"`
	Height float64 `yaml:"h" json:"h"`
}

// RectFromBounds converts an [x, y, w, h] integer tuple.
func RectFromBounds(b [4]int) Rect {
	return Rect{X: float64(b[0]), Y: float64(b[1]), Width: float64(b[2]), Height: float64(b[3])}
}

// Bounds rounds the rectangle to an [x, y, w, h] integer tuple.
func (r Rect) Bounds() [4]int {
	return [4]int{
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.Width)),
		int(math.Round(r.Height)),
	}
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the far vertical edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Intersects reports whether r and o share any area. Touching edges do not
// count.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.MaxX() && o.X < r.MaxX() && r.Y < o.MaxY() && o.Y < r.MaxY()
}

// ToTopLeft flips a bottom-left origin rectangle into top-left origin
// coordinates, given the height of the primary display.
func ToTopLeft(r Rect, primaryHeight float64) Rect {
	return Rect{X: r.X, Y: primaryHeight - r.Y - r.Height, Width: r.Width, Height: r.Height}
}

// ResolvedRect is the concrete rectangle for one slot.
type ResolvedRect struct {
	Position `yaml:",inline"`
	Rect     Rect `yaml:"rect" json:"rect"`
}

// Resolver turns presets into rectangles. The zero value has no gutter.
type Resolver struct {
	Gutter float64
}

// NewResolver returns a resolver using the given gutter width.
func NewResolver(gutter float64) Resolver {
	return Resolver{Gutter: gutter}
}

// Resolve distributes bounds over the preset's columns and slots in
// proportion to their flex weights, leaving exactly Gutter between neighbours.
// Results are ordered column-major.
func (r Resolver) Resolve(p Preset, bounds Rect) []ResolvedRect {
	if len(p.Columns) == 0 {
		return nil
	}
	g := r.Gutter
	availW := math.Max(0, bounds.Width-float64(len(p.Columns)-1)*g)
	totalColFlex := columnFlexSum(p)

	out := make([]ResolvedRect, 0, p.TotalSlots())
	x := bounds.X
	for ci, c := range p.Columns {
		colW := availW * (c.Flex / totalColFlex)
		availH := math.Max(0, bounds.Height-float64(len(c.Apps)-1)*g)
		totalSlotFlex := slotFlexSum(c)

		y := bounds.Y
		for si, a := range c.Apps {
			h := availH * (a.Flex / totalSlotFlex)
			out = append(out, ResolvedRect{
				Position: Position{Column: ci, Slot: si},
				Rect:     Rect{X: x, Y: y, Width: colW, Height: h},
			})
			y += h + g
		}
		x += colW + g
	}
	return out
}

// Lookup returns the resolved rectangle for pos.
func Lookup(rects []ResolvedRect, pos Position) (Rect, bool) {
	for _, r := range rects {
		if r.Position == pos {
			return r.Rect, true
		}
	}
	return Rect{}, false
}
