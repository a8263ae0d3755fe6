package layout

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AppSlot is one leaf of a preset. ID is a generation-time label only;
// slots are always addressed by Position.
type AppSlot struct {
	ID   string  `yaml:"id"   json:"id"`
	Flex float64 `yaml:"flex" json:"flex"`
}

// Column is a vertical stack of slots. Columns are laid out left to right.
type Column struct {
	Flex float64   `yaml:"flex" json:"flex"`
	Apps []AppSlot `yaml:"apps" json:"apps"`
}

// Preset is a named proportional layout tree.
type Preset struct {
	ID        string   `yaml:"id"        json:"id"`
	Name      string   `yaml:"name"      json:"name"`
	Columns   []Column `yaml:"columns"   json:"columns"`
	AlignRows bool     `yaml:"alignRows" json:"alignRows"`
}

// Position addresses a slot by column index and index within the column.
type Position struct {
	Column int `yaml:"col"  json:"col"`
	Slot   int `yaml:"slot" json:"slot"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Column, p.Slot)
}

// ParsePosition parses the "col:slot" form produced by Position.String.
func ParsePosition(s string) (Position, error) {
	var p Position
	col, slot, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return p, fmt.Errorf("invalid position %q: expected col:slot", s)
	}
	c, err := strconv.Atoi(col)
	if err != nil || c < 0 {
		return p, fmt.Errorf("invalid position %q: bad column", s)
	}
	a, err := strconv.Atoi(slot)
	if err != nil || a < 0 {
		return p, fmt.Errorf("invalid position %q: bad slot", s)
	}
	return Position{Column: c, Slot: a}, nil
}

// ErrInvalidPreset is wrapped by every structural validation failure.
var ErrInvalidPreset = errors.New("invalid preset")

// TotalSlots returns the number of slots across all columns.
func (p Preset) TotalSlots() int {
	n := 0
	for _, c := range p.Columns {
		n += len(c.Apps)
	}
	return n
}

// Positions lists every slot position in column-major order.
func (p Preset) Positions() []Position {
	out := make([]Position, 0, p.TotalSlots())
	for ci, c := range p.Columns {
		for si := range c.Apps {
			out = append(out, Position{Column: ci, Slot: si})
		}
	}
	return out
}

// Index returns the flattened column-major index of pos, or -1 when pos does
// not exist in the preset.
func (p Preset) Index(pos Position) int {
	if pos.Column < 0 || pos.Column >= len(p.Columns) {
		return -1
	}
	if pos.Slot < 0 || pos.Slot >= len(p.Columns[pos.Column].Apps) {
		return -1
	}
	idx := 0
	for ci := 0; ci < pos.Column; ci++ {
		idx += len(p.Columns[ci].Apps)
	}
	return idx + pos.Slot
}

// Has reports whether pos addresses a slot of the preset.
func (p Preset) Has(pos Position) bool {
	return p.Index(pos) >= 0
}

// Clone returns a deep copy so callers can mutate flex values freely.
func (p Preset) Clone() Preset {
	out := p
	out.Columns = make([]Column, len(p.Columns))
	for i, c := range p.Columns {
		out.Columns[i] = Column{Flex: c.Flex, Apps: append([]AppSlot(nil), c.Apps...)}
	}
	return out
}

// Validate checks the structural invariants: at least one column, every
// column has at least one slot, every flex is positive and finite.
func (p Preset) Validate() error {
	if len(p.Columns) == 0 {
		return fmt.Errorf("%w: no columns", ErrInvalidPreset)
	}
	for ci, c := range p.Columns {
		if !validFlex(c.Flex) {
			return fmt.Errorf("%w: column %d has flex %v", ErrInvalidPreset, ci, c.Flex)
		}
		if len(c.Apps) == 0 {
			return fmt.Errorf("%w: column %d has no slots", ErrInvalidPreset, ci)
		}
		for si, a := range c.Apps {
			if !validFlex(a.Flex) {
				return fmt.Errorf("%w: slot %d:%d has flex %v", ErrInvalidPreset, ci, si, a.Flex)
			}
		}
	}
	return nil
}

func validFlex(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// Find returns the preset with the given id.
func Find(presets []Preset, id string) (Preset, int, bool) {
	for i, p := range presets {
		if p.ID == id {
			return p, i, true
		}
	}
	return Preset{}, -1, false
}

func columnFlexSum(p Preset) float64 {
	sum := 0.0
	for _, c := range p.Columns {
		sum += c.Flex
	}
	return sum
}

func slotFlexSum(c Column) float64 {
	sum := 0.0
	for _, a := range c.Apps {
		sum += a.Flex
	}
	return sum
}
