package layout

import "sort"

// SlotArea is the share of the whole layout a slot occupies: the column's
// flex share times the slot's share within its column.
type SlotArea struct {
	Position   `yaml:",inline"`
	Proportion float64 `yaml:"proportion" json:"proportion"`
}

// SlotAreas returns the proportion of every slot in column-major order.
func SlotAreas(p Preset) []SlotArea {
	totalColFlex := columnFlexSum(p)
	out := make([]SlotArea, 0, p.TotalSlots())
	for ci, c := range p.Columns {
		colShare := c.Flex / totalColFlex
		totalSlotFlex := slotFlexSum(c)
		for si, a := range c.Apps {
			out = append(out, SlotArea{
				Position:   Position{Column: ci, Slot: si},
				Proportion: colShare * (a.Flex / totalSlotFlex),
			})
		}
	}
	return out
}

// RankedSlots returns SlotAreas sorted largest first. Equal proportions keep
// column-major encounter order.
func RankedSlots(p Preset) []SlotArea {
	areas := SlotAreas(p)
	sort.SliceStable(areas, func(i, j int) bool {
		return areas[i].Proportion > areas[j].Proportion
	})
	return areas
}

// AccentLevel is a presentation rank derived from slot proportions.
type AccentLevel int

const (
	AccentNone AccentLevel = iota
	AccentPrimary
	AccentSecondary
)

func (a AccentLevel) String() string {
	switch a {
	case AccentPrimary:
		return "primary"
	case AccentSecondary:
		return "secondary"
	default:
		return "none"
	}
}

// MarshalText lets accent levels print by name in YAML and JSON.
func (a AccentLevel) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Accent labels the largest slot primary and the second largest secondary.
// It ignores which window, if any, occupies the slot.
func Accent(p Preset, pos Position) AccentLevel {
	ranked := RankedSlots(p)
	if len(ranked) > 0 && ranked[0].Position == pos {
		return AccentPrimary
	}
	if len(ranked) > 1 && ranked[1].Position == pos {
		return AccentSecondary
	}
	return AccentNone
}
