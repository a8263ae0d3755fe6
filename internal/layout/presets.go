package layout

import "fmt"

func slot(i int) AppSlot {
	return AppSlot{ID: fmt.Sprintf("app-%d", i), Flex: 1}
}

func slotFlex(i int, flex float64) AppSlot {
	return AppSlot{ID: fmt.Sprintf("app-%d", i), Flex: flex}
}

func col(flex float64, apps ...AppSlot) Column {
	return Column{Flex: flex, Apps: apps}
}

// Presets returns the ordered layout alternatives for exactly n slots.
// Counts below one are treated as one. The result is never empty and is a
// pure function of n.
func Presets(n int) []Preset {
	switch {
	case n <= 1:
		return []Preset{
			{ID: "single", Name: "Single", Columns: []Column{col(1, slot(0))}},
		}
	case n == 2:
		return []Preset{
			{ID: "halves", Name: "Halves", Columns: []Column{col(1, slot(0)), col(1, slot(1))}},
			{ID: "focus2", Name: "Focus", Columns: []Column{col(2, slot(0)), col(1, slot(1))}},
			{ID: "stack2", Name: "Stack", Columns: []Column{col(1, slot(0), slot(1))}},
		}
	case n == 3:
		return []Preset{
			{ID: "thirds", Name: "Thirds", Columns: []Column{col(1, slot(0)), col(1, slot(1)), col(1, slot(2))}},
			{ID: "focus3", Name: "Focus", Columns: []Column{col(2, slot(0)), col(1, slot(1), slot(2))}},
			{ID: "sidebar3", Name: "Sidebar", Columns: []Column{col(1, slot(0), slot(1)), col(2, slot(2))}},
		}
	case n == 4:
		return []Preset{
			{ID: "grid4", Name: "Grid 2×2", AlignRows: true, Columns: []Column{
				col(1, slot(0), slot(1)),
				col(1, slot(2), slot(3)),
			}},
			{ID: "focus4", Name: "Focus", Columns: []Column{
				col(2.5, slot(0)),
				col(1, slot(1), slot(2), slot(3)),
			}},
			{ID: "cols4", Name: "Columns", Columns: []Column{
				col(1, slot(0)), col(1, slot(1)), col(1, slot(2)), col(1, slot(3)),
			}},
			{ID: "cascade4", Name: "Cascade", Columns: []Column{
				col(2, slot(0)),
				col(1.5, slot(1)),
				col(1, slot(2), slot(3)),
			}},
		}
	case n == 5:
		return []Preset{
			{ID: "focus5", Name: "Focus", AlignRows: true, Columns: []Column{
				col(2.5, slot(0)),
				col(1, slot(1), slot(2)),
				col(1, slot(3), slot(4)),
			}},
			{ID: "grid5", Name: "Grid 3+2", Columns: []Column{
				col(1, slot(0), slot(3)),
				col(1, slot(1), slot(4)),
				col(1, slot(2)),
			}},
			{ID: "cascade5", Name: "Cascade", Columns: []Column{
				col(2, slot(0)),
				col(1.5, slot(1), slot(2)),
				col(1, slot(3), slot(4)),
			}},
		}
	case n == 6:
		return []Preset{
			{ID: "grid6", Name: "Grid 3×2", AlignRows: true, Columns: []Column{
				col(2, slotFlex(0, 1), slotFlex(1, 0.55)),
				col(1.5, slotFlex(2, 1), slotFlex(3, 0.55)),
				col(1, slotFlex(4, 1), slotFlex(5, 0.55)),
			}},
			{ID: "focus6", Name: "Focus", Columns: []Column{
				col(3, slot(0)),
				col(2, slot(1), slot(2), slot(3), slot(4), slot(5)),
			}},
			{ID: "cascade6", Name: "Cascade", Columns: []Column{
				col(2.5, slot(0)),
				col(1.5, slotFlex(1, 1.2), slot(2)),
				col(1, slot(3), slot(4), slot(5)),
			}},
			{ID: "trident6", Name: "Trident", AlignRows: true, Columns: []Column{
				col(1, slot(0), slot(1)),
				col(1, slot(2), slot(3)),
				col(1, slot(4), slot(5)),
			}},
		}
	}

	focus := make([]AppSlot, 0, n-1)
	for i := 1; i < n; i++ {
		focus = append(focus, slot(i))
	}
	return []Preset{
		{ID: "grid", Name: "Grid", AlignRows: true, Columns: gridColumns(n)},
		{ID: "focus", Name: "Focus", Columns: []Column{col(2.5, slot(0)), col(1, focus...)}},
		{ID: "cockpit", Name: "Cockpit", Columns: cockpitColumns(n)},
	}
}

// gridColumns distributes n slots over 2, 3 or 4 equal columns, giving the
// leading columns one extra slot each when n does not divide evenly.
func gridColumns(n int) []Column {
	cols := 4
	switch {
	case n <= 4:
		cols = 2
	case n <= 9:
		cols = 3
	}
	perCol, extra := n/cols, n%cols

	columns := make([]Column, 0, cols)
	idx := 0
	for c := 0; c < cols; c++ {
		count := perCol
		if c < extra {
			count++
		}
		apps := make([]AppSlot, 0, count)
		for i := 0; i < count; i++ {
			apps = append(apps, slot(idx))
			idx++
		}
		columns = append(columns, Column{Flex: 1, Apps: apps})
	}
	return columns
}

// cockpitColumns puts one slot in a wide center column, floor((n-1)/2) slots
// on the left and the remainder on the right.
func cockpitColumns(n int) []Column {
	left := (n - 1) / 2
	right := n - 1 - left

	idx := 0
	take := func(count int) []AppSlot {
		apps := make([]AppSlot, 0, count)
		for i := 0; i < count; i++ {
			apps = append(apps, slot(idx))
			idx++
		}
		return apps
	}
	leftApps := take(left)
	center := take(1)
	rightApps := take(right)

	return []Column{
		{Flex: 0.8, Apps: leftApps},
		{Flex: 2.5, Apps: center},
		{Flex: 0.8, Apps: rightApps},
	}
}
