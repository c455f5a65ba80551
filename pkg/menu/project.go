package menu

import "math"

// DefaultIndentation is the width in pixels of one nesting level.
const DefaultIndentation = 64

// DragDepth converts a horizontal offset into a number of levels, rounding
// half away from zero.
func DragDepth(offset, indentation float64) int {
	d := math.Round(offset / indentation)
	switch {
	case math.IsNaN(d):
		return 0
	case d > maxDragDepth:
		return maxDragDepth
	case d < -maxDragDepth:
		return -maxDragDepth
	}
	return int(d)
}

// maxDragDepth bounds DragDepth so infinite offsets still convert safely.
const maxDragDepth = 1 << 20

// MaxDepth is the deepest level an item can take below previous.
func MaxDepth(previous *FlatItem) int {
	if previous == nil {
		return 0
	}
	return previous.Level + 1
}

// MinDepth is the shallowest level an item can take above next without
// orphaning it.
func MinDepth(next *FlatItem) int {
	if next == nil {
		return 0
	}
	return next.Level
}

// Project computes where the active item would land if dropped over the item
// overID after being dragged offset pixels sideways. items must be in display
// order. The result is advisory; items are not modified.
func Project(items []FlatItem, activeID, overID ID, offset, indentation float64) (Projection, error) {
	if indentation <= 0 || math.IsNaN(indentation) {
		return Projection{}, ErrInvalidIndentation
	}

	activeIndex := IndexOf(items, activeID)
	if activeIndex < 0 {
		return Projection{}, &ItemNotFoundError{ID: activeID}
	}
	overIndex := IndexOf(items, overID)
	if overIndex < 0 {
		return Projection{}, &ItemNotFoundError{ID: overID}
	}

	active := items[activeIndex]
	moved := Move(items, activeIndex, overIndex)

	var previous, next *FlatItem
	if overIndex > 0 {
		previous = &moved[overIndex-1]
	}
	if overIndex+1 < len(moved) {
		next = &moved[overIndex+1]
	}

	maxDepth := MaxDepth(previous)
	minDepth := MinDepth(next)
	if minDepth > maxDepth {
		// Only when the next row is the active item's own child.
		minDepth = maxDepth
	}

	level := active.Level + DragDepth(offset, indentation)
	switch {
	case level >= maxDepth:
		level = maxDepth
	case level < minDepth:
		level = minDepth
	}

	return Projection{
		Level:    level,
		ParentID: projectedParent(moved, overIndex, previous, level),
		MaxDepth: maxDepth,
		MinDepth: minDepth,
	}, nil
}

func projectedParent(moved []FlatItem, overIndex int, previous *FlatItem, level int) ID {
	if level == 0 || previous == nil {
		return ID{}
	}
	if level == previous.Level {
		return previous.ParentID
	}
	if level > previous.Level {
		return previous.ID
	}

	for i := overIndex - 1; i >= 0; i-- {
		if moved[i].Level == level {
			return moved[i].ParentID
		}
	}
	return ID{}
}
