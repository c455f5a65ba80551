package menu

// ApplyDrag drops the active node over the node overID using a projection
// computed during the drag, and returns the rebuilt, normalized tree. The
// active node keeps its subtree. A nil projection, a null overID, unknown ids
// or a projection that would place the node inside its own subtree are invalid
// drops and return tree unchanged. tree itself is never modified.
func ApplyDrag(tree []Node, activeID, overID ID, projection *Projection) ([]Node, error) {
	if projection == nil || overID.IsZero() {
		return tree, nil
	}

	flat, err := Flatten(tree)
	if err != nil {
		return tree, err
	}

	activeIndex := IndexOf(flat, activeID)
	overIndex := IndexOf(flat, overID)
	if activeIndex < 0 || overIndex < 0 {
		return tree, nil
	}

	subtree := Clone(flat[activeIndex].Children)
	if projection.ParentID == activeID || contains(subtree, projection.ParentID) {
		return tree, nil
	}

	flat[activeIndex].Level = projection.Level
	flat[activeIndex].ParentID = projection.ParentID

	rebuilt, err := Unflatten(Move(flat, activeIndex, overIndex))
	if err != nil {
		return tree, err
	}

	return Normalize(ReplaceChildren(rebuilt, activeID, subtree)), nil
}

// ReplaceChildren returns a copy of tree in which the node with id has the
// given children. Unknown ids return an unchanged copy.
func ReplaceChildren(tree []Node, id ID, children []Node) []Node {
	out := Clone(tree)
	if n := find(out, id); n != nil {
		n.Children = children
	}
	return out
}

func contains(tree []Node, id ID) bool {
	return !id.IsZero() && find(tree, id) != nil
}
