package menu

type flattenFrame struct {
	node     *Node
	parentID ID
	level    int
	order    int
}

// Flatten converts a tree into its depth-first pre-order flat form. Each item
// carries its computed parent, level and order; the tree's child order is kept.
// Seeing the same ID twice fails with a CircularReferenceError.
func Flatten(tree []Node) ([]FlatItem, error) {
	out := make([]FlatItem, 0, len(tree))
	seen := make(map[ID]struct{}, len(tree))

	stack := make([]flattenFrame, 0, len(tree))
	for i := len(tree) - 1; i >= 0; i-- {
		stack = append(stack, flattenFrame{node: &tree[i], order: i})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := seen[f.node.ID]; ok {
			return nil, &CircularReferenceError{ID: f.node.ID}
		}
		seen[f.node.ID] = struct{}{}

		out = append(out, flatItem(f.node, f.parentID, f.level, f.order))

		kids := f.node.Children
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, flattenFrame{
				node:     &kids[i],
				parentID: f.node.ID,
				level:    f.level + 1,
				order:    i,
			})
		}
	}

	return out, nil
}

// Unflatten rebuilds a tree from flat items. Parents are resolved by ID in two
// passes, so items may appear in any order; siblings keep their relative order
// from the list. Level and Order are copied from the items as-is.
func Unflatten(items []FlatItem) ([]Node, error) {
	index := make(map[ID]int, len(items))
	for i, it := range items {
		if _, ok := index[it.ID]; ok {
			return nil, &DuplicateIDError{ID: it.ID}
		}
		index[it.ID] = i
	}

	var roots []int
	children := make(map[int][]int, len(items))
	for i, it := range items {
		if it.ParentID.IsZero() {
			roots = append(roots, i)
			continue
		}
		p, ok := index[it.ParentID]
		if !ok {
			return nil, &MissingParentError{ID: it.ID, ParentID: it.ParentID}
		}
		children[p] = append(children[p], i)
	}

	// Pre-order from the roots; anything not reached sits on a parent cycle.
	visited := make([]bool, len(items))
	order := make([]int, 0, len(items))
	stack := make([]int, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[i] {
			return nil, &CircularReferenceError{ID: items[i].ID}
		}
		visited[i] = true
		order = append(order, i)

		kids := children[i]
		for k := len(kids) - 1; k >= 0; k-- {
			stack = append(stack, kids[k])
		}
	}
	if len(order) != len(items) {
		for i := range items {
			if !visited[i] {
				return nil, &CircularReferenceError{ID: items[i].ID}
			}
		}
	}

	// Children come after their parent in pre-order, so walking it backwards
	// always finds them built.
	built := make([]Node, len(items))
	for k := len(order) - 1; k >= 0; k-- {
		i := order[k]
		n := items[i].node()
		if kids := children[i]; len(kids) > 0 {
			n.Children = make([]Node, len(kids))
			for j, c := range kids {
				n.Children[j] = built[c]
			}
		}
		built[i] = n
	}

	out := make([]Node, len(roots))
	for j, r := range roots {
		out[j] = built[r]
	}
	return out, nil
}

// Move returns a copy of items with the element at from moved to index to.
// Out of range indexes return an unchanged copy.
func Move[T any](items []T, from, to int) []T {
	out := make([]T, len(items))
	copy(out, items)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}

	v := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = v
	return out
}

// IndexOf returns the position of id in items, or -1.
func IndexOf(items []FlatItem, id ID) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
