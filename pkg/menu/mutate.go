package menu

// Patch lists the fields Update changes. Nil fields are left alone.
type Patch struct {
	Label    *string
	URL      *string
	Children *[]Node
}

// Add appends node as the last child of parentID, or as the last root node
// when parentID is null. The parent must exist and every ID in node's subtree
// must be non-null, unique within the subtree and unused in tree; otherwise
// tree is returned untouched with an error.
func Add(tree []Node, node Node, parentID ID) ([]Node, error) {
	if err := checkNewIDs(tree, []Node{node}); err != nil {
		return tree, err
	}

	node.Children = Clone(node.Children)

	if parentID.IsZero() {
		out := Clone(tree)
		node.ParentID = ID{}
		node.Level = 0
		node.Order = len(out)
		return Normalize(append(out, node)), nil
	}

	if find(tree, parentID) == nil {
		return tree, &ParentNotFoundError{ParentID: parentID}
	}

	out := Clone(tree)
	parent := find(out, parentID)
	node.ParentID = parent.ID
	node.Level = parent.Level + 1
	node.Order = len(parent.Children)
	parent.Children = append(parent.Children, node)
	return Normalize(out), nil
}

// Update applies patch to the node with id. Unknown ids return tree as is, and
// so does a Children patch that would leave a null or repeated ID in the tree.
func Update(tree []Node, id ID, patch Patch) []Node {
	if find(tree, id) == nil {
		return tree
	}

	out := Clone(tree)
	n := find(out, id)
	if patch.Label != nil {
		n.Label = *patch.Label
	}
	if patch.URL != nil {
		n.URL = *patch.URL
	}
	if patch.Children != nil {
		n.Children = Clone(*patch.Children)
		out = Normalize(out)
		if err := Validate(out); err != nil {
			return tree
		}
	}
	return out
}

// Delete removes the node with id and its whole subtree. Siblings keep their
// relative order. Unknown ids return tree as is.
func Delete(tree []Node, id ID) []Node {
	if id.IsZero() || find(tree, id) == nil {
		return tree
	}

	out := Clone(tree)
	out = removeID(out, id)
	Walk(out, func(n *Node, _ *Node) bool {
		n.Children = removeID(n.Children, id)
		return true
	})
	return Normalize(out)
}

// checkNewIDs reports the first ID in sub that is null, repeats inside sub or
// already exists in tree.
func checkNewIDs(tree, sub []Node) error {
	seen := make(map[ID]struct{})
	Walk(tree, func(n *Node, _ *Node) bool {
		seen[n.ID] = struct{}{}
		return true
	})

	var err error
	Walk(sub, func(n *Node, _ *Node) bool {
		if n.ID.IsZero() {
			err = &InvariantError{ID: n.ID, Field: "id", Want: "non-null", Got: "null"}
			return false
		}
		if _, ok := seen[n.ID]; ok {
			err = &DuplicateIDError{ID: n.ID}
			return false
		}
		seen[n.ID] = struct{}{}
		return true
	})
	return err
}

func removeID(nodes []Node, id ID) []Node {
	for i := range nodes {
		if nodes[i].ID == id {
			out := append(nodes[:i:i], nodes[i+1:]...)
			if len(out) == 0 {
				return nil
			}
			return out
		}
	}
	return nodes
}
