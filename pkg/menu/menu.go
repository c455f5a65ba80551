package menu

import (
	"strconv"

	"github.com/google/uuid"
)

// Menu represents a named menu document: a title plus the node tree.
type Menu struct {
	// Title of the menu
	Title string `json:"title" yaml:"title"`

	// Description of the menu
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Version of the menu
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Items is the root level of the node tree
	Items []Node `json:"items" yaml:"items"`
}

// Walk visits every node in depth-first pre-order without recursion. The
// visitor gets a pointer into tree and may edit the node, including replacing
// its Children; the walk then descends into the new slice. Returning false
// stops the walk.
func Walk(tree []Node, visit func(n *Node, parent *Node) bool) {
	type frame struct {
		node   *Node
		parent *Node
	}

	stack := make([]frame, 0, len(tree))
	for i := len(tree) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: &tree[i]})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !visit(f.node, f.parent) {
			return
		}

		kids := f.node.Children
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: &kids[i], parent: f.node})
		}
	}
}

// Clone returns a deep copy of tree. Empty child lists become nil.
func Clone(tree []Node) []Node {
	if tree == nil {
		return nil
	}

	out := make([]Node, len(tree))
	copy(out, tree)

	stack := make([]*Node, 0, len(out))
	for i := range out {
		stack = append(stack, &out[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(n.Children) == 0 {
			n.Children = nil
			continue
		}
		kids := make([]Node, len(n.Children))
		copy(kids, n.Children)
		n.Children = kids
		for i := range kids {
			stack = append(stack, &kids[i])
		}
	}
	return out
}

// Normalize returns a deep copy of tree with every node's Order, Level and
// ParentID rewritten from its position.
func Normalize(tree []Node) []Node {
	out := Clone(tree)
	for i := range out {
		out[i].Order = i
		out[i].Level = 0
		out[i].ParentID = ID{}
	}
	Walk(out, func(n *Node, _ *Node) bool {
		for i := range n.Children {
			c := &n.Children[i]
			c.Order = i
			c.Level = n.Level + 1
			c.ParentID = n.ID
		}
		return true
	})
	return out
}

// Find returns the node with id anywhere in tree.
func Find(tree []Node, id ID) (Node, bool) {
	if n := find(tree, id); n != nil {
		return *n, true
	}
	return Node{}, false
}

// FindParent returns the parent of the node with id. Root nodes and unknown
// ids have no parent.
func FindParent(tree []Node, id ID) (Node, bool) {
	var found *Node
	Walk(tree, func(n *Node, parent *Node) bool {
		if n.ID == id {
			found = parent
			return false
		}
		return true
	})
	if found == nil {
		return Node{}, false
	}
	return *found, true
}

// ChildrenOf returns the direct children of the node with id.
func ChildrenOf(tree []Node, id ID) []Node {
	if n := find(tree, id); n != nil {
		return n.Children
	}
	return nil
}

// CountDescendants returns the number of nodes below the node with id.
func CountDescendants(tree []Node, id ID) int {
	n := find(tree, id)
	if n == nil {
		return 0
	}
	return Count(n.Children)
}

// Count returns the number of nodes in tree.
func Count(tree []Node) int {
	count := 0
	Walk(tree, func(*Node, *Node) bool {
		count++
		return true
	})
	return count
}

// NextID returns an unused ID for a new node. Trees keyed by strings get a
// random UUID; otherwise the highest numeric ID plus one.
func NextID(tree []Node) ID {
	if len(tree) > 0 && !tree[0].ID.IsNumeric() {
		return StringID(uuid.NewString())
	}

	var highest int64
	Walk(tree, func(n *Node, _ *Node) bool {
		if v, ok := n.ID.Int(); ok && v > highest {
			highest = v
		}
		return true
	})
	return IntID(highest + 1)
}

// Validate checks that ids are unique and that every node's ParentID, Level
// and Order match its position in tree.
func Validate(tree []Node) error {
	seen := make(map[ID]struct{})
	var err error

	check := func(n *Node, field string, want, got int) bool {
		if want == got {
			return true
		}
		err = &InvariantError{ID: n.ID, Field: field, Want: strconv.Itoa(want), Got: strconv.Itoa(got)}
		return false
	}

	for i := range tree {
		if !check(&tree[i], "level", 0, tree[i].Level) || !check(&tree[i], "order", i, tree[i].Order) {
			return err
		}
		if !tree[i].ParentID.IsZero() {
			return &InvariantError{ID: tree[i].ID, Field: "parentId", Want: "null", Got: tree[i].ParentID.String()}
		}
	}

	Walk(tree, func(n *Node, _ *Node) bool {
		if n.ID.IsZero() {
			err = &InvariantError{ID: n.ID, Field: "id", Want: "non-null", Got: "null"}
			return false
		}
		if _, ok := seen[n.ID]; ok {
			err = &DuplicateIDError{ID: n.ID}
			return false
		}
		seen[n.ID] = struct{}{}

		for i := range n.Children {
			c := &n.Children[i]
			if c.ParentID != n.ID {
				err = &InvariantError{ID: c.ID, Field: "parentId", Want: n.ID.String(), Got: c.ParentID.String()}
				return false
			}
			if !check(c, "level", n.Level+1, c.Level) || !check(c, "order", i, c.Order) {
				return false
			}
		}
		return true
	})
	return err
}

func find(tree []Node, id ID) *Node {
	var found *Node
	Walk(tree, func(n *Node, _ *Node) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}
