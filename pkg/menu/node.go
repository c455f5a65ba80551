package menu

import "github.com/goccy/go-json"

// Node represents an individual entry in the menu, which may contain child entries.
type Node struct {
	// ID is the unique identifier of the node across the whole tree.
	ID ID `json:"id" yaml:"id"`

	// Label is the text shown for the entry.
	Label string `json:"label" yaml:"label"`

	// URL is the optional link target of the entry.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// ParentID is the ID of the parent node, or the null ID for root nodes.
	ParentID ID `json:"parentId" yaml:"parentId,omitempty"`

	// Level is the depth of the node, root nodes have level 0.
	Level int `json:"level" yaml:"level,omitempty"`

	// Order is the zero-based position of the node among its siblings.
	Order int `json:"order" yaml:"order,omitempty"`

	// Children are the child nodes, sorted by Order.
	Children []Node `json:"children" yaml:"children,omitempty"`
}

// FlatItem is a node in its flattened, parent-pointer form. Hierarchy is given
// by (ID, ParentID) pairs only; Children carries the original subtree so a
// moved item can take it along.
type FlatItem struct {
	ID       ID     `json:"id"`
	Label    string `json:"label"`
	URL      string `json:"url,omitempty"`
	ParentID ID     `json:"parentId"`
	Level    int    `json:"level"`
	Order    int    `json:"order"`
	Children []Node `json:"-"`
}

// Projection is the provisional depth and parent of a dragged item for one
// drag frame.
type Projection struct {
	Level    int `json:"level"`
	ParentID ID  `json:"parentId"`
	MaxDepth int `json:"maxDepth"`
	MinDepth int `json:"minDepth"`
}

func (it FlatItem) node() Node {
	return Node{
		ID:       it.ID,
		Label:    it.Label,
		URL:      it.URL,
		ParentID: it.ParentID,
		Level:    it.Level,
		Order:    it.Order,
	}
}

func flatItem(n *Node, parentID ID, level, order int) FlatItem {
	return FlatItem{
		ID:       n.ID,
		Label:    n.Label,
		URL:      n.URL,
		ParentID: parentID,
		Level:    level,
		Order:    order,
		Children: n.Children,
	}
}

// MarshalJSON encodes missing children as an empty list.
func (n Node) MarshalJSON() ([]byte, error) {
	type plain Node
	p := plain(n)
	if p.Children == nil {
		p.Children = []Node{}
	}
	return json.Marshal(p)
}
