package menu_test

import (
	"fmt"

	"github.com/mchmarny/menued/pkg/menu"
	"pgregory.net/rapid"
)

func node(id int64, label string, children ...menu.Node) menu.Node {
	return menu.Node{ID: menu.IntID(id), Label: label, Children: children}
}

func tree(nodes ...menu.Node) []menu.Node {
	return menu.Normalize(nodes)
}

func ids(items []menu.FlatItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID.String()
	}
	return out
}

// genTree draws a normalized tree of up to 25 nodes with ids 1..n.
func genTree(t *rapid.T) []menu.Node {
	size := rapid.IntRange(0, 25).Draw(t, "size")
	items := make([]menu.FlatItem, 0, size)
	for i := 0; i < size; i++ {
		var parent menu.ID
		if i > 0 {
			if p := rapid.IntRange(-1, i-1).Draw(t, "parent"); p >= 0 {
				parent = items[p].ID
			}
		}
		items = append(items, menu.FlatItem{
			ID:       menu.IntID(int64(i + 1)),
			Label:    fmt.Sprintf("item %d", i+1),
			ParentID: parent,
		})
	}

	built, err := menu.Unflatten(items)
	if err != nil {
		t.Fatalf("unflatten generated items: %v", err)
	}
	return menu.Normalize(built)
}
