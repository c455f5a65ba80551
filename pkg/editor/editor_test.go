package editor

import (
	"io"
	"log/slog"
	"testing"

	"github.com/mchmarny/menued/pkg/menu"
	"github.com/mchmarny/menued/pkg/metric"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEditor(t *testing.T, opts ...Option) *Editor {
	t.Helper()
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	e := New(opts...)
	require.NoError(t, e.SetTree([]menu.Node{
		{ID: menu.IntID(1), Label: "Home", URL: "#home", Children: []menu.Node{
			{ID: menu.IntID(2), Label: "News", URL: "#news"},
			{ID: menu.IntID(3), Label: "Blog", URL: "#blog"},
		}},
		{ID: menu.IntID(4), Label: "Contact", URL: "https://example.com/contact"},
	}))
	return e
}

func TestSetTreeNormalizes(t *testing.T) {
	e := newEditor(t)

	require.NoError(t, menu.Validate(e.Tree()))
	assert.Len(t, e.Flat(), 4)
	assert.EqualValues(t, 1, e.Version())
}

func TestSetTreeRejectsDuplicates(t *testing.T) {
	e := newEditor(t)

	err := e.SetTree([]menu.Node{{ID: menu.IntID(1)}, {ID: menu.IntID(1)}})
	assert.ErrorIs(t, err, menu.ErrDuplicateID)
	assert.Len(t, e.Flat(), 4, "previous tree kept")
}

func TestAdd(t *testing.T) {
	reg := prometheus.NewRegistry()
	ops := metric.NewCounter(reg, "operations_total", "ops", "op", "result")
	nodes := metric.NewGauge(reg, "nodes", "nodes")
	e := newEditor(t, WithOperationCounter(ops), WithNodeGauge(nodes))

	n, err := e.Add(Entry{Label: "Archive", URL: "#archive"}, menu.IntID(1))
	require.NoError(t, err)

	assert.Equal(t, menu.IntID(5), n.ID)
	assert.Equal(t, 1, n.Level)
	assert.Equal(t, 2, n.Order)
	assert.Equal(t, 1.0, ops.Value("add", "ok"))
	assert.Equal(t, 5.0, nodes.Value())

	root, err := e.Add(Entry{Label: "About", URL: "#about"}, menu.ID{})
	require.NoError(t, err)
	assert.Equal(t, 0, root.Level)
	assert.Equal(t, 2, root.Order)
}

func TestAddUnknownParent(t *testing.T) {
	e := newEditor(t)
	before := e.Tree()

	_, err := e.Add(Entry{Label: "Lost", URL: "#lost"}, menu.IntID(99))
	assert.ErrorIs(t, err, menu.ErrParentNotFound)
	assert.Equal(t, before, e.Tree())
}

func TestAddInvalidEntry(t *testing.T) {
	e := newEditor(t)

	_, err := e.Add(Entry{Label: "", URL: "#x"}, menu.ID{})
	var ee *EntryError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "label", ee.Field)
	assert.EqualValues(t, 1, e.Version())
}

func TestUpdateAndDelete(t *testing.T) {
	e := newEditor(t)

	require.NoError(t, e.Update(menu.IntID(2), Entry{Label: "Updates", URL: "#updates"}))
	n, ok := menu.Find(e.Tree(), menu.IntID(2))
	require.True(t, ok)
	assert.Equal(t, "Updates", n.Label)

	v := e.Version()
	require.NoError(t, e.Update(menu.IntID(42), Entry{Label: "Ghost", URL: "#ghost"}))
	assert.Equal(t, v, e.Version(), "unknown id is a no-op")

	require.NoError(t, e.Delete(menu.IntID(1)))
	assert.Len(t, e.Flat(), 1)
	assert.Equal(t, 0, e.Tree()[0].Order)

	require.NoError(t, e.Delete(menu.IntID(1)))
	assert.Len(t, e.Flat(), 1)
}

func TestDragLifecycle(t *testing.T) {
	e := newEditor(t)

	e.DragStart(menu.IntID(4))
	st := e.DragState()
	assert.Equal(t, menu.IntID(4), st.ActiveID)
	assert.Equal(t, menu.IntID(4), st.OverID)
	assert.Nil(t, st.OffsetLeft)

	p, ok := e.DragMove(64)
	require.True(t, ok)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, menu.IntID(1), p.ParentID)

	snap := e.Snapshot()
	require.NotNil(t, snap.Projection)
	assert.Equal(t, 1, snap.ActiveCount)

	changed, err := e.DragEnd(menu.IntID(4), menu.IntID(4))
	require.NoError(t, err)
	assert.True(t, changed)

	assert.False(t, e.DragState().Active())
	require.Len(t, e.Tree(), 1)
	kids := e.Tree()[0].Children
	require.Len(t, kids, 3)
	assert.Equal(t, "Contact", kids[2].Label)
	assert.Equal(t, 2, kids[2].Order)
	require.NoError(t, menu.Validate(e.Tree()))
}

func TestDragCancelRestoresState(t *testing.T) {
	e := newEditor(t)
	tree, flat, version := e.Tree(), e.Flat(), e.Version()

	e.DragStart(menu.IntID(2))
	e.DragOver(menu.IntID(4))
	e.DragMove(-200)
	e.DragCancel()

	assert.Equal(t, DragState{}, e.DragState())
	assert.Equal(t, tree, e.Tree())
	assert.Equal(t, flat, e.Flat())
	assert.Equal(t, version, e.Version())
	_, ok := e.Projection()
	assert.False(t, ok)
}

func TestDragEndWithoutTarget(t *testing.T) {
	e := newEditor(t)
	version := e.Version()

	e.DragStart(menu.IntID(2))
	e.DragOver(menu.ID{})
	changed, err := e.DragEnd(menu.IntID(2), menu.ID{})

	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, version, e.Version())
	assert.False(t, e.DragState().Active())
}

func TestDragEndWithoutStart(t *testing.T) {
	e := newEditor(t)

	changed, err := e.DragEnd(menu.IntID(2), menu.IntID(4))
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestDragMoveWithoutDrag(t *testing.T) {
	e := newEditor(t)
	_, ok := e.DragMove(10)
	assert.False(t, ok)
	assert.Nil(t, e.DragState().OffsetLeft)
}

func TestCollapse(t *testing.T) {
	e := newEditor(t)

	assert.False(t, e.IsCollapseOpen(menu.IntID(1)))
	assert.True(t, e.ToggleCollapse(menu.IntID(1)))
	assert.True(t, e.IsCollapseOpen(menu.IntID(1)))
	assert.True(t, e.Snapshot().Open["1"])
	assert.False(t, e.ToggleCollapse(menu.IntID(1)))
}

func TestResolve(t *testing.T) {
	e := newEditor(t)
	require.NoError(t, e.SetTree([]menu.Node{
		{ID: menu.StringID("home"), Label: "Home"},
		{ID: menu.IntID(7), Label: "Seven"},
	}))

	id, ok := e.Resolve("home")
	require.True(t, ok)
	assert.Equal(t, menu.StringID("home"), id)

	id, ok = e.Resolve("7")
	require.True(t, ok)
	assert.Equal(t, menu.IntID(7), id)

	_, ok = e.Resolve("nope")
	assert.False(t, ok)
}

func TestResolvePrefersNumericID(t *testing.T) {
	e := newEditor(t)
	require.NoError(t, e.SetTree([]menu.Node{
		{ID: menu.StringID("7"), Label: "text seven"},
		{ID: menu.IntID(7), Label: "number seven"},
	}))

	id, ok := e.Resolve("7")
	require.True(t, ok)
	assert.Equal(t, menu.IntID(7), id)

	require.NoError(t, e.SetTree([]menu.Node{{ID: menu.StringID("7"), Label: "text seven"}}))
	id, ok = e.Resolve("7")
	require.True(t, ok)
	assert.Equal(t, menu.StringID("7"), id)
}
