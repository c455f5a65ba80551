package editor

import (
	"github.com/mchmarny/menued/pkg/menu"
)

// DragStart begins a drag of activeID. The drag state is cleared first, then
// the active and over ids both point at the dragged node.
func (e *Editor) DragStart(activeID menu.ID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.drag = DragState{}
	e.drag.ActiveID = activeID
	e.drag.OverID = activeID
	e.log.Debug("drag started", "active", activeID)
}

// DragMove records the horizontal offset accumulated since the drag started
// and returns the resulting projection, if any.
func (e *Editor) DragMove(offsetLeft float64) (menu.Projection, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.drag.Active() {
		return menu.Projection{}, false
	}
	e.drag.OffsetLeft = &offsetLeft
	return e.projection()
}

// DragOver records the node under the pointer. A null id means the pointer
// is over no node.
func (e *Editor) DragOver(overID menu.ID) (menu.Projection, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.drag.Active() {
		return menu.Projection{}, false
	}
	e.drag.OverID = overID
	return e.projection()
}

// Projection returns the live projection of the drag in progress.
func (e *Editor) Projection() (menu.Projection, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.projection()
}

// DragState returns the current drag state.
func (e *Editor) DragState() DragState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.drag
}

// DragEnd commits the drop of activeID over overID using the projection of
// the drag in progress. It reports whether a new tree was committed. Drops that do
// not resolve to a target leave the tree as it was; structural errors are
// returned and also leave the tree as it was. The drag state is cleared in
// every case.
func (e *Editor) DragEnd(activeID, overID menu.ID) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer func() { e.drag = DragState{} }()

	var proj *menu.Projection
	if p, ok := e.projection(); ok {
		proj = &p
	}

	tree, err := menu.ApplyDrag(e.tree, activeID, overID, proj)
	if err != nil {
		e.record("drag", err)
		e.log.Error("drop rejected", "active", activeID, "over", overID, "error", err)
		return false, err
	}
	if sameTree(tree, e.tree) {
		e.record("drag", nil)
		e.log.Debug("drop ignored", "active", activeID, "over", overID)
		return false, nil
	}

	if err := e.commit(tree); err != nil {
		e.record("drag", err)
		return false, err
	}
	e.record("drag", nil)
	e.log.Info("menu item moved", "id", activeID, "parent", proj.ParentID, "level", proj.Level)
	return true, nil
}

// DragCancel discards the drag in progress. The tree is not touched.
func (e *Editor) DragCancel() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.drag.Active() {
		e.log.Debug("drag canceled", "active", e.drag.ActiveID)
	}
	e.drag = DragState{}
}

// projection computes the projection for the current drag state. Callers
// hold the lock.
func (e *Editor) projection() (menu.Projection, bool) {
	if !e.drag.Active() || e.drag.OverID.IsZero() {
		return menu.Projection{}, false
	}

	var offset float64
	if e.drag.OffsetLeft != nil {
		offset = *e.drag.OffsetLeft
	}

	p, err := menu.Project(e.flat, e.drag.ActiveID, e.drag.OverID, offset, e.indentation)
	if err != nil {
		return menu.Projection{}, false
	}
	return p, true
}
