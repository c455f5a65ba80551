package editor

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mchmarny/menued/pkg/menu"
	"github.com/mchmarny/menued/pkg/metric"
)

// DragState is the transient state of the drag gesture in progress. All
// fields are null when no drag is active.
type DragState struct {
	ActiveID   menu.ID  `json:"activeId"`
	OverID     menu.ID  `json:"overId"`
	OffsetLeft *float64 `json:"offsetLeft"`
}

// Active reports whether a drag is in progress.
func (d DragState) Active() bool {
	return !d.ActiveID.IsZero()
}

// Snapshot is an immutable view of the editor state.
type Snapshot struct {
	Version     uint64           `json:"version"`
	Tree        []menu.Node      `json:"tree"`
	Flat        []menu.FlatItem  `json:"flat"`
	Drag        DragState        `json:"drag"`
	Projection  *menu.Projection `json:"projection"`
	ActiveCount int              `json:"activeCount"`
	Open        map[string]bool  `json:"open"`
}

// Editor owns the canonical menu tree and the drag state around it. Writes
// replace the tree as a whole, so readers never see a partial update.
type Editor struct {
	mu          sync.RWMutex
	tree        []menu.Node
	flat        []menu.FlatItem
	drag        DragState
	open        map[menu.ID]bool
	version     uint64
	indentation float64

	ops   metric.IncrementalCounter
	nodes *metric.Gauge
	log   *slog.Logger
}

// Option configures an Editor.
type Option func(*Editor)

// WithIndentation sets the pixel width of one nesting level used to project
// drags. Defaults to menu.DefaultIndentation.
func WithIndentation(px float64) Option {
	return func(e *Editor) {
		if px > 0 {
			e.indentation = px
		}
	}
}

// WithOperationCounter records every operation as (op, result).
func WithOperationCounter(c metric.IncrementalCounter) Option {
	return func(e *Editor) { e.ops = c }
}

// WithNodeGauge reports the number of nodes after each change.
func WithNodeGauge(g *metric.Gauge) Option {
	return func(e *Editor) { e.nodes = g }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) { e.log = l }
}

// New creates an empty editor.
func New(opts ...Option) *Editor {
	e := &Editor{
		open:        make(map[menu.ID]bool),
		indentation: menu.DefaultIndentation,
		ops:         metric.Discard,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetTree replaces the canonical tree. The tree is normalized first and must
// pass menu.Validate; on error the previous tree is kept.
func (e *Editor) SetTree(tree []menu.Node) error {
	tree = menu.Normalize(tree)
	if err := menu.Validate(tree); err != nil {
		e.record("set", err)
		return fmt.Errorf("invalid menu: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.commit(tree); err != nil {
		e.record("set", err)
		return err
	}
	e.drag = DragState{}
	e.record("set", nil)
	e.log.Info("menu replaced", "nodes", len(e.flat), "version", e.version)
	return nil
}

// Tree returns the canonical tree. Callers must not modify it.
func (e *Editor) Tree() []menu.Node {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree
}

// Flat returns the canonical tree in flat display order.
func (e *Editor) Flat() []menu.FlatItem {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.flat
}

// Version increases by one with every committed change.
func (e *Editor) Version() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.version
}

// Snapshot returns the full editor state including the live projection.
func (e *Editor) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := Snapshot{
		Version: e.version,
		Tree:    e.tree,
		Flat:    e.flat,
		Drag:    e.drag,
		Open:    make(map[string]bool, len(e.open)),
	}
	if p, ok := e.projection(); ok {
		s.Projection = &p
	}
	if e.drag.Active() {
		s.ActiveCount = menu.CountDescendants(e.tree, e.drag.ActiveID) + 1
	}
	for id, open := range e.open {
		if open {
			s.Open[id.String()] = true
		}
	}
	return s
}

// Resolve finds the node whose ID prints as raw. It lets transports that only
// see text, like URL paths, address numeric and string ids alike. When a
// numeric ID and a string ID print the same, the numeric one wins.
func (e *Editor) Resolve(raw string) (menu.ID, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var (
		found menu.ID
		ok    bool
	)
	for _, it := range e.flat {
		if it.ID.String() != raw {
			continue
		}
		if it.ID.IsNumeric() {
			return it.ID, true
		}
		if !ok {
			found, ok = it.ID, true
		}
	}
	return found, ok
}

// Add validates entry and appends it as a new node under parentID, or at the
// root level when parentID is null.
func (e *Editor) Add(entry Entry, parentID menu.ID) (menu.Node, error) {
	if err := entry.Validate(); err != nil {
		e.record("add", err)
		return menu.Node{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	n := menu.Node{
		ID:    menu.NextID(e.tree),
		Label: entry.Label,
		URL:   entry.URL,
	}
	tree, err := menu.Add(e.tree, n, parentID)
	if err == nil {
		err = e.commit(tree)
	}
	e.record("add", err)
	if err != nil {
		return menu.Node{}, err
	}

	added, _ := menu.Find(e.tree, n.ID)
	e.log.Info("menu item added", "id", added.ID, "parent", parentID, "level", added.Level)
	return added, nil
}

// Update validates entry and applies it to the node with id. Unknown ids are
// ignored.
func (e *Editor) Update(id menu.ID, entry Entry) error {
	if err := entry.Validate(); err != nil {
		e.record("update", err)
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	tree := menu.Update(e.tree, id, menu.Patch{Label: &entry.Label, URL: &entry.URL})
	if sameTree(tree, e.tree) {
		e.record("update", nil)
		return nil
	}
	err := e.commit(tree)
	e.record("update", err)
	if err == nil {
		e.log.Info("menu item updated", "id", id)
	}
	return err
}

// Delete removes the node with id and everything below it. Unknown ids are
// ignored.
func (e *Editor) Delete(id menu.ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	tree := menu.Delete(e.tree, id)
	if sameTree(tree, e.tree) {
		e.record("delete", nil)
		return nil
	}
	err := e.commit(tree)
	e.record("delete", err)
	if err == nil {
		delete(e.open, id)
		e.log.Info("menu item deleted", "id", id)
	}
	return err
}

// ToggleCollapse flips the open state of the node's children panel.
func (e *Editor) ToggleCollapse(id menu.ID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.open[id] = !e.open[id]
	return e.open[id]
}

// IsCollapseOpen reports whether the node's children panel is open.
func (e *Editor) IsCollapseOpen(id menu.ID) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.open[id]
}

// commit installs tree as the canonical tree. Callers hold the write lock.
func (e *Editor) commit(tree []menu.Node) error {
	flat, err := menu.Flatten(tree)
	if err != nil {
		return err
	}
	e.tree = tree
	e.flat = flat
	e.version++
	e.nodes.Set(float64(len(flat)))
	return nil
}

func (e *Editor) record(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case isStructural(err):
		result = "conflict"
	default:
		result = "error"
	}
	e.ops.Increment(op, result)
}

func isStructural(err error) bool {
	return errors.Is(err, menu.ErrDuplicateID) ||
		errors.Is(err, menu.ErrMissingParent) ||
		errors.Is(err, menu.ErrCircularReference)
}

func sameTree(a, b []menu.Node) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}
