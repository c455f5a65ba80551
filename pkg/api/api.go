// Package api exposes the menu editor as a JSON HTTP API.
package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/mchmarny/menued/pkg/editor"
	"github.com/mchmarny/menued/pkg/menu"
	"github.com/mchmarny/menued/pkg/seed"
)

// Prefix is the path every route is mounted under.
const Prefix = "/api/"

// API serves an editor over HTTP.
type API struct {
	ed  *editor.Editor
	mux *http.ServeMux
}

// New returns the API for ed with all routes registered.
func New(ed *editor.Editor) *API {
	a := &API{ed: ed, mux: http.NewServeMux()}

	a.mux.HandleFunc("GET /api/menu", a.getMenu)
	a.mux.HandleFunc("PUT /api/menu", a.putMenu)
	a.mux.HandleFunc("GET /api/menu/flat", a.getFlat)
	a.mux.HandleFunc("GET /api/state", a.getState)

	a.mux.HandleFunc("POST /api/items", a.addItem)
	a.mux.HandleFunc("PATCH /api/items/{id}", a.updateItem)
	a.mux.HandleFunc("DELETE /api/items/{id}", a.deleteItem)
	a.mux.HandleFunc("POST /api/items/{id}/collapse", a.toggleCollapse)

	a.mux.HandleFunc("POST /api/drag/start", a.dragStart)
	a.mux.HandleFunc("POST /api/drag/move", a.dragMove)
	a.mux.HandleFunc("POST /api/drag/over", a.dragOver)
	a.mux.HandleFunc("POST /api/drag/end", a.dragEnd)
	a.mux.HandleFunc("POST /api/drag/cancel", a.dragCancel)

	return a
}

// ServeHTTP implements http.Handler.
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	slog.Debug("handling", "method", r.Method, "path", r.URL.Path)
	a.mux.ServeHTTP(w, r)
}

type itemRequest struct {
	Label    string  `json:"label"`
	URL      string  `json:"url"`
	ParentID menu.ID `json:"parentId"`
}

type collapseResponse struct {
	ID   menu.ID `json:"id"`
	Open bool    `json:"open"`
}

type dragStartRequest struct {
	ActiveID menu.ID `json:"activeId"`
}

type dragMoveRequest struct {
	OffsetLeft float64 `json:"offsetLeft"`
}

type dragOverRequest struct {
	OverID menu.ID `json:"overId"`
}

type dragEndRequest struct {
	ActiveID menu.ID `json:"activeId"`
	OverID   menu.ID `json:"overId"`
}

type projectionResponse struct {
	Drag       editor.DragState `json:"drag"`
	Projection *menu.Projection `json:"projection"`
}

type dragEndResponse struct {
	Moved   bool        `json:"moved"`
	Version uint64      `json:"version"`
	Tree    []menu.Node `json:"tree"`
}

func (a *API) getMenu(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, nodes(a.ed.Tree()))
}

// putMenu replaces the tree with a JSON menu document or a bare node list.
func (a *API) putMenu(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	m, err := seed.Parse(data, "json")
	if err != nil {
		writeFailure(w, err)
		return
	}
	if err := a.ed.SetTree(m.Items); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nodes(a.ed.Tree()))
}

func (a *API) getFlat(w http.ResponseWriter, _ *http.Request) {
	flat := a.ed.Flat()
	if flat == nil {
		flat = []menu.FlatItem{}
	}
	writeJSON(w, http.StatusOK, flat)
}

func (a *API) getState(w http.ResponseWriter, _ *http.Request) {
	s := a.ed.Snapshot()
	s.Tree = nodes(s.Tree)
	if s.Flat == nil {
		s.Flat = []menu.FlatItem{}
	}
	writeJSON(w, http.StatusOK, s)
}

func (a *API) addItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := a.ed.Add(editor.Entry{Label: req.Label, URL: req.URL}, req.ParentID)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (a *API) updateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}

	var req itemRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.ed.Update(id, editor.Entry{Label: req.Label, URL: req.URL}); err != nil {
		writeFailure(w, err)
		return
	}
	n, _ := menu.Find(a.ed.Tree(), id)
	writeJSON(w, http.StatusOK, n)
}

func (a *API) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	if err := a.ed.Delete(id); err != nil {
		writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) toggleCollapse(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, collapseResponse{ID: id, Open: a.ed.ToggleCollapse(id)})
}

func (a *API) dragStart(w http.ResponseWriter, r *http.Request) {
	var req dragStartRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := menu.Find(a.ed.Tree(), req.ActiveID); !ok {
		writeFailure(w, &menu.ItemNotFoundError{ID: req.ActiveID})
		return
	}

	a.ed.DragStart(req.ActiveID)
	a.writeProjection(w)
}

func (a *API) dragMove(w http.ResponseWriter, r *http.Request) {
	var req dragMoveRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a.ed.DragMove(req.OffsetLeft)
	a.writeProjection(w)
}

func (a *API) dragOver(w http.ResponseWriter, r *http.Request) {
	var req dragOverRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a.ed.DragOver(req.OverID)
	a.writeProjection(w)
}

func (a *API) dragEnd(w http.ResponseWriter, r *http.Request) {
	var req dragEndRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	moved, err := a.ed.DragEnd(req.ActiveID, req.OverID)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dragEndResponse{
		Moved:   moved,
		Version: a.ed.Version(),
		Tree:    nodes(a.ed.Tree()),
	})
}

func (a *API) dragCancel(w http.ResponseWriter, _ *http.Request) {
	a.ed.DragCancel()
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) writeProjection(w http.ResponseWriter) {
	resp := projectionResponse{Drag: a.ed.DragState()}
	if p, ok := a.ed.Projection(); ok {
		resp.Projection = &p
	}
	writeJSON(w, http.StatusOK, resp)
}

// pathID resolves the {id} path segment against the current tree.
func (a *API) pathID(w http.ResponseWriter, r *http.Request) (menu.ID, bool) {
	raw := r.PathValue("id")
	id, ok := a.ed.Resolve(raw)
	if !ok {
		writeFailure(w, &menu.ItemNotFoundError{ID: menu.StringID(raw)})
		return menu.ID{}, false
	}
	return id, true
}

func nodes(tree []menu.Node) []menu.Node {
	if tree == nil {
		return []menu.Node{}
	}
	return tree
}
