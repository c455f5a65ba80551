package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/mchmarny/menued/pkg/editor"
	"github.com/mchmarny/menued/pkg/menu"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// status maps an error to the HTTP status it is reported with.
func status(err error) int {
	var entryErr *editor.EntryError
	var invariant *menu.InvariantError
	switch {
	case errors.As(err, &entryErr), errors.As(err, &invariant):
		return http.StatusBadRequest
	case errors.Is(err, menu.ErrParentNotFound), errors.Is(err, menu.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, menu.ErrDuplicateID),
		errors.Is(err, menu.ErrMissingParent),
		errors.Is(err, menu.ErrCircularReference):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func writeFailure(w http.ResponseWriter, err error) {
	writeError(w, status(err), err.Error())
}

func writeError(w http.ResponseWriter, status int, message string) {
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(context.Background(), level, "request failed", "status", status, "message", message)

	body, err := json.Marshal(errorResponse{Error: message})
	if err != nil {
		http.Error(w, message, status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		writeError(w, http.StatusInternalServerError, "error, see logs for details")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Error("failed to write JSON response", "error", err)
		return
	}
	slog.Debug("json response sent", "status", status, "bytes", len(body))
}
