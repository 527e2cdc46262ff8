package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/onnwee/chat-tally/db"
	"github.com/onnwee/chat-tally/notify"
)

// Handlers holds dependencies for all HTTP handlers.
type Handlers struct {
	db       *sql.DB
	ctx      context.Context
	hub      *notify.Hub
	counters *db.CounterStore
}

// NewHandlers creates a Handlers instance with its dependencies.
func NewHandlers(ctx context.Context, database *sql.DB, hub *notify.Hub) *Handlers {
	return &Handlers{
		db:       database,
		ctx:      ctx,
		hub:      hub,
		counters: &db.CounterStore{DB: database},
	}
}

// HandleStatus reports a coarse service snapshot.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	var broadcasters int
	if err := h.db.QueryRowContext(r.Context(), `SELECT COUNT(*) FROM counters`).Scan(&broadcasters); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"status":       "ok",
		"broadcasters": broadcasters,
	})
}

// HandleBroadcastersDispatcher routes /broadcasters/{id}/counters.
func (h *Handlers) HandleBroadcastersDispatcher(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/broadcasters/")
	parts := strings.Split(rest, "/")
	if len(parts) == 2 && parts[1] == "counters" && parts[0] != "" {
		h.handleCounters(w, r, strings.ToLower(parts[0]))
		return
	}
	http.NotFound(w, r)
}

func (h *Handlers) handleCounters(w http.ResponseWriter, r *http.Request, broadcasterID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	state, err := h.counters.Get(r.Context(), broadcasterID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"broadcaster_id": state.BroadcasterID,
		"deaths":         state.Deaths,
		"swears":         state.Swears,
		"screams":        state.Screams,
		"bits":           state.Bits,
		"custom":         state.Custom,
	})
}

// HandleAdminCountersReset zeroes a broadcaster's built-in session
// counters (deaths/swears/screams), mirroring the chat reset command.
func (h *Handlers) HandleAdminCountersReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	broadcasterID := strings.ToLower(r.URL.Query().Get("broadcaster"))
	if broadcasterID == "" {
		http.Error(w, "missing broadcaster", http.StatusBadRequest)
		return
	}
	if _, err := h.db.ExecContext(r.Context(),
		`UPDATE counters SET deaths=0, swears=0, screams=0, updated_at=NOW() WHERE broadcaster_id=$1`,
		broadcasterID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"status": "reset", "broadcaster_id": broadcasterID})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
