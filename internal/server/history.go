package server

import (
	"net/http"
	"strconv"

	"github.com/Tyrowin/relaychat/internal/storage"
)

const defaultHistoryLimit = 50

// DM logs are never served here; only group rooms are public.
type historyQuery struct {
	Room  string `validate:"required,max=80,startswith=group:"`
	Limit int    `validate:"min=0,max=200"`
}

// MessageHistoryHandler returns the latest messages of ?room=, oldest first.
// ?limit= defaults to 50.
func (s *Server) MessageHistoryHandler(w http.ResponseWriter, r *http.Request) {
	q := historyQuery{Room: r.URL.Query().Get("room")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "limit must be a number", http.StatusBadRequest)
			return
		}
		q.Limit = n
	}
	if err := s.validate.Struct(q); err != nil {
		http.Error(w, "room must be a group room and limit at most 200", http.StatusBadRequest)
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultHistoryLimit
	}

	msgs, err := s.store.RecentMessages(r.Context(), q.Room, q.Limit)
	if err != nil {
		s.log.Error("Loading message history failed", "room", q.Room, "error", err)
		http.Error(w, "Failed to load messages", http.StatusInternalServerError)
		return
	}
	if msgs == nil {
		msgs = []storage.Message{}
	}
	writeJSON(w, http.StatusOK, map[string][]storage.Message{"messages": msgs})
}
