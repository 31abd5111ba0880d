// Package server wires HTTP handlers into a gorilla/mux router for the relay
// via routing helpers.
package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Routes configures and returns the router with all application routes:
// health check, WebSocket endpoint, test page, attachments, message history,
// friends and invites.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.WebSocketHandler)
	r.HandleFunc("/test", TestPageHandler).Methods(http.MethodGet)

	r.HandleFunc("/media/upload", s.UploadMediaHandler).Methods(http.MethodPost)
	r.HandleFunc("/media/{id}", s.GetMediaHandler).Methods(http.MethodGet)
	r.HandleFunc("/audio/transcribe", s.TranscribeAudioHandler).Methods(http.MethodPost)

	r.HandleFunc("/messages", s.MessageHistoryHandler).Methods(http.MethodGet)

	r.HandleFunc("/friends", s.ListFriendsHandler).Methods(http.MethodGet)
	r.HandleFunc("/friends/invite", s.CreateFriendInviteHandler).Methods(http.MethodPost)
	r.HandleFunc("/friends/accept", s.AcceptFriendInviteHandler).Methods(http.MethodPost)
	r.HandleFunc("/invites", s.CreateInviteHandler).Methods(http.MethodPost)
	return r
}
