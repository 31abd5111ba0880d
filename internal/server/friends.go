package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Tyrowin/relaychat/internal/storage"
)

type friendsQuery struct {
	Username string `validate:"required,max=32"`
}

type friendInviteRequest struct {
	Owner  string `validate:"required,max=32,excludesall=:"`
	Target string `validate:"required,max=32,excludesall=:,nefield=Owner"`
}

// ListFriendsHandler returns the friends of ?username=.
func (s *Server) ListFriendsHandler(w http.ResponseWriter, r *http.Request) {
	q := friendsQuery{Username: r.URL.Query().Get("username")}
	if err := s.validate.Struct(q); err != nil {
		http.Error(w, "username is required", http.StatusBadRequest)
		return
	}

	friends, err := s.store.ListFriends(r.Context(), q.Username)
	if err != nil {
		s.log.Error("Listing friends failed", "user", q.Username, "error", err)
		http.Error(w, "Failed to list friends", http.StatusInternalServerError)
		return
	}
	if friends == nil {
		friends = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"friends": friends})
}

// CreateFriendInviteHandler issues a friend invite from ?owner= to ?target=.
func (s *Server) CreateFriendInviteHandler(w http.ResponseWriter, r *http.Request) {
	req := friendInviteRequest{
		Owner:  r.URL.Query().Get("owner"),
		Target: r.URL.Query().Get("target"),
	}
	if req.Owner != "" && req.Owner == req.Target {
		http.Error(w, "Não convide a si mesmo", http.StatusBadRequest)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		http.Error(w, "owner and target are required", http.StatusBadRequest)
		return
	}

	token, err := s.store.CreateFriendInvite(r.Context(), req.Owner, req.Target)
	if err != nil {
		s.log.Error("Creating friend invite failed", "user", req.Owner, "target", req.Target, "error", err)
		http.Error(w, "Failed to create invite", http.StatusInternalServerError)
		return
	}
	s.router.NotifyFriendInvite(req.Owner, req.Target, token)
	writeJSON(w, http.StatusOK, map[string]string{"invite": token})
}

// AcceptFriendInviteHandler consumes ?token= and befriends both sides.
func (s *Server) AcceptFriendInviteHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	owner, target, err := storage.ParseFriendInviteToken(token)
	if err != nil {
		http.Error(w, "Convite inválido", http.StatusNotFound)
		return
	}

	err = s.store.AcceptFriendInvite(r.Context(), token)
	if errors.Is(err, storage.ErrInvalidInvite) {
		http.Error(w, "Convite inválido", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("Accepting friend invite failed", "owner", owner, "target", target, "error", err)
		http.Error(w, "Failed to accept invite", http.StatusInternalServerError)
		return
	}
	s.router.NotifyFriendAccepted(owner, target)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// CreateInviteHandler issues a single-use invite for the invite handshake.
func (s *Server) CreateInviteHandler(w http.ResponseWriter, r *http.Request) {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := s.invites.CreateInvite(r.Context(), token); err != nil {
		s.log.Error("Creating invite failed", "error", err)
		http.Error(w, "Failed to create invite", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"invite": token})
}
