package server

import (
	"fmt"
	"sync"

	"github.com/Tyrowin/relaychat/internal/cipher"
)

// AuthMode is the authentication mode a client declares in its first frame.
type AuthMode string

const (
	AuthPublic   AuthMode = "public"
	AuthPassword AuthMode = "password"
	AuthInvite   AuthMode = "invite"
)

// AnonymousUser is used when a client sends an empty username.
const AnonymousUser = "Anon"

// RoomID identifies a broadcast room (group:<name>) or a DM log key
// (dm:<sender>:<peer>).
type RoomID string

// DefaultRoom is joined when the handshake does not name a room.
const DefaultRoom RoomID = "group:main"

// DMRoom is the log key for a direct message from sender to peer.
func DMRoom(sender, peer string) RoomID {
	return RoomID(fmt.Sprintf("dm:%s:%s", sender, peer))
}

// Mode is the routing mode of a session.
type Mode int

const (
	ModeGroup Mode = iota
	ModeDM
)

func (m Mode) String() string {
	switch m {
	case ModeGroup:
		return "group"
	case ModeDM:
		return "dm"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// AuthResult is the outcome of a successful handshake. It does not change for
// the lifetime of the connection.
type AuthResult struct {
	Username string
	Key      cipher.Key
	Mode     AuthMode
}

// Routing is the mutable part of a session. DMPeer is set iff Mode is ModeDM.
type Routing struct {
	Mode   Mode
	DMPeer string
}

// Session is the per-connection state shared between the connection task and
// the Hub. The Hub stores the pointer, so routing changes are visible to
// lookups without re-registration.
type Session struct {
	Auth AuthResult
	Room RoomID

	mu      sync.RWMutex
	routing Routing
}

// NewSession returns a group-mode session for auth in room.
func NewSession(auth AuthResult, room RoomID) *Session {
	return &Session{Auth: auth, Room: room}
}

func (s *Session) Username() string {
	return s.Auth.Username
}

// Routing returns a snapshot of the routing state.
func (s *Session) Routing() Routing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.routing
}

// EnterDM switches the session to direct messages with peer.
func (s *Session) EnterDM(peer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routing = Routing{Mode: ModeDM, DMPeer: peer}
}

// LeaveDM switches the session back to its group room.
func (s *Session) LeaveDM() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routing = Routing{Mode: ModeGroup}
}
