// Package server coordinates session registration, room broadcast, and
// connection cleanup for the relay via the Hub type.
package server

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Peer is a live bidirectional connection as seen by the Hub.
type Peer interface {
	// Send enqueues msg without blocking. An error means the peer cannot
	// take more messages and should be dropped.
	Send(msg []byte) error
	// Close forces the connection shut. It is safe to call more than once.
	Close() error
	Addr() string
}

// Hub is the connection registry. It indexes sessions by peer and peers by
// username; both maps are guarded by one mutex so readers never observe one
// index updated without the other.
type Hub struct {
	sessions map[Peer]*Session
	users    map[string]Peer
	conns    map[Peer]struct{}
	mutex    sync.RWMutex
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	log      *slog.Logger
}

// NewHub returns an empty Hub. The hub's context is cancelled by Shutdown.
func NewHub(log *slog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		sessions: make(map[Peer]*Session),
		users:    make(map[string]Peer),
		conns:    make(map[Peer]struct{}),
		ctx:      ctx,
		cancel:   cancel,
		log:      log,
	}
}

// Context is cancelled when the hub shuts down.
func (h *Hub) Context() context.Context {
	return h.ctx
}

// Go runs fn in a goroutine that Shutdown waits for. It returns false without
// starting fn once shutdown has begun.
func (h *Hub) Go(fn func()) bool {
	h.mutex.Lock()
	if h.ctx.Err() != nil {
		h.mutex.Unlock()
		return false
	}
	h.wg.Add(1)
	h.mutex.Unlock()

	go func() {
		defer h.wg.Done()
		fn()
	}()
	return true
}

// Attach records a live connection, registered or not, so Shutdown can close
// it. It returns false once shutdown has begun.
func (h *Hub) Attach(p Peer) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.ctx.Err() != nil {
		return false
	}
	h.conns[p] = struct{}{}
	return true
}

// Detach forgets a connection recorded by Attach.
func (h *Hub) Detach(p Peer) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.conns, p)
}

// Register adds p with session s. If another connection already uses the same
// username, p becomes the one addressed by Lookup; the older connection stays
// in its room until it disconnects.
func (h *Hub) Register(p Peer, s *Session) {
	h.mutex.Lock()
	h.sessions[p] = s
	h.users[s.Username()] = p
	count := len(h.sessions)
	h.mutex.Unlock()

	h.log.Info("Session registered", "addr", p.Addr(), "user", s.Username(), "room", s.Room, "total", count)
}

// Unregister removes p from both indices and returns its session, or nil if p
// was not registered (for example because a failed send already dropped it).
func (h *Hub) Unregister(p Peer) *Session {
	h.mutex.Lock()
	s := h.removeLocked(p)
	count := len(h.sessions)
	h.mutex.Unlock()

	if s != nil {
		h.log.Info("Session unregistered", "addr", p.Addr(), "user", s.Username(), "total", count)
	}
	return s
}

// removeLocked deletes p. When p was the addressable connection for its
// username, another live connection with that name takes its place.
func (h *Hub) removeLocked(p Peer) *Session {
	s, ok := h.sessions[p]
	if !ok {
		return nil
	}
	delete(h.sessions, p)

	name := s.Username()
	if h.users[name] == p {
		delete(h.users, name)
		for other, otherSession := range h.sessions {
			if otherSession.Username() == name {
				h.users[name] = other
				break
			}
		}
	}
	return s
}

// Lookup returns the connection addressed by username.
func (h *Hub) Lookup(username string) (Peer, bool) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	p, ok := h.users[username]
	return p, ok
}

// Session returns the session registered for p.
func (h *Hub) Session(p Peer) (*Session, bool) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	s, ok := h.sessions[p]
	return s, ok
}

// Count returns the number of registered connections.
func (h *Hub) Count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.sessions)
}

// Members returns the usernames currently in room.
func (h *Hub) Members(room RoomID) []string {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	var names []string
	for _, s := range h.sessions {
		if s.Room == room {
			names = append(names, s.Username())
		}
	}
	return names
}

// Broadcast sends msg to every connection in room except the given one and
// returns how many accepted it. Connections whose Send fails are dropped and
// closed after the loop; they never stop delivery to the others.
func (h *Hub) Broadcast(room RoomID, msg []byte, except Peer) int {
	h.mutex.RLock()
	var failed []Peer
	delivered := 0
	for p, s := range h.sessions {
		if s.Room != room || p == except {
			continue
		}
		if err := p.Send(msg); err != nil {
			failed = append(failed, p)
			continue
		}
		delivered++
	}
	h.mutex.RUnlock()

	h.log.Debug("Broadcast", "room", room, "delivered", delivered, "failed", len(failed))
	h.Drop(failed...)
	return delivered
}

// SendTo delivers msg to the connection addressed by username. It reports
// false when the user is offline or the send failed, in which case the
// connection is dropped.
func (h *Hub) SendTo(username string, msg []byte) bool {
	p, ok := h.Lookup(username)
	if !ok {
		return false
	}
	if err := p.Send(msg); err != nil {
		h.Drop(p)
		return false
	}
	return true
}

// Drop unregisters and force-closes peers. Dropped peers get no departure
// notice.
func (h *Hub) Drop(peers ...Peer) {
	if len(peers) == 0 {
		return
	}

	h.mutex.Lock()
	for _, p := range peers {
		if s := h.removeLocked(p); s != nil {
			h.log.Warn("Connection dropped after failed send", "addr", p.Addr(), "user", s.Username())
		}
	}
	h.mutex.Unlock()

	for _, p := range peers {
		if err := p.Close(); err != nil && !isExpectedCloseError(err) {
			h.log.Error("Error closing dropped connection", "addr", p.Addr(), "error", err)
		}
	}
}

// Shutdown closes every connection and waits for the goroutines started with
// Go to finish, or until timeout.
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.log.Info("Initiating hub shutdown...")

	h.mutex.Lock()
	h.cancel()
	peers := make([]Peer, 0, len(h.conns))
	for p := range h.conns {
		peers = append(peers, p)
	}
	for p := range h.sessions {
		if _, attached := h.conns[p]; !attached {
			peers = append(peers, p)
		}
	}
	h.mutex.Unlock()

	for _, p := range peers {
		if err := p.Close(); err != nil && !isExpectedCloseError(err) {
			h.log.Error("Error closing connection", "addr", p.Addr(), "error", err)
		}
	}
	h.log.Info("Closed client connections", "count", len(peers))

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		h.log.Info("Hub shutdown completed successfully")
		return nil
	case <-time.After(timeout):
		h.log.Warn("Hub shutdown timeout reached, some goroutines may still be running")
		return context.DeadlineExceeded
	}
}
