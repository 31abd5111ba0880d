package server

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"

	"github.com/Tyrowin/relaychat/internal/media"
	"github.com/Tyrowin/relaychat/internal/storage"
)

// Server owns the hub and every collaborator a connection needs. It is
// created once per process by New and torn down by Shutdown.
type Server struct {
	cfg         Config
	hub         *Hub
	router      *Router
	handshaker  *Handshaker
	store       storage.Store
	invites     storage.InviteStore
	transcriber media.Transcriber
	origins     *originPolicy
	upgrader    websocket.Upgrader
	validate    *validator.Validate
	log         *slog.Logger
}

// Option customizes a Server built by New.
type Option func(*Server)

// WithTranscriber sets the speech-to-text engine used by /audio/transcribe.
func WithTranscriber(t media.Transcriber) Option {
	return func(s *Server) {
		s.transcriber = t
	}
}

// WithInviteStore keeps authentication invites somewhere other than the main
// store, such as redis.
func WithInviteStore(invites storage.InviteStore) Option {
	return func(s *Server) {
		s.invites = invites
	}
}

// New builds a Server for cfg on top of store.
func New(cfg Config, store storage.Store, log *slog.Logger, opts ...Option) (*Server, error) {
	cfg = cfg.Sanitize()

	s := &Server{
		cfg:         cfg,
		hub:         NewHub(log),
		store:       store,
		invites:     store,
		transcriber: media.Unavailable,
		origins:     newOriginPolicy(cfg.AllowedOrigins, log),
		validate:    validator.New(),
		log:         log,
	}
	for _, opt := range opts {
		opt(s)
	}

	handshaker, err := NewHandshaker(cfg, s.invites, log)
	if err != nil {
		return nil, fmt.Errorf("create handshaker: %w", err)
	}
	s.handshaker = handshaker
	s.router = NewRouter(s.hub, store, store, log)
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.origins.checkOrigin,
	}
	return s, nil
}

// Hub returns the connection registry.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Router returns the router attachment collaborators announce through.
func (s *Server) Router() *Router {
	return s.router
}

// Config returns the sanitized configuration the server runs with.
func (s *Server) Config() Config {
	return s.cfg
}

// serve runs one connection from handshake to departure on a goroutine
// started with Hub.Go. It returns when the client goes away, is dropped, or
// the server shuts down.
func (s *Server) serve(c *Client) {
	if !s.hub.Attach(c) {
		c.closeConnection()
		return
	}
	defer s.hub.Detach(c)

	if !s.hub.Go(c.writePump) {
		c.closeConnection()
		return
	}
	defer func() { _ = c.Close() }()

	ctx := s.hub.Context()
	c.setupReadConnection()

	auth, room, err := s.handshaker.Negotiate(ctx, c, c)
	if err != nil {
		if !errors.Is(err, ErrHandshakeRejected) {
			c.log.Debug("Handshake aborted", "error", err)
		}
		return
	}

	session := NewSession(auth, room)
	s.router.Join(ctx, c, session)
	defer s.router.Leave(c)

	c.readPump(func(line string) {
		s.router.Dispatch(ctx, c, session, line)
	})
}

// Shutdown closes every connection and waits up to timeout for their
// goroutines to finish, then closes the store.
func (s *Server) Shutdown(timeout time.Duration) error {
	hubErr := s.hub.Shutdown(timeout)
	if err := s.store.Close(); err != nil {
		return errors.Join(hubErr, fmt.Errorf("close store: %w", err))
	}
	return hubErr
}
