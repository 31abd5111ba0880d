package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Tyrowin/relaychat/internal/cipher"
	"github.com/Tyrowin/relaychat/internal/storage"
)

// Rejection reasons sent in FAIL frames.
const (
	ReasonMalformed   = "handshake inválido"
	ReasonBadPassword = "senha inválida"
	ReasonBadInvite   = "invite inválido"
	ReasonBadUsername = "nome de usuário inválido"
)

const defaultPassword = "senha"

// usernameRules rejects names that would break the colon-separated DM room
// keys and friend invite tokens.
const usernameRules = "max=32,excludesall=:"

// ErrHandshakeRejected matches every *HandshakeError.
var ErrHandshakeRejected = errors.New("handshake rejected")

// HandshakeError is a handshake rejection. Reason is what the client was told.
type HandshakeError struct {
	Reason string
	Err    error
}

func (e *HandshakeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("handshake rejected: %s: %v", e.Reason, e.Err)
	}
	return "handshake rejected: " + e.Reason
}

func (e *HandshakeError) Is(target error) bool {
	return target == ErrHandshakeRejected
}

func (e *HandshakeError) Unwrap() error {
	return e.Err
}

// FrameReader yields the client's frames one at a time.
type FrameReader interface {
	ReadFrame() ([]byte, error)
}

// FrameWriter queues a frame for the client.
type FrameWriter interface {
	Send(msg []byte) error
}

type handshakeState int

const (
	stateAwaitingAuthChoice handshakeState = iota
	statePasswordChallengeSent
	stateAwaitingEncryptedUsername
	stateKeyOffered
	stateAwaitingUsername
	stateAuthenticated
	stateRejected
)

func (s handshakeState) String() string {
	switch s {
	case stateAwaitingAuthChoice:
		return "AwaitingAuthChoice"
	case statePasswordChallengeSent:
		return "PasswordChallengeSent"
	case stateAwaitingEncryptedUsername:
		return "AwaitingEncryptedUsername"
	case stateKeyOffered:
		return "KeyOffered"
	case stateAwaitingUsername:
		return "AwaitingUsername"
	case stateAuthenticated:
		return "Authenticated"
	case stateRejected:
		return "Rejected"
	default:
		return fmt.Sprintf("handshakeState(%d)", int(s))
	}
}

// Handshaker authenticates new connections. The salt and public key are
// generated once per process and shared by every connection.
type Handshaker struct {
	salt        []byte
	publicKey   cipher.Key
	iterations  int
	tokenTTL    time.Duration
	defaultRoom RoomID
	invites     storage.InviteStore
	validate    *validator.Validate
	log         *slog.Logger
}

// NewHandshaker generates the process salt and public key.
func NewHandshaker(cfg Config, invites storage.InviteStore, log *slog.Logger) (*Handshaker, error) {
	salt, err := cipher.NewSalt(cipher.DefaultSaltSize)
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	key, err := cipher.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generate public key: %w", err)
	}

	return &Handshaker{
		salt:        salt,
		publicKey:   key,
		iterations:  cfg.KDFIterations,
		tokenTTL:    cfg.TokenTTL,
		defaultRoom: RoomID(cfg.DefaultRoom),
		invites:     invites,
		validate:    validator.New(),
		log:         log,
	}, nil
}

// negotiation is the state of one handshake in progress.
type negotiation struct {
	h     *Handshaker
	ctx   context.Context
	in    FrameReader
	out   FrameWriter
	state handshakeState

	mode     AuthMode
	password string
	room     RoomID
	key      cipher.Key
	username string
	err      error
}

// Negotiate runs the handshake over in and out. A *HandshakeError means the
// client was rejected and already sent a FAIL frame; any other error is a
// transport failure.
func (h *Handshaker) Negotiate(ctx context.Context, in FrameReader, out FrameWriter) (AuthResult, RoomID, error) {
	n := &negotiation{h: h, ctx: ctx, in: in, out: out, state: stateAwaitingAuthChoice}
	for n.state != stateAuthenticated && n.state != stateRejected {
		n.step()
	}

	if n.state == stateRejected {
		return AuthResult{}, "", n.err
	}
	return AuthResult{Username: n.username, Key: n.key, Mode: n.mode}, n.room, nil
}

func (n *negotiation) step() {
	switch n.state {
	case stateAwaitingAuthChoice:
		n.readAuthChoice()
	case statePasswordChallengeSent:
		n.sendFrame(ServerFrame{Type: FrameSalt, Value: base64.URLEncoding.EncodeToString(n.h.salt)},
			stateAwaitingEncryptedUsername)
	case stateAwaitingEncryptedUsername:
		n.readEncryptedUsername()
	case stateKeyOffered:
		n.key = n.h.publicKey
		n.sendFrame(ServerFrame{Type: FrameKey, Value: n.h.publicKey.Encode()}, stateAwaitingUsername)
	case stateAwaitingUsername:
		if frame, ok := n.read(); ok {
			n.acceptUsername(string(frame))
		}
	default:
		n.fail(fmt.Errorf("unexpected handshake state %s", n.state))
	}
}

func (n *negotiation) readAuthChoice() {
	frame, ok := n.read()
	if !ok {
		return
	}

	var req HandshakeRequest
	if err := json.Unmarshal(frame, &req); err != nil {
		n.reject(ReasonMalformed, err)
		return
	}
	if err := n.h.validate.Struct(req); err != nil {
		n.reject(ReasonMalformed, err)
		return
	}

	n.room = req.Room
	if n.room == "" {
		n.room = n.h.defaultRoom
	}

	switch req.Auth {
	case AuthPassword:
		n.mode = AuthPassword
		n.password = defaultPassword
		if req.Value != nil {
			n.password = *req.Value
		}
		n.state = statePasswordChallengeSent
	case AuthInvite:
		n.mode = AuthInvite
		n.redeemInvite(req.Value)
	default:
		n.mode = AuthPublic
		n.state = stateKeyOffered
	}
}

func (n *negotiation) redeemInvite(value *string) {
	if value == nil || *value == "" {
		n.reject(ReasonBadInvite, nil)
		return
	}

	ok, err := n.h.invites.ConsumeInvite(n.ctx, *value)
	if err != nil {
		n.reject(ReasonBadInvite, fmt.Errorf("consume invite: %w", err))
		return
	}
	if !ok {
		n.reject(ReasonBadInvite, nil)
		return
	}
	n.state = stateKeyOffered
}

func (n *negotiation) readEncryptedUsername() {
	frame, ok := n.read()
	if !ok {
		return
	}

	token, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(frame)))
	if err != nil {
		n.reject(ReasonBadPassword, err)
		return
	}

	n.key = cipher.DeriveKey(n.password, n.h.salt, n.h.iterations)
	plaintext, err := cipher.Decrypt(string(token), n.key, n.h.tokenTTL)
	if err != nil {
		n.reject(ReasonBadPassword, err)
		return
	}
	n.acceptUsername(string(plaintext))
}

func (n *negotiation) acceptUsername(raw string) {
	name := strings.TrimSpace(raw)
	if name == "" {
		name = AnonymousUser
	}
	if err := n.h.validate.Var(name, usernameRules); err != nil {
		n.reject(ReasonBadUsername, err)
		return
	}
	n.username = name
	n.state = stateAuthenticated
}

func (n *negotiation) read() ([]byte, bool) {
	frame, err := n.in.ReadFrame()
	if err != nil {
		n.fail(fmt.Errorf("read handshake frame in %s: %w", n.state, err))
		return nil, false
	}
	return frame, true
}

func (n *negotiation) sendFrame(frame ServerFrame, next handshakeState) {
	if err := n.write(frame); err != nil {
		n.fail(fmt.Errorf("send %s frame: %w", frame.Type, err))
		return
	}
	n.state = next
}

func (n *negotiation) write(frame ServerFrame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	return n.out.Send(data)
}

// reject tells the client why it is being turned away and ends the handshake.
func (n *negotiation) reject(reason string, cause error) {
	n.h.log.Info("Handshake rejected", "state", n.state, "mode", n.mode, "reason", reason, "error", cause)
	if err := n.write(ServerFrame{Type: FrameFail, Reason: reason}); err != nil {
		n.h.log.Debug("Could not send FAIL frame", "error", err)
	}
	n.state = stateRejected
	n.err = &HandshakeError{Reason: reason, Err: cause}
}

func (n *negotiation) fail(err error) {
	n.state = stateRejected
	n.err = err
}
