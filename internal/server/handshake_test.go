package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Tyrowin/relaychat/internal/cipher"
	"github.com/Tyrowin/relaychat/internal/mocks"
	"github.com/Tyrowin/relaychat/internal/storage"
	"github.com/Tyrowin/relaychat/internal/storage/memory"
)

// scriptedFrames replays a fixed list of client frames, then reports EOF.
type scriptedFrames struct {
	frames []string
}

func (s *scriptedFrames) ReadFrame() ([]byte, error) {
	if len(s.frames) == 0 {
		return nil, io.EOF
	}
	next := s.frames[0]
	s.frames = s.frames[1:]
	return []byte(next), nil
}

func frames(f ...string) *scriptedFrames {
	return &scriptedFrames{frames: f}
}

func newTestHandshaker(t *testing.T, invites storage.InviteStore) *Handshaker {
	t.Helper()
	h, err := NewHandshaker(testConfig(), invites, testLogger())
	require.NoError(t, err)
	return h
}

func decodeFrames(t *testing.T, out *fakePeer) []ServerFrame {
	t.Helper()
	var got []ServerFrame
	for _, m := range out.Messages() {
		var f ServerFrame
		require.NoError(t, json.Unmarshal([]byte(m), &f))
		got = append(got, f)
	}
	return got
}

// encryptedUsername builds the frame a password-mode client sends.
func encryptedUsername(t *testing.T, h *Handshaker, password, username string) string {
	t.Helper()
	key := cipher.DeriveKey(password, h.salt, h.iterations)
	token, err := cipher.Encrypt([]byte(username), key)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString([]byte(token))
}

func requireRejected(t *testing.T, err error, reason string) {
	t.Helper()
	require.ErrorIs(t, err, ErrHandshakeRejected)
	var hsErr *HandshakeError
	require.True(t, errors.As(err, &hsErr))
	require.Equal(t, reason, hsErr.Reason)
}

func TestHandshakePublic(t *testing.T) {
	req := require.New(t)
	h := newTestHandshaker(t, memory.NewStore())
	out := newFakePeer("out")

	auth, room, err := h.Negotiate(context.Background(),
		frames(`{"auth":"public","room":"group:dev"}`, "  alice \n"), out)
	req.NoError(err)
	req.Equal("alice", auth.Username)
	req.Equal(AuthPublic, auth.Mode)
	req.Equal(h.publicKey, auth.Key)
	req.Equal(RoomID("group:dev"), room)

	sent := decodeFrames(t, out)
	req.Len(sent, 1)
	req.Equal(FrameKey, sent[0].Type)
	req.Equal(h.publicKey.Encode(), sent[0].Value)
}

// TestHandshakeDefaults covers the missing room, blank username and unknown
// auth mode fallbacks.
func TestHandshakeDefaults(t *testing.T) {
	req := require.New(t)
	h := newTestHandshaker(t, memory.NewStore())

	auth, room, err := h.Negotiate(context.Background(), frames(`{"auth":"telepathy"}`, "   "), newFakePeer("out"))
	req.NoError(err)
	req.Equal(AnonymousUser, auth.Username)
	req.Equal(AuthPublic, auth.Mode)
	req.Equal(DefaultRoom, room)
}

func TestHandshakePassword(t *testing.T) {
	req := require.New(t)
	h := newTestHandshaker(t, memory.NewStore())
	out := newFakePeer("out")

	auth, room, err := h.Negotiate(context.Background(),
		frames(`{"auth":"password","value":"hunter2","room":"group:main"}`, encryptedUsername(t, h, "hunter2", " bob ")), out)
	req.NoError(err)
	req.Equal("bob", auth.Username)
	req.Equal(AuthPassword, auth.Mode)
	req.Equal(cipher.DeriveKey("hunter2", h.salt, h.iterations), auth.Key)
	req.Equal(DefaultRoom, room)

	sent := decodeFrames(t, out)
	req.Len(sent, 1)
	req.Equal(FrameSalt, sent[0].Type)
	salt, err := base64.URLEncoding.DecodeString(sent[0].Value)
	req.NoError(err)
	req.Equal(h.salt, salt)
}

func TestHandshakePasswordDefaultValue(t *testing.T) {
	h := newTestHandshaker(t, memory.NewStore())

	auth, _, err := h.Negotiate(context.Background(),
		frames(`{"auth":"password"}`, encryptedUsername(t, h, defaultPassword, "carol")), newFakePeer("out"))
	require.NoError(t, err)
	require.Equal(t, "carol", auth.Username)
}

// TestHandshakeWrongPassword checks that a username encrypted under another
// password fails authentication instead of yielding garbage.
func TestHandshakeWrongPassword(t *testing.T) {
	req := require.New(t)
	h := newTestHandshaker(t, memory.NewStore())
	out := newFakePeer("out")

	_, _, err := h.Negotiate(context.Background(),
		frames(`{"auth":"password","value":"right"}`, encryptedUsername(t, h, "wrong", "mallory")), out)
	requireRejected(t, err, ReasonBadPassword)
	req.ErrorIs(err, cipher.ErrInvalidToken)

	sent := decodeFrames(t, out)
	req.Len(sent, 2)
	req.Equal(FrameSalt, sent[0].Type)
	req.Equal(ServerFrame{Type: FrameFail, Reason: ReasonBadPassword}, sent[1])
}

func TestHandshakePasswordNotBase64(t *testing.T) {
	h := newTestHandshaker(t, memory.NewStore())
	_, _, err := h.Negotiate(context.Background(),
		frames(`{"auth":"password","value":"x"}`, "%%% not base64 %%%"), newFakePeer("out"))
	requireRejected(t, err, ReasonBadPassword)
}

func TestHandshakeInvite(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	invites := mocks.NewMockInviteStore(ctrl)
	invites.EXPECT().ConsumeInvite(gomock.Any(), "tok-1").Return(true, nil).Times(1)

	h := newTestHandshaker(t, invites)
	out := newFakePeer("out")

	auth, _, err := h.Negotiate(context.Background(), frames(`{"auth":"invite","value":"tok-1"}`, "dave"), out)
	req.NoError(err)
	req.Equal("dave", auth.Username)
	req.Equal(AuthInvite, auth.Mode)

	sent := decodeFrames(t, out)
	req.Len(sent, 1)
	req.Equal(FrameKey, sent[0].Type)
}

func TestHandshakeInviteRejected(t *testing.T) {
	tests := []struct {
		name  string
		first string
		setup func(m *mocks.MockInviteStore)
	}{
		{
			name:  "unknown token",
			first: `{"auth":"invite","value":"nope"}`,
			setup: func(m *mocks.MockInviteStore) {
				m.EXPECT().ConsumeInvite(gomock.Any(), "nope").Return(false, nil)
			},
		},
		{
			name:  "store failure",
			first: `{"auth":"invite","value":"tok"}`,
			setup: func(m *mocks.MockInviteStore) {
				m.EXPECT().ConsumeInvite(gomock.Any(), "tok").Return(false, errors.New("connection refused"))
			},
		},
		{
			name:  "missing token",
			first: `{"auth":"invite"}`,
			setup: func(*mocks.MockInviteStore) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			invites := mocks.NewMockInviteStore(ctrl)
			tt.setup(invites)

			h := newTestHandshaker(t, invites)
			out := newFakePeer("out")
			_, _, err := h.Negotiate(context.Background(), frames(tt.first, "dave"), out)
			requireRejected(t, err, ReasonBadInvite)
			require.Equal(t, []ServerFrame{{Type: FrameFail, Reason: ReasonBadInvite}}, decodeFrames(t, out))
		})
	}
}

func TestHandshakeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		first string
	}{
		{name: "not json", first: "hello"},
		{name: "room too long", first: `{"auth":"public","room":"group:` + strings.Repeat("x", 80) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := newFakePeer("out")
			h := newTestHandshaker(t, memory.NewStore())
			_, _, err := h.Negotiate(context.Background(), frames(tt.first), out)
			requireRejected(t, err, ReasonMalformed)
			require.Equal(t, []ServerFrame{{Type: FrameFail, Reason: ReasonMalformed}}, decodeFrames(t, out))
		})
	}
}

func TestHandshakeInvalidUsername(t *testing.T) {
	for _, name := range []string{strings.Repeat("a", 33), "ev:il"} {
		h := newTestHandshaker(t, memory.NewStore())
		_, _, err := h.Negotiate(context.Background(), frames(`{"auth":"public"}`, name), newFakePeer("out"))
		requireRejected(t, err, ReasonBadUsername)
	}
}

// TestHandshakeTransportFailure checks that a client vanishing mid-handshake
// is a plain error rather than a rejection.
func TestHandshakeTransportFailure(t *testing.T) {
	h := newTestHandshaker(t, memory.NewStore())
	_, _, err := h.Negotiate(context.Background(), frames(`{"auth":"public"}`), newFakePeer("out"))
	require.Error(t, err)
	require.ErrorIs(t, err, io.EOF)
	require.NotErrorIs(t, err, ErrHandshakeRejected)
}

func TestHandshakeStateString(t *testing.T) {
	require.Equal(t, "AwaitingEncryptedUsername", stateAwaitingEncryptedUsername.String())
	require.Equal(t, "handshakeState(42)", handshakeState(42).String())
}
