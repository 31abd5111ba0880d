package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"github.com/Tyrowin/relaychat/internal/storage/memory"
)

const (
	testIterations = 1_000
	readTimeout    = 2 * time.Second
)

// fakePeer records everything sent to it. When failing is set every Send
// errors, as a full send buffer would.
type fakePeer struct {
	addr    string
	failing bool

	mu     sync.Mutex
	msgs   []string
	closed bool
}

func newFakePeer(addr string) *fakePeer {
	return &fakePeer{addr: addr}
}

func (p *fakePeer) Send(msg []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failing {
		return ErrSendBufferFull
	}
	if p.closed {
		return ErrClientClosed
	}
	p.msgs = append(p.msgs, string(msg))
	return nil
}

func (p *fakePeer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePeer) Addr() string {
	return p.addr
}

func (p *fakePeer) Messages() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.msgs...)
}

func (p *fakePeer) IsClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func testLogger() *slog.Logger {
	return logs.GetLoggerFromLevel(slog.LevelDebug)
}

func testConfig() Config {
	cfg := *NewConfig()
	cfg.AllowedOrigins = []string{"*"}
	cfg.KDFIterations = testIterations
	cfg.RateLimit.Burst = 100
	return cfg
}

// testEnv is a running server on an httptest listener backed by the memory
// store.
type testEnv struct {
	srv   *Server
	store *memory.Store
	ts    *httptest.Server
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	return newTestEnvWithConfig(t, testConfig(), opts...)
}

func newTestEnvWithConfig(t *testing.T, cfg Config, opts ...Option) *testEnv {
	t.Helper()

	store := memory.NewStore(memory.WithInviteTTL(cfg.InviteTTL))
	srv, err := New(cfg, store, testLogger(), opts...)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(func() {
		_ = srv.Shutdown(time.Second)
		ts.Close()
	})
	return &testEnv{srv: srv, store: store, ts: ts}
}

func (e *testEnv) wsURL() string {
	return "ws" + strings.TrimPrefix(e.ts.URL, "http") + "/ws"
}

func (e *testEnv) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(e.wsURL(), nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// connectPublic completes a public handshake as username and waits until the
// hub has registered the session.
func (e *testEnv) connectPublic(t *testing.T, username string) *websocket.Conn {
	t.Helper()
	conn := e.dial(t)
	sendJSON(t, conn, map[string]string{"auth": "public", "room": "group:main"})
	require.Equal(t, FrameKey, readServerFrame(t, conn).Type)
	sendText(t, conn, username)
	e.waitForUser(t, username)
	return conn
}

func (e *testEnv) waitForUser(t *testing.T, username string) {
	t.Helper()
	require.Eventually(t, func() bool {
		_, ok := e.srv.Hub().Lookup(username)
		return ok
	}, readTimeout, 5*time.Millisecond, "user %q never registered", username)
}

func sendJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(v))
}

func sendText(t *testing.T, conn *websocket.Conn, text string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(text)))
}

func readText(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(readTimeout)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	return string(data)
}

func readServerFrame(t *testing.T, conn *websocket.Conn) ServerFrame {
	t.Helper()
	var frame ServerFrame
	require.NoError(t, json.Unmarshal([]byte(readText(t, conn)), &frame))
	return frame
}

// requireClosed asserts that the server ends the connection.
func requireClosed(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(readTimeout)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		t.Fatalf("connection was not closed: %v", err)
	}
}

func doRequest(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}
