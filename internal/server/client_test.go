package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newDetachedClient(bufferSize int) *Client {
	cfg := testConfig()
	cfg.SendBufferSize = bufferSize
	return NewClient(nil, "detached", cfg, testLogger())
}

func TestClientSendBufferFull(t *testing.T) {
	c := newDetachedClient(1)

	require.NoError(t, c.Send([]byte("first")))
	require.ErrorIs(t, c.Send([]byte("second")), ErrSendBufferFull)
}

// TestClientCloseKeepsQueuedMessages checks that Close is idempotent and that
// messages queued before it are still delivered to the write pump.
func TestClientCloseKeepsQueuedMessages(t *testing.T) {
	req := require.New(t)
	c := newDetachedClient(4)

	req.NoError(c.Send([]byte("bye")))
	req.NoError(c.Close())
	req.NoError(c.Close())
	req.ErrorIs(c.Send([]byte("late")), ErrClientClosed)

	msg, ok := <-c.send
	req.True(ok)
	req.Equal("bye", string(msg))
	_, ok = <-c.send
	req.False(ok)
}

func TestClientAddr(t *testing.T) {
	require.Equal(t, "detached", newDetachedClient(1).Addr())
}

func TestRateLimiterBurst(t *testing.T) {
	rl := newRateLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		require.True(t, rl.allow(), "message %d", i)
	}
	require.False(t, rl.allow())
}

func TestRateLimiterDefaults(t *testing.T) {
	rl := newRateLimiter(0, 0)
	require.True(t, rl.allow())
	require.False(t, rl.allow())
}
