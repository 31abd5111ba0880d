package server

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Tyrowin/relaychat/internal/cipher"
)

func TestNewConfigDefaults(t *testing.T) {
	req := require.New(t)
	cfg := NewConfig()

	req.Equal(":8080", cfg.Port)
	req.Equal([]string{"http://localhost:8080"}, cfg.AllowedOrigins)
	req.EqualValues(512, cfg.MaxMessageSize)
	req.Equal(RateLimitConfig{Burst: 5, RefillInterval: time.Second}, cfg.RateLimit)
	req.Equal(256, cfg.SendBufferSize)
	req.Equal(cipher.DefaultIterations, cfg.KDFIterations)
	req.Equal("group:main", cfg.DefaultRoom)
	req.Zero(cfg.TokenTTL)
	req.Empty(cfg.DatabaseURL)
	req.Empty(cfg.RedisURL)
}

func TestNewConfigFromEnv(t *testing.T) {
	req := require.New(t)
	t.Setenv("SERVER_PORT", ":9090")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example.com , https://b.example.com")
	t.Setenv("RATE_LIMIT_BURST", "10")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("SEND_BUFFER_SIZE", "-1")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("TOKEN_TTL", "5m")
	t.Setenv("DEFAULT_ROOM", "group:lobby")

	cfg, err := NewConfigFromEnv()
	req.NoError(err)
	req.Equal(":9090", cfg.Port)
	req.Equal([]string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	req.Equal(RateLimitConfig{Burst: 10, RefillInterval: 2 * time.Second}, cfg.RateLimit)
	req.Equal(256, cfg.SendBufferSize)
	req.Equal("redis://localhost:6379/0", cfg.RedisURL)
	req.Equal(5*time.Minute, cfg.TokenTTL)
	req.Equal("group:lobby", cfg.DefaultRoom)
	req.Equal(24*time.Hour, cfg.InviteTTL)
}

func TestNewConfigFromEnvInvalid(t *testing.T) {
	t.Setenv("MAX_MESSAGE_SIZE", "lots")
	_, err := NewConfigFromEnv()
	require.Error(t, err)
}

func TestSanitizeRepairsInvalidValues(t *testing.T) {
	req := require.New(t)
	in := Config{
		MaxMessageSize: -1,
		RateLimit:      RateLimitConfig{Burst: 0, RefillInterval: -time.Second},
		TokenTTL:       -time.Minute,
		DefaultRoom:    "   ",
		AllowedOrigins: []string{"*"},
	}

	cfg := in.Sanitize()
	def := NewConfig()
	req.Equal(def.Port, cfg.Port)
	req.Equal(def.MaxMessageSize, cfg.MaxMessageSize)
	req.Equal(def.RateLimit, cfg.RateLimit)
	req.Equal(def.KDFIterations, cfg.KDFIterations)
	req.Zero(cfg.TokenTTL)
	req.Equal(def.DefaultRoom, cfg.DefaultRoom)
	req.Equal(def.ShutdownTimeout, cfg.ShutdownTimeout)

	cfg.AllowedOrigins[0] = "changed"
	req.Equal("*", in.AllowedOrigins[0], "Sanitize must copy the origin list")
}

func TestNormalizeOrigins(t *testing.T) {
	normalized, allowAll := normalizeOrigins([]string{
		"HTTPS://Chat.Example.com",
		"",
		"not a url",
		"http://localhost:8080/path",
	}, testLogger())

	require.False(t, allowAll)
	require.Equal(t, []string{"https://chat.example.com", "http://localhost:8080"}, normalized)

	_, allowAll = normalizeOrigins([]string{" * "}, testLogger())
	require.True(t, allowAll)
}

func TestOriginPolicy(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{name: "listed", allowed: []string{"https://chat.example.com"}, origin: "https://chat.example.com", want: true},
		{name: "case insensitive", allowed: []string{"https://chat.example.com"}, origin: "https://CHAT.example.com", want: true},
		{name: "other scheme", allowed: []string{"https://chat.example.com"}, origin: "http://chat.example.com"},
		{name: "missing origin", allowed: []string{"https://chat.example.com"}},
		{name: "garbage origin", allowed: []string{"https://chat.example.com"}, origin: "::"},
		{name: "empty allow list", origin: "https://chat.example.com"},
		{name: "wildcard", allowed: []string{"*"}, origin: "https://anything.example", want: true},
		{name: "wildcard without origin", allowed: []string{"*"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := newOriginPolicy(tt.allowed, testLogger())
			r := httptest.NewRequest("GET", "/ws", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			require.Equal(t, tt.want, policy.checkOrigin(r))
		})
	}
}
