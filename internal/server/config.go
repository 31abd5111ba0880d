// Package server provides configuration helpers that define runtime defaults,
// validation, and rate-limiting parameters for the relay.
package server

import (
	"fmt"
	"strings"
	"time"

	env "github.com/Netflix/go-env"

	"github.com/Tyrowin/relaychat/internal/cipher"
)

const (
	defaultPort            = ":8080"
	defaultOrigin          = "http://localhost:8080"
	defaultMaxMessageSize  = 512
	defaultBurst           = 5
	defaultSendBufferSize  = 256
	defaultInviteTTL       = 24 * time.Hour
	defaultMaxUploadSize   = 32 << 20
	defaultShutdownTimeout = 10 * time.Second
)

// RateLimitConfig defines the parameters for per-connection message rate limiting.
type RateLimitConfig struct {
	Burst          int
	RefillInterval time.Duration
}

// Config holds the server configuration settings including security controls.
type Config struct {
	Port            string
	AllowedOrigins  []string
	MaxMessageSize  int64
	RateLimit       RateLimitConfig
	SendBufferSize  int
	LogLevel        string
	DatabaseURL     string
	RedisURL        string
	KDFIterations   int
	TokenTTL        time.Duration
	InviteTTL       time.Duration
	DefaultRoom     string
	MaxUploadSize   int64
	ShutdownTimeout time.Duration
}

// envConfig is the environment layout of Config.
type envConfig struct {
	Port                    string        `env:"SERVER_PORT,default=:8080"`
	AllowedOrigins          string        `env:"ALLOWED_ORIGINS"`
	MaxMessageSize          int64         `env:"MAX_MESSAGE_SIZE,default=512"`
	RateLimitBurst          int           `env:"RATE_LIMIT_BURST,default=5"`
	RateLimitRefillInterval time.Duration `env:"RATE_LIMIT_REFILL_INTERVAL,default=1s"`
	SendBufferSize          int           `env:"SEND_BUFFER_SIZE,default=256"`
	LogLevel                string        `env:"LOG_LEVEL,default=INFO"`
	DatabaseURL             string        `env:"DATABASE_URL"`
	RedisURL                string        `env:"REDIS_URL"`
	KDFIterations           int           `env:"KDF_ITERATIONS,default=200000"`
	TokenTTL                time.Duration `env:"TOKEN_TTL,default=0s"`
	InviteTTL               time.Duration `env:"INVITE_TTL,default=24h"`
	DefaultRoom             string        `env:"DEFAULT_ROOM,default=group:main"`
	MaxUploadSize           int64         `env:"MAX_UPLOAD_SIZE,default=33554432"`
	ShutdownTimeout         time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}

func defaultConfig() Config {
	return Config{
		Port:           defaultPort,
		AllowedOrigins: []string{defaultOrigin},
		MaxMessageSize: defaultMaxMessageSize,
		RateLimit: RateLimitConfig{
			Burst:          defaultBurst,
			RefillInterval: time.Second,
		},
		SendBufferSize:  defaultSendBufferSize,
		LogLevel:        "INFO",
		KDFIterations:   cipher.DefaultIterations,
		InviteTTL:       defaultInviteTTL,
		DefaultRoom:     string(DefaultRoom),
		MaxUploadSize:   defaultMaxUploadSize,
		ShutdownTimeout: defaultShutdownTimeout,
	}
}

// NewConfig creates a Config instance populated with default values for all settings.
func NewConfig() *Config {
	cfg := defaultConfig()
	return &cfg
}

// NewConfigFromEnv creates a Config instance from environment variables.
// Unset variables keep their defaults; invalid values are repaired by Sanitize.
func NewConfigFromEnv() (*Config, error) {
	var raw envConfig
	if _, err := env.UnmarshalFromEnviron(&raw); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	cfg := Config{
		Port:           raw.Port,
		AllowedOrigins: []string{defaultOrigin},
		MaxMessageSize: raw.MaxMessageSize,
		RateLimit: RateLimitConfig{
			Burst:          raw.RateLimitBurst,
			RefillInterval: raw.RateLimitRefillInterval,
		},
		SendBufferSize:  raw.SendBufferSize,
		LogLevel:        raw.LogLevel,
		DatabaseURL:     raw.DatabaseURL,
		RedisURL:        raw.RedisURL,
		KDFIterations:   raw.KDFIterations,
		TokenTTL:        raw.TokenTTL,
		InviteTTL:       raw.InviteTTL,
		DefaultRoom:     raw.DefaultRoom,
		MaxUploadSize:   raw.MaxUploadSize,
		ShutdownTimeout: raw.ShutdownTimeout,
	}
	if raw.AllowedOrigins != "" {
		cfg.AllowedOrigins = parseOrigins(raw.AllowedOrigins)
	}

	sanitized := cfg.Sanitize()
	return &sanitized, nil
}

// Sanitize returns a copy of cfg with zero or negative values replaced by
// their defaults.
func (cfg Config) Sanitize() Config {
	def := defaultConfig()

	if cfg.Port == "" {
		cfg.Port = def.Port
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = def.MaxMessageSize
	}
	if cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = def.RateLimit.Burst
	}
	if cfg.RateLimit.RefillInterval <= 0 {
		cfg.RateLimit.RefillInterval = def.RateLimit.RefillInterval
	}
	if cfg.SendBufferSize <= 0 {
		cfg.SendBufferSize = def.SendBufferSize
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	if cfg.KDFIterations <= 0 {
		cfg.KDFIterations = def.KDFIterations
	}
	if cfg.TokenTTL < 0 {
		cfg.TokenTTL = 0
	}
	if cfg.InviteTTL <= 0 {
		cfg.InviteTTL = def.InviteTTL
	}
	if strings.TrimSpace(cfg.DefaultRoom) == "" {
		cfg.DefaultRoom = def.DefaultRoom
	}
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = def.MaxUploadSize
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = def.ShutdownTimeout
	}
	cfg.AllowedOrigins = append([]string(nil), cfg.AllowedOrigins...)

	return cfg
}

func parseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
