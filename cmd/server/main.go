package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/spf13/pflag"

	"github.com/Tyrowin/relaychat/internal/server"
	"github.com/Tyrowin/relaychat/internal/storage"
	"github.com/Tyrowin/relaychat/internal/storage/memory"
	"github.com/Tyrowin/relaychat/internal/storage/postgres"
	"github.com/Tyrowin/relaychat/internal/storage/redis"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var envFile, port, logLevel string

	flagSet := pflag.NewFlagSet("relaychat", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	flagSet.StringVar(&port, "port", "", "listen address, overrides SERVER_PORT")
	flagSet.StringVar(&logLevel, "log-level", "", "DEBUG, INFO, WARN or ERROR, overrides LOG_LEVEL")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	// A missing .env is fine; the environment alone is enough.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg, err := server.NewConfigFromEnv()
	if err != nil {
		return err
	}
	if port != "" {
		cfg.Port = port
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	log := logs.GetLoggerFromString(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	var opts []server.Option
	if cfg.RedisURL != "" {
		rdb, err := redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			_ = store.Close()
			return fmt.Errorf("redis: %w", err)
		}
		defer func() {
			log.Info("Closing redis...")
			_ = rdb.Close()
		}()
		opts = append(opts, server.WithInviteStore(redis.NewInviteStore(rdb, cfg.InviteTTL)))
	}

	srv, err := server.New(*cfg, store, log, opts...)
	if err != nil {
		_ = store.Close()
		return err
	}

	httpServer := server.CreateServer(cfg.Port, srv.Routes())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.StartServer(httpServer, log)
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			_ = srv.Shutdown(cfg.ShutdownTimeout)
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	// Hijacked websocket connections are not tracked by http.Server; the hub
	// closes them.
	httpErr := server.ShutdownServer(httpServer, cfg.ShutdownTimeout, log)
	return errors.Join(httpErr, srv.Shutdown(cfg.ShutdownTimeout))
}

func openStore(ctx context.Context, cfg *server.Config) (storage.Store, error) {
	if cfg.DatabaseURL == "" {
		return memory.NewStore(memory.WithInviteTTL(cfg.InviteTTL)), nil
	}

	store, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.WithInviteTTL(cfg.InviteTTL))
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}
