package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"retailpos/internal/app"
	"retailpos/internal/gateway/httpapi"
	"retailpos/internal/session"
	"retailpos/internal/session/filestore"
	"retailpos/internal/session/redisstore"
	"retailpos/pkg/config"
	"retailpos/pkg/lib/logger"
	"retailpos/pkg/lib/logger/sl"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.SetupLogger(cfg.Env, cfg.Log)
	if err != nil {
		panic(err)
	}

	log.Info("Starting till",
		slog.String("env", cfg.Env),
		slog.String("api", cfg.BaseURL()),
		slog.String("session_backend", cfg.Session.Backend),
	)

	persister, closer, err := openPersister(cfg)
	if err != nil {
		log.Error("Failed to open session storage", sl.Err(err))
		panic(err)
	}

	store := session.New(log, persister)
	if _, err := store.Restore(context.Background()); err != nil {
		log.Error("Failed to restore session, starting logged out", sl.Err(err))
	}

	gateway := httpapi.New(log, cfg.BaseURL(), store, cfg.API.Timeout)

	application := app.New(log, cfg.Address(), gateway, store)
	application.Warm(context.Background())

	go func() {
		if err := application.Run(); err != nil {
			log.Error("Application failed to start", sl.Err(err))
			panic(err)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGTERM, syscall.SIGINT)
	<-done

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Stopping till")
	if err := application.Stop(ctx); err != nil {
		log.Error("Failed to stop gracefully", sl.Err(err))
	}

	if closer != nil {
		log.Info("Closing session storage")
		if err := closer.Close(); err != nil {
			log.Error("Failed to close session storage", sl.Err(err))
		}
	}
}

func openPersister(cfg *config.Config) (session.Persister, io.Closer, error) {
	if cfg.Session.Backend == config.SessionBackendRedis {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		store, err := redisstore.Dial(ctx, cfg.Session.RedisURL, cfg.Session.Key)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	}
	return filestore.New(cfg.Session.Path), nil, nil
}
