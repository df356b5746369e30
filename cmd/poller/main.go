package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arbwatch/internal/bootstrap"
	"arbwatch/internal/config"
	httpserver "arbwatch/internal/infrastructure/http"
	"arbwatch/internal/infrastructure/logx"
	"arbwatch/internal/infrastructure/poller"
	"arbwatch/internal/infrastructure/stream"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	logger := logx.L()
	cfg := config.Load()
	if len(cfg.Symbols) == 0 {
		logger.Fatal("no valid symbols configured (SYMBOLS)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := stream.NewHub(logger)
	go hub.Run(ctx)

	p := &poller.Poller{
		Sources:      bootstrap.BuildSources(cfg),
		Symbols:      cfg.Symbols,
		Interval:     cfg.PollInterval,
		FetchTimeout: cfg.FetchTimeout,
		Concurrency:  cfg.PollWorkers,
		Pub:          hub,
		Log:          logger,
	}
	go p.Start(ctx)

	server := &http.Server{
		Addr:    cfg.StreamAddr,
		Handler: httpserver.NewRouter(hub, nil),
	}
	go func() {
		logger.Info("server started", zap.String("addr", cfg.StreamAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	cancel()
	shutdownCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	_ = server.Shutdown(shutdownCtx)
	logger.Info("server stopped")
}
