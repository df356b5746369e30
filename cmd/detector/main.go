package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"arbwatch/internal/bootstrap"
	"arbwatch/internal/config"
	"arbwatch/internal/infrastructure/logx"
	"arbwatch/internal/infrastructure/stream"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

const prunerInterval = time.Hour

func main() {
	logger := logx.L()
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos, cleanup, err := bootstrap.BuildRepos(ctx, cfg)
	if err != nil {
		logger.Fatal("bootstrap repos", zap.Error(err))
	}
	defer cleanup()

	reserve, closeRedis, err := bootstrap.BuildReserver(cfg)
	if err != nil {
		logger.Fatal("bootstrap reserver", zap.Error(err))
	}
	defer closeRedis()

	notifier, err := bootstrap.BuildNotifier(cfg)
	if err != nil {
		logger.Fatal("bootstrap notifier", zap.Error(err))
	}

	detector := bootstrap.BuildDetector(cfg, repos, reserve, notifier)
	go detector.RunSignaturePruner(ctx, prunerInterval)

	startupMsg := fmt.Sprintf("🤖 Arbitrage detector started.\nWatching: `%s`",
		strings.Join(cfg.Symbols, ", "))
	if err := notifier.Send(ctx, startupMsg); err != nil {
		logger.Warn("startup notification failed", zap.Error(err))
	}

	sub := stream.NewSubscriber(cfg.StreamURL, cfg.ReconnectAttempts, cfg.ReconnectDelay, logger)
	handle := func(ctx context.Context, ev stream.PriceEvent) {
		q := ev.Quote(time.Now().UTC())
		if err := detector.Ingest(ctx, q); err != nil {
			logger.Warn("quote rejected",
				zap.String("exchange", q.Exchange),
				zap.String("symbol", q.Symbol),
				zap.Error(err))
		}
	}

	errCh := make(chan error, 1)
	go func() { errCh <- sub.Run(ctx, handle) }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("shutting down")
		cancel()
		<-errCh
	case err := <-errCh:
		if errors.Is(err, stream.ErrReconnectExhausted) {
			logger.Fatal("stream connection lost for good", zap.Error(err))
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Fatal("stream terminated", zap.Error(err))
		}
	}
	logger.Info("detector stopped")
}
