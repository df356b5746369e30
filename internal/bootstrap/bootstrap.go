package bootstrap

import (
	"context"
	"fmt"

	"arbwatch/internal/application"
	"arbwatch/internal/config"
	"arbwatch/internal/infrastructure/exchange"
	"arbwatch/internal/infrastructure/logx"
	"arbwatch/internal/infrastructure/notify"
	"arbwatch/internal/infrastructure/pg"
	redisstore "arbwatch/internal/infrastructure/redis"

	"github.com/redis/go-redis/v9"
)

type Repos struct {
	Opportunities application.OpportunityRepo
	Signatures    application.SignatureRepo
	UoW           application.UnitOfWork
	Ping          func(context.Context) error
}

// BuildRepos connects to Postgres, runs migrations and wires the repos.
func BuildRepos(ctx context.Context, cfg config.Config) (Repos, func(), error) {
	log := logx.L()
	if cfg.DatabaseURL == "" {
		return Repos{}, func() {}, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return Repos{}, func() {}, err
	}
	if err := pg.RunMigrations(ctx, db); err != nil {
		db.Close()
		return Repos{}, func() {}, err
	}
	cleanup := func() {
		log.Info("closing pg")
		db.Close()
	}
	return Repos{
		Opportunities: pg.NewOpportunityRepo(db),
		Signatures:    pg.NewSignatureRepo(db),
		UoW:           &pg.UnitOfWork{Pool: db.Pool},
		Ping:          db.Ping,
	}, cleanup, nil
}

// BuildReserver builds the signature reservation backend. Anything other
// than "redis" yields the no-op reserver, leaving the Postgres signature
// log as the only dedup layer.
func BuildReserver(cfg config.Config) (application.SignatureReserver, func(), error) {
	if cfg.RedisBackend != "redis" {
		return application.NoopReserver{}, func() {}, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	store := redisstore.New(rdb, cfg.SigRetention)
	cleanup := func() { _ = rdb.Close() }
	return store, cleanup, nil
}

func BuildNotifier(cfg config.Config) (application.Notifier, error) {
	if cfg.TelegramToken == "" || cfg.TelegramChatID == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID are required")
	}
	return notify.NewTelegramSender("", cfg.TelegramToken, cfg.TelegramChatID, nil), nil
}

// BuildSources returns one ticker source per supported exchange.
func BuildSources(cfg config.Config) []application.TickerSource {
	return []application.TickerSource{
		exchange.NewBinance("", nil, cfg.FetchRetries, cfg.FetchRetryGap),
		exchange.NewKraken("", nil, cfg.FetchRetries, cfg.FetchRetryGap),
		exchange.NewMEXC("", nil, cfg.FetchRetries, cfg.FetchRetryGap),
		exchange.NewGate("", nil, cfg.FetchRetries, cfg.FetchRetryGap),
	}
}

func BuildDetector(cfg config.Config, repos Repos, reserve application.SignatureReserver, notifier application.Notifier) *application.Detector {
	th := application.Thresholds{
		NotionalUSD:     cfg.NotionalUSD,
		MinSpreadPct:    cfg.MinSpreadPct,
		MaxSpreadPct:    cfg.MaxSpreadPct,
		MinRelChange:    cfg.MinRelChange,
		MinProfitChange: cfg.MinProfitChange,
	}
	return application.NewDetector(
		repos.Opportunities, repos.Signatures, reserve, notifier,
		cfg.Fees, th, cfg.SigRetention,
		application.WithLogger(logx.L()),
		application.WithUnitOfWork(repos.UoW),
	)
}
