package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"arbwatch/internal/domain"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	// Poller
	Symbols       []string
	PollInterval  time.Duration
	PollWorkers   int
	FetchTimeout  time.Duration
	FetchRetries  int
	FetchRetryGap time.Duration
	StreamAddr    string
	// Detector
	StreamURL         string
	ReconnectAttempts int
	ReconnectDelay    time.Duration
	DatabaseURL       string
	// Detection thresholds
	Fees            domain.FeeTable
	NotionalUSD     float64
	MinSpreadPct    float64
	MaxSpreadPct    float64
	MinRelChange    float64
	MinProfitChange float64
	SigRetention    time.Duration
	// Redis (signature reservation)
	RedisBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// Telegram
	TelegramToken  string
	TelegramChatID string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func floatDef(s string, def float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}

func durMS(key string, defMS int) time.Duration {
	return time.Duration(atoiDef(getEnv(key, strconv.Itoa(defMS)), defMS)) * time.Millisecond
}

// parseFees reads "BINANCE:0.001,KRAKEN:0.0026" pairs on top of the
// built-in defaults.
func parseFees(s string) domain.FeeTable {
	fees := domain.DefaultFees()
	for _, part := range strings.Split(s, ",") {
		name, rate, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(rate, 64)
		if err != nil || f < 0 || f >= 1 {
			continue
		}
		fees[strings.ToUpper(name)] = f
	}
	return fees
}

func parseSymbols(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		sym := strings.ToUpper(strings.TrimSpace(part))
		if domain.ValidateSymbol(sym) {
			out = append(out, sym)
		}
	}
	return out
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:      getEnv("ENV", "local"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		Symbols:       parseSymbols(getEnv("SYMBOLS", "BTC/USDT,ETH/USDT")),
		PollInterval:  durMS("POLL_INTERVAL_MS", 5000),
		PollWorkers:   atoiDef(getEnv("POLL_WORKERS", "8"), 8),
		FetchTimeout:  durMS("FETCH_TIMEOUT_MS", 4000),
		FetchRetries:  atoiDef(getEnv("FETCH_RETRIES", "3"), 3),
		FetchRetryGap: durMS("FETCH_RETRY_GAP_MS", 2000),
		StreamAddr:    getEnv("STREAM_ADDR", ":8080"),

		StreamURL:         getEnv("STREAM_URL", "ws://localhost:8080/ws"),
		ReconnectAttempts: atoiDef(getEnv("RECONNECT_ATTEMPTS", "5"), 5),
		ReconnectDelay:    durMS("RECONNECT_DELAY_MS", 5000),
		DatabaseURL:       getEnv("DATABASE_URL", ""),

		Fees:            parseFees(getEnv("EXCHANGE_FEES", "")),
		NotionalUSD:     floatDef(getEnv("NOTIONAL_USD", "50.0"), 50.0),
		MinSpreadPct:    floatDef(getEnv("MIN_SPREAD_PCT", "0.7"), 0.7),
		MaxSpreadPct:    floatDef(getEnv("MAX_SPREAD_PCT", "200.0"), 200.0),
		MinRelChange:    floatDef(getEnv("MIN_REL_CHANGE", "0.005"), 0.005),
		MinProfitChange: floatDef(getEnv("MIN_PROFIT_CHANGE_USD", "0.50"), 0.50),
		SigRetention:    durMS("SIG_RETENTION_MS", 7*24*60*60*1000),

		RedisBackend:  getEnv("SIG_RESERVE_BACKEND", "redis"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       atoiDef(getEnv("REDIS_DB", "0"), 0),

		TelegramToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID: getEnv("TELEGRAM_CHAT_ID", ""),
	}
}
