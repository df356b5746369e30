package exchange

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"arbwatch/internal/application"
	"arbwatch/internal/domain"
)

const binanceBaseURL = "https://api.binance.com"

type Binance struct {
	client restClient
}

var _ application.TickerSource = (*Binance)(nil)

func NewBinance(base string, hc *http.Client, retries int, gap time.Duration) *Binance {
	if base == "" {
		base = binanceBaseURL
	}
	return &Binance{client: newRESTClient(base, hc, retries, gap)}
}

func (b *Binance) Exchange() string { return "BINANCE" }

type binanceTickerResp struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

func (b *Binance) FetchTicker(ctx context.Context, symbol string) (domain.Quote, error) {
	if !domain.ValidateSymbol(symbol) {
		return domain.Quote{}, fmt.Errorf("binance: %w: %s", domain.ErrUnsupportedSymbol, symbol)
	}
	q := url.Values{}
	q.Set("symbol", strings.ReplaceAll(symbol, "/", ""))

	var body binanceTickerResp
	if err := b.client.getJSON(ctx, "/api/v3/ticker/price", q, &body); err != nil {
		return domain.Quote{}, fmt.Errorf("binance: fetch %s: %w", symbol, err)
	}
	price, err := strconv.ParseFloat(body.Price, 64)
	if err != nil || price <= 0 {
		return domain.Quote{}, fmt.Errorf("binance: bad price %q for %s", body.Price, symbol)
	}
	return domain.Quote{
		Exchange:   b.Exchange(),
		Symbol:     symbol,
		Price:      price,
		ObservedAt: time.Now().UTC(),
	}, nil
}
