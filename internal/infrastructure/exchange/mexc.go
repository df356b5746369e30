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

const mexcBaseURL = "https://api.mexc.com"

// MEXC mirrors the Binance spot API surface for ticker prices.
type MEXC struct {
	client restClient
}

var _ application.TickerSource = (*MEXC)(nil)

func NewMEXC(base string, hc *http.Client, retries int, gap time.Duration) *MEXC {
	if base == "" {
		base = mexcBaseURL
	}
	return &MEXC{client: newRESTClient(base, hc, retries, gap)}
}

func (m *MEXC) Exchange() string { return "MEXC" }

func (m *MEXC) FetchTicker(ctx context.Context, symbol string) (domain.Quote, error) {
	if !domain.ValidateSymbol(symbol) {
		return domain.Quote{}, fmt.Errorf("mexc: %w: %s", domain.ErrUnsupportedSymbol, symbol)
	}
	q := url.Values{}
	q.Set("symbol", strings.ReplaceAll(symbol, "/", ""))

	var body binanceTickerResp
	if err := m.client.getJSON(ctx, "/api/v3/ticker/price", q, &body); err != nil {
		return domain.Quote{}, fmt.Errorf("mexc: fetch %s: %w", symbol, err)
	}
	price, err := strconv.ParseFloat(body.Price, 64)
	if err != nil || price <= 0 {
		return domain.Quote{}, fmt.Errorf("mexc: bad price %q for %s", body.Price, symbol)
	}
	return domain.Quote{
		Exchange:   m.Exchange(),
		Symbol:     symbol,
		Price:      price,
		ObservedAt: time.Now().UTC(),
	}, nil
}
