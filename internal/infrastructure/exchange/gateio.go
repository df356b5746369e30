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

const gateBaseURL = "https://api.gateio.ws"

type Gate struct {
	client restClient
}

var _ application.TickerSource = (*Gate)(nil)

func NewGate(base string, hc *http.Client, retries int, gap time.Duration) *Gate {
	if base == "" {
		base = gateBaseURL
	}
	return &Gate{client: newRESTClient(base, hc, retries, gap)}
}

func (g *Gate) Exchange() string { return "GATE" }

type gateTickerResp struct {
	CurrencyPair string `json:"currency_pair"`
	Last         string `json:"last"`
}

func (g *Gate) FetchTicker(ctx context.Context, symbol string) (domain.Quote, error) {
	if !domain.ValidateSymbol(symbol) {
		return domain.Quote{}, fmt.Errorf("gate: %w: %s", domain.ErrUnsupportedSymbol, symbol)
	}
	q := url.Values{}
	q.Set("currency_pair", strings.ReplaceAll(symbol, "/", "_"))

	var body []gateTickerResp
	if err := g.client.getJSON(ctx, "/api/v4/spot/tickers", q, &body); err != nil {
		return domain.Quote{}, fmt.Errorf("gate: fetch %s: %w", symbol, err)
	}
	if len(body) == 0 {
		return domain.Quote{}, fmt.Errorf("gate: empty ticker response for %s", symbol)
	}
	price, err := strconv.ParseFloat(body[0].Last, 64)
	if err != nil || price <= 0 {
		return domain.Quote{}, fmt.Errorf("gate: bad price %q for %s", body[0].Last, symbol)
	}
	return domain.Quote{
		Exchange:   g.Exchange(),
		Symbol:     symbol,
		Price:      price,
		ObservedAt: time.Now().UTC(),
	}, nil
}
