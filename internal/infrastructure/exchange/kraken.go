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

const krakenBaseURL = "https://api.kraken.com"

type Kraken struct {
	client restClient
}

var _ application.TickerSource = (*Kraken)(nil)

func NewKraken(base string, hc *http.Client, retries int, gap time.Duration) *Kraken {
	if base == "" {
		base = krakenBaseURL
	}
	return &Kraken{client: newRESTClient(base, hc, retries, gap)}
}

func (k *Kraken) Exchange() string { return "KRAKEN" }

// Kraken keys the result by its own asset-pair alias (e.g. XXBTZUSD), so
// the single entry is taken whatever it is named. c[0] is the last trade
// price.
type krakenTickerResp struct {
	Error  []string `json:"error"`
	Result map[string]struct {
		C []string `json:"c"`
	} `json:"result"`
}

func (k *Kraken) FetchTicker(ctx context.Context, symbol string) (domain.Quote, error) {
	if !domain.ValidateSymbol(symbol) {
		return domain.Quote{}, fmt.Errorf("kraken: %w: %s", domain.ErrUnsupportedSymbol, symbol)
	}
	q := url.Values{}
	q.Set("pair", strings.ReplaceAll(symbol, "/", ""))

	var body krakenTickerResp
	if err := k.client.getJSON(ctx, "/0/public/Ticker", q, &body); err != nil {
		return domain.Quote{}, fmt.Errorf("kraken: fetch %s: %w", symbol, err)
	}
	if len(body.Error) > 0 {
		return domain.Quote{}, fmt.Errorf("kraken: api error for %s: %s", symbol, strings.Join(body.Error, "; "))
	}
	for _, entry := range body.Result {
		if len(entry.C) == 0 {
			break
		}
		price, err := strconv.ParseFloat(entry.C[0], 64)
		if err != nil || price <= 0 {
			return domain.Quote{}, fmt.Errorf("kraken: bad price %q for %s", entry.C[0], symbol)
		}
		return domain.Quote{
			Exchange:   k.Exchange(),
			Symbol:     symbol,
			Price:      price,
			ObservedAt: time.Now().UTC(),
		}, nil
	}
	return domain.Quote{}, fmt.Errorf("kraken: empty ticker response for %s", symbol)
}
