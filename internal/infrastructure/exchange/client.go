package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// restClient fetches JSON from an exchange's public REST API. A fetch is
// attempted up to `retries` times with a fixed gap; only transport errors
// and 5xx responses are retried, anything else fails the call immediately.
type restClient struct {
	base    string
	http    *http.Client
	retries int
	gap     time.Duration
}

func newRESTClient(base string, hc *http.Client, retries int, gap time.Duration) restClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	if retries <= 0 {
		retries = 3
	}
	return restClient{base: base, http: hc, retries: retries, gap: gap}
}

func (c *restClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u, err := url.Parse(c.base)
	if err != nil {
		return fmt.Errorf("invalid base url: %w", err)
	}
	u.Path = path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return fmt.Errorf("server error %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("status %d", resp.StatusCode))
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	}
	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(c.gap), uint64(c.retries-1))
	return backoff.Retry(op, backoff.WithContext(b, ctx))
}
