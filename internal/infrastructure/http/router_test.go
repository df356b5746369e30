package httpserver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"arbwatch/internal/infrastructure/stream"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T, ready func(context.Context) error) (http.Handler, *stream.Hub, context.CancelFunc) {
	t.Helper()
	hub := stream.NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	return NewRouter(hub, ready), hub, cancel
}

func TestHealthz(t *testing.T) {
	r, _, cancel := newTestRouter(t, nil)
	defer cancel()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	require.Equal(t, "OK", string(body))
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestReadyz_NotReady(t *testing.T) {
	r, _, cancel := newTestRouter(t, func(context.Context) error { return errors.New("down") })
	defer cancel()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestReadyz_Ready(t *testing.T) {
	r, _, cancel := newTestRouter(t, func(context.Context) error { return nil })
	defer cancel()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestWebsocketUpgradeThroughRouter(t *testing.T) {
	r, _, cancel := newTestRouter(t, nil)
	defer cancel()

	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
}

func TestRequestIDIsEchoedBack(t *testing.T) {
	r, _, cancel := newTestRouter(t, nil)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}
