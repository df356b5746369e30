package stream

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ErrReconnectExhausted is returned once the reconnect budget is spent.
// It is the one terminal condition of the consume loop.
var ErrReconnectExhausted = errors.New("reconnect attempts exhausted")

type connState int

const (
	stateDisconnected connState = iota
	stateConnecting
	stateConnected
)

// Handler receives each valid price event in the order it was read.
type Handler func(ctx context.Context, ev PriceEvent)

// Subscriber maintains the connection to the poller's broadcast endpoint.
// Failed sessions count against a cumulative attempt budget; the counter
// is never reset, so a flapping endpoint cannot keep the process retrying
// forever. Missed events are not replayed.
type Subscriber struct {
	url      string
	attempts int
	delay    time.Duration
	log      *zap.Logger

	dial func(ctx context.Context, url string) (*websocket.Conn, error)
}

func NewSubscriber(url string, attempts int, delay time.Duration, log *zap.Logger) *Subscriber {
	if log == nil {
		log = zap.NewNop()
	}
	return &Subscriber{
		url:      url,
		attempts: attempts,
		delay:    delay,
		log:      log,
		dial: func(ctx context.Context, url string) (*websocket.Conn, error) {
			conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
			return conn, err
		},
	}
}

// Run drives the Disconnected → Connecting → Connected state machine until
// the context is canceled or the attempt budget is exhausted.
func (s *Subscriber) Run(ctx context.Context, handle Handler) error {
	state := stateConnecting
	failures := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch state {
		case stateConnecting:
			conn, err := s.dial(ctx, s.url)
			if err != nil {
				failures++
				s.log.Warn("stream.connect_failed",
					zap.Int("attempt", failures),
					zap.Int("cap", s.attempts),
					zap.Error(err),
				)
				state = stateDisconnected
				continue
			}
			s.log.Info("stream.connected", zap.String("url", s.url))
			state = stateConnected
			s.readSession(ctx, conn, handle)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failures++
			s.log.Warn("stream.disconnected",
				zap.Int("attempt", failures),
				zap.Int("cap", s.attempts),
			)
			state = stateDisconnected

		case stateDisconnected:
			if failures >= s.attempts {
				s.log.Error("stream.reconnect_exhausted", zap.Int("attempts", failures))
				return ErrReconnectExhausted
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.delay):
			}
			state = stateConnecting
		}
	}
}

// readSession pumps frames from one connection until it breaks. Malformed
// or invalid events are dropped without affecting the rest of the stream.
func (s *Subscriber) readSession(ctx context.Context, conn *websocket.Conn, handle Handler) {
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var ev PriceEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			s.log.Warn("stream.malformed_event", zap.ByteString("payload", data), zap.Error(err))
			continue
		}
		if err := ev.Validate(); err != nil {
			s.log.Warn("stream.invalid_event", zap.Error(err), zap.String("symbol", ev.Symbol))
			continue
		}
		handle(ctx, ev)
	}
}
