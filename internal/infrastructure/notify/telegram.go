package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"arbwatch/internal/application"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramSender delivers alert messages via the Telegram Bot API.
type TelegramSender struct {
	base   string
	token  string
	chatID string
	client *http.Client
}

var _ application.Notifier = (*TelegramSender)(nil)

// NewTelegramSender creates a sender for the given bot token and chat ID.
// An empty base selects the public Telegram API; tests point it at a local
// server.
func NewTelegramSender(base, token, chatID string, client *http.Client) *TelegramSender {
	if base == "" {
		base = telegramAPIBase
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &TelegramSender{base: base, token: token, chatID: chatID, client: client}
}

// Send posts the message to the configured chat using the sendMessage API
// with Markdown formatting.
func (t *TelegramSender) Send(ctx context.Context, message string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.base, t.token)

	payload := map[string]string{
		"chat_id":    t.chatID,
		"text":       message,
		"parse_mode": "Markdown",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
