package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramClient sends HTML-formatted messages to a fixed chat through the
// Telegram Bot API. Delivery is best effort: callers are expected to log and
// swallow failures rather than block business flows.
type TelegramClient struct {
	botToken string
	chatID   string
	client   *http.Client
}

// NewTelegramClient builds a client. Empty credentials produce a disabled
// client whose Send reports a configuration error.
func NewTelegramClient(botToken, chatID string, timeout time.Duration) *TelegramClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TelegramClient{
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether bot credentials are configured.
func (t *TelegramClient) Enabled() bool {
	return t != nil && t.botToken != "" && t.chatID != ""
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send delivers an HTML message to the configured chat.
func (t *TelegramClient) Send(ctx context.Context, text string) error {
	if !t.Enabled() {
		return fmt.Errorf("telegram bot token or chat id not configured")
	}

	payload, err := json.Marshal(sendMessageRequest{ChatID: t.chatID, Text: text, ParseMode: "HTML"})
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", telegramAPIBase, t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	var result sendMessageResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&result); err != nil {
		return fmt.Errorf("decode telegram response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram rejected message: %s", result.Description)
	}
	return nil
}
