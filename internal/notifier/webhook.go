package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/julianstephens/meetmate/internal/errors"
)

// WebhookMessenger relays instant messages through an HTTP gateway that accepts
// {"to": "+<digits>", "body": "..."}
type WebhookMessenger struct {
	url    string
	token  string
	client *http.Client
}

type messagePayload struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

func NewWebhookMessenger(url, token string) *WebhookMessenger {
	return &WebhookMessenger{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *WebhookMessenger) SendInstant(ctx context.Context, phoneDigits, body string) error {
	data, err := json.Marshal(messagePayload{To: "+" + phoneDigits, Body: body})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDeliveryFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.token != "" {
		req.Header.Set("Authorization", "Bearer "+w.token)
	}

	res, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDeliveryFailure, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return fmt.Errorf("%w: gateway returned %d: %s", apperrors.ErrDeliveryFailure, res.StatusCode, bytes.TrimSpace(msg))
}
