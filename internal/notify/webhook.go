package notify

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Payload is the webhook POST body.
type Payload struct {
	Title        string `json:"title"`
	Message      string `json:"message"`
	Timestamp    string `json:"timestamp"`
	DismissAfter int    `json:"dismiss_after"` // seconds, display hint
}

// WebhookNotifier POSTs notifications to a configured URL, optionally
// signing the body with an HMAC-SHA256 secret.
type WebhookNotifier struct {
	URL    string
	Secret string
	HTTP   *http.Client
}

// NewWebhook creates a webhook notifier for the given URL.
func NewWebhook(url, secret string) *WebhookNotifier {
	return &WebhookNotifier{
		URL:    url,
		Secret: secret,
		HTTP:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify delivers the notification. Errors are logged, not returned; a lost
// notification never affects record state.
func (n *WebhookNotifier) Notify(title, message string) {
	if err := n.dispatch(title, message); err != nil {
		slog.Warn("notify webhook", "err", err)
	}
}

func (n *WebhookNotifier) dispatch(title, message string) error {
	body, err := json.Marshal(Payload{
		Title:        title,
		Message:      message,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		DismissAfter: DismissAfterSeconds,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequest("POST", n.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "pucsync-notify/1")

	unixTS := fmt.Sprintf("%d", time.Now().Unix())
	req.Header.Set("X-Pucsync-Timestamp", unixTS)

	if n.Secret != "" {
		mac := hmac.New(sha256.New, []byte(n.Secret))
		mac.Write([]byte(unixTS))
		mac.Write([]byte("."))
		mac.Write(body)
		sig := hex.EncodeToString(mac.Sum(nil))
		req.Header.Set("X-Pucsync-Signature", "sha256="+sig)
	}

	resp, err := n.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", n.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("POST %s: status %d", n.URL, resp.StatusCode)
	}
	return nil
}
