package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/billmate/billing-api/internal/application/billing"
	"github.com/billmate/billing-api/pkg/config"
)

var _ billing.SMSSender = (*Fast2SMSSender)(nil)

// Fast2SMSSender sends transactional SMS through the Fast2SMS bulk API.
type Fast2SMSSender struct {
	cfg    config.SMSConfig
	client *http.Client
}

// NewFast2SMSSender builds the sender.
func NewFast2SMSSender(cfg config.SMSConfig) *Fast2SMSSender {
	return &Fast2SMSSender{
		cfg:    cfg,
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

type smsRequest struct {
	Route    string `json:"route"`
	SenderID string `json:"sender_id"`
	Message  string `json:"message"`
	Numbers  string `json:"numbers"`
}

type smsResponse struct {
	Return  bool   `json:"return"`
	Message any    `json:"message"`
	Request string `json:"request_id"`
}

// Send posts one message to the bulk endpoint.
func (s *Fast2SMSSender) Send(ctx context.Context, phone, message string) error {
	payload, err := json.Marshal(smsRequest{
		Route:    "q",
		SenderID: s.cfg.SenderID,
		Message:  message,
		Numbers:  phone,
	})
	if err != nil {
		return fmt.Errorf("encode sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Authorization", s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("read sms response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sms api status %d: %s", resp.StatusCode, body)
	}

	var out smsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("decode sms response: %w", err)
	}
	if !out.Return {
		return fmt.Errorf("sms api rejected message: %v", out.Message)
	}
	return nil
}
