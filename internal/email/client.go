// Package email delivers login codes through an HTTP email API.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Sender delivers a one-time code to an address.
type Sender interface {
	SendOTP(ctx context.Context, to string, code string) error
}

// NewSender returns an HTTP sender, or a sender that only logs when no API
// URL is configured.
func NewSender(apiURL, apiKey, from string) Sender {
	if apiURL == "" {
		log.Warn().Msg("email api disabled, codes are logged only")
		return logSender{}
	}
	return &HTTPSender{
		apiURL: apiURL,
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type HTTPSender struct {
	apiURL string
	apiKey string
	from   string
	client *http.Client
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

func (s *HTTPSender) SendOTP(ctx context.Context, to string, code string) error {
	body, err := json.Marshal(sendRequest{
		From:    s.from,
		To:      to,
		Subject: "Your Connectibles login code",
		Text:    fmt.Sprintf("Your Connectibles code is %s. It expires in 10 minutes.", code),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("email api: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email api: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}

type logSender struct{}

func (logSender) SendOTP(_ context.Context, to string, code string) error {
	log.Info().Str("to", to).Str("code", code).Msg("email noop send")
	return nil
}
