package resend

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hotel-reservations/internal/platform/httpclient"
	"hotel-reservations/internal/ports/notifications"
)

var (
	ErrInvalidMessage = errors.New("invalid email message")
)

type Config struct {
	// BaseURL por defecto https://api.resend.com.
	BaseURL string
	APIKey  string
	From    string
	Timeout time.Duration
}

// Sender implementa notifications.EmailSender sobre la API HTTP de Resend.
// Sin APIKey devuelve notifications.ErrEmailDisabled.
type Sender struct {
	apiKey string
	from   string
	http   *httpclient.Client
}

func NewSender(cfg Config) (*Sender, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = "https://api.resend.com"
	}
	hc, err := httpclient.NewWithBaseURL(base, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Sender{
		apiKey: strings.TrimSpace(cfg.APIKey),
		from:   strings.TrimSpace(cfg.From),
		http:   hc,
	}, nil
}

func (s *Sender) Enabled() bool {
	return s != nil && s.apiKey != ""
}

type attachment struct {
	Filename    string `json:"filename"`
	Content     string `json:"content"`
	ContentType string `json:"content_type,omitempty"`
}

type sendRequest struct {
	From        string       `json:"from"`
	To          []string     `json:"to"`
	Bcc         []string     `json:"bcc,omitempty"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"html,omitempty"`
	Text        string       `json:"text,omitempty"`
	Attachments []attachment `json:"attachments,omitempty"`
}

type sendResponse struct {
	ID string `json:"id"`
}

func (s *Sender) Send(ctx context.Context, msg notifications.Email) (string, error) {
	if !s.Enabled() {
		return "", notifications.ErrEmailDisabled
	}
	if len(msg.To) == 0 || strings.TrimSpace(msg.Subject) == "" {
		return "", ErrInvalidMessage
	}

	req := sendRequest{
		From:    s.from,
		To:      msg.To,
		Bcc:     msg.Bcc,
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	}
	for _, a := range msg.Attachments {
		req.Attachments = append(req.Attachments, attachment{
			Filename:    a.FileName,
			Content:     base64.StdEncoding.EncodeToString(a.Content),
			ContentType: a.ContentType,
		})
	}

	var out sendResponse
	err := s.http.DoJSON(ctx, http.MethodPost, "/emails", map[string]string{
		"Authorization": "Bearer " + s.apiKey,
	}, req, &out)
	if err != nil {
		return "", fmt.Errorf("resend: send: %w", err)
	}
	return out.ID, nil
}
