package resend

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hotel-reservations/internal/ports/notifications"
)

func TestSend_PostsMessageWithAttachment(t *testing.T) {
	var got sendRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/emails" || r.Header.Get("Authorization") != "Bearer key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"id":"msg-1"}`))
	}))
	defer ts.Close()

	s, err := NewSender(Config{BaseURL: ts.URL, APIKey: "key", From: "reservas@example.com"})
	if err != nil {
		t.Fatalf("NewSender: %v", err)
	}

	id, err := s.Send(context.Background(), notifications.Email{
		To:      []string{"user@example.com"},
		Bcc:     []string{"ops@example.com"},
		Subject: "Confirmación AUT-1",
		HTML:    "<p>hola</p>",
		Attachments: []notifications.Attachment{
			{FileName: "confirmacion-reserva-AUT-1.pdf", ContentType: "application/pdf", Content: []byte("%PDF")},
		},
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if id != "msg-1" {
		t.Fatalf("unexpected id %q", id)
	}
	if got.From != "reservas@example.com" || len(got.Bcc) != 1 || len(got.Attachments) != 1 {
		t.Fatalf("unexpected request %#v", got)
	}
	raw, _ := base64.StdEncoding.DecodeString(got.Attachments[0].Content)
	if string(raw) != "%PDF" {
		t.Fatalf("attachment must be base64, got %q", got.Attachments[0].Content)
	}
}

func TestSend_DisabledWithoutKey(t *testing.T) {
	s, _ := NewSender(Config{})
	if _, err := s.Send(context.Background(), notifications.Email{To: []string{"a@b.co"}, Subject: "x"}); !errors.Is(err, notifications.ErrEmailDisabled) {
		t.Fatalf("expected ErrEmailDisabled, got %v", err)
	}
}
