package notifications

import (
	"context"
	"errors"
)

// ErrEmailDisabled: no hay credencial del proveedor; el llamador responde en modo demo.
var ErrEmailDisabled = errors.New("email provider not configured")

type Attachment struct {
	FileName    string
	ContentType string
	Content     []byte
}

type Email struct {
	To          []string
	Bcc         []string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

// EmailSender envía un correo y devuelve el id asignado por el proveedor.
type EmailSender interface {
	Send(ctx context.Context, msg Email) (string, error)
}
