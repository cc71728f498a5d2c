package confirmations

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"hotel-reservations/internal/domain/reservations"
	"hotel-reservations/internal/domain/vouchers"
	"hotel-reservations/internal/platform/logger"
	"hotel-reservations/internal/ports/notifications"
)

var (
	ErrNoRecipient = errors.New("recipient email is required")
)

// VoucherBuilder genera el PDF adjunto.
type VoucherBuilder interface {
	Build(ctx context.Context, r reservations.Reservation) ([]byte, error)
}

type Result struct {
	NumeroAutorizacion string `json:"numero_autorizacion"`
	Recipient          string `json:"recipient"`
	FileName           string `json:"file_name"`
	MessageID          string `json:"message_id,omitempty"`
	// Demo: no hay credencial del proveedor; el correo no salió pero no es un error.
	Demo bool `json:"demo"`
}

type Service struct {
	vouchers   VoucherBuilder
	email      notifications.EmailSender
	events     notifications.Publisher
	operations string
	log        logger.Logger
	now        func() time.Time
}

// NewService: email y events pueden ser nil (modo demo / sin broker).
// operationsEmail va en copia oculta de cada confirmación.
func NewService(vb VoucherBuilder, email notifications.EmailSender, events notifications.Publisher, operationsEmail string, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		vouchers:   vb,
		email:      email,
		events:     events,
		operations: strings.TrimSpace(operationsEmail),
		log:        log,
		now:        time.Now,
	}
}

// Send genera el voucher, lo envía por correo y publica reservation.confirmed.
func (s *Service) Send(ctx context.Context, r reservations.Reservation, recipient string) (Result, error) {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return Result{}, ErrNoRecipient
	}

	pdf, err := s.vouchers.Build(ctx, r)
	if err != nil {
		return Result{}, fmt.Errorf("build voucher: %w", err)
	}

	res := Result{
		NumeroAutorizacion: r.AuthorizationNumber,
		Recipient:          recipient,
		FileName:           vouchers.FileName(r.AuthorizationNumber),
	}
	log := logger.FromContext(ctx, s.log).With(map[string]any{
		"numero_autorizacion": r.AuthorizationNumber,
	})

	msg := notifications.Email{
		To:      []string{recipient},
		Subject: Subject(r.AuthorizationNumber),
		HTML:    htmlBody(r),
		Text:    textBody(r),
		Attachments: []notifications.Attachment{{
			FileName:    res.FileName,
			ContentType: "application/pdf",
			Content:     pdf,
		}},
	}
	if s.operations != "" && !strings.EqualFold(s.operations, recipient) {
		msg.Bcc = []string{s.operations}
	}

	if s.email == nil {
		res.Demo = true
	} else {
		id, err := s.email.Send(ctx, msg)
		switch {
		case errors.Is(err, notifications.ErrEmailDisabled):
			res.Demo = true
		case err != nil:
			log.Error("confirmation email failed", map[string]any{"err": err})
			return Result{}, fmt.Errorf("send email: %w", err)
		default:
			res.MessageID = id
		}
	}
	if res.Demo {
		log.Info("confirmation email skipped (demo mode)", nil)
	}

	s.publish(ctx, log, r, res)
	return res, nil
}

func (s *Service) publish(ctx context.Context, log logger.Logger, r reservations.Reservation, res Result) {
	if s.events == nil {
		return
	}
	err := s.events.Publish(ctx, notifications.Event{
		Type:       notifications.EventReservationConfirmed,
		Key:        r.AuthorizationNumber,
		OccurredAt: s.now(),
		Payload: map[string]any{
			"numero_autorizacion": r.AuthorizationNumber,
			"hotel":               r.Hotel,
			"fecha_ingreso":       r.CheckIn,
			"fecha_salida":        r.CheckOut,
			"valor_total":         r.TotalPrice,
			"recipient":           res.Recipient,
			"demo":                res.Demo,
		},
	})
	if err != nil {
		log.Warn("publish reservation.confirmed failed", map[string]any{"err": err})
	}
}

func Subject(numero string) string {
	return "Confirmación de reserva - Autorización " + strings.TrimSpace(numero)
}

func textBody(r reservations.Reservation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hola,\n\nAdjuntamos la confirmación de la reserva con autorización %s.\n", r.AuthorizationNumber)
	fmt.Fprintf(&b, "Huésped: %s\n", r.PatientName)
	if r.Hotel != "" {
		fmt.Fprintf(&b, "Hotel: %s\n", r.Hotel)
	}
	if !r.CheckIn.IsZero() {
		fmt.Fprintf(&b, "Ingreso: %s\n", r.CheckIn.Display())
	}
	if !r.CheckOut.IsZero() {
		fmt.Fprintf(&b, "Salida: %s\n", r.CheckOut.Display())
	}
	return b.String()
}

func htmlBody(r reservations.Reservation) string {
	var b strings.Builder
	b.WriteString("<p>Hola,</p>")
	fmt.Fprintf(&b, "<p>Adjuntamos la confirmación de la reserva con autorización <strong>%s</strong>.</p><ul>",
		html.EscapeString(r.AuthorizationNumber))
	fmt.Fprintf(&b, "<li>Huésped: %s</li>", html.EscapeString(r.PatientName))
	if r.Hotel != "" {
		fmt.Fprintf(&b, "<li>Hotel: %s</li>", html.EscapeString(r.Hotel))
	}
	if !r.CheckIn.IsZero() {
		fmt.Fprintf(&b, "<li>Ingreso: %s</li>", r.CheckIn.Display())
	}
	if !r.CheckOut.IsZero() {
		fmt.Fprintf(&b, "<li>Salida: %s</li>", r.CheckOut.Display())
	}
	b.WriteString("</ul>")
	return b.String()
}
