package vouchers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"hotel-reservations/internal/domain/pricing"
	"hotel-reservations/internal/domain/reservations"
	"hotel-reservations/internal/platform/httpclient"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultInclusions siempre aparece en Observaciones.
const DefaultInclusions = "Incluye alojamiento, desayuno, almuerzo y cena. Check-in 3:00 p.m. / Check-out 1:00 p.m."

// LogoTimeout limita la descarga de cada logo remoto.
const LogoTimeout = 10 * time.Second

var ErrMissingAuthorization = errors.New("reservation has no numero_autorizacion")

// FileName es el nombre del adjunto / descarga.
func FileName(numero string) string {
	return "confirmacion-reserva-" + strings.TrimSpace(numero) + ".pdf"
}

type Config struct {
	// LogoLeft y LogoRight: ruta local o URL http(s). Vacío = recuadro vacío.
	LogoLeft  string
	LogoRight string
}

type Builder struct {
	cfg    Config
	prices *pricing.Table
	http   *httpclient.Client
	now    func() time.Time
}

func NewBuilder(cfg Config, prices *pricing.Table, client *httpclient.Client) *Builder {
	if prices == nil {
		prices = pricing.NewTable(nil)
	}
	if client == nil {
		client = httpclient.New(LogoTimeout)
	}
	return &Builder{
		cfg:    cfg,
		prices: prices,
		http:   client,
		now:    time.Now,
	}
}

const (
	pageMargin  = 15.0
	contentW    = 180.0
	labelW      = 60.0
	lineH       = 6.0
	logoW       = 40.0
	logoH       = 20.0
	sectionGapH = 5.0
)

// Build genera el voucher de una página (A4).
func (b *Builder) Build(ctx context.Context, r reservations.Reservation) ([]byte, error) {
	if strings.TrimSpace(r.AuthorizationNumber) == "" {
		return nil, ErrMissingAuthorization
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.SetTitle("Confirmación de reserva "+r.AuthorizationNumber, true)
	pdf.SetCreator("hotel-reservations", true)
	pdf.SetCreationDate(b.now())
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	b.drawLogo(ctx, pdf, "logo-left", b.cfg.LogoLeft, pageMargin)
	b.drawLogo(ctx, pdf, "logo-right", b.cfg.LogoRight, pageMargin+contentW-logoW)

	pdf.SetXY(pageMargin, pageMargin+logoH+8)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr("CONFIRMACIÓN DE RESERVA"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, tr("Autorización N° "+r.AuthorizationNumber), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 6, tr("Fecha de emisión: "+b.now().Format("02/01/2006")), "", 1, "C", false, 0, "")
	pdf.Ln(sectionGapH)

	quote, quoteErr := b.prices.Quote(r.Hotel, pricing.Occupants(r.HasCompanion()), r.CheckIn, r.CheckOut)

	b.section(pdf, tr, "Información del huésped", guestRows(r))
	b.section(pdf, tr, "Detalles de la reserva", detailRows(r, quote, quoteErr == nil))

	obs := DefaultInclusions
	if o := strings.TrimSpace(r.Observations); o != "" {
		obs += "\n" + o
	}
	b.section(pdf, tr, "Observaciones", [][2]string{{"", obs}})

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("vouchers: render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func guestRows(r reservations.Reservation) [][2]string {
	doc := strings.TrimSpace(r.DocumentType + " " + int64String(r.DocumentNumber))
	rows := [][2]string{
		{"Nombre", r.PatientName},
		{"Documento", doc},
		{"Edad", intString(r.Age)},
		{"Teléfono", int64String(r.ContactNumber)},
		{"Correo", r.Email},
		{"Ciudad de origen", r.OriginCity},
	}
	if r.HasCompanion() {
		comp := r.CompanionName
		if d := strings.TrimSpace(r.CompanionDocumentType + " " + r.CompanionDocumentNumber); d != "" {
			comp += " (" + d + ")"
		}
		if r.CompanionRelationship != "" {
			comp += " - " + r.CompanionRelationship
		}
		rows = append(rows, [2]string{"Acompañante", comp})
	}
	return rows
}

func detailRows(r reservations.Reservation, q pricing.Quote, quoted bool) [][2]string {
	occupants := pricing.Occupants(r.HasCompanion())
	hotel := r.Hotel
	if quoted {
		hotel = q.Hotel.Name
		if q.Hotel.City != "" {
			hotel += ", " + q.Hotel.City
		}
	}

	total := ""
	switch {
	case r.TotalPrice != nil:
		total = FormatCOP(*r.TotalPrice)
	case quoted:
		total = FormatCOP(q.Total)
	}

	rows := [][2]string{
		{"Cliente", r.PatientName},
		{"Hotel", hotel},
		{"Fecha de llegada", r.CheckIn.Display()},
		{"Fecha de salida", r.CheckOut.Display()},
	}
	if quoted {
		rows = append(rows, [2]string{"Noches", fmt.Sprintf("%d", q.Nights)})
	}
	rows = append(rows,
		[2]string{"Tipo de habitación", RoomType(occupants)},
		[2]string{"Número de personas", fmt.Sprintf("%d", occupants)},
		[2]string{"Incluye", "Alojamiento y alimentación completa"},
		[2]string{"Forma de pago", "Crédito - autorización " + r.AuthorizationNumber},
		[2]string{"Valor total", total},
	)
	return rows
}

// section dibuja un título y una tabla con borde; filas con label vacío ocupan todo el ancho.
func (b *Builder) section(pdf *fpdf.Fpdf, tr func(string) string, title string, rows [][2]string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(225, 233, 242)
	pdf.CellFormat(contentW, 8, tr(title), "1", 1, "L", true, 0, "")

	for _, row := range rows {
		label, value := tr(row[0]), tr(row[1])
		if value == "" {
			value = "-"
		}

		pdf.SetFont("Helvetica", "", 10)
		if label == "" {
			pdf.MultiCell(contentW, lineH, value, "1", "L", false)
			continue
		}

		lines := pdf.SplitText(value, contentW-labelW-2)
		h := lineH * float64(max(1, len(lines)))

		x, y := pdf.GetXY()
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(labelW, h, label, "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetXY(x+labelW, y)
		pdf.MultiCell(contentW-labelW, lineH, value, "1", "L", false)
		pdf.SetXY(x, y+h)
	}
	pdf.Ln(sectionGapH)
}

// drawLogo dibuja el logo o, si no se puede cargar, un recuadro vacío.
func (b *Builder) drawLogo(ctx context.Context, pdf *fpdf.Fpdf, name, src string, x float64) {
	data, imgType, err := b.loadLogo(ctx, src)
	if err != nil || imgType == "" {
		pdf.SetDrawColor(180, 180, 180)
		pdf.Rect(x, pageMargin, logoW, logoH, "D")
		pdf.SetDrawColor(0, 0, 0)
		return
	}

	opts := fpdf.ImageOptions{ImageType: imgType, ReadDpi: true}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if !pdf.Ok() {
		// Una imagen corrupta no debe invalidar el documento.
		pdf.ClearError()
		pdf.Rect(x, pageMargin, logoW, logoH, "D")
		return
	}
	pdf.ImageOptions(name, x, pageMargin, logoW, 0, false, opts, 0, "")
}

func (b *Builder) loadLogo(ctx context.Context, src string) ([]byte, string, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, "", errors.New("no logo")
	}

	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		ctx, cancel := context.WithTimeout(ctx, LogoTimeout)
		defer cancel()
		data, _, err = b.http.GetBytes(ctx, src, nil)
	} else {
		data, err = os.ReadFile(src)
	}
	if err != nil {
		return nil, "", err
	}
	return data, imageType(data), nil
}

func imageType(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return "PNG"
	case "image/jpeg":
		return "JPG"
	case "image/gif":
		return "GIF"
	default:
		return ""
	}
}

// RoomType según ocupantes.
func RoomType(occupants int) string {
	switch {
	case occupants >= 3:
		return "Triple"
	case occupants == 2:
		return "Doble"
	default:
		return "Sencilla"
	}
}

// FormatCOP formatea pesos con separador de miles: 266512 -> "$ 266.512".
func FormatCOP(v int64) string {
	return message.NewPrinter(language.Spanish).Sprintf("$ %d", v)
}

func intString(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func int64String(v *int64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}
