package imports

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"hotel-reservations/internal/domain/confirmations"
	"hotel-reservations/internal/domain/occupancy"
	"hotel-reservations/internal/domain/reservations"
	"hotel-reservations/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type RowStatus string

const (
	RowInserted RowStatus = "inserted"
	// RowValid: pasó todas las validaciones en un dry run.
	RowValid    RowStatus = "valid"
	RowDropped  RowStatus = "dropped"
	RowInvalid  RowStatus = "invalid"
	RowRejected RowStatus = "rejected"
)

type RowOutcome struct {
	Row                int       `json:"row"`
	NumeroAutorizacion string    `json:"numero_autorizacion,omitempty"`
	Status             RowStatus `json:"status"`
	Reasons            []string  `json:"reasons,omitempty"`
	// Confirmation: "sent", "demo" o "failed" cuando se intentó enviar el correo.
	Confirmation string `json:"confirmation,omitempty"`
}

type Counts struct {
	Total    int `json:"total"`
	Inserted int `json:"inserted"`
	Valid    int `json:"valid"`
	Dropped  int `json:"dropped"`
	Invalid  int `json:"invalid"`
	Rejected int `json:"rejected"`
	Emailed  int `json:"emailed"`
}

type Report struct {
	BatchID    string          `json:"batch_id"`
	FileName   string          `json:"file_name"`
	DryRun     bool            `json:"dry_run"`
	Columns    []ColumnOutcome `json:"columns"`
	Rows       []RowOutcome    `json:"rows"`
	Counts     Counts          `json:"counts"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
}

// Confirmer envía la confirmación (voucher + correo) de una reserva insertada.
type Confirmer interface {
	Send(ctx context.Context, r reservations.Reservation, recipient string) (confirmations.Result, error)
}

type Service struct {
	reservations *reservations.Service
	validator    *Validator
	confirmer    Confirmer
	log          logger.Logger
	now          func() time.Time
}

// NewService: occ y confirmer son opcionales.
func NewService(res *reservations.Service, occ *occupancy.Service, confirmer Confirmer, log logger.Logger) *Service {
	var availability AvailabilityLookup
	if occ != nil {
		availability = occ
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		reservations: res,
		validator:    NewValidator(res, availability),
		confirmer:    confirmer,
		log:          log,
		now:          time.Now,
	}
}

type UploadOptions struct {
	DryRun bool
	// Recipient recibe el correo de confirmación de cada reserva creada; vacío = no se envía.
	Recipient string
}

// Upload es el único camino del cargue masivo:
// leer, mapear columnas, transformar, validar (básica y avanzada), insertar en lote y confirmar.
func (s *Service) Upload(ctx context.Context, userID, fileName string, r io.Reader, opts UploadOptions) (Report, error) {
	if strings.TrimSpace(userID) == "" {
		return Report{}, fmt.Errorf("%w: user is required", ErrInvalidInput)
	}

	rep := Report{
		BatchID:   uuid.NewString(),
		FileName:  fileName,
		DryRun:    opts.DryRun,
		StartedAt: s.now(),
	}
	log := logger.FromContext(ctx, s.log).With(map[string]any{
		"batch_id": rep.BatchID,
		"file":     fileName,
	})

	table, err := Read(fileName, r)
	if err != nil {
		return Report{}, err
	}

	cols := ResolveColumns(table.Headers)
	rep.Columns = cols.Outcomes
	for _, c := range cols.Dropped() {
		log.Warn("column dropped", map[string]any{
			"index":  c.Index,
			"header": c.Header,
			"reason": c.Reason,
		})
	}

	records, dropped := TransformAll(table, cols, userID)
	rep.Rows = append(rep.Rows, dropped...)

	basic := ValidateBasic(records)
	for _, inv := range basic.Invalid {
		rep.Rows = append(rep.Rows, RowOutcome{
			Row:                inv.Row,
			NumeroAutorizacion: inv.NumeroAutorizacion,
			Status:             RowInvalid,
			Reasons:            inv.Reasons,
		})
	}

	adv := s.validator.ValidateAdvanced(ctx, basic.Valid)
	for _, rej := range adv.Rejected {
		log.Info("row rejected", map[string]any{
			"row":                 rej.Row,
			"numero_autorizacion": rej.NumeroAutorizacion,
			"reasons":             strings.Join(rej.Reasons, "; "),
		})
		rep.Rows = append(rep.Rows, RowOutcome{
			Row:                rej.Row,
			NumeroAutorizacion: rej.NumeroAutorizacion,
			Status:             RowRejected,
			Reasons:            rej.Reasons,
		})
	}

	if opts.DryRun {
		for _, rec := range adv.Valid {
			rep.Rows = append(rep.Rows, RowOutcome{
				Row:                rec.Row,
				NumeroAutorizacion: rec.AuthorizationNumber,
				Status:             RowValid,
			})
		}
		return s.finish(rep, len(table.Rows), log), nil
	}

	batch := make([]reservations.Reservation, 0, len(adv.Valid))
	rows := make([]int, 0, len(adv.Valid))
	for _, rec := range adv.Valid {
		batch = append(batch, rec.Reservation())
		rows = append(rows, rec.Row)
	}

	inserted, err := s.reservations.CreateBatch(ctx, userID, batch)
	if err != nil {
		log.Error("batch insert failed", map[string]any{"err": err, "rows": len(batch)})
		return Report{}, fmt.Errorf("insert batch: %w", err)
	}

	for i, res := range inserted {
		out := RowOutcome{
			Row:                rows[i],
			NumeroAutorizacion: res.AuthorizationNumber,
			Status:             RowInserted,
		}
		out.Confirmation = s.confirm(ctx, log, res, opts.Recipient)
		rep.Rows = append(rep.Rows, out)
	}

	return s.finish(rep, len(table.Rows), log), nil
}

// confirm es best effort: un fallo queda en el reporte y en el log, no revierte la inserción.
func (s *Service) confirm(ctx context.Context, log logger.Logger, res reservations.Reservation, recipient string) string {
	if s.confirmer == nil || strings.TrimSpace(recipient) == "" {
		return ""
	}
	result, err := s.confirmer.Send(ctx, res, recipient)
	if err != nil {
		log.Warn("confirmation failed", map[string]any{
			"numero_autorizacion": res.AuthorizationNumber,
			"err":                 err,
		})
		return "failed"
	}
	if result.Demo {
		return "demo"
	}
	return "sent"
}

func (s *Service) finish(rep Report, total int, log logger.Logger) Report {
	sort.SliceStable(rep.Rows, func(i, j int) bool { return rep.Rows[i].Row < rep.Rows[j].Row })
	if rep.Rows == nil {
		rep.Rows = []RowOutcome{}
	}

	c := Counts{Total: total}
	for _, r := range rep.Rows {
		switch r.Status {
		case RowInserted:
			c.Inserted++
		case RowValid:
			c.Valid++
		case RowDropped:
			c.Dropped++
		case RowInvalid:
			c.Invalid++
		case RowRejected:
			c.Rejected++
		}
		if r.Confirmation == "sent" || r.Confirmation == "demo" {
			c.Emailed++
		}
	}
	rep.Counts = c
	rep.FinishedAt = s.now()

	log.Info("import finished", map[string]any{
		"dry_run":  rep.DryRun,
		"total":    c.Total,
		"inserted": c.Inserted,
		"valid":    c.Valid,
		"dropped":  c.Dropped,
		"invalid":  c.Invalid,
		"rejected": c.Rejected,
	})
	return rep
}
