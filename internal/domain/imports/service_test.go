package imports

import (
	"context"
	"errors"
	"strings"
	"testing"

	"hotel-reservations/internal/adapters/storage/memory"
	"hotel-reservations/internal/domain/confirmations"
	"hotel-reservations/internal/domain/occupancy"
	"hotel-reservations/internal/domain/pricing"
	"hotel-reservations/internal/domain/reservations"
	"hotel-reservations/internal/platform/dates"
)

type fakeConfirmer struct {
	sent []string
}

func (f *fakeConfirmer) Send(ctx context.Context, r reservations.Reservation, recipient string) (confirmations.Result, error) {
	f.sent = append(f.sent, r.AuthorizationNumber)
	return confirmations.Result{NumeroAutorizacion: r.AuthorizationNumber, Recipient: recipient, Demo: true}, nil
}

const uploadCSV = "NÚMERO DE AUTORIZACIÓN,NOMBRE COMPLETO,EDAD,HOTEL,FECHA DE INGRESO,FECHA DE SALIDA,COLUMNA EXTRA\n" +
	"AUT-1,Ana Pérez,45,Ilar 74,01/03/2024,03/03/2024,x\n" +
	",Sin número,30,Ilar 74,01/03/2024,02/03/2024,x\n" +
	"AUT-2,Luis Gómez,150,Ilar 74,01/03/2024,02/03/2024,x\n" +
	"AUT-3,Marta Ruiz,30,Ilar 74,01/03/2024,02/03/2024,x\n" +
	"AUT-3,Marta Ruiz,30,Ilar 74,01/03/2024,02/03/2024,x\n" +
	"AUT-OLD,Pedro Díaz,30,Ilar 74,01/03/2024,02/03/2024,x\n" +
	"AUT-5,Rosa León,30,Hotel Santa Mónica,10/03/2024,11/03/2024,x\n"

type uploadEnv struct {
	svc  *Service
	res  *reservations.Service
	conf *fakeConfirmer
}

func newUploadEnv(t *testing.T) uploadEnv {
	t.Helper()
	ctx := context.Background()
	prices := pricing.NewTable(nil)

	res := reservations.NewService(memory.NewReservationRepo(), prices)
	occ := occupancy.NewService(memory.NewOccupancyRepo(), prices)

	if _, err := res.Create(ctx, "u0", reservations.Details{AuthorizationNumber: "AUT-OLD", PatientName: "Pedro Díaz"}); err != nil {
		t.Fatalf("seed reservation: %v", err)
	}
	if _, err := occ.Upsert(ctx, []occupancy.Projection{{
		Hotel: "Santa Monica",
		Date:  dates.MustParse("2024-03-10"),
	}}); err != nil {
		t.Fatalf("seed occupancy: %v", err)
	}

	conf := &fakeConfirmer{}
	return uploadEnv{svc: NewService(res, occ, conf, nil), res: res, conf: conf}
}

func statusByRow(rep Report) map[int]RowOutcome {
	out := map[int]RowOutcome{}
	for _, r := range rep.Rows {
		out[r.Row] = r
	}
	return out
}

func TestUpload_Pipeline(t *testing.T) {
	env := newUploadEnv(t)
	ctx := context.Background()

	rep, err := env.svc.Upload(ctx, "u1", "reservas.csv", strings.NewReader(uploadCSV), UploadOptions{Recipient: "ops@example.com"})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	want := Counts{Total: 7, Inserted: 1, Dropped: 1, Invalid: 1, Rejected: 4, Emailed: 1}
	if rep.Counts != want {
		t.Fatalf("counts = %+v, want %+v", rep.Counts, want)
	}
	if len(rep.Columns) != 7 || rep.Columns[6].Status != StatusDropped {
		t.Fatalf("columns = %+v", rep.Columns)
	}

	rows := statusByRow(rep)
	checks := map[int]RowStatus{2: RowInserted, 3: RowDropped, 4: RowInvalid, 5: RowRejected, 6: RowRejected, 7: RowRejected, 8: RowRejected}
	for line, status := range checks {
		if rows[line].Status != status {
			t.Fatalf("fila %d = %+v, want %s", line, rows[line], status)
		}
	}
	if rows[8].Reasons[0] != ReasonNoAvailability {
		t.Fatalf("fila 8 reasons = %v", rows[8].Reasons)
	}
	if rows[2].Confirmation != "demo" || len(env.conf.sent) != 1 {
		t.Fatalf("confirmación = %q, sent = %v", rows[2].Confirmation, env.conf.sent)
	}

	got, err := env.res.Get(ctx, "AUT-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.TotalPrice == nil || *got.TotalPrice != 266512 || got.CreatedBy != "u1" {
		t.Fatalf("reserva = %+v", got)
	}
}

func TestUpload_DryRunDoesNotInsert(t *testing.T) {
	env := newUploadEnv(t)
	ctx := context.Background()

	rep, err := env.svc.Upload(ctx, "u1", "reservas.csv", strings.NewReader(uploadCSV), UploadOptions{DryRun: true, Recipient: "ops@example.com"})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if rep.Counts.Valid != 1 || rep.Counts.Inserted != 0 || !rep.DryRun {
		t.Fatalf("counts = %+v", rep.Counts)
	}
	if _, err := env.res.Get(ctx, "AUT-1"); !errors.Is(err, reservations.ErrNotFound) {
		t.Fatalf("dry run insertó: %v", err)
	}
	if len(env.conf.sent) != 0 {
		t.Fatalf("dry run envió correos: %v", env.conf.sent)
	}
}

func TestUpload_Errors(t *testing.T) {
	env := newUploadEnv(t)
	ctx := context.Background()

	if _, err := env.svc.Upload(ctx, "", "reservas.csv", strings.NewReader(uploadCSV), UploadOptions{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("sin usuario: %v", err)
	}
	if _, err := env.svc.Upload(ctx, "u1", "reservas.doc", strings.NewReader(uploadCSV), UploadOptions{}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("formato: %v", err)
	}
}
