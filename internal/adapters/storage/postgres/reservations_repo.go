package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hotel-reservations/internal/domain/reservations"
)

// Orden de columnas compartido por INSERT, UPDATE y SELECT.
var reservationColumns = []string{
	"id",
	"numero_autorizacion",
	"nombre_completo",
	"tipo_documento",
	"numero_documento",
	"edad",
	"regimen",
	"descripcion_servicio",
	"destino",
	"ciudad_origen",
	"cantidad_servicios",
	"correo",
	"numero_contacto",
	"requiere_acompanante",
	"nombre_acompanante",
	"tipo_documento_acompanante",
	"numero_documento_acompanante",
	"parentesco_acompanante",
	"fecha_cita",
	"hora_cita",
	"fecha_ultima_cita",
	"fecha_ingreso",
	"fecha_salida",
	"hotel",
	"pos",
	"observaciones",
	"valor_total",
	"activo",
	"creado_por",
	"cancelado_por",
	"fecha_cancelacion",
	"created_at",
	"updated_at",
}

var (
	selectReservation = "SELECT " + strings.Join(reservationColumns, ", ") + " FROM informs"
	insertReservation = buildInsert()
	updateReservation = buildUpdate()
)

func buildInsert() string {
	ph := make([]string, len(reservationColumns))
	for i := range reservationColumns {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	return "INSERT INTO informs (" + strings.Join(reservationColumns, ", ") + ") VALUES (" + strings.Join(ph, ",") + ")"
}

// Columnas que el UPDATE nunca toca.
var immutableColumns = map[string]bool{
	"id":                  true,
	"numero_autorizacion": true,
	"creado_por":          true,
	"created_at":          true,
}

// buildUpdate numera los SET de forma contigua ($1..$n) y deja numero_autorizacion en $n+1.
// Los argumentos salen de updateArgs.
func buildUpdate() string {
	sets := make([]string, 0, len(reservationColumns))
	for _, c := range reservationColumns {
		if immutableColumns[c] {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", c, len(sets)+1))
	}
	return "UPDATE informs SET " + strings.Join(sets, ", ") +
		fmt.Sprintf(" WHERE numero_autorizacion = $%d", len(sets)+1)
}

type ReservationsRepo struct {
	db *sql.DB
}

func NewReservationsRepo(db *sql.DB) *ReservationsRepo {
	return &ReservationsRepo{db: db}
}

func (r *ReservationsRepo) Create(ctx context.Context, res reservations.Reservation) error {
	_, err := r.db.ExecContext(ctx, insertReservation, reservationArgs(res)...)
	if isUniqueViolation(err) {
		return reservations.ErrDuplicate
	}
	return err
}

// CreateBatch inserta en una sola transacción; cualquier error revierte el lote completo.
func (r *ReservationsRepo) CreateBatch(ctx context.Context, rs []reservations.Reservation) (err error) {
	if len(rs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, insertReservation)
	if err != nil {
		return fmt.Errorf("postgres: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, res := range rs {
		if _, err = stmt.ExecContext(ctx, reservationArgs(res)...); err != nil {
			if isUniqueViolation(err) {
				err = fmt.Errorf("%w: %s", reservations.ErrDuplicate, res.AuthorizationNumber)
				return err
			}
			return fmt.Errorf("postgres: insert %s: %w", res.AuthorizationNumber, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func (r *ReservationsRepo) Update(ctx context.Context, res reservations.Reservation) error {
	out, err := r.db.ExecContext(ctx, updateReservation, updateArgs(res)...)
	if err != nil {
		return err
	}
	n, _ := out.RowsAffected()
	if n == 0 {
		return reservations.ErrNotFound
	}
	return nil
}

func (r *ReservationsRepo) GetByAuthorization(ctx context.Context, numero string) (reservations.Reservation, error) {
	numero = strings.TrimSpace(numero)
	if numero == "" {
		return reservations.Reservation{}, reservations.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, selectReservation+" WHERE numero_autorizacion = $1", numero)
	res, err := scanReservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return reservations.Reservation{}, reservations.ErrNotFound
	}
	return res, err
}

func (r *ReservationsRepo) List(ctx context.Context, f reservations.ListFilter) ([]reservations.Reservation, int, error) {
	f = f.Normalize()

	where := `
		WHERE ($1 OR activo)
		  AND ($2 = '' OR nombre_completo ILIKE $3 OR numero_autorizacion ILIKE $3 OR nombre_acompanante ILIKE $3)
	`
	q := strings.TrimSpace(f.Query)
	like := "%" + escapeLike(q) + "%"

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM informs"+where, f.IncludeInactive, q, like).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		selectReservation+where+" ORDER BY created_at DESC, numero_autorizacion ASC LIMIT $4 OFFSET $5",
		f.IncludeInactive, q, like, f.Limit, f.Offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]reservations.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, res)
	}
	return out, total, rows.Err()
}

// ExistingAuthorizations consulta el lote completo con ANY($1).
func (r *ReservationsRepo) ExistingAuthorizations(ctx context.Context, numeros []string) (map[string]bool, error) {
	out := make(map[string]bool, len(numeros))
	if len(numeros) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT numero_autorizacion
		FROM informs
		WHERE numero_autorizacion = ANY($1)
	`, numeros)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out[n] = true
	}
	return out, rows.Err()
}

func reservationArgs(res reservations.Reservation) []any {
	return []any{
		res.ID,
		res.AuthorizationNumber,
		nullString(res.PatientName),
		nullString(res.DocumentType),
		nullInt64(res.DocumentNumber),
		nullInt(res.Age),
		nullString(res.Regimen),
		nullString(res.ServiceDescription),
		nullString(res.Destination),
		nullString(res.OriginCity),
		nullInt(res.AuthorizedServices),
		nullString(res.Email),
		nullInt64(res.ContactNumber),
		nullBool(res.RequiresCompanion),
		nullString(res.CompanionName),
		nullString(res.CompanionDocumentType),
		nullString(res.CompanionDocumentNumber),
		nullString(res.CompanionRelationship),
		res.AppointmentDate,
		nullString(res.AppointmentTime),
		res.LastAppointmentDate,
		res.CheckIn,
		res.CheckOut,
		nullString(res.Hotel),
		nullBool(res.POS),
		nullString(res.Observations),
		nullInt64(res.TotalPrice),
		res.Active,
		res.CreatedBy,
		nullString(res.CancelledBy),
		nullTime(res.CancelledAt),
		res.CreatedAt,
		res.UpdatedAt,
	}
}

// updateArgs sigue el orden de buildUpdate.
func updateArgs(res reservations.Reservation) []any {
	all := reservationArgs(res)
	out := make([]any, 0, len(all))
	for i, c := range reservationColumns {
		if immutableColumns[c] {
			continue
		}
		out = append(out, all[i])
	}
	return append(out, res.AuthorizationNumber)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(s rowScanner) (reservations.Reservation, error) {
	var (
		res reservations.Reservation

		patientName, docType, regimen, service, destination, origin     sql.NullString
		email, compName, compDocType, compDoc, compRel, apptTime, hotel sql.NullString
		observations, cancelledBy                                       sql.NullString
		docNumber, age, services, contact, total                        sql.NullInt64
		requiresCompanion, pos                                          sql.NullBool
		cancelledAt                                                     sql.NullTime
	)

	err := s.Scan(
		&res.ID,
		&res.AuthorizationNumber,
		&patientName,
		&docType,
		&docNumber,
		&age,
		&regimen,
		&service,
		&destination,
		&origin,
		&services,
		&email,
		&contact,
		&requiresCompanion,
		&compName,
		&compDocType,
		&compDoc,
		&compRel,
		&res.AppointmentDate,
		&apptTime,
		&res.LastAppointmentDate,
		&res.CheckIn,
		&res.CheckOut,
		&hotel,
		&pos,
		&observations,
		&total,
		&res.Active,
		&res.CreatedBy,
		&cancelledBy,
		&cancelledAt,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return reservations.Reservation{}, err
	}

	res.PatientName = patientName.String
	res.DocumentType = docType.String
	res.DocumentNumber = int64Ptr(docNumber)
	res.Age = intPtr(age)
	res.Regimen = regimen.String
	res.ServiceDescription = service.String
	res.Destination = destination.String
	res.OriginCity = origin.String
	res.AuthorizedServices = intPtr(services)
	res.Email = email.String
	res.ContactNumber = int64Ptr(contact)
	res.RequiresCompanion = boolPtr(requiresCompanion)
	res.CompanionName = compName.String
	res.CompanionDocumentType = compDocType.String
	res.CompanionDocumentNumber = compDoc.String
	res.CompanionRelationship = compRel.String
	res.AppointmentTime = apptTime.String
	res.Hotel = hotel.String
	res.POS = boolPtr(pos)
	res.Observations = observations.String
	res.TotalPrice = int64Ptr(total)
	res.CancelledBy = cancelledBy.String
	res.CancelledAt = timePtr(cancelledAt)

	return res, nil
}

// escapeLike evita que % y _ del usuario actúen como comodines.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
