package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hotel-reservations/internal/domain/occupancy"
	"hotel-reservations/internal/platform/dates"
)

type OccupancyRepo struct {
	db *sql.DB
}

func NewOccupancyRepo(db *sql.DB) *OccupancyRepo {
	return &OccupancyRepo{db: db}
}

func (r *OccupancyRepo) Upsert(ctx context.Context, ps []occupancy.Projection) (err error) {
	if len(ps) == 0 {
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

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO occupancy (hotel, fecha, disponibles, disponible_pct, updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (hotel, fecha) DO UPDATE
		SET disponibles = EXCLUDED.disponibles,
			disponible_pct = EXCLUDED.disponible_pct,
			updated_at = EXCLUDED.updated_at
	`)
	if err != nil {
		return fmt.Errorf("postgres: prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range ps {
		if _, err = stmt.ExecContext(ctx, p.Hotel, p.Date, p.Available, p.AvailablePct, p.UpdatedAt); err != nil {
			return fmt.Errorf("postgres: upsert occupancy: %w", err)
		}
	}
	return tx.Commit()
}

// Lookup cruza el lote de llaves con unnest en una sola consulta.
func (r *OccupancyRepo) Lookup(ctx context.Context, keys []occupancy.Key) (map[occupancy.Key]occupancy.Projection, error) {
	out := make(map[occupancy.Key]occupancy.Projection, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	hotels := make([]string, len(keys))
	days := make([]time.Time, len(keys))
	for i, k := range keys {
		hotels[i] = k.Hotel
		days[i] = k.Date.Time()
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT o.hotel, o.fecha, o.disponibles, o.disponible_pct, o.updated_at
		FROM occupancy o
		JOIN unnest($1::text[], $2::date[]) AS k(hotel, fecha)
		  ON o.hotel = k.hotel AND o.fecha = k.fecha
	`, hotels, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProjection(rows)
		if err != nil {
			return nil, err
		}
		out[p.Key()] = p
	}
	return out, rows.Err()
}

func (r *OccupancyRepo) ListRange(ctx context.Context, hotel string, from, to dates.Date) ([]occupancy.Projection, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT hotel, fecha, disponibles, disponible_pct, updated_at
		FROM occupancy
		WHERE ($1 = '' OR hotel = $1)
		  AND ($2::date IS NULL OR fecha >= $2)
		  AND ($3::date IS NULL OR fecha <= $3)
		ORDER BY hotel ASC, fecha ASC
		LIMIT 1000
	`, hotel, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]occupancy.Projection, 0)
	for rows.Next() {
		p, err := scanProjection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProjection(s rowScanner) (occupancy.Projection, error) {
	var p occupancy.Projection
	err := s.Scan(&p.Hotel, &p.Date, &p.Available, &p.AvailablePct, &p.UpdatedAt)
	return p, err
}
