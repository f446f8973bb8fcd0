package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hmis/hmis/internal/domain/errs"
	"github.com/hmis/hmis/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *repoPG) PatientExists(ctx context.Context, usn string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM patients WHERE usn=$1)`, usn).Scan(&exists)
	if err != nil {
		return false, errs.Store(err)
	}
	return exists, nil
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointments (id, usn, starts_at, ends_at, status, title, clinician, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.USN, a.StartsAt, a.EndsAt, a.Status, a.Title, a.Clinician, a.Notes)
	if err != nil {
		return errs.Store(err)
	}
	return nil
}

func (r *repoPG) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET
			starts_at = COALESCE($2, starts_at),
			ends_at   = COALESCE($3, ends_at),
			status    = COALESCE($4, status),
			title     = COALESCE($5, title),
			clinician = COALESCE($6, clinician),
			notes     = COALESCE($7, notes)
		WHERE id=$1`,
		id, in.StartsAt, in.EndsAt, in.Status, in.Title, in.Clinician, in.Notes)
	if err != nil {
		return 0, errs.Store(err)
	}
	return tag.RowsAffected(), nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointments WHERE id=$1`, id)
	if err != nil {
		return errs.Store(err)
	}
	return nil
}

func (r *repoPG) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	var a Appointment
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, usn, starts_at, ends_at, status, title, clinician, notes
		FROM appointments WHERE id=$1`, id).
		Scan(&a.ID, &a.USN, &a.StartsAt, &a.EndsAt, &a.Status, &a.Title, &a.Clinician, &a.Notes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, errs.Store(err)
	}
	return &a, nil
}

func (r *repoPG) list(ctx context.Context, query string, args ...interface{}) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, errs.Store(err)
	}
	defer rows.Close()
	var result []*Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.USN, &a.StartsAt, &a.EndsAt, &a.Status, &a.Title, &a.Clinician, &a.Notes); err != nil {
			return nil, errs.Store(err)
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(err)
	}
	return result, nil
}

func (r *repoPG) ListByPatient(ctx context.Context, usn string) ([]*Appointment, error) {
	return r.list(ctx, `
		SELECT id, usn, starts_at, ends_at, status, title, clinician, notes
		FROM appointments WHERE usn=$1 ORDER BY starts_at DESC`, usn)
}

func (r *repoPG) ListAll(ctx context.Context, limit int) ([]*Appointment, error) {
	return r.list(ctx, `
		SELECT id, usn, starts_at, ends_at, status, title, clinician, notes
		FROM appointments ORDER BY starts_at DESC LIMIT $1`, limit)
}
