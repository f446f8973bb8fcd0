package encounter

import (
	"context"

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

func (r *repoPG) Create(ctx context.Context, e *Encounter) error {
	e.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO encounters (id, usn, encounter_dt, encounter_type, clinician, reason, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		e.ID, e.USN, e.EncounterDT, e.Type, e.Clinician, e.Reason, e.Notes)
	if err != nil {
		return errs.Store(err)
	}
	return nil
}

func (r *repoPG) list(ctx context.Context, query string, args ...interface{}) ([]*Encounter, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, errs.Store(err)
	}
	defer rows.Close()
	var result []*Encounter
	for rows.Next() {
		var e Encounter
		if err := rows.Scan(&e.ID, &e.USN, &e.EncounterDT, &e.Type, &e.Clinician, &e.Reason, &e.Notes); err != nil {
			return nil, errs.Store(err)
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(err)
	}
	return result, nil
}

func (r *repoPG) ListByPatient(ctx context.Context, usn string) ([]*Encounter, error) {
	return r.list(ctx, `
		SELECT id, usn, encounter_dt, encounter_type, clinician, reason, notes
		FROM encounters WHERE usn=$1 ORDER BY encounter_dt DESC`, usn)
}

func (r *repoPG) ListAll(ctx context.Context, limit int) ([]*Encounter, error) {
	return r.list(ctx, `
		SELECT id, usn, encounter_dt, encounter_type, clinician, reason, notes
		FROM encounters ORDER BY encounter_dt DESC LIMIT $1`, limit)
}
