package patient

import (
	"context"
	"errors"

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

const cols = `usn, full_name, age, gender, contact, address`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.USN, &p.FullName, &p.Age, &p.Gender, &p.Contact, &p.Address)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patients (usn, full_name, age, gender, contact, address)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.USN, p.FullName, p.Age, p.Gender, p.Contact, p.Address)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return errs.ErrDuplicateIdentifier
	}
	if err != nil {
		return errs.Store(err)
	}
	return nil
}

func (r *repoPG) Update(ctx context.Context, p *Patient) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET full_name=$2, age=$3, gender=$4, contact=$5, address=$6
		WHERE usn=$1`,
		p.USN, p.FullName, p.Age, p.Gender, p.Contact, p.Address)
	if err != nil {
		return 0, errs.Store(err)
	}
	return tag.RowsAffected(), nil
}

func (r *repoPG) Delete(ctx context.Context, usn string) error {
	if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM patients WHERE usn=$1`, usn); err != nil {
		return errs.Store(err)
	}
	return nil
}

func (r *repoPG) GetByUSN(ctx context.Context, usn string) (*Patient, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM patients WHERE usn=$1`, usn))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrPatientNotFound
	}
	if err != nil {
		return nil, errs.Store(err)
	}
	return p, nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&total); err != nil {
		return nil, 0, errs.Store(err)
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+cols+` FROM patients ORDER BY lower(full_name) LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, errs.Store(err)
	}
	defer rows.Close()
	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, errs.Store(err)
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errs.Store(err)
	}
	return patients, total, nil
}

func (r *repoPG) Find(ctx context.Context, query string) (*Patient, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx, `
		SELECT `+cols+` FROM patients WHERE usn=$1 OR contact=$1`, query))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrPatientNotFound
	}
	if err != nil {
		return nil, errs.Store(err)
	}
	return p, nil
}
