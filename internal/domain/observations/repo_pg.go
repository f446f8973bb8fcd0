package observations

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

const vitalsCols = `id, usn, weight, height, blood_pressure_systolic, blood_pressure_diastolic,
	heart_rate, temperature, respiratory_rate, oxygen_saturation, notes, recorded_at, recorded_by`

func scanVitals(row pgx.Row) (*VitalsRecord, error) {
	var v VitalsRecord
	err := row.Scan(&v.ID, &v.USN, &v.Weight, &v.Height, &v.BloodPressureSystolic, &v.BloodPressureDiastolic,
		&v.HeartRate, &v.Temperature, &v.RespiratoryRate, &v.OxygenSaturation, &v.Notes, &v.RecordedAt, &v.RecordedBy)
	return &v, err
}

func (r *repoPG) CreateVitals(ctx context.Context, v *VitalsRecord) error {
	v.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO vitals (id, usn, weight, height, blood_pressure_systolic, blood_pressure_diastolic,
			heart_rate, temperature, respiratory_rate, oxygen_saturation, notes, recorded_at, recorded_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		v.ID, v.USN, v.Weight, v.Height, v.BloodPressureSystolic, v.BloodPressureDiastolic,
		v.HeartRate, v.Temperature, v.RespiratoryRate, v.OxygenSaturation, v.Notes, v.RecordedAt, v.RecordedBy)
	if err != nil {
		return errs.Store(err)
	}
	return nil
}

func (r *repoPG) listVitals(ctx context.Context, query string, args ...interface{}) ([]*VitalsRecord, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, errs.Store(err)
	}
	defer rows.Close()
	var records []*VitalsRecord
	for rows.Next() {
		v, err := scanVitals(rows)
		if err != nil {
			return nil, errs.Store(err)
		}
		records = append(records, v)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(err)
	}
	return records, nil
}

func (r *repoPG) ListVitals(ctx context.Context, usn string) ([]*VitalsRecord, error) {
	return r.listVitals(ctx, `SELECT `+vitalsCols+` FROM vitals WHERE usn=$1 ORDER BY recorded_at DESC`, usn)
}

func (r *repoPG) ListAllVitals(ctx context.Context, limit int) ([]*VitalsRecord, error) {
	return r.listVitals(ctx, `SELECT `+vitalsCols+` FROM vitals ORDER BY recorded_at DESC LIMIT $1`, limit)
}

func (r *repoPG) CreateProblem(ctx context.Context, p *Problem) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO problems (id, usn, code, description, onset_date, status, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.ID, p.USN, p.Code, p.Description, p.OnsetDate, p.Status, p.RecordedAt)
	if err != nil {
		return errs.Store(err)
	}
	return nil
}

func (r *repoPG) ListProblems(ctx context.Context, usn string) ([]*Problem, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, usn, code, description, onset_date, status, recorded_at
		FROM problems WHERE usn=$1 ORDER BY recorded_at DESC`, usn)
	if err != nil {
		return nil, errs.Store(err)
	}
	defer rows.Close()
	var problems []*Problem
	for rows.Next() {
		var p Problem
		if err := rows.Scan(&p.ID, &p.USN, &p.Code, &p.Description, &p.OnsetDate, &p.Status, &p.RecordedAt); err != nil {
			return nil, errs.Store(err)
		}
		problems = append(problems, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(err)
	}
	return problems, nil
}

func (r *repoPG) CreateAllergy(ctx context.Context, a *Allergy) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO allergies (id, usn, substance, reaction, severity, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		a.ID, a.USN, a.Substance, a.Reaction, a.Severity, a.RecordedAt)
	if err != nil {
		return errs.Store(err)
	}
	return nil
}

func (r *repoPG) ListAllergies(ctx context.Context, usn string) ([]*Allergy, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, usn, substance, reaction, severity, recorded_at
		FROM allergies WHERE usn=$1 ORDER BY recorded_at DESC`, usn)
	if err != nil {
		return nil, errs.Store(err)
	}
	defer rows.Close()
	var allergies []*Allergy
	for rows.Next() {
		var a Allergy
		if err := rows.Scan(&a.ID, &a.USN, &a.Substance, &a.Reaction, &a.Severity, &a.RecordedAt); err != nil {
			return nil, errs.Store(err)
		}
		allergies = append(allergies, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(err)
	}
	return allergies, nil
}
