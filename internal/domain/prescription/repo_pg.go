package prescription

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

func (r *repoPG) CreatePrescription(ctx context.Context, p *Prescription) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO prescriptions (id, usn, notes, prescribed_at) VALUES ($1,$2,$3,$4)`,
		p.ID, p.USN, p.Notes, p.PrescribedAt)
	if err != nil {
		return errs.Store(err)
	}
	return nil
}

func (r *repoPG) listPrescriptions(ctx context.Context, query string, args ...interface{}) ([]*Prescription, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, errs.Store(err)
	}
	defer rows.Close()
	var result []*Prescription
	for rows.Next() {
		var p Prescription
		if err := rows.Scan(&p.ID, &p.USN, &p.Notes, &p.PrescribedAt); err != nil {
			return nil, errs.Store(err)
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(err)
	}
	return result, nil
}

func (r *repoPG) ListByPatient(ctx context.Context, usn string) ([]*Prescription, error) {
	return r.listPrescriptions(ctx, `
		SELECT id, usn, notes, prescribed_at FROM prescriptions
		WHERE usn=$1 ORDER BY prescribed_at DESC`, usn)
}

func (r *repoPG) ListAll(ctx context.Context, limit int) ([]*Prescription, error) {
	return r.listPrescriptions(ctx, `
		SELECT id, usn, notes, prescribed_at FROM prescriptions
		ORDER BY prescribed_at DESC LIMIT $1`, limit)
}

func (r *repoPG) PrescriptionExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM prescriptions WHERE id=$1)`, id).Scan(&exists)
	if err != nil {
		return false, errs.Store(err)
	}
	return exists, nil
}

// GetMedicationByName returns (nil, nil) when no catalog entry matches.
func (r *repoPG) GetMedicationByName(ctx context.Context, name string) (*Medication, error) {
	var m Medication
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, name, generic_name, form, strength, is_active
		FROM medications WHERE name=$1`, name).
		Scan(&m.ID, &m.Name, &m.GenericName, &m.Form, &m.Strength, &m.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Store(err)
	}
	return &m, nil
}

func (r *repoPG) CreateMedication(ctx context.Context, m *Medication) error {
	m.ID = uuid.New()
	m.IsActive = true
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medications (id, name, generic_name, form, strength, is_active)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		m.ID, m.Name, m.GenericName, m.Form, m.Strength, m.IsActive)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return errs.ErrDuplicateIdentifier
	}
	if err != nil {
		return errs.Store(err)
	}
	return nil
}

func (r *repoPG) CreateItem(ctx context.Context, item *PrescriptionItem) error {
	item.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO prescription_items (id, prescription_id, medication_id, dose, route, frequency, duration_days, instructions)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at`,
		item.ID, item.PrescriptionID, item.MedicationID, item.Dose, item.Route,
		item.Frequency, item.DurationDays, item.Instructions).Scan(&item.CreatedAt)
	if err != nil {
		return errs.Store(err)
	}
	return nil
}

func (r *repoPG) ListItems(ctx context.Context, prescriptionID uuid.UUID) ([]*ItemDetail, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT pi.id, pi.prescription_id, pi.medication_id, pi.dose, pi.route,
			pi.frequency, pi.duration_days, pi.instructions, pi.created_at,
			m.name AS medication_name
		FROM prescription_items pi
		JOIN medications m ON m.id = pi.medication_id
		WHERE pi.prescription_id = $1
		ORDER BY pi.created_at, pi.id`, prescriptionID)
	if err != nil {
		return nil, errs.Store(err)
	}
	defer rows.Close()
	var items []*ItemDetail
	for rows.Next() {
		var d ItemDetail
		if err := rows.Scan(&d.ID, &d.PrescriptionID, &d.MedicationID, &d.Dose, &d.Route,
			&d.Frequency, &d.DurationDays, &d.Instructions, &d.CreatedAt, &d.MedicationName); err != nil {
			return nil, errs.Store(err)
		}
		items = append(items, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(err)
	}
	return items, nil
}
