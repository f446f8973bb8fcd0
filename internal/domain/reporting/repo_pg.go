package reporting

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hmis/hmis/internal/domain/errs"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) LatestVitalsPerPatient(ctx context.Context) (map[string]*VitalsSnapshot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT ON (usn)
			usn, recorded_at, weight, height, blood_pressure_systolic,
			blood_pressure_diastolic, heart_rate, temperature
		FROM vitals
		ORDER BY usn, recorded_at DESC`)
	if err != nil {
		return nil, errs.Store(err)
	}
	defer rows.Close()
	latest := make(map[string]*VitalsSnapshot)
	for rows.Next() {
		var v VitalsSnapshot
		if err := rows.Scan(&v.USN, &v.RecordedAt, &v.Weight, &v.Height,
			&v.BPSystolic, &v.BPDiastolic, &v.HeartRate, &v.Temperature); err != nil {
			return nil, errs.Store(err)
		}
		latest[v.USN] = &v
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(err)
	}
	return latest, nil
}

func (r *repoPG) PatientSummary(ctx context.Context, usn string) (*PatientSummary, error) {
	var s PatientSummary
	err := r.pool.QueryRow(ctx, `
		SELECT p.usn, p.full_name,
			(SELECT COUNT(*) FROM vitals v WHERE v.usn = p.usn),
			(SELECT COUNT(*) FROM prescriptions rx WHERE rx.usn = p.usn)
		FROM patients p WHERE p.usn = $1`, usn).
		Scan(&s.USN, &s.FullName, &s.VitalsCount, &s.PrescriptionCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrPatientNotFound
	}
	if err != nil {
		return nil, errs.Store(err)
	}

	var v VitalsSnapshot
	err = r.pool.QueryRow(ctx, `
		SELECT usn, recorded_at, weight, height, blood_pressure_systolic,
			blood_pressure_diastolic, heart_rate, temperature
		FROM vitals WHERE usn = $1 ORDER BY recorded_at DESC LIMIT 1`, usn).
		Scan(&v.USN, &v.RecordedAt, &v.Weight, &v.Height,
			&v.BPSystolic, &v.BPDiastolic, &v.HeartRate, &v.Temperature)
	if err == nil {
		s.LatestVitals = &v
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.Store(err)
	}
	return &s, nil
}

func (r *repoPG) Metrics(ctx context.Context) (*MetricsSnapshot, error) {
	m := &MetricsSnapshot{GeneratedAt: time.Now().UTC()}
	counts := []struct {
		dst *int64
		sql string
	}{
		{&m.Patients, `SELECT COUNT(*) FROM patients`},
		{&m.AppointmentsToday, `SELECT COUNT(*) FROM appointments WHERE starts_at::date = CURRENT_DATE`},
		{&m.PendingLabItems, `SELECT COUNT(*) FROM lab_order_items WHERE status <> 'Completed'`},
		{&m.VitalsToday, `SELECT COUNT(*) FROM vitals WHERE recorded_at::date = CURRENT_DATE`},
	}
	for _, c := range counts {
		if err := r.pool.QueryRow(ctx, c.sql).Scan(c.dst); err != nil {
			return nil, errs.Store(err)
		}
	}
	return m, nil
}

func (r *repoPG) ExportPatients(ctx context.Context) ([]*PatientRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT usn, full_name, age, gender, contact, address
		FROM patients ORDER BY usn`)
	if err != nil {
		return nil, errs.Store(err)
	}
	defer rows.Close()
	var result []*PatientRow
	for rows.Next() {
		var p PatientRow
		if err := rows.Scan(&p.USN, &p.FullName, &p.Age, &p.Gender, &p.Contact, &p.Address); err != nil {
			return nil, errs.Store(err)
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(err)
	}
	return result, nil
}

func (r *repoPG) ExportVitals(ctx context.Context) ([]*VitalsRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT v.usn, p.full_name, v.recorded_at, v.weight, v.height,
			v.blood_pressure_systolic, v.blood_pressure_diastolic,
			v.heart_rate, v.temperature, v.recorded_by
		FROM vitals v
		JOIN patients p ON p.usn = v.usn
		ORDER BY v.recorded_at DESC`)
	if err != nil {
		return nil, errs.Store(err)
	}
	defer rows.Close()
	var result []*VitalsRow
	for rows.Next() {
		var v VitalsRow
		if err := rows.Scan(&v.USN, &v.FullName, &v.RecordedAt, &v.Weight, &v.Height,
			&v.BPSystolic, &v.BPDiastolic, &v.HeartRate, &v.Temperature, &v.RecordedBy); err != nil {
			return nil, errs.Store(err)
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(err)
	}
	return result, nil
}

func (r *repoPG) ExportPrescriptions(ctx context.Context) ([]*PrescriptionRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT rx.id, rx.usn, p.full_name, rx.notes, rx.prescribed_at
		FROM prescriptions rx
		JOIN patients p ON p.usn = rx.usn
		ORDER BY rx.prescribed_at DESC`)
	if err != nil {
		return nil, errs.Store(err)
	}
	defer rows.Close()
	var result []*PrescriptionRow
	for rows.Next() {
		var p PrescriptionRow
		if err := rows.Scan(&p.ID, &p.USN, &p.FullName, &p.Notes, &p.PrescribedAt); err != nil {
			return nil, errs.Store(err)
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(err)
	}
	return result, nil
}

func (r *repoPG) ExportSummary(ctx context.Context) ([]*SummaryRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.usn, p.full_name, p.age, p.gender,
			(SELECT COUNT(*) FROM vitals v WHERE v.usn = p.usn),
			(SELECT COUNT(*) FROM prescriptions rx WHERE rx.usn = p.usn)
		FROM patients p ORDER BY p.usn`)
	if err != nil {
		return nil, errs.Store(err)
	}
	defer rows.Close()
	var result []*SummaryRow
	for rows.Next() {
		var s SummaryRow
		if err := rows.Scan(&s.USN, &s.FullName, &s.Age, &s.Gender, &s.VitalsCount, &s.PrescriptionCount); err != nil {
			return nil, errs.Store(err)
		}
		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(err)
	}

	latest, err := r.LatestVitalsPerPatient(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range result {
		s.LatestVitals = latest[s.USN]
	}
	return result, nil
}
