package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaDDL creates every table of the clinical record model. Each statement
// is IF NOT EXISTS so Init is safe to run against an already-initialized
// store. Patient deletion cascades through the store's own foreign keys;
// application code never performs sibling-table deletes.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS patients (
    usn TEXT PRIMARY KEY,
    full_name TEXT NOT NULL,
    age INTEGER NOT NULL CHECK (age >= 0),
    gender TEXT NOT NULL,
    contact TEXT NOT NULL,
    address TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS vitals (
    id UUID PRIMARY KEY,
    usn TEXT NOT NULL REFERENCES patients(usn) ON DELETE CASCADE,
    weight DOUBLE PRECISION NOT NULL,
    height DOUBLE PRECISION NOT NULL,
    blood_pressure_systolic INTEGER NOT NULL,
    blood_pressure_diastolic INTEGER NOT NULL,
    heart_rate INTEGER NOT NULL,
    temperature DOUBLE PRECISION NOT NULL,
    respiratory_rate INTEGER,
    oxygen_saturation INTEGER,
    notes TEXT,
    recorded_at TIMESTAMPTZ NOT NULL,
    recorded_by TEXT NOT NULL DEFAULT 'System User'
);

CREATE TABLE IF NOT EXISTS prescriptions (
    id UUID PRIMARY KEY,
    usn TEXT NOT NULL REFERENCES patients(usn) ON DELETE CASCADE,
    notes TEXT NOT NULL,
    prescribed_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS medications (
    id UUID PRIMARY KEY,
    name TEXT NOT NULL,
    generic_name TEXT,
    form TEXT,
    strength TEXT,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    -- NULLS NOT DISTINCT so the name-only catalog entries (strength and form
    -- unset) are still covered by the constraint.
    UNIQUE NULLS NOT DISTINCT (name, strength, form)
);

CREATE TABLE IF NOT EXISTS prescription_items (
    id UUID PRIMARY KEY,
    prescription_id UUID NOT NULL REFERENCES prescriptions(id) ON DELETE CASCADE,
    medication_id UUID NOT NULL REFERENCES medications(id),
    dose TEXT,
    route TEXT,
    frequency TEXT,
    duration_days INTEGER,
    instructions TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS encounters (
    id UUID PRIMARY KEY,
    usn TEXT NOT NULL REFERENCES patients(usn) ON DELETE CASCADE,
    encounter_dt TIMESTAMPTZ NOT NULL,
    encounter_type TEXT NOT NULL DEFAULT 'OPD',
    clinician TEXT,
    reason TEXT,
    notes TEXT
);

CREATE TABLE IF NOT EXISTS problems (
    id UUID PRIMARY KEY,
    usn TEXT NOT NULL REFERENCES patients(usn) ON DELETE CASCADE,
    code TEXT,
    description TEXT NOT NULL,
    onset_date TEXT,
    status TEXT NOT NULL DEFAULT 'Active',
    recorded_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS allergies (
    id UUID PRIMARY KEY,
    usn TEXT NOT NULL REFERENCES patients(usn) ON DELETE CASCADE,
    substance TEXT NOT NULL,
    reaction TEXT,
    severity TEXT,
    recorded_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS lab_tests (
    id UUID PRIMARY KEY,
    code TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    specimen TEXT,
    unit TEXT,
    ref_range TEXT,
    is_active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS lab_orders (
    id UUID PRIMARY KEY,
    usn TEXT NOT NULL REFERENCES patients(usn) ON DELETE CASCADE,
    encounter_id UUID REFERENCES encounters(id) ON DELETE SET NULL,
    ordered_at TIMESTAMPTZ NOT NULL,
    status TEXT NOT NULL DEFAULT 'Ordered',
    notes TEXT
);

CREATE TABLE IF NOT EXISTS lab_order_items (
    id UUID PRIMARY KEY,
    lab_order_id UUID NOT NULL REFERENCES lab_orders(id) ON DELETE CASCADE,
    lab_test_id UUID NOT NULL REFERENCES lab_tests(id),
    status TEXT NOT NULL DEFAULT 'Ordered',
    result_value TEXT,
    result_notes TEXT,
    result_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS appointments (
    id UUID PRIMARY KEY,
    usn TEXT NOT NULL REFERENCES patients(usn) ON DELETE CASCADE,
    starts_at TIMESTAMPTZ NOT NULL,
    ends_at TIMESTAMPTZ NOT NULL,
    status TEXT NOT NULL DEFAULT 'Scheduled',
    title TEXT,
    clinician TEXT,
    notes TEXT
);
`

// seedLabTest is a starter catalog entry inserted on first initialization.
type seedLabTest struct {
	Code     string
	Name     string
	Specimen string
	Unit     string
	RefRange string
}

var starterLabTests = []seedLabTest{
	{Code: "CBC", Name: "Complete Blood Count", Specimen: "Blood"},
	{Code: "GLU", Name: "Blood Glucose (Fasting)", Specimen: "Blood", Unit: "mg/dL", RefRange: "70-100"},
	{Code: "LFT", Name: "Liver Function Test", Specimen: "Blood"},
}

// Init creates the schema and seeds the lab test catalog when it is empty.
// Idempotent: re-running against an initialized store changes nothing.
func Init(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin schema init: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM lab_tests`).Scan(&count); err != nil {
		return fmt.Errorf("count lab tests: %w", err)
	}
	if count == 0 {
		for _, t := range starterLabTests {
			if _, err := tx.Exec(ctx, `
				INSERT INTO lab_tests (id, code, name, specimen, unit, ref_range)
				VALUES (gen_random_uuid(), $1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))`,
				t.Code, t.Name, t.Specimen, t.Unit, t.RefRange); err != nil {
				return fmt.Errorf("seed lab test %s: %w", t.Code, err)
			}
		}
	}

	return tx.Commit(ctx)
}
