package reporting

import "time"

// VitalsSnapshot is one patient's most recent vitals reading.
type VitalsSnapshot struct {
	USN         string    `db:"usn" json:"usn"`
	RecordedAt  time.Time `db:"recorded_at" json:"recorded_at"`
	Weight      float64   `db:"weight" json:"weight"`
	Height      float64   `db:"height" json:"height"`
	BMI         float64   `db:"-" json:"bmi"`
	BPSystolic  int       `db:"blood_pressure_systolic" json:"blood_pressure_systolic"`
	BPDiastolic int       `db:"blood_pressure_diastolic" json:"blood_pressure_diastolic"`
	HeartRate   int       `db:"heart_rate" json:"heart_rate"`
	Temperature float64   `db:"temperature" json:"temperature"`
}

// PatientSummary is a per-patient activity rollup.
type PatientSummary struct {
	USN               string          `json:"usn"`
	FullName          string          `json:"full_name"`
	VitalsCount       int64           `json:"vitals_count"`
	PrescriptionCount int64           `json:"prescription_count"`
	LatestVitals      *VitalsSnapshot `json:"latest_vitals,omitempty"`
}

// MetricsSnapshot is a point-in-time view of facility activity. The counts
// come from separate queries and are not mutually consistent under
// concurrent writes; that is acceptable for a dashboard.
type MetricsSnapshot struct {
	GeneratedAt       time.Time `json:"generated_at"`
	Patients          int64     `json:"patients"`
	AppointmentsToday int64     `json:"appointments_today"`
	PendingLabItems   int64     `json:"pending_lab_items"`
	VitalsToday       int64     `json:"vitals_today"`
}

// Flat export rows. Each maps one CSV line; joins are done in SQL so the
// encoder stays a straight column dump.

type PatientRow struct {
	USN      string
	FullName string
	Age      int
	Gender   string
	Contact  string
	Address  string
}

type VitalsRow struct {
	USN         string
	FullName    string
	RecordedAt  time.Time
	Weight      float64
	Height      float64
	BPSystolic  int
	BPDiastolic int
	HeartRate   int
	Temperature float64
	RecordedBy  string
}

type PrescriptionRow struct {
	ID           string
	USN          string
	FullName     string
	Notes        string
	PrescribedAt time.Time
}

// SummaryRow backs the combined export: every patient appears once, with
// latest-vitals fields left empty when the patient has no readings.
type SummaryRow struct {
	USN               string
	FullName          string
	Age               int
	Gender            string
	LatestVitals      *VitalsSnapshot
	VitalsCount       int64
	PrescriptionCount int64
}
