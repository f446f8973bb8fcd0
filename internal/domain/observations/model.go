package observations

import (
	"time"

	"github.com/google/uuid"
)

// DefaultRecorder attributes a record when no recorder identity is supplied.
const DefaultRecorder = "System User"

// VitalsRecord maps to the vitals table. Records are append-only: once
// written they are never updated, and history reads return them most recent
// first.
type VitalsRecord struct {
	ID                     uuid.UUID `db:"id" json:"id"`
	USN                    string    `db:"usn" json:"usn"`
	Weight                 float64   `db:"weight" json:"weight"`
	Height                 float64   `db:"height" json:"height"`
	BMI                    float64   `db:"-" json:"bmi"`
	BloodPressureSystolic  int       `db:"blood_pressure_systolic" json:"blood_pressure_systolic"`
	BloodPressureDiastolic int       `db:"blood_pressure_diastolic" json:"blood_pressure_diastolic"`
	HeartRate              int       `db:"heart_rate" json:"heart_rate"`
	Temperature            float64   `db:"temperature" json:"temperature"`
	RespiratoryRate        *int      `db:"respiratory_rate" json:"respiratory_rate,omitempty"`
	OxygenSaturation       *int      `db:"oxygen_saturation" json:"oxygen_saturation,omitempty"`
	Notes                  *string   `db:"notes" json:"notes,omitempty"`
	RecordedAt             time.Time `db:"recorded_at" json:"recorded_at"`
	RecordedBy             string    `db:"recorded_by" json:"recorded_by"`
}

// BMI computes body mass index from weight in kilograms and height in
// centimeters. It is never stored; every read and write derives it from the
// inputs again.
func BMI(weightKg, heightCm float64) float64 {
	m := heightCm / 100
	return weightKg / (m * m)
}

// ComputeBMI fills the derived field from the record's own inputs.
func (v *VitalsRecord) ComputeBMI() {
	v.BMI = BMI(v.Weight, v.Height)
}

// Problem maps to the problems table.
type Problem struct {
	ID          uuid.UUID `db:"id" json:"id"`
	USN         string    `db:"usn" json:"usn"`
	Code        *string   `db:"code" json:"code,omitempty"`
	Description string    `db:"description" json:"description"`
	OnsetDate   *string   `db:"onset_date" json:"onset_date,omitempty"`
	Status      string    `db:"status" json:"status"`
	RecordedAt  time.Time `db:"recorded_at" json:"recorded_at"`
}

// Allergy maps to the allergies table.
type Allergy struct {
	ID         uuid.UUID `db:"id" json:"id"`
	USN        string    `db:"usn" json:"usn"`
	Substance  string    `db:"substance" json:"substance"`
	Reaction   *string   `db:"reaction" json:"reaction,omitempty"`
	Severity   *string   `db:"severity" json:"severity,omitempty"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
}
