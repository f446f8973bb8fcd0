package prescription

import (
	"time"

	"github.com/google/uuid"
)

// Prescription maps to the prescriptions table.
type Prescription struct {
	ID           uuid.UUID `db:"id" json:"id"`
	USN          string    `db:"usn" json:"usn"`
	Notes        string    `db:"notes" json:"notes"`
	PrescribedAt time.Time `db:"prescribed_at" json:"prescribed_at"`
}

// Medication is a global catalog entry, unique on (name, strength, form).
// Transactional records reference it by identifier; editing the catalog never
// rewrites historical prescription items.
type Medication struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	GenericName *string   `db:"generic_name" json:"generic_name,omitempty"`
	Form        *string   `db:"form" json:"form,omitempty"`
	Strength    *string   `db:"strength" json:"strength,omitempty"`
	IsActive    bool      `db:"is_active" json:"is_active"`
}

// PrescriptionItem maps to the prescription_items table. Dose, route and
// frequency are captured at prescribing time, independent of later catalog
// edits.
type PrescriptionItem struct {
	ID             uuid.UUID `db:"id" json:"id"`
	PrescriptionID uuid.UUID `db:"prescription_id" json:"prescription_id"`
	MedicationID   uuid.UUID `db:"medication_id" json:"medication_id"`
	Dose           *string   `db:"dose" json:"dose,omitempty"`
	Route          *string   `db:"route" json:"route,omitempty"`
	Frequency      *string   `db:"frequency" json:"frequency,omitempty"`
	DurationDays   *int      `db:"duration_days" json:"duration_days,omitempty"`
	Instructions   *string   `db:"instructions" json:"instructions,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ItemDetail is a prescription item joined with its medication's name.
type ItemDetail struct {
	PrescriptionItem
	MedicationName string `db:"medication_name" json:"medication_name"`
}
