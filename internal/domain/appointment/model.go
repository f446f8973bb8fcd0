package appointment

import (
	"time"

	"github.com/google/uuid"
)

// DefaultStatus is assigned to new appointments.
const DefaultStatus = "Scheduled"

// Appointment maps to the appointments table. The window endpoints are
// stored as given; no ordering between starts_at and ends_at is enforced.
type Appointment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	USN       string    `db:"usn" json:"usn"`
	StartsAt  time.Time `db:"starts_at" json:"starts_at"`
	EndsAt    time.Time `db:"ends_at" json:"ends_at"`
	Status    string    `db:"status" json:"status"`
	Title     *string   `db:"title" json:"title,omitempty"`
	Clinician *string   `db:"clinician" json:"clinician,omitempty"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`
}

// UpdateInput carries a partial update; nil fields keep their stored value.
type UpdateInput struct {
	StartsAt  *time.Time
	EndsAt    *time.Time
	Status    *string
	Title     *string
	Clinician *string
	Notes     *string
}
