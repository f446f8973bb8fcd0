package encounter

import (
	"time"

	"github.com/google/uuid"
)

// DefaultType is assigned when a visit arrives without one.
const DefaultType = "OPD"

// Encounter maps to the encounters table, one row per clinical visit.
type Encounter struct {
	ID          uuid.UUID `db:"id" json:"id"`
	USN         string    `db:"usn" json:"usn"`
	EncounterDT time.Time `db:"encounter_dt" json:"encounter_dt"`
	Type        string    `db:"encounter_type" json:"encounter_type"`
	Clinician   *string   `db:"clinician" json:"clinician,omitempty"`
	Reason      *string   `db:"reason" json:"reason,omitempty"`
	Notes       *string   `db:"notes" json:"notes,omitempty"`
}
