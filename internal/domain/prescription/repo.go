package prescription

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	PatientExists(ctx context.Context, usn string) (bool, error)

	CreatePrescription(ctx context.Context, p *Prescription) error
	ListByPatient(ctx context.Context, usn string) ([]*Prescription, error)
	ListAll(ctx context.Context, limit int) ([]*Prescription, error)
	PrescriptionExists(ctx context.Context, id uuid.UUID) (bool, error)

	// GetMedicationByName is a case-sensitive exact lookup.
	GetMedicationByName(ctx context.Context, name string) (*Medication, error)
	CreateMedication(ctx context.Context, m *Medication) error

	CreateItem(ctx context.Context, item *PrescriptionItem) error
	// ListItems returns items joined with medication names, insertion order.
	ListItems(ctx context.Context, prescriptionID uuid.UUID) ([]*ItemDetail, error)
}
