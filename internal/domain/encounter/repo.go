package encounter

import "context"

type Repository interface {
	PatientExists(ctx context.Context, usn string) (bool, error)
	Create(ctx context.Context, e *Encounter) error
	ListByPatient(ctx context.Context, usn string) ([]*Encounter, error)
	ListAll(ctx context.Context, limit int) ([]*Encounter, error)
}
