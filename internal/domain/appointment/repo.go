package appointment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	PatientExists(ctx context.Context, usn string) (bool, error)
	Create(ctx context.Context, a *Appointment) error
	// Update applies the non-nil fields of in and reports rows affected.
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*Appointment, error)
	ListByPatient(ctx context.Context, usn string) ([]*Appointment, error)
	ListAll(ctx context.Context, limit int) ([]*Appointment, error)
}
