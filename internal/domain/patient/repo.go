package patient

import "context"

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	// Update returns the number of rows affected; zero means the USN does
	// not exist and the caller decides whether that matters.
	Update(ctx context.Context, p *Patient) (int64, error)
	// Delete is idempotent; deleting an unknown USN succeeds with no effect.
	// All dependent records go with the patient via store-level cascade.
	Delete(ctx context.Context, usn string) error
	GetByUSN(ctx context.Context, usn string) (*Patient, error)
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	// Find matches the query against USN or contact, exactly.
	Find(ctx context.Context, query string) (*Patient, error)
}
