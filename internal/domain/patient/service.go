package patient

import (
	"context"
	"strings"

	"github.com/hmis/hmis/internal/domain/errs"
)

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

func validate(p *Patient) error {
	if strings.TrimSpace(p.USN) == "" {
		return errs.Invalid("usn is required")
	}
	if strings.TrimSpace(p.FullName) == "" {
		return errs.Invalid("full_name is required")
	}
	if p.Age < 0 {
		return errs.Invalid("age must be a non-negative integer")
	}
	if strings.TrimSpace(p.Gender) == "" {
		return errs.Invalid("gender is required")
	}
	if strings.TrimSpace(p.Contact) == "" {
		return errs.Invalid("contact is required")
	}
	if strings.TrimSpace(p.Address) == "" {
		return errs.Invalid("address is required")
	}
	return nil
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if err := validate(p); err != nil {
		return err
	}
	return s.patients.Create(ctx, p)
}

// UpdatePatient reports the number of rows affected. Updating an unknown USN
// is a silent no-op (zero rows); callers that care check the count.
func (s *Service) UpdatePatient(ctx context.Context, p *Patient) (int64, error) {
	if err := validate(p); err != nil {
		return 0, err
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, usn string) error {
	return s.patients.Delete(ctx, usn)
}

func (s *Service) GetPatient(ctx context.Context, usn string) (*Patient, error) {
	return s.patients.GetByUSN(ctx, usn)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

// FindPatient matches q against USN or contact, exactly.
func (s *Service) FindPatient(ctx context.Context, q string) (*Patient, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, errs.Invalid("query is required")
	}
	return s.patients.Find(ctx, q)
}
