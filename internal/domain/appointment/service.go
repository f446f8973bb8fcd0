package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hmis/hmis/internal/domain/errs"
)

// allAppointmentsWindow bounds unfiltered appointment listings.
const allAppointmentsWindow = 200

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries one booking request.
type CreateInput struct {
	USN       string
	StartsAt  time.Time
	EndsAt    time.Time
	Title     string
	Clinician string
	Notes     string
}

// CreateAppointment books a slot for an existing patient. Both window
// endpoints are required but their ordering is not checked, and overlapping
// bookings for the same patient or clinician are allowed.
func (s *Service) CreateAppointment(ctx context.Context, in CreateInput) (*Appointment, error) {
	in.USN = strings.TrimSpace(in.USN)
	if in.USN == "" {
		return nil, errs.Invalid("usn is required")
	}
	if in.StartsAt.IsZero() {
		return nil, errs.Invalid("starts_at is required")
	}
	if in.EndsAt.IsZero() {
		return nil, errs.Invalid("ends_at is required")
	}
	exists, err := s.repo.PatientExists(ctx, in.USN)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.ErrPatientNotFound
	}
	a := &Appointment{
		USN:       in.USN,
		StartsAt:  in.StartsAt,
		EndsAt:    in.EndsAt,
		Status:    DefaultStatus,
		Title:     optional(in.Title),
		Clinician: optional(in.Clinician),
		Notes:     optional(in.Notes),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateAppointment applies the provided fields and returns the stored row.
// Omitted fields keep their current values; an unknown id is ErrNotFound.
func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, in UpdateInput) (*Appointment, error) {
	if id == uuid.Nil {
		return nil, errs.Invalid("appointment id is required")
	}
	affected, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, errs.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// DeleteAppointment removes a booking. Deleting an unknown id is a no-op.
func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListAppointments(ctx context.Context, usn string) ([]*Appointment, error) {
	if usn != "" {
		return s.repo.ListByPatient(ctx, usn)
	}
	return s.repo.ListAll(ctx, allAppointmentsWindow)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
