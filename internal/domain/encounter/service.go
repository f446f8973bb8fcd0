package encounter

import (
	"context"
	"strings"
	"time"

	"github.com/hmis/hmis/internal/domain/errs"
)

// allEncountersWindow bounds unfiltered encounter listings.
const allEncountersWindow = 200

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries one visit record.
type CreateInput struct {
	USN         string
	EncounterDT time.Time
	Type        string
	Clinician   string
	Reason      string
	Notes       string
}

// RecordEncounter appends a visit for an existing patient. A zero timestamp
// defaults to now and a blank type to OPD.
func (s *Service) RecordEncounter(ctx context.Context, in CreateInput) (*Encounter, error) {
	in.USN = strings.TrimSpace(in.USN)
	if in.USN == "" {
		return nil, errs.Invalid("usn is required")
	}
	exists, err := s.repo.PatientExists(ctx, in.USN)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.ErrPatientNotFound
	}
	e := &Encounter{
		USN:         in.USN,
		EncounterDT: in.EncounterDT,
		Type:        strings.TrimSpace(in.Type),
		Clinician:   optional(in.Clinician),
		Reason:      optional(in.Reason),
		Notes:       optional(in.Notes),
	}
	if e.EncounterDT.IsZero() {
		e.EncounterDT = time.Now().UTC()
	}
	if e.Type == "" {
		e.Type = DefaultType
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) ListEncounters(ctx context.Context, usn string) ([]*Encounter, error) {
	if usn != "" {
		return s.repo.ListByPatient(ctx, usn)
	}
	return s.repo.ListAll(ctx, allEncountersWindow)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
