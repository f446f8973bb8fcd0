package observations

import (
	"context"
	"strings"
	"time"

	"github.com/hmis/hmis/internal/domain/errs"
)

// allVitalsWindow bounds unfiltered vitals listings.
const allVitalsWindow = 200

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RecordVitals appends an immutable vitals record stamped with the current
// UTC time and returns it with the derived BMI filled in.
func (s *Service) RecordVitals(ctx context.Context, v *VitalsRecord) (*VitalsRecord, error) {
	if strings.TrimSpace(v.USN) == "" {
		return nil, errs.Invalid("usn is required")
	}
	if v.Weight <= 0 {
		return nil, errs.Invalid("weight must be a positive number of kilograms")
	}
	if v.Height <= 0 {
		return nil, errs.Invalid("height must be a positive number of centimeters")
	}
	if v.BloodPressureSystolic <= 0 || v.BloodPressureDiastolic <= 0 {
		return nil, errs.Invalid("blood pressure is required")
	}
	if v.HeartRate <= 0 {
		return nil, errs.Invalid("heart rate is required")
	}
	if v.Temperature <= 0 {
		return nil, errs.Invalid("temperature is required")
	}

	exists, err := s.repo.PatientExists(ctx, v.USN)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.ErrPatientNotFound
	}

	v.RecordedAt = time.Now().UTC()
	if v.RecordedBy == "" {
		v.RecordedBy = DefaultRecorder
	}
	if err := s.repo.CreateVitals(ctx, v); err != nil {
		return nil, err
	}
	v.ComputeBMI()
	return v, nil
}

// ListVitals returns a patient's vitals history, most recent first.
func (s *Service) ListVitals(ctx context.Context, usn string) ([]*VitalsRecord, error) {
	records, err := s.repo.ListVitals(ctx, usn)
	if err != nil {
		return nil, err
	}
	for _, v := range records {
		v.ComputeBMI()
	}
	return records, nil
}

// ListAllVitals returns the most recent vitals across all patients, bounded.
func (s *Service) ListAllVitals(ctx context.Context) ([]*VitalsRecord, error) {
	records, err := s.repo.ListAllVitals(ctx, allVitalsWindow)
	if err != nil {
		return nil, err
	}
	for _, v := range records {
		v.ComputeBMI()
	}
	return records, nil
}

func (s *Service) AddProblem(ctx context.Context, p *Problem) (*Problem, error) {
	if strings.TrimSpace(p.USN) == "" {
		return nil, errs.Invalid("usn is required")
	}
	if strings.TrimSpace(p.Description) == "" {
		return nil, errs.Invalid("description is required")
	}
	exists, err := s.repo.PatientExists(ctx, p.USN)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.ErrPatientNotFound
	}
	if p.Status == "" {
		p.Status = "Active"
	}
	p.RecordedAt = time.Now().UTC()
	if err := s.repo.CreateProblem(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ListProblems(ctx context.Context, usn string) ([]*Problem, error) {
	return s.repo.ListProblems(ctx, usn)
}

func (s *Service) AddAllergy(ctx context.Context, a *Allergy) (*Allergy, error) {
	if strings.TrimSpace(a.USN) == "" {
		return nil, errs.Invalid("usn is required")
	}
	if strings.TrimSpace(a.Substance) == "" {
		return nil, errs.Invalid("substance is required")
	}
	exists, err := s.repo.PatientExists(ctx, a.USN)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.ErrPatientNotFound
	}
	a.RecordedAt = time.Now().UTC()
	if err := s.repo.CreateAllergy(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) ListAllergies(ctx context.Context, usn string) ([]*Allergy, error) {
	return s.repo.ListAllergies(ctx, usn)
}
