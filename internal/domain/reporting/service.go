package reporting

import (
	"context"

	"github.com/hmis/hmis/internal/domain/observations"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func fillBMI(v *VitalsSnapshot) {
	if v != nil {
		v.BMI = observations.BMI(v.Weight, v.Height)
	}
}

// LatestVitalsPerPatient returns each patient's most recent reading, keyed
// by USN, with the derived BMI filled in.
func (s *Service) LatestVitalsPerPatient(ctx context.Context) (map[string]*VitalsSnapshot, error) {
	latest, err := s.repo.LatestVitalsPerPatient(ctx)
	if err != nil {
		return nil, err
	}
	for _, v := range latest {
		fillBMI(v)
	}
	return latest, nil
}

func (s *Service) PatientSummary(ctx context.Context, usn string) (*PatientSummary, error) {
	summary, err := s.repo.PatientSummary(ctx, usn)
	if err != nil {
		return nil, err
	}
	fillBMI(summary.LatestVitals)
	return summary, nil
}

func (s *Service) Metrics(ctx context.Context) (*MetricsSnapshot, error) {
	return s.repo.Metrics(ctx)
}

func (s *Service) ExportPatients(ctx context.Context) ([]*PatientRow, error) {
	return s.repo.ExportPatients(ctx)
}

func (s *Service) ExportVitals(ctx context.Context) ([]*VitalsRow, error) {
	return s.repo.ExportVitals(ctx)
}

func (s *Service) ExportPrescriptions(ctx context.Context) ([]*PrescriptionRow, error) {
	return s.repo.ExportPrescriptions(ctx)
}

func (s *Service) ExportSummary(ctx context.Context) ([]*SummaryRow, error) {
	rows, err := s.repo.ExportSummary(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		fillBMI(row.LatestVitals)
	}
	return rows, nil
}
