package reporting

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/hmis/hmis/internal/domain/errs"
)

type mockRepo struct {
	latest    map[string]*VitalsSnapshot
	summaries map[string]*PatientSummary
	metrics   *MetricsSnapshot
	export    []*SummaryRow
}

func (m *mockRepo) LatestVitalsPerPatient(_ context.Context) (map[string]*VitalsSnapshot, error) {
	return m.latest, nil
}

func (m *mockRepo) PatientSummary(_ context.Context, usn string) (*PatientSummary, error) {
	s, ok := m.summaries[usn]
	if !ok {
		return nil, errs.ErrPatientNotFound
	}
	return s, nil
}

func (m *mockRepo) Metrics(_ context.Context) (*MetricsSnapshot, error) {
	return m.metrics, nil
}

func (m *mockRepo) ExportPatients(_ context.Context) ([]*PatientRow, error)           { return nil, nil }
func (m *mockRepo) ExportVitals(_ context.Context) ([]*VitalsRow, error)              { return nil, nil }
func (m *mockRepo) ExportPrescriptions(_ context.Context) ([]*PrescriptionRow, error) { return nil, nil }
func (m *mockRepo) ExportSummary(_ context.Context) ([]*SummaryRow, error)            { return m.export, nil }

func snapshot(usn string, weight, height float64) *VitalsSnapshot {
	return &VitalsSnapshot{
		USN:        usn,
		RecordedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Weight:     weight,
		Height:     height,
	}
}

func TestLatestVitalsPerPatient_FillsBMI(t *testing.T) {
	svc := NewService(&mockRepo{latest: map[string]*VitalsSnapshot{
		"P001": snapshot("P001", 70, 175),
	}})

	latest, err := svc.LatestVitalsPerPatient(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := latest["P001"]
	if got == nil {
		t.Fatal("expected P001 in the map")
	}
	if math.Abs(got.BMI-22.857142857142858) > 1e-9 {
		t.Errorf("unexpected BMI: %v", got.BMI)
	}
}

func TestPatientSummary(t *testing.T) {
	svc := NewService(&mockRepo{summaries: map[string]*PatientSummary{
		"P001": {
			USN:               "P001",
			FullName:          "Asha Verma",
			VitalsCount:       3,
			PrescriptionCount: 2,
			LatestVitals:      snapshot("P001", 70, 175),
		},
	}})

	s, err := svc.PatientSummary(context.Background(), "P001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.VitalsCount != 3 || s.PrescriptionCount != 2 {
		t.Errorf("unexpected counts: %d vitals, %d prescriptions", s.VitalsCount, s.PrescriptionCount)
	}
	if s.LatestVitals.BMI == 0 {
		t.Error("expected BMI to be derived for the latest reading")
	}
}

func TestPatientSummary_NotFound(t *testing.T) {
	svc := NewService(&mockRepo{})
	_, err := svc.PatientSummary(context.Background(), "GHOST")
	if !errors.Is(err, errs.ErrPatientNotFound) {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestExportSummary_PatientsWithoutVitals(t *testing.T) {
	svc := NewService(&mockRepo{export: []*SummaryRow{
		{USN: "P001", FullName: "Asha Verma", Age: 34, Gender: "F", LatestVitals: snapshot("P001", 70, 175), VitalsCount: 1},
		{USN: "P002", FullName: "Ravi Kumar", Age: 51, Gender: "M"},
	}})

	rows, err := svc.ExportSummary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1].LatestVitals != nil {
		t.Error("a patient without readings keeps a nil snapshot")
	}

	withVitals := summaryCSVRow(rows[0])
	withoutVitals := summaryCSVRow(rows[1])
	if len(withVitals) != len(withoutVitals) {
		t.Fatalf("rows must be the same width: %d vs %d", len(withVitals), len(withoutVitals))
	}
	if withoutVitals[4] != "" || withoutVitals[7] != "" {
		t.Error("vitals columns should be empty for patients without readings")
	}
	if withVitals[7] != "22.9" {
		t.Errorf("expected BMI column 22.9, got %q", withVitals[7])
	}
}
