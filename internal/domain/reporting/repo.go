package reporting

import "context"

type Repository interface {
	// LatestVitalsPerPatient keys each patient's most recent reading by USN.
	// Patients with no readings are absent from the map.
	LatestVitalsPerPatient(ctx context.Context) (map[string]*VitalsSnapshot, error)
	PatientSummary(ctx context.Context, usn string) (*PatientSummary, error)
	Metrics(ctx context.Context) (*MetricsSnapshot, error)

	ExportPatients(ctx context.Context) ([]*PatientRow, error)
	ExportVitals(ctx context.Context) ([]*VitalsRow, error)
	ExportPrescriptions(ctx context.Context) ([]*PrescriptionRow, error)
	// ExportSummary returns one row per patient, ordered by USN.
	ExportSummary(ctx context.Context) ([]*SummaryRow, error)
}
