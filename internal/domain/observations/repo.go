package observations

import "context"

type Repository interface {
	PatientExists(ctx context.Context, usn string) (bool, error)

	CreateVitals(ctx context.Context, v *VitalsRecord) error
	ListVitals(ctx context.Context, usn string) ([]*VitalsRecord, error)
	ListAllVitals(ctx context.Context, limit int) ([]*VitalsRecord, error)

	CreateProblem(ctx context.Context, p *Problem) error
	ListProblems(ctx context.Context, usn string) ([]*Problem, error)

	CreateAllergy(ctx context.Context, a *Allergy) error
	ListAllergies(ctx context.Context, usn string) ([]*Allergy, error)
}
