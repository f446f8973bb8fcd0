package prescription

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hmis/hmis/internal/domain/errs"
	"github.com/hmis/hmis/internal/platform/db"
)

// allPrescriptionsWindow bounds unfiltered prescription listings.
const allPrescriptionsWindow = 200

type Service struct {
	repo Repository
	tx   db.TxRunner
}

func NewService(repo Repository, tx db.TxRunner) *Service {
	return &Service{repo: repo, tx: tx}
}

func (s *Service) CreatePrescription(ctx context.Context, usn, notes string) (*Prescription, error) {
	usn = strings.TrimSpace(usn)
	notes = strings.TrimSpace(notes)
	if usn == "" {
		return nil, errs.Invalid("usn is required")
	}
	if notes == "" {
		return nil, errs.Invalid("notes are required")
	}
	exists, err := s.repo.PatientExists(ctx, usn)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.ErrPatientNotFound
	}
	p := &Prescription{USN: usn, Notes: notes, PrescribedAt: time.Now().UTC()}
	if err := s.repo.CreatePrescription(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ListPrescriptions(ctx context.Context, usn string) ([]*Prescription, error) {
	if usn != "" {
		return s.repo.ListByPatient(ctx, usn)
	}
	return s.repo.ListAll(ctx, allPrescriptionsWindow)
}

// FindOrCreateMedication resolves a medication name against the catalog with
// a case-sensitive exact match, creating a name-only entry when absent. The
// returned identifier is stable across repeated calls with the same name.
// The create path leaves strength and form empty, so entries for the same
// drug at different strengths remain distinct rows. Two concurrent calls for
// an unseen name race to insert; the loser hits the catalog's unique
// constraint and surfaces ErrDuplicateIdentifier, so a retry resolves to the
// winner's row.
func (s *Service) FindOrCreateMedication(ctx context.Context, name string) (*Medication, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.Invalid("medication name is required")
	}
	m, err := s.repo.GetMedicationByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if m != nil {
		return m, nil
	}
	m = &Medication{Name: name}
	if err := s.repo.CreateMedication(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// AddItemInput carries the fields of one itemized medication line. Duration
// arrives as raw text from the boundary layer.
type AddItemInput struct {
	PrescriptionID uuid.UUID
	MedicationName string
	Dose           string
	Route          string
	Frequency      string
	DurationDays   string
	Instructions   string
}

// AddPrescriptionItem resolves the medication (creating a catalog entry when
// unseen) and appends the item, in one transaction. An unparseable or
// negative duration is dropped to null rather than rejecting the item;
// duration is non-critical and must not block prescribing.
func (s *Service) AddPrescriptionItem(ctx context.Context, in AddItemInput) (*ItemDetail, error) {
	if in.PrescriptionID == uuid.Nil {
		return nil, errs.Invalid("prescription_id is required")
	}
	if strings.TrimSpace(in.MedicationName) == "" {
		return nil, errs.Invalid("medication name is required")
	}

	var duration *int
	if raw := strings.TrimSpace(in.DurationDays); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			duration = &n
		}
	}

	var detail *ItemDetail
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		exists, err := s.repo.PrescriptionExists(ctx, in.PrescriptionID)
		if err != nil {
			return err
		}
		if !exists {
			return errs.Invalid("prescription %s does not exist", in.PrescriptionID)
		}

		med, err := s.FindOrCreateMedication(ctx, in.MedicationName)
		if err != nil {
			return err
		}

		item := &PrescriptionItem{
			PrescriptionID: in.PrescriptionID,
			MedicationID:   med.ID,
			Dose:           optional(in.Dose),
			Route:          optional(in.Route),
			Frequency:      optional(in.Frequency),
			DurationDays:   duration,
			Instructions:   optional(in.Instructions),
		}
		if err := s.repo.CreateItem(ctx, item); err != nil {
			return err
		}
		detail = &ItemDetail{PrescriptionItem: *item, MedicationName: med.Name}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *Service) ListPrescriptionItems(ctx context.Context, prescriptionID uuid.UUID) ([]*ItemDetail, error) {
	return s.repo.ListItems(ctx, prescriptionID)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
