package prescription

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hmis/hmis/internal/domain/errs"
)

// -- Mocks --

type mockRepo struct {
	patients      map[string]bool
	prescriptions map[uuid.UUID]*Prescription
	medications   map[uuid.UUID]*Medication
	items         []*PrescriptionItem
}

func newMockRepo(usns ...string) *mockRepo {
	m := &mockRepo{
		patients:      make(map[string]bool),
		prescriptions: make(map[uuid.UUID]*Prescription),
		medications:   make(map[uuid.UUID]*Medication),
	}
	for _, u := range usns {
		m.patients[u] = true
	}
	return m
}

func (m *mockRepo) PatientExists(_ context.Context, usn string) (bool, error) {
	return m.patients[usn], nil
}

func (m *mockRepo) CreatePrescription(_ context.Context, p *Prescription) error {
	p.ID = uuid.New()
	m.prescriptions[p.ID] = p
	return nil
}

func (m *mockRepo) ListByPatient(_ context.Context, usn string) ([]*Prescription, error) {
	var result []*Prescription
	for _, p := range m.prescriptions {
		if p.USN == usn {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockRepo) ListAll(_ context.Context, limit int) ([]*Prescription, error) {
	var result []*Prescription
	for _, p := range m.prescriptions {
		result = append(result, p)
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockRepo) PrescriptionExists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.prescriptions[id]
	return ok, nil
}

func (m *mockRepo) GetMedicationByName(_ context.Context, name string) (*Medication, error) {
	for _, med := range m.medications {
		if med.Name == name {
			return med, nil
		}
	}
	return nil, nil
}

func (m *mockRepo) CreateMedication(_ context.Context, med *Medication) error {
	med.ID = uuid.New()
	med.IsActive = true
	m.medications[med.ID] = med
	return nil
}

func (m *mockRepo) CreateItem(_ context.Context, item *PrescriptionItem) error {
	item.ID = uuid.New()
	item.CreatedAt = time.Now()
	m.items = append(m.items, item)
	return nil
}

func (m *mockRepo) ListItems(_ context.Context, prescriptionID uuid.UUID) ([]*ItemDetail, error) {
	var result []*ItemDetail
	for _, it := range m.items {
		if it.PrescriptionID == prescriptionID {
			name := ""
			if med, ok := m.medications[it.MedicationID]; ok {
				name = med.Name
			}
			result = append(result, &ItemDetail{PrescriptionItem: *it, MedicationName: name})
		}
	}
	return result, nil
}

// passthroughTx runs the unit without a real transaction.
type passthroughTx struct{}

func (passthroughTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(repo *mockRepo) *Service {
	return NewService(repo, passthroughTx{})
}

// -- Tests --

func TestCreatePrescription(t *testing.T) {
	svc := newTestService(newMockRepo("P001"))
	p, err := svc.CreatePrescription(context.Background(), "P001", "Paracetamol 500mg TID for 5 days")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected generated id")
	}
	if p.PrescribedAt.IsZero() {
		t.Error("expected prescribed_at to be stamped")
	}
}

func TestCreatePrescription_PatientNotFound(t *testing.T) {
	svc := newTestService(newMockRepo())
	_, err := svc.CreatePrescription(context.Background(), "GHOST", "notes")
	if !errors.Is(err, errs.ErrPatientNotFound) {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestCreatePrescription_NotesRequired(t *testing.T) {
	svc := newTestService(newMockRepo("P001"))
	_, err := svc.CreatePrescription(context.Background(), "P001", "  ")
	if !errors.Is(err, errs.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestFindOrCreateMedication_Idempotent(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	first, err := svc.FindOrCreateMedication(context.Background(), "Amoxicillin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.FindOrCreateMedication(context.Background(), "Amoxicillin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID != second.ID {
		t.Error("expected the same catalog row on repeat lookup")
	}
	if len(repo.medications) != 1 {
		t.Errorf("expected exactly 1 catalog row, got %d", len(repo.medications))
	}
}

func TestFindOrCreateMedication_CaseSensitive(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	a, _ := svc.FindOrCreateMedication(context.Background(), "Ibuprofen")
	b, err := svc.FindOrCreateMedication(context.Background(), "ibuprofen")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID == b.ID {
		t.Error("lookup is case-sensitive; different casings are distinct entries")
	}
}

func TestAddPrescriptionItem(t *testing.T) {
	repo := newMockRepo("P001")
	svc := newTestService(repo)
	p, _ := svc.CreatePrescription(context.Background(), "P001", "fever")

	item, err := svc.AddPrescriptionItem(context.Background(), AddItemInput{
		PrescriptionID: p.ID,
		MedicationName: "Paracetamol",
		Dose:           "500mg",
		Route:          "PO",
		Frequency:      "TID",
		DurationDays:   "5",
		Instructions:   "after food",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.MedicationName != "Paracetamol" {
		t.Errorf("expected joined medication name, got %s", item.MedicationName)
	}
	if item.DurationDays == nil || *item.DurationDays != 5 {
		t.Error("expected duration 5")
	}
}

func TestAddPrescriptionItem_BadDurationDropped(t *testing.T) {
	repo := newMockRepo("P001")
	svc := newTestService(repo)
	p, _ := svc.CreatePrescription(context.Background(), "P001", "fever")

	for _, raw := range []string{"five", "-3", "2.5"} {
		item, err := svc.AddPrescriptionItem(context.Background(), AddItemInput{
			PrescriptionID: p.ID,
			MedicationName: "Paracetamol",
			DurationDays:   raw,
		})
		if err != nil {
			t.Fatalf("duration %q should not block item creation: %v", raw, err)
		}
		if item.DurationDays != nil {
			t.Errorf("duration %q: expected null duration, got %d", raw, *item.DurationDays)
		}
	}
}

func TestAddPrescriptionItem_ReusesCatalogRow(t *testing.T) {
	repo := newMockRepo("P001")
	svc := newTestService(repo)
	p, _ := svc.CreatePrescription(context.Background(), "P001", "fever")

	in := AddItemInput{PrescriptionID: p.ID, MedicationName: "Metformin"}
	if _, err := svc.AddPrescriptionItem(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.AddPrescriptionItem(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.medications) != 1 {
		t.Errorf("expected 1 catalog row after two items, got %d", len(repo.medications))
	}
	items, _ := svc.ListPrescriptionItems(context.Background(), p.ID)
	if len(items) != 2 {
		t.Errorf("expected 2 items, got %d", len(items))
	}
}

func TestAddPrescriptionItem_Validation(t *testing.T) {
	svc := newTestService(newMockRepo("P001"))

	_, err := svc.AddPrescriptionItem(context.Background(), AddItemInput{MedicationName: "X"})
	if !errors.Is(err, errs.ErrInvalidInput) {
		t.Errorf("missing prescription id: expected ErrInvalidInput, got %v", err)
	}

	_, err = svc.AddPrescriptionItem(context.Background(), AddItemInput{PrescriptionID: uuid.New()})
	if !errors.Is(err, errs.ErrInvalidInput) {
		t.Errorf("missing medication name: expected ErrInvalidInput, got %v", err)
	}
}

func TestAddPrescriptionItem_UnknownPrescription(t *testing.T) {
	svc := newTestService(newMockRepo("P001"))
	_, err := svc.AddPrescriptionItem(context.Background(), AddItemInput{
		PrescriptionID: uuid.New(),
		MedicationName: "Paracetamol",
	})
	if !errors.Is(err, errs.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
