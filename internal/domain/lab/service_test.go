package lab

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/hmis/hmis/internal/domain/errs"
)

// -- Mocks --

type mockRepo struct {
	patients map[string]bool
	tests    map[string]*LabTest
	orders   map[uuid.UUID]*LabOrder
	items    map[uuid.UUID]*LabOrderItem
}

func newMockRepo(usns ...string) *mockRepo {
	m := &mockRepo{
		patients: make(map[string]bool),
		tests:    make(map[string]*LabTest),
		orders:   make(map[uuid.UUID]*LabOrder),
		items:    make(map[uuid.UUID]*LabOrderItem),
	}
	for _, u := range usns {
		m.patients[u] = true
	}
	return m
}

func (m *mockRepo) addTest(code, name string, active bool) *LabTest {
	t := &LabTest{ID: uuid.New(), Code: code, Name: name, IsActive: active}
	m.tests[code] = t
	return t
}

func (m *mockRepo) PatientExists(_ context.Context, usn string) (bool, error) {
	return m.patients[usn], nil
}

func (m *mockRepo) GetActiveTestByCode(_ context.Context, code string) (*LabTest, error) {
	t, ok := m.tests[code]
	if !ok || !t.IsActive {
		return nil, nil
	}
	return t, nil
}

func (m *mockRepo) ListActiveTests(_ context.Context) ([]*LabTest, error) {
	var result []*LabTest
	for _, t := range m.tests {
		if t.IsActive {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockRepo) CreateOrder(_ context.Context, o *LabOrder) error {
	o.ID = uuid.New()
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *mockRepo) CreateItem(_ context.Context, it *LabOrderItem) error {
	it.ID = uuid.New()
	cp := *it
	m.items[it.ID] = &cp
	return nil
}

func (m *mockRepo) GetItem(_ context.Context, id uuid.UUID) (*LabOrderItem, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (m *mockRepo) UpdateItemResult(_ context.Context, it *LabOrderItem) error {
	cp := *it
	m.items[it.ID] = &cp
	return nil
}

func (m *mockRepo) ListItemsByOrder(_ context.Context, orderID uuid.UUID) ([]*LabOrderItem, error) {
	var result []*LabOrderItem
	for _, it := range m.items {
		if it.LabOrderID == orderID {
			result = append(result, it)
		}
	}
	return result, nil
}

func (m *mockRepo) GetOrder(_ context.Context, id uuid.UUID) (*LabOrder, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockRepo) SetOrderStatus(_ context.Context, orderID uuid.UUID, status string) error {
	if o, ok := m.orders[orderID]; ok {
		o.Status = status
	}
	return nil
}

func (m *mockRepo) ListOrdersByPatient(_ context.Context, usn string) ([]*OrderDetail, error) {
	var result []*OrderDetail
	for _, o := range m.orders {
		if o.USN == usn {
			result = append(result, &OrderDetail{LabOrder: *o})
		}
	}
	return result, nil
}

func (m *mockRepo) ListOrders(_ context.Context, limit int) ([]*OrderDetail, error) {
	var result []*OrderDetail
	for _, o := range m.orders {
		result = append(result, &OrderDetail{LabOrder: *o})
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

type passthroughTx struct{}

func (passthroughTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(repo *mockRepo) *Service {
	return NewService(repo, passthroughTx{})
}

// -- Tests --

func TestCreateLabOrder(t *testing.T) {
	repo := newMockRepo("P001")
	repo.addTest("CBC", "Complete Blood Count", true)
	svc := newTestService(repo)

	order, err := svc.CreateLabOrder(context.Background(), CreateOrderInput{USN: "P001", TestCode: "CBC"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != StatusOrdered {
		t.Errorf("expected order status %q, got %q", StatusOrdered, order.Status)
	}
	if len(order.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(order.Items))
	}
	if order.Items[0].Status != StatusOrdered {
		t.Errorf("expected item status %q, got %q", StatusOrdered, order.Items[0].Status)
	}
	if order.Items[0].TestName != "Complete Blood Count" {
		t.Errorf("expected joined test name, got %q", order.Items[0].TestName)
	}
}

func TestCreateLabOrder_PatientNotFound(t *testing.T) {
	repo := newMockRepo()
	repo.addTest("CBC", "Complete Blood Count", true)
	svc := newTestService(repo)

	_, err := svc.CreateLabOrder(context.Background(), CreateOrderInput{USN: "GHOST", TestCode: "CBC"})
	if !errors.Is(err, errs.ErrPatientNotFound) {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestCreateLabOrder_UnknownOrInactiveTest(t *testing.T) {
	repo := newMockRepo("P001")
	repo.addTest("OLD", "Retired Panel", false)
	svc := newTestService(repo)

	for _, code := range []string{"NOPE", "OLD"} {
		_, err := svc.CreateLabOrder(context.Background(), CreateOrderInput{USN: "P001", TestCode: code})
		if !errors.Is(err, errs.ErrTestNotFound) {
			t.Errorf("code %q: expected ErrTestNotFound, got %v", code, err)
		}
	}
}

func TestRecordLabResult_CompletesSingleItemOrder(t *testing.T) {
	repo := newMockRepo("P001")
	repo.addTest("GLU", "Blood Glucose (Fasting)", true)
	svc := newTestService(repo)

	order, _ := svc.CreateLabOrder(context.Background(), CreateOrderInput{USN: "P001", TestCode: "GLU"})
	item, err := svc.RecordLabResult(context.Background(), order.Items[0].ID, "92", "fasting sample")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Status != StatusCompleted {
		t.Errorf("expected item %q, got %q", StatusCompleted, item.Status)
	}
	if item.ResultValue == nil || *item.ResultValue != "92" {
		t.Error("expected stored result value")
	}
	if item.ResultAt == nil {
		t.Error("expected result_at to be stamped")
	}
	got, _ := repo.GetOrder(context.Background(), order.ID)
	if got.Status != StatusCompleted {
		t.Errorf("single-item order should complete with its item, got %q", got.Status)
	}
}

func TestRecordLabResult_PartialOrderStaysOrdered(t *testing.T) {
	repo := newMockRepo("P001")
	test := repo.addTest("LFT", "Liver Function Test", true)
	svc := newTestService(repo)

	order, _ := svc.CreateLabOrder(context.Background(), CreateOrderInput{USN: "P001", TestCode: "LFT"})
	second := &LabOrderItem{LabOrderID: order.ID, LabTestID: test.ID, Status: StatusOrdered}
	if err := repo.CreateItem(context.Background(), second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.RecordLabResult(context.Background(), order.Items[0].ID, "normal", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := repo.GetOrder(context.Background(), order.ID)
	if got.Status != StatusOrdered {
		t.Errorf("order with a pending item should stay %q, got %q", StatusOrdered, got.Status)
	}

	if _, err := svc.RecordLabResult(context.Background(), second.ID, "elevated ALT", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ = repo.GetOrder(context.Background(), order.ID)
	if got.Status != StatusCompleted {
		t.Errorf("order should complete once the last item does, got %q", got.Status)
	}
}

func TestRecordLabResult_Overwrite(t *testing.T) {
	repo := newMockRepo("P001")
	repo.addTest("GLU", "Blood Glucose (Fasting)", true)
	svc := newTestService(repo)

	order, _ := svc.CreateLabOrder(context.Background(), CreateOrderInput{USN: "P001", TestCode: "GLU"})
	id := order.Items[0].ID
	if _, err := svc.RecordLabResult(context.Background(), id, "92", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	item, err := svc.RecordLabResult(context.Background(), id, "95", "repeat draw")
	if err != nil {
		t.Fatalf("re-recording should succeed: %v", err)
	}
	if item.Status != StatusCompleted {
		t.Errorf("expected item to stay %q, got %q", StatusCompleted, item.Status)
	}
	if *item.ResultValue != "95" {
		t.Errorf("expected overwritten value 95, got %s", *item.ResultValue)
	}
	got, _ := repo.GetOrder(context.Background(), order.ID)
	if got.Status != StatusCompleted {
		t.Errorf("completed order should not revert, got %q", got.Status)
	}
}

func TestRecordLabResult_Validation(t *testing.T) {
	svc := newTestService(newMockRepo())

	_, err := svc.RecordLabResult(context.Background(), uuid.Nil, "92", "")
	if !errors.Is(err, errs.ErrInvalidInput) {
		t.Errorf("nil item id: expected ErrInvalidInput, got %v", err)
	}
	_, err = svc.RecordLabResult(context.Background(), uuid.New(), "  ", "")
	if !errors.Is(err, errs.ErrInvalidInput) {
		t.Errorf("blank value: expected ErrInvalidInput, got %v", err)
	}
	_, err = svc.RecordLabResult(context.Background(), uuid.New(), "92", "")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("unknown item: expected ErrNotFound, got %v", err)
	}
}

func TestReduceOrderStatus(t *testing.T) {
	done := &LabOrderItem{Status: StatusCompleted}
	pending := &LabOrderItem{Status: StatusOrdered}

	cases := []struct {
		name    string
		current string
		items   []*LabOrderItem
		want    string
	}{
		{"all completed", StatusOrdered, []*LabOrderItem{done, done}, StatusCompleted},
		{"one pending", StatusOrdered, []*LabOrderItem{done, pending}, StatusOrdered},
		{"no items", StatusOrdered, nil, StatusOrdered},
		{"completed never reverts", StatusCompleted, []*LabOrderItem{done, pending}, StatusCompleted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ReduceOrderStatus(tc.current, tc.items); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
