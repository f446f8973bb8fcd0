package lab

import (
	"time"

	"github.com/google/uuid"
)

// Item and order statuses. Items move one way, Ordered to Completed;
// re-recording a result on a completed item keeps it Completed.
const (
	StatusOrdered   = "Ordered"
	StatusCompleted = "Completed"
)

// LabTest is a catalog entry, unique by code. Orders reference tests by
// identifier; only active tests are orderable.
type LabTest struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Code     string    `db:"code" json:"code"`
	Name     string    `db:"name" json:"name"`
	Specimen *string   `db:"specimen" json:"specimen,omitempty"`
	Unit     *string   `db:"unit" json:"unit,omitempty"`
	RefRange *string   `db:"ref_range" json:"ref_range,omitempty"`
	IsActive bool      `db:"is_active" json:"is_active"`
}

// LabOrder maps to the lab_orders table. Its status is an aggregate derived
// from its items; nothing sets it directly except the reducer.
type LabOrder struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	USN         string     `db:"usn" json:"usn"`
	EncounterID *uuid.UUID `db:"encounter_id" json:"encounter_id,omitempty"`
	OrderedAt   time.Time  `db:"ordered_at" json:"ordered_at"`
	Status      string     `db:"status" json:"status"`
	Notes       *string    `db:"notes" json:"notes,omitempty"`
}

// LabOrderItem maps to the lab_order_items table. Result values are opaque
// text; no validation against the test's unit or reference range happens
// here.
type LabOrderItem struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	LabOrderID  uuid.UUID  `db:"lab_order_id" json:"lab_order_id"`
	LabTestID   uuid.UUID  `db:"lab_test_id" json:"lab_test_id"`
	Status      string     `db:"status" json:"status"`
	ResultValue *string    `db:"result_value" json:"result_value,omitempty"`
	ResultNotes *string    `db:"result_notes" json:"result_notes,omitempty"`
	ResultAt    *time.Time `db:"result_at" json:"result_at,omitempty"`
}

// ItemDetail is an order item joined with its test's code and name.
type ItemDetail struct {
	LabOrderItem
	TestCode string `db:"test_code" json:"test_code"`
	TestName string `db:"test_name" json:"test_name"`
}

// OrderDetail is an order joined with its items.
type OrderDetail struct {
	LabOrder
	Items []*ItemDetail `json:"items"`
}

// ReduceOrderStatus derives an order's aggregate status from its items:
// Completed when every item is Completed, otherwise the order's current
// status unchanged. The asymmetry is deliberate — a completed order never
// reverts, even if a non-completed item later belongs to it.
func ReduceOrderStatus(current string, items []*LabOrderItem) string {
	if len(items) == 0 {
		return current
	}
	for _, it := range items {
		if it.Status != StatusCompleted {
			return current
		}
	}
	return StatusCompleted
}
