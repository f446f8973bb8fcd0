package lab

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hmis/hmis/internal/domain/errs"
	"github.com/hmis/hmis/internal/platform/db"
)

// allOrdersWindow bounds unfiltered order listings.
const allOrdersWindow = 200

type Service struct {
	repo Repository
	tx   db.TxRunner
}

func NewService(repo Repository, tx db.TxRunner) *Service {
	return &Service{repo: repo, tx: tx}
}

// CreateOrderInput carries one order request. A single test code yields an
// order with one item; panels arrive as separate orders.
type CreateOrderInput struct {
	USN         string
	TestCode    string
	EncounterID *uuid.UUID
	Notes       string
}

// CreateLabOrder creates an order and its single item, both Ordered, in one
// transaction. The test must exist in the catalog and be active.
func (s *Service) CreateLabOrder(ctx context.Context, in CreateOrderInput) (*OrderDetail, error) {
	in.USN = strings.TrimSpace(in.USN)
	in.TestCode = strings.TrimSpace(in.TestCode)
	if in.USN == "" {
		return nil, errs.Invalid("usn is required")
	}
	if in.TestCode == "" {
		return nil, errs.Invalid("test code is required")
	}
	exists, err := s.repo.PatientExists(ctx, in.USN)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.ErrPatientNotFound
	}

	var detail *OrderDetail
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		test, err := s.repo.GetActiveTestByCode(ctx, in.TestCode)
		if err != nil {
			return err
		}
		if test == nil {
			return errs.ErrTestNotFound
		}

		order := &LabOrder{
			USN:         in.USN,
			EncounterID: in.EncounterID,
			OrderedAt:   time.Now().UTC(),
			Status:      StatusOrdered,
		}
		if notes := strings.TrimSpace(in.Notes); notes != "" {
			order.Notes = &notes
		}
		if err := s.repo.CreateOrder(ctx, order); err != nil {
			return err
		}

		item := &LabOrderItem{
			LabOrderID: order.ID,
			LabTestID:  test.ID,
			Status:     StatusOrdered,
		}
		if err := s.repo.CreateItem(ctx, item); err != nil {
			return err
		}

		detail = &OrderDetail{
			LabOrder: *order,
			Items: []*ItemDetail{{
				LabOrderItem: *item,
				TestCode:     test.Code,
				TestName:     test.Name,
			}},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// RecordLabResult stores a result on an order item, marks the item Completed,
// and recomputes the parent order's status, all in one transaction. Recording
// over an already-completed item overwrites the result and leaves both
// statuses Completed.
func (s *Service) RecordLabResult(ctx context.Context, itemID uuid.UUID, value, notes string) (*LabOrderItem, error) {
	if itemID == uuid.Nil {
		return nil, errs.Invalid("item id is required")
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, errs.Invalid("result value is required")
	}

	var item *LabOrderItem
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		it, err := s.repo.GetItem(ctx, itemID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		it.Status = StatusCompleted
		it.ResultValue = &value
		it.ResultNotes = nil
		if n := strings.TrimSpace(notes); n != "" {
			it.ResultNotes = &n
		}
		it.ResultAt = &now
		if err := s.repo.UpdateItemResult(ctx, it); err != nil {
			return err
		}

		order, err := s.repo.GetOrder(ctx, it.LabOrderID)
		if err != nil {
			return err
		}
		siblings, err := s.repo.ListItemsByOrder(ctx, it.LabOrderID)
		if err != nil {
			return err
		}
		if next := ReduceOrderStatus(order.Status, siblings); next != order.Status {
			if err := s.repo.SetOrderStatus(ctx, order.ID, next); err != nil {
				return err
			}
		}

		item = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) ListLabOrders(ctx context.Context, usn string) ([]*OrderDetail, error) {
	if usn != "" {
		return s.repo.ListOrdersByPatient(ctx, usn)
	}
	return s.repo.ListOrders(ctx, allOrdersWindow)
}

func (s *Service) ListLabTests(ctx context.Context) ([]*LabTest, error) {
	return s.repo.ListActiveTests(ctx)
}
