package lab

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	PatientExists(ctx context.Context, usn string) (bool, error)

	// GetActiveTestByCode returns (nil, nil) when no active test matches.
	GetActiveTestByCode(ctx context.Context, code string) (*LabTest, error)
	ListActiveTests(ctx context.Context) ([]*LabTest, error)

	CreateOrder(ctx context.Context, o *LabOrder) error
	CreateItem(ctx context.Context, it *LabOrderItem) error
	GetItem(ctx context.Context, id uuid.UUID) (*LabOrderItem, error)
	UpdateItemResult(ctx context.Context, it *LabOrderItem) error
	ListItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]*LabOrderItem, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*LabOrder, error)
	SetOrderStatus(ctx context.Context, orderID uuid.UUID, status string) error

	ListOrdersByPatient(ctx context.Context, usn string) ([]*OrderDetail, error)
	ListOrders(ctx context.Context, limit int) ([]*OrderDetail, error)
}
