package lab

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hmis/hmis/internal/domain/errs"
	"github.com/hmis/hmis/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *repoPG) PatientExists(ctx context.Context, usn string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM patients WHERE usn=$1)`, usn).Scan(&exists)
	if err != nil {
		return false, errs.Store(err)
	}
	return exists, nil
}

func (r *repoPG) GetActiveTestByCode(ctx context.Context, code string) (*LabTest, error) {
	var t LabTest
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, code, name, specimen, unit, ref_range, is_active
		FROM lab_tests WHERE code=$1 AND is_active`, code).
		Scan(&t.ID, &t.Code, &t.Name, &t.Specimen, &t.Unit, &t.RefRange, &t.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Store(err)
	}
	return &t, nil
}

func (r *repoPG) ListActiveTests(ctx context.Context) ([]*LabTest, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, code, name, specimen, unit, ref_range, is_active
		FROM lab_tests WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, errs.Store(err)
	}
	defer rows.Close()
	var tests []*LabTest
	for rows.Next() {
		var t LabTest
		if err := rows.Scan(&t.ID, &t.Code, &t.Name, &t.Specimen, &t.Unit, &t.RefRange, &t.IsActive); err != nil {
			return nil, errs.Store(err)
		}
		tests = append(tests, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(err)
	}
	return tests, nil
}

func (r *repoPG) CreateOrder(ctx context.Context, o *LabOrder) error {
	o.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO lab_orders (id, usn, encounter_id, ordered_at, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		o.ID, o.USN, o.EncounterID, o.OrderedAt, o.Status, o.Notes)
	if err != nil {
		return errs.Store(err)
	}
	return nil
}

func (r *repoPG) CreateItem(ctx context.Context, it *LabOrderItem) error {
	it.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO lab_order_items (id, lab_order_id, lab_test_id, status, result_value, result_notes, result_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		it.ID, it.LabOrderID, it.LabTestID, it.Status, it.ResultValue, it.ResultNotes, it.ResultAt)
	if err != nil {
		return errs.Store(err)
	}
	return nil
}

func (r *repoPG) GetItem(ctx context.Context, id uuid.UUID) (*LabOrderItem, error) {
	var it LabOrderItem
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, lab_order_id, lab_test_id, status, result_value, result_notes, result_at
		FROM lab_order_items WHERE id=$1`, id).
		Scan(&it.ID, &it.LabOrderID, &it.LabTestID, &it.Status, &it.ResultValue, &it.ResultNotes, &it.ResultAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, errs.Store(err)
	}
	return &it, nil
}

func (r *repoPG) UpdateItemResult(ctx context.Context, it *LabOrderItem) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE lab_order_items
		SET status=$2, result_value=$3, result_notes=$4, result_at=$5
		WHERE id=$1`,
		it.ID, it.Status, it.ResultValue, it.ResultNotes, it.ResultAt)
	if err != nil {
		return errs.Store(err)
	}
	return nil
}

func (r *repoPG) ListItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]*LabOrderItem, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, lab_order_id, lab_test_id, status, result_value, result_notes, result_at
		FROM lab_order_items WHERE lab_order_id=$1`, orderID)
	if err != nil {
		return nil, errs.Store(err)
	}
	defer rows.Close()
	var items []*LabOrderItem
	for rows.Next() {
		var it LabOrderItem
		if err := rows.Scan(&it.ID, &it.LabOrderID, &it.LabTestID, &it.Status, &it.ResultValue, &it.ResultNotes, &it.ResultAt); err != nil {
			return nil, errs.Store(err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(err)
	}
	return items, nil
}

func (r *repoPG) GetOrder(ctx context.Context, id uuid.UUID) (*LabOrder, error) {
	var o LabOrder
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, usn, encounter_id, ordered_at, status, notes
		FROM lab_orders WHERE id=$1`, id).
		Scan(&o.ID, &o.USN, &o.EncounterID, &o.OrderedAt, &o.Status, &o.Notes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, errs.Store(err)
	}
	return &o, nil
}

func (r *repoPG) SetOrderStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE lab_orders SET status=$2 WHERE id=$1`, orderID, status)
	if err != nil {
		return errs.Store(err)
	}
	return nil
}

func (r *repoPG) listOrders(ctx context.Context, query string, args ...interface{}) ([]*OrderDetail, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, errs.Store(err)
	}
	defer rows.Close()
	var orders []*OrderDetail
	for rows.Next() {
		var o OrderDetail
		if err := rows.Scan(&o.ID, &o.USN, &o.EncounterID, &o.OrderedAt, &o.Status, &o.Notes); err != nil {
			return nil, errs.Store(err)
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(err)
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachItems loads the joined items for each order in one pass.
func (r *repoPG) attachItems(ctx context.Context, orders []*OrderDetail) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(orders))
	byID := make(map[uuid.UUID]*OrderDetail, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT i.id, i.lab_order_id, i.lab_test_id, i.status, i.result_value, i.result_notes, i.result_at,
			t.code AS test_code, t.name AS test_name
		FROM lab_order_items i
		JOIN lab_tests t ON t.id = i.lab_test_id
		WHERE i.lab_order_id = ANY($1)`, ids)
	if err != nil {
		return errs.Store(err)
	}
	defer rows.Close()
	for rows.Next() {
		var d ItemDetail
		if err := rows.Scan(&d.ID, &d.LabOrderID, &d.LabTestID, &d.Status, &d.ResultValue, &d.ResultNotes, &d.ResultAt,
			&d.TestCode, &d.TestName); err != nil {
			return errs.Store(err)
		}
		if o, ok := byID[d.LabOrderID]; ok {
			o.Items = append(o.Items, &d)
		}
	}
	if err := rows.Err(); err != nil {
		return errs.Store(err)
	}
	return nil
}

func (r *repoPG) ListOrdersByPatient(ctx context.Context, usn string) ([]*OrderDetail, error) {
	return r.listOrders(ctx, `
		SELECT id, usn, encounter_id, ordered_at, status, notes FROM lab_orders
		WHERE usn=$1 ORDER BY ordered_at DESC`, usn)
}

func (r *repoPG) ListOrders(ctx context.Context, limit int) ([]*OrderDetail, error) {
	return r.listOrders(ctx, `
		SELECT id, usn, encounter_id, ordered_at, status, notes FROM lab_orders
		ORDER BY ordered_at DESC LIMIT $1`, limit)
}
