package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/cargoport/etl/internal/model"
)

const orderColumns = `order_id, customer_id, order_status_id, total_amount, delivery_address, payment_method_id, order_date, created_at`

func scanOrder(row pgx.Row) (model.Order, error) {
	var (
		id         pgtype.UUID
		customerID pgtype.UUID
		o          model.Order
		total      pgtype.Numeric
		orderDate  pgtype.Date
	)
	if err := row.Scan(&id, &customerID, &o.StatusID, &total, &o.DeliveryAddress, &o.PaymentMethodID, &orderDate, &o.CreatedAt); err != nil {
		return model.Order{}, err
	}
	o.ID = FromPgUUID(id)
	o.CustomerID = FromPgUUID(customerID)
	o.TotalAmount = FromPgNumeric(total)
	o.OrderDate = FromPgDate(orderDate)
	return o, nil
}

// GetOrder returns an order by identifier.
func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (model.Order, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, ToPgUUID(id))
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Order{}, ErrNotFound
	}
	if err != nil {
		return model.Order{}, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// ListOrders returns orders ordered by creation time.
func (s *Store) ListOrders(ctx context.Context, limit, offset int) ([]model.Order, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// ListOrdersByCustomer returns a customer's orders.
func (s *Store) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`,
		ToPgUUID(customerID))
	if err != nil {
		return nil, fmt.Errorf("list orders by customer: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// CreateOrder inserts an order and returns the stored row.
func (s *Store) CreateOrder(ctx context.Context, o model.Order) (model.Order, error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	total, err := ToPgNumeric(o.TotalAmount)
	if err != nil {
		return model.Order{}, err
	}

	row := s.db.QueryRow(ctx,
		`INSERT INTO orders (order_id, customer_id, order_status_id, total_amount, delivery_address, payment_method_id, order_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+orderColumns,
		ToPgUUID(o.ID), ToPgUUID(o.CustomerID), o.StatusID, total, o.DeliveryAddress, o.PaymentMethodID, ToPgDate(o.OrderDate))
	created, err := scanOrder(row)
	if err != nil {
		return model.Order{}, fmt.Errorf("create order: %w", err)
	}
	return created, nil
}

// UpdateOrder applies a sparse patch to an existing order and writes the
// merged value back.
func (s *Store) UpdateOrder(ctx context.Context, id uuid.UUID, patch model.OrderPatch) (model.Order, error) {
	existing, err := s.GetOrder(ctx, id)
	if err != nil {
		return model.Order{}, err
	}

	merged := existing.Merge(patch)
	total, err := ToPgNumeric(merged.TotalAmount)
	if err != nil {
		return model.Order{}, err
	}

	row := s.db.QueryRow(ctx,
		`UPDATE orders
		 SET order_status_id = $2, total_amount = $3, delivery_address = $4, payment_method_id = $5, order_date = $6
		 WHERE order_id = $1
		 RETURNING `+orderColumns,
		ToPgUUID(id), merged.StatusID, total, merged.DeliveryAddress, merged.PaymentMethodID, ToPgDate(merged.OrderDate))
	updated, err := scanOrder(row)
	if err != nil {
		return model.Order{}, fmt.Errorf("update order: %w", err)
	}
	return updated, nil
}

// DeleteOrder removes an order by identifier.
func (s *Store) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM orders WHERE order_id = $1`, ToPgUUID(id))
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
