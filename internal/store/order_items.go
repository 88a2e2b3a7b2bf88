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

const orderItemColumns = `order_item_id, order_id, product_id, quantity, price_per_unit, total_price`

func scanOrderItem(row pgx.Row) (model.OrderItem, error) {
	var (
		id        pgtype.UUID
		orderID   pgtype.UUID
		productID pgtype.UUID
		i         model.OrderItem
		price     pgtype.Numeric
		total     pgtype.Numeric
	)
	if err := row.Scan(&id, &orderID, &productID, &i.Quantity, &price, &total); err != nil {
		return model.OrderItem{}, err
	}
	i.ID = FromPgUUID(id)
	i.OrderID = FromPgUUID(orderID)
	i.ProductID = FromPgUUID(productID)
	i.PricePerUnit = FromPgNumeric(price)
	i.TotalPrice = FromPgNumeric(total)
	return i, nil
}

// GetOrderItem returns an order item by identifier.
func (s *Store) GetOrderItem(ctx context.Context, id uuid.UUID) (model.OrderItem, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+orderItemColumns+` FROM order_items WHERE order_item_id = $1`, ToPgUUID(id))
	i, err := scanOrderItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.OrderItem{}, ErrNotFound
	}
	if err != nil {
		return model.OrderItem{}, fmt.Errorf("get order item: %w", err)
	}
	return i, nil
}

// ListOrderItems returns an order's items.
func (s *Store) ListOrderItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+orderItemColumns+` FROM order_items WHERE order_id = $1 ORDER BY order_item_id`,
		ToPgUUID(orderID))
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		i, err := scanOrderItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// CreateOrderItem inserts an order item and refreshes the parent order's
// total. The total price is recomputed server-side, never taken from input.
func (s *Store) CreateOrderItem(ctx context.Context, i model.OrderItem) (model.OrderItem, error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	i = i.Recalculate()

	price, err := ToPgNumeric(i.PricePerUnit)
	if err != nil {
		return model.OrderItem{}, err
	}
	total, err := ToPgNumeric(i.TotalPrice)
	if err != nil {
		return model.OrderItem{}, err
	}

	row := s.db.QueryRow(ctx,
		`INSERT INTO order_items (order_item_id, order_id, product_id, quantity, price_per_unit, total_price)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+orderItemColumns,
		ToPgUUID(i.ID), ToPgUUID(i.OrderID), ToPgUUID(i.ProductID), i.Quantity, price, total)
	created, err := scanOrderItem(row)
	if err != nil {
		return model.OrderItem{}, fmt.Errorf("create order item: %w", err)
	}

	if err := s.refreshOrderTotal(ctx, created.OrderID); err != nil {
		return model.OrderItem{}, err
	}
	return created, nil
}

// UpdateOrderItem applies a sparse patch to an existing item, writes the
// merged value back, and refreshes the parent order's total.
func (s *Store) UpdateOrderItem(ctx context.Context, id uuid.UUID, patch model.OrderItemPatch) (model.OrderItem, error) {
	existing, err := s.GetOrderItem(ctx, id)
	if err != nil {
		return model.OrderItem{}, err
	}

	merged := existing.Merge(patch)
	price, err := ToPgNumeric(merged.PricePerUnit)
	if err != nil {
		return model.OrderItem{}, err
	}
	total, err := ToPgNumeric(merged.TotalPrice)
	if err != nil {
		return model.OrderItem{}, err
	}

	row := s.db.QueryRow(ctx,
		`UPDATE order_items
		 SET quantity = $2, price_per_unit = $3, total_price = $4
		 WHERE order_item_id = $1
		 RETURNING `+orderItemColumns,
		ToPgUUID(id), merged.Quantity, price, total)
	updated, err := scanOrderItem(row)
	if err != nil {
		return model.OrderItem{}, fmt.Errorf("update order item: %w", err)
	}

	if err := s.refreshOrderTotal(ctx, updated.OrderID); err != nil {
		return model.OrderItem{}, err
	}
	return updated, nil
}

// DeleteOrderItem removes an item and refreshes the parent order's total.
func (s *Store) DeleteOrderItem(ctx context.Context, id uuid.UUID) error {
	existing, err := s.GetOrderItem(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(ctx,
		`DELETE FROM order_items WHERE order_item_id = $1`, ToPgUUID(id)); err != nil {
		return fmt.Errorf("delete order item: %w", err)
	}
	return s.refreshOrderTotal(ctx, existing.OrderID)
}

// refreshOrderTotal sets the order's total_amount to the sum of its surviving
// item totals. An order with no items left goes to zero.
func (s *Store) refreshOrderTotal(ctx context.Context, orderID uuid.UUID) error {
	_, err := s.db.Exec(ctx,
		`UPDATE orders
		 SET total_amount = COALESCE((SELECT SUM(total_price) FROM order_items WHERE order_id = $1), 0)
		 WHERE order_id = $1`,
		ToPgUUID(orderID))
	if err != nil {
		return fmt.Errorf("refresh order total: %w", err)
	}
	return nil
}
