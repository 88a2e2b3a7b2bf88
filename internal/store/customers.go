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

const customerColumns = `customer_id, full_name, email, phone, address, registration_date, created_at`

func scanCustomer(row pgx.Row) (model.Customer, error) {
	var (
		id      pgtype.UUID
		c       model.Customer
		phone   pgtype.Text
		address pgtype.Text
		regDate pgtype.Date
	)
	if err := row.Scan(&id, &c.FullName, &c.Email, &phone, &address, &regDate, &c.CreatedAt); err != nil {
		return model.Customer{}, err
	}
	c.ID = FromPgUUID(id)
	c.Phone = FromPgText(phone)
	c.Address = FromPgText(address)
	c.RegistrationDate = FromPgDate(regDate)
	return c, nil
}

// GetCustomer returns a customer by identifier.
func (s *Store) GetCustomer(ctx context.Context, id uuid.UUID) (model.Customer, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE customer_id = $1`, ToPgUUID(id))
	c, err := scanCustomer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Customer{}, ErrNotFound
	}
	if err != nil {
		return model.Customer{}, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// GetCustomerByEmail looks up a customer by its natural key.
func (s *Store) GetCustomerByEmail(ctx context.Context, email string) (model.Customer, bool, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE email = $1`, email)
	c, err := scanCustomer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Customer{}, false, nil
	}
	if err != nil {
		return model.Customer{}, false, fmt.Errorf("get customer by email: %w", err)
	}
	return c, true, nil
}

// ListCustomers returns customers ordered by creation time.
func (s *Store) ListCustomers(ctx context.Context, limit, offset int) ([]model.Customer, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []model.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// CreateCustomer inserts a customer and returns the stored row.
func (s *Store) CreateCustomer(ctx context.Context, c model.Customer) (model.Customer, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	row := s.db.QueryRow(ctx,
		`INSERT INTO customers (customer_id, full_name, email, phone, address, registration_date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+customerColumns,
		ToPgUUID(c.ID), c.FullName, c.Email, ToPgText(c.Phone), ToPgText(c.Address), ToPgDate(c.RegistrationDate))
	created, err := scanCustomer(row)
	if err != nil {
		return model.Customer{}, fmt.Errorf("create customer: %w", err)
	}
	return created, nil
}

// UpdateCustomer applies a sparse patch to an existing customer and writes
// the merged value back, returning the new row.
func (s *Store) UpdateCustomer(ctx context.Context, id uuid.UUID, patch model.CustomerPatch) (model.Customer, error) {
	existing, err := s.GetCustomer(ctx, id)
	if err != nil {
		return model.Customer{}, err
	}

	merged := existing.Merge(patch)
	row := s.db.QueryRow(ctx,
		`UPDATE customers
		 SET full_name = $2, email = $3, phone = $4, address = $5, registration_date = $6
		 WHERE customer_id = $1
		 RETURNING `+customerColumns,
		ToPgUUID(id), merged.FullName, merged.Email, ToPgText(merged.Phone), ToPgText(merged.Address), ToPgDate(merged.RegistrationDate))
	updated, err := scanCustomer(row)
	if err != nil {
		return model.Customer{}, fmt.Errorf("update customer: %w", err)
	}
	return updated, nil
}

// DeleteCustomer removes a customer by identifier.
func (s *Store) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM customers WHERE customer_id = $1`, ToPgUUID(id))
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
