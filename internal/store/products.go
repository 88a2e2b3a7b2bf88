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

const productColumns = `product_id, name, description, sku, weight, dimensions, category_id, price, created_at`

func scanProduct(row pgx.Row) (model.Product, error) {
	var (
		id         pgtype.UUID
		p          model.Product
		desc       pgtype.Text
		weight     pgtype.Numeric
		dimensions pgtype.Text
		price      pgtype.Numeric
	)
	if err := row.Scan(&id, &p.Name, &desc, &p.SKU, &weight, &dimensions, &p.CategoryID, &price, &p.CreatedAt); err != nil {
		return model.Product{}, err
	}
	p.ID = FromPgUUID(id)
	p.Description = FromPgText(desc)
	p.Weight = FromPgNumeric(weight)
	p.Dimensions = FromPgText(dimensions)
	p.Price = FromPgNumeric(price)
	return p, nil
}

// GetProduct returns a product by identifier.
func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE product_id = $1`, ToPgUUID(id))
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, ErrNotFound
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetProductBySKU looks up a product by its natural key.
func (s *Store) GetProductBySKU(ctx context.Context, sku string) (model.Product, bool, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE sku = $1`, sku)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, false, nil
	}
	if err != nil {
		return model.Product{}, false, fmt.Errorf("get product by sku: %w", err)
	}
	return p, true, nil
}

// ListProducts returns products ordered by creation time.
func (s *Store) ListProducts(ctx context.Context, limit, offset int) ([]model.Product, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// CreateProduct inserts a product and returns the stored row.
func (s *Store) CreateProduct(ctx context.Context, p model.Product) (model.Product, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	weight, err := ToPgNumeric(p.Weight)
	if err != nil {
		return model.Product{}, err
	}
	price, err := ToPgNumeric(p.Price)
	if err != nil {
		return model.Product{}, err
	}

	row := s.db.QueryRow(ctx,
		`INSERT INTO products (product_id, name, description, sku, weight, dimensions, category_id, price)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+productColumns,
		ToPgUUID(p.ID), p.Name, ToPgText(p.Description), p.SKU, weight, ToPgText(p.Dimensions), p.CategoryID, price)
	created, err := scanProduct(row)
	if err != nil {
		return model.Product{}, fmt.Errorf("create product: %w", err)
	}
	return created, nil
}

// UpdateProduct applies a sparse patch to an existing product and writes the
// merged value back.
func (s *Store) UpdateProduct(ctx context.Context, id uuid.UUID, patch model.ProductPatch) (model.Product, error) {
	existing, err := s.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, err
	}

	merged := existing.Merge(patch)
	weight, err := ToPgNumeric(merged.Weight)
	if err != nil {
		return model.Product{}, err
	}
	price, err := ToPgNumeric(merged.Price)
	if err != nil {
		return model.Product{}, err
	}

	row := s.db.QueryRow(ctx,
		`UPDATE products
		 SET name = $2, description = $3, weight = $4, dimensions = $5, category_id = $6, price = $7
		 WHERE product_id = $1
		 RETURNING `+productColumns,
		ToPgUUID(id), merged.Name, ToPgText(merged.Description), weight, ToPgText(merged.Dimensions), merged.CategoryID, price)
	updated, err := scanProduct(row)
	if err != nil {
		return model.Product{}, fmt.Errorf("update product: %w", err)
	}
	return updated, nil
}

// DeleteProduct removes a product by identifier.
func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM products WHERE product_id = $1`, ToPgUUID(id))
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
