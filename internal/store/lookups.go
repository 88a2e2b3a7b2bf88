package store

import (
	"context"
	"fmt"

	"github.com/cargoport/etl/internal/model"
)

// lookupTableSQL maps a dictionary to its table and columns. Keeping the SQL
// fragments in a fixed table means a LookupTable value can never inject into
// the query text.
var lookupTableSQL = map[model.LookupTable]struct {
	table string
	idCol string
	code  string
	name  string
}{
	model.LookupProductCategories: {"dictionary_product_categories", "category_id", "category_code", "category_name"},
	model.LookupPaymentMethods:    {"dictionary_payment_methods", "method_id", "method_code", "method_name"},
	model.LookupOrderStatuses:     {"dictionary_order_statuses", "status_id", "status_code", "status_name"},
	model.LookupShipmentStatuses:  {"dictionary_shipment_statuses", "status_id", "status_code", "status_name"},
	model.LookupVehicleTypes:      {"dictionary_vehicle_types", "type_id", "type_code", "type_name"},
}

// ListLookup returns every row of a code dictionary.
func (s *Store) ListLookup(ctx context.Context, table model.LookupTable) ([]model.Lookup, error) {
	spec, ok := lookupTableSQL[table]
	if !ok {
		return nil, fmt.Errorf("unknown lookup table %q", table)
	}

	rows, err := s.db.Query(ctx, fmt.Sprintf(
		`SELECT %s, %s, %s FROM %s ORDER BY %s`,
		spec.idCol, spec.code, spec.name, spec.table, spec.idCol))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	var lookups []model.Lookup
	for rows.Next() {
		var l model.Lookup
		if err := rows.Scan(&l.ID, &l.Code, &l.Name); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		lookups = append(lookups, l)
	}
	return lookups, rows.Err()
}

// CreateLookup inserts a row into a code dictionary and returns it with its
// assigned identifier.
func (s *Store) CreateLookup(ctx context.Context, table model.LookupTable, l model.Lookup) (model.Lookup, error) {
	spec, ok := lookupTableSQL[table]
	if !ok {
		return model.Lookup{}, fmt.Errorf("unknown lookup table %q", table)
	}

	row := s.db.QueryRow(ctx, fmt.Sprintf(
		`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`,
		spec.table, spec.code, spec.name, spec.idCol),
		l.Code, l.Name)
	if err := row.Scan(&l.ID); err != nil {
		return model.Lookup{}, fmt.Errorf("create %s: %w", table, err)
	}
	return l, nil
}

// DeleteLookup removes a dictionary row by identifier.
func (s *Store) DeleteLookup(ctx context.Context, table model.LookupTable, id int32) error {
	spec, ok := lookupTableSQL[table]
	if !ok {
		return fmt.Errorf("unknown lookup table %q", table)
	}

	tag, err := s.db.Exec(ctx, fmt.Sprintf(
		`DELETE FROM %s WHERE %s = $1`, spec.table, spec.idCol), id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
