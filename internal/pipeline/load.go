package pipeline

// load.go persists canonical records. Loading is idempotent on the natural
// key: a record whose key already exists in the store is skipped (no write),
// though skipped customers still register their existing identifier in the
// identity map so later order resolution sees the complete picture. Row
// failures are collected into the stats, echoed as rejected rows for the
// error artifacts, and never abort the rest of the file; rows already
// written stay written.

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cargoport/etl/internal/model"
)

// Loader persists canonical records through the store interfaces.
type Loader struct {
	stores Stores
	logger *slog.Logger
}

// NewLoader creates a loader backed by the given stores.
func NewLoader(stores Stores, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{stores: stores, logger: logger}
}

// loadFailure records a row-level load error in both the stats and the
// rejected set.
func loadFailure(stats *LoadStats, failed *[]RejectedRow, source Record, reason string) {
	stats.Errors = append(stats.Errors, reason)
	*failed = append(*failed, reject(source, []string{reason}))
}

// LoadCustomers upserts customers by email and registers every processed
// row, created or pre-existing, into the identity map.
func (l *Loader) LoadCustomers(ctx context.Context, customers []Customer, identity IdentityMap) (LoadStats, []RejectedRow) {
	stats := LoadStats{TotalProcessed: len(customers)}
	var failed []RejectedRow

	for _, c := range customers {
		existing, found, err := l.stores.GetCustomerByEmail(ctx, c.Email)
		if err != nil {
			loadFailure(&stats, &failed, c.Source, fmt.Sprintf("lookup customer %s: %v", c.Email, err))
			continue
		}
		if found {
			identity.Register(c.Email, existing.ID)
			stats.Skipped++
			continue
		}

		created, err := l.stores.CreateCustomer(ctx, model.Customer{
			ID:               c.ID,
			FullName:         c.FullName,
			Email:            c.Email,
			Phone:            c.Phone,
			Address:          c.Address,
			RegistrationDate: c.RegistrationDate,
		})
		if err != nil {
			loadFailure(&stats, &failed, c.Source, fmt.Sprintf("create customer %s: %v", c.Email, err))
			continue
		}

		identity.Register(c.Email, created.ID)
		stats.Created++
	}

	l.logStats("customer load finished", stats)
	return stats, failed
}

// LoadProducts upserts products by SKU, resolving category codes against the
// product category dictionary. An unknown category is a load-time error for
// that row only.
func (l *Loader) LoadProducts(ctx context.Context, products []Product) (LoadStats, []RejectedRow) {
	stats := LoadStats{TotalProcessed: len(products)}
	var failed []RejectedRow

	categories, err := l.lookupByCode(ctx, model.LookupProductCategories)
	if err != nil {
		stats.Errors = append(stats.Errors, err.Error())
		return stats, failed
	}

	for _, p := range products {
		_, found, err := l.stores.GetProductBySKU(ctx, p.SKU)
		if err != nil {
			loadFailure(&stats, &failed, p.Source, fmt.Sprintf("lookup product %s: %v", p.SKU, err))
			continue
		}
		if found {
			stats.Skipped++
			continue
		}

		categoryID, ok := categories[p.CategoryCode]
		if !ok {
			loadFailure(&stats, &failed, p.Source, fmt.Sprintf("product %s: category not found: %s", p.SKU, p.CategoryCode))
			continue
		}

		if _, err := l.stores.CreateProduct(ctx, model.Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			SKU:         p.SKU,
			Weight:      p.Weight,
			Dimensions:  p.Dimensions,
			CategoryID:  categoryID,
			Price:       p.Price,
		}); err != nil {
			loadFailure(&stats, &failed, p.Source, fmt.Sprintf("create product %s: %v", p.SKU, err))
			continue
		}
		stats.Created++
	}

	l.logStats("product load finished", stats)
	return stats, failed
}

// LoadOrders creates orders, resolving status and payment method codes
// against their dictionaries. Orders have no natural key, so there is no
// duplicate skip; a missing payment method is a load-time error for that
// row. An unknown status code falls back to the default status entry.
func (l *Loader) LoadOrders(ctx context.Context, orders []Order) (LoadStats, []RejectedRow) {
	stats := LoadStats{TotalProcessed: len(orders)}
	var failed []RejectedRow

	statuses, err := l.lookupByCode(ctx, model.LookupOrderStatuses)
	if err != nil {
		stats.Errors = append(stats.Errors, err.Error())
		return stats, failed
	}
	payments, err := l.lookupByCode(ctx, model.LookupPaymentMethods)
	if err != nil {
		stats.Errors = append(stats.Errors, err.Error())
		return stats, failed
	}

	for _, o := range orders {
		statusID, ok := statuses[o.StatusCode]
		if !ok {
			statusID, ok = statuses[DefaultOrderStatus]
			if !ok {
				loadFailure(&stats, &failed, o.Source, fmt.Sprintf("order for %s: status not found: %s", o.CustomerEmail, o.StatusCode))
				continue
			}
		}

		paymentID, ok := payments[o.PaymentMethodCode]
		if !ok {
			loadFailure(&stats, &failed, o.Source, fmt.Sprintf("order for %s: payment method not found: %s", o.CustomerEmail, o.PaymentMethodCode))
			continue
		}

		if _, err := l.stores.CreateOrder(ctx, model.Order{
			ID:              o.ID,
			CustomerID:      o.CustomerID,
			StatusID:        statusID,
			TotalAmount:     o.TotalAmount,
			DeliveryAddress: o.DeliveryAddress,
			PaymentMethodID: paymentID,
			OrderDate:       o.OrderDate,
		}); err != nil {
			loadFailure(&stats, &failed, o.Source, fmt.Sprintf("create order for %s: %v", o.CustomerEmail, err))
			continue
		}
		stats.Created++
	}

	l.logStats("order load finished", stats)
	return stats, failed
}

func (l *Loader) logStats(msg string, stats LoadStats) {
	l.logger.Info(msg,
		"processed", stats.TotalProcessed,
		"created", stats.Created,
		"skipped", stats.Skipped,
		"errors", len(stats.Errors),
	)
}

// lookupByCode loads a code dictionary into a code -> identifier map.
func (l *Loader) lookupByCode(ctx context.Context, table model.LookupTable) (map[string]int32, error) {
	rows, err := l.stores.ListLookup(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	byCode := make(map[string]int32, len(rows))
	for _, row := range rows {
		byCode[row.Code] = row.ID
	}
	return byCode, nil
}
