package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cargoport/etl/internal/model"
)

// EntityType tags the kind of record a file carries.
type EntityType string

const (
	EntityCustomers EntityType = "customers"
	EntityProducts  EntityType = "products"
	EntityOrders    EntityType = "orders"
)

// Record is one raw row from a source file after header normalization.
// Columns preserves the original column order for error artifacts; Line is
// the 1-based position in the source file (header excluded).
type Record struct {
	Columns []string
	Fields  map[string]string
	Line    int
}

// Get returns the trimmed value of a column, or "" when absent.
func (r Record) Get(col string) string {
	return r.Fields[col]
}

// Has reports whether the column is present with a non-blank value.
func (r Record) Has(col string) bool {
	return r.Fields[col] != ""
}

// RejectedRow carries a row that failed validation, referential resolution,
// or loading, together with every violation collected for it. It never
// mutates after creation.
type RejectedRow struct {
	Line       int               `json:"line"`
	Columns    []string          `json:"-"`
	Fields     map[string]string `json:"fields"`
	Violations []string          `json:"violations"`
}

// Customer is the canonical form of a valid customer row, ready to load.
// Source keeps the original raw record so load-time failures can still be
// reported with the original field values.
type Customer struct {
	ID               uuid.UUID
	FullName         string
	Email            string // lower-cased natural key
	Phone            string
	Address          string
	RegistrationDate *time.Time
	Source           Record
}

// Product is the canonical form of a valid product row. CategoryCode is the
// canonical classification code; the loader resolves it to an identifier.
type Product struct {
	ID           uuid.UUID
	Name         string
	Description  string
	SKU          string // upper-cased natural key
	Weight       decimal.Decimal
	Dimensions   string
	CategoryCode string
	Price        decimal.Decimal
	Source       Record
}

// Order is the canonical form of a valid order row. CustomerID is resolved
// from the identity map during transformation. The optional line fields are
// populated when the source row carries quantity and unit price; TotalPrice
// is then the exact decimal product of the two.
type Order struct {
	ID                uuid.UUID
	CustomerID        uuid.UUID
	CustomerEmail     string
	OrderDate         *time.Time
	TotalAmount       decimal.Decimal
	DeliveryAddress   string
	PaymentMethodCode string
	StatusCode        string

	HasLine    bool
	Quantity   int32
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal

	Source Record
}

// EntityStats are the per-entity-type counters accumulated over a run.
// Valid+Rejected always equals TotalProcessed.
type EntityStats struct {
	TotalProcessed int      `json:"total_processed"`
	Valid          int      `json:"valid_records"`
	Rejected       int      `json:"error_records"`
	Created        int      `json:"created"`
	Skipped        int      `json:"skipped"`
	Errors         []string `json:"errors,omitempty"`
	FileErrors     []string `json:"file_errors,omitempty"`
}

// Merge adds another stats block into the receiver. File errors accumulate;
// several files of the same entity type can fail in one run.
func (s *EntityStats) Merge(o EntityStats) {
	s.TotalProcessed += o.TotalProcessed
	s.Valid += o.Valid
	s.Rejected += o.Rejected
	s.Created += o.Created
	s.Skipped += o.Skipped
	s.Errors = append(s.Errors, o.Errors...)
	s.FileErrors = append(s.FileErrors, o.FileErrors...)
}

// LoadStats is the outcome of loading one file's canonical records.
type LoadStats struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// RunSummary is the roll-up across all entity types for one run.
type RunSummary struct {
	TotalProcessed int     `json:"total_processed"`
	TotalValid     int     `json:"total_valid"`
	TotalErrors    int     `json:"total_errors"`
	TotalCreated   int     `json:"total_created"`
	SuccessRate    float64 `json:"success_rate"`
}

// RunReport is the final artifact of a run, serialized to JSON in the
// output directory and exposed by the status endpoint.
type RunReport struct {
	Timestamp   string                      `json:"timestamp"`
	GeneratedAt time.Time                   `json:"generated_at"`
	Statistics  map[EntityType]*EntityStats `json:"statistics"`
	Summary     RunSummary                  `json:"summary"`
}

// Stores bundles the persistence operations the loaders need. The pgx-backed
// implementation lives in internal/store; tests use in-memory fakes.
type Stores interface {
	CustomerStore
	ProductStore
	OrderStore
	LookupStore
}

// CustomerStore is the persistence surface of the customer loader.
type CustomerStore interface {
	GetCustomerByEmail(ctx context.Context, email string) (model.Customer, bool, error)
	CreateCustomer(ctx context.Context, c model.Customer) (model.Customer, error)
}

// ProductStore is the persistence surface of the product loader.
type ProductStore interface {
	GetProductBySKU(ctx context.Context, sku string) (model.Product, bool, error)
	CreateProduct(ctx context.Context, p model.Product) (model.Product, error)
}

// OrderStore is the persistence surface of the order loader.
type OrderStore interface {
	CreateOrder(ctx context.Context, o model.Order) (model.Order, error)
}

// LookupStore lists code dictionaries for load-time resolution.
type LookupStore interface {
	ListLookup(ctx context.Context, table model.LookupTable) ([]model.Lookup, error)
}
