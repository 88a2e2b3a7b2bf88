package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cargoport/etl/internal/model"
)

// fakeStores is an in-memory Stores implementation for loader and
// orchestrator tests.
type fakeStores struct {
	mu        sync.Mutex
	customers map[string]model.Customer // by email
	products  map[string]model.Product  // by SKU
	orders    []model.Order
	lookups   map[model.LookupTable][]model.Lookup

	failCreateCustomer bool
}

func newFakeStores() *fakeStores {
	return &fakeStores{
		customers: map[string]model.Customer{},
		products:  map[string]model.Product{},
		lookups: map[model.LookupTable][]model.Lookup{
			model.LookupProductCategories: {
				{ID: 1, Code: "ELECTRONICS"}, {ID: 2, Code: "CLOTHING"}, {ID: 3, Code: "BOOKS"},
			},
			model.LookupOrderStatuses: {
				{ID: 1, Code: "NEW"}, {ID: 2, Code: "DELIVERED"},
			},
			model.LookupPaymentMethods: {
				{ID: 1, Code: "CASH"}, {ID: 2, Code: "CARD_ONLINE"},
			},
		},
	}
}

func (f *fakeStores) GetCustomerByEmail(_ context.Context, email string) (model.Customer, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.customers[email]
	return c, ok, nil
}

func (f *fakeStores) CreateCustomer(_ context.Context, c model.Customer) (model.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreateCustomer {
		return model.Customer{}, errors.New("injected create failure")
	}
	f.customers[c.Email] = c
	return c, nil
}

func (f *fakeStores) GetProductBySKU(_ context.Context, sku string) (model.Product, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[sku]
	return p, ok, nil
}

func (f *fakeStores) CreateProduct(_ context.Context, p model.Product) (model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.SKU] = p
	return p, nil
}

func (f *fakeStores) CreateOrder(_ context.Context, o model.Order) (model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, o)
	return o, nil
}

func (f *fakeStores) ListLookup(_ context.Context, table model.LookupTable) ([]model.Lookup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookups[table], nil
}

func customerFixture(email string) Customer {
	return Customer{
		ID:       uuid.New(),
		FullName: "Test Person",
		Email:    email,
		Phone:    "+7 900 123-45-67",
		Address:  "1 Main St",
		Source:   rec(map[string]string{"email": email}),
	}
}

func TestLoadCustomers_Idempotent(t *testing.T) {
	stores := newFakeStores()
	loader := NewLoader(stores, nil)
	ctx := context.Background()

	batch := []Customer{customerFixture("a@example.com"), customerFixture("b@example.com")}

	identity := make(IdentityMap)
	stats, failed := loader.LoadCustomers(ctx, batch, identity)
	if stats.Created != 2 || stats.Skipped != 0 || len(failed) != 0 {
		t.Fatalf("first load: created=%d skipped=%d failed=%d", stats.Created, stats.Skipped, len(failed))
	}

	// Second run over the same natural keys writes nothing.
	identity2 := make(IdentityMap)
	stats, failed = loader.LoadCustomers(ctx, batch, identity2)
	if stats.Created != 0 || stats.Skipped != 2 || len(failed) != 0 {
		t.Fatalf("second load: created=%d skipped=%d failed=%d", stats.Created, stats.Skipped, len(failed))
	}

	// Skipped customers still resolve in the identity map.
	if _, found := identity2.Resolve("a@example.com"); !found {
		t.Error("pre-existing customer missing from identity map")
	}
	if len(stores.customers) != 2 {
		t.Errorf("store holds %d customers, want 2", len(stores.customers))
	}
}

func TestLoadCustomers_RowFailureDoesNotAbort(t *testing.T) {
	stores := newFakeStores()
	stores.failCreateCustomer = true
	loader := NewLoader(stores, nil)

	identity := make(IdentityMap)
	stats, failed := loader.LoadCustomers(context.Background(), []Customer{
		customerFixture("a@example.com"),
		customerFixture("b@example.com"),
	}, identity)

	if stats.TotalProcessed != 2 {
		t.Errorf("processed = %d, want 2", stats.TotalProcessed)
	}
	if len(stats.Errors) != 2 || len(failed) != 2 {
		t.Errorf("errors=%d failed=%d, want both rows recorded", len(stats.Errors), len(failed))
	}
	if _, found := identity.Resolve("a@example.com"); found {
		t.Error("failed customer should not enter the identity map")
	}
}

func TestLoadProducts(t *testing.T) {
	stores := newFakeStores()
	loader := NewLoader(stores, nil)
	ctx := context.Background()

	products := []Product{
		{
			ID: uuid.New(), Name: "Widget", SKU: "WDG-001",
			Weight: decimal.RequireFromString("0.5"), CategoryCode: "ELECTRONICS",
			Price:  decimal.RequireFromString("19.99"),
			Source: rec(map[string]string{"sku": "WDG-001"}),
		},
		{
			ID: uuid.New(), Name: "Mystery", SKU: "MYS-001",
			Weight: decimal.RequireFromString("1"), CategoryCode: "UNKNOWN_CAT",
			Price:  decimal.RequireFromString("1.00"),
			Source: rec(map[string]string{"sku": "MYS-001"}),
		},
	}

	stats, failed := loader.LoadProducts(ctx, products)
	if stats.Created != 1 {
		t.Errorf("created = %d, want 1", stats.Created)
	}
	if len(failed) != 1 || !strings.Contains(failed[0].Violations[0], "category not found") {
		t.Errorf("failed = %v, want one category-not-found row", failed)
	}

	stored := stores.products["WDG-001"]
	if stored.CategoryID != 1 {
		t.Errorf("category ID = %d, want 1 (resolved from code)", stored.CategoryID)
	}

	// Re-run: the surviving product is now a duplicate.
	stats, _ = loader.LoadProducts(ctx, products[:1])
	if stats.Created != 0 || stats.Skipped != 1 {
		t.Errorf("re-run: created=%d skipped=%d", stats.Created, stats.Skipped)
	}
}

func TestLoadOrders(t *testing.T) {
	stores := newFakeStores()
	loader := NewLoader(stores, nil)
	customerID := uuid.New()

	orders := []Order{
		{
			ID: uuid.New(), CustomerID: customerID, CustomerEmail: "a@example.com",
			TotalAmount: decimal.RequireFromString("10"), DeliveryAddress: "1 Main St",
			PaymentMethodCode: "CASH", StatusCode: "NEW",
			Source: rec(map[string]string{"customer_email": "a@example.com"}),
		},
		{
			ID: uuid.New(), CustomerID: customerID, CustomerEmail: "a@example.com",
			TotalAmount: decimal.RequireFromString("20"), DeliveryAddress: "1 Main St",
			PaymentMethodCode: "BARTER", StatusCode: "NEW",
			Source: rec(map[string]string{"customer_email": "a@example.com"}),
		},
		{
			// Unknown status falls back to the default entry instead of failing.
			ID: uuid.New(), CustomerID: customerID, CustomerEmail: "a@example.com",
			TotalAmount: decimal.RequireFromString("30"), DeliveryAddress: "1 Main St",
			PaymentMethodCode: "CARD_ONLINE", StatusCode: "TELEPORTED",
			Source: rec(map[string]string{"customer_email": "a@example.com"}),
		},
	}

	stats, failed := loader.LoadOrders(context.Background(), orders)
	if stats.Created != 2 {
		t.Errorf("created = %d, want 2", stats.Created)
	}
	if len(failed) != 1 || !strings.Contains(failed[0].Violations[0], "payment method not found") {
		t.Errorf("failed = %v, want one payment-method row", failed)
	}

	if len(stores.orders) != 2 {
		t.Fatalf("store holds %d orders, want 2", len(stores.orders))
	}
	// The TELEPORTED order landed with the NEW status ID.
	if stores.orders[1].StatusID != 1 {
		t.Errorf("fallback status ID = %d, want 1", stores.orders[1].StatusID)
	}
}

func TestIdentityMap(t *testing.T) {
	identity := make(IdentityMap)
	id := uuid.New()

	if _, found := identity.Resolve("a@example.com"); found {
		t.Error("empty map resolved an email")
	}
	identity.Register("a@example.com", id)
	got, found := identity.Resolve("a@example.com")
	if !found || got != id {
		t.Errorf("Resolve = %v/%v, want %v/true", got, found, id)
	}
}
