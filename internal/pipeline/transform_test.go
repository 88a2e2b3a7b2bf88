package pipeline

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestTransformCustomers(t *testing.T) {
	records := []Record{
		rec(map[string]string{
			"full_name": "Alice Smith", "email": "ALICE@Example.COM",
			"phone": "+7 900 123-45-67", "address": "1 Main St",
			"registration_date": "15.03.2024",
		}),
		rec(map[string]string{
			"full_name": "Bob", "email": "", "phone": "+7 900 765-43-21", "address": "2 Oak Ave",
		}),
	}

	valid, rejected := TransformCustomers(records)
	if len(valid) != 1 || len(rejected) != 1 {
		t.Fatalf("valid=%d rejected=%d, want 1/1", len(valid), len(rejected))
	}

	c := valid[0]
	if c.Email != "alice@example.com" {
		t.Errorf("email = %q, want lower-cased", c.Email)
	}
	if c.ID == uuid.Nil {
		t.Error("surrogate ID not minted")
	}
	if c.RegistrationDate == nil || c.RegistrationDate.Format("2006-01-02") != "2024-03-15" {
		t.Errorf("registration date = %v", c.RegistrationDate)
	}
}

func TestTransformCustomers_InvalidDateIsViolation(t *testing.T) {
	records := []Record{
		rec(map[string]string{
			"full_name": "Alice", "email": "alice@example.com",
			"phone": "+7 900 123-45-67", "address": "1 Main St",
			"registration_date": "someday",
		}),
	}

	valid, rejected := TransformCustomers(records)
	if len(valid) != 0 || len(rejected) != 1 {
		t.Fatalf("valid=%d rejected=%d, want 0/1", len(valid), len(rejected))
	}
	joined := strings.Join(rejected[0].Violations, "; ")
	if !strings.Contains(joined, "registration_date") {
		t.Errorf("violations %q should mention registration_date", joined)
	}
}

func TestTransformProducts(t *testing.T) {
	m := DefaultMappings()
	records := []Record{
		rec(map[string]string{
			"name": "Widget", "sku": "wdg-001", "weight": "0.5",
			"category": "Электроника", "price": "19.99",
		}),
		rec(map[string]string{
			"name": "Gadget", "sku": "GDG-002", "weight": "1.2",
			"category": "widgets", "price": "5.00",
		}),
	}

	valid, rejected := TransformProducts(records, m)
	if len(valid) != 2 || len(rejected) != 0 {
		t.Fatalf("valid=%d rejected=%d, want 2/0", len(valid), len(rejected))
	}

	if valid[0].SKU != "WDG-001" {
		t.Errorf("sku = %q, want upper-cased WDG-001", valid[0].SKU)
	}
	if valid[0].CategoryCode != "ELECTRONICS" {
		t.Errorf("category = %q, want ELECTRONICS (Russian label mapped)", valid[0].CategoryCode)
	}
	// Unknown labels pass through upper-cased instead of being dropped.
	if valid[1].CategoryCode != "WIDGETS" {
		t.Errorf("category = %q, want WIDGETS pass-through", valid[1].CategoryCode)
	}
}

func TestTransformOrders_LineTotals(t *testing.T) {
	identity := make(IdentityMap)
	identity.Register("alice@example.com", uuid.New())

	records := []Record{
		rec(map[string]string{
			"customer_email": "Alice@Example.com", "delivery_address": "1 Main St",
			"payment_method": "Наличные", "quantity": "3", "unit_price": "19.99",
		}),
	}

	valid, rejected := TransformOrders(records, DefaultMappings(), identity)
	if len(valid) != 1 || len(rejected) != 0 {
		t.Fatalf("valid=%d rejected=%d, want 1/0 (%v)", len(valid), len(rejected), rejected)
	}

	o := valid[0]
	if !o.HasLine {
		t.Fatal("line fields not captured")
	}
	want := decimal.RequireFromString("59.97")
	if !o.TotalPrice.Equal(want) {
		t.Errorf("total price = %s, want exactly 59.97", o.TotalPrice)
	}
	// No explicit total_amount: the line total stands in.
	if !o.TotalAmount.Equal(want) {
		t.Errorf("total amount = %s, want 59.97", o.TotalAmount)
	}
	if o.PaymentMethodCode != "CASH" {
		t.Errorf("payment method = %q, want CASH", o.PaymentMethodCode)
	}
	if o.StatusCode != DefaultOrderStatus {
		t.Errorf("status = %q, want default %q", o.StatusCode, DefaultOrderStatus)
	}
}

func TestTransformOrders_CustomerNotFound(t *testing.T) {
	identity := make(IdentityMap)

	records := []Record{
		rec(map[string]string{
			"customer_email": "ghost@example.com", "delivery_address": "1 Main St",
			"payment_method": "CASH", "total_amount": "10",
		}),
	}

	valid, rejected := TransformOrders(records, DefaultMappings(), identity)
	if len(valid) != 0 || len(rejected) != 1 {
		t.Fatalf("valid=%d rejected=%d, want 0/1", len(valid), len(rejected))
	}
	joined := strings.Join(rejected[0].Violations, "; ")
	if !strings.Contains(joined, "customer not found: ghost@example.com") {
		t.Errorf("violations = %q", joined)
	}
}

func TestTransformOrders_ExplicitStatusMapped(t *testing.T) {
	identity := make(IdentityMap)
	identity.Register("alice@example.com", uuid.New())

	records := []Record{
		rec(map[string]string{
			"customer_email": "alice@example.com", "delivery_address": "1 Main St",
			"payment_method": "CASH", "total_amount": "10", "order_status": "Доставлен",
		}),
	}

	valid, _ := TransformOrders(records, DefaultMappings(), identity)
	if len(valid) != 1 {
		t.Fatal("order rejected")
	}
	if valid[0].StatusCode != "DELIVERED" {
		t.Errorf("status = %q, want DELIVERED", valid[0].StatusCode)
	}
}

func TestTransformDoesNotMutateInput(t *testing.T) {
	fields := validCustomer()
	fields["email"] = "ALICE@EXAMPLE.COM"
	records := []Record{rec(fields)}

	TransformCustomers(records)

	if records[0].Get("email") != "ALICE@EXAMPLE.COM" {
		t.Error("input record mutated during transformation")
	}
}
