package pipeline

// transform.go cleans and canonicalizes rows that pass structural
// validation, partitioning each file into canonical records and rejected
// rows. The two sets are disjoint and together cover every input record.
// Input records are never mutated.
//
// Orders go through a two-phase gate: the structural validator first, then
// referential resolution of the customer email against the run's identity
// map. A structurally valid order whose customer is unknown is rejected with
// a "customer not found" violation.

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// reject builds the rejected-row record for rec with its collected
// violations.
func reject(rec Record, violations []string) RejectedRow {
	fields := make(map[string]string, len(rec.Fields))
	for k, v := range rec.Fields {
		fields[k] = v
	}
	return RejectedRow{
		Line:       rec.Line,
		Columns:    rec.Columns,
		Fields:     fields,
		Violations: violations,
	}
}

// TransformCustomers validates and canonicalizes customer rows. Emails are
// lower-cased to form the natural key; each valid row gets a fresh surrogate
// identifier.
func TransformCustomers(records []Record) ([]Customer, []RejectedRow) {
	var valid []Customer
	var rejected []RejectedRow

	for _, rec := range records {
		ok, violations := ValidateCustomer(rec)

		regDate, dateOK := ParseDate(rec.Get("registration_date"))
		if !dateOK {
			violations = append(violations, "invalid registration_date format")
			ok = false
		}

		if !ok {
			rejected = append(rejected, reject(rec, violations))
			continue
		}

		valid = append(valid, Customer{
			ID:               uuid.New(),
			FullName:         rec.Get("full_name"),
			Email:            strings.ToLower(rec.Get("email")),
			Phone:            rec.Get("phone"),
			Address:          rec.Get("address"),
			RegistrationDate: regDate,
			Source:           rec,
		})
	}
	return valid, rejected
}

// TransformProducts validates and canonicalizes product rows. SKUs are
// upper-cased to form the natural key and category labels are mapped to
// canonical codes.
func TransformProducts(records []Record, mappings *Mappings) ([]Product, []RejectedRow) {
	var valid []Product
	var rejected []RejectedRow

	for _, rec := range records {
		ok, violations := ValidateProduct(rec)
		if !ok {
			rejected = append(rejected, reject(rec, violations))
			continue
		}

		weight, _ := decimal.NewFromString(rec.Get("weight"))
		price, _ := decimal.NewFromString(rec.Get("price"))

		valid = append(valid, Product{
			ID:           uuid.New(),
			Name:         rec.Get("name"),
			Description:  rec.Get("description"),
			SKU:          strings.ToUpper(rec.Get("sku")),
			Weight:       weight,
			Dimensions:   rec.Get("dimensions"),
			CategoryCode: mappings.ProductCategory(rec.Get("category")),
			Price:        price,
			Source:       rec,
		})
	}
	return valid, rejected
}

// TransformOrders validates, canonicalizes, and referentially resolves order
// rows. Line totals are computed with exact decimal multiplication; when the
// row carries line fields but no total_amount, the line total stands in for
// it.
func TransformOrders(records []Record, mappings *Mappings, identity IdentityMap) ([]Order, []RejectedRow) {
	var valid []Order
	var rejected []RejectedRow

	for _, rec := range records {
		ok, violations := ValidateOrder(rec)

		orderDate, dateOK := ParseDate(rec.Get("order_date"))
		if !dateOK {
			violations = append(violations, "invalid order_date format")
			ok = false
		}

		// Referential phase: the customer must already be known to this run.
		email := strings.ToLower(rec.Get("customer_email"))
		customerID, found := identity.Resolve(email)
		if !found {
			violations = append(violations, fmt.Sprintf("customer not found: %s", email))
			ok = false
		}

		if !ok {
			rejected = append(rejected, reject(rec, violations))
			continue
		}

		order := Order{
			ID:                uuid.New(),
			CustomerID:        customerID,
			CustomerEmail:     email,
			OrderDate:         orderDate,
			DeliveryAddress:   rec.Get("delivery_address"),
			PaymentMethodCode: mappings.PaymentMethod(rec.Get("payment_method")),
			StatusCode:        DefaultOrderStatus,
			Source:            rec,
		}
		if rec.Has("order_status") {
			order.StatusCode = mappings.OrderStatus(rec.Get("order_status"))
		}

		if rec.Has("quantity") && rec.Has("unit_price") {
			qty, _ := strconv.ParseInt(rec.Get("quantity"), 10, 32)
			unit, _ := decimal.NewFromString(rec.Get("unit_price"))
			order.HasLine = true
			order.Quantity = int32(qty)
			order.UnitPrice = unit
			order.TotalPrice = unit.Mul(decimal.NewFromInt(qty))
		}

		switch {
		case rec.Has("total_amount"):
			order.TotalAmount, _ = decimal.NewFromString(rec.Get("total_amount"))
		case order.HasLine:
			order.TotalAmount = order.TotalPrice
		}

		valid = append(valid, order)
	}
	return valid, rejected
}
