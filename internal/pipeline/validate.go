package pipeline

// validate.go holds the per-entity structural validators. Every applicable
// check runs before a verdict is returned: a bad row reports all of its
// problems at once, and missing required fields are named together in a
// single violation. Non-numeric input in a numeric field is a violation,
// never a panic.

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9\s\-\(\)]{10,15}$`)
)

// Required fields per entity type.
var (
	customerRequiredFields = []string{"full_name", "email", "phone", "address"}
	productRequiredFields  = []string{"name", "sku", "weight", "category", "price"}
	orderRequiredFields    = []string{"customer_email", "delivery_address", "payment_method"}
)

// missingRequired returns the required fields that are absent or blank.
func missingRequired(rec Record, required []string) []string {
	var missing []string
	for _, f := range required {
		if !rec.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// ValidateCustomer checks a customer row. Violations are collected without
// short-circuiting.
func ValidateCustomer(rec Record) (bool, []string) {
	var violations []string

	if missing := missingRequired(rec, customerRequiredFields); len(missing) > 0 {
		violations = append(violations, "missing required fields: "+strings.Join(missing, ", "))
	}

	if email := rec.Get("email"); email != "" && !emailRegex.MatchString(email) {
		violations = append(violations, "invalid email format")
	}
	if phone := rec.Get("phone"); phone != "" && !phoneRegex.MatchString(phone) {
		violations = append(violations, "invalid phone format")
	}

	return len(violations) == 0, violations
}

// ValidateProduct checks a product row: required fields, weight > 0,
// price >= 0.
func ValidateProduct(rec Record) (bool, []string) {
	var violations []string

	if missing := missingRequired(rec, productRequiredFields); len(missing) > 0 {
		violations = append(violations, "missing required fields: "+strings.Join(missing, ", "))
	}

	if rec.Has("weight") {
		if w, err := decimal.NewFromString(rec.Get("weight")); err != nil {
			violations = append(violations, "invalid weight format")
		} else if !w.IsPositive() {
			violations = append(violations, "weight must be a positive number")
		}
	}

	if rec.Has("price") {
		if p, err := decimal.NewFromString(rec.Get("price")); err != nil {
			violations = append(violations, "invalid price format")
		} else if p.IsNegative() {
			violations = append(violations, "price cannot be negative")
		}
	}

	return len(violations) == 0, violations
}

// ValidateOrder checks an order row: required fields, total_amount >= 0, and
// the optional line fields (quantity > 0, unit_price >= 0). Referential
// validity against the identity map is the transformer's second phase, not
// checked here.
func ValidateOrder(rec Record) (bool, []string) {
	var violations []string

	if missing := missingRequired(rec, orderRequiredFields); len(missing) > 0 {
		violations = append(violations, "missing required fields: "+strings.Join(missing, ", "))
	}

	if rec.Has("total_amount") {
		if a, err := decimal.NewFromString(rec.Get("total_amount")); err != nil {
			violations = append(violations, "invalid order total format")
		} else if a.IsNegative() {
			violations = append(violations, "order total cannot be negative")
		}
	}

	if rec.Has("quantity") {
		if q, err := strconv.ParseInt(rec.Get("quantity"), 10, 32); err != nil {
			violations = append(violations, "invalid quantity format")
		} else if q <= 0 {
			violations = append(violations, "quantity must be a positive integer")
		}
	}

	if rec.Has("unit_price") {
		if p, err := decimal.NewFromString(rec.Get("unit_price")); err != nil {
			violations = append(violations, "invalid unit price format")
		} else if p.IsNegative() {
			violations = append(violations, "unit price cannot be negative")
		}
	}

	return len(violations) == 0, violations
}

// Validate dispatches to the validator for the entity type.
func Validate(entity EntityType, rec Record) (bool, []string) {
	switch entity {
	case EntityCustomers:
		return ValidateCustomer(rec)
	case EntityProducts:
		return ValidateProduct(rec)
	case EntityOrders:
		return ValidateOrder(rec)
	default:
		return false, []string{fmt.Sprintf("unknown entity type %q", entity)}
	}
}
