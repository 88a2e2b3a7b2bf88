// Package model defines the entity and lookup-table value types shared by
// the pipeline, the store, and the web layer. All monetary and weight values
// use decimal arithmetic; identifiers are UUIDs minted by the pipeline or the
// store, never derived from natural keys.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is a persisted customer. Email is the natural key, lower-cased.
type Customer struct {
	ID               uuid.UUID  `json:"customer_id"`
	FullName         string     `json:"full_name"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	Address          string     `json:"address"`
	RegistrationDate *time.Time `json:"registration_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at,omitzero"`
}

// Product is a persisted product. SKU is the natural key, upper-cased.
type Product struct {
	ID          uuid.UUID       `json:"product_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	SKU         string          `json:"sku"`
	Weight      decimal.Decimal `json:"weight"`
	Dimensions  string          `json:"dimensions,omitempty"`
	CategoryID  int32           `json:"category_id"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at,omitzero"`
}

// Order is a persisted order. Orders have no natural key; CustomerID is
// resolved from the customer's email during transformation.
type Order struct {
	ID              uuid.UUID       `json:"order_id"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	StatusID        int32           `json:"order_status_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	DeliveryAddress string          `json:"delivery_address"`
	PaymentMethodID int32           `json:"payment_method_id"`
	OrderDate       *time.Time      `json:"order_date,omitempty"`
	CreatedAt       time.Time       `json:"created_at,omitzero"`
}

// OrderItem is a single order line. TotalPrice is always Quantity x
// PricePerUnit, computed with decimal arithmetic.
type OrderItem struct {
	ID           uuid.UUID       `json:"order_item_id"`
	OrderID      uuid.UUID       `json:"order_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	Quantity     int32           `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

// Recalculate returns a copy with TotalPrice set to Quantity x PricePerUnit.
// Clients never supply the total; the store recomputes it on every write.
func (i OrderItem) Recalculate() OrderItem {
	i.TotalPrice = i.PricePerUnit.Mul(decimal.NewFromInt32(i.Quantity))
	return i
}

// CustomerPatch is a sparse set of field overrides for a PATCH-style update.
// Nil fields are left untouched by Merge.
type CustomerPatch struct {
	FullName         *string    `json:"full_name,omitempty"`
	Email            *string    `json:"email,omitempty"`
	Phone            *string    `json:"phone,omitempty"`
	Address          *string    `json:"address,omitempty"`
	RegistrationDate *time.Time `json:"registration_date,omitempty"`
}

// ProductPatch is a sparse set of field overrides for a product update.
type ProductPatch struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Weight      *decimal.Decimal `json:"weight,omitempty"`
	Dimensions  *string          `json:"dimensions,omitempty"`
	CategoryID  *int32           `json:"category_id,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
}

// OrderItemPatch is a sparse set of field overrides for an order item update.
// TotalPrice is never patched directly; Merge recomputes it.
type OrderItemPatch struct {
	Quantity     *int32           `json:"quantity,omitempty"`
	PricePerUnit *decimal.Decimal `json:"price_per_unit,omitempty"`
}

// OrderPatch is a sparse set of field overrides for an order update.
type OrderPatch struct {
	StatusID        *int32           `json:"order_status_id,omitempty"`
	TotalAmount     *decimal.Decimal `json:"total_amount,omitempty"`
	DeliveryAddress *string          `json:"delivery_address,omitempty"`
	PaymentMethodID *int32           `json:"payment_method_id,omitempty"`
	OrderDate       *time.Time       `json:"order_date,omitempty"`
}

// Merge applies the patch to a copy of the customer and returns the copy.
// The receiver is never mutated.
func (c Customer) Merge(p CustomerPatch) Customer {
	if p.FullName != nil {
		c.FullName = *p.FullName
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.RegistrationDate != nil {
		c.RegistrationDate = p.RegistrationDate
	}
	return c
}

// Merge applies the patch to a copy of the product and returns the copy.
func (pr Product) Merge(p ProductPatch) Product {
	if p.Name != nil {
		pr.Name = *p.Name
	}
	if p.Description != nil {
		pr.Description = *p.Description
	}
	if p.Weight != nil {
		pr.Weight = *p.Weight
	}
	if p.Dimensions != nil {
		pr.Dimensions = *p.Dimensions
	}
	if p.CategoryID != nil {
		pr.CategoryID = *p.CategoryID
	}
	if p.Price != nil {
		pr.Price = *p.Price
	}
	return pr
}

// Merge applies the patch to a copy of the item, recomputes the total, and
// returns the copy.
func (i OrderItem) Merge(p OrderItemPatch) OrderItem {
	if p.Quantity != nil {
		i.Quantity = *p.Quantity
	}
	if p.PricePerUnit != nil {
		i.PricePerUnit = *p.PricePerUnit
	}
	return i.Recalculate()
}

// Merge applies the patch to a copy of the order and returns the copy.
func (o Order) Merge(p OrderPatch) Order {
	if p.StatusID != nil {
		o.StatusID = *p.StatusID
	}
	if p.TotalAmount != nil {
		o.TotalAmount = *p.TotalAmount
	}
	if p.DeliveryAddress != nil {
		o.DeliveryAddress = *p.DeliveryAddress
	}
	if p.PaymentMethodID != nil {
		o.PaymentMethodID = *p.PaymentMethodID
	}
	if p.OrderDate != nil {
		o.OrderDate = p.OrderDate
	}
	return o
}

// Lookup is a row in one of the code dictionaries (product categories,
// payment methods, order statuses, shipment statuses, vehicle types).
type Lookup struct {
	ID   int32  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
}

// LookupTable identifies one of the code dictionaries.
type LookupTable string

const (
	LookupProductCategories LookupTable = "product_categories"
	LookupPaymentMethods    LookupTable = "payment_methods"
	LookupOrderStatuses     LookupTable = "order_statuses"
	LookupShipmentStatuses  LookupTable = "shipment_statuses"
	LookupVehicleTypes      LookupTable = "vehicle_types"
)
