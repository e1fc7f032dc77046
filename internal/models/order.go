package models

import (
	"math"
	"strings"
	"time"
)

// OrderType is how the customer receives the order.
type OrderType string

const (
	OrderTypePickup   OrderType = "pickup"
	OrderTypeDelivery OrderType = "delivery"
)

func (t OrderType) Valid() bool {
	return t == OrderTypePickup || t == OrderTypeDelivery
}

// PaymentMethod is how the order is (or will be) paid.
type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "card"
	PaymentCash   PaymentMethod = "cash"
	PaymentOnSite PaymentMethod = "on_site"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentCash, PaymentOnSite:
		return true
	}
	return false
}

// Order is the canonical representation of a purchase, whichever entry path produced it.
// Amounts are in currency minor units. An Order is built once and never mutated.
type Order struct {
	ID            string        `json:"orderId"`
	Items         []OrderItem   `json:"items"`
	Customer      CustomerInfo  `json:"customer"`
	Type          OrderType     `json:"orderType"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	TotalAmount   int64         `json:"totalAmount"`
	Notes         string        `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`

	// Reference is the payment provider's session id for orders paid online.
	Reference string `json:"reference,omitempty"`
}

// OrderItem represents a single product line in an order
type OrderItem struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unitPrice"`
}

// LineTotal is UnitPrice × Quantity.
func (i OrderItem) LineTotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// CheckedLineTotal is LineTotal, with ok=false when a factor is negative or
// the product does not fit in an int64.
func (i OrderItem) CheckedLineTotal() (total int64, ok bool) {
	if i.Quantity < 0 || i.UnitPrice < 0 {
		return 0, false
	}
	if i.Quantity != 0 && i.UnitPrice > math.MaxInt64/int64(i.Quantity) {
		return 0, false
	}
	return i.UnitPrice * int64(i.Quantity), true
}

// AddAmounts sums non-negative minor-unit amounts, with ok=false on overflow.
func AddAmounts(a, b int64) (sum int64, ok bool) {
	if a < 0 || b < 0 || a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}

// CustomerInfo identifies who placed the order. Address fields are only
// meaningful for delivery orders.
type CustomerInfo struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Phone      string `json:"phone"`
	Email      string `json:"email,omitempty"`
	Address    string `json:"address,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	City       string `json:"city,omitempty"`
}

func (c CustomerInfo) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// MissingAddressFields names the delivery address fields that are empty.
func (c CustomerInfo) MissingAddressFields() []string {
	var missing []string
	if c.Address == "" {
		missing = append(missing, "address")
	}
	if c.PostalCode == "" {
		missing = append(missing, "postalCode")
	}
	if c.City == "" {
		missing = append(missing, "city")
	}
	return missing
}

// FullAddress joins the delivery address on one line.
func (c CustomerInfo) FullAddress() string {
	parts := make([]string, 0, 2)
	if c.Address != "" {
		parts = append(parts, c.Address)
	}
	if locality := strings.TrimSpace(c.PostalCode + " " + c.City); locality != "" {
		parts = append(parts, locality)
	}
	return strings.Join(parts, ", ")
}

// Subtotal is the sum of all item line totals.
func (o Order) Subtotal() int64 {
	var sum int64
	for _, item := range o.Items {
		sum += item.LineTotal()
	}
	return sum
}

// DeliveryFee is the implicit surcharge: the part of the total not covered by items.
func (o Order) DeliveryFee() int64 {
	if fee := o.TotalAmount - o.Subtotal(); fee > 0 {
		return fee
	}
	return 0
}

func (o Order) IsDelivery() bool {
	return o.Type == OrderTypeDelivery
}
