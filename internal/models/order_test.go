package models

import (
	"math"
	"reflect"
	"testing"
)

func TestOrder_SubtotalAndDeliveryFee(t *testing.T) {
	order := Order{
		Type: OrderTypeDelivery,
		Items: []OrderItem{
			{Name: "Tacos", Quantity: 2, UnitPrice: 800},
			{Name: "Coca", Quantity: 1, UnitPrice: 250},
		},
		TotalAmount: 2350,
	}

	if got := order.Subtotal(); got != 1850 {
		t.Errorf("Subtotal() = %d, want 1850", got)
	}
	if got := order.DeliveryFee(); got != 500 {
		t.Errorf("DeliveryFee() = %d, want 500", got)
	}
}

func TestOrder_DeliveryFeeNeverNegative(t *testing.T) {
	order := Order{
		Items:       []OrderItem{{Name: "Tacos", Quantity: 1, UnitPrice: 800}},
		TotalAmount: 500,
	}
	if got := order.DeliveryFee(); got != 0 {
		t.Errorf("DeliveryFee() = %d, want 0", got)
	}
}

func TestCustomerInfo_FullAddress(t *testing.T) {
	tests := []struct {
		name string
		c    CustomerInfo
		want string
	}{
		{"complete", CustomerInfo{Address: "1 rue A", PostalCode: "62800", City: "Liévin"}, "1 rue A, 62800 Liévin"},
		{"street only", CustomerInfo{Address: "1 rue A"}, "1 rue A"},
		{"empty", CustomerInfo{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.FullAddress(); got != tt.want {
				t.Errorf("FullAddress() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnums(t *testing.T) {
	if !OrderTypeDelivery.Valid() || OrderType("drone").Valid() {
		t.Error("OrderType.Valid() misclassified")
	}
	if !PaymentOnSite.Valid() || PaymentMethod("crypto").Valid() {
		t.Error("PaymentMethod.Valid() misclassified")
	}
}

func TestOrderRequestItem_Price(t *testing.T) {
	if got := (OrderRequestItem{UnitPrice: 800}).Price(); got != 800 {
		t.Errorf("Price() = %d, want 800", got)
	}
	if got := (OrderRequestItem{UnitPrice: 1, UnitPriceMinorUnits: 900}).Price(); got != 900 {
		t.Errorf("Price() = %d, want 900", got)
	}
}

func TestOrderItem_CheckedLineTotal(t *testing.T) {
	tests := []struct {
		name   string
		item   OrderItem
		want   int64
		wantOK bool
	}{
		{"regular", OrderItem{Quantity: 3, UnitPrice: 250}, 750, true},
		{"zero quantity", OrderItem{Quantity: 0, UnitPrice: math.MaxInt64}, 0, true},
		{"largest fitting", OrderItem{Quantity: 1, UnitPrice: math.MaxInt64}, math.MaxInt64, true},
		{"overflow", OrderItem{Quantity: 2, UnitPrice: math.MaxInt64/2 + 1}, 0, false},
		{"negative price", OrderItem{Quantity: 1, UnitPrice: -1}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.item.CheckedLineTotal()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("CheckedLineTotal() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestAddAmounts(t *testing.T) {
	if sum, ok := AddAmounts(1600, 500); !ok || sum != 2100 {
		t.Errorf("AddAmounts(1600, 500) = (%d, %v)", sum, ok)
	}
	if _, ok := AddAmounts(math.MaxInt64, 1); ok {
		t.Error("expected overflow to be reported")
	}
}

func TestCustomerInfo_MissingAddressFields(t *testing.T) {
	got := CustomerInfo{Address: "1 rue X"}.MissingAddressFields()
	if want := []string{"postalCode", "city"}; !reflect.DeepEqual(got, want) {
		t.Errorf("MissingAddressFields() = %v, want %v", got, want)
	}
	if got := (CustomerInfo{Address: "a", PostalCode: "b", City: "c"}).MissingAddressFields(); len(got) != 0 {
		t.Errorf("MissingAddressFields() = %v, want none", got)
	}
}
