package models

// OrderRequest is the body of a direct ("pay at counter") order submission
type OrderRequest struct {
	Items         []OrderRequestItem  `json:"items"`
	CustomerInfo  CustomerInfoRequest `json:"customerInfo"`
	OrderType     string              `json:"orderType"`
	PaymentMethod string              `json:"paymentMethod,omitempty"`
	TotalAmount   int64               `json:"totalAmount"`
	Notes         string              `json:"notes,omitempty"`
}

// OrderRequestItem is one cart line as sent by the ordering frontend.
// Older clients send the price as unitPrice; both are minor units.
type OrderRequestItem struct {
	Name                string `json:"name"`
	Description         string `json:"description,omitempty"`
	Quantity            int    `json:"quantity"`
	UnitPriceMinorUnits int64  `json:"unitPriceMinorUnits,omitempty"`
	UnitPrice           int64  `json:"unitPrice,omitempty"`
}

// Price returns whichever unit price field the client filled in.
func (i OrderRequestItem) Price() int64 {
	if i.UnitPriceMinorUnits != 0 {
		return i.UnitPriceMinorUnits
	}
	return i.UnitPrice
}

type CustomerInfoRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Phone      string `json:"phone"`
	Email      string `json:"email,omitempty"`
	Address    string `json:"address,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	City       string `json:"city,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// OrderResponse is returned once a direct order has been accepted
type OrderResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
}
