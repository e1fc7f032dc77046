package models

// PaymentSession is a completed checkout session as seen by this service,
// independent of the payment provider's SDK types.
//
// Metadata is flat string pairs: providers cannot store nested structures there,
// which is why the cart travels as a JSON string under the "itemsJson" key.
type PaymentSession struct {
	ID                   string            `json:"id"`
	AmountTotal          int64             `json:"amount_total"`
	CustomerEmail        string            `json:"customer_email,omitempty"`
	CustomerDetailsEmail string            `json:"-"`
	PaymentStatus        string            `json:"payment_status"`
	Metadata             map[string]string `json:"metadata"`
}

// LineItem is the provider's flat view of one billed line. It carries no options.
type LineItem struct {
	Description string
	Quantity    int64
	AmountTotal int64
}

// Metadata keys written by the checkout frontend.
const (
	MetaItemsJSON         = "itemsJson"
	MetaCustomerName      = "customerName"
	MetaCustomerFirstName = "customerFirstName"
	MetaCustomerLastName  = "customerLastName"
	MetaCustomerPhone     = "customerPhone"
	MetaCustomerEmail     = "customerEmail"
	MetaCustomerAddress   = "customerAddress"
	MetaCustomerPostal    = "customerPostalCode"
	MetaCustomerCity      = "customerCity"
	MetaOrderType         = "orderType"
	MetaNotes             = "notes"
)
