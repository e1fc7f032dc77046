// Package normalize turns the two incoming order shapes, a direct submission body
// and a completed payment session, into one canonical models.Order.
package normalize

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/orderid"
)

// DefaultDeliveryFeeLabel is the line item description the checkout uses for the delivery surcharge.
const DefaultDeliveryFeeLabel = "Livraison à domicile"

// Source is one of DirectSubmission or PaymentSessionSource.
type Source interface {
	isSource()
}

// DirectSubmission is an order posted by the ordering page, to be paid at the counter.
type DirectSubmission struct {
	Request models.OrderRequest
}

// PaymentSessionSource is a checkout session the customer already paid by card,
// along with the provider's flat line items.
type PaymentSessionSource struct {
	Session   models.PaymentSession
	LineItems []models.LineItem
}

func (DirectSubmission) isSource()     {}
func (PaymentSessionSource) isSource() {}

// Normalizer builds canonical orders. It holds no per-request state.
type Normalizer struct {
	newID            func() string
	idFromReference  func(string) string
	now              func() time.Time
	deliveryFeeLabel string
}

type Option func(*Normalizer)

// WithDeliveryFeeLabel sets the line item description excluded from the product listing.
func WithDeliveryFeeLabel(label string) Option {
	return func(n *Normalizer) {
		if label = strings.TrimSpace(label); label != "" {
			n.deliveryFeeLabel = label
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) { n.now = now }
}

// WithIDGenerator replaces the id source used for direct submissions.
func WithIDGenerator(newID func() string) Option {
	return func(n *Normalizer) { n.newID = newID }
}

func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		newID:            orderid.New,
		idFromReference:  orderid.FromReference,
		now:              time.Now,
		deliveryFeeLabel: DefaultDeliveryFeeLabel,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize dispatches on the concrete source type.
func (n *Normalizer) Normalize(src Source) (models.Order, error) {
	switch s := src.(type) {
	case DirectSubmission:
		return n.FromDirectSubmission(s.Request)
	case PaymentSessionSource:
		return n.FromPaymentSession(s.Session, s.LineItems)
	default:
		return models.Order{}, invalid("", "unsupported order source %T", src)
	}
}

// FromDirectSubmission validates a counter order. The payment method defaults to on_site.
func (n *Normalizer) FromDirectSubmission(req models.OrderRequest) (models.Order, error) {
	if len(req.Items) == 0 {
		return models.Order{}, invalid("items", "order must contain at least one item")
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	var subtotal int64
	for i, it := range req.Items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			return models.Order{}, invalid("items", "item %d has no name", i)
		}
		if it.Quantity <= 0 {
			return models.Order{}, invalid("items", "item %q quantity must be positive", name)
		}
		if it.Price() < 0 {
			return models.Order{}, invalid("items", "item %q price must not be negative", name)
		}
		item := models.OrderItem{
			Name:        name,
			Description: strings.TrimSpace(it.Description),
			Quantity:    it.Quantity,
			UnitPrice:   it.Price(),
		}
		line, ok := item.CheckedLineTotal()
		if ok {
			subtotal, ok = models.AddAmounts(subtotal, line)
		}
		if !ok {
			return models.Order{}, invalid("items", "item %q amount is out of range", name)
		}
		items = append(items, item)
	}

	orderType := models.OrderType(strings.ToLower(strings.TrimSpace(req.OrderType)))
	if orderType == "" {
		orderType = models.OrderTypePickup
	}
	if !orderType.Valid() {
		return models.Order{}, invalid("orderType", "unknown order type %q", req.OrderType)
	}

	method := models.PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod)))
	if method == "" {
		method = models.PaymentOnSite
	}
	if !method.Valid() {
		return models.Order{}, invalid("paymentMethod", "unknown payment method %q", req.PaymentMethod)
	}

	ci := req.CustomerInfo
	customer := models.CustomerInfo{
		FirstName:  strings.TrimSpace(ci.FirstName),
		LastName:   strings.TrimSpace(ci.LastName),
		Phone:      strings.TrimSpace(ci.Phone),
		Email:      strings.TrimSpace(ci.Email),
		Address:    strings.TrimSpace(ci.Address),
		PostalCode: strings.TrimSpace(ci.PostalCode),
		City:       strings.TrimSpace(ci.City),
	}
	if orderType == models.OrderTypeDelivery {
		switch {
		case customer.Address == "":
			return models.Order{}, invalid("customerInfo.address", "required for delivery")
		case customer.PostalCode == "":
			return models.Order{}, invalid("customerInfo.postalCode", "required for delivery")
		case customer.City == "":
			return models.Order{}, invalid("customerInfo.city", "required for delivery")
		}
	}

	order := models.Order{
		ID:            n.newID(),
		Items:         items,
		Customer:      customer,
		Type:          orderType,
		PaymentMethod: method,
		Notes:         firstNonEmpty(req.Notes, ci.Notes),
		CreatedAt:     n.now().UTC(),
	}

	switch {
	case req.TotalAmount == 0:
		order.TotalAmount = subtotal
	case req.TotalAmount < subtotal:
		return models.Order{}, invalid("totalAmount", "total %d is below the item subtotal %d", req.TotalAmount, subtotal)
	case req.TotalAmount > subtotal && orderType != models.OrderTypeDelivery:
		return models.Order{}, invalid("totalAmount", "total %d exceeds the item subtotal %d on a %s order", req.TotalAmount, subtotal, orderType)
	default:
		order.TotalAmount = req.TotalAmount
	}

	return order, nil
}

// FromPaymentSession builds a card-paid order from a completed checkout session.
// The itemsJson metadata is preferred because it carries the option selections;
// the provider's line items are the fallback, minus the delivery fee line.
func (n *Normalizer) FromPaymentSession(session models.PaymentSession, lineItems []models.LineItem) (models.Order, error) {
	meta := session.Metadata
	if meta == nil {
		meta = map[string]string{}
	}

	items, ok := itemsFromMetadata(meta[models.MetaItemsJSON], session.AmountTotal)
	if !ok {
		items = n.itemsFromLineItems(lineItems)
	}
	if len(items) == 0 {
		return models.Order{}, invalid("items", "no usable item source in session %s", session.ID)
	}

	orderType := models.OrderType(strings.ToLower(strings.TrimSpace(meta[models.MetaOrderType])))
	if !orderType.Valid() {
		orderType = models.OrderTypePickup
	}

	first, last := strings.TrimSpace(meta[models.MetaCustomerFirstName]), strings.TrimSpace(meta[models.MetaCustomerLastName])
	if first == "" && last == "" {
		first, last = splitName(meta[models.MetaCustomerName])
	}

	customer := models.CustomerInfo{
		FirstName:  first,
		LastName:   last,
		Phone:      strings.TrimSpace(meta[models.MetaCustomerPhone]),
		Email:      firstNonEmpty(session.CustomerEmail, session.CustomerDetailsEmail, meta[models.MetaCustomerEmail]),
		Address:    strings.TrimSpace(meta[models.MetaCustomerAddress]),
		PostalCode: strings.TrimSpace(meta[models.MetaCustomerPostal]),
		City:       strings.TrimSpace(meta[models.MetaCustomerCity]),
	}
	if orderType == models.OrderTypeDelivery && customer.Email == "" {
		return models.Order{}, invalid("customer.email", "no email could be resolved for delivery session %s", session.ID)
	}

	return models.Order{
		ID:            n.idFromReference(session.ID),
		Items:         items,
		Customer:      customer,
		Type:          orderType,
		PaymentMethod: models.PaymentCard,
		TotalAmount:   session.AmountTotal,
		Notes:         strings.TrimSpace(meta[models.MetaNotes]),
		CreatedAt:     n.now().UTC(),
		Reference:     session.ID,
	}, nil
}

// metadataItem is one entry of the itemsJson metadata value.
type metadataItem struct {
	Name    string     `json:"name"`
	Qty     int        `json:"qty"`
	Price   int64      `json:"price"`
	Options optionText `json:"options"`
}

// optionText accepts options either as one string or as a list of strings.
type optionText string

func (o *optionText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*o = optionText(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*o = optionText(strings.Join(list, ", "))
	return nil
}

// itemsFromMetadata reports ok=false when the value is absent, unparsable, holds an
// invalid entry, or prices the cart above what was actually paid.
func itemsFromMetadata(raw string, paid int64) ([]models.OrderItem, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}

	var entries []metadataItem
	if err := json.Unmarshal([]byte(raw), &entries); err != nil || len(entries) == 0 {
		return nil, false
	}

	items := make([]models.OrderItem, 0, len(entries))
	var subtotal int64
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" || e.Qty <= 0 || e.Price < 0 {
			return nil, false
		}
		item := models.OrderItem{
			Name:        name,
			Description: strings.TrimSpace(string(e.Options)),
			Quantity:    e.Qty,
			UnitPrice:   e.Price,
		}
		line, ok := item.CheckedLineTotal()
		if ok {
			subtotal, ok = models.AddAmounts(subtotal, line)
		}
		if !ok {
			return nil, false
		}
		items = append(items, item)
	}
	if subtotal > paid {
		return nil, false
	}
	return items, true
}

func (n *Normalizer) itemsFromLineItems(lineItems []models.LineItem) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lineItems))
	for _, li := range lineItems {
		if n.isDeliveryFee(li) || li.Quantity <= 0 {
			continue
		}
		items = append(items, models.OrderItem{
			Name:      strings.TrimSpace(li.Description),
			Quantity:  int(li.Quantity),
			UnitPrice: li.AmountTotal / li.Quantity,
		})
	}
	return items
}

// TODO: match on a structural line item tag once the checkout sets one; the
// description comparison breaks as soon as the label is reworded.
func (n *Normalizer) isDeliveryFee(li models.LineItem) bool {
	return strings.EqualFold(strings.TrimSpace(li.Description), n.deliveryFeeLabel)
}

func splitName(full string) (string, string) {
	full = strings.TrimSpace(full)
	first, last, _ := strings.Cut(full, " ")
	return first, strings.TrimSpace(last)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
