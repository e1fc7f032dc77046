package normalize

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/models"
)

var fixedNow = time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC)

func newTestNormalizer(opts ...Option) *Normalizer {
	base := []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "ABCD1234" }),
	}
	return New(append(base, opts...)...)
}

func pickupRequest() models.OrderRequest {
	return models.OrderRequest{
		Items: []models.OrderRequestItem{
			{Name: "Tacos", Quantity: 2, UnitPriceMinorUnits: 800},
		},
		CustomerInfo: models.CustomerInfoRequest{
			FirstName: "A",
			LastName:  "B",
			Phone:     "0600000000",
			Email:     "a@b.com",
		},
		OrderType:   "pickup",
		TotalAmount: 1600,
	}
}

func TestFromDirectSubmission_PickupExample(t *testing.T) {
	n := newTestNormalizer()

	order, err := n.FromDirectSubmission(pickupRequest())
	require.NoError(t, err)

	assert.Equal(t, "ABCD1234", order.ID)
	assert.Equal(t, int64(1600), order.TotalAmount)
	assert.Equal(t, models.PaymentOnSite, order.PaymentMethod)
	assert.Equal(t, models.OrderTypePickup, order.Type)
	assert.Equal(t, fixedNow, order.CreatedAt)
	require.Len(t, order.Items, 1)
	assert.Equal(t, models.OrderItem{Name: "Tacos", Quantity: 2, UnitPrice: 800}, order.Items[0])
	assert.Empty(t, order.Reference)
}

func TestFromDirectSubmission_Valid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.OrderRequest)
		check  func(*testing.T, models.Order)
	}{
		{
			name: "explicit cash payment",
			mutate: func(r *models.OrderRequest) {
				r.PaymentMethod = "cash"
			},
			check: func(t *testing.T, o models.Order) {
				assert.Equal(t, models.PaymentCash, o.PaymentMethod)
			},
		},
		{
			name: "missing total is computed",
			mutate: func(r *models.OrderRequest) {
				r.TotalAmount = 0
			},
			check: func(t *testing.T, o models.Order) {
				assert.Equal(t, int64(1600), o.TotalAmount)
			},
		},
		{
			name: "legacy unitPrice field",
			mutate: func(r *models.OrderRequest) {
				r.Items = []models.OrderRequestItem{{Name: "Tacos", Quantity: 2, UnitPrice: 800}}
			},
			check: func(t *testing.T, o models.Order) {
				assert.Equal(t, int64(800), o.Items[0].UnitPrice)
			},
		},
		{
			name: "delivery with surcharge",
			mutate: func(r *models.OrderRequest) {
				r.OrderType = "delivery"
				r.CustomerInfo.Address = "1 rue de la Paix"
				r.CustomerInfo.PostalCode = "62800"
				r.CustomerInfo.City = "Liévin"
				r.TotalAmount = 2100
			},
			check: func(t *testing.T, o models.Order) {
				assert.Equal(t, models.OrderTypeDelivery, o.Type)
				assert.Equal(t, int64(500), o.DeliveryFee())
			},
		},
		{
			name: "notes from customer info",
			mutate: func(r *models.OrderRequest) {
				r.CustomerInfo.Notes = "  sans oignons "
			},
			check: func(t *testing.T, o models.Order) {
				assert.Equal(t, "sans oignons", o.Notes)
			},
		},
		{
			name: "empty order type defaults to pickup",
			mutate: func(r *models.OrderRequest) {
				r.OrderType = ""
			},
			check: func(t *testing.T, o models.Order) {
				assert.Equal(t, models.OrderTypePickup, o.Type)
			},
		},
	}

	n := newTestNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := pickupRequest()
			tt.mutate(&req)

			order, err := n.FromDirectSubmission(req)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, order.TotalAmount, order.Subtotal())
			tt.check(t, order)
		})
	}
}

func TestFromDirectSubmission_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.OrderRequest)
		wantField string
	}{
		{"no items", func(r *models.OrderRequest) { r.Items = nil }, "items"},
		{"zero quantity", func(r *models.OrderRequest) { r.Items[0].Quantity = 0 }, "items"},
		{"negative quantity", func(r *models.OrderRequest) { r.Items[0].Quantity = -1 }, "items"},
		{"blank name", func(r *models.OrderRequest) { r.Items[0].Name = "  " }, "items"},
		{"unknown order type", func(r *models.OrderRequest) { r.OrderType = "drone" }, "orderType"},
		{"unknown payment method", func(r *models.OrderRequest) { r.PaymentMethod = "crypto" }, "paymentMethod"},
		{"delivery without address", func(r *models.OrderRequest) {
			r.OrderType = "delivery"
			r.CustomerInfo.PostalCode = "62800"
			r.CustomerInfo.City = "Liévin"
		}, "customerInfo.address"},
		{"delivery without postal code", func(r *models.OrderRequest) {
			r.OrderType = "delivery"
			r.CustomerInfo.Address = "1 rue A"
			r.CustomerInfo.City = "Liévin"
		}, "customerInfo.postalCode"},
		{"delivery without city", func(r *models.OrderRequest) {
			r.OrderType = "delivery"
			r.CustomerInfo.Address = "1 rue A"
			r.CustomerInfo.PostalCode = "62800"
		}, "customerInfo.city"},
		{"total below subtotal", func(r *models.OrderRequest) { r.TotalAmount = 1000 }, "totalAmount"},
		{"surcharge on pickup", func(r *models.OrderRequest) { r.TotalAmount = 2100 }, "totalAmount"},
		{"line total overflows", func(r *models.OrderRequest) {
			r.Items[0].UnitPriceMinorUnits = math.MaxInt64/2 + 1
			r.TotalAmount = 0
		}, "items"},
		{"subtotal overflows", func(r *models.OrderRequest) {
			r.Items = []models.OrderRequestItem{
				{Name: "A", Quantity: 1, UnitPriceMinorUnits: math.MaxInt64 - 10},
				{Name: "B", Quantity: 1, UnitPriceMinorUnits: 20},
			}
			r.TotalAmount = 0
		}, "items"},
	}

	n := newTestNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := pickupRequest()
			tt.mutate(&req)

			_, err := n.FromDirectSubmission(req)
			require.Error(t, err)
			assert.True(t, IsValidation(err))

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func paidSession(meta map[string]string) models.PaymentSession {
	return models.PaymentSession{
		ID:            "cs_test_a1B2c3D4e5F6g7H8",
		AmountTotal:   2100,
		CustomerEmail: "",
		PaymentStatus: "paid",
		Metadata:      meta,
	}
}

func TestFromPaymentSession_PrefersItemsJSON(t *testing.T) {
	n := newTestNormalizer()
	session := paidSession(map[string]string{
		"itemsJson":     `[{"name":"Tacos XL","qty":2,"price":800,"options":"Poulet, Sauce algérienne"}]`,
		"customerName":  "Jean Dupont",
		"customerEmail": "jean@example.com",
		"orderType":     "pickup",
	})
	lineItems := []models.LineItem{{Description: "Tacos", Quantity: 2, AmountTotal: 1600}}
	session.AmountTotal = 1600

	order, err := n.FromPaymentSession(session, lineItems)
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, "Tacos XL", order.Items[0].Name)
	assert.Equal(t, "Poulet, Sauce algérienne", order.Items[0].Description)
	assert.Equal(t, models.PaymentCard, order.PaymentMethod)
	assert.Equal(t, "Jean", order.Customer.FirstName)
	assert.Equal(t, "Dupont", order.Customer.LastName)
	assert.Equal(t, "E5F6G7H8", order.ID)
	assert.Equal(t, session.ID, order.Reference)
}

func TestFromPaymentSession_OptionsAsList(t *testing.T) {
	n := newTestNormalizer()
	session := paidSession(map[string]string{
		"itemsJson": `[{"name":"Burger","qty":1,"price":900,"options":["Cheddar","Bacon"]}]`,
	})
	session.AmountTotal = 900

	order, err := n.FromPaymentSession(session, nil)
	require.NoError(t, err)
	assert.Equal(t, "Cheddar, Bacon", order.Items[0].Description)
}

func TestFromPaymentSession_FallbackExcludesDeliveryLine(t *testing.T) {
	n := newTestNormalizer(WithDeliveryFeeLabel("Delivery"))
	session := paidSession(map[string]string{
		"customerName":  "Jean Dupont",
		"customerEmail": "jean@example.com",
		"orderType":     "delivery",
	})
	lineItems := []models.LineItem{
		{Description: "Tacos", Quantity: 2, AmountTotal: 1600},
		{Description: "Delivery", Quantity: 1, AmountTotal: 500},
	}

	order, err := n.FromPaymentSession(session, lineItems)
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, "Tacos", order.Items[0].Name)
	assert.Equal(t, int64(800), order.Items[0].UnitPrice)
	assert.Equal(t, int64(2100), order.TotalAmount)
	assert.Equal(t, int64(500), order.DeliveryFee())
}

func TestFromPaymentSession_FallbackOnBadItemsJSON(t *testing.T) {
	tests := []struct {
		name      string
		itemsJSON string
	}{
		{"unparsable", `{not json`},
		{"empty array", `[]`},
		{"zero qty entry", `[{"name":"Tacos","qty":0,"price":800}]`},
		{"priced above what was paid", `[{"name":"Tacos","qty":10,"price":800}]`},
	}

	n := newTestNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := paidSession(map[string]string{"itemsJson": tt.itemsJSON})
			lineItems := []models.LineItem{
				{Description: "Tacos", Quantity: 2, AmountTotal: 1600},
				{Description: "Livraison à domicile", Quantity: 1, AmountTotal: 500},
			}

			order, err := n.FromPaymentSession(session, lineItems)
			require.NoError(t, err)
			require.Len(t, order.Items, 1)
			assert.Equal(t, "Tacos", order.Items[0].Name)
			assert.Empty(t, order.Items[0].Description)
		})
	}
}

func TestFromPaymentSession_OverflowingItemsJSONFallsBack(t *testing.T) {
	n := newTestNormalizer()
	raw := fmt.Sprintf(`[{"name":"Gold","qty":4,"price":%d}]`, int64(math.MaxInt64/2))

	order, err := n.FromPaymentSession(paidSession(map[string]string{"itemsJson": raw}),
		[]models.LineItem{{Description: "Tacos", Quantity: 2, AmountTotal: 1600}})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Tacos", order.Items[0].Name)
}

func TestFromPaymentSession_EmailPrecedence(t *testing.T) {
	n := newTestNormalizer()
	lineItems := []models.LineItem{{Description: "Tacos", Quantity: 1, AmountTotal: 800}}

	session := paidSession(map[string]string{"customerEmail": "meta@example.com"})
	session.CustomerDetailsEmail = "details@example.com"
	session.CustomerEmail = "session@example.com"

	order, err := n.FromPaymentSession(session, lineItems)
	require.NoError(t, err)
	assert.Equal(t, "session@example.com", order.Customer.Email)

	session.CustomerEmail = ""
	order, err = n.FromPaymentSession(session, lineItems)
	require.NoError(t, err)
	assert.Equal(t, "details@example.com", order.Customer.Email)

	session.CustomerDetailsEmail = ""
	order, err = n.FromPaymentSession(session, lineItems)
	require.NoError(t, err)
	assert.Equal(t, "meta@example.com", order.Customer.Email)
}

func TestFromPaymentSession_Failures(t *testing.T) {
	n := newTestNormalizer()

	t.Run("no item source", func(t *testing.T) {
		session := paidSession(map[string]string{"customerEmail": "a@b.com"})
		lineItems := []models.LineItem{{Description: "Livraison à domicile", Quantity: 1, AmountTotal: 500}}

		_, err := n.FromPaymentSession(session, lineItems)
		assert.True(t, IsValidation(err))
	})

	t.Run("delivery without email", func(t *testing.T) {
		session := paidSession(map[string]string{"orderType": "delivery"})
		lineItems := []models.LineItem{{Description: "Tacos", Quantity: 1, AmountTotal: 800}}

		_, err := n.FromPaymentSession(session, lineItems)
		assert.True(t, IsValidation(err))
	})

	t.Run("pickup without email proceeds", func(t *testing.T) {
		session := paidSession(map[string]string{"orderType": "pickup"})
		lineItems := []models.LineItem{{Description: "Tacos", Quantity: 1, AmountTotal: 800}}

		order, err := n.FromPaymentSession(session, lineItems)
		require.NoError(t, err)
		assert.Empty(t, order.Customer.Email)
	})
}

func TestNormalize_DispatchesOnSource(t *testing.T) {
	n := newTestNormalizer()

	order, err := n.Normalize(DirectSubmission{Request: pickupRequest()})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentOnSite, order.PaymentMethod)

	session := paidSession(nil)
	order, err = n.Normalize(PaymentSessionSource{
		Session:   session,
		LineItems: []models.LineItem{{Description: "Tacos", Quantity: 1, AmountTotal: 800}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCard, order.PaymentMethod)
}
