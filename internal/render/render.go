// Package render composes notification bodies from a canonical order.
package render

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/models"
)

// Shop is the restaurant identity printed in every notification.
type Shop struct {
	Name    string
	Address string
	Phone   string
}

// Email is a rendered subject and HTML body.
type Email struct {
	Subject string
	HTML    string
}

var paris = loadParis()

func loadParis() *time.Location {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		return time.UTC
	}
	return loc
}

// Amount formats minor units as a euro amount, e.g. 1600 -> "16.00€".
func Amount(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2) + "€"
}

// Timestamp formats t the way the shop reads it: Paris wall clock, day first.
func Timestamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.In(paris).Format("02/01/2006 15:04:05")
}

type itemView struct {
	Name        string
	Description string
	Quantity    int
	UnitPrice   string
	LineTotal   string
}

type orderView struct {
	Shop      Shop
	ID        string
	Total     string
	Fee       string
	Paid      bool
	Delivery  bool
	Name      string
	Greeting  string
	Phone     string
	Email     string
	Address   string
	PhoneLink string
	Items     []itemView
	Notes     string
	Time      string
	Year      int
}

func newView(order models.Order, shop Shop) orderView {
	v := orderView{
		Shop:      shop,
		ID:        order.ID,
		Total:     Amount(order.TotalAmount),
		Paid:      order.PaymentMethod == models.PaymentCard,
		Delivery:  order.IsDelivery(),
		Name:      orDefault(order.Customer.FullName(), "N/A"),
		Greeting:  orDefault(order.Customer.FirstName, "cher client"),
		Phone:     orDefault(order.Customer.Phone, "N/A"),
		Email:     orDefault(order.Customer.Email, "N/A"),
		Address:   order.Customer.FullAddress(),
		PhoneLink: strings.ReplaceAll(shop.Phone, " ", ""),
		Notes:     order.Notes,
		Time:      Timestamp(order.CreatedAt),
		Year:      order.CreatedAt.In(paris).Year(),
	}
	if fee := order.DeliveryFee(); fee > 0 {
		v.Fee = Amount(fee)
	}
	v.Items = make([]itemView, len(order.Items))
	for i, item := range order.Items {
		v.Items[i] = itemView{
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   Amount(item.UnitPrice),
			LineTotal:   Amount(item.LineTotal()),
		}
	}
	return v
}

// mode is the short fulfilment label used in subjects.
func (v orderView) mode() string {
	if v.Delivery {
		return "LIVRAISON"
	}
	return "SUR PLACE"
}

// InstantMessage renders the operator's instant-message text.
func InstantMessage(order models.Order, shop Shop) (string, error) {
	var buf bytes.Buffer
	if err := instantMessageTmpl.Execute(&buf, newView(order, shop)); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// CustomerEmail renders the confirmation sent to the customer.
func CustomerEmail(order models.Order, shop Shop) (Email, error) {
	v := newView(order, shop)

	var subject string
	if v.Paid {
		subject = "✅ Commande #" + v.ID + " confirmée - " + shop.Name
	} else {
		subject = "✅ Commande #" + v.ID + " - Retrait sur place - " + shop.Name
	}

	html, err := executeHTML(customerEmailTmpl, v)
	if err != nil {
		return Email{}, err
	}
	return Email{Subject: subject, HTML: html}, nil
}

// OperatorEmail renders the alert sent to the shop's mailbox.
func OperatorEmail(order models.Order, shop Shop) (Email, error) {
	v := newView(order, shop)

	var subject string
	if v.Paid {
		subject = "🚨 COMMANDE #" + v.ID + " - " + v.Total + " - " + v.mode()
	} else {
		subject = "🏪 " + v.mode() + " #" + v.ID + " - " + v.Total + " - À ENCAISSER"
	}

	html, err := executeHTML(operatorEmailTmpl, v)
	if err != nil {
		return Email{}, err
	}
	return Email{Subject: subject, HTML: html}, nil
}

func executeHTML(t *htmltemplate.Template, v orderView) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

var (
	instantMessageTmpl = texttemplate.Must(texttemplate.New("instant").Parse(instantMessageText))
	customerEmailTmpl  = htmltemplate.Must(htmltemplate.New("customer").Parse(customerEmailHTML))
	operatorEmailTmpl  = htmltemplate.Must(htmltemplate.New("operator").Parse(operatorEmailHTML))
)
