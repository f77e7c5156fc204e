// Package emailtmpl renders the transactional order emails. Recipient names
// pass through a strict HTML sanitizer before they reach a template.
package emailtmpl

import (
	"bytes"
	"html/template"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/shopease/api/internal/platform/textutil"
)

var (
	namePolicy = bluemonday.StrictPolicy()
	amounts    = message.NewPrinter(language.English)
)

// OrderEmailData carries the fields the order templates interpolate.
type OrderEmailData struct {
	RecipientName     string
	OrderID           string
	TotalAmount       int64
	RefundAmount      int64
	EstimatedDelivery time.Time
}

type renderData struct {
	Greeting          string
	OrderID           string
	Total             string
	Refund            string
	EstimatedDelivery string
}

var (
	confirmationTmpl = template.Must(template.New("confirmation").Parse(`<html><body>
<p>Hi {{.Greeting}},</p>
<p>Your order <strong>{{.OrderID}}</strong> has been confirmed. We received your payment of {{.Total}}.</p>
{{if .EstimatedDelivery}}<p>Estimated delivery: <strong>{{.EstimatedDelivery}}</strong>.</p>{{end}}
<p>Thank you for shopping with Shopease.</p>
</body></html>`))

	cancellationTmpl = template.Must(template.New("cancellation").Parse(`<html><body>
<p>Hi {{.Greeting}},</p>
<p>Your order <strong>{{.OrderID}}</strong> has been cancelled.</p>
<p>A refund of {{.Refund}} has been initiated and will reach your original payment method shortly.</p>
</body></html>`))

	deletionTmpl = template.Must(template.New("deletion").Parse(`<html><body>
<p>Hi {{.Greeting}},</p>
<p>Your order <strong>{{.OrderID}}</strong> has been removed by our support team.</p>
{{if .Refund}}<p>A refund of {{.Refund}} has been initiated.</p>{{end}}
<p>If you have questions, reply to this email.</p>
</body></html>`))
)

// OrderConfirmation renders the payment confirmation email.
func OrderConfirmation(data OrderEmailData) (subject, html string) {
	return "Your Shopease order " + data.OrderID + " is confirmed", render(confirmationTmpl, data)
}

// OrderCancellation renders the cancellation and refund email.
func OrderCancellation(data OrderEmailData) (subject, html string) {
	return "Your Shopease order " + data.OrderID + " has been cancelled", render(cancellationTmpl, data)
}

// OrderDeletion renders the admin deletion email.
func OrderDeletion(data OrderEmailData) (subject, html string) {
	return "An update on your Shopease order " + data.OrderID, render(deletionTmpl, data)
}

func render(tmpl *template.Template, data OrderEmailData) string {
	greeting := textutil.DisplayName(namePolicy.Sanitize(data.RecipientName))
	if greeting == "" {
		greeting = "Customer"
	}

	rd := renderData{
		Greeting: greeting,
		OrderID:  data.OrderID,
		Total:    formatAmount(data.TotalAmount),
	}
	if data.RefundAmount > 0 {
		rd.Refund = formatAmount(data.RefundAmount)
	}
	if !data.EstimatedDelivery.IsZero() {
		rd.EstimatedDelivery = data.EstimatedDelivery.Format("Monday, 2 January 2006")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, rd); err != nil {
		return ""
	}
	return buf.String()
}

// formatAmount renders minor currency units as rupees with locale grouping.
func formatAmount(minor int64) string {
	return amounts.Sprintf("₹%.2f", float64(minor)/100)
}
