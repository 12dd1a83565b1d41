package email

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/money"
)

type itemView struct {
	Name      string
	Variant   string
	Quantity  int
	Price     string
	LineTotal string
}

type confirmationView struct {
	Greeting string
	OrderID  string
	Items    []itemView
	Totals   order.FormattedTotal
	Demo     bool
}

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: #4f46e5; padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">Thanks for your order</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">{{.Greeting}}</p>

		<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
			<p style="margin: 0; font-size: 14px; color: #666;">Order number</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">{{.OrderID}}</p>
		</div>

		<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background: #f8f9fa;">
					<th style="padding: 12px; text-align: left;">Item</th>
					<th style="padding: 12px; text-align: center;">Qty</th>
					<th style="padding: 12px; text-align: right;">Price</th>
					<th style="padding: 12px; text-align: right;">Total</th>
				</tr>
			</thead>
			<tbody>
			{{- range .Items}}
				<tr>
					<td style="padding: 12px; border-bottom: 1px solid #eee;">{{.Name}}{{if .Variant}}<br><span style="font-size: 12px; color: #666;">{{.Variant}}</span>{{end}}</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: center;">{{.Quantity}}</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">{{.Price}}</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">{{.LineTotal}}</td>
				</tr>
			{{- end}}
			</tbody>
		</table>

		<table style="width: 100%; background: #f8f9fa; border-radius: 5px; padding: 10px;">
			<tr><td>Subtotal</td><td style="text-align: right;">{{.Totals.Subtotal}}</td></tr>
			<tr><td>Shipping</td><td style="text-align: right;">{{.Totals.Shipping}}</td></tr>
			<tr><td>Tax</td><td style="text-align: right;">{{.Totals.Tax}}</td></tr>
			<tr><td style="font-weight: bold;">Total</td><td style="text-align: right; font-weight: bold; color: #4f46e5;">{{.Totals.Total}}</td></tr>
		</table>
		{{- if .Demo}}

		<p style="font-size: 14px; color: #b45309;">This is a demo order. No payment was taken and nothing will ship.</p>
		{{- end}}

		<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">

		<p style="font-size: 12px; color: #999; margin-bottom: 0;">
			This email was sent automatically. Please do not reply.
		</p>
	</div>
</body>
</html>`))

// BuildOrderConfirmationBody builds the HTML body for order confirmation email
func BuildOrderConfirmationBody(placed order.Placed) (string, error) {
	view := confirmationView{
		Greeting: "Hi there,",
		OrderID:  placed.OrderID,
		Items:    make([]itemView, len(placed.Items)),
		Totals:   placed.Totals.Formatted(),
		Demo:     placed.Demo,
	}
	if name := placed.Contact.Name(); name != "" {
		view.Greeting = fmt.Sprintf("Hi %s,", name)
	}
	for i, item := range placed.Items {
		name := item.Name
		if name == "" {
			name = item.ProductID
		}
		view.Items[i] = itemView{
			Name:      name,
			Variant:   variantLabel(item.Color, item.Size),
			Quantity:  item.Quantity,
			Price:     money.FormatCents(item.Price),
			LineTotal: money.FormatCents(item.LineTotal()),
		}
	}

	var b strings.Builder
	if err := confirmationTemplate.Execute(&b, view); err != nil {
		return "", fmt.Errorf("failed to render order confirmation: %w", err)
	}
	return b.String(), nil
}

func variantLabel(color, size string) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{color, size} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " / ")
}
