// Package receipt renders a sale confirmation as a printable HTML receipt or
// a plain-text version suitable for sharing over messaging apps.
package receipt

import (
	"fmt"
	"html/template"
	"strings"

	"stockflow-pos-api/internal/model"
)

var htmlTemplate = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"lineTotal": func(item model.CartItem) float64 {
		return item.Price * float64(item.Quantity)
	},
}).Parse(`<html>
  <head>
    <title>Receipt</title>
    <style>
      body { font-family: 'Courier New', monospace; padding: 20px; max-width: 300px; margin: 0 auto; }
      .header { text-align: center; border-bottom: 2px solid #000; padding-bottom: 15px; margin-bottom: 15px; }
      .store-name { font-size: 24px; font-weight: 900; text-transform: uppercase; margin: 0 0 5px 0; }
      .store-info { font-size: 12px; margin: 2px 0; }
      .meta { font-size: 11px; border-bottom: 1px dashed #000; padding-bottom: 10px; margin-bottom: 15px; }
      .item { display: flex; justify-content: space-between; font-size: 12px; margin-bottom: 5px; }
      .totals { border-top: 1px dashed #000; padding-top: 10px; margin-top: 15px; }
      .total-row { display: flex; justify-content: space-between; font-size: 12px; margin-top: 3px; }
      .grand-total { font-size: 16px; font-weight: bold; border-top: 2px solid #000; padding-top: 5px; margin-top: 10px; }
      .footer { text-align: center; font-size: 10px; font-style: italic; margin-top: 30px; }
    </style>
  </head>
  <body>
    <div class="header">
      <h1 class="store-name">{{.Store.StoreName}}</h1>
      <p class="store-info">{{.Store.Address}}</p>
      <p class="store-info">{{.Store.Phone}}</p>
    </div>
    <div class="meta">
      <p>Date: {{.Sale.Date}}</p>
      <p>Payment: {{.Sale.PaymentMethod}}</p>
    </div>
    <div class="items">
      {{- range .Sale.Items}}
      <div class="item">
        <span>{{.Name}} x{{.Quantity}}</span>
        <span>{{$.Store.CurrencySymbol}}{{printf "%.2f" (lineTotal .)}}</span>
      </div>
      {{- end}}
    </div>
    <div class="totals">
      <div class="total-row"><span>Subtotal</span><span>{{.Store.CurrencySymbol}}{{printf "%.2f" .Sale.Subtotal}}</span></div>
      <div class="total-row"><span>Tax ({{printf "%g" .Store.TaxRate}}%)</span><span>{{.Store.CurrencySymbol}}{{printf "%.2f" .Sale.Tax}}</span></div>
      <div class="total-row grand-total"><span>TOTAL</span><span>{{.Store.CurrencySymbol}}{{printf "%.2f" .Sale.Total}}</span></div>
    </div>
    <div class="footer">
      <p>Thank you for shopping with us!</p>
      <p>Please come again.</p>
    </div>
  </body>
</html>
`))

type receiptData struct {
	Sale  *model.SaleConfirmation
	Store model.StoreProfile
}

// RenderHTML returns a printable HTML receipt.
func RenderHTML(sale *model.SaleConfirmation, store model.StoreProfile) (string, error) {
	var sb strings.Builder
	if err := htmlTemplate.Execute(&sb, receiptData{Sale: sale, Store: store}); err != nil {
		return "", fmt.Errorf("failed to render receipt: %w", err)
	}
	return sb.String(), nil
}

// RenderText returns a plain-text receipt for sharing.
func RenderText(sale *model.SaleConfirmation, store model.StoreProfile) string {
	var sb strings.Builder
	divider := "------------------------\n"

	fmt.Fprintf(&sb, "*%s*\nReceipt\n", store.StoreName)
	if store.Address != "" {
		sb.WriteString(store.Address + "\n")
	}
	if store.Phone != "" {
		sb.WriteString(store.Phone + "\n")
	}
	fmt.Fprintf(&sb, "\nDate: %s\nPayment: %s\n", sale.Date, sale.PaymentMethod)
	sb.WriteString(divider)

	for _, item := range sale.Items {
		fmt.Fprintf(&sb, "%s x%d - %s%.2f\n", item.Name, item.Quantity, store.CurrencySymbol, item.Price*float64(item.Quantity))
	}

	sb.WriteString(divider)
	fmt.Fprintf(&sb, "Subtotal: %s%.2f\n", store.CurrencySymbol, sale.Subtotal)
	fmt.Fprintf(&sb, "Tax (%g%%): %s%.2f\n", store.TaxRate, store.CurrencySymbol, sale.Tax)
	fmt.Fprintf(&sb, "*TOTAL: %s%.2f*\n", store.CurrencySymbol, sale.Total)
	sb.WriteString(divider)
	sb.WriteString("Thank you for shopping with us!\n")

	return sb.String()
}
