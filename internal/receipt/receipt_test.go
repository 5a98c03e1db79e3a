package receipt

import (
	"testing"

	"stockflow-pos-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfirmation() *model.SaleConfirmation {
	return &model.SaleConfirmation{
		Items: []model.CartItem{
			{Name: "Widget", Price: 10.0, Quantity: 2},
			{Name: "Gadget", Price: 4.5, Quantity: 1},
		},
		Subtotal:      24.5,
		Tax:           2.45,
		Total:         26.95,
		PaymentMethod: model.PaymentCash,
		Date:          "2025-06-01 12:00:00",
	}
}

func testStore() model.StoreProfile {
	return model.StoreProfile{
		StoreName:      "Corner Shop",
		Address:        "12 Market St",
		Phone:          "+233 20 000 0000",
		CurrencySymbol: "GH₵",
		TaxRate:        10,
	}
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML(testConfirmation(), testStore())
	require.NoError(t, err)

	assert.Contains(t, html, "Corner Shop")
	assert.Contains(t, html, "12 Market St")
	assert.Contains(t, html, "Widget x2")
	assert.Contains(t, html, "GH₵20.00")
	assert.Contains(t, html, "GH₵26.95")
	assert.Contains(t, html, "Payment: Cash")
	assert.Contains(t, html, "Tax (10%)")
}

func TestRenderHTML_EscapesContent(t *testing.T) {
	conf := testConfirmation()
	conf.Items[0].Name = `<script>alert("x")</script>`

	html, err := RenderHTML(conf, testStore())
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>alert")
}

func TestRenderText(t *testing.T) {
	text := RenderText(testConfirmation(), testStore())

	assert.Contains(t, text, "*Corner Shop*")
	assert.Contains(t, text, "Widget x2 - GH₵20.00")
	assert.Contains(t, text, "Gadget x1 - GH₵4.50")
	assert.Contains(t, text, "Subtotal: GH₵24.50")
	assert.Contains(t, text, "Tax (10%): GH₵2.45")
	assert.Contains(t, text, "*TOTAL: GH₵26.95*")
}

func TestRenderText_OmitsEmptyContactLines(t *testing.T) {
	store := testStore()
	store.Address = ""
	store.Phone = ""

	text := RenderText(testConfirmation(), store)

	assert.NotContains(t, text, "12 Market St")
	assert.Contains(t, text, "Date: 2025-06-01 12:00:00")
}
