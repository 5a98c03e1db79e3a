package model

import "time"

// Product is a catalog row owned by the backend. Stock figures are only as
// fresh as the last successful fetch; overselling is re-checked server-side.
type Product struct {
	ID            int64     `json:"id"`
	TenantID      string    `json:"tenant_id"`
	Name          string    `json:"name"`
	SKU           string    `json:"sku"`
	Price         float64   `json:"price"`
	StockQuantity int       `json:"stock_quantity"`
	CreatedAt     time.Time `json:"created_at"`
}

// StoreProfile holds per-tenant store settings used for checkout math and
// receipt rendering.
type StoreProfile struct {
	TenantID       string  `json:"tenant_id"`
	StoreName      string  `json:"store_name"`
	Address        string  `json:"address"`
	Phone          string  `json:"phone"`
	CurrencySymbol string  `json:"currency_symbol"`
	TaxRate        float64 `json:"tax_rate"` // percent, e.g. 12.5
}
