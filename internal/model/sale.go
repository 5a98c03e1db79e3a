package model

import "time"

// PaymentMethod enumerates the accepted tender types.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "Cash"
	PaymentMomo PaymentMethod = "Momo"
	PaymentCard PaymentMethod = "Card"
)

// Valid reports whether the payment method is one of the known values.
func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentMomo, PaymentCard:
		return true
	}
	return false
}

// CartItem is one checkout line. StockQuantity carries the last-known stock
// figure used for the client-side oversell pre-check.
type CartItem struct {
	ProductID     int64   `json:"product_id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity"`
	StockQuantity int     `json:"stock_quantity"`
}

// Sale is a canonical sale row owned by the backend.
// ClientRef is the idempotency key: the backend treats a second insert with
// the same ref as a no-op, so retried syncs cannot duplicate a sale.
type Sale struct {
	ID            int64         `json:"id"`
	TenantID      string        `json:"tenant_id"`
	ClientRef     string        `json:"client_ref"`
	ProductID     int64         `json:"product_id"`
	ProductName   string        `json:"product_name"`
	Quantity      int           `json:"quantity"`
	UnitPrice     float64       `json:"unit_price"`
	TotalPrice    float64       `json:"total_price"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	SaleDate      time.Time     `json:"sale_date"`
}

// QueuedSale is a sale captured while offline, held in the durable local
// queue until synced. OfflineID is a locally generated, monotonically
// distinct temporary identifier; it never leaves the device. ClientRef
// persists across restarts and travels with the sale to the backend.
type QueuedSale struct {
	OfflineID     int64         `json:"offline_id"`
	ClientRef     string        `json:"client_ref"`
	TenantID      string        `json:"tenant_id"`
	ProductID     int64         `json:"product_id"`
	ProductName   string        `json:"product_name"`
	Quantity      int           `json:"quantity"`
	UnitPrice     float64       `json:"unit_price"`
	TotalPrice    float64       `json:"total_price"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	SaleDate      time.Time     `json:"sale_date"`
}

// Sale converts a queued record to the canonical row sent to the backend,
// stripping the temporary offline identifier.
func (q QueuedSale) Sale() Sale {
	return Sale{
		TenantID:      q.TenantID,
		ClientRef:     q.ClientRef,
		ProductID:     q.ProductID,
		ProductName:   q.ProductName,
		Quantity:      q.Quantity,
		UnitPrice:     q.UnitPrice,
		TotalPrice:    q.TotalPrice,
		PaymentMethod: q.PaymentMethod,
		SaleDate:      q.SaleDate,
	}
}

// SaleConfirmation is the ephemeral record produced after a checkout,
// consumed by receipt rendering. It is never persisted.
type SaleConfirmation struct {
	Items         []CartItem    `json:"items"`
	Subtotal      float64       `json:"subtotal"`
	Tax           float64       `json:"tax"`
	Total         float64       `json:"total"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Date          string        `json:"date"`
	Offline       bool          `json:"offline"`
}
