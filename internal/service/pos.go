package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"stockflow-pos-api/internal/backend"
	"stockflow-pos-api/internal/model"
	"stockflow-pos-api/internal/offline"
	"stockflow-pos-api/pkg/uid"
)

// SaleBackend is the slice of the backend the sale recording path needs.
type SaleBackend interface {
	InsertSale(ctx context.Context, sale model.Sale) error
	DecrementStockAtomic(ctx context.Context, productID int64, quantity int) error
	GetProductStock(ctx context.Context, productID int64) (int, error)
	UpdateProductStock(ctx context.Context, productID int64, newStock int) error
}

// POSService is the sale recording path: it validates a checkout attempt,
// then records it either directly against the backend (online) or into the
// durable local queue (offline, or online write failing in a network-shaped
// way).
type POSService struct {
	backend SaleBackend
	queue   *offline.Queue

	// online reports the connectivity monitor's current state.
	online func() bool
}

// NewPOSService creates the sale recording path.
// Returns nil if any dependency is missing.
func NewPOSService(saleBackend SaleBackend, queue *offline.Queue, online func() bool) *POSService {
	if saleBackend == nil || queue == nil || online == nil {
		return nil
	}
	return &POSService{
		backend: saleBackend,
		queue:   queue,
		online:  online,
	}
}

// Checkout records a sale for the given cart. Preconditions: the cart is
// non-empty, every line has a positive quantity no greater than the
// last-known stock, and the payment method is known. Violations abort the
// whole sale; the oversell rejection itemizes every offending line.
//
// The returned confirmation is ephemeral UI state for receipt rendering;
// Offline reports whether the sale was captured locally instead of
// committed to the backend.
func (s *POSService) Checkout(
	ctx context.Context,
	tenantID string,
	cart []model.CartItem,
	payment model.PaymentMethod,
	profile model.StoreProfile,
) (*model.SaleConfirmation, error) {
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}
	if !payment.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPayment, payment)
	}

	var oversold []OversellItem
	for _, item := range cart {
		if item.Quantity <= 0 || item.Quantity > item.StockQuantity {
			oversold = append(oversold, OversellItem{
				Name:      item.Name,
				Requested: item.Quantity,
				InStock:   item.StockQuantity,
			})
		}
	}
	if len(oversold) > 0 {
		return nil, &OversellError{Items: oversold}
	}

	sales := buildSales(tenantID, cart, payment)

	wentOffline := false
	if !s.online() {
		if err := s.recordOffline(ctx, cart, sales); err != nil {
			return nil, err
		}
		wentOffline = true
	} else if err := s.recordOnline(ctx, cart, sales); err != nil {
		if !backend.IsNetworkError(err) {
			return nil, err
		}
		// Network-shaped failure mid-checkout: capture the same sale
		// rows locally. They keep their client refs, so any row that
		// did reach the backend collapses into a no-op on sync.
		log.Printf("[POS] Online checkout failed, capturing offline: %v", err)
		if err := s.recordOffline(ctx, cart, sales); err != nil {
			return nil, err
		}
		wentOffline = true
	}

	return buildConfirmation(cart, payment, profile, wentOffline), nil
}

// recordOnline inserts each sale row, then decrements stock per row. The
// decrement prefers the atomic server-side operation and falls back to
// read-modify-write when it is unavailable or rejected.
func (s *POSService) recordOnline(ctx context.Context, cart []model.CartItem, sales []model.Sale) error {
	for _, sale := range sales {
		if err := s.backend.InsertSale(ctx, sale); err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}
	}

	for _, item := range cart {
		if err := s.backend.DecrementStockAtomic(ctx, item.ProductID, item.Quantity); err == nil {
			continue
		} else if backend.IsNetworkError(err) {
			return fmt.Errorf("decrement stock: %w", err)
		}

		stock, err := s.backend.GetProductStock(ctx, item.ProductID)
		if err != nil {
			return fmt.Errorf("read stock: %w", err)
		}
		if err := s.backend.UpdateProductStock(ctx, item.ProductID, stock-item.Quantity); err != nil {
			return fmt.Errorf("write stock: %w", err)
		}
	}
	return nil
}

// recordOffline appends one queued record per line. Stock is not touched:
// the backend row stays canonical and local figures are treated as stale
// until the next successful fetch or sync.
func (s *POSService) recordOffline(ctx context.Context, cart []model.CartItem, sales []model.Sale) error {
	for i, sale := range sales {
		queued := model.QueuedSale{
			ClientRef:     sale.ClientRef,
			TenantID:      sale.TenantID,
			ProductID:     sale.ProductID,
			ProductName:   sale.ProductName,
			Quantity:      sale.Quantity,
			UnitPrice:     sale.UnitPrice,
			TotalPrice:    sale.TotalPrice,
			PaymentMethod: sale.PaymentMethod,
			SaleDate:      sale.SaleDate,
		}
		if err := s.queue.Append(ctx, queued); err != nil {
			return fmt.Errorf("queue sale %d/%d: %w", i+1, len(cart), err)
		}
	}
	return nil
}

func buildSales(tenantID string, cart []model.CartItem, payment model.PaymentMethod) []model.Sale {
	now := time.Now().UTC()
	sales := make([]model.Sale, len(cart))
	for i, item := range cart {
		sales[i] = model.Sale{
			TenantID:      tenantID,
			ClientRef:     uid.New(),
			ProductID:     item.ProductID,
			ProductName:   item.Name,
			Quantity:      item.Quantity,
			UnitPrice:     item.Price,
			TotalPrice:    item.Price * float64(item.Quantity),
			PaymentMethod: payment,
			SaleDate:      now,
		}
	}
	return sales
}

func buildConfirmation(cart []model.CartItem, payment model.PaymentMethod, profile model.StoreProfile, offline bool) *model.SaleConfirmation {
	subtotal := 0.0
	for _, item := range cart {
		subtotal += item.Price * float64(item.Quantity)
	}
	tax := subtotal * profile.TaxRate / 100

	return &model.SaleConfirmation{
		Items:         cart,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         subtotal + tax,
		PaymentMethod: payment,
		Date:          time.Now().Format("2006-01-02 15:04:05"),
		Offline:       offline,
	}
}
