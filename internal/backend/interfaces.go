package backend

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"stockflow-pos-api/internal/model"
)

// Backend is the hosted relational store holding the canonical product, sale
// and profile rows. Everything behind this interface is tenant-scoped;
// row-level enforcement is the store's responsibility.
type Backend interface {
	// Ping reports backend reachability. Used as the connectivity probe.
	Ping(ctx context.Context) error

	// ListProducts returns the tenant's catalog, newest first.
	ListProducts(ctx context.Context, tenantID string) ([]model.Product, error)

	// CreateProduct inserts a product and fills in its assigned ID.
	CreateProduct(ctx context.Context, p *model.Product) error

	// UpdateProduct updates name, SKU, price and stock of an existing row.
	UpdateProduct(ctx context.Context, p model.Product) error

	// GetProductStock is a point read used by the decrement fallback.
	GetProductStock(ctx context.Context, productID int64) (int, error)

	// UpdateProductStock writes an absolute stock figure.
	UpdateProductStock(ctx context.Context, productID int64, newStock int) error

	// DecrementStockAtomic decrements stock in a single guarded statement.
	// Returns ErrAtomicUnavailable when the operation is disabled and
	// ErrInsufficientStock when the guard rejects the decrement.
	DecrementStockAtomic(ctx context.Context, productID int64, quantity int) error

	// InsertSale appends one canonical sale row. Inserting the same
	// client ref twice is a no-op success.
	InsertSale(ctx context.Context, sale model.Sale) error

	// ListSales returns the tenant's recent sales, newest first.
	ListSales(ctx context.Context, tenantID string, limit int) ([]model.Sale, error)

	// GetProfile returns the tenant's store settings.
	GetProfile(ctx context.Context, tenantID string) (model.StoreProfile, error)

	// ValidateLogin checks tenant credentials and returns the profile.
	ValidateLogin(ctx context.Context, email, apiKey string) (model.StoreProfile, error)
}

// Sentinel errors surfaced across package boundaries.
var (
	// ErrAtomicUnavailable means the server-side atomic decrement is not
	// offered by this backend; callers fall back to read-modify-write.
	ErrAtomicUnavailable = errors.New("atomic stock decrement unavailable")

	// ErrInsufficientStock means the decrement guard rejected the update.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrNotFound means the requested row does not exist for this tenant.
	ErrNotFound = errors.New("not found")
)

// IsNetworkError classifies an error as network-shaped: the kind of failure
// that should flip the sale path to offline capture instead of surfacing to
// the operator. Validation and authorization failures are not network-shaped.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}

	// Driver errors that wrap the cause into text only.
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"no such host",
		"network is unreachable",
		"invalid connection",
		"i/o timeout",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
