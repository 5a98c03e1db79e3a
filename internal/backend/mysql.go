package backend

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"stockflow-pos-api/internal/model"
)

// MySQLBackend implements Backend against the hosted MySQL store.
type MySQLBackend struct {
	db *sql.DB

	// atomicDecrement toggles the server-side guarded decrement. When off,
	// DecrementStockAtomic reports ErrAtomicUnavailable and callers use the
	// read-modify-write fallback.
	atomicDecrement bool
}

// NewMySQLBackend wraps an open MySQL handle.
func NewMySQLBackend(db *sql.DB, atomicDecrement bool) *MySQLBackend {
	return &MySQLBackend{db: db, atomicDecrement: atomicDecrement}
}

// Ping reports backend reachability.
func (b *MySQLBackend) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

// ListProducts returns the tenant's catalog, newest first.
func (b *MySQLBackend) ListProducts(ctx context.Context, tenantID string) ([]model.Product, error) {
	query := `
		SELECT id, tenant_id, name, sku, price, stock_quantity, created_at
		FROM products
		WHERE tenant_id = ?
		ORDER BY id DESC`

	rows, err := b.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &p.SKU, &p.Price, &p.StockQuantity, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// CreateProduct inserts a product and fills in its assigned ID.
func (b *MySQLBackend) CreateProduct(ctx context.Context, p *model.Product) error {
	query := `
		INSERT INTO products (tenant_id, name, sku, price, stock_quantity, created_at)
		VALUES (?, ?, ?, ?, ?, NOW())`

	res, err := b.db.ExecContext(ctx, query, p.TenantID, p.Name, p.SKU, p.Price, p.StockQuantity)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read product id: %w", err)
	}
	p.ID = id
	return nil
}

// UpdateProduct updates an existing product row.
func (b *MySQLBackend) UpdateProduct(ctx context.Context, p model.Product) error {
	query := `
		UPDATE products
		SET name = ?, sku = ?, price = ?, stock_quantity = ?
		WHERE id = ? AND tenant_id = ?`

	res, err := b.db.ExecContext(ctx, query, p.Name, p.SKU, p.Price, p.StockQuantity, p.ID, p.TenantID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetProductStock is a point read used by the decrement fallback.
func (b *MySQLBackend) GetProductStock(ctx context.Context, productID int64) (int, error) {
	var stock int
	err := b.db.QueryRowContext(ctx, `SELECT stock_quantity FROM products WHERE id = ?`, productID).Scan(&stock)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to read stock: %w", err)
	}
	return stock, nil
}

// UpdateProductStock writes an absolute stock figure.
func (b *MySQLBackend) UpdateProductStock(ctx context.Context, productID int64, newStock int) error {
	_, err := b.db.ExecContext(ctx, `UPDATE products SET stock_quantity = ? WHERE id = ?`, newStock, productID)
	if err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}
	return nil
}

// DecrementStockAtomic decrements stock in a single guarded statement,
// avoiding the lost-update race of the read-modify-write path.
func (b *MySQLBackend) DecrementStockAtomic(ctx context.Context, productID int64, quantity int) error {
	if !b.atomicDecrement {
		return ErrAtomicUnavailable
	}

	query := `
		UPDATE products
		SET stock_quantity = stock_quantity - ?
		WHERE id = ? AND stock_quantity >= ?`

	res, err := b.db.ExecContext(ctx, query, quantity, productID, quantity)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// InsertSale appends one canonical sale row. client_ref carries a UNIQUE
// index; a duplicate insert collapses into a no-op so a retried sync cannot
// produce a second row for the same sale.
func (b *MySQLBackend) InsertSale(ctx context.Context, sale model.Sale) error {
	query := `
		INSERT INTO sales (tenant_id, client_ref, product_id, product_name, quantity,
			unit_price, total_price, payment_method, sale_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE id = id`

	_, err := b.db.ExecContext(ctx, query,
		sale.TenantID, sale.ClientRef, sale.ProductID, sale.ProductName,
		sale.Quantity, sale.UnitPrice, sale.TotalPrice, string(sale.PaymentMethod), sale.SaleDate)
	if err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}
	return nil
}

// ListSales returns the tenant's recent sales, newest first.
func (b *MySQLBackend) ListSales(ctx context.Context, tenantID string, limit int) ([]model.Sale, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, tenant_id, client_ref, product_id, product_name, quantity,
			unit_price, total_price, payment_method, sale_date
		FROM sales
		WHERE tenant_id = ?
		ORDER BY sale_date DESC, id DESC
		LIMIT ?`

	rows, err := b.db.QueryContext(ctx, query, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	sales := []model.Sale{}
	for rows.Next() {
		var s model.Sale
		var method string
		if err := rows.Scan(&s.ID, &s.TenantID, &s.ClientRef, &s.ProductID, &s.ProductName,
			&s.Quantity, &s.UnitPrice, &s.TotalPrice, &method, &s.SaleDate); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		s.PaymentMethod = model.PaymentMethod(method)
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

// GetProfile returns the tenant's store settings.
func (b *MySQLBackend) GetProfile(ctx context.Context, tenantID string) (model.StoreProfile, error) {
	query := `
		SELECT tenant_id, store_name, address, phone, currency_symbol, tax_rate
		FROM profiles
		WHERE tenant_id = ?
		LIMIT 1`

	var p model.StoreProfile
	err := b.db.QueryRowContext(ctx, query, tenantID).Scan(
		&p.TenantID, &p.StoreName, &p.Address, &p.Phone, &p.CurrencySymbol, &p.TaxRate)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.StoreProfile{}, ErrNotFound
		}
		return model.StoreProfile{}, fmt.Errorf("failed to read profile: %w", err)
	}
	return p, nil
}

// ValidateLogin checks tenant credentials and returns the profile.
func (b *MySQLBackend) ValidateLogin(ctx context.Context, email, apiKey string) (model.StoreProfile, error) {
	log.Printf("[Backend] Validating login for email=%s", email)

	query := `
		SELECT tenant_id, store_name, address, phone, currency_symbol, tax_rate
		FROM profiles
		WHERE email = ? AND api_key = ? AND is_active = 1
		LIMIT 1`

	var p model.StoreProfile
	err := b.db.QueryRowContext(ctx, query, email, apiKey).Scan(
		&p.TenantID, &p.StoreName, &p.Address, &p.Phone, &p.CurrencySymbol, &p.TaxRate)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.StoreProfile{}, fmt.Errorf("invalid credentials")
		}
		return model.StoreProfile{}, fmt.Errorf("failed to validate login: %w", err)
	}
	return p, nil
}

// Ensure MySQLBackend implements Backend
var _ Backend = (*MySQLBackend)(nil)
