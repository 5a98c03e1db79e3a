package service

import (
	"context"
	"errors"
	"testing"

	"stockflow-pos-api/internal/backend"
	"stockflow-pos-api/internal/localstore"
	"stockflow-pos-api/internal/model"
	"stockflow-pos-api/internal/offline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSaleBackend implements SaleBackend for testing.
type mockSaleBackend struct {
	insertErr error
	atomicErr error
	stock     map[int64]int
	stockErr  error
	updateErr error

	inserted   []model.Sale
	decrements map[int64]int
	updates    map[int64]int
}

func newMockSaleBackend() *mockSaleBackend {
	return &mockSaleBackend{
		stock:      make(map[int64]int),
		decrements: make(map[int64]int),
		updates:    make(map[int64]int),
	}
}

func (m *mockSaleBackend) InsertSale(_ context.Context, sale model.Sale) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, sale)
	return nil
}

func (m *mockSaleBackend) DecrementStockAtomic(_ context.Context, productID int64, quantity int) error {
	if m.atomicErr != nil {
		return m.atomicErr
	}
	m.decrements[productID] += quantity
	return nil
}

func (m *mockSaleBackend) GetProductStock(_ context.Context, productID int64) (int, error) {
	if m.stockErr != nil {
		return 0, m.stockErr
	}
	return m.stock[productID], nil
}

func (m *mockSaleBackend) UpdateProductStock(_ context.Context, productID int64, newStock int) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates[productID] = newStock
	return nil
}

func alwaysOnline() bool  { return true }
func alwaysOffline() bool { return false }

func testCart() []model.CartItem {
	return []model.CartItem{
		{ProductID: 1, Name: "Widget", Price: 10.0, Quantity: 2, StockQuantity: 5},
		{ProductID: 2, Name: "Gadget", Price: 4.5, Quantity: 1, StockQuantity: 3},
	}
}

func testProfile() model.StoreProfile {
	return model.StoreProfile{StoreName: "Test Store", CurrencySymbol: "GH₵", TaxRate: 10}
}

func newTestPOS(t *testing.T, be SaleBackend, online func() bool) (*POSService, *offline.Queue) {
	t.Helper()
	queue := offline.NewQueue(localstore.NewMemoryStore())
	svc := NewPOSService(be, queue, online)
	require.NotNil(t, svc)
	return svc, queue
}

func TestCheckout_EmptyCart(t *testing.T) {
	svc, _ := newTestPOS(t, newMockSaleBackend(), alwaysOnline)

	_, err := svc.Checkout(context.Background(), "tenant-a", nil, model.PaymentCash, testProfile())

	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_InvalidPaymentMethod(t *testing.T) {
	svc, _ := newTestPOS(t, newMockSaleBackend(), alwaysOnline)

	_, err := svc.Checkout(context.Background(), "tenant-a", testCart(), "Barter", testProfile())

	assert.ErrorIs(t, err, ErrInvalidPayment)
}

func TestCheckout_OversellRejectsWholeSale(t *testing.T) {
	be := newMockSaleBackend()
	svc, queue := newTestPOS(t, be, alwaysOnline)

	cart := []model.CartItem{
		{ProductID: 1, Name: "Fine", Price: 1, Quantity: 1, StockQuantity: 10},
		{ProductID: 2, Name: "TooMany", Price: 1, Quantity: 7, StockQuantity: 3},
		{ProductID: 3, Name: "Zero", Price: 1, Quantity: 0, StockQuantity: 10},
	}

	_, err := svc.Checkout(context.Background(), "tenant-a", cart, model.PaymentCash, testProfile())

	var oversell *OversellError
	require.ErrorAs(t, err, &oversell)
	require.Len(t, oversell.Items, 2)
	assert.Equal(t, "TooMany", oversell.Items[0].Name)
	assert.Equal(t, "Zero", oversell.Items[1].Name)

	// Nothing was committed anywhere.
	assert.Empty(t, be.inserted)
	assert.Equal(t, 0, queue.Len(context.Background()))
}

func TestCheckout_OnlineHappyPath(t *testing.T) {
	be := newMockSaleBackend()
	svc, queue := newTestPOS(t, be, alwaysOnline)

	conf, err := svc.Checkout(context.Background(), "tenant-a", testCart(), model.PaymentMomo, testProfile())

	require.NoError(t, err)
	require.NotNil(t, conf)
	assert.False(t, conf.Offline)
	assert.InDelta(t, 24.5, conf.Subtotal, 0.001)
	assert.InDelta(t, 2.45, conf.Tax, 0.001)
	assert.InDelta(t, 26.95, conf.Total, 0.001)
	assert.Equal(t, model.PaymentMomo, conf.PaymentMethod)

	require.Len(t, be.inserted, 2)
	assert.Equal(t, "tenant-a", be.inserted[0].TenantID)
	assert.NotEmpty(t, be.inserted[0].ClientRef)
	assert.NotEqual(t, be.inserted[0].ClientRef, be.inserted[1].ClientRef)
	assert.Equal(t, 2, be.decrements[1])
	assert.Equal(t, 1, be.decrements[2])
	assert.Equal(t, 0, queue.Len(context.Background()))
}

func TestCheckout_OnlineAtomicRejectedUsesFallback(t *testing.T) {
	be := newMockSaleBackend()
	be.atomicErr = backend.ErrAtomicUnavailable
	be.stock[1] = 5
	be.stock[2] = 3
	svc, _ := newTestPOS(t, be, alwaysOnline)

	conf, err := svc.Checkout(context.Background(), "tenant-a", testCart(), model.PaymentCash, testProfile())

	require.NoError(t, err)
	assert.False(t, conf.Offline)
	assert.Equal(t, 3, be.updates[1])
	assert.Equal(t, 2, be.updates[2])
}

func TestCheckout_OfflineCapturesToQueue(t *testing.T) {
	be := newMockSaleBackend()
	svc, queue := newTestPOS(t, be, alwaysOffline)
	ctx := context.Background()

	conf, err := svc.Checkout(ctx, "tenant-a", testCart(), model.PaymentCash, testProfile())

	require.NoError(t, err)
	assert.True(t, conf.Offline)

	// The backend was never touched.
	assert.Empty(t, be.inserted)
	assert.Empty(t, be.decrements)

	records := queue.ReadAll(ctx)
	require.Len(t, records, 2)
	assert.Equal(t, "Widget", records[0].ProductName)
	assert.NotEmpty(t, records[0].ClientRef)
	assert.NotZero(t, records[0].OfflineID)
	assert.InDelta(t, 20.0, records[0].TotalPrice, 0.001)
}

func TestCheckout_NetworkFailureFallsBackToQueue(t *testing.T) {
	be := newMockSaleBackend()
	be.insertErr = errors.New("dial tcp: connection refused")
	svc, queue := newTestPOS(t, be, alwaysOnline)
	ctx := context.Background()

	conf, err := svc.Checkout(ctx, "tenant-a", testCart(), model.PaymentCard, testProfile())

	require.NoError(t, err)
	assert.True(t, conf.Offline)
	assert.Equal(t, 2, queue.Len(ctx))
}

func TestCheckout_NonNetworkFailureSurfaces(t *testing.T) {
	be := newMockSaleBackend()
	be.insertErr = errors.New("constraint violation")
	svc, queue := newTestPOS(t, be, alwaysOnline)
	ctx := context.Background()

	conf, err := svc.Checkout(ctx, "tenant-a", testCart(), model.PaymentCash, testProfile())

	assert.Error(t, err)
	assert.Nil(t, conf)
	assert.Equal(t, 0, queue.Len(ctx))
}

func TestCheckout_SaleRowsCarryCartFigures(t *testing.T) {
	be := newMockSaleBackend()
	svc, _ := newTestPOS(t, be, alwaysOnline)

	_, err := svc.Checkout(context.Background(), "tenant-a", testCart(), model.PaymentCash, testProfile())
	require.NoError(t, err)

	require.Len(t, be.inserted, 2)
	widget := be.inserted[0]
	assert.Equal(t, int64(1), widget.ProductID)
	assert.Equal(t, 2, widget.Quantity)
	assert.InDelta(t, 10.0, widget.UnitPrice, 0.001)
	assert.InDelta(t, 20.0, widget.TotalPrice, 0.001)
	assert.False(t, widget.SaleDate.IsZero())
}
