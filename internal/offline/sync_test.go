package offline

import (
	"context"
	"errors"
	"testing"

	"stockflow-pos-api/internal/localstore"
	"stockflow-pos-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSyncBackend implements SyncBackend for testing.
type mockSyncBackend struct {
	insertErrs map[string]error // keyed by product name
	atomicErr  error
	stock      map[int64]int
	stockErr   error
	updateErr  error

	inserted []model.Sale
	updates  map[int64]int
}

func newMockSyncBackend() *mockSyncBackend {
	return &mockSyncBackend{
		insertErrs: make(map[string]error),
		stock:      make(map[int64]int),
		updates:    make(map[int64]int),
	}
}

func (m *mockSyncBackend) InsertSale(_ context.Context, sale model.Sale) error {
	if err := m.insertErrs[sale.ProductName]; err != nil {
		return err
	}
	m.inserted = append(m.inserted, sale)
	return nil
}

func (m *mockSyncBackend) DecrementStockAtomic(_ context.Context, productID int64, quantity int) error {
	if m.atomicErr != nil {
		return m.atomicErr
	}
	m.stock[productID] -= quantity
	return nil
}

func (m *mockSyncBackend) GetProductStock(_ context.Context, productID int64) (int, error) {
	if m.stockErr != nil {
		return 0, m.stockErr
	}
	return m.stock[productID], nil
}

func (m *mockSyncBackend) UpdateProductStock(_ context.Context, productID int64, newStock int) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.stock[productID] = newStock
	m.updates[productID] = newStock
	return nil
}

// mockRecorder implements SyncRecorder for testing.
type mockRecorder struct {
	runs []*model.SyncRun
}

func (m *mockRecorder) InsertSyncRun(_ context.Context, run *model.SyncRun) error {
	m.runs = append(m.runs, run)
	return nil
}

func newTestEngine(t *testing.T, be SyncBackend, rec SyncRecorder) (*Engine, *Queue) {
	t.Helper()
	q := NewQueue(localstore.NewMemoryStore())
	return NewEngine(q, be, rec), q
}

func enqueue(t *testing.T, q *Queue, name string, productID int64, qty int) {
	t.Helper()
	require.NoError(t, q.Append(context.Background(), model.QueuedSale{
		ProductName: name,
		ProductID:   productID,
		Quantity:    qty,
	}))
}

func TestSync_EmptyQueueIsNoOp(t *testing.T) {
	be := newMockSyncBackend()
	rec := &mockRecorder{}
	engine, _ := newTestEngine(t, be, rec)

	result := engine.Sync(context.Background(), TriggerManual)

	assert.Equal(t, Result{}, result)
	assert.Empty(t, be.inserted)
	// No-op passes are not recorded.
	assert.Empty(t, rec.runs)
}

func TestSync_DrainsQueueInOrder(t *testing.T) {
	be := newMockSyncBackend()
	be.stock[1] = 10
	be.stock[2] = 5
	engine, q := newTestEngine(t, be, nil)
	ctx := context.Background()

	enqueue(t, q, "First", 1, 2)
	enqueue(t, q, "Second", 2, 1)

	result := engine.Sync(ctx, TriggerManual)

	assert.Equal(t, 2, result.Synced)
	assert.Equal(t, 0, result.Errors)
	assert.Equal(t, 0, result.Skipped)
	require.Len(t, be.inserted, 2)
	assert.Equal(t, "First", be.inserted[0].ProductName)
	assert.Equal(t, "Second", be.inserted[1].ProductName)
	assert.Equal(t, 8, be.stock[1])
	assert.Equal(t, 4, be.stock[2])
	assert.Equal(t, 0, q.Len(ctx))
}

func TestSync_StripsOfflineIDKeepsClientRef(t *testing.T) {
	be := newMockSyncBackend()
	engine, q := newTestEngine(t, be, nil)
	ctx := context.Background()

	require.NoError(t, q.Append(ctx, model.QueuedSale{ClientRef: "ref-xyz", ProductID: 1, Quantity: 1}))

	engine.Sync(ctx, TriggerManual)

	require.Len(t, be.inserted, 1)
	assert.Equal(t, "ref-xyz", be.inserted[0].ClientRef)
	assert.Zero(t, be.inserted[0].ID)
}

func TestSync_SecondPassIsIdempotent(t *testing.T) {
	be := newMockSyncBackend()
	be.stock[1] = 10
	engine, q := newTestEngine(t, be, nil)
	ctx := context.Background()

	enqueue(t, q, "Widget", 1, 2)

	first := engine.Sync(ctx, TriggerManual)
	second := engine.Sync(ctx, TriggerManual)

	assert.Equal(t, 1, first.Synced)
	assert.Equal(t, Result{}, second)
	assert.Len(t, be.inserted, 1)
	assert.Equal(t, 8, be.stock[1])
}

func TestSync_InsertFailureKeepsRecordQueued(t *testing.T) {
	be := newMockSyncBackend()
	be.stock[1] = 10
	be.stock[2] = 10
	be.stock[3] = 10
	be.insertErrs["Second"] = errors.New("connection refused")
	engine, q := newTestEngine(t, be, nil)
	ctx := context.Background()

	enqueue(t, q, "First", 1, 1)
	enqueue(t, q, "Second", 2, 1)
	enqueue(t, q, "Third", 3, 1)

	result := engine.Sync(ctx, TriggerManual)

	assert.Equal(t, 2, result.Synced)
	assert.Equal(t, 1, result.Errors)

	remaining := q.ReadAll(ctx)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Second", remaining[0].ProductName)

	// The failed record drains once the backend accepts it.
	be.insertErrs = map[string]error{}
	retry := engine.Sync(ctx, TriggerManual)
	assert.Equal(t, 1, retry.Synced)
	assert.Equal(t, 0, q.Len(ctx))
}

func TestSync_AtomicUnavailableFallsBackToReadModifyWrite(t *testing.T) {
	be := newMockSyncBackend()
	be.stock[7] = 20
	be.atomicErr = errors.New("atomic decrement disabled")
	engine, q := newTestEngine(t, be, nil)
	ctx := context.Background()

	enqueue(t, q, "Widget", 7, 2)

	result := engine.Sync(ctx, TriggerManual)

	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 0, result.Errors)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, []StockOutcome{StockFallback}, result.Outcomes)
	assert.Equal(t, 18, be.updates[7])
	assert.Equal(t, 0, q.Len(ctx))
}

func TestSync_DecrementFullyFailedStillCountsSynced(t *testing.T) {
	be := newMockSyncBackend()
	be.atomicErr = errors.New("atomic decrement disabled")
	be.stockErr = errors.New("read failed")
	engine, q := newTestEngine(t, be, nil)
	ctx := context.Background()

	enqueue(t, q, "Widget", 7, 2)

	result := engine.Sync(ctx, TriggerManual)

	// The sale row committed; the record must not stay queued.
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, []StockOutcome{StockSkipped}, result.Outcomes)
	assert.Equal(t, 0, q.Len(ctx))
}

func TestSync_StockWriteFailureSkips(t *testing.T) {
	be := newMockSyncBackend()
	be.stock[7] = 20
	be.atomicErr = errors.New("atomic decrement disabled")
	be.updateErr = errors.New("write failed")
	engine, q := newTestEngine(t, be, nil)
	ctx := context.Background()

	enqueue(t, q, "Widget", 7, 2)

	result := engine.Sync(ctx, TriggerManual)

	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, []StockOutcome{StockSkipped}, result.Outcomes)
}

func TestSync_RecordsRunHistory(t *testing.T) {
	be := newMockSyncBackend()
	be.stock[1] = 10
	be.insertErrs["Bad"] = errors.New("rejected")
	rec := &mockRecorder{}
	engine, q := newTestEngine(t, be, rec)
	ctx := context.Background()

	enqueue(t, q, "Good", 1, 1)
	enqueue(t, q, "Bad", 1, 1)

	engine.Sync(ctx, TriggerOnline)

	require.Len(t, rec.runs, 1)
	run := rec.runs[0]
	assert.Equal(t, TriggerOnline, run.Trigger)
	assert.Equal(t, 1, run.Synced)
	assert.Equal(t, 1, run.Errors)
	assert.False(t, run.StartedAt.IsZero())
}
