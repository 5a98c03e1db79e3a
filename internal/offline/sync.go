package offline

import (
	"context"
	"log"
	"time"

	"stockflow-pos-api/internal/model"
)

// Sync triggers.
const (
	TriggerOnline = "online-transition"
	TriggerManual = "manual"
)

// StockOutcome identifies which decrement branch ran for a synced sale.
type StockOutcome string

const (
	// StockAtomic means the server-side atomic decrement succeeded.
	StockAtomic StockOutcome = "atomic"
	// StockFallback means the read-modify-write fallback was applied.
	StockFallback StockOutcome = "fallback"
	// StockSkipped means the sale committed but no decrement was applied.
	// Stock may drift; the sale is still counted as synced.
	StockSkipped StockOutcome = "skipped"
)

// Result summarizes one sync pass.
type Result struct {
	Synced  int `json:"synced"`
	Errors  int `json:"errors"`
	Skipped int `json:"skipped_decrements"`

	// Outcomes holds the decrement branch taken for each successfully
	// inserted sale, in queue order.
	Outcomes []StockOutcome `json:"-"`
}

// SyncBackend is the slice of the backend the sync engine needs.
type SyncBackend interface {
	InsertSale(ctx context.Context, sale model.Sale) error
	DecrementStockAtomic(ctx context.Context, productID int64, quantity int) error
	GetProductStock(ctx context.Context, productID int64) (int, error)
	UpdateProductStock(ctx context.Context, productID int64, newStock int) error
}

// SyncRecorder persists sync-run history. Optional.
type SyncRecorder interface {
	InsertSyncRun(ctx context.Context, run *model.SyncRun) error
}

// Engine drains the durable local queue against the backend.
type Engine struct {
	queue    *Queue
	backend  SyncBackend
	recorder SyncRecorder

	// runGuard serializes sync passes so rapid connectivity flaps cannot
	// overlap two drains of the same queue.
	runGuard chan struct{}
}

// NewEngine creates a sync engine. recorder may be nil.
func NewEngine(queue *Queue, backend SyncBackend, recorder SyncRecorder) *Engine {
	e := &Engine{
		queue:    queue,
		backend:  backend,
		recorder: recorder,
		runGuard: make(chan struct{}, 1),
	}
	e.runGuard <- struct{}{}
	return e
}

// Sync processes every queued record in stored order: insert the canonical
// sale row (temporary ID stripped, idempotency key attached), then decrement
// stock. Records whose insert fails stay queued for the next pass; records
// whose insert succeeded are never retried, even if the decrement was
// skipped. An empty queue returns immediately with no backend calls.
func (e *Engine) Sync(ctx context.Context, trigger string) Result {
	<-e.runGuard
	defer func() { e.runGuard <- struct{}{} }()

	start := time.Now()

	records := e.queue.ReadAll(ctx)
	if len(records) == 0 {
		return Result{}
	}

	log.Printf("[Sync] Draining %d queued sale(s), trigger=%s", len(records), trigger)

	var result Result
	var remaining []model.QueuedSale

	for _, record := range records {
		if err := e.backend.InsertSale(ctx, record.Sale()); err != nil {
			log.Printf("[Sync] Insert failed for offline_id=%d ref=%s: %v", record.OfflineID, record.ClientRef, err)
			result.Errors++
			remaining = append(remaining, record)
			continue
		}

		// The sale row is committed. Whatever happens to the decrement
		// below, this record must not be retried.
		outcome := e.applyDecrement(ctx, record)
		if outcome == StockSkipped {
			result.Skipped++
		}
		result.Outcomes = append(result.Outcomes, outcome)
		result.Synced++
	}

	if err := e.queue.Replace(ctx, remaining); err != nil {
		log.Printf("[Sync] Failed to rewrite queue: %v", err)
	}

	e.record(ctx, trigger, result, start)

	log.Printf("[Sync] Done: synced=%d errors=%d skipped_decrements=%d", result.Synced, result.Errors, result.Skipped)
	return result
}

// applyDecrement runs the decrement fallback chain: atomic server-side
// decrement, then manual read-modify-write, then skip.
func (e *Engine) applyDecrement(ctx context.Context, record model.QueuedSale) StockOutcome {
	if err := e.backend.DecrementStockAtomic(ctx, record.ProductID, record.Quantity); err == nil {
		return StockAtomic
	}

	stock, err := e.backend.GetProductStock(ctx, record.ProductID)
	if err != nil {
		log.Printf("[Sync] Stock read failed for product=%d, decrement skipped: %v", record.ProductID, err)
		return StockSkipped
	}

	if err := e.backend.UpdateProductStock(ctx, record.ProductID, stock-record.Quantity); err != nil {
		log.Printf("[Sync] Stock write failed for product=%d, decrement skipped: %v", record.ProductID, err)
		return StockSkipped
	}
	return StockFallback
}

func (e *Engine) record(ctx context.Context, trigger string, result Result, start time.Time) {
	if e.recorder == nil {
		return
	}

	run := &model.SyncRun{
		Trigger:           trigger,
		Synced:            result.Synced,
		Errors:            result.Errors,
		SkippedDecrements: result.Skipped,
		DurationMs:        time.Since(start).Milliseconds(),
		StartedAt:         start,
	}
	if err := e.recorder.InsertSyncRun(ctx, run); err != nil {
		log.Printf("[Sync] Failed to record sync run: %v", err)
	}
}
