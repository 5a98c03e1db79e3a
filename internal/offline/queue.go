package offline

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"stockflow-pos-api/internal/localstore"
	"stockflow-pos-api/internal/model"
	"stockflow-pos-api/pkg/uid"
)

// QueueKey is the device-store key holding the pending sale queue.
const QueueKey = "offline_sales_queue"

// Queue is the durable local queue of sales captured while offline. Records
// are only ever appended or removed whole; the sync engine is the sole
// component that moves a record from queued to backend-confirmed.
type Queue struct {
	store localstore.Store
	mu    sync.Mutex
	// lastID guards monotonicity of temporary IDs across rapid appends
	// within one process; the wall clock alone can collide.
	lastID int64
}

// NewQueue creates a sale queue over the given device store.
func NewQueue(store localstore.Store) *Queue {
	return &Queue{store: store}
}

// Append adds a record to the queue. The record receives a fresh temporary
// offline ID and, if it does not already carry one, an idempotency key
// (client ref) that survives restarts and travels to the backend.
func (q *Queue) Append(ctx context.Context, sale model.QueuedSale) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	records := q.readAll(ctx)

	sale.OfflineID = q.nextOfflineID()
	if sale.ClientRef == "" {
		sale.ClientRef = uid.New()
	}
	records = append(records, sale)

	return q.write(ctx, records)
}

// ReadAll returns the queued records in stored order (oldest first).
// A missing or corrupt store value yields an empty slice, never an error.
func (q *Queue) ReadAll(ctx context.Context) []model.QueuedSale {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.readAll(ctx)
}

// Replace persists exactly the given subset, or removes the store key when
// the subset is empty. Used by the sync engine to keep failed records queued.
func (q *Queue) Replace(ctx context.Context, records []model.QueuedSale) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(records) == 0 {
		return q.store.Delete(ctx, QueueKey)
	}
	return q.write(ctx, records)
}

// Clear removes the queue from the store entirely.
func (q *Queue) Clear(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.store.Delete(ctx, QueueKey)
}

// Len returns the number of pending records.
func (q *Queue) Len(ctx context.Context) int {
	return len(q.ReadAll(ctx))
}

func (q *Queue) readAll(ctx context.Context) []model.QueuedSale {
	raw, err := q.store.Get(ctx, QueueKey)
	if err != nil {
		if err != localstore.ErrKeyNotFound {
			log.Printf("[Queue] Failed to read queue: %v", err)
		}
		return []model.QueuedSale{}
	}

	var records []model.QueuedSale
	if err := Decode(raw, &records); err != nil {
		log.Printf("[Queue] Corrupt queue payload, treating as empty: %v", err)
		return []model.QueuedSale{}
	}
	return records
}

func (q *Queue) write(ctx context.Context, records []model.QueuedSale) error {
	encoded, err := Encode(records)
	if err != nil {
		return fmt.Errorf("failed to encode queue: %w", err)
	}
	if err := q.store.Set(ctx, QueueKey, encoded); err != nil {
		return fmt.Errorf("failed to persist queue: %w", err)
	}
	return nil
}

func (q *Queue) nextOfflineID() int64 {
	id := time.Now().UnixNano()
	if id <= q.lastID {
		id = q.lastID + 1
	}
	q.lastID = id
	return id
}
