package offline

import (
	"context"
	"fmt"
	"log"

	"stockflow-pos-api/internal/localstore"
	"stockflow-pos-api/internal/model"
)

// SnapshotKey is the device-store key holding the product snapshot.
const SnapshotKey = "offline_products"

// ProductCache holds the last-known product list. It is overwritten wholesale
// on every successful live fetch and read only when the live fetch fails;
// there is no field-level merging.
type ProductCache struct {
	store localstore.Store
}

// NewProductCache creates a snapshot cache over the given device store.
func NewProductCache(store localstore.Store) *ProductCache {
	return &ProductCache{store: store}
}

// Save unconditionally replaces the snapshot with the given product list.
func (c *ProductCache) Save(ctx context.Context, products []model.Product) error {
	encoded, err := Encode(products)
	if err != nil {
		return fmt.Errorf("failed to encode product snapshot: %w", err)
	}
	if err := c.store.Set(ctx, SnapshotKey, encoded); err != nil {
		return fmt.Errorf("failed to persist product snapshot: %w", err)
	}
	return nil
}

// Load returns the last saved snapshot, or an empty slice if none exists or
// the stored value cannot be decoded.
func (c *ProductCache) Load(ctx context.Context) []model.Product {
	raw, err := c.store.Get(ctx, SnapshotKey)
	if err != nil {
		if err != localstore.ErrKeyNotFound {
			log.Printf("[ProductCache] Failed to read snapshot: %v", err)
		}
		return []model.Product{}
	}

	var products []model.Product
	if err := Decode(raw, &products); err != nil {
		log.Printf("[ProductCache] Corrupt snapshot payload, treating as empty: %v", err)
		return []model.Product{}
	}
	return products
}
