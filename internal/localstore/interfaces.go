package localstore

import "context"

// Store is the device-local key-value string store the offline subsystem
// persists through. Values survive process restarts on the same device.
// Read-modify-write sequences are not protected against concurrent writers
// from other processes; a single active session per device is assumed.
type Store interface {
	// Get retrieves a value by key. Returns ErrKeyNotFound if absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// StoreError is a sentinel error type for store failures.
type StoreError string

func (e StoreError) Error() string { return string(e) }

const (
	// ErrKeyNotFound indicates the key is not present in the store.
	ErrKeyNotFound StoreError = "key not found"
)
