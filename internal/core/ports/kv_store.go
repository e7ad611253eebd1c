package ports

import "context"

// KeyValueStore is the device storage contract: string keys mapped to string
// blobs, with no ordering guarantees across keys.
type KeyValueStore interface {
	// Get returns found=false, err=nil when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
