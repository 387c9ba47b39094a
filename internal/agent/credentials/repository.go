package credentials

import "context"

// Repository is a raw key/value view of the credentials table. Values are
// stored as opaque blobs; sealing is the Store's concern.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
