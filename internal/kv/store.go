package kv

import "context"

// Store is the device-local string store the local persistence mode sits
// on. Get reports ok=false for a missing key; only real storage failures
// come back as errors.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
