// Package storage implements the capacity-bounded key/string slots the
// state store persists into.
package storage

import (
	"context"
	"errors"
)

// ErrCapacityExceeded is returned by Set when the write would exceed the
// backend quota. Callers are expected to evict and retry.
var ErrCapacityExceeded = errors.New("storage capacity exceeded")

// Backend is a key/string store with independent slots.
type Backend interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// slotSize is what a slot costs against the quota.
func slotSize(key, value string) int64 {
	return int64(len(key) + len(value))
}

// fits reports whether adding a slot of size n to used bytes stays within
// quota. A non-positive quota means unlimited.
func fits(quota, used, n int64) bool {
	return quota <= 0 || used+n <= quota
}
