// Package kvstore holds the durable client-side state of the storefront: the
// cart, the last order and the install prompt flags. Backends live in the
// sub-packages and all implement interfaces.KVStore.
package kvstore

import "errors"

// Keys shared with the storefront pages
const (
	KeyCartItems    = "cartItems"
	KeyLastOrder    = "lastOrder"
	KeyPWAInstalled = "pwa-installed"
	KeyPWADismissed = "pwa-dismissed"
)

// ErrQuotaExceeded is returned when a write would grow the store past its quota
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// ErrClosed is returned by operations on a closed store
var ErrClosed = errors.New("store is closed")

// FitsQuota reports whether writing newSize bytes under key keeps the store
// within quota. used counts key and value bytes of every stored record; exists
// and oldSize describe the record being replaced. A quota of zero is unlimited.
func FitsQuota(quota, used int64, key string, exists bool, oldSize, newSize int) bool {
	if quota <= 0 {
		return true
	}
	next := used - int64(oldSize) + int64(newSize)
	if !exists {
		next += int64(len(key))
	}
	return next <= quota
}
