package store

import (
	"context"
	"errors"
	"strings"
)

var ErrEmptyKey = errors.New("storage key is required")

// Storage is an opaque key-value store holding one serialized cart per key.
type Storage interface {
	// Get reports false when the key has never been written.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

const keySeparator = ":"

// Key scopes a base storage key to one session: "<base>:<sessionID>".
func Key(base, sessionID string) string {
	return base + keySeparator + sessionID
}

// SplitKey is the inverse of Key.
func SplitKey(key string) (base, sessionID string, ok bool) {
	i := strings.LastIndex(key, keySeparator)
	if i <= 0 || i == len(key)-1 {
		return "", "", false
	}
	return key[:i], key[i+1:], true
}
