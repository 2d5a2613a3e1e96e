package store

import "github.com/pkg/errors"

// ErrInvalidItemCount signals a non-positive item count at construction.
// New panics with this rather than returning it, since there is no
// sensible zero-value Store to hand back.
var ErrInvalidItemCount = errors.New("store: item count must be positive")

// ErrInvalidKey signals a read or write against a key outside the
// store's keyspace. A correct caller never triggers this; it panics
// rather than returning an error so a recovering caller can still catch
// the typed value if it wants to.
var ErrInvalidKey = errors.New("store: key out of range")
