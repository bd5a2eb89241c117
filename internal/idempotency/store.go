// Package idempotency makes retried expense submissions safe.
//
// A client sends a fresh opaque key per logical submission in the
// Idempotency-Key header. The first response produced for a key is cached,
// and every later request bearing the same key gets that response replayed
// verbatim instead of re-executing the write.
package idempotency

import (
	"context"
	"time"
)

// HeaderKey is the request header carrying the client-generated key.
const HeaderKey = "Idempotency-Key"

// DefaultTTL is the retention window for cached responses. A replay older
// than the window is no longer guaranteed; a key reused after expiry is
// treated as brand-new.
const DefaultTTL = 24 * time.Hour

// Record is the cached first response for a key. CreatedAt is assigned by
// the store on insertion.
type Record struct {
	Key         string
	Status      int
	ContentType string
	Body        []byte
	CreatedAt   time.Time
}

// Store holds at most one Record per key.
//
// InsertIfAbsent must be atomic create-if-absent: under concurrent retries
// exactly one writer wins and the rest get ok=false. Callers treat a lost
// race as benign, never as an error. Lookup must not return expired records;
// an expired key becomes available to a new logical operation, and an
// expired record must not block that operation's response from being cached.
type Store interface {
	Lookup(ctx context.Context, key string) (Record, bool, error)
	InsertIfAbsent(ctx context.Context, rec Record) (bool, error)
}
