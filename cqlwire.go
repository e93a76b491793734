// Package cqlwire implements the client side of the Cassandra CQL
// native protocol: a symmetric frame codec (package frame) over a
// closed catalogue of request/response messages (package message),
// plus a CQL value marshaller (package datatype) and the primitive
// wire codec both are built on (package primitive).
//
// This root package collects the small amount of convenience surface
// that sits above those packages: a query-text-keyed cache for
// prepared statement ids.
//
// # Basic usage
//
//	codec, err := frame.NewCodec(protocol.VersionV4)
//	startup := message.NewStartup()
//	err = codec.EncodeRequest(conn, 0, startup, message.RequestFlags{})
//	streamID, resp, err := codec.DecodeResponse(conn)
package cqlwire

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/arloliu/cqlwire/errs"
)

// PreparedKey computes the xxHash64 of a query string scoped by
// keyspace, so the same query text prepared against two different
// keyspaces does not collide in a PreparedCache.
func PreparedKey(keyspace, query string) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(keyspace)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(query)

	return h.Sum64()
}

// PreparedCache maps query text, scoped by keyspace, to the prepared
// statement id a server returned for it, so a client can skip
// re-preparing a statement it has already seen. It holds no
// connection state of its own; callers populate it from a Prepared
// result and evict from it on an Unprepared error response.
//
// PreparedCache is safe for concurrent use.
type PreparedCache struct {
	mu      sync.RWMutex
	entries map[uint64][]byte
}

// NewPreparedCache creates an empty PreparedCache.
func NewPreparedCache() *PreparedCache {
	return &PreparedCache{entries: make(map[uint64][]byte)}
}

// Put records the prepared statement id the server assigned to query
// within keyspace.
func (c *PreparedCache) Put(keyspace, query string, id []byte) {
	key := PreparedKey(keyspace, query)

	stored := make([]byte, len(id))
	copy(stored, id)

	c.mu.Lock()
	c.entries[key] = stored
	c.mu.Unlock()
}

// Get returns the cached prepared statement id for query within
// keyspace, or errs.ErrPreparedIDNotFound if it has not been prepared
// yet (or was evicted by Forget).
func (c *PreparedCache) Get(keyspace, query string) ([]byte, error) {
	key := PreparedKey(keyspace, query)

	c.mu.RLock()
	id, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, errs.ErrPreparedIDNotFound
	}

	return id, nil
}

// Forget evicts a cached entry, for use when the server reports the
// statement id is no longer known (an Unprepared error response).
func (c *PreparedCache) Forget(keyspace, query string) {
	key := PreparedKey(keyspace, query)

	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len reports the number of cached entries.
func (c *PreparedCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
