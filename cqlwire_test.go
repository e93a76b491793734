package cqlwire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/cqlwire/errs"
)

func TestPreparedCachePutGet(t *testing.T) {
	c := NewPreparedCache()

	_, err := c.Get("ks", "SELECT * FROM t")
	require.ErrorIs(t, err, errs.ErrPreparedIDNotFound)

	c.Put("ks", "SELECT * FROM t", []byte{0x01, 0x02})
	id, err := c.Get("ks", "SELECT * FROM t")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, id)
	assert.Equal(t, 1, c.Len())
}

func TestPreparedCacheScopedByKeyspace(t *testing.T) {
	c := NewPreparedCache()
	c.Put("ks1", "SELECT 1", []byte{0x01})
	c.Put("ks2", "SELECT 1", []byte{0x02})

	id1, err := c.Get("ks1", "SELECT 1")
	require.NoError(t, err)
	id2, err := c.Get("ks2", "SELECT 1")
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, c.Len())
}

func TestPreparedCacheForget(t *testing.T) {
	c := NewPreparedCache()
	c.Put("ks", "SELECT 1", []byte{0x01})
	c.Forget("ks", "SELECT 1")

	_, err := c.Get("ks", "SELECT 1")
	assert.True(t, errors.Is(err, errs.ErrPreparedIDNotFound))
	assert.Equal(t, 0, c.Len())
}

func TestPreparedKeyDeterministic(t *testing.T) {
	a := PreparedKey("ks", "SELECT 1")
	b := PreparedKey("ks", "SELECT 1")
	assert.Equal(t, a, b)
}
