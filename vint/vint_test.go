package vint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeUint64RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		v    uint64
	}{
		{"zero", 0},
		{"single byte max", 0x7f},
		{"two byte boundary", 0x80},
		{"medium", 1<<20 + 7},
		{"large", 1<<40 + 12345},
		{"max uint64", ^uint64(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := EncodeUint64(nil, tt.v)
			got, n, err := DecodeUint64(buf)
			require.NoError(t, err)
			assert.Equal(t, len(buf), n)
			assert.Equal(t, tt.v, got)
		})
	}
}

func TestEncodeDecodeInt64RoundTrip(t *testing.T) {
	tests := []int64{0, -1, 1, -128, 128, 1 << 33, -(1 << 33)}
	for _, v := range tests {
		buf := EncodeInt64(nil, v)
		got, n, err := DecodeInt64(buf)
		require.NoError(t, err)
		assert.Equal(t, len(buf), n)
		assert.Equal(t, v, got)
	}
}

func TestDecodeUint64ShortBuffer(t *testing.T) {
	_, _, err := DecodeUint64(nil)
	require.Error(t, err)

	// First byte promises two extra bytes, only one provided.
	_, _, err = DecodeUint64([]byte{0xC0, 0x01})
	require.Error(t, err)
}

func TestSingleByteValuesStayOneByte(t *testing.T) {
	for v := uint64(0); v <= 0x7f; v++ {
		buf := EncodeUint64(nil, v)
		require.Len(t, buf, 1)
	}
}

func TestZigzagEncode32NegativeOne(t *testing.T) {
	assert.Equal(t, uint32(1), zigzagEncode32(-1))
}

func TestEncodeUint64KnownThreeByteForm(t *testing.T) {
	buf := EncodeUint64(nil, 256000)
	assert.Equal(t, []byte{0xC3, 0xE8, 0x00}, buf)
}

func TestEncodeInt64KnownForm(t *testing.T) {
	buf := EncodeInt64(nil, 3_600_000_000_000)
	assert.Equal(t, []byte{0xFC, 0x06, 0x8C, 0x61, 0x71, 0x40, 0x00}, buf)

	got, n, err := DecodeInt64(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, int64(3_600_000_000_000), got)
}
