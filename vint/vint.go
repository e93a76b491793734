// Package vint implements the CQL protocol's variable-length integer
// encoding, used only inside the Duration value type.
//
// This is NOT the LEB128 scheme used elsewhere in the Go ecosystem: the
// continuation marker lives in the leading bits of the first byte
// rather than the high bit of every byte. The first byte's leading
// run of 1-bits counts how many additional bytes follow; the remaining
// low bits of the first byte are the most significant bits of the
// magnitude. Signed values are zigzag-encoded around the unsigned
// form before being written.
package vint

import (
	"math/bits"

	"github.com/arloliu/cqlwire/errs"
)

// length returns the number of bytes needed to encode v unsigned.
func length(v uint64) int {
	// Mirrors the reference formula 9 - (leading_zeros(v)-1)/7, clamped to
	// a minimum of 1 byte.
	n := 9 - (bits.LeadingZeros64(v)-1)/7
	if n <= 0 {
		n = 1
	}

	return n
}

func firstByteMask(extraBytes int) byte {
	return 0xff >> uint(extraBytes)
}

func msb(extraBytes int) byte {
	return ^firstByteMask(extraBytes)
}

// EncodeUint64 appends the vint encoding of v to dst and returns the
// extended slice.
func EncodeUint64(dst []byte, v uint64) []byte {
	n := length(v)
	start := len(dst)
	dst = append(dst, make([]byte, n)...)

	rem := v
	for i := n - 1; i >= 0; i-- {
		dst[start+i] = byte(rem)
		rem >>= 8
	}
	dst[start] |= msb(n - 1)

	return dst
}

// EncodeInt64 zigzag-encodes v and appends its vint encoding to dst.
func EncodeInt64(dst []byte, v int64) []byte {
	return EncodeUint64(dst, zigzagEncode64(v))
}

// EncodeInt32 zigzag-encodes v and appends its vint encoding to dst.
func EncodeInt32(dst []byte, v int32) []byte {
	return EncodeUint64(dst, uint64(zigzagEncode32(v)))
}

// DecodeUint64 reads a vint from the front of src, returning the value
// and the number of bytes consumed.
func DecodeUint64(src []byte) (uint64, int, error) {
	if len(src) == 0 {
		return 0, 0, errs.ErrShortBuffer
	}

	first := src[0]
	if int8(first) >= 0 {
		return uint64(first), 1, nil
	}

	extra := bits.LeadingZeros8(^first)
	total := extra + 1
	if len(src) < total {
		return 0, 0, errs.ErrInvalidVInt
	}

	v := uint64(first & firstByteMask(extra))
	for i := 1; i <= extra; i++ {
		v = (v << 8) | uint64(src[i])
	}

	return v, total, nil
}

// DecodeInt64 reads a vint from the front of src and zigzag-decodes it.
func DecodeInt64(src []byte) (int64, int, error) {
	v, n, err := DecodeUint64(src)
	if err != nil {
		return 0, 0, err
	}

	return zigzagDecode64(v), n, nil
}

// DecodeInt32 reads a vint from the front of src and zigzag-decodes it
// as a 32-bit signed value.
func DecodeInt32(src []byte) (int32, int, error) {
	v, n, err := DecodeUint64(src)
	if err != nil {
		return 0, 0, err
	}

	return zigzagDecode32(uint32(v)), n, nil
}

func zigzagEncode32(n int32) uint32 {
	return uint32((n << 1) ^ (n >> 31))
}

func zigzagDecode32(n uint32) int32 {
	return int32(n>>1) ^ -int32(n&1)
}

func zigzagEncode64(n int64) uint64 {
	return uint64((n << 1) ^ (n >> 63))
}

func zigzagDecode64(n uint64) int64 {
	return int64(n>>1) ^ -int64(n&1)
}
