// Package compress implements the two whole-frame-body compression
// algorithms the CQL native protocol registers by name in Startup's
// COMPRESSION option: lz4 and snappy. Compression applies to an entire
// frame body after it has been assembled, not to individual fields.
package compress

import (
	"fmt"

	"github.com/arloliu/cqlwire/errs"
)

// Compressor compresses a frame body before it is written to the wire.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a frame body read off the wire.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines compression and decompression for one algorithm.
type Codec interface {
	Compressor
	Decompressor
}

// Name identifies a registered compression algorithm by the string the
// CQL protocol negotiates it with in Startup's COMPRESSION option.
type Name string

const (
	LZ4    Name = "lz4"
	Snappy Name = "snappy"
)

// ByName returns the Codec registered under name.
func ByName(name Name) (Codec, error) {
	switch name {
	case LZ4:
		return NewLZ4Compressor(), nil
	case Snappy:
		return NewSnappyCompressor(), nil
	default:
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownCompression, name)
	}
}
