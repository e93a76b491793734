package compress

import "github.com/golang/snappy"

// SnappyCompressor implements Codec using Google's Snappy algorithm,
// the second compression scheme the CQL protocol registers by name.
type SnappyCompressor struct{}

var _ Codec = (*SnappyCompressor)(nil)

// NewSnappyCompressor creates a new Snappy compressor.
func NewSnappyCompressor() SnappyCompressor { return SnappyCompressor{} }

// Compress compresses data using Snappy block compression.
func (c SnappyCompressor) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

// Decompress decompresses Snappy block-compressed data. Snappy's block
// format stores the decompressed length up front, so no adaptive
// buffer growth is needed the way LZ4's does.
func (c SnappyCompressor) Decompress(data []byte) ([]byte, error) {
	return snappy.Decode(nil, data)
}
