package compression

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/pierrec/lz4"
)

// ErrCorrupt is returned when compressed input cannot be decoded.
var ErrCorrupt = errors.New("corrupt compressed data")

// NoCompressor implements a pass-through compressor that doesn't compress data.
type NoCompressor struct{}

// Name returns the name of the compressor.
func (c *NoCompressor) Name() string {
	return "none"
}

// Compress returns a copy of data.
func (c *NoCompressor) Compress(data []byte) ([]byte, error) {
	return bytes.Clone(data), nil
}

// Decompress returns a copy of data.
func (c *NoCompressor) Decompress(data []byte) ([]byte, error) {
	return bytes.Clone(data), nil
}

const (
	frameRaw   byte = 0
	frameBlock byte = 1
)

// LZ4Compressor implements LZ4 block compression.
//
// Output is a one byte frame type, the uncompressed length as a uvarint, and
// the payload. Input LZ4 cannot shrink is stored raw.
type LZ4Compressor struct{}

// Name returns the name of the compressor.
func (c *LZ4Compressor) Name() string {
	return "lz4"
}

// Compress compresses data using LZ4.
func (c *LZ4Compressor) Compress(data []byte) ([]byte, error) {
	header := make([]byte, 1, 1+binary.MaxVarintLen64)
	header = binary.AppendUvarint(header, uint64(len(data)))

	compressed := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}

	// CompressBlock reports 0 for incompressible input.
	if n == 0 || n >= len(data) {
		header[0] = frameRaw
		return append(header, data...), nil
	}
	header[0] = frameBlock
	return append(header, compressed[:n]...), nil
}

// Decompress decompresses LZ4 data.
func (c *LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: %d bytes", ErrCorrupt, len(data))
	}
	size, n := binary.Uvarint(data[1:])
	if n <= 0 {
		return nil, fmt.Errorf("%w: bad length prefix", ErrCorrupt)
	}
	payload := data[1+n:]

	switch data[0] {
	case frameRaw:
		if uint64(len(payload)) != size {
			return nil, fmt.Errorf("%w: raw frame is %d bytes, want %d", ErrCorrupt, len(payload), size)
		}
		return bytes.Clone(payload), nil
	case frameBlock:
		out := make([]byte, size)
		m, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if uint64(m) != size {
			return nil, fmt.Errorf("%w: decoded %d bytes, want %d", ErrCorrupt, m, size)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: frame type %d", ErrCorrupt, data[0])
	}
}
