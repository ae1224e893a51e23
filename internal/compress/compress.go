package compress

import "fmt"

// Algorithm identifiers stored alongside every payload. The tag on the row
// is authoritative; the algorithm is never inferred from the bytes.
const (
	AlgorithmNone   = "none"
	AlgorithmGZip   = "gzip"
	AlgorithmBrotli = "brotli"
	AlgorithmLZ4    = "lz4"
)

// Compress encodes and decodes payload bytes.
type Compress interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// ByAlgorithm returns the codec for a stored algorithm tag.
func ByAlgorithm(id string) (Compress, error) {
	switch id {
	case AlgorithmNone:
		return NewNop(), nil
	case AlgorithmGZip:
		return NewGZip(), nil
	case AlgorithmBrotli:
		return NewBrotli(), nil
	case AlgorithmLZ4:
		return NewLZ4(), nil
	default:
		return nil, fmt.Errorf("unknown compression algorithm %q", id)
	}
}
