package compress

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat("G  D  Em  C\nAll along the watchtower\n", 50))

	for _, algorithm := range []string{AlgorithmNone, AlgorithmGZip, AlgorithmBrotli, AlgorithmLZ4} {
		t.Run(algorithm, func(t *testing.T) {
			codec, err := ByAlgorithm(algorithm)
			assert.NoError(t, err)

			encoded, err := codec.Encode(payload)
			assert.NoError(t, err)

			decoded, err := codec.Decode(encoded)
			assert.NoError(t, err)
			assert.Equal(t, payload, decoded)
		})
	}
}

func TestCompressesRepetitiveText(t *testing.T) {
	payload := []byte(strings.Repeat("G  D  Em  C\n", 200))

	for _, algorithm := range []string{AlgorithmGZip, AlgorithmBrotli, AlgorithmLZ4} {
		t.Run(algorithm, func(t *testing.T) {
			codec, err := ByAlgorithm(algorithm)
			assert.NoError(t, err)

			encoded, err := codec.Encode(payload)
			assert.NoError(t, err)
			assert.Less(t, len(encoded), len(payload))
		})
	}
}

func TestNopPassesThrough(t *testing.T) {
	codec, err := ByAlgorithm(AlgorithmNone)
	assert.NoError(t, err)

	payload := []byte("verse 1")
	encoded, err := codec.Encode(payload)
	assert.NoError(t, err)
	assert.Equal(t, payload, encoded)
}

func TestGZipDecodeGarbage(t *testing.T) {
	codec := NewGZip()

	_, err := codec.Decode([]byte("not a gzip stream"))
	assert.Error(t, err)
}

func TestByAlgorithmUnknown(t *testing.T) {
	_, err := ByAlgorithm("zstd")
	assert.Error(t, err)
}
