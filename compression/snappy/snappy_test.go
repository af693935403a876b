package snappy

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	original := []byte("SELECT * FROM system.local WHERE key = 'local'")

	var compressed bytes.Buffer
	c := BodyCompressor{}
	require.NoError(t, c.Compress(bytes.NewReader(original), &compressed))

	var decompressed bytes.Buffer
	require.NoError(t, c.Decompress(bytes.NewReader(compressed.Bytes()), &decompressed))

	assert.Equal(t, original, decompressed.Bytes())
}

func TestAlgorithmName(t *testing.T) {
	assert.Equal(t, "SNAPPY", BodyCompressor{}.Algorithm())
}
