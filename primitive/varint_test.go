package primitive

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeVarintRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 127, 128, -128, -129, 1000000, -1000000} {
		original := big.NewInt(n)
		encoded := EncodeVarint(original)
		decoded := DecodeVarint(encoded)
		assert.Equal(t, 0, original.Cmp(decoded), "value %d round-tripped as %v", n, decoded)
	}
}

func TestEncodeVarintZero(t *testing.T) {
	assert.Equal(t, []byte{0x00}, EncodeVarint(big.NewInt(0)))
}

func TestDecodeVarintEmptyIsNil(t *testing.T) {
	assert.Nil(t, DecodeVarint(nil))
}
