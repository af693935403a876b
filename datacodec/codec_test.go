package datacodec

import (
	"math/big"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbrt/cqlnative/datatype"
	"github.com/mbrt/cqlnative/primitive"
)

const v2 = primitive.ProtocolVersion2

func TestIntRoundTrip(t *testing.T) {
	encoded, err := Int.Encode(int32(42), v2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x2a}, encoded)

	var decoded int32
	wasNull, err := Int.Decode(encoded, &decoded, v2)
	require.NoError(t, err)
	assert.False(t, wasNull)
	assert.Equal(t, int32(42), decoded)
}

func TestIntDecodeNull(t *testing.T) {
	var decoded int32 = 7
	wasNull, err := Int.Decode(nil, &decoded, v2)
	require.NoError(t, err)
	assert.True(t, wasNull)
	assert.Zero(t, decoded)
}

func TestBooleanRoundTrip(t *testing.T) {
	encoded, err := Boolean.Encode(true, v2)
	require.NoError(t, err)

	var decoded bool
	_, err = Boolean.Decode(encoded, &decoded, v2)
	require.NoError(t, err)
	assert.True(t, decoded)
}

func TestVarcharRoundTrip(t *testing.T) {
	encoded, err := Varchar.Encode("hello", v2)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), encoded)

	var decoded string
	_, err = Varchar.Decode(encoded, &decoded, v2)
	require.NoError(t, err)
	assert.Equal(t, "hello", decoded)
}

func TestVarintRoundTrip(t *testing.T) {
	original := big.NewInt(-12345)
	encoded, err := Varint.Encode(original, v2)
	require.NoError(t, err)

	var decoded *big.Int
	_, err = Varint.Decode(encoded, &decoded, v2)
	require.NoError(t, err)
	assert.Equal(t, 0, original.Cmp(decoded))
}

func TestDecimalRoundTrip(t *testing.T) {
	original := Decimal{Unscaled: big.NewInt(12345), Scale: 2}
	encoded, err := DecimalCodec.Encode(original, v2)
	require.NoError(t, err)

	var decoded Decimal
	_, err = DecimalCodec.Decode(encoded, &decoded, v2)
	require.NoError(t, err)
	assert.Equal(t, original.Scale, decoded.Scale)
	assert.Equal(t, 0, original.Unscaled.Cmp(decoded.Unscaled))
}

func TestTimestampRoundTrip(t *testing.T) {
	original := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	encoded, err := Timestamp.Encode(original, v2)
	require.NoError(t, err)

	var decoded time.Time
	_, err = Timestamp.Decode(encoded, &decoded, v2)
	require.NoError(t, err)
	assert.True(t, original.Equal(decoded))
}

func TestUuidRoundTrip(t *testing.T) {
	original := uuid.New()
	encoded, err := Uuid.Encode(original, v2)
	require.NoError(t, err)

	var decoded uuid.UUID
	_, err = Uuid.Decode(encoded, &decoded, v2)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestInetRoundTripV4(t *testing.T) {
	original := net.ParseIP("10.0.0.5").To4()
	encoded, err := Inet.Encode(original, v2)
	require.NoError(t, err)
	assert.Len(t, encoded, 4)

	var decoded net.IP
	_, err = Inet.Decode(encoded, &decoded, v2)
	require.NoError(t, err)
	assert.True(t, original.Equal(decoded))
}

func TestNewCodecForPrimitiveTypes(t *testing.T) {
	codec, err := NewCodec(datatype.Int)
	require.NoError(t, err)
	assert.Same(t, Int, codec)
}

func TestListRoundTrip(t *testing.T) {
	listType := datatype.ListType{ElementType: datatype.Int}
	codec, err := NewCodec(listType)
	require.NoError(t, err)

	original := []interface{}{int32(1), int32(2), int32(3)}
	encoded, err := codec.Encode(original, v2)
	require.NoError(t, err)

	var decoded []interface{}
	_, err = codec.Decode(encoded, &decoded, v2)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestMapRoundTrip(t *testing.T) {
	mapType := datatype.MapType{KeyType: datatype.Varchar, ValueType: datatype.Int}
	codec, err := NewCodec(mapType)
	require.NoError(t, err)

	original := map[interface{}]interface{}{"a": int32(1), "b": int32(2)}
	encoded, err := codec.Encode(original, v2)
	require.NoError(t, err)

	var decoded map[interface{}]interface{}
	_, err = codec.Decode(encoded, &decoded, v2)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}
