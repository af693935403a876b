package frame

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbrt/cqlnative/message"
	"github.com/mbrt/cqlnative/primitive"
)

func TestEncodeDecodeStartupFrame(t *testing.T) {
	f := NewFrame(primitive.ProtocolVersion2, 1, message.NewStartup())

	codec := NewCodec(nil)
	buf := &bytes.Buffer{}
	require.NoError(t, codec.EncodeFrame(f, buf))

	// version byte (0x02, request), flags (0x00), stream id (0x01), opcode (OP_STARTUP)
	wire := buf.Bytes()
	assert.Equal(t, byte(0x02), wire[0])
	assert.Equal(t, byte(0x00), wire[1])
	assert.Equal(t, byte(0x01), wire[2])
	assert.Equal(t, byte(primitive.OpCodeStartup), wire[3])

	decoded, err := codec.DecodeFrame(buf)
	require.NoError(t, err)
	assert.Equal(t, f.Header.Version, decoded.Header.Version)
	assert.Equal(t, f.Header.StreamId, decoded.Header.StreamId)
	assert.IsType(t, &message.Startup{}, decoded.Body.Message)
}

func TestDecodeFrameResponseDirectionBit(t *testing.T) {
	f := NewFrame(primitive.ProtocolVersion2, 5, &message.Ready{})

	codec := NewCodec(nil)
	buf := &bytes.Buffer{}
	require.NoError(t, codec.EncodeFrame(f, buf))

	assert.Equal(t, byte(0x82), buf.Bytes()[0])

	decoded, err := codec.DecodeFrame(buf)
	require.NoError(t, err)
	assert.True(t, decoded.Header.IsResponse)
	assert.Equal(t, int8(5), decoded.Header.StreamId)
}

func TestEncodeFrameRejectsCompressionWithoutCompressor(t *testing.T) {
	f := NewFrame(primitive.ProtocolVersion2, 1, &message.Query{Query: "SELECT 1", Options: &message.QueryOptions{}})
	f.Header.Flags = f.Header.Flags.Add(primitive.HeaderFlagCompressed)

	codec := NewCodec(nil)
	err := codec.EncodeFrame(f, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestIsCompressible(t *testing.T) {
	assert.False(t, IsCompressible(primitive.OpCodeStartup))
	assert.False(t, IsCompressible(primitive.OpCodeOptions))
	assert.False(t, IsCompressible(primitive.OpCodeReady))
	assert.True(t, IsCompressible(primitive.OpCodeQuery))
}
