package message

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbrt/cqlnative/primitive"
)

func TestQueryEncodeDecodeRoundTrip(t *testing.T) {
	original := &Query{
		Query: "SELECT * FROM system.local",
		Options: &QueryOptions{
			Consistency:      primitive.ConsistencyLevelOne,
			PositionalValues: [][]byte{{0x01, 0x02}},
			PageSize:         100,
		},
	}

	buf := &bytes.Buffer{}
	require.NoError(t, EncodeMessage(original, buf, primitive.ProtocolVersion2))

	decoded, err := DecodeMessage(primitive.OpCodeQuery, buf, primitive.ProtocolVersion2)
	require.NoError(t, err)

	query, ok := decoded.(*Query)
	require.True(t, ok)
	assert.Equal(t, original.Query, query.Query)
	assert.Equal(t, original.Options.Consistency, query.Options.Consistency)
	assert.Equal(t, original.Options.PositionalValues, query.Options.PositionalValues)
	assert.Equal(t, original.Options.PageSize, query.Options.PageSize)
}

func TestQueryOptionsNamedValuesRejectedOnV1(t *testing.T) {
	options := &QueryOptions{
		Consistency: primitive.ConsistencyLevelOne,
		NamedValues: map[string][]byte{"id": {0x01}},
	}
	err := EncodeQueryOptions(options, &bytes.Buffer{}, primitive.ProtocolVersion1)
	assert.Error(t, err)
}

func TestQueryOptionsPagingStateRejectedOnV1(t *testing.T) {
	options := &QueryOptions{
		Consistency: primitive.ConsistencyLevelOne,
		PagingState: []byte{0x01},
	}
	err := EncodeQueryOptions(options, &bytes.Buffer{}, primitive.ProtocolVersion1)
	assert.Error(t, err)
}
