package column

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbrt/cqlnative/datatype"
	"github.com/mbrt/cqlnative/primitive"
)

func TestMetadataWriteToFromFrameRoundTrip(t *testing.T) {
	original := &Metadata{
		Columns: []Spec{
			{Keyspace: "ks", Table: "tbl", Name: "id", Type: datatype.Int},
			{Keyspace: "ks", Table: "tbl", Name: "name", Type: datatype.Varchar},
		},
	}

	buf := &bytes.Buffer{}
	require.NoError(t, original.WriteTo(buf, primitive.ProtocolVersion2))

	decoded, err := FromFrame(buf, primitive.ProtocolVersion2)
	require.NoError(t, err)
	require.Len(t, decoded.Columns, 2)
	assert.Equal(t, original.Columns[0].Name, decoded.Columns[0].Name)
	assert.Equal(t, original.Columns[1].Name, decoded.Columns[1].Name)
	assert.Equal(t, "ks", decoded.Columns[0].Keyspace)
	assert.Equal(t, "tbl", decoded.Columns[0].Table)
}

func TestMetadataWriteToNoColumnsSetsNoMetadataFlag(t *testing.T) {
	original := &Metadata{}

	buf := &bytes.Buffer{}
	require.NoError(t, original.WriteTo(buf, primitive.ProtocolVersion2))
	assert.Equal(t, []byte{0, 0, 0, 4}, buf.Bytes()[:4])

	decoded, err := FromFrame(buf, primitive.ProtocolVersion2)
	require.NoError(t, err)
	assert.Empty(t, decoded.Columns)
}

func TestFindColumn(t *testing.T) {
	m := &Metadata{Columns: []Spec{
		{Keyspace: "ks", Table: "tbl", Name: "id", Type: datatype.Int},
	}}

	assert.Equal(t, 0, m.FindColumn("id"))
	assert.Equal(t, 0, m.FindColumn("tbl.id"))
	assert.Equal(t, 0, m.FindColumn("ks.tbl.id"))
	assert.Equal(t, -1, m.FindColumn("missing"))
}

func TestMetadataString(t *testing.T) {
	m := &Metadata{Columns: []Spec{
		{Keyspace: "ks", Table: "tbl", Name: "id", Type: datatype.Int},
	}}
	assert.Contains(t, m.String(), "ks.tbl.id")
}
