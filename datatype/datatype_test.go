package datatype

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadPrimitiveType(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteDataType(Varchar, buf))

	decoded, err := ReadDataType(buf)
	require.NoError(t, err)
	assert.Equal(t, Varchar, decoded)
}

func TestWriteReadListType(t *testing.T) {
	original := ListType{ElementType: Int}

	buf := &bytes.Buffer{}
	require.NoError(t, WriteDataType(original, buf))

	decoded, err := ReadDataType(buf)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestWriteReadSetType(t *testing.T) {
	original := SetType{ElementType: Uuid}

	buf := &bytes.Buffer{}
	require.NoError(t, WriteDataType(original, buf))

	decoded, err := ReadDataType(buf)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestWriteReadMapType(t *testing.T) {
	original := MapType{KeyType: Varchar, ValueType: Bigint}

	buf := &bytes.Buffer{}
	require.NoError(t, WriteDataType(original, buf))

	decoded, err := ReadDataType(buf)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestWriteReadCustomType(t *testing.T) {
	original := CustomType{ClassName: "org.apache.cassandra.db.marshal.UTF8Type"}

	buf := &bytes.Buffer{}
	require.NoError(t, WriteDataType(original, buf))

	decoded, err := ReadDataType(buf)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestWriteReadNestedListOfMap(t *testing.T) {
	original := ListType{ElementType: MapType{KeyType: Varchar, ValueType: Int}}

	buf := &bytes.Buffer{}
	require.NoError(t, WriteDataType(original, buf))

	decoded, err := ReadDataType(buf)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestReadDataTypeUnknownCode(t *testing.T) {
	buf := &bytes.Buffer{}
	buf.Write([]byte{0xff, 0xff})

	_, err := ReadDataType(buf)
	assert.Error(t, err)
}
