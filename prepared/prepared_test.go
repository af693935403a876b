package prepared

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbrt/cqlnative/column"
	"github.com/mbrt/cqlnative/datatype"
	"github.com/mbrt/cqlnative/message"
	"github.com/mbrt/cqlnative/primitive"
)

type fakeExecutor struct {
	last *message.Execute
}

func (f *fakeExecutor) ExecutePrepared(_ context.Context, msg *message.Execute) (message.Message, error) {
	f.last = msg
	return &message.VoidResult{}, nil
}

func newTestStatement(exec Executor) *Statement {
	result := &message.PreparedResult{
		PreparedQueryId: []byte{0x01, 0x02},
		VariablesMetadata: &column.Metadata{
			Columns: []column.Spec{
				{Keyspace: "ks", Table: "t", Name: "id", Type: datatype.Int},
				{Keyspace: "ks", Table: "t", Name: "name", Type: datatype.Varchar},
			},
		},
		ResultMetadata: &column.Metadata{},
	}
	return New("SELECT * FROM t WHERE id = ? AND name = ?", result, primitive.ProtocolVersion2, exec)
}

func TestBindPositional(t *testing.T) {
	exec := &fakeExecutor{}
	stmt := newTestStatement(exec)

	bound, err := stmt.Bind(int32(42), "alice")
	require.NoError(t, err)
	require.NotNil(t, bound)

	_, err = bound.Execute(context.Background())
	require.NoError(t, err)

	require.Len(t, exec.last.Options.PositionalValues, 2)
	assert.Equal(t, []byte{0, 0, 0, 42}, exec.last.Options.PositionalValues[0])
	assert.Equal(t, "alice", string(exec.last.Options.PositionalValues[1]))
}

func TestBindPositionalWrongArgCount(t *testing.T) {
	stmt := newTestStatement(&fakeExecutor{})

	_, err := stmt.Bind(int32(42))
	assert.Error(t, err)
}

func TestBindNamed(t *testing.T) {
	exec := &fakeExecutor{}
	stmt := newTestStatement(exec)

	bound, err := stmt.BindNamed(map[string]interface{}{"id": int32(7)})
	require.NoError(t, err)

	_, err = bound.Execute(context.Background())
	require.NoError(t, err)

	require.Len(t, exec.last.Options.NamedValues, 2)
	assert.Equal(t, []byte{0, 0, 0, 7}, exec.last.Options.NamedValues["id"])
	assert.Nil(t, exec.last.Options.NamedValues["name"])
}

func TestBindNamedUnknownVariable(t *testing.T) {
	stmt := newTestStatement(&fakeExecutor{})

	_, err := stmt.BindNamed(map[string]interface{}{"bogus": 1})
	assert.Error(t, err)
}

func TestBindNamedRejectsReusedVariableName(t *testing.T) {
	result := &message.PreparedResult{
		PreparedQueryId: []byte{0x01},
		VariablesMetadata: &column.Metadata{
			Columns: []column.Spec{
				{Keyspace: "ks", Table: "t", Name: "id", Type: datatype.Int},
				{Keyspace: "ks", Table: "t", Name: "id", Type: datatype.Int},
			},
		},
		ResultMetadata: &column.Metadata{},
	}
	stmt := New("SELECT * FROM t WHERE id = ? AND id = ?", result, primitive.ProtocolVersion2, &fakeExecutor{})

	_, err := stmt.BindNamed(map[string]interface{}{"id": int32(1)})
	assert.Error(t, err)
}

func TestWithConsistencyAndPageSize(t *testing.T) {
	exec := &fakeExecutor{}
	stmt := newTestStatement(exec)

	bound, err := stmt.Bind(int32(1), "x")
	require.NoError(t, err)

	bound.WithConsistency(primitive.ConsistencyLevelQuorum).WithPageSize(100)

	_, err = bound.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, primitive.ConsistencyLevelQuorum, exec.last.Options.Consistency)
	assert.EqualValues(t, 100, exec.last.Options.PageSize)
}
