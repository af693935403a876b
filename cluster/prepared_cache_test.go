package cluster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbrt/cqlnative/column"
	"github.com/mbrt/cqlnative/message"
	"github.com/mbrt/cqlnative/prepared"
	"github.com/mbrt/cqlnative/primitive"
)

func newTestStatement(query string) *prepared.Statement {
	result := &message.PreparedResult{
		PreparedQueryId:   []byte{0x01},
		VariablesMetadata: &column.Metadata{},
		ResultMetadata:    &column.Metadata{},
	}
	return prepared.New(query, result, primitive.ProtocolVersion2, nil)
}

func TestPreparedCacheRememberAndQueries(t *testing.T) {
	c := newPreparedCache(10, time.Minute)
	c.Remember("SELECT * FROM t", newTestStatement("SELECT * FROM t"))
	c.Remember("SELECT * FROM u", newTestStatement("SELECT * FROM u"))
	c.Remember("SELECT * FROM t", newTestStatement("SELECT * FROM t"))

	assert.ElementsMatch(t, []string{"SELECT * FROM t", "SELECT * FROM u"}, c.Queries())
}

func TestPreparedCacheGetReturnsSameHandle(t *testing.T) {
	c := newPreparedCache(10, time.Minute)
	stmt := newTestStatement("SELECT * FROM t")
	c.Remember("SELECT * FROM t", stmt)

	got, ok := c.Get("SELECT * FROM t")
	require.True(t, ok)
	assert.Same(t, stmt, got)

	_, ok = c.Get("SELECT * FROM missing")
	assert.False(t, ok)
}

func TestPreparedCacheForget(t *testing.T) {
	c := newPreparedCache(10, time.Minute)
	c.Remember("SELECT * FROM t", newTestStatement("SELECT * FROM t"))
	c.Forget("SELECT * FROM t")

	assert.Empty(t, c.Queries())
	_, ok := c.Get("SELECT * FROM t")
	assert.False(t, ok)
}

func TestPreparedCacheGraceEviction(t *testing.T) {
	c := newPreparedCache(10, 10*time.Millisecond)
	c.Remember("SELECT * FROM t", newTestStatement("SELECT * FROM t"))
	assert.Len(t, c.Queries(), 1)

	assert.Eventually(t, func() bool {
		return len(c.Queries()) == 0
	}, time.Second, 5*time.Millisecond)
}
