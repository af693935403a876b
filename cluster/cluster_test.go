package cluster

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbrt/cqlnative/column"
	"github.com/mbrt/cqlnative/conn"
	"github.com/mbrt/cqlnative/frame"
	"github.com/mbrt/cqlnative/message"
	"github.com/mbrt/cqlnative/primitive"
)

// startFakeNode answers a STARTUP with READY, then hands every subsequent request to handle and
// wires the response back over the same connection. It returns a live *conn.Connection dialed
// against the fake server, so tests can exercise real Cluster/conn code paths end to end.
func startFakeNode(t *testing.T, handle func(msg message.Message) message.Message) (*conn.Connection, net.Listener) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		server, err := ln.Accept()
		if err != nil {
			return
		}
		codec := frame.NewCodec(nil)
		first := true
		for {
			req, err := codec.DecodeFrame(server)
			if err != nil {
				return
			}
			var resp message.Message
			if first {
				resp = &message.Ready{}
				first = false
			} else {
				resp = handle(req.Body.Message)
			}
			f := frame.NewFrame(req.Header.Version, req.Header.StreamId, resp)
			if err := codec.EncodeFrame(f, server); err != nil {
				return
			}
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c, err := conn.Connect(ctx, ln.Addr().String(), conn.Config{Version: primitive.ProtocolVersion2})
	require.NoError(t, err)
	return c, ln
}

func TestClusterPrepareCachesHandleAndFansOutToAllPrimaries(t *testing.T) {
	var prepareCount1, prepareCount2 int32
	c1, ln1 := startFakeNode(t, func(msg message.Message) message.Message {
		if _, ok := msg.(*message.Prepare); ok {
			atomic.AddInt32(&prepareCount1, 1)
		}
		return &message.PreparedResult{PreparedQueryId: []byte{0x01}, VariablesMetadata: &column.Metadata{}, ResultMetadata: &column.Metadata{}}
	})
	defer ln1.Close()
	c2, ln2 := startFakeNode(t, func(msg message.Message) message.Message {
		if _, ok := msg.(*message.Prepare); ok {
			atomic.AddInt32(&prepareCount2, 1)
		}
		return &message.PreparedResult{PreparedQueryId: []byte{0x02}, VariablesMetadata: &column.Metadata{}, ResultMetadata: &column.Metadata{}}
	})
	defer ln2.Close()

	n1 := &node{address: "n1", conn: c1, ready: true, isPrimary: true}
	n2 := &node{address: "n2", conn: c2, ready: true, isPrimary: true}
	cl := &Cluster{
		cfg:       Config{ConnConfig: conn.Config{Version: primitive.ProtocolVersion2}},
		nodes:     map[string]*node{"n1": n1, "n2": n2},
		primaries: []*node{n1, n2},
		prepared:  newPreparedCache(10, time.Minute),
		closed:    make(chan struct{}),
	}

	stmt1, err := cl.Prepare(context.Background(), "SELECT * FROM t")
	require.NoError(t, err)
	require.NotNil(t, stmt1)

	stmt2, err := cl.Prepare(context.Background(), "SELECT * FROM t")
	require.NoError(t, err)
	assert.Same(t, stmt1, stmt2)

	assert.EqualValues(t, 1, atomic.LoadInt32(&prepareCount1))
	assert.EqualValues(t, 1, atomic.LoadInt32(&prepareCount2))
}

func TestClusterRegisterSendsOverCurrentPrimary(t *testing.T) {
	registered := make(chan []primitive.EventType, 1)
	c, ln := startFakeNode(t, func(msg message.Message) message.Message {
		if reg, ok := msg.(*message.Register); ok {
			registered <- reg.EventTypes
		}
		return &message.Ready{}
	})
	defer ln.Close()

	n := &node{address: "n1", conn: c, ready: true, isPrimary: true}
	cl := &Cluster{primaries: []*node{n}}

	err := cl.Register(context.Background(), []primitive.EventType{primitive.EventTypeSchemaChange}, func(ev *message.Event) {})
	require.NoError(t, err)

	select {
	case types := <-registered:
		assert.Equal(t, []primitive.EventType{primitive.EventTypeSchemaChange}, types)
	case <-time.After(2 * time.Second):
		t.Fatal("server never received REGISTER")
	}
}

func TestClusterCloseWhenIdleDrainsAndCloses(t *testing.T) {
	c, ln := startFakeNode(t, func(msg message.Message) message.Message {
		return &message.VoidResult{}
	})
	defer ln.Close()

	n := &node{address: "n1", conn: c, ready: true, isPrimary: true}
	cl := &Cluster{
		nodes:     map[string]*node{"n1": n},
		primaries: []*node{n},
		closed:    make(chan struct{}),
	}

	err := cl.CloseWhenIdle(context.Background())
	require.NoError(t, err)

	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("connection never closed")
	}
}

func TestClusterCloseWhenIdleIsNoopAfterClose(t *testing.T) {
	cl := &Cluster{nodes: map[string]*node{}, closed: make(chan struct{})}
	require.NoError(t, cl.Close())
	require.NoError(t, cl.CloseWhenIdle(context.Background()))
}

func TestPickCandidatePrefersConfiguredDC(t *testing.T) {
	cl := &Cluster{
		cfg: Config{PreferredDC: "DC1"},
		nodes: map[string]*node{
			"10.0.0.1": {address: "10.0.0.1", dataCenter: "DC2"},
			"10.0.0.2": {address: "10.0.0.2", dataCenter: "DC1"},
		},
	}
	candidate := cl.pickCandidateLocked()
	assert.Equal(t, "DC1", candidate.dataCenter)
}

func TestPickCandidateSkipsPrimariesAndRecentlyDown(t *testing.T) {
	cl := &Cluster{
		cfg: Config{},
		nodes: map[string]*node{
			"10.0.0.1": {address: "10.0.0.1", isPrimary: true},
			"10.0.0.2": {address: "10.0.0.2", downSince: time.Now()},
			"10.0.0.3": {address: "10.0.0.3"},
		},
	}
	candidate := cl.pickCandidateLocked()
	assert.Equal(t, "10.0.0.3", candidate.address)
}

func TestPickCandidateAllowsExpiredDownNode(t *testing.T) {
	cl := &Cluster{
		cfg: Config{},
		nodes: map[string]*node{
			"10.0.0.1": {address: "10.0.0.1", downSince: time.Now().Add(-2 * time.Minute)},
		},
	}
	candidate := cl.pickCandidateLocked()
	assert.Equal(t, "10.0.0.1", candidate.address)
}

func TestPickCandidateNoneAvailable(t *testing.T) {
	cl := &Cluster{
		cfg: Config{},
		nodes: map[string]*node{
			"10.0.0.1": {address: "10.0.0.1", isPrimary: true},
		},
	}
	assert.Nil(t, cl.pickCandidateLocked())
}

func TestRemoveNode(t *testing.T) {
	a := &node{address: "a"}
	b := &node{address: "b"}
	c := &node{address: "c"}
	out := removeNode([]*node{a, b, c}, b)
	assert.Equal(t, []*node{a, c}, out)
}

func TestGetANodeRoundRobin(t *testing.T) {
	a := &node{address: "a", ready: true}
	b := &node{address: "b", ready: true}
	cl := &Cluster{primaries: []*node{a, b}}

	first, err := cl.getANode()
	assert.NoError(t, err)
	second, err := cl.getANode()
	assert.NoError(t, err)
	third, err := cl.getANode()
	assert.NoError(t, err)

	assert.Equal(t, a, first)
	assert.Equal(t, b, second)
	assert.Equal(t, a, third)
}

func TestGetANodeNoPrimaries(t *testing.T) {
	cl := &Cluster{}
	_, err := cl.getANode()
	assert.Error(t, err)
}
