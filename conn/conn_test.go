package conn

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbrt/cqlnative/cqlerr"
	"github.com/mbrt/cqlnative/frame"
	"github.com/mbrt/cqlnative/message"
	"github.com/mbrt/cqlnative/primitive"
)

// newFakeServer listens on a loopback TCP port and hands the first accepted connection to
// handle, together with a frame codec that has no compressor.
func newFakeServer(t *testing.T, version primitive.ProtocolVersion, handle func(server net.Conn, codec frame.Codec)) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		server, err := ln.Accept()
		if err != nil {
			return
		}
		handle(server, frame.NewCodec(nil))
	}()
	return ln
}

func respondReady(server net.Conn, codec frame.Codec) {
	req, err := codec.DecodeFrame(server)
	if err != nil {
		return
	}
	resp := frame.NewFrame(req.Header.Version, req.Header.StreamId, &message.Ready{})
	_ = codec.EncodeFrame(resp, server)
}

func TestConnectHandshakeReady(t *testing.T) {
	ln := newFakeServer(t, primitive.ProtocolVersion2, respondReady)
	defer ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c, err := Connect(ctx, ln.Addr().String(), Config{Version: primitive.ProtocolVersion2})
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, StateReady, c.State())
}

func TestConnectRejectsUnsupportedVersion(t *testing.T) {
	_, err := Connect(context.Background(), "127.0.0.1:1", Config{Version: primitive.ProtocolVersion(99)})
	assert.Error(t, err)
}

func TestExecuteRoundTrip(t *testing.T) {
	ln := newFakeServer(t, primitive.ProtocolVersion2, func(server net.Conn, codec frame.Codec) {
		respondReady(server, codec)
		req, err := codec.DecodeFrame(server)
		if err != nil {
			return
		}
		resp := frame.NewFrame(req.Header.Version, req.Header.StreamId, &message.VoidResult{})
		_ = codec.EncodeFrame(resp, server)
	})
	defer ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c, err := Connect(ctx, ln.Addr().String(), Config{Version: primitive.ProtocolVersion2})
	require.NoError(t, err)
	defer c.Close()

	resp, err := c.Execute(ctx, &message.Query{Query: "SELECT * FROM system.local", Options: &message.QueryOptions{}})
	require.NoError(t, err)
	assert.IsType(t, &message.VoidResult{}, resp)
}

func TestDoneClosesOnAbort(t *testing.T) {
	ln := newFakeServer(t, primitive.ProtocolVersion2, func(server net.Conn, codec frame.Codec) {
		respondReady(server, codec)
		server.Close()
	})
	defer ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c, err := Connect(ctx, ln.Addr().String(), Config{Version: primitive.ProtocolVersion2})
	require.NoError(t, err)

	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("connection never closed after server hung up")
	}
	assert.Equal(t, StateClosed, c.State())
}

func respondAuthenticate(authenticator string) func(server net.Conn, codec frame.Codec) {
	return func(server net.Conn, codec frame.Codec) {
		req, err := codec.DecodeFrame(server)
		if err != nil {
			return
		}
		resp := frame.NewFrame(req.Header.Version, req.Header.StreamId, &message.Authenticate{Authenticator: authenticator})
		_ = codec.EncodeFrame(resp, server)
	}
}

func TestConnectRejectsUnsupportedAuthenticator(t *testing.T) {
	ln := newFakeServer(t, primitive.ProtocolVersion2, respondAuthenticate("com.example.CustomAuthenticator"))
	defer ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Connect(ctx, ln.Addr().String(), Config{Version: primitive.ProtocolVersion2, Username: "u", Password: "p"})
	require.Error(t, err)
	assert.IsType(t, &cqlerr.AuthenticationError{}, err)
}

func TestConnectAcceptsPasswordAuthenticator(t *testing.T) {
	ln := newFakeServer(t, primitive.ProtocolVersion2, func(server net.Conn, codec frame.Codec) {
		respondAuthenticate(passwordAuthenticatorClass)(server, codec)
		respondReady(server, codec)
	})
	defer ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c, err := Connect(ctx, ln.Addr().String(), Config{Version: primitive.ProtocolVersion2, Username: "u", Password: "p"})
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, StateReady, c.State())
}

func TestRegisterSendsRegisterFrame(t *testing.T) {
	ln := newFakeServer(t, primitive.ProtocolVersion2, func(server net.Conn, codec frame.Codec) {
		respondReady(server, codec)
		req, err := codec.DecodeFrame(server)
		if err != nil {
			return
		}
		require.IsType(t, &message.Register{}, req.Body.Message)
		resp := frame.NewFrame(req.Header.Version, req.Header.StreamId, &message.Ready{})
		_ = codec.EncodeFrame(resp, server)
	})
	defer ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c, err := Connect(ctx, ln.Addr().String(), Config{Version: primitive.ProtocolVersion2})
	require.NoError(t, err)
	defer c.Close()

	err = c.Register(ctx, []primitive.EventType{primitive.EventTypeStatusChange})
	require.NoError(t, err)
}

func TestRemoteAddr(t *testing.T) {
	ln := newFakeServer(t, primitive.ProtocolVersion2, respondReady)
	defer ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c, err := Connect(ctx, ln.Addr().String(), Config{Version: primitive.ProtocolVersion2})
	require.NoError(t, err)
	defer c.Close()

	assert.NotEmpty(t, c.RemoteAddr().String())
}
