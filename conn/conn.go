// Copyright 2020 DataStax
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package conn owns a single TCP connection to one Cassandra node: the STARTUP handshake,
// stream id bookkeeping for concurrent in-flight requests, frame compression, and dispatch of
// server-pushed EVENT frames to registered listeners.
package conn

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mbrt/cqlnative/compression"
	"github.com/mbrt/cqlnative/compression/lz4"
	"github.com/mbrt/cqlnative/compression/snappy"
	"github.com/mbrt/cqlnative/cqlerr"
	"github.com/mbrt/cqlnative/frame"
	"github.com/mbrt/cqlnative/message"
	"github.com/mbrt/cqlnative/primitive"
)

// State is the connection's lifecycle stage.
type State int32

const (
	StateConnecting State = iota
	StateAuthenticating
	StateReady
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "CONNECTING"
	case StateAuthenticating:
		return "AUTHENTICATING"
	case StateReady:
		return "READY"
	case StateClosed:
		return "CLOSED"
	}
	return "UNKNOWN"
}

// Config holds everything needed to dial and authenticate a Connection.
type Config struct {
	Version        primitive.ProtocolVersion
	Compression    primitive.Compression
	Username       string
	Password       string
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Version == 0 {
		c.Version = primitive.ProtocolVersion2
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 5 * time.Second
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 10 * time.Second
	}
	return c
}

// EventListener receives server-pushed EVENT messages. It must not block.
type EventListener func(*message.Event)

// Connection is a single, authenticated TCP connection to one node, ready to carry concurrent
// QUERY/PREPARE/EXECUTE requests up to 127 at a time.
type Connection struct {
	address string
	cfg     Config
	netConn net.Conn
	codec   frame.Codec

	state int32 // atomic State

	writeMu sync.Mutex

	streamIDs chan int8

	pendingMu sync.Mutex
	pending   map[int8]chan pendingResult

	listenersMu sync.RWMutex
	listeners   []EventListener

	closeOnce sync.Once
	closed    chan struct{}
}

type pendingResult struct {
	frame *frame.Frame
	err   error
}

// Connect dials address, negotiates compression and runs the STARTUP/AUTHENTICATE handshake.
// The returned Connection is StateReady and has its read loop already running.
func Connect(ctx context.Context, address string, cfg Config) (*Connection, error) {
	cfg = cfg.withDefaults()
	if !cfg.Version.IsSupported() {
		return nil, &cqlerr.ConfigurationError{Cause: fmt.Errorf("unsupported protocol version: %v", cfg.Version)}
	}
	dialer := net.Dialer{Timeout: cfg.ConnectTimeout}
	netConn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, &cqlerr.TransportError{Address: address, Cause: err}
	}

	c := &Connection{
		address:   address,
		cfg:       cfg,
		netConn:   netConn,
		codec:     frame.NewCodec(compressorFor(cfg.Compression)),
		streamIDs: make(chan int8, primitive.MaxStreamId),
		pending:   make(map[int8]chan pendingResult),
		closed:    make(chan struct{}),
	}
	for i := int(primitive.MinStreamId); i <= int(primitive.MaxStreamId); i++ {
		c.streamIDs <- int8(i)
	}
	atomic.StoreInt32(&c.state, int32(StateConnecting))

	if err := c.handshake(); err != nil {
		_ = netConn.Close()
		return nil, err
	}

	atomic.StoreInt32(&c.state, int32(StateReady))
	go c.readLoop()
	log.Debug().Msgf("%v: ready", c)
	return c, nil
}

func compressorFor(alg primitive.Compression) compression.BodyCompressor {
	switch alg {
	case primitive.CompressionSnappy:
		return snappy.BodyCompressor{}
	case primitive.CompressionLz4:
		return lz4.BodyCompressor{}
	default:
		return nil
	}
}

func (c *Connection) String() string {
	return fmt.Sprintf("connection[%s]", c.address)
}

func (c *Connection) State() State {
	return State(atomic.LoadInt32(&c.state))
}

// Done returns a channel that is closed once the connection has been torn down, by either
// Close or an unrecoverable read-loop error. Callers that need to react to connection loss
// (e.g. the cluster coordinator picking a new primary) select on it.
func (c *Connection) Done() <-chan struct{} {
	return c.closed
}

// RemoteAddr returns the address of the node this connection is talking to, as reported by the
// underlying TCP connection.
func (c *Connection) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

// handshake runs synchronously on the dialing goroutine before the read loop starts: there is
// at most one frame in flight at a time, so stream id 1 is reused for every step.
func (c *Connection) handshake() error {
	atomic.StoreInt32(&c.state, int32(StateConnecting))
	startup := message.NewStartup()
	if c.cfg.Compression != primitive.CompressionNone {
		startup.SetCompression(c.cfg.Compression)
	}
	resp, err := c.handshakeRoundTrip(startup)
	if err != nil {
		return err
	}
	switch m := resp.(type) {
	case *message.Ready:
		return nil
	case *message.Authenticate:
		return c.authenticate(m)
	case *message.Error:
		return &cqlerr.ServerError{Message: m}
	default:
		return &cqlerr.ProtocolError{Cause: fmt.Errorf("unexpected response to STARTUP: %v", m)}
	}
}

// passwordAuthenticatorClass is the only authenticator class this client knows how to speak:
// a CREDENTIALS frame carrying a plaintext username/password.
const passwordAuthenticatorClass = "org.apache.cassandra.auth.PasswordAuthenticator"

func (c *Connection) authenticate(auth *message.Authenticate) error {
	if auth.Authenticator != passwordAuthenticatorClass {
		return &cqlerr.AuthenticationError{
			Authenticator: auth.Authenticator,
			Cause:         fmt.Errorf("unsupported authenticator class"),
		}
	}
	atomic.StoreInt32(&c.state, int32(StateAuthenticating))
	creds := &message.Credentials{Username: c.cfg.Username, Password: c.cfg.Password}
	resp, err := c.handshakeRoundTrip(creds)
	if err != nil {
		return err
	}
	switch m := resp.(type) {
	case *message.Ready:
		return nil
	case *message.Error:
		return &cqlerr.AuthenticationError{Authenticator: auth.Authenticator, Cause: &cqlerr.ServerError{Message: m}}
	default:
		return &cqlerr.ProtocolError{Cause: fmt.Errorf("unexpected response to CREDENTIALS: %v", m)}
	}
}

func (c *Connection) handshakeRoundTrip(msg message.Message) (message.Message, error) {
	f := frame.NewFrame(c.cfg.Version, primitive.MinStreamId, msg)
	if err := c.codec.EncodeFrame(f, c.netConn); err != nil {
		return nil, &cqlerr.ProtocolError{Cause: err}
	}
	resp, err := c.codec.DecodeFrame(c.netConn)
	if err != nil {
		return nil, &cqlerr.TransportError{Address: c.address, Cause: err}
	}
	return resp.Body.Message, nil
}

// Execute sends msg and blocks until its response arrives, ctx is done, or the connection
// closes. version is always the connection's negotiated version; ctx controls only the wait.
func (c *Connection) Execute(ctx context.Context, msg message.Message) (message.Message, error) {
	if c.State() != StateReady {
		return nil, &cqlerr.ProtocolError{Cause: fmt.Errorf("%v: not ready (state %v)", c, c.State())}
	}
	streamID, err := c.borrowStreamID(ctx)
	if err != nil {
		return nil, err
	}
	ch := make(chan pendingResult, 1)
	c.pendingMu.Lock()
	c.pending[streamID] = ch
	c.pendingMu.Unlock()

	f := frame.NewFrame(c.cfg.Version, streamID, msg)
	if c.cfg.Compression != primitive.CompressionNone && frame.IsCompressible(msg.OpCode()) {
		f.Header.Flags = f.Header.Flags.Add(primitive.HeaderFlagCompressed)
	}

	c.writeMu.Lock()
	err = c.codec.EncodeFrame(f, c.netConn)
	c.writeMu.Unlock()
	if err != nil {
		c.forgetPending(streamID)
		c.releaseStreamID(streamID)
		return nil, &cqlerr.TransportError{Address: c.address, Cause: err}
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	select {
	case result := <-ch:
		c.releaseStreamID(streamID)
		if result.err != nil {
			return nil, result.err
		}
		if errMsg, ok := result.frame.Body.Message.(*message.Error); ok {
			return nil, &cqlerr.ServerError{Message: errMsg}
		}
		return result.frame.Body.Message, nil
	case <-timeoutCtx.Done():
		c.forgetPending(streamID)
		c.releaseStreamID(streamID)
		return nil, timeoutCtx.Err()
	case <-c.closed:
		c.forgetPending(streamID)
		return nil, &cqlerr.TransportError{Address: c.address, Cause: fmt.Errorf("connection closed")}
	}
}

func (c *Connection) borrowStreamID(ctx context.Context) (int8, error) {
	select {
	case id := <-c.streamIDs:
		return id, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-c.closed:
		return 0, &cqlerr.TransportError{Address: c.address, Cause: fmt.Errorf("connection closed")}
	}
}

func (c *Connection) releaseStreamID(id int8) {
	select {
	case c.streamIDs <- id:
	default:
		log.Warn().Msgf("%v: stream id %d: release failed, pool full", c, id)
	}
}

func (c *Connection) forgetPending(id int8) {
	c.pendingMu.Lock()
	delete(c.pending, id)
	c.pendingMu.Unlock()
}

// Register subscribes this connection to server-pushed events of the given types. Once
// registered, matching events arrive via any listener added with AddEventListener.
func (c *Connection) Register(ctx context.Context, eventTypes []primitive.EventType) error {
	resp, err := c.Execute(ctx, &message.Register{EventTypes: eventTypes})
	if err != nil {
		return err
	}
	if _, ok := resp.(*message.Ready); !ok {
		return &cqlerr.ProtocolError{Cause: fmt.Errorf("unexpected response to REGISTER: %v", resp)}
	}
	return nil
}

// AddEventListener registers fn to receive every EVENT frame this connection receives after a
// REGISTER request. fn is called from the read loop goroutine and must not block.
func (c *Connection) AddEventListener(fn EventListener) {
	c.listenersMu.Lock()
	c.listeners = append(c.listeners, fn)
	c.listenersMu.Unlock()
}

func (c *Connection) readLoop() {
	for {
		f, err := c.codec.DecodeFrame(c.netConn)
		if err != nil {
			c.abort(&cqlerr.TransportError{Address: c.address, Cause: err})
			return
		}
		if f.Header.StreamId == primitive.EventStreamId {
			c.dispatchEvent(f)
			continue
		}
		c.pendingMu.Lock()
		ch, found := c.pending[f.Header.StreamId]
		delete(c.pending, f.Header.StreamId)
		c.pendingMu.Unlock()
		if !found {
			log.Warn().Msgf("%v: response for unknown stream id %d", c, f.Header.StreamId)
			continue
		}
		ch <- pendingResult{frame: f}
	}
}

func (c *Connection) dispatchEvent(f *frame.Frame) {
	event, ok := f.Body.Message.(*message.Event)
	if !ok {
		log.Warn().Msgf("%v: non-EVENT message on the event stream id: %v", c, f.Body.Message)
		return
	}
	c.listenersMu.RLock()
	listeners := append([]EventListener(nil), c.listeners...)
	c.listenersMu.RUnlock()
	for _, listener := range listeners {
		listener(event)
	}
}

// abort fails every pending request and marks the connection closed; called when the read
// loop hits an unrecoverable error.
func (c *Connection) abort(cause error) {
	c.closeOnce.Do(func() {
		atomic.StoreInt32(&c.state, int32(StateClosed))
		close(c.closed)
		c.pendingMu.Lock()
		for id, ch := range c.pending {
			ch <- pendingResult{err: cause}
			delete(c.pending, id)
		}
		c.pendingMu.Unlock()
		_ = c.netConn.Close()
		log.Debug().Msgf("%v: closed: %v", c, cause)
	})
}

// Close closes the underlying TCP connection immediately, failing any request still waiting
// for a response.
func (c *Connection) Close() error {
	c.abort(fmt.Errorf("connection closed by caller"))
	return nil
}

// CloseGraceful waits for every in-flight request to complete (or ctx to expire) before
// closing the connection.
func (c *Connection) CloseGraceful(ctx context.Context) error {
	for {
		c.pendingMu.Lock()
		n := len(c.pending)
		c.pendingMu.Unlock()
		if n == 0 {
			return c.Close()
		}
		select {
		case <-ctx.Done():
			return c.Close()
		case <-time.After(20 * time.Millisecond):
		case <-c.closed:
			return nil
		}
	}
}
