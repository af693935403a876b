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

// Package frame implements the v1/v2 CQL native protocol message envelope:
// version | flags | stream id | opcode | length | body.
package frame

import (
	"fmt"

	"github.com/mbrt/cqlnative/message"
	"github.com/mbrt/cqlnative/primitive"
)

// Header is the 8-byte fixed header that precedes every v1/v2 frame body.
type Header struct {
	IsResponse bool
	Version    primitive.ProtocolVersion
	Flags      primitive.HeaderFlag
	// StreamId correlates a response to the request that triggered it.
	// It is a signed byte on the wire; represented here as int8 directly (unlike protocol
	// v3+, v1/v2 never needs a wider range).
	StreamId int8
	OpCode   primitive.OpCode
	// BodyLength is computed when encoding and populated exactly when decoding; callers
	// should not set it themselves.
	BodyLength int32
}

// Body is the decoded body of a frame.
type Body struct {
	// TracingId is set only on response frames when the tracing flag is present; the client
	// discards it rather than correlating it to anything.
	TracingId *[16]byte
	Message   message.Message
}

// Frame is a fully decoded protocol message: header plus typed body.
type Frame struct {
	Header *Header
	Body   *Body
}

// NewFrame creates a Frame carrying msg for the given protocol version and stream id; it is a
// response frame when msg is a response message. The stream id is encoded as given: a zero id
// is not replaced by an allocated one.
func NewFrame(version primitive.ProtocolVersion, streamId int8, msg message.Message) *Frame {
	return &Frame{
		Header: &Header{
			IsResponse: msg.IsResponse(),
			Version:    version,
			StreamId:   streamId,
			OpCode:     msg.OpCode(),
		},
		Body: &Body{Message: msg},
	}
}

// RequestTracingId configures this request frame to ask the server for a tracing id.
func (f *Frame) RequestTracingId(tracing bool) {
	if tracing {
		f.Header.Flags = f.Header.Flags.Add(primitive.HeaderFlagTracing)
	} else {
		f.Header.Flags = f.Header.Flags.Remove(primitive.HeaderFlagTracing)
	}
}

func (f *Frame) String() string {
	return fmt.Sprintf("{header: %v, body: %v}", f.Header, f.Body)
}

func (h *Header) String() string {
	return fmt.Sprintf("{response: %v, version: %v, flags: %v, stream id: %v, opcode: %v, body length: %v}",
		h.IsResponse, h.Version, h.Flags, h.StreamId, h.OpCode, h.BodyLength)
}

func (b *Body) String() string {
	return fmt.Sprintf("{tracing id: %v, message: %v}", b.TracingId, b.Message)
}

// IsCompressible reports whether frames carrying this opcode may have their body compressed.
// STARTUP must never be compressed (the server cannot know the negotiated algorithm until it
// has decoded STARTUP); OPTIONS and READY bodies are empty and gain nothing from compression.
func IsCompressible(opCode primitive.OpCode) bool {
	return opCode != primitive.OpCodeStartup &&
		opCode != primitive.OpCodeOptions &&
		opCode != primitive.OpCodeReady
}
