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

// Package message implements the body of every v1/v2 CQL native protocol opcode.
package message

import (
	"fmt"
	"io"

	"github.com/mbrt/cqlnative/primitive"
)

// Message is the decoded body of a frame, tagged by the opcode it was read from or will be
// written to.
type Message interface {
	IsResponse() bool
	OpCode() primitive.OpCode
	fmt.Stringer
}

// Codec encodes and decodes one opcode's body.
type Codec interface {
	Encode(msg Message, dest io.Writer, version primitive.ProtocolVersion) error
	Decode(source io.Reader, version primitive.ProtocolVersion) (Message, error)
	OpCode() primitive.OpCode
}

// codecs is the dispatch table keyed by opcode: encoding/decoding never switches on a
// runtime type, it looks up the opcode.
var codecs = map[primitive.OpCode]Codec{}

// RegisterCodec adds or replaces the Codec responsible for one opcode. Called from each
// message type's file init().
func RegisterCodec(c Codec) {
	codecs[c.OpCode()] = c
}

func EncodeMessage(msg Message, dest io.Writer, version primitive.ProtocolVersion) error {
	c, found := codecs[msg.OpCode()]
	if !found {
		return fmt.Errorf("no codec registered for opcode %v", msg.OpCode())
	}
	return c.Encode(msg, dest, version)
}

func DecodeMessage(opCode primitive.OpCode, source io.Reader, version primitive.ProtocolVersion) (Message, error) {
	c, found := codecs[opCode]
	if !found {
		return nil, fmt.Errorf("no codec registered for opcode %v", opCode)
	}
	return c.Decode(source, version)
}
