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

package message

import (
	"fmt"
	"io"

	"github.com/mbrt/cqlnative/primitive"
)

// Options asks the server which startup options it supports. It carries an empty body.
type Options struct{}

func (m *Options) IsResponse() bool         { return false }
func (m *Options) OpCode() primitive.OpCode { return primitive.OpCodeOptions }
func (m *Options) String() string           { return "OPTIONS" }

type optionsCodec struct{}

func init() { RegisterCodec(&optionsCodec{}) }

func (c *optionsCodec) OpCode() primitive.OpCode { return primitive.OpCodeOptions }

func (c *optionsCodec) Encode(msg Message, _ io.Writer, _ primitive.ProtocolVersion) error {
	if _, ok := msg.(*Options); !ok {
		return fmt.Errorf("expected *message.Options, got %T", msg)
	}
	return nil
}

func (c *optionsCodec) Decode(_ io.Reader, _ primitive.ProtocolVersion) (Message, error) {
	return &Options{}, nil
}

// Supported is the server's reply to Options: every startup option name mapped to its list of
// supported values (e.g. CQL_VERSION, COMPRESSION).
type Supported struct {
	Options map[string][]string
}

func (m *Supported) IsResponse() bool         { return true }
func (m *Supported) OpCode() primitive.OpCode { return primitive.OpCodeSupported }
func (m *Supported) String() string           { return fmt.Sprintf("SUPPORTED %v", m.Options) }

type supportedCodec struct{}

func init() { RegisterCodec(&supportedCodec{}) }

func (c *supportedCodec) OpCode() primitive.OpCode { return primitive.OpCodeSupported }

func (c *supportedCodec) Encode(msg Message, dest io.Writer, _ primitive.ProtocolVersion) error {
	supported, ok := msg.(*Supported)
	if !ok {
		return fmt.Errorf("expected *message.Supported, got %T", msg)
	}
	return primitive.WriteStringMultimap(supported.Options, dest)
}

func (c *supportedCodec) Decode(source io.Reader, _ primitive.ProtocolVersion) (Message, error) {
	options, err := primitive.ReadStringMultimap(source)
	if err != nil {
		return nil, fmt.Errorf("cannot decode SUPPORTED options: %w", err)
	}
	return &Supported{Options: options}, nil
}
