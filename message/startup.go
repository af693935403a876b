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

// DefaultCqlVersion is the CQL_VERSION option sent with every STARTUP request.
const DefaultCqlVersion = "3.0.5"

// Startup is the first request sent on every new connection.
type Startup struct {
	Options map[string]string
}

// NewStartup creates a Startup request with the default CQL_VERSION and no compression.
func NewStartup() *Startup {
	return &Startup{Options: map[string]string{"CQL_VERSION": DefaultCqlVersion}}
}

func (m *Startup) SetCompression(compression primitive.Compression) {
	if compression == primitive.CompressionNone {
		delete(m.Options, "COMPRESSION")
	} else {
		m.Options["COMPRESSION"] = string(compression)
	}
}

func (m *Startup) IsResponse() bool         { return false }
func (m *Startup) OpCode() primitive.OpCode { return primitive.OpCodeStartup }
func (m *Startup) String() string           { return fmt.Sprintf("STARTUP %v", m.Options) }

type startupCodec struct{}

func init() { RegisterCodec(&startupCodec{}) }

func (c *startupCodec) OpCode() primitive.OpCode { return primitive.OpCodeStartup }

func (c *startupCodec) Encode(msg Message, dest io.Writer, _ primitive.ProtocolVersion) error {
	startup, ok := msg.(*Startup)
	if !ok {
		return fmt.Errorf("expected *message.Startup, got %T", msg)
	}
	return primitive.WriteStringMap(startup.Options, dest)
}

func (c *startupCodec) Decode(source io.Reader, _ primitive.ProtocolVersion) (Message, error) {
	options, err := primitive.ReadStringMap(source)
	if err != nil {
		return nil, fmt.Errorf("cannot decode STARTUP options: %w", err)
	}
	return &Startup{Options: options}, nil
}
