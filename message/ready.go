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

// Ready is sent by the server in reply to Startup when no authentication is required.
type Ready struct{}

func (m *Ready) IsResponse() bool            { return true }
func (m *Ready) OpCode() primitive.OpCode    { return primitive.OpCodeReady }
func (m *Ready) String() string              { return "READY" }

type readyCodec struct{}

func init() { RegisterCodec(&readyCodec{}) }

func (c *readyCodec) OpCode() primitive.OpCode { return primitive.OpCodeReady }

func (c *readyCodec) Encode(msg Message, _ io.Writer, _ primitive.ProtocolVersion) error {
	if _, ok := msg.(*Ready); !ok {
		return fmt.Errorf("expected *message.Ready, got %T", msg)
	}
	return nil
}

func (c *readyCodec) Decode(_ io.Reader, _ primitive.ProtocolVersion) (Message, error) {
	return &Ready{}, nil
}
