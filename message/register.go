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

// Register subscribes the connection to server-side events.
type Register struct {
	EventTypes []primitive.EventType
}

func (m *Register) IsResponse() bool         { return false }
func (m *Register) OpCode() primitive.OpCode { return primitive.OpCodeRegister }
func (m *Register) String() string           { return fmt.Sprintf("REGISTER %v", m.EventTypes) }

type registerCodec struct{}

func init() { RegisterCodec(&registerCodec{}) }

func (c *registerCodec) OpCode() primitive.OpCode { return primitive.OpCodeRegister }

func (c *registerCodec) Encode(msg Message, dest io.Writer, _ primitive.ProtocolVersion) error {
	register, ok := msg.(*Register)
	if !ok {
		return fmt.Errorf("expected *message.Register, got %T", msg)
	}
	list := make([]string, len(register.EventTypes))
	for i, t := range register.EventTypes {
		list[i] = string(t)
	}
	return primitive.WriteStringList(list, dest)
}

func (c *registerCodec) Decode(source io.Reader, _ primitive.ProtocolVersion) (Message, error) {
	list, err := primitive.ReadStringList(source)
	if err != nil {
		return nil, fmt.Errorf("cannot decode REGISTER event types: %w", err)
	}
	types := make([]primitive.EventType, len(list))
	for i, s := range list {
		types[i] = primitive.EventType(s)
	}
	return &Register{EventTypes: types}, nil
}
