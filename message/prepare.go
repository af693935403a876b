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
	"errors"
	"fmt"
	"io"

	"github.com/mbrt/cqlnative/primitive"
)

// Prepare asks the server to parse and cache a CQL statement, returning a PreparedResult
// carrying the id used to Execute it later.
type Prepare struct {
	Query string
}

func (m *Prepare) IsResponse() bool         { return false }
func (m *Prepare) OpCode() primitive.OpCode { return primitive.OpCodePrepare }
func (m *Prepare) String() string           { return fmt.Sprintf("PREPARE %s", m.Query) }

type prepareCodec struct{}

func init() { RegisterCodec(&prepareCodec{}) }

func (c *prepareCodec) OpCode() primitive.OpCode { return primitive.OpCodePrepare }

func (c *prepareCodec) Encode(msg Message, dest io.Writer, _ primitive.ProtocolVersion) error {
	prepare, ok := msg.(*Prepare)
	if !ok {
		return fmt.Errorf("expected *message.Prepare, got %T", msg)
	}
	if prepare.Query == "" {
		return errors.New("cannot write PREPARE with an empty query string")
	}
	return primitive.WriteLongString(prepare.Query, dest)
}

func (c *prepareCodec) Decode(source io.Reader, _ primitive.ProtocolVersion) (Message, error) {
	query, err := primitive.ReadLongString(source)
	if err != nil {
		return nil, fmt.Errorf("cannot read PREPARE query string: %w", err)
	}
	return &Prepare{Query: query}, nil
}
