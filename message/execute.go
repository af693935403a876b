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
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/mbrt/cqlnative/primitive"
)

// Execute runs a previously prepared statement, identified by the id returned in its
// PreparedResult.
type Execute struct {
	QueryId []byte
	Options *QueryOptions
}

func (m *Execute) IsResponse() bool         { return false }
func (m *Execute) OpCode() primitive.OpCode { return primitive.OpCodeExecute }
func (m *Execute) String() string           { return "EXECUTE " + hex.EncodeToString(m.QueryId) }

type executeCodec struct{}

func init() { RegisterCodec(&executeCodec{}) }

func (c *executeCodec) OpCode() primitive.OpCode { return primitive.OpCodeExecute }

func (c *executeCodec) Encode(msg Message, dest io.Writer, version primitive.ProtocolVersion) error {
	execute, ok := msg.(*Execute)
	if !ok {
		return fmt.Errorf("expected *message.Execute, got %T", msg)
	}
	if len(execute.QueryId) == 0 {
		return errors.New("cannot write EXECUTE with a missing query id")
	}
	if err := primitive.WriteShortBytes(execute.QueryId, dest); err != nil {
		return fmt.Errorf("cannot write EXECUTE query id: %w", err)
	}
	return EncodeQueryOptions(execute.Options, dest, version)
}

func (c *executeCodec) Decode(source io.Reader, version primitive.ProtocolVersion) (Message, error) {
	queryId, err := primitive.ReadShortBytes(source)
	if err != nil {
		return nil, fmt.Errorf("cannot read EXECUTE query id: %w", err)
	}
	options, err := DecodeQueryOptions(source, version)
	if err != nil {
		return nil, fmt.Errorf("cannot read EXECUTE options: %w", err)
	}
	return &Execute{QueryId: queryId, Options: options}, nil
}
