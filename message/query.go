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

// Query executes a CQL statement directly, without a prepared-statement round trip.
type Query struct {
	Query   string
	Options *QueryOptions
}

func (m *Query) IsResponse() bool         { return false }
func (m *Query) OpCode() primitive.OpCode { return primitive.OpCodeQuery }
func (m *Query) String() string           { return fmt.Sprintf("QUERY %s", m.Query) }

type queryCodec struct{}

func init() { RegisterCodec(&queryCodec{}) }

func (c *queryCodec) OpCode() primitive.OpCode { return primitive.OpCodeQuery }

func (c *queryCodec) Encode(msg Message, dest io.Writer, version primitive.ProtocolVersion) error {
	query, ok := msg.(*Query)
	if !ok {
		return fmt.Errorf("expected *message.Query, got %T", msg)
	}
	if err := primitive.WriteLongString(query.Query, dest); err != nil {
		return fmt.Errorf("cannot write QUERY query string: %w", err)
	}
	return EncodeQueryOptions(query.Options, dest, version)
}

func (c *queryCodec) Decode(source io.Reader, version primitive.ProtocolVersion) (Message, error) {
	query, err := primitive.ReadLongString(source)
	if err != nil {
		return nil, fmt.Errorf("cannot read QUERY query string: %w", err)
	}
	options, err := DecodeQueryOptions(source, version)
	if err != nil {
		return nil, fmt.Errorf("cannot read QUERY options: %w", err)
	}
	return &Query{Query: query, Options: options}, nil
}
