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

package datacodec

import (
	"math/big"
	"reflect"

	"github.com/mbrt/cqlnative/datatype"
	"github.com/mbrt/cqlnative/primitive"
)

// Varint is the codec for the CQL varint type; its preferred Go type is *big.Int, since
// big.Int is awkward to use by value.
var Varint Codec = &varintCodec{}

type varintCodec struct{}

func (c *varintCodec) DataType() datatype.DataType { return datatype.Varint }
func (c *varintCodec) GoType() reflect.Type         { return reflect.TypeOf((*big.Int)(nil)) }

func (c *varintCodec) Encode(source interface{}, _ primitive.ProtocolVersion) ([]byte, error) {
	if source == nil {
		return nil, nil
	}
	n, ok := source.(*big.Int)
	if !ok {
		return nil, errWrongSourceType(c.DataType(), (*big.Int)(nil), source)
	}
	if n == nil {
		return nil, nil
	}
	return primitive.EncodeVarint(n), nil
}

func (c *varintCodec) Decode(source []byte, dest interface{}, _ primitive.ProtocolVersion) (bool, error) {
	ptr, ok := dest.(**big.Int)
	if !ok {
		if dest == nil {
			return false, ErrNilDestination
		}
		return false, errWrongDestinationType(c.DataType(), (*big.Int)(nil), dest)
	}
	if source == nil {
		*ptr = nil
		return true, nil
	}
	*ptr = primitive.DecodeVarint(source)
	return false, nil
}
