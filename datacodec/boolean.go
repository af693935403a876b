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
	"reflect"

	"github.com/mbrt/cqlnative/datatype"
	"github.com/mbrt/cqlnative/primitive"
)

// Boolean is the codec for the CQL boolean type; its preferred Go type is bool.
var Boolean Codec = &booleanCodec{}

type booleanCodec struct{}

func (c *booleanCodec) DataType() datatype.DataType { return datatype.Boolean }
func (c *booleanCodec) GoType() reflect.Type         { return reflect.TypeOf(false) }

func (c *booleanCodec) Encode(source interface{}, _ primitive.ProtocolVersion) ([]byte, error) {
	if source == nil {
		return nil, nil
	}
	var b bool
	switch v := source.(type) {
	case bool:
		b = v
	case *bool:
		if v == nil {
			return nil, nil
		}
		b = *v
	default:
		return nil, errWrongSourceType(c.DataType(), b, source)
	}
	if b {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}

func (c *booleanCodec) Decode(source []byte, dest interface{}, _ primitive.ProtocolVersion) (bool, error) {
	ptr, ok := dest.(*bool)
	if !ok {
		if dest == nil {
			return false, ErrNilDestination
		}
		return false, errWrongDestinationType(c.DataType(), false, dest)
	}
	if len(source) == 0 {
		*ptr = false
		return true, nil
	}
	if len(source) != 1 {
		return false, errWrongFixedLength(1, len(source))
	}
	*ptr = source[0] != 0
	return false, nil
}
