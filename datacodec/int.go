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
	"encoding/binary"
	"reflect"

	"github.com/mbrt/cqlnative/datatype"
	"github.com/mbrt/cqlnative/primitive"
)

// Int is the codec for the CQL int type; its preferred Go type is int32.
var Int Codec = &intCodec{}

type intCodec struct{}

func (c *intCodec) DataType() datatype.DataType { return datatype.Int }
func (c *intCodec) GoType() reflect.Type         { return reflect.TypeOf(int32(0)) }

func (c *intCodec) Encode(source interface{}, _ primitive.ProtocolVersion) ([]byte, error) {
	if source == nil {
		return nil, nil
	}
	var n int32
	switch v := source.(type) {
	case int32:
		n = v
	case *int32:
		if v == nil {
			return nil, nil
		}
		n = *v
	default:
		return nil, errWrongSourceType(c.DataType(), n, source)
	}
	dest := make([]byte, 4)
	binary.BigEndian.PutUint32(dest, uint32(n))
	return dest, nil
}

func (c *intCodec) Decode(source []byte, dest interface{}, _ primitive.ProtocolVersion) (bool, error) {
	ptr, ok := dest.(*int32)
	if !ok {
		if dest == nil {
			return false, ErrNilDestination
		}
		return false, errWrongDestinationType(c.DataType(), int32(0), dest)
	}
	if len(source) == 0 {
		*ptr = 0
		return true, nil
	}
	if len(source) != 4 {
		return false, errWrongFixedLength(4, len(source))
	}
	*ptr = int32(binary.BigEndian.Uint32(source))
	return false, nil
}
