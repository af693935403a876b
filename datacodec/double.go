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
	"math"
	"reflect"

	"github.com/mbrt/cqlnative/datatype"
	"github.com/mbrt/cqlnative/primitive"
)

// Double is the codec for the CQL double type; its preferred Go type is float64.
var Double Codec = &doubleCodec{}

type doubleCodec struct{}

func (c *doubleCodec) DataType() datatype.DataType { return datatype.Double }
func (c *doubleCodec) GoType() reflect.Type         { return reflect.TypeOf(float64(0)) }

func (c *doubleCodec) Encode(source interface{}, _ primitive.ProtocolVersion) ([]byte, error) {
	if source == nil {
		return nil, nil
	}
	var f float64
	switch v := source.(type) {
	case float64:
		f = v
	case *float64:
		if v == nil {
			return nil, nil
		}
		f = *v
	default:
		return nil, errWrongSourceType(c.DataType(), f, source)
	}
	dest := make([]byte, 8)
	binary.BigEndian.PutUint64(dest, math.Float64bits(f))
	return dest, nil
}

func (c *doubleCodec) Decode(source []byte, dest interface{}, _ primitive.ProtocolVersion) (bool, error) {
	ptr, ok := dest.(*float64)
	if !ok {
		if dest == nil {
			return false, ErrNilDestination
		}
		return false, errWrongDestinationType(c.DataType(), float64(0), dest)
	}
	if len(source) == 0 {
		*ptr = 0
		return true, nil
	}
	if len(source) != 8 {
		return false, errWrongFixedLength(8, len(source))
	}
	*ptr = math.Float64frombits(binary.BigEndian.Uint64(source))
	return false, nil
}
