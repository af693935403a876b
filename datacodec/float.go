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

// Float is the codec for the CQL float type; its preferred Go type is float32.
var Float Codec = &floatCodec{}

type floatCodec struct{}

func (c *floatCodec) DataType() datatype.DataType { return datatype.Float }
func (c *floatCodec) GoType() reflect.Type         { return reflect.TypeOf(float32(0)) }

func (c *floatCodec) Encode(source interface{}, _ primitive.ProtocolVersion) ([]byte, error) {
	if source == nil {
		return nil, nil
	}
	var f float32
	switch v := source.(type) {
	case float32:
		f = v
	case *float32:
		if v == nil {
			return nil, nil
		}
		f = *v
	default:
		return nil, errWrongSourceType(c.DataType(), f, source)
	}
	dest := make([]byte, 4)
	binary.BigEndian.PutUint32(dest, math.Float32bits(f))
	return dest, nil
}

func (c *floatCodec) Decode(source []byte, dest interface{}, _ primitive.ProtocolVersion) (bool, error) {
	ptr, ok := dest.(*float32)
	if !ok {
		if dest == nil {
			return false, ErrNilDestination
		}
		return false, errWrongDestinationType(c.DataType(), float32(0), dest)
	}
	if len(source) == 0 {
		*ptr = 0
		return true, nil
	}
	if len(source) != 4 {
		return false, errWrongFixedLength(4, len(source))
	}
	*ptr = math.Float32frombits(binary.BigEndian.Uint32(source))
	return false, nil
}
