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

// Bigint is the codec for the CQL bigint type; its preferred Go type is int64.
var Bigint Codec = &int64Codec{dt: datatype.Bigint}

// Counter is the codec for the CQL counter type. Counters share bigint's wire shape; only the
// type tag differs.
var Counter Codec = &int64Codec{dt: datatype.Counter}

type int64Codec struct {
	dt datatype.DataType
}

func (c *int64Codec) DataType() datatype.DataType { return c.dt }
func (c *int64Codec) GoType() reflect.Type         { return reflect.TypeOf(int64(0)) }

func (c *int64Codec) Encode(source interface{}, _ primitive.ProtocolVersion) ([]byte, error) {
	if source == nil {
		return nil, nil
	}
	var n int64
	switch v := source.(type) {
	case int64:
		n = v
	case *int64:
		if v == nil {
			return nil, nil
		}
		n = *v
	default:
		return nil, errWrongSourceType(c.DataType(), n, source)
	}
	dest := make([]byte, 8)
	binary.BigEndian.PutUint64(dest, uint64(n))
	return dest, nil
}

func (c *int64Codec) Decode(source []byte, dest interface{}, _ primitive.ProtocolVersion) (bool, error) {
	ptr, ok := dest.(*int64)
	if !ok {
		if dest == nil {
			return false, ErrNilDestination
		}
		return false, errWrongDestinationType(c.DataType(), int64(0), dest)
	}
	if len(source) == 0 {
		*ptr = 0
		return true, nil
	}
	if len(source) != 8 {
		return false, errWrongFixedLength(8, len(source))
	}
	*ptr = int64(binary.BigEndian.Uint64(source))
	return false, nil
}
