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
	"time"

	"github.com/mbrt/cqlnative/datatype"
	"github.com/mbrt/cqlnative/primitive"
)

// Timestamp is the codec for the CQL timestamp type; its preferred Go type is time.Time. The
// wire value is a signed count of milliseconds since the Unix epoch, UTC.
var Timestamp Codec = &timestampCodec{}

type timestampCodec struct{}

func (c *timestampCodec) DataType() datatype.DataType { return datatype.Timestamp }
func (c *timestampCodec) GoType() reflect.Type         { return reflect.TypeOf(time.Time{}) }

func (c *timestampCodec) Encode(source interface{}, _ primitive.ProtocolVersion) ([]byte, error) {
	if source == nil {
		return nil, nil
	}
	var t time.Time
	switch v := source.(type) {
	case time.Time:
		t = v
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		t = *v
	default:
		return nil, errWrongSourceType(c.DataType(), t, source)
	}
	dest := make([]byte, 8)
	binary.BigEndian.PutUint64(dest, uint64(t.UnixMilli()))
	return dest, nil
}

func (c *timestampCodec) Decode(source []byte, dest interface{}, _ primitive.ProtocolVersion) (bool, error) {
	ptr, ok := dest.(*time.Time)
	if !ok {
		if dest == nil {
			return false, ErrNilDestination
		}
		return false, errWrongDestinationType(c.DataType(), time.Time{}, dest)
	}
	if len(source) == 0 {
		*ptr = time.Time{}
		return true, nil
	}
	if len(source) != 8 {
		return false, errWrongFixedLength(8, len(source))
	}
	millis := int64(binary.BigEndian.Uint64(source))
	*ptr = time.UnixMilli(millis).UTC()
	return false, nil
}
