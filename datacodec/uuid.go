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

	"github.com/google/uuid"

	"github.com/mbrt/cqlnative/datatype"
	"github.com/mbrt/cqlnative/primitive"
)

// Uuid is the codec for the CQL uuid type; its preferred Go type is uuid.UUID.
var Uuid Codec = &uuidCodec{dt: datatype.Uuid}

// Timeuuid is the codec for the CQL timeuuid type. It shares uuid's 16-byte wire shape; only
// the type tag differs.
var Timeuuid Codec = &uuidCodec{dt: datatype.Timeuuid}

type uuidCodec struct {
	dt datatype.DataType
}

func (c *uuidCodec) DataType() datatype.DataType { return c.dt }
func (c *uuidCodec) GoType() reflect.Type         { return reflect.TypeOf(uuid.UUID{}) }

func (c *uuidCodec) Encode(source interface{}, _ primitive.ProtocolVersion) ([]byte, error) {
	if source == nil {
		return nil, nil
	}
	var u uuid.UUID
	switch v := source.(type) {
	case uuid.UUID:
		u = v
	case *uuid.UUID:
		if v == nil {
			return nil, nil
		}
		u = *v
	default:
		return nil, errWrongSourceType(c.DataType(), u, source)
	}
	b := u
	return b[:], nil
}

func (c *uuidCodec) Decode(source []byte, dest interface{}, _ primitive.ProtocolVersion) (bool, error) {
	ptr, ok := dest.(*uuid.UUID)
	if !ok {
		if dest == nil {
			return false, ErrNilDestination
		}
		return false, errWrongDestinationType(c.DataType(), uuid.UUID{}, dest)
	}
	if len(source) == 0 {
		*ptr = uuid.UUID{}
		return true, nil
	}
	if len(source) != 16 {
		return false, errWrongFixedLength(16, len(source))
	}
	var u uuid.UUID
	copy(u[:], source)
	*ptr = u
	return false, nil
}
