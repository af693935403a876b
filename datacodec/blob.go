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

// Blob is the codec for the CQL blob type; its preferred Go type is []byte, copied verbatim
// to and from the wire.
var Blob Codec = &blobCodec{}

type blobCodec struct{}

func (c *blobCodec) DataType() datatype.DataType { return datatype.Blob }
func (c *blobCodec) GoType() reflect.Type         { return reflect.TypeOf([]byte(nil)) }

func (c *blobCodec) Encode(source interface{}, _ primitive.ProtocolVersion) ([]byte, error) {
	if source == nil {
		return nil, nil
	}
	b, ok := source.([]byte)
	if !ok {
		return nil, errWrongSourceType(c.DataType(), []byte(nil), source)
	}
	return b, nil
}

func (c *blobCodec) Decode(source []byte, dest interface{}, _ primitive.ProtocolVersion) (bool, error) {
	ptr, ok := dest.(*[]byte)
	if !ok {
		if dest == nil {
			return false, ErrNilDestination
		}
		return false, errWrongDestinationType(c.DataType(), []byte(nil), dest)
	}
	if source == nil {
		*ptr = nil
		return true, nil
	}
	cp := make([]byte, len(source))
	copy(cp, source)
	*ptr = cp
	return false, nil
}
