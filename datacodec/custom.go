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

// NewCustom returns a codec for a CUSTOM column, whose Java class name is opaque to this
// client; values are passed through as raw []byte.
func NewCustom(dt datatype.CustomType) Codec {
	return &customCodec{dt: dt}
}

type customCodec struct {
	dt datatype.CustomType
}

func (c *customCodec) DataType() datatype.DataType { return c.dt }
func (c *customCodec) GoType() reflect.Type         { return reflect.TypeOf([]byte(nil)) }

func (c *customCodec) Encode(source interface{}, version primitive.ProtocolVersion) ([]byte, error) {
	return Blob.Encode(source, version)
}

func (c *customCodec) Decode(source []byte, dest interface{}, version primitive.ProtocolVersion) (bool, error) {
	return Blob.Decode(source, dest, version)
}
