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

// Ascii is the codec for the CQL ascii type; its preferred Go type is string.
var Ascii Codec = &stringCodec{dt: datatype.Ascii}

// Varchar is the codec for the CQL varchar/text type; its preferred Go type is string.
var Varchar Codec = &stringCodec{dt: datatype.Varchar}

type stringCodec struct {
	dt datatype.DataType
}

func (c *stringCodec) DataType() datatype.DataType { return c.dt }
func (c *stringCodec) GoType() reflect.Type         { return reflect.TypeOf("") }

func (c *stringCodec) Encode(source interface{}, _ primitive.ProtocolVersion) ([]byte, error) {
	if source == nil {
		return nil, nil
	}
	var s string
	switch v := source.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil, nil
		}
		s = *v
	default:
		return nil, errWrongSourceType(c.DataType(), s, source)
	}
	return []byte(s), nil
}

func (c *stringCodec) Decode(source []byte, dest interface{}, _ primitive.ProtocolVersion) (bool, error) {
	ptr, ok := dest.(*string)
	if !ok {
		if dest == nil {
			return false, ErrNilDestination
		}
		return false, errWrongDestinationType(c.DataType(), "", dest)
	}
	if source == nil {
		*ptr = ""
		return true, nil
	}
	*ptr = string(source)
	return false, nil
}
