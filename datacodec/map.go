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
	"bytes"
	"fmt"
	"reflect"

	"github.com/mbrt/cqlnative/datatype"
	"github.com/mbrt/cqlnative/primitive"
)

// NewMap returns a codec for a map<keyType, valueType> column; its preferred Go type is
// map[interface{}]interface{}.
func NewMap(dt datatype.MapType) (Codec, error) {
	keyCodec, err := NewCodec(dt.KeyType)
	if err != nil {
		return nil, fmt.Errorf("cannot create codec for map key type: %w", err)
	}
	valueCodec, err := NewCodec(dt.ValueType)
	if err != nil {
		return nil, fmt.Errorf("cannot create codec for map value type: %w", err)
	}
	return &mapCodec{dt: dt, keyCodec: keyCodec, valueCodec: valueCodec}, nil
}

type mapCodec struct {
	dt         datatype.DataType
	keyCodec   Codec
	valueCodec Codec
}

func (c *mapCodec) DataType() datatype.DataType { return c.dt }

func (c *mapCodec) GoType() reflect.Type {
	return reflect.TypeOf(map[interface{}]interface{}(nil))
}

func (c *mapCodec) Encode(source interface{}, version primitive.ProtocolVersion) ([]byte, error) {
	if source == nil {
		return nil, nil
	}
	entries, ok := source.(map[interface{}]interface{})
	if !ok {
		return nil, errWrongSourceType(c.DataType(), map[interface{}]interface{}(nil), source)
	}
	buf := &bytes.Buffer{}
	if err := primitive.WriteShort(uint16(len(entries)), buf); err != nil {
		return nil, fmt.Errorf("cannot write map size: %w", err)
	}
	i := 0
	for key, value := range entries {
		if key == nil {
			return nil, fmt.Errorf("entry %d key is nil", i)
		}
		if value == nil {
			return nil, fmt.Errorf("entry %d value is nil", i)
		}
		encodedKey, err := c.keyCodec.Encode(key, version)
		if err != nil {
			return nil, errCannotEncodeMapKey(i, err)
		}
		if err := primitive.WriteBytes(encodedKey, buf); err != nil {
			return nil, fmt.Errorf("cannot write entry %d key: %w", i, err)
		}
		encodedValue, err := c.valueCodec.Encode(value, version)
		if err != nil {
			return nil, errCannotEncodeMapValue(i, err)
		}
		if err := primitive.WriteBytes(encodedValue, buf); err != nil {
			return nil, fmt.Errorf("cannot write entry %d value: %w", i, err)
		}
		i++
	}
	return buf.Bytes(), nil
}

func (c *mapCodec) Decode(source []byte, dest interface{}, version primitive.ProtocolVersion) (bool, error) {
	ptr, ok := dest.(*map[interface{}]interface{})
	if !ok {
		if dest == nil {
			return false, ErrNilDestination
		}
		return false, errWrongDestinationType(c.DataType(), map[interface{}]interface{}(nil), dest)
	}
	if source == nil {
		*ptr = nil
		return true, nil
	}
	reader := bytes.NewReader(source)
	size, err := primitive.ReadShort(reader)
	if err != nil {
		return false, fmt.Errorf("cannot read map size: %w", err)
	}
	entries := make(map[interface{}]interface{}, size)
	for i := 0; i < int(size); i++ {
		encodedKey, err := primitive.ReadBytes(reader)
		if err != nil {
			return false, errCannotDecodeMapKey(i, err)
		}
		keyDest := newZeroValue(c.keyCodec)
		if _, err := c.keyCodec.Decode(encodedKey, keyDest, version); err != nil {
			return false, errCannotDecodeMapKey(i, err)
		}
		encodedValue, err := primitive.ReadBytes(reader)
		if err != nil {
			return false, errCannotDecodeMapValue(i, err)
		}
		valueDest := newZeroValue(c.valueCodec)
		if _, err := c.valueCodec.Decode(encodedValue, valueDest, version); err != nil {
			return false, errCannotDecodeMapValue(i, err)
		}
		entries[derefZeroValue(keyDest)] = derefZeroValue(valueDest)
	}
	if remaining := reader.Len(); remaining != 0 {
		return false, fmt.Errorf("map has %d trailing bytes", remaining)
	}
	*ptr = entries
	return false, nil
}
