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

// NewList returns a codec for a list<elementType> column; its preferred Go type is
// []interface{}, one element per position, decoded through the element codec.
func NewList(dt datatype.ListType) (Codec, error) {
	elementCodec, err := NewCodec(dt.ElementType)
	if err != nil {
		return nil, fmt.Errorf("cannot create codec for list element type: %w", err)
	}
	return &collectionCodec{dt: dt, elementCodec: elementCodec}, nil
}

// NewSet returns a codec for a set<elementType> column. Sets share list's wire shape and Go
// representation: this client does not deduplicate or reorder set elements.
func NewSet(dt datatype.SetType) (Codec, error) {
	elementCodec, err := NewCodec(dt.ElementType)
	if err != nil {
		return nil, fmt.Errorf("cannot create codec for set element type: %w", err)
	}
	return &collectionCodec{dt: dt, elementCodec: elementCodec}, nil
}

type collectionCodec struct {
	dt           datatype.DataType
	elementCodec Codec
}

func (c *collectionCodec) DataType() datatype.DataType { return c.dt }

func (c *collectionCodec) GoType() reflect.Type {
	return reflect.TypeOf([]interface{}(nil))
}

func (c *collectionCodec) Encode(source interface{}, version primitive.ProtocolVersion) ([]byte, error) {
	if source == nil {
		return nil, nil
	}
	elems, ok := source.([]interface{})
	if !ok {
		return nil, errWrongSourceType(c.DataType(), []interface{}(nil), source)
	}
	buf := &bytes.Buffer{}
	if err := primitive.WriteShort(uint16(len(elems)), buf); err != nil {
		return nil, fmt.Errorf("cannot write collection size: %w", err)
	}
	for i, elem := range elems {
		if elem == nil {
			return nil, errNilElement(i)
		}
		encoded, err := c.elementCodec.Encode(elem, version)
		if err != nil {
			return nil, errCannotEncodeElement(i, err)
		}
		if err := primitive.WriteBytes(encoded, buf); err != nil {
			return nil, fmt.Errorf("cannot write element %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

func (c *collectionCodec) Decode(source []byte, dest interface{}, version primitive.ProtocolVersion) (bool, error) {
	ptr, ok := dest.(*[]interface{})
	if !ok {
		if dest == nil {
			return false, ErrNilDestination
		}
		return false, errWrongDestinationType(c.DataType(), []interface{}(nil), dest)
	}
	if source == nil {
		*ptr = nil
		return true, nil
	}
	reader := bytes.NewReader(source)
	size, err := primitive.ReadShort(reader)
	if err != nil {
		return false, fmt.Errorf("cannot read collection size: %w", err)
	}
	elems := make([]interface{}, size)
	for i := range elems {
		encoded, err := primitive.ReadBytes(reader)
		if err != nil {
			return false, errCannotDecodeElement(i, err)
		}
		elemDest := newZeroValue(c.elementCodec)
		if _, err := c.elementCodec.Decode(encoded, elemDest, version); err != nil {
			return false, errCannotDecodeElement(i, err)
		}
		elems[i] = derefZeroValue(elemDest)
	}
	if remaining := reader.Len(); remaining != 0 {
		return false, fmt.Errorf("collection has %d trailing bytes", remaining)
	}
	*ptr = elems
	return false, nil
}
