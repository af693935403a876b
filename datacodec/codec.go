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

// Package datacodec converts between CQL column values on the wire and their preferred Go
// representation, one codec per CQL type. NewCodec picks the codec from the descriptor's kind
// (primitive, custom, list, set, map) and, for primitive types, from its type code.
package datacodec

import (
	"reflect"

	"github.com/mbrt/cqlnative/datatype"
	"github.com/mbrt/cqlnative/primitive"
)

// Encoder turns a Go value into the raw bytes of a single CQL column value. source must be a
// value of the codec's preferred Go type or nil; nil encodes as CQL NULL. Most scalar codecs
// also accept a pointer to the preferred type; the blob, inet, varint, custom and collection
// codecs do not.
type Encoder interface {
	Encode(source interface{}, version primitive.ProtocolVersion) ([]byte, error)
}

// Decoder fills a Go value from the raw bytes of a single CQL column value. dest must be a
// non-nil pointer to the codec's preferred Go type. wasNull reports whether source represented
// CQL NULL, in which case dest is set to its zero value.
type Decoder interface {
	Decode(source []byte, dest interface{}, version primitive.ProtocolVersion) (wasNull bool, err error)
}

// Codec converts one CQL type to and from its preferred Go representation.
type Codec interface {
	Encoder
	Decoder
	DataType() datatype.DataType

	// GoType is the non-pointer Go type Encode/Decode expect, e.g. string for varchar or
	// time.Time for timestamp. Collection codecs use this to create a zero value for each
	// element they decode into an []interface{}.
	GoType() reflect.Type
}

func newZeroValue(c Codec) interface{} {
	return reflect.New(c.GoType()).Interface()
}

func derefZeroValue(v interface{}) interface{} {
	return reflect.ValueOf(v).Elem().Interface()
}

// NewCodec returns the Codec for dt. Collection types (list, set, map) get a fresh codec built
// around their element codec(s); every other type resolves to a shared singleton.
func NewCodec(dt datatype.DataType) (Codec, error) {
	switch t := dt.(type) {
	case datatype.PrimitiveType:
		switch t.Code() {
		case primitive.DataTypeCodeAscii:
			return Ascii, nil
		case primitive.DataTypeCodeBigint:
			return Bigint, nil
		case primitive.DataTypeCodeBlob:
			return Blob, nil
		case primitive.DataTypeCodeBoolean:
			return Boolean, nil
		case primitive.DataTypeCodeCounter:
			return Counter, nil
		case primitive.DataTypeCodeDecimal:
			return DecimalCodec, nil
		case primitive.DataTypeCodeDouble:
			return Double, nil
		case primitive.DataTypeCodeFloat:
			return Float, nil
		case primitive.DataTypeCodeInet:
			return Inet, nil
		case primitive.DataTypeCodeInt:
			return Int, nil
		case primitive.DataTypeCodeTimestamp:
			return Timestamp, nil
		case primitive.DataTypeCodeTimeuuid:
			return Timeuuid, nil
		case primitive.DataTypeCodeUuid:
			return Uuid, nil
		case primitive.DataTypeCodeVarchar, primitive.DataTypeCodeText:
			return Varchar, nil
		case primitive.DataTypeCodeVarint:
			return Varint, nil
		}
	case datatype.CustomType:
		return NewCustom(t), nil
	case datatype.ListType:
		return NewList(t)
	case datatype.SetType:
		return NewSet(t)
	case datatype.MapType:
		return NewMap(t)
	}
	return nil, errCannotCreateCodec(dt)
}
