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

// Package datatype describes CQL column type tags.
package datatype

import (
	"fmt"
	"io"

	"github.com/mbrt/cqlnative/primitive"
)

// DataType is a decoded column type descriptor.
type DataType interface {
	Code() primitive.DataTypeCode
	String() string
}

// PrimitiveType is any scalar type identified solely by its type code (no inner types, no
// class name): ascii, bigint, blob, boolean, counter, decimal, double, float, int, text,
// timestamp, uuid, varchar, varint, timeuuid, inet.
type PrimitiveType struct {
	code primitive.DataTypeCode
}

func (t PrimitiveType) Code() primitive.DataTypeCode { return t.code }
func (t PrimitiveType) String() string                { return t.code.String() }

var (
	Ascii     = PrimitiveType{primitive.DataTypeCodeAscii}
	Bigint    = PrimitiveType{primitive.DataTypeCodeBigint}
	Blob      = PrimitiveType{primitive.DataTypeCodeBlob}
	Boolean   = PrimitiveType{primitive.DataTypeCodeBoolean}
	Counter   = PrimitiveType{primitive.DataTypeCodeCounter}
	Decimal   = PrimitiveType{primitive.DataTypeCodeDecimal}
	Double    = PrimitiveType{primitive.DataTypeCodeDouble}
	Float     = PrimitiveType{primitive.DataTypeCodeFloat}
	Int       = PrimitiveType{primitive.DataTypeCodeInt}
	Text      = PrimitiveType{primitive.DataTypeCodeText}
	Timestamp = PrimitiveType{primitive.DataTypeCodeTimestamp}
	Uuid      = PrimitiveType{primitive.DataTypeCodeUuid}
	Varchar   = PrimitiveType{primitive.DataTypeCodeVarchar}
	Varint    = PrimitiveType{primitive.DataTypeCodeVarint}
	Timeuuid  = PrimitiveType{primitive.DataTypeCodeTimeuuid}
	Inet      = PrimitiveType{primitive.DataTypeCodeInet}
)

// CustomType carries an opaque Java class name instead of a structured descriptor; the value
// codec passes these values through as raw []byte.
type CustomType struct {
	ClassName string
}

func (t CustomType) Code() primitive.DataTypeCode { return primitive.DataTypeCodeCustom }
func (t CustomType) String() string               { return fmt.Sprintf("custom(%s)", t.ClassName) }

// ListType is a single-element-type collection.
type ListType struct {
	ElementType DataType
}

func (t ListType) Code() primitive.DataTypeCode { return primitive.DataTypeCodeList }
func (t ListType) String() string               { return fmt.Sprintf("list<%v>", t.ElementType) }

// SetType is a single-element-type collection.
type SetType struct {
	ElementType DataType
}

func (t SetType) Code() primitive.DataTypeCode { return primitive.DataTypeCodeSet }
func (t SetType) String() string               { return fmt.Sprintf("set<%v>", t.ElementType) }

// MapType carries two inner types: key and value.
type MapType struct {
	KeyType   DataType
	ValueType DataType
}

func (t MapType) Code() primitive.DataTypeCode { return primitive.DataTypeCodeMap }
func (t MapType) String() string {
	return fmt.Sprintf("map<%v, %v>", t.KeyType, t.ValueType)
}

var primitiveTypes = map[primitive.DataTypeCode]DataType{
	primitive.DataTypeCodeAscii:     Ascii,
	primitive.DataTypeCodeBigint:    Bigint,
	primitive.DataTypeCodeBlob:      Blob,
	primitive.DataTypeCodeBoolean:   Boolean,
	primitive.DataTypeCodeCounter:   Counter,
	primitive.DataTypeCodeDecimal:   Decimal,
	primitive.DataTypeCodeDouble:    Double,
	primitive.DataTypeCodeFloat:     Float,
	primitive.DataTypeCodeInt:       Int,
	primitive.DataTypeCodeText:      Text,
	primitive.DataTypeCodeTimestamp: Timestamp,
	primitive.DataTypeCodeUuid:      Uuid,
	primitive.DataTypeCodeVarchar:   Varchar,
	primitive.DataTypeCodeVarint:    Varint,
	primitive.DataTypeCodeTimeuuid:  Timeuuid,
	primitive.DataTypeCodeInet:      Inet,
}

// WriteDataType writes a type code followed by any inner type descriptors the tag requires
// (collection tags carry one or two inner types, CUSTOM carries a class
// name string).
func WriteDataType(t DataType, dest io.Writer) error {
	if err := primitive.WriteShort(uint16(t.Code()), dest); err != nil {
		return fmt.Errorf("cannot write data type code: %w", err)
	}
	switch v := t.(type) {
	case CustomType:
		return primitive.WriteString(v.ClassName, dest)
	case ListType:
		return WriteDataType(v.ElementType, dest)
	case SetType:
		return WriteDataType(v.ElementType, dest)
	case MapType:
		if err := WriteDataType(v.KeyType, dest); err != nil {
			return err
		}
		return WriteDataType(v.ValueType, dest)
	default:
		return nil
	}
}

// ReadDataType reads a type code and, if the tag requires it, the inner type descriptor(s).
func ReadDataType(source io.Reader) (DataType, error) {
	code, err := primitive.ReadShort(source)
	if err != nil {
		return nil, fmt.Errorf("cannot read data type code: %w", err)
	}
	typeCode := primitive.DataTypeCode(code)
	switch typeCode {
	case primitive.DataTypeCodeCustom:
		className, err := primitive.ReadString(source)
		if err != nil {
			return nil, fmt.Errorf("cannot read custom type class name: %w", err)
		}
		return CustomType{ClassName: className}, nil
	case primitive.DataTypeCodeList:
		elem, err := ReadDataType(source)
		if err != nil {
			return nil, fmt.Errorf("cannot read list element type: %w", err)
		}
		return ListType{ElementType: elem}, nil
	case primitive.DataTypeCodeSet:
		elem, err := ReadDataType(source)
		if err != nil {
			return nil, fmt.Errorf("cannot read set element type: %w", err)
		}
		return SetType{ElementType: elem}, nil
	case primitive.DataTypeCodeMap:
		key, err := ReadDataType(source)
		if err != nil {
			return nil, fmt.Errorf("cannot read map key type: %w", err)
		}
		value, err := ReadDataType(source)
		if err != nil {
			return nil, fmt.Errorf("cannot read map value type: %w", err)
		}
		return MapType{KeyType: key, ValueType: value}, nil
	default:
		if t, found := primitiveTypes[typeCode]; found {
			return t, nil
		}
		return nil, fmt.Errorf("unknown data type code: %#.4x", code)
	}
}
