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
	"math/big"
	"reflect"

	"github.com/mbrt/cqlnative/datatype"
	"github.com/mbrt/cqlnative/primitive"
)

// Decimal is the Go representation of a CQL decimal value: an arbitrary-precision unscaled
// integer together with the power-of-ten scale it's divided by. Go has no built-in
// arbitrary-precision decimal type, so this is the codec's preferred Go type.
type Decimal struct {
	Unscaled *big.Int
	Scale    int32
}

// DecimalCodec is the codec for the CQL decimal type; its preferred Go type is Decimal.
var DecimalCodec Codec = &decimalCodec{}

type decimalCodec struct{}

func (c *decimalCodec) DataType() datatype.DataType { return datatype.Decimal }
func (c *decimalCodec) GoType() reflect.Type         { return reflect.TypeOf(Decimal{}) }

func (c *decimalCodec) Encode(source interface{}, _ primitive.ProtocolVersion) ([]byte, error) {
	if source == nil {
		return nil, nil
	}
	var d Decimal
	switch v := source.(type) {
	case Decimal:
		d = v
	case *Decimal:
		if v == nil {
			return nil, nil
		}
		d = *v
	default:
		return nil, errWrongSourceType(c.DataType(), d, source)
	}
	unscaled := primitive.EncodeVarint(d.Unscaled)
	dest := make([]byte, 4+len(unscaled))
	binary.BigEndian.PutUint32(dest, uint32(d.Scale))
	copy(dest[4:], unscaled)
	return dest, nil
}

func (c *decimalCodec) Decode(source []byte, dest interface{}, _ primitive.ProtocolVersion) (bool, error) {
	ptr, ok := dest.(*Decimal)
	if !ok {
		if dest == nil {
			return false, ErrNilDestination
		}
		return false, errWrongDestinationType(c.DataType(), Decimal{}, dest)
	}
	if source == nil {
		*ptr = Decimal{}
		return true, nil
	}
	if len(source) < 4 {
		return false, errWrongFixedLength(4, len(source))
	}
	scale := int32(binary.BigEndian.Uint32(source))
	unscaled := primitive.DecodeVarint(source[4:])
	*ptr = Decimal{Unscaled: unscaled, Scale: scale}
	return false, nil
}
