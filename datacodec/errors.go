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
	"errors"
	"fmt"

	"github.com/mbrt/cqlnative/datatype"
)

var ErrNilDestination = errors.New("destination is nil")
var ErrPointerTypeExpected = errors.New("destination is not a pointer")

func errCannotCreateCodec(dt datatype.DataType) error {
	return fmt.Errorf("cannot create data codec for CQL type %v", dt)
}

func errCannotEncode(source interface{}, dt datatype.DataType, err error) error {
	return fmt.Errorf("cannot encode %T as CQL %v: %w", source, dt, err)
}

func errCannotDecode(dest interface{}, dt datatype.DataType, err error) error {
	return fmt.Errorf("cannot decode CQL %v into %T: %w", dt, dest, err)
}

func errWrongDestinationType(dt datatype.DataType, want interface{}, dest interface{}) error {
	return fmt.Errorf("cannot decode CQL %v: destination must be *%T, got %T", dt, want, dest)
}

func errWrongSourceType(dt datatype.DataType, want interface{}, source interface{}) error {
	return fmt.Errorf("cannot encode CQL %v: source must be %T or nil, got %T", dt, want, source)
}

func errWrongFixedLength(expected, actual int) error {
	return fmt.Errorf("expected %v bytes but got: %v", expected, actual)
}

func errNilElement(i int) error {
	return fmt.Errorf("element %d is nil", i)
}

func errCannotEncodeElement(i int, err error) error {
	return fmt.Errorf("cannot encode element %d: %w", i, err)
}

func errCannotDecodeElement(i int, err error) error {
	return fmt.Errorf("cannot decode element %d: %w", i, err)
}

func errCannotEncodeMapKey(i int, err error) error {
	return fmt.Errorf("cannot encode entry %d key: %w", i, err)
}

func errCannotEncodeMapValue(i int, err error) error {
	return fmt.Errorf("cannot encode entry %d value: %w", i, err)
}

func errCannotDecodeMapKey(i int, err error) error {
	return fmt.Errorf("cannot decode entry %d key: %w", i, err)
}

func errCannotDecodeMapValue(i int, err error) error {
	return fmt.Errorf("cannot decode entry %d value: %w", i, err)
}
