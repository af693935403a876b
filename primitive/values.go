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

package primitive

import (
	"fmt"
	"io"
)

// ReadPositionalValues reads a [short] count followed by that many [bytes] values, in the
// order the query's bind markers appear. v1/v2 have no UNSET value: a bound parameter is
// either a regular byte string or NULL (a negative-length [bytes]).
func ReadPositionalValues(source io.Reader) ([][]byte, error) {
	count, err := ReadShort(source)
	if err != nil {
		return nil, fmt.Errorf("cannot read positional values count: %w", err)
	}
	values := make([][]byte, count)
	for i := range values {
		if values[i], err = ReadBytes(source); err != nil {
			return nil, fmt.Errorf("cannot read positional value %d: %w", i, err)
		}
	}
	return values, nil
}

func WritePositionalValues(values [][]byte, dest io.Writer) error {
	if err := WriteShort(uint16(len(values)), dest); err != nil {
		return fmt.Errorf("cannot write positional values count: %w", err)
	}
	for i, v := range values {
		if err := WriteBytes(v, dest); err != nil {
			return fmt.Errorf("cannot write positional value %d: %w", i, err)
		}
	}
	return nil
}

func LengthOfPositionalValues(values [][]byte) int {
	length := LengthOfShort
	for _, v := range values {
		length += LengthOfBytes(v)
	}
	return length
}

// ReadNamedValues reads a [short] count followed by that many ([string], [bytes]) pairs, used
// when a query binds markers by name instead of by position.
func ReadNamedValues(source io.Reader) (map[string][]byte, error) {
	count, err := ReadShort(source)
	if err != nil {
		return nil, fmt.Errorf("cannot read named values count: %w", err)
	}
	values := make(map[string][]byte, count)
	for i := uint16(0); i < count; i++ {
		name, err := ReadString(source)
		if err != nil {
			return nil, fmt.Errorf("cannot read named value %d name: %w", i, err)
		}
		value, err := ReadBytes(source)
		if err != nil {
			return nil, fmt.Errorf("cannot read named value %q: %w", name, err)
		}
		values[name] = value
	}
	return values, nil
}

func WriteNamedValues(values map[string][]byte, dest io.Writer) error {
	if err := WriteShort(uint16(len(values)), dest); err != nil {
		return fmt.Errorf("cannot write named values count: %w", err)
	}
	for name, value := range values {
		if err := WriteString(name, dest); err != nil {
			return fmt.Errorf("cannot write named value name %q: %w", name, err)
		}
		if err := WriteBytes(value, dest); err != nil {
			return fmt.Errorf("cannot write named value %q: %w", name, err)
		}
	}
	return nil
}

func LengthOfNamedValues(values map[string][]byte) int {
	length := LengthOfShort
	for name, value := range values {
		length += LengthOfString(name) + LengthOfBytes(value)
	}
	return length
}
