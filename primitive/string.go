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

// ReadString reads a [string]: a [short] length followed by that many UTF-8 bytes.
func ReadString(source io.Reader) (string, error) {
	length, err := ReadShort(source)
	if err != nil {
		return "", fmt.Errorf("cannot read [string] length: %w", err)
	}
	decoded := make([]byte, length)
	if _, err := io.ReadFull(source, decoded); err != nil {
		return "", fmt.Errorf("cannot read [string] content: %w", err)
	}
	return string(decoded), nil
}

func WriteString(s string, dest io.Writer) error {
	if err := WriteShort(uint16(len(s)), dest); err != nil {
		return fmt.Errorf("cannot write [string] length: %w", err)
	}
	if _, err := dest.Write([]byte(s)); err != nil {
		return fmt.Errorf("cannot write [string] content: %w", err)
	}
	return nil
}

func LengthOfString(s string) int {
	return LengthOfShort + len(s)
}

// ReadLongString reads a [long string]: an [int] length followed by that many UTF-8 bytes.
func ReadLongString(source io.Reader) (string, error) {
	length, err := ReadInt(source)
	if err != nil {
		return "", fmt.Errorf("cannot read [long string] length: %w", err)
	}
	decoded := make([]byte, length)
	if _, err := io.ReadFull(source, decoded); err != nil {
		return "", fmt.Errorf("cannot read [long string] content: %w", err)
	}
	return string(decoded), nil
}

func WriteLongString(s string, dest io.Writer) error {
	if err := WriteInt(int32(len(s)), dest); err != nil {
		return fmt.Errorf("cannot write [long string] length: %w", err)
	}
	if _, err := dest.Write([]byte(s)); err != nil {
		return fmt.Errorf("cannot write [long string] content: %w", err)
	}
	return nil
}

func LengthOfLongString(s string) int {
	return LengthOfInt + len(s)
}

// ReadStringList reads a [string list]: a [short] count followed by that many [string]s.
func ReadStringList(source io.Reader) ([]string, error) {
	count, err := ReadShort(source)
	if err != nil {
		return nil, fmt.Errorf("cannot read [string list] length: %w", err)
	}
	list := make([]string, count)
	for i := 0; i < int(count); i++ {
		if list[i], err = ReadString(source); err != nil {
			return nil, fmt.Errorf("cannot read [string list] element: %w", err)
		}
	}
	return list, nil
}

func WriteStringList(list []string, dest io.Writer) error {
	if err := WriteShort(uint16(len(list)), dest); err != nil {
		return fmt.Errorf("cannot write [string list] length: %w", err)
	}
	for _, s := range list {
		if err := WriteString(s, dest); err != nil {
			return fmt.Errorf("cannot write [string list] element: %w", err)
		}
	}
	return nil
}

func LengthOfStringList(list []string) int {
	length := LengthOfShort
	for _, s := range list {
		length += LengthOfString(s)
	}
	return length
}
