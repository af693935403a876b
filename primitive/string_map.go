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
	"sort"
)

// ReadStringMap reads a [string map]: a [short] count followed by that many (string, string)
// pairs. Decoding accepts any key order.
func ReadStringMap(source io.Reader) (map[string]string, error) {
	count, err := ReadShort(source)
	if err != nil {
		return nil, fmt.Errorf("cannot read [string map] length: %w", err)
	}
	m := make(map[string]string, count)
	for i := 0; i < int(count); i++ {
		key, err := ReadString(source)
		if err != nil {
			return nil, fmt.Errorf("cannot read [string map] key: %w", err)
		}
		value, err := ReadString(source)
		if err != nil {
			return nil, fmt.Errorf("cannot read [string map] value: %w", err)
		}
		m[key] = value
	}
	return m, nil
}

// WriteStringMap writes a [string map], sorting keys lexicographically for determinism.
func WriteStringMap(m map[string]string, dest io.Writer) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if err := WriteShort(uint16(len(m)), dest); err != nil {
		return fmt.Errorf("cannot write [string map] length: %w", err)
	}
	for _, k := range keys {
		if err := WriteString(k, dest); err != nil {
			return fmt.Errorf("cannot write [string map] key: %w", err)
		}
		if err := WriteString(m[k], dest); err != nil {
			return fmt.Errorf("cannot write [string map] value: %w", err)
		}
	}
	return nil
}

func LengthOfStringMap(m map[string]string) int {
	length := LengthOfShort
	for k, v := range m {
		length += LengthOfString(k) + LengthOfString(v)
	}
	return length
}

// ReadStringMultimap reads a [string multimap]: a [short] count followed by that many
// (string, [string list]) pairs. Used by the SUPPORTED response.
func ReadStringMultimap(source io.Reader) (map[string][]string, error) {
	count, err := ReadShort(source)
	if err != nil {
		return nil, fmt.Errorf("cannot read [string multimap] length: %w", err)
	}
	m := make(map[string][]string, count)
	for i := 0; i < int(count); i++ {
		key, err := ReadString(source)
		if err != nil {
			return nil, fmt.Errorf("cannot read [string multimap] key: %w", err)
		}
		values, err := ReadStringList(source)
		if err != nil {
			return nil, fmt.Errorf("cannot read [string multimap] value: %w", err)
		}
		m[key] = values
	}
	return m, nil
}

func WriteStringMultimap(m map[string][]string, dest io.Writer) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if err := WriteShort(uint16(len(m)), dest); err != nil {
		return fmt.Errorf("cannot write [string multimap] length: %w", err)
	}
	for _, k := range keys {
		if err := WriteString(k, dest); err != nil {
			return fmt.Errorf("cannot write [string multimap] key: %w", err)
		}
		if err := WriteStringList(m[k], dest); err != nil {
			return fmt.Errorf("cannot write [string multimap] value: %w", err)
		}
	}
	return nil
}
