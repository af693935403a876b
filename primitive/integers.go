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
	"encoding/binary"
	"fmt"
	"io"
)

const (
	LengthOfByte  = 1
	LengthOfShort = 2
	LengthOfInt   = 4
	LengthOfLong  = 8
)

// ReadByte reads a [byte]: not a protocol primitive per se, but used by several others.
func ReadByte(source io.Reader) (uint8, error) {
	var decoded uint8
	if err := binary.Read(source, binary.BigEndian, &decoded); err != nil {
		return 0, fmt.Errorf("cannot read [byte]: %w", err)
	}
	return decoded, nil
}

func WriteByte(b uint8, dest io.Writer) error {
	if err := binary.Write(dest, binary.BigEndian, b); err != nil {
		return fmt.Errorf("cannot write [byte]: %w", err)
	}
	return nil
}

// ReadShort reads a [short]: an unsigned 16-bit big-endian integer.
func ReadShort(source io.Reader) (uint16, error) {
	var decoded uint16
	if err := binary.Read(source, binary.BigEndian, &decoded); err != nil {
		return 0, fmt.Errorf("cannot read [short]: %w", err)
	}
	return decoded, nil
}

func WriteShort(i uint16, dest io.Writer) error {
	if err := binary.Write(dest, binary.BigEndian, i); err != nil {
		return fmt.Errorf("cannot write [short]: %w", err)
	}
	return nil
}

// ReadInt reads an [int]: a signed 32-bit big-endian integer.
func ReadInt(source io.Reader) (int32, error) {
	var decoded int32
	if err := binary.Read(source, binary.BigEndian, &decoded); err != nil {
		return 0, fmt.Errorf("cannot read [int]: %w", err)
	}
	return decoded, nil
}

func WriteInt(i int32, dest io.Writer) error {
	if err := binary.Write(dest, binary.BigEndian, i); err != nil {
		return fmt.Errorf("cannot write [int]: %w", err)
	}
	return nil
}

// ReadLong reads a [long]: a signed 64-bit big-endian integer.
func ReadLong(source io.Reader) (int64, error) {
	var decoded int64
	if err := binary.Read(source, binary.BigEndian, &decoded); err != nil {
		return 0, fmt.Errorf("cannot read [long]: %w", err)
	}
	return decoded, nil
}

func WriteLong(l int64, dest io.Writer) error {
	if err := binary.Write(dest, binary.BigEndian, l); err != nil {
		return fmt.Errorf("cannot write [long]: %w", err)
	}
	return nil
}
