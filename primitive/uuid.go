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

const LengthOfUuid = 16

// ReadUuid reads a [uuid]: 16 raw bytes, used verbatim both for UUID and TIMEUUID columns.
func ReadUuid(source io.Reader) ([16]byte, error) {
	var decoded [16]byte
	if _, err := io.ReadFull(source, decoded[:]); err != nil {
		return decoded, fmt.Errorf("cannot read [uuid] content: %w", err)
	}
	return decoded, nil
}

func WriteUuid(u [16]byte, dest io.Writer) error {
	if _, err := dest.Write(u[:]); err != nil {
		return fmt.Errorf("cannot write [uuid] content: %w", err)
	}
	return nil
}
