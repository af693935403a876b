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

package lz4

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// BodyCompressor satisfies compression.BodyCompressor for the LZ4 algorithm, the conventional
// choice for protocol v2. Cassandra expects LZ4 bodies to start with a 4-byte big-endian
// uncompressed length; the underlying lz4 block codec doesn't include that prefix, so it's
// added and stripped here.
type BodyCompressor struct{}

func (BodyCompressor) Algorithm() string { return "LZ4" }

func (BodyCompressor) Compress(source io.Reader, dest io.Writer) error {
	uncompressed, err := readAll(source)
	if err != nil {
		return fmt.Errorf("cannot read uncompressed body: %w", err)
	}
	bound := lz4.CompressBlockBound(len(uncompressed))
	out := make([]byte, bound+4)
	binary.BigEndian.PutUint32(out, uint32(len(uncompressed)))
	written, err := lz4.CompressBlock(uncompressed, out[4:], nil)
	if err != nil {
		return fmt.Errorf("cannot compress body: %w", err)
	}
	if _, err := dest.Write(out[:written+4]); err != nil {
		return fmt.Errorf("cannot write compressed body: %w", err)
	}
	return nil
}

func (BodyCompressor) Decompress(source io.Reader, dest io.Writer) error {
	var decompressedLength uint32
	if err := binary.Read(source, binary.BigEndian, &decompressedLength); err != nil {
		return fmt.Errorf("cannot read decompressed length prefix: %w", err)
	}
	if decompressedLength == 0 {
		return nil
	}
	compressed, err := readAll(source)
	if err != nil {
		return fmt.Errorf("cannot read compressed body: %w", err)
	}
	out := make([]byte, decompressedLength)
	written, err := lz4.UncompressBlock(compressed, out)
	if err != nil {
		return fmt.Errorf("cannot decompress body: %w", err)
	}
	if written != int(decompressedLength) {
		return fmt.Errorf("decompressed length mismatch: expected %d, got %d", decompressedLength, written)
	}
	if _, err := dest.Write(out[:written]); err != nil {
		return fmt.Errorf("cannot write decompressed body: %w", err)
	}
	return nil
}

func readAll(source io.Reader) ([]byte, error) {
	if b, ok := source.(*bytes.Buffer); ok {
		return b.Bytes(), nil
	}
	buf := &bytes.Buffer{}
	if _, err := buf.ReadFrom(source); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
