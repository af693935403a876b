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

package snappy

import (
	"bytes"
	"fmt"
	"io"

	"github.com/golang/snappy"
)

// BodyCompressor satisfies compression.BodyCompressor for the SNAPPY algorithm, the
// conventional choice for protocol v1.
type BodyCompressor struct{}

func (BodyCompressor) Algorithm() string { return "SNAPPY" }

func (BodyCompressor) Compress(source io.Reader, dest io.Writer) error {
	buf, err := readAll(source)
	if err != nil {
		return fmt.Errorf("cannot read uncompressed body: %w", err)
	}
	if _, err := dest.Write(snappy.Encode(nil, buf)); err != nil {
		return fmt.Errorf("cannot write compressed body: %w", err)
	}
	return nil
}

func (BodyCompressor) Decompress(source io.Reader, dest io.Writer) error {
	buf, err := readAll(source)
	if err != nil {
		return fmt.Errorf("cannot read compressed body: %w", err)
	}
	decoded, err := snappy.Decode(nil, buf)
	if err != nil {
		return fmt.Errorf("cannot decompress body: %w", err)
	}
	if _, err := dest.Write(decoded); err != nil {
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
