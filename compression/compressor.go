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

// Package compression provides the frame body compressors negotiated during STARTUP.
package compression

import "io"

// BodyCompressor compresses and decompresses frame bodies for one algorithm.
type BodyCompressor interface {
	// Algorithm is the STARTUP option value identifying this compressor, e.g. "SNAPPY" or "LZ4".
	Algorithm() string

	// Compress reads source fully and writes the compressed result to dest.
	Compress(source io.Reader, dest io.Writer) error

	// Decompress reads source fully and writes the decompressed result to dest.
	Decompress(source io.Reader, dest io.Writer) error
}
