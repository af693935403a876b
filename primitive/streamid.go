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

// StreamId ranges and reserved ids. Protocol v1/v2 stream ids are a single
// signed byte, so ids go from -128 to 127; this library only ever allocates 1..127 to user
// requests and reserves 0 and -1 as described below.
const (
	// MinStreamId is the lowest stream id a connection will allocate to a user request.
	MinStreamId = int8(1)
	// MaxStreamId is the highest stream id a connection will allocate to a user request
	// (127 concurrent in-flight requests per connection).
	MaxStreamId = int8(127)
	// EventStreamId is reserved for server-initiated EVENT frames.
	EventStreamId = int8(-1)
	// ServerErrorStreamId is used by the server for an ERROR frame not correlated to any
	// client request (e.g. a protocol-level error detected before a stream id could be read).
	ServerErrorStreamId = int8(0)
)
