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

package message

import (
	"fmt"
	"io"

	"github.com/mbrt/cqlnative/primitive"
)

// QueryOptions is the set of options shared by Query and Execute bodies.
type QueryOptions struct {
	// Consistency is mandatory; its zero value is primitive.ConsistencyLevelAny, which is not
	// suitable for reads.
	Consistency primitive.ConsistencyLevel

	// PositionalValues binds '?' markers in order. Mutually exclusive with NamedValues: if both
	// are set, positional values win and named values are ignored.
	PositionalValues [][]byte

	// NamedValues binds ':name' markers. Only usable when the negotiated protocol version
	// supports named values.
	NamedValues map[string][]byte

	// SkipMetadata asks the server to omit column metadata from the RowsResult; the response's
	// column.Metadata.Columns will be empty but Metadata itself still carries paging state.
	SkipMetadata bool

	// PageSize is the desired page size; zero or negative means no pagination.
	PageSize int32

	// PagingState resumes a previous query from a prior RowsResult's paging state. Only usable
	// when the negotiated protocol version supports paging.
	PagingState []byte

	// SerialConsistency is the consistency level for the serial phase of a conditional update.
	// Only usable when the negotiated protocol version supports it.
	SerialConsistency *primitive.ConsistencyLevel
}

func (o *QueryOptions) String() string {
	return fmt.Sprintf("[cl=%v, positionalVals=%d, namedVals=%d, skip=%v, psize=%v]",
		o.Consistency, len(o.PositionalValues), len(o.NamedValues), o.SkipMetadata, o.PageSize)
}

func (o *QueryOptions) flags() primitive.QueryFlag {
	var flags primitive.QueryFlag
	if o.PositionalValues != nil {
		flags = flags.Add(primitive.QueryFlagValues)
	} else if o.NamedValues != nil {
		flags = flags.Add(primitive.QueryFlagValues).Add(primitive.QueryFlagValueNames)
	}
	if o.SkipMetadata {
		flags = flags.Add(primitive.QueryFlagSkipMetadata)
	}
	if o.PageSize > 0 {
		flags = flags.Add(primitive.QueryFlagPageSize)
	}
	if o.PagingState != nil {
		flags = flags.Add(primitive.QueryFlagPagingState)
	}
	if o.SerialConsistency != nil {
		flags = flags.Add(primitive.QueryFlagSerialConsistency)
	}
	return flags
}

func EncodeQueryOptions(options *QueryOptions, dest io.Writer, version primitive.ProtocolVersion) error {
	if options == nil {
		options = &QueryOptions{}
	}
	if err := primitive.WriteShort(uint16(options.Consistency), dest); err != nil {
		return fmt.Errorf("cannot write consistency: %w", err)
	}
	flags := options.flags()
	if flags.Contains(primitive.QueryFlagValueNames) && !version.SupportsNamedValues() {
		return fmt.Errorf("named values are not supported in %v", version)
	}
	if flags.Contains(primitive.QueryFlagPagingState) && !version.SupportsPaging() {
		return fmt.Errorf("paging is not supported in %v", version)
	}
	if flags.Contains(primitive.QueryFlagSerialConsistency) && !version.SupportsSerialConsistency() {
		return fmt.Errorf("serial consistency is not supported in %v", version)
	}
	if err := primitive.WriteByte(uint8(flags), dest); err != nil {
		return fmt.Errorf("cannot write query flags: %w", err)
	}
	if flags.Contains(primitive.QueryFlagValues) {
		if flags.Contains(primitive.QueryFlagValueNames) {
			if err := primitive.WriteNamedValues(options.NamedValues, dest); err != nil {
				return fmt.Errorf("cannot write named values: %w", err)
			}
		} else if err := primitive.WritePositionalValues(options.PositionalValues, dest); err != nil {
			return fmt.Errorf("cannot write positional values: %w", err)
		}
	}
	if flags.Contains(primitive.QueryFlagPageSize) {
		if err := primitive.WriteInt(options.PageSize, dest); err != nil {
			return fmt.Errorf("cannot write page size: %w", err)
		}
	}
	if flags.Contains(primitive.QueryFlagPagingState) {
		if err := primitive.WriteBytes(options.PagingState, dest); err != nil {
			return fmt.Errorf("cannot write paging state: %w", err)
		}
	}
	if flags.Contains(primitive.QueryFlagSerialConsistency) {
		if err := primitive.WriteShort(uint16(*options.SerialConsistency), dest); err != nil {
			return fmt.Errorf("cannot write serial consistency: %w", err)
		}
	}
	return nil
}

func DecodeQueryOptions(source io.Reader, version primitive.ProtocolVersion) (*QueryOptions, error) {
	options := &QueryOptions{}
	consistency, err := primitive.ReadShort(source)
	if err != nil {
		return nil, fmt.Errorf("cannot read consistency: %w", err)
	}
	options.Consistency = primitive.ConsistencyLevel(consistency)
	flagByte, err := primitive.ReadByte(source)
	if err != nil {
		return nil, fmt.Errorf("cannot read query flags: %w", err)
	}
	flags := primitive.QueryFlag(flagByte)
	if flags.Contains(primitive.QueryFlagValues) {
		if flags.Contains(primitive.QueryFlagValueNames) {
			options.NamedValues, err = primitive.ReadNamedValues(source)
		} else {
			options.PositionalValues, err = primitive.ReadPositionalValues(source)
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read bound values: %w", err)
		}
	}
	options.SkipMetadata = flags.Contains(primitive.QueryFlagSkipMetadata)
	if flags.Contains(primitive.QueryFlagPageSize) {
		if options.PageSize, err = primitive.ReadInt(source); err != nil {
			return nil, fmt.Errorf("cannot read page size: %w", err)
		}
	}
	if flags.Contains(primitive.QueryFlagPagingState) {
		if options.PagingState, err = primitive.ReadBytes(source); err != nil {
			return nil, fmt.Errorf("cannot read paging state: %w", err)
		}
	}
	if flags.Contains(primitive.QueryFlagSerialConsistency) {
		serial, err := primitive.ReadShort(source)
		if err != nil {
			return nil, fmt.Errorf("cannot read serial consistency: %w", err)
		}
		cl := primitive.ConsistencyLevel(serial)
		options.SerialConsistency = &cl
	}
	return options, nil
}

func lengthOfQueryOptions(options *QueryOptions) int {
	if options == nil {
		options = &QueryOptions{}
	}
	length := primitive.LengthOfShort + primitive.LengthOfByte
	flags := options.flags()
	if flags.Contains(primitive.QueryFlagValues) {
		if flags.Contains(primitive.QueryFlagValueNames) {
			length += primitive.LengthOfNamedValues(options.NamedValues)
		} else {
			length += primitive.LengthOfPositionalValues(options.PositionalValues)
		}
	}
	if flags.Contains(primitive.QueryFlagPageSize) {
		length += primitive.LengthOfInt
	}
	if flags.Contains(primitive.QueryFlagPagingState) {
		length += primitive.LengthOfBytes(options.PagingState)
	}
	if flags.Contains(primitive.QueryFlagSerialConsistency) {
		length += primitive.LengthOfShort
	}
	return length
}
