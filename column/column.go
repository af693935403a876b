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

// Package column describes a result set's columns and decodes its row payloads.
package column

import (
	"fmt"
	"io"
	"strings"

	"github.com/mbrt/cqlnative/datatype"
	"github.com/mbrt/cqlnative/primitive"
)

const (
	flagGlobalTableSpec = int32(0x0001)
	flagHasMorePages    = int32(0x0002)
	flagNoMetadata      = int32(0x0004)
)

// Spec describes one column of a result set or a prepared statement's bound parameters.
type Spec struct {
	Keyspace string
	Table    string
	Name     string
	Type     datatype.DataType
}

// Metadata is the decoded column-spec section of a RESULT/PREPARED body.
type Metadata struct {
	// PagingState is only populated for protocol v2 rows metadata carrying the paging flag.
	PagingState []byte
	Columns     []Spec
}

// FromFrame reads a Metadata section: flags, column count, optional global keyspace/table,
// per-column specs, and (v2 only, when the paging flag is set) a leading paging_state field.
func FromFrame(source io.Reader, version primitive.ProtocolVersion) (*Metadata, error) {
	flags, err := primitive.ReadInt(source)
	if err != nil {
		return nil, fmt.Errorf("cannot read column metadata flags: %w", err)
	}
	columnCount, err := primitive.ReadInt(source)
	if err != nil {
		return nil, fmt.Errorf("cannot read column count: %w", err)
	}
	meta := &Metadata{}
	if version.SupportsPaging() && int32(flags)&flagHasMorePages != 0 {
		if meta.PagingState, err = primitive.ReadBytes(source); err != nil {
			return nil, fmt.Errorf("cannot read paging state: %w", err)
		}
	}
	if int32(flags)&flagNoMetadata != 0 {
		return meta, nil
	}
	var globalKeyspace, globalTable string
	global := int32(flags)&flagGlobalTableSpec != 0
	if global {
		if globalKeyspace, err = primitive.ReadString(source); err != nil {
			return nil, fmt.Errorf("cannot read global keyspace: %w", err)
		}
		if globalTable, err = primitive.ReadString(source); err != nil {
			return nil, fmt.Errorf("cannot read global table: %w", err)
		}
	}
	meta.Columns = make([]Spec, columnCount)
	for i := 0; i < int(columnCount); i++ {
		spec := Spec{Keyspace: globalKeyspace, Table: globalTable}
		if !global {
			if spec.Keyspace, err = primitive.ReadString(source); err != nil {
				return nil, fmt.Errorf("cannot read column %d keyspace: %w", i, err)
			}
			if spec.Table, err = primitive.ReadString(source); err != nil {
				return nil, fmt.Errorf("cannot read column %d table: %w", i, err)
			}
		}
		if spec.Name, err = primitive.ReadString(source); err != nil {
			return nil, fmt.Errorf("cannot read column %d name: %w", i, err)
		}
		if spec.Type, err = datatype.ReadDataType(source); err != nil {
			return nil, fmt.Errorf("cannot read column %d type: %w", i, err)
		}
		meta.Columns[i] = spec
	}
	return meta, nil
}

// WriteTo encodes this Metadata, matching FromFrame's layout.
func (m *Metadata) WriteTo(dest io.Writer, version primitive.ProtocolVersion) error {
	var flags int32
	global := len(m.Columns) > 0 && haveSameTable(m.Columns)
	if global {
		flags |= flagGlobalTableSpec
	}
	if len(m.Columns) == 0 {
		flags |= flagNoMetadata
	}
	if m.PagingState != nil {
		flags |= flagHasMorePages
	}
	if err := primitive.WriteInt(flags, dest); err != nil {
		return err
	}
	if err := primitive.WriteInt(int32(len(m.Columns)), dest); err != nil {
		return err
	}
	if version.SupportsPaging() && m.PagingState != nil {
		if err := primitive.WriteBytes(m.PagingState, dest); err != nil {
			return err
		}
	}
	if len(m.Columns) == 0 {
		return nil
	}
	if global {
		if err := primitive.WriteString(m.Columns[0].Keyspace, dest); err != nil {
			return err
		}
		if err := primitive.WriteString(m.Columns[0].Table, dest); err != nil {
			return err
		}
	}
	for _, spec := range m.Columns {
		if !global {
			if err := primitive.WriteString(spec.Keyspace, dest); err != nil {
				return err
			}
			if err := primitive.WriteString(spec.Table, dest); err != nil {
				return err
			}
		}
		if err := primitive.WriteString(spec.Name, dest); err != nil {
			return err
		}
		if err := datatype.WriteDataType(spec.Type, dest); err != nil {
			return err
		}
	}
	return nil
}

func haveSameTable(columns []Spec) bool {
	for _, c := range columns[1:] {
		if c.Keyspace != columns[0].Keyspace || c.Table != columns[0].Table {
			return false
		}
	}
	return true
}

// FindColumn matches a column against its short name, "table.name", or "keyspace.table.name".
// Returns the column index, or -1 if no column matches.
func (m *Metadata) FindColumn(name string) int {
	for i, c := range m.Columns {
		if c.Name == name {
			return i
		}
		if name == c.Table+"."+c.Name {
			return i
		}
		if name == c.Keyspace+"."+c.Table+"."+c.Name {
			return i
		}
	}
	return -1
}

func (m *Metadata) String() string {
	names := make([]string, len(m.Columns))
	for i, c := range m.Columns {
		names[i] = fmt.Sprintf("%s.%s.%s:%v", c.Keyspace, c.Table, c.Name, c.Type)
	}
	return "[" + strings.Join(names, ", ") + "]"
}
