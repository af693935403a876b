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
	"errors"
	"fmt"
	"io"

	"github.com/mbrt/cqlnative/column"
	"github.com/mbrt/cqlnative/primitive"
)

// Result is the sum type returned by QUERY, PREPARE and EXECUTE requests; exactly one concrete
// type below is carried per response, selected by ResultType().
type Result interface {
	Message
	ResultType() primitive.ResultType
}

// VoidResult is returned for statements with no result set, e.g. most DML and DDL.
type VoidResult struct{}

func (m *VoidResult) IsResponse() bool               { return true }
func (m *VoidResult) OpCode() primitive.OpCode        { return primitive.OpCodeResult }
func (m *VoidResult) ResultType() primitive.ResultType { return primitive.ResultTypeVoid }
func (m *VoidResult) String() string                  { return "RESULT VOID" }

// SetKeyspaceResult is returned for a USE statement.
type SetKeyspaceResult struct {
	Keyspace string
}

func (m *SetKeyspaceResult) IsResponse() bool               { return true }
func (m *SetKeyspaceResult) OpCode() primitive.OpCode        { return primitive.OpCodeResult }
func (m *SetKeyspaceResult) ResultType() primitive.ResultType { return primitive.ResultTypeSetKeyspace }
func (m *SetKeyspaceResult) String() string                  { return "RESULT SET KEYSPACE " + m.Keyspace }

// SchemaChangeResult announces a keyspace or table DDL change; identical in shape to the
// SCHEMA_CHANGE event body.
type SchemaChangeResult struct {
	ChangeType primitive.SchemaChangeType
	Keyspace   string
	// Table is empty when the change applies to the keyspace itself.
	Table string
}

func (m *SchemaChangeResult) IsResponse() bool               { return true }
func (m *SchemaChangeResult) OpCode() primitive.OpCode        { return primitive.OpCodeResult }
func (m *SchemaChangeResult) ResultType() primitive.ResultType { return primitive.ResultTypeSchemaChange }

func (m *SchemaChangeResult) String() string {
	return fmt.Sprintf("RESULT SCHEMA CHANGE (%v keyspace=%v table=%v)", m.ChangeType, m.Keyspace, m.Table)
}

// PreparedResult is returned in response to PREPARE, carrying the id used later in Execute.
type PreparedResult struct {
	PreparedQueryId []byte
	// VariablesMetadata describes the statement's bound parameters, in bind-marker order.
	VariablesMetadata *column.Metadata
	// ResultMetadata describes the result set columns, populated only when the statement is a
	// SELECT and the negotiated version supports returning it (v2+).
	ResultMetadata *column.Metadata
}

func (m *PreparedResult) IsResponse() bool               { return true }
func (m *PreparedResult) OpCode() primitive.OpCode        { return primitive.OpCodeResult }
func (m *PreparedResult) ResultType() primitive.ResultType { return primitive.ResultTypePrepared }
func (m *PreparedResult) String() string                  { return fmt.Sprintf("RESULT PREPARED %x", m.PreparedQueryId) }

// RowsResult carries a result set: column metadata plus, for each row, one raw [bytes] value
// per column in metadata order.
type RowsResult struct {
	Metadata *column.Metadata
	Rows     [][][]byte
}

func (m *RowsResult) IsResponse() bool               { return true }
func (m *RowsResult) OpCode() primitive.OpCode        { return primitive.OpCodeResult }
func (m *RowsResult) ResultType() primitive.ResultType { return primitive.ResultTypeRows }

func (m *RowsResult) String() string {
	return fmt.Sprintf("RESULT ROWS (%d rows x %d cols)", len(m.Rows), len(m.Metadata.Columns))
}

type resultCodec struct{}

func init() { RegisterCodec(&resultCodec{}) }

func (c *resultCodec) OpCode() primitive.OpCode { return primitive.OpCodeResult }

func (c *resultCodec) Encode(msg Message, dest io.Writer, version primitive.ProtocolVersion) error {
	result, ok := msg.(Result)
	if !ok {
		return fmt.Errorf("expected message.Result, got %T", msg)
	}
	if err := primitive.WriteInt(int32(result.ResultType()), dest); err != nil {
		return fmt.Errorf("cannot write RESULT type: %w", err)
	}
	switch r := result.(type) {
	case *VoidResult:
		return nil
	case *SetKeyspaceResult:
		if r.Keyspace == "" {
			return errors.New("cannot write RESULT SET_KEYSPACE with an empty keyspace")
		}
		return primitive.WriteString(r.Keyspace, dest)
	case *SchemaChangeResult:
		if err := primitive.WriteString(string(r.ChangeType), dest); err != nil {
			return err
		}
		if err := primitive.WriteString(r.Keyspace, dest); err != nil {
			return err
		}
		return primitive.WriteString(r.Table, dest)
	case *PreparedResult:
		if len(r.PreparedQueryId) == 0 {
			return errors.New("cannot write RESULT PREPARED with an empty query id")
		}
		if err := primitive.WriteShortBytes(r.PreparedQueryId, dest); err != nil {
			return err
		}
		if err := r.VariablesMetadata.WriteTo(dest, version); err != nil {
			return fmt.Errorf("cannot write RESULT PREPARED variables metadata: %w", err)
		}
		if version.SupportsResultMetadataInPrepared() {
			if err := r.ResultMetadata.WriteTo(dest, version); err != nil {
				return fmt.Errorf("cannot write RESULT PREPARED result metadata: %w", err)
			}
		}
		return nil
	case *RowsResult:
		if err := r.Metadata.WriteTo(dest, version); err != nil {
			return fmt.Errorf("cannot write RESULT ROWS metadata: %w", err)
		}
		if err := primitive.WriteInt(int32(len(r.Rows)), dest); err != nil {
			return fmt.Errorf("cannot write RESULT ROWS row count: %w", err)
		}
		for i, row := range r.Rows {
			for j, col := range row {
				if err := primitive.WriteBytes(col, dest); err != nil {
					return fmt.Errorf("cannot write RESULT ROWS row %d column %d: %w", i, j, err)
				}
			}
		}
		return nil
	}
	return fmt.Errorf("unknown RESULT type: %v", result.ResultType())
}

func (c *resultCodec) Decode(source io.Reader, version primitive.ProtocolVersion) (Message, error) {
	resultType, err := primitive.ReadInt(source)
	if err != nil {
		return nil, fmt.Errorf("cannot read RESULT type: %w", err)
	}
	switch primitive.ResultType(resultType) {
	case primitive.ResultTypeVoid:
		return &VoidResult{}, nil
	case primitive.ResultTypeSetKeyspace:
		keyspace, err := primitive.ReadString(source)
		if err != nil {
			return nil, fmt.Errorf("cannot read RESULT SET_KEYSPACE keyspace: %w", err)
		}
		return &SetKeyspaceResult{Keyspace: keyspace}, nil
	case primitive.ResultTypeSchemaChange:
		changeType, err := primitive.ReadString(source)
		if err != nil {
			return nil, fmt.Errorf("cannot read RESULT SCHEMA_CHANGE type: %w", err)
		}
		keyspace, err := primitive.ReadString(source)
		if err != nil {
			return nil, fmt.Errorf("cannot read RESULT SCHEMA_CHANGE keyspace: %w", err)
		}
		table, err := primitive.ReadString(source)
		if err != nil {
			return nil, fmt.Errorf("cannot read RESULT SCHEMA_CHANGE table: %w", err)
		}
		return &SchemaChangeResult{
			ChangeType: primitive.SchemaChangeType(changeType),
			Keyspace:   keyspace,
			Table:      table,
		}, nil
	case primitive.ResultTypePrepared:
		id, err := primitive.ReadShortBytes(source)
		if err != nil {
			return nil, fmt.Errorf("cannot read RESULT PREPARED query id: %w", err)
		}
		variables, err := column.FromFrame(source, version)
		if err != nil {
			return nil, fmt.Errorf("cannot read RESULT PREPARED variables metadata: %w", err)
		}
		var resultMeta *column.Metadata
		if version.SupportsResultMetadataInPrepared() {
			if resultMeta, err = column.FromFrame(source, version); err != nil {
				return nil, fmt.Errorf("cannot read RESULT PREPARED result metadata: %w", err)
			}
		} else {
			resultMeta = &column.Metadata{}
		}
		return &PreparedResult{PreparedQueryId: id, VariablesMetadata: variables, ResultMetadata: resultMeta}, nil
	case primitive.ResultTypeRows:
		meta, err := column.FromFrame(source, version)
		if err != nil {
			return nil, fmt.Errorf("cannot read RESULT ROWS metadata: %w", err)
		}
		count, err := primitive.ReadInt(source)
		if err != nil {
			return nil, fmt.Errorf("cannot read RESULT ROWS row count: %w", err)
		}
		rows := make([][][]byte, count)
		for i := range rows {
			row := make([][]byte, len(meta.Columns))
			for j := range row {
				if row[j], err = primitive.ReadBytes(source); err != nil {
					return nil, fmt.Errorf("cannot read RESULT ROWS row %d column %d: %w", i, j, err)
				}
			}
			rows[i] = row
		}
		return &RowsResult{Metadata: meta, Rows: rows}, nil
	}
	return nil, fmt.Errorf("unknown RESULT type: %v", resultType)
}
