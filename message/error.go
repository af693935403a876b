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

// Error is a server-initiated failure response. Code selects which of the extra fields below
// are meaningful; most codes carry none beyond Message.
type Error struct {
	Code    primitive.ErrorCode
	Message string

	// Present for Unavailable, ReadTimeout and WriteTimeout.
	Consistency primitive.ConsistencyLevel

	// Present for Unavailable: replicas required to satisfy Consistency.
	Required int32
	// Present for Unavailable: replicas known alive when the request was processed.
	Alive int32

	// Present for ReadTimeout and WriteTimeout: replicas that had answered.
	Received int32
	// Present for ReadTimeout and WriteTimeout: replicas needed to satisfy Consistency.
	BlockFor int32
	// Present for ReadTimeout: whether the replica queried for data responded.
	DataPresent bool
	// Present for WriteTimeout: the kind of write that timed out.
	WriteType primitive.WriteType

	// Present for AlreadyExists.
	Keyspace string
	Table    string

	// Present for Unprepared: the unknown prepared statement id.
	UnpreparedId []byte
}

func (m *Error) IsResponse() bool         { return true }
func (m *Error) OpCode() primitive.OpCode { return primitive.OpCodeError }

func (m *Error) String() string {
	switch m.Code {
	case primitive.ErrorCodeUnavailable:
		return fmt.Sprintf("ERROR %v (msg=%v, cl=%v, required=%v, alive=%v)",
			m.Code, m.Message, m.Consistency, m.Required, m.Alive)
	case primitive.ErrorCodeReadTimeout:
		return fmt.Sprintf("ERROR %v (msg=%v, cl=%v, received=%v, blockfor=%v, data=%v)",
			m.Code, m.Message, m.Consistency, m.Received, m.BlockFor, m.DataPresent)
	case primitive.ErrorCodeWriteTimeout:
		return fmt.Sprintf("ERROR %v (msg=%v, cl=%v, received=%v, blockfor=%v, type=%v)",
			m.Code, m.Message, m.Consistency, m.Received, m.BlockFor, m.WriteType)
	case primitive.ErrorCodeAlreadyExists:
		return fmt.Sprintf("ERROR %v (msg=%v, ks=%v, table=%v)", m.Code, m.Message, m.Keyspace, m.Table)
	case primitive.ErrorCodeUnprepared:
		return fmt.Sprintf("ERROR %v (msg=%v, id=%x)", m.Code, m.Message, m.UnpreparedId)
	}
	return fmt.Sprintf("ERROR %v (msg=%v)", m.Code, m.Message)
}

type errorCodec struct{}

func init() { RegisterCodec(&errorCodec{}) }

func (c *errorCodec) OpCode() primitive.OpCode { return primitive.OpCodeError }

func (c *errorCodec) Encode(msg Message, dest io.Writer, _ primitive.ProtocolVersion) error {
	e, ok := msg.(*Error)
	if !ok {
		return fmt.Errorf("expected *message.Error, got %T", msg)
	}
	if err := primitive.WriteInt(int32(e.Code), dest); err != nil {
		return fmt.Errorf("cannot write ERROR code: %w", err)
	}
	if err := primitive.WriteString(e.Message, dest); err != nil {
		return fmt.Errorf("cannot write ERROR message: %w", err)
	}
	switch e.Code {
	case primitive.ErrorCodeUnavailable:
		if err := primitive.WriteShort(uint16(e.Consistency), dest); err != nil {
			return err
		}
		if err := primitive.WriteInt(e.Required, dest); err != nil {
			return err
		}
		return primitive.WriteInt(e.Alive, dest)
	case primitive.ErrorCodeReadTimeout:
		if err := primitive.WriteShort(uint16(e.Consistency), dest); err != nil {
			return err
		}
		if err := primitive.WriteInt(e.Received, dest); err != nil {
			return err
		}
		if err := primitive.WriteInt(e.BlockFor, dest); err != nil {
			return err
		}
		return primitive.WriteByte(boolToByte(e.DataPresent), dest)
	case primitive.ErrorCodeWriteTimeout:
		if err := primitive.WriteShort(uint16(e.Consistency), dest); err != nil {
			return err
		}
		if err := primitive.WriteInt(e.Received, dest); err != nil {
			return err
		}
		if err := primitive.WriteInt(e.BlockFor, dest); err != nil {
			return err
		}
		return primitive.WriteString(string(e.WriteType), dest)
	case primitive.ErrorCodeAlreadyExists:
		if err := primitive.WriteString(e.Keyspace, dest); err != nil {
			return err
		}
		return primitive.WriteString(e.Table, dest)
	case primitive.ErrorCodeUnprepared:
		return primitive.WriteShortBytes(e.UnpreparedId, dest)
	}
	return nil
}

func (c *errorCodec) Decode(source io.Reader, _ primitive.ProtocolVersion) (Message, error) {
	code, err := primitive.ReadInt(source)
	if err != nil {
		return nil, fmt.Errorf("cannot read ERROR code: %w", err)
	}
	message, err := primitive.ReadString(source)
	if err != nil {
		return nil, fmt.Errorf("cannot read ERROR message: %w", err)
	}
	e := &Error{Code: primitive.ErrorCode(code), Message: message}
	switch e.Code {
	case primitive.ErrorCodeUnavailable:
		cl, err := primitive.ReadShort(source)
		if err != nil {
			return nil, fmt.Errorf("cannot read UNAVAILABLE consistency: %w", err)
		}
		e.Consistency = primitive.ConsistencyLevel(cl)
		if e.Required, err = primitive.ReadInt(source); err != nil {
			return nil, fmt.Errorf("cannot read UNAVAILABLE required: %w", err)
		}
		if e.Alive, err = primitive.ReadInt(source); err != nil {
			return nil, fmt.Errorf("cannot read UNAVAILABLE alive: %w", err)
		}
	case primitive.ErrorCodeReadTimeout:
		cl, err := primitive.ReadShort(source)
		if err != nil {
			return nil, fmt.Errorf("cannot read READ_TIMEOUT consistency: %w", err)
		}
		e.Consistency = primitive.ConsistencyLevel(cl)
		if e.Received, err = primitive.ReadInt(source); err != nil {
			return nil, fmt.Errorf("cannot read READ_TIMEOUT received: %w", err)
		}
		if e.BlockFor, err = primitive.ReadInt(source); err != nil {
			return nil, fmt.Errorf("cannot read READ_TIMEOUT blockfor: %w", err)
		}
		present, err := primitive.ReadByte(source)
		if err != nil {
			return nil, fmt.Errorf("cannot read READ_TIMEOUT data present: %w", err)
		}
		e.DataPresent = present != 0
	case primitive.ErrorCodeWriteTimeout:
		cl, err := primitive.ReadShort(source)
		if err != nil {
			return nil, fmt.Errorf("cannot read WRITE_TIMEOUT consistency: %w", err)
		}
		e.Consistency = primitive.ConsistencyLevel(cl)
		if e.Received, err = primitive.ReadInt(source); err != nil {
			return nil, fmt.Errorf("cannot read WRITE_TIMEOUT received: %w", err)
		}
		if e.BlockFor, err = primitive.ReadInt(source); err != nil {
			return nil, fmt.Errorf("cannot read WRITE_TIMEOUT blockfor: %w", err)
		}
		writeType, err := primitive.ReadString(source)
		if err != nil {
			return nil, fmt.Errorf("cannot read WRITE_TIMEOUT write type: %w", err)
		}
		e.WriteType = primitive.WriteType(writeType)
	case primitive.ErrorCodeAlreadyExists:
		if e.Keyspace, err = primitive.ReadString(source); err != nil {
			return nil, fmt.Errorf("cannot read ALREADY_EXISTS keyspace: %w", err)
		}
		if e.Table, err = primitive.ReadString(source); err != nil {
			return nil, fmt.Errorf("cannot read ALREADY_EXISTS table: %w", err)
		}
	case primitive.ErrorCodeUnprepared:
		if e.UnpreparedId, err = primitive.ReadShortBytes(source); err != nil {
			return nil, fmt.Errorf("cannot read UNPREPARED id: %w", err)
		}
	}
	return e, nil
}

func boolToByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
