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

import "fmt"

// ProtocolVersion is the CQL native protocol version. Only versions 1 and 2 are supported:
// the client is a v1/v2 CQL native protocol implementation and does not speak the v3+ frame
// header layout (2-byte stream ids, protocol-level custom payloads/warnings) or the v5 modern
// segment-based framing layer.
type ProtocolVersion uint8

const (
	ProtocolVersion1 = ProtocolVersion(0x01)
	ProtocolVersion2 = ProtocolVersion(0x02)
)

func (v ProtocolVersion) IsSupported() bool {
	return v == ProtocolVersion1 || v == ProtocolVersion2
}

func (v ProtocolVersion) String() string {
	switch v {
	case ProtocolVersion1:
		return "ProtocolVersion 1"
	case ProtocolVersion2:
		return "ProtocolVersion 2"
	}
	return fmt.Sprintf("ProtocolVersion ? [%#.2X]", uint8(v))
}

// RequestVersionByte returns the version byte to use on the wire for a request frame.
func (v ProtocolVersion) RequestVersionByte() uint8 {
	return uint8(v)
}

// ResponseVersionByte returns the version byte to use on the wire for a response frame
// (the high bit set).
func (v ProtocolVersion) ResponseVersionByte() uint8 {
	return uint8(v) | 0x80
}

func (v ProtocolVersion) SupportsNamedValues() bool {
	return v >= ProtocolVersion2
}

func (v ProtocolVersion) SupportsPaging() bool {
	return v >= ProtocolVersion2
}

func (v ProtocolVersion) SupportsSerialConsistency() bool {
	return v >= ProtocolVersion2
}

func (v ProtocolVersion) SupportsResultMetadataInPrepared() bool {
	return v >= ProtocolVersion2
}

// SupportsCompression reports whether the given compression algorithm can be negotiated for
// this protocol version: SNAPPY is the conventional choice for v1, LZ4 for v2, but the protocol
// does not actually forbid either combination, so both are accepted for both versions.
func (v ProtocolVersion) SupportsCompression(compression Compression) bool {
	switch compression {
	case CompressionNone, CompressionSnappy, CompressionLz4:
		return true
	}
	return false
}

// FrameHeaderLength is the fixed length of a v1/v2 frame header: version, flags,
// stream id, opcode, and a 4-byte body length.
const FrameHeaderLength = 8

type OpCode uint8

// requests
const (
	OpCodeStartup     = OpCode(0x01)
	OpCodeCredentials = OpCode(0x04) // protocol v1 only
	OpCodeOptions     = OpCode(0x05)
	OpCodeQuery       = OpCode(0x07)
	OpCodePrepare     = OpCode(0x09)
	OpCodeExecute     = OpCode(0x0A)
	OpCodeRegister    = OpCode(0x0B)
)

// responses
const (
	OpCodeError        = OpCode(0x00)
	OpCodeReady        = OpCode(0x02)
	OpCodeAuthenticate = OpCode(0x03)
	OpCodeSupported    = OpCode(0x06)
	OpCodeResult       = OpCode(0x08)
	OpCodeEvent        = OpCode(0x0C)
)

func (c OpCode) IsRequest() bool {
	switch c {
	case OpCodeStartup, OpCodeCredentials, OpCodeOptions, OpCodeQuery, OpCodePrepare, OpCodeExecute, OpCodeRegister:
		return true
	}
	return false
}

func (c OpCode) IsResponse() bool {
	switch c {
	case OpCodeError, OpCodeReady, OpCodeAuthenticate, OpCodeSupported, OpCodeResult, OpCodeEvent:
		return true
	}
	return false
}

func (c OpCode) String() string {
	switch c {
	case OpCodeStartup:
		return "OpCode STARTUP [0x01]"
	case OpCodeCredentials:
		return "OpCode CREDENTIALS [0x04]"
	case OpCodeOptions:
		return "OpCode OPTIONS [0x05]"
	case OpCodeQuery:
		return "OpCode QUERY [0x07]"
	case OpCodePrepare:
		return "OpCode PREPARE [0x09]"
	case OpCodeExecute:
		return "OpCode EXECUTE [0x0A]"
	case OpCodeRegister:
		return "OpCode REGISTER [0x0B]"
	case OpCodeError:
		return "OpCode ERROR [0x00]"
	case OpCodeReady:
		return "OpCode READY [0x02]"
	case OpCodeAuthenticate:
		return "OpCode AUTHENTICATE [0x03]"
	case OpCodeSupported:
		return "OpCode SUPPORTED [0x06]"
	case OpCodeResult:
		return "OpCode RESULT [0x08]"
	case OpCodeEvent:
		return "OpCode EVENT [0x0C]"
	}
	return fmt.Sprintf("OpCode ? [%#.2X]", uint8(c))
}

type ResultType uint32

const (
	ResultTypeVoid         = ResultType(0x00000001)
	ResultTypeRows         = ResultType(0x00000002)
	ResultTypeSetKeyspace  = ResultType(0x00000003)
	ResultTypePrepared     = ResultType(0x00000004)
	ResultTypeSchemaChange = ResultType(0x00000005)
)

func (t ResultType) String() string {
	switch t {
	case ResultTypeVoid:
		return "RESULT Void"
	case ResultTypeRows:
		return "RESULT Rows"
	case ResultTypeSetKeyspace:
		return "RESULT SetKeyspace"
	case ResultTypePrepared:
		return "RESULT Prepared"
	case ResultTypeSchemaChange:
		return "RESULT SchemaChange"
	}
	return fmt.Sprintf("RESULT ? [%#.8X]", uint32(t))
}

// DataTypeCode is the u16 type tag carried by column specs. Only the
// tags reachable by protocol v1/v2 are defined; TINYINT/SMALLINT/DATE/TIME (v4+), DURATION
// (v5), and UDT/TUPLE (v3+) have no home here.
type DataTypeCode uint16

const (
	DataTypeCodeCustom    = DataTypeCode(0x0000)
	DataTypeCodeAscii     = DataTypeCode(0x0001)
	DataTypeCodeBigint    = DataTypeCode(0x0002)
	DataTypeCodeBlob      = DataTypeCode(0x0003)
	DataTypeCodeBoolean   = DataTypeCode(0x0004)
	DataTypeCodeCounter   = DataTypeCode(0x0005)
	DataTypeCodeDecimal   = DataTypeCode(0x0006)
	DataTypeCodeDouble    = DataTypeCode(0x0007)
	DataTypeCodeFloat     = DataTypeCode(0x0008)
	DataTypeCodeInt       = DataTypeCode(0x0009)
	DataTypeCodeText      = DataTypeCode(0x000A) // alias of Varchar, pre-v3
	DataTypeCodeTimestamp = DataTypeCode(0x000B)
	DataTypeCodeUuid      = DataTypeCode(0x000C)
	DataTypeCodeVarchar   = DataTypeCode(0x000D)
	DataTypeCodeVarint    = DataTypeCode(0x000E)
	DataTypeCodeTimeuuid  = DataTypeCode(0x000F)
	DataTypeCodeInet      = DataTypeCode(0x0010)
	DataTypeCodeList      = DataTypeCode(0x0020)
	DataTypeCodeMap       = DataTypeCode(0x0021)
	DataTypeCodeSet       = DataTypeCode(0x0022)
)

func (c DataTypeCode) String() string {
	switch c {
	case DataTypeCodeCustom:
		return "custom"
	case DataTypeCodeAscii:
		return "ascii"
	case DataTypeCodeBigint:
		return "bigint"
	case DataTypeCodeBlob:
		return "blob"
	case DataTypeCodeBoolean:
		return "boolean"
	case DataTypeCodeCounter:
		return "counter"
	case DataTypeCodeDecimal:
		return "decimal"
	case DataTypeCodeDouble:
		return "double"
	case DataTypeCodeFloat:
		return "float"
	case DataTypeCodeInt:
		return "int"
	case DataTypeCodeText:
		return "text"
	case DataTypeCodeTimestamp:
		return "timestamp"
	case DataTypeCodeUuid:
		return "uuid"
	case DataTypeCodeVarchar:
		return "varchar"
	case DataTypeCodeVarint:
		return "varint"
	case DataTypeCodeTimeuuid:
		return "timeuuid"
	case DataTypeCodeInet:
		return "inet"
	case DataTypeCodeList:
		return "list"
	case DataTypeCodeMap:
		return "map"
	case DataTypeCodeSet:
		return "set"
	}
	return fmt.Sprintf("unknown [%#.4X]", uint16(c))
}

type ConsistencyLevel uint16

const (
	ConsistencyLevelAny         = ConsistencyLevel(0x0000)
	ConsistencyLevelOne         = ConsistencyLevel(0x0001)
	ConsistencyLevelTwo         = ConsistencyLevel(0x0002)
	ConsistencyLevelThree       = ConsistencyLevel(0x0003)
	ConsistencyLevelQuorum      = ConsistencyLevel(0x0004)
	ConsistencyLevelAll         = ConsistencyLevel(0x0005)
	ConsistencyLevelLocalQuorum = ConsistencyLevel(0x0006)
	ConsistencyLevelEachQuorum  = ConsistencyLevel(0x0007)
	ConsistencyLevelSerial      = ConsistencyLevel(0x0008)
	ConsistencyLevelLocalSerial = ConsistencyLevel(0x0009)
	ConsistencyLevelLocalOne    = ConsistencyLevel(0x000A)
)

func (l ConsistencyLevel) String() string {
	switch l {
	case ConsistencyLevelAny:
		return "ANY"
	case ConsistencyLevelOne:
		return "ONE"
	case ConsistencyLevelTwo:
		return "TWO"
	case ConsistencyLevelThree:
		return "THREE"
	case ConsistencyLevelQuorum:
		return "QUORUM"
	case ConsistencyLevelAll:
		return "ALL"
	case ConsistencyLevelLocalQuorum:
		return "LOCAL_QUORUM"
	case ConsistencyLevelEachQuorum:
		return "EACH_QUORUM"
	case ConsistencyLevelSerial:
		return "SERIAL"
	case ConsistencyLevelLocalSerial:
		return "LOCAL_SERIAL"
	case ConsistencyLevelLocalOne:
		return "LOCAL_ONE"
	}
	return fmt.Sprintf("unknown [%#.4X]", uint16(l))
}

type ErrorCode uint32

const (
	ErrorCodeServerError         = ErrorCode(0x00000000)
	ErrorCodeProtocolError       = ErrorCode(0x0000000A)
	ErrorCodeAuthenticationError = ErrorCode(0x00000100)
	ErrorCodeUnavailable         = ErrorCode(0x00001000)
	ErrorCodeOverloaded          = ErrorCode(0x00001001)
	ErrorCodeIsBootstrapping     = ErrorCode(0x00001002)
	ErrorCodeTruncateError       = ErrorCode(0x00001003)
	ErrorCodeWriteTimeout        = ErrorCode(0x00001100)
	ErrorCodeReadTimeout         = ErrorCode(0x00001200)
	ErrorCodeSyntaxError         = ErrorCode(0x00002000)
	ErrorCodeUnauthorized        = ErrorCode(0x00002100)
	ErrorCodeInvalid             = ErrorCode(0x00002200)
	ErrorCodeConfigError         = ErrorCode(0x00002300)
	ErrorCodeAlreadyExists       = ErrorCode(0x00002400)
	ErrorCodeUnprepared          = ErrorCode(0x00002500)
)

// IsFatalError reports whether the connection should be considered unusable after receiving
// this error: server/protocol-level errors indicate the peer cannot be trusted to keep the
// session coherent.
func (c ErrorCode) IsFatalError() bool {
	switch c {
	case ErrorCodeServerError, ErrorCodeProtocolError:
		return true
	}
	return false
}

func (c ErrorCode) String() string {
	switch c {
	case ErrorCodeServerError:
		return "Server error"
	case ErrorCodeProtocolError:
		return "Protocol error"
	case ErrorCodeAuthenticationError:
		return "Authentication error"
	case ErrorCodeUnavailable:
		return "Unavailable exception"
	case ErrorCodeOverloaded:
		return "Overloaded"
	case ErrorCodeIsBootstrapping:
		return "Is bootstrapping"
	case ErrorCodeTruncateError:
		return "Truncate error"
	case ErrorCodeWriteTimeout:
		return "Write timeout"
	case ErrorCodeReadTimeout:
		return "Read timeout"
	case ErrorCodeSyntaxError:
		return "Syntax error"
	case ErrorCodeUnauthorized:
		return "Unauthorized"
	case ErrorCodeInvalid:
		return "Invalid query"
	case ErrorCodeConfigError:
		return "Config error"
	case ErrorCodeAlreadyExists:
		return "Already exists"
	case ErrorCodeUnprepared:
		return "Unprepared"
	}
	return fmt.Sprintf("unknown error code [%#.8X]", uint32(c))
}

type EventType string

const (
	EventTypeTopologyChange = EventType("TOPOLOGY_CHANGE")
	EventTypeStatusChange   = EventType("STATUS_CHANGE")
	EventTypeSchemaChange   = EventType("SCHEMA_CHANGE")
)

type SchemaChangeType string

const (
	SchemaChangeTypeCreated = SchemaChangeType("CREATED")
	SchemaChangeTypeUpdated = SchemaChangeType("UPDATED")
	SchemaChangeTypeDropped = SchemaChangeType("DROPPED")
)

type TopologyChangeType string

const (
	TopologyChangeTypeNewNode     = TopologyChangeType("NEW_NODE")
	TopologyChangeTypeRemovedNode = TopologyChangeType("REMOVED_NODE")
)

type StatusChangeType string

const (
	StatusChangeTypeUp   = StatusChangeType("UP")
	StatusChangeTypeDown = StatusChangeType("DOWN")
)

// HeaderFlag is the per-frame flags byte.
type HeaderFlag uint8

const (
	HeaderFlagCompressed = HeaderFlag(0x01)
	HeaderFlagTracing    = HeaderFlag(0x02)
)

func (f HeaderFlag) Add(other HeaderFlag) HeaderFlag    { return f | other }
func (f HeaderFlag) Remove(other HeaderFlag) HeaderFlag  { return f &^ other }
func (f HeaderFlag) Contains(other HeaderFlag) bool      { return f&other == other }
func (f HeaderFlag) String() string                      { return fmt.Sprintf("%#.8b", uint8(f)) }

// Compression identifies a negotiated body compression algorithm.
type Compression string

const (
	CompressionNone   = Compression("")
	CompressionSnappy = Compression("SNAPPY")
	CompressionLz4    = Compression("LZ4")
)

// AllEventTypes lists all the event types a REGISTER request may subscribe to.
var AllEventTypes = []EventType{EventTypeTopologyChange, EventTypeStatusChange, EventTypeSchemaChange}

// QueryFlag is the single-byte flags field shared by QUERY and EXECUTE message bodies; v1/v2
// never widen it to four bytes (that started with v5).
type QueryFlag uint8

const (
	QueryFlagValues            = QueryFlag(0x01)
	QueryFlagSkipMetadata      = QueryFlag(0x02)
	QueryFlagPageSize          = QueryFlag(0x04)
	QueryFlagPagingState       = QueryFlag(0x08)
	QueryFlagSerialConsistency = QueryFlag(0x10)
	QueryFlagValueNames        = QueryFlag(0x40)
)

func (f QueryFlag) Add(other QueryFlag) QueryFlag   { return f | other }
func (f QueryFlag) Contains(other QueryFlag) bool    { return f&other == other }
func (f QueryFlag) String() string                   { return fmt.Sprintf("%#.8b", uint8(f)) }

// WriteType classifies the write that triggered a WRITE_TIMEOUT error.
type WriteType string

const (
	WriteTypeSimple        = WriteType("SIMPLE")
	WriteTypeBatch         = WriteType("BATCH")
	WriteTypeUnloggedBatch = WriteType("UNLOGGED_BATCH")
	WriteTypeCounter       = WriteType("COUNTER")
	WriteTypeBatchLog      = WriteType("BATCH_LOG")
	WriteTypeCas           = WriteType("CAS")
)
