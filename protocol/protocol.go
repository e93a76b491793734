// Package protocol defines the closed enumerations and bit flags of the
// CQL native protocol wire format: versions, header flags, opcodes,
// error codes, event kinds, and the per-message flag sets.
//
// Values and bit positions are fixed by the wire format and must not be
// renumbered.
package protocol

import "fmt"

// Version identifies a CQL native protocol version.
type Version uint8

const (
	VersionV3 Version = 3
	VersionV4 Version = 4
	VersionV5 Version = 5
)

// IsBeta reports whether this version is still a beta release, in
// which case the frame header Beta flag must be set.
func (v Version) IsBeta() bool {
	return v == VersionV5
}

func (v Version) String() string {
	switch v {
	case VersionV3:
		return "v3"
	case VersionV4:
		return "v4"
	case VersionV5:
		return "v5-beta"
	default:
		return fmt.Sprintf("Version(%d)", uint8(v))
	}
}

// Direction is encoded in the high bit of a frame header's version
// byte: 0x00 for requests, 0x80 for responses.
type Direction uint8

const (
	DirectionRequest  Direction = 0x00
	DirectionResponse Direction = 0x80
)

const directionMask = 0x80

// SplitVersionByte extracts the direction bit and the version number
// out of the raw first byte of a frame header.
func SplitVersionByte(b byte) (Direction, Version) {
	return Direction(b & directionMask), Version(b &^ directionMask)
}

// VersionByte packs a direction and version back into the header's
// first byte.
func VersionByte(dir Direction, ver Version) byte {
	return byte(dir) | byte(ver)
}

// Flags are the bits of a frame header's flags byte.
type Flags uint8

const (
	FlagCompression   Flags = 0x01
	FlagTracing       Flags = 0x02
	FlagCustomPayload Flags = 0x04
	FlagWarning       Flags = 0x08
	FlagBeta          Flags = 0x10
)

// Has reports whether all bits of other are set in f.
func (f Flags) Has(other Flags) bool { return f&other == other }

// Opcode identifies the kind of message carried by a frame body.
type Opcode uint8

const (
	OpError         Opcode = 0x00
	OpStartup       Opcode = 0x01
	OpReady         Opcode = 0x02
	OpAuthenticate  Opcode = 0x03
	OpOptions       Opcode = 0x05
	OpSupported     Opcode = 0x06
	OpQuery         Opcode = 0x07
	OpResult        Opcode = 0x08
	OpPrepare       Opcode = 0x09
	OpExecute       Opcode = 0x0A
	OpRegister      Opcode = 0x0B
	OpEvent         Opcode = 0x0C
	OpBatch         Opcode = 0x0D
	OpAuthChallenge Opcode = 0x0E
	OpAuthResponse  Opcode = 0x0F
	OpAuthSuccess   Opcode = 0x10
)

func (o Opcode) String() string {
	switch o {
	case OpError:
		return "ERROR"
	case OpStartup:
		return "STARTUP"
	case OpReady:
		return "READY"
	case OpAuthenticate:
		return "AUTHENTICATE"
	case OpOptions:
		return "OPTIONS"
	case OpSupported:
		return "SUPPORTED"
	case OpQuery:
		return "QUERY"
	case OpResult:
		return "RESULT"
	case OpPrepare:
		return "PREPARE"
	case OpExecute:
		return "EXECUTE"
	case OpRegister:
		return "REGISTER"
	case OpEvent:
		return "EVENT"
	case OpBatch:
		return "BATCH"
	case OpAuthChallenge:
		return "AUTH_CHALLENGE"
	case OpAuthResponse:
		return "AUTH_RESPONSE"
	case OpAuthSuccess:
		return "AUTH_SUCCESS"
	default:
		return fmt.Sprintf("Opcode(0x%02x)", uint8(o))
	}
}

// ErrorCode identifies the kind of server-side failure reported by an
// Error message body.
type ErrorCode int32

const (
	ErrCodeServerError          ErrorCode = 0x0000
	ErrCodeProtocolError        ErrorCode = 0x000A
	ErrCodeAuthenticationError  ErrorCode = 0x0100
	ErrCodeUnavailableException ErrorCode = 0x1000
	ErrCodeOverloaded           ErrorCode = 0x1001
	ErrCodeIsBootstrapping      ErrorCode = 0x1002
	ErrCodeTruncateError        ErrorCode = 0x1003
	ErrCodeWriteTimeout         ErrorCode = 0x1100
	ErrCodeReadTimeout          ErrorCode = 0x1200
	ErrCodeReadFailure          ErrorCode = 0x1300
	ErrCodeFunctionFailure      ErrorCode = 0x1400
	ErrCodeWriteFailure         ErrorCode = 0x1500
	ErrCodeSyntaxError          ErrorCode = 0x2000
	ErrCodeUnauthorized         ErrorCode = 0x2100
	ErrCodeInvalid              ErrorCode = 0x2200
	ErrCodeConfigError          ErrorCode = 0x2300
	ErrCodeAlreadyExists        ErrorCode = 0x2400
	ErrCodeUnprepared           ErrorCode = 0x2500
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeServerError:
		return "SERVER_ERROR"
	case ErrCodeProtocolError:
		return "PROTOCOL_ERROR"
	case ErrCodeAuthenticationError:
		return "AUTHENTICATION_ERROR"
	case ErrCodeUnavailableException:
		return "UNAVAILABLE"
	case ErrCodeOverloaded:
		return "OVERLOADED"
	case ErrCodeIsBootstrapping:
		return "IS_BOOTSTRAPPING"
	case ErrCodeTruncateError:
		return "TRUNCATE_ERROR"
	case ErrCodeWriteTimeout:
		return "WRITE_TIMEOUT"
	case ErrCodeReadTimeout:
		return "READ_TIMEOUT"
	case ErrCodeReadFailure:
		return "READ_FAILURE"
	case ErrCodeFunctionFailure:
		return "FUNCTION_FAILURE"
	case ErrCodeWriteFailure:
		return "WRITE_FAILURE"
	case ErrCodeSyntaxError:
		return "SYNTAX_ERROR"
	case ErrCodeUnauthorized:
		return "UNAUTHORIZED"
	case ErrCodeInvalid:
		return "INVALID"
	case ErrCodeConfigError:
		return "CONFIG_ERROR"
	case ErrCodeAlreadyExists:
		return "ALREADY_EXISTS"
	case ErrCodeUnprepared:
		return "UNPREPARED"
	default:
		return fmt.Sprintf("ErrorCode(0x%04x)", int32(c))
	}
}

// EventType identifies the family of an Event message body.
type EventType uint8

const (
	EventTopologyChange EventType = iota
	EventStatusChange
	EventSchemaChange
)

func (e EventType) String() string {
	switch e {
	case EventTopologyChange:
		return "TOPOLOGY_CHANGE"
	case EventStatusChange:
		return "STATUS_CHANGE"
	case EventSchemaChange:
		return "SCHEMA_CHANGE"
	default:
		return fmt.Sprintf("EventType(%d)", uint8(e))
	}
}

// ParseEventType parses the wire string form of an EventType.
func ParseEventType(s string) (EventType, error) {
	switch s {
	case "TOPOLOGY_CHANGE":
		return EventTopologyChange, nil
	case "STATUS_CHANGE":
		return EventStatusChange, nil
	case "SCHEMA_CHANGE":
		return EventSchemaChange, nil
	default:
		return 0, fmt.Errorf("protocol: unknown event type %q", s)
	}
}

// TopologyChangeType is the change kind carried by a TopologyChange event.
type TopologyChangeType uint8

const (
	TopologyNewNode TopologyChangeType = iota
	TopologyRemovedNode
	TopologyMovedNode
)

func (t TopologyChangeType) String() string {
	switch t {
	case TopologyNewNode:
		return "NEW_NODE"
	case TopologyRemovedNode:
		return "REMOVED_NODE"
	case TopologyMovedNode:
		return "MOVED_NODE"
	default:
		return fmt.Sprintf("TopologyChangeType(%d)", uint8(t))
	}
}

func ParseTopologyChangeType(s string) (TopologyChangeType, error) {
	switch s {
	case "NEW_NODE":
		return TopologyNewNode, nil
	case "REMOVED_NODE":
		return TopologyRemovedNode, nil
	case "MOVED_NODE":
		return TopologyMovedNode, nil
	default:
		return 0, fmt.Errorf("protocol: unknown topology change type %q", s)
	}
}

// StatusChangeType is the change kind carried by a StatusChange event.
type StatusChangeType uint8

const (
	StatusUp StatusChangeType = iota
	StatusDown
)

func (s StatusChangeType) String() string {
	switch s {
	case StatusUp:
		return "UP"
	case StatusDown:
		return "DOWN"
	default:
		return fmt.Sprintf("StatusChangeType(%d)", uint8(s))
	}
}

func ParseStatusChangeType(s string) (StatusChangeType, error) {
	switch s {
	case "UP":
		return StatusUp, nil
	case "DOWN":
		return StatusDown, nil
	default:
		return 0, fmt.Errorf("protocol: unknown status change type %q", s)
	}
}

// SchemaChangeType is the change kind carried by a SchemaChange event or result.
type SchemaChangeType uint8

const (
	SchemaCreated SchemaChangeType = iota
	SchemaUpdated
	SchemaDropped
)

func (s SchemaChangeType) String() string {
	switch s {
	case SchemaCreated:
		return "CREATED"
	case SchemaUpdated:
		return "UPDATED"
	case SchemaDropped:
		return "DROPPED"
	default:
		return fmt.Sprintf("SchemaChangeType(%d)", uint8(s))
	}
}

func ParseSchemaChangeType(s string) (SchemaChangeType, error) {
	switch s {
	case "CREATED":
		return SchemaCreated, nil
	case "UPDATED":
		return SchemaUpdated, nil
	case "DROPPED":
		return SchemaDropped, nil
	default:
		return 0, fmt.Errorf("protocol: unknown schema change type %q", s)
	}
}

// SchemaChangeTarget names what a SchemaChange affected.
type SchemaChangeTarget uint8

const (
	TargetKeyspace SchemaChangeTarget = iota
	TargetTable
	TargetType
	TargetFunction
	TargetAggregate
)

func (t SchemaChangeTarget) String() string {
	switch t {
	case TargetKeyspace:
		return "KEYSPACE"
	case TargetTable:
		return "TABLE"
	case TargetType:
		return "TYPE"
	case TargetFunction:
		return "FUNCTION"
	case TargetAggregate:
		return "AGGREGATE"
	default:
		return fmt.Sprintf("SchemaChangeTarget(%d)", uint8(t))
	}
}

func ParseSchemaChangeTarget(s string) (SchemaChangeTarget, error) {
	switch s {
	case "KEYSPACE":
		return TargetKeyspace, nil
	case "TABLE":
		return TargetTable, nil
	case "TYPE":
		return TargetType, nil
	case "FUNCTION":
		return TargetFunction, nil
	case "AGGREGATE":
		return TargetAggregate, nil
	default:
		return 0, fmt.Errorf("protocol: unknown schema change target %q", s)
	}
}

// QueryFlags are the bits of a Query/Execute parameters flag field.
type QueryFlags uint8

const (
	QueryFlagValues            QueryFlags = 0x01
	QueryFlagSkipMetadata      QueryFlags = 0x02
	QueryFlagPageSize          QueryFlags = 0x04
	QueryFlagPagingState       QueryFlags = 0x08
	QueryFlagSerialConsistency QueryFlags = 0x10
	QueryFlagDefaultTimestamp  QueryFlags = 0x20
	QueryFlagNamesForValues    QueryFlags = 0x40
	QueryFlagKeyspace          QueryFlags = 0x80
)

func (f QueryFlags) Has(other QueryFlags) bool { return f&other == other }

// PrepareFlags are the bits of a Prepare request's flags field (protocol v5+).
type PrepareFlags uint8

const (
	PrepareFlagKeyspace PrepareFlags = 0x01
)

func (f PrepareFlags) Has(other PrepareFlags) bool { return f&other == other }

// BatchFlags are the bits of a Batch request's flags field.
type BatchFlags uint8

const (
	BatchFlagSerialConsistency BatchFlags = 0x10
	BatchFlagDefaultTimestamp  BatchFlags = 0x20
	BatchFlagNamesForValues    BatchFlags = 0x40
	BatchFlagKeyspace          BatchFlags = 0x80
)

func (f BatchFlags) Has(other BatchFlags) bool { return f&other == other }

// RowsFlags are the bits of a Rows result's metadata flags field.
type RowsFlags uint32

const (
	RowsFlagGlobalTablesSpec RowsFlags = 0x0001
	RowsFlagHasMorePages     RowsFlags = 0x0002
	RowsFlagNoMetadata       RowsFlags = 0x0004
	RowsFlagMetadataChanged  RowsFlags = 0x0008
)

func (f RowsFlags) Has(other RowsFlags) bool { return f&other == other }

// PreparedFlags are the bits of a Prepared result's metadata flags field.
type PreparedFlags uint32

const (
	PreparedFlagGlobalTablesSpec PreparedFlags = 0x0001
)

func (f PreparedFlags) Has(other PreparedFlags) bool { return f&other == other }

// BatchType identifies the kind of a Batch request.
type BatchType uint8

const (
	BatchLogged BatchType = iota
	BatchUnlogged
	_ // the wire value 2 is unused
	BatchCounter
)

func (t BatchType) String() string {
	switch t {
	case BatchLogged:
		return "LOGGED"
	case BatchUnlogged:
		return "UNLOGGED"
	case BatchCounter:
		return "COUNTER"
	default:
		return fmt.Sprintf("BatchType(%d)", uint8(t))
	}
}

// BatchQueryKind tags whether a BatchQuery child carries an inline
// query string or a prepared statement id.
type BatchQueryKind uint8

const (
	BatchQueryKindQuery   BatchQueryKind = 0
	BatchQueryKindExecute BatchQueryKind = 1
)

// ResultKind identifies the body shape of a Result message.
type ResultKind int32

const (
	ResultVoid         ResultKind = 0x0001
	ResultRows         ResultKind = 0x0002
	ResultSetKeyspace  ResultKind = 0x0003
	ResultPrepared     ResultKind = 0x0004
	ResultSchemaChange ResultKind = 0x0005
)

func (k ResultKind) String() string {
	switch k {
	case ResultVoid:
		return "Void"
	case ResultRows:
		return "Rows"
	case ResultSetKeyspace:
		return "SetKeyspace"
	case ResultPrepared:
		return "Prepared"
	case ResultSchemaChange:
		return "SchemaChange"
	default:
		return fmt.Sprintf("ResultKind(%d)", int32(k))
	}
}

// Startup option keys.
const (
	OptionCQLVersion  = "CQL_VERSION"
	OptionCompression = "COMPRESSION"
)

// CQLVersion is the CQL language version this library advertises in
// every Startup request, independent of the native protocol Version.
const CQLVersion = "3.0.0"

// WriteType classifies the kind of write a WriteTimeout/WriteFailure
// error was reported against.
type WriteType uint8

const (
	WriteSimple WriteType = iota
	WriteBatch
	WriteUnloggedBatch
	WriteCounter
	WriteBatchLog
)

func (w WriteType) String() string {
	switch w {
	case WriteSimple:
		return "SIMPLE"
	case WriteBatch:
		return "BATCH"
	case WriteUnloggedBatch:
		return "UNLOGGED_BATCH"
	case WriteCounter:
		return "COUNTER"
	case WriteBatchLog:
		return "BATCH_LOG"
	default:
		return fmt.Sprintf("WriteType(%d)", uint8(w))
	}
}

func ParseWriteType(s string) (WriteType, error) {
	switch s {
	case "SIMPLE":
		return WriteSimple, nil
	case "BATCH":
		return WriteBatch, nil
	case "UNLOGGED_BATCH":
		return WriteUnloggedBatch, nil
	case "COUNTER":
		return WriteCounter, nil
	case "BATCH_LOG":
		return WriteBatchLog, nil
	default:
		return 0, fmt.Errorf("protocol: unknown write type %q", s)
	}
}

// Consistency is a CQL consistency level, encoded as [short] on the wire.
type Consistency uint16

const (
	ConsistencyAny         Consistency = 0x0000
	ConsistencyOne         Consistency = 0x0001
	ConsistencyTwo         Consistency = 0x0002
	ConsistencyThree       Consistency = 0x0003
	ConsistencyQuorum      Consistency = 0x0004
	ConsistencyAll         Consistency = 0x0005
	ConsistencyLocalQuorum Consistency = 0x0006
	ConsistencyEachQuorum  Consistency = 0x0007
	ConsistencySerial      Consistency = 0x0008
	ConsistencyLocalSerial Consistency = 0x0009
	ConsistencyLocalOne    Consistency = 0x000A
)

func (c Consistency) String() string {
	switch c {
	case ConsistencyAny:
		return "ANY"
	case ConsistencyOne:
		return "ONE"
	case ConsistencyTwo:
		return "TWO"
	case ConsistencyThree:
		return "THREE"
	case ConsistencyQuorum:
		return "QUORUM"
	case ConsistencyAll:
		return "ALL"
	case ConsistencyLocalQuorum:
		return "LOCAL_QUORUM"
	case ConsistencyEachQuorum:
		return "EACH_QUORUM"
	case ConsistencySerial:
		return "SERIAL"
	case ConsistencyLocalSerial:
		return "LOCAL_SERIAL"
	case ConsistencyLocalOne:
		return "LOCAL_ONE"
	default:
		return fmt.Sprintf("Consistency(%d)", uint16(c))
	}
}
