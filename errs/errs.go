// Package errs collects the sentinel errors returned across cqlwire.
//
// Call sites wrap these with fmt.Errorf("%w: ...", errs.ErrXxx, detail)
// so callers can still errors.Is against the sentinel while getting a
// specific message.
package errs

import "errors"

var (
	// ErrShortBuffer is returned when a decode operation needs more bytes
	// than are available in the input.
	ErrShortBuffer = errors.New("cqlwire: buffer too short")

	// ErrFrameTooLarge is returned when a frame body length exceeds the
	// codec's configured maximum.
	ErrFrameTooLarge = errors.New("cqlwire: frame body exceeds maximum length")

	// ErrInvalidVersion is returned when a frame header carries a
	// protocol version the codec does not support.
	ErrInvalidVersion = errors.New("cqlwire: unsupported protocol version")

	// ErrDirectionMismatch is returned when a frame's request/response
	// direction bit does not match what the caller expected.
	ErrDirectionMismatch = errors.New("cqlwire: frame direction mismatch")

	// ErrUnknownOpcode is returned when a frame header's opcode has no
	// registered message type.
	ErrUnknownOpcode = errors.New("cqlwire: unknown opcode")

	// ErrUnknownCompression is returned by compress.ByName when the name
	// is not a registered compression algorithm.
	ErrUnknownCompression = errors.New("cqlwire: unknown compression algorithm")

	// ErrNilValue is returned when a null or not-set value is read where
	// the caller asked for a concrete value.
	ErrNilValue = errors.New("cqlwire: value is null or not-set")

	// ErrInvalidOpt is returned when a type descriptor (Opt) cannot be
	// decoded, or is structurally inconsistent with the value it
	// describes (e.g. a collection Opt missing its element type).
	ErrInvalidOpt = errors.New("cqlwire: invalid type descriptor")

	// ErrInvalidVInt is returned when a vint encoding is malformed
	// (first byte promises more continuation bytes than remain).
	ErrInvalidVInt = errors.New("cqlwire: invalid vint encoding")

	// ErrUnknownErrorCode is returned when Error.Encode is given a Body
	// of a type it has no encoder for. Decoding an Error whose code has
	// no typed body is not an error: the Body is left nil.
	ErrUnknownErrorCode = errors.New("cqlwire: unknown error code")

	// ErrUnknownEventType is returned when an Event message body names
	// an event type with no registered decoder.
	ErrUnknownEventType = errors.New("cqlwire: unknown event type")

	// ErrUnknownResultKind is returned when a Result message body
	// carries a result kind with no registered decoder.
	ErrUnknownResultKind = errors.New("cqlwire: unknown result kind")

	// ErrPreparedIDNotFound is returned by a PreparedCache lookup miss.
	ErrPreparedIDNotFound = errors.New("cqlwire: prepared statement id not found in cache")

	// ErrEmptyQuery is returned when a Query/Prepare request is built
	// with an empty query string.
	ErrEmptyQuery = errors.New("cqlwire: query string must not be empty")

	// ErrBatchEmpty is returned when a Batch request is built with no
	// child queries.
	ErrBatchEmpty = errors.New("cqlwire: batch must contain at least one query")
)
