package message

import (
	"fmt"

	"github.com/arloliu/cqlwire/errs"
	"github.com/arloliu/cqlwire/primitive"
	"github.com/arloliu/cqlwire/protocol"
)

// ErrorBody is the typed payload of an Error response for the codes
// that carry one; bodiless codes leave Error.Body nil.
type ErrorBody interface {
	Code() protocol.ErrorCode
}

// UnavailableBody is the body of a UNAVAILABLE error.
type UnavailableBody struct {
	Consistency protocol.Consistency
	Required    int32
	Alive       int32
}

func (UnavailableBody) Code() protocol.ErrorCode { return protocol.ErrCodeUnavailableException }

func (b UnavailableBody) length() int { return 2 + 4 + 4 }

func (b UnavailableBody) encode(e *primitive.Encoder) error {
	e.WriteShort(uint16(b.Consistency))
	e.WriteInt(b.Required)
	e.WriteInt(b.Alive)
	return nil
}

func decodeUnavailableBody(d *primitive.Decoder) (UnavailableBody, error) {
	cl, err := d.ReadShort()
	if err != nil {
		return UnavailableBody{}, err
	}
	req, err := d.ReadInt()
	if err != nil {
		return UnavailableBody{}, err
	}
	alive, err := d.ReadInt()
	if err != nil {
		return UnavailableBody{}, err
	}
	return UnavailableBody{Consistency: protocol.Consistency(cl), Required: req, Alive: alive}, nil
}

// WriteTimeoutBody is the body of a WRITE_TIMEOUT error.
type WriteTimeoutBody struct {
	Consistency protocol.Consistency
	Received    int32
	BlockFor    int32
	WriteType   protocol.WriteType
}

func (WriteTimeoutBody) Code() protocol.ErrorCode { return protocol.ErrCodeWriteTimeout }

func (b WriteTimeoutBody) length() int { return 2 + 4 + 4 + 2 + len(b.WriteType.String()) }

func (b WriteTimeoutBody) encode(e *primitive.Encoder) error {
	e.WriteShort(uint16(b.Consistency))
	e.WriteInt(b.Received)
	e.WriteInt(b.BlockFor)
	e.WriteString(b.WriteType.String())
	return nil
}

func decodeWriteTimeoutBody(d *primitive.Decoder) (WriteTimeoutBody, error) {
	cl, err := d.ReadShort()
	if err != nil {
		return WriteTimeoutBody{}, err
	}
	rec, err := d.ReadInt()
	if err != nil {
		return WriteTimeoutBody{}, err
	}
	bf, err := d.ReadInt()
	if err != nil {
		return WriteTimeoutBody{}, err
	}
	wtStr, err := d.ReadString()
	if err != nil {
		return WriteTimeoutBody{}, err
	}
	wt, err := protocol.ParseWriteType(wtStr)
	if err != nil {
		return WriteTimeoutBody{}, err
	}
	return WriteTimeoutBody{Consistency: protocol.Consistency(cl), Received: rec, BlockFor: bf, WriteType: wt}, nil
}

// ReadTimeoutBody is the body of a READ_TIMEOUT error.
type ReadTimeoutBody struct {
	Consistency protocol.Consistency
	Received    int32
	BlockFor    int32
	DataPresent byte
}

func (ReadTimeoutBody) Code() protocol.ErrorCode { return protocol.ErrCodeReadTimeout }

func (b ReadTimeoutBody) length() int { return 2 + 4 + 4 + 1 }

func (b ReadTimeoutBody) encode(e *primitive.Encoder) error {
	e.WriteShort(uint16(b.Consistency))
	e.WriteInt(b.Received)
	e.WriteInt(b.BlockFor)
	e.WriteByte(b.DataPresent)
	return nil
}

func decodeReadTimeoutBody(d *primitive.Decoder) (ReadTimeoutBody, error) {
	cl, err := d.ReadShort()
	if err != nil {
		return ReadTimeoutBody{}, err
	}
	rec, err := d.ReadInt()
	if err != nil {
		return ReadTimeoutBody{}, err
	}
	bf, err := d.ReadInt()
	if err != nil {
		return ReadTimeoutBody{}, err
	}
	dp, err := d.ReadByte()
	if err != nil {
		return ReadTimeoutBody{}, err
	}
	return ReadTimeoutBody{Consistency: protocol.Consistency(cl), Received: rec, BlockFor: bf, DataPresent: dp}, nil
}

// ReasonMapEntry is one endpoint's failure reason in a ReadFailure or
// WriteFailure body.
type ReasonMapEntry struct {
	Endpoint []byte // 4 or 16 raw inetaddr bytes
	Reason   uint16
}

func reasonMapLength(m []ReasonMapEntry) int {
	n := 4
	for _, e := range m {
		n += 1 + len(e.Endpoint) + 2
	}
	return n
}

func encodeReasonMap(e *primitive.Encoder, m []ReasonMapEntry) error {
	e.WriteInt(int32(len(m)))
	for _, entry := range m {
		if err := e.WriteInetAddr(entry.Endpoint); err != nil {
			return err
		}
		e.WriteShort(entry.Reason)
	}
	return nil
}

func decodeReasonMap(d *primitive.Decoder) ([]ReasonMapEntry, error) {
	n, err := d.ReadInt()
	if err != nil {
		return nil, err
	}
	out := make([]ReasonMapEntry, 0, n)
	for i := int32(0); i < n; i++ {
		addr, err := d.ReadInetAddr()
		if err != nil {
			return nil, err
		}
		reason, err := d.ReadShort()
		if err != nil {
			return nil, err
		}
		out = append(out, ReasonMapEntry{Endpoint: addr, Reason: reason})
	}
	return out, nil
}

// ReadFailureBody is the body of a READ_FAILURE error.
type ReadFailureBody struct {
	Consistency protocol.Consistency
	Received    int32
	BlockFor    int32
	Reasons     []ReasonMapEntry
	DataPresent byte
}

func (ReadFailureBody) Code() protocol.ErrorCode { return protocol.ErrCodeReadFailure }

func (b ReadFailureBody) length() int { return 2 + 4 + 4 + reasonMapLength(b.Reasons) + 1 }

func (b ReadFailureBody) encode(e *primitive.Encoder) error {
	e.WriteShort(uint16(b.Consistency))
	e.WriteInt(b.Received)
	e.WriteInt(b.BlockFor)
	if err := encodeReasonMap(e, b.Reasons); err != nil {
		return err
	}
	e.WriteByte(b.DataPresent)
	return nil
}

func decodeReadFailureBody(d *primitive.Decoder) (ReadFailureBody, error) {
	cl, err := d.ReadShort()
	if err != nil {
		return ReadFailureBody{}, err
	}
	rec, err := d.ReadInt()
	if err != nil {
		return ReadFailureBody{}, err
	}
	bf, err := d.ReadInt()
	if err != nil {
		return ReadFailureBody{}, err
	}
	reasons, err := decodeReasonMap(d)
	if err != nil {
		return ReadFailureBody{}, err
	}
	dp, err := d.ReadByte()
	if err != nil {
		return ReadFailureBody{}, err
	}
	return ReadFailureBody{Consistency: protocol.Consistency(cl), Received: rec, BlockFor: bf, Reasons: reasons, DataPresent: dp}, nil
}

// FunctionFailureBody is the body of a FUNCTION_FAILURE error.
type FunctionFailureBody struct {
	Keyspace string
	Function string
	ArgTypes []string
}

func (FunctionFailureBody) Code() protocol.ErrorCode { return protocol.ErrCodeFunctionFailure }

func (b FunctionFailureBody) length() int {
	n := 2 + len(b.Keyspace) + 2 + len(b.Function) + 2
	for _, a := range b.ArgTypes {
		n += 2 + len(a)
	}
	return n
}

func (b FunctionFailureBody) encode(e *primitive.Encoder) error {
	e.WriteString(b.Keyspace)
	e.WriteString(b.Function)
	e.WriteStringList(b.ArgTypes)
	return nil
}

func decodeFunctionFailureBody(d *primitive.Decoder) (FunctionFailureBody, error) {
	ks, err := d.ReadString()
	if err != nil {
		return FunctionFailureBody{}, err
	}
	fn, err := d.ReadString()
	if err != nil {
		return FunctionFailureBody{}, err
	}
	args, err := d.ReadStringList()
	if err != nil {
		return FunctionFailureBody{}, err
	}
	return FunctionFailureBody{Keyspace: ks, Function: fn, ArgTypes: args}, nil
}

// WriteFailureBody is the body of a WRITE_FAILURE error.
type WriteFailureBody struct {
	Consistency protocol.Consistency
	Received    int32
	BlockFor    int32
	Reasons     []ReasonMapEntry
	WriteType   protocol.WriteType
}

func (WriteFailureBody) Code() protocol.ErrorCode { return protocol.ErrCodeWriteFailure }

func (b WriteFailureBody) length() int {
	return 2 + 4 + 4 + reasonMapLength(b.Reasons) + 2 + len(b.WriteType.String())
}

func (b WriteFailureBody) encode(e *primitive.Encoder) error {
	e.WriteShort(uint16(b.Consistency))
	e.WriteInt(b.Received)
	e.WriteInt(b.BlockFor)
	if err := encodeReasonMap(e, b.Reasons); err != nil {
		return err
	}
	e.WriteString(b.WriteType.String())
	return nil
}

func decodeWriteFailureBody(d *primitive.Decoder) (WriteFailureBody, error) {
	cl, err := d.ReadShort()
	if err != nil {
		return WriteFailureBody{}, err
	}
	rec, err := d.ReadInt()
	if err != nil {
		return WriteFailureBody{}, err
	}
	bf, err := d.ReadInt()
	if err != nil {
		return WriteFailureBody{}, err
	}
	reasons, err := decodeReasonMap(d)
	if err != nil {
		return WriteFailureBody{}, err
	}
	wtStr, err := d.ReadString()
	if err != nil {
		return WriteFailureBody{}, err
	}
	wt, err := protocol.ParseWriteType(wtStr)
	if err != nil {
		return WriteFailureBody{}, err
	}
	return WriteFailureBody{Consistency: protocol.Consistency(cl), Received: rec, BlockFor: bf, Reasons: reasons, WriteType: wt}, nil
}

// AlreadyExistsBody is the body of an ALREADY_EXISTS error.
type AlreadyExistsBody struct {
	Keyspace string
	Table    string
}

func (AlreadyExistsBody) Code() protocol.ErrorCode { return protocol.ErrCodeAlreadyExists }

func (b AlreadyExistsBody) length() int { return 2 + len(b.Keyspace) + 2 + len(b.Table) }

func (b AlreadyExistsBody) encode(e *primitive.Encoder) error {
	e.WriteString(b.Keyspace)
	e.WriteString(b.Table)
	return nil
}

func decodeAlreadyExistsBody(d *primitive.Decoder) (AlreadyExistsBody, error) {
	ks, err := d.ReadString()
	if err != nil {
		return AlreadyExistsBody{}, err
	}
	table, err := d.ReadString()
	if err != nil {
		return AlreadyExistsBody{}, err
	}
	return AlreadyExistsBody{Keyspace: ks, Table: table}, nil
}

// UnpreparedBody is the body of an UNPREPARED error, naming the
// statement id the server no longer recognizes.
type UnpreparedBody struct {
	ID []byte
}

func (UnpreparedBody) Code() protocol.ErrorCode { return protocol.ErrCodeUnprepared }

func (b UnpreparedBody) length() int { return 2 + len(b.ID) }

func (b UnpreparedBody) encode(e *primitive.Encoder) error {
	e.WriteShortBytes(b.ID)
	return nil
}

func decodeUnpreparedBody(d *primitive.Decoder) (UnpreparedBody, error) {
	id, err := d.ReadShortBytes()
	if err != nil {
		return UnpreparedBody{}, err
	}
	return UnpreparedBody{ID: id}, nil
}

// Error is the server's typed failure response to a request.
type Error struct {
	Code    protocol.ErrorCode
	Message string
	Body    ErrorBody // nil for codes with no typed body
}

func (Error) Opcode() protocol.Opcode { return protocol.OpError }

func (e Error) Length() int {
	n := 4 + 2 + len(e.Message)
	switch b := e.Body.(type) {
	case UnavailableBody:
		n += b.length()
	case WriteTimeoutBody:
		n += b.length()
	case ReadTimeoutBody:
		n += b.length()
	case ReadFailureBody:
		n += b.length()
	case FunctionFailureBody:
		n += b.length()
	case WriteFailureBody:
		n += b.length()
	case AlreadyExistsBody:
		n += b.length()
	case UnpreparedBody:
		n += b.length()
	}
	return n
}

func (e Error) Encode(enc *primitive.Encoder) error {
	enc.WriteInt(int32(e.Code))
	enc.WriteString(e.Message)
	switch b := e.Body.(type) {
	case nil:
		return nil
	case UnavailableBody:
		return b.encode(enc)
	case WriteTimeoutBody:
		return b.encode(enc)
	case ReadTimeoutBody:
		return b.encode(enc)
	case ReadFailureBody:
		return b.encode(enc)
	case FunctionFailureBody:
		return b.encode(enc)
	case WriteFailureBody:
		return b.encode(enc)
	case AlreadyExistsBody:
		return b.encode(enc)
	case UnpreparedBody:
		return b.encode(enc)
	default:
		return fmt.Errorf("%w: unknown error body %T", errs.ErrUnknownErrorCode, e.Body)
	}
}

// DecodeError decodes an Error response body, dispatching on the error
// code to pick the right typed body (if that code carries one).
func DecodeError(d *primitive.Decoder) (Error, error) {
	rawCode, err := d.ReadInt()
	if err != nil {
		return Error{}, err
	}
	msg, err := d.ReadString()
	if err != nil {
		return Error{}, err
	}
	code := protocol.ErrorCode(rawCode)

	var body ErrorBody
	switch code {
	case protocol.ErrCodeUnavailableException:
		body, err = decodeUnavailableBody(d)
	case protocol.ErrCodeWriteTimeout:
		body, err = decodeWriteTimeoutBody(d)
	case protocol.ErrCodeReadTimeout:
		body, err = decodeReadTimeoutBody(d)
	case protocol.ErrCodeReadFailure:
		body, err = decodeReadFailureBody(d)
	case protocol.ErrCodeFunctionFailure:
		body, err = decodeFunctionFailureBody(d)
	case protocol.ErrCodeWriteFailure:
		body, err = decodeWriteFailureBody(d)
	case protocol.ErrCodeAlreadyExists:
		body, err = decodeAlreadyExistsBody(d)
	case protocol.ErrCodeUnprepared:
		body, err = decodeUnpreparedBody(d)
	default:
		body, err = nil, nil
	}
	if err != nil {
		return Error{}, err
	}

	return Error{Code: code, Message: msg, Body: body}, nil
}
