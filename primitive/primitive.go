// Package primitive implements the CQL native protocol's wire-level
// primitive types: the fixed-width integers, length-prefixed strings,
// and collections of those that datatype and message build on. The
// recursive type-descriptor ([option]) codec lives in datatype.
//
// Every multi-byte field on the CQL wire is big-endian; there is no
// configurable byte order, so Encoder/Decoder hard-code
// encoding/binary.BigEndian.
package primitive

import (
	"encoding/binary"
	"math"

	"github.com/arloliu/cqlwire/errs"
	"github.com/arloliu/cqlwire/internal/pool"
)

// Encoder appends CQL primitives to a pooled, growable buffer.
type Encoder struct {
	buf *pool.ByteBuffer
}

// NewEncoder wraps buf for writing. The caller owns buf's lifecycle
// (typically obtained from pool.GetFrameBuffer and returned with
// pool.PutFrameBuffer once the encoded bytes have been consumed).
func NewEncoder(buf *pool.ByteBuffer) *Encoder {
	return &Encoder{buf: buf}
}

// Bytes returns everything written so far.
func (e *Encoder) Bytes() []byte { return e.buf.Bytes() }

func (e *Encoder) grow(n int) {
	e.buf.ExtendOrGrow(n)
}

// WriteRaw appends v verbatim.
func (e *Encoder) WriteRaw(v []byte) {
	e.buf.MustWrite(v)
}

// WriteByte appends a [byte].
func (e *Encoder) WriteByte(v byte) {
	start := e.buf.Len()
	e.grow(1)
	e.buf.B[start] = v
}

// WriteShort appends a [short].
func (e *Encoder) WriteShort(v uint16) {
	start := e.buf.Len()
	e.grow(2)
	binary.BigEndian.PutUint16(e.buf.B[start:], v)
}

// WriteInt appends an [int].
func (e *Encoder) WriteInt(v int32) {
	start := e.buf.Len()
	e.grow(4)
	binary.BigEndian.PutUint32(e.buf.B[start:], uint32(v))
}

// WriteLong appends a [long].
func (e *Encoder) WriteLong(v int64) {
	start := e.buf.Len()
	e.grow(8)
	binary.BigEndian.PutUint64(e.buf.B[start:], uint64(v))
}

// WriteFloat appends a 4-byte IEEE-754 float, as used inside value
// payloads (not a protocol header field in its own right).
func (e *Encoder) WriteFloat(v float32) {
	e.WriteInt(int32(math.Float32bits(v)))
}

// WriteDouble appends an 8-byte IEEE-754 double.
func (e *Encoder) WriteDouble(v float64) {
	e.WriteLong(int64(math.Float64bits(v)))
}

// WriteBoolean appends a [boolean] (one byte, 0x00/0x01).
func (e *Encoder) WriteBoolean(v bool) {
	if v {
		e.WriteByte(1)
	} else {
		e.WriteByte(0)
	}
}

// WriteString appends a [string]: a [short] length followed by UTF-8
// bytes. Panics if v exceeds the 65535-byte limit of the length
// prefix; encoding such a string is a caller bug, not a wire
// condition.
func (e *Encoder) WriteString(v string) {
	if len(v) > 65535 {
		panic("primitive: string exceeds 65535 bytes")
	}
	e.WriteShort(uint16(len(v)))
	e.WriteRaw([]byte(v))
}

// WriteLongString appends a [long string]: an [int] length followed by
// UTF-8 bytes.
func (e *Encoder) WriteLongString(v string) {
	e.WriteInt(int32(len(v)))
	e.WriteRaw([]byte(v))
}

// WriteUUID appends a [uuid]: 16 raw bytes.
func (e *Encoder) WriteUUID(v [16]byte) {
	e.WriteRaw(v[:])
}

// WriteStringList appends a [string list].
func (e *Encoder) WriteStringList(v []string) {
	e.WriteShort(uint16(len(v)))
	for _, s := range v {
		e.WriteString(s)
	}
}

// WriteBytes appends a [bytes]: present (len>=0) or null (len==-1).
func (e *Encoder) WriteBytes(v []byte, isNull bool) {
	if isNull {
		e.WriteInt(-1)
		return
	}
	e.WriteInt(int32(len(v)))
	e.WriteRaw(v)
}

// ValueState distinguishes the three states a bound query parameter
// ([value]) can take on the wire.
type ValueState int8

const (
	// ValuePresent carries an actual value.
	ValuePresent ValueState = iota
	// ValueNull represents CQL NULL.
	ValueNull
	// ValueNotSet means "leave the column unchanged" (protocol v4+).
	ValueNotSet
)

// WriteValue appends a [value]: present (len>=0), null (len==-1), or
// not-set (len==-2).
func (e *Encoder) WriteValue(v []byte, state ValueState) {
	switch state {
	case ValueNull:
		e.WriteInt(-1)
	case ValueNotSet:
		e.WriteInt(-2)
	default:
		e.WriteInt(int32(len(v)))
		e.WriteRaw(v)
	}
}

// WriteShortBytes appends a [short bytes]: a [short] length followed by
// raw bytes.
func (e *Encoder) WriteShortBytes(v []byte) {
	e.WriteShort(uint16(len(v)))
	e.WriteRaw(v)
}

// WriteInetAddr appends an [inetaddr]: a length byte (4 or 16) followed
// by the raw address bytes.
func (e *Encoder) WriteInetAddr(ip []byte) error {
	switch len(ip) {
	case 4, 16:
		e.WriteByte(byte(len(ip)))
		e.WriteRaw(ip)
		return nil
	default:
		return errs.ErrInvalidOpt
	}
}

// WriteInet appends an [inet]: an [inetaddr] followed by an [int] port.
func (e *Encoder) WriteInet(ip []byte, port int32) error {
	if err := e.WriteInetAddr(ip); err != nil {
		return err
	}
	e.WriteInt(port)
	return nil
}

// WriteStringMap appends a [string map].
func (e *Encoder) WriteStringMap(v map[string]string) {
	e.WriteShort(uint16(len(v)))
	for k, val := range v {
		e.WriteString(k)
		e.WriteString(val)
	}
}

// WriteStringMultimap appends a [string multimap].
func (e *Encoder) WriteStringMultimap(v map[string][]string) {
	e.WriteShort(uint16(len(v)))
	for k, val := range v {
		e.WriteString(k)
		e.WriteStringList(val)
	}
}

// Decoder reads CQL primitives off a byte slice cursor.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder creates a Decoder reading from buf starting at offset 0.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int { return len(d.buf) - d.pos }

// Pos returns the current read offset.
func (d *Decoder) Pos() int { return d.pos }

func (d *Decoder) take(n int) ([]byte, error) {
	if d.Remaining() < n {
		return nil, errs.ErrShortBuffer
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// ReadRaw reads exactly n raw bytes.
func (d *Decoder) ReadRaw(n int) ([]byte, error) {
	return d.take(n)
}

// ReadByte reads a [byte].
func (d *Decoder) ReadByte() (byte, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadShort reads a [short].
func (d *Decoder) ReadShort() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadInt reads an [int].
func (d *Decoder) ReadInt() (int32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// ReadLong reads a [long].
func (d *Decoder) ReadLong() (int64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

// ReadFloat reads a 4-byte IEEE-754 float.
func (d *Decoder) ReadFloat() (float32, error) {
	v, err := d.ReadInt()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(v)), nil
}

// ReadDouble reads an 8-byte IEEE-754 double.
func (d *Decoder) ReadDouble() (float64, error) {
	v, err := d.ReadLong()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(v)), nil
}

// ReadBoolean reads a [boolean].
func (d *Decoder) ReadBoolean() (bool, error) {
	b, err := d.ReadByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// ReadString reads a [string].
func (d *Decoder) ReadString() (string, error) {
	n, err := d.ReadShort()
	if err != nil {
		return "", err
	}
	b, err := d.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadLongString reads a [long string].
func (d *Decoder) ReadLongString() (string, error) {
	n, err := d.ReadInt()
	if err != nil {
		return "", err
	}
	b, err := d.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadUUID reads a [uuid].
func (d *Decoder) ReadUUID() ([16]byte, error) {
	var out [16]byte
	b, err := d.take(16)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

// ReadStringList reads a [string list].
func (d *Decoder) ReadStringList() ([]string, error) {
	n, err := d.ReadShort()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, n)
	for i := uint16(0); i < n; i++ {
		s, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ReadBytes reads a [bytes]. The second return value is true if the
// field was null.
func (d *Decoder) ReadBytes() ([]byte, bool, error) {
	n, err := d.ReadInt()
	if err != nil {
		return nil, false, err
	}
	if n < 0 {
		return nil, true, nil
	}
	b, err := d.take(int(n))
	return b, false, err
}

// ReadValue reads a [value], returning its state alongside the bytes
// (which are only meaningful when state is ValuePresent).
func (d *Decoder) ReadValue() ([]byte, ValueState, error) {
	n, err := d.ReadInt()
	if err != nil {
		return nil, 0, err
	}
	switch {
	case n >= 0:
		b, err := d.take(int(n))
		return b, ValuePresent, err
	case n == -1:
		return nil, ValueNull, nil
	case n == -2:
		return nil, ValueNotSet, nil
	default:
		return nil, 0, errs.ErrInvalidOpt
	}
}

// ReadShortBytes reads a [short bytes].
func (d *Decoder) ReadShortBytes() ([]byte, error) {
	n, err := d.ReadShort()
	if err != nil {
		return nil, err
	}
	return d.take(int(n))
}

// ReadInetAddr reads an [inetaddr].
func (d *Decoder) ReadInetAddr() ([]byte, error) {
	n, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	switch n {
	case 4, 16:
		return d.take(int(n))
	default:
		return nil, errs.ErrInvalidOpt
	}
}

// ReadInet reads an [inet]: an [inetaddr] followed by an [int] port.
func (d *Decoder) ReadInet() (ip []byte, port int32, err error) {
	ip, err = d.ReadInetAddr()
	if err != nil {
		return nil, 0, err
	}
	port, err = d.ReadInt()
	return ip, port, err
}

// ReadStringMap reads a [string map].
func (d *Decoder) ReadStringMap() (map[string]string, error) {
	n, err := d.ReadShort()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, n)
	for i := uint16(0); i < n; i++ {
		k, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		v, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// ReadStringMultimap reads a [string multimap].
func (d *Decoder) ReadStringMultimap() (map[string][]string, error) {
	n, err := d.ReadShort()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string, n)
	for i := uint16(0); i < n; i++ {
		k, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		v, err := d.ReadStringList()
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}
