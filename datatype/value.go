package datatype

import (
	"fmt"
	"math/big"

	"github.com/arloliu/cqlwire/errs"
	"github.com/arloliu/cqlwire/internal/pool"
	"github.com/arloliu/cqlwire/primitive"
	"github.com/arloliu/cqlwire/vint"
)

// Decimal is CQL's arbitrary-precision decimal: an unscaled integer
// and a base-10 scale, value = unscaled * 10^-scale.
type Decimal struct {
	Unscaled *big.Int
	Scale    int32
}

// Duration is CQL's Duration value: a signed count of months, days,
// and nanoseconds, kept separate because each field wraps
// independently (a month is not a fixed number of days).
type Duration struct {
	Months      int32
	Days        int32
	Nanoseconds int64
}

// dateBias is i32::MIN reinterpreted as u32, the offset CQL's Date
// type adds to a signed day-count so the wire value is always
// non-negative.
const dateBias = uint32(1) << 31

// Marshal encodes a Go value for the CQL type named by id into its raw
// [bytes] payload (the length prefix is added by the caller, e.g.
// primitive.Encoder.WriteBytes/WriteValue).
func Marshal(id ID, v any) ([]byte, error) {
	switch id {
	case IDAscii, IDVarchar:
		s, ok := v.(string)
		if !ok {
			return nil, typeMismatch(id, v)
		}
		return []byte(s), nil
	case IDBigint, IDCounter:
		n, ok := v.(int64)
		if !ok {
			return nil, typeMismatch(id, v)
		}
		return marshalFixed(func(e *primitive.Encoder) { e.WriteLong(n) }), nil
	case IDBlob:
		b, ok := v.([]byte)
		if !ok {
			return nil, typeMismatch(id, v)
		}
		return b, nil
	case IDBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, typeMismatch(id, v)
		}
		return marshalFixed(func(e *primitive.Encoder) { e.WriteBoolean(b) }), nil
	case IDDecimal:
		d, ok := v.(Decimal)
		if !ok {
			return nil, typeMismatch(id, v)
		}
		return marshalFixed(func(e *primitive.Encoder) {
			e.WriteInt(d.Scale)
			e.WriteRaw(signedBigBytes(d.Unscaled))
		}), nil
	case IDDouble:
		f, ok := v.(float64)
		if !ok {
			return nil, typeMismatch(id, v)
		}
		return marshalFixed(func(e *primitive.Encoder) { e.WriteDouble(f) }), nil
	case IDFloat:
		f, ok := v.(float32)
		if !ok {
			return nil, typeMismatch(id, v)
		}
		return marshalFixed(func(e *primitive.Encoder) { e.WriteFloat(f) }), nil
	case IDInt:
		n, ok := v.(int32)
		if !ok {
			return nil, typeMismatch(id, v)
		}
		return marshalFixed(func(e *primitive.Encoder) { e.WriteInt(n) }), nil
	case IDTimestamp:
		n, ok := v.(int64)
		if !ok {
			return nil, typeMismatch(id, v)
		}
		return marshalFixed(func(e *primitive.Encoder) { e.WriteLong(n) }), nil
	case IDUuid, IDTimeuuid:
		u, ok := v.([16]byte)
		if !ok {
			return nil, typeMismatch(id, v)
		}
		out := make([]byte, 16)
		copy(out, u[:])
		return out, nil
	case IDVarint:
		b, ok := v.(*big.Int)
		if !ok {
			return nil, typeMismatch(id, v)
		}
		return signedBigBytes(b), nil
	case IDInet:
		b, ok := v.([]byte)
		if !ok || (len(b) != 4 && len(b) != 16) {
			return nil, typeMismatch(id, v)
		}
		return b, nil
	case IDDate:
		days, ok := v.(int32)
		if !ok {
			return nil, typeMismatch(id, v)
		}
		return marshalFixed(func(e *primitive.Encoder) {
			e.WriteInt(int32(uint32(days) + dateBias))
		}), nil
	case IDTime:
		ns, ok := v.(int64)
		if !ok {
			return nil, typeMismatch(id, v)
		}
		return marshalFixed(func(e *primitive.Encoder) { e.WriteLong(ns) }), nil
	case IDSmallint:
		n, ok := v.(int16)
		if !ok {
			return nil, typeMismatch(id, v)
		}
		return marshalFixed(func(e *primitive.Encoder) { e.WriteShort(uint16(n)) }), nil
	case IDTinyint:
		n, ok := v.(int8)
		if !ok {
			return nil, typeMismatch(id, v)
		}
		return marshalFixed(func(e *primitive.Encoder) { e.WriteByte(byte(n)) }), nil
	case IDDuration:
		du, ok := v.(Duration)
		if !ok {
			return nil, typeMismatch(id, v)
		}
		out := vint.EncodeInt32(nil, du.Months)
		out = vint.EncodeInt32(out, du.Days)
		out = vint.EncodeInt64(out, du.Nanoseconds)
		return out, nil
	default:
		return nil, errs.ErrInvalidOpt
	}
}

// MarshalCollection encodes a List, Set, Map, Udt, or Tuple value
// given the Opt that describes its element/key/value/field types.
func MarshalCollection(opt Opt, v any) ([]byte, error) {
	switch opt.ID {
	case IDList, IDSet:
		elems, ok := v.([]any)
		if !ok {
			return nil, typeMismatch(opt.ID, v)
		}
		buf := pool.NewByteBuffer(64)
		e := primitive.NewEncoder(buf)
		e.WriteInt(int32(len(elems)))
		for _, el := range elems {
			b, isNull, err := marshalElem(*opt.Elem, el)
			if err != nil {
				return nil, err
			}
			e.WriteBytes(b, isNull)
		}
		return e.Bytes(), nil
	case IDMap:
		entries, ok := v.([]MapEntry)
		if !ok {
			return nil, typeMismatch(opt.ID, v)
		}
		buf := pool.NewByteBuffer(64)
		e := primitive.NewEncoder(buf)
		e.WriteInt(int32(len(entries)))
		for _, entry := range entries {
			kb, kNull, err := marshalElem(*opt.Key, entry.Key)
			if err != nil {
				return nil, err
			}
			e.WriteBytes(kb, kNull)

			vb, vNull, err := marshalElem(*opt.Value, entry.Value)
			if err != nil {
				return nil, err
			}
			e.WriteBytes(vb, vNull)
		}
		return e.Bytes(), nil
	case IDUdt:
		fields, ok := v.([]any)
		if !ok {
			return nil, typeMismatch(opt.ID, v)
		}
		if len(fields) != len(opt.UDT.Fields) {
			return nil, errs.ErrInvalidOpt
		}
		buf := pool.NewByteBuffer(64)
		e := primitive.NewEncoder(buf)
		for i, f := range opt.UDT.Fields {
			b, isNull, err := marshalElem(f.Type, fields[i])
			if err != nil {
				return nil, err
			}
			e.WriteBytes(b, isNull)
		}
		return e.Bytes(), nil
	case IDTuple:
		elems, ok := v.([]any)
		if !ok || len(elems) != len(opt.Tuple) {
			return nil, typeMismatch(opt.ID, v)
		}
		buf := pool.NewByteBuffer(64)
		e := primitive.NewEncoder(buf)
		for i, t := range opt.Tuple {
			b, isNull, err := marshalElem(t, elems[i])
			if err != nil {
				return nil, err
			}
			e.WriteBytes(b, isNull)
		}
		return e.Bytes(), nil
	default:
		return Marshal(opt.ID, v)
	}
}

// MapEntry is one key/value pair of a CQL Map value, kept as an
// ordered slice (rather than a Go map) so encode order is
// deterministic and nil/NULL keys and values can round-trip.
type MapEntry struct {
	Key   any
	Value any
}

func marshalElem(opt Opt, v any) (b []byte, isNull bool, err error) {
	if v == nil {
		return nil, true, nil
	}
	switch opt.ID {
	case IDList, IDSet, IDMap, IDUdt, IDTuple:
		b, err = MarshalCollection(opt, v)
	default:
		b, err = Marshal(opt.ID, v)
	}
	return b, false, err
}

// Unmarshal decodes the raw [bytes] payload of a value of the CQL type
// described by opt.
func Unmarshal(opt Opt, data []byte) (any, error) {
	switch opt.ID {
	case IDList, IDSet:
		return unmarshalList(*opt.Elem, data)
	case IDMap:
		return unmarshalMap(*opt.Key, *opt.Value, data)
	case IDUdt:
		return unmarshalUDT(opt.UDT, data)
	case IDTuple:
		return unmarshalTuple(opt.Tuple, data)
	default:
		return unmarshalSimple(opt.ID, data)
	}
}

func unmarshalSimple(id ID, data []byte) (any, error) {
	switch id {
	case IDAscii, IDVarchar:
		return string(data), nil
	case IDBigint, IDCounter:
		d := primitive.NewDecoder(data)
		return d.ReadLong()
	case IDBlob:
		return data, nil
	case IDBoolean:
		if len(data) == 0 {
			return nil, errs.ErrShortBuffer
		}
		return data[0] != 0, nil
	case IDDecimal:
		if len(data) < 4 {
			return nil, errs.ErrShortBuffer
		}
		d := primitive.NewDecoder(data)
		scale, err := d.ReadInt()
		if err != nil {
			return nil, err
		}
		rest, err := d.ReadRaw(d.Remaining())
		if err != nil {
			return nil, err
		}
		return Decimal{Unscaled: signedBigFromBytes(rest), Scale: scale}, nil
	case IDDouble:
		d := primitive.NewDecoder(data)
		return d.ReadDouble()
	case IDFloat:
		d := primitive.NewDecoder(data)
		return d.ReadFloat()
	case IDInt:
		d := primitive.NewDecoder(data)
		return d.ReadInt()
	case IDTimestamp:
		d := primitive.NewDecoder(data)
		return d.ReadLong()
	case IDUuid, IDTimeuuid:
		d := primitive.NewDecoder(data)
		return d.ReadUUID()
	case IDVarint:
		return signedBigFromBytes(data), nil
	case IDInet:
		return data, nil
	case IDDate:
		d := primitive.NewDecoder(data)
		biased, err := d.ReadInt()
		if err != nil {
			return nil, err
		}
		return int32(uint32(biased) - dateBias), nil
	case IDTime:
		d := primitive.NewDecoder(data)
		return d.ReadLong()
	case IDSmallint:
		d := primitive.NewDecoder(data)
		v, err := d.ReadShort()
		return int16(v), err
	case IDTinyint:
		if len(data) == 0 {
			return nil, errs.ErrShortBuffer
		}
		return int8(data[0]), nil
	case IDDuration:
		months, a, err := vint.DecodeInt32(data)
		if err != nil {
			return nil, err
		}
		days, b, err := vint.DecodeInt32(data[a:])
		if err != nil {
			return nil, err
		}
		nanos, _, err := vint.DecodeInt64(data[a+b:])
		if err != nil {
			return nil, err
		}
		return Duration{Months: months, Days: days, Nanoseconds: nanos}, nil
	default:
		return nil, errs.ErrInvalidOpt
	}
}

func unmarshalList(elem Opt, data []byte) ([]any, error) {
	d := primitive.NewDecoder(data)
	n, err := d.ReadInt()
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, n)
	for i := int32(0); i < n; i++ {
		b, isNull, err := d.ReadBytes()
		if err != nil {
			return nil, err
		}
		if isNull {
			out = append(out, nil)
			continue
		}
		v, err := Unmarshal(elem, b)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func unmarshalMap(key, value Opt, data []byte) ([]MapEntry, error) {
	d := primitive.NewDecoder(data)
	n, err := d.ReadInt()
	if err != nil {
		return nil, err
	}
	out := make([]MapEntry, 0, n)
	for i := int32(0); i < n; i++ {
		kb, kNull, err := d.ReadBytes()
		if err != nil {
			return nil, err
		}
		vb, vNull, err := d.ReadBytes()
		if err != nil {
			return nil, err
		}

		entry := MapEntry{}
		if !kNull {
			if entry.Key, err = Unmarshal(key, kb); err != nil {
				return nil, err
			}
		}
		if !vNull {
			if entry.Value, err = Unmarshal(value, vb); err != nil {
				return nil, err
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

func unmarshalUDT(udt *UDTType, data []byte) ([]any, error) {
	d := primitive.NewDecoder(data)
	out := make([]any, 0, len(udt.Fields))
	for _, f := range udt.Fields {
		b, isNull, err := d.ReadBytes()
		if err != nil {
			return nil, err
		}
		if isNull {
			out = append(out, nil)
			continue
		}
		v, err := Unmarshal(f.Type, b)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func unmarshalTuple(types []Opt, data []byte) ([]any, error) {
	d := primitive.NewDecoder(data)
	out := make([]any, 0, len(types))
	for _, t := range types {
		b, isNull, err := d.ReadBytes()
		if err != nil {
			return nil, err
		}
		if isNull {
			out = append(out, nil)
			continue
		}
		v, err := Unmarshal(t, b)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func marshalFixed(write func(e *primitive.Encoder)) []byte {
	buf := pool.NewByteBuffer(16)
	e := primitive.NewEncoder(buf)
	write(e)
	out := make([]byte, len(e.Bytes()))
	copy(out, e.Bytes())
	return out
}

func signedBigBytes(b *big.Int) []byte {
	if b.Sign() == 0 {
		return []byte{0}
	}
	// big.Int.Bytes() is the absolute value's big-endian magnitude; CQL
	// varint wants two's-complement. For non-negative values the
	// magnitude already matches two's-complement as long as its high
	// bit is clear, so prefix a zero byte when it isn't.
	mag := b.Bytes()
	if b.Sign() > 0 {
		if mag[0]&0x80 != 0 {
			return append([]byte{0}, mag...)
		}
		return mag
	}

	// Negative: compute two's complement over the smallest byte slice
	// that can represent it. len(mag) bytes suffice unless the
	// magnitude exceeds 2^(8*len(mag)-1), in which case the top bit of
	// a len(mag)-byte two's-complement encoding would be forced to 0,
	// misrepresenting the sign; widen by one byte in that case.
	width := len(mag)
	threshold := new(big.Int).Lsh(big.NewInt(1), uint(8*len(mag)-1))
	if new(big.Int).Abs(b).Cmp(threshold) > 0 {
		width++
	}
	twos := make([]byte, width)
	borrow := 1
	for i := width - 1; i >= 0; i-- {
		var mb byte
		if j := i - (width - len(mag)); j >= 0 {
			mb = mag[j]
		}
		v := int(^mb&0xff) + borrow
		twos[i] = byte(v)
		borrow = v >> 8
	}
	return twos
}

func signedBigFromBytes(b []byte) *big.Int {
	out := new(big.Int)
	if len(b) == 0 {
		return out
	}
	if b[0]&0x80 == 0 {
		return out.SetBytes(b)
	}

	// Negative: invert the two's-complement encoding back to a magnitude.
	inv := make([]byte, len(b))
	carry := 1
	for i := len(b) - 1; i >= 0; i-- {
		v := int(^b[i]&0xff) + carry
		inv[i] = byte(v)
		carry = v >> 8
	}
	out.SetBytes(inv)
	return out.Neg(out)
}

func typeMismatch(id ID, v any) error {
	return fmt.Errorf("%w: cannot marshal %T as %s", errs.ErrInvalidOpt, v, id)
}
