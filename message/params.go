package message

import (
	"github.com/arloliu/cqlwire/primitive"
	"github.com/arloliu/cqlwire/protocol"
)

// BoundValue is one bound parameter of a Query, Execute, or BatchQuery,
// carrying the tri-state [value] wire representation and, when the
// enclosing QueryParams has NamesForValues set, the marker name it
// binds to.
type BoundValue struct {
	Name  string
	Bytes []byte
	State primitive.ValueState
}

// Bound builds a present BoundValue from already-marshaled bytes. Use
// datatype.Marshal or datatype.MarshalCollection to produce Bytes.
func Bound(bytes []byte) BoundValue {
	return BoundValue{Bytes: bytes, State: primitive.ValuePresent}
}

// BoundNamed is Bound with a marker name, for use with NamesForValues.
func BoundNamed(name string, bytes []byte) BoundValue {
	return BoundValue{Name: name, Bytes: bytes, State: primitive.ValuePresent}
}

// BoundNull builds a BoundValue representing CQL NULL.
func BoundNull() BoundValue { return BoundValue{State: primitive.ValueNull} }

// BoundNotSet builds a BoundValue meaning "leave the column unchanged"
// (protocol v4+).
func BoundNotSet() BoundValue { return BoundValue{State: primitive.ValueNotSet} }

func valueLength(v BoundValue) int {
	switch v.State {
	case primitive.ValueNull, primitive.ValueNotSet:
		return 4
	default:
		return 4 + len(v.Bytes)
	}
}

// QueryParams is the flag-driven parameter block shared by Query and
// Execute requests.
type QueryParams struct {
	Consistency       protocol.Consistency
	Values            []BoundValue
	NamesForValues    bool
	SkipMetadata      bool
	PageSize          *int32
	PagingState       []byte
	SerialConsistency *protocol.Consistency
	DefaultTimestamp  *int64
	Keyspace          *string
}

func (p QueryParams) flags() protocol.QueryFlags {
	var f protocol.QueryFlags
	if len(p.Values) > 0 {
		f |= protocol.QueryFlagValues
		if p.NamesForValues {
			f |= protocol.QueryFlagNamesForValues
		}
	}
	if p.SkipMetadata {
		f |= protocol.QueryFlagSkipMetadata
	}
	if p.PageSize != nil {
		f |= protocol.QueryFlagPageSize
	}
	if p.PagingState != nil {
		f |= protocol.QueryFlagPagingState
	}
	if p.SerialConsistency != nil {
		f |= protocol.QueryFlagSerialConsistency
	}
	if p.DefaultTimestamp != nil {
		f |= protocol.QueryFlagDefaultTimestamp
	}
	if p.Keyspace != nil {
		f |= protocol.QueryFlagKeyspace
	}
	return f
}

// Length returns the encoded byte length of p.
func (p QueryParams) Length() int {
	n := 2 + 4 // consistency + flags
	if len(p.Values) > 0 {
		n += 2
		for _, v := range p.Values {
			if p.NamesForValues {
				n += 2 + len(v.Name)
			}
			n += valueLength(v)
		}
	}
	if p.PageSize != nil {
		n += 4
	}
	if p.PagingState != nil {
		n += 4 + len(p.PagingState)
	}
	if p.SerialConsistency != nil {
		n += 2
	}
	if p.DefaultTimestamp != nil {
		n += 8
	}
	if p.Keyspace != nil {
		n += 2 + len(*p.Keyspace)
	}
	return n
}

// Encode writes consistency, flags, then each flag-gated field in a
// fixed wire order, independent of the order the flag bits happen to
// occupy in the flags field.
func (p QueryParams) Encode(e *primitive.Encoder) error {
	e.WriteShort(uint16(p.Consistency))
	e.WriteInt(int32(p.flags()))

	if len(p.Values) > 0 {
		e.WriteShort(uint16(len(p.Values)))
		for _, v := range p.Values {
			if p.NamesForValues {
				e.WriteString(v.Name)
			}
			e.WriteValue(v.Bytes, v.State)
		}
	}
	if p.PageSize != nil {
		e.WriteInt(*p.PageSize)
	}
	if p.PagingState != nil {
		e.WriteBytes(p.PagingState, false)
	}
	if p.SerialConsistency != nil {
		e.WriteShort(uint16(*p.SerialConsistency))
	}
	if p.DefaultTimestamp != nil {
		e.WriteLong(*p.DefaultTimestamp)
	}
	if p.Keyspace != nil {
		e.WriteString(*p.Keyspace)
	}
	return nil
}

// DecodeQueryParams reads a QueryParams block.
func DecodeQueryParams(d *primitive.Decoder) (QueryParams, error) {
	rawCL, err := d.ReadShort()
	if err != nil {
		return QueryParams{}, err
	}
	p := QueryParams{Consistency: protocol.Consistency(rawCL)}

	rawFlags, err := d.ReadInt()
	if err != nil {
		return QueryParams{}, err
	}
	flags := protocol.QueryFlags(rawFlags)

	if flags.Has(protocol.QueryFlagValues) {
		n, err := d.ReadShort()
		if err != nil {
			return QueryParams{}, err
		}
		p.NamesForValues = flags.Has(protocol.QueryFlagNamesForValues)
		p.Values = make([]BoundValue, 0, n)
		for i := uint16(0); i < n; i++ {
			var name string
			if p.NamesForValues {
				name, err = d.ReadString()
				if err != nil {
					return QueryParams{}, err
				}
			}
			b, state, err := d.ReadValue()
			if err != nil {
				return QueryParams{}, err
			}
			p.Values = append(p.Values, BoundValue{Name: name, Bytes: b, State: state})
		}
	}
	p.SkipMetadata = flags.Has(protocol.QueryFlagSkipMetadata)

	if flags.Has(protocol.QueryFlagPageSize) {
		v, err := d.ReadInt()
		if err != nil {
			return QueryParams{}, err
		}
		p.PageSize = &v
	}
	if flags.Has(protocol.QueryFlagPagingState) {
		b, isNull, err := d.ReadBytes()
		if err != nil {
			return QueryParams{}, err
		}
		if isNull {
			b = []byte{}
		}
		p.PagingState = b
	}
	if flags.Has(protocol.QueryFlagSerialConsistency) {
		v, err := d.ReadShort()
		if err != nil {
			return QueryParams{}, err
		}
		cl := protocol.Consistency(v)
		p.SerialConsistency = &cl
	}
	if flags.Has(protocol.QueryFlagDefaultTimestamp) {
		v, err := d.ReadLong()
		if err != nil {
			return QueryParams{}, err
		}
		p.DefaultTimestamp = &v
	}
	if flags.Has(protocol.QueryFlagKeyspace) {
		v, err := d.ReadString()
		if err != nil {
			return QueryParams{}, err
		}
		p.Keyspace = &v
	}

	return p, nil
}
