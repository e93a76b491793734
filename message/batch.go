package message

import (
	"github.com/arloliu/cqlwire/errs"
	"github.com/arloliu/cqlwire/primitive"
	"github.com/arloliu/cqlwire/protocol"
)

// BatchQuery is one child statement of a Batch: either an inline CQL
// string or a prepared statement id, plus its bound values. Unlike
// Query/Execute, a BatchQuery's values never carry marker names.
type BatchQuery struct {
	Kind   protocol.BatchQueryKind
	Query  string // set when Kind == BatchQueryKindQuery
	ID     []byte // set when Kind == BatchQueryKindExecute
	Values []BoundValue
}

// NewBatchQuery builds a BatchQuery for an inline CQL statement.
func NewBatchQuery(query string, values ...BoundValue) BatchQuery {
	return BatchQuery{Kind: protocol.BatchQueryKindQuery, Query: query, Values: values}
}

// NewBatchExecute builds a BatchQuery for a previously prepared statement.
func NewBatchExecute(id []byte, values ...BoundValue) BatchQuery {
	return BatchQuery{Kind: protocol.BatchQueryKindExecute, ID: id, Values: values}
}

func (bq BatchQuery) length() int {
	n := 1
	if bq.Kind == protocol.BatchQueryKindQuery {
		n += 4 + len(bq.Query)
	} else {
		n += 2 + len(bq.ID)
	}
	n += 2
	for _, v := range bq.Values {
		n += valueLength(v)
	}
	return n
}

func (bq BatchQuery) encode(e *primitive.Encoder) {
	if bq.Kind == protocol.BatchQueryKindQuery {
		e.WriteByte(byte(protocol.BatchQueryKindQuery))
		e.WriteLongString(bq.Query)
	} else {
		e.WriteByte(byte(protocol.BatchQueryKindExecute))
		e.WriteShortBytes(bq.ID)
	}
	e.WriteShort(uint16(len(bq.Values)))
	for _, v := range bq.Values {
		e.WriteValue(v.Bytes, v.State)
	}
}

func decodeBatchQuery(d *primitive.Decoder) (BatchQuery, error) {
	kind, err := d.ReadByte()
	if err != nil {
		return BatchQuery{}, err
	}
	bq := BatchQuery{Kind: protocol.BatchQueryKind(kind)}
	if bq.Kind == protocol.BatchQueryKindQuery {
		bq.Query, err = d.ReadLongString()
	} else {
		bq.ID, err = d.ReadShortBytes()
	}
	if err != nil {
		return BatchQuery{}, err
	}

	n, err := d.ReadShort()
	if err != nil {
		return BatchQuery{}, err
	}
	bq.Values = make([]BoundValue, 0, n)
	for i := uint16(0); i < n; i++ {
		b, state, err := d.ReadValue()
		if err != nil {
			return BatchQuery{}, err
		}
		bq.Values = append(bq.Values, BoundValue{Bytes: b, State: state})
	}
	return bq, nil
}

// Batch groups several statements into one logged, unlogged, or
// counter request.
type Batch struct {
	Type              protocol.BatchType
	Queries           []BatchQuery
	Consistency       protocol.Consistency
	SerialConsistency *protocol.Consistency
	DefaultTimestamp  *int64
	Keyspace          *string
}

// NewBatch builds a Batch request, rejecting an empty child list.
func NewBatch(ty protocol.BatchType, queries ...BatchQuery) (Batch, error) {
	if len(queries) == 0 {
		return Batch{}, errs.ErrBatchEmpty
	}
	return Batch{Type: ty, Queries: queries, Consistency: protocol.ConsistencyOne}, nil
}

func (b Batch) flags() protocol.BatchFlags {
	var f protocol.BatchFlags
	if b.SerialConsistency != nil {
		f |= protocol.BatchFlagSerialConsistency
	}
	if b.DefaultTimestamp != nil {
		f |= protocol.BatchFlagDefaultTimestamp
	}
	if b.Keyspace != nil {
		f |= protocol.BatchFlagKeyspace
	}
	return f
}

func (Batch) Opcode() protocol.Opcode { return protocol.OpBatch }

func (b Batch) Length() int {
	n := 1 + 2 + 2 + 4 // type + query count + consistency + flags
	for _, q := range b.Queries {
		n += q.length()
	}
	if b.SerialConsistency != nil {
		n += 2
	}
	if b.DefaultTimestamp != nil {
		n += 8
	}
	if b.Keyspace != nil {
		n += 2 + len(*b.Keyspace)
	}
	return n
}

func (b Batch) Encode(e *primitive.Encoder) error {
	e.WriteByte(byte(b.Type))
	e.WriteShort(uint16(len(b.Queries)))
	for _, q := range b.Queries {
		q.encode(e)
	}
	e.WriteShort(uint16(b.Consistency))
	e.WriteInt(int32(b.flags()))
	if b.SerialConsistency != nil {
		e.WriteShort(uint16(*b.SerialConsistency))
	}
	if b.DefaultTimestamp != nil {
		e.WriteLong(*b.DefaultTimestamp)
	}
	if b.Keyspace != nil {
		e.WriteString(*b.Keyspace)
	}
	return nil
}

// DecodeBatch decodes a Batch request body.
func DecodeBatch(d *primitive.Decoder) (Batch, error) {
	ty, err := d.ReadByte()
	if err != nil {
		return Batch{}, err
	}
	n, err := d.ReadShort()
	if err != nil {
		return Batch{}, err
	}
	queries := make([]BatchQuery, 0, n)
	for i := uint16(0); i < n; i++ {
		q, err := decodeBatchQuery(d)
		if err != nil {
			return Batch{}, err
		}
		queries = append(queries, q)
	}

	rawCL, err := d.ReadShort()
	if err != nil {
		return Batch{}, err
	}
	rawFlags, err := d.ReadInt()
	if err != nil {
		return Batch{}, err
	}
	flags := protocol.BatchFlags(rawFlags)

	b := Batch{Type: protocol.BatchType(ty), Queries: queries, Consistency: protocol.Consistency(rawCL)}
	if flags.Has(protocol.BatchFlagSerialConsistency) {
		v, err := d.ReadShort()
		if err != nil {
			return Batch{}, err
		}
		cl := protocol.Consistency(v)
		b.SerialConsistency = &cl
	}
	if flags.Has(protocol.BatchFlagDefaultTimestamp) {
		v, err := d.ReadLong()
		if err != nil {
			return Batch{}, err
		}
		b.DefaultTimestamp = &v
	}
	if flags.Has(protocol.BatchFlagKeyspace) {
		v, err := d.ReadString()
		if err != nil {
			return Batch{}, err
		}
		b.Keyspace = &v
	}

	return b, nil
}
