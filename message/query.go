package message

import (
	"github.com/arloliu/cqlwire/errs"
	"github.com/arloliu/cqlwire/primitive"
	"github.com/arloliu/cqlwire/protocol"
)

// Query is a single CQL statement with bound parameters, sent directly
// without a prior Prepare round trip.
type Query struct {
	CQL    string
	Params QueryParams
}

// NewQuery builds a Query request, rejecting an empty statement.
func NewQuery(cql string, params QueryParams) (Query, error) {
	if cql == "" {
		return Query{}, errs.ErrEmptyQuery
	}
	return Query{CQL: cql, Params: params}, nil
}

func (Query) Opcode() protocol.Opcode { return protocol.OpQuery }

func (q Query) Length() int { return 4 + len(q.CQL) + q.Params.Length() }

func (q Query) Encode(e *primitive.Encoder) error {
	e.WriteLongString(q.CQL)
	return q.Params.Encode(e)
}

// DecodeQuery decodes a Query request body.
func DecodeQuery(d *primitive.Decoder) (Query, error) {
	cql, err := d.ReadLongString()
	if err != nil {
		return Query{}, err
	}
	params, err := DecodeQueryParams(d)
	if err != nil {
		return Query{}, err
	}
	return Query{CQL: cql, Params: params}, nil
}

// Prepare asks the server to parse and plan a CQL statement, returning
// a short-bytes handle for later Execute requests.
type Prepare struct {
	CQL string
	// Keyspace scopes preparation to a keyspace other than the
	// connection's current one (protocol v5+).
	Keyspace *string
}

// NewPrepare builds a Prepare request, rejecting an empty statement.
func NewPrepare(cql string) (Prepare, error) {
	if cql == "" {
		return Prepare{}, errs.ErrEmptyQuery
	}
	return Prepare{CQL: cql}, nil
}

func (Prepare) Opcode() protocol.Opcode { return protocol.OpPrepare }

func (p Prepare) Length() int {
	n := 4 + len(p.CQL) + 4
	if p.Keyspace != nil {
		n += 2 + len(*p.Keyspace)
	}
	return n
}

func (p Prepare) Encode(e *primitive.Encoder) error {
	e.WriteLongString(p.CQL)
	if p.Keyspace != nil {
		e.WriteInt(int32(protocol.PrepareFlagKeyspace))
		e.WriteString(*p.Keyspace)
	} else {
		e.WriteInt(0)
	}
	return nil
}

// DecodePrepare decodes a Prepare request body.
func DecodePrepare(d *primitive.Decoder) (Prepare, error) {
	cql, err := d.ReadLongString()
	if err != nil {
		return Prepare{}, err
	}
	rawFlags, err := d.ReadInt()
	if err != nil {
		return Prepare{}, err
	}
	p := Prepare{CQL: cql}
	if protocol.PrepareFlags(rawFlags).Has(protocol.PrepareFlagKeyspace) {
		ks, err := d.ReadString()
		if err != nil {
			return Prepare{}, err
		}
		p.Keyspace = &ks
	}
	return p, nil
}

// Execute runs a previously prepared statement identified by the
// server-assigned id Prepared.ID returned.
type Execute struct {
	ID     []byte
	Params QueryParams
}

func (Execute) Opcode() protocol.Opcode { return protocol.OpExecute }

func (x Execute) Length() int { return 2 + len(x.ID) + x.Params.Length() }

func (x Execute) Encode(e *primitive.Encoder) error {
	e.WriteShortBytes(x.ID)
	return x.Params.Encode(e)
}

// DecodeExecute decodes an Execute request body.
func DecodeExecute(d *primitive.Decoder) (Execute, error) {
	id, err := d.ReadShortBytes()
	if err != nil {
		return Execute{}, err
	}
	params, err := DecodeQueryParams(d)
	if err != nil {
		return Execute{}, err
	}
	return Execute{ID: id, Params: params}, nil
}
