package message

import (
	"fmt"

	"github.com/arloliu/cqlwire/datatype"
	"github.com/arloliu/cqlwire/errs"
	"github.com/arloliu/cqlwire/internal/pool"
	"github.com/arloliu/cqlwire/primitive"
	"github.com/arloliu/cqlwire/protocol"
)

// ResultBody is the kind-specific payload of a Result response.
type ResultBody interface {
	ResultKind() protocol.ResultKind
}

// Void is the body of a Result carrying no further information, e.g.
// after a DDL statement or a write.
type Void struct{}

func (Void) ResultKind() protocol.ResultKind { return protocol.ResultVoid }

// SetKeyspace is the body of a Result after a USE statement.
type SetKeyspace struct {
	Keyspace string
}

func (SetKeyspace) ResultKind() protocol.ResultKind { return protocol.ResultSetKeyspace }

// GlobalTableSpec names the keyspace/table that every column in a
// RowsMetadata or PreparedMetadata shares, when GlobalTablesSpec is set.
type GlobalTableSpec struct {
	Keyspace string
	Table    string
}

func (g GlobalTableSpec) length() int { return 2 + len(g.Keyspace) + 2 + len(g.Table) }

func (g GlobalTableSpec) encode(e *primitive.Encoder) {
	e.WriteString(g.Keyspace)
	e.WriteString(g.Table)
}

func decodeGlobalTableSpec(d *primitive.Decoder) (GlobalTableSpec, error) {
	ks, err := d.ReadString()
	if err != nil {
		return GlobalTableSpec{}, err
	}
	table, err := d.ReadString()
	if err != nil {
		return GlobalTableSpec{}, err
	}
	return GlobalTableSpec{Keyspace: ks, Table: table}, nil
}

// ColSpec describes one column's name and type. Table is set only when
// the enclosing metadata does NOT use a global table spec; otherwise
// every column shares that spec.
type ColSpec struct {
	Table *GlobalTableSpec
	Name  string
	Type  datatype.Opt
}

func (c ColSpec) length() int {
	n := 2 + len(c.Name) + datatype.OptLength(c.Type)
	if c.Table != nil {
		n += c.Table.length()
	}
	return n
}

func (c ColSpec) encode(e *primitive.Encoder) error {
	if c.Table != nil {
		c.Table.encode(e)
	}
	e.WriteString(c.Name)
	return datatype.WriteOpt(e, c.Type)
}

func decodeColSpec(d *primitive.Decoder, globalTableSpec bool) (ColSpec, error) {
	var table *GlobalTableSpec
	if !globalTableSpec {
		t, err := decodeGlobalTableSpec(d)
		if err != nil {
			return ColSpec{}, err
		}
		table = &t
	}
	name, err := d.ReadString()
	if err != nil {
		return ColSpec{}, err
	}
	typ, err := datatype.ReadOpt(d)
	if err != nil {
		return ColSpec{}, err
	}
	return ColSpec{Table: table, Name: name, Type: typ}, nil
}

// RowsMetadata describes the column layout and paging state of a Rows
// result. PagingState is written only when HasMorePages is set, and
// the flag is derived from PagingState being non-nil, so the encode
// and decode sides cannot disagree.
type RowsMetadata struct {
	NoMetadata bool
	// PagingState is non-nil exactly when HasMorePages should be set.
	PagingState []byte
	// NewMetadataID is non-nil exactly when MetadataChanged should be set.
	NewMetadataID []byte
	Table         *GlobalTableSpec
	Columns       []ColSpec
}

func (m RowsMetadata) flags() protocol.RowsFlags {
	var f protocol.RowsFlags
	if m.Table != nil {
		f |= protocol.RowsFlagGlobalTablesSpec
	}
	if m.PagingState != nil {
		f |= protocol.RowsFlagHasMorePages
	}
	if m.NoMetadata {
		f |= protocol.RowsFlagNoMetadata
	}
	if m.NewMetadataID != nil {
		f |= protocol.RowsFlagMetadataChanged
	}
	return f
}

func (m RowsMetadata) length() int {
	n := 4 + 4 // flags + column count
	if m.PagingState != nil {
		n += 4 + len(m.PagingState)
	}
	if m.NewMetadataID != nil {
		n += 2 + len(m.NewMetadataID)
	}
	if m.NoMetadata {
		return n
	}
	if m.Table != nil {
		n += m.Table.length()
	}
	for _, c := range m.Columns {
		n += c.length()
	}
	return n
}

func (m RowsMetadata) encode(e *primitive.Encoder) error {
	e.WriteInt(int32(m.flags()))
	e.WriteInt(int32(len(m.Columns)))
	if m.PagingState != nil {
		e.WriteBytes(m.PagingState, false)
	}
	if m.NewMetadataID != nil {
		e.WriteShortBytes(m.NewMetadataID)
	}
	if m.NoMetadata {
		return nil
	}
	if m.Table != nil {
		m.Table.encode(e)
	}
	for _, c := range m.Columns {
		if err := c.encode(e); err != nil {
			return err
		}
	}
	return nil
}

func decodeRowsMetadata(d *primitive.Decoder) (RowsMetadata, error) {
	rawFlags, err := d.ReadInt()
	if err != nil {
		return RowsMetadata{}, err
	}
	colCount, err := d.ReadInt()
	if err != nil {
		return RowsMetadata{}, err
	}
	flags := protocol.RowsFlags(rawFlags)

	m := RowsMetadata{NoMetadata: flags.Has(protocol.RowsFlagNoMetadata)}

	if flags.Has(protocol.RowsFlagHasMorePages) {
		b, isNull, err := d.ReadBytes()
		if err != nil {
			return RowsMetadata{}, err
		}
		if isNull {
			b = []byte{}
		}
		m.PagingState = b
	}
	if flags.Has(protocol.RowsFlagMetadataChanged) {
		b, err := d.ReadShortBytes()
		if err != nil {
			return RowsMetadata{}, err
		}
		m.NewMetadataID = b
	}
	if m.NoMetadata {
		return m, nil
	}

	globalSpec := flags.Has(protocol.RowsFlagGlobalTablesSpec)
	if globalSpec {
		t, err := decodeGlobalTableSpec(d)
		if err != nil {
			return RowsMetadata{}, err
		}
		m.Table = &t
	}
	m.Columns = make([]ColSpec, 0, colCount)
	for i := int32(0); i < colCount; i++ {
		c, err := decodeColSpec(d, globalSpec)
		if err != nil {
			return RowsMetadata{}, err
		}
		m.Columns = append(m.Columns, c)
	}
	return m, nil
}

// PreparedMetadata describes the bind-marker layout of a prepared
// statement.
type PreparedMetadata struct {
	PKIndices []uint16
	Table     *GlobalTableSpec
	Columns   []ColSpec
}

func (m PreparedMetadata) flags() protocol.PreparedFlags {
	var f protocol.PreparedFlags
	if m.Table != nil {
		f |= protocol.PreparedFlagGlobalTablesSpec
	}
	return f
}

func (m PreparedMetadata) length() int {
	n := 4 + 4 + 4 + 2*len(m.PKIndices)
	if m.Table != nil {
		n += m.Table.length()
	}
	for _, c := range m.Columns {
		n += c.length()
	}
	return n
}

func (m PreparedMetadata) encode(e *primitive.Encoder) error {
	e.WriteInt(int32(m.flags()))
	e.WriteInt(int32(len(m.Columns)))
	e.WriteInt(int32(len(m.PKIndices)))
	for _, idx := range m.PKIndices {
		e.WriteShort(idx)
	}
	if m.Table != nil {
		m.Table.encode(e)
	}
	for _, c := range m.Columns {
		if err := c.encode(e); err != nil {
			return err
		}
	}
	return nil
}

func decodePreparedMetadata(d *primitive.Decoder) (PreparedMetadata, error) {
	rawFlags, err := d.ReadInt()
	if err != nil {
		return PreparedMetadata{}, err
	}
	colCount, err := d.ReadInt()
	if err != nil {
		return PreparedMetadata{}, err
	}
	pkCount, err := d.ReadInt()
	if err != nil {
		return PreparedMetadata{}, err
	}
	pk := make([]uint16, 0, pkCount)
	for i := int32(0); i < pkCount; i++ {
		v, err := d.ReadShort()
		if err != nil {
			return PreparedMetadata{}, err
		}
		pk = append(pk, v)
	}

	globalSpec := protocol.PreparedFlags(rawFlags).Has(protocol.PreparedFlagGlobalTablesSpec)
	var table *GlobalTableSpec
	if globalSpec {
		t, err := decodeGlobalTableSpec(d)
		if err != nil {
			return PreparedMetadata{}, err
		}
		table = &t
	}
	cols := make([]ColSpec, 0, colCount)
	for i := int32(0); i < colCount; i++ {
		c, err := decodeColSpec(d, globalSpec)
		if err != nil {
			return PreparedMetadata{}, err
		}
		cols = append(cols, c)
	}
	return PreparedMetadata{PKIndices: pk, Table: table, Columns: cols}, nil
}

// Rows is the body of a Result returned by a SELECT. Content holds one
// []byte (or nil for NULL) per column, per row.
type Rows struct {
	Metadata RowsMetadata
	Content  [][][]byte
}

func (Rows) ResultKind() protocol.ResultKind { return protocol.ResultRows }

func (r Rows) length() int {
	n := r.Metadata.length() + 4 // + row count
	for _, row := range r.Content {
		for _, col := range row {
			if col == nil {
				n += 4
			} else {
				n += 4 + len(col)
			}
		}
	}
	return n
}

func (r Rows) encode(e *primitive.Encoder) error {
	if err := r.Metadata.encode(e); err != nil {
		return err
	}
	e.WriteInt(int32(len(r.Content)))
	for _, row := range r.Content {
		for _, col := range row {
			e.WriteBytes(col, col == nil)
		}
	}
	return nil
}

func decodeRows(d *primitive.Decoder) (Rows, error) {
	metadata, err := decodeRowsMetadata(d)
	if err != nil {
		return Rows{}, err
	}
	rowCount, err := d.ReadInt()
	if err != nil {
		return Rows{}, err
	}
	colCount := len(metadata.Columns)
	content := make([][][]byte, 0, rowCount)
	for i := int32(0); i < rowCount; i++ {
		row := make([][]byte, colCount)
		for c := 0; c < colCount; c++ {
			b, isNull, err := d.ReadBytes()
			if err != nil {
				return Rows{}, err
			}
			if !isNull {
				row[c] = b
			}
		}
		content = append(content, row)
	}
	return Rows{Metadata: metadata, Content: content}, nil
}

// Value unmarshals column colIdx of row rowIdx using that column's own
// declared type from Metadata, so callers do not have to zip raw
// Content bytes against Metadata.Columns by hand.
func (r Rows) Value(rowIdx, colIdx int) (any, error) {
	b := r.Content[rowIdx][colIdx]
	if b == nil {
		return nil, nil
	}
	return datatype.Unmarshal(r.Metadata.Columns[colIdx].Type, b)
}

// Int64Column materializes column colIdx of every row into a pooled
// []int64, for Bigint/Counter/Timestamp/Time-typed columns that a
// caller wants to consume as a flat slice rather than one Value call
// per row. The returned cleanup func must be called once the caller is
// done with the slice; a NULL cell decodes as 0.
func (r Rows) Int64Column(colIdx int) (out []int64, cleanup func(), err error) {
	out, cleanup = pool.GetInt64Slice(len(r.Content))
	for i := range r.Content {
		v, err := r.Value(i, colIdx)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		if v == nil {
			// Pooled slices carry stale contents; NULL must overwrite.
			out[i] = 0
			continue
		}
		n, ok := v.(int64)
		if !ok {
			cleanup()
			return nil, func() {}, errs.ErrInvalidOpt
		}
		out[i] = n
	}
	return out, cleanup, nil
}

// Float64Column materializes column colIdx of every row into a pooled
// []float64, for Double-typed columns (Float columns widen to
// float64 as they decode). The returned cleanup func must be called
// once the caller is done with the slice; a NULL cell decodes as 0.
func (r Rows) Float64Column(colIdx int) (out []float64, cleanup func(), err error) {
	out, cleanup = pool.GetFloat64Slice(len(r.Content))
	for i := range r.Content {
		v, err := r.Value(i, colIdx)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		if v == nil {
			out[i] = 0
			continue
		}
		switch n := v.(type) {
		case float64:
			out[i] = n
		case float32:
			out[i] = float64(n)
		default:
			cleanup()
			return nil, func() {}, errs.ErrInvalidOpt
		}
	}
	return out, cleanup, nil
}

// StringColumn materializes column colIdx of every row into a pooled
// []string, for Ascii/Varchar-typed columns. The returned cleanup func
// must be called once the caller is done with the slice; a NULL cell
// decodes as the empty string.
func (r Rows) StringColumn(colIdx int) (out []string, cleanup func(), err error) {
	out, cleanup = pool.GetStringSlice(len(r.Content))
	for i := range r.Content {
		v, err := r.Value(i, colIdx)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		if v == nil {
			out[i] = ""
			continue
		}
		s, ok := v.(string)
		if !ok {
			cleanup()
			return nil, func() {}, errs.ErrInvalidOpt
		}
		out[i] = s
	}
	return out, cleanup, nil
}

// Prepared is the body of a Result returned by a Prepare request.
type Prepared struct {
	ID             []byte
	Metadata       PreparedMetadata
	ResultMetadata RowsMetadata
}

func (Prepared) ResultKind() protocol.ResultKind { return protocol.ResultPrepared }

func (p Prepared) length() int {
	return 2 + len(p.ID) + p.Metadata.length() + p.ResultMetadata.length()
}

func (p Prepared) encode(e *primitive.Encoder) error {
	e.WriteShortBytes(p.ID)
	if err := p.Metadata.encode(e); err != nil {
		return err
	}
	return p.ResultMetadata.encode(e)
}

func decodePrepared(d *primitive.Decoder) (Prepared, error) {
	id, err := d.ReadShortBytes()
	if err != nil {
		return Prepared{}, err
	}
	md, err := decodePreparedMetadata(d)
	if err != nil {
		return Prepared{}, err
	}
	rmd, err := decodeRowsMetadata(d)
	if err != nil {
		return Prepared{}, err
	}
	return Prepared{ID: id, Metadata: md, ResultMetadata: rmd}, nil
}

// Result is the server's reply to a Query, Prepare, Execute, or Batch
// request that completed successfully. TracingID is set by the frame
// layer, not encoded as part of the body itself, when the request had
// tracing enabled.
type Result struct {
	Body      ResultBody
	TracingID *[16]byte
}

func (Result) Opcode() protocol.Opcode { return protocol.OpResult }

func (r Result) Length() int {
	n := 4 // kind
	switch b := r.Body.(type) {
	case Rows:
		n += b.length()
	case SetKeyspace:
		n += 2 + len(b.Keyspace)
	case Prepared:
		n += b.length()
	case SchemaChange:
		n += b.length()
	}
	return n
}

func (r Result) Encode(enc *primitive.Encoder) error {
	enc.WriteInt(int32(r.Body.ResultKind()))
	switch b := r.Body.(type) {
	case Void:
		return nil
	case Rows:
		return b.encode(enc)
	case SetKeyspace:
		enc.WriteString(b.Keyspace)
		return nil
	case Prepared:
		return b.encode(enc)
	case SchemaChange:
		return b.encode(enc)
	default:
		return fmt.Errorf("%w: unknown result body %T", errs.ErrUnknownResultKind, r.Body)
	}
}

// DecodeResult decodes a Result response body, dispatching on the
// result kind to pick the right body shape.
func DecodeResult(d *primitive.Decoder) (Result, error) {
	raw, err := d.ReadInt()
	if err != nil {
		return Result{}, err
	}
	kind := protocol.ResultKind(raw)

	var body ResultBody
	switch kind {
	case protocol.ResultVoid:
		body = Void{}
	case protocol.ResultRows:
		body, err = decodeRows(d)
	case protocol.ResultSetKeyspace:
		var ks string
		ks, err = d.ReadString()
		body = SetKeyspace{Keyspace: ks}
	case protocol.ResultPrepared:
		body, err = decodePrepared(d)
	case protocol.ResultSchemaChange:
		body, err = decodeSchemaChange(d)
	default:
		return Result{}, fmt.Errorf("%w: %d", errs.ErrUnknownResultKind, raw)
	}
	if err != nil {
		return Result{}, err
	}

	return Result{Body: body}, nil
}
