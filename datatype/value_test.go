package datatype

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/cqlwire/vint"
)

func TestMarshalUnmarshalScalars(t *testing.T) {
	cases := []struct {
		id  ID
		val any
	}{
		{IDAscii, "hello"},
		{IDVarchar, "héllo wörld"},
		{IDBigint, int64(-123456789012)},
		{IDCounter, int64(42)},
		{IDBlob, []byte{0xde, 0xad, 0xbe, 0xef}},
		{IDBoolean, true},
		{IDDouble, 3.14159},
		{IDFloat, float32(2.5)},
		{IDInt, int32(-7)},
		{IDTimestamp, int64(1700000000000)},
		{IDSmallint, int16(-300)},
		{IDTinyint, int8(-5)},
		{IDDate, int32(19000)},
		{IDTime, int64(86399999999999)},
		{IDInet, []byte{127, 0, 0, 1}},
	}

	for _, c := range cases {
		raw, err := Marshal(c.id, c.val)
		require.NoError(t, err, c.id.String())

		got, err := Unmarshal(Simple(c.id), raw)
		require.NoError(t, err, c.id.String())
		assert.Equal(t, c.val, got, c.id.String())
	}
}

func TestMarshalUnmarshalUUID(t *testing.T) {
	var u [16]byte
	for i := range u {
		u[i] = byte(i)
	}
	raw, err := Marshal(IDUuid, u)
	require.NoError(t, err)

	got, err := Unmarshal(Simple(IDUuid), raw)
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestMarshalUnmarshalVarintRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 127, -128, 128, -129, 1 << 40, -(1 << 40)}
	for _, v := range values {
		raw, err := Marshal(IDVarint, big.NewInt(v))
		require.NoError(t, err)

		got, err := Unmarshal(Simple(IDVarint), raw)
		require.NoError(t, err)
		assert.Equal(t, v, got.(*big.Int).Int64(), "value %d", v)
	}
}

func TestMarshalUnmarshalDecimal(t *testing.T) {
	d := Decimal{Unscaled: big.NewInt(-12345), Scale: 2}
	raw, err := Marshal(IDDecimal, d)
	require.NoError(t, err)

	got, err := Unmarshal(Simple(IDDecimal), raw)
	require.NoError(t, err)
	gd := got.(Decimal)
	assert.Equal(t, d.Scale, gd.Scale)
	assert.Equal(t, d.Unscaled.Int64(), gd.Unscaled.Int64())
}

func TestMarshalUnmarshalDuration(t *testing.T) {
	d := Duration{Months: -3, Days: 10, Nanoseconds: 123456789}
	raw, err := Marshal(IDDuration, d)
	require.NoError(t, err)

	got, err := Unmarshal(Simple(IDDuration), raw)
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestDurationEncodedLengthIsSumOfVIntLengths(t *testing.T) {
	d := Duration{Months: 1, Days: 2, Nanoseconds: 1_000_000_000}
	raw, err := Marshal(IDDuration, d)
	require.NoError(t, err)

	months := vint.EncodeInt32(nil, d.Months)
	days := vint.EncodeInt32(nil, d.Days)
	nanos := vint.EncodeInt64(nil, d.Nanoseconds)
	assert.Len(t, raw, len(months)+len(days)+len(nanos))

	got, err := Unmarshal(Simple(IDDuration), raw)
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestDateEpochEncodesToBias(t *testing.T) {
	raw, err := Marshal(IDDate, int32(0))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x80, 0x00, 0x00, 0x00}, raw)

	got, err := Unmarshal(Simple(IDDate), raw)
	require.NoError(t, err)
	assert.Equal(t, int32(0), got)
}

func TestMarshalTypeMismatch(t *testing.T) {
	_, err := Marshal(IDInt, "not an int32")
	assert.Error(t, err)
}

func TestMarshalUnmarshalList(t *testing.T) {
	opt := Opt{ID: IDList, Elem: &Opt{ID: IDInt}}
	raw, err := MarshalCollection(opt, []any{int32(1), nil, int32(3)})
	require.NoError(t, err)

	got, err := Unmarshal(opt, raw)
	require.NoError(t, err)
	assert.Equal(t, []any{int32(1), nil, int32(3)}, got)
}

func TestMarshalUnmarshalMapWithNullValue(t *testing.T) {
	opt := Opt{ID: IDMap, Key: &Opt{ID: IDVarchar}, Value: &Opt{ID: IDInt}}
	entries := []MapEntry{
		{Key: "a", Value: int32(1)},
		{Key: "b", Value: nil},
	}
	raw, err := MarshalCollection(opt, entries)
	require.NoError(t, err)

	got, err := Unmarshal(opt, raw)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestMarshalUnmarshalUDT(t *testing.T) {
	opt := Opt{
		ID: IDUdt,
		UDT: &UDTType{
			Keyspace: "ks",
			Name:     "address",
			Fields: []UDTField{
				{Name: "street", Type: Simple(IDVarchar)},
				{Name: "number", Type: Simple(IDInt)},
			},
		},
	}
	raw, err := MarshalCollection(opt, []any{"Main St", int32(42)})
	require.NoError(t, err)

	got, err := Unmarshal(opt, raw)
	require.NoError(t, err)
	assert.Equal(t, []any{"Main St", int32(42)}, got)
}

func TestMarshalUnmarshalTuple(t *testing.T) {
	opt := Opt{ID: IDTuple, Tuple: []Opt{Simple(IDInt), Simple(IDVarchar)}}
	raw, err := MarshalCollection(opt, []any{int32(7), "seven"})
	require.NoError(t, err)

	got, err := Unmarshal(opt, raw)
	require.NoError(t, err)
	assert.Equal(t, []any{int32(7), "seven"}, got)
}
