package primitive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/cqlwire/internal/pool"
)

func newEncoder() *Encoder {
	return NewEncoder(pool.NewByteBuffer(64))
}

func TestScalarRoundTrip(t *testing.T) {
	e := newEncoder()
	e.WriteByte(0x7f)
	e.WriteShort(0xBEEF)
	e.WriteInt(-42)
	e.WriteLong(1 << 40)
	e.WriteBoolean(true)
	e.WriteFloat(3.5)
	e.WriteDouble(2.25)

	d := NewDecoder(e.Bytes())

	b, err := d.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x7f), b)

	sh, err := d.ReadShort()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), sh)

	i, err := d.ReadInt()
	require.NoError(t, err)
	assert.Equal(t, int32(-42), i)

	l, err := d.ReadLong()
	require.NoError(t, err)
	assert.Equal(t, int64(1<<40), l)

	bo, err := d.ReadBoolean()
	require.NoError(t, err)
	assert.True(t, bo)

	f, err := d.ReadFloat()
	require.NoError(t, err)
	assert.Equal(t, float32(3.5), f)

	do, err := d.ReadDouble()
	require.NoError(t, err)
	assert.Equal(t, 2.25, do)

	assert.Equal(t, 0, d.Remaining())
}

func TestStringAndStringListRoundTrip(t *testing.T) {
	e := newEncoder()
	e.WriteString("hello")
	e.WriteLongString("a longer string value")
	e.WriteStringList([]string{"a", "bb", "ccc"})

	d := NewDecoder(e.Bytes())

	s, err := d.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	ls, err := d.ReadLongString()
	require.NoError(t, err)
	assert.Equal(t, "a longer string value", ls)

	list, err := d.ReadStringList()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "bb", "ccc"}, list)
}

func TestBytesNullAndPresent(t *testing.T) {
	e := newEncoder()
	e.WriteBytes([]byte{1, 2, 3}, false)
	e.WriteBytes(nil, true)

	d := NewDecoder(e.Bytes())

	b, isNull, err := d.ReadBytes()
	require.NoError(t, err)
	assert.False(t, isNull)
	assert.Equal(t, []byte{1, 2, 3}, b)

	b, isNull, err = d.ReadBytes()
	require.NoError(t, err)
	assert.True(t, isNull)
	assert.Nil(t, b)
}

func TestValueTriState(t *testing.T) {
	e := newEncoder()
	e.WriteValue([]byte{9, 9}, ValuePresent)
	e.WriteValue(nil, ValueNull)
	e.WriteValue(nil, ValueNotSet)

	d := NewDecoder(e.Bytes())

	b, state, err := d.ReadValue()
	require.NoError(t, err)
	assert.Equal(t, ValuePresent, state)
	assert.Equal(t, []byte{9, 9}, b)

	_, state, err = d.ReadValue()
	require.NoError(t, err)
	assert.Equal(t, ValueNull, state)

	_, state, err = d.ReadValue()
	require.NoError(t, err)
	assert.Equal(t, ValueNotSet, state)
}

func TestInetRoundTrip(t *testing.T) {
	e := newEncoder()
	require.NoError(t, e.WriteInet([]byte{127, 0, 0, 1}, 9042))

	d := NewDecoder(e.Bytes())
	ip, port, err := d.ReadInet()
	require.NoError(t, err)
	assert.Equal(t, []byte{127, 0, 0, 1}, ip)
	assert.Equal(t, int32(9042), port)
}

func TestInetAddrRejectsBadLength(t *testing.T) {
	e := newEncoder()
	err := e.WriteInetAddr([]byte{1, 2, 3})
	require.Error(t, err)

	// Decode side: a length tag other than 4 or 16 is a protocol error.
	d := NewDecoder([]byte{0x03, 0x01, 0x02, 0x03})
	_, err = d.ReadInetAddr()
	require.Error(t, err)
}

func TestStringMapAndMultimapRoundTrip(t *testing.T) {
	e := newEncoder()
	e.WriteStringMap(map[string]string{"CQL_VERSION": "3.0.0"})
	e.WriteStringMultimap(map[string][]string{"COMPRESSION": {"snappy", "lz4"}})

	d := NewDecoder(e.Bytes())

	m, err := d.ReadStringMap()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"CQL_VERSION": "3.0.0"}, m)

	mm, err := d.ReadStringMultimap()
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"COMPRESSION": {"snappy", "lz4"}}, mm)
}

func TestReadShortOnEmptyBufferReturnsShortBuffer(t *testing.T) {
	d := NewDecoder(nil)
	_, err := d.ReadShort()
	require.Error(t, err)
}

func TestStringLengthBoundaries(t *testing.T) {
	e := newEncoder()
	long := string(make([]byte, 65535))
	e.WriteString("")
	e.WriteString(long)

	d := NewDecoder(e.Bytes())

	s, err := d.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "", s)

	s, err = d.ReadString()
	require.NoError(t, err)
	assert.Equal(t, long, s)
	assert.Equal(t, 0, d.Remaining())
}

func TestWriteStringPanicsOverMaxLength(t *testing.T) {
	e := newEncoder()
	assert.Panics(t, func() {
		e.WriteString(string(make([]byte, 65536)))
	})
}
