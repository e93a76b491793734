package frame

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/cqlwire/compress"
	"github.com/arloliu/cqlwire/message"
	"github.com/arloliu/cqlwire/primitive"
	"github.com/arloliu/cqlwire/protocol"
)

func TestEmptyOptionsRequestWireForm(t *testing.T) {
	codec, err := NewCodec(protocol.VersionV4)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, codec.EncodeRequest(&buf, 1, message.Options{}, message.RequestFlags{}))

	// Expected wire form: 04 00 00 01 05 00 00 00 00, 9 bytes total, empty body.
	want := []byte{0x04, 0x00, 0x00, 0x01, 0x05, 0x00, 0x00, 0x00, 0x00}
	assert.Equal(t, want, buf.Bytes())
}

func TestEncodeRequestHasRequestVersionByte(t *testing.T) {
	codec, err := NewCodec(protocol.VersionV4)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, codec.EncodeRequest(&buf, 0, message.Options{}, message.RequestFlags{}))
	assert.Zero(t, buf.Bytes()[0]&0x80)
}

func TestDecodeResponseRoundTrip(t *testing.T) {
	codec, err := NewCodec(protocol.VersionV4)
	require.NoError(t, err)

	// Build a raw response frame by hand: v4 response, no flags, stream 7, READY.
	var buf bytes.Buffer
	buf.Write([]byte{
		protocol.VersionByte(protocol.DirectionResponse, protocol.VersionV4),
		0x00,
		0x00, 0x07,
		byte(protocol.OpReady),
		0x00, 0x00, 0x00, 0x00,
	})

	streamID, resp, err := codec.DecodeResponse(&buf)
	require.NoError(t, err)
	assert.Equal(t, int16(7), streamID)
	assert.Equal(t, protocol.OpReady, resp.Opcode())
}

func TestDecodeResponseRejectsRequestDirection(t *testing.T) {
	codec, err := NewCodec(protocol.VersionV4)
	require.NoError(t, err)

	var buf bytes.Buffer
	buf.Write([]byte{
		protocol.VersionByte(protocol.DirectionRequest, protocol.VersionV4),
		0x00, 0x00, 0x00, byte(protocol.OpReady),
		0x00, 0x00, 0x00, 0x00,
	})

	_, _, err = codec.DecodeResponse(&buf)
	assert.Error(t, err)
}

func TestQueryRequestResponseCycle(t *testing.T) {
	codec, err := NewCodec(protocol.VersionV4)
	require.NoError(t, err)

	q, err := message.NewQuery("SELECT * FROM t", message.QueryParams{Consistency: protocol.ConsistencyOne})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, codec.EncodeRequest(&buf, 5, q, message.RequestFlags{}))

	decoded, err := message.DecodeRequest(protocol.OpQuery, primitive.NewDecoder(buf.Bytes()[HeaderLength:]))
	require.NoError(t, err)
	got := decoded.(message.Query)
	assert.Equal(t, q.CQL, got.CQL)
}

func TestCompressedRoundTrip(t *testing.T) {
	comp := compress.NewLZ4Compressor()
	encCodec, err := NewCodec(protocol.VersionV4, WithCompressor(comp))
	require.NoError(t, err)
	decCodec, err := NewCodec(protocol.VersionV4, WithCompressor(comp))
	require.NoError(t, err)

	q, err := message.NewQuery("SELECT * FROM large_table WHERE k = 1", message.QueryParams{Consistency: protocol.ConsistencyQuorum})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, encCodec.EncodeRequest(&buf, 3, q, message.RequestFlags{}))

	// The Compression flag must be set in the header.
	assert.True(t, protocol.Flags(buf.Bytes()[1]).Has(protocol.FlagCompression))

	// We only have a request-side encoder; build a matching response frame
	// for the decode path by re-using the same compressor to compress the
	// declared body directly, mirroring what a server would send back.
	var respBuf bytes.Buffer
	respBuf.WriteByte(protocol.VersionByte(protocol.DirectionResponse, protocol.VersionV4))
	respBuf.WriteByte(byte(protocol.FlagCompression))
	respBuf.Write([]byte{0x00, 0x03})
	respBuf.WriteByte(byte(protocol.OpReady))

	compressedBody, err := comp.Compress(nil)
	require.NoError(t, err)
	respBuf.Write([]byte{0, 0, 0, byte(len(compressedBody))})
	respBuf.Write(compressedBody)

	streamID, resp, err := decCodec.DecodeResponse(&respBuf)
	require.NoError(t, err)
	assert.Equal(t, int16(3), streamID)
	assert.Equal(t, protocol.OpReady, resp.Opcode())
}

func TestStartupNeverCompressedEvenWithCompressor(t *testing.T) {
	comp := compress.NewLZ4Compressor()
	codec, err := NewCodec(protocol.VersionV4, WithCompressor(comp))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, codec.EncodeRequest(&buf, 0, message.NewStartup(), message.RequestFlags{}))
	flags := protocol.Flags(buf.Bytes()[1])
	assert.False(t, flags.Has(protocol.FlagCompression))
}

func TestBetaVersionSetsBetaFlag(t *testing.T) {
	codec, err := NewCodec(protocol.VersionV5)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, codec.EncodeRequest(&buf, 0, message.Options{}, message.RequestFlags{}))
	flags := protocol.Flags(buf.Bytes()[1])
	assert.True(t, flags.Has(protocol.FlagBeta))
}

func TestRequestFlagsTracingCustomWarning(t *testing.T) {
	codec, err := NewCodec(protocol.VersionV4)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, codec.EncodeRequest(&buf, 0, message.Options{}, message.RequestFlags{
		Tracing:       true,
		CustomPayload: true,
		Warning:       true,
	}))
	flags := protocol.Flags(buf.Bytes()[1])
	assert.True(t, flags.Has(protocol.FlagTracing))
	assert.True(t, flags.Has(protocol.FlagCustomPayload))
	assert.True(t, flags.Has(protocol.FlagWarning))
}

func TestInvalidVersionRejected(t *testing.T) {
	_, err := NewCodec(protocol.Version(99))
	assert.Error(t, err)
}

func TestDecodeResponseTracingUUIDAttachedToResult(t *testing.T) {
	codec, err := NewCodec(protocol.VersionV4)
	require.NoError(t, err)

	var tracingID [16]byte
	for i := range tracingID {
		tracingID[i] = byte(i + 1)
	}

	// Body: tracing UUID, then a Void result (kind=1).
	var body bytes.Buffer
	body.Write(tracingID[:])
	body.Write([]byte{0x00, 0x00, 0x00, 0x01})

	var buf bytes.Buffer
	buf.Write([]byte{
		protocol.VersionByte(protocol.DirectionResponse, protocol.VersionV4),
		byte(protocol.FlagTracing),
		0x00, 0x02,
		byte(protocol.OpResult),
		0x00, 0x00, 0x00, byte(body.Len()),
	})
	buf.Write(body.Bytes())

	streamID, resp, err := codec.DecodeResponse(&buf)
	require.NoError(t, err)
	assert.Equal(t, int16(2), streamID)

	res, ok := resp.(message.Result)
	require.True(t, ok)
	require.NotNil(t, res.TracingID)
	assert.Equal(t, tracingID, *res.TracingID)
	assert.IsType(t, message.Void{}, res.Body)
}

func TestDecodeResponseDiscardsWarningList(t *testing.T) {
	codec, err := NewCodec(protocol.VersionV4)
	require.NoError(t, err)

	// Body: a one-element warning string list, then a Void result.
	var body bytes.Buffer
	body.Write([]byte{0x00, 0x01})
	body.Write([]byte{0x00, 0x04})
	body.WriteString("slow")
	body.Write([]byte{0x00, 0x00, 0x00, 0x01})

	var buf bytes.Buffer
	buf.Write([]byte{
		protocol.VersionByte(protocol.DirectionResponse, protocol.VersionV4),
		byte(protocol.FlagWarning),
		0x00, 0x00,
		byte(protocol.OpResult),
		0x00, 0x00, 0x00, byte(body.Len()),
	})
	buf.Write(body.Bytes())

	_, resp, err := codec.DecodeResponse(&buf)
	require.NoError(t, err)
	res := resp.(message.Result)
	assert.IsType(t, message.Void{}, res.Body)
	assert.Nil(t, res.TracingID)
}

func TestDecodeResponseRejectsUnknownOpcode(t *testing.T) {
	codec, err := NewCodec(protocol.VersionV4)
	require.NoError(t, err)

	var buf bytes.Buffer
	buf.Write([]byte{
		protocol.VersionByte(protocol.DirectionResponse, protocol.VersionV4),
		0x00, 0x00, 0x00,
		0x42, // not a registered opcode
		0x00, 0x00, 0x00, 0x00,
	})

	_, _, err = codec.DecodeResponse(&buf)
	assert.Error(t, err)
}

func TestDecodeResponseRejectsOversizedFrame(t *testing.T) {
	codec, err := NewCodec(protocol.VersionV4, WithMaxLength(4))
	require.NoError(t, err)

	var buf bytes.Buffer
	buf.Write([]byte{
		protocol.VersionByte(protocol.DirectionResponse, protocol.VersionV4),
		0x00, 0x00, 0x00, byte(protocol.OpReady),
		0x00, 0x00, 0x00, 0x10, // declares 16 bytes, over the 4-byte cap
	})

	_, _, err = codec.DecodeResponse(&buf)
	assert.Error(t, err)
}
