// Package frame implements the CQL native protocol's outermost framing
// layer: the 9-byte header (version, flags, stream id, opcode, body
// length) that wraps every message, plus whole-body compression and
// the tracing/warning fields that sit between the header and the
// message proper.
package frame

import (
	"fmt"
	"io"

	"github.com/arloliu/cqlwire/compress"
	"github.com/arloliu/cqlwire/errs"
	"github.com/arloliu/cqlwire/internal/options"
	"github.com/arloliu/cqlwire/internal/pool"
	"github.com/arloliu/cqlwire/message"
	"github.com/arloliu/cqlwire/primitive"
	"github.com/arloliu/cqlwire/protocol"
)

// HeaderLength is the fixed size of a frame header, before the body.
const HeaderLength = 9

// defaultMaxLength bounds a frame body at the protocol's own limit:
// the length field is an unsigned 31-bit quantity in practice, since
// CQL servers reject anything over 256MB by default.
const defaultMaxLength = 256 * 1024 * 1024

// Codec encodes requests and decodes responses for one negotiated
// protocol version, optionally compressing the body of every request
// frame except Startup (compression is never applied to Startup, since
// the server cannot know the algorithm until Startup negotiates it).
type Codec struct {
	version    protocol.Version
	compressor compress.Codec
	maxLength  uint32
}

// CodecOption configures a Codec at construction time.
type CodecOption = options.Option[*Codec]

// WithCompressor enables whole-body compression using c for every
// request frame except Startup.
func WithCompressor(c compress.Codec) CodecOption {
	return options.NoError(func(fc *Codec) { fc.compressor = c })
}

// WithMaxLength overrides the maximum accepted frame body length.
func WithMaxLength(n uint32) CodecOption {
	return options.NoError(func(fc *Codec) { fc.maxLength = n })
}

// NewCodec builds a Codec for version, applying opts in order.
func NewCodec(version protocol.Version, opts ...CodecOption) (*Codec, error) {
	switch version {
	case protocol.VersionV3, protocol.VersionV4, protocol.VersionV5:
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidVersion, version)
	}

	c := &Codec{version: version, maxLength: defaultMaxLength}
	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Codec) baseFlags() protocol.Flags {
	var f protocol.Flags
	if c.compressor != nil {
		f |= protocol.FlagCompression
	}
	if c.version.IsBeta() {
		f |= protocol.FlagBeta
	}
	return f
}

// EncodeRequest writes one framed request to w on stream streamID.
func (c *Codec) EncodeRequest(w io.Writer, streamID int16, msg message.Request, reqFlags message.RequestFlags) error {
	bodyBuf := pool.GetFrameBuffer()
	defer pool.PutFrameBuffer(bodyBuf)

	enc := primitive.NewEncoder(bodyBuf)
	if err := msg.Encode(enc); err != nil {
		return err
	}
	body := bodyBuf.Bytes()

	flags := c.baseFlags()
	op := msg.Opcode()
	if op == protocol.OpStartup {
		flags &^= protocol.FlagCompression
	}
	if reqFlags.Tracing {
		flags |= protocol.FlagTracing
	}
	if reqFlags.CustomPayload {
		flags |= protocol.FlagCustomPayload
	}
	if reqFlags.Warning {
		flags |= protocol.FlagWarning
	}

	headerBuf := pool.GetFrameBuffer()
	defer pool.PutFrameBuffer(headerBuf)
	henc := primitive.NewEncoder(headerBuf)
	henc.WriteByte(protocol.VersionByte(protocol.DirectionRequest, c.version))
	henc.WriteByte(byte(flags))
	henc.WriteShort(uint16(streamID))
	henc.WriteByte(byte(op))

	useCompression := c.compressor != nil && op != protocol.OpStartup
	if useCompression {
		compressed, err := c.compressor.Compress(body)
		if err != nil {
			return err
		}
		if len(compressed) > int(c.maxLength) {
			return fmt.Errorf("%w: %d bytes", errs.ErrFrameTooLarge, len(compressed))
		}
		henc.WriteInt(int32(len(compressed)))
		if _, err := w.Write(headerBuf.Bytes()); err != nil {
			return err
		}
		_, err = w.Write(compressed)
		return err
	}

	if len(body) > int(c.maxLength) {
		return fmt.Errorf("%w: %d bytes", errs.ErrFrameTooLarge, len(body))
	}
	henc.WriteInt(int32(len(body)))
	if _, err := w.Write(headerBuf.Bytes()); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

// DecodeResponse reads one framed response from r, returning the
// stream id it was sent on.
func (c *Codec) DecodeResponse(r io.Reader) (int16, message.Response, error) {
	headerBytes := make([]byte, HeaderLength)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return 0, nil, err
	}

	hd := primitive.NewDecoder(headerBytes)
	verByte, err := hd.ReadByte()
	if err != nil {
		return 0, nil, err
	}
	dir, _ := protocol.SplitVersionByte(verByte)
	if dir != protocol.DirectionResponse {
		return 0, nil, errs.ErrDirectionMismatch
	}

	flagsByte, err := hd.ReadByte()
	if err != nil {
		return 0, nil, err
	}
	flags := protocol.Flags(flagsByte)

	rawStreamID, err := hd.ReadShort()
	if err != nil {
		return 0, nil, err
	}
	streamID := int16(rawStreamID)

	opByte, err := hd.ReadByte()
	if err != nil {
		return 0, nil, err
	}
	opcode := protocol.Opcode(opByte)

	rawLen, err := hd.ReadInt()
	if err != nil {
		return 0, nil, err
	}
	length := rawLen
	if length < 0 || uint32(length) > c.maxLength {
		return 0, nil, fmt.Errorf("%w: %d bytes", errs.ErrFrameTooLarge, length)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, err
	}

	if c.compressor != nil && flags.Has(protocol.FlagCompression) {
		body, err = c.compressor.Decompress(body)
		if err != nil {
			return 0, nil, err
		}
	}

	resp, err := c.decodeMessage(opcode, flags, body)
	if err != nil {
		return 0, nil, err
	}
	return streamID, resp, nil
}

func (c *Codec) decodeMessage(opcode protocol.Opcode, flags protocol.Flags, body []byte) (message.Response, error) {
	dec := primitive.NewDecoder(body)

	var tracingID *[16]byte
	if flags.Has(protocol.FlagTracing) {
		id, err := dec.ReadUUID()
		if err != nil {
			return nil, err
		}
		tracingID = &id
	}

	if flags.Has(protocol.FlagWarning) {
		if _, err := dec.ReadStringList(); err != nil {
			return nil, err
		}
	}

	resp, err := message.DecodeResponse(opcode, dec)
	if err != nil {
		return nil, err
	}

	if res, ok := resp.(message.Result); ok {
		res.TracingID = tracingID
		resp = res
	}

	return resp, nil
}
