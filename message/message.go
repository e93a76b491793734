// Package message implements the request and response bodies of the
// CQL native protocol's message catalogue: the payload that follows a
// frame header once the header's opcode says what shape to expect.
//
// Every type here knows its own Opcode and, for requests, its encoded
// Length and how to Encode itself; decoding is a free function per
// type (DecodeXxx) dispatched by the frame layer on opcode, since a
// decoder has no value to call a method on yet.
package message

import (
	"github.com/arloliu/cqlwire/primitive"
	"github.com/arloliu/cqlwire/protocol"
)

// Request is a message a client sends to the server.
type Request interface {
	Opcode() protocol.Opcode
	Length() int
	Encode(e *primitive.Encoder) error
}

// Response is a message a server sends to the client.
type Response interface {
	Opcode() protocol.Opcode
}

// RequestFlags are the per-request flags a caller sets independent of
// the frame-wide Compression/Beta flags the frame layer manages on its
// own.
type RequestFlags struct {
	Tracing       bool
	CustomPayload bool
	Warning       bool
}

// Inet is a CQL [inet]: a raw 4- or 16-byte address plus a port.
type Inet struct {
	IP   []byte
	Port int32
}

func (n Inet) length() int { return 1 + len(n.IP) + 4 }

func (n Inet) encode(e *primitive.Encoder) error { return e.WriteInet(n.IP, n.Port) }

func decodeInet(d *primitive.Decoder) (Inet, error) {
	ip, port, err := d.ReadInet()
	if err != nil {
		return Inet{}, err
	}
	return Inet{IP: ip, Port: port}, nil
}
