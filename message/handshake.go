package message

import (
	"github.com/arloliu/cqlwire/primitive"
	"github.com/arloliu/cqlwire/protocol"
)

// Startup is the first request a client sends on a new connection,
// negotiating the CQL language version and, optionally, a compression
// algorithm for every subsequent frame.
type Startup struct {
	Options map[string]string
}

// NewStartup builds a Startup request advertising this library's CQL
// language version.
func NewStartup() Startup {
	return Startup{Options: map[string]string{protocol.OptionCQLVersion: protocol.CQLVersion}}
}

// SetCompression advertises a compression algorithm name ("lz4" or
// "snappy") that the connection will use once the server accepts it.
func (s Startup) SetCompression(name string) {
	s.Options[protocol.OptionCompression] = name
}

func (Startup) Opcode() protocol.Opcode { return protocol.OpStartup }

func (s Startup) Length() int {
	n := 2
	for k, v := range s.Options {
		n += 2 + len(k) + 2 + len(v)
	}
	return n
}

func (s Startup) Encode(e *primitive.Encoder) error {
	e.WriteStringMap(s.Options)
	return nil
}

// DecodeStartup decodes a Startup request body.
func DecodeStartup(d *primitive.Decoder) (Startup, error) {
	m, err := d.ReadStringMap()
	if err != nil {
		return Startup{}, err
	}
	return Startup{Options: m}, nil
}

// Options requests the server's supported startup options: CQL
// versions, protocol versions, and compression algorithms.
type Options struct{}

func (Options) Opcode() protocol.Opcode         { return protocol.OpOptions }
func (Options) Length() int                     { return 0 }
func (Options) Encode(*primitive.Encoder) error { return nil }

// DecodeOptions decodes an Options request body (which carries no fields).
func DecodeOptions(*primitive.Decoder) (Options, error) { return Options{}, nil }

// Ready is the server's acknowledgement that a Startup completed
// without requiring authentication.
type Ready struct{}

func (Ready) Opcode() protocol.Opcode { return protocol.OpReady }

// DecodeReady decodes a Ready response body (which carries no fields).
func DecodeReady(*primitive.Decoder) (Ready, error) { return Ready{}, nil }

// Authenticate is the server's reply to Startup when it requires
// authentication, naming the IAuthenticator implementation in use.
type Authenticate struct {
	Authenticator string
}

func (Authenticate) Opcode() protocol.Opcode { return protocol.OpAuthenticate }

// DecodeAuthenticate decodes an Authenticate response body.
func DecodeAuthenticate(d *primitive.Decoder) (Authenticate, error) {
	s, err := d.ReadString()
	if err != nil {
		return Authenticate{}, err
	}
	return Authenticate{Authenticator: s}, nil
}

// Supported is the server's reply to Options, listing every option it
// accepts and the values it accepts for each.
type Supported struct {
	Options map[string][]string
}

func (Supported) Opcode() protocol.Opcode { return protocol.OpSupported }

// DecodeSupported decodes a Supported response body.
func DecodeSupported(d *primitive.Decoder) (Supported, error) {
	m, err := d.ReadStringMultimap()
	if err != nil {
		return Supported{}, err
	}
	return Supported{Options: m}, nil
}

// Register subscribes the connection to a set of server-push Event
// notifications.
type Register struct {
	EventTypes []protocol.EventType
}

// NewRegister builds a Register request for the given event types.
func NewRegister(types ...protocol.EventType) Register {
	return Register{EventTypes: types}
}

func (Register) Opcode() protocol.Opcode { return protocol.OpRegister }

func (r Register) Length() int {
	n := 2
	for _, t := range r.EventTypes {
		n += 2 + len(t.String())
	}
	return n
}

func (r Register) Encode(e *primitive.Encoder) error {
	names := make([]string, len(r.EventTypes))
	for i, t := range r.EventTypes {
		names[i] = t.String()
	}
	e.WriteStringList(names)
	return nil
}

// DecodeRegister decodes a Register request body.
func DecodeRegister(d *primitive.Decoder) (Register, error) {
	names, err := d.ReadStringList()
	if err != nil {
		return Register{}, err
	}
	types := make([]protocol.EventType, 0, len(names))
	for _, n := range names {
		t, err := protocol.ParseEventType(n)
		if err != nil {
			return Register{}, err
		}
		types = append(types, t)
	}
	return Register{EventTypes: types}, nil
}

// tokenBody is the shared shape of AuthResponse, AuthChallenge, and
// AuthSuccess: a single nullable [bytes] SASL token.
type tokenBody struct {
	Token  []byte
	IsNull bool
}

func (t tokenBody) length() int {
	if t.IsNull {
		return 4
	}
	return 4 + len(t.Token)
}

func (t tokenBody) encode(e *primitive.Encoder) { e.WriteBytes(t.Token, t.IsNull) }

func decodeTokenBody(d *primitive.Decoder) (tokenBody, error) {
	b, isNull, err := d.ReadBytes()
	if err != nil {
		return tokenBody{}, err
	}
	return tokenBody{Token: b, IsNull: isNull}, nil
}

// AuthResponse carries a client's SASL token, either the first message
// of an exchange or a reply to an AuthChallenge.
type AuthResponse struct{ tokenBody }

// NewAuthResponse builds an AuthResponse carrying token.
func NewAuthResponse(token []byte) AuthResponse {
	return AuthResponse{tokenBody{Token: token}}
}

func (AuthResponse) Opcode() protocol.Opcode          { return protocol.OpAuthResponse }
func (a AuthResponse) Length() int                    { return a.tokenBody.length() }
func (a AuthResponse) Encode(e *primitive.Encoder) error {
	a.tokenBody.encode(e)
	return nil
}

// DecodeAuthResponse decodes an AuthResponse request body.
func DecodeAuthResponse(d *primitive.Decoder) (AuthResponse, error) {
	tb, err := decodeTokenBody(d)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{tb}, nil
}

// AuthChallenge is a server-issued SASL challenge sent in response to
// an AuthResponse, when the mechanism needs more than one round trip.
type AuthChallenge struct{ tokenBody }

func (AuthChallenge) Opcode() protocol.Opcode { return protocol.OpAuthChallenge }

// DecodeAuthChallenge decodes an AuthChallenge response body.
func DecodeAuthChallenge(d *primitive.Decoder) (AuthChallenge, error) {
	tb, err := decodeTokenBody(d)
	if err != nil {
		return AuthChallenge{}, err
	}
	return AuthChallenge{tb}, nil
}

// AuthSuccess concludes a successful SASL exchange, optionally carrying
// a final token from the mechanism.
type AuthSuccess struct{ tokenBody }

func (AuthSuccess) Opcode() protocol.Opcode { return protocol.OpAuthSuccess }

// DecodeAuthSuccess decodes an AuthSuccess response body.
func DecodeAuthSuccess(d *primitive.Decoder) (AuthSuccess, error) {
	tb, err := decodeTokenBody(d)
	if err != nil {
		return AuthSuccess{}, err
	}
	return AuthSuccess{tb}, nil
}
