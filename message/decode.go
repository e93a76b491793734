package message

import (
	"fmt"

	"github.com/arloliu/cqlwire/errs"
	"github.com/arloliu/cqlwire/primitive"
	"github.com/arloliu/cqlwire/protocol"
)

// DecodeResponse dispatches on opcode to decode a response body. The
// frame layer has already consumed the header, tracing id, and warning
// list by the time it calls this.
func DecodeResponse(op protocol.Opcode, d *primitive.Decoder) (Response, error) {
	switch op {
	case protocol.OpError:
		return DecodeError(d)
	case protocol.OpReady:
		return DecodeReady(d)
	case protocol.OpAuthenticate:
		return DecodeAuthenticate(d)
	case protocol.OpSupported:
		return DecodeSupported(d)
	case protocol.OpResult:
		return DecodeResult(d)
	case protocol.OpEvent:
		return DecodeEvent(d)
	case protocol.OpAuthChallenge:
		return DecodeAuthChallenge(d)
	case protocol.OpAuthSuccess:
		return DecodeAuthSuccess(d)
	default:
		return nil, fmt.Errorf("%w: opcode %s is not a response", errs.ErrUnknownOpcode, op)
	}
}

// DecodeRequest dispatches on opcode to decode a request body. Clients
// never decode their own requests; this exists for round-trip tests and
// for tooling built on top of cqlwire that needs to read requests it
// did not send.
func DecodeRequest(op protocol.Opcode, d *primitive.Decoder) (Request, error) {
	switch op {
	case protocol.OpStartup:
		return DecodeStartup(d)
	case protocol.OpAuthResponse:
		return DecodeAuthResponse(d)
	case protocol.OpOptions:
		return DecodeOptions(d)
	case protocol.OpQuery:
		return DecodeQuery(d)
	case protocol.OpPrepare:
		return DecodePrepare(d)
	case protocol.OpExecute:
		return DecodeExecute(d)
	case protocol.OpBatch:
		return DecodeBatch(d)
	case protocol.OpRegister:
		return DecodeRegister(d)
	default:
		return nil, fmt.Errorf("%w: opcode %s is not a request", errs.ErrUnknownOpcode, op)
	}
}
