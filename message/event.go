package message

import (
	"fmt"

	"github.com/arloliu/cqlwire/errs"
	"github.com/arloliu/cqlwire/primitive"
	"github.com/arloliu/cqlwire/protocol"
)

// EventBody is the payload of an Event notification, discriminated by
// EventType.
type EventBody interface {
	EventType() protocol.EventType
}

// TopologyChange notifies a registered client that a node joined,
// left, or moved within the ring.
type TopologyChange struct {
	Change protocol.TopologyChangeType
	Node   Inet
}

func (TopologyChange) EventType() protocol.EventType { return protocol.EventTopologyChange }

func (t TopologyChange) length() int { return 2 + len(t.Change.String()) + t.Node.length() }

func (t TopologyChange) encode(e *primitive.Encoder) error {
	e.WriteString(t.Change.String())
	return t.Node.encode(e)
}

func decodeTopologyChange(d *primitive.Decoder) (TopologyChange, error) {
	s, err := d.ReadString()
	if err != nil {
		return TopologyChange{}, err
	}
	ch, err := protocol.ParseTopologyChangeType(s)
	if err != nil {
		return TopologyChange{}, err
	}
	node, err := decodeInet(d)
	if err != nil {
		return TopologyChange{}, err
	}
	return TopologyChange{Change: ch, Node: node}, nil
}

// StatusChange notifies a registered client that a node went up or down.
type StatusChange struct {
	Change protocol.StatusChangeType
	Node   Inet
}

func (StatusChange) EventType() protocol.EventType { return protocol.EventStatusChange }

func (s StatusChange) length() int { return 2 + len(s.Change.String()) + s.Node.length() }

func (s StatusChange) encode(e *primitive.Encoder) error {
	e.WriteString(s.Change.String())
	return s.Node.encode(e)
}

func decodeStatusChange(d *primitive.Decoder) (StatusChange, error) {
	s, err := d.ReadString()
	if err != nil {
		return StatusChange{}, err
	}
	ch, err := protocol.ParseStatusChangeType(s)
	if err != nil {
		return StatusChange{}, err
	}
	node, err := decodeInet(d)
	if err != nil {
		return StatusChange{}, err
	}
	return StatusChange{Change: ch, Node: node}, nil
}

// SchemaChange notifies a registered client (or is embedded directly in
// a Result) that a keyspace, table, type, function, or aggregate was
// created, altered, or dropped. Name and Args are populated only for
// the targets that carry them: Name for TABLE/TYPE/FUNCTION/AGGREGATE,
// Args additionally for FUNCTION/AGGREGATE.
type SchemaChange struct {
	Change   protocol.SchemaChangeType
	Target   protocol.SchemaChangeTarget
	Keyspace string
	Name     *string
	Args     []string
}

func (SchemaChange) EventType() protocol.EventType   { return protocol.EventSchemaChange }
func (SchemaChange) ResultKind() protocol.ResultKind { return protocol.ResultSchemaChange }

func (s SchemaChange) length() int {
	n := 2 + len(s.Change.String()) + 2 + len(s.Target.String()) + 2 + len(s.Keyspace)
	if s.Name != nil {
		n += 2 + len(*s.Name)
	}
	if s.Args != nil {
		n += 2
		for _, a := range s.Args {
			n += 2 + len(a)
		}
	}
	return n
}

func (s SchemaChange) encode(e *primitive.Encoder) error {
	e.WriteString(s.Change.String())
	e.WriteString(s.Target.String())
	e.WriteString(s.Keyspace)
	if s.Name != nil {
		e.WriteString(*s.Name)
	}
	if s.Args != nil {
		e.WriteStringList(s.Args)
	}
	return nil
}

func decodeSchemaChange(d *primitive.Decoder) (SchemaChange, error) {
	changeStr, err := d.ReadString()
	if err != nil {
		return SchemaChange{}, err
	}
	change, err := protocol.ParseSchemaChangeType(changeStr)
	if err != nil {
		return SchemaChange{}, err
	}
	targetStr, err := d.ReadString()
	if err != nil {
		return SchemaChange{}, err
	}
	target, err := protocol.ParseSchemaChangeTarget(targetStr)
	if err != nil {
		return SchemaChange{}, err
	}
	ks, err := d.ReadString()
	if err != nil {
		return SchemaChange{}, err
	}

	sc := SchemaChange{Change: change, Target: target, Keyspace: ks}
	switch target {
	case protocol.TargetTable, protocol.TargetType:
		name, err := d.ReadString()
		if err != nil {
			return SchemaChange{}, err
		}
		sc.Name = &name
	case protocol.TargetFunction, protocol.TargetAggregate:
		name, err := d.ReadString()
		if err != nil {
			return SchemaChange{}, err
		}
		sc.Name = &name
		args, err := d.ReadStringList()
		if err != nil {
			return SchemaChange{}, err
		}
		sc.Args = args
	}

	return sc, nil
}

// Event is a server-pushed notification delivered on a connection that
// has Registered for its EventType.
type Event struct {
	Body EventBody
}

func (Event) Opcode() protocol.Opcode { return protocol.OpEvent }

func (ev Event) length() int {
	t := ev.Body.EventType()
	n := 2 + len(t.String())
	switch b := ev.Body.(type) {
	case TopologyChange:
		n += b.length()
	case StatusChange:
		n += b.length()
	case SchemaChange:
		n += b.length()
	}
	return n
}

func (ev Event) encode(e *primitive.Encoder) error {
	e.WriteString(ev.Body.EventType().String())
	switch b := ev.Body.(type) {
	case TopologyChange:
		return b.encode(e)
	case StatusChange:
		return b.encode(e)
	case SchemaChange:
		return b.encode(e)
	default:
		return fmt.Errorf("%w: unknown event body %T", errs.ErrUnknownEventType, ev.Body)
	}
}

// DecodeEvent decodes an Event response body.
func DecodeEvent(d *primitive.Decoder) (Event, error) {
	s, err := d.ReadString()
	if err != nil {
		return Event{}, err
	}
	t, err := protocol.ParseEventType(s)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %q", errs.ErrUnknownEventType, s)
	}

	var body EventBody
	switch t {
	case protocol.EventTopologyChange:
		body, err = decodeTopologyChange(d)
	case protocol.EventStatusChange:
		body, err = decodeStatusChange(d)
	case protocol.EventSchemaChange:
		body, err = decodeSchemaChange(d)
	}
	if err != nil {
		return Event{}, err
	}

	return Event{Body: body}, nil
}
