// Package datatype implements the CQL protocol's recursive type
// descriptor ([option]) and the marshal/unmarshal functions for every
// CQL value type it can describe.
//
// A column or bound-parameter type is described by an Opt: a 16-bit id
// plus, for the collection and user-defined-type ids, a nested payload
// (OptValue) that recursively describes the element/key/value/field
// types. Marshaling a Go value produces the raw bytes that go inside a
// [bytes]/[value] field; unmarshaling reverses that given the Opt that
// described the column.
package datatype

import (
	"fmt"

	"github.com/arloliu/cqlwire/primitive"
)

// ID identifies a CQL value type on the wire.
type ID uint16

const (
	IDCustom    ID = 0x0000
	IDAscii     ID = 0x0001
	IDBigint    ID = 0x0002
	IDBlob      ID = 0x0003
	IDBoolean   ID = 0x0004
	IDCounter   ID = 0x0005
	IDDecimal   ID = 0x0006
	IDDouble    ID = 0x0007
	IDFloat     ID = 0x0008
	IDInt       ID = 0x0009
	IDTimestamp ID = 0x000B
	IDUuid      ID = 0x000C
	IDVarchar   ID = 0x000D
	IDVarint    ID = 0x000E
	IDTimeuuid  ID = 0x000F
	IDInet      ID = 0x0010
	IDDate      ID = 0x0011
	IDTime      ID = 0x0012
	IDSmallint  ID = 0x0013
	IDTinyint   ID = 0x0014
	IDDuration  ID = 0x0015
	IDList      ID = 0x0020
	IDMap       ID = 0x0021
	IDSet       ID = 0x0022
	IDUdt       ID = 0x0030
	IDTuple     ID = 0x0031
)

func (id ID) String() string {
	switch id {
	case IDCustom:
		return "custom"
	case IDAscii:
		return "ascii"
	case IDBigint:
		return "bigint"
	case IDBlob:
		return "blob"
	case IDBoolean:
		return "boolean"
	case IDCounter:
		return "counter"
	case IDDecimal:
		return "decimal"
	case IDDouble:
		return "double"
	case IDFloat:
		return "float"
	case IDInt:
		return "int"
	case IDTimestamp:
		return "timestamp"
	case IDUuid:
		return "uuid"
	case IDVarchar:
		return "varchar"
	case IDVarint:
		return "varint"
	case IDTimeuuid:
		return "timeuuid"
	case IDInet:
		return "inet"
	case IDDate:
		return "date"
	case IDTime:
		return "time"
	case IDSmallint:
		return "smallint"
	case IDTinyint:
		return "tinyint"
	case IDDuration:
		return "duration"
	case IDList:
		return "list"
	case IDMap:
		return "map"
	case IDSet:
		return "set"
	case IDUdt:
		return "udt"
	case IDTuple:
		return "tuple"
	default:
		return fmt.Sprintf("ID(0x%04x)", uint16(id))
	}
}

// Opt is a CQL type descriptor: an id plus, for collection/UDT ids, a
// nested description of its element/key/value/field types.
type Opt struct {
	ID ID

	// Custom carries the class name for IDCustom.
	Custom string
	// Elem describes the element type for List/Set.
	Elem *Opt
	// Key/Value describe a Map's key and value types.
	Key   *Opt
	Value *Opt
	// UDT carries the field layout for IDUdt.
	UDT *UDTType
	// Tuple carries the element types for IDTuple.
	Tuple []Opt
}

// Simple builds an Opt for an id that carries no nested payload (every
// id other than Custom/List/Map/Set/Udt/Tuple).
func Simple(id ID) Opt { return Opt{ID: id} }

// UDTType describes a user-defined type's keyspace, name, and ordered
// field list.
type UDTType struct {
	Keyspace string
	Name     string
	Fields   []UDTField
}

// UDTField is one field of a user-defined type.
type UDTField struct {
	Name string
	Type Opt
}

// WriteOpt encodes a type descriptor.
func WriteOpt(e *primitive.Encoder, o Opt) error {
	e.WriteShort(uint16(o.ID))

	switch o.ID {
	case IDCustom:
		e.WriteString(o.Custom)
	case IDList:
		if o.Elem == nil {
			return fmt.Errorf("datatype: list option missing element type")
		}
		return WriteOpt(e, *o.Elem)
	case IDSet:
		if o.Elem == nil {
			return fmt.Errorf("datatype: set option missing element type")
		}
		return WriteOpt(e, *o.Elem)
	case IDMap:
		if o.Key == nil || o.Value == nil {
			return fmt.Errorf("datatype: map option missing key/value type")
		}
		if err := WriteOpt(e, *o.Key); err != nil {
			return err
		}
		return WriteOpt(e, *o.Value)
	case IDUdt:
		if o.UDT == nil {
			return fmt.Errorf("datatype: udt option missing field layout")
		}
		e.WriteString(o.UDT.Keyspace)
		e.WriteString(o.UDT.Name)
		e.WriteShort(uint16(len(o.UDT.Fields)))
		for _, f := range o.UDT.Fields {
			e.WriteString(f.Name)
			if err := WriteOpt(e, f.Type); err != nil {
				return err
			}
		}
	case IDTuple:
		e.WriteShort(uint16(len(o.Tuple)))
		for _, t := range o.Tuple {
			if err := WriteOpt(e, t); err != nil {
				return err
			}
		}
	}

	return nil
}

// OptLength returns the encoded byte length of a type descriptor,
// without allocating a scratch buffer to measure it.
func OptLength(o Opt) int {
	n := 2 // id

	switch o.ID {
	case IDCustom:
		n += 2 + len(o.Custom)
	case IDList, IDSet:
		if o.Elem != nil {
			n += OptLength(*o.Elem)
		}
	case IDMap:
		if o.Key != nil {
			n += OptLength(*o.Key)
		}
		if o.Value != nil {
			n += OptLength(*o.Value)
		}
	case IDUdt:
		if o.UDT != nil {
			n += 2 + len(o.UDT.Keyspace) + 2 + len(o.UDT.Name) + 2
			for _, f := range o.UDT.Fields {
				n += 2 + len(f.Name) + OptLength(f.Type)
			}
		}
	case IDTuple:
		n += 2
		for _, t := range o.Tuple {
			n += OptLength(t)
		}
	}

	return n
}

// ReadOpt decodes a type descriptor.
func ReadOpt(d *primitive.Decoder) (Opt, error) {
	raw, err := d.ReadShort()
	if err != nil {
		return Opt{}, err
	}
	id := ID(raw)
	o := Opt{ID: id}

	switch id {
	case IDCustom:
		o.Custom, err = d.ReadString()
		if err != nil {
			return Opt{}, err
		}
	case IDList, IDSet:
		elem, err := ReadOpt(d)
		if err != nil {
			return Opt{}, err
		}
		o.Elem = &elem
	case IDMap:
		key, err := ReadOpt(d)
		if err != nil {
			return Opt{}, err
		}
		val, err := ReadOpt(d)
		if err != nil {
			return Opt{}, err
		}
		o.Key, o.Value = &key, &val
	case IDUdt:
		ks, err := d.ReadString()
		if err != nil {
			return Opt{}, err
		}
		name, err := d.ReadString()
		if err != nil {
			return Opt{}, err
		}
		n, err := d.ReadShort()
		if err != nil {
			return Opt{}, err
		}
		fields := make([]UDTField, 0, n)
		for i := uint16(0); i < n; i++ {
			fname, err := d.ReadString()
			if err != nil {
				return Opt{}, err
			}
			ftype, err := ReadOpt(d)
			if err != nil {
				return Opt{}, err
			}
			fields = append(fields, UDTField{Name: fname, Type: ftype})
		}
		o.UDT = &UDTType{Keyspace: ks, Name: name, Fields: fields}
	case IDTuple:
		n, err := d.ReadShort()
		if err != nil {
			return Opt{}, err
		}
		elems := make([]Opt, 0, n)
		for i := uint16(0); i < n; i++ {
			t, err := ReadOpt(d)
			if err != nil {
				return Opt{}, err
			}
			elems = append(elems, t)
		}
		o.Tuple = elems
	}

	return o, nil
}
