/*
Copyright 2026 The Searchd Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package searchparser

import (
	"encoding/binary"

	"searchd.io/searchd/go/sd/sderrors"
	"searchd.io/searchd/go/sd/sdrpc"
)

// Serialized query encoding, one node at a time in depth-first pre-order:
//
//	intermediate: opcode, uvarint child count, children...
//	same element: opcode, uvarint child count, field string, children...
//	term:         opcode, field string, term string, uvarint weight
//
// Strings are uvarint length followed by raw bytes. Weights are percent
// values; 0 is rejected to catch truncated buffers early.
const (
	opAnd = iota + 1
	opOr
	opAndNot
	opRank
	opSameElement
	opStringTerm
	opNumberTerm
)

// maxArity guards against hostile child counts; real queries stay far
// below it.
const maxArity = 1 << 20

// Parse decodes a serialized query expression into a node tree. The buffer
// must contain exactly one expression; trailing bytes are an error. Term
// ids are assigned in decoding order.
func Parse(buf []byte) (Node, error) {
	d := &decoder{buf: buf}
	root, err := d.readNode()
	if err != nil {
		return nil, err
	}
	if d.pos != len(d.buf) {
		return nil, sderrors.Errorf(sdrpc.Code_INVALID_ARGUMENT,
			"trailing garbage after query expression: %d bytes left", len(d.buf)-d.pos)
	}
	return root, nil
}

type decoder struct {
	buf    []byte
	pos    int
	nextID int32
}

func (d *decoder) readNode() (Node, error) {
	op, err := d.readByte()
	if err != nil {
		return nil, err
	}
	switch op {
	case opAnd:
		nodes, err := d.readChildren()
		if err != nil {
			return nil, err
		}
		return NewAnd(nodes...), nil
	case opOr:
		nodes, err := d.readChildren()
		if err != nil {
			return nil, err
		}
		return NewOr(nodes...), nil
	case opAndNot:
		nodes, err := d.readChildren()
		if err != nil {
			return nil, err
		}
		return NewAndNot(nodes[0], nodes[1:]...), nil
	case opRank:
		nodes, err := d.readChildren()
		if err != nil {
			return nil, err
		}
		return NewRank(nodes[0], nodes[1:]...), nil
	case opSameElement:
		n, err := d.readArity()
		if err != nil {
			return nil, err
		}
		field, err := d.readString()
		if err != nil {
			return nil, err
		}
		nodes, err := d.readNodes(n)
		if err != nil {
			return nil, err
		}
		return NewSameElement(field, nodes...), nil
	case opStringTerm:
		field, term, weight, err := d.readTerm()
		if err != nil {
			return nil, err
		}
		return NewStringTerm(field, term, d.takeID(), weight), nil
	case opNumberTerm:
		field, spec, weight, err := d.readTerm()
		if err != nil {
			return nil, err
		}
		return NewNumberTerm(field, spec, d.takeID(), weight), nil
	}
	return nil, sderrors.Errorf(sdrpc.Code_INVALID_ARGUMENT, "unknown query opcode %d at offset %d", op, d.pos-1)
}

func (d *decoder) readChildren() ([]Node, error) {
	n, err := d.readArity()
	if err != nil {
		return nil, err
	}
	return d.readNodes(n)
}

func (d *decoder) readNodes(n int) ([]Node, error) {
	nodes := make([]Node, 0, n)
	for i := 0; i < n; i++ {
		node, err := d.readNode()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func (d *decoder) readTerm() (field, text string, weight Weight, err error) {
	if field, err = d.readString(); err != nil {
		return
	}
	if text, err = d.readString(); err != nil {
		return
	}
	w, err := d.readUvarint()
	if err != nil {
		return
	}
	if w == 0 || w > 1<<30 {
		err = sderrors.Errorf(sdrpc.Code_INVALID_ARGUMENT, "term weight %d out of range", w)
		return
	}
	weight = Weight(w)
	return
}

func (d *decoder) takeID() int32 {
	id := d.nextID
	d.nextID++
	return id
}

func (d *decoder) readArity() (int, error) {
	n, err := d.readUvarint()
	if err != nil {
		return 0, err
	}
	if n == 0 || n > maxArity {
		return 0, sderrors.Errorf(sdrpc.Code_INVALID_ARGUMENT, "combinator arity %d out of range", n)
	}
	return int(n), nil
}

func (d *decoder) readByte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, errTruncated(d.pos)
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) readUvarint() (uint64, error) {
	v, n := binary.Uvarint(d.buf[d.pos:])
	if n <= 0 {
		return 0, errTruncated(d.pos)
	}
	d.pos += n
	return v, nil
}

func (d *decoder) readString() (string, error) {
	n, err := d.readUvarint()
	if err != nil {
		return "", err
	}
	if n > uint64(len(d.buf)-d.pos) {
		return "", errTruncated(d.pos)
	}
	s := string(d.buf[d.pos : d.pos+int(n)])
	d.pos += int(n)
	return s, nil
}

func errTruncated(pos int) error {
	return sderrors.Errorf(sdrpc.Code_INVALID_ARGUMENT, "truncated query expression at offset %d", pos)
}
