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

// Serialize encodes a node tree into the wire form understood by Parse.
// LocationTerm cannot be serialized: it only exists as a synthetic node
// injected after parsing.
func Serialize(root Node) ([]byte, error) {
	e := &encoder{}
	if err := e.writeNode(root); err != nil {
		return nil, err
	}
	return e.buf, nil
}

type encoder struct {
	buf []byte
}

func (e *encoder) writeNode(n Node) error {
	switch n := n.(type) {
	case *And:
		return e.writeIntermediate(opAnd, n.Children())
	case *Or:
		return e.writeIntermediate(opOr, n.Children())
	case *AndNot:
		return e.writeIntermediate(opAndNot, n.Children())
	case *Rank:
		return e.writeIntermediate(opRank, n.Children())
	case *SameElement:
		e.writeByte(opSameElement)
		e.writeUvarint(uint64(len(n.Children())))
		e.writeString(n.Field)
		for _, child := range n.Children() {
			if err := e.writeNode(child); err != nil {
				return err
			}
		}
		return nil
	case *StringTerm:
		e.writeTerm(opStringTerm, n.Data.Field, n.Term, n.Data.Weight)
		return nil
	case *NumberTerm:
		e.writeTerm(opNumberTerm, n.Data.Field, n.Spec, n.Data.Weight)
		return nil
	case *LocationTerm:
		return sderrors.New(sdrpc.Code_INVALID_ARGUMENT, "location terms have no serialized form")
	}
	return sderrors.Errorf(sdrpc.Code_INTERNAL, "unknown node type %T", n)
}

func (e *encoder) writeIntermediate(op byte, nodes []Node) error {
	e.writeByte(op)
	e.writeUvarint(uint64(len(nodes)))
	for _, child := range nodes {
		if err := e.writeNode(child); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) writeTerm(op byte, field, text string, weight Weight) {
	e.writeByte(op)
	e.writeString(field)
	e.writeString(text)
	e.writeUvarint(uint64(weight))
}

func (e *encoder) writeByte(b byte) {
	e.buf = append(e.buf, b)
}

func (e *encoder) writeUvarint(v uint64) {
	e.buf = binary.AppendUvarint(e.buf, v)
}

func (e *encoder) writeString(s string) {
	e.writeUvarint(uint64(len(s)))
	e.buf = append(e.buf, s...)
}
