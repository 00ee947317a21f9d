// Copyright 2026 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package huffman

import (
	"encoding/binary"
	"fmt"
	"io"
)

// The tree is serialized in pre-order, each leaf as leafMarker followed
// by its symbol and each internal node as internalMarker followed by its
// left and then right subtrees.
const (
	internalMarker = '0'
	leafMarker     = '1'
)

// countSize is the size of the symbol count that follows the tree.
const countSize = 4

// WriteTree writes the serialized form of t to w. Nothing is written for
// a nil tree.
func WriteTree(w io.ByteWriter, t *Tree) error {
	if t == nil {
		return nil
	}
	stack := []uint16{t.root}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[idx]
		if n.isLeaf() {
			if err := w.WriteByte(leafMarker); err != nil {
				return &IOError{Op: "write", Err: err}
			}
			if err := w.WriteByte(n.symbol); err != nil {
				return &IOError{Op: "write", Err: err}
			}
			continue
		}
		if err := w.WriteByte(internalMarker); err != nil {
			return &IOError{Op: "write", Err: err}
		}
		stack = append(stack, n.right, n.left)
	}
	return nil
}

// readErr maps io.EOF to a FormatError and anything else to an IOError.
func readErr(err error, msg string) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return FormatError(msg)
	}
	return &IOError{Op: "read", Err: err}
}

// ReadTree reads a tree written by WriteTree. It returns nil, nil if r is
// empty. A tree that is truncated, contains an invalid marker, more
// than AlphabetSize leaves or the same symbol more than once results in
// a FormatError.
func ReadTree(r io.ByteReader) (*Tree, error) {
	marker, err := r.ReadByte()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, &IOError{Op: "read", Err: err}
	}
	// pending records the internal nodes whose children have yet to
	// be read.
	type pending struct {
		idx      uint16
		haveLeft bool
	}
	var (
		t       = &Tree{}
		stack   []pending
		seen    [AlphabetSize]bool
		nleaves int
	)
	for {
		if len(t.nodes) == maxNodes {
			return nil, FormatError("too many nodes in tree")
		}
		var n node
		switch marker {
		case leafMarker:
			sym, err := r.ReadByte()
			if err != nil {
				return nil, readErr(err, "truncated tree")
			}
			if seen[sym] {
				return nil, FormatError(fmt.Sprintf("duplicate symbol in tree: 0x%02x", sym))
			}
			seen[sym] = true
			nleaves++
			n = newLeaf(sym, 0)
		case internalMarker:
			if len(t.nodes)-nleaves == AlphabetSize-1 {
				return nil, FormatError("too many internal nodes in tree")
			}
			// The children are filled in as they are read.
			n = node{}
		default:
			return nil, FormatError(fmt.Sprintf("invalid tree marker: 0x%02x", marker))
		}
		idx := t.add(n)
		if l := len(stack); l > 0 {
			parent := &stack[l-1]
			if !parent.haveLeft {
				t.nodes[parent.idx].left = idx
				parent.haveLeft = true
			} else {
				t.nodes[parent.idx].right = idx
				stack = stack[:l-1]
			}
		}
		if marker == internalMarker {
			stack = append(stack, pending{idx: idx})
		}
		if len(stack) == 0 {
			break
		}
		if marker, err = r.ReadByte(); err != nil {
			return nil, readErr(err, "truncated tree")
		}
	}
	t.root = 0
	return t, nil
}

func writeCount(w io.Writer, count uint32) error {
	var buf [countSize]byte
	binary.LittleEndian.PutUint32(buf[:], count)
	if _, err := w.Write(buf[:]); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	return nil
}

func readCount(r io.Reader) (uint32, error) {
	var buf [countSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, readErr(err, "truncated symbol count")
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}
