// Copyright 2026 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package huffman

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/chronos-tachyon/assert"
)

// MaxCodeSize is the maximum length, in bits, of a code. A tree with at
// most AlphabetSize leaves can be no deeper than this.
const MaxCodeSize = AlphabetSize - 1

// Code represents a sequence of bits, most significant bit first.
type Code struct {
	// Size holds the number of valid bits.
	Size uint8
	bits [AlphabetSize / 8]byte
}

// MakeCode constructs a Code from a string of '0' and '1' characters.
func MakeCode(s string) Code {
	var c Code
	for _, r := range s {
		assert.Assertf(r == '0' || r == '1', "invalid bit %q in %q", r, s)
		c = c.append(uint8(r - '0'))
	}
	return c
}

func (c Code) append(bit uint8) Code {
	assert.Assertf(c.Size < MaxCodeSize, "code is too long: %d bits", c.Size)
	c.bits[c.Size/8] |= (bit & 0x1) << (7 - c.Size%8)
	c.Size++
	return c
}

// Bit returns the i'th bit of the code.
func (c Code) Bit(i int) uint8 {
	return (c.bits[i/8] >> (7 - uint(i%8))) & 0x1
}

// Bytes returns the bits of the code packed into bytes, most significant
// bit first with any unused trailing bits set to zero.
func (c Code) Bytes() []byte {
	return c.bits[:(int(c.Size)+7)/8]
}

// HasPrefix returns true if prefix is a prefix of c.
func (c Code) HasPrefix(prefix Code) bool {
	if prefix.Size > c.Size {
		return false
	}
	full := int(prefix.Size) / 8
	if !bytes.Equal(c.bits[:full], prefix.bits[:full]) {
		return false
	}
	for i := full * 8; i < int(prefix.Size); i++ {
		if c.Bit(i) != prefix.Bit(i) {
			return false
		}
	}
	return true
}

// String returns the code as a string of '0' and '1' characters.
func (c Code) String() string {
	var out strings.Builder
	out.Grow(int(c.Size))
	for i := 0; i < int(c.Size); i++ {
		out.WriteByte('0' + c.Bit(i))
	}
	return out.String()
}

var _ fmt.Stringer = Code{}

// CodeBook maps each symbol present in a tree to its Code.
type CodeBook struct {
	codes [AlphabetSize]Code
}

// Codes returns the code book for the tree, obtained by walking the tree
// and appending a 0 for every left branch and a 1 for every right one.
// The code for the only symbol in a single leaf tree is "0".
func (t *Tree) Codes() *CodeBook {
	cb := &CodeBook{}
	if t == nil {
		return cb
	}
	type item struct {
		idx  uint16
		code Code
	}
	stack := []item{{idx: t.root}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[it.idx]
		if n.isLeaf() {
			code := it.code
			if code.Size == 0 {
				code = code.append(0)
			}
			assert.Assertf(cb.codes[n.symbol].Size == 0, "duplicate symbol %#02x", n.symbol)
			cb.codes[n.symbol] = code
			continue
		}
		// Push right first so that the left subtree is walked first.
		stack = append(stack,
			item{n.right, it.code.append(1)},
			item{n.left, it.code.append(0)})
	}
	return cb
}

// Lookup returns the code for sym and true, or false if sym has no code.
func (cb *CodeBook) Lookup(sym byte) (Code, bool) {
	c := cb.codes[sym]
	return c, c.Size > 0
}

// Len returns the number of symbols with a code.
func (cb *CodeBook) Len() int {
	n := 0
	for i := range cb.codes {
		if cb.codes[i].Size > 0 {
			n++
		}
	}
	return n
}

// EncodedBits returns the number of bits required to encode data with
// the supplied frequencies using this code book, excluding the header
// and any padding.
func (cb *CodeBook) EncodedBits(ft FrequencyTable) uint64 {
	var bits uint64
	for sym, count := range ft {
		bits += count * uint64(cb.codes[sym].Size)
	}
	return bits
}

// Dump writes a programmer-readable listing of the code book to w.
func (cb *CodeBook) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("CodeBook{\n")
	for sym := range cb.codes {
		c := cb.codes[sym]
		if c.Size == 0 {
			continue
		}
		fmt.Fprintf(&buf, "\t0x%02x %q = %q\n", sym, rune(sym), c.String())
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}
