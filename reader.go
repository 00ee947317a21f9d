// Copyright 2026 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package huffman

import (
	"bufio"
	"io"

	"github.com/brenovambaster/huffman-compress/internal/bitstream"
)

// Header represents the tree and symbol count at the start of a
// compressed stream.
type Header struct {
	Tree    *Tree  // nil for an empty stream.
	Symbols uint32 // number of symbols in the uncompressed data.
}

// Size returns the size of the header in bytes.
func (h *Header) Size() int64 {
	if h.Tree == nil {
		return 0
	}
	return int64(h.Tree.SerializedSize()) + countSize
}

func readHeader(br *bufio.Reader) (*Header, error) {
	tree, err := ReadTree(br)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return &Header{}, nil
	}
	count, err := readCount(br)
	if err != nil {
		return nil, err
	}
	return &Header{Tree: tree, Symbols: count}, nil
}

// ReadHeader reads the header of a compressed stream without decoding
// any of the data that follows it.
func ReadHeader(rd io.Reader) (*Header, error) {
	return readHeader(bufio.NewReader(rd))
}

// reader implements the decoding state machine. Each symbol is decoded
// by walking the tree from the root, one bit at a time, until a leaf is
// reached. Decoding stops as soon as the number of symbols recorded in
// the header have been emitted so that the padding in the final byte is
// never interpreted.
type reader struct {
	opts      *options
	br        *bufio.Reader
	bits      *bitstream.BitReader
	hdr       *Header
	emitted   uint32
	setupDone bool
	err       error
}

// NewReader returns an io.Reader that decompresses the data read from rd.
// Data that is not a valid compressed stream results in a FormatError.
func NewReader(rd io.Reader, opts ...Option) io.Reader {
	return newReader(rd, newOptions(opts))
}

func newReader(rd io.Reader, o *options) *reader {
	br := bufio.NewReaderSize(o.track(rd, PhaseDecode), o.bufSize)
	return &reader{
		opts: o,
		br:   br,
		bits: bitstream.NewBitReader(br),
	}
}

func (r *reader) setup() error {
	hdr, err := readHeader(r.br)
	if err != nil {
		return err
	}
	r.hdr = hdr
	if hdr.Tree != nil {
		r.opts.tracef("huffman: %v symbols, %v distinct, tree depth %v\n",
			hdr.Symbols, hdr.Tree.Leaves(), hdr.Tree.Depth())
	}
	return nil
}

// Read implements io.Reader.
func (r *reader) Read(buf []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	if !r.setupDone {
		if err := r.setup(); err != nil {
			r.err = err
			return 0, err
		}
		r.setupDone = true
	}
	n := 0
	for n < len(buf) {
		if r.hdr.Tree == nil || r.emitted == r.hdr.Symbols {
			r.err = io.EOF
			break
		}
		sym, err := r.next()
		if err != nil {
			r.err = err
			break
		}
		buf[n] = sym
		n++
	}
	if n > 0 {
		return n, nil
	}
	return 0, r.err
}

func (r *reader) readBit() (uint8, error) {
	bit, err := r.bits.ReadBit()
	if err != nil {
		return 0, readErr(err, "truncated bitstream")
	}
	return bit, nil
}

// next decodes a single symbol.
func (r *reader) next() (byte, error) {
	t := r.hdr.Tree
	at := &t.nodes[t.root]
	if at.isLeaf() {
		// A tree with a single symbol uses the one bit code "0".
		bit, err := r.readBit()
		if err != nil {
			return 0, err
		}
		if bit != 0 {
			return 0, FormatError("invalid code for single symbol tree")
		}
		r.emitted++
		return at.symbol, nil
	}
	for {
		bit, err := r.readBit()
		if err != nil {
			return 0, err
		}
		if bit == 0 {
			at = &t.nodes[at.left]
		} else {
			at = &t.nodes[at.right]
		}
		if at.isLeaf() {
			r.emitted++
			return at.symbol, nil
		}
	}
}

// compressedSize returns the number of compressed bytes consumed so far.
func (r *reader) compressedSize() int64 {
	if r.hdr == nil {
		return 0
	}
	return r.hdr.Size() + r.bits.BytesRead()
}

// Decompress decompresses the contents of rd to wr.
func Decompress(rd io.Reader, wr io.Writer, opts ...Option) (Stats, error) {
	r := newReader(rd, newOptions(opts))
	bw := bufio.NewWriterSize(wr, r.opts.bufSize)
	_, err := io.Copy(&writeErrWriter{bw}, r)
	if err == nil {
		if ferr := bw.Flush(); ferr != nil {
			err = &IOError{Op: "write", Err: ferr}
		}
	}
	var stats Stats
	if r.hdr != nil {
		stats = Stats{
			Symbols:         uint64(r.emitted),
			Distinct:        r.hdr.Tree.Leaves(),
			TreeBytes:       int64(r.hdr.Tree.SerializedSize()),
			CompressedBytes: r.compressedSize(),
		}
	}
	return stats, err
}

// writeErrWriter returns write errors as an *IOError.
type writeErrWriter struct {
	w io.Writer
}

func (w *writeErrWriter) Write(buf []byte) (int, error) {
	n, err := w.w.Write(buf)
	if err != nil {
		return n, &IOError{Op: "write", Err: err}
	}
	return n, nil
}
