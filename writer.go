// Copyright 2026 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package huffman

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/brenovambaster/huffman-compress/internal/bitstream"
)

// Encoder encodes data whose symbol frequencies are already known.
type Encoder struct {
	ft    FrequencyTable
	total uint64
	tree  *Tree
	codes *CodeBook
	opts  *options
}

// NewEncoder returns an Encoder for data with the supplied frequencies.
// It returns ErrInputTooLarge if the total number of symbols cannot be
// represented in the header.
func NewEncoder(ft FrequencyTable, opts ...Option) (*Encoder, error) {
	total := ft.Total()
	if total > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %v bytes, the maximum is %v", ErrInputTooLarge, total, uint64(math.MaxUint32))
	}
	tree := Build(ft)
	return &Encoder{
		ft:    ft,
		total: total,
		tree:  tree,
		codes: tree.Codes(),
		opts:  newOptions(opts),
	}, nil
}

// Tree returns the tree used by the encoder, it will be nil for empty
// input.
func (e *Encoder) Tree() *Tree {
	return e.tree
}

// Codes returns the code book used by the encoder.
func (e *Encoder) Codes() *CodeBook {
	return e.codes
}

// Size returns the number of bytes that Encode will write.
func (e *Encoder) Size() int64 {
	if e.tree == nil {
		return 0
	}
	bits := e.codes.EncodedBits(e.ft)
	return int64(e.tree.SerializedSize()) + countSize + int64((bits+7)/8)
}

// Encode writes the header followed by the encoded contents of rd to wr.
// rd must contain exactly the data that the encoder's frequencies were
// obtained from, otherwise ErrSourceChanged is returned.
func (e *Encoder) Encode(rd io.Reader, wr io.Writer) (Stats, error) {
	stats := Stats{
		Symbols:   e.total,
		Distinct:  e.tree.Leaves(),
		TreeBytes: int64(e.tree.SerializedSize()),
	}
	if e.tree == nil {
		// Empty input produces empty output.
		return stats, nil
	}
	e.opts.tracef("huffman: %v symbols, %v distinct, tree depth %v, %v tree bytes\n",
		e.total, stats.Distinct, e.tree.Depth(), stats.TreeBytes)

	bw := bufio.NewWriterSize(wr, e.opts.bufSize)
	if err := WriteTree(bw, e.tree); err != nil {
		return stats, err
	}
	if err := writeCount(bw, uint32(e.total)); err != nil {
		return stats, err
	}

	bits := bitstream.NewBitWriter(bw)
	br := bufio.NewReaderSize(rd, e.opts.bufSize)
	var n uint64
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, &IOError{Op: "read", Err: err}
		}
		code := &e.codes.codes[b]
		if code.Size == 0 || n == e.total {
			return stats, fmt.Errorf("%w: unexpected symbol %#02x at offset %v", ErrSourceChanged, b, n)
		}
		bits.Append(code.bits[:], int(code.Size))
		if err := bits.Err(); err != nil {
			return stats, &IOError{Op: "write", Err: err}
		}
		n++
	}
	if n != e.total {
		return stats, fmt.Errorf("%w: read %v symbols, expected %v", ErrSourceChanged, n, e.total)
	}
	if err := bits.Flush(); err != nil {
		return stats, &IOError{Op: "write", Err: err}
	}
	if err := bw.Flush(); err != nil {
		return stats, &IOError{Op: "write", Err: err}
	}
	stats.CompressedBytes = stats.TreeBytes + countSize + bits.Written()
	e.opts.tracef("huffman: wrote %v bytes\n", stats.CompressedBytes)
	return stats, nil
}

// Compress compresses the contents of rd to wr. rd is read twice, once
// to determine the frequency of each byte value and then, after seeking
// back to its start, to encode it.
func Compress(rd io.ReadSeeker, wr io.Writer, opts ...Option) (Stats, error) {
	o := newOptions(opts)
	ft, err := count(o.track(rd, PhaseCount), o.bufSize)
	if err != nil {
		return Stats{}, err
	}
	enc, err := NewEncoder(ft, opts...)
	if err != nil {
		return Stats{}, err
	}
	if _, err := rd.Seek(0, io.SeekStart); err != nil {
		return Stats{}, &IOError{Op: "seek", Err: err}
	}
	return enc.Encode(o.track(rd, PhaseEncode), wr)
}
