// Copyright 2026 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package bitstream provides the bit level reader and writer used by the
// huffman codec.
package bitstream

import (
	"io"

	"github.com/icza/bitio"
)

// NOTE: bitstreams are created by packing 8 bits into a byte with
//       the most significant bit being the first bit, that is, the bitstream
//       can be visualized as flowing from left to right.

// byteCounter counts the bytes that reach the underlying writer. It
// implements io.Writer so that bitio does not add a buffer of its own.
type byteCounter struct {
	w io.ByteWriter
	n int64
}

func (c *byteCounter) WriteByte(b byte) error {
	if err := c.w.WriteByte(b); err != nil {
		return err
	}
	c.n++
	return nil
}

func (c *byteCounter) Write(buf []byte) (int, error) {
	for i, b := range buf {
		if err := c.WriteByte(b); err != nil {
			return i, err
		}
	}
	return len(buf), nil
}

// BitWriter can be used to create and append to a bitstream. Completed
// bytes are written to the underlying io.ByteWriter as soon as they are
// available. Write errors are sticky and are returned by Flush and Err.
type BitWriter struct {
	out     *byteCounter
	bw      *bitio.Writer
	pending uint // bits waiting for a full byte.
	err     error
}

// NewBitWriter returns a BitWriter that writes to w.
func NewBitWriter(w io.ByteWriter) *BitWriter {
	out := &byteCounter{w: w}
	return &BitWriter{out: out, bw: bitio.NewWriter(out)}
}

func (bw *BitWriter) advance(n uint, err error) {
	if err != nil {
		bw.err = err
		return
	}
	bw.pending = (bw.pending + n) % 8
}

// WriteBit appends a single bit, only the least significant bit of bit
// is used.
func (bw *BitWriter) WriteBit(bit uint8) {
	if bw.err != nil {
		return
	}
	bw.advance(1, bw.bw.WriteBool(bit&0x1 == 1))
}

// Append appends the first lenBits bits of data to the bitstream. The
// bits in data are read most significant bit first.
func (bw *BitWriter) Append(data []byte, lenBits int) {
	full := lenBits / 8
	for _, b := range data[:full] {
		if bw.err != nil {
			return
		}
		bw.advance(8, bw.bw.WriteByte(b))
	}
	if rem := uint8(lenBits % 8); rem > 0 && bw.err == nil {
		bw.advance(uint(rem), bw.bw.WriteBits(uint64(data[full]>>(8-rem)), rem))
	}
}

// Flush writes out any trailing bits, padding the final byte with
// zero bits as required.
func (bw *BitWriter) Flush() error {
	if bw.err != nil {
		return bw.err
	}
	if _, err := bw.bw.Align(); err != nil {
		bw.err = err
		return err
	}
	bw.pending = 0
	return nil
}

// Pending returns the number of bits that have not yet been written
// to the underlying writer.
func (bw *BitWriter) Pending() int {
	return int(bw.pending)
}

// Written returns the number of bytes written to the underlying writer.
func (bw *BitWriter) Written() int64 {
	return bw.out.n
}

// Err returns the first error encountered by the writer.
func (bw *BitWriter) Err() error {
	return bw.err
}

// byteSource counts the bytes read from the underlying reader. bitio
// requires an io.Reader, Read returns at most one byte at a time.
type byteSource struct {
	r io.ByteReader
	n int64
}

func (s *byteSource) ReadByte() (byte, error) {
	b, err := s.r.ReadByte()
	if err != nil {
		return 0, err
	}
	s.n++
	return b, nil
}

func (s *byteSource) Read(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	b, err := s.ReadByte()
	if err != nil {
		return 0, err
	}
	buf[0] = b
	return 1, nil
}

// BitReader reads a bitstream one bit at a time, most significant bit
// first.
type BitReader struct {
	in    *byteSource
	br    *bitio.Reader
	nbits uint // unread bits remaining in the current byte.
}

// NewBitReader returns a BitReader that reads from r.
func NewBitReader(r io.ByteReader) *BitReader {
	in := &byteSource{r: r}
	return &BitReader{in: in, br: bitio.NewReader(in)}
}

// ReadBit returns the next bit in the stream. It returns io.EOF once
// all of the bits in the underlying reader have been consumed, and any
// other error returned by the underlying reader unchanged.
func (br *BitReader) ReadBit() (uint8, error) {
	bit, err := br.br.ReadBool()
	if err != nil {
		return 0, err
	}
	if br.nbits == 0 {
		br.nbits = 8
	}
	br.nbits--
	if bit {
		return 1, nil
	}
	return 0, nil
}

// Buffered returns the number of bits of the most recently read byte
// that have not been returned by ReadBit.
func (br *BitReader) Buffered() int {
	return int(br.nbits)
}

// BytesRead returns the number of bytes read from the underlying reader.
func (br *BitReader) BytesRead() int64 {
	return br.in.n
}
