// Copyright 2026 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bitstream_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/brenovambaster/huffman-compress/internal/bitstream"
	"github.com/stretchr/testify/require"
)

func b(b ...byte) []byte {
	return b
}

func TestWriteBits(t *testing.T) {
	var buf bytes.Buffer
	bw := bitstream.NewBitWriter(&buf)
	for _, bit := range []uint8{1, 0, 1, 1} {
		bw.WriteBit(bit)
	}
	require.Equal(t, 4, bw.Pending())
	require.Equal(t, 0, buf.Len())
	for _, bit := range []uint8{0, 0, 1, 0} {
		bw.WriteBit(bit)
	}
	require.Equal(t, 0, bw.Pending())
	require.Equal(t, b(0b10110010), buf.Bytes())

	// Only the low bit is used.
	bw.WriteBit(0xff)
	require.NoError(t, bw.Flush())
	require.Equal(t, b(0b10110010, 0b10000000), buf.Bytes())
	require.Equal(t, int64(2), bw.Written())
}

func TestAppend(t *testing.T) {
	for i, tc := range []struct {
		prefix  int // number of 1 bits written before the append.
		data    []byte
		lenBits int
		out     []byte
	}{
		{0, b(0xab), 8, b(0xab)},
		{0, b(0xab, 0xcd), 12, b(0xab, 0xc0)},
		{0, b(0x80), 1, b(0x80)},
		{1, b(0x00), 1, b(0x80)},
		{3, b(0xff), 8, b(0xff, 0xe0)},
		{3, b(0x00, 0x00), 13, b(0xe0, 0x00)},
		{4, b(0xa5), 8, b(0xfa, 0x50)},
		{7, b(0x0f, 0x80), 9, b(0xfe, 0x1f)},
	} {
		var buf bytes.Buffer
		bw := bitstream.NewBitWriter(&buf)
		for j := 0; j < tc.prefix; j++ {
			bw.WriteBit(1)
		}
		bw.Append(tc.data, tc.lenBits)
		require.NoError(t, bw.Flush(), "case %v", i)
		require.Equal(t, tc.out, buf.Bytes(), "case %v", i)
	}
}

func TestReadBits(t *testing.T) {
	br := bitstream.NewBitReader(bytes.NewReader(b(0xf2, 0x80)))
	var bits []uint8
	for {
		bit, err := br.ReadBit()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		bits = append(bits, bit)
		if len(bits) == 3 {
			require.Equal(t, 5, br.Buffered())
		}
	}
	require.Equal(t, []uint8{1, 1, 1, 1, 0, 0, 1, 0, 1, 0, 0, 0, 0, 0, 0, 0}, bits)
	require.Equal(t, int64(2), br.BytesRead())
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	bw := bitstream.NewBitWriter(&buf)
	codes := []struct {
		data    []byte
		lenBits int
	}{
		{b(0x40), 2}, {b(0xff, 0xc0), 10}, {b(0x00), 1}, {b(0xa0), 4}, {b(0x12, 0x34, 0x56), 24},
	}
	total := 0
	for _, c := range codes {
		bw.Append(c.data, c.lenBits)
		total += c.lenBits
	}
	require.NoError(t, bw.Flush())
	require.Equal(t, (total+7)/8, buf.Len())

	br := bitstream.NewBitReader(bytes.NewReader(buf.Bytes()))
	for _, c := range codes {
		for i := 0; i < c.lenBits; i++ {
			bit, err := br.ReadBit()
			require.NoError(t, err)
			require.Equal(t, (c.data[i/8]>>(7-uint(i%8)))&0x1, bit)
		}
	}
	// Padding.
	for i := total; i < buf.Len()*8; i++ {
		bit, err := br.ReadBit()
		require.NoError(t, err)
		require.Equal(t, uint8(0), bit)
	}
	_, err := br.ReadBit()
	require.Equal(t, io.EOF, err)
}

type failingWriter struct{ n int }

func (fw *failingWriter) WriteByte(byte) error {
	if fw.n == 0 {
		return errors.New("oops")
	}
	fw.n--
	return nil
}

func (fw *failingWriter) Write(p []byte) (int, error) {
	for i, c := range p {
		if err := fw.WriteByte(c); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

func TestWriteErrors(t *testing.T) {
	bw := bitstream.NewBitWriter(&failingWriter{n: 1})
	bw.Append(b(0xff, 0xff, 0xff), 24)
	require.EqualError(t, bw.Err(), "oops")
	require.EqualError(t, bw.Flush(), "oops")
	require.Equal(t, int64(1), bw.Written())

	// A failed partial byte is reported by Flush.
	bw = bitstream.NewBitWriter(&failingWriter{n: 0})
	bw.Append(b(0xa0), 3)
	require.NoError(t, bw.Err())
	require.Equal(t, 3, bw.Pending())
	require.EqualError(t, bw.Flush(), "oops")
	require.Equal(t, int64(0), bw.Written())
}

func TestUnalignedBytes(t *testing.T) {
	// Whole bytes appended after an odd number of bits straddle two
	// output bytes.
	var buf bytes.Buffer
	bw := bitstream.NewBitWriter(&buf)
	bw.Append(b(0xa0), 3)
	bw.Append(b(0xff, 0x00, 0xff), 24)
	require.Equal(t, 3, bw.Pending())
	require.Equal(t, int64(3), bw.Written())
	require.NoError(t, bw.Flush())
	require.Equal(t, b(0xbf, 0xe0, 0x1f, 0xe0), buf.Bytes())
	require.Equal(t, int64(4), bw.Written())

	br := bitstream.NewBitReader(bytes.NewReader(buf.Bytes()))
	for i := 0; i < 11; i++ {
		_, err := br.ReadBit()
		require.NoError(t, err)
	}
	require.Equal(t, int64(2), br.BytesRead())
	require.Equal(t, 5, br.Buffered())
}
