// Copyright 2026 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package huffman

import (
	"fmt"
	"io"
	"os"
)

// DefaultBufferSize is the size of the buffers used for reading and
// writing unless overridden by the BufferSize option.
const DefaultBufferSize = 64 * 1024

type options struct {
	verbose   bool
	verboseWr io.Writer
	progress  func(Progress)
	bufSize   int
}

// Option represents an option to the compression and decompression
// functions.
type Option func(o *options)

// Verbose controls verbose logging for compression and decompression.
func Verbose(v bool) Option {
	return func(o *options) {
		o.verbose = v
	}
}

// VerboseWriter sets the destination of verbose output, the default is
// os.Stderr.
func VerboseWriter(w io.Writer) Option {
	return func(o *options) {
		o.verboseWr = w
	}
}

// ProgressFunc requests that fn be called, synchronously, as input is
// consumed by each phase of compression or decompression.
func ProgressFunc(fn func(Progress)) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// BufferSize sets the size of the read and write buffers.
func BufferSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bufSize = n
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		verboseWr: os.Stderr,
		bufSize:   DefaultBufferSize,
	}
	for _, fn := range opts {
		fn(o)
	}
	return o
}

func (o *options) tracef(format string, args ...interface{}) {
	if o.verbose {
		fmt.Fprintf(o.verboseWr, format, args...)
	}
}

// track returns a reader that reports progress for phase when a
// ProgressFunc has been specified.
func (o *options) track(rd io.Reader, phase Phase) io.Reader {
	if o.progress == nil {
		return rd
	}
	return &progressReader{rd: rd, phase: phase, fn: o.progress}
}

// Phase identifies the stage of compression or decompression that a
// Progress update refers to.
type Phase int

const (
	// PhaseCount is the first pass over the input when compressing.
	PhaseCount Phase = iota
	// PhaseEncode is the second pass over the input when compressing.
	PhaseEncode
	// PhaseDecode covers reading compressed input.
	PhaseDecode
)

func (p Phase) String() string {
	switch p {
	case PhaseCount:
		return "count"
	case PhaseEncode:
		return "encode"
	case PhaseDecode:
		return "decode"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Progress is used to report on the progress of compression and
// decompression. Bytes is the number of input bytes consumed since the
// previous update.
type Progress struct {
	Phase Phase
	Bytes int
}

type progressReader struct {
	rd    io.Reader
	phase Phase
	fn    func(Progress)
}

func (pr *progressReader) Read(buf []byte) (int, error) {
	n, err := pr.rd.Read(buf)
	if n > 0 {
		pr.fn(Progress{Phase: pr.phase, Bytes: n})
	}
	return n, err
}

// Stats describes a single compression or decompression.
type Stats struct {
	Symbols         uint64 // Number of bytes in the uncompressed data.
	Distinct        int    // Number of distinct byte values, ie. leaves in the tree.
	TreeBytes       int64  // Size of the serialized tree.
	CompressedBytes int64  // Total size of the compressed data, including the header.
}

// Ratio returns the size of the compressed data relative to the
// uncompressed data, or 0 for empty input.
func (s Stats) Ratio() float64 {
	if s.Symbols == 0 {
		return 0
	}
	return float64(s.CompressedBytes) / float64(s.Symbols)
}

func (s Stats) String() string {
	return fmt.Sprintf("%v -> %v bytes (%.2f%%), %v distinct symbols",
		s.Symbols, s.CompressedBytes, s.Ratio()*100, s.Distinct)
}
