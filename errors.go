// Copyright 2026 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package huffman

import (
	"errors"
	"fmt"
)

// A FormatError is returned when the compressed data is found to be
// structurally invalid, for example a truncated tree or bitstream.
type FormatError string

func (s FormatError) Error() string {
	return "huffman data invalid: " + string(s)
}

// IOError is returned when the source or sink of a compression or
// decompression cannot be opened, read from or written to.
type IOError struct {
	Op   string // open, create, read, seek, write or close.
	Path string // may be empty for streams that are not files.
	Err  error
}

func (e *IOError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("huffman: %v: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("huffman: %v %v: %v", e.Op, e.Path, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *IOError) Unwrap() error {
	return e.Err
}

var (
	// ErrInputTooLarge is returned when the input contains more symbols
	// than can be represented by the 32 bit symbol count in the header.
	ErrInputTooLarge = errors.New("huffman: input is too large")

	// ErrSourceChanged is returned when the second pass over the input
	// does not match the frequencies gathered by the first.
	ErrSourceChanged = errors.New("huffman: input changed between passes")
)

// annotate fills in the path of an IOError that has none, using input for
// errors encountered reading the source and output otherwise.
func annotate(err error, input, output string) error {
	var ioe *IOError
	if !errors.As(err, &ioe) || len(ioe.Path) > 0 {
		return err
	}
	switch ioe.Op {
	case "read", "seek":
		ioe.Path = input
	default:
		ioe.Path = output
	}
	return err
}
