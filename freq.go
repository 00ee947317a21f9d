// Copyright 2026 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package huffman

import (
	"io"
	"math"
)

// AlphabetSize is the number of distinct symbols, ie. byte values.
const AlphabetSize = 256

// FrequencyTable records the number of occurrences of each byte value.
type FrequencyTable [AlphabetSize]uint64

// Count reads rd to completion and returns the number of times that each
// byte value occurs in it. Read errors are returned as an *IOError.
func Count(rd io.Reader) (FrequencyTable, error) {
	return count(rd, DefaultBufferSize)
}

func count(rd io.Reader, bufSize int) (FrequencyTable, error) {
	var ft FrequencyTable
	buf := make([]byte, bufSize)
	for {
		n, err := rd.Read(buf)
		for _, b := range buf[:n] {
			ft[b]++
		}
		if err == io.EOF {
			return ft, nil
		}
		if err != nil {
			return ft, &IOError{Op: "read", Err: err}
		}
	}
}

// Total returns the sum of all of the counts, or math.MaxUint64 if the
// sum overflows.
func (ft *FrequencyTable) Total() uint64 {
	total, ok := ft.sum()
	if !ok {
		return math.MaxUint64
	}
	return total
}

func (ft *FrequencyTable) sum() (uint64, bool) {
	var total uint64
	for _, c := range ft {
		if total+c < total {
			return 0, false
		}
		total += c
	}
	return total, true
}

// Distinct returns the number of byte values with a non-zero count.
func (ft *FrequencyTable) Distinct() int {
	n := 0
	for _, c := range ft {
		if c > 0 {
			n++
		}
	}
	return n
}
