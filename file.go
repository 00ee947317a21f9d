// Copyright 2026 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package huffman

import (
	"context"

	"github.com/grailbio/base/file"
)

// CompressFile compresses input and writes the result to output. Any
// path supported by github.com/grailbio/base/file may be used, provided
// that the input supports seeking. output is removed if compression
// fails.
func CompressFile(ctx context.Context, input, output string, opts ...Option) (Stats, error) {
	in, err := file.Open(ctx, input)
	if err != nil {
		return Stats{}, &IOError{Op: "open", Path: input, Err: err}
	}
	defer in.Close(ctx)
	out, err := file.Create(ctx, output)
	if err != nil {
		return Stats{}, &IOError{Op: "create", Path: output, Err: err}
	}
	stats, err := Compress(in.Reader(ctx), out.Writer(ctx), opts...)
	return finish(ctx, out, stats, annotate(err, input, output))
}

// DecompressFile decompresses input and writes the result to output.
// output is removed if decompression fails.
func DecompressFile(ctx context.Context, input, output string, opts ...Option) (Stats, error) {
	in, err := file.Open(ctx, input)
	if err != nil {
		return Stats{}, &IOError{Op: "open", Path: input, Err: err}
	}
	defer in.Close(ctx)
	out, err := file.Create(ctx, output)
	if err != nil {
		return Stats{}, &IOError{Op: "create", Path: output, Err: err}
	}
	stats, err := Decompress(in.Reader(ctx), out.Writer(ctx), opts...)
	return finish(ctx, out, stats, annotate(err, input, output))
}

// finish closes out and removes it if err is not nil since a partially
// written output file is never valid.
func finish(ctx context.Context, out file.File, stats Stats, err error) (Stats, error) {
	name := out.Name()
	if cerr := out.Close(ctx); cerr != nil && err == nil {
		err = &IOError{Op: "close", Path: name, Err: cerr}
	}
	if err != nil {
		file.Remove(ctx, name) // nolint: errcheck
		return Stats{}, err
	}
	return stats, nil
}
