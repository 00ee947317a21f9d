// Copyright 2026 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package huffman_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	huffman "github.com/brenovambaster/huffman-compress"
	"github.com/brenovambaster/huffman-compress/internal"
)

func TestFiles(t *testing.T) {
	ctx := context.Background()
	tmpdir := t.TempDir()
	data := internal.GenSkewedData(128 * 1024)
	input := filepath.Join(tmpdir, "input")
	if err := internal.CreateFile(input, data); err != nil {
		t.Fatal(err)
	}
	compressed := filepath.Join(tmpdir, "input.huf")
	cstats, err := huffman.CompressFile(ctx, input, compressed)
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(compressed)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := info.Size(), cstats.CompressedBytes; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if info.Size() >= int64(len(data)) {
		t.Errorf("compressed file is not smaller: %v >= %v", info.Size(), len(data))
	}

	output := filepath.Join(tmpdir, "output")
	dstats, err := huffman.DecompressFile(ctx, compressed, output)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := dstats, cstats; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	roundtrip, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := roundtrip, data; !bytes.Equal(got, want) {
		t.Errorf("got %v, want %v", internal.FirstN(10, got), internal.FirstN(10, want))
	}

	// Empty files.
	empty := filepath.Join(tmpdir, "empty")
	if err := internal.CreateFile(empty, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := huffman.CompressFile(ctx, empty, empty+".huf"); err != nil {
		t.Fatal(err)
	}
	info, err = os.Stat(empty + ".huf")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := info.Size(), int64(0); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFileErrors(t *testing.T) {
	ctx := context.Background()
	tmpdir := t.TempDir()

	missing := filepath.Join(tmpdir, "missing")
	output := filepath.Join(tmpdir, "output")
	for _, fn := range []func(context.Context, string, string, ...huffman.Option) (huffman.Stats, error){
		huffman.CompressFile, huffman.DecompressFile,
	} {
		_, err := fn(ctx, missing, output)
		var ioe *huffman.IOError
		if !errors.As(err, &ioe) {
			t.Errorf("expected an IOError: %v", err)
			continue
		}
		if got, want := ioe.Op, "open"; got != want {
			t.Errorf("got %v, want %v", got, want)
		}
		if got, want := ioe.Path, missing; got != want {
			t.Errorf("got %v, want %v", got, want)
		}
		if !strings.Contains(err.Error(), missing) {
			t.Errorf("error does not mention %v: %v", missing, err)
		}
	}

	// A corrupt file must not leave a partial output file behind.
	corrupt := filepath.Join(tmpdir, "corrupt.huf")
	if err := internal.CreateFile(corrupt, []byte{'1', 'A', 200, 0, 0, 0, 0x00}); err != nil {
		t.Fatal(err)
	}
	_, err := huffman.DecompressFile(ctx, corrupt, output)
	var fe huffman.FormatError
	if !errors.As(err, &fe) {
		t.Errorf("expected a FormatError: %v", err)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Errorf("%v was not removed: %v", output, err)
	}
}

func TestBatch(t *testing.T) {
	ctx := context.Background()
	tmpdir := t.TempDir()
	var inputs [][]byte
	for i := 0; i < 10; i++ {
		var data []byte
		switch i % 3 {
		case 0:
			data = internal.GenSkewedData(1000 * (i + 1))
		case 1:
			data = internal.GenPredictableRandomData(1000 * (i + 1))
		case 2:
			data = bytes.Repeat([]byte{byte(i)}, i)
		}
		inputs = append(inputs, data)
		if err := internal.CreateFile(filepath.Join(tmpdir, fmt.Sprint(i)), data); err != nil {
			t.Fatal(err)
		}
	}

	var order []uint64
	batch := huffman.NewBatch(ctx, 4, func(r huffman.BatchResult) {
		order = append(order, r.Order)
	})
	for i := range inputs {
		name := filepath.Join(tmpdir, fmt.Sprint(i))
		batch.Add(name, name+".huf")
	}
	// This file doesn't exist.
	batch.Add(filepath.Join(tmpdir, "missing"), filepath.Join(tmpdir, "missing.huf"))

	results, err := batch.Finish()
	if err == nil || !strings.Contains(err.Error(), "missing") {
		t.Errorf("missing or wrong error: %v", err)
	}
	if got, want := len(results), len(inputs)+1; got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i, r := range results {
		if got, want := r.Order, uint64(i+1); got != want {
			t.Errorf("%v: got %v, want %v", i, got, want)
		}
		if got, want := order[i], r.Order; got != want {
			t.Errorf("%v: got %v, want %v", i, got, want)
		}
		if i == len(inputs) {
			if r.Err == nil {
				t.Errorf("%v: expected an error", i)
			}
			continue
		}
		if r.Err != nil {
			t.Errorf("%v: %v", i, r.Err)
			continue
		}
		if got, want := r.Stats.Symbols, uint64(len(inputs[i])); got != want {
			t.Errorf("%v: got %v, want %v", i, got, want)
		}
		var out bytes.Buffer
		compressed, err := os.ReadFile(r.Output)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := huffman.Decompress(bytes.NewReader(compressed), &out); err != nil {
			t.Errorf("%v: %v", i, err)
		}
		if got, want := out.Bytes(), inputs[i]; !bytes.Equal(got, want) {
			t.Errorf("%v: got %v, want %v", i, internal.FirstN(10, got), internal.FirstN(10, want))
		}
	}
}

func TestBatchCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tmpdir := t.TempDir()
	input := filepath.Join(tmpdir, "input")
	if err := internal.CreateFile(input, []byte("hello")); err != nil {
		t.Fatal(err)
	}
	batch := huffman.NewBatch(ctx, 2, nil)
	batch.Add(input, input+".huf")
	results, err := batch.Finish()
	if err == nil {
		t.Errorf("expected an error")
	}
	if got, want := len(results), 1; got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
	if !errors.Is(results[0].Err, context.Canceled) {
		t.Errorf("missing or wrong error: %v", results[0].Err)
	}
	if _, err := os.Stat(input + ".huf"); !os.IsNotExist(err) {
		t.Errorf("output should not have been created: %v", err)
	}
}
