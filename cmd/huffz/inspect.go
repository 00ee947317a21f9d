// Copyright 2026 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"

	"cloudeng.io/cmdutil"
	"cloudeng.io/errors"
	huffman "github.com/brenovambaster/huffman-compress"
)

func inspectFile(ctx context.Context, name string, codes bool) error {
	rd, size, readerCleanup, err := openFileOrURL(ctx, name)
	if err != nil {
		return err
	}
	defer readerCleanup(ctx)
	hdr, err := huffman.ReadHeader(rd)
	if err != nil {
		return fmt.Errorf("%v: %w", name, err)
	}
	fmt.Printf("=== %v ===\n", name)
	if hdr.Tree == nil {
		fmt.Printf("empty\n")
		return nil
	}
	fmt.Printf("Symbols        : %v\n", hdr.Symbols)
	fmt.Printf("Distinct       : %v\n", hdr.Tree.Leaves())
	fmt.Printf("Tree depth     : %v\n", hdr.Tree.Depth())
	fmt.Printf("Header size    : %v\n", hdr.Size())
	switch {
	case size > 0 && hdr.Symbols > 0:
		fmt.Printf("Compressed size: %v (%.2f%%)\n", size, float64(size)/float64(hdr.Symbols)*100)
	case size > 0:
		fmt.Printf("Compressed size: %v\n", size)
	}
	if codes {
		if _, err := hdr.Tree.Codes().Dump(os.Stdout); err != nil {
			return err
		}
	}
	return nil
}

func inspect(ctx context.Context, values interface{}, args []string) error {
	fv := values.(*inspectFlags)
	ctx, cancel := context.WithCancel(ctx)
	cmdutil.HandleSignals(cancel, os.Interrupt)
	errs := errors.M{}
	for _, arg := range args {
		if err := ctx.Err(); err != nil {
			errs.Append(err)
			break
		}
		errs.Append(inspectFile(ctx, arg, fv.Codes))
	}
	return errs.Err()
}
