// Copyright 2026 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Command huffstat displays the byte frequencies of a file and the size
// that it would compress to.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-sdk-go/aws/session"
	huffman "github.com/brenovambaster/huffman-compress"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
	"github.com/grailbio/base/must"
	"v.io/x/lib/cmd/flagvar"
)

var commandline struct {
	InputFile string `cmd:"input,,'input file or s3 path'"`
	Codes     bool   `cmd:"codes,false,display the code for each symbol"`
	All       bool   `cmd:"all,false,display symbols that do not occur in the input"`
}

func init() {
	must.Nil(flagvar.RegisterFlagsInStruct(flag.CommandLine, "cmd", &commandline,
		nil, nil))
	file.RegisterImplementation("s3", func() file.Implementation {
		return s3file.NewImplementation(
			s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
	})
}

func main() {
	ctx := context.Background()
	flag.Parse()
	if len(commandline.InputFile) == 0 {
		log.Fatalf("please specify an input file or s3 path")
	}

	f, err := file.Open(ctx, commandline.InputFile)
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	defer f.Close(ctx)
	ft, err := huffman.Count(f.Reader(ctx))
	if err != nil {
		log.Fatalf("failed to read: %v: %v", commandline.InputFile, err)
	}
	enc, err := huffman.NewEncoder(ft)
	if err != nil {
		log.Fatalf("%v: %v", commandline.InputFile, err)
	}

	total := ft.Total()
	fmt.Printf("=== %v ===\n", commandline.InputFile)
	fmt.Printf("Symbol, Count, Frequency, Code size\n")
	for sym, count := range ft {
		if count == 0 && !commandline.All {
			continue
		}
		code, _ := enc.Codes().Lookup(byte(sym))
		freq := 0.0
		if total > 0 {
			freq = float64(count) / float64(total) * 100
		}
		fmt.Printf("0x%02x %q : % 12d  %6.2f%%  % 4d\n", sym, rune(sym), count, freq, code.Size)
	}
	fmt.Printf("Symbols          : %v\n", total)
	fmt.Printf("Distinct         : %v\n", ft.Distinct())
	fmt.Printf("Tree depth       : %v\n", enc.Tree().Depth())
	fmt.Printf("Compressed size  : %v\n", enc.Size())
	if total > 0 {
		fmt.Printf("Ratio            : %.2f%%\n", float64(enc.Size())/float64(total)*100)
	}
	if commandline.Codes {
		if _, err := enc.Codes().Dump(os.Stdout); err != nil {
			log.Fatal(err)
		}
	}
}
