// Copyright 2026 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package huffman implements a lossless, two pass, Huffman coding
// compressor and decompressor for byte streams.
//
// A compressed stream consists of the pre-order serialization of the
// Huffman tree, a 4 byte little-endian count of the symbols (bytes) in the
// original input and the variable length codes for each of those symbols
// packed most significant bit first and zero padded to a byte boundary.
// There is no magic number, version or checksum. An empty input
// compresses to an empty stream.
//
// Compression requires two passes over its input, the first to build
// the frequency table and hence the tree and codes, the second to encode
// the data. Decompression is a single pass and NewReader returns an
// io.Reader that decodes the stream incrementally.
package huffman
