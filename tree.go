// Copyright 2026 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package huffman

import (
	"container/heap"

	"github.com/chronos-tachyon/assert"
)

// A Tree is a binary tree which is navigated, bit-by-bit, to reach a
// symbol. The nodes are stored in a single slice and refer to their
// children by index. nodes[root] is the root of the tree.
type Tree struct {
	nodes []node
	root  uint16
}

// A node is either a leaf, in which case left and right are noChild and
// symbol is valid, or an internal node with exactly two children.
// The weight of an internal node is the sum of the weights of its
// children; weights are not recorded in the serialized form and are zero
// for trees read by ReadTree.
type node struct {
	weight      uint64
	left, right uint16
	symbol      byte
}

// noChild is an invalid index which marks a leaf node in the tree.
const noChild = 0xffff

// maxNodes is the number of nodes in a tree with a leaf for every symbol.
const maxNodes = 2*AlphabetSize - 1

func (n *node) isLeaf() bool {
	return n.left == noChild
}

func (t *Tree) add(n node) uint16 {
	assert.Assertf(len(t.nodes) < maxNodes, "tree has too many nodes: %d", len(t.nodes))
	t.nodes = append(t.nodes, n)
	return uint16(len(t.nodes) - 1)
}

func newLeaf(symbol byte, weight uint64) node {
	return node{weight: weight, left: noChild, right: noChild, symbol: symbol}
}

// Build builds a Huffman tree from the supplied frequencies. It returns
// nil if all of the frequencies are zero or if their sum overflows a
// uint64, since the root's weight could not be represented.
//
// The two lowest weight nodes are repeatedly merged, the first to be
// removed from the heap becoming the left child. Ties between nodes of
// equal weight are broken in favour of the node that was created first:
// leaves are created in ascending symbol order before any internal
// node, and internal nodes in the order that they are merged. The
// resulting tree is therefore a deterministic function of the frequencies.
func Build(ft FrequencyTable) *Tree {
	if _, ok := ft.sum(); !ok {
		return nil
	}
	t := &Tree{nodes: make([]node, 0, maxNodes)}
	h := &nodeHeap{tree: t}
	for sym, weight := range ft {
		if weight == 0 {
			continue
		}
		h.list = append(h.list, t.add(newLeaf(byte(sym), weight)))
	}
	if len(h.list) == 0 {
		return nil
	}
	heap.Init(h)
	for h.Len() > 1 {
		left := heap.Pop(h).(uint16)
		right := heap.Pop(h).(uint16)
		lw, rw := t.nodes[left].weight, t.nodes[right].weight
		heap.Push(h, t.add(node{weight: lw + rw, left: left, right: right}))
	}
	t.root = heap.Pop(h).(uint16)
	return t
}

// Leaves returns the number of leaves, ie. distinct symbols, in the tree.
func (t *Tree) Leaves() int {
	if t == nil {
		return 0
	}
	n := 0
	for i := range t.nodes {
		if t.nodes[i].isLeaf() {
			n++
		}
	}
	return n
}

// Depth returns the length of the longest path from the root to a leaf.
// A tree consisting of a single leaf has a depth of 0.
func (t *Tree) Depth() int {
	if t == nil {
		return 0
	}
	type item struct {
		idx   uint16
		depth int
	}
	deepest := 0
	stack := []item{{idx: t.root}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[it.idx]
		if n.isLeaf() {
			if it.depth > deepest {
				deepest = it.depth
			}
			continue
		}
		stack = append(stack, item{n.right, it.depth + 1}, item{n.left, it.depth + 1})
	}
	return deepest
}

// Weight returns the weight of the root of the tree, which for trees
// created by Build is the total number of symbols.
func (t *Tree) Weight() uint64 {
	if t == nil {
		return 0
	}
	return t.nodes[t.root].weight
}

// SerializedSize returns the number of bytes needed to serialize the tree.
func (t *Tree) SerializedSize() int {
	if t == nil {
		return 0
	}
	leaves := t.Leaves()
	return 2*leaves + (len(t.nodes) - leaves)
}

// nodeHeap is a min-heap of node indices ordered by weight and then by
// index, the index being the order in which the node was created.
type nodeHeap struct {
	tree *Tree
	list []uint16
}

func (h *nodeHeap) Len() int {
	return len(h.list)
}

func (h *nodeHeap) Swap(i, j int) {
	h.list[i], h.list[j] = h.list[j], h.list[i]
}

func (h *nodeHeap) Less(i, j int) bool {
	a, b := h.list[i], h.list[j]
	aw, bw := h.tree.nodes[a].weight, h.tree.nodes[b].weight
	if aw != bw {
		return aw < bw
	}
	return a < b
}

func (h *nodeHeap) Push(x interface{}) {
	h.list = append(h.list, x.(uint16))
}

func (h *nodeHeap) Pop() interface{} {
	last := len(h.list) - 1
	x := h.list[last]
	h.list = h.list[:last]
	return x
}

var _ heap.Interface = (*nodeHeap)(nil)
