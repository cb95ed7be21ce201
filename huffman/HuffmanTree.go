/*
Copyright 2018-2026 the hufftree-go authors
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package huffman implements a static Huffman code over the byte alphabet
// plus a reserved end-of-stream symbol. The code tree is built from symbol
// frequencies, serialized in preorder as the artifact header and rebuilt
// from that header by the decoder.
package huffman

import (
	"container/heap"
	"errors"
	"fmt"

	hufftree "github.com/hufftree/hufftree-go"
)

const (
	// EndOfStream is the synthetic symbol appended once to every encoded
	// payload. Decoding it signals that no more real data follows.
	EndOfStream = 256

	// AlphabetSize is the number of symbols: 256 byte values plus EndOfStream.
	AlphabetSize = 257

	// 9 bits per header symbol: EndOfStream needs one bit more than a byte
	_SYMBOL_BITS = 9

	// A tree with 257 leaves cannot be deeper than 256. Deeper headers are forged.
	_MAX_DEPTH = 256
)

// node is either a leaf carrying a symbol or an internal node owning
// exactly two children. Internal nodes carry no symbol.
type node interface {
	isNode()
}

type leafNode struct {
	symbol int
}

type innerNode struct {
	left  node
	right node
}

func (*leafNode) isNode()  {}
func (*innerNode) isNode() {}

// Tree is an immutable Huffman code tree. The path from the root to a leaf
// (0 = left, 1 = right) is the code of the leaf's symbol.
type Tree struct {
	root node
}

// Code is a root-to-leaf bit path, one byte per bit, first bit first.
type Code []byte

// CodeTable maps each symbol present in the tree to its code. It is
// populated once by Codes and never mutated afterwards.
type CodeTable map[int]Code

// treeEntry is a pending node in the builder priority queue. The order
// field makes the heap ordering total: symbol value for leaves, insertion
// rank (offset past the alphabet) for merged nodes.
type treeEntry struct {
	n      node
	weight int
	order  int
}

type treeHeap []*treeEntry

func (this treeHeap) Len() int {
	return len(this)
}

func (this treeHeap) Less(i, j int) bool {
	if this[i].weight != this[j].weight {
		return this[i].weight < this[j].weight
	}

	return this[i].order < this[j].order
}

func (this treeHeap) Swap(i, j int) {
	this[i], this[j] = this[j], this[i]
}

func (this *treeHeap) Push(x any) {
	*this = append(*this, x.(*treeEntry))
}

func (this *treeHeap) Pop() any {
	old := *this
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*this = old[:n-1]
	return x
}

// BuildTree constructs the optimal code tree for the given frequencies.
// Symbols with a zero count get no leaf. The two lowest weight nodes are
// merged repeatedly until one root remains. Ties are broken by symbol
// value first, then by merge order, so the tree shape is deterministic
// for a given frequency table.
func BuildTree(freqs *[AlphabetSize]int) (*Tree, error) {
	th := make(treeHeap, 0, AlphabetSize)

	for s, f := range freqs {
		if f > 0 {
			th = append(th, &treeEntry{n: &leafNode{symbol: s}, weight: f, order: s})
		}
	}

	if len(th) == 0 {
		return nil, errors.New("Cannot build a Huffman tree from an empty frequency table")
	}

	heap.Init(&th)
	rank := AlphabetSize

	for th.Len() > 1 {
		left := heap.Pop(&th).(*treeEntry)
		right := heap.Pop(&th).(*treeEntry)
		merged := &treeEntry{
			n:      &innerNode{left: left.n, right: right.n},
			weight: left.weight + right.weight,
			order:  rank,
		}
		rank++
		heap.Push(&th, merged)
	}

	return &Tree{root: th[0].n}, nil
}

// Codes walks the tree depth first and returns the code of every symbol.
// The codes are prefix free by construction. A tree reduced to a single
// leaf has no internal node to derive a path from; its lone symbol is
// assigned the one bit code 0 so the payload still advances bit by bit.
func (this *Tree) Codes() CodeTable {
	table := make(CodeTable)

	if leaf, isLeaf := this.root.(*leafNode); isLeaf {
		table[leaf.symbol] = Code{0}
		return table
	}

	type frame struct {
		n    node
		path Code
	}

	stack := []frame{{n: this.root, path: Code{}}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch t := f.n.(type) {
		case *leafNode:
			table[t.symbol] = f.path

		case *innerNode:
			left := make(Code, len(f.path)+1)
			copy(left, f.path)
			right := make(Code, len(f.path)+1)
			copy(right, f.path)
			left[len(f.path)] = 0
			right[len(f.path)] = 1
			stack = append(stack, frame{n: t.right, path: right})
			stack = append(stack, frame{n: t.left, path: left})
		}
	}

	return table
}

// Write serializes the tree shape to the bitstream in preorder: a 0 bit for
// an internal node followed by its two subtrees, a 1 bit and a 9 bit symbol
// for a leaf. The traversal uses an explicit stack, so even a degenerate
// chain shaped tree cannot exhaust the call stack.
func (this *Tree) Write(obs hufftree.OutputBitStream) {
	stack := []node{this.root}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch t := n.(type) {
		case *leafNode:
			obs.WriteBit(1)
			obs.WriteBits(uint64(t.symbol), _SYMBOL_BITS)

		case *innerNode:
			obs.WriteBit(0)
			stack = append(stack, t.right)
			stack = append(stack, t.left)
		}
	}
}

// ReadTree rebuilds a tree from its preorder header. It returns an error
// when the header encodes an impossible shape (deeper than any tree over
// this alphabet can be, or a symbol outside the alphabet). An exhausted
// bitstream panics with hufftree.ErrEndOfStream; the caller maps that
// to its truncation error.
func ReadTree(ibs hufftree.InputBitStream) (*Tree, error) {
	root, err := readNode(ibs, 0)

	if err != nil {
		return nil, err
	}

	return &Tree{root: root}, nil
}

func readNode(ibs hufftree.InputBitStream, depth int) (node, error) {
	if depth > _MAX_DEPTH {
		return nil, fmt.Errorf("Invalid tree header: depth exceeds %d", _MAX_DEPTH)
	}

	if ibs.ReadBit() == 0 {
		left, err := readNode(ibs, depth+1)

		if err != nil {
			return nil, err
		}

		right, err := readNode(ibs, depth+1)

		if err != nil {
			return nil, err
		}

		return &innerNode{left: left, right: right}, nil
	}

	symbol := int(ibs.ReadBits(_SYMBOL_BITS))

	if symbol >= AlphabetSize {
		return nil, fmt.Errorf("Invalid tree header: symbol %d out of range", symbol)
	}

	return &leafNode{symbol: symbol}, nil
}

// DecodeSymbol consumes bits from the bitstream, walking the tree from the
// root until a leaf is reached, and returns the leaf's symbol. On a single
// leaf tree exactly one bit is consumed per symbol, mirroring the one bit
// code assigned by Codes. Panics with hufftree.ErrEndOfStream if the
// bitstream is exhausted mid walk.
func (this *Tree) DecodeSymbol(ibs hufftree.InputBitStream) int {
	if leaf, isLeaf := this.root.(*leafNode); isLeaf {
		ibs.ReadBit()
		return leaf.symbol
	}

	current := this.root

	for {
		t := current.(*innerNode)

		if ibs.ReadBit() == 0 {
			current = t.left
		} else {
			current = t.right
		}

		if leaf, isLeaf := current.(*leafNode); isLeaf {
			return leaf.symbol
		}
	}
}
