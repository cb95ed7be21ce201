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

// Package hufftree defines the top level interfaces used in the hufftree
// lossless compressor/decompressor
//
// The implementations of these interfaces are available in sub-folders
// like bitstream or io. The huffman package contains the frequency scan,
// the code tree and the tree header codec. The io package contains the
// Compressor and Decompressor drivers.
package hufftree

import "errors"

// ErrEndOfStream is the value panicked by InputBitStream implementations
// when the underlying stream runs out of data. Callers that need to
// distinguish exhaustion from I/O failures recover and compare against it.
var ErrEndOfStream = errors.New("No more data to read in the bitstream")

const (
	ERR_MISSING_PARAM       = 1
	ERR_CREATE_COMPRESSOR   = 4
	ERR_CREATE_DECOMPRESSOR = 5
	ERR_OUTPUT_IS_DIR       = 6
	ERR_OVERWRITE_FILE      = 7
	ERR_CREATE_FILE         = 8
	ERR_CREATE_BITSTREAM    = 9
	ERR_OPEN_FILE           = 10
	ERR_READ_FILE           = 11
	ERR_WRITE_FILE          = 12
	ERR_BAD_MAGIC           = 15
	ERR_INVALID_HEADER      = 16
	ERR_TRUNCATED           = 17
	ERR_INVALID_PARAM       = 18
	ERR_VERIFY              = 19
	ERR_UNKNOWN             = 127
)

// InputBitStream is a bitstream reader
type InputBitStream interface {
	// ReadBit returns the next bit in the bitstream. Panics if closed or EOS is reached.
	ReadBit() int

	// ReadBits reads 'length' (in [1..64]) bits from the bitstream.
	// Returns the bits read as an uint64.
	// Panics if closed or EOS is reached.
	ReadBits(length uint) uint64

	// HasMoreToRead returns false when the bitstream is closed or the EOS has been reached
	HasMoreToRead() (bool, error)

	// Reset rewinds the bitstream to its start so the data can be read again.
	// Returns an error if the underlying stream cannot seek.
	Reset() error

	// Close makes the bitstream unavailable for further reads.
	Close() error

	// Read returns the number of bits read
	Read() uint64
}

// OutputBitStream is a bitstream writer
type OutputBitStream interface {
	// WriteBit writes the least significant bit of the input integer.
	// Panics if closed or an IO error is received.
	WriteBit(bit int)

	// WriteBits writes the least significant bits of 'bits' to the bitstream.
	// Length is the number of bits to write (in [1..64]).
	// Returns the number of bits written.
	// Panics if closed or an IO error is received.
	WriteBits(bits uint64, length uint) uint

	// Close makes the bitstream unavailable for further writes.
	// The last byte is zero padded if necessary.
	Close() error

	// Written returns the number of bits written
	Written() uint64
}
