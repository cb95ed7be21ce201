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

// Package io provides the implementations of the Compressor and the
// Decompressor used to respectively losslessly compress and decompress data.
//
// The compressed artifact is self describing: a 32 bit magic value, the
// preorder encoded code tree, then the concatenated codes of every input
// byte terminated by the code of the end-of-stream symbol, zero padded to
// a whole byte.
package io

import (
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	hufftree "github.com/hufftree/hufftree-go"
	"github.com/hufftree/hufftree-go/bitstream"
	"github.com/hufftree/hufftree-go/huffman"
	internal "github.com/hufftree/hufftree-go/internal"
)

const (
	_BITSTREAM_TYPE             = internal.HUF_MAGIC
	_STREAM_DEFAULT_BUFFER_SIZE = 65536
)

// IOError an extended error containing a message and a code value
type IOError struct {
	msg  string
	code int
}

// Error returns the underlying error
func (this IOError) Error() string {
	return fmt.Sprintf("%v (code %v)", this.msg, this.code)
}

// Message returns the message string associated with the error
func (this IOError) Message() string {
	return this.msg
}

// ErrorCode returns the code value associated with the error
func (this IOError) ErrorCode() int {
	return this.code
}

func notifyListeners(listeners []hufftree.Listener, evt *hufftree.Event) {
	defer func() {
		// Ignore panics in listeners
		_ = recover()
	}()

	for _, bl := range listeners {
		bl.ProcessEvent(evt)
	}
}

// asIOError converts a recovered panic value into an IOError. Bitstream
// exhaustion maps to ERR_TRUNCATED, everything else keeps the given code.
func asIOError(r any, code int, prefix string) *IOError {
	if e, isIOErr := r.(*IOError); isIOErr {
		return e
	}

	if e, isErr := r.(error); isErr {
		if errors.Is(e, hufftree.ErrEndOfStream) {
			return &IOError{msg: "Truncated compressed stream", code: hufftree.ERR_TRUNCATED}
		}

		return &IOError{msg: prefix + e.Error(), code: code}
	}

	return &IOError{msg: fmt.Sprintf("%v", r), code: hufftree.ERR_UNKNOWN}
}

// Compressor reads raw bytes from a rewindable input bitstream and writes
// a compressed artifact to an output bitstream. It is a two pass driver:
// the first pass counts symbol frequencies, the second emits codes.
// A Compressor is single use; each call to Compress builds and discards
// its own frequency table, tree and code table.
type Compressor struct {
	ibs       hufftree.InputBitStream
	obs       hufftree.OutputBitStream
	listeners []hufftree.Listener
}

// NewCompressor creates a new instance of Compressor reading from ibs and
// writing to obs.
func NewCompressor(ibs hufftree.InputBitStream, obs hufftree.OutputBitStream) (*Compressor, error) {
	if ibs == nil {
		return nil, &IOError{msg: "Invalid null input bitstream parameter", code: hufftree.ERR_INVALID_PARAM}
	}

	if obs == nil {
		return nil, &IOError{msg: "Invalid null output bitstream parameter", code: hufftree.ERR_INVALID_PARAM}
	}

	this := &Compressor{}
	this.ibs = ibs
	this.obs = obs
	this.listeners = make([]hufftree.Listener, 0)
	return this, nil
}

// AddListener adds an event listener to this compressor.
// Returns true if the listener has been added.
func (this *Compressor) AddListener(bl hufftree.Listener) bool {
	if bl == nil {
		return false
	}

	this.listeners = append(this.listeners, bl)
	return true
}

// Compress runs the two pass encoding and closes the output bitstream,
// padding the last byte, on every exit path including failures.
// Compression does not fail on well formed input, whatever its content;
// returned errors reflect I/O failures only.
func (this *Compressor) Compress() (err error) {
	var closeErr error

	defer func() {
		if r := recover(); r != nil {
			err = asIOError(r, hufftree.ERR_WRITE_FILE, "Compression failure: ")
		}

		if closeErr != nil {
			err = multierror.Append(err, closeErr).ErrorOrNil()
		}
	}()

	// The output stream must be flushed and padded even when encoding fails
	defer func() {
		closeErr = this.obs.Close()
	}()

	notifyListeners(this.listeners, hufftree.NewEvent(hufftree.EVT_COMPRESSION_START, 0, time.Now()))

	freqs, scanErr := huffman.ScanFrequencies(this.ibs)

	if scanErr != nil {
		return &IOError{msg: "Cannot read input stream: " + scanErr.Error(), code: hufftree.ERR_READ_FILE}
	}

	rawSize := int64(this.ibs.Read() >> 3)
	notifyListeners(this.listeners, hufftree.NewEvent(hufftree.EVT_AFTER_FREQUENCIES, rawSize, time.Now()))

	tree, buildErr := huffman.BuildTree(&freqs)

	if buildErr != nil {
		return &IOError{msg: buildErr.Error(), code: hufftree.ERR_UNKNOWN}
	}

	codes := tree.Codes()

	this.obs.WriteBits(_BITSTREAM_TYPE, 32)
	tree.Write(this.obs)
	notifyListeners(this.listeners, hufftree.NewEvent(hufftree.EVT_AFTER_HEADER, int64(this.obs.Written()), time.Now()))

	// Second pass over the input
	if resetErr := this.ibs.Reset(); resetErr != nil {
		return &IOError{msg: "Cannot rewind input stream: " + resetErr.Error(), code: hufftree.ERR_READ_FILE}
	}

	for {
		more, moreErr := this.ibs.HasMoreToRead()

		if more == false {
			if moreErr != nil && errors.Is(moreErr, hufftree.ErrEndOfStream) == false {
				return &IOError{msg: "Cannot read input stream: " + moreErr.Error(), code: hufftree.ERR_READ_FILE}
			}

			break
		}

		for _, bit := range codes[int(this.ibs.ReadBits(8))] {
			this.obs.WriteBit(int(bit))
		}
	}

	// Exactly one end-of-stream code terminates the payload
	for _, bit := range codes[huffman.EndOfStream] {
		this.obs.WriteBit(int(bit))
	}

	notifyListeners(this.listeners, hufftree.NewEvent(hufftree.EVT_COMPRESSION_END, int64(this.obs.Written()), time.Now()))
	return nil
}

// Decompressor reads a compressed artifact from an input bitstream and
// writes the reconstructed bytes to an output bitstream. The code tree is
// rebuilt from the artifact header; no external dictionary is involved.
type Decompressor struct {
	ibs       hufftree.InputBitStream
	obs       hufftree.OutputBitStream
	listeners []hufftree.Listener
}

// NewDecompressor creates a new instance of Decompressor reading from ibs
// and writing to obs.
func NewDecompressor(ibs hufftree.InputBitStream, obs hufftree.OutputBitStream) (*Decompressor, error) {
	if ibs == nil {
		return nil, &IOError{msg: "Invalid null input bitstream parameter", code: hufftree.ERR_INVALID_PARAM}
	}

	if obs == nil {
		return nil, &IOError{msg: "Invalid null output bitstream parameter", code: hufftree.ERR_INVALID_PARAM}
	}

	this := &Decompressor{}
	this.ibs = ibs
	this.obs = obs
	this.listeners = make([]hufftree.Listener, 0)
	return this, nil
}

// AddListener adds an event listener to this decompressor.
// Returns true if the listener has been added.
func (this *Decompressor) AddListener(bl hufftree.Listener) bool {
	if bl == nil {
		return false
	}

	this.listeners = append(this.listeners, bl)
	return true
}

// Decompress rebuilds the code tree from the artifact header and walks it
// bit by bit until the end-of-stream symbol is decoded. The output
// bitstream is closed on every exit path. Fails with ERR_BAD_MAGIC when
// the input does not start with the expected magic value and with
// ERR_TRUNCATED when the input ends before the end-of-stream symbol.
func (this *Decompressor) Decompress() (err error) {
	var closeErr error

	defer func() {
		if r := recover(); r != nil {
			err = asIOError(r, hufftree.ERR_READ_FILE, "Decompression failure: ")
		}

		if closeErr != nil {
			err = multierror.Append(err, closeErr).ErrorOrNil()
		}
	}()

	defer func() {
		closeErr = this.obs.Close()
	}()

	notifyListeners(this.listeners, hufftree.NewEvent(hufftree.EVT_DECOMPRESSION_START, 0, time.Now()))

	if magic := uint(this.ibs.ReadBits(32)); magic != _BITSTREAM_TYPE {
		errMsg := fmt.Sprintf("Invalid stream type: got 0x%X, expected 0x%X", magic, uint(_BITSTREAM_TYPE))
		return &IOError{msg: errMsg, code: hufftree.ERR_BAD_MAGIC}
	}

	tree, headerErr := huffman.ReadTree(this.ibs)

	if headerErr != nil {
		return &IOError{msg: headerErr.Error(), code: hufftree.ERR_INVALID_HEADER}
	}

	notifyListeners(this.listeners, hufftree.NewEvent(hufftree.EVT_AFTER_HEADER, int64(this.ibs.Read()), time.Now()))

	for {
		symbol := tree.DecodeSymbol(this.ibs)

		if symbol == huffman.EndOfStream {
			break
		}

		this.obs.WriteBits(uint64(symbol), 8)
	}

	notifyListeners(this.listeners, hufftree.NewEvent(hufftree.EVT_DECOMPRESSION_END, int64(this.obs.Written()), time.Now()))
	return nil
}

// CompressBytes compresses src in memory and returns the artifact bytes.
func CompressBytes(src []byte) ([]byte, error) {
	in := internal.NewBufferStream(src)
	out := internal.NewBufferStream()
	ibs, err := bitstream.NewDefaultInputBitStream(in, _STREAM_DEFAULT_BUFFER_SIZE)

	if err != nil {
		return nil, &IOError{msg: err.Error(), code: hufftree.ERR_CREATE_BITSTREAM}
	}

	obs, err := bitstream.NewDefaultOutputBitStream(out, _STREAM_DEFAULT_BUFFER_SIZE)

	if err != nil {
		return nil, &IOError{msg: err.Error(), code: hufftree.ERR_CREATE_BITSTREAM}
	}

	c, err := NewCompressor(ibs, obs)

	if err != nil {
		return nil, err
	}

	if err := c.Compress(); err != nil {
		return nil, err
	}

	ibs.Close()
	return out.Bytes(), nil
}

// DecompressBytes decompresses an artifact in memory and returns the
// original bytes.
func DecompressBytes(src []byte) ([]byte, error) {
	in := internal.NewBufferStream(src)
	out := internal.NewBufferStream()
	ibs, err := bitstream.NewDefaultInputBitStream(in, _STREAM_DEFAULT_BUFFER_SIZE)

	if err != nil {
		return nil, &IOError{msg: err.Error(), code: hufftree.ERR_CREATE_BITSTREAM}
	}

	obs, err := bitstream.NewDefaultOutputBitStream(out, _STREAM_DEFAULT_BUFFER_SIZE)

	if err != nil {
		return nil, &IOError{msg: err.Error(), code: hufftree.ERR_CREATE_BITSTREAM}
	}

	d, err := NewDecompressor(ibs, obs)

	if err != nil {
		return nil, err
	}

	if err := d.Decompress(); err != nil {
		return nil, err
	}

	ibs.Close()
	return out.Bytes(), nil
}
