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

package internal

import (
	"errors"
	"fmt"
	"io"
)

// BufferStream is a closable read/write/seek stream of bytes backed by a
// slice. Reads consume data from the current offset, writes append at the
// end, and Seek repositions the read offset so the data can be scanned
// again (as required by the two-pass compressor).
type BufferStream struct {
	buf    []byte
	offset int
	closed bool
}

// NewBufferStream creates a new instance of BufferStream.
// An optional byte slice provides the initial content.
func NewBufferStream(args ...[]byte) *BufferStream {
	this := &BufferStream{}

	if len(args) == 1 {
		this.buf = args[0]
	}

	return this
}

// Write returns an error if the stream is closed, otherwise appends the given
// data to the internal buffer (growing the buffer as needed).
// Returns the number of bytes written.
func (this *BufferStream) Write(b []byte) (int, error) {
	if this.closed == true {
		return 0, errors.New("Stream closed")
	}

	this.buf = append(this.buf, b...)
	return len(b), nil
}

// Read returns an error if the stream is closed, otherwise reads data from
// the internal buffer at the read offset position.
// Returns the number of bytes read or (0, io.EOF) when no more data remains.
func (this *BufferStream) Read(b []byte) (int, error) {
	if this.closed == true {
		return 0, errors.New("Stream closed")
	}

	if this.offset >= len(this.buf) {
		return 0, io.EOF
	}

	n := copy(b, this.buf[this.offset:])
	this.offset += n
	return n, nil
}

// Seek repositions the read offset. It implements io.Seeker.
func (this *BufferStream) Seek(offset int64, whence int) (int64, error) {
	if this.closed == true {
		return 0, errors.New("Stream closed")
	}

	var pos int64

	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(this.offset) + offset
	case io.SeekEnd:
		pos = int64(len(this.buf)) + offset
	default:
		return 0, fmt.Errorf("Invalid whence value: %d", whence)
	}

	if pos < 0 || pos > int64(len(this.buf)) {
		return 0, fmt.Errorf("Invalid seek offset: %d", pos)
	}

	this.offset = int(pos)
	return pos, nil
}

// Close makes the stream unavailable for future reads or writes.
func (this *BufferStream) Close() error {
	this.closed = true
	return nil
}

// Len returns the size of the stream
func (this *BufferStream) Len() int {
	return len(this.buf)
}

// Available returns the number of bytes available for read
func (this *BufferStream) Available() int {
	if this.closed == true {
		return 0
	}

	return len(this.buf) - this.offset
}

// Bytes returns the full content of the stream regardless of the read offset
func (this *BufferStream) Bytes() []byte {
	return this.buf
}
