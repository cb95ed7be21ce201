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

package bitstream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	hufftree "github.com/hufftree/hufftree-go"
)

// DefaultInputBitStream is the default implementation of InputBitStream
type DefaultInputBitStream struct {
	closed      bool
	read        int64
	position    int  // index of current byte in buffer
	availBits   uint // bits not consumed in current
	is          io.ReadCloser
	buffer      []byte
	maxPosition int
	current     uint64 // cached bits
}

// NewDefaultInputBitStream creates a bitstream for reading, using the provided stream as
// the underlying I/O object.
func NewDefaultInputBitStream(stream io.ReadCloser, bufferSize uint) (*DefaultInputBitStream, error) {
	if stream == nil {
		return nil, errors.New("Invalid null input stream parameter")
	}

	if bufferSize < 1024 {
		return nil, errors.New("Invalid buffer size parameter (must be at least 1024 bytes)")
	}

	if bufferSize > 1<<29 {
		return nil, errors.New("Invalid buffer size parameter (must be at most 536870912 bytes)")
	}

	if bufferSize&7 != 0 {
		return nil, errors.New("Invalid buffer size (must be a multiple of 8)")
	}

	this := new(DefaultInputBitStream)
	this.buffer = make([]byte, bufferSize)
	this.is = stream
	this.availBits = 0
	this.maxPosition = -1
	return this, nil
}

// ReadBit returns the next bit
func (this *DefaultInputBitStream) ReadBit() int {
	if this.availBits == 0 {
		this.pullCurrent() // Panic if stream is closed or exhausted
	}

	this.availBits--
	return int(this.current>>this.availBits) & 1
}

// ReadBits reads 'count' bits from the stream and returns them as an uint64.
// It panics if the count is outside of the [1..64] range or the stream is
// closed or exhausted.
func (this *DefaultInputBitStream) ReadBits(count uint) uint64 {
	if count == 0 || count > 64 {
		panic(fmt.Errorf("Invalid bit count: %d (must be in [1..64])", count))
	}

	if count <= this.availBits {
		// Enough spots available in 'current'
		this.availBits -= count
		return (this.current >> this.availBits) & (0xFFFFFFFFFFFFFFFF >> (64 - count))
	}

	// Not enough spots available in 'current'
	count -= this.availBits
	res := uint64(0)

	if this.availBits > 0 {
		res = this.current & (0xFFFFFFFFFFFFFFFF >> (64 - this.availBits))
	}

	this.pullCurrent()

	if count > this.availBits {
		panic(hufftree.ErrEndOfStream)
	}

	this.availBits -= count
	return (res << count) | (this.current >> this.availBits)
}

func (this *DefaultInputBitStream) readFromInputStream(count int) (int, error) {
	if this.Closed() {
		return 0, errors.New("Stream closed")
	}

	if count == 0 {
		return 0, nil
	}

	this.read += int64((this.maxPosition + 1) << 3)
	size, err := this.is.Read(this.buffer[0:count])

	if size <= 0 && err == io.EOF {
		err = nil
	}

	this.position = 0

	if size <= 0 {
		this.maxPosition = -1

		if err == nil {
			err = hufftree.ErrEndOfStream
		}

		return 0, err
	}

	this.maxPosition = size - 1
	return size, nil
}

// HasMoreToRead returns false if the stream is closed or there is no
// more bit to read.
func (this *DefaultInputBitStream) HasMoreToRead() (bool, error) {
	if this.Closed() {
		return false, errors.New("Stream closed")
	}

	if this.position <= this.maxPosition || this.availBits != 0 {
		return true, nil
	}

	_, err := this.readFromInputStream(len(this.buffer))
	return err == nil, err
}

// Reset rewinds the bitstream to the start of the underlying stream and
// discards the buffered data. The underlying stream must implement io.Seeker.
func (this *DefaultInputBitStream) Reset() error {
	if this.Closed() {
		return errors.New("Stream closed")
	}

	s, ok := this.is.(io.Seeker)

	if ok == false {
		return errors.New("The underlying input stream is not seekable")
	}

	if _, err := s.Seek(0, io.SeekStart); err != nil {
		return err
	}

	this.read = 0
	this.position = 0
	this.availBits = 0
	this.current = 0
	this.maxPosition = -1
	return nil
}

// Pull 64 bits of current value from buffer.
func (this *DefaultInputBitStream) pullCurrent() {
	if this.position > this.maxPosition {
		if _, err := this.readFromInputStream(len(this.buffer)); err != nil {
			panic(err)
		}
	}

	if this.position+7 > this.maxPosition {
		// End of stream: overshoot max position => adjust bit index
		shift := uint(this.maxPosition-this.position) << 3
		this.availBits = shift + 8
		val := uint64(0)

		for this.position <= this.maxPosition {
			val |= (uint64(this.buffer[this.position]) << shift)
			this.position++
			shift -= 8
		}

		this.current = val
	} else {
		// Regular processing, buffer length is multiple of 8
		this.current = binary.BigEndian.Uint64(this.buffer[this.position : this.position+8])
		this.availBits = 64
		this.position += 8
	}
}

// Close prevents further reads (beyond the available bits) and releases
// the underlying stream.
func (this *DefaultInputBitStream) Close() error {
	if this.Closed() {
		return nil
	}

	this.read += int64(this.position)<<3 - int64(this.availBits)
	this.closed = true
	this.availBits = 0
	this.maxPosition = -1
	return this.is.Close()
}

// Read returns the number of bits read so far
func (this *DefaultInputBitStream) Read() uint64 {
	if this.closed {
		return uint64(this.read)
	}

	return uint64(this.read + int64(this.position)<<3 - int64(this.availBits))
}

// Closed says whether this stream can be read from
func (this *DefaultInputBitStream) Closed() bool {
	return this.closed
}
