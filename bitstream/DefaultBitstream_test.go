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
	"math/rand"
	"testing"

	hufftree "github.com/hufftree/hufftree-go"
	"github.com/hufftree/hufftree-go/internal"
)

func TestBitStreamAligned(t *testing.T) {
	values := make([]uint64, 100)
	bs := internal.NewBufferStream()
	obs, err := NewDefaultOutputBitStream(bs, 16384)

	if err != nil {
		t.Fatalf("Cannot create output bit stream: %v", err)
	}

	r := rand.New(rand.NewSource(7))

	for i := range values {
		values[i] = uint64(r.Uint32())
		obs.WriteBits(values[i], 32)
	}

	// Close first to force flush()
	if err := obs.Close(); err != nil {
		t.Fatalf("Cannot close output bit stream: %v", err)
	}

	if obs.Written() != 3200 {
		t.Errorf("Bits written: got %v, expected 3200", obs.Written())
	}

	// Closing the output bitstream released bs; reread its content
	ibs, err := NewDefaultInputBitStream(internal.NewBufferStream(bs.Bytes()), 16384)

	if err != nil {
		t.Fatalf("Cannot create input bit stream: %v", err)
	}

	for i := range values {
		if x := ibs.ReadBits(32); x != values[i] {
			t.Fatalf("Value %v: got %v, expected %v", i, x, values[i])
		}
	}

	if ibs.Read() != 3200 {
		t.Errorf("Bits read: got %v, expected 3200", ibs.Read())
	}
}

func TestBitStreamMisaligned(t *testing.T) {
	values := make([]uint64, 100)
	widths := make([]uint, 100)
	bs := internal.NewBufferStream()
	obs, _ := NewDefaultOutputBitStream(bs, 16384)
	r := rand.New(rand.NewSource(11))

	obs.WriteBit(1)

	for i := range values {
		widths[i] = 1 + uint(i&63)
		values[i] = r.Uint64() & (0xFFFFFFFFFFFFFFFF >> (64 - widths[i]))
		obs.WriteBits(values[i], widths[i])
	}

	obs.Close()

	ibs, _ := NewDefaultInputBitStream(internal.NewBufferStream(bs.Bytes()), 16384)

	if ibs.ReadBit() != 1 {
		t.Fatalf("Invalid first bit")
	}

	for i := range values {
		if x := ibs.ReadBits(widths[i]); x != values[i] {
			t.Fatalf("Value %v (%v bits): got %v, expected %v", i, widths[i], x, values[i])
		}
	}
}

func TestBitStreamPadding(t *testing.T) {
	bs := internal.NewBufferStream()
	obs, _ := NewDefaultOutputBitStream(bs, 16384)
	obs.WriteBit(1)
	obs.WriteBit(0)
	obs.WriteBit(1)
	obs.Close()

	if obs.Written() != 3 {
		t.Errorf("Bits written: got %v, expected 3", obs.Written())
	}

	if bs.Len() != 1 {
		t.Fatalf("Stream length: got %v byte(s), expected 1", bs.Len())
	}

	// 101 then 5 zero padding bits
	if b := bs.Bytes()[0]; b != 0xA0 {
		t.Errorf("Padded byte: got %#x, expected 0xA0", b)
	}
}

func TestBitStreamReset(t *testing.T) {
	data := make([]byte, 32)

	for i := range data {
		data[i] = byte(i + 1)
	}

	ibs, _ := NewDefaultInputBitStream(internal.NewBufferStream(data), 16384)

	for i := 0; i < 5; i++ {
		if x := ibs.ReadBits(8); x != uint64(i+1) {
			t.Fatalf("First pass, byte %v: got %v", i, x)
		}
	}

	if err := ibs.Reset(); err != nil {
		t.Fatalf("Cannot reset input bit stream: %v", err)
	}

	if ibs.Read() != 0 {
		t.Errorf("Bits read after reset: got %v, expected 0", ibs.Read())
	}

	for i := range data {
		if x := ibs.ReadBits(8); x != uint64(data[i]) {
			t.Fatalf("Second pass, byte %v: got %v, expected %v", i, x, data[i])
		}
	}
}

func TestBitStreamEndOfStream(t *testing.T) {
	ibs, _ := NewDefaultInputBitStream(internal.NewBufferStream([]byte{0xFF}), 16384)
	ibs.ReadBits(8)

	defer func() {
		if r := recover(); r != hufftree.ErrEndOfStream {
			t.Errorf("Expected ErrEndOfStream panic, got %v", r)
		}
	}()

	ibs.ReadBit()
}

func TestBitStreamPostClose(t *testing.T) {
	bs := internal.NewBufferStream()
	obs, _ := NewDefaultOutputBitStream(bs, 16384)
	obs.WriteBits(0x0123456789ABCDEF, 64)
	obs.Close()

	func() {
		defer func() {
			if recover() == nil {
				t.Errorf("Write to closed stream must panic")
			}
		}()

		obs.WriteBit(1)
	}()

	ibs, _ := NewDefaultInputBitStream(internal.NewBufferStream(bs.Bytes()), 16384)
	ibs.ReadBits(64)
	ibs.Close()

	func() {
		defer func() {
			if recover() == nil {
				t.Errorf("Read from closed stream must panic")
			}
		}()

		ibs.ReadBit()
	}()
}
