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

package io

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hufftree "github.com/hufftree/hufftree-go"
	"github.com/hufftree/hufftree-go/bitstream"
	internal "github.com/hufftree/hufftree-go/internal"
)

func roundTrip(t *testing.T, src []byte) {
	t.Helper()
	compressed, err := CompressBytes(src)
	require.NoError(t, err)

	restored, err := DecompressBytes(compressed)
	require.NoError(t, err)
	assert.Equal(t, src, restored)
}

func TestRoundTripSimple(t *testing.T) {
	roundTrip(t, []byte("AAAAAAAAB"))
}

func TestRoundTripEmpty(t *testing.T) {
	compressed, err := CompressBytes([]byte{})
	require.NoError(t, err)

	restored, err := DecompressBytes(compressed)
	require.NoError(t, err)
	assert.Len(t, restored, 0)
}

func TestRoundTripSingleSymbol(t *testing.T) {
	src := make([]byte, 1000)

	for i := range src {
		src[i] = 'Z'
	}

	roundTrip(t, src)
}

func TestRoundTripAllByteValues(t *testing.T) {
	src := make([]byte, 256)

	for i := range src {
		src[i] = byte(i)
	}

	roundTrip(t, src)
}

func TestRoundTripRandom(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for _, size := range []int{1, 13, 100, 5000, 100000} {
		src := make([]byte, size)

		for i := range src {
			src[i] = byte(r.Intn(256))
		}

		roundTrip(t, src)
	}
}

func TestCompressionShrinksSkewedInput(t *testing.T) {
	src := make([]byte, 10000)

	for i := range src {
		if i%10 == 0 {
			src[i] = 'b'
		} else {
			src[i] = 'a'
		}
	}

	compressed, err := CompressBytes(src)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(src))
}

func TestMagicWritten(t *testing.T) {
	compressed, err := CompressBytes([]byte("hello"))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(compressed), 4)

	magic := internal.GetMagicType(compressed)
	assert.Equal(t, uint(internal.HUF_MAGIC), magic)
}

func TestBadMagic(t *testing.T) {
	_, err := DecompressBytes(make([]byte, 64))
	require.Error(t, err)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, hufftree.ERR_BAD_MAGIC, ioErr.ErrorCode())
	assert.Contains(t, ioErr.Message(), "Invalid stream type")
}

func TestTruncatedPayload(t *testing.T) {
	compressed, err := CompressBytes([]byte("AAAAAAAAB"))
	require.NoError(t, err)
	require.Greater(t, len(compressed), 2)

	for cut := 1; cut <= 2; cut++ {
		_, err := DecompressBytes(compressed[:len(compressed)-cut])
		require.Error(t, err)

		var ioErr *IOError
		require.True(t, errors.As(err, &ioErr))
		assert.Equal(t, hufftree.ERR_TRUNCATED, ioErr.ErrorCode())
	}
}

func TestTruncatedHeader(t *testing.T) {
	compressed, err := CompressBytes([]byte("AAAAAAAAB"))
	require.NoError(t, err)

	// Keep the magic and the first byte of the tree header only
	_, err = DecompressBytes(compressed[:5])
	require.Error(t, err)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, hufftree.ERR_TRUNCATED, ioErr.ErrorCode())
}

func TestInvalidHeader(t *testing.T) {
	bs := internal.NewBufferStream()
	obs, err := bitstream.NewDefaultOutputBitStream(bs, _STREAM_DEFAULT_BUFFER_SIZE)
	require.NoError(t, err)
	obs.WriteBits(_BITSTREAM_TYPE, 32)
	obs.WriteBit(1)
	obs.WriteBits(300, 9)
	require.NoError(t, obs.Close())

	_, err = DecompressBytes(bs.Bytes())
	require.Error(t, err)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, hufftree.ERR_INVALID_HEADER, ioErr.ErrorCode())
}

func TestNewCompressorNilStreams(t *testing.T) {
	bs := internal.NewBufferStream()
	obs, err := bitstream.NewDefaultOutputBitStream(bs, _STREAM_DEFAULT_BUFFER_SIZE)
	require.NoError(t, err)
	ibs, err := bitstream.NewDefaultInputBitStream(internal.NewBufferStream(), _STREAM_DEFAULT_BUFFER_SIZE)
	require.NoError(t, err)

	_, err = NewCompressor(nil, obs)
	assert.Error(t, err)
	_, err = NewCompressor(ibs, nil)
	assert.Error(t, err)
	_, err = NewDecompressor(nil, obs)
	assert.Error(t, err)
	_, err = NewDecompressor(ibs, nil)
	assert.Error(t, err)
}

func TestOutputClosedOnFailure(t *testing.T) {
	ibs, err := bitstream.NewDefaultInputBitStream(internal.NewBufferStream(make([]byte, 64)), _STREAM_DEFAULT_BUFFER_SIZE)
	require.NoError(t, err)
	obs, err := bitstream.NewDefaultOutputBitStream(internal.NewBufferStream(), _STREAM_DEFAULT_BUFFER_SIZE)
	require.NoError(t, err)

	d, err := NewDecompressor(ibs, obs)
	require.NoError(t, err)
	require.Error(t, d.Decompress())
	assert.True(t, obs.Closed())
}

type eventRecorder struct {
	types []int
}

func (this *eventRecorder) ProcessEvent(evt *hufftree.Event) {
	this.types = append(this.types, evt.Type())
}

func TestCompressorNotifiesListeners(t *testing.T) {
	ibs, err := bitstream.NewDefaultInputBitStream(internal.NewBufferStream([]byte("listen to me")), _STREAM_DEFAULT_BUFFER_SIZE)
	require.NoError(t, err)
	obs, err := bitstream.NewDefaultOutputBitStream(internal.NewBufferStream(), _STREAM_DEFAULT_BUFFER_SIZE)
	require.NoError(t, err)

	c, err := NewCompressor(ibs, obs)
	require.NoError(t, err)

	rec := &eventRecorder{}
	assert.True(t, c.AddListener(rec))
	assert.False(t, c.AddListener(nil))

	require.NoError(t, c.Compress())
	assert.Equal(t, []int{
		hufftree.EVT_COMPRESSION_START,
		hufftree.EVT_AFTER_FREQUENCIES,
		hufftree.EVT_AFTER_HEADER,
		hufftree.EVT_COMPRESSION_END,
	}, rec.types)
}

func TestDecompressorNotifiesListeners(t *testing.T) {
	compressed, err := CompressBytes([]byte("listen to me"))
	require.NoError(t, err)

	ibs, err := bitstream.NewDefaultInputBitStream(internal.NewBufferStream(compressed), _STREAM_DEFAULT_BUFFER_SIZE)
	require.NoError(t, err)
	obs, err := bitstream.NewDefaultOutputBitStream(internal.NewBufferStream(), _STREAM_DEFAULT_BUFFER_SIZE)
	require.NoError(t, err)

	d, err := NewDecompressor(ibs, obs)
	require.NoError(t, err)

	rec := &eventRecorder{}
	require.True(t, d.AddListener(rec))
	require.NoError(t, d.Decompress())
	assert.Equal(t, []int{
		hufftree.EVT_DECOMPRESSION_START,
		hufftree.EVT_AFTER_HEADER,
		hufftree.EVT_DECOMPRESSION_END,
	}, rec.types)
}

type panickyListener struct{}

func (panickyListener) ProcessEvent(evt *hufftree.Event) {
	panic("listener gone rogue")
}

func TestListenerPanicIgnored(t *testing.T) {
	ibs, err := bitstream.NewDefaultInputBitStream(internal.NewBufferStream([]byte("abc")), _STREAM_DEFAULT_BUFFER_SIZE)
	require.NoError(t, err)
	obs, err := bitstream.NewDefaultOutputBitStream(internal.NewBufferStream(), _STREAM_DEFAULT_BUFFER_SIZE)
	require.NoError(t, err)

	c, err := NewCompressor(ibs, obs)
	require.NoError(t, err)
	c.AddListener(panickyListener{})
	assert.NoError(t, c.Compress())
}
