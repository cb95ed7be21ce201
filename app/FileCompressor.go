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

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/go-multierror"

	hufftree "github.com/hufftree/hufftree-go"
	"github.com/hufftree/hufftree-go/bitstream"
	"github.com/hufftree/hufftree-go/internal"
	huffio "github.com/hufftree/hufftree-go/io"
)

const _COMP_SUFFIX = ".huf"

// FileCompressor compresses one file into a tree-framed Huffman artifact
type FileCompressor struct {
	inputName  string
	outputName string
	overwrite  bool
	verify     bool
	verbosity  uint
}

// Compress returns the exit code and the size of the artifact in bytes
func (this *FileCompressor) Compress() (int, uint64) {
	if len(this.outputName) == 0 {
		this.outputName = this.inputName + _COMP_SUFFIX
	}

	input, err := os.Open(this.inputName)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open input file '%s': %v\n", this.inputName, err)
		return hufftree.ERR_OPEN_FILE, 0
	}

	defer input.Close()

	// Sniff the input: compressing already compressed data usually expands it
	var sniff [4]byte

	if n, _ := io.ReadFull(input, sniff[:]); n == 4 {
		if magic := internal.GetMagicType(sniff[:]); internal.IsDataCompressed(magic) {
			log.Println(fmt.Sprintf("Warning: input looks like compressed data (magic 0x%X)", magic), this.verbosity >= 1)
		}
	}

	if _, err := input.Seek(0, io.SeekStart); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot read input file '%s': %v\n", this.inputName, err)
		return hufftree.ERR_READ_FILE, 0
	}

	if info, err := os.Stat(this.outputName); err == nil {
		if info.IsDir() {
			fmt.Fprintln(os.Stderr, "The output file cannot be a directory")
			return hufftree.ERR_OUTPUT_IS_DIR, 0
		}

		if this.overwrite == false {
			fmt.Fprintf(os.Stderr, "File '%s' exists and the 'force' command line option has not been provided\n", this.outputName)
			return hufftree.ERR_OVERWRITE_FILE, 0
		}
	}

	output, err := os.Create(this.outputName)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot create output file '%s': %v\n", this.outputName, err)
		return hufftree.ERR_CREATE_FILE, 0
	}

	ibs, err := bitstream.NewDefaultInputBitStream(input, 65536)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot create input bit stream: %v\n", err)
		output.Close()
		return hufftree.ERR_CREATE_BITSTREAM, 0
	}

	obs, err := bitstream.NewDefaultOutputBitStream(output, 65536)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot create output bit stream: %v\n", err)
		output.Close()
		return hufftree.ERR_CREATE_BITSTREAM, 0
	}

	c, err := huffio.NewCompressor(ibs, obs)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot create compressor: %v\n", err)
		output.Close()
		return hufftree.ERR_CREATE_COMPRESSOR, 0
	}

	if this.verbosity >= 2 {
		if listener, err2 := NewInfoPrinter(this.verbosity, ENCODING, os.Stdout); err2 == nil {
			c.AddListener(listener)
		}
	}

	before := time.Now()

	if err := c.Compress(); err != nil {
		fmt.Fprintf(os.Stderr, "Compression failure: %v\n", err)

		var ioErr *huffio.IOError

		if errors.As(err, &ioErr) {
			return ioErr.ErrorCode(), 0
		}

		return hufftree.ERR_UNKNOWN, 0
	}

	delta := time.Since(before)
	read := ibs.Read() >> 3
	written := obs.Written() >> 3

	if err := ibs.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot close input bit stream: %v\n", err)
		return hufftree.ERR_READ_FILE, 0
	}

	log.Println(fmt.Sprintf("Input size:       %d byte(s)", read), this.verbosity >= 1)
	log.Println(fmt.Sprintf("Output size:      %d byte(s)", written), this.verbosity >= 1)

	if read > 0 {
		log.Println(fmt.Sprintf("Compression ratio: %.6f", float64(written)/float64(read)), this.verbosity >= 1)
	}

	if delta.Milliseconds() > 0 && read > 0 {
		log.Println(fmt.Sprintf("Throughput (KiB/s): %d", int64(read)*1000/delta.Milliseconds()>>10), this.verbosity >= 1)
	}

	if this.verify {
		if err := this.verifyRoundTrip(); err != nil {
			fmt.Fprintf(os.Stderr, "Verification failure: %v\n", err)
			return hufftree.ERR_VERIFY, written
		}

		log.Println("Verification OK", this.verbosity >= 1)
	}

	return 0, written
}

// verifyRoundTrip decompresses the artifact in memory and compares the
// xxhash64 digest of the result with the digest of the original file.
func (this *FileCompressor) verifyRoundTrip() error {
	var merr *multierror.Error

	original, err := os.ReadFile(this.inputName)

	if err != nil {
		merr = multierror.Append(merr, err)
	}

	artifact, err := os.ReadFile(this.outputName)

	if err != nil {
		merr = multierror.Append(merr, err)
	}

	if merr.ErrorOrNil() != nil {
		return merr
	}

	decoded, err := huffio.DecompressBytes(artifact)

	if err != nil {
		return err
	}

	h1 := xxhash.Sum64(original)
	h2 := xxhash.Sum64(decoded)

	if h1 != h2 {
		return fmt.Errorf("digest mismatch: original %016x, round trip %016x", h1, h2)
	}

	return nil
}
