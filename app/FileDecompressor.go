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
	"os"
	"strings"
	"time"

	hufftree "github.com/hufftree/hufftree-go"
	"github.com/hufftree/hufftree-go/bitstream"
	huffio "github.com/hufftree/hufftree-go/io"
)

// FileDecompressor restores the original file from a tree-framed Huffman artifact
type FileDecompressor struct {
	inputName  string
	outputName string
	overwrite  bool
	verbosity  uint
}

// Decompress returns the exit code and the size of the restored file in bytes
func (this *FileDecompressor) Decompress() (int, uint64) {
	if len(this.outputName) == 0 {
		if strings.HasSuffix(this.inputName, _COMP_SUFFIX) {
			this.outputName = strings.TrimSuffix(this.inputName, _COMP_SUFFIX)
		} else {
			this.outputName = this.inputName + ".orig"
		}
	}

	input, err := os.Open(this.inputName)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open input file '%s': %v\n", this.inputName, err)
		return hufftree.ERR_OPEN_FILE, 0
	}

	defer input.Close()

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

	d, err := huffio.NewDecompressor(ibs, obs)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot create decompressor: %v\n", err)
		output.Close()
		return hufftree.ERR_CREATE_DECOMPRESSOR, 0
	}

	if this.verbosity >= 2 {
		if listener, err2 := NewInfoPrinter(this.verbosity, DECODING, os.Stdout); err2 == nil {
			d.AddListener(listener)
		}
	}

	before := time.Now()

	if err := d.Decompress(); err != nil {
		fmt.Fprintf(os.Stderr, "Decompression failure: %v\n", err)

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

	if delta.Milliseconds() > 0 && written > 0 {
		log.Println(fmt.Sprintf("Throughput (KiB/s): %d", int64(written)*1000/delta.Milliseconds()>>10), this.verbosity >= 1)
	}

	return 0, written
}
