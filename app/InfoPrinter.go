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
	"time"

	hufftree "github.com/hufftree/hufftree-go"
)

// An implementation of Listener to display progress information (verbose
// option of the FileCompressor/FileDecompressor)

const (
	// ENCODING event type
	ENCODING = 0
	// DECODING event type
	DECODING = 1
)

// InfoPrinter contains all the data required to print one event
type InfoPrinter struct {
	writer   io.Writer
	infoType uint
	level    uint
	started  time.Time
}

// NewInfoPrinter creates a new instance of InfoPrinter
func NewInfoPrinter(infoLevel, infoType uint, writer io.Writer) (*InfoPrinter, error) {
	if writer == nil {
		return nil, errors.New("Invalid null writer parameter")
	}

	this := &InfoPrinter{}
	this.level = infoLevel
	this.infoType = infoType & 1
	this.writer = writer
	return this, nil
}

// ProcessEvent receives an event and writes a description to the internal writer
func (this *InfoPrinter) ProcessEvent(evt *hufftree.Event) {
	switch evt.Type() {
	case hufftree.EVT_COMPRESSION_START, hufftree.EVT_DECOMPRESSION_START:
		this.started = evt.Time()

		if this.level >= 3 {
			fmt.Fprintf(this.writer, "%v\n", evt)
		}

	case hufftree.EVT_AFTER_FREQUENCIES:
		if this.level >= 3 {
			fmt.Fprintf(this.writer, "Frequency scan: %d byte(s) [%v ms]\n", evt.Size(),
				evt.Time().Sub(this.started).Milliseconds())
		}

	case hufftree.EVT_AFTER_HEADER:
		if this.level >= 2 {
			fmt.Fprintf(this.writer, "Tree header: %d bit(s)\n", evt.Size())
		}

	case hufftree.EVT_COMPRESSION_END, hufftree.EVT_DECOMPRESSION_END:
		if this.level >= 2 {
			verb := "Encoded"

			if this.infoType == DECODING {
				verb = "Decoded"
			}

			fmt.Fprintf(this.writer, "%s %d bit(s) [%v ms]\n", verb, evt.Size(),
				evt.Time().Sub(this.started).Milliseconds())
		}

	default:
		if this.level >= 3 {
			fmt.Fprintf(this.writer, "%v\n", evt)
		}
	}
}
