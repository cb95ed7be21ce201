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

package huffman

import (
	"errors"

	hufftree "github.com/hufftree/hufftree-go"
)

// ScanFrequencies reads 8 bit symbols from the bitstream until exhaustion and
// counts the occurrences of each byte value. The end-of-stream symbol is
// always given a count of one so it is present in every tree, even for an
// empty input. The bitstream is left at its end; the caller rewinds it for
// the encoding pass.
func ScanFrequencies(ibs hufftree.InputBitStream) ([AlphabetSize]int, error) {
	var freqs [AlphabetSize]int

	for {
		more, err := ibs.HasMoreToRead()

		if more == false {
			if err != nil && errors.Is(err, hufftree.ErrEndOfStream) == false {
				return freqs, err
			}

			break
		}

		freqs[int(ibs.ReadBits(8))]++
	}

	freqs[EndOfStream] = 1
	return freqs, nil
}
