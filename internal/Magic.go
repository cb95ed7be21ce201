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
	"encoding/binary"
)

const (
	// HUF_MAGIC identifies the tree-framed Huffman format. It is the first
	// 32 bits of every compressed artifact.
	HUF_MAGIC = 0xFACE8201

	NO_MAGIC     = 0
	JPG_MAGIC    = 0xFFD8FFE0
	GIF_MAGIC    = 0x47494638
	ZIP_MAGIC    = 0x504B0304 // Works for jar & office docs
	LZMA_MAGIC   = 0x377ABCAF // Works for 7z
	PNG_MAGIC    = 0x89504E47
	ZSTD_MAGIC   = 0x28B52FFD
	BROTLI_MAGIC = 0x81CFB2CE
	XZ_MAGIC     = 0xFD377A58
	RAR_MAGIC    = 0x52617221

	BZIP2_MAGIC = 0x425A68

	GZIP_MAGIC = 0x1F8B
)

var _KEYS32 = [9]uint{
	GIF_MAGIC, ZIP_MAGIC, LZMA_MAGIC, PNG_MAGIC, ZSTD_MAGIC,
	BROTLI_MAGIC, XZ_MAGIC, RAR_MAGIC, HUF_MAGIC,
}

// GetMagicType checks the first bytes of the slice against a list of common magic values
func GetMagicType(src []byte) uint {
	if len(src) < 4 {
		return NO_MAGIC
	}

	key := uint(binary.BigEndian.Uint32(src))

	if (key & ^uint(0x0F)) == JPG_MAGIC {
		return key
	}

	if (key >> 8) == BZIP2_MAGIC {
		return key >> 8
	}

	for _, k := range _KEYS32 {
		if key == k {
			return key
		}
	}

	if (key >> 16) == GZIP_MAGIC {
		return key >> 16
	}

	return NO_MAGIC
}

// IsDataCompressed returns true if the provided magic parameter corresponds
// to a known compressed data type.
func IsDataCompressed(magic uint) bool {
	switch magic {
	case JPG_MAGIC:
		return true
	case GIF_MAGIC:
		return true
	case PNG_MAGIC:
		return true
	case LZMA_MAGIC:
		return true
	case ZSTD_MAGIC:
		return true
	case BROTLI_MAGIC:
		return true
	case ZIP_MAGIC:
		return true
	case GZIP_MAGIC:
		return true
	case BZIP2_MAGIC:
		return true
	case XZ_MAGIC:
		return true
	case RAR_MAGIC:
		return true
	case HUF_MAGIC:
		return true
	default:
	}

	return false
}
