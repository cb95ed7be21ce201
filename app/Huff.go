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
	"bufio"
	"fmt"
	"os"
	"sync"

	"github.com/urfave/cli/v2"

	hufftree "github.com/hufftree/hufftree-go"
)

const (
	_HUFF_VERSION = "1.0"
	_APP_HEADER   = "Huff " + _HUFF_VERSION + " - tree-framed Huffman compressor"
)

var (
	mutex sync.Mutex
	log   = Printer{os: bufio.NewWriter(os.Stdout)}
)

func main() {
	app := &cli.App{
		Name:    "huff",
		Usage:   "losslessly compress and decompress files with a static Huffman code",
		Version: _HUFF_VERSION,
		Commands: []*cli.Command{
			{
				Name:    "compress",
				Aliases: []string{"c"},
				Usage:   "compress a file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "input file path", Required: true},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file path (default: input + .huf)"},
					&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "overwrite the output file if it exists"},
					&cli.BoolFlag{Name: "verify", Usage: "decompress the result in memory and compare digests"},
					&cli.UintFlag{Name: "verbose", Aliases: []string{"v"}, Value: 1, Usage: "verbosity level (0..3)"},
				},
				Action: func(c *cli.Context) error {
					fc := &FileCompressor{
						inputName:  c.String("input"),
						outputName: c.String("output"),
						overwrite:  c.Bool("force"),
						verify:     c.Bool("verify"),
						verbosity:  c.Uint("verbose"),
					}

					log.Println(_APP_HEADER+"\n", fc.verbosity >= 1)

					if code, _ := fc.Compress(); code != 0 {
						return cli.Exit("", code)
					}

					return nil
				},
			},
			{
				Name:    "decompress",
				Aliases: []string{"d"},
				Usage:   "decompress a file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "input file path", Required: true},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file path (default: input without .huf)"},
					&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "overwrite the output file if it exists"},
					&cli.UintFlag{Name: "verbose", Aliases: []string{"v"}, Value: 1, Usage: "verbosity level (0..3)"},
				},
				Action: func(c *cli.Context) error {
					fd := &FileDecompressor{
						inputName:  c.String("input"),
						outputName: c.String("output"),
						overwrite:  c.Bool("force"),
						verbosity:  c.Uint("verbose"),
					}

					log.Println(_APP_HEADER+"\n", fd.verbosity >= 1)

					if code, _ := fd.Decompress(); code != 0 {
						return cli.Exit("", code)
					}

					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		if exitErr, isExit := err.(cli.ExitCoder); isExit {
			os.Exit(exitErr.ExitCode())
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(hufftree.ERR_MISSING_PARAM)
	}
}

// Printer a buffered printer (required in concurrent code)
type Printer struct {
	os *bufio.Writer
}

// Println concurrently safe version (order wise) of Println
func (this *Printer) Println(msg string, printFlag bool) {
	if printFlag == true {
		mutex.Lock()

		// Best effort, ignore error
		if w, _ := this.os.Write([]byte(msg + "\n")); w > 0 {
			_ = this.os.Flush()
		}

		mutex.Unlock()
	}
}
