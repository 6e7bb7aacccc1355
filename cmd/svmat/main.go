// SPDX-License-Identifier: MIT

// Command svmat runs the matrix kernels from the command line, mostly to
// check a build's backend against known inputs.
//
// Usage:
//
//	svmat info
//	svmat solve  --a "2,0;0,4" --b "2;2" [--method lu|svd|auto]
//	svmat invert --a "4,7;2,6" [--method lu|svd|auto] [--eps 1e-12]
//	svmat svd    --a "1,2;3,4;5,6" [--plot spectrum.png]
//
// Matrix literals list rows separated by ';' and columns by ','.
package main

import (
	"os"

	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()

	if err := newRootCmd(log).Execute(); err != nil {
		log.Error().Err(err).Msg("svmat failed")
		os.Exit(1)
	}
}
