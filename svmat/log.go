// SPDX-License-Identifier: MIT

package svmat

import (
	"github.com/rs/zerolog"

	"github.com/nicshackle/libsurvive/svtype"
)

// logger receives the package's diagnostics. Silent until SetLogger.
var logger = zerolog.Nop()

// SetLogger routes svmat diagnostics to l: singular inputs met by Invert and
// Solve at debug level, refcount underflow attempts at warn level.
// It is meant to be called once during program start-up.
func SetLogger(l zerolog.Logger) {
	logger = l.With().Str("component", "svmat").Logger()
	logger.Debug().
		Str("backend", BackendName()).
		Str("precision", svtype.Precision).
		Msg("numeric backend selected")
}
