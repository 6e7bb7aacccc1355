// SPDX-License-Identifier: MIT

//go:build !svblas && !svgonum

package svmat

import "github.com/nicshackle/libsurvive/backend/dense"

// engine is the backend linked into this build.
type engine = dense.Backend
