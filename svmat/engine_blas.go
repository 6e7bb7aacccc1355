// SPDX-License-Identifier: MIT

//go:build svblas

package svmat

import "github.com/nicshackle/libsurvive/backend/blas"

// engine is the backend linked into this build.
type engine = blas.Backend
