// SPDX-License-Identifier: MIT

//go:build svgonum && !svblas

package svmat

import "github.com/nicshackle/libsurvive/backend/gonum"

// engine is the backend linked into this build.
type engine = gonum.Backend
