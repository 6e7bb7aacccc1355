// SPDX-License-Identifier: MIT

// Package svmat: functional configuration for the kernels.
//   - Option / Options (functional options with internal state),
//   - documented defaults,
//   - WithX constructors that panic on nonsensical values,
//   - gatherOptions, which applies defaults before user options.

package svmat

import (
	"math"

	"github.com/nicshackle/libsurvive/svtype"
)

// DefaultEpsilon is the relative singular-value threshold used by the SVD
// paths of Invert and Solve: w_i <= eps*w_max counts as zero.
// It scales with the machine epsilon of the configured Float.
const DefaultEpsilon = 64 * svtype.Epsilon

const panicEpsilonInvalid = "svmat: WithEpsilon: eps must be finite, non-negative"

// Option mutates internal options.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	eps float64 // >= 0; DefaultEpsilon
}

// WithEpsilon sets the relative singular-value threshold for SVD inversion
// and least-squares solves.
// Panics if eps is NaN, ±Inf or negative.
func WithEpsilon(eps float64) Option {
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps < 0 {
		panic(panicEpsilonInvalid)
	}

	return func(o *Options) { o.eps = eps }
}

// gatherOptions resolves defaults and applies opts in order; last wins.
func gatherOptions(opts ...Option) Options {
	o := Options{eps: DefaultEpsilon}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
