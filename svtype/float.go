// SPDX-License-Identifier: MIT

package svtype

// FloatType is the single-channel header tag of Float matrices.
const FloatType = MagicVal | ContFlag | Type(FloatDepth)
