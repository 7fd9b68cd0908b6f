// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 converts a normalized float32 sample to 16-bit PCM with
// the same rounding and saturation as Float64ToInt16.
func Float32ToInt16(x float32) int16 {
	return Float64ToInt16(float64(x))
}
