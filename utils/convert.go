// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Full-scale magnitudes used when normalizing integer PCM to [-1, 1].
const (
	Scale8  = 128.0
	Scale16 = 32768.0
	Scale24 = 8388608.0
	Scale32 = 2147483648.0

	MaxInt24 = 1<<23 - 1
	MinInt24 = -1 << 23
)

// Clamp limits x to [-1, 1]. NaN becomes 0.
func Clamp(x float64) float64 {
	switch {
	case x != x:
		return 0
	case x > 1:
		return 1
	case x < -1:
		return -1
	}
	return x
}

func quantize(x, scale, lo, hi float64) float64 {
	v := math.Round(Clamp(x) * scale)
	if v > hi {
		return hi
	}
	if v < lo {
		return lo
	}
	return v
}

// Float64ToUint8 converts a normalized sample to offset-binary 8-bit PCM.
func Float64ToUint8(x float64) uint8 {
	return uint8(quantize(x, Scale8, -128, 127) + 128)
}

// Float64ToInt8 converts a normalized sample to signed 8-bit PCM.
func Float64ToInt8(x float64) int8 {
	return int8(quantize(x, Scale8, math.MinInt8, math.MaxInt8))
}

// Float64ToInt16 converts a normalized sample to 16-bit PCM.
func Float64ToInt16(x float64) int16 {
	return int16(quantize(x, Scale16, math.MinInt16, math.MaxInt16))
}

// Float64ToInt24 converts a normalized sample to 24-bit PCM held in an int32.
func Float64ToInt24(x float64) int32 {
	return int32(quantize(x, Scale24, MinInt24, MaxInt24))
}

// Float64ToInt32 converts a normalized sample to 32-bit PCM.
func Float64ToInt32(x float64) int32 {
	return int32(quantize(x, Scale32, math.MinInt32, math.MaxInt32))
}

// Uint8ToFloat64 is the inverse of Float64ToUint8.
func Uint8ToFloat64(v uint8) float64 { return (float64(v) - 128) / Scale8 }

// Int8ToFloat64 is the inverse of Float64ToInt8.
func Int8ToFloat64(v int8) float64 { return float64(v) / Scale8 }

// Int16ToFloat64 is the inverse of Float64ToInt16.
func Int16ToFloat64(v int16) float64 { return float64(v) / Scale16 }

// Int24ToFloat64 is the inverse of Float64ToInt24.
func Int24ToFloat64(v int32) float64 { return float64(v) / Scale24 }

// Int32ToFloat64 is the inverse of Float64ToInt32.
func Int32ToFloat64(v int32) float64 { return float64(v) / Scale32 }

// SignExtend24 reads a little-endian 24-bit sample.
func SignExtend24(b0, b1, b2 byte) int32 {
	v := int32(b0) | int32(b1)<<8 | int32(b2)<<16
	if v&0x800000 != 0 {
		v |= ^0xFFFFFF
	}
	return v
}
