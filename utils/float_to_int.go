// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 converts a normalized sample in [-1, 1] to 16-bit PCM.
// Values outside the range are clamped.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// 32767 for both signs keeps the conversion symmetric
	return int16(x * 32767.0)
}

// Int16ToFloat32 is the inverse of Float32ToInt16.
func Int16ToFloat32(x int16) float32 {
	return float32(x) / 32767.0
}
