// SPDX-License-Identifier: EPL-2.0

package utils

// CubicInterpolate evaluates the Catmull-Rom spline through y0..y3 at x,
// the fractional position between y1 and y2 (0 <= x <= 1).
func CubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2

	// Horner form
	return ((a0*x+a1)*x+a2)*x + y1
}

// CubicInterpolateStereo interpolates both channels of four consecutive
// stereo frames.
func CubicInterpolateStereo(f *[4][2]float32, x float32) [2]float32 {
	return [2]float32{
		CubicInterpolate(f[0][0], f[1][0], f[2][0], f[3][0], x),
		CubicInterpolate(f[0][1], f[1][1], f[2][1], f[3][1], x),
	}
}

// LowPass is one step of a one-pole filter:
// y[n] = alpha*x[n] + (1-alpha)*y[n-1].
func LowPass(alpha, x, prev float32) float32 {
	return alpha*x + (1-alpha)*prev
}
