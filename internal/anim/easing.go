package anim

// Lerp performs linear interpolation between a and b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// EaseInOutCubic applies a smooth in-out curve to t in [0, 1]
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - pow(-2*t+2, 3)/2
}

// EaseOutCubic decelerates towards t = 1
func EaseOutCubic(t float64) float64 {
	return 1 - pow(1-t, 3)
}

// pow calculates x^n for small non-negative n
func pow(x float64, n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= x
	}
	return result
}
