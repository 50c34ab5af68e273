package utils

import "math"

// Clamp 将 v 限制在 [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DegToRad 角度转弧度
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}


// Lerp 线性插值，t 不做夹紧
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
