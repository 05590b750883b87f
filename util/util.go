package util

import (
	"github.com/fogleman/ease"
)

// GenerateLut builds a symmetric eased ramp of the given length,
// rising from 0 towards 1 over the first half and falling back over
// the second.
func GenerateLut(length int) []float64 {
	increment := 1.0 / float64(length/2)
	lut := make([]float64, length)
	for i, j := 0, length-1; i < length/2; i, j = i+1, j-1 {
		value := float64(i) * increment
		lut[i] = ease.InOutQuad(value)
		lut[j] = ease.InOutQuad(value)
	}
	return lut
}
