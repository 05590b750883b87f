package anim

import (
	"github.com/fogleman/ease"
)

// An EaseFunc maps normalised progress to eased progress. Values may
// leave [0,1] between the endpoints for overshoot curves.
type EaseFunc func(float64) float64

var easers = map[string]EaseFunc{
	"linear":    ease.Linear,
	"out_cubic": ease.OutCubic,
	"out_back":  ease.OutBack,
}

// Easer resolves an easing identifier to its curve. Unknown or empty
// identifiers resolve to linear.
func Easer(name string) EaseFunc {
	if f, ok := easers[name]; ok {
		return f
	}
	return ease.Linear
}
