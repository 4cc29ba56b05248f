package tween

import (
	"strings"

	"github.com/tanema/gween/ease"
)

// Easing names as they appear in persisted star data.
const (
	EaseLinear    = "linear"
	EaseSineIn    = "sine.in"
	EaseSineOut   = "sine.out"
	EaseSineInOut = "sine.inOut"
)

var easings = map[string]ease.TweenFunc{
	strings.ToLower(EaseLinear):    ease.Linear,
	strings.ToLower(EaseSineIn):    ease.InSine,
	strings.ToLower(EaseSineOut):   ease.OutSine,
	strings.ToLower(EaseSineInOut): ease.InOutSine,
}

// ByName resolves an easing curve, falling back to linear for unknown names.
func ByName(name string) ease.TweenFunc {
	if fn, ok := easings[strings.ToLower(name)]; ok {
		return fn
	}
	return ease.Linear
}

// Known reports whether name resolves to a registered easing.
func Known(name string) bool {
	_, ok := easings[strings.ToLower(name)]
	return ok
}

// Apply evaluates an easing curve at progress t in [0,1].
func Apply(fn ease.TweenFunc, t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return float64(fn(float32(t), 0, 1, 1))
}
