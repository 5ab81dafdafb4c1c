package hardware

import "math"

// PerceivedToDuty maps a perceived lamp brightness in [0, 1] to a PWM duty
// fraction in [0, 1]. LEDs look far brighter than their duty cycle at low
// levels, so the curve is exponential: (2^(10b) - 1) / 1023.
func PerceivedToDuty(brightness float64) float64 {
	if brightness <= 0 || math.IsNaN(brightness) {
		return 0
	}
	if brightness >= 1 {
		return 1
	}
	return (math.Exp2(10*brightness) - 1) / 1023
}
