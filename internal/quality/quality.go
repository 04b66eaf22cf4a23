// Package quality maps the user-facing percent quality score onto the
// transcoder's own quality scale, where a lower value means higher fidelity.
package quality

// Bounds of the accepted percent score. Enforced at the input boundary, not
// by Map.
const (
	MinPercent = 30
	MaxPercent = 100
)

// Map converts a percent score to the transcoder quality value. Deterministic
// step function; 0 is best.
func Map(percent int) int {
	switch {
	case percent >= 90:
		return 0
	case percent >= 75:
		return 2
	case percent >= 60:
		return 3
	case percent >= 50:
		return 4
	case percent >= 40:
		return 5
	default:
		return 6
	}
}

// ValidPercent reports whether the score is inside the accepted range.
func ValidPercent(percent int) bool {
	return percent >= MinPercent && percent <= MaxPercent
}
