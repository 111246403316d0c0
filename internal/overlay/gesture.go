package overlay

import "math"

// DismissThreshold is the minimum horizontal displacement, in pixels, for a
// touch release to count as a dismiss swipe.
const DismissThreshold = 150.0

// TouchRelease describes the total displacement of a touch from press to
// release.
type TouchRelease struct {
	DX float64 // horizontal displacement, signed
	DY float64 // vertical displacement, signed
}

// GestureAction is the interpretation of a touch release on the overlay.
type GestureAction int

const (
	// GestureActivate navigates to the overlay's originating context.
	GestureActivate GestureAction = iota
	// GestureDismiss removes the overlay immediately.
	GestureDismiss
)

// String returns the string representation of the gesture action.
func (a GestureAction) String() string {
	switch a {
	case GestureActivate:
		return "activate"
	case GestureDismiss:
		return "dismiss"
	default:
		return "unknown"
	}
}

// Classify interprets a touch release. A release is a dismiss only when the
// motion is dominantly horizontal and travels past the threshold; every
// other release is an activation tap.
func Classify(t TouchRelease) GestureAction {
	dx := math.Abs(t.DX)
	dy := math.Abs(t.DY)
	if dx > dy && dx > DismissThreshold {
		return GestureDismiss
	}
	return GestureActivate
}
