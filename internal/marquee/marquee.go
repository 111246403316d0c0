// Package marquee computes scroll timing for overflowing overlay text.
package marquee

import "time"

// SeparatorWidth is the width of the whitespace gap inserted between the end
// of the text and its repetition, so the looped text does not collide with
// itself. Expressed in the same unit as the text and viewport widths.
const SeparatorWidth = 48.0

// StartDelay is how long the text sits still before scrolling begins.
const StartDelay = time.Second

// Scroll describes whether and how overlay text should scroll.
type Scroll struct {
	// Needed is true when the text is wider than the viewport.
	Needed bool
	// Duration is the time for one full scroll cycle. Zero when not needed.
	Duration time.Duration
	// Distance is the total scroll offset for one cycle: the text width plus
	// the separator gap. Zero when not needed.
	Distance float64
}

// Compute maps (text width, viewport width, configured speed) to a scroll
// plan. Scrolling runs at speed*20 pixels per second, floored at 1 so a zero
// or negative speed setting cannot stall the animation. The cycle loops
// indefinitely with linear easing, restarting from offset 0.
//
// Must be re-evaluated on every content or font-scale change.
func Compute(textWidth, viewportWidth float64, speed int) Scroll {
	if textWidth <= viewportWidth {
		return Scroll{}
	}

	pixelsPerSecond := float64(speed * 20)
	if pixelsPerSecond < 1 {
		pixelsPerSecond = 1
	}

	distance := textWidth + SeparatorWidth
	seconds := distance / pixelsPerSecond

	return Scroll{
		Needed:   true,
		Duration: time.Duration(seconds * float64(time.Second)),
		Distance: distance,
	}
}
