// Package overlay implements the single-slot overlay presentation engine:
// a serialized state machine that owns the one visible overlay, its pending
// replacement, and the timers that dismiss and animate it.
package overlay

import (
	"image"

	"github.com/minipop/minipop/internal/marquee"
	"github.com/minipop/minipop/internal/model"
)

// Handle identifies an overlay created on a rendering surface.
type Handle uint64

// Content is what the surface renders inside an overlay.
type Content struct {
	Title string
	Body  string

	// Icon is the decoded raster icon, or nil while decoding is still in
	// flight. Surfaces substitute their own placeholder for nil.
	Icon image.Image

	// Config carries the patchable visual attributes: colors, alphas, and
	// font scale. Position and style changes never arrive through Update;
	// they force a Destroy/Create cycle instead.
	Config model.PresentationConfig
}

// Surface is the rendering collaborator. Implementations own all visual
// detail; the engine only drives lifecycle and timing.
//
// All methods are invoked from the engine goroutine.
type Surface interface {
	// Create attaches a new overlay with the given configuration.
	Create(cfg model.PresentationConfig) (Handle, error)

	// Update patches the content of an existing overlay in place.
	Update(h Handle, c Content) error

	// Destroy tears the overlay down. Destroying an unknown handle is a
	// no-op.
	Destroy(h Handle)

	// Measure returns the rendered width of the overlay's scrollable text
	// and the width of the viewport it scrolls in, in the surface's own
	// unit.
	Measure(h Handle, text string, fontScale int) (textWidth, viewportWidth float64)

	// StartScroll begins the looping marquee animation.
	StartScroll(h Handle, s marquee.Scroll)

	// StopScroll halts any running marquee animation.
	StopScroll(h Handle)
}

// Navigator is the activation collaborator: it navigates to an event's
// originating context, or launches the source application as a fallback.
type Navigator interface {
	Activate(handle model.ActivationHandle) error
	Launch(sourceID string) error
}

// Notifier surfaces non-blocking failure notices to the user. It must never
// block the engine goroutine.
type Notifier interface {
	Notify(summary, body string)
}

// SurfaceError represents a rendering-surface failure.
type SurfaceError struct {
	Message string
	Cause   error
}

func (e *SurfaceError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *SurfaceError) Unwrap() error {
	return e.Cause
}
