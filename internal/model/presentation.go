package model

import "fmt"

// Position represents where on screen the overlay is anchored.
type Position string

const (
	PositionTop    Position = "top"
	PositionBottom Position = "bottom"
)

// ValidPositions returns all valid position values.
func ValidPositions() []Position {
	return []Position{PositionTop, PositionBottom}
}

// Valid reports whether the position is a known value.
func (p Position) Valid() bool {
	for _, v := range ValidPositions() {
		if p == v {
			return true
		}
	}
	return false
}

// Style represents the overlay layout variant.
type Style string

const (
	// StyleNarrow is a single-line strip: icon followed by scrolling text.
	StyleNarrow Style = "narrow"
	// StyleBanner is a two-row card: icon and title above the body text.
	StyleBanner Style = "banner"
)

// ValidStyles returns all valid style values.
func ValidStyles() []Style {
	return []Style{StyleNarrow, StyleBanner}
}

// Valid reports whether the style is a known value.
func (s Style) Valid() bool {
	for _, v := range ValidStyles() {
		if s == v {
			return true
		}
	}
	return false
}

// Bounds for the numeric presentation parameters.
const (
	MinFontScale       = 50
	MaxFontScale       = 300
	MinDurationSeconds = 1
	MaxDurationSeconds = 600
	MinScrollSpeed     = 1
	MaxScrollSpeed     = 100
)

// ValidHexColor reports whether s is a #RRGGBB color string.
func ValidHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// PresentationConfig is the snapshot of visual parameters in effect when a
// display unit is created. Units carry their own snapshot so a settings
// change applies to the next event, never retroactively to a shown overlay.
type PresentationConfig struct {
	Position        Position `json:"position"`
	Style           Style    `json:"style"`
	BackgroundColor string   `json:"background_color"` // #RRGGBB
	TextColor       string   `json:"text_color"`       // #RRGGBB
	BackgroundAlpha float64  `json:"background_alpha"` // 0.0-1.0
	TextAlpha       float64  `json:"text_alpha"`       // 0.0-1.0
	FontScale       int      `json:"font_scale"`       // percent, 100 = normal
	DurationSeconds int      `json:"duration_seconds"`
	ScrollSpeed     int      `json:"scroll_speed"`
}

// Validate checks that the configuration is renderable.
func (c *PresentationConfig) Validate() error {
	if !c.Position.Valid() {
		return fmt.Errorf("invalid position %q, must be one of: %v", c.Position, ValidPositions())
	}
	if !c.Style.Valid() {
		return fmt.Errorf("invalid style %q, must be one of: %v", c.Style, ValidStyles())
	}
	if !ValidHexColor(c.BackgroundColor) {
		return fmt.Errorf("invalid background_color %q, expected #RRGGBB", c.BackgroundColor)
	}
	if !ValidHexColor(c.TextColor) {
		return fmt.Errorf("invalid text_color %q, expected #RRGGBB", c.TextColor)
	}
	if c.BackgroundAlpha < 0 || c.BackgroundAlpha > 1 {
		return fmt.Errorf("background_alpha must be between 0 and 1, got %v", c.BackgroundAlpha)
	}
	if c.TextAlpha < 0 || c.TextAlpha > 1 {
		return fmt.Errorf("text_alpha must be between 0 and 1, got %v", c.TextAlpha)
	}
	if c.FontScale < MinFontScale || c.FontScale > MaxFontScale {
		return fmt.Errorf("font_scale must be between %d and %d, got %d", MinFontScale, MaxFontScale, c.FontScale)
	}
	if c.DurationSeconds < MinDurationSeconds || c.DurationSeconds > MaxDurationSeconds {
		return fmt.Errorf("duration_seconds must be between %d and %d, got %d", MinDurationSeconds, MaxDurationSeconds, c.DurationSeconds)
	}
	if c.ScrollSpeed < MinScrollSpeed || c.ScrollSpeed > MaxScrollSpeed {
		return fmt.Errorf("scroll_speed must be between %d and %d, got %d", MinScrollSpeed, MaxScrollSpeed, c.ScrollSpeed)
	}

	return nil
}

// Structural reports whether switching from c to next requires tearing the
// overlay down and rebuilding it. Position and style changes swap between
// incompatible element trees; everything else can be patched in place.
func (c PresentationConfig) Structural(next PresentationConfig) bool {
	return c.Position != next.Position || c.Style != next.Style
}

// DefaultPresentationConfig returns the documented default appearance.
func DefaultPresentationConfig() PresentationConfig {
	return PresentationConfig{
		Position:        PositionTop,
		Style:           StyleNarrow,
		BackgroundColor: "#333333",
		TextColor:       "#000000",
		BackgroundAlpha: 0.5,
		TextAlpha:       1.0,
		FontScale:       100,
		DurationSeconds: 5,
		ScrollSpeed:     10,
	}
}
