// Package display renders overlays into a terminal. It is the reference
// Surface implementation: a single styled strip or banner redrawn in place,
// with marquee animation driven by an internal ticker.
package display

import (
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/minipop/minipop/internal/marquee"
	"github.com/minipop/minipop/internal/model"
	"github.com/minipop/minipop/internal/overlay"
)

// horizontal padding inside the strip, in cells per side
const padding = 1

// separator drawn between the end of scrolling text and its next repetition
const separator = "   ***   "

// TerminalSurface implements overlay.Surface on a terminal writer.
//
// Only one overlay exists at a time, matching the engine's single-slot
// model; Create while another overlay is attached replaces it.
type TerminalSurface struct {
	logger  *slog.Logger
	out     io.Writer
	columns int
	fps     int

	mu     sync.Mutex
	next   overlay.Handle
	active *terminalOverlay
}

type terminalOverlay struct {
	handle  overlay.Handle
	cfg     model.PresentationConfig
	content overlay.Content

	scrolling bool
	offset    int
	step      int
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewTerminalSurface creates a surface writing to out.
func NewTerminalSurface(out io.Writer, columns, fps int, logger *slog.Logger) *TerminalSurface {
	if logger == nil {
		logger = slog.Default()
	}
	return &TerminalSurface{
		logger:  logger,
		out:     out,
		columns: columns,
		fps:     fps,
	}
}

// Create attaches a new overlay strip.
func (s *TerminalSurface) Create(cfg model.PresentationConfig) (overlay.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		s.destroyLocked()
	}

	s.next++
	s.active = &terminalOverlay{handle: s.next, cfg: cfg}
	s.renderLocked()
	return s.next, nil
}

// Update patches the overlay content and redraws.
func (s *TerminalSurface) Update(h overlay.Handle, c overlay.Content) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil || s.active.handle != h {
		return &overlay.SurfaceError{Message: "update on unknown overlay"}
	}

	s.active.content = c
	s.active.cfg = c.Config
	s.renderLocked()
	return nil
}

// Destroy removes the overlay. Unknown handles are ignored.
func (s *TerminalSurface) Destroy(h overlay.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil || s.active.handle != h {
		return
	}
	s.destroyLocked()
}

// Measure returns the text width and the scrolling viewport width in cells.
// Font scale widens the measured text proportionally, approximating how
// scaled glyphs consume horizontal space.
func (s *TerminalSurface) Measure(h overlay.Handle, text string, fontScale int) (float64, float64) {
	textWidth := float64(lipgloss.Width(text)) * float64(fontScale) / 100.0
	viewportWidth := float64(s.columns - 2*padding)
	return textWidth, viewportWidth
}

// StartScroll begins the marquee animation.
func (s *TerminalSurface) StartScroll(h overlay.Handle, sc marquee.Scroll) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil || s.active.handle != h || s.active.scrolling {
		return
	}

	frames := int(sc.Duration.Seconds() * float64(s.fps))
	if frames < 1 {
		frames = 1
	}
	step := int(sc.Distance) / frames
	if step < 1 {
		step = 1
	}

	o := s.active
	o.scrolling = true
	o.offset = 0
	o.step = step
	o.stopCh = make(chan struct{})
	o.doneCh = make(chan struct{})

	go s.animate(o)
}

// StopScroll halts the marquee animation and resets the text offset.
func (s *TerminalSurface) StopScroll(h overlay.Handle) {
	s.mu.Lock()
	if s.active == nil || s.active.handle != h || !s.active.scrolling {
		s.mu.Unlock()
		return
	}
	o := s.active
	o.scrolling = false
	close(o.stopCh)
	s.mu.Unlock()

	<-o.doneCh

	s.mu.Lock()
	o.offset = 0
	if s.active == o {
		s.renderLocked()
	}
	s.mu.Unlock()
}

func (s *TerminalSurface) animate(o *terminalOverlay) {
	defer close(o.doneCh)

	ticker := time.NewTicker(time.Second / time.Duration(s.fps))
	defer ticker.Stop()

	for {
		select {
		case <-o.stopCh:
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.active != o {
				s.mu.Unlock()
				return
			}
			o.offset += o.step
			s.renderLocked()
			s.mu.Unlock()
		}
	}
}

// destroyLocked clears the strip. Caller holds s.mu.
func (s *TerminalSurface) destroyLocked() {
	o := s.active
	s.active = nil
	if o.scrolling {
		o.scrolling = false
		close(o.stopCh)
	}
	io.WriteString(s.out, "\r"+strings.Repeat(" ", s.columns)+"\r")
}

// renderLocked redraws the current frame. Caller holds s.mu.
func (s *TerminalSurface) renderLocked() {
	o := s.active
	if o == nil {
		return
	}

	style := lipgloss.NewStyle().
		Background(lipgloss.Color(o.cfg.BackgroundColor)).
		Foreground(lipgloss.Color(o.cfg.TextColor)).
		Padding(0, padding).
		Width(s.columns)
	if o.cfg.TextAlpha < 0.75 || o.cfg.BackgroundAlpha < 0.25 {
		style = style.Faint(true)
	}
	if o.cfg.FontScale >= 150 {
		style = style.Bold(true)
	}

	var frame string
	switch o.cfg.Style {
	case model.StyleBanner:
		title := lipgloss.NewStyle().Bold(true).Render(o.content.Title)
		frame = style.Render(title + "\n" + o.content.Body)
	default:
		frame = style.MaxHeight(1).Render(s.line(o))
	}

	io.WriteString(s.out, "\r"+frame)
}

// line produces the narrow strip's visible text window, rotated by the
// current scroll offset.
func (s *TerminalSurface) line(o *terminalOverlay) string {
	text := o.content.Title
	if o.content.Body != "" {
		if text != "" {
			text += ": "
		}
		text += o.content.Body
	}

	viewport := s.columns - 2*padding
	runes := []rune(text)
	if !o.scrolling || len(runes) <= viewport {
		return text
	}

	loop := []rune(text + separator)
	shift := o.offset % len(loop)
	rotated := append(append([]rune{}, loop[shift:]...), loop[:shift]...)
	if len(rotated) > viewport {
		rotated = rotated[:viewport]
	}
	return string(rotated)
}
