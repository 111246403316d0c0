// Package model defines the core data structures for minipop.
package model

import (
	"errors"
	"strings"
	"time"
)

// MessageEntry is a single (sender, text) entry from a conversation-style
// notification. Entries are ordered oldest to newest.
type MessageEntry struct {
	Sender string `json:"sender,omitempty"`
	Text   string `json:"text"`
}

// Fields is the raw multi-field payload of a notification event. Producers
// routinely populate several fields at once; which one is the most specific
// is decided by the content resolver, not here.
type Fields struct {
	Title     string         `json:"title,omitempty"`
	Text      string         `json:"text,omitempty"`
	BigText   string         `json:"big_text,omitempty"`
	SubText   string         `json:"sub_text,omitempty"`
	Ticker    string         `json:"ticker,omitempty"`
	TextLines []string       `json:"text_lines,omitempty"`
	Messages  []MessageEntry `json:"messages,omitempty"`
}

// ActivationHandle is an opaque token usable to navigate to the event's
// originating context. It may be invalid or expired by the time it is used;
// callers must be prepared for activation to fail.
type ActivationHandle string

// NotificationEvent is a single posted notification as delivered by an
// inbound source. Immutable once constructed.
type NotificationEvent struct {
	// SourceID identifies the originating application (e.g. a desktop entry
	// or package name).
	SourceID string `json:"source_id"`

	// GroupSummary marks a synthetic roll-up event. These are never shown.
	GroupSummary bool `json:"group_summary,omitempty"`

	// Persistent marks an ongoing, non-dismissible notification.
	Persistent bool `json:"persistent,omitempty"`

	Fields Fields `json:"fields"`

	Activation ActivationHandle `json:"activation,omitempty"`

	// Icon holds raw encoded image bytes (PNG), or nil if the source
	// provided none.
	Icon []byte `json:"icon,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// Validation errors.
var (
	ErrEmptySourceID = errors.New("source_id cannot be empty")
	ErrNoTimestamp   = errors.New("timestamp must be set")
)

// Validate checks that the event has the fields every adapter must provide.
func (e *NotificationEvent) Validate() error {
	if strings.TrimSpace(e.SourceID) == "" {
		return ErrEmptySourceID
	}
	if e.Timestamp.IsZero() {
		return ErrNoTimestamp
	}
	return nil
}

// ResolvedContent is the single (title, body) pair extracted from an event's
// fields. Both strings are always non-empty.
type ResolvedContent struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Line renders the content as a single display line, the form used by the
// narrow overlay style and its marquee.
func (c ResolvedContent) Line() string {
	return c.Title + ": " + c.Body
}
