// Package content extracts a single displayable (title, body) pair from the
// ambiguous multi-field payload of a notification event.
package content

import (
	"strings"

	"github.com/minipop/minipop/internal/model"
)

// Fallback strings used when an event carries no usable text at all.
const (
	FallbackTitle = "Notice"
	FallbackBody  = "received a non-standard message"
)

// Resolve produces the displayable content for an event. Pure and total: it
// never fails and both result strings are always non-blank.
//
// Body candidates are tried in a strict order, most specific first. This is
// deliberately a fallthrough and not a "pick longest" heuristic: producers
// populate several fields at once, and the order encodes which one carries
// the real message.
func Resolve(ev model.NotificationEvent) model.ResolvedContent {
	f := ev.Fields

	body := lastMessage(f.Messages)
	if body == "" {
		body = joinedLines(f.TextLines)
	}
	if body == "" {
		body = strings.TrimSpace(f.BigText)
	}
	if body == "" {
		body = strings.TrimSpace(f.Text)
	}
	if body == "" {
		body = strings.TrimSpace(f.SubText)
	}
	if body == "" {
		body = strings.TrimSpace(f.Ticker)
	}
	if body == "" {
		body = FallbackBody
	}

	title := strings.TrimSpace(f.Title)
	if title == "" {
		title = FallbackTitle
	}

	return model.ResolvedContent{Title: title, Body: body}
}

// lastMessage formats the newest conversation entry as "sender: text", or
// just the text when the sender is blank. Returns "" when there is no entry
// with usable text.
func lastMessage(messages []model.MessageEntry) string {
	if len(messages) == 0 {
		return ""
	}

	last := messages[len(messages)-1]
	text := strings.TrimSpace(last.Text)
	if text == "" {
		return ""
	}

	sender := strings.TrimSpace(last.Sender)
	if sender != "" {
		return sender + ": " + text
	}
	return text
}

// joinedLines joins the multi-line text field with newlines.
func joinedLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
