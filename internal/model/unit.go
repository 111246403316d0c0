package model

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// DisplayUnit is the queued and displayable entity: a filtered, resolved
// event plus the presentation snapshot taken at creation time.
//
// The ID is a ULID: time-ordered and unique, so a dismiss timer can check
// whether it still refers to the unit that is actually on screen.
type DisplayUnit struct {
	ID         string
	Content    ResolvedContent
	SourceID   string
	Activation ActivationHandle
	Icon       []byte
	Persistent bool
	Config     PresentationConfig
	CreatedAt  time.Time
}

// NewDisplayUnit creates a DisplayUnit for an accepted event with the given
// resolved content and presentation snapshot.
func NewDisplayUnit(ev NotificationEvent, content ResolvedContent, cfg PresentationConfig) (*DisplayUnit, error) {
	now := time.Now()
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ULID: %w", err)
	}

	return &DisplayUnit{
		ID:         id.String(),
		Content:    content,
		SourceID:   ev.SourceID,
		Activation: ev.Activation,
		Icon:       ev.Icon,
		Persistent: ev.Persistent,
		Config:     cfg,
		CreatedAt:  now,
	}, nil
}

// Duration returns the auto-dismiss duration for the unit.
func (u *DisplayUnit) Duration() time.Duration {
	return time.Duration(u.Config.DurationSeconds) * time.Second
}
