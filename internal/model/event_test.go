package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationEventValidate(t *testing.T) {
	ev := NotificationEvent{SourceID: "org.example.mail", Timestamp: time.Now()}
	assert.NoError(t, ev.Validate())

	assert.ErrorIs(t, (&NotificationEvent{Timestamp: time.Now()}).Validate(), ErrEmptySourceID)
	assert.ErrorIs(t, (&NotificationEvent{SourceID: "  ", Timestamp: time.Now()}).Validate(), ErrEmptySourceID)
	assert.ErrorIs(t, (&NotificationEvent{SourceID: "org.example.mail"}).Validate(), ErrNoTimestamp)
}

func TestNewDisplayUnit(t *testing.T) {
	ev := NotificationEvent{
		SourceID:   "org.example.mail",
		Persistent: true,
		Activation: ActivationHandle("app:org.example.mail"),
		Icon:       []byte{1, 2, 3},
		Timestamp:  time.Now(),
	}
	content := ResolvedContent{Title: "Mail", Body: "hello"}
	cfg := DefaultPresentationConfig()

	unit, err := NewDisplayUnit(ev, content, cfg)
	require.NoError(t, err)

	assert.NotEmpty(t, unit.ID)
	assert.Equal(t, content, unit.Content)
	assert.Equal(t, "org.example.mail", unit.SourceID)
	assert.Equal(t, ev.Activation, unit.Activation)
	assert.Equal(t, ev.Icon, unit.Icon)
	assert.True(t, unit.Persistent)
	assert.Equal(t, cfg, unit.Config)
	assert.Equal(t, 5*time.Second, unit.Duration())
}

func TestDisplayUnitIDsAreUnique(t *testing.T) {
	ev := NotificationEvent{SourceID: "org.example.mail", Timestamp: time.Now()}
	content := ResolvedContent{Title: "a", Body: "b"}
	cfg := DefaultPresentationConfig()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		unit, err := NewDisplayUnit(ev, content, cfg)
		require.NoError(t, err)
		require.False(t, seen[unit.ID])
		seen[unit.ID] = true
	}
}

func TestResolvedContentLine(t *testing.T) {
	c := ResolvedContent{Title: "Mail", Body: "hello"}
	assert.Equal(t, "Mail: hello", c.Line())
}
