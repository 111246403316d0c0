package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/minipop/minipop/internal/model"
)

// noon returns a local time whose hour is 12, inside the default window.
func noon() time.Time {
	return time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)
}

// atHour returns a local time at the given hour.
func atHour(h int) time.Time {
	return time.Date(2025, 3, 10, h, 30, 0, 0, time.Local)
}

func allowed(sources ...string) Snapshot {
	set := make(map[string]bool, len(sources))
	for _, s := range sources {
		set[s] = true
	}
	return Snapshot{SelectedSources: set}
}

func TestDecide_GroupSummaryAlwaysRejected(t *testing.T) {
	snap := allowed("org.example.mail")
	ev := model.NotificationEvent{
		SourceID:     "org.example.mail",
		GroupSummary: true,
	}

	assert.Equal(t, RejectGroupSummary, Decide(ev, snap, noon()))
	assert.False(t, Accept(ev, snap, noon()))

	// Group summary wins even when every other rule would also reject.
	ev.SourceID = "org.example.other"
	assert.Equal(t, RejectGroupSummary, Decide(ev, snap, atHour(3)))
}

func TestDecide_SourceNotSelected(t *testing.T) {
	snap := allowed("org.example.mail")
	ev := model.NotificationEvent{SourceID: "org.example.chat"}

	assert.Equal(t, RejectSourceNotSelected, Decide(ev, snap, noon()))
}

func TestDecide_EmptyAllowListRejectsEverything(t *testing.T) {
	ev := model.NotificationEvent{SourceID: "org.example.mail"}

	assert.False(t, Accept(ev, Snapshot{}, noon()))
	assert.Equal(t, RejectSourceNotSelected, Decide(ev, Snapshot{}, noon()))
}

func TestDecide_ActiveHours(t *testing.T) {
	snap := allowed("org.example.mail")
	snap.ActiveHours = map[int]bool{9: true, 10: true}
	ev := model.NotificationEvent{SourceID: "org.example.mail"}

	assert.True(t, Accept(ev, snap, atHour(9)))
	assert.True(t, Accept(ev, snap, atHour(10)))
	assert.Equal(t, RejectOutsideActiveHours, Decide(ev, snap, atHour(11)))
	assert.Equal(t, RejectOutsideActiveHours, Decide(ev, snap, atHour(8)))
}

func TestDecide_DefaultHoursWindow(t *testing.T) {
	snap := allowed("org.example.mail")
	ev := model.NotificationEvent{SourceID: "org.example.mail"}

	// Boundary hours of the default 6-20 window.
	assert.True(t, Accept(ev, snap, atHour(6)))
	assert.True(t, Accept(ev, snap, atHour(20)))
	assert.False(t, Accept(ev, snap, atHour(5)))
	assert.False(t, Accept(ev, snap, atHour(21)))
	assert.False(t, Accept(ev, snap, atHour(23)))
}

func TestDecide_PersistentFollowsHoursByDefault(t *testing.T) {
	snap := allowed("org.example.media")
	ev := model.NotificationEvent{SourceID: "org.example.media", Persistent: true}

	assert.Equal(t, RejectOutsideActiveHours, Decide(ev, snap, atHour(3)))
}

func TestDecide_PersistentBypassHours(t *testing.T) {
	snap := allowed("org.example.media")
	snap.PersistentBypassHours = true

	persistent := model.NotificationEvent{SourceID: "org.example.media", Persistent: true}
	transient := model.NotificationEvent{SourceID: "org.example.media"}

	assert.True(t, Accept(persistent, snap, atHour(3)))
	// Bypass applies to persistent events only.
	assert.False(t, Accept(transient, snap, atHour(3)))
	// Still subject to the allow-list and group-summary rules.
	persistent.GroupSummary = true
	assert.False(t, Accept(persistent, snap, atHour(3)))
}

func TestDefaultActiveHours(t *testing.T) {
	hours := DefaultActiveHours()
	assert.Len(t, hours, 15)
	for h := 6; h <= 20; h++ {
		assert.True(t, hours[h], "hour %d should be active", h)
	}
	assert.False(t, hours[5])
	assert.False(t, hours[21])
}

func TestRejectReason_String(t *testing.T) {
	assert.Equal(t, "accepted", RejectNone.String())
	assert.Equal(t, "group-summary", RejectGroupSummary.String())
	assert.Equal(t, "source-not-selected", RejectSourceNotSelected.String())
	assert.Equal(t, "outside-active-hours", RejectOutsideActiveHours.String())
}
