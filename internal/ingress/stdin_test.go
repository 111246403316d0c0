package ingress

import (
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minipop/minipop/internal/model"
)

func TestParseStdinLine(t *testing.T) {
	line := `{"source":"org.example.chat","title":"Ana","text":"hi","messages":[{"sender":"Ana","text":"hi"}],"persistent":true,"activation":"app:org.example.chat"}`
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	event, err := parseStdinLine([]byte(line), now)
	require.NoError(t, err)
	assert.Equal(t, "org.example.chat", event.SourceID)
	assert.Equal(t, "Ana", event.Fields.Title)
	assert.Equal(t, "hi", event.Fields.Text)
	require.Len(t, event.Fields.Messages, 1)
	assert.Equal(t, model.MessageEntry{Sender: "Ana", Text: "hi"}, event.Fields.Messages[0])
	assert.True(t, event.Persistent)
	assert.Equal(t, model.ActivationHandle("app:org.example.chat"), event.Activation)
	assert.Equal(t, now, event.Timestamp)
}

func TestParseStdinLineRejectsInvalidJSON(t *testing.T) {
	_, err := parseStdinLine([]byte("{nope"), time.Now())
	require.Error(t, err)

	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "stdin", srcErr.Source)
}

func TestParseStdinLineRejectsMissingSource(t *testing.T) {
	_, err := parseStdinLine([]byte(`{"title":"x"}`), time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrEmptySourceID)
}

func TestStdinSourceDeliversEvents(t *testing.T) {
	input := strings.Join([]string{
		`{"source":"org.a","title":"one"}`,
		``,
		`not json at all`,
		`{"source":"org.b","title":"two"}`,
	}, "\n")

	var mu sync.Mutex
	var got []string
	src := NewStdinSourceWithReader(strings.NewReader(input), nil)
	require.NoError(t, src.Start(func(ev *model.NotificationEvent) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, ev.SourceID)
	}))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"org.a", "org.b"}, got)
}

func TestStdinSourceStopHaltsDelivery(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	delivered := make(chan string, 10)
	src := NewStdinSourceWithReader(pr, nil)
	require.NoError(t, src.Start(func(ev *model.NotificationEvent) {
		delivered <- ev.SourceID
	}))

	_, err := pw.Write([]byte(`{"source":"org.a"}` + "\n"))
	require.NoError(t, err)
	select {
	case id := <-delivered:
		assert.Equal(t, "org.a", id)
	case <-time.After(time.Second):
		t.Fatal("expected first event")
	}

	require.NoError(t, src.Stop())
	_, err = pw.Write([]byte(`{"source":"org.b"}` + "\n"))
	require.NoError(t, err)

	select {
	case id := <-delivered:
		t.Fatalf("unexpected event after stop: %s", id)
	case <-time.After(200 * time.Millisecond):
	}
}
