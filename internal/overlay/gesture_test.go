package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		dx   float64
		dy   float64
		want GestureAction
	}{
		{"long horizontal fling", 200, 20, GestureDismiss},
		{"long horizontal fling left", -200, 20, GestureDismiss},
		{"short horizontal movement", 80, 20, GestureActivate},
		{"exactly at threshold", 150, 0, GestureActivate},
		{"just past threshold", 151, 0, GestureDismiss},
		{"mostly vertical", 200, 300, GestureActivate},
		{"equal axes", 200, 200, GestureActivate},
		{"plain tap", 0, 0, GestureActivate},
		{"downward swipe", 5, -400, GestureActivate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(TouchRelease{DX: tt.dx, DY: tt.dy})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGestureActionString(t *testing.T) {
	assert.Equal(t, "activate", GestureActivate.String())
	assert.Equal(t, "dismiss", GestureDismiss.String())
}
