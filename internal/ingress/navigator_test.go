package ingress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDesktopNavigatorActivate(t *testing.T) {
	var launched []string
	nav := NewDesktopNavigator(nil)
	nav.launch = func(name string) error {
		launched = append(launched, name)
		return nil
	}

	require.NoError(t, nav.Activate("app:org.example.Mail"))
	assert.Equal(t, []string{"org.example.Mail"}, launched)

	assert.Error(t, nav.Activate("org.example.Mail"))
	assert.Error(t, nav.Activate("app:"))
	assert.Len(t, launched, 1)
}

func TestDesktopNavigatorLaunch(t *testing.T) {
	var launched []string
	nav := NewDesktopNavigator(nil)
	nav.launch = func(name string) error {
		launched = append(launched, name)
		return nil
	}

	require.NoError(t, nav.Launch("org.example.Mail"))
	assert.Equal(t, []string{"org.example.Mail"}, launched)

	assert.Error(t, nav.Launch(""))
}
