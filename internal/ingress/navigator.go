package ingress

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/minipop/minipop/internal/model"
)

// DesktopNavigator opens applications for activated overlays using the
// desktop launcher. Activation handles carry an "app:" prefix followed by
// the application identity.
type DesktopNavigator struct {
	logger *slog.Logger

	// launch is swappable for tests.
	launch func(name string) error
}

// NewDesktopNavigator creates a navigator for the local desktop session.
func NewDesktopNavigator(logger *slog.Logger) *DesktopNavigator {
	if logger == nil {
		logger = slog.Default()
	}
	n := &DesktopNavigator{logger: logger}
	n.launch = n.launchDetached
	return n
}

// Activate resolves an activation handle and opens its target.
func (n *DesktopNavigator) Activate(handle model.ActivationHandle) error {
	name, ok := strings.CutPrefix(string(handle), "app:")
	if !ok || name == "" {
		return fmt.Errorf("unusable activation handle %q", handle)
	}
	return n.launch(name)
}

// Launch opens the source application directly.
func (n *DesktopNavigator) Launch(sourceID string) error {
	if sourceID == "" {
		return fmt.Errorf("empty source id")
	}
	return n.launch(sourceID)
}

// launchDetached starts the application through gtk-launch and leaves it
// running independently of the daemon.
func (n *DesktopNavigator) launchDetached(name string) error {
	cmd := exec.Command("gtk-launch", name)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", name, err)
	}

	// Reap the child so finished launchers do not linger as zombies.
	go func() {
		if err := cmd.Wait(); err != nil {
			n.logger.Debug("launcher exited with error", "app", name, "error", err)
		}
	}()

	return nil
}
