package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/minipop/minipop/internal/model"
	"github.com/minipop/minipop/internal/settings"
)

// configCmd represents the config command group.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage overlay appearance and behavior",
	Long: `Manage overlay appearance and behavior.

Changes apply to the next overlay the daemon shows; an overlay already on
screen is not restyled.

Use 'minipop config show' to see current values.
Use 'minipop config set <key> <value>' to change one.

Keys:
  position                 top | bottom
  style                    narrow | banner
  duration_seconds         1-600
  scroll_speed             1-100
  font_scale               50-300 (percent)
  background_color         #RRGGBB
  text_color               #RRGGBB
  background_alpha         0.0-1.0
  text_alpha               0.0-1.0
  persistent_bypass_hours  true | false`,
	RunE: configShowRun,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current overlay settings",
	RunE:  configShowRun,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one overlay setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applySetting(store, args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Set %s = %s.\n", args[0], args[1])
		return nil
	},
}

func configShowRun(cmd *cobra.Command, args []string) error {
	cfg := store.Presentation()
	fmt.Printf("%-24s %s\n", settings.KeyPosition, cfg.Position)
	fmt.Printf("%-24s %s\n", settings.KeyStyle, cfg.Style)
	fmt.Printf("%-24s %d\n", settings.KeyDurationSeconds, cfg.DurationSeconds)
	fmt.Printf("%-24s %d\n", settings.KeyScrollSpeed, cfg.ScrollSpeed)
	fmt.Printf("%-24s %d\n", settings.KeyFontScale, cfg.FontScale)
	fmt.Printf("%-24s %s\n", settings.KeyBackgroundColor, cfg.BackgroundColor)
	fmt.Printf("%-24s %s\n", settings.KeyTextColor, cfg.TextColor)
	fmt.Printf("%-24s %g\n", settings.KeyBackgroundAlpha, cfg.BackgroundAlpha)
	fmt.Printf("%-24s %g\n", settings.KeyTextAlpha, cfg.TextAlpha)
	fmt.Printf("%-24s %t\n", settings.KeyPersistentBypassHours, store.PersistentBypassHours())
	return nil
}

// applySetting routes one key/value pair to the store's typed setter.
func applySetting(store *settings.Store, key, value string) error {
	switch key {
	case settings.KeyPosition:
		return store.SetPosition(model.Position(value))
	case settings.KeyStyle:
		return store.SetStyle(model.Style(value))
	case settings.KeyDurationSeconds:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		return store.SetDuration(n)
	case settings.KeyScrollSpeed:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		return store.SetScrollSpeed(n)
	case settings.KeyFontScale:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		return store.SetFontScale(n)
	case settings.KeyBackgroundColor:
		return store.SetBackgroundColor(value)
	case settings.KeyTextColor:
		return store.SetTextColor(value)
	case settings.KeyBackgroundAlpha:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", value)
		}
		return store.SetBackgroundAlpha(f)
	case settings.KeyTextAlpha:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", value)
		}
		return store.SetTextAlpha(f)
	case settings.KeyPersistentBypassHours:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		return store.SetPersistentBypassHours(b)
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
