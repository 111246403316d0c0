package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/minipop/minipop/internal/filter"
)

// statusCmd summarizes the effective configuration.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show a summary of the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		selected := store.SelectedSources()
		fmt.Printf("Settings store:   %s\n", store.Dir())
		fmt.Printf("Allowed sources:  %d\n", len(selected))

		hours := store.ActiveHours()
		if len(hours) == 0 {
			fmt.Printf("Active hours:     %d-%d (default)\n", filter.DefaultFirstHour, filter.DefaultLastHour)
		} else {
			fmt.Printf("Active hours:     %s\n", formatHours(hours))
		}
		fmt.Printf("Persistent skip:  %t\n", store.PersistentBypassHours())

		cfg := store.Presentation()
		fmt.Printf("Overlay:          %s %s, %ds, speed %d\n",
			cfg.Position, cfg.Style, cfg.DurationSeconds, cfg.ScrollSpeed)

		if recents := store.RecentSources(); len(recents) > 0 {
			fmt.Printf("Last event:       %s (%s)\n",
				recents[0].SourceID, humanize.Time(recents[0].LastSeen))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
