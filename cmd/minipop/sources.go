package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// sourcesCmd represents the sources command group.
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage the notification source allow list",
	Long: `Manage which applications may show overlays.

Only events from allow-listed sources are displayed. Everything else is
dropped, so an empty allow list means no overlays at all.

Use 'minipop sources list' to see the allow list and recently seen sources.
Use 'minipop sources add <id>' to allow a source.
Use 'minipop sources remove <id>' to drop a source from the list.`,
	RunE: sourcesListRun,
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List allowed and recently seen sources",
	RunE:  sourcesListRun,
}

var sourcesAddCmd = &cobra.Command{
	Use:   "add <source-id>",
	Short: "Add a source to the allow list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := store.AddSource(args[0]); err != nil {
			return err
		}
		fmt.Printf("Added %s to the allow list.\n", args[0])
		return nil
	},
}

var sourcesRemoveCmd = &cobra.Command{
	Use:   "remove <source-id>",
	Short: "Remove a source from the allow list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := store.RemoveSource(args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed %s from the allow list.\n", args[0])
		return nil
	},
}

var sourcesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the allow list",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := store.SetSelectedSources(nil); err != nil {
			return err
		}
		fmt.Println("Allow list cleared: no overlays will be shown.")
		return nil
	},
}

func sourcesListRun(cmd *cobra.Command, args []string) error {
	selected := store.SelectedSources()
	if len(selected) == 0 {
		fmt.Println("Allow list is empty: no overlays will be shown.")
	} else {
		fmt.Println("Allowed sources:")
		for _, id := range selected {
			fmt.Printf("  %s\n", id)
		}
	}

	recents := store.RecentSources()
	if len(recents) == 0 {
		return nil
	}

	allowed := make(map[string]bool, len(selected))
	for _, id := range selected {
		allowed[id] = true
	}

	fmt.Println("\nRecently seen:")
	for _, r := range recents {
		marker := " "
		if allowed[r.SourceID] {
			marker = "*"
		}
		fmt.Printf("  %s %-40s %s\n", marker, r.SourceID, humanize.Time(r.LastSeen))
	}

	return nil
}

func init() {
	sourcesCmd.AddCommand(sourcesListCmd)
	sourcesCmd.AddCommand(sourcesAddCmd)
	sourcesCmd.AddCommand(sourcesRemoveCmd)
	sourcesCmd.AddCommand(sourcesClearCmd)
	rootCmd.AddCommand(sourcesCmd)
}
