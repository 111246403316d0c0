package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minipop/minipop/internal/filter"
)

// hoursCmd represents the hours command group.
var hoursCmd = &cobra.Command{
	Use:   "hours",
	Short: "Manage the active-hours window",
	Long: `Manage the hours during which overlays are shown.

Outside the active hours all events are suppressed. Hours are local clock
hours (0-23). Without explicit configuration the default window of
6 through 20 applies.

Use 'minipop hours show' to see the current window.
Use 'minipop hours set 8-17,20' to set an explicit window.
Use 'minipop hours reset' to return to the default window.`,
	RunE: hoursShowRun,
}

var hoursShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active-hours window",
	RunE:  hoursShowRun,
}

var hoursSetCmd = &cobra.Command{
	Use:   "set <hours>",
	Short: "Set the active-hours window",
	Long: `Set the active-hours window.

Hours are given as a comma-separated list of hours and ranges, for
example '8-17' or '6,12-14,20'. Ranges are inclusive.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hours, err := parseHours(args[0])
		if err != nil {
			return err
		}
		if err := store.SetActiveHours(hours); err != nil {
			return err
		}
		fmt.Printf("Active hours set to %s.\n", formatHours(hours))
		return nil
	},
}

var hoursResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Return to the default active-hours window",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := store.SetActiveHours(nil); err != nil {
			return err
		}
		fmt.Printf("Active hours reset to the default window (%d-%d).\n",
			filter.DefaultFirstHour, filter.DefaultLastHour)
		return nil
	},
}

func hoursShowRun(cmd *cobra.Command, args []string) error {
	hours := store.ActiveHours()
	if len(hours) == 0 {
		fmt.Printf("Active hours: %d-%d (default)\n", filter.DefaultFirstHour, filter.DefaultLastHour)
		return nil
	}
	fmt.Printf("Active hours: %s\n", formatHours(hours))
	return nil
}

// parseHours parses a comma-separated list of hours and inclusive ranges.
func parseHours(spec string) ([]int, error) {
	seen := make(map[int]bool)
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if from, to, ok := strings.Cut(part, "-"); ok {
			lo, err := parseHour(from)
			if err != nil {
				return nil, err
			}
			hi, err := parseHour(to)
			if err != nil {
				return nil, err
			}
			if lo > hi {
				return nil, fmt.Errorf("invalid range %q: start after end", part)
			}
			for h := lo; h <= hi; h++ {
				seen[h] = true
			}
			continue
		}

		h, err := parseHour(part)
		if err != nil {
			return nil, err
		}
		seen[h] = true
	}

	if len(seen) == 0 {
		return nil, fmt.Errorf("no hours in %q", spec)
	}

	hours := make([]int, 0, len(seen))
	for h := range seen {
		hours = append(hours, h)
	}
	sort.Ints(hours)
	return hours, nil
}

func parseHour(s string) (int, error) {
	h, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid hour %q", s)
	}
	if h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour %d, must be 0-23", h)
	}
	return h, nil
}

// formatHours renders a sorted hour set compactly, collapsing runs into
// ranges.
func formatHours(hours []int) string {
	var parts []string
	for i := 0; i < len(hours); {
		j := i
		for j+1 < len(hours) && hours[j+1] == hours[j]+1 {
			j++
		}
		if j > i {
			parts = append(parts, fmt.Sprintf("%d-%d", hours[i], hours[j]))
		} else {
			parts = append(parts, strconv.Itoa(hours[i]))
		}
		i = j + 1
	}
	return strings.Join(parts, ",")
}

func init() {
	hoursCmd.AddCommand(hoursShowCmd)
	hoursCmd.AddCommand(hoursSetCmd)
	hoursCmd.AddCommand(hoursResetCmd)
	rootCmd.AddCommand(hoursCmd)
}
