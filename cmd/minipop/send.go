package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minipop/minipop/internal/notice"
)

var sendOpts struct {
	source       string
	title        string
	body         string
	bigText      string
	subText      string
	ticker       string
	iconPath     string
	groupSummary bool
	persistent   bool
}

// sendCmd posts a test notification through the session bus so the daemon
// picks it up like any other event.
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Post a test notification",
	Long: `Post a notification to the session bus.

The daemon observes it like any other notification, so this is the quickest
way to test filtering and overlay appearance end to end. The source must be
on the allow list for an overlay to appear.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sender, err := notice.NewSender()
		if err != nil {
			return err
		}
		defer sender.Close()

		id, err := sender.Send(notice.Options{
			Source:       sendOpts.source,
			Title:        sendOpts.title,
			Body:         sendOpts.body,
			BigText:      sendOpts.bigText,
			SubText:      sendOpts.subText,
			Ticker:       sendOpts.ticker,
			IconPath:     sendOpts.iconPath,
			GroupSummary: sendOpts.groupSummary,
			Persistent:   sendOpts.persistent,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Posted notification %d from %s.\n", id, sendOpts.source)
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendOpts.source, "source", "minipop-test", "Source identity")
	sendCmd.Flags().StringVar(&sendOpts.title, "title", "Test notification", "Title text")
	sendCmd.Flags().StringVar(&sendOpts.body, "body", "Hello from minipop", "Body text")
	sendCmd.Flags().StringVar(&sendOpts.bigText, "big-text", "", "Expanded text")
	sendCmd.Flags().StringVar(&sendOpts.subText, "sub-text", "", "Secondary text")
	sendCmd.Flags().StringVar(&sendOpts.ticker, "ticker", "", "Ticker text")
	sendCmd.Flags().StringVar(&sendOpts.iconPath, "icon", "", "Path to an icon image")
	sendCmd.Flags().BoolVar(&sendOpts.groupSummary, "group-summary", false, "Mark as a group summary")
	sendCmd.Flags().BoolVar(&sendOpts.persistent, "persistent", false, "Mark as persistent")
	rootCmd.AddCommand(sendCmd)
}
