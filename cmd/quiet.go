package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var quietCmd = &cobra.Command{
	Use:   "quiet",
	Short: "Show whether notifications are currently muted",
	Args:  cobra.NoArgs,
	RunE:  runQuiet,
}

func runQuiet(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	settings, err := a.tracker.Settings(cmd.Context())
	if err != nil {
		return err
	}
	q, err := a.tracker.QuietStatus(cmd.Context())
	if err != nil {
		return err
	}
	printQuiet(q)
	for _, r := range settings.QuietHours {
		fmt.Printf("  %02d:00-%02d:00\n", r.Start(), r.End())
	}
	return nil
}
