package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Send warnings for streaks about to lapse",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	warnings, err := a.tracker.CheckStreaks(cmd.Context())
	if err != nil {
		return err
	}
	if len(warnings) == 0 {
		fmt.Println(muted("No streaks need attention."))
		return nil
	}
	for _, w := range warnings {
		fmt.Printf("%-30s %d days  %s\n", highlight(w.SiteID), w.Length, w.Outcome)
	}
	return nil
}
