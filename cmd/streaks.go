package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

var streaksCmd = &cobra.Command{
	Use:   "streaks",
	Short: "List streaks and flag those about to lapse",
	Args:  cobra.NoArgs,
	RunE:  runStreaks,
}

func runStreaks(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	settings, err := a.tracker.Settings(ctx)
	if err != nil {
		return err
	}
	state, err := a.tracker.State(ctx, "")
	if err != nil {
		return err
	}
	printStreaks(state.Streaks, settings, time.Now())
	return nil
}
