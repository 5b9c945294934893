package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/focus-streak-tracker/internal/timecalc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's sessions, streaks and quiet hours",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	now := time.Now()

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

	fmt.Printf("Today (%s, UTC%s):\n", timecalc.Today(now, settings.TZ), settings.TZ)
	printSessions(state.Sessions)
	fmt.Println("Streaks:")
	printStreaks(state.Streaks, settings, now)

	q, err := a.tracker.QuietStatus(ctx)
	if err != nil {
		return err
	}
	printQuiet(q)
	return nil
}
