package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/focus-streak-tracker/internal/timecalc"
)

var (
	sessionsDate string
	sessionsWeek bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List sessions of a day or week",
	Args:  cobra.NoArgs,
	RunE:  runSessions,
}

func init() {
	sessionsCmd.Flags().StringVar(&sessionsDate, "date", "", "Day to list (YYYY-MM-DD, default today)")
	sessionsCmd.Flags().BoolVar(&sessionsWeek, "week", false, "List the whole week containing the day")
}

func runSessions(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if !sessionsWeek {
		state, err := a.tracker.State(ctx, sessionsDate)
		if err != nil {
			return err
		}
		printSessions(state.Sessions)
		return nil
	}

	settings, err := a.tracker.Settings(ctx)
	if err != nil {
		return err
	}
	day := sessionsDate
	if day == "" {
		day = timecalc.Today(time.Now(), settings.TZ)
	}
	from, to, err := timecalc.WeekRange(day)
	if err != nil {
		return err
	}
	sessions, err := a.store.LoadRange(ctx, from, to)
	if err != nil {
		return err
	}
	fmt.Printf("Week %s (%s to %s)\n", timecalc.ISOWeekLabel(day), from, to)
	printSessions(sessions)
	return nil
}
