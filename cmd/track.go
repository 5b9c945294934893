package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/focus-streak-tracker/internal/activity"
	"github.com/Tiliavir/focus-streak-tracker/internal/model"
	"github.com/Tiliavir/focus-streak-tracker/internal/timecalc"
)

var (
	trackDuration time.Duration
	trackAt       string
	trackURL      string
)

var trackCmd = &cobra.Command{
	Use:   "track <site>",
	Short: "Record an activity slot for a site",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrack,
}

func init() {
	trackCmd.Flags().DurationVarP(&trackDuration, "duration", "d", time.Minute, "Active time to record")
	trackCmd.Flags().StringVar(&trackAt, "at", "", "Time of the slot (RFC3339, default now)")
	trackCmd.Flags().StringVar(&trackURL, "url", "", "Page URL of the slot")
}

func runTrack(cmd *cobra.Command, args []string) error {
	var ts int64
	if trackAt != "" {
		at, err := time.Parse(time.RFC3339, trackAt)
		if err != nil {
			return fmt.Errorf("invalid --at %q: %w", trackAt, err)
		}
		ts = at.UnixMilli()
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	slot := model.ActivitySlot{
		SiteID:      args[0],
		URL:         trackURL,
		DurationSec: trackDuration.Seconds(),
		Timestamp:   ts,
	}
	state, err := a.tracker.RecordSlot(cmd.Context(), slot)
	if err != nil {
		return err
	}

	for _, s := range state.Sessions {
		if s.SiteID != slot.SiteID {
			continue
		}
		fmt.Printf("Recorded %s on %s (%s total on %s).\n",
			trackDuration.Round(time.Second), highlight(s.SiteID), timecalc.FormatMinutes(s.ActiveMinutes), s.Date)
	}
	if st, ok := activity.FindStreak(state.Streaks, slot.SiteID); ok {
		fmt.Printf("Streak: %s\n", formatStreak(st))
	}
	return nil
}
