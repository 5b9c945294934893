package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var focusMinutes int

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Run a focus timer and notify when it ends",
	Long: `Runs a focus timer in the foreground. When it ends a focus-complete
notification is sent, subject to quiet hours. Ctrl-C cancels the timer.
Use the daemon's start_focus message for a background timer.`,
	Args: cobra.NoArgs,
	RunE: runFocus,
}

func init() {
	focusCmd.Flags().IntVarP(&focusMinutes, "minutes", "m", 0, "Focus length (default from settings)")
}

func runFocus(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	status, err := a.tracker.StartFocus(ctx, time.Duration(focusMinutes)*time.Minute)
	if err != nil {
		return err
	}
	fmt.Printf("Focus until %s. Press Ctrl-C to cancel.\n", highlight(status.EndsAt.Format("15:04")))

	done := a.tracker.FocusDone()
	select {
	case <-ctx.Done():
		if a.tracker.CancelFocus() {
			fmt.Println(warn("Focus cancelled."))
		}
	case <-done:
	}
	return nil
}
