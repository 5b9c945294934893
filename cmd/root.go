package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "fst",
	Short: "Focus Streak Tracker – time-on-site sessions and daily streaks",
	Long: `fst records focused time per site, derives daily streaks and nudges you
before a streak lapses, staying silent during quiet hours.
Data is stored in ~/.fst/ unless configured otherwise.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.fst/config.json)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Verbose development logging")

	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(streaksCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(quietCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(focusCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(serveCmd)
}
