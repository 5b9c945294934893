package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/focus-streak-tracker/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local daemon the browser extension talks to",
	Long: `Serves the message API on a local address and checks streaks
periodically, sending warnings through the configured notifier.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	addr := a.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		_ = a.tracker.Run(ctx, a.cfg.Server.CheckInterval())
	}()

	err = server.New(a.tracker, a.log).ListenAndServe(ctx, addr)
	stop()
	<-watchDone
	return err
}
