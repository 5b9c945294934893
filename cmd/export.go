package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/focus-streak-tracker/internal/model"
	"github.com/Tiliavir/focus-streak-tracker/internal/timecalc"
)

var (
	exportFormat string
	exportFrom   string
	exportTo     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions and streaks to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, yaml")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "First day (YYYY-MM-DD, default start of this week)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "Last day (YYYY-MM-DD, default end of this week)")
}

type exportDoc struct {
	From     string          `json:"from" yaml:"from"`
	To       string          `json:"to" yaml:"to"`
	Sessions []model.Session `json:"sessions" yaml:"sessions"`
	Streaks  []model.Streak  `json:"streaks" yaml:"streaks"`
}

func runExport(cmd *cobra.Command, args []string) error {
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
	from, to, err := timecalc.WeekRange(timecalc.Today(time.Now(), settings.TZ))
	if err != nil {
		return err
	}
	if exportFrom != "" {
		from = exportFrom
	}
	if exportTo != "" {
		to = exportTo
	}

	sessions, err := a.store.LoadRange(ctx, from, to)
	if err != nil {
		return err
	}
	streaks, err := a.store.LoadStreaks(ctx)
	if err != nil {
		return err
	}
	doc := exportDoc{From: from, To: to, Sessions: sessions, Streaks: streaks}

	switch exportFormat {
	case "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		fmt.Println(string(data))
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	case "csv":
		printCSV(sessions)
	default:
		return fmt.Errorf("unknown format %q", exportFormat)
	}
	return nil
}

func printCSV(sessions []model.Session) {
	fmt.Println("date,site,session_id,active_minutes")
	for _, s := range sessions {
		fmt.Printf("%s,%s,%s,%.2f\n",
			s.Date,
			csvEscape(s.SiteID),
			csvEscape(s.ID),
			s.ActiveMinutes,
		)
	}
}
