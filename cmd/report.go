package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/focus-streak-tracker/internal/activity"
	"github.com/Tiliavir/focus-streak-tracker/internal/model"
	"github.com/Tiliavir/focus-streak-tracker/internal/timecalc"
)

var (
	reportWeek   bool
	reportDate   string
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show active time per site for a week",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportWeek, "week", false, "Report for this week (default)")
	reportCmd.Flags().StringVar(&reportDate, "date", "", "Any day of the week to report (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

type siteTotal struct {
	SiteID        string  `json:"site_id"`
	Days          int     `json:"days"`
	ActiveMinutes float64 `json:"active_minutes"`
}

type weekReport struct {
	Week         string      `json:"week"`
	From         string      `json:"from"`
	To           string      `json:"to"`
	Sites        []siteTotal `json:"sites"`
	TotalMinutes float64     `json:"total_minutes"`
}

// aggregate sums sessions per site, sorted by site id.
func aggregate(sessions []model.Session) ([]siteTotal, float64) {
	bySite := map[string]*siteTotal{}
	var order []string
	var total float64
	for _, s := range sessions {
		st, ok := bySite[s.SiteID]
		if !ok {
			st = &siteTotal{SiteID: s.SiteID}
			bySite[s.SiteID] = st
			order = append(order, s.SiteID)
		}
		st.Days++
		st.ActiveMinutes = activity.Round2(st.ActiveMinutes + s.ActiveMinutes)
		total += s.ActiveMinutes
	}
	sort.Strings(order)

	out := make([]siteTotal, 0, len(order))
	for _, id := range order {
		out = append(out, *bySite[id])
	}
	return out, activity.Round2(total)
}

func runReport(cmd *cobra.Command, args []string) error {
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
	day := reportDate
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

	sites, total := aggregate(sessions)
	rep := weekReport{Week: timecalc.ISOWeekLabel(day), From: from, To: to, Sites: sites, TotalMinutes: total}

	switch reportFormat {
	case "csv":
		fmt.Println("site,days,active_minutes")
		for _, s := range rep.Sites {
			fmt.Printf("%s,%d,%.2f\n", csvEscape(s.SiteID), s.Days, s.ActiveMinutes)
		}
	case "json":
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		fmt.Println(string(data))
	case "md":
		fmt.Printf("Week %s\n", rep.Week)
		fmt.Println("--------------------------------------")
		for _, s := range rep.Sites {
			fmt.Printf("%-24s%2dd  %s\n", s.SiteID, s.Days, timecalc.FormatMinutes(s.ActiveMinutes))
		}
		fmt.Println("--------------------------------------")
		fmt.Printf("%-28s%s\n", "Total", timecalc.FormatMinutes(rep.TotalMinutes))
	default:
		return fmt.Errorf("unknown format %q", reportFormat)
	}
	return nil
}
