package cli

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/studytime/internal/analytics"
)

func newStatsCommand(cfgPath *string) *cobra.Command {
	var window int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the dashboard figures and suggestions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, cfg, closeStore, err := loadTasks(cmd, *cfgPath)
			if err != nil {
				return err
			}
			defer closeStore()

			days := window
			if days == 0 {
				days = cfg.Analytics.WindowDays
			}
			if !slices.Contains(analytics.WindowOptions, days) {
				return fmt.Errorf("window must be one of %v", analytics.WindowOptions)
			}

			now := time.Now()
			tasks := s.Tasks()
			k := analytics.ComputeKPIs(tasks, now, days)
			best := analytics.BestHourOfDay(k.WithinWindow, now.Location())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "window:      %s\n", analytics.WindowLabel(days))
			fmt.Fprintf(out, "tasks:       %d total, %d completed, %d active\n", k.Total, k.Completed, k.Active)
			fmt.Fprintf(out, "due in 7d:   %d\n", k.Due7)
			fmt.Fprintf(out, "overdue:     %d\n", k.Overdue)
			fmt.Fprintf(out, "streak:      %d day(s)\n", k.Streak)
			fmt.Fprintf(out, "carry-over:  %.0f%%\n", k.CarryOverRate*100)
			fmt.Fprintf(out, "small wins:  %d/%d\n", k.SmallWins.Done, k.SmallWins.Total)
			for _, sl := range analytics.PriorityData(k.ByPriority) {
				fmt.Fprintf(out, "priority %-6s %d\n", sl.Name+":", sl.Value)
			}
			if best.Count > 0 {
				fmt.Fprintf(out, "best hour:   %02d:00 (%d completed)\n", best.Hour, best.Count)
			}
			fmt.Fprintln(out, "suggestions:")
			for _, line := range analytics.Suggestions(k, best) {
				fmt.Fprintf(out, "  - %s\n", line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&window, "window", "w", 0, "trailing window in days: 7, 30, 90 or 365 (default analytics.window_days)")
	return cmd
}
