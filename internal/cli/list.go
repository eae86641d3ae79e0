package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/studytime/internal/analytics"
	"github.com/sandeepkv93/studytime/internal/model"
	"github.com/sandeepkv93/studytime/internal/visibility"
)

func newListCommand(cfgPath *string) *cobra.Command {
	var status, priority, sortBy, query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print tasks through the same filters as the task view",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := visibility.DefaultFilters()
			var err error
			if f.Status, err = visibility.ParseStatus(status); err != nil {
				return err
			}
			if f.Priority, err = visibility.ParsePriorityFilter(priority); err != nil {
				return err
			}
			if f.SortBy, err = visibility.ParseSortMode(sortBy); err != nil {
				return err
			}
			f.Query = query

			s, _, closeStore, err := loadTasks(cmd, *cfgPath)
			if err != nil {
				return err
			}
			defer closeStore()

			all := s.Tasks()
			shown := visibility.Apply(all, f)
			out := cmd.OutOrStdout()
			if len(shown) == 0 {
				fmt.Fprintf(out, "no tasks match (%d total)\n", len(all))
				return nil
			}
			fmt.Fprintln(out, renderTaskTable(shown, time.Now()))
			fmt.Fprintf(out, "%d of %d tasks\n", len(shown), len(all))
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", string(visibility.StatusAll), "all, active or completed")
	cmd.Flags().StringVar(&priority, "priority", visibility.PriorityAll, "all, high, medium or low")
	cmd.Flags().StringVar(&sortBy, "sort", string(visibility.SortCreatedDesc), "created-desc, created-asc, due-asc, due-desc or priority-desc")
	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive title search")
	return cmd
}

func renderTaskTable(tasks []model.Task, now time.Time) string {
	rows := make([][]string, 0, len(tasks))
	for i, t := range tasks {
		done := " "
		if t.Completed {
			done = "x"
		}
		due := t.Due
		if analytics.IsOverdue(t, now) {
			due += " !"
		}
		est := ""
		if t.DurationMinutes > 0 {
			est = strconv.Itoa(t.DurationMinutes) + "m"
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), done, t.Title, string(t.Priority.Or(model.PriorityLow)), due, est, shortID(t.ID)})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "done", "title", "priority", "due", "est", "id").
		Rows(rows...).
		String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
