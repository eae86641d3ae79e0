package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/studytime/internal/calendar"
)

func newExportCommand(cfgPath *string) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export-ics",
		Short: "Export dated tasks as an iCalendar file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, _, closeStore, err := loadTasks(cmd, *cfgPath)
			if err != nil {
				return err
			}
			defer closeStore()

			doc, n := calendar.ExportICS(s.Tasks(), time.Now())
			if outPath == "" || outPath == "-" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), doc)
				return err
			}
			if err := os.WriteFile(outPath, []byte(doc), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported %d event(s) to %s\n", n, outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}
