package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/patchtools/patchlint/internal/db"
	"github.com/patchtools/patchlint/internal/output"
)

var flagHistoryLimit int

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "maximum number of runs to show")

	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded check runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var store *db.DB
		if cfg.History.DatabasePath != "" {
			store, err = db.Open(cfg.History.DatabasePath)
		} else {
			store, err = db.OpenUserDB()
		}
		if err != nil {
			return fmt.Errorf("opening history database: %w", err)
		}
		defer store.Close()

		runs, err := store.ListRuns(flagHistoryLimit)
		if err != nil {
			return err
		}
		stats, err := store.GetRunStats()
		if err != nil {
			return err
		}

		if output.IsJSON() {
			return output.OutputJSON(map[string]any{
				"runs":  runs,
				"stats": stats,
			})
		}

		if len(runs) == 0 {
			fmt.Println("No recorded runs")
			return nil
		}

		rows := make([][]string, 0, len(runs))
		for _, r := range runs {
			result := "OK"
			if !r.OK {
				result = fmt.Sprintf("FAILED (%d)", r.ErrorCount)
			}
			rows = append(rows, []string{
				r.CheckedAt.Local().Format(time.DateTime),
				r.Filename,
				r.Subject,
				result,
			})
		}
		output.OutputTable(os.Stdout, []string{"CHECKED", "FILE", "SUBJECT", "RESULT"}, rows)
		fmt.Printf("\n%d runs recorded: %d passed, %d failed\n", stats.Total, stats.Passed, stats.Failed)
		return nil
	},
}
